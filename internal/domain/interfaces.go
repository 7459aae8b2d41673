package domain

import (
	"context"
	"time"
)

// ContextRepo expune citirile de context pentru agregator.
type ContextRepo interface {
	ActiveKnowledge() ([]KnowledgeEntry, error)
	EventsBetween(from, to time.Time) ([]CalendarEvent, error)
	ActiveBrandVoice() ([]BrandVoice, error)
	RecentPostContents(limit int) ([]string, error)
}

// PostHistoryRepo gestionează istoricul de postări generate.
type PostHistoryRepo interface {
	SavePost(record PostRecord) (string, error)
	PostByID(id string) (PostRecord, error)
	PostsSince(since time.Time, limit int) ([]PostRecord, error)
	RatePost(id string, rating int) error
	MarkUsed(id string, editedContent string) error
	SetFavorite(id string, favorite bool) error
	SchedulePost(id string, at time.Time) error
	ListHistory(limit int) ([]PostRecord, error)
	ListFavorites() ([]PostRecord, error)
	ListScheduled() ([]PostRecord, error)
}

// PatternRepo gestionează șabloanele de conținut învățate.
type PatternRepo interface {
	UpsertPattern(pattern ContentPattern) error
	TopPatterns(kind PatternKind, platform Platform, postType PostType, minScore float64, limit int) ([]ContentPattern, error)
}

// MediaAnalyzer produce analiza structurată a unui fișier media.
type MediaAnalyzer interface {
	Analyze(ctx context.Context, data []byte, mimeType string) (MediaAnalysis, error)
}

// Generator este operația expusă apelantului.
type Generator interface {
	Generate(ctx context.Context, request GenerationRequest) GenerationResult
	QuickGenerate(ctx context.Context, request GenerationRequest) GenerationResult
}

// FeedbackQueue transportă evenimentele de feedback către worker.
type FeedbackQueue interface {
	Publish(ctx context.Context, event FeedbackEvent) error
	Consume(ctx context.Context, handle func(FeedbackEvent) error) error
}

// Cache este un stocator simplu cu TTL.
type Cache interface {
	Set(key string, value []byte, ttl time.Duration) error
	Get(key string) ([]byte, error)
}
