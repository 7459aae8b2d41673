// Package repo conține adaptoarele de persistență peste PostgreSQL.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"smmaa-bot/internal/domain"
	"smmaa-bot/internal/infra/metrics"
)

// ErrPostNotFound se întoarce când identificatorul nu există în istoric.
var ErrPostNotFound = errors.New("postarea nu există")

// Postgres implementează depozitele pe pgxpool.
type Postgres struct {
	pool *pgxpool.Pool
}

var (
	_ domain.ContextRepo     = (*Postgres)(nil)
	_ domain.PostHistoryRepo = (*Postgres)(nil)
	_ domain.PatternRepo     = (*Postgres)(nil)
)

// NewPostgres creează adaptorul BD.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) connCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// ActiveKnowledge citește intrările active din baza de cunoștințe, cele mai
// prioritare primele.
func (p *Postgres) ActiveKnowledge() ([]domain.KnowledgeEntry, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, `
SELECT id, category, title, content, priority
FROM knowledge_base
WHERE is_active
ORDER BY priority DESC, category
`)
	metrics.ObserveNetworkRequest("postgres", "knowledge_list", "knowledge_base", start, err)
	if err != nil {
		return nil, fmt.Errorf("citire cunoștințe: %w", err)
	}
	defer rows.Close()

	var entries []domain.KnowledgeEntry
	for rows.Next() {
		entry := domain.KnowledgeEntry{IsActive: true}
		if err := rows.Scan(&entry.ID, &entry.Category, &entry.Title, &entry.Content, &entry.Priority); err != nil {
			return nil, fmt.Errorf("citire cunoștințe: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// EventsBetween citește evenimentele din calendar din intervalul dat.
func (p *Postgres) EventsBetween(from, to time.Time) ([]domain.CalendarEvent, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, `
SELECT id, name, event_date, importance, content_themes, tone_recommendation, avoid_sales
FROM calendar_events
WHERE event_date >= $1 AND event_date <= $2
ORDER BY event_date
`, from, to)
	metrics.ObserveNetworkRequest("postgres", "calendar_list", "calendar_events", start, err)
	if err != nil {
		return nil, fmt.Errorf("citire calendar: %w", err)
	}
	defer rows.Close()

	var events []domain.CalendarEvent
	for rows.Next() {
		var event domain.CalendarEvent
		if err := rows.Scan(&event.ID, &event.Name, &event.Date, &event.Importance,
			&event.ContentThemes, &event.ToneRecommendation, &event.AvoidSales); err != nil {
			return nil, fmt.Errorf("citire calendar: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// ActiveBrandVoice citește regulile active ale vocii de brand.
func (p *Postgres) ActiveBrandVoice() ([]domain.BrandVoice, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, `
SELECT id, attribute, value, examples, avoid
FROM brand_voice
WHERE is_active
ORDER BY attribute
`)
	metrics.ObserveNetworkRequest("postgres", "brand_voice_list", "brand_voice", start, err)
	if err != nil {
		return nil, fmt.Errorf("citire voce de brand: %w", err)
	}
	defer rows.Close()

	var voices []domain.BrandVoice
	for rows.Next() {
		voice := domain.BrandVoice{IsActive: true}
		if err := rows.Scan(&voice.ID, &voice.Attribute, &voice.Value, &voice.Examples, &voice.Avoid); err != nil {
			return nil, fmt.Errorf("citire voce de brand: %w", err)
		}
		voices = append(voices, voice)
	}
	return voices, rows.Err()
}

// RecentPostContents citește conținutul ultimelor postări generate.
func (p *Postgres) RecentPostContents(limit int) ([]string, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, `
SELECT content
FROM post_history
ORDER BY generated_at DESC
LIMIT $1
`, limit)
	metrics.ObserveNetworkRequest("postgres", "recent_posts", "post_history", start, err)
	if err != nil {
		return nil, fmt.Errorf("citire postări recente: %w", err)
	}
	defer rows.Close()

	var contents []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("citire postări recente: %w", err)
		}
		contents = append(contents, content)
	}
	return contents, rows.Err()
}

// SavePost inserează o postare nouă și întoarce identificatorul generat.
func (p *Postgres) SavePost(record domain.PostRecord) (string, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	id := record.ID
	if id == "" {
		id = uuid.NewString()
	}
	generatedAt := record.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}

	start := time.Now()
	_, err := p.pool.Exec(ctx, `
INSERT INTO post_history
    (id, platform, post_type, tone, variant_type, content, hashtags, custom_prompt, tip, engagement_predicted, generated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`, id, record.Platform, record.PostType, record.Tone, record.VariantKind, record.Content,
		record.Hashtags, record.CustomPrompt, record.Tip, record.Engagement, generatedAt)
	metrics.ObserveNetworkRequest("postgres", "post_insert", "post_history", start, err)
	if err != nil {
		return "", fmt.Errorf("salvare postare: %w", err)
	}
	return id, nil
}

// PostByID citește o postare după identificator.
func (p *Postgres) PostByID(id string) (domain.PostRecord, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	record, err := scanPost(p.pool.QueryRow(ctx, selectPostColumns+`
WHERE id = $1
`, id))
	metrics.ObserveNetworkRequest("postgres", "post_get", "post_history", start, err)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PostRecord{}, ErrPostNotFound
	}
	if err != nil {
		return domain.PostRecord{}, fmt.Errorf("citire postare: %w", err)
	}
	return record, nil
}

// PostsSince citește postările generate după momentul dat, cele mai noi primele.
func (p *Postgres) PostsSince(since time.Time, limit int) ([]domain.PostRecord, error) {
	return p.listPosts("posts_since", `
WHERE generated_at >= $1
ORDER BY generated_at DESC
LIMIT $2
`, since, limit)
}

// RatePost setează evaluarea utilizatorului.
func (p *Postgres) RatePost(id string, rating int) error {
	return p.updatePost("post_rate", `
UPDATE post_history SET user_rating = $2 WHERE id = $1
`, id, rating)
}

// MarkUsed marchează postarea ca folosită, opțional cu textul editat manual.
func (p *Postgres) MarkUsed(id string, editedContent string) error {
	return p.updatePost("post_mark_used", `
UPDATE post_history
SET was_used = TRUE,
    was_edited = was_edited OR $2 <> '',
    edited_content = CASE WHEN $2 <> '' THEN $2 ELSE edited_content END
WHERE id = $1
`, id, editedContent)
}

// SetFavorite comută marcajul de favorit.
func (p *Postgres) SetFavorite(id string, favorite bool) error {
	return p.updatePost("post_favorite", `
UPDATE post_history SET is_favorite = $2 WHERE id = $1
`, id, favorite)
}

// SchedulePost programează postarea la momentul dat.
func (p *Postgres) SchedulePost(id string, at time.Time) error {
	return p.updatePost("post_schedule", `
UPDATE post_history SET scheduled_for = $2 WHERE id = $1
`, id, at)
}

// ListHistory citește istoricul complet, cele mai noi primele.
func (p *Postgres) ListHistory(limit int) ([]domain.PostRecord, error) {
	return p.listPosts("post_list", `
ORDER BY generated_at DESC
LIMIT $1
`, limit)
}

// ListFavorites citește postările marcate ca favorite.
func (p *Postgres) ListFavorites() ([]domain.PostRecord, error) {
	return p.listPosts("post_list_favorites", `
WHERE is_favorite
ORDER BY generated_at DESC
`)
}

// ListScheduled citește postările programate, prima programare întâi.
func (p *Postgres) ListScheduled() ([]domain.PostRecord, error) {
	return p.listPosts("post_list_scheduled", `
WHERE scheduled_for IS NOT NULL
ORDER BY scheduled_for
`)
}

// UpsertPattern inserează sau actualizează un șablon, cheia fiind textul
// șablonului. Reaplicarea crește monoton contorul de utilizări.
func (p *Postgres) UpsertPattern(pattern domain.ContentPattern) error {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	_, err := p.pool.Exec(ctx, `
INSERT INTO content_patterns (pattern_type, pattern, success_score, platform, post_type, usage_count, last_used)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (pattern) DO UPDATE SET
    success_score = EXCLUDED.success_score,
    usage_count = content_patterns.usage_count + 1,
    last_used = EXCLUDED.last_used
`, pattern.Kind, pattern.Pattern, pattern.SuccessScore, pattern.Platform, pattern.PostType,
		pattern.UsageCount, pattern.LastUsed)
	metrics.ObserveNetworkRequest("postgres", "pattern_upsert", "content_patterns", start, err)
	if err != nil {
		return fmt.Errorf("salvare șablon: %w", err)
	}
	return nil
}

// TopPatterns citește șabloanele reușite pentru platformă și tip, acceptând
// și șabloanele generice marcate cu "all".
func (p *Postgres) TopPatterns(kind domain.PatternKind, platform domain.Platform, postType domain.PostType, minScore float64, limit int) ([]domain.ContentPattern, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, `
SELECT pattern_type, pattern, success_score, platform, post_type, usage_count, last_used
FROM content_patterns
WHERE pattern_type = $1
  AND (platform = $2 OR platform = $3)
  AND (post_type = $4 OR post_type = $3)
  AND success_score >= $5
ORDER BY success_score DESC
LIMIT $6
`, kind, platform, domain.PatternScopeAll, postType, minScore, limit)
	metrics.ObserveNetworkRequest("postgres", "pattern_top", "content_patterns", start, err)
	if err != nil {
		return nil, fmt.Errorf("citire șabloane: %w", err)
	}
	defer rows.Close()

	var patterns []domain.ContentPattern
	for rows.Next() {
		var pattern domain.ContentPattern
		if err := rows.Scan(&pattern.Kind, &pattern.Pattern, &pattern.SuccessScore,
			&pattern.Platform, &pattern.PostType, &pattern.UsageCount, &pattern.LastUsed); err != nil {
			return nil, fmt.Errorf("citire șabloane: %w", err)
		}
		patterns = append(patterns, pattern)
	}
	return patterns, rows.Err()
}

const selectPostColumns = `
SELECT id, platform, post_type, tone, variant_type, content, hashtags, custom_prompt, tip,
       engagement_predicted, COALESCE(user_rating, 0), was_used, was_edited,
       COALESCE(edited_content, ''), is_favorite, scheduled_for, generated_at
FROM post_history
`

func (p *Postgres) listPosts(operation, clause string, args ...any) ([]domain.PostRecord, error) {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, selectPostColumns+clause, args...)
	metrics.ObserveNetworkRequest("postgres", operation, "post_history", start, err)
	if err != nil {
		return nil, fmt.Errorf("citire istoric: %w", err)
	}
	defer rows.Close()

	var records []domain.PostRecord
	for rows.Next() {
		record, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("citire istoric: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (p *Postgres) updatePost(operation, query string, id string, arg any) error {
	ctx, cancel := p.connCtx()
	defer cancel()

	start := time.Now()
	tag, err := p.pool.Exec(ctx, query, id, arg)
	metrics.ObserveNetworkRequest("postgres", operation, "post_history", start, err)
	if err != nil {
		return fmt.Errorf("actualizare postare: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func scanPost(row pgx.Row) (domain.PostRecord, error) {
	var record domain.PostRecord
	err := row.Scan(&record.ID, &record.Platform, &record.PostType, &record.Tone, &record.VariantKind,
		&record.Content, &record.Hashtags, &record.CustomPrompt, &record.Tip,
		&record.Engagement, &record.Rating, &record.WasUsed, &record.WasEdited,
		&record.EditedContent, &record.IsFavorite, &record.ScheduledFor, &record.GeneratedAt)
	return record, err
}
