package pipeline

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"smmaa-bot/internal/domain"
)

type stubContextRepo struct {
	knowledge    []domain.KnowledgeEntry
	knowledgeErr error
	events       []domain.CalendarEvent
	eventsErr    error
	voices       []domain.BrandVoice
	voicesErr    error
	recent       []string
	recentErr    error
}

func (s *stubContextRepo) ActiveKnowledge() ([]domain.KnowledgeEntry, error) {
	return s.knowledge, s.knowledgeErr
}

func (s *stubContextRepo) EventsBetween(time.Time, time.Time) ([]domain.CalendarEvent, error) {
	return s.events, s.eventsErr
}

func (s *stubContextRepo) ActiveBrandVoice() ([]domain.BrandVoice, error) {
	return s.voices, s.voicesErr
}

func (s *stubContextRepo) RecentPostContents(int) ([]string, error) {
	return s.recent, s.recentErr
}

type memoryCache struct {
	data map[string][]byte
	sets int
}

func (c *memoryCache) Set(key string, value []byte, _ time.Duration) error {
	if c.data == nil {
		c.data = map[string][]byte{}
	}
	c.data[key] = value
	c.sets++
	return nil
}

func (c *memoryCache) Get(key string) ([]byte, error) {
	return c.data[key], nil
}

func TestGatherFormatsAllBlocks(t *testing.T) {
	repo := &stubContextRepo{
		knowledge: []domain.KnowledgeEntry{
			{Category: "servicii", Title: "Transport", Content: "Flotă de omagiu disponibilă permanent."},
			{Category: "istoric", Title: "Fondare", Content: "Peste 20 de ani alături de comunitate."},
		},
		events: []domain.CalendarEvent{
			{Name: "Moșii de toamnă", Date: time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC), Importance: 3, AvoidSales: true},
		},
		voices: []domain.BrandVoice{
			{Attribute: "Ton", Value: "cald și demn", Avoid: []string{"limbaj comercial"}},
		},
		recent: []string{"postare recentă"},
	}
	aggregator := NewAggregator(repo, nil, 0, 10, 14, zerolog.Nop())

	bundle := aggregator.Gather()
	if !strings.Contains(bundle.Knowledge, "=== INFORMAȚII FUNEBRA BRAȘOV ===") {
		t.Fatal("antetul blocului de cunoștințe lipsește")
	}
	if !strings.Contains(bundle.Knowledge, "## ISTORIC") || !strings.Contains(bundle.Knowledge, "## SERVICII") {
		t.Fatal("cunoștințele trebuie grupate pe categorii")
	}
	if !strings.Contains(bundle.Calendar, "⭐⭐⭐") {
		t.Fatal("importanța evenimentului trebuie redată cu stele")
	}
	if !strings.Contains(bundle.Calendar, "Evită mesajele comerciale") {
		t.Fatal("marcajul de evitare a vânzărilor lipsește")
	}
	if !strings.Contains(bundle.BrandVoice, "cald și demn") {
		t.Fatal("vocea de brand lipsește")
	}
	if len(bundle.RecentPosts) != 1 {
		t.Fatalf("postările recente lipsesc: %+v", bundle.RecentPosts)
	}
}

func TestGatherDegradedReadDoesNotAbort(t *testing.T) {
	repo := &stubContextRepo{
		knowledgeErr: errors.New("bd indisponibilă"),
		events:       []domain.CalendarEvent{},
		voices:       []domain.BrandVoice{{Attribute: "Ton", Value: "cald"}},
		recent:       []string{"ceva"},
	}
	aggregator := NewAggregator(repo, nil, 0, 10, 14, zerolog.Nop())

	bundle := aggregator.Gather()
	if bundle.Knowledge != "" {
		t.Fatalf("blocul eșuat trebuie să rămână gol: %q", bundle.Knowledge)
	}
	if bundle.Calendar != "Nu sunt evenimente speciale în următoarele 2 săptămâni." {
		t.Fatalf("mesajul pentru calendar gol greșit: %q", bundle.Calendar)
	}
	if bundle.BrandVoice == "" || len(bundle.RecentPosts) != 1 {
		t.Fatal("celelalte blocuri trebuie citite în continuare")
	}
}

func TestGatherUsesCache(t *testing.T) {
	repo := &stubContextRepo{recent: []string{"prima citire"}}
	cache := &memoryCache{}
	aggregator := NewAggregator(repo, cache, time.Minute, 10, 14, zerolog.Nop())

	first := aggregator.Gather()
	if cache.sets != 1 {
		t.Fatalf("prima citire trebuie să scrie în cache, am numărat %d scrieri", cache.sets)
	}

	repo.recent = []string{"a doua citire"}
	second := aggregator.Gather()
	if len(second.RecentPosts) != 1 || second.RecentPosts[0] != first.RecentPosts[0] {
		t.Fatal("a doua citire trebuie servită din cache")
	}
	if cache.sets != 1 {
		t.Fatalf("citirea din cache nu trebuie să rescrie, am numărat %d scrieri", cache.sets)
	}
}
