package pipeline

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"smmaa-bot/internal/domain"
)

const contextCacheKey = "smmaa:context_bundle"

// Aggregator citește cunoștințele de suport și le transformă în blocuri de text
// pentru prompturi. Eșecul unei citiri nu oprește restul: blocul rămâne gol.
type Aggregator struct {
	repo        domain.ContextRepo
	cache       domain.Cache
	cacheTTL    time.Duration
	recentLimit int
	daysAhead   int
	log         zerolog.Logger
}

// NewAggregator creează agregatorul de context.
func NewAggregator(repo domain.ContextRepo, cache domain.Cache, cacheTTL time.Duration, recentLimit, daysAhead int, logger zerolog.Logger) *Aggregator {
	if recentLimit <= 0 {
		recentLimit = 10
	}
	if daysAhead <= 0 {
		daysAhead = 14
	}
	return &Aggregator{repo: repo, cache: cache, cacheTTL: cacheTTL, recentLimit: recentLimit, daysAhead: daysAhead, log: logger}
}

// Gather citește cele patru blocuri în paralel și întoarce pachetul de context.
func (a *Aggregator) Gather() domain.ContextBundle {
	if cached, ok := a.fromCache(); ok {
		return cached
	}

	var bundle domain.ContextBundle
	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		entries, err := a.repo.ActiveKnowledge()
		if err != nil {
			a.log.Warn().Err(err).Msg("context: citirea cunoștințelor a eșuat")
			return
		}
		bundle.Knowledge = formatKnowledge(entries)
	}()
	go func() {
		defer wg.Done()
		now := time.Now()
		events, err := a.repo.EventsBetween(now, now.AddDate(0, 0, a.daysAhead))
		if err != nil {
			a.log.Warn().Err(err).Msg("context: citirea calendarului a eșuat")
			return
		}
		bundle.Calendar = formatCalendar(events)
	}()
	go func() {
		defer wg.Done()
		rows, err := a.repo.ActiveBrandVoice()
		if err != nil {
			a.log.Warn().Err(err).Msg("context: citirea vocii de brand a eșuat")
			return
		}
		bundle.BrandVoice = formatBrandVoice(rows)
	}()
	go func() {
		defer wg.Done()
		posts, err := a.repo.RecentPostContents(a.recentLimit)
		if err != nil {
			a.log.Warn().Err(err).Msg("context: citirea postărilor recente a eșuat")
			return
		}
		bundle.RecentPosts = posts
	}()

	wg.Wait()
	a.toCache(bundle)
	return bundle
}

func (a *Aggregator) fromCache() (domain.ContextBundle, bool) {
	if a.cache == nil || a.cacheTTL <= 0 {
		return domain.ContextBundle{}, false
	}
	raw, err := a.cache.Get(contextCacheKey)
	if err != nil || len(raw) == 0 {
		return domain.ContextBundle{}, false
	}
	var bundle domain.ContextBundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return domain.ContextBundle{}, false
	}
	return bundle, true
}

func (a *Aggregator) toCache(bundle domain.ContextBundle) {
	if a.cache == nil || a.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(bundle)
	if err != nil {
		return
	}
	if err := a.cache.Set(contextCacheKey, raw, a.cacheTTL); err != nil {
		a.log.Debug().Err(err).Msg("context: scrierea în cache a eșuat")
	}
}

func formatKnowledge(entries []domain.KnowledgeEntry) string {
	if len(entries) == 0 {
		return ""
	}
	grouped := make(map[string][]domain.KnowledgeEntry)
	var categories []string
	for _, entry := range entries {
		if _, ok := grouped[entry.Category]; !ok {
			categories = append(categories, entry.Category)
		}
		grouped[entry.Category] = append(grouped[entry.Category], entry)
	}
	sort.Strings(categories)

	var b strings.Builder
	b.WriteString("=== INFORMAȚII FUNEBRA BRAȘOV ===\n\n")
	for _, category := range categories {
		fmt.Fprintf(&b, "## %s\n", strings.ToUpper(category))
		for _, item := range grouped[category] {
			fmt.Fprintf(&b, "### %s\n%s\n\n", item.Title, item.Content)
		}
	}
	return b.String()
}

func formatCalendar(events []domain.CalendarEvent) string {
	if len(events) == 0 {
		return "Nu sunt evenimente speciale în următoarele 2 săptămâni."
	}
	var b strings.Builder
	b.WriteString("=== EVENIMENTE APROPIATE ===\n\n")
	for _, event := range events {
		fmt.Fprintf(&b, "%s (%s)\n", event.Name, event.Date.Format("2 January 2006"))
		fmt.Fprintf(&b, "   Importanță: %s\n", strings.Repeat("⭐", event.Importance))
		if len(event.ContentThemes) > 0 {
			fmt.Fprintf(&b, "   Temă: %s\n", strings.Join(event.ContentThemes, ", "))
		}
		if event.ToneRecommendation != "" {
			fmt.Fprintf(&b, "   Ton recomandat: %s\n", event.ToneRecommendation)
		}
		if event.AvoidSales {
			b.WriteString("   ⚠️ Evită mesajele comerciale\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatBrandVoice(rows []domain.BrandVoice) string {
	if len(rows) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("=== GHID VOCE BRAND ===\n\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "**%s**: %s\n", row.Attribute, row.Value)
		if len(row.Examples) > 0 {
			fmt.Fprintf(&b, "  Exemple: %s\n", strings.Join(row.Examples, ", "))
		}
		if len(row.Avoid) > 0 {
			fmt.Fprintf(&b, "  ❌ Evită: %s\n", strings.Join(row.Avoid, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}
