// Package feedback învață șabloane de conținut din evaluările utilizatorilor.
package feedback

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"smmaa-bot/internal/domain"
	"smmaa-bot/internal/infra/metrics"
)

// minHookLength este lungimea minimă a unui hook pentru a fi reținut ca șablon.
const minHookLength = 10

// Learner transformă evenimentele de feedback în șabloane reutilizabile.
// Doar postările cu rating mare sau efectiv folosite produc șabloane.
type Learner struct {
	history  domain.PostHistoryRepo
	patterns domain.PatternRepo
	now      func() time.Time
	log      zerolog.Logger
}

// NewLearner creează procesorul de feedback.
func NewLearner(history domain.PostHistoryRepo, patterns domain.PatternRepo, logger zerolog.Logger) *Learner {
	return &Learner{history: history, patterns: patterns, now: time.Now, log: logger}
}

// Handle aplică un eveniment de feedback: actualizează postarea și, pentru
// feedback pozitiv, extrage șabloanele de hook și de combinație de hashtag-uri.
// Idempotent: rularea repetată cu același eveniment nu creează rânduri noi.
func (l *Learner) Handle(event domain.FeedbackEvent) error {
	post, err := l.history.PostByID(event.PostID)
	if err != nil {
		metrics.FeedbackEventsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("citire postare %s: %w", event.PostID, err)
	}

	if event.Rating > 0 {
		if err := l.history.RatePost(event.PostID, event.Rating); err != nil {
			metrics.FeedbackEventsTotal.WithLabelValues("error").Inc()
			return fmt.Errorf("salvare rating: %w", err)
		}
	}
	if event.WasUsed {
		if err := l.history.MarkUsed(event.PostID, event.EditedContent); err != nil {
			metrics.FeedbackEventsTotal.WithLabelValues("error").Inc()
			return fmt.Errorf("marcare utilizare: %w", err)
		}
	}

	if event.Rating < 4 && !event.WasUsed {
		metrics.FeedbackEventsTotal.WithLabelValues("ignored").Inc()
		return nil
	}

	// O postare folosită fără rating explicit contează ca un rating de 4.
	rating := event.Rating
	if event.WasUsed && rating == 0 {
		rating = 4
	}
	success := float64(rating) / 5
	if err := l.learnHook(post, success); err != nil {
		metrics.FeedbackEventsTotal.WithLabelValues("error").Inc()
		return err
	}
	if err := l.learnHashtagCombo(post, success); err != nil {
		metrics.FeedbackEventsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.FeedbackEventsTotal.WithLabelValues("learned").Inc()
	l.log.Info().Str("post_id", event.PostID).Int("rating", event.Rating).Msg("șabloane actualizate din feedback")
	return nil
}

// learnHook reține prima propoziție ca șablon de hook.
func (l *Learner) learnHook(post domain.PostRecord, success float64) error {
	hook := firstSentence(post.Content)
	if len([]rune(hook)) <= minHookLength {
		return nil
	}
	err := l.patterns.UpsertPattern(domain.ContentPattern{
		Kind:         domain.PatternHook,
		Pattern:      hook,
		SuccessScore: success,
		Platform:     string(post.Platform),
		PostType:     string(post.PostType),
		UsageCount:   1,
		LastUsed:     l.now(),
	})
	if err != nil {
		return fmt.Errorf("salvare șablon hook: %w", err)
	}
	return nil
}

// learnHashtagCombo reține primele cinci hashtag-uri ca o combinație.
func (l *Learner) learnHashtagCombo(post domain.PostRecord, success float64) error {
	if len(post.Hashtags) <= 3 {
		return nil
	}
	combo := post.Hashtags
	if len(combo) > 5 {
		combo = combo[:5]
	}
	err := l.patterns.UpsertPattern(domain.ContentPattern{
		Kind:         domain.PatternHashtagCombo,
		Pattern:      strings.Join(combo, " "),
		SuccessScore: success,
		Platform:     string(post.Platform),
		PostType:     string(post.PostType),
		UsageCount:   1,
		LastUsed:     l.now(),
	})
	if err != nil {
		return fmt.Errorf("salvare combinație hashtag: %w", err)
	}
	return nil
}

// firstSentence taie la primul punct sau la primul rând nou.
func firstSentence(content string) string {
	if idx := strings.IndexAny(content, ".\n"); idx >= 0 {
		return strings.TrimSpace(content[:idx])
	}
	return strings.TrimSpace(content)
}
