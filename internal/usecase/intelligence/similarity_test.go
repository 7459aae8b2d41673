package intelligence

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"smmaa-bot/internal/domain"
)

type stubHistory struct {
	records []domain.PostRecord
	err     error
	since   time.Time
}

func (s *stubHistory) SavePost(domain.PostRecord) (string, error) { return "", nil }
func (s *stubHistory) PostByID(string) (domain.PostRecord, error) {
	return domain.PostRecord{}, nil
}
func (s *stubHistory) PostsSince(since time.Time, _ int) ([]domain.PostRecord, error) {
	s.since = since
	return s.records, s.err
}
func (s *stubHistory) RatePost(string, int) error            { return nil }
func (s *stubHistory) MarkUsed(string, string) error         { return nil }
func (s *stubHistory) SetFavorite(string, bool) error        { return nil }
func (s *stubHistory) SchedulePost(string, time.Time) error  { return nil }
func (s *stubHistory) ListHistory(int) ([]domain.PostRecord, error) { return nil, nil }
func (s *stubHistory) ListFavorites() ([]domain.PostRecord, error)  { return nil, nil }
func (s *stubHistory) ListScheduled() ([]domain.PostRecord, error)  { return nil, nil }

func TestDetectFlagsIdenticalContent(t *testing.T) {
	content := "Amintirile frumoase rămân mereu alături de familiile îndoliate din Brașov."
	history := &stubHistory{records: []domain.PostRecord{{ID: "p1", Content: content}}}
	detector := NewDetector(history, 0.6, 30, zerolog.Nop())

	report := detector.Detect(content)
	if !report.IsSimilar {
		t.Fatal("conținutul identic trebuie semnalat")
	}
	if len(report.SimilarPosts) != 1 || report.SimilarPosts[0].Similarity < 0.99 {
		t.Fatalf("similaritatea pentru text identic trebuie să fie ~1: %+v", report.SimilarPosts)
	}
	if report.Warning == "" {
		t.Fatal("avertismentul lipsește")
	}
}

func TestDetectIgnoresDistinctContent(t *testing.T) {
	history := &stubHistory{records: []domain.PostRecord{
		{ID: "p1", Content: "Lumânările aprinse aduc lumină caldă în serile reci de toamnă târzie."},
	}}
	detector := NewDetector(history, 0.6, 30, zerolog.Nop())

	report := detector.Detect("Un mic gând bun azi.")
	if report.IsSimilar {
		t.Fatalf("conținutul diferit nu trebuie semnalat: %+v", report)
	}
}

func TestDetectKeepsTopThreeButCountsAll(t *testing.T) {
	content := "Amintirile frumoase rămân mereu alături de familiile îndoliate din Brașov."
	var records []domain.PostRecord
	for i := 0; i < 5; i++ {
		records = append(records, domain.PostRecord{ID: fmt.Sprintf("p%d", i), Content: content})
	}
	history := &stubHistory{records: records}
	detector := NewDetector(history, 0.6, 30, zerolog.Nop())

	report := detector.Detect(content)
	if len(report.SimilarPosts) != 3 {
		t.Fatalf("trebuie păstrate cel mult 3 potriviri, am %d", len(report.SimilarPosts))
	}
	if report.Warning != "⚠️ Conținut similar cu 5 postări din ultimele 30 zile. Încearcă un unghi diferit." {
		t.Fatalf("avertismentul trebuie să numere toate potrivirile: %q", report.Warning)
	}
	for i := 1; i < len(report.SimilarPosts); i++ {
		if report.SimilarPosts[i].Similarity > report.SimilarPosts[i-1].Similarity {
			t.Fatal("potrivirile trebuie ordonate descrescător")
		}
	}
}

func TestDetectSurvivesHistoryError(t *testing.T) {
	history := &stubHistory{err: errors.New("bd indisponibilă")}
	detector := NewDetector(history, 0.6, 30, zerolog.Nop())

	report := detector.Detect("orice text")
	if report.IsSimilar || len(report.SimilarPosts) != 0 {
		t.Fatalf("istoricul inaccesibil trebuie să dea raport gol: %+v", report)
	}
}

func TestDetectUsesConfiguredWindow(t *testing.T) {
	history := &stubHistory{}
	detector := NewDetector(history, 0.6, 30, zerolog.Nop())
	fixed := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	detector.now = func() time.Time { return fixed }

	detector.Detect("text")
	if !history.since.Equal(fixed.AddDate(0, 0, -30)) {
		t.Fatalf("fereastra de istoric greșită: %v", history.since)
	}
}

func TestExcerptTruncatesLongContent(t *testing.T) {
	long := ""
	for i := 0; i < 150; i++ {
		long += "ă"
	}
	short := excerpt(long, 100)
	if len([]rune(short)) != 103 {
		t.Fatalf("extrasul trebuie tăiat la 100 de rune plus sufix: %d", len([]rune(short)))
	}
	if excerpt("scurt", 100) != "scurt" {
		t.Fatal("textul scurt trebuie lăsat intact")
	}
}
