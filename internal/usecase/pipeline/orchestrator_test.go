package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"smmaa-bot/internal/domain"
	"smmaa-bot/internal/infra/gemini"
)

type stubPostStore struct {
	saved   []domain.PostRecord
	saveErr error
}

func (s *stubPostStore) SavePost(record domain.PostRecord) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.saved = append(s.saved, record)
	return fmt.Sprintf("id-%d", len(s.saved)), nil
}

func (s *stubPostStore) PostByID(string) (domain.PostRecord, error) {
	return domain.PostRecord{}, nil
}
func (s *stubPostStore) PostsSince(time.Time, int) ([]domain.PostRecord, error) { return nil, nil }
func (s *stubPostStore) RatePost(string, int) error                             { return nil }
func (s *stubPostStore) MarkUsed(string, string) error                          { return nil }
func (s *stubPostStore) SetFavorite(string, bool) error                         { return nil }
func (s *stubPostStore) SchedulePost(string, time.Time) error                   { return nil }
func (s *stubPostStore) ListHistory(int) ([]domain.PostRecord, error)           { return nil, nil }
func (s *stubPostStore) ListFavorites() ([]domain.PostRecord, error)            { return nil, nil }
func (s *stubPostStore) ListScheduled() ([]domain.PostRecord, error)            { return nil, nil }

type stubPatternStore struct {
	hooks []domain.ContentPattern
}

func (s *stubPatternStore) UpsertPattern(domain.ContentPattern) error { return nil }
func (s *stubPatternStore) TopPatterns(domain.PatternKind, domain.Platform, domain.PostType, float64, int) ([]domain.ContentPattern, error) {
	return s.hooks, nil
}

type stubDetector struct {
	report domain.SimilarityReport
	seen   []string
}

func (s *stubDetector) Detect(content string) domain.SimilarityReport {
	s.seen = append(s.seen, content)
	return s.report
}

func newTestOrchestrator(client *stubClient, history domain.PostHistoryRepo,
	patterns domain.PatternRepo, detector SimilarityDetector) *Orchestrator {
	gateway, _ := newTestGateway(client)
	rnd := rand.New(rand.NewSource(7))
	return NewOrchestrator(OrchestratorDeps{
		Aggregator: NewAggregator(&stubContextRepo{}, nil, 0, 10, 14, zerolog.Nop()),
		Researcher: NewResearcher(gateway, zerolog.Nop()),
		Strategist: NewStrategist(gateway, rnd, zerolog.Nop()),
		Writer:     NewWriter(gateway, rnd, zerolog.Nop()),
		Editor:     NewEditor(gateway, zerolog.Nop()),
		Optimizer:  NewOptimizer(gateway, zerolog.Nop()),
		Detector:   detector,
		History:    history,
		Patterns:   patterns,
		Logger:     zerolog.Nop(),
	})
}

func fullPipelineCalls() []stubCall {
	return []stubCall{
		{text: "{}"}, // cercetător
		{text: "{}"}, // strateg
		{text: writerVariantJSON("Varianta sigură, scrisă sobru și instituțional pentru comunitate.")},
		{text: writerVariantJSON("Varianta creativă, construită în jurul unei metafore despre lumină.")},
		{text: writerVariantJSON("Varianta emoțională, cu amintiri calde despre cei dragi plecați.")},
		{text: "{}"}, // redactor
		{text: `{"hashtags":{"primary":["#FunebraBrașov","#Brașov"],"secondary":["#Amintiri"],"trending":["#Respect"]},"tip":"Sfatul optimizatorului."}`},
	}
}

func TestGenerateProducesOnePostPerVariant(t *testing.T) {
	client := &stubClient{calls: fullPipelineCalls()}
	history := &stubPostStore{}
	orchestrator := newTestOrchestrator(client, history, &stubPatternStore{}, &stubDetector{})

	result := orchestrator.Generate(context.Background(), testRequest())
	if !result.Success {
		t.Fatalf("generarea trebuia să reușească: %s", result.Error)
	}
	if len(result.Posts) != 3 {
		t.Fatalf("așteptam 3 postări, am %d", len(result.Posts))
	}
	kinds := []domain.VariantKind{domain.VariantSafe, domain.VariantCreative, domain.VariantEmotional}
	for i, kind := range kinds {
		if result.Posts[i].Variant.Kind != kind {
			t.Fatalf("postarea %d are varianta %s, așteptam %s", i, result.Posts[i].Variant.Kind, kind)
		}
		if result.Posts[i].ID == "" {
			t.Fatalf("postarea %d trebuia persistată cu identificator", i)
		}
		if len(result.Posts[i].Hashtags) != 4 {
			t.Fatalf("postarea %d trebuie să poarte toate hashtag-urile: %v", i, result.Posts[i].Hashtags)
		}
	}
	if len(history.saved) != 3 {
		t.Fatalf("trebuiau salvate 3 înregistrări, am %d", len(history.saved))
	}
	if len(client.requests) != 7 {
		t.Fatalf("pipeline-ul complet face 7 apeluri, am numărat %d", len(client.requests))
	}
}

func TestGeneratePersistenceFailureLeavesPostWithoutID(t *testing.T) {
	client := &stubClient{calls: fullPipelineCalls()}
	history := &stubPostStore{saveErr: errors.New("bd indisponibilă")}
	orchestrator := newTestOrchestrator(client, history, &stubPatternStore{}, &stubDetector{})

	result := orchestrator.Generate(context.Background(), testRequest())
	if !result.Success {
		t.Fatalf("eșecul de persistare nu trebuie să pice generarea: %s", result.Error)
	}
	if len(result.Posts) != 3 {
		t.Fatalf("postările trebuie întoarse oricum: %d", len(result.Posts))
	}
	for i, post := range result.Posts {
		if post.ID != "" {
			t.Fatalf("postarea %d nu trebuia să aibă identificator: %q", i, post.ID)
		}
	}
}

func TestGenerateStageFailureReturnsDiagnostic(t *testing.T) {
	client := &stubClient{calls: []stubCall{
		{err: &gemini.StatusError{StatusCode: 400, Message: "cerere respinsă"}},
	}}
	orchestrator := newTestOrchestrator(client, &stubPostStore{}, &stubPatternStore{}, &stubDetector{})

	result := orchestrator.Generate(context.Background(), testRequest())
	if result.Success {
		t.Fatal("eșecul primei etape trebuie să întoarcă Success=false")
	}
	if len(result.Posts) != 0 {
		t.Fatalf("la eșec nu trebuie postări: %d", len(result.Posts))
	}
	if result.Error == "" {
		t.Fatal("diagnosticul de eroare lipsește")
	}
}

func TestGenerateAttachesSimilarityReport(t *testing.T) {
	client := &stubClient{calls: fullPipelineCalls()}
	detector := &stubDetector{report: domain.SimilarityReport{
		IsSimilar: true,
		Warning:   "⚠️ Conținut similar cu 2 postări din ultimele 30 zile. Încearcă un unghi diferit.",
	}}
	orchestrator := newTestOrchestrator(client, &stubPostStore{}, &stubPatternStore{}, detector)

	result := orchestrator.Generate(context.Background(), testRequest())
	if !result.Similarity.IsSimilar {
		t.Fatal("raportul de similaritate trebuie atașat rezultatului")
	}
	if result.Similarity.Warning == "" {
		t.Fatal("avertismentul de similaritate lipsește")
	}
	if len(detector.seen) != 3 {
		t.Fatalf("fiecare variantă trebuie verificată: %d", len(detector.seen))
	}
}

func TestGenerateFeedsHookPatternsToWriter(t *testing.T) {
	hook := "Amintirile sunt podul dintre trecut și prezent"
	patterns := &stubPatternStore{hooks: []domain.ContentPattern{
		{Kind: domain.PatternHook, Pattern: hook, SuccessScore: 0.9},
	}}
	client := &stubClient{calls: fullPipelineCalls()}
	orchestrator := newTestOrchestrator(client, &stubPostStore{}, patterns, &stubDetector{})

	orchestrator.Generate(context.Background(), testRequest())
	if len(client.requests) != 7 {
		t.Fatalf("așteptam 7 apeluri, am %d", len(client.requests))
	}
	if !strings.Contains(client.requests[2].Prompt, hook) {
		t.Fatal("hook-ul învățat trebuie oferit scriitorului ca inspirație")
	}
}

func TestQuickGenerateSkipsResearchAndEditing(t *testing.T) {
	client := &stubClient{calls: []stubCall{
		{text: writerVariantJSON("Varianta sigură, un mesaj scurt și respectuos pentru comunitate.")},
		{text: writerVariantJSON("Varianta creativă, cu o imagine poetică despre amintiri.")},
		{text: writerVariantJSON("Varianta emoțională, despre căldura celor rămași împreună.")},
		{text: `{"hashtags":{"primary":["#FunebraBrașov"],"secondary":["#Amintiri"],"trending":["#Respect"]},"tip":"Sfat rapid."}`},
	}}
	orchestrator := newTestOrchestrator(client, &stubPostStore{}, &stubPatternStore{}, &stubDetector{})

	result := orchestrator.QuickGenerate(context.Background(), testRequest())
	if !result.Success {
		t.Fatalf("modul rapid trebuia să reușească: %s", result.Error)
	}
	if len(client.requests) != 4 {
		t.Fatalf("modul rapid face doar 4 apeluri, am numărat %d", len(client.requests))
	}
	if len(result.Posts) != 3 {
		t.Fatalf("așteptam 3 postări: %d", len(result.Posts))
	}
	for i, post := range result.Posts {
		if len(post.Hashtags) != 1 || post.Hashtags[0] != "#FunebraBrașov" {
			t.Fatalf("postarea %d trebuie să poarte doar hashtag-urile primare: %v", i, post.Hashtags)
		}
		if post.ID != "" {
			t.Fatalf("modul rapid nu persistă postări, postarea %d are ID %q", i, post.ID)
		}
	}
}

func TestQuickGenerateTipFromVocabularyCheck(t *testing.T) {
	client := &stubClient{calls: []stubCall{
		{text: writerVariantJSON("Nu ratați această perioadă de reculegere alături de cei dragi.")},
		{text: writerVariantJSON("Varianta creativă, cu o imagine poetică despre amintiri.")},
		{text: writerVariantJSON("Varianta emoțională, despre căldura celor rămași împreună.")},
		{text: `{"tip":"Sfat rapid."}`},
	}}
	orchestrator := newTestOrchestrator(client, &stubPostStore{}, &stubPatternStore{}, &stubDetector{})

	result := orchestrator.QuickGenerate(context.Background(), testRequest())
	if !strings.Contains(result.Posts[0].Tip, "reformulează") {
		t.Fatalf("vocabularul interzis trebuie să schimbe sfatul: %q", result.Posts[0].Tip)
	}
	if result.Posts[1].Tip != "Sfat rapid." {
		t.Fatalf("varianta curată păstrează sfatul optimizatorului: %q", result.Posts[1].Tip)
	}
}
