package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"smmaa-bot/internal/domain"
	"smmaa-bot/internal/infra/metrics"
)

const editorSystemPrompt = `Ești "Gardianul Empatiei" - editorul sever dar corect al Funebra Brașov.

Evaluezi conținut pentru o casă funerară. Standardele tale:

CE VERIFICI:
1. GRAMATICĂ: română corectă, diacritice complete, fără calcuri din engleză.
2. SENSIBILITATE: nimic care ar putea răni o familie în doliu, fără termeni morbizi expliciți.
3. VOCEA BRANDULUI: ton respectuos, cald, demn. Niciodată comercial agresiv.
4. VOCABULAR: fără clișee de vânzare, fără promisiuni goale.
5. AUTENTICITATE: textul sună uman, nu generat.

CE NU VERIFICI NICIODATĂ:
- Lungimea textului. Nu comenta și nu penaliza numărul de cuvinte.

SCORURI (0-100):
- grammarScore: corectitudinea limbii
- sensitivityScore: respectul față de cititorul în doliu
- brandVoiceScore: potrivirea cu vocea unei instituții de încredere

Corectezi discret: păstrezi intenția autorului, repari doar ce e greșit.`

// Editor evaluează toate variantele într-un singur apel LLM și întoarce
// variantele corectate. Un răspuns nevalid nu blochează pipeline-ul:
// variantele trec mai departe neschimbate.
type Editor struct {
	gateway *Gateway
	log     zerolog.Logger
}

// NewEditor creează etapa de redactare.
func NewEditor(gateway *Gateway, logger zerolog.Logger) *Editor {
	return &Editor{gateway: gateway, log: logger}
}

type editorIssuePayload struct {
	Kind       string `json:"type"`
	Text       string `json:"text"`
	Suggestion string `json:"suggestion"`
	Severity   string `json:"severity"`
}

type editorVariantPayload struct {
	Variant string `json:"variant"`
	Content string `json:"content"`
}

type editorResponsePayload struct {
	Passed           bool                   `json:"passed"`
	GrammarScore     int                    `json:"grammarScore"`
	SensitivityScore int                    `json:"sensitivityScore"`
	BrandVoiceScore  int                    `json:"brandVoiceScore"`
	Issues           []editorIssuePayload   `json:"issues"`
	ImprovedVariants []editorVariantPayload `json:"improvedVariants"`
}

// Execute verifică cele trei variante și întoarce evaluarea plus variantele
// îmbunătățite, în aceeași ordine ca la intrare.
func (e *Editor) Execute(ctx context.Context, request domain.GenerationRequest, variants []domain.ContentVariant) (domain.EditReview, error) {
	response, err := e.gateway.Call(ctx, editorSystemPrompt, e.buildPrompt(request, variants), 0.3, 0)
	if err != nil {
		return domain.EditReview{}, fmt.Errorf("redactare: %w", err)
	}

	var parsed editorResponsePayload
	if err := ExtractJSON(response, &parsed); err != nil {
		e.log.Warn().Msg("redactare: răspuns nevalid, variantele trec neschimbate")
		metrics.IncStageFallback("editor")
		return passthroughReview(variants), nil
	}

	return domain.EditReview{
		Passed:           parsed.Passed,
		GrammarScore:     parsed.GrammarScore,
		SensitivityScore: parsed.SensitivityScore,
		BrandVoiceScore:  parsed.BrandVoiceScore,
		Issues:           convertIssues(parsed.Issues),
		ImprovedVariants: mergeImproved(variants, parsed.ImprovedVariants),
	}, nil
}

// QuickCheck face o verificare locală de vocabular, fără apel LLM. Folosită
// de modul rapid.
func (e *Editor) QuickCheck(content string) []domain.EditIssue {
	lower := strings.ToLower(content)
	var issues []domain.EditIssue
	for _, list := range [][]string{forbiddenVocabulary, forbiddenCliches} {
		for _, term := range list {
			if strings.Contains(lower, strings.ToLower(term)) {
				issues = append(issues, domain.EditIssue{
					Kind:       domain.IssueSensitivity,
					Text:       term,
					Suggestion: fmt.Sprintf("reformulează fără termenul %q", term),
					Severity:   domain.SeverityError,
				})
			}
		}
	}
	return issues
}

func (e *Editor) buildPrompt(request domain.GenerationRequest, variants []domain.ContentVariant) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Platformă: %s | Tip: %s | Ton: %s\n\n", request.Platform, request.PostType, request.Tone)
	b.WriteString("Verifică următoarele variante:\n")
	for _, variant := range variants {
		fmt.Fprintf(&b, "\n--- VARIANTA %s ---\n%s\n", strings.ToUpper(string(variant.Kind)), variant.Content)
	}
	b.WriteString(`
RETURNEAZĂ DOAR JSON:
{
  "passed": true,
  "grammarScore": 85,
  "sensitivityScore": 90,
  "brandVoiceScore": 85,
  "issues": [{"type": "grammar|sensitivity|brand_voice|diacritics", "text": "fragmentul problematic", "suggestion": "corectura", "severity": "error|warning|info"}],
  "improvedVariants": [{"variant": "safe|creative|emotional", "content": "textul complet corectat"}]
}`)
	return b.String()
}

func convertIssues(payloads []editorIssuePayload) []domain.EditIssue {
	issues := make([]domain.EditIssue, 0, len(payloads))
	for _, payload := range payloads {
		kind := domain.IssueKind(payload.Kind)
		// lungimea nu este niciodată o problemă semnalată de redactor
		if kind == domain.IssueLength {
			continue
		}
		issues = append(issues, domain.EditIssue{
			Kind:       kind,
			Text:       payload.Text,
			Suggestion: payload.Suggestion,
			Severity:   domain.IssueSeverity(payload.Severity),
		})
	}
	return issues
}

// mergeImproved aplică textele corectate peste variantele originale. O
// variantă fără corectură (sau cu text suspect de scurt) rămâne neschimbată.
func mergeImproved(variants []domain.ContentVariant, improved []editorVariantPayload) []domain.ContentVariant {
	out := make([]domain.ContentVariant, len(variants))
	copy(out, variants)
	for i := range out {
		for _, payload := range improved {
			if !strings.EqualFold(payload.Variant, string(out[i].Kind)) {
				continue
			}
			content := strings.TrimSpace(payload.Content)
			if len(content) >= 20 {
				out[i].Content = content
			}
		}
	}
	return out
}

func passthroughReview(variants []domain.ContentVariant) domain.EditReview {
	improved := make([]domain.ContentVariant, len(variants))
	copy(improved, variants)
	return domain.EditReview{
		Passed:           true,
		GrammarScore:     85,
		SensitivityScore: 90,
		BrandVoiceScore:  85,
		ImprovedVariants: improved,
	}
}
