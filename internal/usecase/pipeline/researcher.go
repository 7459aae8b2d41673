package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"smmaa-bot/internal/domain"
	"smmaa-bot/internal/infra/metrics"
)

const researcherSystemPrompt = `Ești "Bibliotecarul" - agentul de cercetare al sistemului SMMAA pentru Funebra Brașov.

ROLUL TĂU:
- Analizezi contextul furnizat (informații companie, calendar, istoric postări)
- Identifici informații relevante pentru cererea de conținut
- Semnalezi oportunități sau avertismente
- NU scrii conținut, doar pregătești informațiile

IEȘIRE:
Returnează un JSON cu structura:
{
  "relevantServices": ["lista serviciilor relevante pentru acest tip de postare"],
  "upcomingOpportunities": ["evenimente sau ocazii relevante"],
  "warnings": ["avertismente - ex: postare similară recentă, eveniment sensibil"],
  "keyFacts": ["fapte cheie de menționat"],
  "suggestedAngle": "un unghi/perspectivă unică pentru această postare"
}`

// Researcher sintetizează contextul agregat în semnale de relevanță.
type Researcher struct {
	gateway *Gateway
	log     zerolog.Logger
}

// NewResearcher creează etapa de cercetare.
func NewResearcher(gateway *Gateway, logger zerolog.Logger) *Researcher {
	return &Researcher{gateway: gateway, log: logger}
}

type researcherPayload struct {
	RelevantServices      []string `json:"relevantServices"`
	UpcomingOpportunities []string `json:"upcomingOpportunities"`
	Warnings              []string `json:"warnings"`
	KeyFacts              []string `json:"keyFacts"`
	SuggestedAngle        string   `json:"suggestedAngle"`
}

// Execute analizează cererea peste pachetul de context. Un răspuns care nu
// respectă contractul JSON degradează la contextul brut, fără liste derivate.
func (r *Researcher) Execute(ctx context.Context, request domain.GenerationRequest, bundle domain.ContextBundle) (domain.ResearchFindings, error) {
	custom := request.CustomPrompt
	if custom == "" {
		custom = "Niciuna"
	}
	recent := strings.Join(firstN(bundle.RecentPosts, 5), "\n---\n")
	if recent == "" {
		recent = "Nicio postare recentă"
	}

	userPrompt := fmt.Sprintf(`
CERERE DE CONȚINUT:
- Platformă: %s
- Tip postare: %s
- Ton: %s
- Instrucțiuni suplimentare: %s

CONTEXT COMPANIE:
%s

CALENDAR EVENIMENTE:
%s

GHID VOCE BRAND:
%s

PILONII DE CONȚINUT AI BRANDULUI:
%s

POSTĂRI RECENTE (ultimele 30 zile):
%s

Analizează și returnează JSON-ul cu informațiile relevante.`,
		request.Platform, request.PostType, request.Tone, custom,
		bundle.Knowledge, bundle.Calendar, bundle.BrandVoice, formatPillars(), recent)

	response, err := r.gateway.Call(ctx, researcherSystemPrompt, userPrompt, 0.2, 0)
	if err != nil {
		return domain.ResearchFindings{}, fmt.Errorf("cercetare: %w", err)
	}

	findings := domain.ResearchFindings{
		Knowledge:   bundle.Knowledge,
		Calendar:    bundle.Calendar,
		BrandVoice:  bundle.BrandVoice,
		RecentPosts: bundle.RecentPosts,
	}
	var parsed researcherPayload
	if err := ExtractJSON(response, &parsed); err != nil {
		r.log.Warn().Msg("cercetare: răspuns nevalid, folosesc contextul brut")
		metrics.IncStageFallback("researcher")
		return findings, nil
	}
	findings.RelevantServices = parsed.RelevantServices
	findings.Opportunities = parsed.UpcomingOpportunities
	findings.Warnings = parsed.Warnings
	findings.KeyFacts = parsed.KeyFacts
	findings.SuggestedAngle = strings.TrimSpace(parsed.SuggestedAngle)
	return findings, nil
}

// formatPillars listează pilonii de conținut ca reper editorial pentru model.
func formatPillars() string {
	var b strings.Builder
	for _, pillar := range contentPillars {
		fmt.Fprintf(&b, "- %s (%s): %s\n", pillar.Name, pillar.Focus, pillar.Narrative)
	}
	return strings.TrimSpace(b.String())
}

func firstN(values []string, n int) []string {
	if len(values) <= n {
		return values
	}
	return values[:n]
}
