package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/rs/zerolog"

	"smmaa-bot/internal/domain"
	"smmaa-bot/internal/infra/metrics"
)

const strategistSystemPrompt = `Ești "Filosoful Marketingului" - strategul sistemului SMMAA pentru Funebra Brașov.

ROLUL TĂU:
- Planifici abordarea pentru conținut bazat pe psihologie
- Aplici principiile lui Cialdini (Reciprocitate, Dovadă Socială, Autoritate, Simpatie, Raritate, Unitate)
- Ții cont de psihologia doliului (stadiile Kübler-Ross)
- NU scrii conținut, doar strategia

PRINCIPII CIALDINI ADAPTATE:
1. RECIPROCITATE - Oferă valoare înainte de a cere ceva
2. DOVADĂ SOCIALĂ - "20+ ani de încredere", "1000+ familii deservite"
3. AUTORITATE - Expertiză, tradiții, cunoștințe
4. SIMPATIE - Arată echipa, valori comune, autenticitate
5. RARITATE - FOLOSEȘTE CU GRIJĂ - doar pentru evenimente limitate
6. UNITATE - Identitate românească, comunitate, tradiții comune

RETURNEAZĂ JSON:
{
  "objective": "educational|supportive|community|service|seasonal",
  "emotionalApproach": "descriere abordare emoțională",
  "persuasionPrinciple": "principiul Cialdini principal",
  "contentStructure": "hook-story-lesson-close | question-answer-insight-invite | statement-evidence-comfort-open",
  "keyMessage": "mesajul cheie în 1-2 propoziții",
  "angle": "unghiul unic impus de sistem",
  "serviceMention": "none|subtle|direct",
  "temperatures": {
    "safe": 0.3,
    "creative": 0.8,
    "emotional": 0.7
  },
  "hooks": ["3 opțiuni de hook"],
  "ctas": ["3 opțiuni de CTA soft"]
}`

// Unghiurile creative impuse: unul este ales aleator la fiecare rulare, înainte
// de apelul către model, ca să forțeze variație între rulări identice.
var creativeAngles = []string{
	"TIMPUL CA VINDECĂTOR: Explorează ideea trecerii timpului nu ca uitare, ci ca transformare.",
	"LOCUL GOL: Vorbește despre absență ca o formă de prezență continuă în suflet.",
	"CERUL ȘI PĂMÂNTUL: Folosește contrastul dintre efemer si etern.",
	"LINIȘTEA DE DUPĂ: Concentrează-te pe momentul de pace care vine după furtuna durerii.",
	"MOȘTENIREA INVIZIBILĂ: Ce rămâne în noi de la cei plecați (gesturi, vorbe, trăsături).",
	"MÂINILE CARE AJUTĂ: Îndreaptă focusul spre comunitate și sprijinul celor din jur.",
	"NATURA CA OGLINDĂ: Folosește anotimpurile sau elemente naturale ca metafore pentru viață.",
	"LUMINA DIN ÎNTUNERIC: Găsirea micilor bucurii chiar și în cele mai grele momente.",
	"VOCEA AMINTIRII: Cum sună amintirea cuiva drag? (vizual/auditiv).",
	"PUNTEA DINTRE LUMI: Ritualurile ca mod de conectare.",
}

// Temperaturile implicite per variantă, înainte de jitter.
const (
	baseTemperatureSafe      = 0.3
	baseTemperatureCreative  = 0.8
	baseTemperatureEmotional = 0.7
	temperatureSpread        = 0.1
)

// Strategist alege principiul de persuasiune, unghiul creativ și temperaturile
// per variantă pentru o rulare.
type Strategist struct {
	gateway *Gateway
	rnd     *rand.Rand
	log     zerolog.Logger
}

// NewStrategist creează etapa de strategie cu sursa de aleator injectată.
func NewStrategist(gateway *Gateway, rnd *rand.Rand, logger zerolog.Logger) *Strategist {
	return &Strategist{gateway: gateway, rnd: rnd, log: logger}
}

type strategistPayload struct {
	Objective           string   `json:"objective"`
	EmotionalApproach   string   `json:"emotionalApproach"`
	PersuasionPrinciple string   `json:"persuasionPrinciple"`
	ContentStructure    string   `json:"contentStructure"`
	KeyMessage          string   `json:"keyMessage"`
	Angle               string   `json:"angle"`
	ServiceMention      string   `json:"serviceMention"`
	Temperatures        *struct {
		Safe      float64 `json:"safe"`
		Creative  float64 `json:"creative"`
		Emotional float64 `json:"emotional"`
	} `json:"temperatures"`
	Hooks []string `json:"hooks"`
	CTAs  []string `json:"ctas"`
}

// Execute construiește strategia în jurul unui unghi creativ impus.
func (s *Strategist) Execute(ctx context.Context, request domain.GenerationRequest, research domain.ResearchFindings) (domain.Strategy, error) {
	assignedAngle := pick(s.rnd, creativeAngles)

	custom := request.CustomPrompt
	if custom == "" {
		custom = "Standard"
	}
	services := strings.Join(research.RelevantServices, ", ")
	if services == "" {
		services = "Generale"
	}
	warnings := strings.Join(research.Warnings, ", ")
	if warnings == "" {
		warnings = "Niciuna"
	}

	var brandSection string
	if request.BrandSettings != nil {
		brandSection = fmt.Sprintf(`
SETTINGS BRAND:
- Nume: %s
- Descriere: %s
- Ton (1-10): Formal-Informal=%d, Emoțional=%d, Religios=%d
`, request.BrandSettings.CompanyName, request.BrandSettings.Description,
			request.BrandSettings.ToneBalance, request.BrandSettings.EmotionalLevel, request.BrandSettings.ReligiousLevel)
	}

	userPrompt := fmt.Sprintf(`
CERERE:
- Platformă: %s
- Tip postare: %s
- Ton: %s
- Instrucțiuni: %s

CONTEXT DIN CERCETARE:
- Servicii relevante: %s
- Avertismente: %s

CALENDAR:
%s

VOCE BRAND:
%s
%s
IMPORTANT: Strategia TREBUIE să fie construită în jurul acestui UNGHI CREATIV specific:
👉 UNGHI IMPUS: "%s"
Dezvoltă "keyMessage" și "hooks" pornind strict de la acest unghi.

Planifică strategia și returnează JSON-ul.`,
		request.Platform, request.PostType, request.Tone, custom,
		services, warnings, research.Calendar, research.BrandVoice, brandSection, assignedAngle)

	response, err := s.gateway.Call(ctx, strategistSystemPrompt, userPrompt, 0.5, 0)
	if err != nil {
		return domain.Strategy{}, fmt.Errorf("strategie: %w", err)
	}

	var parsed strategistPayload
	if err := ExtractJSON(response, &parsed); err != nil {
		s.log.Warn().Msg("strategie: răspuns nevalid, folosesc strategia implicită")
		metrics.IncStageFallback("strategist")
		strategy := DefaultStrategy(request.PostType)
		strategy.Angle = assignedAngle
		return strategy, nil
	}

	strategy := domain.Strategy{
		Objective:           valueOr(parsed.Objective, string(request.PostType)),
		EmotionalApproach:   valueOr(parsed.EmotionalApproach, "Cald și empatic"),
		PersuasionPrinciple: valueOr(parsed.PersuasionPrinciple, "Autoritate"),
		ContentStructure:    valueOr(parsed.ContentStructure, "hook-story-lesson-close"),
		KeyMessage:          parsed.KeyMessage,
		Angle:               valueOr(parsed.Angle, assignedAngle),
		ServiceMention:      domain.ServiceMention(valueOr(parsed.ServiceMention, string(domain.MentionNone))),
		Temperatures:        defaultTemperatures(),
		Hooks:               parsed.Hooks,
		CTAs:                parsed.CTAs,
	}
	if parsed.Temperatures != nil {
		strategy.Temperatures = domain.VariantTemperatures{
			Safe:      parsed.Temperatures.Safe,
			Creative:  parsed.Temperatures.Creative,
			Emotional: parsed.Temperatures.Emotional,
		}
	}
	if len(strategy.CTAs) == 0 {
		strategy.CTAs = []string{"Suntem aici pentru dumneavoastră."}
	}
	return strategy, nil
}

// DefaultStrategy întoarce strategia deterministă per tip de postare.
func DefaultStrategy(postType domain.PostType) domain.Strategy {
	base := domain.Strategy{
		Objective:           "educational",
		EmotionalApproach:   "Informativ dar cald",
		PersuasionPrinciple: "Autoritate",
		ServiceMention:      domain.MentionNone,
	}
	switch postType {
	case domain.PostTypeService:
		base.Objective = "service"
		base.EmotionalApproach = "Profesional și îngrijitor"
		base.ServiceMention = domain.MentionSubtle
	case domain.PostTypeCommunity:
		base.Objective = "community"
		base.EmotionalApproach = "Cald și personal"
		base.PersuasionPrinciple = "Simpatie"
	case domain.PostTypeSeasonal:
		base.Objective = "seasonal"
		base.EmotionalApproach = "Reverent și tradițional"
		base.PersuasionPrinciple = "Unitate"
	case domain.PostTypeSupportive:
		base.Objective = "supportive"
		base.EmotionalApproach = "Empatic și validant"
		base.PersuasionPrinciple = "Reciprocitate"
	}
	base.ContentStructure = "hook-story-lesson-close"
	base.Angle = "Suport și Împărtășire"
	base.Temperatures = defaultTemperatures()
	base.CTAs = []string{"Suntem aici pentru dumneavoastră."}
	return base
}

func defaultTemperatures() domain.VariantTemperatures {
	return domain.VariantTemperatures{
		Safe:      baseTemperatureSafe,
		Creative:  baseTemperatureCreative,
		Emotional: baseTemperatureEmotional,
	}
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
