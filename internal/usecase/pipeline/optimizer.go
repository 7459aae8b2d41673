package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"smmaa-bot/internal/domain"
	"smmaa-bot/internal/infra/metrics"
)

const optimizerSystemPrompt = `Ești "Data Scientist" - optimizatorul sistemului SMMAA pentru Funebra Brașov.

ROLUL TĂU:
- Generezi hashtag-uri relevante (românești și locale)
- Prezici engagement-ul
- Sugerezi timing-ul optim pentru postare
- Recomandări vizuale

HASHTAG-URI PE PLATFORMĂ:
- Facebook: 5-10 hashtags
- Instagram: 15-20 hashtags
- TikTok: 4-6 hashtags

CATEGORII HASHTAG:
1. Brand: #FunebraBrașov #Funebra
2. Locale: #Brașov #Transilvania #România
3. Nișă: #ServiciiFunerare #SprijinDoliu #Tradiții
4. Emoționale: #Amintiri #IubireVeșnică #MemorieVie
5. Trending: hashtag-uri populare relevante

TIMING OPTIM:
- Facebook: 18:00-20:00, 12:00-13:00
- Instagram: 11:00-13:00, 19:00-21:00
- TikTok: 19:00-22:00

RETURNEAZĂ JSON:
{
  "hashtags": {
    "primary": ["hashtags principale - max 5"],
    "secondary": ["hashtags secundare - max 10"],
    "trending": ["hashtags trending relevante - max 3"]
  },
  "engagementPrediction": {
    "score": 0-100,
    "breakdown": {
      "hook": 0-20,
      "emotion": 0-25,
      "platformFit": 0-15,
      "timing": 0-15,
      "visual": 0-10,
      "hashtags": 0-15
    },
    "confidence": "low|medium|high"
  },
  "postingSuggestion": {
    "bestTimes": ["18:00-20:00"],
    "bestDays": ["Marți", "Joi"],
    "avoid": ["Duminică dimineața"]
  },
  "visualRecommendation": "descriere imagine recomandată",
  "tip": "sfat practic pentru această postare"
}`

// Optimizer derivă hashtag-uri, fereastra de postare și recomandarea vizuală.
// Orice eșec de parsare cade pe tabelele implicite per platformă și tip.
type Optimizer struct {
	gateway *Gateway
	log     zerolog.Logger
}

// NewOptimizer creează etapa de optimizare.
func NewOptimizer(gateway *Gateway, logger zerolog.Logger) *Optimizer {
	return &Optimizer{gateway: gateway, log: logger}
}

type hashtagsPayload struct {
	Primary   []string `json:"primary"`
	Secondary []string `json:"secondary"`
	Trending  []string `json:"trending"`
}

type engagementPayload struct {
	Score     int `json:"score"`
	Breakdown struct {
		Hook        int `json:"hook"`
		Emotion     int `json:"emotion"`
		PlatformFit int `json:"platformFit"`
		Timing      int `json:"timing"`
		Visual      int `json:"visual"`
		Hashtags    int `json:"hashtags"`
	} `json:"breakdown"`
	Confidence string `json:"confidence"`
}

type postingPayload struct {
	BestTimes []string `json:"bestTimes"`
	BestDays  []string `json:"bestDays"`
	Avoid     []string `json:"avoid"`
}

type optimizerPayload struct {
	Hashtags             *hashtagsPayload   `json:"hashtags"`
	EngagementPrediction *engagementPayload `json:"engagementPrediction"`
	PostingSuggestion    *postingPayload    `json:"postingSuggestion"`
	VisualRecommendation string             `json:"visualRecommendation"`
	Tip                  string             `json:"tip"`
}

// Execute optimizează cea mai promițătoare variantă (de regulă cea emoțională).
func (o *Optimizer) Execute(ctx context.Context, request domain.GenerationRequest, variants []domain.ContentVariant) (domain.Optimization, error) {
	best := bestVariant(variants)

	userPrompt := fmt.Sprintf(`
PLATFORMĂ: %s
TIP POSTARE: %s

CONȚINUT DE OPTIMIZAT:
%s

Analizează și returnează JSON-ul cu optimizări.`, request.Platform, request.PostType, best.Content)

	response, err := o.gateway.Call(ctx, optimizerSystemPrompt, userPrompt, 0.5, 0)
	if err != nil {
		return domain.Optimization{}, fmt.Errorf("optimizare: %w", err)
	}

	var parsed optimizerPayload
	if err := ExtractJSON(response, &parsed); err != nil {
		o.log.Warn().Msg("optimizare: răspuns nevalid, folosesc valorile implicite")
		metrics.IncStageFallback("optimizer")
		return DefaultOptimization(request.Platform, request.PostType), nil
	}

	result := domain.Optimization{
		Hashtags:             DefaultHashtags(request.Platform, request.PostType),
		EngagementPrediction: defaultPrediction(),
		PostingSuggestion:    DefaultPostingSuggestion(request.Platform),
		VisualRecommendation: valueOr(parsed.VisualRecommendation, "Imagine caldă, lumânări sau flori în tonuri pastelate"),
		Tip:                  valueOr(parsed.Tip, "Postează când audiența ta este cea mai activă."),
	}
	if parsed.Hashtags != nil {
		result.Hashtags = domain.HashtagSets{
			Primary:   parsed.Hashtags.Primary,
			Secondary: parsed.Hashtags.Secondary,
			Trending:  parsed.Hashtags.Trending,
		}
	}
	if parsed.EngagementPrediction != nil {
		result.EngagementPrediction = domain.EngagementPrediction{
			Score: parsed.EngagementPrediction.Score,
			Breakdown: domain.EngagementBreakdown{
				Hook:        parsed.EngagementPrediction.Breakdown.Hook,
				Emotion:     parsed.EngagementPrediction.Breakdown.Emotion,
				PlatformFit: parsed.EngagementPrediction.Breakdown.PlatformFit,
				Timing:      parsed.EngagementPrediction.Breakdown.Timing,
				Visual:      parsed.EngagementPrediction.Breakdown.Visual,
				Hashtags:    parsed.EngagementPrediction.Breakdown.Hashtags,
			},
			Confidence: parseConfidence(parsed.EngagementPrediction.Confidence),
		}
	}
	if parsed.PostingSuggestion != nil {
		result.PostingSuggestion = domain.PostingSuggestion{
			BestTimes: parsed.PostingSuggestion.BestTimes,
			BestDays:  parsed.PostingSuggestion.BestDays,
			Avoid:     parsed.PostingSuggestion.Avoid,
		}
	}
	return result, nil
}

// bestVariant preferă varianta emoțională, de regulă cea cu engagement maxim.
func bestVariant(variants []domain.ContentVariant) domain.ContentVariant {
	for _, variant := range variants {
		if variant.Kind == domain.VariantEmotional {
			return variant
		}
	}
	if len(variants) > 0 {
		return variants[0]
	}
	return domain.ContentVariant{}
}

func parseConfidence(raw string) domain.Confidence {
	switch strings.ToLower(raw) {
	case string(domain.ConfidenceHigh):
		return domain.ConfidenceHigh
	case string(domain.ConfidenceLow):
		return domain.ConfidenceLow
	default:
		return domain.ConfidenceMedium
	}
}

// DefaultHashtags întoarce seturile implicite per platformă și tip de postare.
func DefaultHashtags(platform domain.Platform, postType domain.PostType) domain.HashtagSets {
	base := domain.HashtagSets{
		Primary:   []string{"#FunebraBrașov", "#ServiciiFunerare", "#Brașov"},
		Secondary: []string{"#Funebra", "#Tradiții", "#SprijinDoliu", "#România", "#Transilvania"},
		Trending:  []string{"#Amintiri"},
	}
	typeSpecific := map[domain.PostType][]string{
		domain.PostTypeInformative: {"#SfaturiUtile", "#Educație", "#Informații"},
		domain.PostTypeService:     {"#Servicii", "#Profesionalism", "#CalitateÎnaltă"},
		domain.PostTypeCommunity:   {"#Comunitate", "#Echipă", "#OameniCuSuflet"},
		domain.PostTypeSeasonal:    {"#Tradiții", "#Sărbători", "#Comemorare"},
		domain.PostTypeSupportive:  {"#SprijinÎnDoliu", "#Confort", "#Empatie"},
	}
	base.Secondary = append(base.Secondary, typeSpecific[postType]...)
	return base
}

// DefaultPostingSuggestion întoarce ferestrele implicite de postare per platformă.
func DefaultPostingSuggestion(platform domain.Platform) domain.PostingSuggestion {
	switch platform {
	case domain.PlatformInstagram:
		return domain.PostingSuggestion{
			BestTimes: []string{"11:00-13:00", "19:00-21:00"},
			BestDays:  []string{"Miercuri", "Joi", "Vineri"},
			Avoid:     []string{"Luni", "Duminică seara"},
		}
	case domain.PlatformTikTok:
		return domain.PostingSuggestion{
			BestTimes: []string{"19:00-22:00", "12:00-14:00"},
			BestDays:  []string{"Marți", "Joi", "Sâmbătă"},
			Avoid:     []string{"Luni dimineața"},
		}
	default:
		return domain.PostingSuggestion{
			BestTimes: []string{"18:00-20:00", "12:00-13:00"},
			BestDays:  []string{"Marți", "Joi", "Miercuri"},
			Avoid:     []string{"Duminică dimineața", "Luni devreme"},
		}
	}
}

// DefaultOptimization este rezultatul complet implicit, folosit la eșec de parsare.
func DefaultOptimization(platform domain.Platform, postType domain.PostType) domain.Optimization {
	return domain.Optimization{
		Hashtags: DefaultHashtags(platform, postType),
		EngagementPrediction: domain.EngagementPrediction{
			Score:      65,
			Breakdown:  domain.EngagementBreakdown{Hook: 12, Emotion: 15, PlatformFit: 12, Timing: 10, Visual: 8, Hashtags: 8},
			Confidence: domain.ConfidenceMedium,
		},
		PostingSuggestion:    DefaultPostingSuggestion(platform),
		VisualRecommendation: "Imagine caldă și respectuoasă, tonuri pastelate sau lumânări",
		Tip:                  "Postează când audiența ta este cea mai activă pentru engagement maxim.",
	}
}

func defaultPrediction() domain.EngagementPrediction {
	return domain.EngagementPrediction{
		Score:      70,
		Breakdown:  domain.EngagementBreakdown{Hook: 15, Emotion: 18, PlatformFit: 12, Timing: 10, Visual: 8, Hashtags: 7},
		Confidence: domain.ConfidenceMedium,
	}
}
