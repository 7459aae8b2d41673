package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"smmaa-bot/internal/domain"
)

func TestOptimizerParsesResponse(t *testing.T) {
	response := `{
  "hashtags": {
    "primary": ["#FunebraBrașov", "#Brașov"],
    "secondary": ["#SprijinDoliu"],
    "trending": ["#Amintiri"]
  },
  "engagementPrediction": {
    "score": 78,
    "breakdown": {"hook": 16, "emotion": 20, "platformFit": 13, "timing": 12, "visual": 8, "hashtags": 9},
    "confidence": "high"
  },
  "postingSuggestion": {"bestTimes": ["19:00-21:00"], "bestDays": ["Joi"], "avoid": ["Luni"]},
  "visualRecommendation": "Lumânări în lumină caldă",
  "tip": "Postează joia seara."
}`
	client := &stubClient{calls: []stubCall{{text: response}}}
	gateway, _ := newTestGateway(client)
	optimizer := NewOptimizer(gateway, zerolog.Nop())

	result, err := optimizer.Execute(context.Background(), testRequest(), sampleVariants())
	if err != nil {
		t.Fatalf("nu așteptam eroare: %v", err)
	}
	if result.EngagementPrediction.Score != 78 || result.EngagementPrediction.Confidence != domain.ConfidenceHigh {
		t.Fatalf("predicția nu s-a preluat: %+v", result.EngagementPrediction)
	}
	if len(result.Hashtags.Primary) != 2 || result.Hashtags.Primary[0] != "#FunebraBrașov" {
		t.Fatalf("hashtag-urile nu s-au preluat: %+v", result.Hashtags)
	}
	if result.Tip != "Postează joia seara." {
		t.Fatalf("sfatul nu s-a preluat: %q", result.Tip)
	}
}

func TestOptimizerPrefersEmotionalVariant(t *testing.T) {
	client := &stubClient{calls: []stubCall{{text: "{}"}}}
	gateway, _ := newTestGateway(client)
	optimizer := NewOptimizer(gateway, zerolog.Nop())

	if _, err := optimizer.Execute(context.Background(), testRequest(), sampleVariants()); err != nil {
		t.Fatalf("nu așteptam eroare: %v", err)
	}
	if !strings.Contains(client.requests[0].Prompt, "Știm cât de greu este acest moment.") {
		t.Fatal("optimizatorul trebuie să analizeze varianta emoțională")
	}
}

func TestOptimizerDefaultsOnBadJSON(t *testing.T) {
	client := &stubClient{calls: []stubCall{{text: "fără JSON aici"}}}
	gateway, _ := newTestGateway(client)
	optimizer := NewOptimizer(gateway, zerolog.Nop())

	request := testRequest()
	result, err := optimizer.Execute(context.Background(), request, sampleVariants())
	if err != nil {
		t.Fatalf("eșecul de parsare nu trebuie să se propage: %v", err)
	}
	expected := DefaultOptimization(request.Platform, request.PostType)
	if result.EngagementPrediction.Score != expected.EngagementPrediction.Score {
		t.Fatalf("scorul implicit greșit: %d", result.EngagementPrediction.Score)
	}
	if result.PostingSuggestion.BestTimes[0] != "11:00-13:00" {
		t.Fatalf("fereastra implicită pentru Instagram greșită: %+v", result.PostingSuggestion)
	}
}

func TestDefaultHashtagsIncludeTypeSpecific(t *testing.T) {
	sets := DefaultHashtags(domain.PlatformFacebook, domain.PostTypeSupportive)
	all := strings.Join(sets.All(), " ")
	if !strings.Contains(all, "#FunebraBrașov") {
		t.Fatal("hashtag-ul de brand lipsește")
	}
	if !strings.Contains(all, "#SprijinÎnDoliu") {
		t.Fatal("hashtag-urile specifice tipului supportive lipsesc")
	}
}

func TestDefaultPostingSuggestionPerPlatform(t *testing.T) {
	facebook := DefaultPostingSuggestion(domain.PlatformFacebook)
	if facebook.BestTimes[0] != "18:00-20:00" {
		t.Fatalf("fereastra Facebook greșită: %+v", facebook.BestTimes)
	}
	tiktok := DefaultPostingSuggestion(domain.PlatformTikTok)
	if tiktok.BestTimes[0] != "19:00-22:00" {
		t.Fatalf("fereastra TikTok greșită: %+v", tiktok.BestTimes)
	}
}
