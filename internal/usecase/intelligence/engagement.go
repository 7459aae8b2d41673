package intelligence

import (
	"fmt"
	"strings"
	"time"

	"smmaa-bot/internal/domain"
)

// Cuvintele cu rezonanță emoțională urmărite în conținut.
var emotionalWords = []string{
	"iubire", "suflet", "inimă", "amintiri", "memorie", "veșnicie",
	"dor", "pace", "lumină", "speranță", "recunoștință", "compasiune",
	"împreună", "familie", "tradiție", "respect", "demnitate",
}

type lengthRange struct {
	min, max int
}

// Intervalele ideale de cuvinte per platformă.
var idealLengths = map[domain.Platform]lengthRange{
	domain.PlatformFacebook:  {min: 100, max: 300},
	domain.PlatformInstagram: {min: 50, max: 150},
	domain.PlatformTikTok:    {min: 30, max: 80},
}

// Numărul ideal de hashtag-uri per platformă.
var idealHashtags = map[domain.Platform]int{
	domain.PlatformFacebook:  5,
	domain.PlatformInstagram: 15,
	domain.PlatformTikTok:    5,
}

// EngagementReport conține predicția plus sugestiile de îmbunătățire.
type EngagementReport struct {
	Prediction  domain.EngagementPrediction
	Suggestions []string
}

// PredictEngagement calculează scorul de engagement ca sumă deterministă a
// șase componente plafonate independent. Funcție pură, testabilă fără rețea.
func PredictEngagement(content string, platform domain.Platform, hashtags []string, postTime *time.Time) EngagementReport {
	var suggestions []string
	lower := strings.ToLower(content)
	wordCount := len(strings.Fields(content))

	// Forța hook-ului: prima propoziție sau primul rând.
	firstLine := firstSentence(content)
	hook := 10
	if strings.Contains(firstLine, "?") {
		hook += 5
	}
	if containsAny(strings.ToLower(firstLine), "dumneavoastră", "vouă", "tu") {
		hook += 3
	}
	if containsAny(strings.ToLower(firstLine), "inima", "suflet", "amintir", "memori", "iubire") {
		hook += 2
	}
	if len([]rune(firstLine)) < 10 {
		hook -= 5
		suggestions = append(suggestions, "Adaugă un hook mai captivant la început")
	}
	hook = clamp(hook, 0, 20)

	// Profunzimea emoțională.
	emotionalCount := 0
	for _, word := range emotionalWords {
		if strings.Contains(lower, word) {
			emotionalCount++
		}
	}
	emotion := clamp(emotionalCount*4+5, 0, 25)
	if emotionalCount < 2 {
		suggestions = append(suggestions, "Adaugă mai multă emoție și căldură în mesaj")
	}

	// Potrivirea cu platforma.
	ideal := idealLengths[platform]
	platformFit := 15
	switch {
	case wordCount < ideal.min:
		platformFit = 8
		suggestions = append(suggestions,
			fmt.Sprintf("Conținutul e prea scurt pentru %s. Adaugă %d cuvinte.", platform, ideal.min-wordCount))
	case wordCount > ideal.max:
		platformFit = 7
		suggestions = append(suggestions,
			fmt.Sprintf("Conținutul e prea lung pentru %s. Redu cu %d cuvinte.", platform, wordCount-ideal.max))
	}

	// Momentul postării.
	timing := 10
	if postTime != nil {
		hour := postTime.Hour()
		switch {
		case (hour >= 12 && hour <= 14) || (hour >= 18 && hour <= 21):
			timing = 15
		case hour >= 6 && hour <= 22:
			timing = 10
		default:
			timing = 5
			suggestions = append(suggestions, "Evită postarea noaptea (22:00-06:00)")
		}
		if day := postTime.Weekday(); day == time.Saturday || day == time.Sunday {
			timing -= 2
		}
	}

	// Potențialul vizual, aproximat prin densitatea de emoji.
	emojiCount := countEmoji(content)
	visual := 5
	switch platform {
	case domain.PlatformInstagram:
		switch {
		case emojiCount >= 3:
			visual = 10
		case emojiCount >= 1:
			visual = 7
		}
		if emojiCount < 2 {
			suggestions = append(suggestions, "Adaugă emoji pentru Instagram")
		}
	case domain.PlatformFacebook:
		if emojiCount >= 2 && emojiCount <= 5 {
			visual = 10
		} else {
			visual = 7
		}
	default:
		if emojiCount >= 1 && emojiCount <= 3 {
			visual = 10
		} else {
			visual = 6
		}
	}

	// Calitatea hashtag-urilor.
	hashtagCount := len(hashtags)
	target := idealHashtags[platform]
	hashtagQuality := 5
	switch {
	case float64(hashtagCount) >= float64(target)*0.7 && float64(hashtagCount) <= float64(target)*1.5:
		hashtagQuality = 15
	case hashtagCount > 0:
		hashtagQuality = 10
	default:
		suggestions = append(suggestions, "Adaugă hashtag-uri relevante")
	}

	breakdown := domain.EngagementBreakdown{
		Hook:        hook,
		Emotion:     emotion,
		PlatformFit: platformFit,
		Timing:      timing,
		Visual:      visual,
		Hashtags:    hashtagQuality,
	}

	confidence := domain.ConfidenceMedium
	switch {
	case wordCount > 50 && emotionalCount >= 3 && hashtagCount > 3:
		confidence = domain.ConfidenceHigh
	case wordCount < 20 || emotionalCount == 0:
		confidence = domain.ConfidenceLow
	}

	return EngagementReport{
		Prediction: domain.EngagementPrediction{
			Score:      breakdown.Total(),
			Breakdown:  breakdown,
			Confidence: confidence,
		},
		Suggestions: suggestions,
	}
}

// firstSentence taie la primul punct sau la primul rând nou.
func firstSentence(content string) string {
	if idx := strings.IndexAny(content, ".\n"); idx >= 0 {
		return content[:idx]
	}
	return content
}

func containsAny(haystack string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

func countEmoji(content string) int {
	count := 0
	for _, r := range content {
		if r >= 0x1F300 && r <= 0x1F9FF {
			count++
		}
	}
	return count
}

func clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
