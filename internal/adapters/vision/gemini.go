// Package vision analizează imagini și clipuri prin API-ul multimodal Gemini.
package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"smmaa-bot/internal/domain"
	"smmaa-bot/internal/infra/gemini"
)

// Limitele de dimensiune acceptate pentru media atașată.
const (
	maxImageSize = 10 * 1024 * 1024
	maxVideoSize = 50 * 1024 * 1024
)

var allowedImageMIME = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

var allowedVideoMIME = map[string]struct{}{
	"video/mp4":  {},
	"video/webm": {},
}

const visionPrompt = `Analizează această imagine pentru un brand de servicii funerare (Funebra Brașov).

Răspunde în JSON cu această structură exactă:
{
  "description": "Descriere scurtă a imaginii în română (maxim 50 cuvinte)",
  "objects": ["lista", "de", "obiecte", "vizibile"],
  "mood": "atmosfera/starea de spirit transmisă",
  "colors": ["culorile", "predominante"],
  "suggestedThemes": ["teme pentru postare", "max 3"],
  "isAppropriate": true/false (dacă e potrivită pentru un brand funerar),
  "funeralContext": {
    "isFuneralRelated": true/false,
    "elements": ["elemente relevante: lumânări, flori, cruci, etc"],
    "suggestedTone": "tonul recomandat pentru postare"
  }
}

Fii sensibil și respectuos. Evită descrieri negative sau insensibile.`

// Analyzer implementează domain.MediaAnalyzer peste clientul Gemini.
type Analyzer struct {
	client *gemini.Client
	model  string
	log    zerolog.Logger
}

// NewAnalyzer creează analizatorul vizual.
func NewAnalyzer(client *gemini.Client, model string, logger zerolog.Logger) *Analyzer {
	return &Analyzer{client: client, model: model, log: logger}
}

type analysisPayload struct {
	Description     string   `json:"description"`
	Objects         []string `json:"objects"`
	Mood            string   `json:"mood"`
	Colors          []string `json:"colors"`
	SuggestedThemes []string `json:"suggestedThemes"`
	IsAppropriate   bool     `json:"isAppropriate"`
	FuneralContext  *struct {
		IsFuneralRelated bool     `json:"isFuneralRelated"`
		Elements         []string `json:"elements"`
		SuggestedTone    string   `json:"suggestedTone"`
	} `json:"funeralContext"`
}

// Analyze trimite media la model și extrage analiza structurată. Orice eșec
// (apel sau parsare) întoarce analiza neutră de rezervă, nu o eroare: lipsa
// analizei nu trebuie să blocheze generarea.
func (a *Analyzer) Analyze(ctx context.Context, data []byte, mimeType string) (domain.MediaAnalysis, error) {
	if err := ValidateMedia(data, mimeType); err != nil {
		return domain.MediaAnalysis{}, err
	}

	result, err := a.client.GenerateContent(ctx, gemini.GenerateRequest{
		Model:     a.model,
		Prompt:    visionPrompt,
		MediaMIME: mimeType,
		MediaData: data,
	})
	if err != nil {
		a.log.Warn().Err(err).Msg("analiza vizuală a eșuat, folosesc analiza neutră")
		return fallbackAnalysis(), nil
	}

	parsed, ok := extractAnalysis(result.Text)
	if !ok {
		a.log.Warn().Msg("analiza vizuală: răspuns fără JSON, folosesc analiza neutră")
		return fallbackAnalysis(), nil
	}

	analysis := domain.MediaAnalysis{
		Description:     parsed.Description,
		Objects:         parsed.Objects,
		Mood:            parsed.Mood,
		Colors:          parsed.Colors,
		SuggestedThemes: parsed.SuggestedThemes,
		IsAppropriate:   parsed.IsAppropriate,
	}
	if parsed.FuneralContext != nil {
		analysis.FuneralContext = &domain.FuneralContext{
			IsFuneralRelated: parsed.FuneralContext.IsFuneralRelated,
			Elements:         parsed.FuneralContext.Elements,
			SuggestedTone:    parsed.FuneralContext.SuggestedTone,
		}
	}
	return analysis, nil
}

// ValidateMedia verifică tipul MIME și dimensiunea înainte de trimitere.
func ValidateMedia(data []byte, mimeType string) error {
	_, isImage := allowedImageMIME[mimeType]
	_, isVideo := allowedVideoMIME[mimeType]

	if !isImage && !isVideo {
		return fmt.Errorf("format neacceptat %q: folosește JPG, PNG, GIF, MP4 sau WebM", mimeType)
	}
	if isImage && len(data) > maxImageSize {
		return fmt.Errorf("imaginea e prea mare: maximum 10MB")
	}
	if isVideo && len(data) > maxVideoSize {
		return fmt.Errorf("videoul e prea mare: maximum 50MB")
	}
	return nil
}

// extractAnalysis caută primul obiect JSON din text și îl decodează.
func extractAnalysis(text string) (analysisPayload, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return analysisPayload{}, false
	}
	var parsed analysisPayload
	if err := json.Unmarshal([]byte(text[start:end+1]), &parsed); err != nil {
		return analysisPayload{}, false
	}
	return parsed, true
}

func fallbackAnalysis() domain.MediaAnalysis {
	return domain.MediaAnalysis{
		Description:   "Imagine încărcată",
		Mood:          "neutru",
		IsAppropriate: true,
		FuneralContext: &domain.FuneralContext{
			SuggestedTone: "respectuos",
		},
	}
}
