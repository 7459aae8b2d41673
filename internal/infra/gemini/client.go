package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"smmaa-bot/internal/infra/metrics"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// ErrMissingAPIKey este întors când cheia API lipsește din configurație.
var ErrMissingAPIKey = errors.New("gemini: cheia API este goală")

// Client execută cereri generateContent către API-ul Gemini.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// NewClient creează un client Gemini.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout + 5*time.Second}
	return &Client{http: httpClient, baseURL: baseURL, apiKey: apiKey}
}

// GenerateRequest descrie o cerere de generare.
type GenerateRequest struct {
	Model       string
	Prompt      string
	Temperature float64
	MaxTokens   int
	MediaMIME   string
	MediaData   []byte
}

// GenerateResult conține textul generat și statistica de tokeni.
type GenerateResult struct {
	Text  string
	Usage Usage
}

// Usage descrie statistica de utilizare a tokenilor.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// StatusError semnalează un răspuns HTTP nereușit al API-ului.
type StatusError struct {
	StatusCode int
	Message    string
}

// Error implementează error.
func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gemini: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("gemini: status neașteptat %d", e.StatusCode)
}

// IsRetryable indică dacă eroarea este una tranzitorie (rate limit sau suprasarcină).
func IsRetryable(err error) bool {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode == http.StatusServiceUnavailable
}

type apiPart struct {
	Text       string         `json:"text,omitempty"`
	InlineData *apiInlineData `json:"inline_data,omitempty"`
}

type apiInlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type apiContent struct {
	Parts []apiPart `json:"parts"`
}

type apiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type apiRequest struct {
	Contents         []apiContent         `json:"contents"`
	GenerationConfig *apiGenerationConfig `json:"generationConfig,omitempty"`
}

type apiResponse struct {
	Candidates []struct {
		Content apiContent `json:"content"`
	} `json:"candidates"`
	UsageMetadata *struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateContent apelează models/{model}:generateContent.
func (c *Client) GenerateContent(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	if c.apiKey == "" {
		return GenerateResult{}, ErrMissingAPIKey
	}
	parts := []apiPart{{Text: req.Prompt}}
	if len(req.MediaData) > 0 && req.MediaMIME != "" {
		parts = append(parts, apiPart{InlineData: &apiInlineData{
			MIMEType: req.MediaMIME,
			Data:     base64.StdEncoding.EncodeToString(req.MediaData),
		}})
	}
	body, err := json.Marshal(apiRequest{
		Contents: []apiContent{{Parts: parts}},
		GenerationConfig: &apiGenerationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		},
	})
	if err != nil {
		return GenerateResult{}, fmt.Errorf("gemini: serializare cerere: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, req.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return GenerateResult{}, fmt.Errorf("gemini: construire cerere: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		metrics.ObserveNetworkRequest("gemini", "generate_content", req.Model, start, err)
		return GenerateResult{}, fmt.Errorf("gemini: executare cerere: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveNetworkRequest("gemini", "generate_content", req.Model, start, err)
		return GenerateResult{}, fmt.Errorf("gemini: citire răspuns: %w", err)
	}
	if resp.StatusCode >= 400 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		var apiErr apiErrorResponse
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			statusErr.Message = apiErr.Error.Message
		}
		metrics.ObserveNetworkRequest("gemini", "generate_content", req.Model, start, statusErr)
		return GenerateResult{}, statusErr
	}
	var parsed apiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		metrics.ObserveNetworkRequest("gemini", "generate_content", req.Model, start, err)
		return GenerateResult{}, fmt.Errorf("gemini: decodare răspuns: %w", err)
	}
	metrics.ObserveNetworkRequest("gemini", "generate_content", req.Model, start, nil)

	if len(parsed.Candidates) == 0 {
		return GenerateResult{}, fmt.Errorf("gemini: răspuns fără candidați")
	}
	var text strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	result := GenerateResult{Text: text.String()}
	if parsed.UsageMetadata != nil {
		result.Usage = Usage{
			PromptTokens:     parsed.UsageMetadata.PromptTokenCount,
			CompletionTokens: parsed.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      parsed.UsageMetadata.TotalTokenCount,
		}
		metrics.ObserveLLMGeneration(req.Model, time.Since(start), result.Usage.PromptTokens, result.Usage.CompletionTokens, result.Usage.TotalTokens)
	}
	return result, nil
}
