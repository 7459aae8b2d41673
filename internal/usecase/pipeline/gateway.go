package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"smmaa-bot/internal/infra/gemini"
	"smmaa-bot/internal/infra/metrics"
)

// ErrGenerationFailed este întors după epuizarea reîncercărilor.
var ErrGenerationFailed = errors.New("generarea a eșuat după reîncercări")

const (
	defaultMaxRetries  = 5
	backoffBase        = 2500 * time.Millisecond
	backoffJitterLimit = time.Second
)

// ParseError semnalează un răspuns al modelului care nu respectă contractul JSON.
// Este distinct de eroarea de apel, ca etapele să poată degrada local în loc să
// propage eșecul.
type ParseError struct {
	Raw string
	Err error
}

// Error implementează error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("răspunsul modelului nu este JSON valid: %v", e.Err)
}

// Unwrap expune cauza.
func (e *ParseError) Unwrap() error { return e.Err }

type generateClient interface {
	GenerateContent(ctx context.Context, req gemini.GenerateRequest) (gemini.GenerateResult, error)
}

// Gateway este punctul unic de trecere către modelul generativ: deține
// limitatorul global, politica de reîncercare și extragerea JSON.
type Gateway struct {
	client    generateClient
	limiter   *Limiter
	model     string
	maxTokens int
	retries   int
	log       zerolog.Logger

	sleep func(time.Duration)
	rnd   *rand.Rand
}

// NewGateway creează gateway-ul peste clientul Gemini.
func NewGateway(client generateClient, limiter *Limiter, model string, maxTokens, retries int, logger zerolog.Logger) *Gateway {
	if retries <= 0 {
		retries = defaultMaxRetries
	}
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	return &Gateway{
		client:    client,
		limiter:   limiter,
		model:     model,
		maxTokens: maxTokens,
		retries:   retries,
		log:       logger,
		sleep:     time.Sleep,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Call emite un apel cu prompt combinat sistem+utilizator și întoarce textul brut.
// Erorile 429/503 se reiau cu backoff exponențial; orice altă eroare este fatală.
func (g *Gateway) Call(ctx context.Context, systemPrompt, userPrompt string, temperature float64, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = g.maxTokens
	}
	fullPrompt := systemPrompt + "\n\n---\n\n" + userPrompt

	var lastErr error
	for attempt := 0; attempt <= g.retries; attempt++ {
		g.limiter.Acquire()
		result, err := g.client.GenerateContent(ctx, gemini.GenerateRequest{
			Model:       g.model,
			Prompt:      fullPrompt,
			Temperature: temperature,
			MaxTokens:   maxTokens,
		})
		if err == nil {
			return result.Text, nil
		}
		if !gemini.IsRetryable(err) {
			return "", fmt.Errorf("apel model: %w", err)
		}
		lastErr = err
		if attempt == g.retries {
			break
		}
		wait := backoffBase<<attempt + time.Duration(g.rnd.Int63n(int64(backoffJitterLimit)))
		metrics.GatewayRetriesTotal.Inc()
		g.log.Warn().Err(err).Int("attempt", attempt+1).Dur("wait", wait).Msg("gateway: limită de rată, reîncerc")
		g.sleep(wait)
	}
	return "", fmt.Errorf("%w: %v", ErrGenerationFailed, lastErr)
}

// ExtractJSON curăță blocurile de cod markdown și decodează JSON-ul în v.
// Un eșec de decodare întoarce *ParseError cu textul brut păstrat.
func ExtractJSON(text string, v any) error {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = cleaned[len("```json"):]
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = cleaned[len("```"):]
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	cleaned = strings.TrimSpace(cleaned)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return &ParseError{Raw: text, Err: err}
	}
	return nil
}
