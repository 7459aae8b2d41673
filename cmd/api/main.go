package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"smmaa-bot/internal/adapters/repo"
	"smmaa-bot/internal/adapters/vision"
	"smmaa-bot/internal/domain"
	"smmaa-bot/internal/infra/cache"
	"smmaa-bot/internal/infra/config"
	"smmaa-bot/internal/infra/db"
	"smmaa-bot/internal/infra/gemini"
	httpinfra "smmaa-bot/internal/infra/http"
	applog "smmaa-bot/internal/infra/log"
	"smmaa-bot/internal/infra/metrics"
	"smmaa-bot/internal/infra/queue"
	"smmaa-bot/internal/usecase/intelligence"
	"smmaa-bot/internal/usecase/pipeline"
)

func main() {
	cfg := config.Load()
	log := applog.NewLogger(cfg.AppEnv)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(cfg.PGDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("api: nu am conexiune la BD")
	}
	defer pool.Close()
	repoAdapter := repo.NewPostgres(pool)

	redisCache := cache.NewRedis(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))

	feedbackQueue, err := queue.NewRabbitFeedbackQueue(cfg.AMQP.URL, cfg.AMQP.Queue)
	if err != nil {
		log.Fatal().Err(err).Msg("api: nu am conexiune la coada de feedback")
	}
	defer feedbackQueue.Close()

	client := gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.BaseURL, cfg.Gemini.Timeout)
	limiter := pipeline.NewLimiter(cfg.Gemini.MinDelay)
	gateway := pipeline.NewGateway(client, limiter, cfg.Gemini.Model, cfg.Gemini.MaxTokens, cfg.Gemini.MaxRetry,
		log.With().Str("component", "gateway").Logger())

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	orchestrator := pipeline.NewOrchestrator(pipeline.OrchestratorDeps{
		Aggregator: pipeline.NewAggregator(repoAdapter, redisCache, cfg.Context.CacheTTL, cfg.Context.RecentPosts,
			cfg.Context.DaysAhead, log.With().Str("component", "aggregator").Logger()),
		Vision:     vision.NewAnalyzer(client, cfg.Gemini.Model, log.With().Str("component", "vision").Logger()),
		Researcher: pipeline.NewResearcher(gateway, log.With().Str("component", "researcher").Logger()),
		Strategist: pipeline.NewStrategist(gateway, rnd, log.With().Str("component", "strategist").Logger()),
		Writer:     pipeline.NewWriter(gateway, rnd, log.With().Str("component", "writer").Logger()),
		Editor:     pipeline.NewEditor(gateway, log.With().Str("component", "editor").Logger()),
		Optimizer:  pipeline.NewOptimizer(gateway, log.With().Str("component", "optimizer").Logger()),
		Detector: intelligence.NewDetector(repoAdapter, cfg.Similarity.Threshold, cfg.Similarity.DaysBack,
			log.With().Str("component", "similarity").Logger()),
		History:  repoAdapter,
		Patterns: repoAdapter,
		Logger:   log.With().Str("component", "orchestrator").Logger(),
	})

	server := httpinfra.NewServer(log.With().Str("component", "http").Logger())
	registerRoutes(server.Router, orchestrator, repoAdapter, feedbackQueue, log)

	go func() {
		if err := server.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("api: serverul s-a oprit")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("api: oprire")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
}

type generateRequest struct {
	Platform     string `json:"platform"`
	PostType     string `json:"post_type"`
	Tone         string `json:"tone"`
	WordCount    string `json:"word_count"`
	CustomPrompt string `json:"custom_prompt"`
	Quick        bool   `json:"quick"`
	MediaBase64  string `json:"media_base64"`
	MediaMIME    string `json:"media_mime"`
}

type feedbackRequest struct {
	Rating        int    `json:"rating"`
	WasUsed       bool   `json:"was_used"`
	EditedContent string `json:"edited_content"`
}

type scheduleRequest struct {
	At time.Time `json:"at"`
}

type favoriteRequest struct {
	Favorite bool `json:"favorite"`
}

func registerRoutes(r chi.Router, generator domain.Generator, posts domain.PostHistoryRepo, feedback domain.FeedbackQueue, log zerolog.Logger) {
	r.Post("/api/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "corp de cerere nevalid")
			return
		}
		request, err := buildGenerationRequest(req)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		var result domain.GenerationResult
		if req.Quick {
			result = generator.QuickGenerate(r.Context(), request)
		} else {
			result = generator.Generate(r.Context(), request)
		}
		if !result.Success {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_ = json.NewEncoder(w).Encode(result)
			return
		}
		writeJSON(w, result)
	})

	r.Post("/api/v1/posts/{id}/feedback", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req feedbackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "corp de cerere nevalid")
			return
		}
		if req.Rating < 0 || req.Rating > 5 {
			writeError(w, http.StatusBadRequest, "rating-ul trebuie să fie între 0 și 5")
			return
		}
		event := domain.FeedbackEvent{
			PostID:        chi.URLParam(r, "id"),
			Rating:        req.Rating,
			WasUsed:       req.WasUsed,
			EditedContent: req.EditedContent,
			OccurredAt:    time.Now().UTC(),
		}
		if err := feedback.Publish(r.Context(), event); err != nil {
			log.Error().Err(err).Msg("api: nu am putut publica feedback-ul")
			writeError(w, http.StatusInternalServerError, "nu am putut înregistra feedback-ul")
			return
		}
		writeJSON(w, map[string]string{"status": "ok"})
	})

	r.Post("/api/v1/posts/{id}/schedule", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req scheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.At.IsZero() {
			writeError(w, http.StatusBadRequest, "momentul programării lipsește")
			return
		}
		if err := posts.SchedulePost(chi.URLParam(r, "id"), req.At); err != nil {
			writePostError(w, log, err)
			return
		}
		writeJSON(w, map[string]string{"status": "ok"})
	})

	r.Post("/api/v1/posts/{id}/favorite", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req favoriteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "corp de cerere nevalid")
			return
		}
		if err := posts.SetFavorite(chi.URLParam(r, "id"), req.Favorite); err != nil {
			writePostError(w, log, err)
			return
		}
		writeJSON(w, map[string]string{"status": "ok"})
	})

	r.Get("/api/v1/posts", func(w http.ResponseWriter, r *http.Request) {
		var (
			records []domain.PostRecord
			err     error
		)
		switch r.URL.Query().Get("filter") {
		case "favorites":
			records, err = posts.ListFavorites()
		case "scheduled":
			records, err = posts.ListScheduled()
		default:
			records, err = posts.ListHistory(50)
		}
		if err != nil {
			log.Error().Err(err).Msg("api: nu am putut citi istoricul")
			writeError(w, http.StatusInternalServerError, "nu am putut citi istoricul")
			return
		}
		writeJSON(w, map[string]any{"posts": records})
	})
}

func buildGenerationRequest(req generateRequest) (domain.GenerationRequest, error) {
	platform := domain.Platform(req.Platform)
	switch platform {
	case domain.PlatformFacebook, domain.PlatformInstagram, domain.PlatformTikTok:
	default:
		return domain.GenerationRequest{}, errors.New("platformă necunoscută")
	}
	postType := domain.PostType(req.PostType)
	switch postType {
	case domain.PostTypeInformative, domain.PostTypeService, domain.PostTypeCommunity,
		domain.PostTypeSeasonal, domain.PostTypeSupportive:
	default:
		return domain.GenerationRequest{}, errors.New("tip de postare necunoscut")
	}

	tone := domain.Tone(req.Tone)
	switch tone {
	case "":
		tone = domain.ToneWarm
	case domain.ToneFormal, domain.ToneWarm, domain.ToneCompassionate:
	default:
		return domain.GenerationRequest{}, errors.New("ton necunoscut")
	}
	wordCount := domain.WordCount(req.WordCount)
	switch wordCount {
	case "":
		wordCount = domain.WordCountMedium
	case domain.WordCountShort, domain.WordCountMedium, domain.WordCountLong:
	default:
		return domain.GenerationRequest{}, errors.New("lungime necunoscută")
	}

	request := domain.GenerationRequest{
		Platform:     platform,
		PostType:     postType,
		Tone:         tone,
		WordCount:    wordCount,
		CustomPrompt: req.CustomPrompt,
	}
	if req.MediaBase64 != "" {
		media, err := base64.StdEncoding.DecodeString(req.MediaBase64)
		if err != nil {
			return domain.GenerationRequest{}, errors.New("media_base64 nevalid")
		}
		if err := vision.ValidateMedia(media, req.MediaMIME); err != nil {
			return domain.GenerationRequest{}, err
		}
		request.Media = media
		request.MediaMIME = req.MediaMIME
	}
	return request, nil
}

func writePostError(w http.ResponseWriter, log zerolog.Logger, err error) {
	if errors.Is(err, repo.ErrPostNotFound) {
		writeError(w, http.StatusNotFound, "postarea nu există")
		return
	}
	log.Error().Err(err).Msg("api: actualizarea postării a eșuat")
	writeError(w, http.StatusInternalServerError, "actualizarea postării a eșuat")
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": msg})
}
