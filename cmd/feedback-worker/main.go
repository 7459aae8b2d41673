package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"smmaa-bot/internal/adapters/repo"
	"smmaa-bot/internal/infra/config"
	"smmaa-bot/internal/infra/db"
	applog "smmaa-bot/internal/infra/log"
	"smmaa-bot/internal/infra/metrics"
	"smmaa-bot/internal/infra/queue"
	"smmaa-bot/internal/usecase/feedback"
)

func main() {
	cfg := config.Load()
	log := applog.NewLogger(cfg.AppEnv)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(cfg.PGDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("feedback-worker: nu am conexiune la BD")
	}
	defer pool.Close()
	repoAdapter := repo.NewPostgres(pool)

	feedbackQueue, err := queue.NewRabbitFeedbackQueue(cfg.AMQP.URL, cfg.AMQP.Queue)
	if err != nil {
		log.Fatal().Err(err).Msg("feedback-worker: nu am conexiune la coada de feedback")
	}
	defer feedbackQueue.Close()

	learner := feedback.NewLearner(repoAdapter, repoAdapter, log.With().Str("component", "learner").Logger())

	log.Info().Str("queue", cfg.AMQP.Queue).Msg("feedback-worker: pornit")
	if err := feedbackQueue.Consume(ctx, learner.Handle); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("feedback-worker: consumul s-a oprit")
	}
	log.Info().Msg("feedback-worker: oprire")
}
