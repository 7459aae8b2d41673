package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// AppConfig descrie configurația serviciilor.
type AppConfig struct {
	AppEnv string `envconfig:"APP_ENV" default:"dev"`
	TZ     string `envconfig:"TZ" default:"Europe/Bucharest"`
	Port   int    `envconfig:"PORT" default:"8080"`

	Gemini struct {
		APIKey    string        `envconfig:"GEMINI_API_KEY"`
		BaseURL   string        `envconfig:"GEMINI_BASE_URL"`
		Model     string        `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
		Timeout   time.Duration `envconfig:"GEMINI_TIMEOUT" default:"60s"`
		MinDelay  time.Duration `envconfig:"GEMINI_MIN_DELAY" default:"4s"`
		MaxRetry  int           `envconfig:"GEMINI_MAX_RETRY" default:"5"`
		MaxTokens int           `envconfig:"GEMINI_MAX_TOKENS" default:"2048"`
	} `envconfig:""`

	PGDSN string `envconfig:"PG_DSN"`

	RedisAddr string `envconfig:"REDIS_ADDR"`

	AMQP struct {
		URL   string `envconfig:"AMQP_URL"`
		Queue string `envconfig:"FEEDBACK_QUEUE" default:"feedback_events"`
	} `envconfig:""`

	Similarity struct {
		Threshold float64 `envconfig:"SIMILARITY_THRESHOLD" default:"0.6"`
		DaysBack  int     `envconfig:"SIMILARITY_DAYS_BACK" default:"30"`
	} `envconfig:""`

	Context struct {
		CacheTTL    time.Duration `envconfig:"CONTEXT_CACHE_TTL" default:"60s"`
		RecentPosts int           `envconfig:"CONTEXT_RECENT_POSTS" default:"10"`
		DaysAhead   int           `envconfig:"CONTEXT_DAYS_AHEAD" default:"14"`
	} `envconfig:""`
}

// Load încarcă configul din .env și din mediul de rulare.
func Load() AppConfig {
	_ = godotenv.Load()
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("nu am putut încărca configul: %v", err)
	}
	return cfg
}
