// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the hotboard service.
type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"local"`
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`
	HealthPort  int    `env:"HEALTH_PORT" envDefault:"9090"`
	RedisAddr   string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	RedisPass   string `env:"REDIS_PASSWORD"`
	RedisDB     int    `env:"REDIS_DB" envDefault:"0"`
	PostgresDSN string `env:"POSTGRES_DSN"`

	// Operational timezone used to resolve "today" for requests that
	// omit a date.
	Timezone string `env:"TIMEZONE" envDefault:"Asia/Shanghai"`

	// Analysis.
	CacheTTL           time.Duration `env:"ANALYSIS_CACHE_TTL" envDefault:"1h"`
	HistoryDays        int           `env:"ANALYSIS_HISTORY_DAYS" envDefault:"7"`
	SimilarityMin      float64       `env:"ANALYSIS_SIMILARITY_MIN" envDefault:"0.25"`
	ForecastSeed       int64         `env:"ANALYSIS_FORECAST_SEED" envDefault:"0"`
	StopwordsPath      string        `env:"STOPWORDS_PATH"`
	CategoryDictPath   string        `env:"CATEGORY_DICT_PATH"`
	SnapshotReadLimit  time.Duration `env:"SNAPSHOT_READ_TIMEOUT" envDefault:"5s"`
	AnalyzeTickEvery   time.Duration `env:"ANALYZE_TICK_INTERVAL" envDefault:"1h"`
	CollectTickEvery   time.Duration `env:"COLLECT_TICK_INTERVAL" envDefault:"30m"`
	CollectFetchRPS    float64       `env:"COLLECT_FETCH_RPS" envDefault:"2"`
	CollectHTTPTimeout time.Duration `env:"COLLECT_HTTP_TIMEOUT" envDefault:"15s"`

	// Notification.
	DingTalkWebhookURL string        `env:"DINGTALK_WEBHOOK_URL"`
	DingTalkSecret     string        `env:"DINGTALK_SECRET"`
	NotifyTimeout      time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"10s"`

	// Archive pool.
	DBMaxConnections int32 `env:"DB_MAX_CONNECTIONS" envDefault:"8"`
	DBMinConnections int32 `env:"DB_MIN_CONNECTIONS" envDefault:"1"`
}

// Load reads configuration from the environment, honoring a local .env
// file when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// Location resolves the configured operational timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}

	return loc, nil
}
