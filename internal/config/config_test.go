package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "local", cfg.AppEnv)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 9090, cfg.HealthPort)
	assert.Equal(t, "127.0.0.1:6379", cfg.RedisAddr)
	assert.Equal(t, "Asia/Shanghai", cfg.Timezone)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 7, cfg.HistoryDays)
	assert.InDelta(t, 0.25, cfg.SimilarityMin, 0.001)
	assert.Equal(t, 30*time.Minute, cfg.CollectTickEvery)
	assert.Empty(t, cfg.PostgresDSN)
	assert.Empty(t, cfg.DingTalkWebhookURL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("ANALYSIS_CACHE_TTL", "30m")
	t.Setenv("ANALYSIS_HISTORY_DAYS", "14")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/hotboard")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, 9000, cfg.HTTPPort)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 14, cfg.HistoryDays)
	assert.Equal(t, "postgres://localhost/hotboard", cfg.PostgresDSN)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("HTTP_PORT", "not-a-port")

	_, err := Load()

	assert.Error(t, err)
}

func TestLocation(t *testing.T) {
	cfg := &Config{Timezone: "Asia/Shanghai"}

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Shanghai", loc.String())

	cfg.Timezone = "Not/AZone"
	_, err = cfg.Location()
	assert.Error(t, err)
}
