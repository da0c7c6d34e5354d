package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := writeConfig(t, "server:\n  mode: debug\njwt:\n  secret: short\n")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DefaultLimits(), cfg.Limits)
	assert.Equal(t, 30, cfg.Analytics.TrendDefaultDays)
	assert.Equal(t, 366, cfg.Analytics.TrendMaxDays)
	assert.Equal(t, time.Minute, cfg.Analytics.CacheTTL())
	assert.Contains(t, cfg.CORS.AllowedMethods, "PATCH")
	assert.Contains(t, cfg.CORS.AllowedHeaders, "Authorization")
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: debug
limits:
  staging_capacity: 3
  max_subtasks: 5
analytics:
  trend_default_days: 7
  trend_max_days: 90
`)
	t.Setenv("DATABASE_HOST", "db.internal")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Limits.StagingCapacity)
	assert.Equal(t, 5, cfg.Limits.MaxSubtasks)
	assert.Equal(t, 1000, cfg.Limits.MaxTasks)
	assert.Equal(t, 7, cfg.Analytics.TrendDefaultDays)
	assert.Equal(t, "db.internal", cfg.Database.Host)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Mode: "release"},
			JWT:       JWTConfig{Secret: "0123456789abcdef0123456789abcdef"},
			Limits:    DefaultLimits(),
			Analytics: AnalyticsConfig{TrendDefaultDays: 30, TrendMaxDays: 366},
		}
	}

	assert.NoError(t, valid().Validate())

	cfg := valid()
	cfg.JWT.Secret = "too-short"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Limits.StagingCapacity = 0
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Analytics.TrendMaxDays = 10
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Limits.TxRetries = 0
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.Limits.TxRetries)
}
