package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := defaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "./data/yaqra.db", cfg.Database.Path)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, TrendingBackendSQLite, cfg.Trending.Backend)
	assert.Equal(t, 168*time.Hour, cfg.Trending.Window)
	assert.Equal(t, 10, cfg.Trending.Limit)
	assert.Equal(t, 5, cfg.Rating.Scale)
	assert.Equal(t, 10, cfg.Recommend.DefaultCount)
	assert.Equal(t, 10, cfg.Pagination.Posts)
	assert.True(t, cfg.Search.Enabled)
	assert.Equal(t, "./data/search", cfg.Search.Path)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnvVar, "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "yaqra.yaml")
	yaml := `
app:
  environment: production
logging:
  level: debug
trending:
  backend: badger
  badger_path: /var/lib/yaqra/trending
  window: 24h
  limit: 5
pagination:
  posts: 25
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("TRENDING_LIMIT", "3")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SOME_UNRELATED_VAR", "ignored")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, TrendingBackendBadger, cfg.Trending.Backend)
	assert.Equal(t, "/var/lib/yaqra/trending", cfg.Trending.BadgerPath)
	assert.Equal(t, 24*time.Hour, cfg.Trending.Window)
	assert.Equal(t, 3, cfg.Trending.Limit, "env overrides file")
	assert.Equal(t, 25, cfg.Pagination.Posts)
	assert.Equal(t, 20, cfg.Pagination.Comments, "defaults survive partial files")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
}

func TestLoad_InvalidFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("TRENDING_BACKEND", "redis")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trending.backend")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad environment", func(c *Config) { c.App.Environment = "prod" }, "app.environment"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"no db path", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"zero window", func(c *Config) { c.Trending.Window = 0 }, "trending.window"},
		{"badger without path", func(c *Config) {
			c.Trending.Backend = TrendingBackendBadger
			c.Trending.BadgerPath = ""
		}, "trending.badger_path"},
		{"retention shorter than window", func(c *Config) { c.Trending.Retention = time.Hour }, "trending.retention"},
		{"zero scale", func(c *Config) { c.Rating.Scale = 0 }, "rating.scale"},
		{"max below default", func(c *Config) { c.Recommend.MaxCount = 1 }, "recommend.max_count"},
		{"zero burst", func(c *Config) { c.RateLimit.Burst = 0 }, "ratelimit"},
		{"zero page", func(c *Config) { c.Pagination.Comments = 0 }, "pagination"},
		{"zero search limit", func(c *Config) { c.Search.DefaultLimit = 0 }, "search.default_limit"},
		{"zero timeout", func(c *Config) { c.Server.IdleTimeout = 0 }, "timeouts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	assert.Equal(t, "database.path", envTransformFunc("YAQRA_DB_PATH"))
	assert.Equal(t, "logging.level", envTransformFunc("LOG_LEVEL"))
	assert.Equal(t, "", envTransformFunc("PATH"))
}
