// Package config loads the server configuration from defaults, an optional
// YAML file, and environment variables, in that order of precedence.
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App        AppConfig        `koanf:"app"`
	Logging    LoggingConfig    `koanf:"logging"`
	Database   DatabaseConfig   `koanf:"database"`
	Server     ServerConfig     `koanf:"server"`
	Trending   TrendingConfig   `koanf:"trending"`
	Rating     RatingConfig     `koanf:"rating"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	RateLimit  RateLimitConfig  `koanf:"ratelimit"`
	Pagination PaginationConfig `koanf:"pagination"`
	Search     SearchConfig     `koanf:"search"`
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string `koanf:"environment"` // development, staging, production
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level     string `koanf:"level"`
	Format    string `koanf:"format"` // json, pretty, or empty to pick by environment
	AddSource bool   `koanf:"add_source"`
}

// DatabaseConfig holds SQLite storage configuration.
type DatabaseConfig struct {
	Path       string `koanf:"path"`
	SeedGenres bool   `koanf:"seed_genres"` // create the default genres on startup
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string        `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
	CORSOrigins  []string      `koanf:"cors_origins"`
}

// TrendingConfig holds trending signal storage and query configuration.
type TrendingConfig struct {
	Backend       string        `koanf:"backend"` // sqlite or badger
	BadgerPath    string        `koanf:"badger_path"`
	Window        time.Duration `koanf:"window"`
	Limit         int           `koanf:"limit"`
	Retention     time.Duration `koanf:"retention"` // 0 keeps signals forever
	PruneInterval time.Duration `koanf:"prune_interval"`
}

// RatingConfig holds review rating configuration.
type RatingConfig struct {
	Scale int `koanf:"scale"`
}

// RecommendConfig holds recommendation configuration.
type RecommendConfig struct {
	DefaultCount int `koanf:"default_count"`
	MaxCount     int `koanf:"max_count"`
}

// RateLimitConfig limits like toggles per user.
type RateLimitConfig struct {
	LikesPerSecond float64 `koanf:"likes_per_second"`
	Burst          int     `koanf:"burst"`
}

// PaginationConfig holds default page sizes per listing.
type PaginationConfig struct {
	Posts    int `koanf:"posts"`
	Comments int `koanf:"comments"`
	Books    int `koanf:"books"`
}

// SearchConfig holds catalog search configuration.
type SearchConfig struct {
	Enabled      bool   `koanf:"enabled"`
	Path         string `koanf:"path"` // index directory; empty keeps the index in memory
	DefaultLimit int    `koanf:"default_limit"`
}

// Trending backends.
const (
	TrendingBackendSQLite = "sqlite"
	TrendingBackendBadger = "badger"
)

var (
	validEnvironments = []string{"development", "staging", "production", "test"}
	validLogLevels    = []string{"debug", "info", "warn", "warning", "error"}
	validLogFormats   = []string{"", "json", "pretty", "text"}
)

// IsProduction reports whether the server runs in production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if !slices.Contains(validEnvironments, c.App.Environment) {
		return fmt.Errorf("app.environment must be one of %v, got %q", validEnvironments, c.App.Environment)
	}
	if !slices.Contains(validLogLevels, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("logging.level must be one of %v, got %q", validLogLevels, c.Logging.Level)
	}
	if !slices.Contains(validLogFormats, c.Logging.Format) {
		return fmt.Errorf("logging.format must be one of %v, got %q", validLogFormats, c.Logging.Format)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateTrending(); err != nil {
		return err
	}
	if c.Rating.Scale < 1 {
		return fmt.Errorf("rating.scale must be positive, got %d", c.Rating.Scale)
	}
	if c.Recommend.DefaultCount < 1 {
		return fmt.Errorf("recommend.default_count must be positive, got %d", c.Recommend.DefaultCount)
	}
	if c.Recommend.MaxCount < c.Recommend.DefaultCount {
		return fmt.Errorf("recommend.max_count (%d) must be at least recommend.default_count (%d)",
			c.Recommend.MaxCount, c.Recommend.DefaultCount)
	}
	if c.RateLimit.LikesPerSecond <= 0 || c.RateLimit.Burst < 1 {
		return fmt.Errorf("ratelimit.likes_per_second and ratelimit.burst must be positive")
	}
	if c.Pagination.Posts < 1 || c.Pagination.Comments < 1 || c.Pagination.Books < 1 {
		return fmt.Errorf("pagination sizes must be positive")
	}
	if c.Search.Enabled && c.Search.DefaultLimit < 1 {
		return fmt.Errorf("search.default_limit must be positive, got %d", c.Search.DefaultLimit)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.IdleTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	return nil
}

func (c *Config) validateTrending() error {
	switch c.Trending.Backend {
	case TrendingBackendSQLite:
	case TrendingBackendBadger:
		if c.Trending.BadgerPath == "" {
			return fmt.Errorf("trending.badger_path is required for the badger backend")
		}
	default:
		return fmt.Errorf("trending.backend must be %q or %q, got %q",
			TrendingBackendSQLite, TrendingBackendBadger, c.Trending.Backend)
	}
	if c.Trending.Window <= 0 {
		return fmt.Errorf("trending.window must be positive, got %s", c.Trending.Window)
	}
	if c.Trending.Limit < 1 {
		return fmt.Errorf("trending.limit must be positive, got %d", c.Trending.Limit)
	}
	if c.Trending.Retention < 0 {
		return fmt.Errorf("trending.retention must not be negative")
	}
	if c.Trending.Retention > 0 && c.Trending.Retention < c.Trending.Window {
		return fmt.Errorf("trending.retention (%s) must cover trending.window (%s)",
			c.Trending.Retention, c.Trending.Window)
	}
	if c.Trending.Retention > 0 && c.Trending.PruneInterval <= 0 {
		return fmt.Errorf("trending.prune_interval must be positive when retention is set")
	}
	return nil
}
