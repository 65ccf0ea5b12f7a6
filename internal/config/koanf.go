package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/yaqra/config.yaml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with every default applied.
func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Environment: "development",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Database: DatabaseConfig{
			Path:       "./data/yaqra.db",
			SeedGenres: true,
		},
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
			CORSOrigins:  []string{"*"},
		},
		Trending: TrendingConfig{
			Backend:       TrendingBackendSQLite,
			BadgerPath:    "./data/trending",
			Window:        7 * 24 * time.Hour,
			Limit:         10,
			Retention:     30 * 24 * time.Hour,
			PruneInterval: time.Hour,
		},
		Rating: RatingConfig{
			Scale: 5,
		},
		Recommend: RecommendConfig{
			DefaultCount: 10,
			MaxCount:     50,
		},
		RateLimit: RateLimitConfig{
			LikesPerSecond: 5,
			Burst:          10,
		},
		Pagination: PaginationConfig{
			Posts:    10,
			Comments: 20,
			Books:    20,
		},
		Search: SearchConfig{
			Enabled:      true,
			Path:         "./data/search",
			DefaultLimit: 20,
		},
	}
}

// Load builds the configuration in three layers: defaults, then an optional
// YAML file, then environment variables. The result is validated.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file that exists, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed as comma-separated lists when they come from the environment.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to config paths.
// Unmapped variables are ignored so the rest of the environment cannot leak in.
var envMappings = map[string]string{
	"env":                        "app.environment",
	"app_environment":            "app.environment",
	"log_level":                  "logging.level",
	"log_format":                 "logging.format",
	"log_add_source":             "logging.add_source",
	"yaqra_db_path":              "database.path",
	"yaqra_seed_genres":          "database.seed_genres",
	"server_port":                "server.port",
	"server_read_timeout":        "server.read_timeout",
	"server_write_timeout":       "server.write_timeout",
	"server_idle_timeout":        "server.idle_timeout",
	"cors_origins":               "server.cors_origins",
	"trending_backend":           "trending.backend",
	"trending_badger_path":       "trending.badger_path",
	"trending_window":            "trending.window",
	"trending_limit":             "trending.limit",
	"trending_retention":         "trending.retention",
	"trending_prune_interval":    "trending.prune_interval",
	"rating_scale":               "rating.scale",
	"recommend_default_count":    "recommend.default_count",
	"recommend_max_count":        "recommend.max_count",
	"ratelimit_likes_per_second": "ratelimit.likes_per_second",
	"ratelimit_burst":            "ratelimit.burst",
	"pagination_posts":           "pagination.posts",
	"pagination_comments":        "pagination.comments",
	"pagination_books":           "pagination.books",
	"search_enabled":             "search.enabled",
	"search_path":                "search.path",
	"search_default_limit":       "search.default_limit",
}

// envTransformFunc maps an environment variable name to its config path.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
