// Package providers contains dependency injection providers for the Yaqra server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/yaqraapp/yaqra-server/internal/config"
	"github.com/yaqraapp/yaqra-server/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.Load()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Format:      cfg.Logging.Format,
		Level:       logger.ParseLevel(cfg.Logging.Level),
		AddSource:   cfg.Logging.AddSource || cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting Yaqra Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logging.Level,
		"database_path", cfg.Database.Path,
		"trending_backend", cfg.Trending.Backend,
	)

	return log, nil
}
