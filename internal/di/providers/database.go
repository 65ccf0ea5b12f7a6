package providers

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/yaqraapp/yaqra-server/internal/config"
	"github.com/yaqraapp/yaqra-server/internal/genre"
	"github.com/yaqraapp/yaqra-server/internal/logger"
	"github.com/yaqraapp/yaqra-server/internal/store/kv"
	"github.com/yaqraapp/yaqra-server/internal/store/sqlite"
	"github.com/yaqraapp/yaqra-server/internal/trending"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the database store, seeding the default genres when
// configured to.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, err := sqlite.Open(cfg.Database.Path, log.Logger)
	if err != nil {
		return nil, err
	}

	if cfg.Database.SeedGenres {
		created, err := genre.Seed(context.Background(), db, genre.DefaultGenres)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("seed genres: %w", err)
		}
		if len(created) > 0 {
			log.Info("Default genres seeded", "count", len(created))
		}
	}

	return &StoreHandle{Store: db}, nil
}

// SignalsHandle holds the trending signal log. With the sqlite backend it
// shares the main database and has nothing of its own to close.
type SignalsHandle struct {
	trending.Signals
	closer func() error
}

// Shutdown implements do.Shutdownable.
func (h *SignalsHandle) Shutdown() error {
	if h.closer == nil {
		return nil
	}
	return h.closer()
}

// ProvideSignals provides the trending signal log for the configured backend.
func ProvideSignals(i do.Injector) (*SignalsHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	switch cfg.Trending.Backend {
	case config.TrendingBackendBadger:
		signalLog, err := kv.Open(cfg.Trending.BadgerPath, cfg.Trending.Retention, log.Logger)
		if err != nil {
			return nil, err
		}
		log.Info("Trending signals stored in badger", "path", cfg.Trending.BadgerPath)
		return &SignalsHandle{Signals: signalLog, closer: signalLog.Close}, nil
	default:
		storeHandle := do.MustInvoke[*StoreHandle](i)
		return &SignalsHandle{Signals: storeHandle.Store}, nil
	}
}
