package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/yaqraapp/yaqra-server/internal/config"
	"github.com/yaqraapp/yaqra-server/internal/logger"
	"github.com/yaqraapp/yaqra-server/internal/metrics"
	"github.com/yaqraapp/yaqra-server/internal/trending"
)

// TrendingPruneJob periodically drops trending signals past retention.
type TrendingPruneJob struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (j *TrendingPruneJob) Shutdown() error {
	j.cancel()
	<-j.done
	return nil
}

// ProvideTrendingPruneJob provides the periodic trending prune job. With no
// retention configured the job does nothing.
func ProvideTrendingPruneJob(i do.Injector) (*TrendingPruneJob, error) {
	cfg := do.MustInvoke[*config.Config](i)
	tracker := do.MustInvoke[*trending.Tracker](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	log := do.MustInvoke[*logger.Logger](i).WithComponent("trending")

	ctx, cancel := context.WithCancel(context.Background())
	job := &TrendingPruneJob{cancel: cancel, done: make(chan struct{})}

	if cfg.Trending.Retention <= 0 || cfg.Trending.PruneInterval <= 0 {
		close(job.done)
		log.Info("Trending prune job disabled")
		return job, nil
	}

	prune := func() {
		count, err := tracker.Prune(ctx)
		if err != nil {
			log.WithError(err).Warn("Trending prune failed")
			return
		}
		m.Pruned(count)
		if count > 0 {
			log.Info("Trending signals pruned", "deleted", count)
		}
	}

	go func() {
		defer close(job.done)

		ticker := time.NewTicker(cfg.Trending.PruneInterval)
		defer ticker.Stop()

		prune()
		for {
			select {
			case <-ticker.C:
				prune()
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Trending prune job started",
		"interval", cfg.Trending.PruneInterval,
		"retention", cfg.Trending.Retention,
	)

	return job, nil
}
