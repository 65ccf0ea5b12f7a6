package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/do/v2"

	"github.com/yaqraapp/yaqra-server/internal/config"
	"github.com/yaqraapp/yaqra-server/internal/domain"
	"github.com/yaqraapp/yaqra-server/internal/engagement"
	"github.com/yaqraapp/yaqra-server/internal/events"
	"github.com/yaqraapp/yaqra-server/internal/logger"
	"github.com/yaqraapp/yaqra-server/internal/metrics"
	"github.com/yaqraapp/yaqra-server/internal/recommend"
	"github.com/yaqraapp/yaqra-server/internal/trending"
)

// ProvideMetrics provides the Prometheus collectors on a fresh registry.
func ProvideMetrics(i do.Injector) (*metrics.Metrics, error) {
	return metrics.New(prometheus.NewRegistry()), nil
}

// ProvideLedger provides the recommendation points ledger.
func ProvideLedger(i do.Injector) (*recommend.Ledger, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return recommend.NewLedger(storeHandle.Store, log.WithComponent("recommend").Logger), nil
}

// ProvideTracker provides the trending tracker.
func ProvideTracker(i do.Injector) (*trending.Tracker, error) {
	cfg := do.MustInvoke[*config.Config](i)
	signals := do.MustInvoke[*SignalsHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return trending.NewTracker(signals.Signals, trending.Options{
		Window:    cfg.Trending.Window,
		Limit:     cfg.Trending.Limit,
		Retention: cfg.Trending.Retention,
	}, log.WithComponent("trending").Logger), nil
}

// ProvideEventBus provides the engagement bus with every consumer subscribed.
// The ledger is subscribed first so point updates land before signals.
func ProvideEventBus(i do.Injector) (*events.Bus, error) {
	ledger := do.MustInvoke[*recommend.Ledger](i)
	tracker := do.MustInvoke[*trending.Tracker](i)
	m := do.MustInvoke[*metrics.Metrics](i)

	bus := events.NewBus()
	bus.Subscribe("recommend", ledger)
	bus.Subscribe("trending", tracker)
	bus.Subscribe("metrics", m)
	return bus, nil
}

// Likes groups the like togglers for posts and comments.
type Likes struct {
	Posts    *engagement.Toggler
	Comments *engagement.Toggler
}

// ProvideLikes provides the like togglers.
func ProvideLikes(i do.Injector) (*Likes, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	log := do.MustInvoke[*logger.Logger](i).WithComponent("engagement").Logger

	return &Likes{
		Posts:    engagement.NewToggler(domain.SubjectPost, storeHandle.PostLikes(), m, log),
		Comments: engagement.NewToggler(domain.SubjectComment, storeHandle.CommentLikes(), m, log),
	}, nil
}
