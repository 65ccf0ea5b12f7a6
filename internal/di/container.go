// Package di provides dependency injection configuration for the Yaqra server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/yaqraapp/yaqra-server/internal/config"
	"github.com/yaqraapp/yaqra-server/internal/di/providers"
	"github.com/yaqraapp/yaqra-server/internal/events"
	"github.com/yaqraapp/yaqra-server/internal/logger"
	"github.com/yaqraapp/yaqra-server/internal/metrics"
	"github.com/yaqraapp/yaqra-server/internal/recommend"
	"github.com/yaqraapp/yaqra-server/internal/service"
	"github.com/yaqraapp/yaqra-server/internal/trending"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideMetrics)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSignals)

	// Engagement
	do.Provide(injector, providers.ProvideLedger)
	do.Provide(injector, providers.ProvideTracker)
	do.Provide(injector, providers.ProvideEventBus)
	do.Provide(injector, providers.ProvideLikes)
	do.Provide(injector, providers.ProvideLikeLimiter)

	// Business services
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideCommunityService)
	do.Provide(injector, providers.ProvideRecommendationService)

	// Search
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Workers
	do.Provide(injector, providers.ProvideTrendingPruneJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*metrics.Metrics](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SignalsHandle](injector)

	// Engagement
	_ = do.MustInvoke[*recommend.Ledger](injector)
	_ = do.MustInvoke[*trending.Tracker](injector)
	_ = do.MustInvoke[*events.Bus](injector)
	_ = do.MustInvoke[*providers.Likes](injector)

	// Business services
	_ = do.MustInvoke[*service.BookService](injector)
	_ = do.MustInvoke[*service.CommunityService](injector)
	_ = do.MustInvoke[*service.RecommendationService](injector)

	// Search
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*service.SearchService](injector)
	providers.TriggerSearchReindexIfNeeded(injector)

	// Workers
	_ = do.MustInvoke[*providers.TrendingPruneJob](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
