package providers

import (
	"context"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/yaqraapp/yaqra-server/internal/api"
	"github.com/yaqraapp/yaqra-server/internal/config"
	"github.com/yaqraapp/yaqra-server/internal/logger"
	"github.com/yaqraapp/yaqra-server/internal/metrics"
	"github.com/yaqraapp/yaqra-server/internal/ratelimit"
	"github.com/yaqraapp/yaqra-server/internal/service"
)

// shutdownTimeout bounds how long in-flight requests may drain on shutdown.
const shutdownTimeout = 30 * time.Second

// LikeLimiterHandle wraps the per-user like limiter with Shutdownable.
type LikeLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *LikeLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideLikeLimiter provides the per-user like limiter.
func ProvideLikeLimiter(i do.Injector) (*LikeLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return &LikeLimiterHandle{
		KeyedRateLimiter: ratelimit.New(cfg.RateLimit.LikesPerSecond, cfg.RateLimit.Burst),
	}, nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	limiter := do.MustInvoke[*LikeLimiterHandle](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Book:           do.MustInvoke[*service.BookService](i),
		Community:      do.MustInvoke[*service.CommunityService](i),
		Recommendation: do.MustInvoke[*service.RecommendationService](i),
		Search:         do.MustInvoke[*service.SearchService](i),
	}

	handler := api.NewServer(services, storeHandle.Store, api.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		LikeLimiter: limiter.KeyedRateLimiter,
		Metrics:     m,
	}, log.WithComponent("http").Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
