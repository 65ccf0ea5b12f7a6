// Package metrics exposes Prometheus instrumentation for engagement activity
// and the HTTP API.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yaqraapp/yaqra-server/internal/domain"
	"github.com/yaqraapp/yaqra-server/internal/events"
)

// Metrics holds every collector the server records into. Collectors are
// registered on the registry passed to New, so tests can use a fresh one.
type Metrics struct {
	registry *prometheus.Registry

	LikeToggles        *prometheus.CounterVec
	EngagementEvents   *prometheus.CounterVec
	TrendingPrunes     prometheus.Counter
	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
	APIRateLimitHits   *prometheus.CounterVec
}

// New registers the collectors on reg, plus the Go and process collectors.
func New(reg *prometheus.Registry) *Metrics {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		LikeToggles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yaqra_like_toggles_total",
				Help: "Total number of like toggles",
			},
			[]string{"subject", "action"}, // action: "like" or "unlike"
		),

		EngagementEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yaqra_engagement_events_total",
				Help: "Total number of engagement events published",
			},
			[]string{"type", "source"},
		),

		TrendingPrunes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "yaqra_trending_signals_pruned_total",
				Help: "Total number of trending signals dropped by retention",
			},
		),

		APIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "api_requests_total",
				Help: "Total number of API requests",
			},
			[]string{"method", "status_code"},
		),

		APIRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "api_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"method"},
		),

		APIRateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "api_rate_limit_hits_total",
				Help: "Total number of rate limit rejections",
			},
			[]string{"subject"},
		),
	}
}

// LikeToggled records one completed like toggle.
func (m *Metrics) LikeToggled(kind domain.SubjectKind, state domain.LikeState) {
	action := "unlike"
	if state.IsLiked {
		action = "like"
	}
	m.LikeToggles.WithLabelValues(string(kind), action).Inc()
}

// HandleEvent counts engagement events by type and source post kind.
func (m *Metrics) HandleEvent(_ context.Context, e events.Event) error {
	source := string(e.Source)
	if source == "" {
		source = "book"
	}
	m.EngagementEvents.WithLabelValues(string(e.Type), source).Inc()
	return nil
}

// RateLimited records a rejected like toggle.
func (m *Metrics) RateLimited(kind domain.SubjectKind) {
	m.APIRateLimitHits.WithLabelValues(string(kind)).Inc()
}

// Pruned records trending signals dropped by retention.
func (m *Metrics) Pruned(n int) {
	m.TrendingPrunes.Add(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request counts and durations.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		m.APIRequestDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
		m.APIRequestsTotal.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
