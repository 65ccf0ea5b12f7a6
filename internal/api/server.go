// Package api provides the HTTP API server and handlers for the Yaqra application.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/yaqraapp/yaqra-server/internal/http/response"
	"github.com/yaqraapp/yaqra-server/internal/metrics"
	"github.com/yaqraapp/yaqra-server/internal/ratelimit"
	"github.com/yaqraapp/yaqra-server/internal/service"
)

// Services groups the service layer the handlers call into.
type Services struct {
	Book           *service.BookService
	Community      *service.CommunityService
	Recommendation *service.RecommendationService
	Search         *service.SearchService
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures optional server behaviour.
type Options struct {
	CORSOrigins []string
	LikeLimiter *ratelimit.KeyedRateLimiter
	Metrics     *metrics.Metrics
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services    *Services
	db          Pinger
	router      *chi.Mux
	api         huma.API
	likeLimiter *ratelimit.KeyedRateLimiter
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, db Pinger, opts Options, logger *slog.Logger) *Server {
	s := &Server{
		services:    services,
		db:          db,
		router:      chi.NewRouter(),
		likeLimiter: opts.LikeLimiter,
		metrics:     opts.Metrics,
		logger:      logger,
	}

	s.setupMiddleware(opts.CORSOrigins)

	humaConfig := huma.DefaultConfig("Yaqra API", "1.0.0")
	humaConfig.Info.Description = "Books, reviews, playlists and discussions for readers."
	humaConfig.Components.Schemas = huma.NewMapRegistry("#/components/schemas/", schemaNamer)
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for tests and OpenAPI generation.
func (s *Server) API() huma.API {
	return s.api
}

func (s *Server) setupMiddleware(origins []string) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(response.Recoverer(s.logger))
	if s.metrics != nil {
		s.router.Use(s.metrics.Middleware)
	}
	if len(origins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", userHeader},
			ExposedHeaders:   []string{"X-Request-Id"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}
	s.router.Use(userMiddleware)
	s.router.Use(requestLogger(s.logger))

	s.router.NotFound(response.NotFound(s.logger))
	s.router.MethodNotAllowed(response.MethodNotAllowed(s.logger))
}

func (s *Server) setupRoutes() {
	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler())
	}

	s.registerHealthRoutes()
	s.registerBookRoutes()
	s.registerGenreRoutes()
	s.registerPlaylistRoutes()
	s.registerDiscussionRoutes()
	s.registerReviewRoutes()
	s.registerPostRoutes()
	s.registerCommentRoutes()
	s.registerFeedRoutes()
	s.registerRecommendationRoutes()
	if s.services.Search != nil {
		s.registerSearchRoutes()
	}
}

// schemaNamer names schemas like huma's default namer, but keeps slices
// distinct so Result[[]BookView] and Result[BookView] do not collide.
func schemaNamer(t reflect.Type, hint string) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" {
		return huma.DefaultSchemaNamer(t, hint)
	}
	name = strings.ReplaceAll(name, "[]", "[List]")

	var b strings.Builder
	for _, part := range strings.FieldsFunc(name, func(r rune) bool {
		return r == '[' || r == ']' || r == '*' || r == ','
	}) {
		base := part[strings.LastIndex(part, ".")+1:]
		r, size := utf8.DecodeRuneInString(base)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(base[size:])
	}
	return b.String()
}
