package routes

import (
	"log/slog"
	"net/http"
	"time"

	"Postdeck/internal/api/handlers/auth"
	"Postdeck/internal/api/handlers/post"
	"Postdeck/internal/api/middleware"
	"Postdeck/internal/metrics"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
)

// RouterConfig carries everything the collection server mounts
type RouterConfig struct {
	Posts    post.Service
	Auth     auth.Authenticator
	Verifier middleware.TokenVerifier
	Recorder metrics.ServerRecorder
	// Gatherer serves /metrics. Nil leaves /metrics unmounted.
	Gatherer           prometheus.Gatherer
	Logger             *slog.Logger
	AllowedOrigins     []string
	RateLimitPerMinute int
}

// Router is the collection server's HTTP handler.
// Close stops the rate limiters' background cleanup.
type Router struct {
	chi.Router
	limiters []*middleware.RateLimiter
}

// NewRouter builds the collection server's router
func NewRouter(cfg RouterConfig) *Router {
	if cfg.Recorder == nil {
		cfg.Recorder = metrics.Nop{}
	}

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.Metrics(cfg.Recorder))
	r.Use(corsMiddleware(cfg.AllowedOrigins))

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, 1*time.Minute)
	r.Use(rateLimiter.Middleware)

	authMiddleware := middleware.NewBearerAuthMiddleware(cfg.Verifier, cfg.Logger)

	RegisterPostRoutes(r, cfg.Posts, authMiddleware)
	loginLimiter := RegisterAuthRoutes(r, cfg.Auth)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if cfg.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(cfg.Gatherer))
	}

	return &Router{Router: r, limiters: []*middleware.RateLimiter{rateLimiter, loginLimiter}}
}

// Close stops background work owned by the router
func (r *Router) Close() {
	for _, l := range r.limiters {
		l.Stop()
	}
}

// corsMiddleware allows browser clients to use the collection with Bearer tokens
func corsMiddleware(allowedOrigins []string) func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
		},
		ExposedHeaders: []string{"Retry-After"},
		MaxAge:         300, // 5 minutes
	})
}
