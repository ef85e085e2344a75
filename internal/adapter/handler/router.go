package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/rl1809/jewelry-storefront/internal/observability"
)

type RouterConfig struct {
	Logger         *zap.Logger
	Limiter        *RateLimiter
	RequestTimeout time.Duration
}

// NewRouter mounts the API under /api with request ids, panic recovery and
// per-IP throttling.
func NewRouter(h *HTTPHandler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	r.Get("/healthz", h.HealthCheck)

	r.Route("/api", func(api chi.Router) {
		if cfg.Limiter != nil {
			api.Use(cfg.Limiter.Middleware)
		}
		h.Routes(api)
	})

	return r
}
