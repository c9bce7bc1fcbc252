package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/payinstr/internal/adapter/http/handler"
	"github.com/iho/payinstr/internal/adapter/http/middleware"
	"github.com/iho/payinstr/internal/infrastructure/auth"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	InstructionHandler *handler.InstructionHandler
	HealthHandler      *handler.HealthHandler

	// Optional
	IdempotencyMiddleware *middleware.IdempotencyMiddleware
	RateLimiter           *middleware.RateLimiter
	JWTManager            *auth.JWTManager
	MetricsHandler        http.Handler

	// TrustProxyHeaders takes the client address from X-Forwarded-For/X-Real-IP.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxyHeaders bool

	Logger zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	if cfg.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery(cfg.Logger))

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Handle("/metrics", metricsHandler)

	r.Route("/payment-instructions", func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Limit)
		}
		if cfg.JWTManager != nil {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))
		}

		r.Get("/audit", cfg.InstructionHandler.ListAudit)

		r.Group(func(r chi.Router) {
			// Idempotency middleware for mutating requests
			if cfg.IdempotencyMiddleware != nil {
				r.Use(cfg.IdempotencyMiddleware.Wrap)
			}
			r.Post("/", cfg.InstructionHandler.Process)
		})
	})

	return r
}
