package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/chitledger/internal/adapter/http/handler"
	"github.com/iho/chitledger/internal/adapter/http/middleware"
	"github.com/iho/chitledger/internal/domain"
	"github.com/iho/chitledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	CalculatorHandler     *handler.CalculatorHandler
	EscrowHandler         *handler.EscrowHandler
	ContributionHandler   *handler.ContributionHandler
	PayoutHandler         *handler.PayoutHandler
	ReconciliationHandler *handler.ReconciliationHandler
	WebhookHandler        *handler.WebhookHandler
	HealthHandler         *handler.HealthHandler
	IdempotencyStore      usecase.IdempotencyStore
	IdempotencyTTL        time.Duration
	RateLimiter           *middleware.RateLimiter
	// TokenVerifier enables bearer authentication and role checks when set.
	TokenVerifier middleware.TokenVerifier
	Logger        zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	if cfg.WebhookHandler != nil {
		r.Post("/webhooks/payments", cfg.WebhookHandler.Payments)
	}

	requireRole := func(role domain.Role) func(http.Handler) http.Handler {
		if cfg.TokenVerifier == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return middleware.RequireRole(role)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.TokenVerifier != nil {
			r.Use(middleware.AuthMiddleware(cfg.TokenVerifier))
		}
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).Wrap)
		}

		r.Post("/estimate", cfg.CalculatorHandler.Estimate)

		r.Route("/groups/{groupID}", func(r chi.Router) {
			r.Get("/estimate", cfg.CalculatorHandler.EstimateForGroup)
			r.Get("/escrow", cfg.EscrowHandler.GetByGroup)
		})

		r.Route("/escrow-accounts", func(r chi.Router) {
			r.With(requireRole(domain.RoleOperator)).Post("/", cfg.EscrowHandler.Open)
			r.Get("/", cfg.EscrowHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", cfg.EscrowHandler.Get)
				r.Get("/contributions", cfg.ContributionHandler.ListByAccount)
				r.Get("/payouts", cfg.PayoutHandler.ListByAccount)
				r.Get("/payouts/{payoutID}", cfg.PayoutHandler.Get)
				r.With(requireRole(domain.RoleOperator)).Get("/reconciliation", cfg.ReconciliationHandler.ReconcileAccount)

				r.Group(func(r chi.Router) {
					r.Use(requireRole(domain.RoleAdmin))
					r.Post("/payouts", cfg.PayoutHandler.Release)
					r.Post("/freeze", cfg.EscrowHandler.Freeze)
					r.Post("/unfreeze", cfg.EscrowHandler.Unfreeze)
					r.Post("/close", cfg.EscrowHandler.Close)
				})
			})
		})

		r.Route("/contributions", func(r chi.Router) {
			r.Post("/", cfg.ContributionHandler.Initiate)
			r.Get("/{id}", cfg.ContributionHandler.Get)
			r.With(requireRole(domain.RoleOperator)).Post("/confirm", cfg.ContributionHandler.Confirm)
			r.With(requireRole(domain.RoleOperator)).Post("/fail", cfg.ContributionHandler.Fail)
		})

		r.With(requireRole(domain.RoleAdmin)).Get("/reconciliation", cfg.ReconciliationHandler.Report)
	})

	return r
}
