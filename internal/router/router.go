package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ulule/limiter/v3"

	"github.com/talx-hub/eisc-ledger/internal/api/middlewares"
	"github.com/talx-hub/eisc-ledger/internal/service/config"
)

type CustomRouter struct {
	router  *chi.Mux
	logger  *slog.Logger
	cfg     *config.Config
	metrics http.Handler
	limiter *limiter.Limiter
}

func New(cfg *config.Config, log *slog.Logger) *CustomRouter {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if log == nil {
		log = slog.Default()
	}
	router := &CustomRouter{
		router: chi.NewRouter(),
		logger: log,
		cfg:    cfg,
	}

	return router
}

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type WalletHandler interface {
	GetBalance(w http.ResponseWriter, r *http.Request)
	GetTransactions(w http.ResponseWriter, r *http.Request)
	Purchase(w http.ResponseWriter, r *http.Request)
	ReleaseEscrow(w http.ResponseWriter, r *http.Request)
	ReceivePayment(w http.ResponseWriter, r *http.Request)
	GetMilestones(w http.ResponseWriter, r *http.Request)
	CompleteMilestone(w http.ResponseWriter, r *http.Request)
}

type HealthHandler interface {
	Ping(w http.ResponseWriter, r *http.Request)
}

type Handler interface {
	AuthHandler
	WalletHandler
	HealthHandler
}

// WithMetrics exposes h on /metrics. It must be called before SetRouter.
func (cr *CustomRouter) WithMetrics(h http.Handler) *CustomRouter {
	cr.metrics = h
	return cr
}

// WithRateLimit throttles the /api/user routes per client IP. It must be
// called before SetRouter.
func (cr *CustomRouter) WithRateLimit(l *limiter.Limiter) *CustomRouter {
	cr.limiter = l
	return cr
}

func (cr *CustomRouter) SetRouter(h Handler) {
	cr.router.Use(middleware.RequestID)
	cr.router.Use(middlewares.Logging(cr.logger))
	cr.router.Use(middleware.Recoverer)

	cr.router.Route("/api/user", func(r chi.Router) {
		if cr.limiter != nil {
			r.Use(middlewares.RateLimit(cr.limiter, cr.logger))
		}
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})

	cr.router.Route("/api/wallet", func(r chi.Router) {
		r.Use(middlewares.Authentication([]byte(cr.cfg.SecretKey), cr.logger))

		r.Get("/balance", h.GetBalance)
		r.Get("/transactions", h.GetTransactions)
		r.Post("/transactions/{id}/release", h.ReleaseEscrow)
		r.Get("/milestones", h.GetMilestones)
		r.Post("/milestones/{key}/complete", h.CompleteMilestone)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			r.Post("/purchases", h.Purchase)
			r.Post("/payments", h.ReceivePayment)
		})
	})
	cr.router.Get("/ping", h.Ping)
	if cr.metrics != nil {
		cr.router.Method(http.MethodGet, "/metrics", cr.metrics)
	}

	cr.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w,
			http.StatusText(http.StatusMethodNotAllowed),
			http.StatusMethodNotAllowed)
	})
}

func (cr *CustomRouter) GetRouter() *chi.Mux {
	return cr.router
}
