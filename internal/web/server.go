// Package web serves the pricing runs over HTTP.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/mtgprice/internal/config"
	"github.com/JonMunkholm/mtgprice/internal/pricing"
	"github.com/JonMunkholm/mtgprice/internal/web/middleware"
)

// Server is the HTTP front end for pricing.Service.
type Server struct {
	service *pricing.Service
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
	jobs    *JobLimiter

	registry *prometheus.Registry
	runs     *prometheus.CounterVec
}

// NewServer creates a new Server instance. reg receives the server's own
// metrics and backs GET /metrics; nil gets a private registry.
func NewServer(service *pricing.Service, cfg *config.Config, reg *prometheus.Registry) *Server {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	s := &Server{
		service:  service,
		cfg:      cfg,
		router:   chi.NewRouter(),
		jobs:     NewJobLimiter(cfg.Server.MaxConcurrentRuns, cfg.Server.RunWaitTime),
		registry: reg,
	}

	factory := promauto.With(reg)
	s.runs = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "mtgprice_runs_total",
		Help: "Pricing runs served over HTTP by mode and outcome.",
	}, []string{"mode", "outcome"})
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "mtgprice_runs_active",
		Help: "Pricing runs currently holding a slot.",
	}, func() float64 { return float64(s.jobs.Active()) })

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(securityHeaders)

	if s.cfg.Rate.Enabled {
		limiter := middleware.NewIPRateLimiter(s.cfg.Rate.RequestsPerMinute, s.cfg.Rate.Burst)
		s.router.Use(middleware.RateLimit(limiter))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	s.router.Route("/api", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(s.cfg.Security.APIKeys, s.cfg.Security.RequireAPIKey))

		r.Get("/formats", s.handleFormats)

		r.Post("/price", s.handlePrice)
		r.Post("/value", s.handleValue)
		r.Get("/template", s.handleTemplate)
		r.Post("/buylist", s.handleBuylist)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Jobs exposes the run limiter.
func (s *Server) Jobs() *JobLimiter {
	return s.jobs
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":      "ok",
		"active_runs": s.jobs.Active(),
		"max_runs":    s.jobs.MaxConcurrent(),
		"time":        time.Now().UTC().Format(time.RFC3339),
	})
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON and writes it to w.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
