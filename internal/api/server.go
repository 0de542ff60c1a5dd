package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"gridiron/internal/api/health"
	"gridiron/internal/metrics"
	"gridiron/pkg/errors"
	"gridiron/pkg/logger"
)

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           int
	ServiceName    string
	Version        string
	RateLimit      float64 // requests per second across the API; 0 disables
	RateLimitBurst int
}

// Server owns the HTTP listener and its routes
type Server struct {
	httpServer *http.Server
	log        *logger.Logger
}

// NewServer builds the mux. Every API route goes through the request ID,
// rate limit and observability middleware in that order; probe and metrics
// endpoints bypass all three.
func NewServer(
	cfg ServerConfig,
	healthHandler *health.Handler,
	projections *ProjectionHandler,
	players *PlayerHandler,
	log *logger.Logger,
) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", healthHandler.HandleHealth)
	mux.HandleFunc("/ready", healthHandler.HandleReadiness)
	mux.HandleFunc("/live", healthHandler.HandleLiveness)
	mux.Handle("/metrics", metrics.Handler())

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateLimitBurst
		if burst <= 0 {
			burst = int(cfg.RateLimit)
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
		log.Infof("Rate limit configured: %.0f rps, burst %d", cfg.RateLimit, burst)
	}

	route := func(pattern, name string, handler http.HandlerFunc) {
		mux.Handle(pattern, withRequestID(withRateLimit(limiter, withObservability(name, handler))))
	}

	route("GET /api/v1/players", "players_list", players.HandleList)
	route("GET /api/v1/players/{player_id}", "players_get", players.HandleGet)
	route("GET /api/v1/players/{player_id}/projection_ml", "projection_ml", projections.HandleProject)
	route("GET /api/v1/players/{player_id}/ml_projections", "projection_history", projections.HandleHistory)
	route("GET /api/v1/players/{player_id}/projection_baseline", "projection_baseline", projections.HandleBaseline)
	route("GET /api/v1/markets", "markets_list", players.HandleMarkets)
	route("GET /api/v1/markets/{market_code}/models", "market_models", projections.HandleTrainedModels)

	// Service info at the root, 404 for everything unrouted
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"service":"%s","version":"%s","status":"running"}`,
			cfg.ServiceName, cfg.Version)
	})

	port := 8080
	if cfg.Port > 0 {
		port = cfg.Port
	}

	log.Infof("HTTP server configured on port %d", port)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		log:        log,
	}
}

// Start blocks on the accept loop until Shutdown or a listener error
func (s *Server) Start() error {
	s.log.Infof("HTTP server listening on %s", s.httpServer.Addr)

	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "http server failed")
	}
	return nil
}

// Shutdown drains in-flight requests within the context deadline
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Stopping HTTP server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "http server shutdown failed")
	}

	s.log.Info("HTTP server stopped")
	return nil
}
