// Package httpserver serves the liveness and metrics endpoints.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Black-And-White-Club/league-bot/app/shared/observability/attr"
	"github.com/Black-And-White-Club/league-bot/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// StatusFunc reports whether the Discord gateway is connected.
type StatusFunc func() bool

// Health is the body of GET /health.
type Health struct {
	Status           string    `json:"status"`
	Timestamp        time.Time `json:"timestamp"`
	DiscordConnected bool      `json:"discord_connected"`
}

// Server wraps the HTTP server.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// NewRouter builds the routes. gatherer may be nil to omit /metrics.
func NewRouter(cfg config.HTTPConfig, discord StatusFunc, gatherer prometheus.Gatherer, now func() time.Time) chi.Router {
	if now == nil {
		now = time.Now
	}
	if discord == nil {
		discord = func() bool { return false }
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(NewIPRateLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst).Middleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, Health{
			Status:           "healthy",
			Timestamp:        now().UTC(),
			DiscordConnected: discord(),
		})
	})
	r.Get("/keep-alive", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// New creates a Server listening on cfg.Addr.
func New(cfg config.HTTPConfig, handler http.Handler, logger *slog.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start serves in the background.
func (s *Server) Start() {
	go func() {
		s.logger.Info("HTTP server listening", attr.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server stopped", attr.Error(err))
		}
	}()
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
