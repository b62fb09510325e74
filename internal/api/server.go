// Package api exposes the exporter over HTTP: the Prometheus scrape
// endpoint, a health check, and a small JSON API over the sample
// history.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"

	"printwatch-v0/internal/api/handlers"
	apimiddleware "printwatch-v0/internal/api/middleware"
	"printwatch-v0/internal/infrastructure/logger"
)

// Server represents the API server
type Server struct {
	httpServer *http.Server
	logger     *logger.Logger
}

// NewServer creates the HTTP server. store may be nil when history is
// disabled; apiKey may be empty, which leaves the JSON API open (the
// scrape and health endpoints are always open).
func NewServer(
	log *logger.Logger,
	port string,
	apiKey string,
	reg handlers.Snapshotter,
	store handlers.SampleLister,
) *Server {
	metricsHandler := handlers.NewMetricsHandler(reg, log)
	samplesHandler := handlers.NewSamplesHandler(store, log)

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Use(httplog.RequestLogger(log.SLog(), &httplog.Options{
		Level:             slog.LevelDebug,
		Schema:            httplog.SchemaECS.Concise(true),
		LogRequestHeaders: []string{}, // Log no headers by default to reduce verbosity
	}))

	// Scrape and health endpoints are unauthenticated by convention.
	r.Get("/metrics", metricsHandler.Scrape)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		if apiKey != "" {
			r.Use(apimiddleware.APIKeyAuthWithKey(apiKey))
		}

		r.Get("/snapshot", metricsHandler.Snapshot)
		r.Get("/samples", samplesHandler.ListSamples)
	})

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Debug("Server configured",
		"port", port,
		"auth", apiKey != "",
		"middleware", []string{"RequestID", "RealIP", "Recoverer", "httplog"},
	)

	return &Server{
		httpServer: httpServer,
		logger:     log,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		s.logger.Error("Server error", "err", err)
	}
	return err
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		s.logger.Error("Server shutdown error", "err", err)
	} else {
		s.logger.Info("Server shutdown complete")
	}
	return err
}
