// Package api provides the HTTP JSON API for cryptodash.
//
// It exposes the filtered market table, summary statistics, insights,
// filter suggestions, asset detail and crypto news.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/seenimoa/cryptodash/internal/config"
	"github.com/seenimoa/cryptodash/internal/datasource"
	"github.com/seenimoa/cryptodash/internal/infra"
	"github.com/seenimoa/cryptodash/pkg/models"
)

// Options wires a Server to its collaborators.
type Options struct {
	Config     *config.Config
	Aggregator *datasource.Aggregator
	Store      infra.SnapshotStore
	Logger     logrus.FieldLogger
	Version    string
}

// Server is the HTTP API server.
type Server struct {
	router  chi.Router
	cfg     *config.Config
	agg     *datasource.Aggregator
	store   infra.SnapshotStore
	log     logrus.FieldLogger
	version string

	// refreshMu serialises upstream fetches so concurrent requests on a
	// cold store trigger one ListMarkets call.
	refreshMu sync.Mutex
}

// NewServer creates a configured API server with all routes and middleware.
// A nil Store falls back to an in-memory store.
func NewServer(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, errors.New("api: config is required")
	}
	if opts.Aggregator == nil || opts.Aggregator.Market() == nil {
		return nil, errors.New("api: market source is required")
	}
	if opts.Store == nil {
		opts.Store = infra.NewMemoryStore(opts.Config.Cache.TTLDuration())
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	srv := &Server{
		cfg:     opts.Config,
		agg:     opts.Aggregator,
		store:   opts.Store,
		log:     opts.Logger.WithField("component", "api"),
		version: opts.Version,
	}
	srv.router = srv.buildRouter()
	return srv, nil
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server and blocks until SIGINT/SIGTERM or
// ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("API server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: s.log, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Dashboard views
		r.Get("/markets", s.handleMarkets)
		r.Get("/stats", s.handleStats)
		r.Get("/insights", s.handleInsights)
		r.Get("/suggestions", s.handleSuggestions)
		r.Post("/suggestions/{key}/apply", s.handleApplySuggestion)
		r.Get("/criteria/default", s.handleDefaultCriteria)
		r.Post("/refresh", s.handleRefresh)

		// Asset detail and news
		r.Get("/coins/{id}", s.handleCoin)
		r.Get("/news", s.handleNews)

		// Configuration
		r.Get("/config", s.handleGetConfig)
		r.Get("/config/keys", s.handleGetConfigKeys)
	})

	return r
}

// snapshot returns the stored snapshot, fetching one when the store is
// empty or expired.
func (s *Server) snapshot(ctx context.Context) (*models.Snapshot, error) {
	snap, err := s.store.Latest(ctx)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, infra.ErrNoSnapshot) {
		s.log.WithError(err).Warn("snapshot store read failed, refetching")
	}
	return s.refresh(ctx, false)
}

// refresh fetches a new market list and stores it. With force set the
// source's response cache is dropped first. On failure nothing is stored,
// so the previous snapshot stays current.
func (s *Server) refresh(ctx context.Context, force bool) (*models.Snapshot, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	if !force {
		// Another request may have filled the store while we waited.
		if snap, err := s.store.Latest(ctx); err == nil {
			return snap, nil
		}
	}

	market := s.agg.Market()
	if inv, ok := market.(datasource.CacheInvalidator); ok && force {
		inv.InvalidateCache()
	}

	snap, err := market.ListMarkets(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, snap); err != nil {
		s.log.WithError(err).Warn("failed to store snapshot")
	}
	s.log.WithFields(logrus.Fields{
		"snapshot": snap.ID,
		"assets":   snap.Len(),
		"source":   snap.Source,
	}).Info("market snapshot refreshed")
	return snap, nil
}

// ============================================================
// Response helpers
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("failed to write JSON response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}

func writeData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: data})
}

// upstreamStatus maps a datasource error to an HTTP status.
func upstreamStatus(err error) int {
	switch {
	case errors.Is(err, datasource.ErrAssetNotFound):
		return http.StatusNotFound
	case errors.Is(err, datasource.ErrNotSupported):
		return http.StatusNotImplemented
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
