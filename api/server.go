// Package api serves the GenBI HTTP API: upload, finalize, query, save and list under
// /api/visualizations, and rendering and export under /api/charts.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/pivolan/genbi/config"
	"github.com/pivolan/genbi/service"
)

// Server wires the services to HTTP routes.
type Server struct {
	datasets       *service.DatasetService
	visualizations *service.VisualizationService
	querier        *service.Querier
	limiter        *rateLimiter
	logger         *slog.Logger
	router         chi.Router
}

func NewServer(cfg *config.Config, datasets *service.DatasetService, visualizations *service.VisualizationService,
	querier *service.Querier, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		datasets:       datasets,
		visualizations: visualizations,
		querier:        querier,
		limiter:        newRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		logger:         logger,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Client-Info", "Apikey"},
		MaxAge:         300,
	}))
	r.Use(s.limiter.middleware)

	r.Route("/api/visualizations", func(r chi.Router) {
		r.Post("/upload-chunk", s.handleUploadChunk)
		r.Post("/finalize-upload", s.handleFinalizeUpload)
		r.Post("/upload-dataset", s.handleUploadDataset)
		r.Post("/process-query", s.handleProcessQuery)
		r.Post("/save", s.handleSave)
		r.Get("/get", s.handleList)
	})
	r.Post("/api/datasets/upload", s.handleFileUpload)
	r.Route("/api/charts", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Post("/kinds", s.handleKinds)
		r.Post("/export.csv", s.handleExportCSV)
	})
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.limiter.sweep(10 * time.Minute)
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP API listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
