// Package web exposes the order pipeline, insight battery, and chart
// aggregates over a JSON HTTP API.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/salescope/salescope/internal/common"
	"github.com/salescope/salescope/internal/importer"
	"github.com/salescope/salescope/internal/insight"
	"github.com/salescope/salescope/internal/pipeline"
	"github.com/salescope/salescope/internal/service"
)

// maxUploadSize bounds multipart CSV uploads.
const maxUploadSize = 32 << 20 // 32 MiB

// Server is the HTTP front end over the store and pipeline.
type Server struct {
	store    service.Storage
	cleaner  *pipeline.Cleaner
	importer *importer.Importer
	engine   *insight.Engine
	router   *chi.Mux
	server   *http.Server
	logger   *slog.Logger
}

// NewServer wires the handlers over the given store.
func NewServer(store service.Storage, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		store:    store,
		cleaner:  pipeline.NewCleaner(store),
		importer: importer.New(store, logger),
		engine:   insight.NewEngine(store),
		router:   chi.NewRouter(),
		logger:   logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/orders", s.handleListOrders)
		r.Post("/orders", s.handleCreateOrder)
		r.Delete("/orders/{id}", s.handleDeleteOrder)

		r.Post("/import", s.handleImport)

		r.Get("/insights", s.handleInsights)
		r.Get("/kpis", s.handleKPIs)

		r.Route("/chart", func(r chi.Router) {
			r.Get("/monthly", s.handleChartMonthly)
			r.Get("/products", s.handleChartProducts)
			r.Get("/regions", s.handleChartRegions)
			r.Get("/categories", s.handleChartCategories)
			r.Get("/top5products", s.handleChartTopProducts)
			r.Get("/payment", s.handleChartPayment)
			r.Get("/age", s.handleChartAge)
		})
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting server", "addr", addr)
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

// writeError logs the failure with its request id and returns a JSON error.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	common.LogError(err, "request error", common.Fields{
		"path":       r.URL.Path,
		"method":     r.Method,
		"status":     status,
		"request_id": middleware.GetReqID(r.Context()),
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":%q}`, err.Error())
}

// writeJSON encodes v as JSON and writes it to w.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("json encode error", "error", err)
	}
}
