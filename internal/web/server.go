// Package web is the JSON HTTP front end of the shelter records: resident
// and service endpoints, report downloads, health and metrics.
//
// Handlers are thin. They decode input, call the directory, ledger or
// aggregator, and translate *model.Error codes to HTTP statuses.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/roach88/shelter/internal/directory"
	"github.com/roach88/shelter/internal/metrics"
	"github.com/roach88/shelter/internal/model"
	"github.com/roach88/shelter/internal/report"
)

// ShutdownTimeout bounds how long Serve waits for in-flight requests once
// its context is cancelled.
const ShutdownTimeout = 10 * time.Second

// Directory is the resident side of the API.
type Directory interface {
	Add(ctx context.Context, firstName, lastName, entryDate string) (model.Resident, error)
	IsDuplicate(ctx context.Context, firstName, lastName string) (bool, error)
	ListAll(ctx context.Context, opts directory.ListOptions) ([]model.Resident, error)
	Search(ctx context.Context, term string) ([]model.Resident, error)
	Get(ctx context.Context, id int64) (model.Resident, error)
	Count(ctx context.Context) (int, error)
}

// Ledger is the service side of the API.
type Ledger interface {
	LogService(ctx context.Context, residentID int64, serviceType, serviceDate string) (model.Service, error)
	ListAll(ctx context.Context, limit int) ([]model.ServiceEntry, error)
	ListForResident(ctx context.Context, residentID int64) ([]model.Service, error)
	Count(ctx context.Context) (int, error)
}

// Reports computes the report endpoints.
type Reports interface {
	Monthly(ctx context.Context, yearMonth string) (report.MonthlyReport, error)
	System(ctx context.Context) (report.SystemReport, error)
}

// Pinger reports store health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators of a Server. Logger and Metrics may be nil.
type Deps struct {
	Directory Directory
	Ledger    Ledger
	Reports   Reports
	Health    Pinger
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
}

// Server serves the API.
type Server struct {
	deps   Deps
	logger *slog.Logger
	router chi.Router
}

// New builds the router over deps.
func New(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{deps: deps, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(observe(s.logger, s.deps.Metrics))
	r.Use(recoverer(s.logger))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.deps.Metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", s.handleDashboard)

		r.Route("/residents", func(r chi.Router) {
			r.Get("/", s.handleListResidents)
			r.Post("/", s.handleAddResident)
			r.Get("/search", s.handleSearchResidents)
			r.Get("/duplicate", s.handleCheckDuplicate)
			r.Get("/{id}", s.handleGetResident)
			r.Get("/{id}/services", s.handleResidentServices)
		})

		r.Route("/services", func(r chi.Router) {
			r.Get("/", s.handleListServices)
			r.Post("/", s.handleLogService)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/monthly", s.handleMonthlyReport)
			r.Get("/monthly.csv", s.handleMonthlyCSV)
			r.Get("/system", s.handleSystemReport)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: errorBody{
			Code:    string(model.ErrCodeNotFound),
			Message: "no route for " + r.URL.Path,
		}})
	})
	return r
}

// Run listens on addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
// Serve owns ln and closes it.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.InfoContext(ctx, "http server listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	<-errCh

	s.logger.InfoContext(ctx, "http server stopped")
	return nil
}
