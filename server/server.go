// Package server serves the latest pipeline result as the html dashboard and as json endpoints,
// refreshing it on a cron schedule. A failed refresh keeps serving the previous result.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/aouyang1/go-pricecast"
	"github.com/aouyang1/go-pricecast/dashboard"
	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
)

var (
	ErrNoRunner    = errors.New("no pipeline runner provided")
	ErrNotReady    = errors.New("no successful pipeline run yet")
	ErrInvalidCron = errors.New("invalid refresh schedule")
)

const DefaultRunTimeout = 5 * time.Minute

// Runner produces a fresh result. *pricecast.Pipeline satisfies it.
type Runner interface {
	Run(ctx context.Context) (*pricecast.Result, error)
}

// Options configures the refresh schedule and the rendered dashboard
type Options struct {
	// RefreshCron is a standard five field cron spec, empty disables scheduled refreshes
	RefreshCron string
	RunTimeout  time.Duration
	Dashboard   *dashboard.Options
}

// Status reports the outcome of the refreshes
type Status struct {
	Ready       bool      `json:"ready"`
	GeneratedAt time.Time `json:"generated_at,omitempty"`
	LastAttempt time.Time `json:"last_attempt,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
	Refreshes   int       `json:"refreshes"`
	Failures    int       `json:"failures"`
}

type Server struct {
	runner Runner
	opt    Options
	cron   *cron.Cron
	router *mux.Router

	// serializes refreshes
	runMu sync.Mutex

	mu     sync.RWMutex
	res    *pricecast.Result
	status Status
}

// New creates a server and registers its routes and refresh schedule. The schedule only starts
// with Start.
func New(runner Runner, opt *Options) (*Server, error) {
	if runner == nil {
		return nil, ErrNoRunner
	}
	if opt == nil {
		opt = &Options{}
	}
	s := &Server{
		runner: runner,
		opt:    *opt,
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		router: mux.NewRouter(),
	}
	if s.opt.RunTimeout <= 0 {
		s.opt.RunTimeout = DefaultRunTimeout
	}

	if s.opt.RefreshCron != "" {
		_, err := s.cron.AddFunc(s.opt.RefreshCron, func() {
			if err := s.Refresh(context.Background()); err != nil {
				slog.Error("scheduled refresh failed", "error", err)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("%q, %w: %w", s.opt.RefreshCron, ErrInvalidCron, err)
		}
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.router.HandleFunc("/", s.handleDashboard).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	api.HandleFunc("/result", s.handleResult).Methods(http.MethodGet)
	api.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	api.HandleFunc("/forecast", s.handleForecast).Methods(http.MethodGet)
	api.HandleFunc("/chart", s.handleChart).Methods(http.MethodGet)
	api.HandleFunc("/refresh", s.handleRefresh).Methods(http.MethodPost)
}

// Handler returns the http handler of every route
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins the scheduled refreshes
func (s *Server) Start() {
	s.cron.Start()
	if s.opt.RefreshCron != "" {
		slog.Info("refresh scheduled", "cron", s.opt.RefreshCron)
	}
}

// Stop halts the schedule and waits for a running refresh to complete or the context to expire
func (s *Server) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Refresh runs the pipeline and swaps in its result on success. On failure the previous result
// stays in place and the error is recorded in the status.
func (s *Server) Refresh(ctx context.Context) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.opt.RunTimeout)
	defer cancel()

	start := time.Now()
	res, err := s.runner.Run(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.LastAttempt = start.UTC()
	if err != nil {
		s.status.Failures++
		s.status.LastError = err.Error()
		return fmt.Errorf("unable to refresh, %w", err)
	}
	s.res = res
	s.status.Ready = true
	s.status.Refreshes++
	s.status.LastError = ""
	s.status.GeneratedAt = res.GeneratedAt
	slog.Info("refreshed result", "duration", time.Since(start))
	return nil
}

// Result returns the latest successful result, nil before the first one
func (s *Server) Result() *pricecast.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.res
}

// Status returns a snapshot of the refresh status
func (s *Server) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}
