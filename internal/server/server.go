package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/timetable/scheduler/internal/bootstrap"
	"github.com/timetable/scheduler/internal/config"
	"github.com/timetable/scheduler/internal/pkg/helpers"
)

// Server owns the HTTP listener, the job scheduler and the database pool.
type Server struct {
	config          *config.Config
	http            *http.Server
	dbPool          *pgxpool.Pool
	deps            *bootstrap.Dependencies
	logger          zerolog.Logger
	shutdownTimeout time.Duration
}

// NewServer loads configuration, prepares the database and wires every dependency.
func NewServer() (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	dbPool, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, dbPool, lgr)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	return &Server{
		config: cfg,
		http: &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      bootstrap.SetupRouter(cfg, deps, lgr),
			ReadTimeout:  helpers.ParseDuration(cfg.Server.ReadTimeout, 10*time.Second),
			WriteTimeout: helpers.ParseDuration(cfg.Server.WriteTimeout, 10*time.Second),
			IdleTimeout:  120 * time.Second,
		},
		dbPool:          dbPool,
		deps:            deps,
		logger:          lgr,
		shutdownTimeout: helpers.ParseDuration(cfg.Server.ShutdownTimeout, 10*time.Second),
	}, nil
}

// Run serves HTTP and runs scheduled jobs until the listener fails or the
// process receives SIGINT or SIGTERM.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Str("mode", s.config.Server.Mode).Msg("HTTP server listening")
		listenErr <- s.http.ListenAndServe()
	}()
	s.deps.Scheduler.Start()

	var runErr error
	select {
	case err := <-listenErr:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("error starting server: %w", err)
		}
	case <-ctx.Done():
		s.logger.Info().Msg("Shutdown signal received")
	}

	if err := s.Shutdown(context.Background()); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// Shutdown drains in-flight requests, waits for a running cleanup job and
// releases the cache client and the pool, in that order.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	var errs []error
	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Error().Err(err).Msg("HTTP server shutdown error")
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}

	s.deps.Scheduler.Stop(ctx)
	s.deps.Close()
	s.dbPool.Close()

	s.logger.Info().Msg("Server stopped")
	return errors.Join(errs...)
}
