package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// TokenCleaner removes refresh tokens past their expiry.
type TokenCleaner interface {
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

// Scheduler runs periodic maintenance jobs.
type Scheduler struct {
	cron    *cron.Cron
	cleaner TokenCleaner
	timeout time.Duration
	logger  zerolog.Logger
}

// NewScheduler registers the token cleanup job on schedule. An empty schedule
// leaves the scheduler without jobs.
func NewScheduler(schedule string, cleaner TokenCleaner, logger zerolog.Logger) (*Scheduler, error) {
	cl := cronLogger{logger: logger}
	s := &Scheduler{
		cron:    cron.New(cron.WithLogger(cl), cron.WithChain(cron.SkipIfStillRunning(cl))),
		cleaner: cleaner,
		timeout: 4 * time.Minute,
		logger:  logger,
	}

	if schedule == "" {
		logger.Info().Msg("Token cleanup schedule empty, job disabled")
		return s, nil
	}

	if _, err := s.cron.AddFunc(schedule, s.RunTokenCleanup); err != nil {
		return nil, fmt.Errorf("failed to schedule token cleanup: %w", err)
	}
	logger.Info().Str("schedule", schedule).Msg("Token cleanup job scheduled")
	return s, nil
}

// RunTokenCleanup flushes expired refresh tokens once.
func (s *Scheduler) RunTokenCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	removed, err := s.cleaner.CleanupExpiredTokens(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Token cleanup failed")
		return
	}
	s.logger.Info().Int64("removed", removed).Msg("Expired refresh tokens flushed")
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running job up to ctx's deadline.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn().Msg("Token cleanup still running at shutdown")
	}
}
