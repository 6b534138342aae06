package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCleaner struct {
	calls   atomic.Int32
	removed int64
	err     error
}

func (c *countingCleaner) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	c.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("cleanup ran without a deadline")
	}
	return c.removed, c.err
}

func TestRunTokenCleanup(t *testing.T) {
	cleaner := &countingCleaner{removed: 3}
	s, err := NewScheduler("", cleaner, zerolog.Nop())
	require.NoError(t, err)

	s.RunTokenCleanup()
	assert.Equal(t, int32(1), cleaner.calls.Load())

	cleaner.err = errors.New("db down")
	s.RunTokenCleanup()
	assert.Equal(t, int32(2), cleaner.calls.Load())
}

func TestNewSchedulerRejectsBadSchedule(t *testing.T) {
	_, err := NewScheduler("every tuesday", &countingCleaner{}, zerolog.Nop())
	assert.Error(t, err)
}

func TestSchedulerRegistersJob(t *testing.T) {
	s, err := NewScheduler("0 3 * * *", &countingCleaner{}, zerolog.Nop())
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 1)

	empty, err := NewScheduler("", &countingCleaner{}, zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, empty.cron.Entries())
}

func TestSchedulerStartStop(t *testing.T) {
	s, err := NewScheduler("@every 1h", &countingCleaner{}, zerolog.Nop())
	require.NoError(t, err)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
	assert.NoError(t, ctx.Err())
}
