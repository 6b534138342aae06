package testutil

import (
	"time"

	"github.com/timetable/scheduler/internal/pkg/auth"
)

// Clock is a settable time source.
type Clock struct {
	T time.Time
}

// Now returns the clock's time.
func (c *Clock) Now() time.Time { return c.T }

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) { c.T = c.T.Add(d) }

// NewClock returns a clock set to the current second.
func NewClock() *Clock {
	return &Clock{T: time.Now().Truncate(time.Second)}
}

// NewJWTService returns a token service with short lifetimes driven by clock.
func NewJWTService(clock *Clock) *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  5 * time.Minute,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "timetable-scheduler",
		Now:             clock.Now,
	})
}
