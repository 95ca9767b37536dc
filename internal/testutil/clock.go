package testutil

import (
	"sync"
	"time"
)

// FixedClock is a settable clock for tests.
//
// Unlike clock.System, FixedClock only moves when told to, so default dates
// and report windows are reproducible.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a clock stopped at now.
func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

// ClockOn creates a clock stopped at noon UTC on the given YYYY-MM-DD day.
// It panics on a malformed date.
func ClockOn(day string) *FixedClock {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return NewFixedClock(t.Add(12 * time.Hour))
}

// Now returns the stopped time.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// AddDays moves the clock forward (or back, for negative n) by n days.
func (c *FixedClock) AddDays(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.AddDate(0, 0, n)
}
