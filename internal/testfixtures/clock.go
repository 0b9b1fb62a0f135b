package testfixtures

import (
	"sync"
	"time"
)

// referenceTime is Monday 2024-03-11 08:00 UTC, an hour before office hours open.
var referenceTime = time.Date(2024, time.March, 11, 8, 0, 0, 0, time.UTC)

// ReferenceTime returns the instant every fixture timestamp is derived from.
func ReferenceTime() time.Time {
	return referenceTime
}

// Clock is a settable time source handed to services as their Now function.
type Clock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewClock starts a clock at start, or at ReferenceTime when start is zero.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = referenceTime
	}
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// NowFunc returns Now as a func() time.Time. A nil clock reads the wall clock.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

// Advance moves the clock forward by d and returns the new instant.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// DayAt returns hour:minute on the calendar day that lies days after the
// clock's current date, in the clock's location.
func (c *Clock) DayAt(days, hour, minute int) time.Time {
	now := c.Now()
	y, m, d := now.Date()
	return time.Date(y, m, d+days, hour, minute, 0, 0, now.Location())
}
