package clock

import (
	"fmt"
	"sync"
	"time"
)

// TrustedClock is the ground-truth time source for attendance decisions.
// Services take it as a dependency instead of calling time.Now.
type TrustedClock interface {
	Now() time.Time
	Location() *time.Location
}

// SystemClock reads the server clock in a fixed company timezone.
type SystemClock struct {
	loc *time.Location
}

func NewSystemClock(loc *time.Location) *SystemClock {
	if loc == nil {
		loc = time.UTC
	}
	return &SystemClock{loc: loc}
}

// NewSystemClockIn loads an IANA zone name such as "Asia/Jakarta".
func NewSystemClockIn(name string) (*SystemClock, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", name, err)
	}
	return NewSystemClock(loc), nil
}

func (c *SystemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *SystemClock) Location() *time.Location {
	return c.loc
}

// FixedClock returns a settable instant. Used in tests and replays.
type FixedClock struct {
	mu      sync.RWMutex
	current time.Time
}

func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{current: t}
}

func (c *FixedClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

func (c *FixedClock) Location() *time.Location {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current.Location()
}

func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)
	c.mu.Unlock()
}

// Today is midnight of now's calendar date in the clock's location.
func Today(c TrustedClock) time.Time {
	now := c.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
