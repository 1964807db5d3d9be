package sim

import (
	"sync"
	"time"
)

// Clock supplies the time the run loop measures frame intervals with.
// Tests substitute a ManualClock so ticks are deterministic.
type Clock interface {
	Now() time.Time
}

// SystemClock reads wall-clock time.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock only moves when told to.
type ManualClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewManualClock creates a clock stopped at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the clock's current time.
func (c *ManualClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// TimeMode selects how elapsed time turns into simulation ticks.
type TimeMode int

const (
	// FrameCoupled advances every body by exactly one unit of its speed
	// per rendered frame, whatever the frame rate.
	FrameCoupled TimeMode = iota
	// WallClock scales the advance by elapsed time, measured in reference
	// frames, so simulation speed does not depend on the refresh rate.
	WallClock
)

func (m TimeMode) String() string {
	switch m {
	case FrameCoupled:
		return "frame"
	case WallClock:
		return "wallclock"
	default:
		return "unknown"
	}
}

// ParseTimeMode parses "frame" or "wallclock".
func ParseTimeMode(s string) (TimeMode, bool) {
	switch s {
	case "", "frame":
		return FrameCoupled, true
	case "wallclock", "wall-clock", "wall":
		return WallClock, true
	default:
		return FrameCoupled, false
	}
}
