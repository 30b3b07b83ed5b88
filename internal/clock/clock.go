// Package clock abstracts the wall clock so date-sensitive logic (billing
// month boundaries, due dates, expiry sweeps) is deterministic under test.
// All times are normalized to UTC.
package clock

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Clock provides the current time and timer primitives.
type Clock interface {
	// Now returns the current time in UTC.
	Now() time.Time
	// Today returns the current date truncated to midnight UTC.
	Today() time.Time
	// Timer returns a timer firing after d, honoring mock time in tests.
	Timer(d time.Duration) *clock.Timer
}

type realClock struct {
	inner clock.Clock
}

// New returns a Clock backed by the system clock.
func New() Clock {
	return &realClock{inner: clock.New()}
}

func (c *realClock) Now() time.Time {
	return c.inner.Now().UTC()
}

func (c *realClock) Today() time.Time {
	return Truncate(c.Now())
}

func (c *realClock) Timer(d time.Duration) *clock.Timer {
	return c.inner.Timer(d)
}

// Mock is a controllable clock for tests.
type Mock struct {
	inner *clock.Mock
}

// NewMock returns a mock clock pinned at the zero mock time.
func NewMock() *Mock {
	return &Mock{inner: clock.NewMock()}
}

func (m *Mock) Now() time.Time {
	return m.inner.Now().UTC()
}

func (m *Mock) Today() time.Time {
	return Truncate(m.Now())
}

func (m *Mock) Timer(d time.Duration) *clock.Timer {
	return m.inner.Timer(d)
}

// Set pins the mock clock to t, firing any timers along the way.
func (m *Mock) Set(t time.Time) {
	m.inner.Set(t)
}

// Add advances the mock clock by d, firing any timers along the way.
func (m *Mock) Add(d time.Duration) {
	m.inner.Add(d)
}

// Truncate drops the time-of-day component, keeping midnight UTC.
func Truncate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextMidnight returns the first midnight UTC strictly after t.
func NextMidnight(t time.Time) time.Time {
	return Truncate(t).AddDate(0, 0, 1)
}
