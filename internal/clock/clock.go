// Package clock abstracts wall-clock time so day-boundary logic is testable.
package clock

import (
	"sync"
	"time"
)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// System is the production clock backed by time.Now.
type System struct{}

// Now returns the current time in UTC.
func (System) Now() time.Time { return time.Now().UTC() }

// Manual is a settable clock for deterministic tests.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual creates a Manual clock frozen at t.
func NewManual(t time.Time) *Manual {
	return &Manual{now: t.UTC()}
}

// Now returns the frozen instant.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set moves the clock to t.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t.UTC()
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// StartOfDay truncates t to 00:00:00.000 UTC of its calendar day.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextReset returns the start of the UTC day following t's day.
func NextReset(t time.Time) time.Time {
	return StartOfDay(t).Add(24 * time.Hour)
}
