package history

import (
	"log/slog"
	"time"
)

// DefaultMoveThreshold is the smallest displacement, in world units, that
// makes a move worth recording.
const DefaultMoveThreshold = 5.0

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithClock replaces the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithIDs replaces the entry id generator.
func WithIDs(newID func() string) Option {
	return func(m *Manager) {
		m.newID = newID
	}
}

// WithMoveThreshold sets the minimum net displacement of a recorded move.
func WithMoveThreshold(threshold float64) Option {
	return func(m *Manager) {
		if threshold >= 0 {
			m.moveThreshold = threshold
		}
	}
}

// WithMaxEntries caps the timeline length. Zero keeps every entry.
func WithMaxEntries(n int) Option {
	return func(m *Manager) {
		if n >= 0 {
			m.maxEntries = n
		}
	}
}
