package history

import (
	"time"

	"go.uber.org/zap"
)

// Default configuration values.
const (
	DefaultGroupWindow = 300 * time.Millisecond
	DefaultMaxGroups   = 1000
)

// Option configures a History during creation.
type Option func(*History)

// WithGroupWindow sets how close in time two edits of the same kind must
// be to share an undo group.
func WithGroupWindow(d time.Duration) Option {
	return func(h *History) {
		if d >= 0 {
			h.window = d
		}
	}
}

// WithMaxGroups bounds the undo stack. The oldest groups are dropped.
func WithMaxGroups(n int) Option {
	return func(h *History) {
		if n > 0 {
			h.maxGroups = n
		}
	}
}

// WithClock replaces time.Now, mainly for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(h *History) {
		if now != nil {
			h.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(h *History) {
		if logger != nil {
			h.logger = logger.Named("history")
		}
	}
}
