package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/engine/history"
	"github.com/dshills/inkwell/internal/engine/tracking"
)

// Default configuration values.
const (
	DefaultMaxUndoGroups = history.DefaultMaxGroups
	DefaultMaxChanges    = tracking.DefaultMaxChanges
	DefaultGroupWindow   = history.DefaultGroupWindow
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content of the engine. The content is
// normalized.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
	}
}

// WithMaxUndoGroups sets the maximum number of undo groups kept.
func WithMaxUndoGroups(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxUndoGroups = n
		}
	}
}

// WithMaxChanges sets the maximum number of tracked changes.
func WithMaxChanges(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxChanges = n
		}
	}
}

// WithGroupWindow sets the undo grouping window.
func WithGroupWindow(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.groupWindow = d
		}
	}
}

// WithClock sets the clock used to timestamp edits.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithAutoIndent toggles copying the current indent on newline.
func WithAutoIndent(enabled bool) Option {
	return func(e *Engine) {
		e.autoIndent = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithReadOnly creates a read-only engine.
// Write operations will return ErrReadOnly.
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}
