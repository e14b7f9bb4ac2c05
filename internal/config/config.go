// Package config loads editor settings.
//
// Settings come from, in increasing priority: built-in defaults, a TOML or
// YAML file chosen by extension, and INKWELL_<SECTION>_<KEY> environment
// variables such as INKWELL_EDITOR_SCROLLOFF=5. A Watcher reloads the file
// when it changes.
package config

import (
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/dshills/inkwell/internal/kernel"
	"github.com/dshills/inkwell/internal/notebook"
	"github.com/dshills/inkwell/internal/renderer"
)

// Config is the complete set of settings.
type Config struct {
	Editor   EditorConfig   `toml:"editor" yaml:"editor"`
	Notebook NotebookConfig `toml:"notebook" yaml:"notebook"`
	Log      LogConfig      `toml:"log" yaml:"log"`
}

// EditorConfig holds buffer and view settings.
type EditorConfig struct {
	// Scrolloff is the minimum number of lines kept above and below the
	// cursor.
	Scrolloff int `toml:"scrolloff" yaml:"scrolloff"`

	// GroupWindowMS merges consecutive edits into one undo step when they
	// arrive within this many milliseconds. Zero disables grouping.
	GroupWindowMS int `toml:"group_window_ms" yaml:"group_window_ms"`

	WordWrap bool `toml:"word_wrap" yaml:"word_wrap"`

	// WrapWidth is the wrap column; zero wraps at the window edge.
	WrapWidth int `toml:"wrap_width" yaml:"wrap_width"`

	MaxUndoGroups int  `toml:"max_undo_groups" yaml:"max_undo_groups"`
	AutoIndent    bool `toml:"auto_indent" yaml:"auto_indent"`

	// Gutter is "none", "absolute" or "relative".
	Gutter string `toml:"gutter" yaml:"gutter"`

	// Theme is a chroma style name.
	Theme string `toml:"theme" yaml:"theme"`

	// Colors override individual theme colors.
	Colors renderer.Colors `toml:"colors" yaml:"colors"`
}

// NotebookConfig holds cell execution settings.
type NotebookConfig struct {
	CellDelimiter string `toml:"cell_delimiter" yaml:"cell_delimiter"`

	// Executor names the kernel that runs cells: "lua" or "none".
	Executor string `toml:"executor" yaml:"executor"`

	TimeoutMS int `toml:"timeout_ms" yaml:"timeout_ms"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`

	// File is the log path; empty disables logging.
	File string `toml:"file" yaml:"file"`
}

// Executor names.
const (
	ExecutorLua  = "lua"
	ExecutorNone = "none"
)

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			Scrolloff:     3,
			GroupWindowMS: 300,
			MaxUndoGroups: 1000,
			AutoIndent:    true,
			Gutter:        renderer.GutterNone.String(),
			Theme:         renderer.DefaultThemeName,
		},
		Notebook: NotebookConfig{
			CellDelimiter: notebook.DefaultDelimiter,
			Executor:      ExecutorLua,
			TimeoutMS:     int(kernel.DefaultTimeout / time.Millisecond),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the user config file path, or "" when the platform
// has no config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "inkwell", "config.toml")
}

// GroupWindow returns the undo grouping window.
func (c *Config) GroupWindow() time.Duration {
	return time.Duration(c.Editor.GroupWindowMS) * time.Millisecond
}

// GutterMode returns the parsed gutter mode. Invalid names give GutterNone.
func (c *Config) GutterMode() renderer.GutterMode {
	m, _ := renderer.ParseGutterMode(c.Editor.Gutter)
	return m
}

// ExecTimeout returns the per-batch execution timeout.
func (c *Config) ExecTimeout() time.Duration {
	return time.Duration(c.Notebook.TimeoutMS) * time.Millisecond
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// Validate checks every setting and reports the first problem.
func (c *Config) Validate() error {
	e := c.Editor
	switch {
	case e.Scrolloff < 0:
		return invalid("editor.scrolloff", e.Scrolloff, "must not be negative")
	case e.GroupWindowMS < 0:
		return invalid("editor.group_window_ms", e.GroupWindowMS, "must not be negative")
	case e.WrapWidth < 0:
		return invalid("editor.wrap_width", e.WrapWidth, "must not be negative")
	case e.MaxUndoGroups < 1:
		return invalid("editor.max_undo_groups", e.MaxUndoGroups, "must be at least 1")
	}
	if _, err := renderer.ParseGutterMode(e.Gutter); err != nil {
		return invalid("editor.gutter", e.Gutter, `must be "none", "absolute" or "relative"`)
	}
	if err := e.Colors.Validate(); err != nil {
		return invalid("editor.colors", e.Colors, err.Error())
	}

	n := c.Notebook
	if n.CellDelimiter == "" {
		return invalid("notebook.cell_delimiter", `""`, "must not be empty")
	}
	switch n.Executor {
	case ExecutorLua, ExecutorNone:
	default:
		return invalid("notebook.executor", n.Executor, `must be "lua" or "none"`)
	}
	if n.TimeoutMS < 0 {
		return invalid("notebook.timeout_ms", n.TimeoutMS, "must not be negative")
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level", c.Log.Level, err.Error())
	}
	return nil
}
