package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/dshills/inkwell/internal/renderer"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func mustLoad(t *testing.T, path string) *Config {
	t.Helper()
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) error = %v", path, err)
	}
	return cfg
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Editor.Scrolloff != 3 {
		t.Errorf("Scrolloff = %d, want 3", cfg.Editor.Scrolloff)
	}
	if got := cfg.GroupWindow(); got != 300*time.Millisecond {
		t.Errorf("GroupWindow() = %v, want 300ms", got)
	}
	if cfg.Notebook.CellDelimiter != "# %%" {
		t.Errorf("CellDelimiter = %q, want %q", cfg.Notebook.CellDelimiter, "# %%")
	}
	if cfg.LogLevel() != zapcore.InfoLevel {
		t.Errorf("LogLevel() = %v, want info", cfg.LogLevel())
	}
	if cfg.GutterMode() != renderer.GutterNone {
		t.Errorf("GutterMode() = %v, want none", cfg.GutterMode())
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg := mustLoad(t, filepath.Join(t.TempDir(), "none.toml"))
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "config.toml", `
[editor]
scrolloff = 5
word_wrap = true
group_window_ms = 0
gutter = "relative"

[editor.colors]
selection = "#334455"

[notebook]
cell_delimiter = "-- %%"

[log]
level = "debug"
`)
	cfg := mustLoad(t, path)
	if cfg.Editor.Scrolloff != 5 {
		t.Errorf("Scrolloff = %d, want 5", cfg.Editor.Scrolloff)
	}
	if !cfg.Editor.WordWrap {
		t.Error("WordWrap = false, want true")
	}
	if cfg.GroupWindow() != 0 {
		t.Errorf("GroupWindow() = %v, want 0", cfg.GroupWindow())
	}
	if cfg.Editor.MaxUndoGroups != 1000 {
		t.Errorf("MaxUndoGroups = %d, unset keys keep defaults", cfg.Editor.MaxUndoGroups)
	}
	if cfg.GutterMode() != renderer.GutterRelative {
		t.Errorf("GutterMode() = %v, want relative", cfg.GutterMode())
	}
	if cfg.Editor.Colors.Selection != "#334455" {
		t.Errorf("Colors.Selection = %q", cfg.Editor.Colors.Selection)
	}
	if cfg.Notebook.CellDelimiter != "-- %%" {
		t.Errorf("CellDelimiter = %q", cfg.Notebook.CellDelimiter)
	}
	if cfg.LogLevel() != zapcore.DebugLevel {
		t.Errorf("LogLevel() = %v, want debug", cfg.LogLevel())
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
editor:
  scrolloff: 7
  wrap_width: 80
  gutter: absolute
  colors:
    status: "#fff"
notebook:
  executor: none
`)
	cfg := mustLoad(t, path)
	if cfg.Editor.Scrolloff != 7 || cfg.Editor.WrapWidth != 80 {
		t.Errorf("editor = %+v", cfg.Editor)
	}
	if cfg.GutterMode() != renderer.GutterAbsolute {
		t.Errorf("GutterMode() = %v, want absolute", cfg.GutterMode())
	}
	if cfg.Editor.Colors.Status != "#fff" {
		t.Errorf("Colors.Status = %q", cfg.Editor.Colors.Status)
	}
	if cfg.Notebook.Executor != ExecutorNone {
		t.Errorf("Executor = %q, want %q", cfg.Notebook.Executor, ExecutorNone)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name, file, content string
		target              error
	}{
		{"unknown key", "c.toml", "[editor]\nbogus = 1\n", nil},
		{"bad syntax", "c.toml", "[editor\n", nil},
		{"unknown yaml key", "c.yml", "editor:\n  bogus: 1\n", nil},
		{"format", "c.ini", "x=1", ErrUnsupportedFormat},
		{"negative scrolloff", "c.toml", "[editor]\nscrolloff = -1\n", ErrInvalidValue},
		{"gutter", "c.toml", "[editor]\ngutter = \"roman\"\n", ErrInvalidValue},
		{"color", "c.toml", "[editor.colors]\nmatch = \"yellow\"\n", ErrInvalidValue},
		{"executor", "c.toml", "[notebook]\nexecutor = \"python\"\n", ErrInvalidValue},
		{"level", "c.toml", "[log]\nlevel = \"loud\"\n", ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.content))
			if err == nil {
				t.Fatal("Load() succeeded")
			}
			if tt.target != nil {
				if !errors.Is(err, tt.target) {
					t.Errorf("Load() error = %v, want %v", err, tt.target)
				}
				return
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Errorf("Load() error = %v, want a *ParseError", err)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, "config.toml", "[editor]\nscrolloff = 5\n")
	t.Setenv("INKWELL_EDITOR_SCROLLOFF", "9")
	t.Setenv("INKWELL_EDITOR_WORD_WRAP", "yes")
	t.Setenv("INKWELL_EDITOR_GUTTER", "relative")
	t.Setenv("INKWELL_NOTEBOOK_CELL_DELIMITER", "## %%")
	t.Setenv("INKWELL_EDITOR_UNKNOWN", "1")

	cfg := mustLoad(t, path)
	if cfg.Editor.Scrolloff != 9 {
		t.Errorf("Scrolloff = %d, want 9", cfg.Editor.Scrolloff)
	}
	if !cfg.Editor.WordWrap {
		t.Error("WordWrap = false, want true")
	}
	if cfg.GutterMode() != renderer.GutterRelative {
		t.Errorf("GutterMode() = %v, want relative", cfg.GutterMode())
	}
	if cfg.Notebook.CellDelimiter != "## %%" {
		t.Errorf("CellDelimiter = %q", cfg.Notebook.CellDelimiter)
	}
}

func TestEnvOverrideInvalid(t *testing.T) {
	t.Setenv("INKWELL_EDITOR_SCROLLOFF", "many")
	if _, err := Load(""); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Load() error = %v, want ErrInvalidValue", err)
	}
}

func TestWatcherReloads(t *testing.T) {
	path := writeConfig(t, "config.toml", "[editor]\nscrolloff = 1\n")

	changes := make(chan *Config, 4)
	errs := make(chan error, 4)
	w, err := Watch(path, 50*time.Millisecond, func(c *Config) { changes <- c }, func(err error) { errs <- err })
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[editor]\nscrolloff = 8\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	select {
	case cfg := <-changes:
		if cfg.Editor.Scrolloff != 8 {
			t.Errorf("reloaded Scrolloff = %d, want 8", cfg.Editor.Scrolloff)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload")
	}

	if err := os.WriteFile(path, []byte("[editor]\nscrolloff = -2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-errs:
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("reload error = %v, want ErrInvalidValue", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload error")
	}
}
