package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "INKWELL_"

// Load returns the defaults overlaid with the file at path, if it exists,
// and then with environment overrides. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Defaults only.
		case err != nil:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := decode(path, data, cfg); err != nil {
				return nil, err
			}
		}
	}

	if err := applyEnv(cfg, os.Environ()); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode overlays data onto cfg. Keys absent from data keep their values.
func decode(path string, data []byte, cfg *Config) error {
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(cfg); errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	if err != nil {
		return &ParseError{Path: path, Err: err}
	}
	return nil
}

// applyEnv overlays INKWELL_<SECTION>_<KEY> variables. The key is the
// setting's file name in upper case, so INKWELL_EDITOR_GROUP_WINDOW_MS sets
// editor.group_window_ms. Unknown names are ignored.
func applyEnv(cfg *Config, environ []string) error {
	tree := make(map[string]any)
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		section, key, ok := strings.Cut(strings.ToLower(strings.TrimPrefix(name, EnvPrefix)), "_")
		if !ok || key == "" {
			continue
		}
		k, known := sections[section][key]
		if !known {
			continue
		}
		m, _ := tree[section].(map[string]any)
		if m == nil {
			m = make(map[string]any)
			tree[section] = m
		}
		m[key] = parseValue(k, value)
	}
	if len(tree) == 0 {
		return nil
	}

	data, err := toml.Marshal(tree)
	if err != nil {
		return fmt.Errorf("environment overrides: %w", err)
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("environment overrides: %v: %w", err, ErrInvalidValue)
	}
	return nil
}

type kind int

const (
	kindString kind = iota
	kindInt
	kindBool
)

// sections lists the settings an environment variable may override.
var sections = map[string]map[string]kind{
	"editor": {
		"scrolloff":       kindInt,
		"group_window_ms": kindInt,
		"word_wrap":       kindBool,
		"wrap_width":      kindInt,
		"max_undo_groups": kindInt,
		"auto_indent":     kindBool,
		"gutter":          kindString,
		"theme":           kindString,
	},
	"notebook": {
		"cell_delimiter": kindString,
		"executor":       kindString,
		"timeout_ms":     kindInt,
	},
	"log": {
		"level": kindString,
		"file":  kindString,
	},
}

// parseValue converts s to the setting's type. Values that do not parse
// are passed through as strings so decoding reports them.
func parseValue(k kind, s string) any {
	switch k {
	case kindInt:
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
	case kindBool:
		switch strings.ToLower(s) {
		case "true", "yes", "on", "1":
			return true
		case "false", "no", "off", "0":
			return false
		}
	}
	return s
}
