package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/dshills/inkwell/internal/renderer/core"
)

// DefaultThemeName is the chroma style used when none is configured.
const DefaultThemeName = "monokai"

// Theme maps token kinds and overlays to cell styles.
type Theme struct {
	style *chroma.Style

	mu     sync.Mutex
	tokens map[chroma.TokenType]core.Style

	Selection core.Style
	Match     core.Style
	Bracket   core.Style
	Gutter    core.Style
	Status    core.Style

	// Popup styles the completion list; PopupSelected its current item.
	Popup         core.Style
	PopupSelected core.Style
}

// Colors overrides theme colors with "#RRGGBB" or "#RGB" values. Empty
// fields keep the theme's color.
type Colors struct {
	Selection string `toml:"selection" yaml:"selection"` // background
	Match     string `toml:"match" yaml:"match"`         // background
	Gutter    string `toml:"gutter" yaml:"gutter"`       // foreground
	Status    string `toml:"status" yaml:"status"`       // background
	Popup     string `toml:"popup" yaml:"popup"`         // background
}

// Validate checks every non-empty color.
func (c Colors) Validate() error {
	_, err := c.parse()
	return err
}

type colorOverride struct {
	apply func(t *Theme, col core.Color)
	col   core.Color
}

func (c Colors) parse() ([]colorOverride, error) {
	fields := []struct {
		name  string
		value string
		apply func(t *Theme, col core.Color)
	}{
		{"selection", c.Selection, func(t *Theme, col core.Color) { t.Selection = core.DefaultStyle().WithBackground(col) }},
		{"match", c.Match, func(t *Theme, col core.Color) { t.Match = core.DefaultStyle().WithBackground(col) }},
		{"gutter", c.Gutter, func(t *Theme, col core.Color) { t.Gutter = t.Gutter.WithForeground(col) }},
		{"status", c.Status, func(t *Theme, col core.Color) {
			t.Status = core.DefaultStyle().WithBackground(col).WithForeground(contrast(col))
		}},
		{"popup", c.Popup, func(t *Theme, col core.Color) {
			t.Popup = core.DefaultStyle().WithBackground(col).WithForeground(contrast(col))
			t.PopupSelected = t.Popup.Reverse()
		}},
	}
	var out []colorOverride
	var errs []error
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		col, err := core.ColorFromHex(f.value)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.name, err))
			continue
		}
		out = append(out, colorOverride{apply: f.apply, col: col})
	}
	return out, errors.Join(errs...)
}

// SetColors applies overrides on top of the theme. Nothing changes when
// any color is invalid.
func (t *Theme) SetColors(c Colors) error {
	overrides, err := c.parse()
	if err != nil {
		return err
	}
	for _, o := range overrides {
		o.apply(t, o.col)
	}
	return nil
}

// contrast picks black or white text for background bg.
func contrast(bg core.Color) core.Color {
	if int(bg.R)*299+int(bg.G)*587+int(bg.B)*114 > 128*1000 {
		return core.ColorBlack
	}
	return core.ColorWhite
}

// NewTheme builds a theme from a chroma style name. Unknown names fall
// back to chroma's default style.
func NewTheme(name string) *Theme {
	s := styles.Get(name)
	t := &Theme{
		style:  s,
		tokens: make(map[chroma.TokenType]core.Style),
	}

	bg := s.Get(chroma.Background)
	back, fore := core.ColorDefault, core.ColorWhite
	if bg.Background.IsSet() {
		back = colour(bg.Background)
	}
	if bg.Colour.IsSet() {
		fore = colour(bg.Colour)
	}

	if back.IsDefault() {
		t.Selection = core.DefaultStyle().Reverse()
	} else {
		t.Selection = core.DefaultStyle().WithBackground(back.Blend(fore, 0.3))
	}
	t.Match = core.DefaultStyle().WithBackground(core.ColorYellow.Blend(core.ColorBlack, 0.55))
	t.Bracket = core.DefaultStyle().Bold().Underline()
	t.Gutter = core.Style{Foreground: core.ColorGray, Background: core.ColorDefault, Attributes: core.AttrDim}
	t.Status = core.DefaultStyle().Reverse()
	t.Popup = core.DefaultStyle().WithBackground(core.ColorGray.Blend(core.ColorBlack, 0.6)).WithForeground(core.ColorWhite)
	t.PopupSelected = t.Popup.Reverse()
	return t
}

// Name returns the chroma style name.
func (t *Theme) Name() string {
	return t.style.Name
}

// Token returns the style for a token kind. Only the foreground and text
// attributes of the chroma entry are used.
func (t *Theme) Token(kind chroma.TokenType) core.Style {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s, ok := t.tokens[kind]; ok {
		return s
	}
	e := t.style.Get(kind)
	s := core.DefaultStyle()
	if e.Colour.IsSet() {
		s = s.WithForeground(colour(e.Colour))
	}
	if e.Bold == chroma.Yes {
		s.Attributes |= core.AttrBold
	}
	if e.Italic == chroma.Yes {
		s.Attributes |= core.AttrItalic
	}
	if e.Underline == chroma.Yes {
		s.Attributes |= core.AttrUnderline
	}
	t.tokens[kind] = s
	return s
}

func colour(c chroma.Colour) core.Color {
	return core.ColorFromRGB(c.Red(), c.Green(), c.Blue())
}
