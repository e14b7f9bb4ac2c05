package app

import (
	"strings"

	"github.com/dshills/inkwell/internal/renderer/backend"
)

// PromptKind selects what a prompt asks for.
type PromptKind int

const (
	PromptFind PromptKind = iota
	PromptReplace
	PromptLanguage
)

// prompt is a one-line input on the status row.
type prompt struct {
	kind  PromptKind
	label string
	input []rune
	query string // first answer of a replace prompt
}

func newPrompt(kind PromptKind) *prompt {
	p := &prompt{kind: kind, label: "Find: "}
	switch kind {
	case PromptReplace:
		p.label = "Replace: "
	case PromptLanguage:
		p.label = "Language: "
	}
	return p
}

func (p *prompt) String() string {
	return p.label + string(p.input)
}

// handle applies one input event. It returns the intent to run when the
// prompt is submitted and whether the prompt is finished.
func (p *prompt) handle(ev backend.Event) (Intent, bool) {
	switch ev.Type {
	case backend.EventPaste:
		line, _, _ := strings.Cut(ev.PasteText, "\n")
		p.input = append(p.input, []rune(line)...)
		return nil, false
	case backend.EventKey:
	default:
		return nil, false
	}

	switch ev.Key {
	case backend.KeyRune:
		if !ev.Mod.Has(backend.ModCtrl) && !ev.Mod.Has(backend.ModAlt) {
			p.input = append(p.input, ev.Rune)
		}
	case backend.KeyBackspace:
		if n := len(p.input); n > 0 {
			p.input = p.input[:n-1]
		}
	case backend.KeyEscape, backend.KeyCtrlG:
		return nil, true
	case backend.KeyEnter:
		answer := string(p.input)
		switch p.kind {
		case PromptFind:
			return Find{Query: answer}, true
		case PromptLanguage:
			if answer == "" {
				return nil, true
			}
			return SetLanguage{Name: strings.TrimSpace(answer)}, true
		}
		if p.label != "With: " {
			p.query = answer
			p.label = "With: "
			p.input = nil
			return nil, false
		}
		return ReplaceAll{Query: p.query, With: answer}, true
	}
	return nil, false
}
