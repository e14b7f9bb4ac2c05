package app

import (
	"reflect"
	"testing"

	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/renderer/backend"
)

func TestTranslate(t *testing.T) {
	key := func(k backend.Key, mod backend.ModMask) backend.Event {
		return backend.Event{Type: backend.EventKey, Key: k, Mod: mod}
	}

	tests := []struct {
		name string
		ev   backend.Event
		want Intent
	}{
		{"rune", backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'é'}, InsertText{Text: "é"}},
		{"alt rune", backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'x', Mod: backend.ModAlt}, nil},
		{"enter", key(backend.KeyEnter, 0), InsertNewline{}},
		{"tab", key(backend.KeyTab, 0), InsertText{Text: "\t"}},
		{"backspace", key(backend.KeyBackspace, 0), DeleteBackward{}},
		{"delete", key(backend.KeyDelete, 0), DeleteForward{}},
		{"left", key(backend.KeyLeft, 0), Move{Unit: cursor.MotionLeft}},
		{"shift right", key(backend.KeyRight, backend.ModShift), Move{Unit: cursor.MotionRight, Extend: true}},
		{"ctrl left", key(backend.KeyLeft, backend.ModCtrl), Move{Unit: cursor.MotionWordLeft}},
		{"ctrl shift right", key(backend.KeyRight, backend.ModCtrl|backend.ModShift), Move{Unit: cursor.MotionWordRight, Extend: true}},
		{"ctrl up", key(backend.KeyUp, backend.ModCtrl), Move{Unit: cursor.MotionParagraphUp}},
		{"down", key(backend.KeyDown, 0), Move{Unit: cursor.MotionDown}},
		{"home", key(backend.KeyHome, 0), Move{Unit: cursor.MotionHome}},
		{"ctrl end", key(backend.KeyEnd, backend.ModCtrl), Move{Unit: cursor.MotionDocEnd}},
		{"page down", key(backend.KeyPageDown, 0), Move{Unit: cursor.MotionPageDown}},
		{"select all", key(backend.KeyCtrlA, 0), SelectAll{}},
		{"copy", key(backend.KeyCtrlC, 0), Copy{}},
		{"paste", key(backend.KeyCtrlV, 0), PasteRequest{}},
		{"undo", key(backend.KeyCtrlZ, 0), Undo{}},
		{"find", key(backend.KeyCtrlF, 0), Prompt{Kind: PromptFind}},
		{"replace", key(backend.KeyCtrlR, 0), Prompt{Kind: PromptReplace}},
		{"language", key(backend.KeyCtrlL, 0), Prompt{Kind: PromptLanguage}},
		{"execute", key(backend.KeyCtrlE, 0), ExecuteCell{}},
		{"output", key(backend.KeyCtrlO, 0), ToggleOutput{}},
		{"complete", key(backend.KeyCtrlSpace, backend.ModCtrl), Complete{}},
		{"gutter", key(backend.KeyF7, 0), ToggleGutter{}},
		{"save", key(backend.KeyCtrlS, 0), Save{}},
		{"escape", key(backend.KeyEscape, 0), Cancel{}},
		{"select word", key(backend.KeyCtrlW, 0), SelectWord{Offset: 7}},
		{"select line", key(backend.KeyCtrlK, 0), SelectLine{Offset: 7}},
		{"bracketed paste", backend.Event{Type: backend.EventPaste, PasteText: "p"}, Paste{Text: "p"}},
		{"wheel", backend.Event{Type: backend.EventWheel, Lines: -3}, Scroll{Lines: -3}},
		{"wheel default", backend.Event{Type: backend.EventWheel}, Scroll{Lines: wheelLines}},
		{"resize", backend.Event{Type: backend.EventResize, Width: 80, Height: 24}, Resize{W: 80, H: 24}},
		{"closed", backend.Event{Type: backend.EventClosed}, Quit{}},
		{"focus", backend.Event{Type: backend.EventFocus, Focused: true}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := translate(tt.ev, 7); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("translate() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestPrompt(t *testing.T) {
	runes := func(t *testing.T, p *prompt, s string) {
		t.Helper()
		for _, r := range s {
			in, done := p.handle(backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: r})
			if in != nil || done {
				t.Fatalf("typing %q = %v, %v", r, in, done)
			}
		}
	}
	enter := backend.Event{Type: backend.EventKey, Key: backend.KeyEnter}

	t.Run("find", func(t *testing.T) {
		p := newPrompt(PromptFind)
		runes(t, p, "abd")
		p.handle(backend.Event{Type: backend.EventKey, Key: backend.KeyBackspace})
		runes(t, p, "c")
		if got := p.String(); got != "Find: abc" {
			t.Errorf("String() = %q", got)
		}

		in, done := p.handle(enter)
		if !done || in != (Find{Query: "abc"}) {
			t.Errorf("enter = %#v, %v", in, done)
		}
	})

	t.Run("replace", func(t *testing.T) {
		p := newPrompt(PromptReplace)
		runes(t, p, "old")
		in, done := p.handle(enter)
		if in != nil || done {
			t.Fatalf("first enter = %#v, %v", in, done)
		}
		if got := p.String(); got != "With: " {
			t.Errorf("String() = %q, want %q", got, "With: ")
		}

		p.handle(backend.Event{Type: backend.EventPaste, PasteText: "new\nignored"})
		in, done = p.handle(enter)
		if !done || in != (ReplaceAll{Query: "old", With: "new"}) {
			t.Errorf("second enter = %#v, %v", in, done)
		}
	})

	t.Run("language", func(t *testing.T) {
		p := newPrompt(PromptLanguage)
		if got := p.String(); got != "Language: " {
			t.Errorf("String() = %q", got)
		}
		runes(t, p, "lua ")
		in, done := p.handle(enter)
		if !done || in != (SetLanguage{Name: "lua"}) {
			t.Errorf("enter = %#v, %v", in, done)
		}

		in, done = newPrompt(PromptLanguage).handle(enter)
		if !done || in != nil {
			t.Errorf("empty enter = %#v, %v", in, done)
		}
	})

	t.Run("cancel", func(t *testing.T) {
		for _, k := range []backend.Key{backend.KeyEscape, backend.KeyCtrlG} {
			p := newPrompt(PromptFind)
			runes(t, p, "x")
			in, done := p.handle(backend.Event{Type: backend.EventKey, Key: k})
			if in != nil || !done {
				t.Errorf("key %v = %#v, %v", k, in, done)
			}
		}
	})
}
