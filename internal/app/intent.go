package app

import (
	"github.com/dshills/inkwell/internal/engine"
	"github.com/dshills/inkwell/internal/engine/cursor"
)

// Intent is one user request. The set is closed: only the types below
// implement it.
type Intent interface {
	intent()
}

// Editing.
type (
	InsertText     struct{ Text string }
	InsertNewline  struct{}
	DeleteBackward struct{}
	DeleteForward  struct{}
	DeleteRange    struct{ Start, End engine.Offset }

	// Complete opens the word completion list for the word before the
	// cursor.
	Complete struct{}
)

// Movement and selection.
type (
	Move struct {
		Unit   cursor.Motion
		Extend bool
	}
	SelectWord struct{ Offset engine.Offset }
	SelectLine struct{ Offset engine.Offset }
	SelectAll  struct{}

	// Cancel collapses the selection and clears find matches and the
	// status message.
	Cancel struct{}
)

// Clipboard.
type (
	Copy struct{}
	Cut  struct{}

	// Paste inserts Text, as delivered by a bracketed paste.
	Paste struct{ Text string }

	// PasteRequest reads the clipboard and pastes when the read completes.
	PasteRequest struct{}
)

// History.
type (
	Undo struct{}
	Redo struct{}
)

// Find and replace.
type (
	// Find marks every match of Query and selects the first one after the
	// cursor. An empty Query searches for the word at the cursor.
	Find       struct{ Query string }
	FindNext   struct{}
	ReplaceAll struct{ Query, With string }

	// Prompt opens a status line prompt that produces a Find, ReplaceAll
	// or SetLanguage when submitted.
	Prompt struct{ Kind PromptKind }
)

// Notebook cells.
type (
	ExecuteCell struct{}
	Interrupt   struct{}
)

// View.
type (
	Scroll struct{ Lines int }
	Resize struct{ W, H int }

	// ToggleGutter cycles the gutter through none, absolute and relative
	// line numbers.
	ToggleGutter struct{}

	// ToggleOutput shows or hides the cell output pane.
	ToggleOutput struct{}

	// SetLanguage switches syntax highlighting to the named language.
	SetLanguage struct{ Name string }
)

// Session.
type (
	Save struct{}
	Quit struct{}
)

func (InsertText) intent()     {}
func (InsertNewline) intent()  {}
func (DeleteBackward) intent() {}
func (DeleteForward) intent()  {}
func (DeleteRange) intent()    {}
func (Complete) intent()       {}
func (Move) intent()           {}
func (SelectWord) intent()     {}
func (SelectLine) intent()     {}
func (SelectAll) intent()      {}
func (Cancel) intent()         {}
func (Copy) intent()           {}
func (Cut) intent()            {}
func (Paste) intent()          {}
func (PasteRequest) intent()   {}
func (Undo) intent()           {}
func (Redo) intent()           {}
func (Find) intent()           {}
func (FindNext) intent()       {}
func (ReplaceAll) intent()     {}
func (Prompt) intent()         {}
func (ExecuteCell) intent()    {}
func (Interrupt) intent()      {}
func (Scroll) intent()         {}
func (Resize) intent()         {}
func (ToggleGutter) intent()   {}
func (ToggleOutput) intent()   {}
func (SetLanguage) intent()    {}
func (Save) intent()           {}
func (Quit) intent()           {}
