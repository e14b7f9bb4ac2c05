package app

import (
	"github.com/dshills/inkwell/internal/clipboard"
	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/engine"
	"github.com/dshills/inkwell/internal/fileio"
	"github.com/dshills/inkwell/internal/kernel"
	"github.com/dshills/inkwell/internal/renderer/backend"
	"github.com/dshills/inkwell/internal/syntax"
)

// Event is something the session reacts to: terminal input or the result
// of a collaborator request. Collaborators post events from their own
// goroutines; the session handles them one at a time on the loop goroutine.
type Event interface {
	event()
}

// InputEvent carries terminal input.
type InputEvent struct{ Event backend.Event }

// IntentEvent runs an intent directly.
type IntentEvent struct{ Intent Intent }

// PasteEvent delivers a clipboard read.
type PasteEvent struct{ Response clipboard.Response }

// ExecEvent delivers one cell result.
type ExecEvent struct{ Result kernel.Result }

// TokensEvent delivers a tokenization.
type TokensEvent struct{ Result syntax.Result }

// SaveEvent reports a finished save of the text at Revision.
type SaveEvent struct {
	Path     string
	Revision engine.Revision
	Err      error
}

// LoadEvent delivers a reloaded file.
type LoadEvent struct {
	File *fileio.File
	Err  error
}

// FileChangedEvent reports an external change to the open file.
type FileChangedEvent struct{ Change fileio.Event }

// ConfigEvent delivers reloaded settings.
type ConfigEvent struct{ Config *config.Config }

// ErrorEvent reports a failed background operation.
type ErrorEvent struct {
	Op  string
	Err error
}

func (InputEvent) event()       {}
func (IntentEvent) event()      {}
func (PasteEvent) event()       {}
func (ExecEvent) event()        {}
func (TokensEvent) event()      {}
func (SaveEvent) event()        {}
func (LoadEvent) event()        {}
func (FileChangedEvent) event() {}
func (ConfigEvent) event()      {}
func (ErrorEvent) event()       {}
