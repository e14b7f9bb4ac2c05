package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/clipboard"
	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/engine"
	"github.com/dshills/inkwell/internal/engine/history"
	"github.com/dshills/inkwell/internal/fileio"
	"github.com/dshills/inkwell/internal/kernel"
	"github.com/dshills/inkwell/internal/notebook"
	"github.com/dshills/inkwell/internal/renderer"
	"github.com/dshills/inkwell/internal/renderer/backend"
	"github.com/dshills/inkwell/internal/renderer/core"
	"github.com/dshills/inkwell/internal/renderer/statusline"
	"github.com/dshills/inkwell/internal/renderer/viewport"
	"github.com/dshills/inkwell/internal/syntax"
)

// muteWindow is how long the file watcher ignores the file after a save.
const muteWindow = time.Second

// Muter suppresses change notices for a path around the session's own
// writes. fileio.Watcher implements it.
type Muter interface {
	Mute(path string, d time.Duration)
}

// SessionOptions configures a Session.
type SessionOptions struct {
	Config *config.Config

	// Path is the file being edited; empty for an unnamed buffer.
	Path string
	// File is the loaded content of Path, or nil for a new buffer.
	File *fileio.File

	Clipboard clipboard.Clipboard
	// Runner executes notebook cells; nil disables execution.
	Runner *kernel.Runner
	// Watcher is muted around saves; may be nil.
	Watcher Muter

	// Post delivers collaborator events to the event loop. It must not
	// block the caller for long and may be called from any goroutine.
	Post func(Event)

	Width, Height int
	ReadOnly      bool

	Clock  func() time.Time
	Logger *zap.Logger
}

// Session is the editor state for one document. It is owned by the
// event loop goroutine: every method must be called from that goroutine.
// Collaborators report back through Post.
type Session struct {
	eng    *engine.Engine
	view   *viewport.Viewport
	rend   *renderer.Renderer
	status *statusline.StatusLine
	theme  *renderer.Theme

	clip    clipboard.Clipboard
	pastes  *clipboard.Requests
	runner  *kernel.Runner
	watcher Muter
	post    func(Event)

	tok       *syntax.Tokenizer
	tokID     uuid.UUID
	tokCancel context.CancelFunc
	needTok   bool
	spans     []syntax.Span
	spansRev  engine.Revision
	// tokBase is the revision the last applied tokenization was computed
	// for; tokValid reports whether spans descend from it.
	tokBase  engine.Revision
	tokValid bool

	batch       uuid.UUID
	batchFailed bool

	path         string
	notebook     bool
	notebookBase []byte
	delimiter    string

	width, height int
	follow        bool
	prompt        *prompt
	completion    *completion
	quitArmed     bool
	lastStatus    []core.Cell

	outputs    []cellOutput
	showOutput bool
	lastPane   [][]core.Cell

	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
	logger      *zap.Logger
}

// NewSession creates a session editing opts.File.
func NewSession(opts SessionOptions) *Session {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	post := opts.Post
	if post == nil {
		post = func(Event) {}
	}
	clip := opts.Clipboard
	if clip == nil {
		clip = clipboard.NewMemory()
	}

	engOpts := []engine.Option{
		engine.WithMaxUndoGroups(cfg.Editor.MaxUndoGroups),
		engine.WithGroupWindow(cfg.GroupWindow()),
		engine.WithAutoIndent(cfg.Editor.AutoIndent),
		engine.WithLogger(logger.Named("engine")),
	}
	if opts.ReadOnly {
		engOpts = append(engOpts, engine.WithReadOnly())
	}
	if opts.Clock != nil {
		engOpts = append(engOpts, engine.WithClock(opts.Clock))
	}
	if opts.File != nil {
		engOpts = append(engOpts, engine.WithContent(opts.File.Text))
	}

	theme := newTheme(cfg, logger)
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		eng:       engine.New(engOpts...),
		view:      viewport.New(max(opts.Width, 1), max(opts.Height-1, 1)),
		rend:      renderer.New(renderer.Options{Gutter: cfg.GutterMode(), Theme: theme, Logger: logger.Named("renderer")}),
		status:    statusline.New(theme.Status),
		theme:     theme,
		clip:      clip,
		pastes:    clipboard.NewRequests(clip, 0),
		runner:    opts.Runner,
		watcher:   opts.Watcher,
		post:      post,
		path:      opts.Path,
		delimiter: cfg.Notebook.CellDelimiter,
		width:     max(opts.Width, 1),
		height:    max(opts.Height, 2),
		follow:    true,
		ctx:       ctx,
		cancel:    cancel,
		logger:    logger,
	}
	s.view.SetScrolloff(cfg.Editor.Scrolloff)
	s.view.SetWrap(cfg.Editor.WordWrap, cfg.Editor.WrapWidth)

	if f := opts.File; f != nil {
		s.notebook = f.Notebook
		s.notebookBase = f.Raw
		s.reportDecode(f)
	}
	s.tok = s.newTokenizer(opts.File)
	s.unsubscribe = s.eng.Subscribe(s.onChange)

	s.status.SetFilename(s.displayName())
	s.status.SetReadOnly(s.eng.IsReadOnly())
	s.status.SetLanguage(s.tok.Language())
	if s.runner != nil {
		s.status.SetExec(statusline.ExecIdle)
	}
	s.needTok = true
	s.scheduleTokens()
	return s
}

// newTheme builds the configured theme. Colors are validated with the
// config, so a failure here only skips the overrides.
func newTheme(cfg *config.Config, logger *zap.Logger) *renderer.Theme {
	theme := renderer.NewTheme(cfg.Editor.Theme)
	if err := theme.SetColors(cfg.Editor.Colors); err != nil {
		logger.Warn("theme colors ignored", zap.Error(err))
	}
	return theme
}

func (s *Session) newTokenizer(f *fileio.File) *syntax.Tokenizer {
	opt := syntax.WithLogger(s.logger)
	if f != nil && f.Notebook && f.Language != "" {
		return syntax.ForLanguage(f.Language, opt)
	}
	return syntax.New(s.path, opt)
}

func (s *Session) displayName() string {
	if s.path == "" {
		return ""
	}
	return filepath.Base(s.path)
}

// Engine returns the document engine.
func (s *Session) Engine() *engine.Engine { return s.eng }

// Viewport returns the text viewport.
func (s *Session) Viewport() *viewport.Viewport { return s.view }

// StatusLine returns the status line state.
func (s *Session) StatusLine() *statusline.StatusLine { return s.status }

// Renderer returns the frame builder.
func (s *Session) Renderer() *renderer.Renderer { return s.rend }

// Path returns the edited file path.
func (s *Session) Path() string { return s.path }

// Close cancels outstanding requests.
func (s *Session) Close() {
	s.cancel()
	s.pastes.Cancel()
	if s.runner != nil {
		s.runner.Interrupt()
	}
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// onChange runs after every committed edit.
func (s *Session) onChange(c engine.Change) {
	s.rend.ApplyChange(c)
	s.spans = syntax.ShiftSpans(s.spans, c)
	s.spansRev = c.Revision
	s.needTok = true
	s.completion = nil
}

// Handle processes one event. It returns ErrQuit when the session should
// end; every other failure becomes a status message.
func (s *Session) Handle(ev Event) error {
	var err error
	switch ev := ev.(type) {
	case InputEvent:
		err = s.handleInput(ev.Event)
	case IntentEvent:
		err = s.Apply(ev.Intent)
	case PasteEvent:
		s.handlePaste(ev.Response)
	case ExecEvent:
		s.handleResult(ev.Result)
	case TokensEvent:
		s.handleTokens(ev.Result)
	case SaveEvent:
		s.handleSaved(ev)
	case LoadEvent:
		s.handleLoaded(ev)
	case FileChangedEvent:
		s.handleFileChanged(ev.Change)
	case ConfigEvent:
		s.ApplyConfig(ev.Config)
		s.info("Configuration reloaded")
	case ErrorEvent:
		s.fail(NewOperationError(ev.Op, "", ev.Err))
	}
	s.scheduleTokens()
	return err
}

func (s *Session) handleInput(ev backend.Event) error {
	if s.completion != nil && ev.Type == backend.EventKey && s.handleCompletion(ev) {
		return nil
	}
	if s.prompt != nil && (ev.Type == backend.EventKey || ev.Type == backend.EventPaste) {
		in, done := s.prompt.handle(ev)
		if done {
			s.prompt = nil
			s.lastStatus = nil
		}
		if in == nil {
			return nil
		}
		return s.Apply(in)
	}

	in := translate(ev, s.eng.Cursor())
	if in == nil {
		return nil
	}
	return s.Apply(in)
}

// Apply runs one intent.
func (s *Session) Apply(in Intent) error {
	if _, ok := in.(Quit); !ok {
		s.quitArmed = false
	}
	s.follow = true

	var op string
	var err error
	switch in := in.(type) {
	case InsertText:
		op, err = "insert", s.eng.InsertText(in.Text)
	case InsertNewline:
		op, err = "insert", s.eng.InsertNewline()
	case DeleteBackward:
		op, err = "delete", s.eng.DeleteBackward()
	case DeleteForward:
		op, err = "delete", s.eng.DeleteForward()
	case DeleteRange:
		op, err = "delete", s.eng.DeleteRange(in.Start, in.End)
	case Complete:
		op, err = "complete", s.complete()

	case Move:
		s.eng.Move(in.Unit, in.Extend, s.view.PageSize())
	case SelectWord:
		s.eng.SelectWord(in.Offset)
	case SelectLine:
		s.eng.SelectLine(in.Offset)
	case SelectAll:
		s.eng.SelectAll()
	case Cancel:
		s.eng.SealUndoGroup()
		s.eng.MoveCursor(s.eng.Cursor())
		s.eng.ClearFind()
		s.status.ClearMessage()

	case Copy:
		op, err = "copy", s.copy(false)
	case Cut:
		op, err = "cut", s.copy(true)
	case Paste:
		op, err = "paste", s.eng.Paste(in.Text)
	case PasteRequest:
		s.pastes.Request(s.ctx, func(r clipboard.Response) { s.post(PasteEvent{Response: r}) })

	case Undo:
		op, err = "undo", s.undo(s.eng.Undo, history.ErrNothingToUndo, "Nothing to undo")
	case Redo:
		op, err = "redo", s.undo(s.eng.Redo, history.ErrNothingToRedo, "Nothing to redo")

	case Find:
		op, err = "find", s.find(in.Query)
	case FindNext:
		if !s.eng.FindNext() {
			s.info("No matches")
		}
	case ReplaceAll:
		op, err = "replace", s.replaceAll(in.Query, in.With)
	case Prompt:
		s.prompt = newPrompt(in.Kind)

	case ExecuteCell:
		op, err = "execute", s.execute()
	case Interrupt:
		s.interrupt()

	case Scroll:
		s.view.ScrollBy(in.Lines)
		s.follow = false
	case Resize:
		s.Resize(in.W, in.H)
	case ToggleGutter:
		m := s.rend.Gutter().Next()
		s.rend.SetGutter(m)
		s.info("Line numbers: " + m.String())
	case ToggleOutput:
		s.toggleOutput()
	case SetLanguage:
		s.setLanguage(in.Name)

	case Save:
		op, err = "save", s.save()
	case Quit:
		return s.quit()
	}

	if err != nil {
		s.fail(NewOperationError(op, "", err))
	}
	s.eng.UpdateBrackets()
	return nil
}

func (s *Session) copy(cut bool) error {
	var text string
	var err error
	if cut {
		text, err = s.eng.Cut()
	} else {
		text, err = s.eng.Copy()
	}
	if errors.Is(err, engine.ErrNoSelection) {
		s.info("Nothing selected")
		return nil
	}
	if err != nil {
		return err
	}

	op := "copy"
	if cut {
		op = "cut"
	}
	clipboard.WriteAsync(s.ctx, s.clip, text, func(err error) {
		if err != nil {
			s.post(ErrorEvent{Op: op, Err: err})
		}
	})
	return nil
}

func (s *Session) handlePaste(r clipboard.Response) {
	if !s.pastes.Accept(r) {
		s.logger.Debug("stale clipboard read dropped", zap.Stringer("id", r.ID))
		return
	}
	if r.Err != nil {
		s.fail(NewOperationError("paste", "", r.Err))
		return
	}
	s.follow = true
	if err := s.eng.Paste(r.Text); err != nil {
		s.fail(NewOperationError("paste", "", err))
	}
	s.eng.UpdateBrackets()
}

func (s *Session) undo(fn func() error, empty error, msg string) error {
	err := fn()
	if errors.Is(err, empty) {
		s.info(msg)
		return nil
	}
	return err
}

func (s *Session) find(query string) error {
	n, err := s.eng.Find(query)
	if err != nil {
		return err
	}
	if n == 0 {
		s.info(fmt.Sprintf("No matches for %q", s.eng.FindQuery()))
		return nil
	}
	s.eng.FindNext()
	s.info(fmt.Sprintf("%d matches for %q", n, s.eng.FindQuery()))
	return nil
}

func (s *Session) replaceAll(query, with string) error {
	n, err := s.eng.ReplaceAll(query, with)
	if err != nil {
		return err
	}
	s.info(fmt.Sprintf("Replaced %d occurrences", n))
	return nil
}

// execute submits the cell at the cursor, or every code cell overlapping
// the selection.
func (s *Session) execute() error {
	if s.runner == nil {
		return ErrNoExecutor
	}

	snap := s.eng.Snapshot()
	sel := s.eng.Selection()
	cells := notebook.ToExecute(notebook.Parse(snap, s.delimiter), sel.Range(), sel.Head)
	if len(cells) == 0 {
		s.info("No code cell to run")
		return nil
	}

	reqs := make([]kernel.Request, 0, len(cells))
	for _, c := range cells {
		reqs = append(reqs, kernel.NewRequest(c.Index, notebook.Source(snap, c)))
	}
	batch, err := s.runner.Submit(s.ctx, reqs, func(r kernel.Result) { s.post(ExecEvent{Result: r}) })
	if err != nil {
		return err
	}

	s.batch = batch
	s.batchFailed = false
	s.status.SetExec(statusline.ExecRunning)
	if len(reqs) == 1 {
		s.info(fmt.Sprintf("Running cell %d", reqs[0].Cell+1))
	} else {
		s.info(fmt.Sprintf("Running %d cells", len(reqs)))
	}
	s.logger.Info("cells submitted", zap.Stringer("batch", batch), zap.Int("cells", len(reqs)))
	return nil
}

func (s *Session) handleResult(r kernel.Result) {
	if r.Batch != s.batch || s.batch == uuid.Nil {
		s.logger.Debug("stale cell result dropped", zap.Stringer("batch", r.Batch))
		return
	}
	if r.Last {
		s.batch = uuid.Nil
		s.status.SetExec(statusline.ExecIdle)
	}

	s.recordOutput(r)
	label := fmt.Sprintf("[%d]", r.Cell+1)
	if r.Err != nil {
		s.batchFailed = true
		s.status.SetMessage(fmt.Sprintf("%s %v", label, r.Err), statusline.MessageError)
		s.logger.Warn("cell failed", zap.Int("cell", r.Cell), zap.Duration("duration", r.Duration), zap.Error(r.Err))
		return
	}
	s.logger.Info("cell executed",
		zap.Int("cell", r.Cell),
		zap.Duration("duration", r.Duration),
		zap.String("output", r.Output))
	if !s.batchFailed {
		s.status.SetMessage(label+" "+summarize(r.Output, r.Duration), statusline.MessageInfo)
	}
}

// summarize returns the status text for a cell's output: its first line,
// and how many more lines the output pane holds.
func summarize(output string, d time.Duration) string {
	output = strings.TrimRight(output, "\n")
	if output == "" {
		return fmt.Sprintf("ok (%s)", d.Round(time.Millisecond))
	}
	first, rest, multi := strings.Cut(output, "\n")
	if !multi {
		return first
	}
	return fmt.Sprintf("%s (+%d lines, Ctrl+O)", first, strings.Count(rest, "\n")+1)
}

func (s *Session) interrupt() {
	if s.runner == nil || !s.runner.Interrupt() {
		s.info("Nothing running")
		return
	}
	s.info("Interrupted")
}

// setLanguage replaces the tokenizer. Spans of the old language are
// dropped and the document is tokenized again from scratch.
func (s *Session) setLanguage(name string) {
	if !syntax.HasLanguage(name) {
		s.warn(fmt.Sprintf("Unknown language %q", name))
		return
	}
	if s.tokCancel != nil {
		s.tokCancel()
		s.tokCancel = nil
	}
	s.tok = syntax.ForLanguage(name, syntax.WithLogger(s.logger))
	s.tokID = uuid.Nil
	s.spans = nil
	s.tokValid = false
	s.needTok = true
	s.status.SetLanguage(s.tok.Language())
	s.info("Language: " + s.tok.Language())
	s.logger.Info("language changed", zap.String("language", s.tok.Language()))
}

func (s *Session) scheduleTokens() {
	if !s.needTok {
		return
	}
	s.needTok = false
	if s.tokCancel != nil {
		s.tokCancel()
	}
	req := syntax.Request{Snapshot: s.eng.Snapshot()}
	if s.tokValid && s.spansRev == req.Snapshot.Revision() {
		if changes, complete := s.eng.ChangesSince(s.tokBase); complete {
			if edited, ok := syntax.EditedRanges(changes); ok {
				req.Base, req.Edited = s.spans, edited
			}
		}
	}
	s.tokID, s.tokCancel = s.tok.Start(s.ctx, req, func(r syntax.Result) {
		s.post(TokensEvent{Result: r})
	})
}

func (s *Session) handleTokens(r syntax.Result) {
	if r.ID != s.tokID {
		return
	}
	s.tokCancel = nil
	if r.Err != nil {
		s.logger.Debug("tokenize failed", zap.Error(r.Err))
		return
	}
	if r.Revision != s.eng.Revision() {
		return
	}
	s.spans = r.Spans
	s.spansRev = r.Revision
	s.tokBase = r.Revision
	s.tokValid = true
}

func (s *Session) save() error {
	if s.path == "" {
		return ErrNoFilePath
	}
	path, text, rev := s.path, s.eng.Text(), s.eng.Revision()
	opts := []fileio.Option{fileio.WithDelimiter(s.delimiter)}
	if s.notebook {
		opts = append(opts, fileio.WithNotebookBase(s.notebookBase))
	}
	if s.watcher != nil {
		s.watcher.Mute(path, muteWindow)
	}
	go func() {
		err := fileio.Save(path, text, opts...)
		s.post(SaveEvent{Path: path, Revision: rev, Err: err})
	}()
	return nil
}

func (s *Session) handleSaved(ev SaveEvent) {
	if ev.Err != nil {
		s.fail(NewOperationError("save", ev.Path, ev.Err))
		return
	}
	name := filepath.Base(ev.Path)
	if ev.Revision != s.eng.Revision() {
		s.warn(fmt.Sprintf("Saved %s; buffer changed since", name))
		return
	}
	s.eng.MarkSaved()
	s.info("Saved " + name)
	s.logger.Info("saved", zap.String("path", ev.Path), zap.Uint64("revision", uint64(ev.Revision)))
}

func (s *Session) handleFileChanged(c fileio.Event) {
	if c.Path != s.absPath() {
		return
	}
	if c.Op.Has(fileio.OpRemove|fileio.OpRename) && !c.Op.Has(fileio.OpCreate|fileio.OpWrite) {
		s.warn(s.displayName() + " was removed on disk")
		return
	}
	if s.eng.Modified() {
		s.warn(s.displayName() + " changed on disk; saving will overwrite it")
		return
	}
	path, delim := s.path, s.delimiter
	go func() {
		f, err := fileio.Load(path, fileio.WithDelimiter(delim))
		s.post(LoadEvent{File: f, Err: err})
	}()
}

func (s *Session) absPath() string {
	abs, err := filepath.Abs(s.path)
	if err != nil {
		return s.path
	}
	return abs
}

func (s *Session) handleLoaded(ev LoadEvent) {
	if ev.Err != nil {
		s.fail(NewOperationError("reload", s.path, ev.Err))
		return
	}
	if s.eng.Modified() {
		s.warn(s.displayName() + " changed on disk; saving will overwrite it")
		return
	}
	cur := s.eng.Cursor()
	s.eng.SetContent(ev.File.Text)
	s.eng.MoveCursor(min(cur, s.eng.Len()))
	s.notebook = ev.File.Notebook
	s.notebookBase = ev.File.Raw
	s.info("Reloaded " + s.displayName())
	s.reportDecode(ev.File)
}

// reportDecode surfaces repairs made while decoding a file.
func (s *Session) reportDecode(f *fileio.File) {
	if f.Report.Replaced == 0 {
		return
	}
	s.logger.Warn("invalid UTF-8 replaced", zap.String("path", f.Path), zap.Int("sequences", f.Report.Replaced))
	s.warn(fmt.Sprintf("%d invalid byte sequences replaced", f.Report.Replaced))
}

func (s *Session) quit() error {
	if s.eng.Modified() && !s.quitArmed {
		s.quitArmed = true
		s.warn("Unsaved changes; quit again to discard them")
		return nil
	}
	return ErrQuit
}

// ApplyConfig applies settings that can change while running.
func (s *Session) ApplyConfig(cfg *config.Config) {
	s.view.SetScrolloff(cfg.Editor.Scrolloff)
	s.view.SetWrap(cfg.Editor.WordWrap, cfg.Editor.WrapWidth)
	s.eng.SetGroupWindow(cfg.GroupWindow())
	s.eng.SetAutoIndent(cfg.Editor.AutoIndent)
	s.rend.SetGutter(cfg.GutterMode())
	s.setTheme(newTheme(cfg, s.logger))
	s.delimiter = cfg.Notebook.CellDelimiter
	s.follow = true
}

func (s *Session) setTheme(theme *renderer.Theme) {
	s.theme = theme
	s.rend.SetTheme(theme)
	s.status.SetStyle(theme.Status)
	s.lastStatus = nil
	s.lastPane = nil
}

// Resize sets the screen size, including the status row.
func (s *Session) Resize(width, height int) {
	s.width, s.height = max(width, 1), max(height, 2)
	s.rend.Invalidate()
	s.lastStatus = nil
	s.lastPane = nil
	s.follow = true
}

func (s *Session) info(msg string) {
	s.status.SetMessage(msg, statusline.MessageInfo)
}

func (s *Session) warn(msg string) {
	s.status.SetMessage(msg, statusline.MessageWarning)
}

func (s *Session) fail(err error) {
	switch {
	case errors.Is(err, engine.ErrReadOnly):
		s.warn("Buffer is read-only")
	case errors.Is(err, kernel.ErrBusy):
		s.warn("Executor is busy")
	default:
		s.status.SetMessage(err.Error(), statusline.MessageError)
	}
	s.logger.Warn("operation failed", zap.Error(err))
}

// State returns the renderer input for the current document.
func (s *Session) State() renderer.State {
	snap := s.eng.Snapshot()
	sel := s.eng.Selection()
	st := renderer.State{
		Snapshot:     snap,
		Cursor:       sel.Head,
		Selection:    sel.Range(),
		Matches:      s.eng.FindMatches(),
		FollowCursor: s.follow,
	}
	if s.spansRev == snap.Revision() {
		st.Tokens = s.spans
	}
	if open, closeAt, ok := s.eng.BracketPair(); ok {
		st.Brackets = []engine.Offset{open, closeAt}
	}
	return st
}

// Draw renders the document, the output pane when shown and the status
// row to b. Only rows that changed since the last Draw are written.
func (s *Session) Draw(b backend.Backend) {
	st := s.State()
	gw := s.rend.GutterWidth(st.Snapshot.LineCount())
	ph := s.paneHeight()
	textRows := s.height - 1 - ph
	s.view.Resize(max(s.width-gw, 1), textRows)
	frame := s.rend.Render(s.view, st)
	s.drawCompletion(&frame)
	if frame.Full {
		s.logger.Debug("full redraw", zap.Uint64("frame", s.rend.FrameCount()))
	}

	cp := st.Snapshot.OffsetToPoint(st.Cursor)
	s.status.SetModified(s.eng.Modified())
	s.status.SetPosition(cp.Line, cp.Column)
	s.status.SetTotalLines(st.Snapshot.LineCount())

	var row []core.Cell
	if s.prompt != nil {
		text := s.prompt.String()
		row = fitRow(core.CellsFromString(text, s.theme.Status), s.width, s.theme.Status)
		frame.CursorX = min(runewidth.StringWidth(text), s.width-1)
		frame.CursorY = s.height - 1
		frame.CursorVisible = true
	} else {
		row = s.status.Render(s.width)
	}

	b.Draw(&frame)
	s.drawPane(b, textRows, frame.Full)
	if frame.Full || !core.RowsEqual(row, s.lastStatus) {
		b.DrawRow(s.height-1, row)
		s.lastStatus = row
	}
	b.Show()
}

// fitRow pads or cuts cells to exactly width.
func fitRow(cells []core.Cell, width int, style core.Style) []core.Cell {
	if len(cells) > width {
		return cells[:width]
	}
	for len(cells) < width {
		cells = append(cells, core.Cell{Text: " ", Width: 1, Style: style})
	}
	return cells
}
