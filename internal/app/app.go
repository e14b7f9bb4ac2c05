// Package app wires the editor together: it owns the Session, runs the
// event loop and connects the collaborators (terminal backend, clipboard,
// file watcher, config watcher and cell executor) to it.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/clipboard"
	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/fileio"
	"github.com/dshills/inkwell/internal/kernel"
	"github.com/dshills/inkwell/internal/kernel/lua"
	"github.com/dshills/inkwell/internal/renderer/backend"
)

// eventQueueSize bounds the loop's inbox.
const eventQueueSize = 256

// Options configures the application.
type Options struct {
	// Path is the file to edit. It need not exist.
	Path string

	// Config is the loaded configuration; nil uses the defaults.
	Config *config.Config

	// ConfigPath, if set, is watched and reloaded on change.
	ConfigPath string

	// Watch enables external change notices for Path.
	Watch bool

	ReadOnly bool

	// Clipboard defaults to an in-memory clipboard.
	Clipboard clipboard.Clipboard

	// Executor runs notebook cells. Nil selects one from the config.
	Executor kernel.Executor

	Logger *zap.Logger

	// Notice is shown as a warning once the editor starts, such as a
	// configuration problem found before the logger existed.
	Notice string
}

// Application is the running editor.
type Application struct {
	opts    Options
	cfg     *config.Config
	backend backend.Backend
	session *Session
	runner  *kernel.Runner
	logger  *zap.Logger

	fileWatcher *fileio.Watcher
	cfgWatcher  *config.Watcher

	events  chan Event
	done    chan struct{}
	stop    sync.Once
	running atomic.Bool
}

// New loads opts.Path and builds the session. The backend is initialized
// by Run.
func New(opts Options, b backend.Backend) (*Application, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app := &Application{
		opts:    opts,
		cfg:     cfg,
		backend: b,
		logger:  logger,
		events:  make(chan Event, eventQueueSize),
		done:    make(chan struct{}),
	}

	file, err := app.load()
	if err != nil {
		return nil, err
	}

	if err := app.startRunner(); err != nil {
		return nil, err
	}

	var watcher Muter
	if opts.Watch && opts.Path != "" {
		fw, err := fileio.NewWatcher(func(ev fileio.Event) {
			app.Post(FileChangedEvent{Change: ev})
		}, fileio.WithErrorHandler(func(err error) {
			app.logger.Warn("file watcher", zap.Error(err))
		}))
		if err != nil {
			return nil, &InitError{Component: "file watcher", Err: err}
		}
		if err := fw.Watch(opts.Path); err != nil {
			logger.Warn("cannot watch file", zap.String("path", opts.Path), zap.Error(err))
		}
		app.fileWatcher = fw
		watcher = fw
	}

	w, h := b.Size()
	app.session = NewSession(SessionOptions{
		Config:    cfg,
		Path:      opts.Path,
		File:      file,
		Clipboard: opts.Clipboard,
		Runner:    app.runner,
		Watcher:   watcher,
		Post:      func(ev Event) { app.Post(ev) },
		Width:     w,
		Height:    h,
		ReadOnly:  opts.ReadOnly,
		Logger:    logger,
	})
	if file == nil && opts.Path != "" {
		app.session.info("New file " + filepath.Base(opts.Path))
	}
	if opts.Notice != "" {
		app.session.warn(opts.Notice)
	}
	return app, nil
}

// load reads the file to edit. A missing file starts an empty buffer.
func (app *Application) load() (*fileio.File, error) {
	if app.opts.Path == "" {
		return nil, nil
	}
	f, err := fileio.Load(app.opts.Path, fileio.WithDelimiter(app.cfg.Notebook.CellDelimiter))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, NewOperationError("open", app.opts.Path, err)
	}
	app.logger.Info("loaded",
		zap.String("path", f.Path),
		zap.Int("bytes", len(f.Text)),
		zap.Bool("notebook", f.Notebook))
	return f, nil
}

func (app *Application) startRunner() error {
	exec := app.opts.Executor
	if exec == nil {
		switch app.cfg.Notebook.Executor {
		case config.ExecutorNone:
			return nil
		case config.ExecutorLua, "":
			exec = lua.New()
		default:
			return &InitError{Component: "executor", Err: fmt.Errorf("%q: %w", app.cfg.Notebook.Executor, config.ErrInvalidValue)}
		}
	}
	app.runner = kernel.NewRunner(exec,
		kernel.WithTimeout(app.cfg.ExecTimeout()),
		kernel.WithLogger(app.logger))
	return nil
}

// Session returns the editor session. It must only be used from the
// event loop, or before Run and after it returns.
func (app *Application) Session() *Session {
	return app.session
}

// Post queues an event for the loop. It blocks while the queue is full and
// returns false once the application has stopped.
func (app *Application) Post(ev Event) bool {
	select {
	case <-app.done:
		return false
	default:
	}
	select {
	case app.events <- ev:
		return true
	case <-app.done:
		return false
	}
}

// Run initializes the backend and runs the event loop until the session
// quits, the terminal closes or ctx is cancelled.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	if err := app.backend.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer app.backend.Shutdown()
	app.session.Resize(app.backend.Size())

	if app.opts.ConfigPath != "" {
		w, err := config.Watch(app.opts.ConfigPath, 0, func(cfg *config.Config) {
			app.Post(ConfigEvent{Config: cfg})
		}, func(err error) {
			app.Post(ErrorEvent{Op: "reload config", Err: err})
		})
		if err != nil {
			app.logger.Warn("cannot watch config", zap.String("path", app.opts.ConfigPath), zap.Error(err))
		} else {
			app.cfgWatcher = w
		}
	}

	go app.pollInput()

	defer app.shutdown()
	return app.eventLoop(ctx)
}

// pollInput forwards terminal input to the loop.
func (app *Application) pollInput() {
	for {
		ev := app.backend.PollEvent()
		if !app.Post(InputEvent{Event: ev}) || ev.Type == backend.EventClosed {
			return
		}
	}
}

func (app *Application) eventLoop(ctx context.Context) error {
	app.session.Draw(app.backend)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-app.done:
			return nil
		case ev := <-app.events:
			if err := app.dispatch(ev); err != nil {
				return exitErr(err)
			}
		}

		// Coalesce a burst of events, such as a paste or key repeat, into
		// one frame.
	drain:
		for {
			select {
			case ev := <-app.events:
				if err := app.dispatch(ev); err != nil {
					return exitErr(err)
				}
			default:
				break drain
			}
		}
		app.session.Draw(app.backend)
	}
}

func (app *Application) dispatch(ev Event) error {
	if in, ok := ev.(InputEvent); ok && in.Event.Type == backend.EventClosed {
		app.logger.Info("terminal closed")
		return ErrQuit
	}
	return app.session.Handle(ev)
}

// exitErr maps the session's quit signal to a clean exit.
func exitErr(err error) error {
	if errors.Is(err, ErrQuit) {
		return nil
	}
	return err
}

// Stop ends the event loop.
func (app *Application) Stop() {
	app.stop.Do(func() { close(app.done) })
}

func (app *Application) shutdown() {
	app.Stop()
	app.session.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	closeAsync := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				app.logger.Warn("shutdown", zap.String("component", name), zap.Error(err))
			}
		}()
	}
	if app.runner != nil {
		closeAsync("runner", app.runner.Close)
	}
	if app.fileWatcher != nil {
		closeAsync("file watcher", app.fileWatcher.Close)
	}
	if app.cfgWatcher != nil {
		closeAsync("config watcher", app.cfgWatcher.Close)
	}

	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-ctx.Done():
		app.logger.Warn("shutdown timed out")
	}
	_ = app.logger.Sync()
}
