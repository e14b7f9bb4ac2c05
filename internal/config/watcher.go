package config

import (
	"path/filepath"
	"time"

	"github.com/dshills/inkwell/internal/fileio"
)

// Watcher reloads a config file when it changes on disk.
type Watcher struct {
	path string
	fw   *fileio.Watcher
}

// Watch starts watching path. onChange receives each successfully loaded
// config and onError each failed reload; both run on the watcher's
// goroutine. A removed file is ignored until it reappears.
func Watch(path string, debounce time.Duration, onChange func(*Config), onError func(error)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{path: abs}
	fw, err := fileio.NewWatcher(func(ev fileio.Event) {
		if ev.Op.Has(fileio.OpRemove) && !ev.Op.Has(fileio.OpCreate|fileio.OpWrite) {
			return
		}
		cfg, err := Load(w.path)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		if onChange != nil {
			onChange(cfg)
		}
	}, fileio.WithDebounce(debounce), fileio.WithErrorHandler(onError))
	if err != nil {
		return nil, err
	}
	if err := fw.Watch(abs); err != nil {
		_ = fw.Close()
		return nil, err
	}
	w.fw = fw
	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string { return w.path }

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
