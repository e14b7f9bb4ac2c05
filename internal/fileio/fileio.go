// Package fileio loads and saves documents.
//
// Load decodes raw bytes through engine/normalize, so the text it returns is
// ready to seed an engine. Save writes text verbatim through a temporary file
// and a rename. Paths ending in .ipynb are converted with the notebook
// package in both directions.
package fileio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dshills/inkwell/internal/engine/normalize"
	"github.com/dshills/inkwell/internal/notebook"
)

// DefaultMaxSize is the largest file Load accepts.
const DefaultMaxSize = 64 << 20

// File is a loaded document.
type File struct {
	Path string
	Text string

	// Report counts repairs made while decoding.
	Report normalize.Report

	// Notebook is set for .ipynb files; Raw then holds the original JSON
	// and Language the notebook's kernel language.
	Notebook bool
	Raw      []byte
	Language string

	ModTime time.Time
}

type options struct {
	delimiter string
	maxSize   int64
	base      []byte
}

// Option configures Load and Save.
type Option func(*options)

// WithDelimiter sets the cell delimiter used for notebooks.
func WithDelimiter(d string) Option {
	return func(o *options) {
		if d != "" {
			o.delimiter = d
		}
	}
}

// WithMaxSize limits the size of loaded files. Zero disables the limit.
func WithMaxSize(n int64) Option {
	return func(o *options) { o.maxSize = n }
}

// WithNotebookBase supplies the notebook JSON whose metadata Save keeps.
func WithNotebookBase(raw []byte) Option {
	return func(o *options) { o.base = raw }
}

func resolve(opts []Option) options {
	o := options{delimiter: notebook.DefaultDelimiter, maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// IsNotebook reports whether path names a Jupyter notebook.
func IsNotebook(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".ipynb")
}

// Load reads path and normalizes its content. A missing file is reported
// with an error wrapping fs.ErrNotExist.
func Load(path string, opts ...Option) (*File, error) {
	o := resolve(opts)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("load %s: %w", path, ErrIsDirectory)
	}
	if o.maxSize > 0 && info.Size() > o.maxSize {
		return nil, fmt.Errorf("load %s: %w", path, ErrFileTooLarge)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	f := &File{Path: path, ModTime: info.ModTime()}
	data := raw
	if IsNotebook(path) {
		text, err := notebook.Import(raw, o.delimiter)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		f.Notebook = true
		f.Raw = raw
		f.Language = notebook.Language(raw)
		data = []byte(text)
	}
	f.Text, f.Report = normalize.Bytes(data)
	return f, nil
}

// Save writes text to path atomically. Notebook paths are exported as
// .ipynb JSON.
func Save(path, text string, opts ...Option) error {
	o := resolve(opts)

	data := []byte(text)
	if IsNotebook(path) {
		out, err := notebook.Export(text, o.delimiter, o.base)
		if err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
		data = out
	}
	if err := writeAtomic(path, data); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// writeAtomic writes data to a temporary file beside path and renames it
// into place, keeping the existing file mode.
func writeAtomic(path string, data []byte) (err error) {
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	} else if !errors.Is(statErr, os.ErrNotExist) {
		return statErr
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), mode); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
