package fileio

import "errors"

var (
	// ErrIsDirectory is returned when a directory is opened as a file.
	ErrIsDirectory = errors.New("is a directory")

	// ErrFileTooLarge is returned when a file exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrWatcherClosed is returned after the watcher has been closed.
	ErrWatcherClosed = errors.New("watcher closed")
)
