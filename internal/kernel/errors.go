package kernel

import "errors"

var (
	// ErrBusy is returned when a batch is submitted while another runs.
	ErrBusy = errors.New("executor is busy")

	// ErrClosed is returned after the runner or executor is closed.
	ErrClosed = errors.New("executor is closed")
)
