package config

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidValue indicates a setting is out of range or malformed.
	ErrInvalidValue = errors.New("invalid value")

	// ErrUnsupportedFormat indicates a config file extension with no decoder.
	ErrUnsupportedFormat = errors.New("unsupported config format")
)

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func invalid(setting string, value any, reason string) error {
	return fmt.Errorf("%s = %v: %s: %w", setting, value, reason, ErrInvalidValue)
}
