package internal

import (
	"errors"
	"fmt"
)

var (
	ErrHeaderNotFound = errors.New("header row not found")
	ErrMissingColumns = errors.New("required columns missing")
	ErrEmptySource    = errors.New("source has no rows")
)

// FormatError marks a source whose layout could not be recognised. The
// source is skipped; the run goes on.
type FormatError struct {
	Path   string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Reason, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func NewFormatError(path, reason string, err error) *FormatError {
	return &FormatError{Path: path, Reason: reason, Err: err}
}

func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}
