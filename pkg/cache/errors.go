package cache

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrNotFound is returned when the settings file does not exist.
	// It wraps fs.ErrNotExist.
	ErrNotFound = fmt.Errorf("settings file not found: %w", fs.ErrNotExist)

	// ErrTokenMissing is returned when the settings file holds no token
	ErrTokenMissing = errors.New("no token stored in settings file")
)

// MalformedError reports a settings file that exists but cannot be used
type MalformedError struct {
	Path   string
	Reason string
	Cause  error
}

// Error implements the error interface
func (e *MalformedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed settings file %s: %s: %v", e.Path, e.Reason, e.Cause)
	}
	return fmt.Sprintf("malformed settings file %s: %s", e.Path, e.Reason)
}

// Unwrap returns the underlying error
func (e *MalformedError) Unwrap() error {
	return e.Cause
}

// IsMalformed reports whether err is, or wraps, a MalformedError
func IsMalformed(err error) bool {
	var malformed *MalformedError
	return errors.As(err, &malformed)
}
