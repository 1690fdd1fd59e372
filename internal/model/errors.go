package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a read-mode path or a cached record does
	// not exist. Callers recover from it by falling back or clearing.
	ErrNotFound = errors.New("not found")

	// ErrWriteFailure is returned when a directory or file could not be
	// created or written. It is fatal to the Save that produced it.
	ErrWriteFailure = errors.New("write failure")

	// ErrTypeMismatch is returned when a record value does not have the shape
	// a part expects.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrImpossible marks a violated internal invariant, such as an unknown
	// directory strategy.
	ErrImpossible = errors.New("impossible")
)

// WriteError describes a failed write to Path.
//
// errors.Is(err, ErrWriteFailure) reports true; the underlying cause can be
// accessed via errors.Unwrap.
type WriteError struct {
	Path string
	Err  error
}

// NewWriteError wraps err as a WriteError for path.
func NewWriteError(path string, err error) *WriteError {
	return &WriteError{Path: path, Err: err}
}

func (e *WriteError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("write failure: %s", e.Path)
	}
	return fmt.Sprintf("write failure: %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Is matches ErrWriteFailure.
func (e *WriteError) Is(target error) bool { return target == ErrWriteFailure }

// MismatchError describes a record value rejected by the part named Part.
type MismatchError struct {
	Part   string
	Detail string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("type mismatch in part %q: %s", e.Part, e.Detail)
}

// Is matches ErrTypeMismatch.
func (e *MismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// Mismatchf builds a MismatchError with a formatted detail.
func Mismatchf(part, format string, args ...any) *MismatchError {
	return &MismatchError{Part: part, Detail: fmt.Sprintf(format, args...)}
}
