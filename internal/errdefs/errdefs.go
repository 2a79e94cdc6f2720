// Package errdefs defines the error kinds shared by every pipeline stage.
//
// Stages wrap these sentinels with context, for example
//
//	fmt.Errorf("octaves %d: %w", n, errdefs.ErrInvalidParameter)
//
// and callers test for them with errors.Is.
package errdefs

import "errors"

// Pipeline error kinds.
var (
	ErrInvalidParameter   = errors.New("invalid parameter")
	ErrOutOfBounds        = errors.New("out of bounds")
	ErrIO                 = errors.New("i/o error")
	ErrDegenerateGeometry = errors.New("degenerate geometry")
)

// Kind returns a short name for the error kind wrapped by err, or "internal"
// when err carries none of the pipeline kinds.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidParameter):
		return "InvalidParameter"
	case errors.Is(err, ErrOutOfBounds):
		return "OutOfBounds"
	case errors.Is(err, ErrIO):
		return "IOError"
	case errors.Is(err, ErrDegenerateGeometry):
		return "DegenerateGeometry"
	default:
		return "internal"
	}
}

// IO wraps an underlying I/O failure so that it matches both ErrIO and the
// original error.
func IO(op string, err error) error {
	if err == nil {
		return nil
	}
	return &ioError{op: op, err: err}
}

type ioError struct {
	op  string
	err error
}

func (e *ioError) Error() string { return e.op + ": " + e.err.Error() }

func (e *ioError) Unwrap() []error { return []error{ErrIO, e.err} }
