// Package apperr defines the error kinds surfaced at the service boundary.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrUpstream   = errors.New("upstream error")
)

// Error tags a cause with one of the kinds above. errors.Is matches both
// the kind and anything in the wrapped cause.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func Validation(op, format string, args ...any) error {
	return &Error{Kind: ErrValidation, Op: op, Err: fmt.Errorf(format, args...)}
}

func NotFound(op, format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Op: op, Err: fmt.Errorf(format, args...)}
}

func Upstream(op string, err error) error {
	return &Error{Kind: ErrUpstream, Op: op, Err: err}
}

// KindOf reports which kind err carries, or nil for untagged errors.
func KindOf(err error) error {
	for _, k := range []error{ErrValidation, ErrNotFound, ErrUpstream} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
