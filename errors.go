package colorquant

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the sentinel every argument validation failure
// unwraps to. Test for it with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// ArgumentError describes a rejected argument. It is returned before any
// clustering work starts, so no partial result accompanies it.
type ArgumentError struct {
	Name   string
	Value  int
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s=%d: %s", ErrInvalidArgument, e.Name, e.Value, e.Reason)
}

func (e *ArgumentError) Unwrap() error { return ErrInvalidArgument }

// validate checks the preconditions shared by every quantize entry point.
func validate(n, k, maxIterations int) error {
	if n == 0 {
		return &ArgumentError{Name: "samples", Value: n, Reason: "sample set is empty"}
	}
	if k < 1 {
		return &ArgumentError{Name: "k", Value: k, Reason: "must be at least 1"}
	}
	if k > n {
		return &ArgumentError{Name: "k", Value: k, Reason: fmt.Sprintf("exceeds sample count %d", n)}
	}
	if maxIterations < 0 {
		return &ArgumentError{Name: "maxIterations", Value: maxIterations, Reason: "must not be negative"}
	}
	return nil
}
