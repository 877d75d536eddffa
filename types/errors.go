package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks a command whose captured output failed one of its
	// attached validators.
	ErrValidation = errors.New("validation failed")

	// ErrInvariant marks a configuration or programming error. It is never
	// recoverable at runtime; the whole run aborts.
	ErrInvariant = errors.New("invariant violation")
)

// ProcessError is returned when an external command exits abnormally. It
// carries the full argument vector and both captured streams so the operator
// can diagnose the failure without re-running anything.
type ProcessError struct {
	Args   []string
	Stdout string
	Stderr string
	Err    error
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("command %q failed: %v", strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += "\nstderr: " + e.Stderr
	}
	return msg
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}
