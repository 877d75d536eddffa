package types

import (
	"fmt"
	"strings"
)

// Validator is a stateless predicate over the captured output of a command.
// Implementations must be safe to reuse across many commands and many
// invocations.
type Validator interface {
	Validate(output string) bool
	// String describes the check. It is used only in failure diagnostics.
	String() string
}

// Include matches iff the given string appears in the output.
func Include(s string) Validator {
	return includeValidator(s)
}

type includeValidator string

func (v includeValidator) Validate(output string) bool {
	return strings.Contains(output, string(v))
}

func (v includeValidator) String() string {
	return fmt.Sprintf("Include(%s)", string(v))
}

// Exclude matches iff the given string does not appear in the output.
func Exclude(s string) Validator {
	return excludeValidator(s)
}

type excludeValidator string

func (v excludeValidator) Validate(output string) bool {
	return !strings.Contains(output, string(v))
}

func (v excludeValidator) String() string {
	return fmt.Sprintf("Exclude(%s)", string(v))
}

// Func wraps an arbitrary predicate. The predicate should be stateless; the
// description is what operators see when the check fails.
func Func(fn func(output string) bool, description string) Validator {
	return &funcValidator{fn: fn, description: description}
}

type funcValidator struct {
	fn          func(string) bool
	description string
}

func (v *funcValidator) Validate(output string) bool {
	return v.fn(output)
}

func (v *funcValidator) String() string {
	return v.description
}
