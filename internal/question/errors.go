package question

import (
	"errors"
	"fmt"
)

// ErrInvalidInput matches every InvalidInputError via errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// ErrAborted reports that the user cancelled the interview. It is a control
// signal rather than a failure reason.
var ErrAborted = errors.New("aborted")

// Source identifies where a rejected value came from.
type Source string

const (
	SourceOverride Source = "override"
	SourcePrompt   Source = "prompt"
)

// InvalidInputError is returned when a value fails its question's validator
// and cannot be recovered: an override, or a prompt whose retry budget ran out.
type InvalidInputError struct {
	ID       string
	Value    any
	Reason   string
	Source   Source
	Attempts int
}

func (e *InvalidInputError) Error() string {
	if e.Source == SourcePrompt {
		return fmt.Sprintf("invalid input for %s after %d attempt(s): %s", e.ID, e.Attempts, e.Reason)
	}
	return fmt.Sprintf("invalid %s for %s (%v): %s", e.Source, e.ID, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidInput) true.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}
