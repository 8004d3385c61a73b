package quiz

import (
	"errors"
	"fmt"
)

// ErrUserAbort is returned when the user cancels a quiz in progress.
// It is not a failure: the session is discarded without persisting.
var ErrUserAbort = errors.New("quiz aborted by user")

// GenerationError indicates the question generation service was
// unreachable or rejected the request.
type GenerationError struct {
	Cause error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("question generation failed: %v", e.Cause)
}

func (e *GenerationError) Unwrap() error { return e.Cause }

// ParseError indicates a generation response could not be reduced to the
// requested number of valid questions.
type ParseError struct {
	Reason   string
	Found    int
	Expected int
}

func (e *ParseError) Error() string {
	if e.Expected > 0 {
		return fmt.Sprintf("parse questions: %s (found %d of %d)", e.Reason, e.Found, e.Expected)
	}
	return fmt.Sprintf("parse questions: %s", e.Reason)
}

// StoreError wraps a persistence read or write failure.
type StoreError struct {
	Op    string
	Cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Cause)
}

func (e *StoreError) Unwrap() error { return e.Cause }
