package questiongen

import (
	"fmt"

	"github.com/abhisek/studybuddy/internal/quiz"
)

// Validator checks a parsed question for correctness.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier used in error messages, e.g.
	// "structural" or "choices".
	Name() string

	// Validate returns nil if the question passes.
	Validate(q *quiz.Question) *ValidationError
}

// ValidationError describes why a question failed validation.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
