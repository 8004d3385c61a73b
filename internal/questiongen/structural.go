package questiongen

import "github.com/abhisek/studybuddy/internal/quiz"

const (
	maxPromptLen      = 1000
	maxExplanationLen = 2000
)

// StructuralValidator checks the record invariants and length limits.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *quiz.Question) *ValidationError {
	if err := q.Validate(); err != nil {
		return &ValidationError{Validator: v.Name(), Message: err.Error()}
	}
	if len(q.Prompt) > maxPromptLen {
		return &ValidationError{Validator: v.Name(), Message: "prompt exceeds 1000 characters"}
	}
	if len(q.Explanation) > maxExplanationLen {
		return &ValidationError{Validator: v.Name(), Message: "explanation exceeds 2000 characters"}
	}
	return nil
}
