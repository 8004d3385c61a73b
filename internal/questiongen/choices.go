package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/studybuddy/internal/quiz"
)

// ChoicesValidator checks multiple-choice options: count within bounds,
// non-empty, distinct, and an answer that matches the indexed choice.
// Free-response questions pass unchecked.
type ChoicesValidator struct {
	MinChoices int
	MaxChoices int
}

func (v *ChoicesValidator) Name() string { return "choices" }

func (v *ChoicesValidator) Validate(q *quiz.Question) *ValidationError {
	if !q.IsMultipleChoice() {
		return nil
	}

	n := len(q.Choices)
	if q.CorrectIndex < 0 || q.CorrectIndex >= n {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("correct index %d out of range", q.CorrectIndex),
		}
	}
	if v.MinChoices > 0 && n < v.MinChoices {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("need at least %d choices, got %d", v.MinChoices, n),
		}
	}
	if v.MaxChoices > 0 && n > v.MaxChoices {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("at most %d choices allowed, got %d", v.MaxChoices, n),
		}
	}

	seen := make(map[string]bool, n)
	for i, c := range q.Choices {
		c = strings.TrimSpace(c)
		if c == "" {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("choice %s is empty", quiz.ChoiceLabel(i)),
			}
		}
		key := strings.ToLower(c)
		if seen[key] {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("duplicate choice %q", c),
			}
		}
		seen[key] = true
	}

	if q.Answer != q.Choices[q.CorrectIndex] {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("answer %q does not match choice %s", q.Answer, quiz.ChoiceLabel(q.CorrectIndex)),
		}
	}
	return nil
}
