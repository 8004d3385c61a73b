package questiongen

import (
	"strings"
	"testing"

	"github.com/abhisek/studybuddy/internal/quiz"
)

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Validator: "choices", Message: "duplicate choice"}
	expected := `validator "choices": duplicate choice`
	if err.Error() != expected {
		t.Errorf("got %q, want %q", err.Error(), expected)
	}
}

func TestDefaultConfig_ValidatorChain(t *testing.T) {
	cfg := DefaultConfig()
	names := []string{"structural", "choices"}
	if len(cfg.Validators) != len(names) {
		t.Fatalf("expected %d validators, got %d", len(names), len(cfg.Validators))
	}
	for i, v := range cfg.Validators {
		if v.Name() != names[i] {
			t.Errorf("validator %d: expected %q, got %q", i, names[i], v.Name())
		}
	}
	if cfg.RetrievalResults != 5 {
		t.Errorf("expected RetrievalResults 5, got %d", cfg.RetrievalResults)
	}
}

func TestStructuralValidator(t *testing.T) {
	v := &StructuralValidator{}
	tests := []struct {
		name string
		q    quiz.Question
		ok   bool
	}{
		{"valid", quiz.Question{Prompt: "p", Choices: []string{"a", "b"}, CorrectIndex: 0, Answer: "a"}, true},
		{"empty prompt", quiz.Question{Prompt: "", Choices: []string{"a"}, CorrectIndex: 0}, false},
		{"free response", quiz.Question{Prompt: "p", CorrectIndex: -1, Answer: "x"}, true},
		{"long explanation", quiz.Question{Prompt: "p", CorrectIndex: -1, Answer: "x", Explanation: strings.Repeat("e", 2001)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.q)
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestChoicesValidator(t *testing.T) {
	v := &ChoicesValidator{MinChoices: 2, MaxChoices: 4}
	tests := []struct {
		name string
		q    quiz.Question
		want string
	}{
		{"valid", quiz.Question{Choices: []string{"a", "b"}, CorrectIndex: 1, Answer: "b"}, ""},
		{"free response skipped", quiz.Question{CorrectIndex: -1, Answer: "x"}, ""},
		{"too few", quiz.Question{Choices: []string{"a"}, CorrectIndex: 0, Answer: "a"}, "at least 2"},
		{"too many", quiz.Question{Choices: []string{"a", "b", "c", "d", "e"}, CorrectIndex: 0, Answer: "a"}, "at most 4"},
		{"empty choice", quiz.Question{Choices: []string{"a", " "}, CorrectIndex: 0, Answer: "a"}, "choice B is empty"},
		{"duplicate", quiz.Question{Choices: []string{"a", "A "}, CorrectIndex: 0, Answer: "a"}, "duplicate"},
		{"index out of range", quiz.Question{Choices: []string{"a", "b"}, CorrectIndex: 2, Answer: "b"}, "out of range"},
		{"answer mismatch", quiz.Question{Choices: []string{"a", "b"}, CorrectIndex: 0, Answer: "b"}, "does not match choice A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.q)
			if tt.want == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !strings.Contains(err.Message, tt.want) {
				t.Errorf("got %q, want it to contain %q", err.Message, tt.want)
			}
		})
	}
}
