package quiz

import (
	"fmt"
	"strings"
	"time"
)

// GeneralTopic is the topic recorded for quizzes that span the whole
// knowledge base rather than one subject.
const GeneralTopic = "general"

// Difficulty is the requested difficulty level of a quiz.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DefaultDifficulty is used when no difficulty is requested.
const DefaultDifficulty = DifficultyMedium

// Difficulties lists the valid levels in ascending order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty parses a difficulty name, ignoring case and surrounding
// whitespace.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if d.Valid() {
		return d, nil
	}
	return "", fmt.Errorf("invalid difficulty %q (want easy, medium or hard)", s)
}

// Valid reports whether d is one of the known levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Question is a single validated quiz question.
type Question struct {
	// Prompt is the question text shown to the user.
	Prompt string

	// Choices holds the options of a multiple-choice question in display
	// order. Nil for free-response questions.
	Choices []string

	// CorrectIndex is the index into Choices of the correct option, or -1
	// for free-response questions.
	CorrectIndex int

	// Answer is the canonical correct answer text. For multiple choice it
	// equals Choices[CorrectIndex].
	Answer string

	// Explanation is shown after the user answers. May be empty.
	Explanation string

	Difficulty Difficulty
	Topic      string
}

// IsMultipleChoice reports whether the question has options.
func (q *Question) IsMultipleChoice() bool {
	return len(q.Choices) > 0
}

// CorrectLabel returns the option letter of the correct answer ("B"), or
// the answer text for free-response questions.
func (q *Question) CorrectLabel() string {
	if q.IsMultipleChoice() && q.CorrectIndex >= 0 && q.CorrectIndex < len(q.Choices) {
		return ChoiceLabel(q.CorrectIndex)
	}
	return q.Answer
}

// Validate checks the record invariants: a non-empty prompt and a correct
// answer that references a valid choice when choices are present.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("empty prompt")
	}
	if q.IsMultipleChoice() {
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Choices) {
			return fmt.Errorf("correct index %d out of range for %d choices", q.CorrectIndex, len(q.Choices))
		}
		return nil
	}
	if q.CorrectIndex != -1 {
		return fmt.Errorf("free-response question has correct index %d", q.CorrectIndex)
	}
	if strings.TrimSpace(q.Answer) == "" {
		return fmt.Errorf("free-response question has no answer")
	}
	return nil
}

// ChoiceLabel returns the letter for the option at index i (0 -> "A").
func ChoiceLabel(i int) string {
	return string(rune('A' + i))
}

// AnsweredQuestion is a Question together with the user's response.
type AnsweredQuestion struct {
	Question
	UserAnswer string
	Correct    bool
}

// Session is the result of one completed quiz run.
type Session struct {
	ID          string
	UserID      string
	Topic       string
	Difficulty  Difficulty
	Questions   []AnsweredQuestion
	StartedAt   time.Time
	CompletedAt time.Time
	Score       int
	Total       int
}

// Ratio returns Score/Total, or 0 for an empty session.
func (s *Session) Ratio() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Score) / float64(s.Total)
}

// Percent returns the score as a percentage.
func (s *Session) Percent() float64 {
	return s.Ratio() * 100
}
