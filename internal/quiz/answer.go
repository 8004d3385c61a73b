package quiz

import (
	"strconv"
	"strings"
)

// CheckAnswer compares the user's input against the correct answer.
//
// Normalization rules:
// - Whitespace is trimmed and inner runs of whitespace are collapsed
// - Comparison is case-insensitive
// - For multiple choice: the input may be the option letter ("b"), its
//   1-based number ("2"), or the option text
// - For free response: exact match after normalization
func CheckAnswer(input string, q *Question) bool {
	input = normalize(input)
	if input == "" {
		return false
	}

	if q.IsMultipleChoice() {
		idx, ok := ResolveChoice(input, q.Choices)
		return ok && idx == q.CorrectIndex
	}

	return strings.EqualFold(input, normalize(q.Answer))
}

// ResolveChoice maps user input onto an option index. It accepts an option
// letter, a 1-based option number, or the text of an option.
func ResolveChoice(input string, choices []string) (int, bool) {
	input = normalize(input)
	if input == "" || len(choices) == 0 {
		return -1, false
	}

	// Letter: "B", "b", "B)", "B."
	letter := strings.TrimRight(input, ").:")
	if len(letter) == 1 {
		c := strings.ToUpper(letter)[0]
		if c >= 'A' && int(c-'A') < len(choices) {
			return int(c - 'A'), true
		}
	}

	// Number: 1..len(choices). Other numbers may still be option text,
	// as in ["5", "10", "15", "20"].
	if n, err := strconv.Atoi(letter); err == nil && n >= 1 && n <= len(choices) {
		return n - 1, true
	}

	// Text (case-insensitive).
	for i, c := range choices {
		if strings.EqualFold(input, normalize(c)) {
			return i, true
		}
	}
	return -1, false
}

// normalize trims s and collapses internal whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
