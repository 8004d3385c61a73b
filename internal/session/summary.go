package session

import (
	"fmt"
	"strings"

	"github.com/abhisek/studybuddy/internal/quiz"
	"github.com/abhisek/studybuddy/internal/ui/theme"
)

// RenderSummary renders the final score and a per-question recap.
func RenderSummary(s *quiz.Session) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("Quiz complete!"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%s · %s", s.Topic, s.Difficulty)))
	b.WriteString("\n\n")

	score := fmt.Sprintf("Your score: %d/%d (%.1f%%)", s.Score, s.Total, s.Percent())
	b.WriteString(theme.ScoreStyle(s.Percent()).Render(score))
	b.WriteString("\n\n")

	for i, a := range s.Questions {
		mark := theme.Correct.Render("✓")
		if !a.Correct {
			mark = theme.Incorrect.Render("✗")
		}
		b.WriteString(fmt.Sprintf("%s %d. %s\n", mark, i+1, a.Prompt))
	}

	return theme.Card.Render(strings.TrimRight(b.String(), "\n"))
}

// RenderPlainSummary renders the summary without styling.
func RenderPlainSummary(s *quiz.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\nQuiz complete! Your score: %d/%d (%.1f%%)\n", s.Score, s.Total, s.Percent())
	for i, a := range s.Questions {
		mark := "correct"
		if !a.Correct {
			mark = "incorrect"
		}
		fmt.Fprintf(&b, "  %d. [%s] %s\n", i+1, mark, a.Prompt)
	}
	return b.String()
}

