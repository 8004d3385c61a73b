package cmd

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/studybuddy/internal/quiz"
	"github.com/abhisek/studybuddy/internal/store"
	"github.com/abhisek/studybuddy/internal/ui/theme"
)

var (
	infoStyle    = lipgloss.NewStyle().Foreground(theme.Secondary)
	headingStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	warnStyle    = lipgloss.NewStyle().Foreground(theme.Warning)
	ruleStyle    = lipgloss.NewStyle().Foreground(theme.Border)
)

// printStyled writes s, downsampling colours to what w supports.
func printStyled(w io.Writer, s string) {
	lipgloss.Fprintln(w, s)
}

// renderHistory prints the most recent sessions, newest first. Scores are
// coloured by percentage.
func renderHistory(w io.Writer, sessions []quiz.Session) {
	if len(sessions) == 0 {
		printStyled(w, warnStyle.Render("No quiz history found."))
		return
	}

	printStyled(w, headingStyle.Render(fmt.Sprintf("===== QUIZ HISTORY (Last %d) =====", len(sessions))))
	printStyled(w, theme.Label.Render(fmt.Sprintf("%-17s  %-28s  %-14s  %s", "Date", "Topic", "Score", "Difficulty")))
	printStyled(w, ruleStyle.Render(strings.Repeat("-", 72)))

	for i := range sessions {
		s := &sessions[i]
		score := fmt.Sprintf("%-14s", fmt.Sprintf("%.1f%% (%d/%d)", s.Percent(), s.Score, s.Total))
		printStyled(w, fmt.Sprintf("%-17s  %s  %s  %s",
			s.StartedAt.Local().Format("2006-01-02 15:04"),
			fit(s.Topic, 28),
			theme.ScoreStyle(s.Percent()).Render(score),
			s.Difficulty,
		))
	}
}

// renderStats prints aggregate statistics for one topic or all topics.
func renderStats(w io.Writer, st *store.Stats) {
	label := "ALL TOPICS"
	if st.Topic != "" {
		label = strings.ToUpper(st.Topic)
	}
	printStyled(w, headingStyle.Render(fmt.Sprintf("===== TOPIC STATISTICS: %s =====", label)))

	if st.Count == 0 {
		printStyled(w, warnStyle.Render("No quiz attempts found for this topic."))
		return
	}

	avg := st.AverageScoreRatio * 100
	printStyled(w, infoStyle.Render(fmt.Sprintf("Attempts: %d", st.Count)))
	printStyled(w, theme.ScoreStyle(avg).Render(fmt.Sprintf("Average Score: %.1f%%", avg)))
	printStyled(w, theme.Correct.Render(fmt.Sprintf("Highest Score: %.1f%%", st.HighestRatio*100)))
	printStyled(w, theme.Incorrect.Render(fmt.Sprintf("Lowest Score: %.1f%%", st.LowestRatio*100)))
	printStyled(w, infoStyle.Render(fmt.Sprintf("Total Questions Answered: %d", st.TotalQuestions)))

	if len(st.ByDifficulty) > 0 {
		printStyled(w, "")
		printStyled(w, theme.Label.Render("By difficulty:"))
		for _, d := range quiz.Difficulties {
			ds, ok := st.ByDifficulty[d]
			if !ok {
				continue
			}
			pct := ds.AverageScoreRatio * 100
			printStyled(w, fmt.Sprintf("  %-8s %3d quizzes  %s", d, ds.Count,
				theme.ScoreStyle(pct).Render(fmt.Sprintf("%.1f%%", pct))))
		}
	}

	if len(st.Trend) > 0 {
		printStyled(w, "")
		printStyled(w, theme.Label.Render("Daily trend:"))
		for _, p := range st.Trend {
			pct := p.AverageScoreRatio * 100
			printStyled(w, fmt.Sprintf("  %s %3d quizzes  %s", p.Day.Format("2006-01-02"), p.Count,
				theme.ScoreStyle(pct).Render(fmt.Sprintf("%.1f%%", pct))))
		}
	}
}

// truncate cuts s to at most max cells of display width without
// splitting a rune.
func truncate(s string, max int) string {
	return ansi.Truncate(s, max, "")
}

// fit truncates s to width cells and pads it with spaces to exactly width.
func fit(s string, width int) string {
	s = truncate(s, width)
	if pad := width - lipgloss.Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
