package layout

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/ui/theme"
)

// DefaultWidth is used until the terminal reports its size.
const DefaultWidth = 72

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// RenderHeader renders the app name on the left and title on the right,
// spread across width.
func RenderHeader(title string, width int) string {
	left := theme.Title.Render("studybuddy")
	right := theme.Subtitle.Render(title)

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// RenderFooter renders key hints on one line.
func RenderFooter(hints []KeyHint) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		part := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) +
			" " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
		parts = append(parts, part)
	}
	return strings.Join(parts, "   ")
}

// ClampWidth keeps a reported terminal width within a readable range.
func ClampWidth(width int) int {
	switch {
	case width <= 0:
		return DefaultWidth
	case width > 100:
		return 100
	case width < 40:
		return 40
	}
	return width
}
