package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/quiz"
	"github.com/abhisek/studybuddy/internal/ui/theme"
)

// MultiChoice is a multiple-choice selector. Options are chosen with the
// arrow keys and Enter, or directly by letter or number.
type MultiChoice struct {
	Options     []string
	Selected    int
	Submitted   bool
	ChosenIndex int
}

// NewMultiChoice creates a selector over options.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{
		Options:     options,
		ChosenIndex: -1,
	}
}

// Update handles keyboard navigation and selection.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
		return m, nil
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
		return m, nil
	case "enter":
		m.submit(m.Selected)
		return m, nil
	}

	// Letters and numbers pick an option directly. "j" and "k" are
	// navigation, so options J and K can only be reached with arrows.
	if len(key) == 1 {
		if idx, ok := quiz.ResolveChoice(key, m.Options); ok {
			m.Selected = idx
			m.submit(idx)
		}
	}
	return m, nil
}

func (m *MultiChoice) submit(idx int) {
	m.Submitted = true
	m.ChosenIndex = idx
}

// View renders the options, highlighting the cursor.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		style := theme.Unselected
		if i == m.Selected {
			prefix = "▸ "
			style = theme.Selected
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%s)  %s", prefix, quiz.ChoiceLabel(i), opt)))
		b.WriteString("\n")
	}
	return b.String()
}

// Result renders the options after answering: the correct option in
// green and a wrong pick in red.
func (m MultiChoice) Result(correctIndex int) string {
	var b strings.Builder
	for i, opt := range m.Options {
		line := fmt.Sprintf("  %s)  %s", quiz.ChoiceLabel(i), opt)
		switch {
		case i == correctIndex:
			line = theme.Correct.Render(line)
		case i == m.ChosenIndex:
			line = theme.Incorrect.Render(line)
		default:
			line = lipgloss.NewStyle().Foreground(theme.TextDim).Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// Answer returns the chosen option letter, or "" before submission.
func (m MultiChoice) Answer() string {
	if !m.Submitted || m.ChosenIndex < 0 {
		return ""
	}
	return quiz.ChoiceLabel(m.ChosenIndex)
}
