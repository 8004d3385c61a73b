package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/quiz"
	"github.com/abhisek/studybuddy/internal/ui/components"
	"github.com/abhisek/studybuddy/internal/ui/layout"
	"github.com/abhisek/studybuddy/internal/ui/theme"
)

// TUIPrompter asks each question in a small inline Bubble Tea program.
// Esc or Ctrl+C aborts the quiz.
type TUIPrompter struct {
	in    io.Reader
	out   io.Writer
	title string
}

// NewTUIPrompter creates a prompter; title is shown in the header, e.g.
// "AWS S3 · medium".
func NewTUIPrompter(in io.Reader, out io.Writer, title string) *TUIPrompter {
	return &TUIPrompter{in: in, out: out, title: title}
}

func (p *TUIPrompter) Ask(ctx context.Context, turn Turn, q *quiz.Question) (string, error) {
	prog := tea.NewProgram(newAskModel(p.title, turn, q),
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)
	final, err := prog.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) || ctx.Err() != nil {
			return "", quiz.ErrUserAbort
		}
		return "", fmt.Errorf("run prompt: %w", err)
	}

	m, ok := final.(askModel)
	if !ok || m.aborted || !m.done {
		return "", quiz.ErrUserAbort
	}
	return m.answer(), nil
}

func (p *TUIPrompter) Feedback(_ context.Context, turn Turn, a quiz.AnsweredQuestion) error {
	_, err := lipgloss.Fprintln(p.out, renderFeedback(turn, a))
	return err
}

func renderFeedback(turn Turn, a quiz.AnsweredQuestion) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("Question %d/%d: %s", turn.Number, turn.Total, a.Prompt)))
	b.WriteString("\n")

	if a.IsMultipleChoice() {
		mc := components.NewMultiChoice(a.Choices)
		if idx, ok := quiz.ResolveChoice(a.UserAnswer, a.Choices); ok {
			mc.ChosenIndex = idx
		}
		b.WriteString(mc.Result(a.CorrectIndex))
	} else {
		b.WriteString(theme.Subtitle.Render("Your answer: " + a.UserAnswer))
		b.WriteString("\n")
	}

	if a.Correct {
		b.WriteString(theme.Correct.Render("✓ Correct!"))
	} else {
		b.WriteString(theme.Incorrect.Render("✗ Incorrect.") + " The correct answer is " + correctAnswerText(&a.Question))
	}
	if a.Explanation != "" {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Explanation: " + a.Explanation))
	}
	b.WriteString("\n")
	return b.String()
}

// askModel is the Bubble Tea model for one question.
type askModel struct {
	title string
	turn  Turn
	q     *quiz.Question
	width int

	mc    components.MultiChoice
	input components.TextInput

	done    bool
	aborted bool
}

func newAskModel(title string, turn Turn, q *quiz.Question) askModel {
	m := askModel{title: title, turn: turn, q: q, width: layout.DefaultWidth}
	if q.IsMultipleChoice() {
		m.mc = components.NewMultiChoice(q.Choices)
	} else {
		m.input = components.NewTextInput("Type your answer...", 200)
	}
	return m
}

func (m askModel) Init() tea.Cmd {
	if m.q.IsMultipleChoice() {
		return nil
	}
	return m.input.Init()
}

func (m askModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = layout.ClampWidth(msg.Width)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		}
	}

	if m.q.IsMultipleChoice() {
		m.mc, _ = m.mc.Update(msg)
		if m.mc.Submitted {
			m.done = true
			return m, tea.Quit
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Submitted() {
		m.done = true
		return m, tea.Quit
	}
	return m, cmd
}

// answer returns the option letter or the typed text.
func (m askModel) answer() string {
	if m.q.IsMultipleChoice() {
		return m.mc.Answer()
	}
	return m.input.Value()
}

func (m askModel) View() tea.View {
	return tea.NewView(m.render())
}

func (m askModel) render() string {
	// Cleared on exit; Feedback prints the answered question.
	if m.done || m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(layout.RenderHeader(m.title, m.width))
	b.WriteString("\n")
	b.WriteString(components.NewProgressBar("", m.turn.Number-1, m.turn.Total, m.width).View())
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Width(m.width).Render(
		fmt.Sprintf("Question %d/%d: %s", m.turn.Number, m.turn.Total, m.q.Prompt)))
	b.WriteString("\n\n")

	var hints []layout.KeyHint
	if m.q.IsMultipleChoice() {
		b.WriteString(m.mc.View())
		hints = []layout.KeyHint{
			{Key: "↑↓", Description: "Move"},
			{Key: "A-" + quiz.ChoiceLabel(len(m.q.Choices)-1), Description: "Answer"},
			{Key: "Enter", Description: "Select"},
			{Key: "Esc", Description: "Quit"},
		}
	} else {
		b.WriteString(m.input.View())
		b.WriteString("\n")
		hints = []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	b.WriteString("\n")
	b.WriteString(layout.RenderFooter(hints))
	return b.String()
}
