package session

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studybuddy/internal/quiz"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func update(t *testing.T, m askModel, msg tea.Msg) (askModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(askModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return am, cmd
}

func TestAskModel_LetterSelects(t *testing.T) {
	m := newAskModel("AWS · medium", Turn{Number: 1, Total: 5}, mcQuestion())

	m, cmd := update(t, m, keyPress('b'))
	if !m.done || cmd == nil {
		t.Fatal("letter key should submit and quit")
	}
	if m.answer() != "B" {
		t.Errorf("answer = %q, want B", m.answer())
	}
	if !quiz.CheckAnswer(m.answer(), mcQuestion()) {
		t.Error("answer should be correct")
	}
}

func TestAskModel_ArrowsAndEnter(t *testing.T) {
	m := newAskModel("", Turn{Number: 1, Total: 1}, mcQuestion())

	m, _ = update(t, m, specialKey(tea.KeyDown))
	m, _ = update(t, m, specialKey(tea.KeyDown))
	m, _ = update(t, m, specialKey(tea.KeyUp))
	if m.done {
		t.Fatal("navigation should not submit")
	}
	m, _ = update(t, m, specialKey(tea.KeyEnter))
	if m.answer() != "B" {
		t.Errorf("answer = %q, want B", m.answer())
	}
}

func TestAskModel_NumberSelects(t *testing.T) {
	m := newAskModel("", Turn{Number: 1, Total: 1}, mcQuestion())
	m, _ = update(t, m, keyPress('4'))
	if m.answer() != "D" {
		t.Errorf("answer = %q, want D", m.answer())
	}
}

func TestAskModel_InvalidKeyIgnored(t *testing.T) {
	m := newAskModel("", Turn{Number: 1, Total: 1}, mcQuestion())
	m, _ = update(t, m, keyPress('z'))
	m, _ = update(t, m, keyPress('9'))
	if m.done {
		t.Error("out-of-range keys should not submit")
	}
}

func TestAskModel_EscAborts(t *testing.T) {
	m := newAskModel("", Turn{Number: 1, Total: 1}, mcQuestion())
	m, cmd := update(t, m, specialKey(tea.KeyEscape))
	if !m.aborted || cmd == nil {
		t.Error("esc should abort and quit")
	}
	if m.render() != "" {
		t.Error("view should clear after abort")
	}
}

func TestAskModel_FreeResponse(t *testing.T) {
	m := newAskModel("", Turn{Number: 1, Total: 1}, freeQuestion())

	m, _ = update(t, m, specialKey(tea.KeyEnter))
	if m.done {
		t.Fatal("enter on empty input should not submit")
	}
	for _, r := range "IAM" {
		m, _ = update(t, m, keyPress(r))
	}
	m, _ = update(t, m, specialKey(tea.KeyEnter))
	if !m.done {
		t.Fatal("enter should submit typed answer")
	}
	if m.answer() != "IAM" {
		t.Errorf("answer = %q, want IAM", m.answer())
	}
}

func TestAskModel_View(t *testing.T) {
	m := newAskModel("AWS S3 · hard", Turn{Number: 2, Total: 5}, mcQuestion())
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	view := m.render()
	for _, want := range []string{"studybuddy", "AWS S3 · hard", "Question 2/5", "A)  EC2", "D)  IAM", "Esc"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestRenderFeedback(t *testing.T) {
	a := quiz.AnsweredQuestion{Question: *mcQuestion(), UserAnswer: "C"}
	got := renderFeedback(Turn{Number: 1, Total: 3}, a)
	for _, want := range []string{"Question 1/3", "C)  Lambda", "Incorrect.", "The correct answer is B. S3", "Explanation: S3 is object storage."} {
		if !strings.Contains(got, want) {
			t.Errorf("feedback missing %q:\n%s", want, got)
		}
	}

	a = quiz.AnsweredQuestion{Question: *freeQuestion(), UserAnswer: "identity and access management", Correct: true}
	got = renderFeedback(Turn{Number: 3, Total: 3}, a)
	if !strings.Contains(got, "Correct!") || !strings.Contains(got, "Your answer: identity and access management") {
		t.Errorf("unexpected feedback:\n%s", got)
	}
}
