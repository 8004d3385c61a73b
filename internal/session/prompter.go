package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/abhisek/studybuddy/internal/quiz"
)

// Turn identifies a question's position in the quiz.
type Turn struct {
	Number int // 1-based
	Total  int
}

// Prompter presents questions and collects answers.
type Prompter interface {
	// Ask shows q and returns the user's raw answer. For multiple choice
	// the answer must resolve to an option; implementations re-prompt
	// otherwise. It returns quiz.ErrUserAbort when the user quits.
	Ask(ctx context.Context, turn Turn, q *quiz.Question) (string, error)

	// Feedback tells the user whether a was correct.
	Feedback(ctx context.Context, turn Turn, a quiz.AnsweredQuestion) error
}

// isQuit reports whether input is a quit command.
func isQuit(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "q", "quit", ":q", "exit":
		return true
	}
	return false
}

// invalidAnswerHint explains accepted input for a multiple-choice question.
func invalidAnswerHint(q *quiz.Question) string {
	n := len(q.Choices)
	return fmt.Sprintf("Please answer with a letter (A-%s), a number (1-%d), or the option text.",
		quiz.ChoiceLabel(n-1), n)
}

// LinePrompter reads answers line by line, for pipes and dumb terminals.
type LinePrompter struct {
	out io.Writer
	in  io.Reader

	once  sync.Once
	lines chan string
}

// NewLinePrompter reads from in and writes to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: in, out: out}
}

// readLine blocks for the next line. The scanner runs on its own
// goroutine so cancellation does not wait for input.
func (p *LinePrompter) readLine(ctx context.Context) (string, error) {
	p.once.Do(func() {
		p.lines = make(chan string)
		go func() {
			defer close(p.lines)
			sc := bufio.NewScanner(p.in)
			for sc.Scan() {
				p.lines <- sc.Text()
			}
		}()
	})

	select {
	case <-ctx.Done():
		return "", quiz.ErrUserAbort
	case line, ok := <-p.lines:
		if !ok {
			return "", quiz.ErrUserAbort
		}
		return line, nil
	}
}

func (p *LinePrompter) Ask(ctx context.Context, turn Turn, q *quiz.Question) (string, error) {
	fmt.Fprintf(p.out, "\nQuestion %d/%d: %s\n", turn.Number, turn.Total, q.Prompt)
	for i, c := range q.Choices {
		fmt.Fprintf(p.out, "  %s. %s\n", quiz.ChoiceLabel(i), c)
	}

	for {
		fmt.Fprint(p.out, "Your answer: ")
		line, err := p.readLine(ctx)
		if err != nil {
			fmt.Fprintln(p.out)
			return "", err
		}
		line = strings.TrimSpace(line)

		switch {
		case isQuit(line):
			return "", quiz.ErrUserAbort
		case line == "":
			fmt.Fprintln(p.out, "Please enter an answer, or q to quit.")
		case q.IsMultipleChoice():
			if _, ok := quiz.ResolveChoice(line, q.Choices); ok {
				return line, nil
			}
			fmt.Fprintln(p.out, invalidAnswerHint(q))
		default:
			return line, nil
		}
	}
}

func (p *LinePrompter) Feedback(_ context.Context, _ Turn, a quiz.AnsweredQuestion) error {
	if a.Correct {
		fmt.Fprintln(p.out, "Correct!")
	} else {
		fmt.Fprintf(p.out, "Incorrect. The correct answer is %s\n", correctAnswerText(&a.Question))
	}
	if a.Explanation != "" {
		fmt.Fprintf(p.out, "Explanation: %s\n", a.Explanation)
	}
	return nil
}

// correctAnswerText is "B. Amazon S3" for multiple choice, else the answer.
func correctAnswerText(q *quiz.Question) string {
	if q.IsMultipleChoice() {
		return fmt.Sprintf("%s. %s", q.CorrectLabel(), q.Answer)
	}
	return q.Answer
}
