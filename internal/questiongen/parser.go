package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/studybuddy/internal/quiz"
)

// Parser turns a raw generation response into validated questions.
type Parser struct {
	validators []Validator
}

// NewParser creates a Parser running the given validators in order.
func NewParser(validators ...Validator) *Parser {
	return &Parser{validators: validators}
}

// defaultParser uses the validators of DefaultConfig.
var defaultParser = NewParser(DefaultConfig().Validators...)

// Parse converts raw into exactly expected questions using the default
// validator chain. See Parser.Parse.
func Parse(raw string, expected int) ([]quiz.Question, error) {
	return defaultParser.Parse(raw, expected)
}

// candidate is a question as extracted from the response, before the
// correct answer is resolved and validators run.
type candidate struct {
	prompt      string
	choices     []string
	answer      string
	explanation string
}

// Parse converts raw into exactly expected questions. The response may be
// JSON (an array or {"questions": [...]}, optionally fenced) or numbered
// text with lettered options and an "Answer:" line.
//
// Malformed entries are dropped. If fewer than expected questions remain,
// Parse fails with *quiz.ParseError and returns no questions. Extra
// questions beyond expected are discarded.
func (p *Parser) Parse(raw string, expected int) ([]quiz.Question, error) {
	if expected <= 0 {
		return nil, &quiz.ParseError{Reason: fmt.Sprintf("invalid question count %d", expected)}
	}
	if strings.TrimSpace(raw) == "" {
		return nil, &quiz.ParseError{Reason: "empty response", Expected: expected}
	}

	cands, ok := decodeJSON(raw)
	if !ok {
		cands = scanText(raw)
	}

	var out []quiz.Question
	var firstDrop string
	for i, c := range cands {
		q, err := c.resolve()
		if err == nil {
			if verr := p.validate(&q); verr != nil {
				err = verr
			}
		}
		if err != nil {
			if firstDrop == "" {
				firstDrop = fmt.Sprintf("question %d: %v", i+1, err)
			}
			continue
		}
		out = append(out, q)
	}

	if len(out) < expected {
		reason := "too few well-formed questions"
		if firstDrop != "" {
			reason += "; " + firstDrop
		}
		return nil, &quiz.ParseError{Reason: reason, Found: len(out), Expected: expected}
	}
	return out[:expected], nil
}

func (p *Parser) validate(q *quiz.Question) *ValidationError {
	for _, v := range p.validators {
		if verr := v.Validate(q); verr != nil {
			return verr
		}
	}
	return nil
}

// resolve builds a Question, locating the correct option for
// multiple-choice candidates.
func (c candidate) resolve() (quiz.Question, error) {
	q := quiz.Question{
		Prompt:       cleanText(c.prompt),
		Explanation:  cleanText(c.explanation),
		CorrectIndex: -1,
	}
	answer := cleanText(c.answer)
	if answer == "" {
		return q, fmt.Errorf("no answer")
	}

	if len(c.choices) == 0 {
		q.Answer = answer
		return q, nil
	}

	q.Choices = make([]string, len(c.choices))
	for i, ch := range c.choices {
		q.Choices[i] = cleanText(ch)
	}
	idx, ok := resolveAnswer(answer, q.Choices)
	if !ok {
		return q, fmt.Errorf("answer %q does not identify a choice", answer)
	}
	q.CorrectIndex = idx
	q.Answer = q.Choices[idx]
	return q, nil
}

// resolveAnswer accepts "B", "b)", "(B)", "Option B", "B. S3", "2", or
// the option text itself.
func resolveAnswer(answer string, choices []string) (int, bool) {
	if idx, ok := quiz.ResolveChoice(answer, choices); ok {
		return idx, true
	}

	lower := strings.ToLower(answer)
	for _, prefix := range []string{"option ", "choice "} {
		if strings.HasPrefix(lower, prefix) {
			answer = strings.TrimSpace(answer[len(prefix):])
			break
		}
	}

	fields := strings.Fields(answer)
	if len(fields) == 0 {
		return -1, false
	}
	tok := strings.Trim(fields[0], "()[].:,*")
	if len(tok) == 1 {
		if idx, ok := quiz.ResolveChoice(tok, choices); ok {
			return idx, true
		}
	}
	return quiz.ResolveChoice(strings.Trim(answer, "."), choices)
}

// cleanText strips markdown emphasis and collapses whitespace.
func cleanText(s string) string {
	s = strings.NewReplacer("**", "", "__", "", "`", "").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
