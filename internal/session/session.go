// Package session runs one interactive quiz: it requests questions,
// parses them, asks each one through a Prompter and scores the result.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/studybuddy/internal/logger"
	"github.com/abhisek/studybuddy/internal/questiongen"
	"github.com/abhisek/studybuddy/internal/quiz"
)

// DefaultQuestionCount is used when Params.Count is zero.
const DefaultQuestionCount = 5

// Params describes the quiz to run.
type Params struct {
	Topic      string
	General    bool
	Difficulty quiz.Difficulty
	Count      int
}

// Config holds the controller's collaborators. Only Generator and
// Prompter are required.
type Config struct {
	Generator questiongen.Generator
	Prompter  Prompter

	// Parser defaults to the standard validator chain.
	Parser *questiongen.Parser

	// UserID is stamped on the returned session.
	UserID string

	Logger *logger.Logger

	// Now and NewID are overridable for tests.
	Now   func() time.Time
	NewID func() string
}

// Controller drives a single quiz run. It is not safe for concurrent use.
type Controller struct {
	gen      questiongen.Generator
	prompter Prompter
	parser   *questiongen.Parser
	userID   string
	log      *logger.Logger
	now      func() time.Time
	newID    func() string

	state State
}

// New creates a Controller.
func New(cfg Config) *Controller {
	c := &Controller{
		gen:      cfg.Generator,
		prompter: cfg.Prompter,
		parser:   cfg.Parser,
		userID:   cfg.UserID,
		log:      cfg.Logger,
		now:      cfg.Now,
		newID:    cfg.NewID,
	}
	if c.parser == nil {
		c.parser = questiongen.NewParser(questiongen.DefaultConfig().Validators...)
	}
	if c.log == nil {
		c.log = logger.Nop()
	}
	c.log = c.log.With("component", "session")
	if c.now == nil {
		c.now = time.Now
	}
	if c.newID == nil {
		c.newID = func() string { return uuid.New().String() }
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

func (c *Controller) transition(to State, kv ...any) {
	from := c.state
	c.state = to
	c.log.Debug("session state", append([]any{"from", from.String(), "to", to.String()}, kv...)...)
}

// Run generates, asks and scores one quiz.
//
// It returns *quiz.GenerationError when the generation service fails,
// *quiz.ParseError when the response cannot be reduced to p.Count valid
// questions, and quiz.ErrUserAbort when the user quits or ctx is
// cancelled. Only a completed session is returned.
func (c *Controller) Run(ctx context.Context, p Params) (*quiz.Session, error) {
	req, err := buildRequest(p)
	if err != nil {
		return nil, err
	}

	started := c.now()
	c.transition(StateInit, "topic", req.TopicLabel(), "difficulty", string(req.Difficulty), "count", req.Count)

	raw, err := c.gen.Generate(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			c.transition(StateAborted, "reason", "cancelled during generation")
			return nil, quiz.ErrUserAbort
		}
		c.transition(StateFailed, "error", err)
		return nil, &quiz.GenerationError{Cause: err}
	}

	c.transition(StateParsing, "response_chars", len(raw))
	questions, err := c.parser.Parse(raw, req.Count)
	if err != nil {
		c.transition(StateFailed, "error", err)
		return nil, err
	}

	topic := req.TopicLabel()
	for i := range questions {
		questions[i].Topic = topic
		questions[i].Difficulty = req.Difficulty
	}

	c.transition(StateAsking)
	answered, err := c.ask(ctx, questions)
	if err != nil {
		if errors.Is(err, quiz.ErrUserAbort) {
			c.transition(StateAborted, "answered", len(answered))
			return nil, quiz.ErrUserAbort
		}
		c.transition(StateFailed, "error", err)
		return nil, err
	}

	c.transition(StateSummarizing)
	s := &quiz.Session{
		ID:          c.newID(),
		UserID:      c.userID,
		Topic:       topic,
		Difficulty:  req.Difficulty,
		Questions:   answered,
		StartedAt:   started,
		CompletedAt: c.now(),
		Total:       len(answered),
	}
	for _, a := range answered {
		if a.Correct {
			s.Score++
		}
	}
	c.log.Info("quiz completed", "session_id", s.ID, "score", s.Score, "total", s.Total)
	return s, nil
}

// ask presents questions in order. It returns the questions answered so
// far alongside any error.
func (c *Controller) ask(ctx context.Context, questions []quiz.Question) ([]quiz.AnsweredQuestion, error) {
	answered := make([]quiz.AnsweredQuestion, 0, len(questions))
	for i := range questions {
		q := &questions[i]
		turn := Turn{Number: i + 1, Total: len(questions)}

		input, err := c.prompter.Ask(ctx, turn, q)
		if err != nil {
			return answered, abortOr(ctx, err, "read answer")
		}

		a := quiz.AnsweredQuestion{
			Question:   *q,
			UserAnswer: strings.TrimSpace(input),
			Correct:    quiz.CheckAnswer(input, q),
		}
		answered = append(answered, a)
		c.log.Debug("answer recorded", "question", turn.Number, "correct", a.Correct)

		if err := c.prompter.Feedback(ctx, turn, a); err != nil {
			return answered, abortOr(ctx, err, "show feedback")
		}
	}
	return answered, nil
}

// abortOr maps prompter failures caused by cancellation to ErrUserAbort.
func abortOr(ctx context.Context, err error, op string) error {
	if errors.Is(err, quiz.ErrUserAbort) || ctx.Err() != nil {
		return quiz.ErrUserAbort
	}
	return fmt.Errorf("%s: %w", op, err)
}

func buildRequest(p Params) (questiongen.Request, error) {
	req := questiongen.Request{
		Topic:      strings.TrimSpace(p.Topic),
		General:    p.General,
		Difficulty: p.Difficulty,
		Count:      p.Count,
	}
	if req.Difficulty == "" {
		req.Difficulty = quiz.DefaultDifficulty
	}
	if !req.Difficulty.Valid() {
		return req, fmt.Errorf("invalid difficulty %q", req.Difficulty)
	}
	if req.Count == 0 {
		req.Count = DefaultQuestionCount
	}
	if req.Count < 0 {
		return req, fmt.Errorf("question count must be positive, got %d", req.Count)
	}
	if questiongen.IsGeneralTopic(req.Topic) {
		req.General = true
		req.Topic = ""
	}
	return req, nil
}
