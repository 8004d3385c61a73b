package questiongen

import (
	"context"
	"strings"

	"github.com/abhisek/studybuddy/internal/quiz"
)

// Request describes the questions to generate.
type Request struct {
	// Topic is the subject to quiz on. Ignored when General is set.
	Topic string

	// General asks for a mixed quiz across the whole knowledge base.
	General bool

	Difficulty quiz.Difficulty

	// Count is the number of questions requested.
	Count int
}

// generalKnowledge is the typed topic that asks for a general quiz.
const generalKnowledge = "general knowledge"

// IsGeneralTopic reports whether a typed topic asks for a general quiz:
// blank, or "general knowledge" in any case.
func IsGeneralTopic(topic string) bool {
	t := strings.Join(strings.Fields(topic), " ")
	return t == "" || strings.EqualFold(t, generalKnowledge)
}

// TopicLabel returns the topic recorded for this request: the topic itself,
// or quiz.GeneralTopic for general quizzes.
func (r Request) TopicLabel() string {
	if r.General || r.Topic == "" {
		return quiz.GeneralTopic
	}
	return r.Topic
}

// Generator asks an external service for quiz questions.
type Generator interface {
	// Generate returns the raw response text. The response is not
	// validated; callers pass it through Parse.
	Generate(ctx context.Context, req Request) (string, error)
}
