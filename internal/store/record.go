package store

import (
	"time"

	"github.com/abhisek/studybuddy/internal/quiz"
)

// sessionRecord is the serialized form of a quiz.Session shared by the
// redis (JSON) and dynamodb (attribute value) backends. The sqlite backend
// stores the questions column with the same JSON encoding.
type sessionRecord struct {
	UserID      string           `json:"user_id" dynamodbav:"user_id"`
	Timestamp   string           `json:"timestamp" dynamodbav:"timestamp"`
	ID          string           `json:"session_id" dynamodbav:"session_id"`
	Topic       string           `json:"topic" dynamodbav:"topic"`
	Difficulty  string           `json:"difficulty" dynamodbav:"difficulty"`
	Score       int              `json:"score" dynamodbav:"score"`
	Total       int              `json:"total_questions" dynamodbav:"total_questions"`
	Percentage  float64          `json:"percentage" dynamodbav:"percentage"`
	CompletedAt string           `json:"completed_at" dynamodbav:"completed_at"`
	Questions   []questionRecord `json:"questions" dynamodbav:"questions"`
}

type questionRecord struct {
	Prompt       string   `json:"question" dynamodbav:"question"`
	Choices      []string `json:"choices,omitempty" dynamodbav:"choices,omitempty"`
	CorrectIndex int      `json:"correct_index" dynamodbav:"correct_index"`
	Answer       string   `json:"correct_answer" dynamodbav:"correct_answer"`
	Explanation  string   `json:"explanation,omitempty" dynamodbav:"explanation,omitempty"`
	UserAnswer   string   `json:"user_answer" dynamodbav:"user_answer"`
	Correct      bool     `json:"is_correct" dynamodbav:"is_correct"`
}

// timestampLayout sorts lexically in time order, which the dynamodb range
// key relies on.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

func toRecord(s *quiz.Session) sessionRecord {
	rec := sessionRecord{
		UserID:      s.UserID,
		Timestamp:   formatTime(s.StartedAt),
		ID:          s.ID,
		Topic:       s.Topic,
		Difficulty:  string(s.Difficulty),
		Score:       s.Score,
		Total:       s.Total,
		Percentage:  s.Percent(),
		CompletedAt: formatTime(s.CompletedAt),
		Questions:   toQuestionRecords(s.Questions),
	}
	return rec
}

func toQuestionRecords(qs []quiz.AnsweredQuestion) []questionRecord {
	out := make([]questionRecord, len(qs))
	for i, q := range qs {
		out[i] = questionRecord{
			Prompt:       q.Prompt,
			Choices:      q.Choices,
			CorrectIndex: q.CorrectIndex,
			Answer:       q.Answer,
			Explanation:  q.Explanation,
			UserAnswer:   q.UserAnswer,
			Correct:      q.Correct,
		}
	}
	return out
}

func (r sessionRecord) session() quiz.Session {
	return quiz.Session{
		ID:          r.ID,
		UserID:      r.UserID,
		Topic:       r.Topic,
		Difficulty:  quiz.Difficulty(r.Difficulty),
		Questions:   fromQuestionRecords(r.Questions, r.Topic, quiz.Difficulty(r.Difficulty)),
		StartedAt:   parseTime(r.Timestamp),
		CompletedAt: parseTime(r.CompletedAt),
		Score:       r.Score,
		Total:       r.Total,
	}
}

func fromQuestionRecords(qs []questionRecord, topic string, d quiz.Difficulty) []quiz.AnsweredQuestion {
	out := make([]quiz.AnsweredQuestion, len(qs))
	for i, q := range qs {
		out[i] = quiz.AnsweredQuestion{
			Question: quiz.Question{
				Prompt:       q.Prompt,
				Choices:      q.Choices,
				CorrectIndex: q.CorrectIndex,
				Answer:       q.Answer,
				Explanation:  q.Explanation,
				Difficulty:   d,
				Topic:        topic,
			},
			UserAnswer: q.UserAnswer,
			Correct:    q.Correct,
		}
	}
	return out
}
