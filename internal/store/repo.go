package store

import (
	"context"
	"time"

	"github.com/abhisek/studybuddy/internal/quiz"
)

// Backend persists completed quiz sessions for one or more users.
// Implementations do not retry; the adapter wraps every failure in a
// quiz.StoreError.
type Backend interface {
	// Put writes a session. Writing the same session id twice overwrites.
	Put(ctx context.Context, s *quiz.Session) error

	// Recent returns the user's sessions most recent first. limit <= 0
	// returns all of them.
	Recent(ctx context.Context, userID string, limit int) ([]quiz.Session, error)

	// Scan returns every session of the user in no particular order.
	Scan(ctx context.Context, userID string) ([]quiz.Session, error)

	Close() error
}

// QueryOpts filters request-log queries.
type QueryOpts struct {
	Limit   int    // 0 = unlimited
	Purpose string // empty = any
	After   int64  // sequence > After
	From    time.Time
	To      time.Time
}

// LLMRequestEventData is one model call as captured by the llm package.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLMRequestEventData.
type LLMRequestEvent struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates calls per purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates calls per model id.
type ModelUsage struct {
	Model        string `db:"model"`
	Calls        int    `db:"calls"`
	InputTokens  int    `db:"input_tokens"`
	OutputTokens int    `db:"output_tokens"`
}

// EventRepo is the local request log of model calls.
type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns nil, nil when id does not exist.
	GetLLMEvent(ctx context.Context, id int64) (*LLMRequestEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
