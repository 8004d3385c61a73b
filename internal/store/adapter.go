package store

import (
	"context"

	"github.com/abhisek/studybuddy/internal/logger"
	"github.com/abhisek/studybuddy/internal/quiz"
)

// Adapter is the quiz history API used by the CLI. It scopes every call
// to one user and reports every backend failure as *quiz.StoreError.
type Adapter struct {
	backend Backend
	userID  string
	log     *logger.Logger
}

func NewAdapter(backend Backend, userID string, log *logger.Logger) *Adapter {
	if log == nil {
		log = logger.Nop()
	}
	return &Adapter{backend: backend, userID: userID, log: log.With("component", "store", "user_id", userID)}
}

// Save persists a completed session. The session's UserID is set to the
// adapter's user when empty.
func (a *Adapter) Save(ctx context.Context, s *quiz.Session) error {
	if s.UserID == "" {
		s.UserID = a.userID
	}
	if err := a.backend.Put(ctx, s); err != nil {
		a.log.Error("save session", "session_id", s.ID, "error", err)
		return &quiz.StoreError{Op: "save", Cause: err}
	}
	a.log.Debug("session saved", "session_id", s.ID, "score", s.Score, "total", s.Total)
	return nil
}

// ListRecent returns up to limit sessions, most recent first. limit <= 0
// returns all.
func (a *Adapter) ListRecent(ctx context.Context, limit int) ([]quiz.Session, error) {
	sessions, err := a.backend.Recent(ctx, a.userID, limit)
	if err != nil {
		a.log.Error("list sessions", "error", err)
		return nil, &quiz.StoreError{Op: "list", Cause: err}
	}
	return sessions, nil
}

// Aggregate computes statistics over the sessions whose topic matches
// topic case-insensitively. An empty topic covers every session.
func (a *Adapter) Aggregate(ctx context.Context, topic string) (*Stats, error) {
	sessions, err := a.backend.Scan(ctx, a.userID)
	if err != nil {
		a.log.Error("scan sessions", "error", err)
		return nil, &quiz.StoreError{Op: "aggregate", Cause: err}
	}
	return Aggregate(sessions, topic), nil
}

func (a *Adapter) Close() error {
	return a.backend.Close()
}
