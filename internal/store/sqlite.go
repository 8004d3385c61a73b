package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/abhisek/studybuddy/internal/quiz"
)

type sqliteBackend struct {
	db  *sqlx.DB
	seq *sequenceCounter
}

type sessionRow struct {
	ID          string `db:"id"`
	Sequence    int64  `db:"sequence"`
	UserID      string `db:"user_id"`
	Topic       string `db:"topic"`
	Difficulty  string `db:"difficulty"`
	Score       int    `db:"score"`
	Total       int    `db:"total"`
	StartedAt   int64  `db:"started_at"`
	CompletedAt int64  `db:"completed_at"`
	Questions   string `db:"questions"`
}

func (b *sqliteBackend) Put(ctx context.Context, s *quiz.Session) error {
	qs, err := json.Marshal(toQuestionRecords(s.Questions))
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	seq, err := b.seq.Next(ctx)
	if err != nil {
		return err
	}

	row := sessionRow{
		ID:          s.ID,
		Sequence:    seq,
		UserID:      s.UserID,
		Topic:       s.Topic,
		Difficulty:  string(s.Difficulty),
		Score:       s.Score,
		Total:       s.Total,
		StartedAt:   s.StartedAt.UnixNano(),
		CompletedAt: s.CompletedAt.UnixNano(),
		Questions:   string(qs),
	}
	_, err = b.db.NamedExecContext(ctx, `INSERT OR REPLACE INTO quiz_sessions
		(id, sequence, user_id, topic, difficulty, score, total, started_at, completed_at, questions)
		VALUES (:id, :sequence, :user_id, :topic, :difficulty, :score, :total, :started_at, :completed_at, :questions)`,
		row)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (b *sqliteBackend) Recent(ctx context.Context, userID string, limit int) ([]quiz.Session, error) {
	query := `SELECT * FROM quiz_sessions WHERE user_id = ? ORDER BY started_at DESC, sequence DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return b.query(ctx, query, args...)
}

func (b *sqliteBackend) Scan(ctx context.Context, userID string) ([]quiz.Session, error) {
	return b.query(ctx, `SELECT * FROM quiz_sessions WHERE user_id = ?`, userID)
}

// Close is a no-op; the handle belongs to DB.
func (b *sqliteBackend) Close() error { return nil }

func (b *sqliteBackend) query(ctx context.Context, query string, args ...any) ([]quiz.Session, error) {
	var rows []sessionRow
	if err := b.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select sessions: %w", err)
	}
	out := make([]quiz.Session, 0, len(rows))
	for _, r := range rows {
		var qs []questionRecord
		if err := json.Unmarshal([]byte(r.Questions), &qs); err != nil {
			return nil, fmt.Errorf("decode session %s: %w", r.ID, err)
		}
		d := quiz.Difficulty(r.Difficulty)
		out = append(out, quiz.Session{
			ID:          r.ID,
			UserID:      r.UserID,
			Topic:       r.Topic,
			Difficulty:  d,
			Questions:   fromQuestionRecords(qs, r.Topic, d),
			StartedAt:   time.Unix(0, r.StartedAt).UTC(),
			CompletedAt: time.Unix(0, r.CompletedAt).UTC(),
			Score:       r.Score,
			Total:       r.Total,
		})
	}
	return out, nil
}
