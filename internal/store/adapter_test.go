package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studybuddy/internal/quiz"
)

type failingBackend struct{ err error }

func (f failingBackend) Put(context.Context, *quiz.Session) error { return f.err }
func (f failingBackend) Recent(context.Context, string, int) ([]quiz.Session, error) {
	return nil, f.err
}
func (f failingBackend) Scan(context.Context, string) ([]quiz.Session, error) { return nil, f.err }
func (f failingBackend) Close() error                                         { return nil }

func TestAdapterSaveAndListRecent(t *testing.T) {
	a := NewAdapter(openTestDB(t).Sessions(), "me", nil)
	ctx := context.Background()

	s := sampleSession("s1", "", "S3", quiz.DifficultyMedium, 3, 5, time.Now())
	require.NoError(t, a.Save(ctx, s))
	assert.Equal(t, "me", s.UserID)

	got, err := a.ListRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "S3", got[0].Topic)
	assert.Equal(t, quiz.DifficultyMedium, got[0].Difficulty)
	assert.Equal(t, 3, got[0].Score)
	assert.Equal(t, 5, got[0].Total)
	assert.Len(t, got[0].Questions, 5)
}

func TestAdapterWrapsFailures(t *testing.T) {
	boom := errors.New("connection refused")
	a := NewAdapter(failingBackend{err: boom}, "me", nil)
	ctx := context.Background()

	tests := []struct {
		op  string
		run func() error
	}{
		{"save", func() error { return a.Save(ctx, &quiz.Session{ID: "x"}) }},
		{"list", func() error { _, err := a.ListRecent(ctx, 5); return err }},
		{"aggregate", func() error { _, err := a.Aggregate(ctx, ""); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			err := tt.run()
			var storeErr *quiz.StoreError
			require.ErrorAs(t, err, &storeErr)
			assert.Equal(t, tt.op, storeErr.Op)
			assert.ErrorIs(t, err, boom)
		})
	}
}

func TestAdapterAggregateByTopic(t *testing.T) {
	a := NewAdapter(openTestDB(t).Sessions(), "me", nil)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, s := range []*quiz.Session{
		sampleSession("1", "me", "VPC", quiz.DifficultyEasy, 3, 4, base),
		sampleSession("2", "me", "vpc", quiz.DifficultyMedium, 1, 2, base.Add(time.Hour)),
		sampleSession("3", "me", "vpc", quiz.DifficultyMedium, 5, 5, base.Add(24*time.Hour)),
		sampleSession("4", "me", "IAM", quiz.DifficultyHard, 0, 5, base),
	} {
		require.NoError(t, a.Save(ctx, s))
	}

	st, err := a.Aggregate(ctx, "Vpc")
	require.NoError(t, err)
	assert.Equal(t, 3, st.Count)
	assert.InDelta(t, (0.75+0.5+1.0)/3, st.AverageScoreRatio, 1e-12)
	assert.Equal(t, 1.0, st.HighestRatio)
	assert.Equal(t, 0.5, st.LowestRatio)
	assert.Equal(t, 11, st.TotalQuestions)

	all, err := a.Aggregate(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 4, all.Count)
	assert.Equal(t, 0.0, all.LowestRatio)
}
