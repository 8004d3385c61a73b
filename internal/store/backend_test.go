package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studybuddy/internal/quiz"
)

// backendFactories lets every backend run the same contract tests.
func backendFactories(t *testing.T) map[string]func() Backend {
	return map[string]func() Backend{
		KindSQLite: func() Backend {
			return openTestDB(t).Sessions()
		},
		KindRedis: func() Backend {
			mr := miniredis.RunT(t)
			return newRedisBackend(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}), "test")
		},
		KindDynamoDB: func() Backend {
			return newDynamoBackend(newFakeDynamo(), "")
		},
	}
}

func TestBackendRoundTrip(t *testing.T) {
	base := time.Date(2025, 5, 10, 9, 30, 0, 123456789, time.UTC)

	for name, newBackend := range backendFactories(t) {
		t.Run(name, func(t *testing.T) {
			b := newBackend()
			defer b.Close()
			ctx := context.Background()

			saved := sampleSession("sess-1", "user-1", "S3", quiz.DifficultyMedium, 3, 5, base)
			require.NoError(t, b.Put(ctx, saved))

			got, err := b.Recent(ctx, "user-1", 1)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, *saved, got[0])
		})
	}
}

func TestBackendRecentOrderingAndLimit(t *testing.T) {
	base := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)

	for name, newBackend := range backendFactories(t) {
		t.Run(name, func(t *testing.T) {
			b := newBackend()
			defer b.Close()
			ctx := context.Background()

			// Inserted out of order on purpose.
			for _, s := range []*quiz.Session{
				sampleSession("b", "u", "ec2", quiz.DifficultyEasy, 1, 2, base.Add(2*time.Hour)),
				sampleSession("a", "u", "ec2", quiz.DifficultyEasy, 2, 2, base),
				sampleSession("c", "u", "iam", quiz.DifficultyHard, 0, 2, base.Add(4*time.Hour)),
				sampleSession("x", "other", "iam", quiz.DifficultyHard, 2, 2, base.Add(5*time.Hour)),
			} {
				require.NoError(t, b.Put(ctx, s))
			}

			all, err := b.Recent(ctx, "u", 0)
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, []string{"c", "b", "a"}, ids(all))

			two, err := b.Recent(ctx, "u", 2)
			require.NoError(t, err)
			assert.Equal(t, []string{"c", "b"}, ids(two))

			scanned, err := b.Scan(ctx, "u")
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"a", "b", "c"}, ids(scanned))

			none, err := b.Recent(ctx, "nobody", 5)
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func ids(sessions []quiz.Session) []string {
	out := make([]string, len(sessions))
	for i, s := range sessions {
		out[i] = s.ID
	}
	return out
}

func TestRedisKeys(t *testing.T) {
	mr := miniredis.RunT(t)
	b := newRedisBackend(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}), "")
	defer b.Close()

	start := time.UnixMilli(1_700_000_000_000).UTC()
	require.NoError(t, b.Put(context.Background(), sampleSession("abc", "u1", "vpc", quiz.DifficultyEasy, 1, 1, start)))

	assert.True(t, mr.Exists("studybuddy:session:abc"))
	score, err := mr.ZScore("studybuddy:user:u1:sessions", "abc")
	require.NoError(t, err)
	assert.Equal(t, float64(1_700_000_000_000), score)
}

func TestRedisSkipsMissingSessionKeys(t *testing.T) {
	mr := miniredis.RunT(t)
	b := newRedisBackend(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}), "t")
	defer b.Close()
	ctx := context.Background()

	require.NoError(t, b.Put(ctx, sampleSession("keep", "u", "vpc", quiz.DifficultyEasy, 1, 1, time.Now())))
	require.NoError(t, b.Put(ctx, sampleSession("gone", "u", "vpc", quiz.DifficultyEasy, 1, 1, time.Now().Add(time.Second))))
	mr.Del("t:session:gone")

	got, err := b.Recent(ctx, "u", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, ids(got))
}

func TestNewRedisBackendPingFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisBackend(context.Background(), RedisConfig{Addr: addr})
	assert.Error(t, err)
}

func TestOpenBackendSelection(t *testing.T) {
	db := openTestDB(t)

	b, err := OpenBackend(context.Background(), BackendConfig{}, db)
	require.NoError(t, err)
	assert.IsType(t, &sqliteBackend{}, b)

	_, err = OpenBackend(context.Background(), BackendConfig{Kind: "mongo"}, db)
	assert.ErrorContains(t, err, "unknown store backend")
}
