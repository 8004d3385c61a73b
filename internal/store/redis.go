package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/abhisek/studybuddy/internal/quiz"
)

// RedisConfig locates the redis server holding quiz history.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`

	// Prefix namespaces every key. Default "studybuddy".
	Prefix string `yaml:"prefix"`
}

// redisBackend stores each session as JSON under <prefix>:session:<id>
// and indexes a user's sessions in the sorted set
// <prefix>:user:<user>:sessions scored by start time in unix ms.
type redisBackend struct {
	rdb    goredis.UniversalClient
	prefix string
}

// NewRedisBackend connects and pings the server.
func NewRedisBackend(ctx context.Context, cfg RedisConfig) (Backend, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return newRedisBackend(rdb, cfg.Prefix), nil
}

func newRedisBackend(rdb goredis.UniversalClient, prefix string) *redisBackend {
	if prefix == "" {
		prefix = "studybuddy"
	}
	return &redisBackend{rdb: rdb, prefix: prefix}
}

func (b *redisBackend) sessionKey(id string) string {
	return b.prefix + ":session:" + id
}

func (b *redisBackend) indexKey(userID string) string {
	return b.prefix + ":user:" + userID + ":sessions"
}

func (b *redisBackend) Put(ctx context.Context, s *quiz.Session) error {
	raw, err := json.Marshal(toRecord(s))
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	_, err = b.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, b.sessionKey(s.ID), raw, 0)
		pipe.ZAdd(ctx, b.indexKey(s.UserID), goredis.Z{
			Score:  float64(s.StartedAt.UnixMilli()),
			Member: s.ID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis put: %w", err)
	}
	return nil
}

func (b *redisBackend) Recent(ctx context.Context, userID string, limit int) ([]quiz.Session, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	ids, err := b.rdb.ZRevRange(ctx, b.indexKey(userID), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("redis index: %w", err)
	}
	return b.load(ctx, ids)
}

func (b *redisBackend) Scan(ctx context.Context, userID string) ([]quiz.Session, error) {
	ids, err := b.rdb.ZRange(ctx, b.indexKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis index: %w", err)
	}
	return b.load(ctx, ids)
}

func (b *redisBackend) Close() error {
	return b.rdb.Close()
}

// load fetches sessions by id in order. Ids whose key has gone missing
// are skipped.
func (b *redisBackend) load(ctx context.Context, ids []string) ([]quiz.Session, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = b.sessionKey(id)
	}
	vals, err := b.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget: %w", err)
	}

	out := make([]quiz.Session, 0, len(vals))
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var rec sessionRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decode session %s: %w", ids[i], err)
		}
		out = append(out, rec.session())
	}
	return out, nil
}
