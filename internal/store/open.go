package store

import (
	"context"
	"fmt"
)

// Backend kinds accepted by OpenBackend.
const (
	KindSQLite   = "sqlite"
	KindRedis    = "redis"
	KindDynamoDB = "dynamodb"
)

// BackendConfig selects where quiz history lives.
type BackendConfig struct {
	Kind   string       `yaml:"backend"`
	Redis  RedisConfig  `yaml:"redis"`
	Dynamo DynamoConfig `yaml:"dynamodb"`
}

// OpenBackend returns the configured history backend. The sqlite backend
// shares local with the request log.
func OpenBackend(ctx context.Context, cfg BackendConfig, local *DB) (Backend, error) {
	switch cfg.Kind {
	case "", KindSQLite:
		return local.Sessions(), nil
	case KindRedis:
		return NewRedisBackend(ctx, cfg.Redis)
	case KindDynamoDB:
		return NewDynamoBackend(ctx, cfg.Dynamo)
	default:
		return nil, fmt.Errorf("unknown store backend %q (want sqlite, redis or dynamodb)", cfg.Kind)
	}
}
