package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/petfit-backend/internal/pkg/logger"
)

const scanCount = 500

// Store is the ephemeral cache tier on Redis.
type Store struct {
	log *logger.Logger
	rdb goredis.UniversalClient
}

func NewStore(log *logger.Logger, rdb goredis.UniversalClient) *Store {
	return &Store{log: log.With("client", "RedisStore"), rdb: rdb}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (s *Store) SetWithTTL(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, val, ttl).Err()
}

func (s *Store) Delete(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	return s.rdb.Del(ctx, keys...).Result()
}

// ScanByPattern walks the keyspace with SCAN. Keys found before an error are returned with it.
func (s *Store) ScanByPattern(ctx context.Context, pattern string) ([]string, error) {
	var out []string
	iter := s.rdb.Scan(ctx, 0, pattern, scanCount).Iterator()
	for iter.Next(ctx) {
		out = append(out, iter.Val())
	}
	return out, iter.Err()
}
