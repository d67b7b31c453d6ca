package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"nuclight.org/attendance/internal/poll"
)

const defaultRedisKey = "attendance:snapshot"

// RedisStore keeps the JSON snapshot under a single key.
type RedisStore struct {
	rdb *redis.Client
	key string
}

func NewRedisStore(ctx context.Context, url, key string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if key == "" {
		key = defaultRedisKey
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{rdb: rdb, key: key}, nil
}

func (s *RedisStore) Load(ctx context.Context) (poll.Snapshot, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return emptySnapshot(), nil
	}
	if err != nil {
		return poll.Snapshot{}, fmt.Errorf("get %s: %w", s.key, err)
	}
	snap, err := decodeSnapshot(data)
	if err != nil {
		return poll.Snapshot{}, fmt.Errorf("decode %s: %w", s.key, err)
	}
	return snap, nil
}

func (s *RedisStore) Save(ctx context.Context, snap poll.Snapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", s.key, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
