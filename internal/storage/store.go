package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"nuclight.org/attendance/internal/poll"
)

// Store loads and saves the whole registry snapshot.
type Store interface {
	Load(ctx context.Context) (poll.Snapshot, error)
	Save(ctx context.Context, snap poll.Snapshot) error
	Close() error
}

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type Options struct {
	Backend  string
	Path     string
	RedisURL string
	RedisKey string
}

// Open returns the backend named by opts.Backend.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (Store, error) {
	switch opts.Backend {
	case BackendJSON, "":
		return NewFileStore(opts.Path, logger), nil
	case BackendSQLite:
		db, err := NewDB(opts.Path)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		return db, nil
	case BackendRedis:
		return NewRedisStore(ctx, opts.RedisURL, opts.RedisKey)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

func emptySnapshot() poll.Snapshot {
	return poll.Snapshot{Chats: make(map[int64]poll.ChatSnapshot)}
}

func encodeSnapshot(snap poll.Snapshot) ([]byte, error) {
	if snap.Chats == nil {
		snap = emptySnapshot()
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

func decodeSnapshot(data []byte) (poll.Snapshot, error) {
	var snap poll.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return poll.Snapshot{}, err
	}
	if snap.Chats == nil {
		snap.Chats = make(map[int64]poll.ChatSnapshot)
	}
	return snap, nil
}
