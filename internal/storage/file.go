package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"nuclight.org/attendance/internal/poll"
)

// FileStore keeps the snapshot in a single JSON file.
type FileStore struct {
	path   string
	logger *slog.Logger
	now    func() time.Time
}

func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{path: path, logger: logger, now: time.Now}
}

// Load reads the file. A missing file yields an empty snapshot. A file that
// cannot be parsed is moved aside to a timestamped backup and loading
// continues with an empty snapshot.
func (s *FileStore) Load(ctx context.Context) (poll.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return emptySnapshot(), nil
	}
	if err != nil {
		return poll.Snapshot{}, fmt.Errorf("read %s: %w", s.path, err)
	}

	snap, err := s.parse(data)
	if err != nil {
		backup := s.backupPath()
		s.logger.Error("data file is corrupt, starting empty", "path", s.path, "backup", backup, "error", err)
		if rerr := os.Rename(s.path, backup); rerr != nil {
			s.logger.Error("failed to back up corrupt data file", "path", s.path, "error", rerr)
		}
		return emptySnapshot(), nil
	}
	return snap, nil
}

func (s *FileStore) parse(data []byte) (poll.Snapshot, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return poll.Snapshot{}, err
	}
	if _, ok := probe["chats"]; !ok && isLegacy(probe) {
		snap, skipped, err := convertLegacy(data)
		if err != nil {
			return poll.Snapshot{}, err
		}
		s.logger.Info("converted legacy data file", "path", s.path, "chats", len(snap.Chats), "skipped_votes", skipped)
		return snap, nil
	}
	return decodeSnapshot(data)
}

// Save writes to a temp file in the same directory and renames it over the
// target, so readers see either the old or the new file.
func (s *FileStore) Save(ctx context.Context, snap poll.Snapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// backupPath turns data.json into data_backup_<unix>.json.
func (s *FileStore) backupPath() string {
	ext := filepath.Ext(s.path)
	base := strings.TrimSuffix(s.path, ext)
	if ext == "" {
		ext = ".json"
	}
	return fmt.Sprintf("%s_backup_%d%s", base, s.now().Unix(), ext)
}
