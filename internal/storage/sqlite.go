package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"nuclight.org/attendance/internal/poll"

	_ "modernc.org/sqlite"
)

// DB is the SQLite store. Each Save replaces the stored snapshot in one
// transaction.
type DB struct {
	db *sql.DB
}

func NewDB(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS chats (
		chat_id INTEGER PRIMARY KEY,
		current_poll_id TEXT NOT NULL DEFAULT '',
		poll_created_at TEXT,
		pinned_message_id INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS chat_admins (
		chat_id INTEGER NOT NULL REFERENCES chats(chat_id) ON DELETE CASCADE,
		tg_user_id INTEGER NOT NULL,
		PRIMARY KEY (chat_id, tg_user_id)
	);

	CREATE TABLE IF NOT EXISTS votes (
		chat_id INTEGER NOT NULL REFERENCES chats(chat_id) ON DELETE CASCADE,
		tg_user_id INTEGER NOT NULL,
		option_code TEXT NOT NULL,
		tg_first_name TEXT NOT NULL DEFAULT '',
		tg_username TEXT NOT NULL DEFAULT '',
		voted_at TEXT NOT NULL,
		PRIMARY KEY (chat_id, tg_user_id)
	);

	CREATE INDEX IF NOT EXISTS idx_votes_chat_option ON votes(chat_id, option_code);
	`

	if _, err := d.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

func (d *DB) Save(ctx context.Context, snap poll.Snapshot) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"votes", "chat_admins", "chats"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for chatID, cs := range snap.Chats {
		var createdAt sql.NullString
		if !cs.PollCreatedAt.IsZero() {
			createdAt = sql.NullString{String: cs.PollCreatedAt.Format(time.RFC3339Nano), Valid: true}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO chats (chat_id, current_poll_id, poll_created_at, pinned_message_id)
			VALUES (?, ?, ?, ?)
		`, chatID, cs.CurrentPollID, createdAt, cs.PinnedMessageID); err != nil {
			return fmt.Errorf("insert chat %d: %w", chatID, err)
		}

		for _, userID := range cs.Admins {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO chat_admins (chat_id, tg_user_id) VALUES (?, ?)
			`, chatID, userID); err != nil {
				return fmt.Errorf("insert admin %d: %w", userID, err)
			}
		}

		for userID, v := range cs.Votes {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO votes (chat_id, tg_user_id, option_code, tg_first_name, tg_username, voted_at)
				VALUES (?, ?, ?, ?, ?, ?)
			`, chatID, userID, string(v.Option), v.DisplayName, v.Handle, v.CastAt.Format(time.RFC3339Nano)); err != nil {
				return fmt.Errorf("insert vote %d: %w", userID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (d *DB) Load(ctx context.Context) (poll.Snapshot, error) {
	snap := emptySnapshot()

	rows, err := d.db.QueryContext(ctx, `
		SELECT chat_id, current_poll_id, poll_created_at, pinned_message_id FROM chats
	`)
	if err != nil {
		return poll.Snapshot{}, fmt.Errorf("query chats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var chatID int64
		var cs poll.ChatSnapshot
		var createdAt sql.NullString
		if err := rows.Scan(&chatID, &cs.CurrentPollID, &createdAt, &cs.PinnedMessageID); err != nil {
			return poll.Snapshot{}, fmt.Errorf("scan chat: %w", err)
		}
		if createdAt.Valid {
			if cs.PollCreatedAt, err = time.Parse(time.RFC3339Nano, createdAt.String); err != nil {
				return poll.Snapshot{}, fmt.Errorf("parse poll_created_at of chat %d: %w", chatID, err)
			}
		}
		cs.Votes = make(map[int64]poll.Vote)
		snap.Chats[chatID] = cs
	}
	if err := rows.Err(); err != nil {
		return poll.Snapshot{}, fmt.Errorf("iterate chats: %w", err)
	}

	if err := d.loadAdmins(ctx, snap); err != nil {
		return poll.Snapshot{}, err
	}
	if err := d.loadVotes(ctx, snap); err != nil {
		return poll.Snapshot{}, err
	}
	return snap, nil
}

func (d *DB) loadAdmins(ctx context.Context, snap poll.Snapshot) error {
	rows, err := d.db.QueryContext(ctx, `
		SELECT chat_id, tg_user_id FROM chat_admins ORDER BY chat_id, tg_user_id
	`)
	if err != nil {
		return fmt.Errorf("query admins: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var chatID, userID int64
		if err := rows.Scan(&chatID, &userID); err != nil {
			return fmt.Errorf("scan admin: %w", err)
		}
		cs := snap.Chats[chatID]
		cs.Admins = append(cs.Admins, userID)
		snap.Chats[chatID] = cs
	}
	return rows.Err()
}

func (d *DB) loadVotes(ctx context.Context, snap poll.Snapshot) error {
	rows, err := d.db.QueryContext(ctx, `
		SELECT chat_id, tg_user_id, option_code, tg_first_name, tg_username, voted_at FROM votes
	`)
	if err != nil {
		return fmt.Errorf("query votes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var chatID, userID int64
		var option, votedAt string
		var v poll.Vote
		if err := rows.Scan(&chatID, &userID, &option, &v.DisplayName, &v.Handle, &votedAt); err != nil {
			return fmt.Errorf("scan vote: %w", err)
		}
		v.Option = poll.Option(option)
		if v.CastAt, err = time.Parse(time.RFC3339Nano, votedAt); err != nil {
			return fmt.Errorf("parse voted_at of user %d: %w", userID, err)
		}
		snap.Chats[chatID].Votes[userID] = v
	}
	return rows.Err()
}
