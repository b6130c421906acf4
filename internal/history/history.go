// Package history archives rendered chat messages and thread resets in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"ThreadChat/internal/session"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	thread_id TEXT,
	role TEXT NOT NULL,
	content TEXT NOT NULL,
	timestamp DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_user ON messages(user_id, id);
CREATE TABLE IF NOT EXISTS resets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	thread_id TEXT,
	timestamp DATETIME NOT NULL
);`

// Entry is one archived message
type Entry struct {
	UserID   string
	ThreadID string
	Message  session.Message
}

// Store is a SQLite-backed transcript archive
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// Open opens (creating if needed) the archive at path
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info("history store opened", "path", path)
	return &Store{db: db, logger: logger, now: time.Now}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordMessage archives one rendered message
func (s *Store) RecordMessage(ctx context.Context, sess session.Session, msg session.Message) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO messages (user_id, thread_id, role, content, timestamp) VALUES (?, ?, ?, ?, ?)",
		sess.UserID, sess.ThreadID, msg.Role, msg.Content, msg.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}
	return nil
}

// RecordReset archives a thread reset
func (s *Store) RecordReset(ctx context.Context, userID, threadID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO resets (user_id, thread_id, timestamp) VALUES (?, ?, ?)",
		userID, threadID, s.now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save reset: %w", err)
	}
	return nil
}

// Messages returns the last limit messages of a user in chronological order.
// A limit of zero or less returns everything.
func (s *Store) Messages(ctx context.Context, userID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id, thread_id, role, content, timestamp FROM messages WHERE user_id = ? ORDER BY id DESC LIMIT ?",
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var threadID sql.NullString
		if err := rows.Scan(&e.UserID, &threadID, &e.Message.Role, &e.Message.Content, &e.Message.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		e.ThreadID = threadID.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// ResetCount returns how many resets were recorded for a user
func (s *Store) ResetCount(ctx context.Context, userID string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM resets WHERE user_id = ?", userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count resets: %w", err)
	}
	return n, nil
}
