// Package store keeps conversation transcripts in a local SQLite database so
// a conversation can be resumed or its brief re-exported later.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a conversation does not exist.
var ErrNotFound = errors.New("conversation not found")

const titleLen = 60

// Record is one stored message.
type Record struct {
	Seq       int
	Role      string
	Content   string
	AudioPath string
	CreatedAt time.Time
}

// Summary describes a stored conversation.
type Summary struct {
	ID        string
	Title     string
	Messages  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	stmts := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		`CREATE TABLE IF NOT EXISTS conversations (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			audio_path TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL,
			PRIMARY KEY (conversation_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_updated ON conversations(updated_at DESC)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("initializing store: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Append stores r as the next message of conversation id, creating the
// conversation on first use. The first user message becomes the title.
// It returns the sequence number assigned to the message.
func (s *Store) Append(ctx context.Context, id string, r Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	ts := r.CreatedAt.UnixMilli()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO conversations (id, created_at, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET updated_at = excluded.updated_at`,
		id, ts, ts); err != nil {
		return 0, fmt.Errorf("upserting conversation: %w", err)
	}

	var seq int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM messages WHERE conversation_id = ?`, id,
	).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO messages (conversation_id, seq, role, content, audio_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, seq, r.Role, r.Content, r.AudioPath, ts); err != nil {
		return 0, fmt.Errorf("inserting message: %w", err)
	}

	if r.Role == "user" {
		if _, err := tx.ExecContext(ctx,
			`UPDATE conversations SET title = ? WHERE id = ? AND title = ''`,
			title(r.Content), id); err != nil {
			return 0, fmt.Errorf("setting title: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing message: %w", err)
	}
	return seq, nil
}

// Messages returns the messages of conversation id in order.
func (s *Store) Messages(ctx context.Context, id string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM conversations WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up conversation: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, role, content, audio_path, created_at FROM messages
		 WHERE conversation_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var ts int64
		if err := rows.Scan(&r.Seq, &r.Role, &r.Content, &r.AudioPath, &ts); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		r.CreatedAt = time.UnixMilli(ts)
		out = append(out, r)
	}
	return out, rows.Err()
}

// List returns up to limit conversations, most recently updated first.
func (s *Store) List(ctx context.Context, limit int) ([]Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.title, c.created_at, c.updated_at,
		        (SELECT COUNT(*) FROM messages m WHERE m.conversation_id = c.id)
		 FROM conversations c
		 ORDER BY c.updated_at DESC, c.rowid DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var created, updated int64
		if err := rows.Scan(&sum.ID, &sum.Title, &created, &updated, &sum.Messages); err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		sum.CreatedAt = time.UnixMilli(created)
		sum.UpdatedAt = time.UnixMilli(updated)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes conversation id and its messages.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func title(content string) string {
	t := strings.Join(strings.Fields(content), " ")
	if r := []rune(t); len(r) > titleLen {
		t = string(r[:titleLen-3]) + "..."
	}
	return t
}
