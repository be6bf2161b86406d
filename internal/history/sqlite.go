package history

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/humanloop/hitl-mcp/internal/prompt"
)

// SQLiteBackend is a SQLite history backend.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend creates a new SQLite backend at the given path.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	s := &SQLiteBackend{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// init creates the necessary tables.
func (s *SQLiteBackend) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS interactions (
			id TEXT PRIMARY KEY,
			tool TEXT NOT NULL,
			kind TEXT NOT NULL,
			prompt TEXT NOT NULL,
			channel TEXT NOT NULL,
			raw TEXT,
			outcome TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_interactions_created_at
			ON interactions(created_at);
	`)
	if err != nil {
		return fmt.Errorf("create interactions table: %w", err)
	}
	return nil
}

// Record implements Backend.
func (s *SQLiteBackend) Record(in *Interaction) error {
	_, err := s.db.Exec(`
		INSERT INTO interactions (id, tool, kind, prompt, channel, raw, outcome, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Tool, string(in.Kind), in.Prompt, in.Channel, in.Raw, in.Outcome, in.CreatedAt)
	return err
}

// Recent implements Backend.
func (s *SQLiteBackend) Recent(limit int) ([]*Interaction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, tool, kind, prompt, channel, raw, outcome, created_at
		FROM interactions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInteractions(rows)
}

// Count implements Backend.
func (s *SQLiteBackend) Count() (int64, error) {
	var count int64
	err := s.db.QueryRow(`SELECT COUNT(*) FROM interactions`).Scan(&count)
	return count, err
}

// Clear implements Backend.
func (s *SQLiteBackend) Clear() error {
	_, err := s.db.Exec(`DELETE FROM interactions`)
	return err
}

// Close implements Backend.
func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}

// scanInteractions reads interaction rows. Shared with the Postgres backend.
func scanInteractions(rows *sql.Rows) ([]*Interaction, error) {
	var out []*Interaction
	for rows.Next() {
		in := &Interaction{}
		var kind string
		if err := rows.Scan(&in.ID, &in.Tool, &kind, &in.Prompt, &in.Channel,
			&in.Raw, &in.Outcome, &in.CreatedAt); err != nil {
			return nil, err
		}
		in.Kind = prompt.Kind(kind)
		out = append(out, in)
	}
	return out, rows.Err()
}
