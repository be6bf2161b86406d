package history

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresBackend is a PostgreSQL history backend.
type PostgresBackend struct {
	db *sql.DB
}

// NewPostgresBackend creates a new PostgreSQL backend from a connection URL.
func NewPostgresBackend(url string) (*PostgresBackend, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	p := &PostgresBackend{db: db}
	if err := p.init(); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

// init creates the necessary tables.
func (p *PostgresBackend) init() error {
	_, err := p.db.Exec(`
		CREATE TABLE IF NOT EXISTS interactions (
			id TEXT PRIMARY KEY,
			tool TEXT NOT NULL,
			kind TEXT NOT NULL,
			prompt TEXT NOT NULL,
			channel TEXT NOT NULL,
			raw TEXT,
			outcome TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
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
func (p *PostgresBackend) Record(in *Interaction) error {
	_, err := p.db.Exec(`
		INSERT INTO interactions (id, tool, kind, prompt, channel, raw, outcome, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		in.ID, in.Tool, string(in.Kind), in.Prompt, in.Channel, in.Raw, in.Outcome, in.CreatedAt)
	return err
}

// Recent implements Backend.
func (p *PostgresBackend) Recent(limit int) ([]*Interaction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := p.db.Query(`
		SELECT id, tool, kind, prompt, channel, raw, outcome, created_at
		FROM interactions ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInteractions(rows)
}

// Count implements Backend.
func (p *PostgresBackend) Count() (int64, error) {
	var count int64
	err := p.db.QueryRow(`SELECT COUNT(*) FROM interactions`).Scan(&count)
	return count, err
}

// Clear implements Backend.
func (p *PostgresBackend) Clear() error {
	_, err := p.db.Exec(`DELETE FROM interactions`)
	return err
}

// Close implements Backend.
func (p *PostgresBackend) Close() error {
	return p.db.Close()
}
