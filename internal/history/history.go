// Package history implements storage backends for the interaction audit log.
// Every tool call that puts a prompt in front of a human is recorded with its
// outcome.
package history

import (
	"fmt"
	"time"

	"github.com/humanloop/hitl-mcp/internal/config"
	"github.com/humanloop/hitl-mcp/internal/prompt"
)

// Interaction is one recorded human interaction.
type Interaction struct {
	ID        string      `json:"id"`
	Tool      string      `json:"tool"`
	Kind      prompt.Kind `json:"kind"`
	Prompt    string      `json:"prompt"`
	Channel   string      `json:"channel"`
	Raw       string      `json:"raw,omitempty"`
	Outcome   string      `json:"outcome"` // "accepted", "cancelled", "timed_out", "invalid", "error"
	CreatedAt time.Time   `json:"created_at"`
}

// Backend defines the interface for history storage backends.
type Backend interface {
	// Record persists an interaction.
	Record(in *Interaction) error

	// Recent returns up to limit interactions, newest first.
	Recent(limit int) ([]*Interaction, error)

	// Count returns the number of recorded interactions.
	Count() (int64, error)

	// Clear removes all recorded interactions.
	Clear() error

	// Close closes the storage backend.
	Close() error
}

// Open creates the backend selected by configuration.
func Open(cfg *config.HistoryConfig) (Backend, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryBackend(), nil
	case "sqlite":
		return NewSQLiteBackend(cfg.Path)
	case "postgresql":
		return NewPostgresBackend(cfg.URL)
	default:
		return nil, fmt.Errorf("unknown history storage type %q", cfg.Type)
	}
}
