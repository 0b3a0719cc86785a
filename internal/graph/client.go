// Package graph persists extracted systems, events, and graph documents
// to a graph database.
package graph

import (
	"context"
	"strings"
	"time"

	"github.com/rrbanda/dataloader/internal/extract"
	"github.com/rrbanda/dataloader/internal/types"
)

// Client is the write interface the orchestrator persists through.
// Implementations must be safe for concurrent use.
type Client interface {
	// Connect establishes the database connection.
	Connect(ctx context.Context) error

	// Close releases the connection. The orchestrator owns the lifetime
	// and calls this exactly once.
	Close(ctx context.Context) error

	// Health reports connectivity to the database.
	Health(ctx context.Context) types.HealthStatus

	// EnsureSchema creates the uniqueness constraints and indexes the
	// loader relies on. Idempotent.
	EnsureSchema(ctx context.Context) error

	// Clear removes all nodes and relationships. Callers gate this on the
	// clear_on_startup management flag.
	Clear(ctx context.Context) error

	// UpsertSystem merges a system node by system_id.
	UpsertSystem(ctx context.Context, system types.SystemEntity) error

	// UpsertEvent merges an event node by event_id and links it to its
	// system with HAS_EVENT.
	UpsertEvent(ctx context.Context, event types.EventEntity) error

	// StoreGraphDocument merges every node and relationship of an
	// extracted graph document.
	StoreGraphDocument(ctx context.Context, doc *extract.GraphDocument) error
}

// Config holds the resolved connection settings for a graph client.
type Config struct {
	URI               string
	Username          string
	Password          string
	Database          string
	MaxConnections    int
	ConnectionTimeout time.Duration
}

// Validate checks that the configuration carries everything a connection
// needs and normalizes defaults.
func (c *Config) Validate() error {
	if c.URI == "" {
		return types.NewError(ErrConnectionFailed, "graph database URI is required")
	}
	if !strings.HasPrefix(c.URI, "bolt://") && !strings.HasPrefix(c.URI, "bolt+s://") &&
		!strings.HasPrefix(c.URI, "bolt+ssc://") && !strings.HasPrefix(c.URI, "neo4j://") &&
		!strings.HasPrefix(c.URI, "neo4j+s://") {
		return types.NewError(ErrConnectionFailed, "unsupported graph database URI scheme: "+c.URI)
	}
	if c.Username == "" || c.Password == "" {
		return types.NewError(ErrConnectionFailed, "graph database credentials are required")
	}
	if c.Database == "" {
		c.Database = "neo4j"
	}
	if c.MaxConnections <= 0 {
		c.MaxConnections = 50
	}
	if c.ConnectionTimeout <= 0 {
		c.ConnectionTimeout = 30 * time.Second
	}
	return nil
}
