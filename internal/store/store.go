// Package store persists run snapshots: the flat variable map plus the
// identifier of the current node. That is deliberately all a save
// carries; temp data and navigation history are run-scoped.
package store

import (
	"context"
	"time"

	"github.com/mverett/fabula/pkg/schema"
)

// Snapshot is a saved run position.
type Snapshot struct {
	GraphName     string                  `json:"graph_name"`
	CurrentNodeID string                  `json:"current_node_id,omitempty"`
	Variables     map[string]schema.Value `json:"variables"`
	SavedAt       time.Time               `json:"saved_at"`
}

// SnapshotStore is the persistence contract. Implementations must be
// safe for concurrent use.
type SnapshotStore interface {
	// Save writes the snapshot under a named slot, overwriting any
	// previous save in that slot.
	Save(ctx context.Context, slot string, snap *Snapshot) error
	// Load reads the snapshot in a slot. A missing slot is a
	// NOT_FOUND StoryError.
	Load(ctx context.Context, slot string) (*Snapshot, error)
	// Delete removes a slot. Deleting a missing slot is a no-op.
	Delete(ctx context.Context, slot string) error
	// List returns all slot names, sorted.
	List(ctx context.Context) ([]string, error)
	// Close releases backend resources.
	Close() error
}
