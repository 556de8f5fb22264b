package streaming

import (
	"context"

	"github.com/mverett/fabula/pkg/schema"
)

// EventFilter specifies which run events a subscriber wants.
type EventFilter struct {
	RunID      string   `json:"run_id,omitempty"`
	GraphName  string   `json:"graph_name,omitempty"`
	EventTypes []string `json:"event_types,omitempty"`
}

// EventHub provides pub/sub for run lifecycle events. The
// presentation layer subscribes here for node-entered/node-exited and
// reads variant display data off the current node.
type EventHub interface {
	Publish(ctx context.Context, event schema.RunEvent) error
	Subscribe(ctx context.Context, filter EventFilter) (<-chan schema.RunEvent, func(), error)
}
