package schema

import "time"

// Event type constants for the run event stream.
const (
	EventStoryStarted    = "story_started"
	EventStoryEnded      = "story_ended"
	EventStoryError      = "story_error"
	EventNodeEntered     = "node_entered"
	EventNodeExited      = "node_exited"
	EventChoicePresented = "choice_presented"
	EventVariableChanged = "variable_changed"
	EventStatusChanged   = "status_changed"
)

// RunStatus represents the traversal state machine's current state.
type RunStatus string

const (
	RunStatusIdle                RunStatus = "idle"
	RunStatusRunning             RunStatus = "running"
	RunStatusPaused              RunStatus = "paused"
	RunStatusWaiting             RunStatus = "waiting"
	RunStatusWaitingForCondition RunStatus = "waiting_for_condition"
	RunStatusWaitingForInput     RunStatus = "waiting_for_input"
	RunStatusComplete            RunStatus = "complete"
)

// RunEvent is a single lifecycle event emitted during a traversal run.
// The presentation layer subscribes to these and reads variant display
// data directly from the current node.
type RunEvent struct {
	RunID     string         `json:"run_id"`
	GraphName string         `json:"graph_name,omitempty"`
	NodeID    string         `json:"node_id,omitempty"`
	Type      string         `json:"event_type"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
