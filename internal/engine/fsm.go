package engine

import (
	"sync"
	"time"

	"github.com/mverett/fabula/pkg/schema"
)

// EventSink receives run lifecycle events. Satisfied by the streaming
// hub adapter and by test recorders.
type EventSink interface {
	Emit(ev schema.RunEvent)
}

// SinkFunc adapts a function to the EventSink interface.
type SinkFunc func(ev schema.RunEvent)

func (f SinkFunc) Emit(ev schema.RunEvent) { f(ev) }

// nopSink discards events.
type nopSink struct{}

func (nopSink) Emit(schema.RunEvent) {}

// TransitionHook is called before or after a run state transition.
type TransitionHook func(from, to schema.RunStatus) error

type hookKey struct {
	from, to schema.RunStatus
}

// RunFSM validates traversal state transitions against the table below
// and emits a status-changed event for each one.
type RunFSM struct {
	mu     sync.Mutex
	sink   EventSink
	before map[hookKey][]TransitionHook
	after  map[hookKey][]TransitionHook
}

// NewRunFSM creates a RunFSM emitting through the given sink.
func NewRunFSM(sink EventSink) *RunFSM {
	if sink == nil {
		sink = nopSink{}
	}
	return &RunFSM{
		sink:   sink,
		before: make(map[hookKey][]TransitionHook),
		after:  make(map[hookKey][]TransitionHook),
	}
}

// OnBefore registers a hook called before a matching transition.
func (f *RunFSM) OnBefore(from, to schema.RunStatus, hook TransitionHook) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := hookKey{from, to}
	f.before[key] = append(f.before[key], hook)
}

// OnAfter registers a hook called after a matching transition.
func (f *RunFSM) OnAfter(from, to schema.RunStatus, hook TransitionHook) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := hookKey{from, to}
	f.after[key] = append(f.after[key], hook)
}

// Transition validates and executes a state transition, emitting a
// status-changed event.
func (f *RunFSM) Transition(runID string, from, to schema.RunStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !isValidRunTransition(from, to) {
		return schema.NewErrorf(schema.ErrCodeInvalidTransition,
			"invalid run transition: %s -> %s", from, to).
			WithDetails(map[string]any{"run_id": runID, "from": string(from), "to": string(to)})
	}

	key := hookKey{from, to}

	for _, hook := range f.before[key] {
		if err := hook(from, to); err != nil {
			return err
		}
	}

	f.sink.Emit(schema.RunEvent{
		RunID:     runID,
		Type:      schema.EventStatusChanged,
		Payload:   map[string]any{"from": string(from), "to": string(to)},
		Timestamp: time.Now().UTC(),
	})

	for _, hook := range f.after[key] {
		if err := hook(from, to); err != nil {
			return err
		}
	}

	return nil
}

func isValidRunTransition(from, to schema.RunStatus) bool {
	allowed, ok := ValidRunTransitions[from]
	if !ok {
		return false
	}
	for _, a := range allowed {
		if a == to {
			return true
		}
	}
	return false
}

// ValidRunTransitions is the traversal state machine's transition
// table. Idle is initial; Complete is terminal except for a jump,
// which abandons the finished run back to Idle and starts fresh.
var ValidRunTransitions = map[schema.RunStatus][]schema.RunStatus{
	schema.RunStatusIdle: {
		schema.RunStatusRunning,
	},
	schema.RunStatusRunning: {
		schema.RunStatusPaused,
		schema.RunStatusWaiting,
		schema.RunStatusWaitingForCondition,
		schema.RunStatusWaitingForInput,
		schema.RunStatusComplete,
		schema.RunStatusIdle,
	},
	schema.RunStatusPaused: {
		schema.RunStatusRunning,
		schema.RunStatusWaiting,
		schema.RunStatusWaitingForCondition,
		schema.RunStatusWaitingForInput,
		schema.RunStatusComplete,
		schema.RunStatusIdle,
	},
	schema.RunStatusWaiting: {
		schema.RunStatusRunning,
		schema.RunStatusPaused,
		schema.RunStatusComplete,
		schema.RunStatusIdle,
	},
	schema.RunStatusWaitingForCondition: {
		schema.RunStatusRunning,
		schema.RunStatusPaused,
		schema.RunStatusComplete,
		schema.RunStatusIdle,
	},
	schema.RunStatusWaitingForInput: {
		schema.RunStatusRunning,
		schema.RunStatusPaused,
		schema.RunStatusComplete,
		schema.RunStatusIdle,
	},
	schema.RunStatusComplete: {
		schema.RunStatusIdle,
	},
}
