// Package session tracks live story runs and bridges them to snapshot
// storage and event streaming.
package session

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mverett/fabula/internal/engine"
	"github.com/mverett/fabula/internal/logging"
	"github.com/mverett/fabula/internal/store"
	"github.com/mverett/fabula/internal/streaming"
	"github.com/mverett/fabula/pkg/schema"
)

// Manager owns the set of active traversals. It fans ticks out to every
// suspended run and routes run events to the hub and metrics.
type Manager struct {
	mu   sync.RWMutex
	runs map[string]*engine.Traversal

	hub       streaming.EventHub
	snapshots store.SnapshotStore
	metrics   *Metrics
	logger    *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithHub routes all run events to the given hub.
func WithHub(hub streaming.EventHub) Option {
	return func(m *Manager) { m.hub = hub }
}

// WithSnapshots enables Save/Load against the given store.
func WithSnapshots(s store.SnapshotStore) Option {
	return func(m *Manager) { m.snapshots = s }
}

// WithMetrics attaches prometheus collectors.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Manager) { m.metrics = metrics }
}

// WithLogger configures the manager's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// NewManager creates an empty run registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		runs:   make(map[string]*engine.Traversal),
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// fanoutSink forwards run events to metrics and the hub.
type fanoutSink struct {
	m *Manager
}

func (s fanoutSink) Emit(ev schema.RunEvent) {
	s.m.metrics.observe(ev)
	if s.m.hub != nil {
		if err := s.m.hub.Publish(context.Background(), ev); err != nil {
			s.m.logger.Warn("publish run event", "run_id", ev.RunID, "event", ev.Type, "err", err)
		}
	}
}

// contextHooks publishes variable mutations as run events.
func (m *Manager) contextHooks(runID, graphName string) engine.Hooks {
	return engine.Hooks{
		OnVariableChanged: func(name string, oldValue, newValue schema.Value) {
			fanoutSink{m}.Emit(schema.RunEvent{
				RunID:     runID,
				GraphName: graphName,
				Type:      schema.EventVariableChanged,
				Payload: map[string]any{
					"variable": name,
					"old":      oldValue.String(),
					"new":      newValue.String(),
				},
				Timestamp: time.Now().UTC(),
			})
		},
	}
}

// Start builds a traversal for the graph, registers it, and plays it
// from the start node.
func (m *Manager) Start(g *schema.Graph, opts ...engine.TraversalOption) (*engine.Traversal, error) {
	return m.start(g, "", opts...)
}

// StartAt is Start beginning at an explicit node.
func (m *Manager) StartAt(g *schema.Graph, nodeID string, opts ...engine.TraversalOption) (*engine.Traversal, error) {
	if nodeID == "" {
		return nil, schema.NewError(schema.ErrCodeValidation, "node id is empty")
	}
	return m.start(g, nodeID, opts...)
}

func (m *Manager) start(g *schema.Graph, nodeID string, opts ...engine.TraversalOption) (*engine.Traversal, error) {
	cache := engine.BuildCache(g)
	runID := uuid.NewString()
	exec := engine.NewContext(g, engine.WithHooks(m.contextHooks(runID, g.Name)))

	opts = append([]engine.TraversalOption{
		engine.WithRunID(runID),
		engine.WithSink(fanoutSink{m}),
		engine.WithLogger(m.logger),
	}, opts...)
	t := engine.NewTraversal(g, cache, exec, opts...)

	m.register(t)

	var err error
	if nodeID == "" {
		err = t.Play()
	} else {
		err = t.PlayAt(nodeID)
	}
	if err != nil {
		m.unregister(t.RunID())
		return nil, err
	}
	return t, nil
}

func (m *Manager) register(t *engine.Traversal) {
	m.mu.Lock()
	m.runs[t.RunID()] = t
	m.mu.Unlock()
	if m.metrics != nil {
		m.metrics.ActiveRuns.Inc()
	}
}

func (m *Manager) unregister(runID string) {
	m.mu.Lock()
	_, ok := m.runs[runID]
	delete(m.runs, runID)
	m.mu.Unlock()
	if ok && m.metrics != nil {
		m.metrics.ActiveRuns.Dec()
	}
}

// Get returns the traversal for a run id.
func (m *Manager) Get(runID string) (*engine.Traversal, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.runs[runID]
	return t, ok
}

// Runs returns the registered run ids, sorted.
func (m *Manager) Runs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.runs))
	for id := range m.runs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Active returns the number of registered runs.
func (m *Manager) Active() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.runs)
}

// Tick advances every registered run against the given clock and
// unregisters runs that have completed.
func (m *Manager) Tick(now time.Time) {
	m.mu.RLock()
	live := make([]*engine.Traversal, 0, len(m.runs))
	for _, t := range m.runs {
		live = append(live, t)
	}
	m.mu.RUnlock()

	for _, t := range live {
		t.Tick(now)
		if t.Status() == schema.RunStatusComplete {
			m.unregister(t.RunID())
		}
	}
}

// Stop halts a run and unregisters it.
func (m *Manager) Stop(runID string) error {
	t, ok := m.Get(runID)
	if !ok {
		return schema.NewErrorf(schema.ErrCodeNotFound, "run %q not found", runID)
	}
	t.Stop()
	m.unregister(runID)
	return nil
}

// Save persists the run's variables and position under the given slot.
func (m *Manager) Save(ctx context.Context, runID, slot string) error {
	if m.snapshots == nil {
		return schema.NewError(schema.ErrCodeStore, "no snapshot store configured")
	}
	t, ok := m.Get(runID)
	if !ok {
		return schema.NewErrorf(schema.ErrCodeNotFound, "run %q not found", runID)
	}

	exec := t.Context()
	snap := &store.Snapshot{
		GraphName: t.Graph().Name,
		Variables: exec.SaveState(),
		SavedAt:   time.Now().UTC(),
	}
	if cur := exec.CurrentNode(); cur != nil {
		snap.CurrentNodeID = cur.ID()
	}
	return m.snapshots.Save(ctx, slot, snap)
}

// Load restores a snapshot against the graph and starts a new run at
// the saved position with the saved variables.
func (m *Manager) Load(ctx context.Context, slot string, g *schema.Graph, opts ...engine.TraversalOption) (*engine.Traversal, error) {
	if m.snapshots == nil {
		return nil, schema.NewError(schema.ErrCodeStore, "no snapshot store configured")
	}
	snap, err := m.snapshots.Load(ctx, slot)
	if err != nil {
		return nil, err
	}
	if snap.GraphName != g.Name {
		return nil, schema.NewErrorf(schema.ErrCodeValidation,
			"snapshot %q belongs to graph %q, not %q", slot, snap.GraphName, g.Name)
	}

	cache := engine.BuildCache(g)
	runID := uuid.NewString()
	exec := engine.NewContext(g, engine.WithHooks(m.contextHooks(runID, g.Name)))
	exec.LoadState(snap.Variables)

	opts = append([]engine.TraversalOption{
		engine.WithRunID(runID),
		engine.WithSink(fanoutSink{m}),
		engine.WithLogger(m.logger),
	}, opts...)
	t := engine.NewTraversal(g, cache, exec, opts...)
	m.register(t)

	if snap.CurrentNodeID == "" {
		err = t.Play()
	} else {
		err = t.PlayAt(snap.CurrentNodeID)
	}
	if err != nil {
		m.unregister(t.RunID())
		return nil, err
	}
	return t, nil
}

// Close stops every registered run.
func (m *Manager) Close() {
	for _, id := range m.Runs() {
		_ = m.Stop(id)
	}
}
