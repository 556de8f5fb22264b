package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mverett/fabula/pkg/schema"
)

// suspension is the pending-suspension record for a suspended run:
// what suspended, why, and how the run resumes. Keeping it as plain
// data keeps suspension state inspectable.
type suspension struct {
	node schema.Node
	kind schema.ExecResultKind
	port string

	deadline    time.Time
	hasDeadline bool
	predicate   func() bool

	choices      []schema.ChoiceOption
	defaultIndex int

	// beforeExecute marks a breakpoint pause: the node was entered but
	// not yet executed.
	beforeExecute bool
}

// Traversal is one live execution of a graph: the state machine that
// steps node to node, applies each node's declared suspension behavior
// and emits lifecycle events.
//
// Advancement is cooperative: the host drives Tick; nothing here ever
// blocks or owns a goroutine. Multiple traversals may coexist over the
// same graph and cache; they share no mutable state.
type Traversal struct {
	mu sync.Mutex

	runID  string
	graph  *schema.Graph
	cache  *Cache
	exec   *Context
	fsm    *RunFSM
	sink   EventSink
	logger *slog.Logger
	debug  bool

	status   schema.RunStatus
	resumeTo schema.RunStatus
	pending  *suspension
}

// TraversalOption configures a Traversal at construction.
type TraversalOption func(*Traversal)

// WithRunID fixes the run identifier (default: random UUID).
func WithRunID(id string) TraversalOption {
	return func(t *Traversal) { t.runID = id }
}

// WithSink installs the event sink.
func WithSink(sink EventSink) TraversalOption {
	return func(t *Traversal) { t.sink = sink }
}

// WithLogger installs the logger.
func WithLogger(logger *slog.Logger) TraversalOption {
	return func(t *Traversal) { t.logger = logger }
}

// WithDebug enables breakpoint pauses for this run.
func WithDebug() TraversalOption {
	return func(t *Traversal) { t.debug = true }
}

// NewTraversal creates an idle traversal over the graph, cache and
// context.
func NewTraversal(g *schema.Graph, cache *Cache, exec *Context, opts ...TraversalOption) *Traversal {
	t := &Traversal{
		graph:  g,
		cache:  cache,
		exec:   exec,
		status: schema.RunStatusIdle,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.runID == "" {
		t.runID = uuid.NewString()
	}
	if t.sink == nil {
		t.sink = nopSink{}
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	t.logger = t.logger.With(slog.String("run_id", t.runID), slog.String("graph", g.Name))
	t.fsm = NewRunFSM(t.sink)
	return t
}

// RunID returns the run identifier.
func (t *Traversal) RunID() string { return t.runID }

// Status returns the current state machine state.
func (t *Traversal) Status() schema.RunStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Context returns the run's execution context.
func (t *Traversal) Context() *Context { return t.exec }

// Graph returns the graph this run traverses.
func (t *Traversal) Graph() *schema.Graph { return t.graph }

// PendingChoices returns the presented choice list while the run waits
// for a selection, or nil.
func (t *Traversal) PendingChoices() []schema.ChoiceOption {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending == nil {
		return nil
	}
	out := make([]schema.ChoiceOption, len(t.pending.choices))
	copy(out, t.pending.choices)
	return out
}

// Play starts the run at the graph's Start node. A missing start node
// is reported through the error event and the run does not start.
func (t *Traversal) Play() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	start := t.cache.StartNode()
	if start == nil {
		err := schema.NewErrorf(schema.ErrCodeStartMissing, "graph %q has no start node", t.graph.Name)
		t.emitError(err)
		return err
	}
	return t.begin(start)
}

// PlayAt starts the run at an explicit node.
func (t *Traversal) PlayAt(nodeID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	node := t.cache.Node(nodeID)
	if node == nil {
		err := schema.NewErrorf(schema.ErrCodeNotFound, "start node %q not found", nodeID)
		t.emitError(err)
		return err
	}
	return t.begin(node)
}

func (t *Traversal) begin(node schema.Node) error {
	if t.status != schema.RunStatusIdle {
		return schema.NewErrorf(schema.ErrCodeConflict, "run is %s, not idle", t.status)
	}
	t.transition(schema.RunStatusRunning)
	t.emit(schema.RunEvent{Type: schema.EventStoryStarted, NodeID: node.ID()})
	t.logger.Debug("run started", slog.String("node", node.ID()))
	t.stepFrom(node, time.Now())
	return nil
}

// Tick advances the run if its pending suspension has been satisfied:
// a timed wait whose deadline passed, a condition that now holds, or a
// choice timeout falling back to the default selection. Ticks while
// Paused do nothing; the current node is never dropped.
func (t *Traversal) Tick(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pending == nil {
		return
	}

	switch t.status {
	case schema.RunStatusWaiting:
		if !now.Before(t.pending.deadline) {
			t.resume(now, t.pending.port)
		}
	case schema.RunStatusWaitingForCondition:
		// A nil predicate is vacuously satisfied; a misauthored node
		// must not stall the run forever.
		if t.pending.predicate == nil || t.pending.predicate() {
			t.resume(now, t.pending.port)
		}
	case schema.RunStatusWaitingForInput:
		// Choice timeout: auto-select the declared default. A selection
		// that arrived earlier already cleared the pending record, so a
		// stale timeout is structurally a no-op.
		if t.pending.hasDeadline && !now.Before(t.pending.deadline) {
			t.resume(now, t.fallbackPort())
		}
	}
}

// SendInput resumes a WaitForInput suspension through the node's
// declared default port.
func (t *Traversal) SendInput() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status != schema.RunStatusWaitingForInput || t.pending == nil {
		return schema.NewError(schema.ErrCodeInvalidInput, "run is not waiting for input")
	}
	port := t.pending.port
	if len(t.pending.choices) > 0 {
		port = t.fallbackPort()
	}
	t.resume(time.Now(), port)
	return nil
}

// SelectPort resumes a WaitForInput suspension through an explicit
// output port, overriding the node's default.
func (t *Traversal) SelectPort(portID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status != schema.RunStatusWaitingForInput || t.pending == nil {
		return schema.NewError(schema.ErrCodeInvalidInput, "run is not waiting for input")
	}
	t.resume(time.Now(), portID)
	return nil
}

// SelectChoice resumes a choice suspension by index into the presented
// (filtered, possibly shuffled) list. The option's declared port is
// followed, so presentation order never desyncs from authored intent.
// An explicit selection also cancels any pending timeout.
func (t *Traversal) SelectChoice(index int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status != schema.RunStatusWaitingForInput || t.pending == nil {
		return schema.NewError(schema.ErrCodeInvalidInput, "run is not waiting for input")
	}
	if index < 0 || index >= len(t.pending.choices) {
		return schema.NewErrorf(schema.ErrCodeInvalidInput, "choice index %d out of range (%d presented)", index, len(t.pending.choices))
	}
	t.resume(time.Now(), t.pending.choices[index].Port)
	return nil
}

// Deliver applies a generic input signal.
func (t *Traversal) Deliver(in schema.Input) error {
	switch in.Kind {
	case schema.InputChoice:
		return t.SelectChoice(in.ChoiceIndex)
	case schema.InputPort:
		return t.SelectPort(in.PortID)
	default:
		return t.SendInput()
	}
}

// Pause holds the run at its current position. Suspension deadlines
// and predicates are not evaluated while paused.
func (t *Traversal) Pause() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.status {
	case schema.RunStatusWaiting, schema.RunStatusWaitingForCondition, schema.RunStatusWaitingForInput:
		t.resumeTo = t.status
		t.transition(schema.RunStatusPaused)
		return nil
	case schema.RunStatusPaused:
		return nil
	default:
		return schema.NewErrorf(schema.ErrCodeInvalidTransition, "cannot pause a %s run", t.status)
	}
}

// Resume releases a paused run. After a breakpoint pause the held node
// executes now; after a manual pause the prior suspension resumes
// waiting.
func (t *Traversal) Resume() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status != schema.RunStatusPaused {
		return schema.NewErrorf(schema.ErrCodeInvalidTransition, "run is %s, not paused", t.status)
	}

	if t.pending != nil && t.pending.beforeExecute {
		node := t.pending.node
		t.pending = nil
		t.transition(schema.RunStatusRunning)
		if next := t.executeNode(node, time.Now()); next != nil {
			t.stepFrom(next, time.Now())
		}
		return nil
	}

	if t.resumeTo != "" {
		t.transition(t.resumeTo)
		t.resumeTo = ""
		return nil
	}

	t.transition(schema.RunStatusRunning)
	return nil
}

// JumpTo force-jumps to an arbitrary node: the current traversal is
// abandoned (no story-ended success semantics), pending suspensions
// are discarded, and a fresh traversal begins at the target with the
// same context. A missing target is reported via the error event and
// the run continues unchanged.
func (t *Traversal) JumpTo(nodeID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	target := t.cache.Node(nodeID)
	if target == nil {
		err := schema.NewErrorf(schema.ErrCodeJumpTarget, "jump target %q not found", nodeID)
		t.emitError(err)
		return err
	}

	t.pending = nil
	t.resumeTo = ""
	if t.status != schema.RunStatusIdle {
		t.transition(schema.RunStatusIdle)
	}
	return t.begin(target)
}

// Stop ends the run: the current node's exit hook fires exactly once,
// then story-ended with success=false. Safe to call in any suspended
// state; a stop on an idle or already-complete run is a no-op.
func (t *Traversal) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status == schema.RunStatusIdle || t.status == schema.RunStatusComplete {
		return
	}

	if current := t.exec.CurrentNode(); current != nil {
		current.OnExit(t.exec)
		t.emitNode(schema.EventNodeExited, current)
	}
	t.pending = nil
	t.resumeTo = ""
	t.completeRun(false)
	t.logger.Debug("run stopped")
}

// --- internal stepping (mu held) ---

// stepFrom enters and executes nodes until the run suspends, pauses or
// completes. Graphs may contain cycles; nothing here assumes
// acyclicity or imposes a depth limit.
func (t *Traversal) stepFrom(node schema.Node, now time.Time) {
	for node != nil && t.status == schema.RunStatusRunning {
		if !t.enterNode(node) {
			return
		}
		node = t.executeNode(node, now)
	}
}

// enterNode records the node as current, runs its enter hook and emits
// node-entered. Returns false when a breakpoint paused the run.
func (t *Traversal) enterNode(node schema.Node) bool {
	t.exec.SetCurrentNode(node)
	node.OnEnter(t.exec)
	t.emitNode(schema.EventNodeEntered, node)

	if t.debug && node.Breakpoint() {
		t.pending = &suspension{node: node, beforeExecute: true}
		t.transition(schema.RunStatusPaused)
		t.logger.Debug("breakpoint hit", slog.String("node", node.ID()))
		return false
	}
	return true
}

// executeNode invokes the node's behavior and applies the result.
// Returns the next node to enter, or nil when the run suspended or
// completed.
func (t *Traversal) executeNode(node schema.Node, now time.Time) schema.Node {
	res := node.Execute(t.exec)
	// The empty-port default applies to every result kind, so a
	// suspended node resumes through "output" like a continue would.
	if res.Port == "" {
		res.Port = schema.PortOutput
	}

	switch res.Kind {
	case schema.ResultContinue:
		return t.finishNode(node, res.Port)

	case schema.ResultWait:
		t.pending = &suspension{
			node:        node,
			kind:        res.Kind,
			port:        res.Port,
			deadline:    now.Add(res.Duration),
			hasDeadline: true,
		}
		t.transition(schema.RunStatusWaiting)

	case schema.ResultWaitForCondition:
		t.pending = &suspension{
			node:      node,
			kind:      res.Kind,
			port:      res.Port,
			predicate: res.Predicate,
		}
		t.transition(schema.RunStatusWaitingForCondition)

	case schema.ResultWaitForInput:
		// A choice node with every option filtered out is a dead end,
		// not a hang.
		if res.Choices != nil && len(res.Choices) == 0 {
			return t.finishNode(node, res.Port)
		}
		s := &suspension{
			node:         node,
			kind:         res.Kind,
			port:         res.Port,
			choices:      res.Choices,
			defaultIndex: res.Default,
		}
		if res.Timeout > 0 {
			s.deadline = now.Add(res.Timeout)
			s.hasDeadline = true
		}
		t.pending = s
		t.transition(schema.RunStatusWaitingForInput)
		if len(res.Choices) > 0 {
			t.emit(schema.RunEvent{
				Type:    schema.EventChoicePresented,
				NodeID:  node.ID(),
				Payload: map[string]any{"choices": s.choices},
			})
		}

	case schema.ResultEnd:
		node.OnExit(t.exec)
		t.emitNode(schema.EventNodeExited, node)
		t.completeRun(true)
	}
	return nil
}

// finishNode runs the exit hook, emits node-exited and resolves the
// next node through the cache. A nil resolution completes the run with
// success equal to the context's completion flag: running out of graph
// is only a success when an End node marked it so.
func (t *Traversal) finishNode(node schema.Node, port string) schema.Node {
	node.OnExit(t.exec)
	t.emitNode(schema.EventNodeExited, node)

	next := t.cache.ConnectedNode(node.ID(), port)
	if next == nil {
		t.completeRun(t.exec.Completed())
		return nil
	}
	return next
}

// resume resolves the pending suspension through the given port and
// keeps stepping. Scratch data is scoped to one suspension span.
func (t *Traversal) resume(now time.Time, port string) {
	s := t.pending
	t.pending = nil
	t.exec.ClearTemp()
	t.transition(schema.RunStatusRunning)
	if next := t.finishNode(s.node, port); next != nil {
		t.stepFrom(next, now)
	}
}

// fallbackPort resolves the automatic choice selection: the declared
// default index if it is still available, otherwise the available
// choice with the lowest declared index (presentation order may be
// shuffled), otherwise the suspension's default port.
func (t *Traversal) fallbackPort() string {
	s := t.pending
	if s.defaultIndex >= 0 {
		for _, opt := range s.choices {
			if opt.Index == s.defaultIndex {
				return opt.Port
			}
		}
	}
	if len(s.choices) > 0 {
		first := s.choices[0]
		for _, opt := range s.choices[1:] {
			if opt.Index < first.Index {
				first = opt
			}
		}
		return first.Port
	}
	return s.port
}

func (t *Traversal) completeRun(success bool) {
	t.pending = nil
	t.transition(schema.RunStatusComplete)
	t.emit(schema.RunEvent{
		Type:    schema.EventStoryEnded,
		Payload: map[string]any{"success": success},
	})
	t.logger.Debug("run complete", slog.Bool("success", success))
}

func (t *Traversal) transition(to schema.RunStatus) {
	if err := t.fsm.Transition(t.runID, t.status, to); err != nil {
		// A table violation is an engine bug; log it, never crash the
		// host over a story run.
		t.logger.Error("invalid run transition",
			slog.String("from", string(t.status)),
			slog.String("to", string(to)),
			slog.String("error", err.Error()))
		return
	}
	t.status = to
	t.exec.SetPaused(to == schema.RunStatusPaused)
}

func (t *Traversal) emit(ev schema.RunEvent) {
	ev.RunID = t.runID
	ev.GraphName = t.graph.Name
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	t.sink.Emit(ev)
}

func (t *Traversal) emitNode(eventType string, node schema.Node) {
	t.emit(schema.RunEvent{
		Type:    eventType,
		NodeID:  node.ID(),
		Payload: map[string]any{"kind": string(node.Kind())},
	})
}

func (t *Traversal) emitError(err *schema.StoryError) {
	t.emit(schema.RunEvent{
		Type:    schema.EventStoryError,
		NodeID:  err.NodeID,
		Payload: map[string]any{"code": err.Code, "message": err.Message},
	})
	t.logger.Warn("run error", slog.String("code", err.Code), slog.String("error", err.Message))
}
