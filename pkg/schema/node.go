package schema

import "time"

// NodeKind identifies a node variant. New kinds register a constructor
// in the node registry; the engine itself stays closed over the
// Node/ExecResult dispatch surface.
type NodeKind string

const (
	KindStart       NodeKind = "start"
	KindDialogue    NodeKind = "dialogue"
	KindChoice      NodeKind = "choice"
	KindCutscene    NodeKind = "cutscene"
	KindAudio       NodeKind = "audio"
	KindBranch      NodeKind = "branch"
	KindSetVariable NodeKind = "set_variable"
	KindWait        NodeKind = "wait"
	KindGate        NodeKind = "gate"
	KindEnd         NodeKind = "end"
)

// PortDirection distinguishes input from output ports.
type PortDirection string

const (
	DirectionInput  PortDirection = "input"
	DirectionOutput PortDirection = "output"
)

// PortCapacity limits how many connections a port accepts.
type PortCapacity string

const (
	CapacitySingle PortCapacity = "single"
	CapacityMulti  PortCapacity = "multi"
)

// Well-known port identifiers.
const (
	PortInput  = "input"
	PortOutput = "output"
	PortTrue   = "true"
	PortFalse  = "false"
)

// Port is a named attachment point on a node. Ports are owned by their
// node and are not separately destroyable. The ID is unique among the
// node's ports of the same direction.
type Port struct {
	ID        string        `json:"id"`
	Name      string        `json:"name,omitempty"`
	Direction PortDirection `json:"direction"`
	Capacity  PortCapacity  `json:"capacity"`
}

// ExecResultKind tags the outcome of a node execution.
type ExecResultKind string

const (
	ResultContinue         ExecResultKind = "continue"
	ResultWait             ExecResultKind = "wait"
	ResultWaitForCondition ExecResultKind = "wait_for_condition"
	ResultWaitForInput     ExecResultKind = "wait_for_input"
	ResultEnd              ExecResultKind = "end"
)

// ChoiceOption is one selectable choice as presented to the player.
// Index is the choice's declared position on the node, which survives
// availability filtering and shuffling so selection never desyncs from
// the authored output ports.
type ChoiceOption struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Port  string `json:"port"`
}

// ExecResult is what a node returns from Execute. Port selects the
// outgoing connection (defaults to PortOutput when empty). The
// remaining fields carry the suspension payload for the matching kind.
type ExecResult struct {
	Kind      ExecResultKind
	Port      string
	Duration  time.Duration  // ResultWait: suspend this long
	Predicate func() bool    // ResultWaitForCondition: re-polled every tick
	Choices   []ChoiceOption // ResultWaitForInput: presented choice list
	Timeout   time.Duration  // ResultWaitForInput: auto-select deadline (0 = none)
	Default   int            // ResultWaitForInput: declared fallback index (-1 = none)
}

// Continue returns the plain continue result through the default port.
func Continue() ExecResult {
	return ExecResult{Kind: ResultContinue, Port: PortOutput}
}

// ContinueVia returns a continue result through a specific port.
func ContinueVia(port string) ExecResult {
	return ExecResult{Kind: ResultContinue, Port: port}
}

// ExecContext is the slice of the execution context visible to node
// behavior. The engine package provides the implementation.
type ExecContext interface {
	SetVariable(name string, v Value)
	GetVariable(name string, fallback Value) Value
	EvaluateCondition(c Condition) bool
	SetTemp(key string, v any)
	GetTemp(key string) (any, bool)
	MarkComplete()
	Completed() bool
}

// Node is a single authored story step. Implementations hold their
// variant-specific display data; the engine only drives this contract.
type Node interface {
	ID() string
	Kind() NodeKind
	Label() string
	InputPorts() []Port
	OutputPorts() []Port
	Breakpoint() bool
	SetBreakpoint(on bool)

	// OnEnter and OnExit are lifecycle hooks around Execute.
	OnEnter(ctx ExecContext)
	OnExit(ctx ExecContext)

	// Execute performs the node's behavior and declares how traversal
	// proceeds.
	Execute(ctx ExecContext) ExecResult

	// Validate returns human-readable problems with this node's
	// configuration. Called during full-graph validation.
	Validate() []string
}

// BaseNode carries the attributes shared by every node variant.
// Variants embed it and pick up the structural half of the Node
// contract.
type BaseNode struct {
	NodeID    string   `json:"id"`
	NodeKind  NodeKind `json:"kind"`
	NodeLabel string   `json:"label,omitempty"`
	Category  string   `json:"category,omitempty"`
	Inputs    []Port   `json:"inputs,omitempty"`
	Outputs   []Port   `json:"outputs,omitempty"`
	BreakFlag bool     `json:"breakpoint,omitempty"`
}

func (b *BaseNode) ID() string          { return b.NodeID }
func (b *BaseNode) Kind() NodeKind      { return b.NodeKind }
func (b *BaseNode) Label() string       { return b.NodeLabel }
func (b *BaseNode) InputPorts() []Port  { return b.Inputs }
func (b *BaseNode) OutputPorts() []Port { return b.Outputs }
func (b *BaseNode) Breakpoint() bool    { return b.BreakFlag }

func (b *BaseNode) SetBreakpoint(on bool) { b.BreakFlag = on }

// OnEnter is a no-op unless the variant overrides it.
func (b *BaseNode) OnEnter(ExecContext) {}

// OnExit is a no-op unless the variant overrides it.
func (b *BaseNode) OnExit(ExecContext) {}

// Validate reports base-level problems; variants extend it.
func (b *BaseNode) Validate() []string {
	var problems []string
	if b.NodeID == "" {
		problems = append(problems, "node has empty id")
	}
	return problems
}

// HasOutputPort reports whether the node declares the given output port.
func (b *BaseNode) HasOutputPort(id string) bool {
	for _, p := range b.Outputs {
		if p.ID == id {
			return true
		}
	}
	return false
}
