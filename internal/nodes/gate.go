package nodes

import "github.com/mverett/fabula/pkg/schema"

// GateNode suspends the run until its condition holds. The condition
// is re-evaluated against the run's variables on every scheduler tick.
type GateNode struct {
	schema.BaseNode

	Condition schema.Condition `json:"condition"`
}

// NewGate creates a Gate node.
func NewGate(id string, cond schema.Condition) *GateNode {
	return &GateNode{
		BaseNode: schema.BaseNode{
			NodeID:   id,
			NodeKind: schema.KindGate,
			Inputs:   defaultInput(),
			Outputs:  defaultOutput(),
		},
		Condition: cond,
	}
}

func (n *GateNode) Execute(ctx schema.ExecContext) schema.ExecResult {
	cond := n.Condition
	return schema.ExecResult{
		Kind: schema.ResultWaitForCondition,
		Port: schema.PortOutput,
		Predicate: func() bool {
			return ctx.EvaluateCondition(cond)
		},
	}
}

func (n *GateNode) Validate() []string {
	problems := n.BaseNode.Validate()
	if n.Condition.Variable == "" {
		problems = append(problems, "gate node "+n.NodeID+" has no condition variable")
	}
	return problems
}
