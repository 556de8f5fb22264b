package nodes

import "github.com/mverett/fabula/pkg/schema"

// BranchNode evaluates its condition against the run's variables and
// routes through the "true" or "false" port. Evaluation is fail-closed,
// so a missing variable or a type mismatch takes the false branch.
type BranchNode struct {
	schema.BaseNode

	Condition schema.Condition `json:"condition"`
}

// NewBranch creates a Branch node.
func NewBranch(id string, cond schema.Condition) *BranchNode {
	return &BranchNode{
		BaseNode: schema.BaseNode{
			NodeID:   id,
			NodeKind: schema.KindBranch,
			Inputs:   defaultInput(),
			Outputs: []schema.Port{
				{ID: schema.PortTrue, Name: "True", Direction: schema.DirectionOutput, Capacity: schema.CapacitySingle},
				{ID: schema.PortFalse, Name: "False", Direction: schema.DirectionOutput, Capacity: schema.CapacitySingle},
			},
		},
		Condition: cond,
	}
}

func (n *BranchNode) Execute(ctx schema.ExecContext) schema.ExecResult {
	if ctx.EvaluateCondition(n.Condition) {
		return schema.ContinueVia(schema.PortTrue)
	}
	return schema.ContinueVia(schema.PortFalse)
}

func (n *BranchNode) Validate() []string {
	problems := n.BaseNode.Validate()
	if n.Condition.Variable == "" {
		problems = append(problems, "branch node "+n.NodeID+" has no condition variable")
	}
	if n.Condition.Operator == "" {
		problems = append(problems, "branch node "+n.NodeID+" has no condition operator")
	}
	return problems
}
