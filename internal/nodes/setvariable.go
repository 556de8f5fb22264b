package nodes

import "github.com/mverett/fabula/pkg/schema"

// MutationOp enumerates the mutations a SetVariable node can apply.
type MutationOp string

const (
	// MutateSet overwrites the variable with the literal value.
	MutateSet MutationOp = "set"
	// MutateAdd adds the numeric value to the current one.
	MutateAdd MutationOp = "add"
	// MutateToggle flips a boolean variable.
	MutateToggle MutationOp = "toggle"
)

// SetVariableNode mutates one variable and continues immediately.
type SetVariableNode struct {
	schema.BaseNode

	Variable string       `json:"variable"`
	Op       MutationOp   `json:"op"`
	Value    schema.Value `json:"value,omitempty"`
}

// NewSetVariable creates a SetVariable node with the plain set mutation.
func NewSetVariable(id, variable string, value schema.Value) *SetVariableNode {
	return &SetVariableNode{
		BaseNode: schema.BaseNode{
			NodeID:   id,
			NodeKind: schema.KindSetVariable,
			Inputs:   defaultInput(),
			Outputs:  defaultOutput(),
		},
		Variable: variable,
		Op:       MutateSet,
		Value:    value,
	}
}

// WithOp overrides the mutation operation.
func (n *SetVariableNode) WithOp(op MutationOp) *SetVariableNode {
	n.Op = op
	return n
}

func (n *SetVariableNode) Execute(ctx schema.ExecContext) schema.ExecResult {
	switch n.Op {
	case MutateAdd:
		// An untyped fallback returns the stored value as-is, keeping
		// the variable's own type visible.
		current := ctx.GetVariable(n.Variable, schema.Value{})
		if current.IsZeroValue() {
			current = schema.Zero(n.Value.Type)
		}
		cur, ok1 := current.AsFloat()
		delta, ok2 := n.Value.AsFloat()
		if ok1 && ok2 {
			// Keep integer variables integral.
			if current.Type == schema.TypeInt && n.Value.Type != schema.TypeFloat {
				ci, _ := current.AsInt()
				di, _ := n.Value.AsInt()
				ctx.SetVariable(n.Variable, schema.Int(ci+di))
			} else {
				ctx.SetVariable(n.Variable, schema.Float(cur+delta))
			}
		}
	case MutateToggle:
		current := ctx.GetVariable(n.Variable, schema.Bool(false))
		b, ok := current.AsBool()
		if ok {
			ctx.SetVariable(n.Variable, schema.Bool(!b))
		}
	default:
		ctx.SetVariable(n.Variable, n.Value)
	}
	return schema.Continue()
}

func (n *SetVariableNode) Validate() []string {
	problems := n.BaseNode.Validate()
	if n.Variable == "" {
		problems = append(problems, "set_variable node "+n.NodeID+" has no target variable")
	}
	if n.Op == MutateSet && n.Value.IsZeroValue() {
		problems = append(problems, "set_variable node "+n.NodeID+" sets an untyped value")
	}
	return problems
}
