package nodes

import "github.com/mverett/fabula/pkg/schema"

// StartNode is the traversal entry point. It has no input ports and
// passes straight through.
type StartNode struct {
	schema.BaseNode
}

// NewStart creates a Start node.
func NewStart(id string) *StartNode {
	return &StartNode{
		BaseNode: schema.BaseNode{
			NodeID:   id,
			NodeKind: schema.KindStart,
			Outputs:  defaultOutput(),
		},
	}
}

func (n *StartNode) Execute(schema.ExecContext) schema.ExecResult {
	return schema.Continue()
}
