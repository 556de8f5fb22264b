package nodes

import "github.com/mverett/fabula/pkg/schema"

// EndNode terminates the run explicitly. Reaching it marks the context
// complete, so story-ended fires with success=true.
type EndNode struct {
	schema.BaseNode
}

// NewEnd creates an End node.
func NewEnd(id string) *EndNode {
	return &EndNode{
		BaseNode: schema.BaseNode{
			NodeID:   id,
			NodeKind: schema.KindEnd,
			Inputs:   defaultInput(),
		},
	}
}

func (n *EndNode) Execute(ctx schema.ExecContext) schema.ExecResult {
	ctx.MarkComplete()
	return schema.ExecResult{Kind: schema.ResultEnd}
}
