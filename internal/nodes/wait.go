package nodes

import (
	"time"

	"github.com/mverett/fabula/pkg/schema"
)

// WaitNode suspends the run for a fixed duration.
type WaitNode struct {
	schema.BaseNode

	Duration time.Duration `json:"duration"`
}

// NewWait creates a Wait node.
func NewWait(id string, d time.Duration) *WaitNode {
	return &WaitNode{
		BaseNode: schema.BaseNode{
			NodeID:   id,
			NodeKind: schema.KindWait,
			Inputs:   defaultInput(),
			Outputs:  defaultOutput(),
		},
		Duration: d,
	}
}

func (n *WaitNode) Execute(schema.ExecContext) schema.ExecResult {
	return schema.ExecResult{Kind: schema.ResultWait, Port: schema.PortOutput, Duration: n.Duration}
}

func (n *WaitNode) Validate() []string {
	problems := n.BaseNode.Validate()
	if n.Duration <= 0 {
		problems = append(problems, "wait node "+n.NodeID+" has non-positive duration")
	}
	return problems
}
