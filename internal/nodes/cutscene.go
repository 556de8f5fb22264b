package nodes

import (
	"time"

	"github.com/mverett/fabula/pkg/schema"
)

// CutsceneNode hands control to the presentation layer for a scripted
// sequence. With a duration it suspends for that long; without one it
// waits for the host to signal the cutscene finished.
type CutsceneNode struct {
	schema.BaseNode

	SceneID  string        `json:"scene_id"`
	Duration time.Duration `json:"duration,omitempty"`
}

// NewCutscene creates a Cutscene node.
func NewCutscene(id, sceneID string, duration time.Duration) *CutsceneNode {
	return &CutsceneNode{
		BaseNode: schema.BaseNode{
			NodeID:   id,
			NodeKind: schema.KindCutscene,
			Inputs:   defaultInput(),
			Outputs:  defaultOutput(),
		},
		SceneID:  sceneID,
		Duration: duration,
	}
}

func (n *CutsceneNode) Execute(schema.ExecContext) schema.ExecResult {
	if n.Duration > 0 {
		return schema.ExecResult{Kind: schema.ResultWait, Port: schema.PortOutput, Duration: n.Duration}
	}
	return schema.ExecResult{Kind: schema.ResultWaitForInput, Port: schema.PortOutput, Default: -1}
}

func (n *CutsceneNode) Validate() []string {
	problems := n.BaseNode.Validate()
	if n.SceneID == "" {
		problems = append(problems, "cutscene node "+n.NodeID+" has empty scene id")
	}
	return problems
}
