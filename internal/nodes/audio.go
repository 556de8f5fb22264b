package nodes

import (
	"time"

	"github.com/mverett/fabula/pkg/schema"
)

// AudioNode cues a sound on the presentation layer. Non-blocking by
// default; with Block set it suspends for the clip duration.
type AudioNode struct {
	schema.BaseNode

	ClipID   string        `json:"clip_id"`
	Volume   float64       `json:"volume,omitempty"`
	Block    bool          `json:"block,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

// NewAudio creates an Audio node.
func NewAudio(id, clipID string) *AudioNode {
	return &AudioNode{
		BaseNode: schema.BaseNode{
			NodeID:   id,
			NodeKind: schema.KindAudio,
			Inputs:   defaultInput(),
			Outputs:  defaultOutput(),
		},
		ClipID: clipID,
		Volume: 1,
	}
}

func (n *AudioNode) Execute(schema.ExecContext) schema.ExecResult {
	if n.Block && n.Duration > 0 {
		return schema.ExecResult{Kind: schema.ResultWait, Port: schema.PortOutput, Duration: n.Duration}
	}
	return schema.Continue()
}

func (n *AudioNode) Validate() []string {
	problems := n.BaseNode.Validate()
	if n.ClipID == "" {
		problems = append(problems, "audio node "+n.NodeID+" has empty clip id")
	}
	if n.Block && n.Duration <= 0 {
		problems = append(problems, "audio node "+n.NodeID+" blocks but has no duration")
	}
	return problems
}
