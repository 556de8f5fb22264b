package nodes

import "github.com/mverett/fabula/pkg/schema"

// DialogueNode displays a line of dialogue. The presentation layer
// reads Speaker/Text off the current node when node-entered fires.
//
// By default the line auto-advances (Continue); set WaitForAck to hold
// the run until the player acknowledges (WaitForInput).
type DialogueNode struct {
	schema.BaseNode

	Speaker    string `json:"speaker,omitempty"`
	Text       string `json:"text"`
	WaitForAck bool   `json:"wait_for_ack,omitempty"`
}

// NewDialogue creates a Dialogue node.
func NewDialogue(id, speaker, text string) *DialogueNode {
	return &DialogueNode{
		BaseNode: schema.BaseNode{
			NodeID:   id,
			NodeKind: schema.KindDialogue,
			Inputs:   defaultInput(),
			Outputs:  defaultOutput(),
		},
		Speaker: speaker,
		Text:    text,
	}
}

func (n *DialogueNode) Execute(schema.ExecContext) schema.ExecResult {
	if n.WaitForAck {
		return schema.ExecResult{Kind: schema.ResultWaitForInput, Port: schema.PortOutput, Default: -1}
	}
	return schema.Continue()
}

func (n *DialogueNode) Validate() []string {
	problems := n.BaseNode.Validate()
	if n.Text == "" {
		problems = append(problems, "dialogue node "+n.NodeID+" has empty text")
	}
	return problems
}
