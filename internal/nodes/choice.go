package nodes

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mverett/fabula/pkg/schema"
)

// Choice is one selectable option on a ChoiceNode. Each choice owns a
// dedicated output port; an optional condition filters availability at
// run time.
type Choice struct {
	Text      string            `json:"text"`
	Port      string            `json:"port"`
	Condition *schema.Condition `json:"condition,omitempty"`
}

// ChoiceNode presents an ordered list of choices and suspends until
// the player selects one (or a timeout auto-selects the fallback).
//
// Selection is by index into the presented (availability-filtered,
// possibly shuffled) list; each option carries its declared index so
// the mapping back to the authored output port never desyncs.
type ChoiceNode struct {
	schema.BaseNode

	Prompt       string        `json:"prompt,omitempty"`
	Choices      []Choice      `json:"choices"`
	Shuffle      bool          `json:"shuffle,omitempty"`
	Timeout      time.Duration `json:"timeout,omitempty"`
	DefaultIndex int           `json:"default_index"`

	// rng is overridable for deterministic shuffle tests.
	rng *rand.Rand
}

// NewChoice creates a Choice node with no options and no timeout.
func NewChoice(id, prompt string) *ChoiceNode {
	return &ChoiceNode{
		BaseNode: schema.BaseNode{
			NodeID:   id,
			NodeKind: schema.KindChoice,
			Inputs:   defaultInput(),
		},
		Prompt:       prompt,
		DefaultIndex: -1,
	}
}

// AddChoice appends a choice and its output port, returning the node
// for chaining. The port ID is derived from the declared index.
func (n *ChoiceNode) AddChoice(text string, cond *schema.Condition) *ChoiceNode {
	port := ChoicePort(len(n.Choices))
	n.Choices = append(n.Choices, Choice{Text: text, Port: port, Condition: cond})
	n.Outputs = append(n.Outputs, schema.Port{
		ID:        port,
		Name:      text,
		Direction: schema.DirectionOutput,
		Capacity:  schema.CapacitySingle,
	})
	return n
}

// WithTimeout sets the auto-select timeout and the declared fallback
// index. A negative index falls back to the first available choice.
func (n *ChoiceNode) WithTimeout(d time.Duration, defaultIndex int) *ChoiceNode {
	n.Timeout = d
	n.DefaultIndex = defaultIndex
	return n
}

// WithShuffle enables shuffled presentation order.
func (n *ChoiceNode) WithShuffle() *ChoiceNode {
	n.Shuffle = true
	return n
}

// SeedShuffle fixes the shuffle RNG, for tests.
func (n *ChoiceNode) SeedShuffle(seed int64) *ChoiceNode {
	n.rng = rand.New(rand.NewSource(seed))
	return n
}

// ChoicePort derives the output port ID for a declared choice index.
func ChoicePort(index int) string {
	return fmt.Sprintf("choice_%d", index)
}

func (n *ChoiceNode) Execute(ctx schema.ExecContext) schema.ExecResult {
	presented := make([]schema.ChoiceOption, 0, len(n.Choices))
	for i, c := range n.Choices {
		if c.Condition != nil && !ctx.EvaluateCondition(*c.Condition) {
			continue
		}
		presented = append(presented, schema.ChoiceOption{Index: i, Text: c.Text, Port: c.Port})
	}

	if n.Shuffle && len(presented) > 1 {
		shuffle := rand.Shuffle
		if n.rng != nil {
			shuffle = n.rng.Shuffle
		}
		shuffle(len(presented), func(i, j int) {
			presented[i], presented[j] = presented[j], presented[i]
		})
	}

	return schema.ExecResult{
		Kind:    schema.ResultWaitForInput,
		Choices: presented,
		Timeout: n.Timeout,
		Default: n.DefaultIndex,
	}
}

func (n *ChoiceNode) Validate() []string {
	problems := n.BaseNode.Validate()
	if len(n.Choices) == 0 {
		problems = append(problems, "choice node "+n.NodeID+" has no choices")
	}
	if n.DefaultIndex >= len(n.Choices) {
		problems = append(problems, fmt.Sprintf("choice node %s default index %d out of range", n.NodeID, n.DefaultIndex))
	}
	return problems
}
