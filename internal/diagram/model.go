// Package diagram renders story graphs as Mermaid flowcharts or PNG
// images for inspection and documentation.
package diagram

import (
	"github.com/mverett/fabula/pkg/schema"
)

// Model is the intermediate representation used by all renderers.
type Model struct {
	Title string
	Nodes []Node
	Edges []Edge
}

// Node is a single story node in the diagram.
type Node struct {
	ID    string
	Label string
	Kind  schema.NodeKind
}

// Edge is a connection between two nodes. Label carries the output
// port when it is informative (branch and choice edges).
type Edge struct {
	From  string
	To    string
	Label string
}

// FromGraph builds a diagram model from a story graph. Node order and
// connection order follow the graph's declaration order.
func FromGraph(g *schema.Graph) *Model {
	m := &Model{Title: g.Name}

	for _, n := range g.Nodes {
		label := n.Label()
		if label == "" {
			label = n.ID()
		}
		m.Nodes = append(m.Nodes, Node{ID: n.ID(), Label: label, Kind: n.Kind()})
	}

	for _, c := range g.Connections {
		label := c.FromPort
		if label == schema.PortOutput {
			label = ""
		}
		m.Edges = append(m.Edges, Edge{From: c.FromNode, To: c.ToNode, Label: label})
	}

	return m
}
