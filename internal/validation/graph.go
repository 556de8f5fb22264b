// Package validation performs full-graph structural validation.
// It runs before a graph is handed to the traversal engine; nothing
// here is ever raised during traversal itself.
package validation

import (
	"fmt"

	"github.com/mverett/fabula/pkg/schema"
)

// ValidateGraph checks a graph's structural invariants and returns a
// list of human-readable problems. An empty list means the graph is
// traversable.
func ValidateGraph(g *schema.Graph) []string {
	var problems []string

	if g == nil {
		return []string{"graph is nil"}
	}

	problems = append(problems, checkStartNode(g)...)
	problems = append(problems, checkNodeIDs(g)...)
	problems = append(problems, checkConnections(g)...)
	problems = append(problems, checkVariables(g)...)

	// Per-node custom validation.
	for _, n := range g.Nodes {
		problems = append(problems, n.Validate()...)
	}

	return problems
}

// checkStartNode flags zero or multiple Start nodes: traversal needs
// exactly one deterministic entry point.
func checkStartNode(g *schema.Graph) []string {
	starts := g.NodesOfKind(schema.KindStart)
	switch len(starts) {
	case 0:
		return []string{fmt.Sprintf("graph %q has no start node", g.Name)}
	case 1:
		return nil
	default:
		return []string{fmt.Sprintf("graph %q has %d start nodes, expected exactly one", g.Name, len(starts))}
	}
}

func checkNodeIDs(g *schema.Graph) []string {
	var problems []string
	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		id := n.ID()
		if id == "" {
			continue // reported by the node's own Validate
		}
		if seen[id] {
			problems = append(problems, fmt.Sprintf("duplicate node id %q", id))
		}
		seen[id] = true
	}
	return problems
}

// checkConnections flags endpoints referencing nodes or ports that do
// not exist.
func checkConnections(g *schema.Graph) []string {
	var problems []string
	for _, c := range g.Connections {
		from := g.NodeByID(c.FromNode)
		if from == nil {
			problems = append(problems, fmt.Sprintf("connection %s references missing source node %q", c.ID, c.FromNode))
		} else if !portExists(from.OutputPorts(), c.FromPort) {
			problems = append(problems, fmt.Sprintf("connection %s references missing output port %q on node %q", c.ID, c.FromPort, c.FromNode))
		}

		to := g.NodeByID(c.ToNode)
		if to == nil {
			problems = append(problems, fmt.Sprintf("connection %s references missing target node %q", c.ID, c.ToNode))
		} else if !portExists(to.InputPorts(), c.ToPort) {
			problems = append(problems, fmt.Sprintf("connection %s references missing input port %q on node %q", c.ID, c.ToPort, c.ToNode))
		}
	}
	return problems
}

func checkVariables(g *schema.Graph) []string {
	var problems []string
	seen := make(map[string]bool, len(g.Variables))
	for _, v := range g.Variables {
		if v.Name == "" {
			problems = append(problems, "variable declared with empty name")
			continue
		}
		if seen[v.Name] {
			problems = append(problems, fmt.Sprintf("duplicate variable name %q", v.Name))
		}
		seen[v.Name] = true

		switch v.Type {
		case schema.TypeString, schema.TypeFloat, schema.TypeInt, schema.TypeBool:
		default:
			problems = append(problems, fmt.Sprintf("variable %q has unknown type %q", v.Name, v.Type))
		}
	}
	return problems
}

func portExists(ports []schema.Port, id string) bool {
	for _, p := range ports {
		if p.ID == id {
			return true
		}
	}
	return false
}
