package schema

import "github.com/google/uuid"

// Variable declares a named, typed default on a graph. The declaration
// seeds each run's live store and is never mutated by execution.
type Variable struct {
	Name    string       `json:"name"`
	Type    VariableType `json:"type"`
	Default Value        `json:"default"`
}

// Connection is a directed edge from one node's output port to another
// node's input port. It has its own identity so caches and tooling can
// address it directly.
type Connection struct {
	ID       string `json:"id"`
	FromNode string `json:"from_node"`
	FromPort string `json:"from_port"`
	ToNode   string `json:"to_node"`
	ToPort   string `json:"to_port"`
}

// Graph owns an ordered collection of nodes plus the connections and
// variable declarations between them. Display metadata is retained for
// round-trip fidelity only; execution never reads it.
//
// The graph itself answers structural queries in O(n). Traversal goes
// through the lookup cache instead.
type Graph struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	ViewOffsetX float64 `json:"view_offset_x,omitempty"`
	ViewOffsetY float64 `json:"view_offset_y,omitempty"`
	ViewScale   float64 `json:"view_scale,omitempty"`

	Nodes       []Node        `json:"nodes"`
	Connections []*Connection `json:"connections"`
	Variables   []Variable    `json:"variables,omitempty"`
}

// NewGraph creates an empty graph.
func NewGraph(name string) *Graph {
	return &Graph{Name: name, ViewScale: 1}
}

// AddNode appends a node. Node IDs are immutable and must be unique
// within the graph.
func (g *Graph) AddNode(n Node) error {
	if n == nil {
		return NewError(ErrCodeValidation, "node is nil")
	}
	if n.ID() == "" {
		return NewError(ErrCodeValidation, "node has empty id")
	}
	if g.NodeByID(n.ID()) != nil {
		return NewErrorf(ErrCodeConflict, "node %q already exists", n.ID())
	}
	g.Nodes = append(g.Nodes, n)
	return nil
}

// RemoveNode removes a node and every connection touching it. The
// connections go first so no dangling endpoint is ever observable.
func (g *Graph) RemoveNode(id string) bool {
	idx := -1
	for i, n := range g.Nodes {
		if n.ID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	kept := g.Connections[:0]
	for _, c := range g.Connections {
		if c.FromNode == id || c.ToNode == id {
			continue
		}
		kept = append(kept, c)
	}
	g.Connections = kept

	g.Nodes = append(g.Nodes[:idx], g.Nodes[idx+1:]...)
	return true
}

// AddConnection links an output port to an input port. Both endpoints
// must exist in this graph and the four-tuple must be unique.
func (g *Graph) AddConnection(fromNode, fromPort, toNode, toPort string) (*Connection, error) {
	from := g.NodeByID(fromNode)
	if from == nil {
		return nil, NewErrorf(ErrCodeNotFound, "connection source node %q not found", fromNode)
	}
	to := g.NodeByID(toNode)
	if to == nil {
		return nil, NewErrorf(ErrCodeNotFound, "connection target node %q not found", toNode)
	}
	if !hasPort(from.OutputPorts(), fromPort) {
		return nil, NewErrorf(ErrCodeNotFound, "node %q has no output port %q", fromNode, fromPort).WithNode(fromNode)
	}
	if !hasPort(to.InputPorts(), toPort) {
		return nil, NewErrorf(ErrCodeNotFound, "node %q has no input port %q", toNode, toPort).WithNode(toNode)
	}
	for _, c := range g.Connections {
		if c.FromNode == fromNode && c.FromPort == fromPort && c.ToNode == toNode && c.ToPort == toPort {
			return nil, NewErrorf(ErrCodeConflict, "duplicate connection %s:%s -> %s:%s", fromNode, fromPort, toNode, toPort)
		}
	}

	conn := &Connection{
		ID:       uuid.NewString(),
		FromNode: fromNode,
		FromPort: fromPort,
		ToNode:   toNode,
		ToPort:   toPort,
	}
	g.Connections = append(g.Connections, conn)
	return conn, nil
}

// RemoveConnection removes a connection by ID.
func (g *Graph) RemoveConnection(id string) bool {
	for i, c := range g.Connections {
		if c.ID == id {
			g.Connections = append(g.Connections[:i], g.Connections[i+1:]...)
			return true
		}
	}
	return false
}

// DeclareVariable adds a variable declaration. Names are unique within
// the graph.
func (g *Graph) DeclareVariable(v Variable) error {
	if v.Name == "" {
		return NewError(ErrCodeValidation, "variable has empty name")
	}
	for _, existing := range g.Variables {
		if existing.Name == v.Name {
			return NewErrorf(ErrCodeConflict, "variable %q already declared", v.Name)
		}
	}
	if v.Default.IsZeroValue() {
		v.Default = Zero(v.Type)
	}
	g.Variables = append(g.Variables, v)
	return nil
}

// RemoveVariable removes a variable declaration by name.
func (g *Graph) RemoveVariable(name string) bool {
	for i, v := range g.Variables {
		if v.Name == name {
			g.Variables = append(g.Variables[:i], g.Variables[i+1:]...)
			return true
		}
	}
	return false
}

// NodeByID returns the node with the given ID, or nil.
func (g *Graph) NodeByID(id string) Node {
	for _, n := range g.Nodes {
		if n.ID() == id {
			return n
		}
	}
	return nil
}

// NodesOfKind returns all nodes of the given kind, in declaration order.
func (g *Graph) NodesOfKind(kind NodeKind) []Node {
	var out []Node
	for _, n := range g.Nodes {
		if n.Kind() == kind {
			out = append(out, n)
		}
	}
	return out
}

// StartNode returns the first Start node, or nil if none exists.
// Validation flags zero-or-multiple Start nodes; this query stays
// permissive.
func (g *Graph) StartNode() Node {
	for _, n := range g.Nodes {
		if n.Kind() == KindStart {
			return n
		}
	}
	return nil
}

// ConnectionsFrom returns all connections leaving the given node.
func (g *Graph) ConnectionsFrom(nodeID string) []*Connection {
	var out []*Connection
	for _, c := range g.Connections {
		if c.FromNode == nodeID {
			out = append(out, c)
		}
	}
	return out
}

// ConnectionsTo returns all connections entering the given node.
func (g *Graph) ConnectionsTo(nodeID string) []*Connection {
	var out []*Connection
	for _, c := range g.Connections {
		if c.ToNode == nodeID {
			out = append(out, c)
		}
	}
	return out
}

// ConnectionFrom returns the connection leaving the given output port,
// or nil.
func (g *Graph) ConnectionFrom(nodeID, portID string) *Connection {
	for _, c := range g.Connections {
		if c.FromNode == nodeID && c.FromPort == portID {
			return c
		}
	}
	return nil
}

// ConnectedNode follows the connection leaving the given output port
// and returns the node on the other end, or nil.
func (g *Graph) ConnectedNode(nodeID, portID string) Node {
	c := g.ConnectionFrom(nodeID, portID)
	if c == nil {
		return nil
	}
	return g.NodeByID(c.ToNode)
}

func hasPort(ports []Port, id string) bool {
	for _, p := range ports {
		if p.ID == id {
			return true
		}
	}
	return false
}
