package engine

import "github.com/mverett/fabula/pkg/schema"

// portKey addresses a connection by its source node and output port.
type portKey struct {
	nodeID string
	portID string
}

// Cache is the derived, read-optimized index over a graph. It is built
// from a snapshot of the graph and is NOT kept in sync with later
// structural edits; callers rebuild explicitly after mutating.
//
// Every lookup that misses returns nil. The traversal engine relies on
// that to treat "no outgoing edge" as a normal dead end, not a fault.
type Cache struct {
	nodes  map[string]schema.Node
	conns  map[string]*schema.Connection
	byPort map[portKey]*schema.Connection
	from   map[string][]*schema.Connection
	to     map[string][]*schema.Connection
	start  schema.Node
}

// BuildCache indexes the graph.
func BuildCache(g *schema.Graph) *Cache {
	c := &Cache{}
	c.Rebuild(g)
	return c
}

// Rebuild re-indexes the graph from scratch.
func (c *Cache) Rebuild(g *schema.Graph) {
	c.nodes = make(map[string]schema.Node, len(g.Nodes))
	c.conns = make(map[string]*schema.Connection, len(g.Connections))
	c.byPort = make(map[portKey]*schema.Connection, len(g.Connections))
	c.from = make(map[string][]*schema.Connection)
	c.to = make(map[string][]*schema.Connection)
	c.start = nil

	for _, n := range g.Nodes {
		c.nodes[n.ID()] = n
		if c.start == nil && n.Kind() == schema.KindStart {
			c.start = n
		}
	}
	for _, conn := range g.Connections {
		c.conns[conn.ID] = conn
		key := portKey{conn.FromNode, conn.FromPort}
		if _, taken := c.byPort[key]; !taken {
			c.byPort[key] = conn
		}
		c.from[conn.FromNode] = append(c.from[conn.FromNode], conn)
		c.to[conn.ToNode] = append(c.to[conn.ToNode], conn)
	}
}

// Node returns the node with the given ID, or nil.
func (c *Cache) Node(id string) schema.Node {
	return c.nodes[id]
}

// Connection returns the connection with the given ID, or nil.
func (c *Cache) Connection(id string) *schema.Connection {
	return c.conns[id]
}

// ConnectionFrom returns the connection leaving (nodeID, portID), or
// nil.
func (c *Cache) ConnectionFrom(nodeID, portID string) *schema.Connection {
	return c.byPort[portKey{nodeID, portID}]
}

// ConnectedNode follows the connection leaving (nodeID, portID) and
// returns the target node, or nil. One index probe plus one node probe.
func (c *Cache) ConnectedNode(nodeID, portID string) schema.Node {
	conn := c.byPort[portKey{nodeID, portID}]
	if conn == nil {
		return nil
	}
	return c.nodes[conn.ToNode]
}

// ConnectionsFrom returns all connections leaving the node.
func (c *Cache) ConnectionsFrom(nodeID string) []*schema.Connection {
	return c.from[nodeID]
}

// ConnectionsTo returns all connections entering the node.
func (c *Cache) ConnectionsTo(nodeID string) []*schema.Connection {
	return c.to[nodeID]
}

// StartNode returns the cached start node, or nil.
func (c *Cache) StartNode() schema.Node {
	return c.start
}
