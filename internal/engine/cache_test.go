package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mverett/fabula/internal/nodes"
	"github.com/mverett/fabula/pkg/schema"
)

func cacheGraph(t *testing.T) *schema.Graph {
	t.Helper()
	g := schema.NewGraph("cached")
	require.NoError(t, g.AddNode(nodes.NewStart("start")))
	require.NoError(t, g.AddNode(nodes.NewBranch("check", schema.Condition{Variable: "x", Operator: schema.OpIsTrue})))
	require.NoError(t, g.AddNode(nodes.NewEnd("win")))
	require.NoError(t, g.AddNode(nodes.NewEnd("lose")))
	mustConnect(t, g, "start", schema.PortOutput, "check")
	mustConnect(t, g, "check", schema.PortTrue, "win")
	mustConnect(t, g, "check", schema.PortFalse, "lose")
	return g
}

func TestCache_Lookups(t *testing.T) {
	g := cacheGraph(t)
	c := BuildCache(g)

	require.NotNil(t, c.Node("check"))
	assert.Nil(t, c.Node("missing"))

	assert.Equal(t, "win", c.ConnectedNode("check", schema.PortTrue).ID())
	assert.Equal(t, "lose", c.ConnectedNode("check", schema.PortFalse).ID())
	assert.Nil(t, c.ConnectedNode("check", "no_such_port"))
	assert.Nil(t, c.ConnectedNode("win", schema.PortOutput))

	assert.Equal(t, "start", c.StartNode().ID())
	assert.Len(t, c.ConnectionsFrom("check"), 2)
	assert.Len(t, c.ConnectionsTo("win"), 1)
	assert.Empty(t, c.ConnectionsTo("start"))
}

func TestCache_AgreesWithGraphQueries(t *testing.T) {
	g := cacheGraph(t)
	c := BuildCache(g)

	for _, n := range g.Nodes {
		assert.Equal(t, g.NodeByID(n.ID()), c.Node(n.ID()))
	}
	for _, conn := range g.Connections {
		assert.Equal(t, conn, c.ConnectionFrom(conn.FromNode, conn.FromPort))
		assert.Equal(t, conn, c.Connection(conn.ID))
	}
	assert.Equal(t, g.StartNode(), c.StartNode())
}

func TestCache_RebuildReflectsMutation(t *testing.T) {
	g := cacheGraph(t)
	c := BuildCache(g)

	require.NoError(t, g.AddNode(nodes.NewDialogue("extra", "N", "hi")))
	_, err := g.AddConnection("win", schema.PortOutput, "extra", schema.PortInput)
	require.Error(t, err) // end nodes have no output ports

	// The cache is stale until rebuilt.
	assert.Nil(t, c.Node("extra"))
	c.Rebuild(g)
	assert.NotNil(t, c.Node("extra"))

	require.True(t, g.RemoveNode("extra"))
	c.Rebuild(g)
	assert.Nil(t, c.Node("extra"))
}
