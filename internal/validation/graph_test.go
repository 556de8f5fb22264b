package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mverett/fabula/internal/nodes"
	"github.com/mverett/fabula/pkg/schema"
)

func validGraph(t *testing.T) *schema.Graph {
	t.Helper()

	g := schema.NewGraph("valid")
	require.NoError(t, g.AddNode(nodes.NewStart("start")))
	require.NoError(t, g.AddNode(nodes.NewDialogue("say", "Guard", "Halt!")))
	require.NoError(t, g.AddNode(nodes.NewEnd("end")))
	_, err := g.AddConnection("start", schema.PortOutput, "say", schema.PortInput)
	require.NoError(t, err)
	_, err = g.AddConnection("say", schema.PortOutput, "end", schema.PortInput)
	require.NoError(t, err)
	require.NoError(t, g.DeclareVariable(schema.Variable{Name: "gold", Type: schema.TypeInt, Default: schema.Int(10)}))
	return g
}

func TestValidateGraph_CleanGraph(t *testing.T) {
	assert.Empty(t, ValidateGraph(validGraph(t)))
}

func TestValidateGraph_Nil(t *testing.T) {
	assert.Equal(t, []string{"graph is nil"}, ValidateGraph(nil))
}

func TestValidateGraph_StartNodeCount(t *testing.T) {
	g := schema.NewGraph("no-start")
	require.NoError(t, g.AddNode(nodes.NewEnd("end")))
	problems := ValidateGraph(g)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "no start node")

	g = validGraph(t)
	require.NoError(t, g.AddNode(nodes.NewStart("start2")))
	problems = ValidateGraph(g)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "2 start nodes")
}

func TestValidateGraph_DuplicateNodeIDs(t *testing.T) {
	// AddNode rejects duplicates, so build the slice directly the way a
	// buggy importer might.
	g := validGraph(t)
	g.Nodes = append(g.Nodes, nodes.NewDialogue("say", "Guard", "Again!"))

	problems := ValidateGraph(g)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], `duplicate node id "say"`)
}

func TestValidateGraph_DanglingConnections(t *testing.T) {
	g := validGraph(t)
	g.Connections = append(g.Connections,
		&schema.Connection{ID: "c1", FromNode: "ghost", FromPort: schema.PortOutput, ToNode: "end", ToPort: schema.PortInput},
		&schema.Connection{ID: "c2", FromNode: "say", FromPort: "sidedoor", ToNode: "ghost", ToPort: schema.PortInput},
	)

	problems := ValidateGraph(g)
	require.Len(t, problems, 3)
	assert.Contains(t, problems[0], `missing source node "ghost"`)
	assert.Contains(t, problems[1], `missing output port "sidedoor"`)
	assert.Contains(t, problems[2], `missing target node "ghost"`)
}

func TestValidateGraph_Variables(t *testing.T) {
	g := validGraph(t)
	g.Variables = append(g.Variables,
		schema.Variable{Name: "gold", Type: schema.TypeInt},
		schema.Variable{Name: "mana", Type: "decimal"},
		schema.Variable{Type: schema.TypeInt},
	)

	problems := ValidateGraph(g)
	require.Len(t, problems, 3)
	assert.Contains(t, problems[0], `duplicate variable name "gold"`)
	assert.Contains(t, problems[1], `unknown type "decimal"`)
	assert.Contains(t, problems[2], "empty name")
}

func TestValidateGraph_CollectsNodeProblems(t *testing.T) {
	g := validGraph(t)
	require.NoError(t, g.AddNode(nodes.NewWait("nap", 0)))
	require.NoError(t, g.AddNode(nodes.NewChoice("pick", "?")))

	problems := ValidateGraph(g)
	assert.Contains(t, problems, "wait node nap has non-positive duration")
	assert.Contains(t, problems, "choice node pick has no choices")
}
