package dsl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mverett/fabula/pkg/schema"
)

func TestBuilder_BuildsTraversableGraph(t *testing.T) {
	b := New("tavern").
		Describe("A short scene in the tavern.").
		Var("gold", schema.Int(12)).
		Var("brave", schema.Bool(false))

	b.Start("start").Go("greet")
	b.Dialogue("greet", "Innkeep", "What'll it be?").Go("order")
	b.Choice("order", "Pick your poison").
		Option("Ale", "pay").
		OptionIf("The good stuff", "pay", &schema.Condition{
			Variable: "gold",
			Operator: schema.OpGreaterOrEqual,
			Compare:  schema.Int(10),
		}).
		Timeout(15*time.Second, 0)
	b.Set("pay", "gold", schema.Int(-2)).Add().Go("check")
	b.Branch("check", schema.Condition{Variable: "gold", Operator: schema.OpGreaterThan, Compare: schema.Int(0)}).
		True("farewell").
		False("broke")
	b.Dialogue("farewell", "Innkeep", "Safe travels.").Go("end")
	b.Dialogue("broke", "Innkeep", "Come back with coin.").Go("end")
	b.End("end")

	g, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "tavern", g.Name)
	assert.Equal(t, "A short scene in the tavern.", g.Description)
	assert.Len(t, g.Nodes, 8)
	assert.Len(t, g.Variables, 2)
	assert.Len(t, g.Connections, 9)

	// Choice options own one output port each, wired in declared order.
	assert.Equal(t, "pay", g.ConnectedNode("order", "choice_0").ID())
	assert.Equal(t, "pay", g.ConnectedNode("order", "choice_1").ID())
	assert.Equal(t, "farewell", g.ConnectedNode("check", schema.PortTrue).ID())
	assert.Equal(t, "broke", g.ConnectedNode("check", schema.PortFalse).ID())
}

func TestBuilder_AllVariantsBuild(t *testing.T) {
	b := New("kitchen-sink").Var("ready", schema.Bool(false))
	b.Start("start").Go("scene")
	b.Cutscene("scene", "scene/intro", 2*time.Second).Go("sting")
	b.Audio("sting", "sfx/horn").Blocking(time.Second).Volume(0.5).Go("nap")
	b.Wait("nap", 3*time.Second).Go("door")
	b.Gate("door", schema.Condition{Variable: "ready", Operator: schema.OpIsTrue}).Go("flip")
	b.Set("flip", "ready", schema.Value{}).Toggle().Go("end")
	b.End("end")

	g, err := b.Build()
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 7)
}

func TestBuilder_AccumulatesErrors(t *testing.T) {
	b := New("broken").
		Var("gold", schema.Int(1)).
		Var("gold", schema.Int(2))
	b.Start("start").Go("ghost")
	b.Dialogue("start", "X", "duplicate id")

	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `variable "gold" already declared`)
	assert.Contains(t, err.Error(), `node "start" already exists`)
	assert.Contains(t, err.Error(), `"ghost" not found`)
}

func TestBuilder_SurfacesValidationProblems(t *testing.T) {
	b := New("unstartable")
	b.Dialogue("say", "X", "no entry point").Go("end")
	b.End("end")

	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no start node")
}

func TestBuilder_ExplicitConnect(t *testing.T) {
	b := New("manual")
	b.Start("start")
	b.End("end")
	b.Connect("start", schema.PortOutput, "end")

	g, err := b.Build()
	require.NoError(t, err)
	require.Len(t, g.Connections, 1)
	assert.Equal(t, "end", g.ConnectedNode("start", schema.PortOutput).ID())
}

func TestMustBuild_PanicsOnError(t *testing.T) {
	assert.Panics(t, func() {
		New("empty").MustBuild()
	})
	assert.NotPanics(t, func() {
		b := New("tiny")
		b.Start("start").Go("end")
		b.End("end")
		b.MustBuild()
	})
}
