package main

import (
	"time"

	"github.com/mverett/fabula/pkg/dsl"
	"github.com/mverett/fabula/pkg/schema"
)

// demoGraph builds the built-in sample story used by the play and
// validate commands.
func demoGraph() (*schema.Graph, error) {
	b := dsl.New("the-gate").
		Describe("A short sample story: talk your way past the village gate.").
		Var("gold", schema.Int(10)).
		Var("brave", schema.Bool(false))

	b.Start("start").Go("intro")

	b.Dialogue("intro", "Guard", "Halt! The gate is closed for the night.").Ack().Go("offer")

	hasGold := &schema.Condition{
		Variable: "gold",
		Operator: schema.OpGreaterOrEqual,
		Compare:  schema.Int(10),
	}
	b.Choice("offer", "What do you do?").
		Option("Draw your sword", "arm").
		Option("Wait for morning", "camp").
		OptionIf("Offer 10 gold", "bribe", hasGold).
		Timeout(30*time.Second, 1)

	b.Set("arm", "brave", schema.Bool(true)).Go("fight")
	b.Dialogue("fight", "Guard", "So be it. Steel it is!").Go("courage")
	b.Branch("courage", schema.Condition{
		Variable: "brave",
		Operator: schema.OpIsTrue,
	}).True("win").False("lose")
	b.Dialogue("win", "Narrator", "You disarm the guard and stride through the gate.").Go("end")
	b.Dialogue("lose", "Narrator", "Your nerve fails. You back away into the dark.").Go("end")

	b.Wait("camp", 2*time.Second).Go("morning")
	b.Dialogue("morning", "Narrator", "Dawn breaks. The gate creaks open.").Go("end")

	b.Set("bribe", "gold", schema.Int(-10)).Add().Go("bribed")
	b.Dialogue("bribed", "Guard", "Pleasure doing business. In you go.").Go("end")

	b.End("end")

	return b.Build()
}
