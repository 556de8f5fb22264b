package nodes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mverett/fabula/pkg/schema"
)

func TestBranchNode_Routes(t *testing.T) {
	n := NewBranch("check", schema.Condition{
		Variable: "brave",
		Operator: schema.OpIsTrue,
	})
	ctx := newExecStub()

	// Missing variable fails closed onto the false branch.
	assert.Equal(t, schema.PortFalse, n.Execute(ctx).Port)

	ctx.SetVariable("brave", schema.Bool(true))
	res := n.Execute(ctx)
	assert.Equal(t, schema.ResultContinue, res.Kind)
	assert.Equal(t, schema.PortTrue, res.Port)

	ctx.SetVariable("brave", schema.Bool(false))
	assert.Equal(t, schema.PortFalse, n.Execute(ctx).Port)
}

func TestBranchNode_Validate(t *testing.T) {
	assert.NotEmpty(t, NewBranch("b", schema.Condition{}).Validate())
	assert.NotEmpty(t, NewBranch("b", schema.Condition{Variable: "x"}).Validate())
	assert.Empty(t, NewBranch("b", schema.Condition{Variable: "x", Operator: schema.OpIsTrue}).Validate())
}

func TestGateNode_PredicateTracksVariables(t *testing.T) {
	n := NewGate("door", schema.Condition{
		Variable: "keys",
		Operator: schema.OpGreaterOrEqual,
		Compare:  schema.Int(3),
	})
	ctx := newExecStub()
	ctx.SetVariable("keys", schema.Int(1))

	res := n.Execute(ctx)
	require.Equal(t, schema.ResultWaitForCondition, res.Kind)
	require.NotNil(t, res.Predicate)

	assert.False(t, res.Predicate())
	ctx.SetVariable("keys", schema.Int(3))
	assert.True(t, res.Predicate(), "predicate re-reads live variables")
}

func TestWaitNode(t *testing.T) {
	res := NewWait("nap", 2*time.Second).Execute(newExecStub())
	assert.Equal(t, schema.ResultWait, res.Kind)
	assert.Equal(t, 2*time.Second, res.Duration)
	assert.Equal(t, schema.PortOutput, res.Port)

	assert.NotEmpty(t, NewWait("nap", 0).Validate())
	assert.Empty(t, NewWait("nap", time.Millisecond).Validate())
}

func TestDialogueNode(t *testing.T) {
	n := NewDialogue("say", "Guard", "Halt!")
	assert.Equal(t, schema.ResultContinue, n.Execute(newExecStub()).Kind)

	n.WaitForAck = true
	res := n.Execute(newExecStub())
	assert.Equal(t, schema.ResultWaitForInput, res.Kind)
	assert.Nil(t, res.Choices)
	assert.Equal(t, -1, res.Default)

	assert.NotEmpty(t, NewDialogue("say", "Guard", "").Validate())
}

func TestAudioNode(t *testing.T) {
	n := NewAudio("sting", "sfx/door")
	assert.Equal(t, float64(1), n.Volume)
	assert.Equal(t, schema.ResultContinue, n.Execute(newExecStub()).Kind)

	n.Block = true
	n.Duration = 500 * time.Millisecond
	res := n.Execute(newExecStub())
	assert.Equal(t, schema.ResultWait, res.Kind)
	assert.Equal(t, 500*time.Millisecond, res.Duration)

	assert.NotEmpty(t, NewAudio("sting", "").Validate())
	blocked := NewAudio("sting", "sfx/door")
	blocked.Block = true
	assert.NotEmpty(t, blocked.Validate(), "blocking audio needs a duration")
}

func TestCutsceneNode(t *testing.T) {
	timed := NewCutscene("intro", "scene/intro", 3*time.Second)
	res := timed.Execute(newExecStub())
	assert.Equal(t, schema.ResultWait, res.Kind)
	assert.Equal(t, 3*time.Second, res.Duration)

	open := NewCutscene("intro", "scene/intro", 0)
	res = open.Execute(newExecStub())
	assert.Equal(t, schema.ResultWaitForInput, res.Kind, "without a duration the host signals completion")

	assert.NotEmpty(t, NewCutscene("intro", "", 0).Validate())
}

func TestSetVariableNode_Set(t *testing.T) {
	ctx := newExecStub()
	n := NewSetVariable("name", "hero", schema.String("Aldric"))

	res := n.Execute(ctx)
	assert.Equal(t, schema.ResultContinue, res.Kind)
	assert.Equal(t, schema.String("Aldric"), ctx.vars["hero"])
}

func TestSetVariableNode_Add(t *testing.T) {
	tests := []struct {
		name    string
		initial schema.Value
		delta   schema.Value
		want    schema.Value
	}{
		{"int plus int stays int", schema.Int(10), schema.Int(-3), schema.Int(7)},
		{"int plus float widens", schema.Int(10), schema.Float(0.5), schema.Float(10.5)},
		{"float plus int", schema.Float(1.5), schema.Int(2), schema.Float(3.5)},
		{"missing starts from typed zero", schema.Value{}, schema.Int(5), schema.Int(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newExecStub()
			if !tt.initial.IsZeroValue() {
				ctx.SetVariable("gold", tt.initial)
			}
			NewSetVariable("pay", "gold", tt.delta).WithOp(MutateAdd).Execute(ctx)
			assert.Equal(t, tt.want, ctx.vars["gold"])
		})
	}
}

func TestSetVariableNode_AddNonNumericIsNoOp(t *testing.T) {
	ctx := newExecStub()
	ctx.SetVariable("hero", schema.String("Aldric"))

	NewSetVariable("pay", "hero", schema.Int(5)).WithOp(MutateAdd).Execute(ctx)
	assert.Equal(t, schema.String("Aldric"), ctx.vars["hero"])
}

func TestSetVariableNode_Toggle(t *testing.T) {
	ctx := newExecStub()
	ctx.SetVariable("alive", schema.Bool(true))

	n := NewSetVariable("flip", "alive", schema.Value{}).WithOp(MutateToggle)
	n.Execute(ctx)
	assert.Equal(t, schema.Bool(false), ctx.vars["alive"])
	n.Execute(ctx)
	assert.Equal(t, schema.Bool(true), ctx.vars["alive"])
}

func TestSetVariableNode_Validate(t *testing.T) {
	assert.NotEmpty(t, NewSetVariable("s", "", schema.Int(1)).Validate())
	assert.NotEmpty(t, NewSetVariable("s", "gold", schema.Value{}).Validate())
	assert.Empty(t, NewSetVariable("s", "gold", schema.Int(1)).Validate())
	assert.Empty(t, NewSetVariable("s", "alive", schema.Value{}).WithOp(MutateToggle).Validate())
}

func TestStartAndEndNodes(t *testing.T) {
	start := NewStart("start")
	assert.Empty(t, start.InputPorts())
	assert.Equal(t, schema.ResultContinue, start.Execute(newExecStub()).Kind)

	end := NewEnd("end")
	assert.Empty(t, end.OutputPorts())

	ctx := newExecStub()
	res := end.Execute(ctx)
	assert.Equal(t, schema.ResultEnd, res.Kind)
	assert.True(t, ctx.Completed())
}
