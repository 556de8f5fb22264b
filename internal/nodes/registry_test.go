package nodes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mverett/fabula/pkg/schema"
)

func TestRegistry_RegisterAndNew(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(schema.KindWait, func(id string) schema.Node { return NewWait(id, 0) }))
	assert.True(t, r.Has(schema.KindWait))
	assert.False(t, r.Has(schema.KindGate))

	n, err := r.New(schema.KindWait, "w1")
	require.NoError(t, err)
	assert.Equal(t, "w1", n.ID())
	assert.Equal(t, schema.KindWait, n.Kind())
}

func TestRegistry_RejectsBadRegistrations(t *testing.T) {
	r := NewRegistry()
	ctor := func(id string) schema.Node { return NewEnd(id) }

	var se *schema.StoryError
	require.ErrorAs(t, r.Register("", ctor), &se)
	assert.Equal(t, schema.ErrCodeValidation, se.Code)

	require.ErrorAs(t, r.Register(schema.KindEnd, nil), &se)
	assert.Equal(t, schema.ErrCodeValidation, se.Code)

	require.NoError(t, r.Register(schema.KindEnd, ctor))
	require.ErrorAs(t, r.Register(schema.KindEnd, ctor), &se)
	assert.Equal(t, schema.ErrCodeConflict, se.Code)
}

func TestRegistry_NewUnknownKind(t *testing.T) {
	r := NewRegistry()

	_, err := r.New("hologram", "h1")
	var se *schema.StoryError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, schema.ErrCodeNotFound, se.Code)
}

func TestDefaultRegistry_CoversBuiltins(t *testing.T) {
	r := DefaultRegistry()

	want := []schema.NodeKind{
		schema.KindAudio,
		schema.KindBranch,
		schema.KindChoice,
		schema.KindCutscene,
		schema.KindDialogue,
		schema.KindEnd,
		schema.KindGate,
		schema.KindSetVariable,
		schema.KindStart,
		schema.KindWait,
	}
	assert.Equal(t, want, r.Kinds())

	// Every constructor yields a node reporting its own kind.
	for _, kind := range r.Kinds() {
		n, err := r.New(kind, "n-"+string(kind))
		require.NoError(t, err)
		assert.Equal(t, kind, n.Kind())
		assert.Equal(t, "n-"+string(kind), n.ID())
	}
}
