package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mverett/fabula/pkg/schema"
)

func sampleSnapshot() *Snapshot {
	return &Snapshot{
		GraphName:     "the-gate",
		CurrentNodeID: "camp",
		Variables: map[string]schema.Value{
			"gold":  schema.Int(10),
			"brave": schema.Bool(true),
		},
	}
}

func TestMemoryStore_SaveLoad(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "slot1", sampleSnapshot()))

	got, err := s.Load(ctx, "slot1")
	require.NoError(t, err)
	assert.Equal(t, "the-gate", got.GraphName)
	assert.Equal(t, "camp", got.CurrentNodeID)
	assert.Equal(t, schema.Int(10), got.Variables["gold"])
	assert.False(t, got.SavedAt.IsZero(), "save stamps the time when unset")
}

func TestMemoryStore_CopiesOnBothSides(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	in := sampleSnapshot()
	require.NoError(t, s.Save(ctx, "slot1", in))

	// Mutating the caller's snapshot after Save must not leak in.
	in.Variables["gold"] = schema.Int(999)
	got, err := s.Load(ctx, "slot1")
	require.NoError(t, err)
	assert.Equal(t, schema.Int(10), got.Variables["gold"])

	// Mutating a loaded snapshot must not leak back either.
	got.Variables["gold"] = schema.Int(0)
	again, err := s.Load(ctx, "slot1")
	require.NoError(t, err)
	assert.Equal(t, schema.Int(10), again.Variables["gold"])
}

func TestMemoryStore_Overwrite(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "slot1", sampleSnapshot()))
	second := sampleSnapshot()
	second.CurrentNodeID = "morning"
	require.NoError(t, s.Save(ctx, "slot1", second))

	got, err := s.Load(ctx, "slot1")
	require.NoError(t, err)
	assert.Equal(t, "morning", got.CurrentNodeID)
}

func TestMemoryStore_LoadMissing(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Load(context.Background(), "nope")
	var se *schema.StoryError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, schema.ErrCodeNotFound, se.Code)
}

func TestMemoryStore_SaveRejectsBadInput(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var se *schema.StoryError
	require.ErrorAs(t, s.Save(ctx, "", sampleSnapshot()), &se)
	assert.Equal(t, schema.ErrCodeValidation, se.Code)
	require.ErrorAs(t, s.Save(ctx, "slot1", nil), &se)
	assert.Equal(t, schema.ErrCodeValidation, se.Code)
}

func TestMemoryStore_DeleteAndList(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "beta", sampleSnapshot()))
	require.NoError(t, s.Save(ctx, "alpha", sampleSnapshot()))

	slots, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, slots)

	require.NoError(t, s.Delete(ctx, "alpha"))
	require.NoError(t, s.Delete(ctx, "alpha"), "deleting a missing slot is a no-op")

	slots, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"beta"}, slots)
}
