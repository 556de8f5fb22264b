package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mverett/fabula/pkg/schema"
)

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "")
}

func TestRedisStore_RoundTrip(t *testing.T) {
	s := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "slot1", sampleSnapshot()))

	got, err := s.Load(ctx, "slot1")
	require.NoError(t, err)
	assert.Equal(t, "the-gate", got.GraphName)
	assert.Equal(t, "camp", got.CurrentNodeID)
	assert.Equal(t, schema.Int(10), got.Variables["gold"])
	assert.Equal(t, schema.Bool(true), got.Variables["brave"])
	assert.False(t, got.SavedAt.IsZero())
}

func TestRedisStore_LoadMissing(t *testing.T) {
	s := newRedisStore(t)

	_, err := s.Load(context.Background(), "nope")
	var se *schema.StoryError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, schema.ErrCodeNotFound, se.Code)
}

func TestRedisStore_Overwrite(t *testing.T) {
	s := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "slot1", sampleSnapshot()))
	second := sampleSnapshot()
	second.CurrentNodeID = "morning"
	require.NoError(t, s.Save(ctx, "slot1", second))

	got, err := s.Load(ctx, "slot1")
	require.NoError(t, err)
	assert.Equal(t, "morning", got.CurrentNodeID)
}

func TestRedisStore_DeleteAndList(t *testing.T) {
	s := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "beta", sampleSnapshot()))
	require.NoError(t, s.Save(ctx, "alpha", sampleSnapshot()))

	slots, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, slots)

	require.NoError(t, s.Delete(ctx, "beta"))
	require.NoError(t, s.Delete(ctx, "beta"))

	slots, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, slots)
}

func TestRedisStore_ListIgnoresForeignKeys(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	s := NewRedisStore(client, "")

	require.NoError(t, s.Save(context.Background(), "slot1", sampleSnapshot()))
	require.NoError(t, mr.Set("unrelated:key", "x"))

	slots, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"slot1"}, slots)
}

func TestRedisStore_ValidatesInput(t *testing.T) {
	s := newRedisStore(t)
	ctx := context.Background()

	var se *schema.StoryError
	require.ErrorAs(t, s.Save(ctx, "", sampleSnapshot()), &se)
	assert.Equal(t, schema.ErrCodeValidation, se.Code)
	require.ErrorAs(t, s.Save(ctx, "slot1", nil), &se)
	assert.Equal(t, schema.ErrCodeValidation, se.Code)
}
