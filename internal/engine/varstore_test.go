package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mverett/fabula/pkg/schema"
)

// Both stores must behave identically for non-colliding names.
func storeImpls() map[string]func() VariableStore {
	return map[string]func() VariableStore{
		"map":    func() VariableStore { return NewMapStore() },
		"column": func() VariableStore { return NewColumnStore() },
	}
}

func TestVariableStore_SetGet(t *testing.T) {
	for name, newStore := range storeImpls() {
		t.Run(name, func(t *testing.T) {
			s := newStore()

			_, existed := s.Set("gold", schema.Int(10))
			assert.False(t, existed)

			old, existed := s.Set("gold", schema.Int(20))
			assert.True(t, existed)
			assert.Equal(t, int64(10), old.I)

			v, ok := s.Get("gold")
			require.True(t, ok)
			assert.Equal(t, int64(20), v.I)

			_, ok = s.Get("missing")
			assert.False(t, ok)
		})
	}
}

func TestVariableStore_TypeChange(t *testing.T) {
	for name, newStore := range storeImpls() {
		t.Run(name, func(t *testing.T) {
			s := newStore()
			s.Set("v", schema.Int(1))

			old, existed := s.Set("v", schema.String("one"))
			assert.True(t, existed)
			assert.Equal(t, schema.TypeInt, old.Type)

			v, ok := s.Get("v")
			require.True(t, ok)
			assert.Equal(t, schema.TypeString, v.Type)
			assert.Equal(t, "one", v.Str)
			assert.Equal(t, 1, s.Len())
		})
	}
}

func TestVariableStore_SnapshotRestore(t *testing.T) {
	for name, newStore := range storeImpls() {
		t.Run(name, func(t *testing.T) {
			s := newStore()
			s.Set("name", schema.String("hero"))
			s.Set("gold", schema.Int(10))
			s.Set("luck", schema.Float(0.5))
			s.Set("alive", schema.Bool(true))

			snap := s.Snapshot()
			assert.Len(t, snap, 4)

			other := newStore()
			other.Restore(snap)
			assert.Equal(t, 4, other.Len())
			for k, want := range snap {
				got, ok := other.Get(k)
				require.True(t, ok, k)
				assert.Equal(t, want, got, k)
			}

			// Restore replaces, not merges.
			other.Restore(map[string]schema.Value{"only": schema.Int(1)})
			assert.Equal(t, 1, other.Len())
		})
	}
}

func TestVariableStore_Clear(t *testing.T) {
	for name, newStore := range storeImpls() {
		t.Run(name, func(t *testing.T) {
			s := newStore()
			s.Set("a", schema.Int(1))
			s.Set("b", schema.Bool(true))
			s.Clear()
			assert.Equal(t, 0, s.Len())
			_, ok := s.Get("a")
			assert.False(t, ok)
		})
	}
}

func TestVariableStore_Agreement(t *testing.T) {
	m := NewMapStore()
	c := NewColumnStore()

	for i := 0; i < 200; i++ {
		name := fmt.Sprintf("var_%d", i)
		var v schema.Value
		switch i % 4 {
		case 0:
			v = schema.Int(int64(i))
		case 1:
			v = schema.Float(float64(i) / 3)
		case 2:
			v = schema.String(name)
		default:
			v = schema.Bool(i%8 == 3)
		}
		m.Set(name, v)
		c.Set(name, v)
	}

	require.Equal(t, m.Len(), c.Len())
	for name, want := range m.Snapshot() {
		got, ok := c.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
}
