package engine

import "github.com/mverett/fabula/pkg/schema"

// VariableStore is the storage contract behind an execution context's
// live variables. Two implementations exist: MapStore (associative,
// correctness-first) and ColumnStore (typed columnar, hash-keyed,
// performance-first). Both must be observably identical for
// non-colliding names.
type VariableStore interface {
	// Set overwrites the named variable, returning the previous value
	// and whether one existed.
	Set(name string, v schema.Value) (old schema.Value, existed bool)
	// Get returns the stored value, if any.
	Get(name string) (schema.Value, bool)
	// Snapshot produces a flat name-to-value copy of the store.
	Snapshot() map[string]schema.Value
	// Restore replaces the store's contents with the snapshot.
	Restore(snapshot map[string]schema.Value)
	// Clear removes everything.
	Clear()
	// Len returns the number of stored variables.
	Len() int
}

// MapStore keeps every variable in one associative container under a
// single key space. Simple and collision-free; each access pays the
// map's hashing cost.
type MapStore struct {
	vars map[string]schema.Value
}

// NewMapStore creates an empty MapStore.
func NewMapStore() *MapStore {
	return &MapStore{vars: make(map[string]schema.Value)}
}

func (s *MapStore) Set(name string, v schema.Value) (schema.Value, bool) {
	old, existed := s.vars[name]
	s.vars[name] = v
	return old, existed
}

func (s *MapStore) Get(name string) (schema.Value, bool) {
	v, ok := s.vars[name]
	return v, ok
}

func (s *MapStore) Snapshot() map[string]schema.Value {
	out := make(map[string]schema.Value, len(s.vars))
	for k, v := range s.vars {
		out[k] = v
	}
	return out
}

func (s *MapStore) Restore(snapshot map[string]schema.Value) {
	s.vars = make(map[string]schema.Value, len(snapshot))
	for k, v := range snapshot {
		s.vars[k] = v
	}
}

func (s *MapStore) Clear() {
	s.vars = make(map[string]schema.Value)
}

func (s *MapStore) Len() int { return len(s.vars) }
