package engine

import "github.com/mverett/fabula/pkg/schema"

// ColumnStore partitions variable storage into one column per declared
// type and keys each column by an FNV-1a hash of the variable name.
// Access never allocates: a read is one or two map probes into
// fixed-size slots.
//
// The trade-off is accepted by design: two variables of different
// types whose names hash to the same 64-bit value collide, and the
// probe order below decides which one wins. Names are resolved for
// snapshots through a side table, which restores the colliding entry
// that was written last.
type ColumnStore struct {
	strings map[uint64]string
	floats  map[uint64]float64
	ints    map[uint64]int64
	bools   map[uint64]bool

	// names maps hash back to the variable name for snapshots.
	names map[uint64]string
}

// NewColumnStore creates an empty ColumnStore.
func NewColumnStore() *ColumnStore {
	s := &ColumnStore{}
	s.Clear()
	return s
}

// fnv1a is FNV-1a over the variable name. Inlined rather than
// hash/fnv to avoid the hash.Hash64 allocation per access.
func fnv1a(name string) uint64 {
	const (
		offset = 14695981039346656037
		prime  = 1099511628211
	)
	h := uint64(offset)
	for i := 0; i < len(name); i++ {
		h ^= uint64(name[i])
		h *= prime
	}
	return h
}

func (s *ColumnStore) Set(name string, v schema.Value) (schema.Value, bool) {
	h := fnv1a(name)
	old, existed := s.lookup(h)

	// A type change moves the variable between columns; evict the old
	// slot so lookups cannot resurrect the stale value.
	if existed && old.Type != v.Type {
		s.evict(h, old.Type)
	}

	switch v.Type {
	case schema.TypeString:
		s.strings[h] = v.Str
	case schema.TypeFloat:
		s.floats[h] = v.F
	case schema.TypeInt:
		s.ints[h] = v.I
	case schema.TypeBool:
		s.bools[h] = v.B
	default:
		return old, existed
	}
	s.names[h] = name
	return old, existed
}

func (s *ColumnStore) Get(name string) (schema.Value, bool) {
	return s.lookup(fnv1a(name))
}

// lookup probes the columns in a fixed order. With a cross-type hash
// collision the first column hit wins; without collisions exactly one
// column can hold the hash.
func (s *ColumnStore) lookup(h uint64) (schema.Value, bool) {
	if v, ok := s.strings[h]; ok {
		return schema.String(v), true
	}
	if v, ok := s.floats[h]; ok {
		return schema.Float(v), true
	}
	if v, ok := s.ints[h]; ok {
		return schema.Int(v), true
	}
	if v, ok := s.bools[h]; ok {
		return schema.Bool(v), true
	}
	return schema.Value{}, false
}

func (s *ColumnStore) evict(h uint64, t schema.VariableType) {
	switch t {
	case schema.TypeString:
		delete(s.strings, h)
	case schema.TypeFloat:
		delete(s.floats, h)
	case schema.TypeInt:
		delete(s.ints, h)
	case schema.TypeBool:
		delete(s.bools, h)
	}
}

func (s *ColumnStore) Snapshot() map[string]schema.Value {
	out := make(map[string]schema.Value, len(s.names))
	for h, name := range s.names {
		if v, ok := s.lookup(h); ok {
			out[name] = v
		}
	}
	return out
}

func (s *ColumnStore) Restore(snapshot map[string]schema.Value) {
	s.Clear()
	for name, v := range snapshot {
		s.Set(name, v)
	}
}

func (s *ColumnStore) Clear() {
	s.strings = make(map[uint64]string)
	s.floats = make(map[uint64]float64)
	s.ints = make(map[uint64]int64)
	s.bools = make(map[uint64]bool)
	s.names = make(map[uint64]string)
}

func (s *ColumnStore) Len() int { return len(s.names) }
