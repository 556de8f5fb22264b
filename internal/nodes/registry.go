package nodes

import (
	"sort"
	"sync"

	"github.com/mverett/fabula/pkg/schema"
)

// Constructor builds a blank node of one variant with the given ID.
// Callers fill in variant-specific fields afterwards (or the import
// layer does, from deserialized data).
type Constructor func(id string) schema.Node

// Registry is the thread-safe kind-to-constructor table. The engine
// stays closed over the schema.Node dispatch surface; content authors
// add variants here.
type Registry struct {
	mu    sync.RWMutex
	kinds map[schema.NodeKind]Constructor
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[schema.NodeKind]Constructor)}
}

// Register adds a constructor for a node kind. Returns an error on a
// duplicate kind.
func (r *Registry) Register(kind schema.NodeKind, ctor Constructor) error {
	if kind == "" {
		return schema.NewError(schema.ErrCodeValidation, "node kind is empty")
	}
	if ctor == nil {
		return schema.NewError(schema.ErrCodeValidation, "node constructor is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.kinds[kind]; exists {
		return schema.NewErrorf(schema.ErrCodeConflict, "node kind %q already registered", kind)
	}
	r.kinds[kind] = ctor
	return nil
}

// New constructs a node of the given kind.
func (r *Registry) New(kind schema.NodeKind, id string) (schema.Node, error) {
	r.mu.RLock()
	ctor, ok := r.kinds[kind]
	r.mu.RUnlock()
	if !ok {
		return nil, schema.NewErrorf(schema.ErrCodeNotFound, "node kind %q not registered", kind)
	}
	return ctor(id), nil
}

// Has checks whether a kind is registered.
func (r *Registry) Has(kind schema.NodeKind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.kinds[kind]
	return ok
}

// Kinds returns all registered kinds, sorted.
func (r *Registry) Kinds() []schema.NodeKind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]schema.NodeKind, 0, len(r.kinds))
	for k := range r.kinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DefaultRegistry returns a registry with every built-in variant.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterBuiltins(r)
	return r
}

// RegisterBuiltins adds the built-in node variants to a registry.
func RegisterBuiltins(r *Registry) {
	builtins := map[schema.NodeKind]Constructor{
		schema.KindStart:       func(id string) schema.Node { return NewStart(id) },
		schema.KindDialogue:    func(id string) schema.Node { return NewDialogue(id, "", "") },
		schema.KindChoice:      func(id string) schema.Node { return NewChoice(id, "") },
		schema.KindCutscene:    func(id string) schema.Node { return NewCutscene(id, "", 0) },
		schema.KindAudio:       func(id string) schema.Node { return NewAudio(id, "") },
		schema.KindBranch:      func(id string) schema.Node { return NewBranch(id, schema.Condition{}) },
		schema.KindSetVariable: func(id string) schema.Node { return NewSetVariable(id, "", schema.Value{}) },
		schema.KindWait:        func(id string) schema.Node { return NewWait(id, 0) },
		schema.KindGate:        func(id string) schema.Node { return NewGate(id, schema.Condition{}) },
		schema.KindEnd:         func(id string) schema.Node { return NewEnd(id) },
	}
	for kind, ctor := range builtins {
		// Registration only fails on duplicates, impossible here.
		_ = r.Register(kind, ctor)
	}
}

// Standard port shapes shared by the variants.

func defaultInput() []schema.Port {
	return []schema.Port{{ID: schema.PortInput, Name: "In", Direction: schema.DirectionInput, Capacity: schema.CapacityMulti}}
}

func defaultOutput() []schema.Port {
	return []schema.Port{{ID: schema.PortOutput, Name: "Out", Direction: schema.DirectionOutput, Capacity: schema.CapacitySingle}}
}
