package engine

import "github.com/mverett/fabula/pkg/schema"

// Hooks are optional observer callbacks on an execution context.
// Nil members are skipped.
type Hooks struct {
	OnVariableChanged func(name string, oldValue, newValue schema.Value)
	OnNodeChanged     func(prev, next schema.Node)
}

// Context is the per-run mutable state: live variables, transient
// scratch data, navigation history and the current node. One run owns
// exactly one Context; contexts share nothing with each other.
type Context struct {
	graph   *schema.Graph
	vars    VariableStore
	temp    map[string]any
	history []string
	current schema.Node

	paused   bool
	complete bool

	hooks Hooks
}

// ContextOption configures a Context at construction.
type ContextOption func(*Context)

// WithStore selects the variable store strategy (default MapStore).
func WithStore(s VariableStore) ContextOption {
	return func(c *Context) { c.vars = s }
}

// WithHooks installs observer callbacks.
func WithHooks(h Hooks) ContextOption {
	return func(c *Context) { c.hooks = h }
}

// NewContext creates a context seeded from the graph's variable
// declarations.
func NewContext(g *schema.Graph, opts ...ContextOption) *Context {
	c := &Context{
		graph: g,
		temp:  make(map[string]any),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.vars == nil {
		c.vars = NewMapStore()
	}
	c.seed()
	return c
}

func (c *Context) seed() {
	if c.graph == nil {
		return
	}
	for _, decl := range c.graph.Variables {
		c.vars.Set(decl.Name, decl.Default)
	}
}

// SetVariable overwrites the named variable and notifies observers
// with the previous value. Setting a previously-absent variable is
// allowed; the prior value reported is the type's zero.
func (c *Context) SetVariable(name string, v schema.Value) {
	old, existed := c.vars.Set(name, v)
	if !existed {
		old = schema.Zero(v.Type)
	}
	if c.hooks.OnVariableChanged != nil {
		c.hooks.OnVariableChanged(name, old, v)
	}
}

// GetVariable returns the stored value coerced to the fallback's type,
// or the fallback when the variable is absent or the coercion fails.
// Coercion failure is swallowed, not propagated.
func (c *Context) GetVariable(name string, fallback schema.Value) schema.Value {
	v, ok := c.vars.Get(name)
	if !ok {
		return fallback
	}
	if fallback.IsZeroValue() {
		return v
	}
	coerced, ok := v.Coerce(fallback.Type)
	if !ok {
		return fallback
	}
	return coerced
}

// GetString is a typed convenience over GetVariable.
func (c *Context) GetString(name, fallback string) string {
	v := c.GetVariable(name, schema.String(fallback))
	return v.Str
}

// GetFloat is a typed convenience over GetVariable.
func (c *Context) GetFloat(name string, fallback float64) float64 {
	v := c.GetVariable(name, schema.Float(fallback))
	return v.F
}

// GetInt is a typed convenience over GetVariable.
func (c *Context) GetInt(name string, fallback int64) int64 {
	v := c.GetVariable(name, schema.Int(fallback))
	return v.I
}

// GetBool is a typed convenience over GetVariable.
func (c *Context) GetBool(name string, fallback bool) bool {
	v := c.GetVariable(name, schema.Bool(fallback))
	return v.B
}

// EvaluateCondition checks a condition against the live variables.
// An absent variable evaluates to false, as does any coercion failure
// inside the operator. Fail-closed, never an error.
func (c *Context) EvaluateCondition(cond schema.Condition) bool {
	v, ok := c.vars.Get(cond.Variable)
	if !ok {
		return false
	}
	return cond.Holds(v)
}

// SetCurrentNode records the node as current, pushing the previous
// current node onto the navigation history first.
func (c *Context) SetCurrentNode(n schema.Node) {
	prev := c.current
	if prev != nil {
		c.PushHistory(prev.ID())
	}
	c.current = n
	if c.hooks.OnNodeChanged != nil {
		c.hooks.OnNodeChanged(prev, n)
	}
}

// CurrentNode returns the node the run is at, or nil before the run
// starts.
func (c *Context) CurrentNode() schema.Node { return c.current }

// PushHistory pushes a node ID onto the navigation stack.
func (c *Context) PushHistory(nodeID string) {
	c.history = append(c.history, nodeID)
}

// PopHistory removes and returns the most recent entry, or "" when
// the stack is empty.
func (c *Context) PopHistory() string {
	if len(c.history) == 0 {
		return ""
	}
	top := c.history[len(c.history)-1]
	c.history = c.history[:len(c.history)-1]
	return top
}

// PeekHistory returns the most recent entry without removing it, or ""
// when the stack is empty.
func (c *Context) PeekHistory() string {
	if len(c.history) == 0 {
		return ""
	}
	return c.history[len(c.history)-1]
}

// ClearHistory empties the navigation stack.
func (c *Context) ClearHistory() {
	c.history = c.history[:0]
}

// History returns a copy of the navigation stack, oldest first.
func (c *Context) History() []string {
	out := make([]string, len(c.history))
	copy(out, c.history)
	return out
}

// SetTemp stores transient scratch data. Temp data lives only until
// the next suspension point resolves.
func (c *Context) SetTemp(key string, v any) {
	c.temp[key] = v
}

// GetTemp reads transient scratch data.
func (c *Context) GetTemp(key string) (any, bool) {
	v, ok := c.temp[key]
	return v, ok
}

// ClearTemp drops all scratch data.
func (c *Context) ClearTemp() {
	c.temp = make(map[string]any)
}

// MarkComplete flags the run as having reached an authored completion.
func (c *Context) MarkComplete() { c.complete = true }

// Completed reports the completion flag.
func (c *Context) Completed() bool { return c.complete }

// SetPaused records the paused flag; the traversal engine mirrors its
// state here so the context snapshot stays inspectable.
func (c *Context) SetPaused(p bool) { c.paused = p }

// Paused reports the paused flag.
func (c *Context) Paused() bool { return c.paused }

// SaveState produces a flat name-to-value snapshot of the variable
// store. Temp data and history are run-scoped and excluded by design.
func (c *Context) SaveState() map[string]schema.Value {
	return c.vars.Snapshot()
}

// LoadState replaces the variable store with the snapshot.
func (c *Context) LoadState(snapshot map[string]schema.Value) {
	c.vars.Restore(snapshot)
}

// Reset clears all state and re-seeds variables from the graph's
// declarations, so a run can restart without reallocating the context.
func (c *Context) Reset() {
	c.vars.Clear()
	c.temp = make(map[string]any)
	c.history = c.history[:0]
	c.current = nil
	c.paused = false
	c.complete = false
	c.seed()
}
