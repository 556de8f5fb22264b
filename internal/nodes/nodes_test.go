package nodes

import (
	"github.com/mverett/fabula/pkg/schema"
)

// execStub implements schema.ExecContext over a plain map, with the
// same fallback-coercion behavior as the real run context.
type execStub struct {
	vars map[string]schema.Value
	temp map[string]any
	done bool
}

func newExecStub() *execStub {
	return &execStub{
		vars: make(map[string]schema.Value),
		temp: make(map[string]any),
	}
}

func (c *execStub) SetVariable(name string, v schema.Value) {
	c.vars[name] = v
}

func (c *execStub) GetVariable(name string, fallback schema.Value) schema.Value {
	v, ok := c.vars[name]
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

func (c *execStub) EvaluateCondition(cond schema.Condition) bool {
	v, ok := c.vars[cond.Variable]
	if !ok {
		return false
	}
	return cond.Holds(v)
}

func (c *execStub) SetTemp(key string, v any) { c.temp[key] = v }

func (c *execStub) GetTemp(key string) (any, bool) {
	v, ok := c.temp[key]
	return v, ok
}

func (c *execStub) MarkComplete() { c.done = true }

func (c *execStub) Completed() bool { return c.done }
