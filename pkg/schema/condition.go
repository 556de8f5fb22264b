package schema

import "strings"

// ConditionOperator enumerates the comparison operators available to
// authored conditions. Conditions are deliberately not a scripting
// language: a fixed operator over a named variable and a literal.
type ConditionOperator string

const (
	OpEquals         ConditionOperator = "equals"
	OpNotEquals      ConditionOperator = "not_equals"
	OpGreaterThan    ConditionOperator = "greater_than"
	OpLessThan       ConditionOperator = "less_than"
	OpGreaterOrEqual ConditionOperator = "greater_or_equal"
	OpLessOrEqual    ConditionOperator = "less_or_equal"
	OpContains       ConditionOperator = "contains"
	OpIsTrue         ConditionOperator = "is_true"
	OpIsFalse        ConditionOperator = "is_false"
)

// Condition compares a named variable against a literal value.
type Condition struct {
	Variable string            `json:"variable"`
	Operator ConditionOperator `json:"operator"`
	Compare  Value             `json:"compare,omitempty"`
}

// Holds evaluates the operator against a concrete variable value.
// Fail-closed: any coercion failure or unknown operator yields false,
// never an error. Authored content stays resilient to type mistakes.
func (c Condition) Holds(v Value) bool {
	switch c.Operator {
	case OpEquals:
		return v.Equal(c.Compare)
	case OpNotEquals:
		return !v.Equal(c.Compare)
	case OpGreaterThan, OpLessThan, OpGreaterOrEqual, OpLessOrEqual:
		a, ok1 := v.AsFloat()
		b, ok2 := c.Compare.AsFloat()
		if !ok1 || !ok2 {
			return false
		}
		switch c.Operator {
		case OpGreaterThan:
			return a > b
		case OpLessThan:
			return a < b
		case OpGreaterOrEqual:
			return a >= b
		default:
			return a <= b
		}
	case OpContains:
		s, ok1 := v.AsString()
		sub, ok2 := c.Compare.AsString()
		return ok1 && ok2 && strings.Contains(s, sub)
	case OpIsTrue:
		b, ok := v.AsBool()
		return ok && b
	case OpIsFalse:
		b, ok := v.AsBool()
		return ok && !b
	}
	return false
}
