package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// VariableType enumerates the types a story variable can hold.
type VariableType string

const (
	TypeString VariableType = "string"
	TypeFloat  VariableType = "float"
	TypeInt    VariableType = "int"
	TypeBool   VariableType = "bool"
)

// Value is a tagged union holding exactly one payload, selected by Type.
// It replaces boxed any-typed storage so variable access never allocates
// and never needs runtime type dispatch beyond the tag.
type Value struct {
	Type VariableType
	Str  string
	F    float64
	I    int64
	B    bool
}

// String wraps a string in a Value.
func String(s string) Value { return Value{Type: TypeString, Str: s} }

// Float wraps a float64 in a Value.
func Float(f float64) Value { return Value{Type: TypeFloat, F: f} }

// Int wraps an int64 in a Value.
func Int(i int64) Value { return Value{Type: TypeInt, I: i} }

// Bool wraps a bool in a Value.
func Bool(b bool) Value { return Value{Type: TypeBool, B: b} }

// Zero returns the zero value for the given type.
func Zero(t VariableType) Value {
	return Value{Type: t}
}

// IsZeroValue reports whether v is the uninitialized Value (no type tag).
func (v Value) IsZeroValue() bool { return v.Type == "" }

// AsString coerces the value to a string. Every typed value has a
// string rendering, so the only failure is an untyped Value.
func (v Value) AsString() (string, bool) {
	switch v.Type {
	case TypeString:
		return v.Str, true
	case TypeFloat:
		return strconv.FormatFloat(v.F, 'g', -1, 64), true
	case TypeInt:
		return strconv.FormatInt(v.I, 10), true
	case TypeBool:
		return strconv.FormatBool(v.B), true
	}
	return "", false
}

// AsFloat coerces the value to a float64.
func (v Value) AsFloat() (float64, bool) {
	switch v.Type {
	case TypeFloat:
		return v.F, true
	case TypeInt:
		return float64(v.I), true
	case TypeString:
		f, err := strconv.ParseFloat(v.Str, 64)
		return f, err == nil
	}
	return 0, false
}

// AsInt coerces the value to an int64. Floats truncate toward zero.
func (v Value) AsInt() (int64, bool) {
	switch v.Type {
	case TypeInt:
		return v.I, true
	case TypeFloat:
		return int64(v.F), true
	case TypeString:
		i, err := strconv.ParseInt(v.Str, 10, 64)
		return i, err == nil
	}
	return 0, false
}

// AsBool coerces the value to a bool. Numerics are true when non-zero.
func (v Value) AsBool() (bool, bool) {
	switch v.Type {
	case TypeBool:
		return v.B, true
	case TypeString:
		b, err := strconv.ParseBool(v.Str)
		return b, err == nil
	case TypeInt:
		return v.I != 0, true
	case TypeFloat:
		return v.F != 0, true
	}
	return false, false
}

// Coerce converts the value to the target type, reporting success.
func (v Value) Coerce(t VariableType) (Value, bool) {
	if v.Type == t {
		return v, true
	}
	switch t {
	case TypeString:
		s, ok := v.AsString()
		return String(s), ok
	case TypeFloat:
		f, ok := v.AsFloat()
		return Float(f), ok
	case TypeInt:
		i, ok := v.AsInt()
		return Int(i), ok
	case TypeBool:
		b, ok := v.AsBool()
		return Bool(b), ok
	}
	return Value{}, false
}

// Equal compares two values. Same-type values compare directly; mixed
// numeric types compare as float64; everything else compares by string
// rendering when both sides have one.
func (v Value) Equal(other Value) bool {
	if v.Type == other.Type {
		switch v.Type {
		case TypeString:
			return v.Str == other.Str
		case TypeFloat:
			return v.F == other.F
		case TypeInt:
			return v.I == other.I
		case TypeBool:
			return v.B == other.B
		}
		return false
	}
	if vf, ok := v.AsFloat(); ok {
		if of, ok2 := other.AsFloat(); ok2 {
			return vf == of
		}
	}
	vs, ok1 := v.AsString()
	os, ok2 := other.AsString()
	return ok1 && ok2 && vs == os
}

func (v Value) String() string {
	s, ok := v.AsString()
	if !ok {
		return "<unset>"
	}
	return s
}

// valueJSON is the wire shape of a Value.
type valueJSON struct {
	Type  VariableType `json:"type"`
	Value any          `json:"value"`
}

// MarshalJSON encodes the value as {"type": ..., "value": ...}.
func (v Value) MarshalJSON() ([]byte, error) {
	out := valueJSON{Type: v.Type}
	switch v.Type {
	case TypeString:
		out.Value = v.Str
	case TypeFloat:
		out.Value = v.F
	case TypeInt:
		out.Value = v.I
	case TypeBool:
		out.Value = v.B
	default:
		return nil, fmt.Errorf("marshal value: unknown type %q", v.Type)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the {"type": ..., "value": ...} wire shape.
func (v *Value) UnmarshalJSON(data []byte) error {
	var in valueJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.Type {
	case TypeString:
		s, ok := in.Value.(string)
		if !ok {
			return fmt.Errorf("unmarshal value: expected string, got %T", in.Value)
		}
		*v = String(s)
	case TypeFloat:
		f, ok := in.Value.(float64)
		if !ok {
			return fmt.Errorf("unmarshal value: expected number, got %T", in.Value)
		}
		*v = Float(f)
	case TypeInt:
		// JSON numbers decode as float64.
		f, ok := in.Value.(float64)
		if !ok {
			return fmt.Errorf("unmarshal value: expected number, got %T", in.Value)
		}
		*v = Int(int64(f))
	case TypeBool:
		b, ok := in.Value.(bool)
		if !ok {
			return fmt.Errorf("unmarshal value: expected bool, got %T", in.Value)
		}
		*v = Bool(b)
	default:
		return fmt.Errorf("unmarshal value: unknown type %q", in.Type)
	}
	return nil
}
