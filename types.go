package formula

import "math"

// Type defines a type in the formula type system. These types describe
// the output a computed field declares, and tag runtime values produced
// by evaluation so that callers can switch exhaustively instead of
// inspecting Go dynamic types.
type Type interface {
	String() string
}

type Number struct{}
type String struct{}
type Bool struct{}
type List struct{}
type Mapping struct{}
type Undefined struct{}
type Any struct{}

func (t Number) String() string    { return "number" }
func (t String) String() string    { return "string" }
func (t Bool) String() string      { return "bool" }
func (t List) String() string      { return "list" }
func (t Mapping) String() string   { return "mapping" }
func (t Undefined) String() string { return "undefined" }
func (t Any) String() string       { return "any" }

// Value is a runtime value produced by evaluating a formula, tagged with
// its formula type. Inspect Typ to determine what Val holds.
type Value struct {
	Val interface{}
	Typ Type
}

// TypeOf maps a runtime value to its formula type. NaN counts as a
// number; a nil interface is undefined.
func TypeOf(v interface{}) Type {
	switch v.(type) {
	case nil:
		return Undefined{}
	case float64, float32, int, int32, int64:
		return Number{}
	case string:
		return String{}
	case bool:
		return Bool{}
	case []interface{}:
		return List{}
	case map[string]interface{}:
		return Mapping{}
	default:
		return Any{}
	}
}

// NewValue tags a runtime value with its type.
func NewValue(v interface{}) Value {
	return Value{Val: v, Typ: TypeOf(v)}
}

// IsUndefined reports whether the value is the undefined value.
func (v Value) IsUndefined() bool {
	return v.Val == nil
}

// Float returns the value as a float64 if it is a number.
func (v Value) Float() (float64, bool) {
	switch x := v.Val.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return math.NaN(), false
	}
}
