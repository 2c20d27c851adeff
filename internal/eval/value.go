package eval

import (
	"fmt"
	"strings"
)

// Value is implemented by every runtime value produced by the evaluator.
type Value interface {
	Type() string
	String() string
}

// IntegerValue is a 64-bit signed integer.
type IntegerValue struct {
	Value int64
}

func (v *IntegerValue) Type() string   { return "Integer" }
func (v *IntegerValue) String() string { return fmt.Sprintf("%d", v.Value) }

// DoubleValue is a 64-bit float.
type DoubleValue struct {
	Value float64
}

func (v *DoubleValue) Type() string   { return "Double" }
func (v *DoubleValue) String() string { return fmt.Sprintf("%g", v.Value) }

// BooleanValue is `true`/`false`.
type BooleanValue struct {
	Value bool
}

func (v *BooleanValue) Type() string { return "Boolean" }
func (v *BooleanValue) String() string {
	if v.Value {
		return "true"
	}
	return "false"
}

// StringValue is a UTF-8 string.
type StringValue struct {
	Value string
}

func (v *StringValue) Type() string   { return "String" }
func (v *StringValue) String() string { return v.Value }

// NullValue is the sole value of type Null.
type NullValue struct{}

func (v *NullValue) Type() string   { return "Null" }
func (v *NullValue) String() string { return "null" }

// ArrayValue is a mutable-length, homogeneously-typed (per the checker)
// array. Backed by a Go slice; index assignment mutates in place.
type ArrayValue struct {
	Elements []Value
}

func (v *ArrayValue) Type() string { return "Array" }
func (v *ArrayValue) String() string {
	parts := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// TupleValue is a fixed-arity heterogeneous tuple.
type TupleValue struct {
	Elements []Value
}

func (v *TupleValue) Type() string { return "Tuple" }
func (v *TupleValue) String() string {
	parts := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// HashValue is a map keyed by Integer, Double, Boolean or String values,
// insertion order preserved for display. Keys are hashed to a stable
// "KindTag_Value" string (hashKeyOf) for storage; Keys holds the original
// key Values so iteration and printing can recover them.
type HashValue struct {
	Keys     []Value
	hashKeys []string
	Values   map[string]Value
}

func NewHashValue() *HashValue {
	return &HashValue{Values: map[string]Value{}}
}

// hashKeyOf computes the stable lookup key for a Hash key value. Only
// Integer, Double, Boolean and String are usable as hash keys; any other
// kind is a runtime error.
func hashKeyOf(key Value) (string, error) {
	switch k := key.(type) {
	case *IntegerValue:
		return fmt.Sprintf("Integer_%d", k.Value), nil
	case *DoubleValue:
		return fmt.Sprintf("Double_%g", k.Value), nil
	case *BooleanValue:
		return fmt.Sprintf("Boolean_%t", k.Value), nil
	case *StringValue:
		return "String_" + k.Value, nil
	}
	return "", fmt.Errorf("eval: unusable as hash key: %s", key.Type())
}

// Get looks up key (any of the four hashable kinds), reporting an error if
// key is not a hashable kind.
func (v *HashValue) Get(key Value) (Value, bool, error) {
	hk, err := hashKeyOf(key)
	if err != nil {
		return nil, false, err
	}
	val, ok := v.Values[hk]
	return val, ok, nil
}

// Set stores val under key, reporting an error if key is not a hashable
// kind.
func (v *HashValue) Set(key Value, val Value) error {
	hk, err := hashKeyOf(key)
	if err != nil {
		return err
	}
	if _, exists := v.Values[hk]; !exists {
		v.Keys = append(v.Keys, key)
		v.hashKeys = append(v.hashKeys, hk)
	}
	v.Values[hk] = val
	return nil
}

// GetString looks up a String key directly, the form dot-notation member
// access on a Hash uses (only String-keyed hashes support `.field`).
func (v *HashValue) GetString(field string) (Value, bool) {
	val, ok := v.Values["String_"+field]
	return val, ok
}

// SetString stores val under a String key directly.
func (v *HashValue) SetString(field string, val Value) {
	_ = v.Set(&StringValue{Value: field}, val)
}

func (v *HashValue) Type() string { return "Hash" }
func (v *HashValue) String() string {
	parts := make([]string, len(v.Keys))
	for i, k := range v.Keys {
		parts[i] = fmt.Sprintf("%s: %s", k.String(), v.Values[v.hashKeys[i]].String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// RecordValue is an instance of a `record` declaration.
type RecordValue struct {
	TypeName string
	Fields   map[string]Value
	Order    []string
}

func (v *RecordValue) Type() string { return v.TypeName }
func (v *RecordValue) String() string {
	parts := make([]string, len(v.Order))
	for i, name := range v.Order {
		parts[i] = fmt.Sprintf("%s: %s", name, v.Fields[name].String())
	}
	return v.TypeName + "(" + strings.Join(parts, ", ") + ")"
}

// SumValue is an instance of one variant of a `type` sum declaration, e.g.
// `Some(3)` or `None`.
type SumValue struct {
	SumName     string
	VariantName string
	Fields      []Value
}

func (v *SumValue) Type() string { return v.SumName }
func (v *SumValue) String() string {
	if len(v.Fields) == 0 {
		return v.VariantName
	}
	parts := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		parts[i] = f.String()
	}
	return v.VariantName + "(" + strings.Join(parts, ", ") + ")"
}

// FunctionValue is a closure: parameter names captured with the defining
// environment, for correct lexical scoping of recursive and nested
// definitions.
type FunctionValue struct {
	Name   string // "" for anonymous
	Params []string
	Body   interface{} // ast.Expr
	Env    *Environment
}

func (v *FunctionValue) Type() string { return "Function" }
func (v *FunctionValue) String() string {
	if v.Name != "" {
		return fmt.Sprintf("<function %s>", v.Name)
	}
	return "<function>"
}

// BuiltinValue is a native function implemented in Go.
type BuiltinValue struct {
	Name string
	Fn   func(args []Value) (Value, error)
}

func (v *BuiltinValue) Type() string   { return "Builtin" }
func (v *BuiltinValue) String() string { return fmt.Sprintf("<builtin %s>", v.Name) }

// ModuleValue is a loaded module's export table.
type ModuleValue struct {
	Name    string
	Exports map[string]Value
}

func (v *ModuleValue) Type() string   { return "Module" }
func (v *ModuleValue) String() string { return "<module " + v.Name + ">" }

// ErrorValue is a runtime error surfaced as a value (distinct from a Go
// `error` returned by Eval itself, which signals a control-flow unwind for
// uncaught runtime failures in the runtime error taxonomy).
type ErrorValue struct {
	Message string
}

func (v *ErrorValue) Type() string   { return "Error" }
func (v *ErrorValue) String() string { return "Error: " + v.Message }

// returnSignal is not a Value exposed to user code; Eval uses it internally
// to unwind a function body up to its enclosing call when a `return`
// statement executes (early-return semantics).
type returnSignal struct {
	value Value
}

func (r *returnSignal) Error() string { return "return" }

func isTruthy(v Value) bool {
	b, ok := v.(*BooleanValue)
	return ok && b.Value
}
