// Package types implements Lumen's semantic type system: the types the
// checker infers and unifies, as distinct from the syntax of ast.TypeNode.
package types

import "strings"

// Type is implemented by every semantic type. Substitute applies a
// variable->type substitution recursively, used during unification.
type Type interface {
	String() string
	Equals(Type) bool
	Substitute(map[string]Type) Type
}

// TVar is an unbound type variable introduced during inference, named
// uniquely (e.g. "t0", "t1", ...) by the checker.
type TVar struct {
	Name string
}

func (t *TVar) String() string { return t.Name }
func (t *TVar) Equals(o Type) bool {
	other, ok := o.(*TVar)
	return ok && other.Name == t.Name
}
func (t *TVar) Substitute(subs map[string]Type) Type {
	if sub, ok := subs[t.Name]; ok {
		if sub == Type(t) {
			return t
		}
		return sub.Substitute(subs)
	}
	return t
}

// TCon is a nullary type constructor: Integer, Double, Boolean, String,
// Null, or Any (the dynamic escape hatch used by native module bridging).
type TCon struct {
	Name string
}

func (t *TCon) String() string   { return t.Name }
func (t *TCon) Equals(o Type) bool {
	other, ok := o.(*TCon)
	return ok && other.Name == t.Name
}
func (t *TCon) Substitute(map[string]Type) Type { return t }

var (
	TInteger = &TCon{Name: "Integer"}
	TDouble  = &TCon{Name: "Double"}
	TBoolean = &TCon{Name: "Boolean"}
	TString  = &TCon{Name: "String"}
	TNull    = &TCon{Name: "Null"}
	TAny     = &TCon{Name: "Any"}
)

// TArray is a homogeneous array type, `Array<Elem>`.
type TArray struct {
	Elem Type
}

func (t *TArray) String() string { return "Array<" + t.Elem.String() + ">" }
func (t *TArray) Equals(o Type) bool {
	other, ok := o.(*TArray)
	return ok && t.Elem.Equals(other.Elem)
}
func (t *TArray) Substitute(subs map[string]Type) Type {
	return &TArray{Elem: t.Elem.Substitute(subs)}
}

// THash is a hash map type, `Hash<Key, Value>`. Key is String for a bare
// `Hash<Value>` annotation; dot notation is accepted only on a Hash whose
// Key is String or Any. Any of Integer, Double, Boolean or String is a
// valid key per the runtime's hashing scheme.
type THash struct {
	Key   Type
	Value Type
}

func (t *THash) String() string { return "Hash<" + t.Key.String() + ", " + t.Value.String() + ">" }
func (t *THash) Equals(o Type) bool {
	other, ok := o.(*THash)
	return ok && t.Key.Equals(other.Key) && t.Value.Equals(other.Value)
}
func (t *THash) Substitute(subs map[string]Type) Type {
	return &THash{Key: t.Key.Substitute(subs), Value: t.Value.Substitute(subs)}
}

// TTuple is a fixed-arity heterogeneous tuple type.
type TTuple struct {
	Elements []Type
}

func (t *TTuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (t *TTuple) Equals(o Type) bool {
	other, ok := o.(*TTuple)
	if !ok || len(other.Elements) != len(t.Elements) {
		return false
	}
	for i, e := range t.Elements {
		if !e.Equals(other.Elements[i]) {
			return false
		}
	}
	return true
}
func (t *TTuple) Substitute(subs map[string]Type) Type {
	elems := make([]Type, len(t.Elements))
	for i, e := range t.Elements {
		elems[i] = e.Substitute(subs)
	}
	return &TTuple{Elements: elems}
}

// TFunction is a function type `fn(Params...) -> Return`.
type TFunction struct {
	Params []Type
	Return Type
}

func (t *TFunction) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	return "fn(" + strings.Join(parts, ", ") + ") -> " + t.Return.String()
}
func (t *TFunction) Equals(o Type) bool {
	other, ok := o.(*TFunction)
	if !ok || len(other.Params) != len(t.Params) {
		return false
	}
	for i, p := range t.Params {
		if !p.Equals(other.Params[i]) {
			return false
		}
	}
	return t.Return.Equals(other.Return)
}
func (t *TFunction) Substitute(subs map[string]Type) Type {
	params := make([]Type, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.Substitute(subs)
	}
	return &TFunction{Params: params, Return: t.Return.Substitute(subs)}
}

// TRecord is a named record type with an ordered field list.
type TRecord struct {
	Name       string
	TypeArgs   []Type
	FieldOrder []string
	Fields     map[string]Type
}

func (t *TRecord) String() string {
	return t.Name + typeArgsString(t.TypeArgs)
}
func (t *TRecord) Equals(o Type) bool {
	other, ok := o.(*TRecord)
	return ok && other.Name == t.Name && typeArgsEqual(t.TypeArgs, other.TypeArgs)
}
func (t *TRecord) Substitute(subs map[string]Type) Type {
	args := make([]Type, len(t.TypeArgs))
	for i, a := range t.TypeArgs {
		args[i] = a.Substitute(subs)
	}
	fields := make(map[string]Type, len(t.Fields))
	for k, v := range t.Fields {
		fields[k] = v.Substitute(subs)
	}
	return &TRecord{Name: t.Name, TypeArgs: args, FieldOrder: t.FieldOrder, Fields: fields}
}

// TVariant is one constructor arm of a TSum, e.g. `Some(T)` of `Option<T>`.
type TVariant struct {
	Name   string
	Parent string // the owning TSum's Name
	Params []Type
}

func (t *TVariant) String() string {
	if len(t.Params) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	return t.Name + "(" + strings.Join(parts, ", ") + ")"
}
func (t *TVariant) Equals(o Type) bool {
	other, ok := o.(*TVariant)
	return ok && other.Name == t.Name && other.Parent == t.Parent
}
func (t *TVariant) Substitute(subs map[string]Type) Type {
	params := make([]Type, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.Substitute(subs)
	}
	return &TVariant{Name: t.Name, Parent: t.Parent, Params: params}
}

// TSum is a named sum (tagged union) type, e.g. `Option<T>` or `Result<T,E>`.
type TSum struct {
	Name     string
	TypeArgs []Type
	Variants map[string]*TVariant
}

func (t *TSum) String() string {
	return t.Name + typeArgsString(t.TypeArgs)
}
func (t *TSum) Equals(o Type) bool {
	other, ok := o.(*TSum)
	return ok && other.Name == t.Name && typeArgsEqual(t.TypeArgs, other.TypeArgs)
}
func (t *TSum) Substitute(subs map[string]Type) Type {
	args := make([]Type, len(t.TypeArgs))
	for i, a := range t.TypeArgs {
		args[i] = a.Substitute(subs)
	}
	return &TSum{Name: t.Name, TypeArgs: args, Variants: t.Variants}
}

// TTrait is a trait declaration's type: a named set of method signatures
// over an implicit `Self` type variable.
type TTrait struct {
	Name       string
	TypeParams []string
	Methods    map[string]*TFunction
	SelfVar    *TVar
}

func (t *TTrait) String() string { return t.Name }
func (t *TTrait) Equals(o Type) bool {
	other, ok := o.(*TTrait)
	return ok && other.Name == t.Name
}
func (t *TTrait) Substitute(map[string]Type) Type { return t }

// TModule is the type of a loaded module value: a fixed set of exported
// bindings, each with its own type.
type TModule struct {
	Name    string
	Exports map[string]Type
}

func (t *TModule) String() string { return "module " + t.Name }
func (t *TModule) Equals(o Type) bool {
	other, ok := o.(*TModule)
	return ok && other.Name == t.Name
}
func (t *TModule) Substitute(map[string]Type) Type { return t }

// TError is the sentinel type assigned to an expression after a type error
// has already been reported against it, so that error propagates silently
// instead of cascading into further spurious mismatches.
type TError struct{}

func (t *TError) String() string                  { return "<error>" }
func (t *TError) Equals(Type) bool                 { return true }
func (t *TError) Substitute(map[string]Type) Type  { return t }

func typeArgsString(args []Type) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

func typeArgsEqual(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equals(b[i]) {
			return false
		}
	}
	return true
}

// IsError reports whether t is the TError sentinel (or nil).
func IsError(t Type) bool {
	if t == nil {
		return true
	}
	_, ok := t.(*TError)
	return ok
}
