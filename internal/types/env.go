package types

// Binding is a name's entry in a TypeEnv: its type and whether it was
// introduced via `let mut` (and so may be reassigned).
type Binding struct {
	Type    Type
	Mutable bool
}

// ConstructorInfo is the checked signature of a record or sum-variant
// constructor, callable as `Name(args...)`.
type ConstructorInfo struct {
	Name       string
	ParamTypes []Type
	Result     Type
}

// ImplInfo is one `impl Trait for Target` block's checked method table.
type ImplInfo struct {
	TraitName string
	Target    Type
	Methods   map[string]*TFunction
}

// implKey identifies a registered impl by trait name and the target type's
// head constructor name (e.g. "Point", "Array", "Integer").
type implKey struct {
	trait  string
	target string
}

// TypeEnv is a parent-chained lexical scope mapping names to Bindings, plus
// the whole-program tables (impls, constructors, variant ownership, and
// module exposure) that live only at the root environment.
type TypeEnv struct {
	vars   map[string]*Binding
	parent *TypeEnv

	// Root-only tables; nil on non-root environments (Root() finds them).
	impls        map[implKey]*ImplInfo
	constructors map[string]*ConstructorInfo
	variantToSum map[string]*TSum
	traits       map[string]*TTrait
	exposed      map[string]bool
	exposureRestricted bool
	sums         map[string]*TSum
	records      map[string]*TRecord

	// currentReturn is the declared return type of the function literal
	// currently being checked, used to check `return` statements and the
	// implicit tail-expression return. Nil outside a function body.
	currentReturn Type
}

// NewRootEnv creates the top-level environment of a module, seeded with the
// whole-program tables.
func NewRootEnv() *TypeEnv {
	return &TypeEnv{
		vars:         make(map[string]*Binding),
		impls:        make(map[implKey]*ImplInfo),
		constructors: make(map[string]*ConstructorInfo),
		variantToSum: make(map[string]*TSum),
		traits:       make(map[string]*TTrait),
		exposed:      make(map[string]bool),
		sums:         make(map[string]*TSum),
		records:      make(map[string]*TRecord),
	}
}

// Child creates a nested scope (function body, block, match arm) sharing
// e's root tables.
func (e *TypeEnv) Child() *TypeEnv {
	return &TypeEnv{vars: make(map[string]*Binding), parent: e}
}

func (e *TypeEnv) root() *TypeEnv {
	for e.parent != nil {
		e = e.parent
	}
	return e
}

// Define binds name in the current scope, shadowing any outer binding.
func (e *TypeEnv) Define(name string, t Type, mutable bool) {
	e.vars[name] = &Binding{Type: t, Mutable: mutable}
}

// Lookup searches this scope and its ancestors for name.
func (e *TypeEnv) Lookup(name string) (*Binding, bool) {
	for env := e; env != nil; env = env.parent {
		if b, ok := env.vars[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// WithReturn creates a child scope with the given declared return type in
// effect, for checking a function body.
func (e *TypeEnv) WithReturn(ret Type) *TypeEnv {
	child := e.Child()
	child.currentReturn = ret
	return child
}

// CurrentReturn walks up to find the nearest enclosing function's declared
// return type, or nil if not inside a function body.
func (e *TypeEnv) CurrentReturn() Type {
	for env := e; env != nil; env = env.parent {
		if env.currentReturn != nil {
			return env.currentReturn
		}
	}
	return nil
}

func (e *TypeEnv) RegisterConstructor(name string, info *ConstructorInfo) {
	e.root().constructors[name] = info
}

func (e *TypeEnv) LookupConstructor(name string) (*ConstructorInfo, bool) {
	c, ok := e.root().constructors[name]
	return c, ok
}

func (e *TypeEnv) RegisterVariant(variantName string, sum *TSum) {
	e.root().variantToSum[variantName] = sum
}

func (e *TypeEnv) LookupVariantSum(variantName string) (*TSum, bool) {
	s, ok := e.root().variantToSum[variantName]
	return s, ok
}

func (e *TypeEnv) RegisterTrait(t *TTrait) {
	e.root().traits[t.Name] = t
}

func (e *TypeEnv) LookupTrait(name string) (*TTrait, bool) {
	t, ok := e.root().traits[name]
	return t, ok
}

func (e *TypeEnv) RegisterImpl(traitName string, target Type, methods map[string]*TFunction) {
	e.root().impls[implKey{trait: traitName, target: headName(target)}] = &ImplInfo{
		TraitName: traitName, Target: target, Methods: methods,
	}
}

// LookupImplMethod finds method on the impl registered for (traitName,
// target)'s head type, if any.
func (e *TypeEnv) LookupImplMethod(traitName string, target Type, method string) (*TFunction, bool) {
	impl, ok := e.root().impls[implKey{trait: traitName, target: headName(target)}]
	if !ok {
		return nil, false
	}
	fn, ok := impl.Methods[method]
	return fn, ok
}

// LookupMethodOnAnyTrait finds an impl method on target regardless of
// trait, for `value.method(...)` calls where the trait is not named
// explicitly, for member-call dispatch.
func (e *TypeEnv) LookupMethodOnAnyTrait(target Type, method string) (*TFunction, bool) {
	root := e.root()
	for key, impl := range root.impls {
		if key.target != headName(target) {
			continue
		}
		if fn, ok := impl.Methods[method]; ok {
			return fn, true
		}
	}
	return nil, false
}

// MergeTables copies other's whole-program tables (impls, constructors,
// variant ownership, traits, sums, records) into e's root, so that a
// module's trait implementations and type declarations remain visible to
// an importing module regardless of its `exposing` clause, impls
// are a program-wide concern, not a per-name export.
func (e *TypeEnv) MergeTables(other *TypeEnv) {
	root, otherRoot := e.root(), other.root()
	for k, v := range otherRoot.impls {
		root.impls[k] = v
	}
	for k, v := range otherRoot.constructors {
		root.constructors[k] = v
	}
	for k, v := range otherRoot.variantToSum {
		root.variantToSum[k] = v
	}
	for k, v := range otherRoot.traits {
		root.traits[k] = v
	}
	for k, v := range otherRoot.sums {
		root.sums[k] = v
	}
	for k, v := range otherRoot.records {
		root.records[k] = v
	}
}

func (e *TypeEnv) registerSum(s *TSum)                { e.root().sums[s.Name] = s }
func (e *TypeEnv) sumsByName() map[string]*TSum       { return e.root().sums }
func (e *TypeEnv) registerRecord(r *TRecord)           { e.root().records[r.Name] = r }
func (e *TypeEnv) recordsByName() map[string]*TRecord { return e.root().records }

// Bindings returns a copy of this scope's own bindings, ignoring parents.
// The module loader uses it to build a loaded module's export table from
// its top-level environment.
func (e *TypeEnv) Bindings() map[string]*Binding {
	out := make(map[string]*Binding, len(e.vars))
	for k, v := range e.vars {
		out[k] = v
	}
	return out
}

func (e *TypeEnv) MarkExposed(name string) {
	root := e.root()
	root.exposureRestricted = true
	root.exposed[name] = true
}

// IsExposed reports whether name is reachable from outside this module.
// A module with no header (or a header without an `exposing` clause)
// exposes every name; only once MarkExposed has been called at least once
// (i.e. an explicit `exposing (...)` clause was present) does exposure
// become an allowlist.
func (e *TypeEnv) IsExposed(name string) bool {
	root := e.root()
	if !root.exposureRestricted {
		return true
	}
	return root.exposed[name]
}

// headName is the type's head constructor name used to key impl lookups:
// "Integer", "Array", "Point", etc., ignoring type arguments.
func headName(t Type) string {
	switch v := t.(type) {
	case *TCon:
		return v.Name
	case *TArray:
		return "Array"
	case *THash:
		return "Hash"
	case *TTuple:
		return "Tuple"
	case *TRecord:
		return v.Name
	case *TSum:
		return v.Name
	case *TVariant:
		return v.Parent
	case *TFunction:
		return "Function"
	case *TVar:
		return v.Name
	default:
		return ""
	}
}
