package eval

import (
	"fmt"

	"github.com/lumen-lang/lumen/internal/ast"
)

// Interpreter evaluates a checked program's statements against a shared
// Registry, the runtime counterpart of types.Checker.
type Interpreter struct {
	Reg *Registry
}

// NewInterpreter creates an interpreter with its own registry.
func NewInterpreter() *Interpreter {
	return &Interpreter{Reg: NewRegistry()}
}

// Run evaluates every statement of prog in env in order, returning the
// value of the final statement (or Null, if prog is empty or its last
// statement has no value). A program is expected to have already passed
// type checking; Run still returns a Go error for the handful of failures
// that only exist at runtime (division by zero, non-exhaustive match).
func (i *Interpreter) Run(prog *ast.Program, env *Environment) (Value, error) {
	for _, stmt := range prog.Statements {
		i.declare(stmt, env)
	}

	var last Value = &NullValue{}
	for _, stmt := range prog.Statements {
		v, err := i.evalStmt(stmt, env)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

// declare performs the runtime registration pass: record/variant shapes and
// trait impls must exist before any constructor call or method dispatch
// runs, including ones that appear textually before the declaration.
func (i *Interpreter) declare(stmt ast.Stmt, env *Environment) {
	switch s := stmt.(type) {
	case *ast.TypeDecl:
		for _, variant := range s.Variants {
			i.Reg.RegisterVariant(&VariantInfo{Name: variant.Name, Parent: s.Name, Arity: len(variant.Params)})
		}
	case *ast.RecordDecl:
		order := make([]string, len(s.Fields))
		for idx, f := range s.Fields {
			order[idx] = f.Name
		}
		i.Reg.RegisterRecord(&RecordInfo{Name: s.Name, FieldOrder: order})
	case *ast.ImplDecl:
		methods := make(map[string]*FunctionValue, len(s.Methods))
		for _, m := range s.Methods {
			params := make([]string, len(m.Params))
			for idx, p := range m.Params {
				params[idx] = p.Name
			}
			methods[m.Name] = &FunctionValue{Name: m.Name, Params: params, Body: m.Body, Env: env}
		}
		targetName := typeNodeHeadName(s.Target)
		i.Reg.RegisterImpl(s.TraitName, targetName, methods)
	}
}

func (i *Interpreter) evalStmt(stmt ast.Stmt, env *Environment) (Value, error) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		val, err := i.Eval(s.Value, env)
		if err != nil {
			return nil, err
		}
		if err := i.bindPattern(s.Pattern, val, env); err != nil {
			return nil, err
		}
		return &NullValue{}, nil
	case *ast.ReturnStmt:
		var val Value = &NullValue{}
		if s.Value != nil {
			v, err := i.Eval(s.Value, env)
			if err != nil {
				return nil, err
			}
			val = v
		}
		return nil, &returnSignal{value: val}
	case *ast.TypeDecl, *ast.RecordDecl, *ast.TraitDecl, *ast.ImplDecl:
		return &NullValue{}, nil // handled in declare
	case *ast.ModuleHeader, *ast.UseStmt:
		return &NullValue{}, nil // handled by the module loader
	case *ast.ExprStmt:
		if s.Expr == nil {
			return &NullValue{}, nil
		}
		return i.Eval(s.Expr, env)
	}
	return nil, fmt.Errorf("eval: unhandled statement %T", stmt)
}

// bindPattern destructures val according to pattern, defining every bound
// identifier into env. Arity/shape mismatches here would already have been
// rejected by the checker; this only handles the shapes allowed in a
// let-pattern (identifier, tuple, array).
func (i *Interpreter) bindPattern(pattern ast.Pattern, val Value, env *Environment) error {
	switch p := pattern.(type) {
	case *ast.Identifier:
		env.Define(p.Value, val)
		return nil
	case *ast.TuplePattern:
		tup, ok := val.(*TupleValue)
		if !ok {
			return fmt.Errorf("eval: cannot destructure %s as a tuple", val.Type())
		}
		for idx, el := range p.Elements {
			if idx >= len(tup.Elements) {
				break
			}
			if err := i.bindPattern(el, tup.Elements[idx], env); err != nil {
				return err
			}
		}
		return nil
	case *ast.ArrayPattern:
		arr, ok := val.(*ArrayValue)
		if !ok {
			return fmt.Errorf("eval: cannot destructure %s as an array", val.Type())
		}
		for idx, el := range p.Elements {
			if idx >= len(arr.Elements) {
				break
			}
			if err := i.bindPattern(el, arr.Elements[idx], env); err != nil {
				return err
			}
		}
		if p.HasRest {
			rest := []Value{}
			if len(arr.Elements) > len(p.Elements) {
				rest = append(rest, arr.Elements[len(p.Elements):]...)
			}
			env.Define(p.Rest, &ArrayValue{Elements: rest})
		}
		return nil
	}
	return fmt.Errorf("eval: unsupported let-pattern %T", pattern)
}

// typeNodeHeadName extracts the head type name of an impl's target type
// node, without full type resolution (the checker has already validated it
// against a real declared/builtin type).
func typeNodeHeadName(t ast.TypeNode) string {
	switch n := t.(type) {
	case *ast.NamedTypeNode:
		return n.Name
	case *ast.GenericTypeNode:
		return n.Name
	case *ast.PathTypeNode:
		if len(n.Segments) > 0 {
			return n.Segments[len(n.Segments)-1]
		}
	}
	return ""
}
