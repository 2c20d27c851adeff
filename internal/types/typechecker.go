package types

import (
	"fmt"

	"github.com/lumen-lang/lumen/internal/ast"
)

// CheckError is one semantic error found during type checking, tagged with
// the source position of the offending node. Code is the matching
// internal/errors semantic error code when the check that raised it maps
// to one; empty for the generic mismatches that fall back to a default
// code at the loader boundary.
type CheckError struct {
	Pos     ast.Pos
	Message string
	Code    string
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Checker walks a checked program's AST, inferring and unifying types via a
// single threaded Substitution, in the style of a constraint-based
// Hindley-Milner checker extended with trait/impl dispatch instead of
// dictionary passing.
type Checker struct {
	errors    []*CheckError
	sub       Substitution
	nextVarID int
}

func NewChecker() *Checker {
	return &Checker{sub: Substitution{}}
}

// Errors returns the accumulated semantic errors.
func (c *Checker) Errors() []*CheckError { return c.errors }

func (c *Checker) errorf(pos ast.Pos, format string, args ...interface{}) Type {
	c.errors = append(c.errors, &CheckError{Pos: pos, Message: fmt.Sprintf(format, args...)})
	return &TError{}
}

// errorfCode is errorf with an explicit internal/errors semantic code
// attached, for checks the loader needs to distinguish from a generic
// type mismatch when rendering a Report.
func (c *Checker) errorfCode(pos ast.Pos, code, format string, args ...interface{}) Type {
	c.errors = append(c.errors, &CheckError{Pos: pos, Message: fmt.Sprintf(format, args...), Code: code})
	return &TError{}
}

// fresh allocates a new unbound type variable.
func (c *Checker) fresh() *TVar {
	v := &TVar{Name: fmt.Sprintf("t%d", c.nextVarID)}
	c.nextVarID++
	return v
}

// unify unifies a and b against the checker's running substitution,
// recording an error (and returning false) on mismatch.
func (c *Checker) unify(pos ast.Pos, a, b Type) bool {
	next, err := NewUnifier().Unify(a, b, c.sub)
	if err != nil {
		c.errorf(pos, "%s", err.Error())
		return false
	}
	c.sub = next
	return true
}

func (c *Checker) resolve(t Type) Type {
	return ApplySubstitution(c.sub, t)
}

// Check type-checks a full program, returning the populated root
// environment and any errors found. A program with parser errors
// is never passed here; callers gate on Parser.Errors() first.
//
// seed, if given, runs after the prelude is seeded and before any
// declaration in prog is processed, the module loader uses it to bind the
// names and modules a `use` statement brought into scope,
// since Check itself never resolves imports.
func Check(prog *ast.Program, seed ...func(*TypeEnv)) (*TypeEnv, []*CheckError) {
	c := NewChecker()
	env := NewRootEnv()
	seedPrelude(env)
	for _, fn := range seed {
		fn(env)
	}

	// Declarations are registered in two passes so that forward references
	// (a function calling one declared later, a record referencing a trait
	// declared after it) resolve.
	for _, stmt := range prog.Statements {
		c.declarePass(stmt, env)
	}
	for _, stmt := range prog.Statements {
		c.checkStmt(stmt, env)
	}
	return env, c.errors
}

// CheckLast type-checks prog the same way Check does, additionally
// returning the resolved type of the final statement, the REPL's `:type`
// command uses this to report what a typed expression would evaluate to
// without running it.
func CheckLast(prog *ast.Program, seed ...func(*TypeEnv)) (Type, *TypeEnv, []*CheckError) {
	c := NewChecker()
	env := NewRootEnv()
	seedPrelude(env)
	for _, fn := range seed {
		fn(env)
	}

	for _, stmt := range prog.Statements {
		c.declarePass(stmt, env)
	}

	var last Type = TNull
	for _, stmt := range prog.Statements {
		last = c.resolve(c.checkStmt(stmt, env))
	}
	return last, env, c.errors
}

// declarePass registers the name and shape of type/record/trait/function
// declarations before bodies are checked.
func (c *Checker) declarePass(stmt ast.Stmt, env *TypeEnv) {
	switch s := stmt.(type) {
	case *ast.TypeDecl:
		c.declareTypeDecl(s, env)
	case *ast.RecordDecl:
		c.declareRecordDecl(s, env)
	case *ast.TraitDecl:
		c.declareTraitDecl(s, env)
	case *ast.LetStmt:
		if ident, ok := s.Pattern.(*ast.Identifier); ok {
			if fn, ok := s.Value.(*ast.FunctionLit); ok {
				env.Define(ident.Value, c.functionSignature(fn, env), s.Mutable)
			}
		}
	}
}

func (c *Checker) checkStmt(stmt ast.Stmt, env *TypeEnv) Type {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		return c.checkLetStmt(s, env)
	case *ast.ReturnStmt:
		var t Type = TNull
		if s.Value != nil {
			t = c.inferExpr(s.Value, env)
		}
		if ret := env.CurrentReturn(); ret != nil {
			c.unify(s.Pos(), ret, t)
		}
		return TNull
	case *ast.TypeDecl, *ast.RecordDecl, *ast.TraitDecl:
		return TNull // fully handled in declarePass
	case *ast.ImplDecl:
		return c.checkImplDecl(s, env)
	case *ast.ModuleHeader:
		if s.HasExposing {
			for _, n := range s.ExposedNames {
				env.MarkExposed(n)
			}
		}
		return TNull
	case *ast.UseStmt:
		return TNull // resolved by the module loader, not the checker
	case *ast.ExprStmt:
		if s.Expr == nil {
			return TNull
		}
		return c.inferExpr(s.Expr, env)
	}
	return TNull
}

func (c *Checker) checkLetStmt(s *ast.LetStmt, env *TypeEnv) Type {
	valueType := c.inferExpr(s.Value, env)
	if s.TypeAnn != nil {
		declared := c.resolveTypeNode(s.TypeAnn, env)
		c.unify(s.Pos(), declared, valueType)
		valueType = c.resolve(declared)
	}
	c.bindPattern(s.Pattern, valueType, env, s.Mutable)
	return TNull
}

// bindPattern destructures valueType according to pattern, defining each
// bound identifier in env (let-pattern forms: identifier, tuple,
// array).
func (c *Checker) bindPattern(pattern ast.Pattern, valueType Type, env *TypeEnv, mutable bool) {
	switch p := pattern.(type) {
	case *ast.Identifier:
		env.Define(p.Value, valueType, mutable)
	case *ast.TuplePattern:
		tup, ok := c.resolve(valueType).(*TTuple)
		if !ok || len(tup.Elements) != len(p.Elements) {
			for _, el := range p.Elements {
				c.bindPattern(el, c.fresh(), env, mutable)
			}
			return
		}
		for i, el := range p.Elements {
			c.bindPattern(el, tup.Elements[i], env, mutable)
		}
	case *ast.ArrayPattern:
		arr, ok := c.resolve(valueType).(*TArray)
		elemType := Type(c.fresh())
		if ok {
			elemType = arr.Elem
		}
		for _, el := range p.Elements {
			c.bindPattern(el, elemType, env, mutable)
		}
		if p.HasRest {
			env.Define(p.Rest, &TArray{Elem: elemType}, mutable)
		}
	}
}
