package types

import (
	"sort"
	"strings"

	"github.com/lumen-lang/lumen/internal/ast"
	lumenerrors "github.com/lumen-lang/lumen/internal/errors"
)

// inferExpr infers and returns the type of expr, threading unification
// constraints through the checker's running substitution.
func (c *Checker) inferExpr(expr ast.Expr, env *TypeEnv) Type {
	switch e := expr.(type) {
	case *ast.IntegerLit:
		return TInteger
	case *ast.DoubleLit:
		return TDouble
	case *ast.BooleanLit:
		return TBoolean
	case *ast.StringLit:
		return TString
	case *ast.InterpStringLit:
		for _, sub := range e.Exprs {
			c.inferExpr(sub, env)
		}
		return TString
	case *ast.Identifier:
		if b, ok := env.Lookup(e.Value); ok {
			return b.Type
		}
		if ctor, ok := env.LookupConstructor(e.Value); ok && len(ctor.ParamTypes) == 0 {
			return ctor.Result
		}
		return c.errorf(e.Pos(), "undefined name %q", e.Value)
	case *ast.PathExpr:
		// A path whose first segment is a bound name is checked as a chain of
		// member accesses on it; any other path is left to the loader.
		if _, ok := env.Lookup(e.Segments[0]); ok {
			var chain ast.Expr = &ast.Identifier{Tok: e.Tok, Value: e.Segments[0]}
			for _, seg := range e.Segments[1:] {
				chain = &ast.MemberExpr{Tok: e.Tok, Left: chain, Property: seg}
			}
			return c.inferExpr(chain, env)
		}
		return TAny
	case *ast.ArrayLit:
		elem := Type(c.fresh())
		for _, el := range e.Elements {
			t := c.inferExpr(el, env)
			c.unify(el.Pos(), elem, t)
		}
		return &TArray{Elem: c.resolve(elem)}
	case *ast.HashLit:
		key := Type(c.fresh())
		value := Type(c.fresh())
		for _, entry := range e.Entries {
			keyType := c.inferExpr(entry.Key, env)
			c.unify(entry.Key.Pos(), key, keyType)
			t := c.inferExpr(entry.Value, env)
			c.unify(entry.Value.Pos(), value, t)
		}
		return &THash{Key: c.resolve(key), Value: c.resolve(value)}
	case *ast.TupleLit:
		if len(e.Elements) == 0 {
			return TNull
		}
		elems := make([]Type, len(e.Elements))
		for i, el := range e.Elements {
			elems[i] = c.inferExpr(el, env)
		}
		return &TTuple{Elements: elems}
	case *ast.PrefixExpr:
		return c.inferPrefix(e, env)
	case *ast.InfixExpr:
		return c.inferInfix(e, env)
	case *ast.AssignExpr:
		return c.inferAssign(e, env)
	case *ast.CallExpr:
		return c.inferCall(e, env)
	case *ast.IndexExpr:
		return c.inferIndex(e, env)
	case *ast.MemberExpr:
		return c.inferMember(e, env)
	case *ast.IfExpr:
		condType := c.inferExpr(e.Condition, env)
		c.unify(e.Condition.Pos(), TBoolean, condType)
		thenType := c.inferExpr(e.Then, env)
		if e.Else == nil {
			return TNull
		}
		elseType := c.inferExpr(e.Else, env)
		c.unify(e.Pos(), thenType, elseType)
		return c.resolve(thenType)
	case *ast.MatchExpr:
		return c.inferMatch(e, env)
	case *ast.WhenExpr:
		return c.inferWhen(e, env)
	case *ast.TryExpr:
		return c.inferTry(e, env)
	case *ast.FunctionLit:
		return c.inferFunctionLit(e, env)
	case *ast.BlockExpr:
		return c.inferBlock(e, env)
	}
	return c.fresh()
}

func (c *Checker) inferPrefix(e *ast.PrefixExpr, env *TypeEnv) Type {
	right := c.inferExpr(e.Right, env)
	switch e.Operator {
	case "!":
		c.unify(e.Pos(), TBoolean, right)
		return TBoolean
	case "-":
		if !c.unify(e.Pos(), TInteger, right) {
			c.unify(e.Pos(), TDouble, right)
		}
		return c.resolve(right)
	}
	return c.errorf(e.Pos(), "unknown prefix operator %q", e.Operator)
}

// widenNumeric returns Double if either operand resolved to Double (the
// numeric relaxation rule: Integer is accepted wherever Double is
// expected, and mixed Integer+Double arithmetic widens to Double),
// otherwise returns a as-is.
func widenNumeric(a, b Type) Type {
	if a.Equals(TDouble) || b.Equals(TDouble) {
		return TDouble
	}
	return a
}

func (c *Checker) inferInfix(e *ast.InfixExpr, env *TypeEnv) Type {
	left := c.inferExpr(e.Left, env)
	right := c.inferExpr(e.Right, env)
	switch e.Operator {
	case "&&", "||":
		c.unify(e.Left.Pos(), TBoolean, left)
		c.unify(e.Right.Pos(), TBoolean, right)
		return TBoolean
	case "==", "!=":
		c.unify(e.Pos(), left, right)
		return TBoolean
	case "<", "<=", ">", ">=":
		c.unify(e.Pos(), left, right)
		return TBoolean
	case "+":
		if c.resolve(left).Equals(TString) {
			c.unify(e.Right.Pos(), TString, right)
			return TString
		}
		c.unify(e.Pos(), left, right)
		return widenNumeric(c.resolve(left), c.resolve(right))
	case "-", "*", "/", "%":
		c.unify(e.Pos(), left, right)
		return widenNumeric(c.resolve(left), c.resolve(right))
	}
	return c.errorf(e.Pos(), "unknown infix operator %q", e.Operator)
}

func (c *Checker) inferAssign(e *ast.AssignExpr, env *TypeEnv) Type {
	targetType := c.inferExpr(e.Target, env)
	if ident, ok := e.Target.(*ast.Identifier); ok {
		if b, ok := env.Lookup(ident.Value); ok && !b.Mutable {
			c.errorf(e.Pos(), "cannot assign to immutable binding %q", ident.Value)
		}
	}
	valueType := c.inferExpr(e.Value, env)
	c.unify(e.Pos(), targetType, valueType)
	return TNull
}

func (c *Checker) inferCall(e *ast.CallExpr, env *TypeEnv) Type {
	if member, ok := e.Function.(*ast.MemberExpr); ok {
		receiverType := c.resolve(c.inferExpr(member.Left, env))
		if _, isModule := receiverType.(*TModule); !isModule {
			if _, isRecordField := c.recordFieldType(receiverType, member.Property); !isRecordField {
				return c.inferMethodCall(e, member, receiverType, env)
			}
		}
	}
	if ident, ok := e.Function.(*ast.Identifier); ok {
		if ctor, ok := env.LookupConstructor(ident.Value); ok {
			if len(ctor.ParamTypes) != len(e.Arguments) {
				c.errorf(e.Pos(), "%s expects %d argument(s), got %d", ident.Value, len(ctor.ParamTypes), len(e.Arguments))
			}
			for i, arg := range e.Arguments {
				argType := c.inferExpr(arg, env)
				if i < len(ctor.ParamTypes) {
					c.unify(arg.Pos(), ctor.ParamTypes[i], argType)
				}
			}
			return c.resolve(ctor.Result)
		}
	}
	fnType := c.inferExpr(e.Function, env)
	argTypes := make([]Type, len(e.Arguments))
	for i, arg := range e.Arguments {
		argTypes[i] = c.inferExpr(arg, env)
	}
	ret := Type(c.fresh())
	c.unify(e.Pos(), fnType, &TFunction{Params: argTypes, Return: ret})
	return c.resolve(ret)
}

func (c *Checker) recordFieldType(t Type, field string) (Type, bool) {
	rec, ok := t.(*TRecord)
	if !ok {
		return nil, false
	}
	ft, ok := rec.Fields[field]
	return ft, ok
}

// inferMethodCall checks `receiver.method(args...)`, which dispatches to a
// registered impl the way LookupMethodOnAnyTrait resolves it at evaluation
// time: the receiver itself is the method's implicit first (self) argument.
func (c *Checker) inferMethodCall(e *ast.CallExpr, member *ast.MemberExpr, receiverType Type, env *TypeEnv) Type {
	fn, ok := env.LookupMethodOnAnyTrait(receiverType, member.Property)
	if !ok {
		if IsError(receiverType) {
			return receiverType
		}
		return c.errorf(e.Pos(), "%s has no method %q", receiverType.String(), member.Property)
	}
	args := append([]ast.Expr{member.Left}, e.Arguments...)
	if len(fn.Params) != len(args) {
		c.errorf(e.Pos(), "%s.%s expects %d argument(s), got %d", receiverType.String(), member.Property, len(fn.Params)-1, len(e.Arguments))
	}
	for i, arg := range args {
		argType := c.inferExpr(arg, env)
		if i < len(fn.Params) {
			c.unify(arg.Pos(), fn.Params[i], argType)
		}
	}
	return c.resolve(fn.Return)
}

func (c *Checker) inferIndex(e *ast.IndexExpr, env *TypeEnv) Type {
	leftType := c.resolve(c.inferExpr(e.Left, env))
	indexType := c.inferExpr(e.Index, env)
	switch lt := leftType.(type) {
	case *TArray:
		c.unify(e.Index.Pos(), TInteger, indexType)
		return lt.Elem
	case *THash:
		c.unify(e.Index.Pos(), lt.Key, indexType)
		return lt.Value
	case *TTuple:
		if lit, ok := e.Index.(*ast.IntegerLit); ok && lit.Value >= 0 && int(lit.Value) < len(lt.Elements) {
			return lt.Elements[lit.Value]
		}
		return c.fresh()
	}
	if IsError(leftType) {
		return leftType
	}
	return c.errorf(e.Pos(), "cannot index into %s", leftType.String())
}

func (c *Checker) inferMember(e *ast.MemberExpr, env *TypeEnv) Type {
	leftType := c.resolve(c.inferExpr(e.Left, env))
	switch lt := leftType.(type) {
	case *TModule:
		if t, ok := lt.Exports[e.Property]; ok {
			return t
		}
		return c.errorf(e.Pos(), "module %s has no export %q", lt.Name, e.Property)
	case *TRecord:
		if t, ok := lt.Fields[e.Property]; ok {
			return t
		}
	case *THash:
		if !lt.Key.Equals(TString) && !lt.Key.Equals(TAny) {
			return c.errorf(e.Pos(), "dot notation on %s requires String keys", lt.String())
		}
		return lt.Value
	}
	if fn, ok := env.LookupMethodOnAnyTrait(leftType, e.Property); ok {
		if len(fn.Params) > 0 {
			return &TFunction{Params: fn.Params[1:], Return: fn.Return}
		}
		return fn
	}
	if IsError(leftType) {
		return leftType
	}
	return c.errorf(e.Pos(), "%s has no member %q", leftType.String(), e.Property)
}

func (c *Checker) inferTry(e *ast.TryExpr, env *TypeEnv) Type {
	operandType := c.resolve(c.inferExpr(e.Operand, env))
	sum, ok := operandType.(*TSum)
	if !ok || sum.Name != "Result" {
		if IsError(operandType) {
			return operandType
		}
		return c.errorf(e.Pos(), "`?` requires a Result, got %s", operandType.String())
	}
	if ret := env.CurrentReturn(); ret != nil {
		c.unify(e.Pos(), ret, sum)
	}
	if len(sum.TypeArgs) > 0 {
		return sum.TypeArgs[0]
	}
	return c.fresh()
}

func (c *Checker) inferFunctionLit(e *ast.FunctionLit, env *TypeEnv) Type {
	sig := c.functionSignature(e, env)
	fnType := sig.(*TFunction)
	bodyEnv := env.Child()
	for i, p := range e.Params {
		bodyEnv.Define(p.Name, fnType.Params[i], false)
	}
	bodyEnv = bodyEnv.WithReturn(fnType.Return)
	bodyType := c.inferExpr(e.Body, bodyEnv)
	c.unify(e.Pos(), fnType.Return, bodyType)
	return fnType
}

func (c *Checker) inferBlock(e *ast.BlockExpr, env *TypeEnv) Type {
	child := env.Child()
	var last Type = TNull
	for _, stmt := range e.Statements {
		last = c.checkStmt(stmt, child)
	}
	return last
}

func (c *Checker) inferMatch(e *ast.MatchExpr, env *TypeEnv) Type {
	scrutTypes := make([]Type, len(e.Scrutinees))
	for i, s := range e.Scrutinees {
		scrutTypes[i] = c.inferExpr(s, env)
	}
	result := Type(c.fresh())
	for _, arm := range e.Arms {
		armEnv := env.Child()
		for i, pat := range arm.Patterns {
			if i < len(scrutTypes) {
				c.checkPattern(pat, scrutTypes[i], armEnv)
			}
		}
		bodyType := c.inferExpr(arm.Body, armEnv)
		c.unify(arm.Body.Pos(), result, bodyType)
	}
	c.checkMatchExhaustiveness(e, scrutTypes)
	return c.resolve(result)
}

// checkMatchExhaustiveness raises CodeNonExhaustiveMatch when a match on a
// single Sum-typed scrutinee omits one of the sum's variants and none of
// its arms has a wildcard or bare-identifier catch-all in that position.
// Tuple/multi-scrutinee matches and non-Sum scrutinees are left alone.
func (c *Checker) checkMatchExhaustiveness(e *ast.MatchExpr, scrutTypes []Type) {
	if len(scrutTypes) != 1 {
		return
	}
	sum, ok := c.resolve(scrutTypes[0]).(*TSum)
	if !ok {
		return
	}
	covered := make(map[string]bool, len(sum.Variants))
	for _, arm := range e.Arms {
		if len(arm.Patterns) != 1 {
			continue
		}
		switch p := arm.Patterns[0].(type) {
		case *ast.WildcardPattern, *ast.Identifier:
			return
		case *ast.VariantPattern:
			covered[p.Name] = true
		}
	}
	missing := make([]string, 0)
	for name := range sum.Variants {
		if !covered[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return
	}
	sort.Strings(missing)
	c.errorfCode(e.Pos(), lumenerrors.CodeNonExhaustiveMatch,
		"non-exhaustive match on %s: missing variant(s) %s", sum.Name, strings.Join(missing, ", "))
}

func (c *Checker) inferWhen(e *ast.WhenExpr, env *TypeEnv) Type {
	var subjectType Type
	if e.Subject != nil {
		subjectType = c.inferExpr(e.Subject, env)
	}
	result := Type(c.fresh())
	for _, arm := range e.Arms {
		armEnv := env.Child()
		for _, cond := range arm.Conditions {
			if subjectType != nil {
				condType := c.inferExpr(cond, armEnv)
				c.unify(cond.Pos(), subjectType, condType)
				continue
			}
			condType := c.inferExpr(cond, armEnv)
			c.unify(cond.Pos(), TBoolean, condType)
		}
		bodyType := c.inferExpr(arm.Body, armEnv)
		c.unify(arm.Body.Pos(), result, bodyType)
	}
	if e.Else != nil {
		elseType := c.inferExpr(e.Else, env)
		c.unify(e.Else.Pos(), result, elseType)
	}
	return c.resolve(result)
}

// checkPattern unifies pattern's shape against scrutType and binds any
// identifiers it introduces into env.
func (c *Checker) checkPattern(pattern ast.Pattern, scrutType Type, env *TypeEnv) {
	switch p := pattern.(type) {
	case *ast.WildcardPattern:
		return
	case *ast.Identifier:
		env.Define(p.Value, scrutType, false)
	case *ast.LiteralPattern:
		litType := c.inferExpr(p.Value, env)
		c.unify(p.Pos(), scrutType, litType)
	case *ast.VariantPattern:
		ctor, ok := env.LookupConstructor(p.Name)
		if !ok {
			c.errorf(p.Pos(), "unknown variant %q", p.Name)
			for _, sub := range p.SubPats {
				c.checkPattern(sub, c.fresh(), env)
			}
			return
		}
		c.unify(p.Pos(), scrutType, ctor.Result)
		for i, sub := range p.SubPats {
			pt := Type(c.fresh())
			if i < len(ctor.ParamTypes) {
				pt = ctor.ParamTypes[i]
			}
			c.checkPattern(sub, pt, env)
		}
	case *ast.TuplePattern:
		tup, ok := c.resolve(scrutType).(*TTuple)
		for i, el := range p.Elements {
			et := Type(c.fresh())
			if ok && i < len(tup.Elements) {
				et = tup.Elements[i]
			}
			c.checkPattern(el, et, env)
		}
	case *ast.ArrayPattern:
		arr, ok := c.resolve(scrutType).(*TArray)
		elemType := Type(c.fresh())
		if ok {
			elemType = arr.Elem
		}
		for _, el := range p.Elements {
			c.checkPattern(el, elemType, env)
		}
		if p.HasRest {
			env.Define(p.Rest, &TArray{Elem: elemType}, false)
		}
	}
}
