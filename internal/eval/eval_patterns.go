package eval

import (
	"fmt"

	"github.com/lumen-lang/lumen/internal/ast"
)

// evalMatch implements match-expression semantics: each arm's pattern list is
// tried against the scrutinees in order; the first arm whose patterns all
// match wins, binding any identifiers its sub-patterns introduce into a
// child scope before evaluating the body.
func (i *Interpreter) evalMatch(e *ast.MatchExpr, env *Environment) (Value, error) {
	scrutinees := make([]Value, len(e.Scrutinees))
	for idx, s := range e.Scrutinees {
		v, err := i.Eval(s, env)
		if err != nil {
			return nil, err
		}
		scrutinees[idx] = v
	}

	for _, arm := range e.Arms {
		if len(arm.Patterns) != len(scrutinees) {
			continue
		}
		child := env.Child()
		matched := true
		for idx, pat := range arm.Patterns {
			if !i.matchPattern(pat, scrutinees[idx], child) {
				matched = false
				break
			}
		}
		if matched {
			return i.Eval(arm.Body, child)
		}
	}
	return nil, fmt.Errorf("eval: no pattern matched in match expression")
}

// matchPattern reports whether pat matches val, binding any identifiers
// pat introduces into env as a side effect of a successful match.
func (i *Interpreter) matchPattern(pat ast.Pattern, val Value, env *Environment) bool {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return true
	case *ast.Identifier:
		env.Define(p.Value, val)
		return true
	case *ast.LiteralPattern:
		return i.matchLiteralPattern(p, val)
	case *ast.VariantPattern:
		sum, ok := val.(*SumValue)
		if !ok || sum.VariantName != p.Name || len(sum.Fields) != len(p.SubPats) {
			return false
		}
		for idx, sub := range p.SubPats {
			if !i.matchPattern(sub, sum.Fields[idx], env) {
				return false
			}
		}
		return true
	case *ast.ArrayPattern:
		arr, ok := val.(*ArrayValue)
		if !ok || len(arr.Elements) < len(p.Elements) {
			return false
		}
		if !p.HasRest && len(arr.Elements) != len(p.Elements) {
			return false
		}
		for idx, sub := range p.Elements {
			if !i.matchPattern(sub, arr.Elements[idx], env) {
				return false
			}
		}
		if p.HasRest {
			rest := append([]Value{}, arr.Elements[len(p.Elements):]...)
			env.Define(p.Rest, &ArrayValue{Elements: rest})
		}
		return true
	case *ast.TuplePattern:
		tup, ok := val.(*TupleValue)
		if !ok || len(tup.Elements) != len(p.Elements) {
			return false
		}
		for idx, sub := range p.Elements {
			if !i.matchPattern(sub, tup.Elements[idx], env) {
				return false
			}
		}
		return true
	}
	return false
}

func (i *Interpreter) matchLiteralPattern(p *ast.LiteralPattern, val Value) bool {
	switch lit := p.Value.(type) {
	case *ast.IntegerLit:
		n, ok := val.(*IntegerValue)
		return ok && n.Value == lit.Value
	case *ast.DoubleLit:
		n, ok := val.(*DoubleValue)
		return ok && n.Value == lit.Value
	case *ast.BooleanLit:
		b, ok := val.(*BooleanValue)
		return ok && b.Value == lit.Value
	case *ast.StringLit:
		s, ok := val.(*StringValue)
		return ok && s.Value == lit.Value
	}
	return false
}

// evalWhen implements when-expression semantics: with a subject, each arm's
// conditions are compared to the subject by equality (unless a condition
// evaluates to a Boolean, in which case it's used as a predicate directly);
// without a subject, every condition must itself be Boolean. The first arm
// with any matching condition wins; `else` is evaluated if none do.
func (i *Interpreter) evalWhen(e *ast.WhenExpr, env *Environment) (Value, error) {
	var subject Value
	if e.Subject != nil {
		v, err := i.Eval(e.Subject, env)
		if err != nil {
			return nil, err
		}
		subject = v
	}

	for _, arm := range e.Arms {
		for _, cond := range arm.Conditions {
			v, err := i.Eval(cond, env)
			if err != nil {
				return nil, err
			}
			if subject == nil {
				if isTruthy(v) {
					return i.Eval(arm.Body, env)
				}
				continue
			}
			if b, ok := v.(*BooleanValue); ok {
				if b.Value {
					return i.Eval(arm.Body, env)
				}
				continue
			}
			if valuesEqual(subject, v) {
				return i.Eval(arm.Body, env)
			}
		}
	}
	return i.Eval(e.Else, env)
}
