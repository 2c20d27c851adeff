package eval

import (
	"fmt"
	"strings"

	"github.com/lumen-lang/lumen/internal/ast"
)

// Eval evaluates a single expression in env, dispatching on its concrete
// AST type. A *returnSignal bubbling up from Eval means a `return` fired
// somewhere inside, unwound by callFunction before it escapes past the
// enclosing function body.
func (i *Interpreter) Eval(expr ast.Expr, env *Environment) (Value, error) {
	switch e := expr.(type) {
	case *ast.IntegerLit:
		return &IntegerValue{Value: e.Value}, nil
	case *ast.DoubleLit:
		return &DoubleValue{Value: e.Value}, nil
	case *ast.BooleanLit:
		return &BooleanValue{Value: e.Value}, nil
	case *ast.StringLit:
		return &StringValue{Value: e.Value}, nil
	case *ast.InterpStringLit:
		return i.evalInterpString(e, env)
	case *ast.Identifier:
		return i.evalIdentifier(e, env)
	case *ast.PathExpr:
		return i.evalPath(e, env)
	case *ast.ArrayLit:
		elems := make([]Value, len(e.Elements))
		for idx, el := range e.Elements {
			v, err := i.Eval(el, env)
			if err != nil {
				return nil, err
			}
			elems[idx] = v
		}
		return &ArrayValue{Elements: elems}, nil
	case *ast.HashLit:
		h := NewHashValue()
		for _, entry := range e.Entries {
			k, err := i.Eval(entry.Key, env)
			if err != nil {
				return nil, err
			}
			v, err := i.Eval(entry.Value, env)
			if err != nil {
				return nil, err
			}
			if err := h.Set(k, v); err != nil {
				return nil, err
			}
		}
		return h, nil
	case *ast.TupleLit:
		if len(e.Elements) == 0 {
			return &NullValue{}, nil
		}
		elems := make([]Value, len(e.Elements))
		for idx, el := range e.Elements {
			v, err := i.Eval(el, env)
			if err != nil {
				return nil, err
			}
			elems[idx] = v
		}
		return &TupleValue{Elements: elems}, nil
	case *ast.PrefixExpr:
		return i.evalPrefix(e, env)
	case *ast.InfixExpr:
		return i.evalInfix(e, env)
	case *ast.AssignExpr:
		return i.evalAssign(e, env)
	case *ast.CallExpr:
		return i.evalCall(e, env)
	case *ast.IndexExpr:
		return i.evalIndex(e, env)
	case *ast.MemberExpr:
		return i.evalMember(e, env)
	case *ast.IfExpr:
		return i.evalIf(e, env)
	case *ast.MatchExpr:
		return i.evalMatch(e, env)
	case *ast.WhenExpr:
		return i.evalWhen(e, env)
	case *ast.TryExpr:
		return i.evalTry(e, env)
	case *ast.FunctionLit:
		params := make([]string, len(e.Params))
		for idx, p := range e.Params {
			params[idx] = p.Name
		}
		return &FunctionValue{Name: e.Name, Params: params, Body: e.Body, Env: env}, nil
	case *ast.BlockExpr:
		return i.evalBlock(e, env)
	}
	return nil, fmt.Errorf("eval: unhandled expression %T", expr)
}

func (i *Interpreter) evalInterpString(e *ast.InterpStringLit, env *Environment) (Value, error) {
	var sb strings.Builder
	for idx, part := range e.Parts {
		sb.WriteString(part)
		if idx < len(e.Exprs) {
			v, err := i.Eval(e.Exprs[idx], env)
			if err != nil {
				return nil, err
			}
			sb.WriteString(displayString(v))
		}
	}
	return &StringValue{Value: sb.String()}, nil
}

func (i *Interpreter) evalIdentifier(e *ast.Identifier, env *Environment) (Value, error) {
	if v, ok := env.Get(e.Value); ok {
		return v, nil
	}
	if info, ok := i.Reg.Variant(e.Value); ok && info.Arity == 0 {
		return &SumValue{SumName: info.Parent, VariantName: info.Name}, nil
	}
	return nil, fmt.Errorf("eval: undefined name %q", e.Value)
}

func (i *Interpreter) evalPath(e *ast.PathExpr, env *Environment) (Value, error) {
	if len(e.Segments) == 0 {
		return nil, fmt.Errorf("eval: empty path expression")
	}
	modName := strings.Join(e.Segments[:len(e.Segments)-1], ".")
	last := e.Segments[len(e.Segments)-1]
	if mod, ok := i.Reg.Module(modName); ok {
		if v, ok := mod.Exports[last]; ok {
			return v, nil
		}
		return nil, fmt.Errorf("eval: module %s has no export %q", modName, last)
	}
	if v, ok := env.Get(strings.Join(e.Segments, ".")); ok {
		return v, nil
	}
	if v, ok := env.Get(e.Segments[0]); ok {
		for _, seg := range e.Segments[1:] {
			next, err := i.resolveMember(v, seg)
			if err != nil {
				return nil, err
			}
			v = next
		}
		return v, nil
	}
	return nil, fmt.Errorf("eval: undefined path %s", strings.Join(e.Segments, "."))
}

func (i *Interpreter) evalIf(e *ast.IfExpr, env *Environment) (Value, error) {
	cond, err := i.Eval(e.Condition, env)
	if err != nil {
		return nil, err
	}
	if isTruthy(cond) {
		return i.Eval(e.Then, env)
	}
	if e.Else == nil {
		return &NullValue{}, nil
	}
	return i.Eval(e.Else, env)
}

func (i *Interpreter) evalBlock(e *ast.BlockExpr, env *Environment) (Value, error) {
	child := env.Child()
	for _, stmt := range e.Statements {
		i.declare(stmt, child)
	}
	var last Value = &NullValue{}
	for _, stmt := range e.Statements {
		v, err := i.evalStmt(stmt, child)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

func (i *Interpreter) evalTry(e *ast.TryExpr, env *Environment) (Value, error) {
	v, err := i.Eval(e.Operand, env)
	if err != nil {
		return nil, err
	}
	sum, ok := v.(*SumValue)
	if !ok || sum.SumName != "Result" {
		return nil, fmt.Errorf("eval: `?` requires a Result value, got %s", v.Type())
	}
	if sum.VariantName == "Err" {
		return nil, &returnSignal{value: sum}
	}
	if len(sum.Fields) > 0 {
		return sum.Fields[0], nil
	}
	return &NullValue{}, nil
}

func displayString(v Value) string {
	if s, ok := v.(*StringValue); ok {
		return s.Value
	}
	return v.String()
}
