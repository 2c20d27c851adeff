package eval

import (
	"fmt"

	"github.com/lumen-lang/lumen/internal/ast"
)

func (i *Interpreter) evalPrefix(e *ast.PrefixExpr, env *Environment) (Value, error) {
	right, err := i.Eval(e.Right, env)
	if err != nil {
		return nil, err
	}
	switch e.Operator {
	case "!":
		return &BooleanValue{Value: !isTruthy(right)}, nil
	case "-":
		switch n := right.(type) {
		case *IntegerValue:
			return &IntegerValue{Value: -n.Value}, nil
		case *DoubleValue:
			return &DoubleValue{Value: -n.Value}, nil
		}
		return nil, fmt.Errorf("eval: cannot negate %s", right.Type())
	}
	return nil, fmt.Errorf("eval: unknown prefix operator %q", e.Operator)
}

func (i *Interpreter) evalInfix(e *ast.InfixExpr, env *Environment) (Value, error) {
	if e.Operator == "&&" {
		left, err := i.Eval(e.Left, env)
		if err != nil {
			return nil, err
		}
		if !isTruthy(left) {
			return &BooleanValue{Value: false}, nil
		}
		right, err := i.Eval(e.Right, env)
		if err != nil {
			return nil, err
		}
		return &BooleanValue{Value: isTruthy(right)}, nil
	}
	if e.Operator == "||" {
		left, err := i.Eval(e.Left, env)
		if err != nil {
			return nil, err
		}
		if isTruthy(left) {
			return &BooleanValue{Value: true}, nil
		}
		right, err := i.Eval(e.Right, env)
		if err != nil {
			return nil, err
		}
		return &BooleanValue{Value: isTruthy(right)}, nil
	}

	left, err := i.Eval(e.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.Eval(e.Right, env)
	if err != nil {
		return nil, err
	}
	return applyInfix(e.Operator, left, right)
}

func applyInfix(op string, left, right Value) (Value, error) {
	switch op {
	case "==":
		return &BooleanValue{Value: valuesEqual(left, right)}, nil
	case "!=":
		return &BooleanValue{Value: !valuesEqual(left, right)}, nil
	}

	if ls, ok := left.(*StringValue); ok && op == "+" {
		rs, ok := right.(*StringValue)
		if !ok {
			return nil, fmt.Errorf("eval: cannot add String and %s", right.Type())
		}
		return &StringValue{Value: ls.Value + rs.Value}, nil
	}

	switch op {
	case "<", "<=", ">", ">=":
		return compareNumbers(op, left, right)
	}

	li, lIsInt := left.(*IntegerValue)
	ri, rIsInt := right.(*IntegerValue)
	if lIsInt && rIsInt {
		return applyIntegerInfix(op, li.Value, ri.Value)
	}

	lf, lok := numberAsFloat(left)
	rf, rok := numberAsFloat(right)
	if lok && rok {
		return applyDoubleInfix(op, lf, rf)
	}

	return nil, fmt.Errorf("eval: unsupported operands for %q: %s, %s", op, left.Type(), right.Type())
}

func applyIntegerInfix(op string, l, r int64) (Value, error) {
	switch op {
	case "+":
		return &IntegerValue{Value: l + r}, nil
	case "-":
		return &IntegerValue{Value: l - r}, nil
	case "*":
		return &IntegerValue{Value: l * r}, nil
	case "/":
		if r == 0 {
			return nil, fmt.Errorf("eval: division by zero")
		}
		return &IntegerValue{Value: l / r}, nil
	case "%":
		if r == 0 {
			return nil, fmt.Errorf("eval: modulo by zero")
		}
		return &IntegerValue{Value: l % r}, nil
	}
	return nil, fmt.Errorf("eval: unknown operator %q on Integer", op)
}

func applyDoubleInfix(op string, l, r float64) (Value, error) {
	switch op {
	case "+":
		return &DoubleValue{Value: l + r}, nil
	case "-":
		return &DoubleValue{Value: l - r}, nil
	case "*":
		return &DoubleValue{Value: l * r}, nil
	case "/":
		if r == 0 {
			return nil, fmt.Errorf("eval: division by zero")
		}
		return &DoubleValue{Value: l / r}, nil
	case "%":
		return nil, fmt.Errorf("eval: modulo is not defined for Double")
	}
	return nil, fmt.Errorf("eval: unknown operator %q on Double", op)
}

func numberAsFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case *IntegerValue:
		return float64(n.Value), true
	case *DoubleValue:
		return n.Value, true
	}
	return 0, false
}

func compareNumbers(op string, left, right Value) (Value, error) {
	lf, lok := numberAsFloat(left)
	rf, rok := numberAsFloat(right)
	if !lok || !rok {
		return nil, fmt.Errorf("eval: cannot compare %s and %s", left.Type(), right.Type())
	}
	switch op {
	case "<":
		return &BooleanValue{Value: lf < rf}, nil
	case "<=":
		return &BooleanValue{Value: lf <= rf}, nil
	case ">":
		return &BooleanValue{Value: lf > rf}, nil
	case ">=":
		return &BooleanValue{Value: lf >= rf}, nil
	}
	return nil, fmt.Errorf("eval: unknown comparison operator %q", op)
}

func valuesEqual(left, right Value) bool {
	switch l := left.(type) {
	case *IntegerValue:
		if r, ok := right.(*IntegerValue); ok {
			return l.Value == r.Value
		}
		if r, ok := right.(*DoubleValue); ok {
			return float64(l.Value) == r.Value
		}
	case *DoubleValue:
		if r, ok := right.(*DoubleValue); ok {
			return l.Value == r.Value
		}
		if r, ok := right.(*IntegerValue); ok {
			return l.Value == float64(r.Value)
		}
	case *StringValue:
		r, ok := right.(*StringValue)
		return ok && l.Value == r.Value
	case *BooleanValue:
		r, ok := right.(*BooleanValue)
		return ok && l.Value == r.Value
	case *NullValue:
		_, ok := right.(*NullValue)
		return ok
	case *ArrayValue:
		r, ok := right.(*ArrayValue)
		if !ok || len(l.Elements) != len(r.Elements) {
			return false
		}
		for idx := range l.Elements {
			if !valuesEqual(l.Elements[idx], r.Elements[idx]) {
				return false
			}
		}
		return true
	case *TupleValue:
		r, ok := right.(*TupleValue)
		if !ok || len(l.Elements) != len(r.Elements) {
			return false
		}
		for idx := range l.Elements {
			if !valuesEqual(l.Elements[idx], r.Elements[idx]) {
				return false
			}
		}
		return true
	case *SumValue:
		r, ok := right.(*SumValue)
		if !ok || l.SumName != r.SumName || l.VariantName != r.VariantName || len(l.Fields) != len(r.Fields) {
			return false
		}
		for idx := range l.Fields {
			if !valuesEqual(l.Fields[idx], r.Fields[idx]) {
				return false
			}
		}
		return true
	case *RecordValue:
		r, ok := right.(*RecordValue)
		if !ok || l.TypeName != r.TypeName {
			return false
		}
		for k, v := range l.Fields {
			rv, ok := r.Fields[k]
			if !ok || !valuesEqual(v, rv) {
				return false
			}
		}
		return true
	}
	return false
}

func (i *Interpreter) evalAssign(e *ast.AssignExpr, env *Environment) (Value, error) {
	val, err := i.Eval(e.Value, env)
	if err != nil {
		return nil, err
	}
	if e.Operator == "+=" {
		cur, err := i.Eval(e.Target, env)
		if err != nil {
			return nil, err
		}
		val, err = applyInfix("+", cur, val)
		if err != nil {
			return nil, err
		}
	}
	switch target := e.Target.(type) {
	case *ast.Identifier:
		if !env.Assign(target.Value, val) {
			return nil, fmt.Errorf("eval: cannot assign to undefined name %q", target.Value)
		}
		return val, nil
	case *ast.IndexExpr:
		container, err := i.Eval(target.Left, env)
		if err != nil {
			return nil, err
		}
		index, err := i.Eval(target.Index, env)
		if err != nil {
			return nil, err
		}
		switch c := container.(type) {
		case *ArrayValue:
			idx, ok := index.(*IntegerValue)
			if !ok || idx.Value < 0 || int(idx.Value) >= len(c.Elements) {
				return nil, fmt.Errorf("eval: array index out of range")
			}
			c.Elements[idx.Value] = val
			return val, nil
		case *HashValue:
			if err := c.Set(index, val); err != nil {
				return nil, err
			}
			return val, nil
		}
		return nil, fmt.Errorf("eval: cannot index-assign into %s", container.Type())
	case *ast.MemberExpr:
		receiver, err := i.Eval(target.Left, env)
		if err != nil {
			return nil, err
		}
		rec, ok := receiver.(*RecordValue)
		if !ok {
			return nil, fmt.Errorf("eval: cannot set member on %s", receiver.Type())
		}
		rec.Fields[target.Property] = val
		return val, nil
	}
	return nil, fmt.Errorf("eval: invalid assignment target %T", e.Target)
}

func (i *Interpreter) evalIndex(e *ast.IndexExpr, env *Environment) (Value, error) {
	left, err := i.Eval(e.Left, env)
	if err != nil {
		return nil, err
	}
	index, err := i.Eval(e.Index, env)
	if err != nil {
		return nil, err
	}
	switch c := left.(type) {
	case *ArrayValue:
		idx, ok := index.(*IntegerValue)
		if !ok || idx.Value < 0 || int(idx.Value) >= len(c.Elements) {
			return nil, fmt.Errorf("eval: array index out of range")
		}
		return c.Elements[idx.Value], nil
	case *HashValue:
		v, ok, err := c.Get(index)
		if err != nil {
			return nil, err
		}
		if ok {
			return v, nil
		}
		return &NullValue{}, nil
	case *TupleValue:
		idx, ok := index.(*IntegerValue)
		if !ok || idx.Value < 0 || int(idx.Value) >= len(c.Elements) {
			return nil, fmt.Errorf("eval: tuple index out of range")
		}
		return c.Elements[idx.Value], nil
	}
	return nil, fmt.Errorf("eval: cannot index into %s", left.Type())
}

func (i *Interpreter) evalMember(e *ast.MemberExpr, env *Environment) (Value, error) {
	left, err := i.Eval(e.Left, env)
	if err != nil {
		return nil, err
	}
	return i.resolveMember(left, e.Property)
}

// resolveMember implements the member-access resolution order: module
// export, then record field, then hash field-by-key, then a trait method
// bound as a partially-applied closure over the receiver.
func (i *Interpreter) resolveMember(left Value, property string) (Value, error) {
	switch v := left.(type) {
	case *ModuleValue:
		if ev, ok := v.Exports[property]; ok {
			return ev, nil
		}
		return nil, fmt.Errorf("eval: module %s has no export %q", v.Name, property)
	case *RecordValue:
		if fv, ok := v.Fields[property]; ok {
			return fv, nil
		}
	case *HashValue:
		if fv, ok := v.GetString(property); ok {
			return fv, nil
		}
		if fn, ok := i.Reg.MethodFor(headTypeName(left), property); ok {
			return i.bindMethod(fn, left), nil
		}
		return &NullValue{}, nil
	}
	if fn, ok := i.Reg.MethodFor(headTypeName(left), property); ok {
		return i.bindMethod(fn, left), nil
	}
	return nil, fmt.Errorf("eval: %s has no member %q", left.Type(), property)
}

// bindMethod returns a closure equivalent to fn with its self parameter
// pre-applied to receiver, so `value.method(args)` can be called as an
// ordinary CallExpr once member access has resolved it.
func (i *Interpreter) bindMethod(fn *FunctionValue, receiver Value) *BuiltinValue {
	return &BuiltinValue{
		Name: fn.Name,
		Fn: func(args []Value) (Value, error) {
			return i.callFunction(fn, append([]Value{receiver}, args...))
		},
	}
}

func (i *Interpreter) evalCall(e *ast.CallExpr, env *Environment) (Value, error) {
	if ident, ok := e.Function.(*ast.Identifier); ok {
		if info, ok := i.Reg.Variant(ident.Value); ok {
			args, err := i.evalArgs(e.Arguments, env)
			if err != nil {
				return nil, err
			}
			return &SumValue{SumName: info.Parent, VariantName: info.Name, Fields: args}, nil
		}
		if info, ok := i.Reg.Record(ident.Value); ok {
			args, err := i.evalArgs(e.Arguments, env)
			if err != nil {
				return nil, err
			}
			fields := make(map[string]Value, len(info.FieldOrder))
			for idx, name := range info.FieldOrder {
				if idx < len(args) {
					fields[name] = args[idx]
				}
			}
			return &RecordValue{TypeName: info.Name, Fields: fields, Order: info.FieldOrder}, nil
		}
	}

	fnVal, err := i.Eval(e.Function, env)
	if err != nil {
		return nil, err
	}
	args, err := i.evalArgs(e.Arguments, env)
	if err != nil {
		return nil, err
	}
	switch fn := fnVal.(type) {
	case *FunctionValue:
		return i.callFunction(fn, args)
	case *BuiltinValue:
		return fn.Fn(args)
	}
	return nil, fmt.Errorf("eval: %s is not callable", fnVal.Type())
}

func (i *Interpreter) evalArgs(exprs []ast.Expr, env *Environment) ([]Value, error) {
	args := make([]Value, len(exprs))
	for idx, arg := range exprs {
		v, err := i.Eval(arg, env)
		if err != nil {
			return nil, err
		}
		args[idx] = v
	}
	return args, nil
}

// callFunction invokes fn with args bound to its parameters in a fresh
// scope chained off fn's closed-over environment (not the caller's), then
// evaluates its body. A returnSignal raised inside unwinds only up to here.
func (i *Interpreter) callFunction(fn *FunctionValue, args []Value) (Value, error) {
	callEnv := fn.Env.Child()
	for idx, name := range fn.Params {
		if idx < len(args) {
			callEnv.Define(name, args[idx])
		}
	}
	body, ok := fn.Body.(ast.Expr)
	if !ok {
		return nil, fmt.Errorf("eval: function %s has no evaluable body", fn.Name)
	}
	v, err := i.Eval(body, callEnv)
	if err != nil {
		if ret, ok := err.(*returnSignal); ok {
			return ret.value, nil
		}
		return nil, err
	}
	return v, nil
}
