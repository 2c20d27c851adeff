package eval

import (
	"fmt"
	"strings"
)

// SeedPrelude registers the Result/Option variant shapes on i.Reg and the
// always-in-scope builtin functions (the hardwired builtin table) in
// env, mirroring types.seedPrelude on the value side. The
// higher-order builtins (map/filter/reduce) close over i so they can invoke
// user function values through an explicit prelude object, with no
// package-level interpreter state.
func SeedPrelude(i *Interpreter, env *Environment) {
	reg := i.Reg
	reg.RegisterVariant(&VariantInfo{Name: "Ok", Parent: "Result", Arity: 1})
	reg.RegisterVariant(&VariantInfo{Name: "Err", Parent: "Result", Arity: 1})
	reg.RegisterVariant(&VariantInfo{Name: "Some", Parent: "Option", Arity: 1})
	reg.RegisterVariant(&VariantInfo{Name: "None", Parent: "Option", Arity: 0})

	env.Define("NULL", &NullValue{})
	env.Define("len", &BuiltinValue{Name: "len", Fn: builtinLen})
	env.Define("toString", &BuiltinValue{Name: "toString", Fn: builtinToString})
	env.Define("writeln", &BuiltinValue{Name: "writeln", Fn: builtinWriteln})
	env.Define("write", &BuiltinValue{Name: "write", Fn: builtinWrite})
	env.Define("strFormat", &BuiltinValue{Name: "strFormat", Fn: builtinStrFormat})
	env.Define("map", &BuiltinValue{Name: "map", Fn: func(args []Value) (Value, error) { return builtinMap(i, args) }})
	env.Define("filter", &BuiltinValue{Name: "filter", Fn: func(args []Value) (Value, error) { return builtinFilter(i, args) }})
	env.Define("reduce", &BuiltinValue{Name: "reduce", Fn: func(args []Value) (Value, error) { return builtinReduce(i, args) }})
	env.Define("first", &BuiltinValue{Name: "first", Fn: builtinFirst})
	env.Define("rest", &BuiltinValue{Name: "rest", Fn: builtinRest})
	env.Define("prepend", &BuiltinValue{Name: "prepend", Fn: builtinPrepend})
}

// CallUser invokes a Function or Builtin value with args, the same
// dispatch evalCall uses for an ordinary call expression, exposed so
// higher-order builtins (map/filter/reduce) can invoke a callback value.
func CallUser(i *Interpreter, fn Value, args []Value) (Value, error) {
	switch f := fn.(type) {
	case *FunctionValue:
		return i.callFunction(f, args)
	case *BuiltinValue:
		return f.Fn(args)
	}
	return nil, fmt.Errorf("eval: %s is not callable", fn.Type())
}

func builtinLen(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("eval: len expects 1 argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case *ArrayValue:
		return &IntegerValue{Value: int64(len(v.Elements))}, nil
	case *StringValue:
		return &IntegerValue{Value: int64(len([]rune(v.Value)))}, nil
	case *HashValue:
		return &IntegerValue{Value: int64(len(v.Keys))}, nil
	case *TupleValue:
		return &IntegerValue{Value: int64(len(v.Elements))}, nil
	}
	return nil, fmt.Errorf("eval: len: unsupported argument of type %s", args[0].Type())
}

func builtinToString(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("eval: toString expects 1 argument, got %d", len(args))
	}
	return &StringValue{Value: args[0].String()}, nil
}

func builtinWriteln(args []Value) (Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = displayString(a)
	}
	fmt.Println(strings.Join(parts, " "))
	return &NullValue{}, nil
}

func builtinWrite(args []Value) (Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = displayString(a)
	}
	fmt.Print(strings.Join(parts, " "))
	return &NullValue{}, nil
}

// builtinStrFormat implements `strFormat(fmt, args...)`, substituting each
// `{?}` placeholder in fmt with the corresponding argument's display form,
// in order.
func builtinStrFormat(args []Value) (Value, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("eval: strFormat expects at least 1 argument")
	}
	f, ok := args[0].(*StringValue)
	if !ok {
		return nil, fmt.Errorf("eval: strFormat: first argument must be a String")
	}
	rest := args[1:]
	var sb strings.Builder
	idx := 0
	s := f.Value
	for i := 0; i < len(s); i++ {
		if i+3 <= len(s) && s[i:i+3] == "{?}" {
			if idx < len(rest) {
				sb.WriteString(displayString(rest[idx]))
				idx++
			} else {
				sb.WriteString("{?}")
			}
			i += 2
			continue
		}
		sb.WriteByte(s[i])
	}
	return &StringValue{Value: sb.String()}, nil
}

func builtinMap(i *Interpreter, args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("eval: map expects 2 arguments, got %d", len(args))
	}
	arr, ok := args[0].(*ArrayValue)
	if !ok {
		return nil, fmt.Errorf("eval: map: first argument must be an Array")
	}
	out := make([]Value, len(arr.Elements))
	for idx, el := range arr.Elements {
		v, err := CallUser(i, args[1], []Value{el})
		if err != nil {
			return nil, err
		}
		out[idx] = v
	}
	return &ArrayValue{Elements: out}, nil
}

func builtinFilter(i *Interpreter, args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("eval: filter expects 2 arguments, got %d", len(args))
	}
	arr, ok := args[0].(*ArrayValue)
	if !ok {
		return nil, fmt.Errorf("eval: filter: first argument must be an Array")
	}
	out := []Value{}
	for _, el := range arr.Elements {
		v, err := CallUser(i, args[1], []Value{el})
		if err != nil {
			return nil, err
		}
		if isTruthy(v) {
			out = append(out, el)
		}
	}
	return &ArrayValue{Elements: out}, nil
}

func builtinReduce(i *Interpreter, args []Value) (Value, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("eval: reduce expects 3 arguments, got %d", len(args))
	}
	arr, ok := args[0].(*ArrayValue)
	if !ok {
		return nil, fmt.Errorf("eval: reduce: first argument must be an Array")
	}
	acc := args[1]
	for _, el := range arr.Elements {
		v, err := CallUser(i, args[2], []Value{acc, el})
		if err != nil {
			return nil, err
		}
		acc = v
	}
	return acc, nil
}

func builtinFirst(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("eval: first expects 1 argument, got %d", len(args))
	}
	arr, ok := args[0].(*ArrayValue)
	if !ok || len(arr.Elements) == 0 {
		return nil, fmt.Errorf("eval: first: empty or non-Array argument")
	}
	return arr.Elements[0], nil
}

func builtinRest(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("eval: rest expects 1 argument, got %d", len(args))
	}
	arr, ok := args[0].(*ArrayValue)
	if !ok {
		return nil, fmt.Errorf("eval: rest: argument must be an Array")
	}
	if len(arr.Elements) == 0 {
		return &ArrayValue{Elements: []Value{}}, nil
	}
	out := make([]Value, len(arr.Elements)-1)
	copy(out, arr.Elements[1:])
	return &ArrayValue{Elements: out}, nil
}

func builtinPrepend(args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("eval: prepend expects 2 arguments, got %d", len(args))
	}
	arr, ok := args[1].(*ArrayValue)
	if !ok {
		return nil, fmt.Errorf("eval: prepend: second argument must be an Array")
	}
	out := make([]Value, 0, len(arr.Elements)+1)
	out = append(out, args[0])
	out = append(out, arr.Elements...)
	return &ArrayValue{Elements: out}, nil
}
