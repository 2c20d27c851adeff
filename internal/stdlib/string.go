package stdlib

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/lumen-lang/lumen/internal/eval"
	"github.com/lumen-lang/lumen/internal/types"
)

func init() {
	strToStr := &types.TFunction{Params: []types.Type{types.TString}, Return: types.TString}
	strToBool := &types.TFunction{Params: []types.Type{types.TString, types.TString}, Return: types.TBoolean}
	splitT := &types.TFunction{Params: []types.Type{types.TString, types.TString}, Return: &types.TArray{Elem: types.TString}}
	joinT := &types.TFunction{Params: []types.Type{&types.TArray{Elem: types.TString}, types.TString}, Return: types.TString}
	replaceT := &types.TFunction{Params: []types.Type{types.TString, types.TString, types.TString}, Return: types.TString}
	humanizeT := &types.TFunction{Params: []types.Type{types.TInteger}, Return: types.TString}

	register("string", Module{
		Types: map[string]types.Type{
			"trim":         strToStr,
			"upper":        strToStr,
			"lower":        strToStr,
			"startsWith":   strToBool,
			"endsWith":     strToBool,
			"contains":     strToBool,
			"split":        splitT,
			"join":         joinT,
			"replace":      replaceT,
			"humanizeSize": humanizeT,
		},
		Values: map[string]eval.Value{
			"trim":         strFn(strings.TrimSpace),
			"upper":        strFn(strings.ToUpper),
			"lower":        strFn(strings.ToLower),
			"startsWith":   strBoolFn(strings.HasPrefix),
			"endsWith":     strBoolFn(strings.HasSuffix),
			"contains":     strBoolFn(strings.Contains),
			"split":        builtinSplit(),
			"join":         builtinJoin(),
			"replace":      builtinReplace(),
			"humanizeSize": builtinHumanizeSize(),
		},
	})
}

func strFn(f func(string) string) *eval.BuiltinValue {
	return &eval.BuiltinValue{Name: "string", Fn: func(args []eval.Value) (eval.Value, error) {
		if len(args) != 1 {
			return nil, errArity("string function", 1, len(args))
		}
		s, ok := args[0].(*eval.StringValue)
		if !ok {
			return nil, errNotString(args[0])
		}
		return &eval.StringValue{Value: f(s.Value)}, nil
	}}
}

func strBoolFn(f func(s, substr string) bool) *eval.BuiltinValue {
	return &eval.BuiltinValue{Name: "string", Fn: func(args []eval.Value) (eval.Value, error) {
		if len(args) != 2 {
			return nil, errArity("string function", 2, len(args))
		}
		a, ok1 := args[0].(*eval.StringValue)
		b, ok2 := args[1].(*eval.StringValue)
		if !ok1 || !ok2 {
			return nil, errNotString(args[0])
		}
		return &eval.BooleanValue{Value: f(a.Value, b.Value)}, nil
	}}
}

func builtinSplit() *eval.BuiltinValue {
	return &eval.BuiltinValue{Name: "split", Fn: func(args []eval.Value) (eval.Value, error) {
		if len(args) != 2 {
			return nil, errArity("split", 2, len(args))
		}
		s, ok1 := args[0].(*eval.StringValue)
		sep, ok2 := args[1].(*eval.StringValue)
		if !ok1 || !ok2 {
			return nil, errNotString(args[0])
		}
		parts := strings.Split(s.Value, sep.Value)
		elems := make([]eval.Value, len(parts))
		for i, p := range parts {
			elems[i] = &eval.StringValue{Value: p}
		}
		return &eval.ArrayValue{Elements: elems}, nil
	}}
}

func builtinJoin() *eval.BuiltinValue {
	return &eval.BuiltinValue{Name: "join", Fn: func(args []eval.Value) (eval.Value, error) {
		if len(args) != 2 {
			return nil, errArity("join", 2, len(args))
		}
		arr, ok1 := args[0].(*eval.ArrayValue)
		sep, ok2 := args[1].(*eval.StringValue)
		if !ok1 || !ok2 {
			return nil, errNotString(args[1])
		}
		parts := make([]string, len(arr.Elements))
		for i, el := range arr.Elements {
			s, ok := el.(*eval.StringValue)
			if !ok {
				return nil, errNotString(el)
			}
			parts[i] = s.Value
		}
		return &eval.StringValue{Value: strings.Join(parts, sep.Value)}, nil
	}}
}

func builtinReplace() *eval.BuiltinValue {
	return &eval.BuiltinValue{Name: "replace", Fn: func(args []eval.Value) (eval.Value, error) {
		if len(args) != 3 {
			return nil, errArity("replace", 3, len(args))
		}
		s, ok1 := args[0].(*eval.StringValue)
		old, ok2 := args[1].(*eval.StringValue)
		new, ok3 := args[2].(*eval.StringValue)
		if !ok1 || !ok2 || !ok3 {
			return nil, errNotString(args[0])
		}
		return &eval.StringValue{Value: strings.ReplaceAll(s.Value, old.Value, new.Value)}, nil
	}}
}

// builtinHumanizeSize formats a byte count the way a file listing would
// (`1.2 kB`, `3.4 MB`), backed by go-humanize's SI-prefix formatter.
func builtinHumanizeSize() *eval.BuiltinValue {
	return &eval.BuiltinValue{Name: "humanizeSize", Fn: func(args []eval.Value) (eval.Value, error) {
		if len(args) != 1 {
			return nil, errArity("humanizeSize", 1, len(args))
		}
		n, ok := args[0].(*eval.IntegerValue)
		if !ok {
			return nil, errNotNumber(args[0])
		}
		return &eval.StringValue{Value: humanize.Bytes(uint64(n.Value))}, nil
	}}
}

func errNotString(v eval.Value) error {
	return fmt.Errorf("stdlib: expected a String, got %s", v.Type())
}
