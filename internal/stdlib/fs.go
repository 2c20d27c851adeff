package stdlib

import (
	"os"

	"github.com/lumen-lang/lumen/internal/eval"
	"github.com/lumen-lang/lumen/internal/types"
)

func init() {
	readT := &types.TFunction{Params: []types.Type{types.TString}, Return: resultOf(types.TString)}
	writeT := &types.TFunction{Params: []types.Type{types.TString, types.TString}, Return: resultOf(types.TNull)}
	existsT := &types.TFunction{Params: []types.Type{types.TString}, Return: types.TBoolean}

	register("fs", Module{
		Types: map[string]types.Type{
			"readFile":  readT,
			"writeFile": writeT,
			"exists":    existsT,
		},
		Values: map[string]eval.Value{
			"readFile":  &eval.BuiltinValue{Name: "readFile", Fn: builtinReadFile},
			"writeFile": &eval.BuiltinValue{Name: "writeFile", Fn: builtinWriteFile},
			"exists": &eval.BuiltinValue{Name: "exists", Fn: func(args []eval.Value) (eval.Value, error) {
				if len(args) != 1 {
					return nil, errArity("exists", 1, len(args))
				}
				path, ok := args[0].(*eval.StringValue)
				if !ok {
					return nil, errNotString(args[0])
				}
				_, err := os.Stat(path.Value)
				return &eval.BooleanValue{Value: err == nil}, nil
			}},
		},
	})
}

// resultOf is the semantic type of `Result<ok, String>`, the shape every
// fallible native builtin returns (the Result/Option prelude types).
func resultOf(ok types.Type) *types.TSum {
	return &types.TSum{
		Name: "Result",
		Variants: map[string]*types.TVariant{
			"Ok":  {Name: "Ok", Parent: "Result", Params: []types.Type{ok}},
			"Err": {Name: "Err", Parent: "Result", Params: []types.Type{types.TString}},
		},
	}
}

func resultOk(v eval.Value) eval.Value {
	return &eval.SumValue{SumName: "Result", VariantName: "Ok", Fields: []eval.Value{v}}
}

func resultErr(msg string) eval.Value {
	return &eval.SumValue{SumName: "Result", VariantName: "Err", Fields: []eval.Value{&eval.StringValue{Value: msg}}}
}

func builtinReadFile(args []eval.Value) (eval.Value, error) {
	if len(args) != 1 {
		return nil, errArity("readFile", 1, len(args))
	}
	path, ok := args[0].(*eval.StringValue)
	if !ok {
		return nil, errNotString(args[0])
	}
	data, err := os.ReadFile(path.Value)
	if err != nil {
		return resultErr(err.Error()), nil
	}
	return resultOk(&eval.StringValue{Value: string(data)}), nil
}

func builtinWriteFile(args []eval.Value) (eval.Value, error) {
	if len(args) != 2 {
		return nil, errArity("writeFile", 2, len(args))
	}
	path, ok1 := args[0].(*eval.StringValue)
	content, ok2 := args[1].(*eval.StringValue)
	if !ok1 || !ok2 {
		return nil, errNotString(args[0])
	}
	if err := os.WriteFile(path.Value, []byte(content.Value), 0644); err != nil {
		return resultErr(err.Error()), nil
	}
	return resultOk(&eval.NullValue{}), nil
}
