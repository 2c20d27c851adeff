package stdlib

import (
	"math"

	"github.com/lumen-lang/lumen/internal/eval"
	"github.com/lumen-lang/lumen/internal/types"
)

func init() {
	fn1 := &types.TFunction{Params: []types.Type{types.TDouble}, Return: types.TDouble}
	fn2 := &types.TFunction{Params: []types.Type{types.TDouble, types.TDouble}, Return: types.TDouble}

	register("math", Module{
		Types: map[string]types.Type{
			"pi":    types.TDouble,
			"e":     types.TDouble,
			"sqrt":  fn1,
			"abs":   fn1,
			"floor": fn1,
			"ceil":  fn1,
			"round": fn1,
			"pow":   fn2,
			"min":   fn2,
			"max":   fn2,
		},
		Values: map[string]eval.Value{
			"pi":    &eval.DoubleValue{Value: math.Pi},
			"e":     &eval.DoubleValue{Value: math.E},
			"sqrt":  unary(math.Sqrt),
			"abs":   unary(math.Abs),
			"floor": unary(math.Floor),
			"ceil":  unary(math.Ceil),
			"round": unary(math.Round),
			"pow":   binary(math.Pow),
			"min":   binary(math.Min),
			"max":   binary(math.Max),
		},
	})
}

func asFloat(v eval.Value) (float64, bool) {
	switch n := v.(type) {
	case *eval.DoubleValue:
		return n.Value, true
	case *eval.IntegerValue:
		return float64(n.Value), true
	}
	return 0, false
}

func unary(f func(float64) float64) *eval.BuiltinValue {
	return &eval.BuiltinValue{Name: "math", Fn: func(args []eval.Value) (eval.Value, error) {
		if len(args) != 1 {
			return nil, errArity("math function", 1, len(args))
		}
		x, ok := asFloat(args[0])
		if !ok {
			return nil, errNotNumber(args[0])
		}
		return &eval.DoubleValue{Value: f(x)}, nil
	}}
}

func binary(f func(float64, float64) float64) *eval.BuiltinValue {
	return &eval.BuiltinValue{Name: "math", Fn: func(args []eval.Value) (eval.Value, error) {
		if len(args) != 2 {
			return nil, errArity("math function", 2, len(args))
		}
		x, ok1 := asFloat(args[0])
		y, ok2 := asFloat(args[1])
		if !ok1 || !ok2 {
			return nil, errNotNumber(args[0])
		}
		return &eval.DoubleValue{Value: f(x, y)}, nil
	}}
}
