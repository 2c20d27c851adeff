package stdlib

import (
	"time"

	"github.com/lumen-lang/lumen/internal/eval"
	"github.com/lumen-lang/lumen/internal/types"
)

func init() {
	nowT := &types.TFunction{Params: []types.Type{}, Return: types.TInteger}
	formatT := &types.TFunction{Params: []types.Type{types.TInteger, types.TString}, Return: types.TString}

	register("datetime", Module{
		Types: map[string]types.Type{
			"nowUnix": nowT,
			"format":  formatT,
		},
		Values: map[string]eval.Value{
			"nowUnix": &eval.BuiltinValue{Name: "nowUnix", Fn: func(args []eval.Value) (eval.Value, error) {
				if len(args) != 0 {
					return nil, errArity("nowUnix", 0, len(args))
				}
				return &eval.IntegerValue{Value: time.Now().Unix()}, nil
			}},
			// format renders a Unix timestamp with a Go reference-time layout
			// string ("2006-01-02 15:04:05"), matching time.Time.Format's own
			// convention rather than inventing a strftime dialect.
			"format": &eval.BuiltinValue{Name: "format", Fn: func(args []eval.Value) (eval.Value, error) {
				if len(args) != 2 {
					return nil, errArity("format", 2, len(args))
				}
				n, ok1 := args[0].(*eval.IntegerValue)
				layout, ok2 := args[1].(*eval.StringValue)
				if !ok1 || !ok2 {
					return nil, errNotString(args[1])
				}
				return &eval.StringValue{Value: time.Unix(n.Value, 0).Format(layout.Value)}, nil
			}},
		},
	})
}
