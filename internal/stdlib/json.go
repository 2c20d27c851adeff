package stdlib

import (
	"encoding/json"

	"github.com/lumen-lang/lumen/internal/eval"
	"github.com/lumen-lang/lumen/internal/types"
)

func init() {
	encodeT := &types.TFunction{Params: []types.Type{types.TAny}, Return: types.TString}
	decodeT := &types.TFunction{Params: []types.Type{types.TString}, Return: resultOf(types.TAny)}

	register("json", Module{
		Types: map[string]types.Type{
			"encode": encodeT,
			"decode": decodeT,
		},
		Values: map[string]eval.Value{
			"encode": &eval.BuiltinValue{Name: "encode", Fn: builtinJSONEncode},
			"decode": &eval.BuiltinValue{Name: "decode", Fn: builtinJSONDecode},
		},
	})
}

func builtinJSONEncode(args []eval.Value) (eval.Value, error) {
	if len(args) != 1 {
		return nil, errArity("encode", 1, len(args))
	}
	out, err := json.Marshal(valueToGo(args[0]))
	if err != nil {
		return nil, err
	}
	return &eval.StringValue{Value: string(out)}, nil
}

func builtinJSONDecode(args []eval.Value) (eval.Value, error) {
	if len(args) != 1 {
		return nil, errArity("decode", 1, len(args))
	}
	s, ok := args[0].(*eval.StringValue)
	if !ok {
		return nil, errNotString(args[0])
	}
	var v interface{}
	if err := json.Unmarshal([]byte(s.Value), &v); err != nil {
		return resultErr(err.Error()), nil
	}
	return resultOk(goToValue(v)), nil
}

// valueToGo converts a Lumen runtime Value to the plain Go value
// encoding/json knows how to marshal.
func valueToGo(v eval.Value) interface{} {
	switch val := v.(type) {
	case *eval.IntegerValue:
		return val.Value
	case *eval.DoubleValue:
		return val.Value
	case *eval.BooleanValue:
		return val.Value
	case *eval.StringValue:
		return val.Value
	case *eval.NullValue:
		return nil
	case *eval.ArrayValue:
		out := make([]interface{}, len(val.Elements))
		for i, e := range val.Elements {
			out[i] = valueToGo(e)
		}
		return out
	case *eval.HashValue:
		out := make(map[string]interface{}, len(val.Keys))
		for _, k := range val.Keys {
			fv, _, _ := val.Get(k)
			out[k.String()] = valueToGo(fv)
		}
		return out
	case *eval.RecordValue:
		out := make(map[string]interface{}, len(val.Order))
		for _, k := range val.Order {
			out[k] = valueToGo(val.Fields[k])
		}
		return out
	default:
		return v.String()
	}
}

// goToValue converts a decoded encoding/json value back to a Lumen runtime
// Value (objects become Hash, arrays become Array, numbers become Double
// since encoding/json always decodes JSON numbers as float64).
func goToValue(v interface{}) eval.Value {
	switch val := v.(type) {
	case nil:
		return &eval.NullValue{}
	case bool:
		return &eval.BooleanValue{Value: val}
	case float64:
		return &eval.DoubleValue{Value: val}
	case string:
		return &eval.StringValue{Value: val}
	case []interface{}:
		elems := make([]eval.Value, len(val))
		for i, e := range val {
			elems[i] = goToValue(e)
		}
		return &eval.ArrayValue{Elements: elems}
	case map[string]interface{}:
		h := eval.NewHashValue()
		for k, e := range val {
			h.SetString(k, goToValue(e))
		}
		return h
	default:
		return &eval.NullValue{}
	}
}
