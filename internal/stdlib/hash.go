package stdlib

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"

	"github.com/lumen-lang/lumen/internal/eval"
	"github.com/lumen-lang/lumen/internal/types"
)

func init() {
	digestT := &types.TFunction{Params: []types.Type{types.TString}, Return: types.TString}
	uuidT := &types.TFunction{Params: []types.Type{}, Return: types.TString}

	register("hash", Module{
		Types: map[string]types.Type{
			"sha256": digestT,
			"md5":    digestT,
			"uuidv4": uuidT,
		},
		Values: map[string]eval.Value{
			"sha256": digestFn(func(b []byte) []byte { sum := sha256.Sum256(b); return sum[:] }),
			"md5":    digestFn(func(b []byte) []byte { sum := md5.Sum(b); return sum[:] }),
			"uuidv4": &eval.BuiltinValue{Name: "uuidv4", Fn: func(args []eval.Value) (eval.Value, error) {
				if len(args) != 0 {
					return nil, errArity("uuidv4", 0, len(args))
				}
				return &eval.StringValue{Value: uuid.New().String()}, nil
			}},
		},
	})
}

func digestFn(sum func([]byte) []byte) *eval.BuiltinValue {
	return &eval.BuiltinValue{Name: "hash", Fn: func(args []eval.Value) (eval.Value, error) {
		if len(args) != 1 {
			return nil, errArity("hash function", 1, len(args))
		}
		s, ok := args[0].(*eval.StringValue)
		if !ok {
			return nil, errNotString(args[0])
		}
		return &eval.StringValue{Value: hex.EncodeToString(sum([]byte(s.Value)))}, nil
	}}
}
