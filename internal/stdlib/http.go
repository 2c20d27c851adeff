package stdlib

import (
	"io"
	"net/http"
	"time"

	"github.com/lumen-lang/lumen/internal/eval"
	"github.com/lumen-lang/lumen/internal/types"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

func init() {
	getT := &types.TFunction{Params: []types.Type{types.TString}, Return: resultOf(httpResponseType())}

	register("net.http", Module{
		Types: map[string]types.Type{
			"get": getT,
		},
		Values: map[string]eval.Value{
			"get": &eval.BuiltinValue{Name: "get", Fn: builtinHTTPGet},
		},
	})
}

// httpResponseType is the record shape `{status: Integer, body: String}`
// every net.http call resolves to on success.
func httpResponseType() *types.TRecord {
	return &types.TRecord{
		Name:       "HttpResponse",
		FieldOrder: []string{"status", "body"},
		Fields: map[string]types.Type{
			"status": types.TInteger,
			"body":   types.TString,
		},
	}
}

func builtinHTTPGet(args []eval.Value) (eval.Value, error) {
	if len(args) != 1 {
		return nil, errArity("get", 1, len(args))
	}
	url, ok := args[0].(*eval.StringValue)
	if !ok {
		return nil, errNotString(args[0])
	}
	resp, err := httpClient.Get(url.Value)
	if err != nil {
		return resultErr(err.Error()), nil
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resultErr(err.Error()), nil
	}
	record := &eval.RecordValue{
		TypeName: "HttpResponse",
		Order:    []string{"status", "body"},
		Fields: map[string]eval.Value{
			"status": &eval.IntegerValue{Value: int64(resp.StatusCode)},
			"body":   &eval.StringValue{Value: string(body)},
		},
	}
	return resultOk(record), nil
}
