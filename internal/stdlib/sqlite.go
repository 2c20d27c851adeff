package stdlib

import (
	"database/sql"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/lumen-lang/lumen/internal/eval"
	"github.com/lumen-lang/lumen/internal/types"
)

// handles tracks open *sql.DB connections by an opaque integer id, since a
// Lumen runtime Value can only ever be one of the closed set in
// internal/eval/value.go, an open database handle has no home there, so it
// is kept server-side and referenced by id, the same shape a file
// descriptor table would take.
var (
	handleMu   sync.Mutex
	handles    = map[int64]*sql.DB{}
	nextHandle int64
)

func init() {
	openT := &types.TFunction{Params: []types.Type{types.TString}, Return: resultOf(types.TInteger)}
	execT := &types.TFunction{Params: []types.Type{types.TInteger, types.TString}, Return: resultOf(types.TNull)}
	queryT := &types.TFunction{Params: []types.Type{types.TInteger, types.TString}, Return: resultOf(&types.TArray{Elem: &types.THash{Key: types.TString, Value: types.TAny}})}
	closeT := &types.TFunction{Params: []types.Type{types.TInteger}, Return: types.TNull}

	register("sqlite", Module{
		Types: map[string]types.Type{
			"open":  openT,
			"exec":  execT,
			"query": queryT,
			"close": closeT,
		},
		Values: map[string]eval.Value{
			"open":  &eval.BuiltinValue{Name: "open", Fn: builtinSQLiteOpen},
			"exec":  &eval.BuiltinValue{Name: "exec", Fn: builtinSQLiteExec},
			"query": &eval.BuiltinValue{Name: "query", Fn: builtinSQLiteQuery},
			"close": &eval.BuiltinValue{Name: "close", Fn: builtinSQLiteClose},
		},
	})
}

func builtinSQLiteOpen(args []eval.Value) (eval.Value, error) {
	if len(args) != 1 {
		return nil, errArity("open", 1, len(args))
	}
	path, ok := args[0].(*eval.StringValue)
	if !ok {
		return nil, errNotString(args[0])
	}
	db, err := sql.Open("sqlite", path.Value)
	if err != nil {
		return resultErr(err.Error()), nil
	}
	if err := db.Ping(); err != nil {
		return resultErr(err.Error()), nil
	}

	handleMu.Lock()
	nextHandle++
	id := nextHandle
	handles[id] = db
	handleMu.Unlock()

	return resultOk(&eval.IntegerValue{Value: id}), nil
}

func handleFor(args []eval.Value, idx int) (*sql.DB, error) {
	n, ok := args[idx].(*eval.IntegerValue)
	if !ok {
		return nil, errNotNumber(args[idx])
	}
	handleMu.Lock()
	db, ok := handles[n.Value]
	handleMu.Unlock()
	if !ok {
		return nil, errArity("a valid sqlite handle", 1, 0)
	}
	return db, nil
}

func builtinSQLiteExec(args []eval.Value) (eval.Value, error) {
	if len(args) != 2 {
		return nil, errArity("exec", 2, len(args))
	}
	db, err := handleFor(args, 0)
	if err != nil {
		return nil, err
	}
	query, ok := args[1].(*eval.StringValue)
	if !ok {
		return nil, errNotString(args[1])
	}
	if _, err := db.Exec(query.Value); err != nil {
		return resultErr(err.Error()), nil
	}
	return resultOk(&eval.NullValue{}), nil
}

func builtinSQLiteQuery(args []eval.Value) (eval.Value, error) {
	if len(args) != 2 {
		return nil, errArity("query", 2, len(args))
	}
	db, err := handleFor(args, 0)
	if err != nil {
		return nil, err
	}
	query, ok := args[1].(*eval.StringValue)
	if !ok {
		return nil, errNotString(args[1])
	}
	rows, err := db.Query(query.Value)
	if err != nil {
		return resultErr(err.Error()), nil
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return resultErr(err.Error()), nil
	}

	results := []eval.Value{}
	for rows.Next() {
		scanTargets := make([]interface{}, len(cols))
		scanVals := make([]interface{}, len(cols))
		for i := range scanTargets {
			scanTargets[i] = &scanVals[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return resultErr(err.Error()), nil
		}
		row := eval.NewHashValue()
		for i, col := range cols {
			row.SetString(col, sqlValueToLumen(scanVals[i]))
		}
		results = append(results, row)
	}
	return resultOk(&eval.ArrayValue{Elements: results}), nil
}

func sqlValueToLumen(v interface{}) eval.Value {
	switch val := v.(type) {
	case nil:
		return &eval.NullValue{}
	case int64:
		return &eval.IntegerValue{Value: val}
	case float64:
		return &eval.DoubleValue{Value: val}
	case string:
		return &eval.StringValue{Value: val}
	case []byte:
		return &eval.StringValue{Value: string(val)}
	case bool:
		return &eval.BooleanValue{Value: val}
	default:
		return &eval.NullValue{}
	}
}

func builtinSQLiteClose(args []eval.Value) (eval.Value, error) {
	if len(args) != 1 {
		return nil, errArity("close", 1, len(args))
	}
	n, ok := args[0].(*eval.IntegerValue)
	if !ok {
		return nil, errNotNumber(args[0])
	}
	handleMu.Lock()
	db, ok := handles[n.Value]
	delete(handles, n.Value)
	handleMu.Unlock()
	if ok {
		db.Close()
	}
	return &eval.NullValue{}, nil
}
