package stdlib

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/lumen-lang/lumen/internal/eval"
	"github.com/lumen-lang/lumen/internal/types"
)

var stdinReader = bufio.NewReader(os.Stdin)

func init() {
	readLineT := &types.TFunction{Params: []types.Type{}, Return: types.TString}
	printT := &types.TFunction{Params: []types.Type{types.TString}, Return: types.TNull}
	agoT := &types.TFunction{Params: []types.Type{types.TInteger}, Return: types.TString}

	register("io", Module{
		Types: map[string]types.Type{
			"readLine":    readLineT,
			"print":       printT,
			"printError":  printT,
			"timeAgo":     agoT,
		},
		Values: map[string]eval.Value{
			"readLine": &eval.BuiltinValue{Name: "readLine", Fn: builtinReadLine},
			"print": &eval.BuiltinValue{Name: "print", Fn: func(args []eval.Value) (eval.Value, error) {
				return printTo(os.Stdout, args)
			}},
			"printError": &eval.BuiltinValue{Name: "printError", Fn: func(args []eval.Value) (eval.Value, error) {
				return printTo(os.Stderr, args)
			}},
			// timeAgo reports a Unix timestamp (seconds) as a relative,
			// human-friendly duration ("3 hours ago"), the same presentation a
			// log viewer or REPL history listing would want.
			"timeAgo": &eval.BuiltinValue{Name: "timeAgo", Fn: builtinTimeAgo},
		},
	})
}

func builtinReadLine(args []eval.Value) (eval.Value, error) {
	if len(args) != 0 {
		return nil, errArity("readLine", 0, len(args))
	}
	line, err := stdinReader.ReadString('\n')
	if err != nil && line == "" {
		return nil, fmt.Errorf("stdlib: io.readLine: %v", err)
	}
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return &eval.StringValue{Value: line}, nil
}

func printTo(w *os.File, args []eval.Value) (eval.Value, error) {
	if len(args) != 1 {
		return nil, errArity("print", 1, len(args))
	}
	s, ok := args[0].(*eval.StringValue)
	if !ok {
		return nil, errNotString(args[0])
	}
	fmt.Fprintln(w, s.Value)
	return &eval.NullValue{}, nil
}

func builtinTimeAgo(args []eval.Value) (eval.Value, error) {
	if len(args) != 1 {
		return nil, errArity("timeAgo", 1, len(args))
	}
	n, ok := args[0].(*eval.IntegerValue)
	if !ok {
		return nil, errNotNumber(args[0])
	}
	return &eval.StringValue{Value: humanize.Time(time.Unix(n.Value, 0))}, nil
}
