package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/lumen-lang/lumen/internal/eval"
	"github.com/lumen-lang/lumen/internal/lexer"
	"github.com/lumen-lang/lumen/internal/parser"
	"github.com/lumen-lang/lumen/internal/types"
)

// evalLine lexes, parses, type-checks and evaluates one REPL input, merging
// its resulting bindings into the session's accumulated environments so a
// later line can refer to names a previous one defined.
func (r *REPL) evalLine(input string, out io.Writer) {
	lex := lexer.New(input)
	p := parser.New(lex)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		fmt.Fprintf(out, "%s: %s\n", red("syntax error"), strings.Join(errs, "; "))
		return
	}

	priorType := r.typeEnv
	priorVal := r.valEnv
	seed := func(env *types.TypeEnv) {
		env.MergeTables(priorType)
		for name, b := range priorType.Bindings() {
			env.Define(name, b.Type, b.Mutable)
		}
	}

	typeEnv, checkErrs := types.Check(prog, seed)
	if len(checkErrs) > 0 {
		msgs := make([]string, len(checkErrs))
		for i, e := range checkErrs {
			msgs[i] = e.Error()
		}
		fmt.Fprintf(out, "%s: %s\n", red("type error"), strings.Join(msgs, "; "))
		return
	}

	evalEnv := eval.NewEnvironment()
	for name, v := range priorVal.Bindings() {
		evalEnv.Define(name, v)
	}

	result, err := r.interp.Run(prog, evalEnv)
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("runtime error"), err)
		return
	}

	r.typeEnv = typeEnv
	r.valEnv = evalEnv

	if _, isNull := result.(*eval.NullValue); isNull && !endsWithExpr(input) {
		return
	}
	fmt.Fprintln(out, green(result.String()))
}

func endsWithExpr(input string) bool {
	trimmed := strings.TrimSpace(input)
	return !strings.HasPrefix(trimmed, "let ") && !strings.HasPrefix(trimmed, "type ") &&
		!strings.HasPrefix(trimmed, "fn ") && !strings.HasPrefix(trimmed, "use ") &&
		!strings.HasPrefix(trimmed, "record ") && !strings.HasPrefix(trimmed, "trait ") &&
		!strings.HasPrefix(trimmed, "impl ")
}
