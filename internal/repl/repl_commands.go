package repl

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/lumen-lang/lumen/internal/lexer"
	"github.com/lumen-lang/lumen/internal/parser"
	"github.com/lumen-lang/lumen/internal/types"
)

var commandNames = []string{":help", ":type", ":env", ":clear", ":quit"}

func (r *REPL) handleCommand(input string, out io.Writer) {
	parts := strings.SplitN(input, " ", 2)
	cmd := parts[0]
	var arg string
	if len(parts) == 2 {
		arg = strings.TrimSpace(parts[1])
	}

	switch cmd {
	case ":help":
		r.printHelp(out)
	case ":type":
		r.printType(arg, out)
	case ":env":
		r.printEnv(out)
	case ":clear":
		r.typeEnv = types.NewRootEnv()
		fmt.Fprintln(out, dim("environment cleared"))
	default:
		fmt.Fprintf(out, "%s: unknown command %q (try :help)\n", red("error"), cmd)
	}
}

func (r *REPL) printHelp(out io.Writer) {
	fmt.Fprintln(out, bold("Commands:"))
	fmt.Fprintln(out, "  :help         show this message")
	fmt.Fprintln(out, "  :type <expr>  show the inferred type of an expression")
	fmt.Fprintln(out, "  :env          list bindings in scope")
	fmt.Fprintln(out, "  :clear        discard accumulated type bindings")
	fmt.Fprintln(out, "  :quit, :q     exit the session")
}

func (r *REPL) printType(arg string, out io.Writer) {
	if arg == "" {
		fmt.Fprintf(out, "%s: usage: :type <expr>\n", red("error"))
		return
	}
	lex := lexer.New(arg)
	p := parser.New(lex)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		fmt.Fprintf(out, "%s: %s\n", red("syntax error"), strings.Join(errs, "; "))
		return
	}

	priorType := r.typeEnv
	seed := func(env *types.TypeEnv) {
		env.MergeTables(priorType)
		for name, b := range priorType.Bindings() {
			env.Define(name, b.Type, b.Mutable)
		}
	}
	last, _, checkErrs := types.CheckLast(prog, seed)
	if len(checkErrs) > 0 {
		msgs := make([]string, len(checkErrs))
		for i, e := range checkErrs {
			msgs[i] = e.Error()
		}
		fmt.Fprintf(out, "%s: %s\n", red("type error"), strings.Join(msgs, "; "))
		return
	}
	if len(prog.Statements) == 0 {
		fmt.Fprintln(out, dim("<no expression>"))
		return
	}
	fmt.Fprintln(out, green(last.String()))
}

func (r *REPL) printEnv(out io.Writer) {
	names := make([]string, 0)
	for name := range r.typeEnv.Bindings() {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) == 0 {
		fmt.Fprintln(out, dim("<empty>"))
		return
	}
	bindings := r.typeEnv.Bindings()
	for _, name := range names {
		fmt.Fprintf(out, "  %s : %s\n", bold(name), bindings[name].Type.String())
	}
}
