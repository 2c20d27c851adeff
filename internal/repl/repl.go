// Package repl implements Lumen's interactive read-eval-print loop.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/lumen-lang/lumen/internal/eval"
	"github.com/lumen-lang/lumen/internal/module"
	"github.com/lumen-lang/lumen/internal/types"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// REPL is a persistent session: one type environment and one value
// environment that accumulate bindings across successive inputs, backed by
// a single module.Loader so `use` statements typed at the prompt share the
// same loaded-module cache and trait-impl registry a `lumen run` program
// would.
type REPL struct {
	loader  *module.Loader
	interp  *eval.Interpreter
	typeEnv *types.TypeEnv
	valEnv  *eval.Environment
	history []string
	version string
}

// New creates a REPL session with a fresh loader and prelude-seeded
// environments.
func New(version string) *REPL {
	if version == "" {
		version = "dev"
	}
	loader := module.NewLoader()
	interp := loader.Interp()
	valEnv := eval.NewEnvironment()
	eval.SeedPrelude(interp, valEnv)

	return &REPL{
		loader:  loader,
		interp:  interp,
		typeEnv: types.NewRootEnv(),
		valEnv:  valEnv,
		version: version,
	}
}

func (r *REPL) prompt() string { return "lumen> " }

// Start runs the read-eval-print loop against in/out until EOF or `:quit`.
func (r *REPL) Start(out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(true)

	historyFile := filepath.Join(os.TempDir(), ".lumen_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintf(out, "%s %s\n", bold("Lumen"), bold(r.version))
	fmt.Fprintln(out, dim("Type :help for help, :quit to exit"))
	fmt.Fprintln(out)

	line.SetCompleter(func(input string) (c []string) {
		if !strings.HasPrefix(input, ":") {
			return nil
		}
		for _, cmd := range commandNames {
			if strings.HasPrefix(cmd, input) {
				c = append(c, cmd)
			}
		}
		return c
	})

	for {
		input, err := line.Prompt(r.prompt())
		if err == io.EOF {
			fmt.Fprintln(out, green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		r.history = append(r.history, input)

		if strings.HasPrefix(input, ":") {
			if input == ":quit" || input == ":q" || input == ":exit" {
				fmt.Fprintln(out, green("Goodbye!"))
				break
			}
			r.handleCommand(input, out)
			continue
		}

		r.evalLine(input, out)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}
