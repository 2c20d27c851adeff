// Package stdlib implements Lumen's native modules: the fixed set of
// modules whose exports are constructed directly from Go code rather than
// loaded from a .lu source file. The module loader bypasses parsing
// and type-checking entirely for these and asks this package for their
// type and value tables instead.
package stdlib

import (
	"github.com/lumen-lang/lumen/internal/eval"
	"github.com/lumen-lang/lumen/internal/types"
)

// Module is one native module's export table, in both the type-checker's
// and the evaluator's universe. The two maps must carry exactly the same
// key set.
type Module struct {
	Types  map[string]types.Type
	Values map[string]eval.Value
}

var registry = map[string]Module{}

func register(name string, m Module) {
	registry[name] = m
}

// Lookup returns the native module registered under name (e.g. "math",
// "net.http"), if any.
func Lookup(name string) (Module, bool) {
	m, ok := registry[name]
	return m, ok
}

// Names lists every registered native module, in map iteration order
// (unsorted).
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
