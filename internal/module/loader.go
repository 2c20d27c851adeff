// Package module implements module loading and dependency resolution for
// Lumen: locating a `use`d module's source, parsing and checking it, and
// caching the result so a module imported from several places is only
// built once.
package module

import (
	"os"
	"strings"
	"sync"

	"github.com/lumen-lang/lumen/internal/ast"
	lumenerrors "github.com/lumen-lang/lumen/internal/errors"
	"github.com/lumen-lang/lumen/internal/eval"
	"github.com/lumen-lang/lumen/internal/lexer"
	"github.com/lumen-lang/lumen/internal/parser"
	"github.com/lumen-lang/lumen/internal/stdlib"
	"github.com/lumen-lang/lumen/internal/types"
)

// LoadedModule is the result of resolving one `use` path: its checked type
// environment and its evaluated runtime environment, both already reduced
// to their own top-level bindings.
type LoadedModule struct {
	Identity string
	FilePath string // empty for native modules
	Native   bool

	Program *ast.Program // nil for native modules
	TypeEnv *types.TypeEnv
	ValEnv  *eval.Environment
}

// Loader resolves, loads, type-checks and evaluates Lumen modules, caching
// each by its dotted identity. A single Loader shares one Interpreter (and
// so one Registry) across every module it loads, which is how a trait impl
// declared in one module becomes visible to another that merely `use`s it
// (impls are a program-wide concern, not a per-name export).
type Loader struct {
	mu    sync.Mutex
	cache map[string]*LoadedModule

	resolver  *Resolver
	interp    *eval.Interpreter
	loadStack []string
}

// NewLoader creates a Loader with its own Interpreter, ready to load a
// program's entry module and everything it transitively `use`s.
func NewLoader() *Loader {
	return &Loader{
		cache:    make(map[string]*LoadedModule),
		resolver: NewResolver(),
		interp:   eval.NewInterpreter(),
	}
}

// Interp returns the Loader's shared interpreter, so a long-lived caller
// (the REPL) can evaluate additional programs against the same Registry
// impls loaded modules populated.
func (l *Loader) Interp() *eval.Interpreter {
	return l.interp
}

func identityOf(path []string) string {
	return strings.Join(path, ".")
}

// dottedToSlash turns a dotted `use` path into its slash-separated
// relative form ("data.tree" -> "data/tree").
func dottedToSlash(path []string) string {
	return strings.Join(path, "/")
}

// LoadEntry loads and runs the program's entry file directly from a path on
// disk (the file the `lumen run` CLI was pointed at), rather than via a
// `use` path lookup.
func (l *Loader) LoadEntry(filePath string) (*LoadedModule, error) {
	src, err := os.ReadFile(filePath)
	if err != nil {
		return nil, lumenerrors.NewWithoutSpan(lumenerrors.PhaseLoader, lumenerrors.CodeUnreadableFile,
			"cannot read %s: %v", filePath, err)
	}
	identity := strings.TrimSuffix(filePath, ".lu")
	mod, err := l.loadSource(identity, filePath, string(src))
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.cache[identity] = mod
	l.mu.Unlock()
	return mod, nil
}

// Load resolves and loads the module named by a `use path` statement's
// dotted path, relative to currentFile (the file containing the `use`).
func (l *Loader) Load(path []string, currentFile string) (*LoadedModule, error) {
	identity := identityOf(path)

	if mod, ok := stdlib.Lookup(identity); ok {
		return l.loadNative(identity, mod)
	}

	l.mu.Lock()
	if cached, ok := l.cache[identity]; ok {
		l.mu.Unlock()
		return cached, nil
	}
	l.mu.Unlock()

	if err := l.pushStack(identity); err != nil {
		return nil, err
	}
	defer l.popStack()

	filePath, err := l.resolver.ResolveImport(path, currentFile)
	if err != nil {
		return nil, lumenerrors.NewWithoutSpan(lumenerrors.PhaseLoader, lumenerrors.CodeUnknownModule,
			"unknown module %q: %v", identity, err)
	}

	src, err := os.ReadFile(filePath)
	if err != nil {
		return nil, lumenerrors.NewWithoutSpan(lumenerrors.PhaseLoader, lumenerrors.CodeUnreadableFile,
			"cannot read %s: %v", filePath, err)
	}

	mod, err := l.loadSource(identity, filePath, string(src))
	if err != nil {
		return nil, err
	}

	if err := l.resolver.ValidateModuleName(moduleHeaderName(mod.Program, identity), filePath); err != nil {
		// A module with no header is allowed to stand in for any identity
		// only an explicit, mismatched header name is an error.
		if hasModuleHeader(mod.Program) {
			return nil, lumenerrors.NewWithoutSpan(lumenerrors.PhaseLoader, lumenerrors.CodeUnknownModule, "%v", err)
		}
	}

	l.mu.Lock()
	l.cache[identity] = mod
	l.mu.Unlock()
	return mod, nil
}

func (l *Loader) pushStack(identity string) error {
	for i, id := range l.loadStack {
		if id == identity {
			cycle := append(append([]string{}, l.loadStack[i:]...), identity)
			return lumenerrors.NewWithoutSpan(lumenerrors.PhaseLoader, lumenerrors.CodeCircularDependency,
				"circular module dependency: %s", strings.Join(cycle, " -> "))
		}
	}
	l.loadStack = append(l.loadStack, identity)
	return nil
}

func (l *Loader) popStack() {
	if len(l.loadStack) > 0 {
		l.loadStack = l.loadStack[:len(l.loadStack)-1]
	}
}

// loadNative wraps a stdlib Module as a LoadedModule, bypassing lexing,
// parsing and type checking entirely.
func (l *Loader) loadNative(identity string, m stdlib.Module) (*LoadedModule, error) {
	l.mu.Lock()
	if cached, ok := l.cache[identity]; ok {
		l.mu.Unlock()
		return cached, nil
	}
	l.mu.Unlock()

	root := types.NewRootEnv()
	for name, t := range m.Types {
		root.Define(name, t, false)
	}

	valEnv := eval.NewEnvironment()
	for name, v := range m.Values {
		valEnv.Define(name, v)
	}
	l.interp.Reg.RegisterModule(&eval.ModuleValue{Name: identity, Exports: m.Values})

	mod := &LoadedModule{Identity: identity, Native: true, TypeEnv: root, ValEnv: valEnv}
	l.mu.Lock()
	l.cache[identity] = mod
	l.mu.Unlock()
	return mod, nil
}

// loadSource lexes, parses, resolves `use` dependencies, type-checks and
// evaluates one module's source text.
func (l *Loader) loadSource(identity, filePath, src string) (*LoadedModule, error) {
	lex := lexer.New(src)
	p := parser.New(lex)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, lumenerrors.New(lumenerrors.PhaseSyntactic, "SYN_PARSE_ERROR", filePath, 0, 0, "%s", strings.Join(errs, "; "))
	}

	deps := make([]*LoadedModule, 0)
	useStmts := make([]*ast.UseStmt, 0)
	for _, stmt := range prog.Statements {
		if u, ok := stmt.(*ast.UseStmt); ok {
			dep, err := l.Load(u.Path, filePath)
			if err != nil {
				return nil, err
			}
			deps = append(deps, dep)
			useStmts = append(useStmts, u)
		}
	}

	seed := func(env *types.TypeEnv) {
		for _, dep := range deps {
			env.MergeTables(dep.TypeEnv)
		}
		for idx, u := range useStmts {
			bindUseType(u, deps[idx], env)
		}
	}

	typeEnv, checkErrs := types.Check(prog, seed)
	if len(checkErrs) > 0 {
		msgs := make([]string, len(checkErrs))
		for i, e := range checkErrs {
			msgs[i] = e.Error()
		}
		code := checkErrs[0].Code
		if code == "" {
			code = lumenerrors.CodeTypeMismatch
		}
		return nil, lumenerrors.New(lumenerrors.PhaseSemantic, code, filePath, checkErrs[0].Pos.Line, checkErrs[0].Pos.Column, "%s", strings.Join(msgs, "; "))
	}

	valEnv := eval.NewEnvironment()
	eval.SeedPrelude(l.interp, valEnv)
	for idx, u := range useStmts {
		bindUseValue(u, deps[idx], valEnv, l.interp)
	}

	if _, err := l.interp.Run(prog, valEnv); err != nil {
		l.mu.Lock()
		delete(l.cache, identity)
		l.mu.Unlock()
		return nil, lumenerrors.New(lumenerrors.PhaseRuntime, lumenerrors.CodeNotAFunction, filePath, 0, 0, "%s", err.Error())
	}

	return &LoadedModule{
		Identity: identity,
		FilePath: filePath,
		Program:  prog,
		TypeEnv:  typeEnv,
		ValEnv:   valEnv,
	}, nil
}

// bindUseType applies one `use` statement's type-level binding rule: a bare
// `use path` binds the path's last segment to the module's own type; `use
// path as alias` binds alias instead; `exposing (names)` additionally
// copies each named, exposed binding directly into scope.
func bindUseType(u *ast.UseStmt, dep *LoadedModule, env *types.TypeEnv) {
	exports := map[string]types.Type{}
	for name, b := range dep.TypeEnv.Bindings() {
		if dep.Native || dep.TypeEnv.IsExposed(name) {
			exports[name] = b.Type
		}
	}
	modType := &types.TModule{Name: dep.Identity, Exports: exports}

	name := u.Path[len(u.Path)-1]
	if u.HasAlias {
		name = u.Alias
	}
	env.Define(name, modType, false)

	if u.HasExposing {
		for _, n := range u.ExposedNames {
			if t, ok := exports[n]; ok {
				env.Define(n, t, false)
			}
		}
	}
}

func bindUseValue(u *ast.UseStmt, dep *LoadedModule, env *eval.Environment, interp *eval.Interpreter) {
	exports := map[string]eval.Value{}
	for name, v := range dep.ValEnv.Bindings() {
		if dep.Native || dep.TypeEnv.IsExposed(name) {
			exports[name] = v
		}
	}
	modVal := &eval.ModuleValue{Name: dep.Identity, Exports: exports}
	interp.Reg.RegisterModule(modVal)

	name := u.Path[len(u.Path)-1]
	if u.HasAlias {
		name = u.Alias
	}
	env.Define(name, modVal)

	if u.HasExposing {
		for _, n := range u.ExposedNames {
			if v, ok := exports[n]; ok {
				env.Define(n, v)
			}
		}
	}
}

func hasModuleHeader(prog *ast.Program) bool {
	for _, stmt := range prog.Statements {
		if _, ok := stmt.(*ast.ModuleHeader); ok {
			return true
		}
	}
	return false
}

func moduleHeaderName(prog *ast.Program, fallback string) string {
	for _, stmt := range prog.Statements {
		if h, ok := stmt.(*ast.ModuleHeader); ok {
			return h.Name
		}
	}
	return fallback
}
