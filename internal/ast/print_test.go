package ast_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lumen-lang/lumen/internal/ast"
	"github.com/lumen-lang/lumen/internal/lexer"
	"github.com/lumen-lang/lumen/internal/parser"
)

// tokenLiteral ignores a Token's source position when comparing two ASTs
// structurally: re-printed source reflows line/column, so only the kind
// and literal text carry any round-trip meaning.
func tokenLiteral(t lexer.Token) lexer.Token {
	return lexer.Token{Kind: t.Kind, Literal: t.Literal}
}

// reparse lexes and parses src, failing the test on any parser error.
func reparse(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("reparse of %q produced errors: %v", src, errs)
	}
	return prog
}

// TestRoundTrip checks that Print(parse(src)) reparses without error for
// well-formed programs without interpolation.
func TestRoundTrip(t *testing.T) {
	sources := []string{
		`let x = 1 + 2;`,
		`let mut y: Integer = 5;`,
		`type Shape = Square(Integer) | Circle(Integer);`,
		`record Point(x: Integer, y: Integer);`,
		`trait Greet { fn hello(self) -> String; }`,
		`let f = (x) => x + 1;`,
		`let g = fn(x: Integer) -> Integer { x * 2 };`,
		`if true: 1 else: 2;`,
		`match (1) { 1 => "one", _ => "other" };`,
		`[1, 2, 3];`,
		`(1, 2, 3);`,
	}

	for _, src := range sources {
		prog := reparse(t, src)
		out := ast.Print(prog)
		reprog := reparse(t, out)
		if len(reprog.Statements) != len(prog.Statements) {
			t.Errorf("round-trip of %q changed statement count: got %d want %d", src, len(reprog.Statements), len(prog.Statements))
		}
	}
}

// TestRoundTripStructural checks that Print(parse(src)) reparses to a tree
// structurally identical to the original, not merely one with the same
// statement count, ignoring source positions (which legitimately shift
// once Print reflows whitespace).
func TestRoundTripStructural(t *testing.T) {
	sources := []string{
		`let x = 1 + 2;`,
		`type Shape = Square(Integer) | Circle(Integer);`,
		`record Point(x: Integer, y: Integer);`,
		`if true: 1 else: 2;`,
		`match (1) { 1 => "one", _ => "other" };`,
		`[1, 2, 3];`,
	}

	cmpOpts := cmp.Options{
		cmp.Comparer(func(a, b lexer.Token) bool { return tokenLiteral(a) == tokenLiteral(b) }),
	}

	for _, src := range sources {
		prog := reparse(t, src)
		reprog := reparse(t, ast.Print(prog))
		if diff := cmp.Diff(prog, reprog, cmpOpts); diff != "" {
			t.Errorf("round-trip of %q is not structurally identical (-original +reprinted):\n%s", src, diff)
		}
	}
}
