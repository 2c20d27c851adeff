package eval

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lumen-lang/lumen/internal/lexer"
	"github.com/lumen-lang/lumen/internal/parser"
)

// run lexes, parses and evaluates src without a type-checking pass (the
// loader's seed/check step is orthogonal to what these tests exercise),
// returning the value of the program's final statement.
func run(t *testing.T, src string) Value {
	t.Helper()
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, errs)
	}
	interp := NewInterpreter()
	env := NewEnvironment()
	SeedPrelude(interp, env)
	v, err := interp.Run(prog, env)
	if err != nil {
		t.Fatalf("eval error for %q: %v", src, err)
	}
	return v
}

func TestEvalArithmeticWidening(t *testing.T) {
	v := run(t, `1 + 2.0;`)
	d, ok := v.(*DoubleValue)
	if !ok {
		t.Fatalf("expected a DoubleValue, got %T (%v)", v, v)
	}
	if d.Value != 3 {
		t.Errorf("1 + 2.0 = %v, want 3", d.Value)
	}
}

func TestEvalClosureCapture(t *testing.T) {
	v := run(t, `
let mkAdder = (n) => (x) => x + n;
let add3 = mkAdder(3);
add3(4);
`)
	n, ok := v.(*IntegerValue)
	if !ok {
		t.Fatalf("expected an IntegerValue, got %T (%v)", v, v)
	}
	if n.Value != 7 {
		t.Errorf("add3(4) = %d, want 7", n.Value)
	}
}

func TestEvalSumTypeConstructorAndMatch(t *testing.T) {
	v := run(t, `
type Shape = Square(Integer) | Circle(Integer);
let area = (s) => match (s) {
    Square(n) => n * n,
    Circle(r) => 3 * r * r,
};
area(Square(4));
`)
	n, ok := v.(*IntegerValue)
	if !ok {
		t.Fatalf("expected an IntegerValue, got %T (%v)", v, v)
	}
	if n.Value != 16 {
		t.Errorf("area(Square(4)) = %d, want 16", n.Value)
	}
}

func TestEvalResultPropagationViaTry(t *testing.T) {
	v := run(t, `
let half = fn(n: Integer) -> Result<Integer, String> {
    if n % 2 == 0: Ok(n / 2) else: Err("odd")
};
let twice = fn(n: Integer) -> Result<Integer, String> {
    let h = half(n)?;
    Ok(h + h)
};
match (twice(10)) {
    Ok(v) => v,
    Err(m) => 0,
};
`)
	n, ok := v.(*IntegerValue)
	if !ok {
		t.Fatalf("expected an IntegerValue, got %T (%v)", v, v)
	}
	if n.Value != 10 {
		t.Errorf("twice(10) matched to %d, want 10", n.Value)
	}
}

func TestEvalResultPropagationShortCircuitsOnErr(t *testing.T) {
	v := run(t, `
let half = fn(n: Integer) -> Result<Integer, String> {
    if n % 2 == 0: Ok(n / 2) else: Err("odd")
};
let twice = fn(n: Integer) -> Result<Integer, String> {
    let h = half(n)?;
    Ok(h + h)
};
match (twice(7)) {
    Ok(v) => v,
    Err(m) => m,
};
`)
	s, ok := v.(*StringValue)
	if !ok {
		t.Fatalf("expected a StringValue, got %T (%v)", v, v)
	}
	if s.Value != "odd" {
		t.Errorf("twice(7) matched to %q, want %q", s.Value, "odd")
	}
}

func TestEvalTraitMethodDispatch(t *testing.T) {
	v := run(t, `
trait Greet {
    fn hello(self) -> String;
}
record Dog(name: String);
impl Greet for Dog {
    fn hello(self) -> String => strFormat("woof, {?}", self.name);
}
Dog("rex").hello();
`)
	s, ok := v.(*StringValue)
	if !ok {
		t.Fatalf("expected a StringValue, got %T (%v)", v, v)
	}
	if s.Value != "woof, rex" {
		t.Errorf("Dog(\"rex\").hello() = %q, want %q", s.Value, "woof, rex")
	}
}

// TestEvalDeterministic pins evaluator determinism: running the same
// program twice against fresh environments yields structurally identical
// values, compared with go-cmp rather than each Value's own String/Type
// methods (which could mask a field-level divergence neither reports).
func TestEvalDeterministic(t *testing.T) {
	src := `
type Shape = Square(Integer) | Circle(Integer);
let area = (s) => match (s) {
    Square(n) => n * n,
    Circle(r) => 3 * r * r,
};
area(Square(4));
`
	first := run(t, src)
	second := run(t, src)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("evaluating %q twice produced different values (-first +second):\n%s", src, diff)
	}
}

func TestEvalHashWithNonStringKeys(t *testing.T) {
	v := run(t, `
let h = {1: "one", 2: "two"};
h[1];
`)
	s, ok := v.(*StringValue)
	if !ok {
		t.Fatalf("expected a StringValue, got %T (%v)", v, v)
	}
	if s.Value != "one" {
		t.Errorf("h[1] = %q, want %q", s.Value, "one")
	}
}

func TestEvalPipeChaining(t *testing.T) {
	v := run(t, `
let double = (x) => x * 2;
[1, 2, 3] |> map(double) |> reduce(0, (a, b) => a + b);
`)
	n, ok := v.(*IntegerValue)
	if !ok {
		t.Fatalf("expected an IntegerValue, got %T (%v)", v, v)
	}
	if n.Value != 12 {
		t.Errorf("pipe chain result = %d, want 12", n.Value)
	}
}
