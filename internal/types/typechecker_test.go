package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	lumenerrors "github.com/lumen-lang/lumen/internal/errors"
	"github.com/lumen-lang/lumen/internal/lexer"
	"github.com/lumen-lang/lumen/internal/parser"
)

func checkSource(t *testing.T, src string) []*CheckError {
	t.Helper()
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, errs)
	}
	_, errs := Check(prog)
	return errs
}

func TestCheckLetLiteralInference(t *testing.T) {
	errs := checkSource(t, `let x = 1 + 2;`)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestCheckLetTypeAnnotationMismatch(t *testing.T) {
	errs := checkSource(t, `let x: String = 1;`)
	if len(errs) == 0 {
		t.Fatalf("expected a type mismatch error, got none")
	}
}

func TestCheckWritelnAcceptsAnyArgument(t *testing.T) {
	errs := checkSource(t, `
let x = 1 + 2;
writeln(x);
writeln(1 + 2.0);
`)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestCheckMixedArithmeticWidensToDouble(t *testing.T) {
	errs := checkSource(t, `let x: Double = 1 + 2.0;`)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestCheckHashLiteralWithIntegerKeys(t *testing.T) {
	errs := checkSource(t, `let h = {1: "a", 2: "b"};`)
	if len(errs) != 0 {
		t.Fatalf("expected no errors for an Integer-keyed hash literal, got %v", errs)
	}
}

func TestCheckHashDotNotationRequiresStringKeys(t *testing.T) {
	errs := checkSource(t, `
let h = {1: "a"};
let v = h.foo;
`)
	if len(errs) == 0 {
		t.Fatalf("expected an error accessing an Integer-keyed hash with dot notation")
	}
}

func TestCheckArithmeticOperandMismatch(t *testing.T) {
	errs := checkSource(t, `let x = 1 + "a";`)
	if len(errs) == 0 {
		t.Fatalf("expected a type mismatch error for Integer + String")
	}
}

func TestCheckIfBranchMismatch(t *testing.T) {
	errs := checkSource(t, `let x = if true: 1 else: "a";`)
	if len(errs) == 0 {
		t.Fatalf("expected an if-branch mismatch error")
	}
}

func TestCheckUndefinedName(t *testing.T) {
	errs := checkSource(t, `let x = y;`)
	if len(errs) == 0 {
		t.Fatalf("expected an undefined-name error")
	}
}

func TestCheckRecordFieldAccess(t *testing.T) {
	errs := checkSource(t, `
record Point(x: Integer, y: Integer);
let p = Point(1, 2);
let sum = p.x + p.y;
`)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestCheckRecordWrongFieldType(t *testing.T) {
	errs := checkSource(t, `
record Point(x: Integer, y: Integer);
let p = Point("a", 2);
`)
	if len(errs) == 0 {
		t.Fatalf("expected a constructor argument type error")
	}
}

func TestCheckSumTypeConstructorAndMatch(t *testing.T) {
	errs := checkSource(t, `
type Shape = Circle(Integer) | Square(Integer);
let area = fn(s: Shape) -> Integer {
    match (s) {
        Circle(r) => r * r,
        Square(side) => side * side,
    }
};
`)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestCheckNonExhaustiveMatchIsError(t *testing.T) {
	errs := checkSource(t, `
type Shape = Circle(Integer) | Square(Integer);
let area = fn(s: Shape) -> Integer {
    match (s) {
        Circle(r) => r * r,
    }
};
`)
	if len(errs) == 0 {
		t.Fatalf("expected a non-exhaustive match error")
	}
	if errs[0].Code != lumenerrors.CodeNonExhaustiveMatch {
		t.Fatalf("expected code %q, got %q", lumenerrors.CodeNonExhaustiveMatch, errs[0].Code)
	}
}

func TestCheckMatchWithWildcardIsExhaustive(t *testing.T) {
	errs := checkSource(t, `
type Shape = Circle(Integer) | Square(Integer);
let area = fn(s: Shape) -> Integer {
    match (s) {
        Circle(r) => r * r,
        _ => 0,
    }
};
`)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestCheckTraitImplDispatch(t *testing.T) {
	errs := checkSource(t, `
record Point(x: Integer, y: Integer);
trait Describable {
    fn describe(self) -> String;
}
impl Describable for Point {
    fn describe(self) -> String { "a point" }
}
let msg = Point(1, 2).describe();
`)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestCheckTraitImplSelfFieldAccess(t *testing.T) {
	errs := checkSource(t, `
record Dog(name: String);
trait Greet {
    fn hello(self) -> String;
}
impl Greet for Dog {
    fn hello(self) -> String { self.name }
}
let woof = Dog("rex").hello();
`)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestCheckTraitImplSelfWrongFieldIsError(t *testing.T) {
	errs := checkSource(t, `
record Dog(name: String);
trait Greet {
    fn hello(self) -> String;
}
impl Greet for Dog {
    fn hello(self) -> String { self.bark }
}
`)
	if len(errs) == 0 {
		t.Fatalf("expected an error accessing a field Dog does not have")
	}
}

func TestCheckFunctionReturnTypeMismatch(t *testing.T) {
	errs := checkSource(t, `
let f = fn() -> Integer { "not an integer" };
`)
	if len(errs) == 0 {
		t.Fatalf("expected a return-type mismatch error")
	}
}

func TestCheckArrayElementUnification(t *testing.T) {
	errs := checkSource(t, `let xs = [1, 2, 3];`)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestCheckArrayElementMismatch(t *testing.T) {
	errs := checkSource(t, `let xs = [1, "a"];`)
	if len(errs) == 0 {
		t.Fatalf("expected an array-element mismatch error")
	}
}

func TestCheckImmutableAssignment(t *testing.T) {
	errs := checkSource(t, `
let x = 1;
x = 2;
`)
	if len(errs) == 0 {
		t.Fatalf("expected an error assigning to an immutable binding")
	}
}

func TestCheckMutableAssignmentAllowed(t *testing.T) {
	errs := checkSource(t, `
let mut x = 1;
x = 2;
`)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestUnifyOccursCheck(t *testing.T) {
	v := &TVar{Name: "t0"}
	arr := &TArray{Elem: v}
	_, err := NewUnifier().Unify(v, arr, Substitution{})
	if err == nil {
		t.Fatalf("expected an occurs-check failure unifying t0 with Array<t0>")
	}
}

func TestUnifyFunctionTypes(t *testing.T) {
	a := &TFunction{Params: []Type{TInteger}, Return: TBoolean}
	b := &TFunction{Params: []Type{TInteger}, Return: TBoolean}
	if _, err := NewUnifier().Unify(a, b, Substitution{}); err != nil {
		t.Fatalf("expected identical function types to unify, got %v", err)
	}
}

// TestUnifyLawSubstitutionsAreStructurallyEqual pins the unification law for
// genuine variable-binding unifications: if Unify(a, b, sub) succeeds by
// binding a type variable (rather than by one of the dedicated escape
// hatches — Any, Error, or the Integer/Double numeric relaxation, none of
// which are meant to make their two sides equal), then substituting a and b
// through the resulting sub yields structurally identical types. Checked
// with go-cmp rather than each type's own Equals method, which is exactly
// what Equals is meant to guarantee and so isn't trustworthy as the oracle.
func TestUnifyLawSubstitutionsAreStructurallyEqual(t *testing.T) {
	cases := []struct {
		name string
		a, b Type
	}{
		{"var-vs-array", &TVar{Name: "t0"}, &TArray{Elem: TInteger}},
		{"hash-key-and-value", &THash{Key: &TVar{Name: "k"}, Value: &TVar{Name: "v"}}, &THash{Key: TString, Value: TInteger}},
	}
	for _, tc := range cases {
		sub, err := NewUnifier().Unify(tc.a, tc.b, Substitution{})
		if err != nil {
			t.Fatalf("%s: unify failed: %v", tc.name, err)
		}
		sa := ApplySubstitution(sub, tc.a)
		sb := ApplySubstitution(sub, tc.b)
		if diff := cmp.Diff(sa, sb); diff != "" {
			t.Errorf("%s: substituted types not structurally equal (-a +b):\n%s", tc.name, diff)
		}
	}
}

// TestUnifyAnyAndNumericWideningSucceedWithoutError pins the two
// unification escape hatches the checker relies on: Any unifies trivially
// with anything, and Integer/Double unify in either order without an
// occurs-check-style structural requirement.
func TestUnifyAnyAndNumericWideningSucceedWithoutError(t *testing.T) {
	if _, err := NewUnifier().Unify(TAny, TInteger, Substitution{}); err != nil {
		t.Errorf("Any should unify with Integer, got %v", err)
	}
	if _, err := NewUnifier().Unify(&TRecord{Name: "Point"}, TAny, Substitution{}); err != nil {
		t.Errorf("a concrete type should unify with Any on the right, got %v", err)
	}
	if _, err := NewUnifier().Unify(TInteger, TDouble, Substitution{}); err != nil {
		t.Errorf("Integer should unify with Double, got %v", err)
	}
	if _, err := NewUnifier().Unify(TDouble, TInteger, Substitution{}); err != nil {
		t.Errorf("Double should unify with Integer, got %v", err)
	}
}
