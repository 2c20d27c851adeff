package parser

import (
	"testing"

	"github.com/lumen-lang/lumen/internal/ast"
	"github.com/lumen-lang/lumen/internal/lexer"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := New(lexer.New(src))
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected parser errors for %q: %v", src, p.Errors())
	}
	return prog
}

func TestLetStatement(t *testing.T) {
	prog := parseProgram(t, `let x = 5;`)
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	stmt, ok := prog.Statements[0].(*ast.LetStmt)
	if !ok {
		t.Fatalf("expected *ast.LetStmt, got %T", prog.Statements[0])
	}
	if stmt.Mutable {
		t.Errorf("expected immutable let")
	}
	ident, ok := stmt.Pattern.(*ast.Identifier)
	if !ok || ident.Value != "x" {
		t.Fatalf("expected pattern identifier 'x', got %#v", stmt.Pattern)
	}
}

func TestLetMutWithTypeAnnotation(t *testing.T) {
	prog := parseProgram(t, `let mut count: Integer = 0;`)
	stmt := prog.Statements[0].(*ast.LetStmt)
	if !stmt.Mutable {
		t.Errorf("expected mutable let")
	}
	typ, ok := stmt.TypeAnn.(*ast.NamedTypeNode)
	if !ok || typ.Name != "Integer" {
		t.Fatalf("expected NamedTypeNode Integer, got %#v", stmt.TypeAnn)
	}
}

func TestArithmeticPrecedence(t *testing.T) {
	prog := parseProgram(t, `let x = 1 + 2 * 3;`)
	stmt := prog.Statements[0].(*ast.LetStmt)
	infix := stmt.Value.(*ast.InfixExpr)
	if infix.Operator != "+" {
		t.Fatalf("expected top-level '+', got %q", infix.Operator)
	}
	right := infix.Right.(*ast.InfixExpr)
	if right.Operator != "*" {
		t.Fatalf("expected nested '*', got %q", right.Operator)
	}
}

func TestIfExpr(t *testing.T) {
	prog := parseProgram(t, `let x = if a > b: a else: b;`)
	stmt := prog.Statements[0].(*ast.LetStmt)
	ifExpr := stmt.Value.(*ast.IfExpr)
	if ifExpr.Else == nil {
		t.Fatalf("expected an else branch")
	}
}

func TestFunctionLiteralBlockBody(t *testing.T) {
	prog := parseProgram(t, `fn add(a: Integer, b: Integer) -> Integer { a + b }`)
	stmt := prog.Statements[0].(*ast.ExprStmt)
	fn := stmt.Expr.(*ast.FunctionLit)
	if fn.Name != "add" {
		t.Fatalf("expected name 'add', got %q", fn.Name)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if _, ok := fn.Body.(*ast.BlockExpr); !ok {
		t.Fatalf("expected block body, got %T", fn.Body)
	}
}

func TestArrowLambdaSugar(t *testing.T) {
	prog := parseProgram(t, `let double = x => x * 2;`)
	stmt := prog.Statements[0].(*ast.LetStmt)
	fn := stmt.Value.(*ast.FunctionLit)
	if len(fn.Params) != 1 || fn.Params[0].Name != "x" {
		t.Fatalf("expected single param 'x', got %#v", fn.Params)
	}
}

func TestPipeRewrite(t *testing.T) {
	prog := parseProgram(t, `let r = xs |> map(double) |> first;`)
	stmt := prog.Statements[0].(*ast.LetStmt)
	outer := stmt.Value.(*ast.CallExpr)
	fnIdent, ok := outer.Function.(*ast.Identifier)
	if !ok || fnIdent.Value != "first" {
		t.Fatalf("expected outer call to 'first', got %#v", outer.Function)
	}
	if len(outer.Arguments) != 1 {
		t.Fatalf("expected 1 argument to 'first', got %d", len(outer.Arguments))
	}
	inner, ok := outer.Arguments[0].(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected inner call expression, got %#v", outer.Arguments[0])
	}
	mapIdent := inner.Function.(*ast.Identifier)
	if mapIdent.Value != "map" {
		t.Fatalf("expected inner call to 'map', got %q", mapIdent.Value)
	}
	if len(inner.Arguments) != 2 {
		t.Fatalf("expected 2 arguments to 'map' after pipe rewrite, got %d", len(inner.Arguments))
	}
}

func TestTryOperator(t *testing.T) {
	prog := parseProgram(t, `let x = readFile(path)?;`)
	stmt := prog.Statements[0].(*ast.LetStmt)
	if _, ok := stmt.Value.(*ast.TryExpr); !ok {
		t.Fatalf("expected *ast.TryExpr, got %T", stmt.Value)
	}
}

func TestMatchExprVariantPatterns(t *testing.T) {
	prog := parseProgram(t, `let y = match (r) {
  Ok(v) => v,
  Err(e) => 0,
};`)
	stmt := prog.Statements[0].(*ast.LetStmt)
	m := stmt.Value.(*ast.MatchExpr)
	if len(m.Arms) != 2 {
		t.Fatalf("expected 2 arms, got %d", len(m.Arms))
	}
	vp := m.Arms[0].Patterns[0].(*ast.VariantPattern)
	if vp.Name != "Ok" || len(vp.SubPats) != 1 {
		t.Fatalf("expected Ok(v) pattern, got %#v", vp)
	}
}

func TestWhenExprWithElse(t *testing.T) {
	prog := parseProgram(t, `let z = when {
  | x > 0 => 1,
  | x < 0 => -1,
  else => 0,
};`)
	stmt := prog.Statements[0].(*ast.LetStmt)
	w := stmt.Value.(*ast.WhenExpr)
	if len(w.Arms) != 2 {
		t.Fatalf("expected 2 when arms, got %d", len(w.Arms))
	}
	if w.Else == nil {
		t.Fatalf("expected an else arm")
	}
}

func TestTypeDeclSumType(t *testing.T) {
	prog := parseProgram(t, `type Option<T> = Some(T) | None;`)
	decl := prog.Statements[0].(*ast.TypeDecl)
	if decl.Name != "Option" || len(decl.TypeParams) != 1 {
		t.Fatalf("expected generic Option<T>, got %#v", decl)
	}
	if len(decl.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(decl.Variants))
	}
	if decl.Variants[0].Name != "Some" || len(decl.Variants[0].Params) != 1 {
		t.Fatalf("expected Some(T) variant, got %#v", decl.Variants[0])
	}
	if decl.Variants[1].Name != "None" || len(decl.Variants[1].Params) != 0 {
		t.Fatalf("expected None variant, got %#v", decl.Variants[1])
	}
}

func TestRecordDecl(t *testing.T) {
	prog := parseProgram(t, `record Point(x: Integer, y: Integer);`)
	decl := prog.Statements[0].(*ast.RecordDecl)
	if decl.Name != "Point" || len(decl.Fields) != 2 {
		t.Fatalf("expected Point record with 2 fields, got %#v", decl)
	}
}

func TestTraitAndImplDecl(t *testing.T) {
	prog := parseProgram(t, `
trait Show {
  fn show(self) -> String;
}
impl Show for Point {
  fn show(self) -> String { "point" }
}
`)
	if len(prog.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Statements))
	}
	trait := prog.Statements[0].(*ast.TraitDecl)
	if trait.Name != "Show" || len(trait.Methods) != 1 {
		t.Fatalf("expected trait Show with 1 method, got %#v", trait)
	}
	impl := prog.Statements[1].(*ast.ImplDecl)
	if impl.TraitName != "Show" || len(impl.Methods) != 1 {
		t.Fatalf("expected impl Show with 1 method, got %#v", impl)
	}
	target, ok := impl.Target.(*ast.NamedTypeNode)
	if !ok || target.Name != "Point" {
		t.Fatalf("expected target type Point, got %#v", impl.Target)
	}
}

func TestModuleHeaderAndUse(t *testing.T) {
	prog := parseProgram(t, `
module geometry exposing (area, Point);
use std.math as m exposing (sqrt);
`)
	header := prog.Statements[0].(*ast.ModuleHeader)
	if header.Name != "geometry" || !header.HasExposing || len(header.ExposedNames) != 2 {
		t.Fatalf("unexpected module header: %#v", header)
	}
	use := prog.Statements[1].(*ast.UseStmt)
	if use.Path[0] != "std" || use.Path[1] != "math" || !use.HasAlias || use.Alias != "m" {
		t.Fatalf("unexpected use statement: %#v", use)
	}
	if !use.HasExposing || use.ExposedNames[0] != "sqrt" {
		t.Fatalf("expected exposing (sqrt), got %#v", use.ExposedNames)
	}
}

func TestArrayPatternWithRest(t *testing.T) {
	prog := parseProgram(t, `let [head, ...tail] = xs;`)
	stmt := prog.Statements[0].(*ast.LetStmt)
	pat := stmt.Pattern.(*ast.ArrayPattern)
	if len(pat.Elements) != 1 || !pat.HasRest || pat.Rest != "tail" {
		t.Fatalf("unexpected array pattern: %#v", pat)
	}
}

func TestTuplePatternLet(t *testing.T) {
	prog := parseProgram(t, `let (a, b) = pair;`)
	stmt := prog.Statements[0].(*ast.LetStmt)
	pat := stmt.Pattern.(*ast.TuplePattern)
	if len(pat.Elements) != 2 {
		t.Fatalf("expected 2-element tuple pattern, got %#v", pat)
	}
}

func TestGenericAndFunctionTypeAnnotations(t *testing.T) {
	prog := parseProgram(t, `fn apply(f: fn(Integer) -> Integer, xs: Array<Integer>) -> Array<Integer> { xs }`)
	stmt := prog.Statements[0].(*ast.ExprStmt)
	fn := stmt.Expr.(*ast.FunctionLit)
	fnType, ok := fn.Params[0].Type.(*ast.FuncTypeNode)
	if !ok || len(fnType.Params) != 1 {
		t.Fatalf("expected fn(Integer) -> Integer type, got %#v", fn.Params[0].Type)
	}
	arrType, ok := fn.Params[1].Type.(*ast.GenericTypeNode)
	if !ok || arrType.Name != "Array" {
		t.Fatalf("expected Array<Integer> type, got %#v", fn.Params[1].Type)
	}
}

func TestErrorRecoveryContinuesParsing(t *testing.T) {
	p := New(lexer.New(`let = ; let y = 2;`))
	prog := p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatalf("expected parse errors for malformed first statement")
	}
	found := false
	for _, s := range prog.Statements {
		if let, ok := s.(*ast.LetStmt); ok {
			if ident, ok := let.Pattern.(*ast.Identifier); ok && ident.Value == "y" {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected parser to recover and still parse 'let y = 2;'")
	}
}

func TestStringInterpolation(t *testing.T) {
	prog := parseProgram(t, `let s = "hello {name}!";`)
	stmt := prog.Statements[0].(*ast.LetStmt)
	interp, ok := stmt.Value.(*ast.InterpStringLit)
	if !ok {
		t.Fatalf("expected InterpStringLit, got %T", stmt.Value)
	}
	if len(interp.Parts) != 2 || len(interp.Exprs) != 1 {
		t.Fatalf("unexpected interpolation shape: %#v", interp)
	}
	if interp.Parts[0] != "hello " || interp.Parts[1] != "!" {
		t.Fatalf("unexpected interpolation parts: %#v", interp.Parts)
	}
}
