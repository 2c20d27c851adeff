package errors

import (
	"strings"
	"testing"
)

func TestWrapAndAsReport(t *testing.T) {
	err := New(PhaseSemantic, CodeTypeMismatch, "main.lu", 3, 5, "expected %s, got %s", "Integer", "String")
	rep, ok := AsReport(err)
	if !ok {
		t.Fatalf("AsReport: expected a Report, got none")
	}
	if rep.Code != CodeTypeMismatch || rep.Phase != PhaseSemantic {
		t.Errorf("unexpected report %+v", rep)
	}
	if !strings.Contains(err.Error(), "main.lu:3:5") {
		t.Errorf("Error() = %q, want it to contain position", err.Error())
	}
}

func TestWrapReportNil(t *testing.T) {
	if WrapReport(nil) != nil {
		t.Error("WrapReport(nil) should return nil")
	}
}

func TestRenderPointsAtColumn(t *testing.T) {
	rep := &Report{
		Code:    CodeUnknownIdentifier,
		Phase:   PhaseSemantic,
		Message: "unknown identifier \"x\"",
		Span:    &Span{File: "main.lu", Line: 2, Column: 9},
	}
	source := "let y = 1;\nwriteln(x);\n"
	out := Render(rep, source)
	if !strings.Contains(out, "error: unknown identifier") {
		t.Errorf("missing header line: %q", out)
	}
	if !strings.Contains(out, "main.lu:2:9") {
		t.Errorf("missing pointer line: %q", out)
	}
	if !strings.Contains(out, "writeln(x);") {
		t.Errorf("missing context line: %q", out)
	}
}

func TestNewWithoutSpan(t *testing.T) {
	err := NewWithoutSpan(PhaseLoader, CodeUnknownModule, "unknown module %q", "a.b")
	rep, ok := AsReport(err)
	if !ok || rep.Span != nil {
		t.Fatalf("expected a spanless report, got %+v", rep)
	}
}
