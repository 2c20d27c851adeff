package module

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEntrySimpleExpression(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "main.lu")
	if err := os.WriteFile(path, []byte("let x = 1 + 2;\nwriteln(x);\n"), 0644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader()
	mod, err := loader.LoadEntry(path)
	if err != nil {
		t.Fatalf("LoadEntry failed: %v", err)
	}
	if mod.FilePath != path {
		t.Errorf("FilePath = %s, want %s", mod.FilePath, path)
	}
	if _, ok := mod.ValEnv.Get("x"); !ok {
		t.Error("expected top-level binding 'x' in the evaluated environment")
	}
}

func TestLoadEntryCachesByIdentity(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "main.lu")
	os.WriteFile(path, []byte("let x = 1;\n"), 0644)

	loader := NewLoader()
	first, err := loader.LoadEntry(path)
	if err != nil {
		t.Fatal(err)
	}

	cached, ok := loader.cache[first.Identity]
	if !ok || cached != first {
		t.Error("expected the loaded module to be cached under its identity")
	}
}

func TestLoadEntrySyntaxErrorReported(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bad.lu")
	os.WriteFile(path, []byte("let = ;\n"), 0644)

	loader := NewLoader()
	_, err := loader.LoadEntry(path)
	if err == nil {
		t.Fatal("expected a syntax error")
	}
}

func TestLoadUseBindsNativeModule(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "main.lu")
	src := "use math;\nlet y = math.pi;\n"
	os.WriteFile(path, []byte(src), 0644)

	loader := NewLoader()
	mod, err := loader.LoadEntry(path)
	if err != nil {
		t.Fatalf("LoadEntry failed: %v", err)
	}
	if _, ok := mod.ValEnv.Get("math"); !ok {
		t.Error("expected 'math' bound as a module value")
	}
}

func TestPushStackDetectsCycle(t *testing.T) {
	loader := NewLoader()
	loader.loadStack = []string{"a", "b", "c"}

	if err := loader.pushStack("b"); err == nil {
		t.Error("expected a circular dependency error")
	}
}

func TestPopStackIsSafeOnEmpty(t *testing.T) {
	loader := NewLoader()
	loader.popStack()
	loader.popStack()
	if len(loader.loadStack) != 0 {
		t.Error("loadStack should remain empty")
	}
}

func TestIdentityOf(t *testing.T) {
	if got := identityOf([]string{"a", "b", "c"}); got != "a.b.c" {
		t.Errorf("identityOf = %q, want a.b.c", got)
	}
}

func TestDottedToSlash(t *testing.T) {
	if got := dottedToSlash([]string{"data", "tree"}); got != "data/tree" {
		t.Errorf("dottedToSlash = %q, want data/tree", got)
	}
}
