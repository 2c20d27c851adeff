package module

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestNewResolver(t *testing.T) {
	r := NewResolver()

	if r.projectRoot == "" {
		t.Error("projectRoot should not be empty")
	}

	if r.searchPaths == nil {
		t.Error("searchPaths should not be nil")
	}
}

func TestNormalizePath(t *testing.T) {
	r := NewResolver()

	home, _ := os.UserHomeDir()
	path, err := r.NormalizePath("~/test.lu")
	if err != nil {
		t.Errorf("NormalizePath failed: %v", err)
	}
	if !strings.HasPrefix(path, home) {
		t.Errorf("Path should start with home directory: %s", path)
	}

	path, err = r.NormalizePath("./test.lu")
	if err != nil {
		t.Errorf("NormalizePath failed: %v", err)
	}
	if !filepath.IsAbs(path) {
		t.Errorf("Path should be absolute: %s", path)
	}

	path, err = r.NormalizePath("../test.lu")
	if err != nil {
		t.Errorf("NormalizePath failed: %v", err)
	}
	if strings.Contains(path, "..") {
		t.Errorf("Path should not contain ..: %s", path)
	}
}

func TestResolveImportNotFound(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		name        string
		path        []string
		currentFile string
	}{
		{name: "sibling of current file", path: []string{"utils"}, currentFile: "/project/src/main.lu"},
		{name: "nested dotted path", path: []string{"data", "structures"}, currentFile: ""},
		{name: "single segment, no current file", path: []string{"utils"}, currentFile: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.ResolveImport(tt.path, tt.currentFile); err == nil {
				t.Errorf("expected an error resolving %v (no such file exists)", tt.path)
			}
		})
	}
}

func TestResolveImportFindsSiblingFile(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "resolver_test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	mainFile := filepath.Join(tmpDir, "main.lu")
	utilsFile := filepath.Join(tmpDir, "utils.lu")
	if err := os.WriteFile(mainFile, []byte("module main;"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(utilsFile, []byte("module utils;"), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver()
	resolved, err := r.ResolveImport([]string{"utils"}, mainFile)
	if err != nil {
		t.Fatalf("ResolveImport failed: %v", err)
	}
	if !strings.HasSuffix(resolved, "utils.lu") {
		t.Errorf("resolved path should end with utils.lu: %s", resolved)
	}
	if !filepath.IsAbs(resolved) {
		t.Errorf("resolved path should be absolute: %s", resolved)
	}
}

func TestResolveImportSearchesNestedDottedPath(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "resolver_test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	if err := os.MkdirAll(filepath.Join(tmpDir, "data"), 0755); err != nil {
		t.Fatal(err)
	}
	structFile := filepath.Join(tmpDir, "data", "structures.lu")
	if err := os.WriteFile(structFile, []byte("module data.structures;"), 0644); err != nil {
		t.Fatal(err)
	}

	r := &Resolver{projectRoot: tmpDir, caseSensitive: isFileSystemCaseSensitive()}
	resolved, err := r.ResolveImport([]string{"data", "structures"}, "")
	if err != nil {
		t.Fatalf("ResolveImport failed: %v", err)
	}
	if !strings.HasSuffix(resolved, filepath.Join("data", "structures.lu")) {
		t.Errorf("resolved path should end with data/structures.lu: %s", resolved)
	}
}

func TestGetModuleIdentity(t *testing.T) {
	r := &Resolver{projectRoot: "/project", caseSensitive: isFileSystemCaseSensitive()}

	identity, err := r.GetModuleIdentity("/project/utils.lu")
	if err != nil {
		t.Errorf("GetModuleIdentity failed: %v", err)
	}
	if identity != "utils" {
		t.Errorf("Identity = %s, want utils", identity)
	}

	identity, err = r.GetModuleIdentity("/project/data/structures.lu")
	if err != nil {
		t.Errorf("GetModuleIdentity failed: %v", err)
	}
	if identity != "data.structures" {
		t.Errorf("Identity = %s, want data.structures", identity)
	}
}

func TestValidateModuleName(t *testing.T) {
	r := &Resolver{projectRoot: "/project", caseSensitive: true}

	tests := []struct {
		name         string
		declaredName string
		filePath     string
		shouldError  bool
	}{
		{
			name:         "matching base name",
			declaredName: "utils",
			filePath:     "/project/utils.lu",
			shouldError:  false,
		},
		{
			name:         "mismatched name",
			declaredName: "wrong",
			filePath:     "/project/utils.lu",
			shouldError:  true,
		},
		{
			name:         "matching dotted identity",
			declaredName: "data.structures",
			filePath:     "/project/data/structures.lu",
			shouldError:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.ValidateModuleName(tt.declaredName, tt.filePath)
			if (err != nil) != tt.shouldError {
				t.Errorf("ValidateModuleName(%s, %s) error = %v, shouldError = %v",
					tt.declaredName, tt.filePath, err, tt.shouldError)
			}
		})
	}
}

func TestValidateModuleNameCaseInsensitiveFallback(t *testing.T) {
	r := &Resolver{projectRoot: "/project", caseSensitive: false}

	if err := r.ValidateModuleName("Utils", "/project/utils.lu"); err != nil {
		t.Errorf("expected case-insensitive match to succeed, got %v", err)
	}
}

func TestIsFileSystemCaseSensitive(t *testing.T) {
	result := isFileSystemCaseSensitive()

	switch runtime.GOOS {
	case "windows", "darwin":
		if result {
			t.Errorf("Expected case-insensitive on %s", runtime.GOOS)
		}
	case "linux":
		if !result {
			t.Errorf("Expected case-sensitive on %s", runtime.GOOS)
		}
	}
}

func TestGetResolutionOrder(t *testing.T) {
	r := &Resolver{projectRoot: "/project", searchPaths: []string{"/extra"}, caseSensitive: isFileSystemCaseSensitive()}

	order := r.GetResolutionOrder([]string{"utils"}, "/project/src/main.lu")
	if len(order) == 0 {
		t.Fatal("Resolution order should not be empty")
	}
	for _, path := range order {
		if !strings.HasSuffix(path, ".lu") {
			t.Errorf("resolution order entry should end in .lu: %s", path)
		}
	}

	order = r.GetResolutionOrder([]string{"data", "structures"}, "")
	found := false
	for _, path := range order {
		if strings.Contains(path, filepath.Join("data", "structures.lu")) {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("Resolution order should include the nested dotted path: %v", order)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := findProjectRoot(".")

	if root == "" {
		t.Error("Project root should not be empty")
	}
	if _, err := os.Stat(root); err != nil {
		t.Errorf("Project root should exist: %s", root)
	}
}

func TestGetSearchPaths(t *testing.T) {
	testPaths := "/path1" + string(os.PathListSeparator) + "/path2"
	os.Setenv("LUMEN_PATH", testPaths)
	defer os.Unsetenv("LUMEN_PATH")

	paths := getSearchPaths("/project")

	found1, found2, foundRoot := false, false, false
	for _, p := range paths {
		switch p {
		case "/path1":
			found1 = true
		case "/path2":
			found2 = true
		case "/project":
			foundRoot = true
		}
	}

	if !found1 || !found2 {
		t.Errorf("Search paths should include environment paths: %v", paths)
	}
	if !foundRoot {
		t.Errorf("Search paths should include the project root: %v", paths)
	}
}

func TestLoadProjectManifest(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "resolver_manifest_test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	manifest := "root: .\nsearchPaths:\n  - /shared/lumen-modules\n"
	if err := os.WriteFile(filepath.Join(tmpDir, "lumen.yaml"), []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}

	m := loadProjectManifest(tmpDir)
	if m == nil {
		t.Fatal("expected a manifest to be found")
	}
	if m.Root != tmpDir {
		t.Errorf("Root = %s, want %s", m.Root, tmpDir)
	}
	if len(m.SearchPaths) != 1 || m.SearchPaths[0] != "/shared/lumen-modules" {
		t.Errorf("unexpected SearchPaths: %v", m.SearchPaths)
	}
}

func TestLoadProjectManifestAbsentReturnsNil(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "resolver_manifest_absent_test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	if m := loadProjectManifest(tmpDir); m != nil {
		t.Errorf("expected no manifest, got %+v", m)
	}
}
