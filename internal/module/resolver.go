// Package module provides path resolution utilities for Lumen modules.
package module

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// projectManifest is the optional lumen.yaml project file: it names a
// project root and extra module search paths, generalizing the LUMEN_PATH
// environment variable into something a project can check into source
// control instead of exporting in every shell.
type projectManifest struct {
	Root        string   `yaml:"root"`
	SearchPaths []string `yaml:"searchPaths"`
}

// loadProjectManifest looks for lumen.yaml starting at dir and walking up
// to the filesystem root, returning the first one found (or nil, if none
// exists, which is the common case for a single-file script).
func loadProjectManifest(dir string) *projectManifest {
	for {
		path := filepath.Join(dir, "lumen.yaml")
		data, err := os.ReadFile(path)
		if err == nil {
			var m projectManifest
			if yaml.Unmarshal(data, &m) == nil {
				if m.Root != "" && !filepath.IsAbs(m.Root) {
					m.Root = filepath.Join(dir, m.Root)
				}
				return &m
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil
		}
		dir = parent
	}
}

// Resolver handles dotted module path resolution with platform-specific
// normalization. Native modules (fs, net.http, json, ...) never reach a
// Resolver: the loader answers those straight from the in-memory stdlib
// registry before consulting path resolution at all.
type Resolver struct {
	// projectRoot is the root directory of the current project
	projectRoot string

	// searchPaths are additional directories to search, in priority order
	searchPaths []string

	// caseSensitive indicates if the filesystem is case-sensitive
	caseSensitive bool
}

// NewResolver creates a new path resolver, preferring a lumen.yaml
// manifest's root/searchPaths over the LUMEN_PATH environment variable
// and cwd-based discovery when one is present.
func NewResolver() *Resolver {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	root := findProjectRoot(cwd)
	searchPaths := getSearchPaths(root)

	if m := loadProjectManifest(cwd); m != nil {
		if m.Root != "" {
			root = m.Root
		}
		searchPaths = append(append([]string{}, m.SearchPaths...), searchPaths...)
	}

	return &Resolver{
		projectRoot:   root,
		searchPaths:   searchPaths,
		caseSensitive: isFileSystemCaseSensitive(),
	}
}

// NormalizePath normalizes a file path for the current platform
func (r *Resolver) NormalizePath(path string) (string, error) {
	// Expand home directory
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	// Clean the path (resolve . and ..)
	path = filepath.Clean(path)

	// Make absolute if relative
	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to make path absolute: %w", err)
		}
		path = abs
	}

	// Resolve symlinks
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		// If file doesn't exist yet, just return cleaned path
		if os.IsNotExist(err) {
			return path, nil
		}
		return "", fmt.Errorf("failed to resolve symlinks: %w", err)
	}

	return resolved, nil
}

// ResolveImport resolves a `use`d dotted module path (e.g. ["a", "b", "c"]
// for `use a.b.c`) to a source file on disk, trying, in order: alongside
// currentFile (the module doing the `use`), the project root, then each
// configured search path.
func (r *Resolver) ResolveImport(path []string, currentFile string) (string, error) {
	rel := filepath.Join(path...) + ".lu"

	if currentFile != "" {
		candidate := filepath.Join(filepath.Dir(currentFile), rel)
		if normalized, err := r.NormalizePath(candidate); err == nil {
			if _, err := os.Stat(normalized); err == nil {
				return normalized, nil
			}
		}
	}

	candidate := filepath.Join(r.projectRoot, rel)
	if normalized, err := r.NormalizePath(candidate); err == nil {
		if _, err := os.Stat(normalized); err == nil {
			return normalized, nil
		}
	}

	for _, searchPath := range r.searchPaths {
		candidate := filepath.Join(searchPath, rel)
		normalized, err := r.NormalizePath(candidate)
		if err != nil {
			continue
		}
		if _, err := os.Stat(normalized); err == nil {
			return normalized, nil
		}
	}

	return "", fmt.Errorf("module %q not found", strings.Join(path, "."))
}

// GetModuleIdentity derives a module's dotted identity (e.g. "a.b.c") from
// a file path, relative to whichever configured root contains it.
func (r *Resolver) GetModuleIdentity(filePath string) (string, error) {
	normalized, err := r.NormalizePath(filePath)
	if err != nil {
		return "", err
	}
	stripped := strings.TrimSuffix(normalized, ".lu")

	roots := append([]string{r.projectRoot}, r.searchPaths...)
	for _, root := range roots {
		if root == "" || !strings.HasPrefix(stripped, root) {
			continue
		}
		rel, err := filepath.Rel(root, stripped)
		if err != nil {
			continue
		}
		return strings.ReplaceAll(rel, string(filepath.Separator), "."), nil
	}

	return filepath.Base(stripped), nil
}

// ValidateModuleName checks if a module's declared header name matches the
// dotted identity its file path implies.
func (r *Resolver) ValidateModuleName(declaredName, filePath string) error {
	expectedIdentity, err := r.GetModuleIdentity(filePath)
	if err != nil {
		return err
	}

	matches := declaredName == expectedIdentity || declaredName == filepath.Base(expectedIdentity)
	if !matches && !r.caseSensitive {
		matches = strings.EqualFold(declaredName, expectedIdentity) || strings.EqualFold(declaredName, filepath.Base(expectedIdentity))
	}
	if !matches {
		return fmt.Errorf("module name %q doesn't match expected %q for file %s",
			declaredName, expectedIdentity, filePath)
	}

	return nil
}

// Helper functions

// findProjectRoot walks up from dir looking for a project marker (go.mod,
// .git, lumen.yaml, .lumen), defaulting to dir itself if none is found.
func findProjectRoot(dir string) string {
	markers := []string{"go.mod", ".git", "lumen.yaml", ".lumen"}

	start := dir
	for {
		for _, marker := range markers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}

// getSearchPaths returns additional search paths for modules, from the
// LUMEN_PATH environment variable plus a fixed per-user modules directory,
// followed by projectRoot itself.
func getSearchPaths(projectRoot string) []string {
	paths := []string{}

	if lumenPath := os.Getenv("LUMEN_PATH"); lumenPath != "" {
		for _, p := range strings.Split(lumenPath, string(os.PathListSeparator)) {
			if p != "" {
				paths = append(paths, p)
			}
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".lumen", "modules"))
	}

	paths = append(paths, projectRoot)

	return paths
}

// isFileSystemCaseSensitive checks if the filesystem is case-sensitive
func isFileSystemCaseSensitive() bool {
	// On Windows and macOS, filesystems are typically case-insensitive
	// On Linux, they're typically case-sensitive
	switch runtime.GOOS {
	case "windows", "darwin":
		return false
	default:
		return true
	}
}

// GetResolutionOrder returns the file paths, in priority order, that
// ResolveImport tries for a dotted module path.
func (r *Resolver) GetResolutionOrder(path []string, currentFile string) []string {
	rel := filepath.Join(path...) + ".lu"
	order := []string{}

	if currentFile != "" {
		order = append(order, filepath.Join(filepath.Dir(currentFile), rel))
	}
	order = append(order, filepath.Join(r.projectRoot, rel))
	for _, searchPath := range r.searchPaths {
		order = append(order, filepath.Join(searchPath, rel))
	}

	return order
}
