// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package validate

import (
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ManuGH/demorec/internal/testutil"
)

const modulePath = "github.com/ManuGH/demorec/"

// TestLayeringRules keeps the capture core independent of its adapters.
func TestLayeringRules(t *testing.T) {
	root := testutil.MustRepoRoot(t)
	var violations []string

	// The domain layer depends on nothing outward.
	for _, outer := range []string{"internal/infra", "internal/api", "internal/daemon", "internal/config", "internal/dispatch", "cmd"} {
		violations = append(violations, checkForbiddenImport(t, root,
			"internal/domain", modulePath+outer,
			"Domain layer must not import adapters or the application shell",
		)...)
	}

	// Infra implements ports; it must not reach into domain logic.
	violations = append(violations, checkForbiddenImportExcept(t, root,
		"internal/infra", modulePath+"internal/domain",
		[]string{modulePath + "internal/domain/capture/ports"},
		"Infra layer must not import domain logic (except domain/*/ports)",
	)...)

	// Low-level helpers stay below everything else.
	for _, low := range []string{"internal/fsutil", "internal/persistence", "internal/log", "internal/version"} {
		violations = append(violations, checkForbiddenImport(t, root,
			low, modulePath+"internal/domain",
			"Platform helpers must not import the domain layer",
		)...)
		violations = append(violations, checkForbiddenImport(t, root,
			low, modulePath+"internal/config",
			"Platform helpers must not import config",
		)...)
	}

	if len(violations) > 0 {
		t.Errorf("Layering violations detected:\n\n%s", strings.Join(violations, "\n"))
	}
}

// TestNoUtilsPackages prevents creation of "utils hell" packages.
func TestNoUtilsPackages(t *testing.T) {
	root := testutil.MustRepoRoot(t)
	for _, dir := range []string{"internal/utils", "internal/util", "internal/common", "internal/helpers", "internal/shared"} {
		if _, err := os.Stat(filepath.Join(root, dir)); err == nil {
			t.Errorf("Forbidden package detected: %s", dir)
		}
	}
}

func checkForbiddenImport(t *testing.T, root, sourceDir, forbiddenPrefix, reason string) []string {
	return checkForbiddenImportExcept(t, root, sourceDir, forbiddenPrefix, nil, reason)
}

func checkForbiddenImportExcept(t *testing.T, root, sourceDir, forbiddenPrefix string, allowed []string, reason string) []string {
	t.Helper()

	files, err := findGoFiles(filepath.Join(root, sourceDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("Failed to scan %s: %v", sourceDir, err)
	}

	allowedSet := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		allowedSet[a] = true
	}

	var violations []string
	for _, file := range files {
		imports, err := extractImports(file)
		if err != nil {
			t.Logf("Warning: failed to parse %s: %v", file, err)
			continue
		}
		for _, imp := range imports {
			if !strings.HasPrefix(imp, forbiddenPrefix) || allowedSet[imp] {
				continue
			}
			rel, _ := filepath.Rel(root, file)
			violations = append(violations, fmt.Sprintf("  %s imports %s\n     Reason: %s", rel, imp, reason))
		}
	}
	return violations
}

func findGoFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(path, ".go") && !strings.HasSuffix(path, "_test.go") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func extractImports(filePath string) ([]string, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filePath, nil, parser.ImportsOnly)
	if err != nil {
		return nil, err
	}
	imports := make([]string, 0, len(f.Imports))
	for _, imp := range f.Imports {
		imports = append(imports, strings.Trim(imp.Path.Value, `"`))
	}
	return imports, nil
}
