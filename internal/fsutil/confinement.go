// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrBackslash    = errors.New("path contains backslash")
	ErrAbsolutePath = errors.New("path must be relative")
	ErrEscapesRoot  = errors.New("path escapes root")
)

// ConfineRelPath joins root and relTarget and verifies the result stays under
// the resolved root, following symlinks on the way. relTarget must be relative
// and use forward slashes.
func ConfineRelPath(root, relTarget string) (string, error) {
	if strings.Contains(relTarget, "\\") {
		return "", fmt.Errorf("%w: %s", ErrBackslash, relTarget)
	}

	cleanRel := filepath.Clean(filepath.FromSlash(relTarget))
	if filepath.IsAbs(cleanRel) || strings.HasPrefix(relTarget, "/") {
		return "", fmt.Errorf("%w: %s", ErrAbsolutePath, relTarget)
	}
	if escapes(cleanRel) {
		return "", fmt.Errorf("%w: %s", ErrEscapesRoot, relTarget)
	}

	realRoot, err := ResolveRoot(root)
	if err != nil {
		return "", err
	}
	return resolveWithin(realRoot, filepath.Join(realRoot, cleanRel))
}

// ResolveRoot returns the absolute, symlink-free form of root. A root that
// does not exist yet resolves to its absolute path.
func ResolveRoot(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("invalid root path: %w", err)
	}
	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return absRoot, nil
		}
		return "", fmt.Errorf("resolve root %s: %w", absRoot, err)
	}
	return realRoot, nil
}

// resolveWithin resolves the deepest existing ancestor of fullPath and checks
// the result against realRoot.
func resolveWithin(realRoot, fullPath string) (string, error) {
	existing := fullPath
	var rest []string
	for {
		if _, err := os.Lstat(existing); err == nil {
			break
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			break
		}
		rest = append([]string{filepath.Base(existing)}, rest...)
		existing = parent
	}

	resolved, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	realPath := filepath.Join(append([]string{resolved}, rest...)...)

	rel, err := filepath.Rel(realRoot, realPath)
	if err != nil {
		return "", fmt.Errorf("rel computation failed: %w", err)
	}
	if escapes(rel) {
		return "", fmt.Errorf("%w via symlinks: %s", ErrEscapesRoot, realPath)
	}
	return realPath, nil
}

func escapes(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
