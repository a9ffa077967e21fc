// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package hostfs implements ports.Filesystem on the game directory.
package hostfs

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/ManuGH/demorec/internal/domain/capture/ports"
	"github.com/ManuGH/demorec/internal/fsutil"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// FS resolves every relative path under Root and refuses paths that escape it.
type FS struct {
	Root string
}

var _ ports.Filesystem = (*FS)(nil)

// New returns an FS rooted at root. The root must exist.
func New(root string) (*FS, error) {
	real, err := fsutil.ResolveRoot(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(real)
	if err != nil {
		return nil, fmt.Errorf("game directory %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("game directory %s: not a directory", root)
	}
	return &FS{Root: real}, nil
}

func (f *FS) resolve(p string) (string, error) {
	return fsutil.ConfineRelPath(f.Root, p)
}

func (f *FS) Exists(p string) bool {
	full, err := f.resolve(p)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return err == nil
}

func (f *FS) IsDirectory(p string) bool {
	full, err := f.resolve(p)
	if err != nil {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && info.IsDir()
}

func (f *FS) CreateDirectoryTree(p string) error {
	full, err := f.resolve(p)
	if err != nil {
		return err
	}
	return os.MkdirAll(full, dirPerm)
}

// CountEntriesWithPrefix counts files and directories directly in dir whose
// name starts with prefix.
func (f *FS) CountEntriesWithPrefix(dir, prefix string) (int, error) {
	full, err := f.resolve(dir)
	if err != nil {
		return 0, err
	}
	entries, err := os.ReadDir(full)
	if err != nil {
		return 0, mapNotExist(err)
	}
	n := 0
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), prefix) {
			n++
		}
	}
	return n, nil
}

func (f *FS) ReadLine(p string) (string, error) {
	lines, err := f.ReadLines(p)
	if err != nil || len(lines) == 0 {
		return "", err
	}
	return lines[0], nil
}

// ReadLines returns the file's lines without their CR/LF terminators.
func (f *FS) ReadLines(p string) ([]string, error) {
	full, err := f.resolve(p)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, mapNotExist(err)
	}
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return lines, nil
}

// WriteAll atomically replaces p with content.
func (f *FS) WriteAll(p string, content []byte) error {
	full, err := f.resolve(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), dirPerm); err != nil {
		return err
	}
	return renameio.WriteFile(full, content, filePerm)
}

func (f *FS) AppendAll(p string, content []byte) error {
	full, err := f.resolve(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), dirPerm); err != nil {
		return err
	}
	file, err := os.OpenFile(full, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm)
	if err != nil {
		return err
	}
	if _, err := file.Write(content); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func (f *FS) Remove(p string) error {
	full, err := f.resolve(p)
	if err != nil {
		return err
	}
	return mapNotExist(os.Remove(full))
}

func mapNotExist(err error) error {
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", ports.ErrNotExist, err)
	}
	return err
}
