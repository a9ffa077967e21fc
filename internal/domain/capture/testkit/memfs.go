// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package testkit

import (
	"errors"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/ManuGH/demorec/internal/domain/capture/ports"
)

// MemFS is an in-memory ports.Filesystem. Failure switches let tests force
// persistence errors.
type MemFS struct {
	mu    sync.Mutex
	files map[string][]byte
	dirs  map[string]struct{}

	FailWrites  bool
	FailRemoves bool
	FailReads   bool
}

var (
	ErrInjectedWrite  = errors.New("injected write failure")
	ErrInjectedRemove = errors.New("injected remove failure")
	ErrInjectedRead   = errors.New("injected read failure")
)

func NewMemFS() *MemFS {
	return &MemFS{
		files: make(map[string][]byte),
		dirs:  map[string]struct{}{".": {}},
	}
}

func clean(p string) string {
	return path.Clean(strings.TrimSpace(p))
}

func (m *MemFS) Exists(p string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = clean(p)
	_, isFile := m.files[p]
	_, isDir := m.dirs[p]
	return isFile || isDir
}

func (m *MemFS) IsDirectory(p string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.dirs[clean(p)]
	return ok
}

func (m *MemFS) CreateDirectoryTree(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for dir := clean(p); dir != "." && dir != "/"; dir = path.Dir(dir) {
		m.dirs[dir] = struct{}{}
	}
	return nil
}

func (m *MemFS) CountEntriesWithPrefix(directory, prefix string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	directory = clean(directory)
	n := 0
	for name := range m.files {
		if path.Dir(name) == directory && strings.HasPrefix(path.Base(name), prefix) {
			n++
		}
	}
	for name := range m.dirs {
		if name != directory && path.Dir(name) == directory && strings.HasPrefix(path.Base(name), prefix) {
			n++
		}
	}
	return n, nil
}

func (m *MemFS) ReadLine(p string) (string, error) {
	lines, err := m.ReadLines(p)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", nil
	}
	return lines[0], nil
}

func (m *MemFS) ReadLines(p string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReads {
		return nil, ErrInjectedRead
	}
	data, ok := m.files[clean(p)]
	if !ok {
		return nil, ports.ErrNotExist
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}

func (m *MemFS) WriteAll(p string, content []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrInjectedWrite
	}
	m.files[clean(p)] = append([]byte(nil), content...)
	return nil
}

func (m *MemFS) AppendAll(p string, content []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrInjectedWrite
	}
	p = clean(p)
	m.files[p] = append(m.files[p], content...)
	return nil
}

func (m *MemFS) Remove(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailRemoves {
		return ErrInjectedRemove
	}
	p = clean(p)
	if _, ok := m.files[p]; !ok {
		return ports.ErrNotExist
	}
	delete(m.files, p)
	return nil
}

// Put seeds a file.
func (m *MemFS) Put(p, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = clean(p)
	m.files[p] = []byte(content)
	for dir := path.Dir(p); dir != "." && dir != "/"; dir = path.Dir(dir) {
		m.dirs[dir] = struct{}{}
	}
}

// Content returns a file's content and whether it exists.
func (m *MemFS) Content(p string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[clean(p)]
	return string(data), ok
}

// Dirs lists created directories, sorted.
func (m *MemFS) Dirs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.dirs))
	for d := range m.dirs {
		if d != "." {
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out
}
