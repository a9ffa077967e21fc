// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"
)

// Save writes cfg as YAML to path with fsync + atomic rename.
func Save(path string, cfg FileConfig) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o600))
	if err != nil {
		return fmt.Errorf("create pending config file: %w", err)
	}
	defer func() { _ = pending.Cleanup() }()

	if _, err := pending.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write config data: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("commit config file: %w", err)
	}
	return nil
}

// Update loads the file at path (missing counts as empty), applies mutate and
// saves the result. Fields absent from the file stay absent.
func Update(path string, mutate func(*FileConfig)) error {
	fc, err := LoadFileConfig(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		fc = &FileConfig{}
	}
	mutate(fc)
	return Save(path, *fc)
}

var fileFields = map[string]func(*FileConfig) **string{
	"baseDirectory": func(f *FileConfig) **string { return &f.BaseDirectory },
	"mapTarget":     func(f *FileConfig) **string { return &f.MapTarget },
	"saveTarget":    func(f *FileConfig) **string { return &f.SaveTarget },
	"gameDir":       func(f *FileConfig) **string { return &f.GameDir },
	"saveDir":       func(f *FileConfig) **string { return &f.SaveDir },
	"chapterConfig": func(f *FileConfig) **string { return &f.ChapterConfig },
	"resumeFile":    func(f *FileConfig) **string { return &f.ResumeFile },
	"bookmarksFile": func(f *FileConfig) **string { return &f.BookmarksFile },
	"listenAddr":    func(f *FileConfig) **string { return &f.ListenAddr },
	"journalPath":   func(f *FileConfig) **string { return &f.JournalPath },
	"logLevel":      func(f *FileConfig) **string { return &f.LogLevel },
	"logService":    func(f *FileConfig) **string { return &f.LogService },
}

// SetField sets the YAML key on fc.
func SetField(fc *FileConfig, key, value string) error {
	field, ok := fileFields[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownConfigField, key)
	}
	*field(fc) = &value
	return nil
}
