// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	ConsumedEnvKeys map[string]struct{}
}

// NewLoader creates a loader for configPath. An empty path means env-only.
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath:      configPath,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

// Path is the config file the loader reads.
func (l *Loader) Path() string {
	return l.configPath
}

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, defaultVal)
}

// Load loads configuration with precedence: ENV > File > Defaults, then validates.
// A configured file that does not exist yet counts as empty; Save creates it.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		fileCfg, err := l.loadFile(l.configPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("load config file: %w", err)
		default:
			mergeFileConfig(&cfg, fileCfg)
		}
	}

	l.mergeEnvConfig(&cfg)

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// LoadFileConfig loads a YAML config file without applying defaults or env overrides.
func LoadFileConfig(path string) (*FileConfig, error) {
	return NewLoader(path).loadFile(path)
}

// loadFile parses the YAML file strictly: unknown fields, multiple documents
// and trailing content are errors.
func (l *Loader) loadFile(path string) (*FileConfig, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fileCfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &FileConfig{}, nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("%w: %w", ErrUnknownConfigField, err)
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return &fileCfg, nil
}

func mergeFileConfig(dst *AppConfig, src *FileConfig) {
	set := func(target *string, v *string) {
		if v != nil {
			*target = *v
		}
	}
	set(&dst.BaseDirectory, src.BaseDirectory)
	set(&dst.MapTarget, src.MapTarget)
	set(&dst.SaveTarget, src.SaveTarget)
	set(&dst.GameDir, src.GameDir)
	set(&dst.SaveDir, src.SaveDir)
	set(&dst.ChapterConfig, src.ChapterConfig)
	set(&dst.ResumeFile, src.ResumeFile)
	set(&dst.BookmarksFile, src.BookmarksFile)
	set(&dst.ListenAddr, src.ListenAddr)
	set(&dst.JournalPath, src.JournalPath)
	set(&dst.LogLevel, src.LogLevel)
	set(&dst.LogService, src.LogService)
}

func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	cfg.BaseDirectory = l.envString(EnvBaseDir, cfg.BaseDirectory)
	cfg.MapTarget = l.envString(EnvMap, cfg.MapTarget)
	cfg.SaveTarget = l.envString(EnvSave, cfg.SaveTarget)
	cfg.GameDir = l.envString(EnvGameDir, cfg.GameDir)
	cfg.ListenAddr = l.envString(EnvListenAddr, cfg.ListenAddr)
	cfg.JournalPath = l.envString(EnvJournal, cfg.JournalPath)
	cfg.LogLevel = strings.ToLower(l.envString(EnvLogLevel, cfg.LogLevel))
}
