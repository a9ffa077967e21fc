// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"os"
)

type consoleVar struct {
	env  string
	get  func(*AppConfig) *string
	file func(*FileConfig) **string
}

var consoleVars = map[string]consoleVar{
	"dir": {
		env:  EnvBaseDir,
		get:  func(c *AppConfig) *string { return &c.BaseDirectory },
		file: func(f *FileConfig) **string { return &f.BaseDirectory },
	},
	"map": {
		env:  EnvMap,
		get:  func(c *AppConfig) *string { return &c.MapTarget },
		file: func(f *FileConfig) **string { return &f.MapTarget },
	},
	"save": {
		env:  EnvSave,
		get:  func(c *AppConfig) *string { return &c.SaveTarget },
		file: func(f *FileConfig) **string { return &f.SaveTarget },
	},
}

// Var returns a console variable (dir, map or save).
func (h *ConfigHolder) Var(name string) (string, error) {
	cv, ok := consoleVars[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownVar, name)
	}
	cfg := h.Get()
	return *cv.get(&cfg), nil
}

// SetVar validates and applies a console variable, then persists it to the
// config file when one is configured. Commands issued afterwards see the value.
func (h *ConfigHolder) SetVar(name, value string) error {
	cv, ok := consoleVars[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownVar, name)
	}
	if v, set := os.LookupEnv(cv.env); set && v != "" {
		return fmt.Errorf("%w: %s", ErrPinnedByEnv, cv.env)
	}

	next := h.Get()
	*cv.get(&next) = value
	if err := Validate(next); err != nil {
		return err
	}

	if path := h.loader.Path(); path != "" {
		err := Update(path, func(fc *FileConfig) {
			v := value
			*cv.file(fc) = &v
		})
		if err != nil {
			return fmt.Errorf("persist %s: %w", name, err)
		}
	}

	h.swap(next)
	return nil
}
