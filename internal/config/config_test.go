// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvBaseDir, EnvMap, EnvSave, EnvGameDir, EnvListenAddr, EnvJournal, EnvLogLevel} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "demorec.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	clearEnv(t)

	cfg, err := NewLoader("").Load()
	require.NoError(t, err)
	if diff := cmp.Diff(Defaults(), cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "speedrun_democrecord_resume_info.txt", cfg.Settings().ResumeFile)
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	p := writeFile(t, "baseDirectory: runs\nmapTarget: d1_trainstation_01\nsaveTarget: quick\n")
	t.Setenv(EnvMap, "ep1_citadel_00")

	cfg, err := NewLoader(p).Load()
	require.NoError(t, err)

	assert.Equal(t, "runs", cfg.BaseDirectory)
	assert.Equal(t, "ep1_citadel_00", cfg.MapTarget, "env wins over file")
	assert.Equal(t, "quick", cfg.SaveTarget)
	assert.Equal(t, DefaultSaveDir, cfg.SaveDir)
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	clearEnv(t)
	cfg, err := NewLoader(filepath.Join(t.TempDir(), "absent.yaml")).Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseDirectory, cfg.BaseDirectory)
}

func TestLoad_StrictParsing(t *testing.T) {
	clearEnv(t)

	_, err := NewLoader(writeFile(t, "speedrunDir: runs\n")).Load()
	require.ErrorIs(t, err, ErrUnknownConfigField)

	_, err = NewLoader(writeFile(t, "mapTarget: a\n---\nmapTarget: b\n")).Load()
	require.Error(t, err)

	txt := filepath.Join(t.TempDir(), "demorec.txt")
	require.NoError(t, os.WriteFile(txt, nil, 0o600))
	_, err = NewLoader(txt).Load()
	require.Error(t, err)
}

func TestLoad_ValidationRejectsEscapingBaseDirectory(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBaseDir, "../outside")

	_, err := NewLoader("").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "baseDirectory")
}

func TestSaveAndUpdate_RoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "demorec.yaml")
	base := "runs"
	require.NoError(t, Save(p, FileConfig{BaseDirectory: &base}))

	require.NoError(t, Update(p, func(fc *FileConfig) {
		m := "d1_trainstation_01"
		fc.MapTarget = &m
	}))

	fc, err := LoadFileConfig(p)
	require.NoError(t, err)
	require.NotNil(t, fc.BaseDirectory)
	require.NotNil(t, fc.MapTarget)
	assert.Equal(t, "runs", *fc.BaseDirectory)
	assert.Equal(t, "d1_trainstation_01", *fc.MapTarget)
	assert.Nil(t, fc.SaveTarget, "absent fields stay absent")
}

func TestConfigHolder_SetVarPersistsAndApplies(t *testing.T) {
	clearEnv(t)
	p := writeFile(t, "baseDirectory: runs\n")
	loader := NewLoader(p)
	cfg, err := loader.Load()
	require.NoError(t, err)
	h := NewConfigHolder(cfg, loader)

	updates := make(chan AppConfig, 1)
	h.RegisterListener(updates)

	require.NoError(t, h.SetVar("map", "d3_c17_01"))
	assert.Equal(t, "d3_c17_01", h.Settings().MapTarget)
	assert.Equal(t, "d3_c17_01", (<-updates).MapTarget)

	v, err := h.Var("map")
	require.NoError(t, err)
	assert.Equal(t, "d3_c17_01", v)

	fc, err := LoadFileConfig(p)
	require.NoError(t, err)
	require.NotNil(t, fc.MapTarget)
	assert.Equal(t, "d3_c17_01", *fc.MapTarget)

	require.Error(t, h.SetVar("dir", "/abs"))
	assert.Equal(t, "runs", h.Get().BaseDirectory)

	_, err = h.Var("gravity")
	require.ErrorIs(t, err, ErrUnknownVar)
}

func TestConfigHolder_SetVarPinnedByEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvSave, "quick")
	loader := NewLoader("")
	cfg, err := loader.Load()
	require.NoError(t, err)
	h := NewConfigHolder(cfg, loader)

	require.ErrorIs(t, h.SetVar("save", "other"), ErrPinnedByEnv)
	assert.Equal(t, "quick", h.Get().SaveTarget)
}

func TestConfigHolder_ReloadKeepsOldOnError(t *testing.T) {
	clearEnv(t)
	p := writeFile(t, "baseDirectory: runs\n")
	loader := NewLoader(p)
	cfg, err := loader.Load()
	require.NoError(t, err)
	h := NewConfigHolder(cfg, loader)

	require.NoError(t, os.WriteFile(p, []byte("baseDirectory: /abs\n"), 0o600))
	require.Error(t, h.Reload(context.Background()))
	assert.Equal(t, "runs", h.Get().BaseDirectory)
}

func TestConfigHolder_WatchReloadsOnChange(t *testing.T) {
	clearEnv(t)
	p := writeFile(t, "baseDirectory: runs\n")
	loader := NewLoader(p)
	cfg, err := loader.Load()
	require.NoError(t, err)
	h := NewConfigHolder(cfg, loader)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Watch(ctx) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	// Rewrite until the watcher has picked the directory up.
	require.Eventually(t, func() bool {
		_ = Save(p, FileConfig{BaseDirectory: ptr("speedruns")})
		return h.Get().BaseDirectory == "speedruns"
	}, 10*time.Second, 700*time.Millisecond)
}

func TestConfigHolder_WatchWithoutFile(t *testing.T) {
	h := NewConfigHolder(Defaults(), NewLoader(""))
	require.NoError(t, h.Watch(context.Background()))
}

func ptr(s string) *string { return &s }

func TestSetField(t *testing.T) {
	var fc FileConfig
	require.NoError(t, SetField(&fc, "listenAddr", "127.0.0.1:8088"))
	require.NotNil(t, fc.ListenAddr)
	assert.Equal(t, "127.0.0.1:8088", *fc.ListenAddr)

	require.ErrorIs(t, SetField(&fc, "speedrunDir", "runs"), ErrUnknownConfigField)
}
