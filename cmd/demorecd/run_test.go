// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/demorec/internal/config"
	"github.com/ManuGH/demorec/internal/domain/capture/store"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		config.EnvBaseDir, config.EnvMap, config.EnvSave, config.EnvGameDir,
		config.EnvListenAddr, config.EnvJournal, config.EnvLogLevel, EnvConfigPath,
	} {
		t.Setenv(k, "")
	}
}

func writeGame(t *testing.T) string {
	t.Helper()
	game := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(game, "cfg"), 0o755))
	chapter := "// chapter 1\nmap background01\nmap d1_trainstation_01\n"
	require.NoError(t, os.WriteFile(filepath.Join(game, "cfg", "chapter1.cfg"), []byte(chapter), 0o644))
	return game
}

func TestRun_ConsoleSession(t *testing.T) {
	clearEnv(t)
	game := writeGame(t)
	dataDir := t.TempDir()
	cfgPath := filepath.Join(dataDir, "demorec.yaml")
	journalPath := filepath.Join(dataDir, "captures.db")
	require.NoError(t, os.WriteFile(cfgPath, []byte("gameDir: "+game+"\nbaseDirectory: runs\njournalPath: "+journalPath+"\n"), 0o600))

	input := strings.Join([]string{
		"start",
		"event level_init d1_trainstation_01",
		"event client_connect",
		"event tick 42",
		"bookmark",
		"speedrun_stop",
		"version",
		"",
	}, "\n")

	var stdout, stderr syncBuffer
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := run(ctx, options{
		ConfigPath: cfgPath,
		Stdin:      strings.NewReader(input),
		Stdout:     &stdout,
		Stderr:     &stderr,
		Console:    true,
	})
	require.NoError(t, err)

	engine := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, engine, 3, stdout.String())
	assert.Equal(t, `map "d1_trainstation_01"`, engine[0])
	assert.True(t, strings.HasPrefix(engine[1], "record runs/"), engine[1])
	assert.True(t, strings.HasSuffix(engine[1], "/d1_trainstation_01"), engine[1])
	assert.Equal(t, "stop", engine[2])

	messages := stderr.String()
	assert.Contains(t, messages, "[Speedrun] Speedrun starting now...")
	assert.Contains(t, messages, "[Speedrun] Bookmarked!")
	assert.Contains(t, messages, "[Speedrun] Speedrun stopped.")
	assert.Contains(t, messages, "Version:0.0.6.1")

	bookmarks, err := os.ReadFile(filepath.Join(game, "runs", "speedrun_democrecord_bookmarks.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(bookmarks), "\t\t   tick: 42\r\n")

	fc, err := config.LoadFileConfig(cfgPath)
	require.NoError(t, err)
	require.NotNil(t, fc.MapTarget, "discovered first map is persisted")
	assert.Equal(t, "d1_trainstation_01", *fc.MapTarget)

	j, err := store.NewSqliteJournal(journalPath)
	require.NoError(t, err)
	defer j.Close()
	entries, err := j.RecentCaptures(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "d1_trainstation_01", entries[0].Artifact)
	assert.Equal(t, "standard", entries[0].Mode)
}

func TestRun_NothingToServe(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvGameDir, writeGame(t))

	var out syncBuffer
	err := run(context.Background(), options{Stdin: strings.NewReader(""), Stdout: &out, Stderr: &out})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to serve")
}

func TestRun_InvalidConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvBaseDir, "/absolute")

	var out syncBuffer
	err := run(context.Background(), options{Stdin: strings.NewReader(""), Stdout: &out, Stderr: &out, Console: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load configuration")
}

func TestOpenJournal_CorruptFileDisablesJournal(t *testing.T) {
	p := filepath.Join(t.TempDir(), "captures.db")
	require.NoError(t, os.WriteFile(p, bytes.Repeat([]byte{0xA5}, 8192), 0o600))

	j, closeFn := openJournal(p)
	defer closeFn()
	assert.Nil(t, j)

	j, closeFn = openJournal("")
	defer closeFn()
	assert.Nil(t, j)
}

func TestResolveJournalPath(t *testing.T) {
	game := t.TempDir()
	abs := filepath.Join(t.TempDir(), "captures.db")

	assert.Empty(t, resolveJournalPath(game, ""))
	assert.Equal(t, abs, resolveJournalPath(game, abs))
	assert.Equal(t, filepath.Join(game, "runs", "captures.db"), resolveJournalPath(game, "runs/captures.db"))
}
