// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard).Level(zerolog.DebugLevel)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}

func TestNewManager_Validation(t *testing.T) {
	_, err := NewManager(DefaultServerConfig("127.0.0.1:0"), Deps{Logger: zerolog.Nop(), APIHandler: okHandler()})
	require.ErrorIs(t, err, ErrMissingLogger)

	_, err = NewManager(DefaultServerConfig("127.0.0.1:0"), Deps{Logger: testLogger()})
	require.ErrorIs(t, err, ErrMissingAPIHandler)

	mgr, err := NewManager(DefaultServerConfig("127.0.0.1:0"), Deps{Logger: testLogger(), APIHandler: okHandler()})
	require.NoError(t, err)
	assert.Empty(t, mgr.Addr())
}

func TestManager_StartStop(t *testing.T) {
	mgr, err := NewManager(DefaultServerConfig("127.0.0.1:0"), Deps{Logger: testLogger(), APIHandler: okHandler()})
	require.NoError(t, err)

	var hooks []string
	var hookMu sync.Mutex
	for _, name := range []string{"first", "second"} {
		mgr.RegisterShutdownHook(name, func(context.Context) error {
			hookMu.Lock()
			defer hookMu.Unlock()
			hooks = append(hooks, name)
			return nil
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- mgr.Start(ctx) }()

	require.Eventually(t, func() bool { return mgr.Addr() != "" }, 2*time.Second, 10*time.Millisecond)

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + mgr.Addr() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "OK", string(body))

	cancel()
	require.NoError(t, <-done)

	hookMu.Lock()
	assert.Equal(t, []string{"second", "first"}, hooks, "hooks run LIFO")
	hookMu.Unlock()

	require.ErrorIs(t, mgr.Start(context.Background()), ErrManagerStarted)
}

func TestManager_ShutdownBeforeStart(t *testing.T) {
	mgr, err := NewManager(DefaultServerConfig("127.0.0.1:0"), Deps{Logger: testLogger(), APIHandler: okHandler()})
	require.NoError(t, err)
	require.ErrorIs(t, mgr.Shutdown(context.Background()), ErrManagerNotStarted)
}

func TestManager_ListenFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	mgr, err := NewManager(DefaultServerConfig(ln.Addr().String()), Deps{Logger: testLogger(), APIHandler: okHandler()})
	require.NoError(t, err)
	require.Error(t, mgr.Start(context.Background()))
}

func TestManager_HookErrorsAreJoined(t *testing.T) {
	mgr, err := NewManager(DefaultServerConfig("127.0.0.1:0"), Deps{Logger: testLogger(), APIHandler: okHandler()})
	require.NoError(t, err)
	hookErr := errors.New("journal close failed")
	mgr.RegisterShutdownHook("journal", func(context.Context) error { return hookErr })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- mgr.Start(ctx) }()
	require.Eventually(t, func() bool { return mgr.Addr() != "" }, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, hookErr)
}

type fakeRunner struct{ runs atomic.Int32 }

func (r *fakeRunner) Run(ctx context.Context) error {
	r.runs.Add(1)
	<-ctx.Done()
	return nil
}

type fakeConsole struct{ release chan struct{} }

func (c *fakeConsole) Serve(ctx context.Context) error {
	select {
	case <-c.release:
	case <-ctx.Done():
	}
	return nil
}

type fakeConfig struct {
	reloads atomic.Int32
	watched atomic.Bool
	watch   error
}

func (c *fakeConfig) Reload(context.Context) error {
	c.reloads.Add(1)
	return nil
}

func (c *fakeConfig) Watch(ctx context.Context) error {
	c.watched.Store(true)
	if c.watch != nil {
		return c.watch
	}
	<-ctx.Done()
	return nil
}

func TestNewApp_RequiresDispatcher(t *testing.T) {
	_, err := NewApp(AppDeps{})
	require.ErrorIs(t, err, ErrMissingDispatcher)
}

func TestApp_StopsWhenConsoleEnds(t *testing.T) {
	runner := &fakeRunner{}
	console := &fakeConsole{release: make(chan struct{})}
	cfg := &fakeConfig{}

	app, err := NewApp(AppDeps{Logger: testLogger(), Dispatcher: runner, Console: console, Config: cfg})
	require.NoError(t, err)
	app.subscribe = func(os.Signal) (<-chan os.Signal, func()) { return make(chan os.Signal), func() {} }

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	require.Eventually(t, func() bool { return runner.runs.Load() == 1 && cfg.watched.Load() }, 2*time.Second, 10*time.Millisecond)
	close(console.release)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("app did not stop after console input ended")
	}
}

func TestApp_ReloadSignal(t *testing.T) {
	cfg := &fakeConfig{watch: errors.New("no inotify")}
	hup := make(chan os.Signal, 1)

	app, err := NewApp(AppDeps{Logger: testLogger(), Dispatcher: &fakeRunner{}, Config: cfg})
	require.NoError(t, err)
	app.subscribe = func(os.Signal) (<-chan os.Signal, func()) { return hup, func() {} }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	hup <- app.reloadSignal
	require.Eventually(t, func() bool { return cfg.reloads.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done, "watcher failures are not fatal")
}

func TestApp_RunsManager(t *testing.T) {
	mgr, err := NewManager(DefaultServerConfig("127.0.0.1:0"), Deps{Logger: testLogger(), APIHandler: okHandler()})
	require.NoError(t, err)

	app, err := NewApp(AppDeps{Logger: testLogger(), Dispatcher: &fakeRunner{}, Manager: mgr})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool { return mgr.Addr() != "" }, 2*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

func TestApp_RunsBackgroundRunners(t *testing.T) {
	bg := &fakeRunner{}
	app, err := NewApp(AppDeps{Logger: testLogger(), Dispatcher: &fakeRunner{}, Background: []Runner{bg}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool { return bg.runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}
