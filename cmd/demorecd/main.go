// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Command demorecd bridges a game host's console to the speedrun demo
// record session.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"

	"github.com/ManuGH/demorec/internal/config"
	xglog "github.com/ManuGH/demorec/internal/log"
	"github.com/ManuGH/demorec/internal/version"
)

// EnvConfigPath names the config file when -config is not given.
const EnvConfigPath = "DEMOREC_CONFIG"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "config":
			os.Exit(runConfigCLI(os.Args[2:], os.Stdout, os.Stderr))
		case "version":
			printVersion()
			os.Exit(0)
		}
	}

	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	noConsole := flag.Bool("no-console", false, "do not read host events from stdin (HTTP control only)")
	noColor := flag.Bool("no-color", false, "disable colored console messages")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	// Configure logger with safe defaults until config is loaded
	xglog.Configure(xglog.Config{
		Level:   config.DefaultLogLevel,
		Service: config.DefaultLogService,
		Version: version.Version,
	})
	logger := xglog.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := options{
		ConfigPath: strings.TrimSpace(*configPath),
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Console:    !*noConsole,
		Color:      !*noColor && !color.NoColor,
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = strings.TrimSpace(config.ParseString(EnvConfigPath, ""))
	}

	if err := run(ctx, opts); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "daemon.failed").
			Msg("demorecd failed")
	}
	logger.Info().Msg("demorecd exiting")
}

func printVersion() {
	fmt.Printf("%s (commit: %s, built: %s)\n", version.String(), version.Commit, version.Date)
}
