// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ManuGH/demorec/internal/config"
)

func runConfigCLI(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printConfigUsage(stderr)
		return 0
	}

	switch args[0] {
	case "validate":
		return runConfigValidate(args[1:], stdout, stderr)
	case "show":
		return runConfigShow(args[1:], stdout, stderr)
	case "set":
		return runConfigSet(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Unknown subcommand: %s\n\n", args[0])
		printConfigUsage(stderr)
		return 2
	}
}

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  demorecd config validate [--file|-f demorec.yaml]")
	fmt.Fprintln(w, "  demorecd config show [--file|-f demorec.yaml] [--format=yaml|json]")
	fmt.Fprintln(w, "  demorecd config set --file|-f demorec.yaml <key> <value>")
}

func fileFlag(fs *flag.FlagSet) *string {
	var file string
	fs.StringVar(&file, "file", "", "path to YAML configuration file")
	fs.StringVar(&file, "f", "", "path to YAML configuration file (shorthand)")
	return &file
}

func resolveConfigPath(file string) string {
	if p := strings.TrimSpace(file); p != "" {
		return p
	}
	return strings.TrimSpace(config.ParseString(EnvConfigPath, ""))
}

func runConfigValidate(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("demorecd config validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fileFlag(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	configPath := resolveConfigPath(*file)
	if configPath == "" {
		fmt.Fprintf(stderr, "Error: --file is required (or set %s)\n", EnvConfigPath)
		return 2
	}

	if _, err := config.NewLoader(configPath).Load(); err != nil {
		fmt.Fprintf(stderr, "Configuration error in %s:\n  %v\n", configPath, err)
		return 1
	}

	fmt.Fprintf(stdout, "%s is valid\n", configPath)
	return 0
}

// runConfigShow dumps the effective configuration (defaults + file + env).
func runConfigShow(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("demorecd config show", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fileFlag(fs)
	var format string
	fs.StringVar(&format, "format", "yaml", "output format: yaml or json")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.NewLoader(resolveConfigPath(*file)).Load()
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error:\n  %v\n", err)
		return 1
	}
	fileCfg := config.ToFileConfig(cfg)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(fileCfg); err != nil {
			fmt.Fprintf(stderr, "Failed to encode YAML: %v\n", err)
			return 1
		}
		_ = enc.Close()
		return 0
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(fileCfg); err != nil {
			fmt.Fprintf(stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	default:
		fmt.Fprintf(stderr, "Unsupported format: %s (use yaml or json)\n", format)
		return 2
	}
}

func runConfigSet(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("demorecd config set", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fileFlag(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		printConfigUsage(stderr)
		return 2
	}
	key, value := fs.Arg(0), fs.Arg(1)

	configPath := resolveConfigPath(*file)
	if configPath == "" {
		fmt.Fprintf(stderr, "Error: --file is required (or set %s)\n", EnvConfigPath)
		return 2
	}

	if err := config.SetField(&config.FileConfig{}, key, value); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	err := config.Update(configPath, func(fc *config.FileConfig) {
		_ = config.SetField(fc, key, value)
	})
	if err != nil {
		fmt.Fprintf(stderr, "Failed to update %s: %v\n", configPath, err)
		return 1
	}

	if _, err := config.NewLoader(configPath).Load(); err != nil {
		fmt.Fprintf(stderr, "Warning: %s no longer validates:\n  %v\n", configPath, err)
		return 1
	}
	fmt.Fprintf(stdout, "%s set to %q in %s\n", key, value, configPath)
	return 0
}
