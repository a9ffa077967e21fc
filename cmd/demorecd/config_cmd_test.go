// SPDX-License-Identifier: MIT
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCLI(t *testing.T) {
	clearEnv(t)
	p := filepath.Join(t.TempDir(), "demorec.yaml")

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{name: "help", args: nil, wantCode: 0, wantStderr: "Usage:"},
		{name: "unknown subcommand", args: []string{"dump"}, wantCode: 2, wantStderr: "Unknown subcommand: dump"},
		{name: "validate needs file", args: []string{"validate"}, wantCode: 2, wantStderr: "--file is required"},
		{name: "set map", args: []string{"set", "-f", p, "mapTarget", "d1_trainstation_01"}, wantCode: 0, wantStdout: `mapTarget set to "d1_trainstation_01"`},
		{name: "set unknown key", args: []string{"set", "-f", p, "speedrunDir", "runs"}, wantCode: 2, wantStderr: "unknown config field"},
		{name: "set missing value", args: []string{"set", "-f", p, "mapTarget"}, wantCode: 2, wantStderr: "Usage:"},
		{name: "validate ok", args: []string{"validate", "--file", p}, wantCode: 0, wantStdout: "is valid"},
		{name: "show yaml", args: []string{"show", "-f", p}, wantCode: 0, wantStdout: "mapTarget: d1_trainstation_01"},
		{name: "show json", args: []string{"show", "-f", p, "--format=json"}, wantCode: 0, wantStdout: `"MapTarget": "d1_trainstation_01"`},
		{name: "show bad format", args: []string{"show", "-f", p, "--format=toml"}, wantCode: 2, wantStderr: "Unsupported format"},
		{name: "set escaping dir", args: []string{"set", "-f", p, "baseDirectory", "../out"}, wantCode: 1, wantStderr: "no longer validates"},
		{name: "validate broken", args: []string{"validate", "-f", p}, wantCode: 1, wantStderr: "Configuration error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := runConfigCLI(tt.args, &stdout, &stderr)
			assert.Equal(t, tt.wantCode, code, "stderr: %s", stderr.String())
			if tt.wantStdout != "" {
				assert.Contains(t, stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr != "" {
				assert.Contains(t, stderr.String(), tt.wantStderr)
			}
		})
	}

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), "mapTarget: d1_trainstation_01")
}
