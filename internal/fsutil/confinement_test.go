// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfineRelPath(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "runs"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "safe.txt"), []byte("safe"), 0o600))
	require.NoError(t, os.Symlink("..", filepath.Join(root, "link_outside")))
	require.NoError(t, os.Symlink("runs", filepath.Join(root, "link_inside")))

	realRoot, err := ResolveRoot(root)
	require.NoError(t, err)

	tests := []struct {
		name    string
		target  string
		wantErr error
		want    string
	}{
		{name: "existing file", target: "safe.txt", want: "safe.txt"},
		{name: "missing file in existing dir", target: "runs/map1.dem", want: "runs/map1.dem"},
		{name: "missing nested dirs", target: "runs/2026.10.18-14.03.09/map1.dem", want: "runs/2026.10.18-14.03.09/map1.dem"},
		{name: "root itself", target: ".", want: "."},
		{name: "dot dot", target: "../outside.txt", wantErr: ErrEscapesRoot},
		{name: "absolute", target: "/etc/passwd", wantErr: ErrAbsolutePath},
		{name: "backslash", target: `runs\..\..\x`, wantErr: ErrBackslash},
		{name: "symlink out", target: "link_outside/x.txt", wantErr: ErrEscapesRoot},
		{name: "symlink in", target: "link_inside/map1.dem", want: "runs/map1.dem"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConfineRelPath(root, tt.target)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(realRoot, filepath.FromSlash(tt.want)), got)
		})
	}
}
