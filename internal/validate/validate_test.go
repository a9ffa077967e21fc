// SPDX-License-Identifier: MIT

package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelativePath(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{"./", true},
		{"runs", true},
		{"runs/any%", true},
		{"runs/../other", true},
		{"", false},
		{"/var/demos", false},
		{"C:/demos", false},
		{`runs\demos`, false},
		{"../outside", false},
		{"..", false},
	}
	for _, tt := range tests {
		v := New()
		v.RelativePath("baseDirectory", tt.value)
		assert.Equal(t, tt.ok, v.IsValid(), "value %q", tt.value)
	}
}

func TestFileNameAndListenAddr(t *testing.T) {
	v := New()
	v.FileName("resumeFile", "speedrun_democrecord_resume_info.txt")
	v.ListenAddr("listenAddr", "")
	v.ListenAddr("listenAddr", "127.0.0.1:8787")
	v.ListenAddr("listenAddr", ":0")
	require.True(t, v.IsValid())

	v.FileName("bookmarksFile", "dir/file.txt")
	v.ListenAddr("listenAddr", "localhost")
	v.ListenAddr("listenAddr", "localhost:99999")
	assert.Len(t, v.Errors(), 3)
}

func TestErrAggregates(t *testing.T) {
	v := New()
	require.NoError(t, v.Err())

	v.NotEmpty("a", " ")
	v.OneOf("logLevel", "loud", []string{"debug", "info"})

	err := v.Err()
	require.Error(t, err)
	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Errors(), 2)
	assert.Contains(t, err.Error(), "validation failed for a: cannot be empty; ")
	assert.Contains(t, err.Error(), "logLevel")
}
