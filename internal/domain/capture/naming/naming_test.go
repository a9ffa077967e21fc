package naming

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/demorec/internal/domain/capture/ports"
)

type listing struct {
	ports.Filesystem
	entries map[string][]string
	err     error
}

func (l listing) CountEntriesWithPrefix(directory, prefix string) (int, error) {
	if l.err != nil {
		return 0, l.err
	}
	n := 0
	for _, name := range l.entries[directory] {
		if strings.HasPrefix(name, prefix) {
			n++
		}
	}
	return n, nil
}

func TestCountExisting(t *testing.T) {
	fsys := listing{entries: map[string][]string{
		"run": {"map1.dem", "map1_1.dem", "map1_2.dem", "map2.dem", "map10.dem"},
	}}

	tests := []struct {
		name  string
		dir   string
		mapID string
		want  int
	}{
		{name: "prefix includes longer map names", dir: "run", mapID: "map1", want: 4},
		{name: "single match", dir: "run", mapID: "map2", want: 1},
		{name: "no match", dir: "run", mapID: "d1_canals", want: 0},
		{name: "empty directory", dir: "other", mapID: "map1", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CountExisting(fsys, tt.dir, tt.mapID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountExistingWrapsError(t *testing.T) {
	boom := errors.New("boom")
	_, err := CountExisting(listing{err: boom}, "run", "map1")
	require.ErrorIs(t, err, boom)
}

func TestArtifactName(t *testing.T) {
	assert.Equal(t, "map1", ArtifactName("map1", 0))
	assert.Equal(t, "map1_1", ArtifactName("map1", 1))
	assert.Equal(t, "map1_12", ArtifactName("map1", 12))
	assert.Equal(t, "map1", ArtifactName("map1", -1))
}
