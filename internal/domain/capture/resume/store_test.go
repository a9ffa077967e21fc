package resume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/demorec/internal/domain/capture/testkit"
)

const markerPath = "speedrun_democrecord_resume_info.txt"

func TestStore_WriteReadRoundTrip(t *testing.T) {
	fs := testkit.NewMemFS()
	s := NewStore(fs)

	require.NoError(t, s.Write(markerPath, "runs/2026.10.18-12.00.00"))

	got, err := s.Read(markerPath)
	require.NoError(t, err)
	assert.Equal(t, "runs/2026.10.18-12.00.00", got)
}

func TestStore_WriteOverwrites(t *testing.T) {
	fs := testkit.NewMemFS()
	s := NewStore(fs)

	require.NoError(t, s.Write(markerPath, "first-long-directory"))
	require.NoError(t, s.Write(markerPath, "second"))

	got, err := s.Read(markerPath)
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestStore_ReadAbsent(t *testing.T) {
	s := NewStore(testkit.NewMemFS())

	_, err := s.Read(markerPath)
	require.ErrorIs(t, err, ErrNoMarker)
}

func TestStore_ReadUnreadableAndEmpty(t *testing.T) {
	fs := testkit.NewMemFS()
	s := NewStore(fs)

	fs.Put(markerPath, "  \n")
	_, err := s.Read(markerPath)
	require.ErrorIs(t, err, ErrNoMarker)

	fs.Put(markerPath, "runs/x")
	fs.FailReads = true
	_, err = s.Read(markerPath)
	require.ErrorIs(t, err, ErrNoMarker)
}

func TestStore_ReadTakesFirstLine(t *testing.T) {
	fs := testkit.NewMemFS()
	fs.Put(markerPath, "runs/a\r\nleftover\r\n")

	got, err := NewStore(fs).Read(markerPath)
	require.NoError(t, err)
	assert.Equal(t, "runs/a", got)
}

func TestStore_Delete(t *testing.T) {
	fs := testkit.NewMemFS()
	s := NewStore(fs)

	require.NoError(t, s.Delete(markerPath), "deleting a missing marker is fine")

	require.NoError(t, s.Write(markerPath, "runs/a"))
	require.NoError(t, s.Delete(markerPath))
	_, ok := fs.Content(markerPath)
	assert.False(t, ok)

	require.NoError(t, s.Write(markerPath, "runs/a"))
	fs.FailRemoves = true
	require.ErrorIs(t, s.Delete(markerPath), testkit.ErrInjectedRemove)
}

func TestStore_WriteFailure(t *testing.T) {
	fs := testkit.NewMemFS()
	fs.FailWrites = true

	err := NewStore(fs).Write(markerPath, "runs/a")
	require.ErrorIs(t, err, testkit.ErrInjectedWrite)
}
