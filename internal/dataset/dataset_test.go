package dataset

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncuphq/syncup-analytics/internal/simulate"
)

func writeTestData(t *testing.T, seed int64) (string, simulate.Dataset) {
	t.Helper()
	dir := t.TempDir()

	cfg := simulate.DefaultConfig()
	cfg.NumUsers = 200
	data := simulate.Run(rand.New(rand.NewSource(seed)), cfg)

	require.NoError(t, WriteUsers(dir, data.Users))
	require.NoError(t, WriteEvents(dir, data.Events))
	return dir, data
}

func TestRoundTrip(t *testing.T) {
	dir, data := writeTestData(t, 42)

	users, err := ReadUsers(dir)
	require.NoError(t, err)
	require.Equal(t, data.Users, users)

	events, err := ReadEvents(dir)
	require.NoError(t, err)
	require.Equal(t, data.Events, events)
}

func TestSameSeedSameBytes(t *testing.T) {
	dirA, _ := writeTestData(t, 42)
	dirB, _ := writeTestData(t, 42)

	for _, name := range []string{UsersFile, EventsFile} {
		a, err := os.ReadFile(filepath.Join(dirA, name))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(dirB, name))
		require.NoError(t, err)
		assert.Equal(t, a, b, "%s must be byte-identical for the same seed", name)
	}
}

func TestCheck_MissingFiles(t *testing.T) {
	dir := t.TempDir()

	err := Check(dir)
	require.ErrorIs(t, err, ErrMissingData)
	assert.Contains(t, err.Error(), "syncup generate", "error must tell the operator how to fix it")
}

func TestCheck_Present(t *testing.T) {
	dir, _ := writeTestData(t, 1)
	require.NoError(t, Check(dir))
}

func TestReadUsers_Missing(t *testing.T) {
	_, err := ReadUsers(t.TempDir())
	require.ErrorIs(t, err, ErrMissingData)
}

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()

	m := NewManifest(42, 200, 900, "2024-01-01", "2024-02-29")
	require.NotEmpty(t, m.RunID)
	require.NoError(t, WriteManifest(dir, m))

	got, err := ReadManifest(dir)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, m.RunID, got.RunID)
	assert.Equal(t, int64(42), got.Seed)
	assert.Equal(t, 200, got.NumUsers)
	assert.Equal(t, 900, got.NumEvents)
}

func TestReadManifest_AbsentIsNotAnError(t *testing.T) {
	got, err := ReadManifest(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, got)
}
