package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "artifact.json")

	in := map[string][]float64{"a": {1, 2.5}, "b": {3}}
	require.NoError(t, WriteJSONAtomic(path, in))

	var out map[string][]float64
	require.NoError(t, ReadJSON(path, &out))
	assert.Equal(t, in, out)
}

func TestWriteOverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifact.json")

	require.NoError(t, WriteJSONAtomic(path, []string{"old"}))
	require.NoError(t, WriteJSONAtomic(path, []string{"new"}))

	var out []string
	require.NoError(t, ReadJSON(path, &out))
	assert.Equal(t, []string{"new"}, out)
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteJSONAtomic(filepath.Join(dir, "artifact.json"), 42))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "artifact.json", entries[0].Name())
}

func TestReadMissingFile(t *testing.T) {
	var out int
	assert.Error(t, ReadJSON(filepath.Join(t.TempDir(), "missing.json"), &out))
}

func TestReadMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	var out map[string]string
	assert.Error(t, ReadJSON(path, &out))
}
