package mmfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapIsPrivateAndWritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.kv")
	want := []byte(`"a" "b"`)
	require.NoError(t, os.WriteFile(path, want, 0o644))

	data, cleanup, err := Map(path)
	require.NoError(t, err)
	require.Equal(t, want, data)

	data[0] = 'X'
	require.NoError(t, cleanup())
	require.NoError(t, cleanup(), "second cleanup is a no-op")

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, want, onDisk, "writes to the mapping must not reach the file")
}

func TestMapZeroLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.kv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	data, cleanup, err := Map(path)
	require.NoError(t, err)
	require.Empty(t, data)
	require.NotNil(t, cleanup)
	require.NoError(t, cleanup())
}

func TestMapMissingFile(t *testing.T) {
	_, _, err := Map(filepath.Join(t.TempDir(), "missing.kv"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
