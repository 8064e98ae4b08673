package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerWriteRead(t *testing.T) {
	base := t.TempDir()
	m := NewManager(base)

	// Relative paths land under the base; parents are created.
	require.NoError(t, m.WriteFile(filepath.Join("_temp", "202001.zip"), []byte("payload")))

	full := filepath.Join(base, "_temp", "202001.zip")
	assert.True(t, m.FileExists(full))
	assert.True(t, m.FileExists(filepath.Join("_temp", "202001.zip")))

	data, err := m.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	size, err := m.GetFileSize(full)
	require.NoError(t, err)
	assert.Equal(t, int64(7), size)
}

func TestManagerDeleteFile(t *testing.T) {
	base := t.TempDir()
	m := NewManager(base)

	path := filepath.Join(base, "stale.csv")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	require.NoError(t, m.DeleteFile(path))
	assert.False(t, m.FileExists(path))

	// Deleting again is not an error.
	assert.NoError(t, m.DeleteFile(path))
}

func TestManagerEnsureDirectory(t *testing.T) {
	base := t.TempDir()
	m := NewManager(base)

	require.NoError(t, m.EnsureDirectory("_brutos"))

	info, err := os.Stat(filepath.Join(base, "_brutos"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.NoError(t, m.EnsureDirectory("_brutos"), "idempotent")
}
