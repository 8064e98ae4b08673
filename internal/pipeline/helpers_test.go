package pipeline

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"bcbdata/internal/config"
)

// newWorkspace builds a default configuration over a throwaway workspace.
func newWorkspace(t *testing.T) (*config.Config, *config.Paths) {
	t.Helper()
	cfg := config.Default()
	paths := config.NewPaths(t.TempDir())
	require.NoError(t, paths.EnsureDirectories())
	return cfg, paths
}

// zipBytes builds an in-memory archive with a single entry.
func zipBytes(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = w.Write(content)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
