package publish

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pipeerrors "bcbdata/internal/errors"
)

func testOptions(dir string) Options {
	return Options{
		Dir:         dir,
		Remote:      "origin",
		Branch:      "main",
		AuthorName:  "Mazoir",
		AuthorEmail: "mazoir@users.noreply.github.com",
		LFSLimitMB:  50,
	}
}

func writeRepoFile(t *testing.T, dir string, rel string, size int) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), size), 0644))
	return path
}

func TestPublishCommitsAndPushes(t *testing.T) {
	dir := t.TempDir()
	csv := writeRepoFile(t, dir, "dados/bcb/estban/estban.csv", 64)
	readme := writeRepoFile(t, dir, "README.md", 32)

	var calls [][]string
	p := NewPublisher(testOptions(dir))
	p.run = func(ctx context.Context, cmdDir string, args ...string) (string, string, error) {
		assert.Equal(t, dir, cmdDir)
		calls = append(calls, args)
		if args[0] == "status" {
			return " M dados/bcb/estban/estban.csv\n", "", nil
		}
		return "", "", nil
	}

	err := p.Publish(context.Background(), "atualização 25/08/2026", csv, readme)
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"config", "user.name", "Mazoir"},
		{"config", "user.email", "mazoir@users.noreply.github.com"},
		{"add", "dados/bcb/estban/estban.csv"},
		{"add", "README.md"},
		{"status", "--porcelain"},
		{"commit", "-m", "atualização 25/08/2026"},
		{"push", "origin", "main"},
	}, calls)
}

func TestPublishNothingToCommit(t *testing.T) {
	dir := t.TempDir()
	csv := writeRepoFile(t, dir, "dados/bcb/estban/estban.csv", 64)

	var calls [][]string
	p := NewPublisher(testOptions(dir))
	p.run = func(ctx context.Context, cmdDir string, args ...string) (string, string, error) {
		calls = append(calls, args)
		if args[0] == "status" {
			return "\n", "", nil
		}
		return "", "", nil
	}

	require.NoError(t, p.Publish(context.Background(), "msg", csv))

	for _, call := range calls {
		assert.NotEqual(t, "commit", call[0], "clean tree must not be committed")
		assert.NotEqual(t, "push", call[0], "clean tree must not be pushed")
	}
}

func TestPublishCommitReportsNothingToCommit(t *testing.T) {
	dir := t.TempDir()
	csv := writeRepoFile(t, dir, "data.csv", 16)

	pushed := false
	p := NewPublisher(testOptions(dir))
	p.run = func(ctx context.Context, cmdDir string, args ...string) (string, string, error) {
		switch args[0] {
		case "status":
			return " M data.csv\n", "", nil
		case "commit":
			return "nothing to commit, working tree clean\n", "", errors.New("exit status 1")
		case "push":
			pushed = true
		}
		return "", "", nil
	}

	require.NoError(t, p.Publish(context.Background(), "msg", csv))
	assert.False(t, pushed)
}

func TestPublishPushFailure(t *testing.T) {
	dir := t.TempDir()
	csv := writeRepoFile(t, dir, "data.csv", 16)

	p := NewPublisher(testOptions(dir))
	p.run = func(ctx context.Context, cmdDir string, args ...string) (string, string, error) {
		switch args[0] {
		case "status":
			return " M data.csv\n", "", nil
		case "push":
			return "", "remote: permission denied\n", errors.New("exit status 128")
		}
		return "", "", nil
	}

	err := p.Publish(context.Background(), "msg", csv)
	require.Error(t, err)

	var perr *pipeerrors.PipelineError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, pipeerrors.CategoryPublish, perr.Category)
	assert.Equal(t, "git push", perr.Op)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestPublishSkipsMissingPaths(t *testing.T) {
	dir := t.TempDir()

	var calls [][]string
	p := NewPublisher(testOptions(dir))
	p.run = func(ctx context.Context, cmdDir string, args ...string) (string, string, error) {
		calls = append(calls, args)
		return "", "", nil
	}

	err := p.Publish(context.Background(), "msg", filepath.Join(dir, "missing.csv"))
	require.NoError(t, err)

	for _, call := range calls {
		assert.NotEqual(t, "add", call[0])
		assert.NotEqual(t, "commit", call[0])
	}
}

func TestPublishTracksLargeFilesWithLFS(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(dir)
	opts.LFSLimitMB = 1
	big := writeRepoFile(t, dir, "dados/bcb/estban/estban.csv.gz", 2*1024*1024)
	small := writeRepoFile(t, dir, "README.md", 32)

	var calls [][]string
	p := NewPublisher(opts)
	p.run = func(ctx context.Context, cmdDir string, args ...string) (string, string, error) {
		calls = append(calls, args)
		if args[0] == "status" {
			return " M dados\n", "", nil
		}
		return "", "", nil
	}

	require.NoError(t, p.Publish(context.Background(), "msg", big, small))

	assert.Contains(t, calls, []string{"lfs", "install"})
	assert.Contains(t, calls, []string{"lfs", "track", "dados/bcb/estban/estban.csv.gz"})
	assert.Contains(t, calls, []string{"add", ".gitattributes"})

	// Small files stay out of LFS.
	assert.NotContains(t, calls, []string{"lfs", "track", "README.md"})
}

func TestPublishSurvivesMissingLFS(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(dir)
	opts.LFSLimitMB = 1
	big := writeRepoFile(t, dir, "dados/bcb/estban/estban.csv", 2*1024*1024)

	committed := false
	p := NewPublisher(opts)
	p.run = func(ctx context.Context, cmdDir string, args ...string) (string, string, error) {
		switch args[0] {
		case "lfs":
			return "", "git: 'lfs' is not a git command\n", errors.New("exit status 1")
		case "status":
			return " M dados\n", "", nil
		case "commit":
			committed = true
		}
		return "", "", nil
	}

	require.NoError(t, p.Publish(context.Background(), "msg", big),
		"a runner without git-lfs still publishes")
	assert.True(t, committed)
}

func TestRemoteSlug(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{name: "https with suffix", url: "https://github.com/mazoir/dados_publicos.git\n", want: "mazoir/dados_publicos"},
		{name: "https without suffix", url: "https://github.com/mazoir/dados_publicos\n", want: "mazoir/dados_publicos"},
		{name: "ssh", url: "git@github.com:mazoir/dados_publicos.git\n", want: "mazoir/dados_publicos"},
		{name: "not github", url: "https://gitlab.com/x/y.git\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPublisher(testOptions(t.TempDir()))
			p.run = func(ctx context.Context, dir string, args ...string) (string, string, error) {
				assert.Equal(t, []string{"remote", "get-url", "origin"}, args)
				return tt.url, "", nil
			}

			slug, err := p.RemoteSlug(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, slug)
		})
	}
}

func TestRemoteSlugCommandError(t *testing.T) {
	p := NewPublisher(testOptions(t.TempDir()))
	p.run = func(ctx context.Context, dir string, args ...string) (string, string, error) {
		return "", "fatal: no such remote\n", errors.New("exit status 2")
	}

	_, err := p.RemoteSlug(context.Background())
	assert.Error(t, err)
}
