// Package publish commits and pushes refreshed dataset files to the data
// repository. Both pipelines share it; the only dependency is the git
// binary on PATH, invoked the same way the Actions runner invokes it.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	pipeerrors "bcbdata/internal/errors"
)

// Options configures the publisher for one data repository.
type Options struct {
	// Dir is the repository root every git command runs in.
	Dir string

	Remote      string
	Branch      string
	AuthorName  string
	AuthorEmail string

	// LFSLimitMB is the file size above which a published file is tracked
	// with git-lfs before being added. Zero disables LFS tracking.
	LFSLimitMB int
}

// commandFunc runs one git invocation in dir and returns its output
// streams. Swapped out in tests.
type commandFunc func(ctx context.Context, dir string, args ...string) (stdout, stderr string, err error)

// Publisher stages, commits and pushes dataset files.
type Publisher struct {
	opts Options
	run  commandFunc
}

// NewPublisher returns a publisher for the repository at opts.Dir.
func NewPublisher(opts Options) *Publisher {
	return &Publisher{opts: opts, run: runGit}
}

func runGit(ctx context.Context, dir string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// remoteSlugPattern extracts "owner/repo" from both HTTPS and SSH GitHub
// remote URLs, with or without the .git suffix.
var remoteSlugPattern = regexp.MustCompile(`github\.com[:/](.+?)(?:\.git)?$`)

// Publish stages the given paths, commits them with message and pushes the
// configured branch. A clean working tree is not an error: the run simply
// produced identical data.
func (p *Publisher) Publish(ctx context.Context, message string, paths ...string) error {
	logger := slog.Default().With(slog.String("component", "publish"))

	if err := p.configureIdentity(ctx); err != nil {
		return pipeerrors.Publish("configure identity", err)
	}
	p.trackLargeFiles(ctx, logger, paths)

	staged := 0
	for _, path := range paths {
		rel := p.repoPath(path)
		if _, err := os.Stat(path); err != nil {
			logger.Debug("Skipping missing path", slog.String("path", rel))
			continue
		}
		if _, _, err := p.run(ctx, p.opts.Dir, "add", rel); err != nil {
			return pipeerrors.Publish("git add", fmt.Errorf("add %s: %w", rel, err))
		}
		staged++
	}
	if staged == 0 {
		logger.Info("No publishable files found, skipping commit")
		return nil
	}

	status, _, err := p.run(ctx, p.opts.Dir, "status", "--porcelain")
	if err != nil {
		return pipeerrors.Publish("git status", err)
	}
	if strings.TrimSpace(status) == "" {
		logger.Info("Nothing to commit, data unchanged")
		return nil
	}

	stdout, stderr, err := p.run(ctx, p.opts.Dir, "commit", "-m", message)
	if err != nil {
		// Concurrent runs can drain the tree between status and commit.
		if strings.Contains(stdout+stderr, "nothing to commit") {
			logger.Info("Nothing to commit, data unchanged")
			return nil
		}
		return pipeerrors.Publish("git commit",
			fmt.Errorf("%w, output: %s", err, strings.TrimSpace(stdout+stderr)))
	}
	logger.Info("Committed dataset update",
		slog.String("message", message),
		slog.Int("paths", staged))

	if _, stderr, err = p.run(ctx, p.opts.Dir, "push", p.opts.Remote, p.opts.Branch); err != nil {
		return pipeerrors.Publish("git push",
			fmt.Errorf("%w, output: %s", err, strings.TrimSpace(stderr)))
	}
	logger.Info("Pushed to remote",
		slog.String("remote", p.opts.Remote),
		slog.String("branch", p.opts.Branch))
	return nil
}

// RemoteSlug reads the configured remote URL and returns its "owner/repo"
// slug. Callers fall back to the default slug when the remote is absent,
// which happens in fresh clones and tests.
func (p *Publisher) RemoteSlug(ctx context.Context) (string, error) {
	stdout, _, err := p.run(ctx, p.opts.Dir, "remote", "get-url", p.opts.Remote)
	if err != nil {
		return "", fmt.Errorf("read remote %s url: %w", p.opts.Remote, err)
	}
	url := strings.TrimSpace(stdout)
	match := remoteSlugPattern.FindStringSubmatch(url)
	if match == nil {
		return "", fmt.Errorf("remote url %q is not a GitHub url", url)
	}
	return match[1], nil
}

// configureIdentity sets the commit author for this repository. Actions
// checkouts have no identity of their own.
func (p *Publisher) configureIdentity(ctx context.Context) error {
	if p.opts.AuthorName != "" {
		if _, _, err := p.run(ctx, p.opts.Dir, "config", "user.name", p.opts.AuthorName); err != nil {
			return fmt.Errorf("set user.name: %w", err)
		}
	}
	if p.opts.AuthorEmail != "" {
		if _, _, err := p.run(ctx, p.opts.Dir, "config", "user.email", p.opts.AuthorEmail); err != nil {
			return fmt.Errorf("set user.email: %w", err)
		}
	}
	return nil
}

// trackLargeFiles puts any path over the LFS limit under git-lfs before it
// is staged. GitHub rejects regular pushes of files above 100 MB, so the
// consolidated extracts go through LFS well before that. Best effort: a
// runner without git-lfs still publishes, it just pushes the plain file.
func (p *Publisher) trackLargeFiles(ctx context.Context, logger *slog.Logger, paths []string) {
	if p.opts.LFSLimitMB <= 0 {
		return
	}
	limit := int64(p.opts.LFSLimitMB) * 1024 * 1024

	installed := false
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() || info.Size() <= limit {
			continue
		}
		if !installed {
			if _, stderr, err := p.run(ctx, p.opts.Dir, "lfs", "install"); err != nil {
				logger.Warn("git-lfs unavailable, large files push unmodified",
					slog.String("error", strings.TrimSpace(stderr)))
				return
			}
			installed = true
		}
		rel := p.repoPath(path)
		if _, stderr, err := p.run(ctx, p.opts.Dir, "lfs", "track", rel); err != nil {
			logger.Warn("git-lfs track failed",
				slog.String("path", rel),
				slog.String("error", strings.TrimSpace(stderr)))
			continue
		}
		if _, _, err := p.run(ctx, p.opts.Dir, "add", ".gitattributes"); err != nil {
			logger.Warn("stage .gitattributes failed", slog.String("path", rel))
			continue
		}
		logger.Info("Tracking large file with git-lfs",
			slog.String("path", rel),
			slog.Int64("size_mb", info.Size()/(1024*1024)))
	}
}

// repoPath converts an absolute path into the repository-relative,
// slash-separated form git expects.
func (p *Publisher) repoPath(path string) string {
	rel, err := filepath.Rel(p.opts.Dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
