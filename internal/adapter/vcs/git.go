package vcs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/codemine/ruffminer/internal/domain"
	"github.com/codemine/ruffminer/internal/port"
)

// fallbackBranch is used when the checked-out branch cannot be determined
// (detached HEAD, unborn branch).
const fallbackBranch = "main"

// GitPort implements port.VersionControl using the git CLI through a
// CommandRunner.
type GitPort struct {
	runner port.CommandRunner
}

// NewGitPort creates a new git-backed version control adapter.
func NewGitPort(runner port.CommandRunner) *GitPort {
	return &GitPort{runner: runner}
}

// Materialize clones the full history of cloneURL into a fresh temporary
// directory. The directory is returned even when cloning fails so the caller
// can release the partial workspace.
func (g *GitPort) Materialize(ctx context.Context, cloneURL string) (string, error) {
	dir, err := os.MkdirTemp("", "repo_")
	if err != nil {
		return "", fmt.Errorf("create workspace: %v: %w", err, port.ErrCloneFailed)
	}

	if _, stderr, err := g.runner.Run(ctx, "", "git", "clone", cloneURL, dir); err != nil {
		return dir, fmt.Errorf("git clone %s: %v: %s: %w", cloneURL, err, firstLine(stderr), port.ErrCloneFailed)
	}
	return dir, nil
}

// ActiveBranch returns the checked-out branch of the workspace, falling back
// to "main" when git cannot name one.
func (g *GitPort) ActiveBranch(ctx context.Context, workspace string) string {
	stdout, _, err := g.runner.Run(ctx, workspace, "git", "rev-parse", "--abbrev-ref", "HEAD")
	branch := strings.TrimSpace(stdout)
	if err != nil || branch == "" || branch == "HEAD" {
		return fallbackBranch
	}
	return branch
}

// ListCommits returns the commits reachable from branch, most recent first,
// as emitted by git log.
func (g *GitPort) ListCommits(ctx context.Context, workspace, branch string) ([]domain.Commit, error) {
	stdout, _, err := g.runner.Run(ctx, workspace, "git", "log", branch, "--format=%H|%cI")
	if err != nil {
		return nil, fmt.Errorf("git log %s: %w", branch, err)
	}

	var commits []domain.Commit
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "|", 2)
		if len(parts) < 2 {
			continue
		}
		ts, perr := time.Parse(time.RFC3339, parts[1])
		if perr != nil {
			slog.Warn("skipping commit with unparsable date", "hash", parts[0], "error", perr)
			continue
		}
		commits = append(commits, domain.NewCommit(parts[0], branch, ts))
	}
	return commits, nil
}

// Checkout forcibly resets the workspace contents to the given commit.
func (g *GitPort) Checkout(ctx context.Context, workspace, fullHash string) error {
	if _, stderr, err := g.runner.Run(ctx, workspace, "git", "checkout", "--force", fullHash); err != nil {
		return fmt.Errorf("git checkout %s: %v: %s: %w", fullHash, err, firstLine(stderr), port.ErrCheckoutFailed)
	}
	return nil
}

// Release destroys the workspace directory.
func (g *GitPort) Release(workspace string) {
	if workspace == "" {
		return
	}
	if err := os.RemoveAll(workspace); err != nil {
		slog.Warn("failed to remove workspace", "workspace", workspace, "error", err)
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
