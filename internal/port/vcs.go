package port

import (
	"context"

	"github.com/codemine/ruffminer/internal/domain"
)

// VersionControl abstracts the version control operations the mining
// pipeline needs: materialize a repository into an ephemeral workspace, walk
// its history, and reset the workspace to arbitrary commits.
type VersionControl interface {
	// Materialize clones the full history into a fresh ephemeral directory
	// and returns its path. On failure the error wraps ErrCloneFailed; the
	// returned path (if non-empty) still must be released by the caller.
	Materialize(ctx context.Context, cloneURL string) (string, error)

	// ActiveBranch returns the checked-out branch name, or "main" when it
	// cannot be determined.
	ActiveBranch(ctx context.Context, workspace string) string

	// ListCommits returns the commits reachable from branch, most recent
	// first.
	ListCommits(ctx context.Context, workspace, branch string) ([]domain.Commit, error)

	// Checkout forcibly resets the workspace to the given commit. On failure
	// the error wraps ErrCheckoutFailed.
	Checkout(ctx context.Context, workspace, fullHash string) error

	// Release destroys the workspace. Safe to call with an empty path.
	Release(workspace string)
}
