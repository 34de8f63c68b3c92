package port

import "context"

// RepositoryDiscovery finds candidate repositories to mine. A failed search
// or an invalid token is fatal to the whole run, never retried.
type RepositoryDiscovery interface {
	// ValidateToken checks the configured credential and returns the
	// authenticated login. Errors wrap ErrTokenInvalid.
	ValidateToken(ctx context.Context) (string, error)

	// SearchRepositories returns clone URLs matching the query across up to
	// maxPages result pages. Errors wrap ErrDiscoveryFailed.
	SearchRepositories(ctx context.Context, query string, maxPages int) ([]string, error)
}
