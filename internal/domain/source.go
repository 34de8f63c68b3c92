package domain

import (
	"fmt"
	"strings"
)

// RepositorySource identifies one repository to mine. It is derived once from
// the clone URL and never changes for the lifetime of a pipeline run.
type RepositorySource struct {
	CloneURL string `json:"clone_url"`
	Owner    string `json:"owner"`
	Name     string `json:"name"`
}

// ParseSource derives owner and project name from a clone URL such as
// https://github.com/owner/name.git.
func ParseSource(cloneURL string) (RepositorySource, error) {
	trimmed := strings.TrimSuffix(strings.TrimRight(cloneURL, "/"), ".git")
	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 || parts[len(parts)-1] == "" || parts[len(parts)-2] == "" {
		return RepositorySource{}, fmt.Errorf("parse clone url %q: missing owner or name", cloneURL)
	}
	return RepositorySource{
		CloneURL: cloneURL,
		Owner:    parts[len(parts)-2],
		Name:     parts[len(parts)-1],
	}, nil
}
