package domain

import "time"

// ShortHashLen is the number of leading hex characters used as the commit
// directory key in the dataset layout.
const ShortHashLen = 7

// Commit is one entry of a repository's history, enumerated once per
// repository in git's native most-recent-first order.
type Commit struct {
	FullHash      string    `json:"full_hash"`
	ShortHash     string    `json:"short_hash"`
	CommittedDate time.Time `json:"committed_date"`
	Branch        string    `json:"branch"`
}

// NewCommit builds a Commit from a full 40-character hash.
func NewCommit(fullHash, branch string, committed time.Time) Commit {
	short := fullHash
	if len(short) > ShortHashLen {
		short = short[:ShortHashLen]
	}
	return Commit{
		FullHash:      fullHash,
		ShortHash:     short,
		CommittedDate: committed,
		Branch:        branch,
	}
}
