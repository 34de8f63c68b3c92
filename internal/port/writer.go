package port

import "github.com/codemine/ruffminer/internal/domain"

// ArtifactWriter persists the findings of one commit: one snapshot per
// distinct violating file plus one record per violation, under
// dataset/<project>/<short_hash>/. An empty violations slice must produce no
// filesystem writes at all. Returns the number of records written and the
// records themselves (for optional indexing).
type ArtifactWriter interface {
	Persist(src domain.RepositorySource, branch string, commit domain.Commit,
		workspace string, violations []domain.Violation) (int, []domain.ViolationRecord)
}
