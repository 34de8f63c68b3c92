package port

import (
	"context"

	"github.com/codemine/ruffminer/internal/domain"
)

// ViolationCollector runs the static analyzer against the current workspace
// state and returns its findings. Collect never fails: a timed-out analyzer,
// empty output, or output that does not parse all degrade to an empty slice.
type ViolationCollector interface {
	Collect(ctx context.Context, workspace string) []domain.Violation
}
