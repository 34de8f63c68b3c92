package port

import (
	"context"

	"github.com/codemine/ruffminer/internal/domain"
)

// IndexStore is the optional relational index over mining runs and persisted
// violation records. The filesystem dataset stays the source of truth; every
// store failure is logged and ignored by the pipeline.
type IndexStore interface {
	CreateRun(ctx context.Context, run *domain.MiningRun) (*domain.MiningRun, error)
	FinishRun(ctx context.Context, runID, status string, violations int) error
	SaveViolation(ctx context.Context, runID string, rec domain.ViolationRecord) error
	ListRuns(ctx context.Context, limit int) ([]domain.MiningRun, error)
	SearchViolations(ctx context.Context, query, project string, limit int) ([]domain.ViolationRecord, error)
}
