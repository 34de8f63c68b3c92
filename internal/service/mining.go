package service

import (
	"context"
	"log/slog"

	"github.com/codemine/ruffminer/internal/domain"
	"github.com/codemine/ruffminer/internal/port"
)

// Miner orchestrates the per-repository mining pipeline: materialize the
// workspace, walk every commit most-recent-first, collect violations at each
// one, and persist snapshots and records. Execution is strictly sequential —
// one repository at a time, one commit at a time.
type Miner struct {
	vcs       port.VersionControl
	collector port.ViolationCollector
	writer    port.ArtifactWriter
	index     port.IndexStore // optional, nil disables indexing
}

// NewMiner creates a mining pipeline. index may be nil.
func NewMiner(vcs port.VersionControl, collector port.ViolationCollector,
	writer port.ArtifactWriter, index port.IndexStore) *Miner {
	return &Miner{vcs: vcs, collector: collector, writer: writer, index: index}
}

// MineAll processes cloneURLs sequentially, up to limit repositories
// (limit <= 0 means all). A failed repository never stops the run.
func (m *Miner) MineAll(ctx context.Context, cloneURLs []string, limit int) {
	for i, url := range cloneURLs {
		if limit > 0 && i >= limit {
			break
		}
		m.Mine(ctx, url)
	}
}

// Mine processes one repository end to end. Failures are logged, never
// returned: a clone failure aborts this repository only, a checkout failure
// skips that commit only. The workspace is released on every exit path.
func (m *Miner) Mine(ctx context.Context, cloneURL string) {
	src, err := domain.ParseSource(cloneURL)
	if err != nil {
		slog.Error("skipping repository with invalid clone url", "url", cloneURL, "error", err)
		return
	}

	slog.Info("cloning repository", "url", cloneURL)
	workspace, err := m.vcs.Materialize(ctx, cloneURL)
	defer m.vcs.Release(workspace)
	if err != nil {
		slog.Error("clone failed", "url", cloneURL, "error", err)
		return
	}

	branch := m.vcs.ActiveBranch(ctx, workspace)
	commits, err := m.vcs.ListCommits(ctx, workspace, branch)
	if err != nil {
		slog.Error("failed to list commits", "url", cloneURL, "branch", branch, "error", err)
		return
	}
	slog.Info("commits enumerated", "count", len(commits), "branch", branch)

	run := m.createRun(ctx, src, branch, len(commits))

	total := 0
	for _, commit := range commits {
		if err := m.vcs.Checkout(ctx, workspace, commit.FullHash); err != nil {
			slog.Error("checkout failed, skipping commit", "commit", commit.ShortHash, "error", err)
			continue
		}

		slog.Info("analyzing commit", "commit", commit.ShortHash,
			"date", commit.CommittedDate.Format("2006-01-02"))

		violations := m.collector.Collect(ctx, workspace)
		if len(violations) == 0 {
			continue
		}

		written, records := m.writer.Persist(src, branch, commit, workspace, violations)
		total += written
		m.indexRecords(ctx, run, records)
	}

	slog.Info("repository processed", "url", cloneURL, "violations", total)
	m.finishRun(ctx, run, total)
}

func (m *Miner) createRun(ctx context.Context, src domain.RepositorySource, branch string, commitCount int) *domain.MiningRun {
	if m.index == nil {
		return nil
	}
	run, err := m.index.CreateRun(ctx, &domain.MiningRun{
		RepoURL:     src.CloneURL,
		Owner:       src.Owner,
		ProjectName: src.Name,
		Branch:      branch,
		CommitCount: commitCount,
		Status:      domain.RunStatusMining,
	})
	if err != nil {
		slog.Warn("failed to create run index entry", "url", src.CloneURL, "error", err)
		return nil
	}
	return run
}

func (m *Miner) indexRecords(ctx context.Context, run *domain.MiningRun, records []domain.ViolationRecord) {
	if m.index == nil || run == nil {
		return
	}
	for _, rec := range records {
		if err := m.index.SaveViolation(ctx, run.ID, rec); err != nil {
			slog.Warn("failed to index violation record", "commit", rec.CommitHash, "error", err)
		}
	}
}

func (m *Miner) finishRun(ctx context.Context, run *domain.MiningRun, total int) {
	if m.index == nil || run == nil {
		return
	}
	if err := m.index.FinishRun(ctx, run.ID, domain.RunStatusDone, total); err != nil {
		slog.Warn("failed to finish run index entry", "run_id", run.ID, "error", err)
	}
}
