package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/codemine/ruffminer/internal/domain"
	"github.com/codemine/ruffminer/internal/port"
)

type fakeVCS struct {
	cloneErr     error
	branch       string
	commits      []domain.Commit
	checkoutErrs map[string]error

	materialized int
	released     []string
	checkouts    []string
}

func (f *fakeVCS) Materialize(_ context.Context, cloneURL string) (string, error) {
	f.materialized++
	if f.cloneErr != nil {
		return "/tmp/partial-ws", f.cloneErr
	}
	return "/tmp/ws", nil
}

func (f *fakeVCS) ActiveBranch(_ context.Context, workspace string) string {
	if f.branch == "" {
		return "main"
	}
	return f.branch
}

func (f *fakeVCS) ListCommits(_ context.Context, workspace, branch string) ([]domain.Commit, error) {
	return f.commits, nil
}

func (f *fakeVCS) Checkout(_ context.Context, workspace, fullHash string) error {
	f.checkouts = append(f.checkouts, fullHash)
	if err, ok := f.checkoutErrs[fullHash]; ok {
		return err
	}
	return nil
}

func (f *fakeVCS) Release(workspace string) {
	f.released = append(f.released, workspace)
}

type fakeCollector struct {
	byWorkspaceCall [][]domain.Violation
	calls           int
}

func (f *fakeCollector) Collect(_ context.Context, workspace string) []domain.Violation {
	f.calls++
	if len(f.byWorkspaceCall) == 0 {
		return nil
	}
	v := f.byWorkspaceCall[0]
	f.byWorkspaceCall = f.byWorkspaceCall[1:]
	return v
}

type persistCall struct {
	commit     domain.Commit
	violations []domain.Violation
}

type fakeWriter struct {
	calls []persistCall
}

func (f *fakeWriter) Persist(src domain.RepositorySource, branch string, commit domain.Commit,
	workspace string, violations []domain.Violation) (int, []domain.ViolationRecord) {
	f.calls = append(f.calls, persistCall{commit: commit, violations: violations})
	records := make([]domain.ViolationRecord, len(violations))
	for i, v := range violations {
		records[i] = domain.ViolationRecord{
			ProjectName: src.Name,
			CommitHash:  commit.ShortHash,
			LinterCode:  v.Code,
			Line:        v.Line,
		}
	}
	return len(violations), records
}

type fakeIndex struct {
	runs     []*domain.MiningRun
	finished map[string]int
	saved    []domain.ViolationRecord
}

func (f *fakeIndex) CreateRun(_ context.Context, run *domain.MiningRun) (*domain.MiningRun, error) {
	run.ID = fmt.Sprintf("run-%d", len(f.runs)+1)
	f.runs = append(f.runs, run)
	return run, nil
}

func (f *fakeIndex) FinishRun(_ context.Context, runID, status string, violations int) error {
	if f.finished == nil {
		f.finished = map[string]int{}
	}
	f.finished[runID] = violations
	return nil
}

func (f *fakeIndex) SaveViolation(_ context.Context, runID string, rec domain.ViolationRecord) error {
	f.saved = append(f.saved, rec)
	return nil
}

func (f *fakeIndex) ListRuns(_ context.Context, limit int) ([]domain.MiningRun, error) {
	return nil, nil
}

func (f *fakeIndex) SearchViolations(_ context.Context, query, project string, limit int) ([]domain.ViolationRecord, error) {
	return nil, nil
}

func makeCommits(hashes ...string) []domain.Commit {
	commits := make([]domain.Commit, len(hashes))
	for i, h := range hashes {
		full := h
		for len(full) < 40 {
			full += h[:1]
		}
		commits[i] = domain.NewCommit(full, "main", time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC))
	}
	return commits
}

func TestMineCloneFailureReleasesWorkspace(t *testing.T) {
	vcs := &fakeVCS{cloneErr: fmt.Errorf("git clone: %w", port.ErrCloneFailed)}
	col := &fakeCollector{}
	wr := &fakeWriter{}
	m := NewMiner(vcs, col, wr, nil)

	m.Mine(context.Background(), "https://github.com/acme/broken.git")

	if len(vcs.released) != 1 || vcs.released[0] != "/tmp/partial-ws" {
		t.Fatalf("released = %v, want the partial workspace", vcs.released)
	}
	if col.calls != 0 {
		t.Error("collector must not run after a clone failure")
	}
	if len(wr.calls) != 0 {
		t.Error("writer must not run after a clone failure")
	}
}

func TestMineCheckoutFailureSkipsCommitOnly(t *testing.T) {
	commits := makeCommits("a", "b", "c")
	vcs := &fakeVCS{
		commits:      commits,
		checkoutErrs: map[string]error{commits[1].FullHash: errors.New("checkout failed")},
	}
	col := &fakeCollector{byWorkspaceCall: [][]domain.Violation{
		{{Code: "E501", FilePath: "x.py", Line: 1}},
		{{Code: "F401", FilePath: "y.py", Line: 2}},
	}}
	wr := &fakeWriter{}
	m := NewMiner(vcs, col, wr, nil)

	m.Mine(context.Background(), "https://github.com/acme/r.git")

	if len(vcs.checkouts) != 3 {
		t.Fatalf("checkouts = %d, want 3", len(vcs.checkouts))
	}
	// Commits a and c were collected; b was skipped.
	if col.calls != 2 {
		t.Errorf("collector calls = %d, want 2", col.calls)
	}
	if len(wr.calls) != 2 {
		t.Fatalf("persist calls = %d, want 2", len(wr.calls))
	}
	if wr.calls[0].commit.ShortHash != commits[0].ShortHash || wr.calls[1].commit.ShortHash != commits[2].ShortHash {
		t.Errorf("persisted commits: %s, %s", wr.calls[0].commit.ShortHash, wr.calls[1].commit.ShortHash)
	}
	if len(vcs.released) != 1 {
		t.Errorf("workspace released %d times, want 1", len(vcs.released))
	}
}

func TestMineEmptyCollectionSkipsPersist(t *testing.T) {
	vcs := &fakeVCS{commits: makeCommits("a", "b")}
	// Commit a yields nothing (e.g. analyzer timeout), commit b has findings.
	col := &fakeCollector{byWorkspaceCall: [][]domain.Violation{
		nil,
		{{Code: "E501", FilePath: "x.py", Line: 1}},
	}}
	wr := &fakeWriter{}
	m := NewMiner(vcs, col, wr, nil)

	m.Mine(context.Background(), "https://github.com/acme/r.git")

	if len(wr.calls) != 1 {
		t.Fatalf("persist calls = %d, want 1", len(wr.calls))
	}
	if wr.calls[0].commit.ShortHash != "bbbbbbb" {
		t.Errorf("persisted commit = %s", wr.calls[0].commit.ShortHash)
	}
}

func TestMineInvalidURLDoesNothing(t *testing.T) {
	vcs := &fakeVCS{}
	m := NewMiner(vcs, &fakeCollector{}, &fakeWriter{}, nil)

	m.Mine(context.Background(), "nonsense")

	if vcs.materialized != 0 {
		t.Error("materialize must not be called for an unparsable url")
	}
}

func TestMineIndexesRecords(t *testing.T) {
	vcs := &fakeVCS{commits: makeCommits("a")}
	col := &fakeCollector{byWorkspaceCall: [][]domain.Violation{
		{{Code: "E501", FilePath: "x.py", Line: 1}, {Code: "F401", FilePath: "y.py", Line: 2}},
	}}
	idx := &fakeIndex{}
	m := NewMiner(vcs, col, &fakeWriter{}, idx)

	m.Mine(context.Background(), "https://github.com/acme/r.git")

	if len(idx.runs) != 1 {
		t.Fatalf("runs created = %d, want 1", len(idx.runs))
	}
	if idx.runs[0].ProjectName != "r" || idx.runs[0].Branch != "main" || idx.runs[0].CommitCount != 1 {
		t.Errorf("run = %+v", idx.runs[0])
	}
	if len(idx.saved) != 2 {
		t.Errorf("indexed records = %d, want 2", len(idx.saved))
	}
	if got := idx.finished["run-1"]; got != 2 {
		t.Errorf("finished violation count = %d, want 2", got)
	}
}

func TestMineAllHonorsLimit(t *testing.T) {
	vcs := &fakeVCS{}
	m := NewMiner(vcs, &fakeCollector{}, &fakeWriter{}, nil)

	urls := []string{
		"https://github.com/acme/a.git",
		"https://github.com/acme/b.git",
		"https://github.com/acme/c.git",
	}
	m.MineAll(context.Background(), urls, 2)

	if vcs.materialized != 2 {
		t.Errorf("materialized = %d, want 2", vcs.materialized)
	}
}
