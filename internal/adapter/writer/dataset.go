package writer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/codemine/ruffminer/internal/domain"
)

// DatasetWriter implements port.ArtifactWriter over the on-disk dataset
// layout:
//
//	<baseDir>/<project_name>/<short_hash>/<local_file_name>
//	<baseDir>/<project_name>/<short_hash>/violation_<code>_<i>.json
type DatasetWriter struct {
	baseDir string
}

// NewDatasetWriter creates a writer rooted at baseDir (typically "dataset").
func NewDatasetWriter(baseDir string) *DatasetWriter {
	return &DatasetWriter{baseDir: baseDir}
}

// Persist writes one snapshot per distinct violating file and one record per
// violation for a single commit. With no violations nothing is written — the
// commit directory is not even created. The sequence index advances with the
// collector's ordering, one slot per violation, so record names stay aligned
// with the analyzer's output even when individual violations are skipped.
func (w *DatasetWriter) Persist(src domain.RepositorySource, branch string, commit domain.Commit,
	workspace string, violations []domain.Violation) (int, []domain.ViolationRecord) {

	if len(violations) == 0 {
		return 0, nil
	}

	commitDir := filepath.Join(w.baseDir, src.Name, commit.ShortHash)
	if err := os.MkdirAll(commitDir, 0o755); err != nil {
		slog.Error("failed to create commit directory", "dir", commitDir, "error", err)
		return 0, nil
	}

	written := 0
	var records []domain.ViolationRecord
	for i, v := range violations {
		seq := i + 1

		// ruff may report workspace-relative or absolute paths.
		fullPath := v.FilePath
		if !filepath.IsAbs(fullPath) {
			fullPath = filepath.Join(workspace, v.FilePath)
		}
		if _, err := os.Stat(fullPath); err != nil {
			slog.Warn("violating file not found in workspace", "file", v.FilePath, "commit", commit.ShortHash)
			continue
		}

		content, err := os.ReadFile(fullPath)
		if err != nil {
			slog.Warn("failed to read violating file", "file", v.FilePath, "error", err)
			continue
		}

		localName := filepath.Base(v.FilePath)
		snapshotPath := filepath.Join(commitDir, localName)
		if _, err := os.Stat(snapshotPath); os.IsNotExist(err) {
			if werr := os.WriteFile(snapshotPath, content, 0o644); werr != nil {
				slog.Warn("failed to write file snapshot", "file", localName, "error", werr)
				continue
			}
		}

		rec := domain.ViolationRecord{
			ProjectName:    src.Name,
			Owner:          src.Owner,
			Branch:         branch,
			CommitHash:     commit.ShortHash,
			FullCommitHash: commit.FullHash,
			CommitDate:     commit.CommittedDate.Format("2006-01-02"),
			FilePathInRepo: v.FilePath,
			LocalFileName:  localName,
			Line:           v.Line,
			LinterCode:     v.Code,
			Message:        v.Message,
			RepoURL:        src.CloneURL,
		}

		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			slog.Warn("failed to encode violation record", "commit", commit.ShortHash, "error", err)
			continue
		}
		recordPath := filepath.Join(commitDir, fmt.Sprintf("violation_%s_%d.json", v.Code, seq))
		if err := os.WriteFile(recordPath, data, 0o644); err != nil {
			slog.Warn("failed to write violation record", "path", recordPath, "error", err)
			continue
		}

		written++
		records = append(records, rec)
	}
	return written, records
}
