package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/codemine/ruffminer/internal/domain"
)

// PostgresStore is the optional relational index over mining runs and
// violation records. The filesystem dataset remains the source of truth; the
// store only exists so the API can search without walking the dataset tree.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection and returns a store instance.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// InitSchema creates the index tables when they do not exist yet.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS mining_runs (
			id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			repo_url        TEXT NOT NULL,
			owner           TEXT NOT NULL,
			project_name    TEXT NOT NULL,
			branch          TEXT NOT NULL,
			commit_count    INTEGER NOT NULL DEFAULT 0,
			violation_count INTEGER NOT NULL DEFAULT 0,
			status          TEXT NOT NULL,
			started_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			finished_at     TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS violations (
			id                UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			run_id            UUID REFERENCES mining_runs(id),
			project_name      TEXT NOT NULL,
			owner             TEXT NOT NULL,
			branch            TEXT NOT NULL,
			commit_hash       TEXT NOT NULL,
			full_commit_hash  TEXT NOT NULL,
			commit_date       TEXT NOT NULL,
			file_path_in_repo TEXT NOT NULL,
			local_file_name   TEXT NOT NULL,
			line              INTEGER NOT NULL,
			linter_code       TEXT NOT NULL,
			message           TEXT NOT NULL,
			repo_url          TEXT NOT NULL,
			created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			action     TEXT NOT NULL,
			resource   TEXT NOT NULL,
			details    JSONB,
			ip         TEXT,
			user_agent TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// --- Mining runs ---

// CreateRun inserts a new mining run record.
func (s *PostgresStore) CreateRun(ctx context.Context, r *domain.MiningRun) (*domain.MiningRun, error) {
	query := `INSERT INTO mining_runs (repo_url, owner, project_name, branch, commit_count, status)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id, repo_url, owner, project_name, branch, commit_count, violation_count, status, started_at`

	var run domain.MiningRun
	err := s.db.QueryRowContext(ctx, query,
		r.RepoURL, r.Owner, r.ProjectName, r.Branch, r.CommitCount, r.Status,
	).Scan(
		&run.ID, &run.RepoURL, &run.Owner, &run.ProjectName, &run.Branch,
		&run.CommitCount, &run.ViolationCount, &run.Status, &run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	return &run, nil
}

// FinishRun marks a run as finished with its final status and totals.
func (s *PostgresStore) FinishRun(ctx context.Context, runID, status string, violations int) error {
	query := `UPDATE mining_runs SET status = $1, violation_count = $2, finished_at = NOW() WHERE id = $3`
	_, err := s.db.ExecContext(ctx, query, status, violations, runID)
	return err
}

// ListRuns returns the most recent runs.
func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]domain.MiningRun, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, repo_url, owner, project_name, branch, commit_count, violation_count, status, started_at, COALESCE(finished_at, started_at)
	          FROM mining_runs ORDER BY started_at DESC LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.MiningRun
	for rows.Next() {
		var r domain.MiningRun
		if err := rows.Scan(
			&r.ID, &r.RepoURL, &r.Owner, &r.ProjectName, &r.Branch,
			&r.CommitCount, &r.ViolationCount, &r.Status, &r.StartedAt, &r.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, nil
}

// --- Violations ---

// SaveViolation mirrors one persisted record into the index.
func (s *PostgresStore) SaveViolation(ctx context.Context, runID string, rec domain.ViolationRecord) error {
	query := `INSERT INTO violations
	          (run_id, project_name, owner, branch, commit_hash, full_commit_hash, commit_date,
	           file_path_in_repo, local_file_name, line, linter_code, message, repo_url)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := s.db.ExecContext(ctx, query,
		runID, rec.ProjectName, rec.Owner, rec.Branch, rec.CommitHash, rec.FullCommitHash,
		rec.CommitDate, rec.FilePathInRepo, rec.LocalFileName, rec.Line, rec.LinterCode,
		rec.Message, rec.RepoURL,
	)
	if err != nil {
		return fmt.Errorf("save violation: %w", err)
	}
	return nil
}

// SearchViolations searches indexed records by linter code, message, or file
// path using ILIKE, optionally scoped to one project.
func (s *PostgresStore) SearchViolations(ctx context.Context, query, project string, limit int) ([]domain.ViolationRecord, error) {
	if limit <= 0 {
		limit = 200
	}
	pattern := "%" + query + "%"
	args := []interface{}{pattern}
	sqlQuery := `SELECT project_name, owner, branch, commit_hash, full_commit_hash, commit_date,
	             file_path_in_repo, local_file_name, line, linter_code, message, repo_url
	             FROM violations
	             WHERE (linter_code ILIKE $1 OR message ILIKE $1 OR file_path_in_repo ILIKE $1)`

	if project != "" {
		sqlQuery += ` AND project_name = $2`
		args = append(args, project)
	}
	sqlQuery += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("search violations: %w", err)
	}
	defer rows.Close()

	var records []domain.ViolationRecord
	for rows.Next() {
		var r domain.ViolationRecord
		if err := rows.Scan(
			&r.ProjectName, &r.Owner, &r.Branch, &r.CommitHash, &r.FullCommitHash,
			&r.CommitDate, &r.FilePathInRepo, &r.LocalFileName, &r.Line, &r.LinterCode,
			&r.Message, &r.RepoURL,
		); err != nil {
			return nil, fmt.Errorf("scan violation: %w", err)
		}
		records = append(records, r)
	}
	return records, nil
}

// --- Audit logs ---

// WriteAudit implements middleware.AuditWriter.
func (s *PostgresStore) WriteAudit(action, resource, details, ip, userAgent string) error {
	query := `INSERT INTO audit_logs (action, resource, details, ip, user_agent)
	          VALUES ($1, $2, $3::jsonb, $4, $5)`
	_, err := s.db.ExecContext(context.Background(), query, action, resource, details, ip, userAgent)
	return err
}
