package domain

import "time"

// MiningRun tracks one pipeline invocation over one repository in the
// optional index store.
type MiningRun struct {
	ID             string    `json:"id"              db:"id"`
	RepoURL        string    `json:"repo_url"        db:"repo_url"`
	Owner          string    `json:"owner"           db:"owner"`
	ProjectName    string    `json:"project_name"    db:"project_name"`
	Branch         string    `json:"branch"          db:"branch"`
	CommitCount    int       `json:"commit_count"    db:"commit_count"`
	ViolationCount int       `json:"violation_count" db:"violation_count"`
	Status         string    `json:"status"          db:"status"` // mining, done, error
	StartedAt      time.Time `json:"started_at"      db:"started_at"`
	FinishedAt     time.Time `json:"finished_at"     db:"finished_at"`
}

// MiningRun status constants.
const (
	RunStatusMining = "mining"
	RunStatusDone   = "done"
	RunStatusError  = "error"
)
