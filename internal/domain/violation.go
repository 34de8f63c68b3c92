package domain

// Violation is one finding reported by the analyzer for the working tree of a
// single commit. FilePath is relative to the workspace root, Line is 1-based.
// Violations are transient; persistence always goes through ViolationRecord.
type Violation struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	FilePath string `json:"file_path"`
	Line     int    `json:"line"`
}

// ViolationRecord is the persisted unit combining a violation with its
// repository and commit metadata. Written as
// violation_<linter_code>_<i>.json inside the commit directory.
type ViolationRecord struct {
	ProjectName    string `json:"project_name"`
	Owner          string `json:"owner"`
	Branch         string `json:"branch"`
	CommitHash     string `json:"commit_hash"`
	FullCommitHash string `json:"full_commit_hash"`
	CommitDate     string `json:"commit_date"` // YYYY-MM-DD
	FilePathInRepo string `json:"file_path_in_repo"`
	LocalFileName  string `json:"local_file_name"`
	Line           int    `json:"line"`
	LinterCode     string `json:"linter_code"`
	Message        string `json:"message"`
	RepoURL        string `json:"repo_url"`
}
