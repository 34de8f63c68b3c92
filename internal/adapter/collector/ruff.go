package collector

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/codemine/ruffminer/internal/domain"
	"github.com/codemine/ruffminer/internal/port"
)

// ruffFinding mirrors one element of ruff's JSON report.
type ruffFinding struct {
	Filename string `json:"filename"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Location struct {
		Row    int `json:"row"`
		Column int `json:"column"`
	} `json:"location"`
}

// RuffCollector implements port.ViolationCollector by running
// `ruff check --output-format json .` in the workspace.
type RuffCollector struct {
	runner port.CommandRunner
}

// NewRuffCollector creates a collector that invokes ruff through runner.
func NewRuffCollector(runner port.CommandRunner) *RuffCollector {
	return &RuffCollector{runner: runner}
}

// Collect runs ruff against the workspace and parses its findings. Timeouts,
// empty output, and output that fails to decode all yield an empty slice —
// the commit simply contributes no data. Entries without a filename are
// dropped.
func (c *RuffCollector) Collect(ctx context.Context, workspace string) []domain.Violation {
	stdout, stderr, err := c.runner.Run(ctx, workspace, "ruff", "check", "--output-format", "json", ".")
	if err != nil {
		if errors.Is(err, port.ErrCommandTimeout) {
			slog.Warn("ruff timed out", "workspace", workspace)
			return nil
		}
		// ruff exits non-zero when it finds violations; the report is still
		// on stdout, so only a missing report is treated as a failure.
		if strings.TrimSpace(stdout) == "" {
			slog.Warn("ruff produced no output", "workspace", workspace, "error", err)
			return nil
		}
	}
	if strings.TrimSpace(stdout) == "" {
		return nil
	}

	var findings []ruffFinding
	if err := json.Unmarshal([]byte(stdout), &findings); err != nil {
		slog.Warn("failed to decode ruff output", "error", err, "stderr", stderr)
		return nil
	}

	out := make([]domain.Violation, 0, len(findings))
	for _, f := range findings {
		if f.Filename == "" {
			continue
		}
		out = append(out, domain.Violation{
			Code:     f.Code,
			Message:  f.Message,
			FilePath: f.Filename,
			Line:     f.Location.Row,
		})
	}
	return out
}
