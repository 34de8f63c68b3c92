package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/codemine/ruffminer/internal/port"
)

// DefaultTimeout is the wall-clock limit applied to every external command
// when no other timeout is configured.
const DefaultTimeout = 60 * time.Second

// ExecRunner implements port.CommandRunner on top of os/exec. Each call
// spawns one process with the configured timeout; a command that runs past
// the deadline is killed and reported as port.ErrCommandTimeout with no
// partial output.
type ExecRunner struct {
	timeout time.Duration
}

// NewExecRunner creates a runner with the given timeout. Zero or negative
// falls back to DefaultTimeout.
func NewExecRunner(timeout time.Duration) *ExecRunner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ExecRunner{timeout: timeout}
}

// Run executes name with args in dir and returns the captured streams.
// A non-zero exit status is returned as an error alongside whatever the
// command wrote; callers that only care about stdout (e.g. linters that exit
// non-zero when they find something) may ignore it.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", "", fmt.Errorf("%s after %s: %w", name, r.timeout, port.ErrCommandTimeout)
	}
	if err != nil {
		return strings.TrimSpace(stdout.String()), strings.TrimSpace(stderr.String()),
			fmt.Errorf("run %s: %w", name, err)
	}
	return strings.TrimSpace(stdout.String()), strings.TrimSpace(stderr.String()), nil
}
