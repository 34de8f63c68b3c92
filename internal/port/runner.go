package port

import "context"

// CommandRunner executes one external command in a working directory under a
// hard wall-clock timeout. On timeout the error wraps ErrCommandTimeout and
// the captured output must be treated as unusable. No retries, no shared
// state: one process per call.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (stdout, stderr string, err error)
}
