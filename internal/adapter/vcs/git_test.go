package vcs

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/codemine/ruffminer/internal/port"
)

// scriptRunner routes each git invocation to a test-provided function.
type scriptRunner struct {
	fn    func(dir, name string, args []string) (string, string, error)
	calls [][]string
}

func (s *scriptRunner) Run(_ context.Context, dir, name string, args ...string) (string, string, error) {
	s.calls = append(s.calls, append([]string{name}, args...))
	return s.fn(dir, name, args)
}

func TestMaterializeCloneFailure(t *testing.T) {
	r := &scriptRunner{fn: func(dir, name string, args []string) (string, string, error) {
		return "", "fatal: repository not found", errors.New("run git: exit status 128")
	}}
	g := NewGitPort(r)

	dir, err := g.Materialize(context.Background(), "https://github.com/x/missing.git")
	if !errors.Is(err, port.ErrCloneFailed) {
		t.Fatalf("error = %v, want ErrCloneFailed", err)
	}
	if dir == "" {
		t.Fatal("expected partial workspace path for caller cleanup")
	}
	g.Release(dir)
	if _, serr := os.Stat(dir); !os.IsNotExist(serr) {
		t.Errorf("workspace %s not released", dir)
	}
}

func TestActiveBranch(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
		err    error
		want   string
	}{
		{"named_branch", "develop", nil, "develop"},
		{"detached_head", "HEAD", nil, "main"},
		{"empty_output", "", nil, "main"},
		{"command_error", "", errors.New("exit status 128"), "main"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &scriptRunner{fn: func(dir, name string, args []string) (string, string, error) {
				return tt.stdout, "", tt.err
			}}
			g := NewGitPort(r)
			if got := g.ActiveBranch(context.Background(), "/ws"); got != tt.want {
				t.Errorf("branch = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestListCommits(t *testing.T) {
	log := strings.Join([]string{
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa|2024-03-02T10:00:00+00:00",
		"bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb|2024-03-01T09:30:00+00:00",
		"",
		"not-a-log-line",
		"cccccccccccccccccccccccccccccccccccccccc|bad-date",
	}, "\n")

	r := &scriptRunner{fn: func(dir, name string, args []string) (string, string, error) {
		return log, "", nil
	}}
	g := NewGitPort(r)

	commits, err := g.ListCommits(context.Background(), "/ws", "main")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(commits) != 2 {
		t.Fatalf("got %d commits, want 2", len(commits))
	}
	if commits[0].ShortHash != "aaaaaaa" || commits[1].ShortHash != "bbbbbbb" {
		t.Errorf("unexpected order: %s, %s", commits[0].ShortHash, commits[1].ShortHash)
	}
	if commits[0].Branch != "main" {
		t.Errorf("branch = %q, want main", commits[0].Branch)
	}
	if got := commits[1].CommittedDate.Format("2006-01-02"); got != "2024-03-01" {
		t.Errorf("committed date = %s, want 2024-03-01", got)
	}
}

func TestListCommitsError(t *testing.T) {
	r := &scriptRunner{fn: func(dir, name string, args []string) (string, string, error) {
		return "", "", errors.New("exit status 128")
	}}
	g := NewGitPort(r)

	if _, err := g.ListCommits(context.Background(), "/ws", "main"); err == nil {
		t.Fatal("expected error")
	}
}

func TestCheckoutFailure(t *testing.T) {
	r := &scriptRunner{fn: func(dir, name string, args []string) (string, string, error) {
		return "", "error: pathspec did not match", errors.New("exit status 1")
	}}
	g := NewGitPort(r)

	err := g.Checkout(context.Background(), "/ws", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	if !errors.Is(err, port.ErrCheckoutFailed) {
		t.Fatalf("error = %v, want ErrCheckoutFailed", err)
	}
}

func TestCheckoutForcesReset(t *testing.T) {
	r := &scriptRunner{fn: func(dir, name string, args []string) (string, string, error) {
		return "", "", nil
	}}
	g := NewGitPort(r)

	if err := g.Checkout(context.Background(), "/ws", "abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(r.calls))
	}
	got := strings.Join(r.calls[0], " ")
	if got != "git checkout --force abc" {
		t.Errorf("command = %q", got)
	}
}

func TestReleaseEmptyPath(t *testing.T) {
	g := NewGitPort(&scriptRunner{fn: func(dir, name string, args []string) (string, string, error) {
		return "", "", nil
	}})
	g.Release("") // must not panic
}
