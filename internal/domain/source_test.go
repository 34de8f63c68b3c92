package domain

import (
	"testing"
	"time"
)

func TestParseSource(t *testing.T) {
	tests := []struct {
		name     string
		cloneURL string
		owner    string
		repo     string
		wantErr  bool
	}{
		{"https_with_git_suffix", "https://github.com/psf/requests.git", "psf", "requests", false},
		{"https_without_suffix", "https://github.com/astral-sh/ruff", "astral-sh", "ruff", false},
		{"trailing_slash", "https://github.com/a/b/", "a", "b", false},
		{"bare_host", "https://github.com", "", "", true},
		{"empty", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := ParseSource(tt.cloneURL)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", src)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if src.Owner != tt.owner || src.Name != tt.repo {
				t.Errorf("got owner=%q name=%q, want owner=%q name=%q", src.Owner, src.Name, tt.owner, tt.repo)
			}
			if src.CloneURL != tt.cloneURL {
				t.Errorf("clone url changed: %q", src.CloneURL)
			}
		})
	}
}

func TestNewCommitHashShape(t *testing.T) {
	full := "abcdef1234567890abcdef1234567890abcdef12"
	if len(full) != 40 {
		t.Fatalf("test hash must be 40 chars, got %d", len(full))
	}

	c := NewCommit(full, "main", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	if c.ShortHash != "abcdef1" {
		t.Errorf("short hash = %q, want abcdef1", c.ShortHash)
	}
	if len(c.ShortHash) != ShortHashLen {
		t.Errorf("short hash length = %d, want %d", len(c.ShortHash), ShortHashLen)
	}
	if c.FullHash[:ShortHashLen] != c.ShortHash {
		t.Errorf("short hash %q is not a prefix of %q", c.ShortHash, c.FullHash)
	}
}

func TestNewCommitShortInput(t *testing.T) {
	c := NewCommit("abc", "main", time.Now())
	if c.ShortHash != "abc" {
		t.Errorf("short hash = %q, want abc", c.ShortHash)
	}
}
