// Package vcs answers the handful of version-control questions the guards
// ask. Every query is fail-open: ok=false means "unavailable", never an error.
package vcs

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
)

// DefaultTimeout bounds each git subprocess.
const DefaultTimeout = 800 * time.Millisecond

//go:generate mockgen -destination=vcsmock/repository.go -package=vcsmock github.com/alanmeadows/spwguard/internal/vcs Repository

// Repository is the version-control boundary used by the detector and the
// status line.
type Repository interface {
	// Root returns the top-level directory of the repository containing dir.
	Root(ctx context.Context, dir string) (string, bool)
	// Branch returns the checked-out branch name, or a short commit hash when
	// HEAD is detached.
	Branch(ctx context.Context, dir string) (string, bool)
	// Upstream returns the tracking branch of HEAD, e.g. "origin/main".
	Upstream(ctx context.Context, dir string) (string, bool)
	// RefExists reports whether ref resolves to a commit.
	RefExists(ctx context.Context, dir, ref string) bool
	// ChangedFiles lists files changed in base...HEAD followed by uncommitted
	// changes against HEAD, de-duplicated keeping the first position.
	ChangedFiles(ctx context.Context, dir, base string) ([]string, bool)
	// Dirty reports whether tracked files have uncommitted modifications.
	Dirty(ctx context.Context, dir string) (dirty bool, ok bool)
}

// Git implements Repository with go-git for in-process lookups and the git
// CLI for everything else.
type Git struct {
	// Bin is the git executable. Empty means "git" from PATH.
	Bin string
	// Timeout bounds each subprocess. Zero means DefaultTimeout.
	Timeout time.Duration
}

// NewGit returns a Git using the default binary and timeout.
func NewGit() *Git {
	return &Git{}
}

var _ Repository = (*Git)(nil)

func (g *Git) bin() string {
	if g.Bin != "" {
		return g.Bin
	}
	return "git"
}

func (g *Git) timeout() time.Duration {
	if g.Timeout > 0 {
		return g.Timeout
	}
	return DefaultTimeout
}

// run executes git in dir and returns trimmed stdout. ok is false on a
// non-zero exit, a missing binary, or a timeout.
func (g *Git) run(ctx context.Context, dir string, args ...string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout())
	defer cancel()

	cmd := exec.CommandContext(ctx, g.bin(), args...)
	cmd.Dir = dir
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		slog.Debug("git command unavailable", "args", args, "dir", dir, "error", err)
		return "", false
	}
	return strings.TrimSpace(stdout.String()), true
}

func open(dir string) (*git.Repository, bool) {
	r, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, false
	}
	return r, true
}

func (g *Git) Root(ctx context.Context, dir string) (string, bool) {
	if r, ok := open(dir); ok {
		if wt, err := r.Worktree(); err == nil {
			return wt.Filesystem.Root(), true
		}
	}
	out, ok := g.run(ctx, dir, "rev-parse", "--show-toplevel")
	if !ok || out == "" {
		return "", false
	}
	return out, true
}

func (g *Git) Branch(ctx context.Context, dir string) (string, bool) {
	if r, ok := open(dir); ok {
		if head, err := r.Head(); err == nil {
			if head.Name().IsBranch() {
				return head.Name().Short(), true
			}
			return head.Hash().String()[:7], true
		}
	}
	out, ok := g.run(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if !ok || out == "" {
		return "", false
	}
	if out == "HEAD" {
		return g.run(ctx, dir, "rev-parse", "--short", "HEAD")
	}
	return out, true
}

func (g *Git) Upstream(ctx context.Context, dir string) (string, bool) {
	out, ok := g.run(ctx, dir, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{u}")
	if !ok || out == "" {
		return "", false
	}
	return out, true
}

func (g *Git) RefExists(ctx context.Context, dir, ref string) bool {
	if ref == "" {
		return false
	}
	_, ok := g.run(ctx, dir, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	return ok
}

// ChangedFiles disables core.quotePath so non-ASCII paths are listed verbatim
// instead of as quoted octal escapes.
func (g *Git) ChangedFiles(ctx context.Context, dir, base string) ([]string, bool) {
	committed, ok := g.run(ctx, dir, "-c", "core.quotePath=false", "diff", "--name-only", base+"...HEAD")
	if !ok {
		return nil, false
	}
	// Uncommitted changes are best effort; the committed listing stands alone.
	uncommitted, _ := g.run(ctx, dir, "-c", "core.quotePath=false", "diff", "--name-only", "HEAD")
	return mergeLines(committed, uncommitted), true
}

func (g *Git) Dirty(ctx context.Context, dir string) (bool, bool) {
	out, ok := g.run(ctx, dir, "status", "--porcelain", "--untracked-files=no")
	if !ok {
		return false, false
	}
	return out != "", true
}

// mergeLines splits each block into lines and concatenates them in order,
// dropping blanks and keeping the first occurrence of each line.
func mergeLines(blocks ...string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, block := range blocks {
		for _, line := range strings.Split(block, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || seen[line] {
				continue
			}
			seen[line] = true
			out = append(out, line)
		}
	}
	return out
}
