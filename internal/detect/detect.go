// Package detect decides which spec is currently active, trying the cache,
// then the branch diff, then document modification times.
package detect

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/alanmeadows/spwguard/internal/cache"
	"github.com/alanmeadows/spwguard/internal/config"
	"github.com/alanmeadows/spwguard/internal/specdir"
	"github.com/alanmeadows/spwguard/internal/vcs"
)

// Source is the detection tier that produced a SpecRef.
type Source string

const (
	SourceCache Source = "cache"
	SourceDiff  Source = "diff"
	SourceMtime Source = "mtime"
)

// SpecRef names the active spec.
type SpecRef struct {
	Name   string `json:"name"`
	Source Source `json:"source"`
	Sticky bool   `json:"sticky"`
}

// Detector runs the tiered active-spec detection.
type Detector struct {
	Repo vcs.Repository
	Now  func() time.Time
	// LoadConfig resolves the workspace config for a repository root.
	// Defaults to config.Resolve.
	LoadConfig func(root string) config.WorkspaceConfig
}

// New returns a Detector backed by repo.
func New(repo vcs.Repository) *Detector {
	return &Detector{Repo: repo}
}

func (d *Detector) loadConfig(root string) config.WorkspaceConfig {
	if d.LoadConfig != nil {
		return d.LoadConfig(root)
	}
	return config.Resolve(root)
}

func (d *Detector) root(ctx context.Context, dir string) (string, bool) {
	if d.Repo == nil {
		return "", false
	}
	return d.Repo.Root(ctx, dir)
}

// DetectActiveSpec returns the active spec for dir, or false when none can be
// determined. Outside a repository only the mtime tier runs and nothing is
// cached.
func (d *Detector) DetectActiveSpec(ctx context.Context, dir string) (SpecRef, bool) {
	root, inRepo := d.root(ctx, dir)
	base := dir
	if inRepo {
		base = root
	}
	specsRoot := specdir.SpecsRoot(base)
	if info, err := os.Stat(specsRoot); err != nil || !info.IsDir() {
		return SpecRef{}, false
	}

	if !inRepo {
		name, ok := ByMtime(specsRoot)
		if !ok {
			return SpecRef{}, false
		}
		return SpecRef{Name: name, Source: SourceMtime}, true
	}

	cfg := d.loadConfig(root).Statusline
	store := &cache.Store{Path: specdir.CachePath(root), Now: d.Now}

	if rec, ok := store.Fresh(cfg.CacheTTLSeconds, cfg.StickySpec); ok {
		if specdir.Exists(specsRoot, rec.Spec) {
			return SpecRef{Name: rec.Spec, Source: SourceCache, Sticky: rec.Sticky}, true
		}
		slog.Debug("cached spec no longer exists", "spec", rec.Spec)
		store.Clear()
	}

	if name, ok := d.fromDiff(ctx, root, specsRoot, cfg.BaseBranches); ok {
		store.Write(name, cache.Meta{Source: cache.SourceDiff})
		return SpecRef{Name: name, Source: SourceDiff}, true
	}

	if name, ok := ByMtime(specsRoot); ok {
		store.Write(name, cache.Meta{Source: cache.SourceMtime})
		return SpecRef{Name: name, Source: SourceMtime}, true
	}
	return SpecRef{}, false
}

// BaseRef returns the ref to diff HEAD against: the upstream tracking branch,
// else the first resolvable of b, origin/b, upstream/b for each base branch.
func (d *Detector) BaseRef(ctx context.Context, root string, branches []string) (string, bool) {
	if up, ok := d.Repo.Upstream(ctx, root); ok {
		return up, true
	}
	for _, b := range branches {
		for _, ref := range []string{b, "origin/" + b, "upstream/" + b} {
			if d.Repo.RefExists(ctx, root, ref) {
				return ref, true
			}
		}
	}
	return "", false
}

func (d *Detector) fromDiff(ctx context.Context, root, specsRoot string, branches []string) (string, bool) {
	base, ok := d.BaseRef(ctx, root, branches)
	if !ok {
		return "", false
	}
	files, ok := d.Repo.ChangedFiles(ctx, root, base)
	if !ok || len(files) == 0 {
		return "", false
	}
	return rankSpecs(files, func(name string) bool {
		return specdir.Exists(specsRoot, name)
	})
}

// ByMtime returns the spec whose newest lifecycle document is the most
// recently modified. Ties go to the first spec in name order.
func ByMtime(specsRoot string) (string, bool) {
	var winner string
	var newest time.Time
	for _, s := range specdir.List(specsRoot) {
		t, ok := s.LatestDocTime()
		if !ok {
			continue
		}
		if winner == "" || t.After(newest) {
			winner, newest = s.Name, t
		}
	}
	return winner, winner != ""
}
