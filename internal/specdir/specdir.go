// Package specdir holds the on-disk layout of the spec workflow and resolves
// spec directories under .spec-workflow/specs/.
package specdir

import (
	"os"
	"path/filepath"
	"time"
)

// State root and well-known directories, relative to the workspace root.
const (
	StateDir  = ".spec-workflow"
	SpecsDir  = ".spec-workflow/specs"
	CacheFile = ".spec-workflow/.spw-cache/statusline.json"

	CanonicalConfig = ".spec-workflow/spw-config.toml"
	LegacyConfig    = ".spw/spw-config.toml"
)

// Lifecycle documents at the root of every spec directory.
const (
	RequirementsMD = "requirements.md"
	DesignMD       = "design.md"
	TasksMD        = "tasks.md"
)

// LifecycleDocs lists the primary lifecycle documents in phase order.
var LifecycleDocs = []string{RequirementsMD, DesignMD, TasksMD}

// Run directory contents.
const (
	HandoffMD  = "_handoff.md"
	BriefMD    = "brief.md"
	ReportMD   = "report.md"
	StatusJSON = "status.json"
)

// SubagentFiles are the files every subagent directory inside a run must hold.
var SubagentFiles = []string{BriefMD, ReportMD, StatusJSON}

// Spec is a specification directory and its lifecycle document paths.
type Spec struct {
	Name             string
	Dir              string
	RequirementsPath string
	DesignPath       string
	TasksPath        string
}

// SpecsRoot returns the path to the specs directory within a workspace.
func SpecsRoot(root string) string {
	return filepath.Join(root, SpecsDir)
}

// CachePath returns the path of the status cache record within a workspace.
func CachePath(root string) string {
	return filepath.Join(root, CacheFile)
}

func populatePaths(name, specsRoot string) Spec {
	dir := filepath.Join(specsRoot, name)
	return Spec{
		Name:             name,
		Dir:              dir,
		RequirementsPath: filepath.Join(dir, RequirementsMD),
		DesignPath:       filepath.Join(dir, DesignMD),
		TasksPath:        filepath.Join(dir, TasksMD),
	}
}

// List returns every spec directory under specsRoot. A missing or unreadable
// specs root yields no specs.
func List(specsRoot string) []Spec {
	entries, err := os.ReadDir(specsRoot)
	if err != nil {
		return nil
	}
	var specs []Spec
	for _, e := range entries {
		if e.IsDir() {
			specs = append(specs, populatePaths(e.Name(), specsRoot))
		}
	}
	return specs
}

// Exists reports whether specsRoot/name is a directory.
func Exists(specsRoot, name string) bool {
	if name == "" {
		return false
	}
	info, err := os.Stat(filepath.Join(specsRoot, name))
	return err == nil && info.IsDir()
}

// Phase returns the furthest lifecycle phase that has a document on disk:
// "tasks", "design", "requirements", or "" when none exist.
func (s Spec) Phase() string {
	switch {
	case fileExists(s.TasksPath):
		return "tasks"
	case fileExists(s.DesignPath):
		return "design"
	case fileExists(s.RequirementsPath):
		return "requirements"
	}
	return ""
}

// LatestDocTime returns the newest modification time among the lifecycle
// documents that exist. ok is false when none exist.
func (s Spec) LatestDocTime() (latest time.Time, ok bool) {
	for _, p := range []string{s.RequirementsPath, s.DesignPath, s.TasksPath} {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if !ok || info.ModTime().After(latest) {
			latest = info.ModTime()
			ok = true
		}
	}
	return latest, ok
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
