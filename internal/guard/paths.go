// Package guard classifies workflow paths and prompts against the pipeline's
// layout contract. Evaluation is pure: the same input always yields the same
// violations.
package guard

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/alanmeadows/spwguard/internal/config"
	"github.com/alanmeadows/spwguard/internal/payload"
	"github.com/alanmeadows/spwguard/internal/report"
)

// Target is a candidate path split into slash-separated segments.
type Target struct {
	Rel      string
	Segments []string
}

// Base returns the final path segment.
func (t Target) Base() string {
	if len(t.Segments) == 0 {
		return ""
	}
	return t.Segments[len(t.Segments)-1]
}

// find returns the index just past the first occurrence of chain within the
// directory part of the path, or -1.
func (t Target) find(chain []string) int {
	dirs := len(t.Segments) - 1
	for i := 0; i+len(chain) <= dirs; i++ {
		match := true
		for j, seg := range chain {
			if t.Segments[i+j] != seg {
				match = false
				break
			}
		}
		if match {
			return i + len(chain)
		}
	}
	return -1
}

// Rule is one entry of the path rule table.
type Rule struct {
	Name    string
	Enabled func(config.HooksConfig) bool
	Eval    func(Layout, Target) []report.Violation
}

// Rules is the ordered path rule table.
var Rules = []Rule{
	{Name: "managed-artifact", Enabled: guardPaths, Eval: managedArtifactRule},
	{Name: "retired-layout", Enabled: guardWaveLayout, Eval: retiredLayoutRule},
	{Name: "wave-naming", Enabled: guardWaveLayout, Eval: waveNamingRule},
	{Name: "wave-entries", Enabled: guardWaveLayout, Eval: waveEntriesRule},
}

func guardPaths(h config.HooksConfig) bool      { return h.GuardPaths }
func guardWaveLayout(h config.HooksConfig) bool { return h.GuardWaveLayout }

// NewTarget normalizes candidate into a workspace-relative Target. Absolute
// candidates are made relative to workspaceRoot when possible.
func NewTarget(candidate, workspaceRoot string) Target {
	p := candidate
	if filepath.IsAbs(p) && workspaceRoot != "" {
		if rel, err := filepath.Rel(workspaceRoot, p); err == nil {
			p = rel
		}
	}
	p = path.Clean(strings.ReplaceAll(filepath.ToSlash(p), `\`, "/"))

	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" && s != "." {
			segs = append(segs, s)
		}
	}
	return Target{Rel: p, Segments: segs}
}

// Check evaluates every enabled rule against candidate and returns all
// violations in rule order.
func Check(candidate, workspaceRoot string, hooks config.HooksConfig) []report.Violation {
	return DefaultLayout.Check(candidate, workspaceRoot, hooks)
}

// Check is like the package-level Check but uses l.
func (l Layout) Check(candidate, workspaceRoot string, hooks config.HooksConfig) []report.Violation {
	t := NewTarget(candidate, workspaceRoot)
	if len(t.Segments) == 0 {
		return nil
	}
	var out []report.Violation
	for _, r := range Rules {
		if !r.Enabled(hooks) {
			continue
		}
		out = append(out, r.Eval(l, t)...)
	}
	return out
}

// ResolveTarget returns the workspace-relative path a tool call targets.
// Relative targets are resolved against the payload cwd, falling back to
// workspaceRoot. ok is false when the payload names no target.
func ResolveTarget(p payload.Payload, workspaceRoot string) (string, bool) {
	target := p.TargetPath()
	if target == "" {
		return "", false
	}
	abs := target
	if !filepath.IsAbs(abs) {
		base := p.Cwd()
		if base == "" {
			base = workspaceRoot
		}
		abs = filepath.Join(base, target)
	}
	rel, err := filepath.Rel(workspaceRoot, abs)
	if err != nil {
		rel = target
	}
	return filepath.ToSlash(rel), true
}

func insideSpec(l Layout, t Target) bool {
	i := t.find(l.SpecsPath)
	// Need a spec name segment between the specs root and the file.
	return i >= 0 && i < len(t.Segments)-1
}

func managedArtifactRule(l Layout, t Target) []report.Violation {
	if !l.IsManagedArtifact(t.Base()) || insideSpec(l, t) {
		return nil
	}
	return []report.Violation{{
		Title: "SPW artifact path violation",
		Details: []string{
			"File: " + t.Rel,
			"Managed SPW artifacts must stay under " + strings.Join(l.SpecsPath, "/") + "/<spec-name>/",
		},
	}}
}

func retiredLayoutRule(l Layout, t Target) []report.Violation {
	var out []report.Violation
	for _, dir := range l.RetiredDirs {
		if t.find([]string{dir}) < 0 {
			continue
		}
		out = append(out, report.Violation{
			Title: "Legacy " + dir + "/ path is not allowed",
			Details: []string{
				"File: " + t.Rel,
				"Use phase-based _comms/ directories instead (e.g. execution/waves/, qa/_comms/)",
			},
		})
	}
	return out
}

func waveNamingRule(l Layout, t Target) []report.Violation {
	var out []report.Violation
	check := func(chain []string, title string) {
		i := t.find(chain)
		if i < 0 || i >= len(t.Segments) {
			return
		}
		wave := t.Segments[i]
		// A final segment is only a wave when it is named like one; other
		// files directly under waves/ are left alone.
		if i == len(t.Segments)-1 && !strings.HasPrefix(strings.ToLower(wave), "wave") {
			return
		}
		if !l.WaveName.MatchString(wave) {
			out = append(out, report.Violation{
				Title: title,
				Details: []string{
					"Found wave folder: " + wave,
					"Expected format: " + l.ExampleWaves,
				},
			})
		}
	}
	check(l.ExecutionWaves, "Wave folder must use zero-padded format")
	check(l.QAExecWaves, "QA exec wave folder must use zero-padded format")
	return out
}

func waveEntriesRule(l Layout, t Target) []report.Violation {
	i := t.find(l.ExecutionWaves)
	if i < 0 || i+1 >= len(t.Segments) || !l.WaveName.MatchString(t.Segments[i]) {
		return nil
	}
	if entry := t.Segments[i+1]; l.waveEntryAllowed(entry) {
		return nil
	}
	return []report.Violation{{
		Title: "Invalid wave stage folder",
		Details: []string{
			"File: " + t.Rel,
			"Allowed wave entries: " + strings.Join(l.WaveEntries, ", "),
		},
	}}
}
