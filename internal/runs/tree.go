package runs

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/alanmeadows/spwguard/internal/specdir"
)

var runDirRe = regexp.MustCompile(`^run-\d{3}$`)

// Where run directories live inside a spec.
var (
	// phaseRuns hold run-NNN directly under <phase>/_comms, plus one level of
	// command directories each holding runs.
	phaseRuns = []string{"discover", "post-mortem"}

	// commandRuns hold runs under <phase>/_comms/<command>.
	commandRuns = []struct {
		phase    string
		commands []string
	}{
		{"design", []string{"design-research", "design-draft"}},
		{"planning", []string{"tasks-plan", "tasks-check"}},
		{"qa", []string{"qa", "qa-check"}},
	}

	waveStages = []string{"execution", "checkpoint", "post-check"}
)

// CollectRunDirs returns every run directory in the spec at specDir.
func CollectRunDirs(specDir string) []string {
	var runs []string
	add := func(parent string) {
		for _, name := range subdirs(parent) {
			runs = append(runs, filepath.Join(parent, name))
		}
	}

	for _, phase := range phaseRuns {
		comms := filepath.Join(specDir, phase, "_comms")
		var nested []string
		for _, name := range subdirs(comms) {
			if runDirRe.MatchString(name) {
				runs = append(runs, filepath.Join(comms, name))
			} else {
				nested = append(nested, name)
			}
		}
		for _, name := range nested {
			add(filepath.Join(comms, name))
		}
	}

	for _, cr := range commandRuns {
		for _, cmd := range cr.commands {
			add(filepath.Join(specDir, cr.phase, "_comms", cmd))
		}
	}

	waves := filepath.Join(specDir, "execution", "waves")
	for _, wave := range subdirs(waves) {
		for _, stage := range waveStages {
			add(filepath.Join(waves, wave, stage))
		}
	}

	qaWaves := filepath.Join(specDir, "qa", "_comms", "qa-exec", "waves")
	for _, wave := range subdirs(qaWaves) {
		add(filepath.Join(qaWaves, wave))
	}

	return runs
}

// SweepRecent inspects every run directory modified within the last
// windowMinutes across all specs in the workspace, and returns one line per
// incomplete run: "<relative run dir> -> <issue>; <issue>". Windows smaller
// than one minute are treated as one minute.
func SweepRecent(workspaceRoot string, windowMinutes int, now time.Time) []string {
	window := time.Duration(max(1, windowMinutes)) * time.Minute
	var lines []string
	for _, spec := range specdir.List(specdir.SpecsRoot(workspaceRoot)) {
		for _, run := range CollectRunDirs(spec.Dir) {
			info, err := os.Stat(run)
			if err != nil || now.Sub(info.ModTime()) > window {
				continue
			}
			in, err := Inspect(run)
			if err != nil || in.Complete {
				continue
			}
			rel, err := filepath.Rel(workspaceRoot, run)
			if err != nil {
				rel = run
			}
			lines = append(lines, fmt.Sprintf("%s -> %s", filepath.ToSlash(rel), strings.Join(in.Issues, "; ")))
		}
	}
	return lines
}
