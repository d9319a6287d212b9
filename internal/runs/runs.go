// Package runs inspects multi-agent run directories for the handoff files
// every finished run must leave behind.
package runs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alanmeadows/spwguard/internal/specdir"
)

// ErrRunDirMissing is returned when an inspected run directory does not exist.
var ErrRunDirMissing = errors.New("run directory not found")

// Reasons reported by FindLatestIncomplete when nothing is found.
const (
	ReasonPhaseDirMissing = "phase_dir_missing"
	ReasonNoUnfinishedRun = "no_unfinished_run"
)

// Subagent is one subagent directory inside a run.
type Subagent struct {
	Name    string         `json:"name"`
	Missing []string       `json:"missing,omitempty"`
	Status  SubagentStatus `json:"status"`
}

// Blocked reports whether the subagent says it is blocked.
func (s Subagent) Blocked() bool {
	return s.Status == StatusBlocked
}

// Inspection is the result of inspecting one run directory.
type Inspection struct {
	Path      string     `json:"path"`
	Complete  bool       `json:"complete"`
	Issues    []string   `json:"issues"`
	Subagents []Subagent `json:"subagents"`
}

// Inspect checks runDir for its handoff file and, for every child directory
// not starting with "_" or ".", the subagent files and a non-blocked status.
func Inspect(runDir string) (Inspection, error) {
	info, err := os.Stat(runDir)
	if err != nil || !info.IsDir() {
		return Inspection{}, fmt.Errorf("%w: %s", ErrRunDirMissing, runDir)
	}

	in := Inspection{Path: runDir, Issues: []string{}, Subagents: []Subagent{}}
	if !exists(filepath.Join(runDir, specdir.HandoffMD)) {
		in.Issues = append(in.Issues, "missing "+specdir.HandoffMD)
	}

	for _, name := range subdirs(runDir) {
		if strings.HasPrefix(name, "_") {
			continue
		}
		dir := filepath.Join(runDir, name)
		sa := Subagent{Name: name, Status: readStatus(filepath.Join(dir, specdir.StatusJSON))}
		for _, f := range specdir.SubagentFiles {
			if !exists(filepath.Join(dir, f)) {
				sa.Missing = append(sa.Missing, f)
			}
		}
		if len(sa.Missing) > 0 {
			in.Issues = append(in.Issues, name+": missing "+strings.Join(sa.Missing, ", "))
		}
		if sa.Blocked() {
			in.Issues = append(in.Issues, name+": status blocked")
		}
		in.Subagents = append(in.Subagents, sa)
	}

	in.Complete = len(in.Issues) == 0
	return in, nil
}

// Latest is the result of FindLatestIncomplete.
type Latest struct {
	PhaseDir   string      `json:"phase_dir"`
	Found      bool        `json:"found"`
	Reason     string      `json:"reason,omitempty"`
	Run        string      `json:"run,omitempty"`
	Inspection *Inspection `json:"inspection,omitempty"`
}

// FindLatestIncomplete returns the most recently modified run directory
// directly under phaseDir whose inspection is incomplete. Runs with the same
// modification time are ordered by name, highest first.
func FindLatestIncomplete(phaseDir string) (Latest, error) {
	res := Latest{PhaseDir: phaseDir}
	info, err := os.Stat(phaseDir)
	if err != nil || !info.IsDir() {
		res.Reason = ReasonPhaseDirMissing
		return res, nil
	}
	entries, err := os.ReadDir(phaseDir)
	if err != nil {
		return res, fmt.Errorf("reading phase directory %s: %w", phaseDir, err)
	}

	type candidate struct {
		name  string
		mtime int64
	}
	var cands []candidate
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		cands = append(cands, candidate{name: e.Name(), mtime: fi.ModTime().UnixNano()})
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].mtime != cands[j].mtime {
			return cands[i].mtime > cands[j].mtime
		}
		return cands[i].name > cands[j].name
	})

	for _, c := range cands {
		run := filepath.Join(phaseDir, c.name)
		in, err := Inspect(run)
		if err != nil || in.Complete {
			continue
		}
		res.Found = true
		res.Run = run
		res.Inspection = &in
		return res, nil
	}
	res.Reason = ReasonNoUnfinishedRun
	return res, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// subdirs returns the names of the non-hidden directories in dir. A missing
// or unreadable dir has none.
func subdirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			out = append(out, e.Name())
		}
	}
	return out
}
