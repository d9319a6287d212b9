package runs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// completeRun creates a finished run with the given subagents.
func completeRun(t *testing.T, dir string, subagents ...string) {
	t.Helper()
	touch(t, filepath.Join(dir, "_handoff.md"), "# handoff")
	for _, sa := range subagents {
		touch(t, filepath.Join(dir, sa, "brief.md"), "brief")
		touch(t, filepath.Join(dir, sa, "report.md"), "report")
		touch(t, filepath.Join(dir, sa, "status.json"), `{"status": "done"}`)
	}
}

func TestInspect_Complete(t *testing.T) {
	run := filepath.Join(t.TempDir(), "run-001")
	completeRun(t, run, "researcher", "writer")
	touch(t, filepath.Join(run, "_scratch", "notes.md"), "reserved dirs are ignored")
	touch(t, filepath.Join(run, ".cache", "x"), "hidden dirs are ignored")

	in, err := Inspect(run)
	require.NoError(t, err)
	assert.True(t, in.Complete)
	assert.Empty(t, in.Issues)
	require.Len(t, in.Subagents, 2)
	assert.Equal(t, StatusDone, in.Subagents[0].Status)
}

func TestInspect_MissingReport(t *testing.T) {
	run := filepath.Join(t.TempDir(), "run-001")
	completeRun(t, run, "researcher")
	require.NoError(t, os.Remove(filepath.Join(run, "researcher", "report.md")))

	in, err := Inspect(run)
	require.NoError(t, err)
	assert.False(t, in.Complete)
	assert.Equal(t, []string{"researcher: missing report.md"}, in.Issues)
	assert.Equal(t, []string{"report.md"}, in.Subagents[0].Missing)
}

func TestInspect_MissingHandoff(t *testing.T) {
	run := filepath.Join(t.TempDir(), "run-001")
	completeRun(t, run)
	require.NoError(t, os.Remove(filepath.Join(run, "_handoff.md")))

	in, err := Inspect(run)
	require.NoError(t, err)
	assert.False(t, in.Complete)
	assert.Equal(t, []string{"missing _handoff.md"}, in.Issues)
}

func TestInspect_BlockedEvenWithAllFiles(t *testing.T) {
	run := filepath.Join(t.TempDir(), "run-001")
	completeRun(t, run, "exec")
	touch(t, filepath.Join(run, "exec", "status.json"), "{\n  // waiting on input\n  \"status\": \"BLOCKED\",\n}")

	in, err := Inspect(run)
	require.NoError(t, err)
	assert.False(t, in.Complete)
	assert.Equal(t, []string{"exec: status blocked"}, in.Issues)
	assert.True(t, in.Subagents[0].Blocked())
}

func TestInspect_UnparseableStatusIsUnknown(t *testing.T) {
	run := filepath.Join(t.TempDir(), "run-001")
	completeRun(t, run, "exec")
	touch(t, filepath.Join(run, "exec", "status.json"), "not json at all, blocked")

	in, err := Inspect(run)
	require.NoError(t, err)
	assert.True(t, in.Complete)
	assert.Equal(t, StatusUnknown, in.Subagents[0].Status)
}

func TestInspect_Missing(t *testing.T) {
	_, err := Inspect(filepath.Join(t.TempDir(), "nope"))
	assert.True(t, errors.Is(err, ErrRunDirMissing))
}

// Adding required files never turns a complete run incomplete, and removing
// one never turns an incomplete run complete.
func TestInspect_Monotonic(t *testing.T) {
	run := filepath.Join(t.TempDir(), "run-001")
	require.NoError(t, os.MkdirAll(filepath.Join(run, "sa"), 0755))

	steps := []string{"_handoff.md", "sa/brief.md", "sa/report.md", "sa/status.json"}
	prevIssues := -1
	for i, step := range steps {
		touch(t, filepath.Join(run, step), `{"status": "running"}`)
		in, err := Inspect(run)
		require.NoError(t, err)
		if prevIssues >= 0 {
			assert.LessOrEqual(t, len(in.Issues), prevIssues)
		}
		prevIssues = len(in.Issues)
		assert.Equal(t, i == len(steps)-1, in.Complete, step)
	}

	require.NoError(t, os.Remove(filepath.Join(run, "sa", "brief.md")))
	in, err := Inspect(run)
	require.NoError(t, err)
	assert.False(t, in.Complete)
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusBlocked, ParseStatus(" Blocked "))
	assert.Equal(t, StatusDone, ParseStatus("completed"))
	assert.Equal(t, StatusRunning, ParseStatus("in_progress"))
	assert.Equal(t, StatusUnknown, ParseStatus("weird"))
}

func TestFindLatestIncomplete(t *testing.T) {
	phase := t.TempDir()
	old := filepath.Join(phase, "run-001")
	mid := filepath.Join(phase, "run-002")
	newest := filepath.Join(phase, "run-003")
	completeRun(t, old)
	require.NoError(t, os.MkdirAll(mid, 0755)) // no handoff
	completeRun(t, newest)

	base := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(old, base, base))
	require.NoError(t, os.Chtimes(mid, base.Add(time.Minute), base.Add(time.Minute)))
	require.NoError(t, os.Chtimes(newest, base.Add(2*time.Minute), base.Add(2*time.Minute)))

	res, err := FindLatestIncomplete(phase)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, mid, res.Run)
	require.NotNil(t, res.Inspection)
	assert.Equal(t, []string{"missing _handoff.md"}, res.Inspection.Issues)
}

func TestFindLatestIncomplete_PrefersNewest(t *testing.T) {
	phase := t.TempDir()
	a := filepath.Join(phase, "run-001")
	b := filepath.Join(phase, "run-002")
	require.NoError(t, os.MkdirAll(a, 0755))
	require.NoError(t, os.MkdirAll(b, 0755))

	base := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(a, base.Add(time.Minute), base.Add(time.Minute)))
	require.NoError(t, os.Chtimes(b, base, base))

	res, err := FindLatestIncomplete(phase)
	require.NoError(t, err)
	assert.Equal(t, a, res.Run)
}

func TestFindLatestIncomplete_NoneFound(t *testing.T) {
	phase := t.TempDir()
	completeRun(t, filepath.Join(phase, "run-001"), "sa")

	res, err := FindLatestIncomplete(phase)
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, ReasonNoUnfinishedRun, res.Reason)

	res, err = FindLatestIncomplete(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, ReasonNoUnfinishedRun, res.Reason)
}

func TestFindLatestIncomplete_MissingPhaseDir(t *testing.T) {
	res, err := FindLatestIncomplete(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, ReasonPhaseDirMissing, res.Reason)
}
