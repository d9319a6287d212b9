package guard

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanmeadows/spwguard/internal/config"
	"github.com/alanmeadows/spwguard/internal/payload"
	"github.com/alanmeadows/spwguard/internal/report"
)

func hooks() config.HooksConfig {
	return config.DefaultConfig().Hooks
}

func titles(vs []report.Violation) []string {
	var out []string
	for _, v := range vs {
		out = append(out, v.Title)
	}
	return out
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name string
		path string
		want []string
	}{
		{"spec-local artifact", ".spec-workflow/specs/alpha/DESIGN-RESEARCH.md", nil},
		{"nested spec-local artifact", ".spec-workflow/specs/alpha/design/_comms/PRD.md", nil},
		{"artifact at root", "DESIGN-RESEARCH.md", []string{"SPW artifact path violation"}},
		{"artifact case-insensitive", "docs/tasks-check.md", []string{"SPW artifact path violation"}},
		{"skills artifact", "SKILLS-EXEC.md", []string{"SPW artifact path violation"}},
		{"prd revision", "notes/PRD-REVISION-PLAN.md", []string{"SPW artifact path violation"}},
		{"artifact directly in specs root", ".spec-workflow/specs/PRD.md", []string{"SPW artifact path violation"}},
		{"ordinary file", "docs/README.md", nil},
		{"near-miss name", "docs/PRDS.md", nil},
		{"retired layout", ".spec-workflow/specs/alpha/_agent-comms/x.md", []string{"Legacy _agent-comms/ path is not allowed"}},
		{"retired name as file", "notes/_agent-comms", nil},
		{"segment-aware retired", "docs/my_agent-comms/x.md", nil},
		{"valid wave stage", ".spec-workflow/specs/a/execution/waves/wave-01/execution/run-001/_handoff.md", nil},
		{"valid wave summary", ".spec-workflow/specs/a/execution/waves/wave-02/_wave-summary.json", nil},
		{"unpadded wave", ".spec-workflow/specs/a/execution/waves/wave-1/execution/x.md", []string{"Wave folder must use zero-padded format"}},
		{"three digit wave", ".spec-workflow/specs/a/execution/waves/wave-001/checkpoint/x.md", []string{"Wave folder must use zero-padded format"}},
		{"file directly in waves", ".spec-workflow/specs/a/execution/waves/notes.md", nil},
		{"unpadded wave as target", ".spec-workflow/specs/a/execution/waves/wave-1", []string{"Wave folder must use zero-padded format"}},
		{"unpadded wave with trailing slash", ".spec-workflow/specs/a/execution/waves/wave-1/", []string{"Wave folder must use zero-padded format"}},
		{"padded wave as target", ".spec-workflow/specs/a/execution/waves/wave-01", nil},
		{"unpadded qa wave as target", ".spec-workflow/specs/a/qa/_comms/qa-exec/waves/wave-3", []string{"QA exec wave folder must use zero-padded format"}},
		{"bad stage", ".spec-workflow/specs/a/execution/waves/wave-03/review/x.md", []string{"Invalid wave stage folder"}},
		{"bad qa wave", ".spec-workflow/specs/a/qa/_comms/qa-exec/waves/w1/run-001/brief.md", []string{"QA exec wave folder must use zero-padded format"}},
		{"good qa wave", ".spec-workflow/specs/a/qa/_comms/qa-exec/waves/wave-01/run-001/brief.md", nil},
		{
			"multiple violations",
			"_agent-comms/execution/waves/wave-1/CHECKPOINT-REPORT.md",
			[]string{"SPW artifact path violation", "Legacy _agent-comms/ path is not allowed", "Wave folder must use zero-padded format"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, titles(Check(tt.path, "", hooks())))
		})
	}
}

func TestCheck_WaveOneDetails(t *testing.T) {
	vs := Check(".spec-workflow/specs/a/execution/waves/wave-1/execution/x.md", "", hooks())
	require.Len(t, vs, 1)
	assert.Equal(t, []string{"Found wave folder: wave-1", "Expected format: wave-01, wave-02, ..."}, vs[0].Details)
}

func TestCheck_Toggles(t *testing.T) {
	path := "_agent-comms/DESIGN-RESEARCH.md"

	h := hooks()
	h.GuardPaths = false
	assert.Equal(t, []string{"Legacy _agent-comms/ path is not allowed"}, titles(Check(path, "", h)))

	h = hooks()
	h.GuardWaveLayout = false
	assert.Equal(t, []string{"SPW artifact path violation"}, titles(Check(path, "", h)))

	h.GuardPaths = false
	assert.Empty(t, Check(path, "", h))
}

func TestCheck_Idempotent(t *testing.T) {
	path := "x/execution/waves/wave-7/bogus/TASKS-CHECK.md"
	first := Check(path, "", hooks())
	second := Check(path, "", hooks())
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestCheck_AbsolutePath(t *testing.T) {
	root := filepath.FromSlash("/work/project")
	inside := filepath.Join(root, ".spec-workflow", "specs", "alpha", "PRD.md")
	assert.Empty(t, Check(inside, root, hooks()))

	outside := filepath.Join(root, "PRD.md")
	vs := Check(outside, root, hooks())
	require.Len(t, vs, 1)
	assert.Equal(t, "File: PRD.md", vs[0].Details[0])
}

func TestCheck_EmptyPath(t *testing.T) {
	assert.Empty(t, Check("", "", hooks()))
	assert.Empty(t, Check(".", "", hooks()))
}

func TestNewTarget(t *testing.T) {
	tgt := NewTarget(`a\b/./c/../d.md`, "")
	assert.Equal(t, "a/b/d.md", tgt.Rel)
	assert.Equal(t, []string{"a", "b", "d.md"}, tgt.Segments)
	assert.Equal(t, "d.md", tgt.Base())
}

func TestResolveTarget(t *testing.T) {
	root := filepath.FromSlash("/work/project")

	p := payload.Parse([]byte(`{"cwd": "/work/project/sub", "tool_input": {"file_path": "notes/PRD.md"}}`))
	rel, ok := ResolveTarget(p, root)
	require.True(t, ok)
	assert.Equal(t, "sub/notes/PRD.md", rel)

	p = payload.Parse([]byte(`{"tool_input": {"file_path": "PRD.md"}}`))
	rel, ok = ResolveTarget(p, root)
	require.True(t, ok)
	assert.Equal(t, "PRD.md", rel)

	p = payload.Parse([]byte(`{"tool_input": {"file_path": "/work/project/.spec-workflow/specs/a/design.md"}}`))
	rel, ok = ResolveTarget(p, root)
	require.True(t, ok)
	assert.Equal(t, ".spec-workflow/specs/a/design.md", rel)

	_, ok = ResolveTarget(payload.Parse([]byte(`{"tool_input": {}}`)), root)
	assert.False(t, ok)
}

func TestLayout_Custom(t *testing.T) {
	l := DefaultLayout
	l.WaveEntries = []string{"execution"}
	vs := l.Check("s/execution/waves/wave-01/checkpoint/x.md", "", hooks())
	require.Len(t, vs, 1)
	assert.Equal(t, "Allowed wave entries: execution", vs[0].Details[1])
}
