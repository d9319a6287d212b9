package statusline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/alanmeadows/spwguard/internal/config"
	"github.com/alanmeadows/spwguard/internal/detect"
	"github.com/alanmeadows/spwguard/internal/payload"
	"github.com/alanmeadows/spwguard/internal/specdir"
	"github.com/alanmeadows/spwguard/internal/vcs/vcsmock"
)

func plainStyles() Styles {
	r := lipgloss.NewRenderer(&bytes.Buffer{})
	r.SetColorProfile(termenv.Ascii)
	return NewStyles(r)
}

func TestTaskProgress(t *testing.T) {
	body := "# Tasks\n- [x] one\n  - [ ] two\n- [X] three\n* [x] bullet\nplain - [x] inline\n"
	done, total := TaskProgress(body)
	assert.Equal(t, 2, done)
	assert.Equal(t, 3, total)
}

func TestContextUsed(t *testing.T) {
	tests := []struct {
		remaining float64
		want      int
	}{
		{100, 0},
		{60, 50},
		{20, 100},
		{0, 100},
		{-10, 100},
		{150, 0},
		{49.6, 63},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ContextUsed(tt.remaining), "remaining=%v", tt.remaining)
	}
}

func TestLineRender(t *testing.T) {
	l := Line{
		Model: "Opus", Dir: "proj", Branch: "feat", Dirty: true,
		Spec: "alpha", Phase: "tasks", TasksDone: 1, TasksTotal: 3,
		ContextRemaining: 60, HasContext: true,
	}
	assert.Equal(t, "Opus │ proj │ feat* │ spec:alpha phase:tasks tasks:1/3 │ █████░░░░░ 50%", l.Render(plainStyles()))
}

func TestLineRender_Minimal(t *testing.T) {
	l := Line{Model: "Claude", Dir: "proj"}
	assert.Equal(t, "Claude │ proj", l.Render(plainStyles()))
}

func TestContextBarColors(t *testing.T) {
	r := lipgloss.NewRenderer(&bytes.Buffer{})
	r.SetColorProfile(termenv.ANSI256)
	st := NewStyles(r)

	assert.Equal(t, st.Ok.Render("██████░░░░ 62%"), contextBar(st, 62))
	assert.Equal(t, st.Warn.Render("██████░░░░ 63%"), contextBar(st, 63))
	assert.Equal(t, st.Danger.Render("████████░░ 81%"), contextBar(st, 81))
	assert.Equal(t, st.Critical.Render("█████████░ 95%"), contextBar(st, 95))
	assert.Contains(t, contextBar(st, 10), "\x1b[")
}

func TestFallback(t *testing.T) {
	assert.Equal(t, "SPW │ proj", Fallback("/work/proj"))
}

func TestRender_WithSpec(t *testing.T) {
	root := t.TempDir()
	specDir := filepath.Join(specdir.SpecsRoot(root), "alpha")
	require.NoError(t, os.MkdirAll(specDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(specDir, specdir.RequirementsMD), []byte("# R"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(specDir, specdir.TasksMD),
		[]byte("---\nspec: alpha\n---\n- [x] a\n- [ ] b\n"), 0644))

	ctrl := gomock.NewController(t)
	repo := vcsmock.NewMockRepository(ctrl)
	repo.EXPECT().Root(gomock.Any(), root).Return(root, true).AnyTimes()
	repo.EXPECT().Branch(gomock.Any(), root).Return("main", true)
	repo.EXPECT().Dirty(gomock.Any(), root).Return(false, true)
	repo.EXPECT().Upstream(gomock.Any(), root).Return("", false)
	repo.EXPECT().RefExists(gomock.Any(), root, gomock.Any()).Return(false).AnyTimes()

	det := &detect.Detector{
		Repo:       repo,
		Now:        time.Now,
		LoadConfig: func(string) config.WorkspaceConfig { return config.DefaultConfig() },
	}
	p := payload.Parse([]byte(`{"model": {"display_name": "Opus"}}`))

	got := Render(context.Background(), plainStyles(), p, root, det, repo)
	assert.Equal(t, "Opus │ "+filepath.Base(root)+" │ main │ spec:alpha phase:tasks tasks:1/2", got)
}

func TestRender_NoRepoNoSpec(t *testing.T) {
	dir := t.TempDir()
	got := Render(context.Background(), plainStyles(), payload.Payload{}, dir, detect.New(nil), nil)
	assert.Equal(t, "Claude │ "+filepath.Base(dir), got)
}
