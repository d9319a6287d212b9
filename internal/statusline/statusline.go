// Package statusline renders the one-line workflow status shown by the host.
package statusline

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alanmeadows/spwguard/internal/detect"
	"github.com/alanmeadows/spwguard/internal/payload"
	"github.com/alanmeadows/spwguard/internal/specdir"
	"github.com/alanmeadows/spwguard/internal/store"
	"github.com/alanmeadows/spwguard/internal/vcs"
)

const (
	separator    = " │ "
	barSegments  = 10
	defaultModel = "Claude"
)

var taskLineRe = regexp.MustCompile(`(?m)^\s*-\s*\[( |x|X)\]\s+`)

// Line holds everything shown in the status line.
type Line struct {
	Model  string
	Dir    string
	Branch string
	Dirty  bool

	Spec       string
	Phase      string
	TasksDone  int
	TasksTotal int

	ContextRemaining float64
	HasContext       bool
}

// Collect gathers the status for dir. Missing pieces are left empty.
func Collect(ctx context.Context, p payload.Payload, dir string, det *detect.Detector, repo vcs.Repository) Line {
	l := Line{Model: p.Model(), Dir: filepath.Base(dir)}
	if l.Model == "" {
		l.Model = defaultModel
	}
	l.ContextRemaining, l.HasContext = p.ContextRemaining()

	root := dir
	if repo != nil {
		if r, ok := repo.Root(ctx, dir); ok {
			root = r
			l.Branch, _ = repo.Branch(ctx, dir)
			l.Dirty, _ = repo.Dirty(ctx, dir)
		}
	}

	if det == nil {
		return l
	}
	ref, ok := det.DetectActiveSpec(ctx, dir)
	if !ok {
		return l
	}
	l.Spec = ref.Name
	for _, s := range specdir.List(specdir.SpecsRoot(root)) {
		if s.Name != ref.Name {
			continue
		}
		l.Phase = s.Phase()
		if body, err := store.ReadBody(s.TasksPath); err == nil {
			l.TasksDone, l.TasksTotal = TaskProgress(body)
		}
	}
	return l
}

// TaskProgress counts checked and total "- [ ]" items in a tasks document.
func TaskProgress(body string) (done, total int) {
	for _, m := range taskLineRe.FindAllStringSubmatch(body, -1) {
		total++
		if m[1] != " " {
			done++
		}
	}
	return done, total
}

// ContextUsed converts the remaining-context percentage into the share of the
// usable window consumed. The host compacts at 80% usage, so 80% raw usage
// reads as 100.
func ContextUsed(remaining float64) int {
	rem := math.Round(remaining)
	raw := math.Max(0, math.Min(100, 100-rem))
	return int(math.Min(100, math.Round(raw/80*100)))
}

// Styles holds the lipgloss styles used by Render.
type Styles struct {
	Dim, Bold, Spec            lipgloss.Style
	Ok, Warn, Danger, Critical lipgloss.Style
}

// NewStyles builds the styles for r.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Dim:      r.NewStyle().Faint(true),
		Bold:     r.NewStyle().Bold(true),
		Spec:     r.NewStyle().Foreground(lipgloss.Color("14")),
		Ok:       r.NewStyle().Foreground(lipgloss.Color("2")),
		Warn:     r.NewStyle().Foreground(lipgloss.Color("3")),
		Danger:   r.NewStyle().Foreground(lipgloss.Color("208")),
		Critical: r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}

// Render formats l as a single line.
func (l Line) Render(st Styles) string {
	parts := []string{st.Dim.Render(l.Model), st.Dim.Render(l.Dir)}
	if l.Branch != "" {
		b := l.Branch
		if l.Dirty {
			b += "*"
		}
		parts = append(parts, st.Bold.Render(b))
	}
	if l.Spec != "" {
		seg := []string{"spec:" + l.Spec}
		if l.Phase != "" {
			seg = append(seg, "phase:"+l.Phase)
		}
		if l.TasksTotal > 0 {
			seg = append(seg, fmt.Sprintf("tasks:%d/%d", l.TasksDone, l.TasksTotal))
		}
		parts = append(parts, st.Spec.Render(strings.Join(seg, " ")))
	}
	if l.HasContext {
		parts = append(parts, contextBar(st, ContextUsed(l.ContextRemaining)))
	}
	return strings.Join(parts, separator)
}

func contextBar(st Styles, used int) string {
	filled := used * barSegments / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barSegments-filled)
	text := fmt.Sprintf("%s %d%%", bar, used)
	switch {
	case used < 63:
		return st.Ok.Render(text)
	case used < 81:
		return st.Warn.Render(text)
	case used < 95:
		return st.Danger.Render(text)
	default:
		return st.Critical.Render(text)
	}
}

// Fallback is the minimal line shown when rendering fails.
func Fallback(dir string) string {
	return "SPW" + separator + filepath.Base(dir)
}

// Render collects and formats the status line for dir. Any panic while
// collecting degrades to Fallback.
func Render(ctx context.Context, st Styles, p payload.Payload, dir string, det *detect.Detector, repo vcs.Repository) (line string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("statusline failed", "panic", r)
			line = Fallback(dir)
		}
	}()
	return Collect(ctx, p, dir, det, repo).Render(st)
}
