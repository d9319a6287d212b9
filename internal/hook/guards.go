package hook

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/alanmeadows/spwguard/internal/cache"
	"github.com/alanmeadows/spwguard/internal/detect"
	"github.com/alanmeadows/spwguard/internal/guard"
	"github.com/alanmeadows/spwguard/internal/report"
	"github.com/alanmeadows/spwguard/internal/runs"
	"github.com/alanmeadows/spwguard/internal/specdir"
	sl "github.com/alanmeadows/spwguard/internal/statusline"
)

// maxStopDetails caps the run lines listed by the stop guard.
const maxStopDetails = 20

func guardPaths(_ context.Context, inv *Invocation) int {
	h := inv.Config.Hooks
	if !h.Enabled || (!h.GuardPaths && !h.GuardWaveLayout) {
		return report.ExitAllow
	}
	rel, ok := guard.ResolveTarget(inv.Payload, inv.Root)
	if !ok {
		return report.ExitAllow
	}
	inv.Report.ReportAll(guard.Check(rel, inv.Root, h))
	return inv.Report.ExitCode()
}

func guardStop(_ context.Context, inv *Invocation) int {
	h := inv.Config.Hooks
	if !h.Enabled || !h.GuardStopHandoff {
		return report.ExitAllow
	}
	lines := runs.SweepRecent(inv.Root, h.RecentRunWindowMinutes, inv.Env.now())
	if len(lines) == 0 {
		inv.Report.Info("Stop guard passed.")
		return report.ExitAllow
	}
	details := []string{fmt.Sprintf("Window: last %d minute(s)", max(1, h.RecentRunWindowMinutes))}
	details = append(details, lines[:min(len(lines), maxStopDetails)]...)
	inv.Report.Report(report.Violation{
		Title:   "Recent run folders are missing required handoff files",
		Details: details,
	})
	return inv.Report.ExitCode()
}

func guardPrompt(ctx context.Context, inv *Invocation) int {
	h := inv.Config.Hooks
	if !h.Enabled {
		return report.ExitAllow
	}
	cmd, ok := guard.FirstCommand(inv.Payload.Prompt())
	if !ok || !cmd.RequiresSpec() {
		return report.ExitAllow
	}

	if spec := cmd.SpecArg(); spec != "" {
		store := cache.New(specdir.CachePath(cacheRoot(ctx, inv)))
		store.Now = inv.Env.Now
		store.Write(spec, cache.Meta{Source: cache.SourceCommand, Sticky: true})
		return report.ExitAllow
	}

	if h.GuardPromptRequireSpec {
		inv.Report.Report(guard.MissingSpec(cmd))
	}
	return inv.Report.ExitCode()
}

// cacheRoot is the repository root when one exists, so the detector finds
// what the prompt guard wrote.
func cacheRoot(ctx context.Context, inv *Invocation) string {
	if inv.Env.Repo != nil {
		if root, ok := inv.Env.Repo.Root(ctx, inv.Root); ok {
			return root
		}
	}
	return inv.Root
}

func statusline(ctx context.Context, inv *Invocation) int {
	dir := inv.Payload.First("workspace.current_dir", "cwd")
	if dir == "" {
		dir = inv.Root
	}

	r := lipgloss.NewRenderer(inv.Env.Stdout)
	if inv.Env.Plain {
		r.SetColorProfile(termenv.Ascii)
	} else {
		r.SetColorProfile(termenv.ANSI256)
	}

	det := &detect.Detector{Repo: inv.Env.Repo, Now: inv.Env.Now, LoadConfig: inv.Env.LoadConfig}
	line := sl.Render(ctx, sl.NewStyles(r), inv.Payload, dir, det, inv.Env.Repo)
	fmt.Fprint(inv.Env.Stdout, line)
	return report.ExitAllow
}
