// Package hook runs the guard checks a host triggers at workflow events. Each
// event reads one JSON payload from stdin and maps its findings to an exit
// status. Every handler fails open.
package hook

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"sort"
	"time"

	"github.com/alanmeadows/spwguard/internal/config"
	"github.com/alanmeadows/spwguard/internal/payload"
	"github.com/alanmeadows/spwguard/internal/report"
	"github.com/alanmeadows/spwguard/internal/vcs"
)

// Event names.
const (
	EventGuardPaths  = "guard-paths"
	EventGuardStop   = "guard-stop"
	EventGuardPrompt = "guard-prompt"
	EventStatusline  = "statusline"
)

// maxPayload bounds how much of stdin is read.
const maxPayload = 4 << 20

// Env is the process environment a handler runs in.
type Env struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Getenv func(string) string
	Getwd  func() (string, error)
	Repo   vcs.Repository
	Now    func() time.Time

	// LoadConfig resolves the workspace config. Defaults to config.Resolve.
	LoadConfig func(root string) config.WorkspaceConfig
	// Plain disables ANSI styling of the status line.
	Plain bool
}

// OSEnv returns an Env wired to the real process.
func OSEnv() Env {
	return Env{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Getenv: os.Getenv,
		Getwd:  os.Getwd,
		Repo:   vcs.NewGit(),
		Now:    time.Now,
	}
}

func (e Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Env) loadConfig(root string) config.WorkspaceConfig {
	if e.LoadConfig != nil {
		return e.LoadConfig(root)
	}
	return config.Resolve(root)
}

// Handler processes one event and returns the process exit status.
type Handler func(ctx context.Context, inv *Invocation) int

// Invocation is the per-event state shared by handlers.
type Invocation struct {
	Env     Env
	Payload payload.Payload
	Root    string
	Config  config.WorkspaceConfig
	Report  *report.Reporter
}

var handlers = map[string]Handler{
	EventGuardPaths:  guardPaths,
	EventGuardStop:   guardStop,
	EventGuardPrompt: guardPrompt,
	EventStatusline:  statusline,
}

// Events lists the supported event names in sorted order.
func Events() []string {
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run handles event and returns the exit status. Unknown events, unreadable
// input and panics all allow the host action.
func Run(ctx context.Context, event string, env Env) (code int) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("hook panicked", "event", event, "panic", r, "stack", string(debug.Stack()))
			code = report.ExitAllow
		}
	}()

	h, ok := handlers[event]
	if !ok {
		slog.Debug("unknown hook event", "event", event)
		return report.ExitAllow
	}

	inv := newInvocation(env)
	return h(ctx, inv)
}

func newInvocation(env Env) *Invocation {
	var data []byte
	if env.Stdin != nil {
		var err error
		data, err = io.ReadAll(io.LimitReader(env.Stdin, maxPayload))
		if err != nil {
			slog.Debug("reading hook payload", "error", err)
		}
	}
	if env.Stderr == nil {
		env.Stderr = io.Discard
	}
	if env.Stdout == nil {
		env.Stdout = io.Discard
	}

	p := payload.Parse(data)
	root := p.WorkspaceRoot(env.Getenv, env.Getwd)
	cfg := env.loadConfig(root)
	slog.Debug("hook config resolved", "root", root, "source", cfg.Provenance.Source, "mode", cfg.Hooks.EnforcementMode)

	return &Invocation{
		Env:     env,
		Payload: p,
		Root:    root,
		Config:  cfg,
		Report:  report.New(env.Stderr, cfg.Hooks.Blocking(), cfg.Hooks.Verbose),
	}
}
