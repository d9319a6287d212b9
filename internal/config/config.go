// Package config resolves spw-config.toml into a typed WorkspaceConfig.
package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alanmeadows/spwguard/internal/specdir"
)

// ResolvePath returns the config file to use for workspaceRoot: the canonical
// path if it exists, else the legacy path, else ("", SourceMissing).
func ResolvePath(workspaceRoot string) (string, Source) {
	canonical := filepath.Join(workspaceRoot, specdir.CanonicalConfig)
	if _, err := os.Stat(canonical); err == nil {
		return canonical, SourceCanonical
	}
	legacy := filepath.Join(workspaceRoot, specdir.LegacyConfig)
	if _, err := os.Stat(legacy); err == nil {
		return legacy, SourceLegacy
	}
	return "", SourceMissing
}

// Resolve loads the workspace config. It never fails: a missing or unreadable
// file yields defaults, and malformed values keep their default.
func Resolve(workspaceRoot string) WorkspaceConfig {
	cfg := DefaultConfig()

	path, source := ResolvePath(workspaceRoot)
	if source != SourceMissing {
		cfg.Provenance = Provenance{Source: source, Path: path}
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Debug("config unreadable, using defaults", "path", path, "error", err)
		} else {
			doc, err := Parse(bytes.NewReader(data))
			if err != nil {
				slog.Debug("config partially read", "path", path, "error", err)
			}
			apply(&cfg, doc)
			cfg.Provenance.Skipped = doc.Skipped
			if len(doc.Skipped) > 0 {
				slog.Debug("config keys skipped", "path", path, "keys", doc.Skipped)
			}
		}
	}

	applyEnvOverrides(&cfg)
	return cfg
}

// apply overlays the values in doc onto cfg, keeping defaults for absent keys.
func apply(cfg *WorkspaceConfig, doc *Document) {
	cfg.doc = doc

	h := &cfg.Hooks
	h.Enabled = doc.Bool("hooks", "enabled", h.Enabled)
	h.EnforcementMode = normalizeEnforcementMode(doc.String("hooks", "enforcement_mode", string(h.EnforcementMode)))
	h.Verbose = doc.Bool("hooks", "verbose", h.Verbose)
	h.RecentRunWindowMinutes = doc.Int("hooks", "recent_run_window_minutes", h.RecentRunWindowMinutes)
	h.GuardPromptRequireSpec = doc.Bool("hooks", "guard_prompt_require_spec", h.GuardPromptRequireSpec)
	h.GuardPaths = doc.Bool("hooks", "guard_paths", h.GuardPaths)
	h.GuardWaveLayout = doc.Bool("hooks", "guard_wave_layout", h.GuardWaveLayout)
	h.GuardStopHandoff = doc.Bool("hooks", "guard_stop_handoff", h.GuardStopHandoff)

	s := &cfg.Statusline
	if branches := doc.Strings("statusline", "base_branches", nil); len(branches) > 0 {
		s.BaseBranches = branches
	}
	s.CacheTTLSeconds = doc.Int("statusline", "cache_ttl_seconds", s.CacheTTLSeconds)
	s.StickySpec = doc.Bool("statusline", "sticky_spec", s.StickySpec)
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *WorkspaceConfig) {
	if v := os.Getenv("SPW_HOOKS_ENABLED"); v != "" {
		cfg.Hooks.Enabled = ToBool(v, cfg.Hooks.Enabled)
	}
	if v := os.Getenv("SPW_ENFORCEMENT_MODE"); v != "" {
		cfg.Hooks.EnforcementMode = normalizeEnforcementMode(v)
	}
}

func normalizeEnforcementMode(mode string) EnforcementMode {
	if strings.EqualFold(strings.TrimSpace(mode), string(EnforcementBlock)) {
		return EnforcementBlock
	}
	return EnforcementWarn
}
