package config

// EnforcementMode selects what happens when a guard detects a violation.
type EnforcementMode string

const (
	// EnforcementWarn reports violations and lets the host continue.
	EnforcementWarn EnforcementMode = "warn"
	// EnforcementBlock reports the first violation and stops the host action.
	EnforcementBlock EnforcementMode = "block"
)

// Source records which candidate file a WorkspaceConfig was loaded from.
type Source string

const (
	SourceCanonical Source = "canonical"
	SourceLegacy    Source = "legacy"
	SourceMissing   Source = "missing"
)

// Provenance describes where a WorkspaceConfig came from.
type Provenance struct {
	Source Source `json:"source" yaml:"source"`
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
	// Skipped lists "section.key" entries whose values were malformed.
	Skipped []string `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// WorkspaceConfig is the typed view of spw-config.toml used by the guards.
type WorkspaceConfig struct {
	Hooks      HooksConfig      `json:"hooks" yaml:"hooks"`
	Statusline StatuslineConfig `json:"statusline" yaml:"statusline"`
	Provenance Provenance       `json:"provenance" yaml:"provenance"`

	doc *Document
}

// HooksConfig holds the [hooks] section.
type HooksConfig struct {
	Enabled                bool            `json:"enabled" yaml:"enabled"`
	EnforcementMode        EnforcementMode `json:"enforcement_mode" yaml:"enforcement_mode"`
	Verbose                bool            `json:"verbose" yaml:"verbose"`
	RecentRunWindowMinutes int             `json:"recent_run_window_minutes" yaml:"recent_run_window_minutes"`
	GuardPromptRequireSpec bool            `json:"guard_prompt_require_spec" yaml:"guard_prompt_require_spec"`
	GuardPaths             bool            `json:"guard_paths" yaml:"guard_paths"`
	GuardWaveLayout        bool            `json:"guard_wave_layout" yaml:"guard_wave_layout"`
	GuardStopHandoff       bool            `json:"guard_stop_handoff" yaml:"guard_stop_handoff"`
}

// Blocking reports whether violations should stop the host action.
func (h HooksConfig) Blocking() bool {
	return h.EnforcementMode == EnforcementBlock
}

// StatuslineConfig holds the [statusline] section.
type StatuslineConfig struct {
	BaseBranches    []string `json:"base_branches" yaml:"base_branches"`
	CacheTTLSeconds int      `json:"cache_ttl_seconds" yaml:"cache_ttl_seconds"`
	StickySpec      bool     `json:"sticky_spec" yaml:"sticky_spec"`
}

// DefaultConfig returns a WorkspaceConfig with all default values.
func DefaultConfig() WorkspaceConfig {
	return WorkspaceConfig{
		Hooks: HooksConfig{
			Enabled:                true,
			EnforcementMode:        EnforcementWarn,
			Verbose:                true,
			RecentRunWindowMinutes: 30,
			GuardPromptRequireSpec: true,
			GuardPaths:             true,
			GuardWaveLayout:        true,
			GuardStopHandoff:       true,
		},
		Statusline: StatuslineConfig{
			BaseBranches:    []string{"main", "master", "staging", "develop"},
			CacheTTLSeconds: 10,
			StickySpec:      true,
		},
		Provenance: Provenance{Source: SourceMissing},
	}
}

// Get returns the raw value of section.key from the loaded file, if any.
// Keys absent from the file report false even when a default exists.
func (c WorkspaceConfig) Get(section, key string) (any, bool) {
	return c.doc.Get(section, key)
}

// Document returns the parsed file backing this config, or nil.
func (c WorkspaceConfig) Document() *Document {
	return c.doc
}
