package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/alanmeadows/spwguard/internal/config"
	"github.com/alanmeadows/spwguard/internal/vcs"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect spwguard configuration",
	Long: `Show the configuration resolved from .spec-workflow/spw-config.toml (or the
legacy .spw/spw-config.toml) with defaults and environment overrides applied.`,
}

var configJSONFlag bool

func init() {
	configShowCmd.Flags().BoolVar(&configJSONFlag, "json", false, "Output JSON instead of YAML")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
}

// resolveConfig loads the config for the repository containing the working
// directory, or for the directory itself outside a repository.
func resolveConfig(cmd *cobra.Command) (config.WorkspaceConfig, error) {
	dir, err := workspaceDir()
	if err != nil {
		return config.WorkspaceConfig{}, err
	}
	if root, ok := vcs.NewGit().Root(cmd.Context(), dir); ok {
		dir = root
	}
	return config.Resolve(dir), nil
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show resolved configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}

		var data []byte
		if configJSONFlag {
			data, err = json.MarshalIndent(cfg, "", "  ")
		} else {
			data, err = yaml.Marshal(cfg)
		}
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(data), "\n"))
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <section.key>",
	Short: "Get a configuration value",
	Long: `Print a single configuration value. Known keys report their effective
value, including defaults; other keys are read from the file as written.`,
	Example: `  spwguard config get hooks.enforcement_mode
  spwguard config get statusline.base_branches`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}

		key := args[0]
		v, ok := effectiveValues(cfg)[key]
		if !ok {
			v, ok = cfg.Document().Lookup(key)
		}
		if !ok {
			return fmt.Errorf("config key %q is not set", key)
		}

		fmt.Fprintln(cmd.OutOrStdout(), formatValue(v))
		return nil
	},
}

func effectiveValues(cfg config.WorkspaceConfig) map[string]any {
	h, s := cfg.Hooks, cfg.Statusline
	return map[string]any{
		"hooks.enabled":                   h.Enabled,
		"hooks.enforcement_mode":          string(h.EnforcementMode),
		"hooks.verbose":                   h.Verbose,
		"hooks.recent_run_window_minutes": h.RecentRunWindowMinutes,
		"hooks.guard_prompt_require_spec": h.GuardPromptRequireSpec,
		"hooks.guard_paths":               h.GuardPaths,
		"hooks.guard_wave_layout":         h.GuardWaveLayout,
		"hooks.guard_stop_handoff":        h.GuardStopHandoff,
		"statusline.base_branches":        s.BaseBranches,
		"statusline.cache_ttl_seconds":    s.CacheTTLSeconds,
		"statusline.sticky_spec":          s.StickySpec,
	}
}

func formatValue(v any) string {
	if list, ok := v.([]string); ok {
		return strings.Join(list, ",")
	}
	return fmt.Sprint(v)
}
