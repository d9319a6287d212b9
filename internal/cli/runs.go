package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/alanmeadows/spwguard/internal/runs"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect multi-agent run folders",
	Long: `Inspect run folders for the _handoff.md file and the brief.md, report.md
and status.json every subagent must leave behind.`,
}

var runsStrictFlag bool

func init() {
	runsInspectCmd.Flags().BoolVar(&runsStrictFlag, "strict", false, "Exit with status 2 when the run is incomplete")
	runsCmd.AddCommand(runsInspectCmd)
	runsCmd.AddCommand(runsLatestCmd)
}

func resolveArg(arg string) (string, error) {
	if filepath.IsAbs(arg) {
		return arg, nil
	}
	dir, err := workspaceDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, arg), nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

var runsInspectCmd = &cobra.Command{
	Use:     "inspect <run-dir>",
	Short:   "Check one run folder for completeness",
	Example: `  spwguard runs inspect .spec-workflow/specs/billing/discover/_comms/run-003`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runDir, err := resolveArg(args[0])
		if err != nil {
			return err
		}
		in, err := runs.Inspect(runDir)
		if err != nil {
			return err
		}
		if err := printJSON(cmd, in); err != nil {
			return err
		}
		if runsStrictFlag && !in.Complete {
			return &ExitError{Code: 2}
		}
		return nil
	},
}

var runsLatestCmd = &cobra.Command{
	Use:   "latest-unfinished <phase-dir>",
	Short: "Find the most recent incomplete run in a phase folder",
	Long: `Order the run folders directly under <phase-dir> by modification time,
newest first, and report the first one that is incomplete.`,
	Example: `  spwguard runs latest-unfinished .spec-workflow/specs/billing/discover/_comms`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		phaseDir, err := resolveArg(args[0])
		if err != nil {
			return err
		}
		latest, err := runs.FindLatestIncomplete(phaseDir)
		if err != nil {
			return err
		}
		return printJSON(cmd, latest)
	},
}
