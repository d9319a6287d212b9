package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alanmeadows/spwguard/internal/logging"
)

var (
	verbose bool
	workDir string
	rootCmd = &cobra.Command{
		Use:   "spwguard",
		Short: "Workflow guards and active-spec detection for spec-driven pipelines",
		Long: `spwguard enforces the on-disk layout of a .spec-workflow/ pipeline from host
hooks, checks multi-agent run folders for their handoff files, and reports the
active specification for status lines.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose/debug output")
	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "C", "", "Workspace directory (default: current directory)")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose)
	}

	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(specCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(configCmd)
}

// ExitError carries a process exit status out of a command without printing
// an error message.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

func Execute() error {
	return rootCmd.Execute()
}

// workspaceDir returns --dir, or the current directory.
func workspaceDir() (string, error) {
	if workDir != "" {
		return workDir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return wd, nil
}
