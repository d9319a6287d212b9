package cli

import (
	"github.com/spf13/cobra"

	"github.com/alanmeadows/spwguard/internal/hook"
	"github.com/alanmeadows/spwguard/internal/logging"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Run a guard for a host workflow event",
	Long: `Run a guard for a host workflow event. The event payload is read as JSON
from stdin. Violations are written to stderr as "[guard]" lines; the exit
status is 0 to allow the host action and 2 to block it.`,
}

var hookDescriptions = map[string]string{
	hook.EventGuardPaths:  "Validate the path a Write/Edit tool call targets",
	hook.EventGuardStop:   "Check recent run folders for missing handoff files",
	hook.EventGuardPrompt: "Require a spec name on /spw: commands that need one",
	hook.EventStatusline:  "Print the workflow status line",
}

func init() {
	for _, event := range hook.Events() {
		hookCmd.AddCommand(newHookEventCmd(event))
	}
}

func newHookEventCmd(event string) *cobra.Command {
	return &cobra.Command{
		Use:   event,
		Short: hookDescriptions[event],
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env := hook.OSEnv()
			env.Stdin = cmd.InOrStdin()
			env.Stdout = cmd.OutOrStdout()
			env.Stderr = cmd.ErrOrStderr()
			if workDir != "" {
				env.Getwd = func() (string, error) { return workDir, nil }
			}

			code := hook.Run(cmd.Context(), event, env)
			logging.For("hook").Debug("hook finished", "event", event, "code", code)
			if code != 0 {
				return &ExitError{Code: code}
			}
			return nil
		},
	}
}
