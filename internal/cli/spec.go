package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/alanmeadows/spwguard/internal/detect"
	"github.com/alanmeadows/spwguard/internal/specdir"
	"github.com/alanmeadows/spwguard/internal/statusline"
	"github.com/alanmeadows/spwguard/internal/store"
	"github.com/alanmeadows/spwguard/internal/vcs"
)

var specCmd = &cobra.Command{
	Use:   "spec",
	Short: "Inspect specifications",
	Long:  `Inspect the specifications under .spec-workflow/specs/.`,
}

var specJSONFlag bool

func init() {
	specActiveCmd.Flags().BoolVar(&specJSONFlag, "json", false, "Output JSON")
	specCmd.AddCommand(specActiveCmd)
	specCmd.AddCommand(specListCmd)
}

var specActiveCmd = &cobra.Command{
	Use:   "active",
	Short: "Print the active specification",
	Long: `Print the active specification and the tier that found it: a cached
choice, the files changed on the current branch, or the most recently edited
lifecycle document.`,
	Example: `  spwguard spec active
  spwguard spec active --json -C ~/src/project`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := workspaceDir()
		if err != nil {
			return err
		}

		ref, ok := detect.New(vcs.NewGit()).DetectActiveSpec(cmd.Context(), dir)
		if !ok {
			return fmt.Errorf("no active spec found under %s", dir)
		}

		if specJSONFlag {
			data, err := json.Marshal(ref)
			if err != nil {
				return fmt.Errorf("marshaling spec: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", ref.Name, ref.Source)
		return nil
	},
}

var specListCmd = &cobra.Command{
	Use:   "list",
	Short: "List specifications",
	Long: `Display every specification with its furthest lifecycle phase, task
progress and the time its lifecycle documents last changed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := workspaceDir()
		if err != nil {
			return err
		}
		root := dir
		if r, ok := vcs.NewGit().Root(cmd.Context(), dir); ok {
			root = r
		}

		specs := specdir.List(specdir.SpecsRoot(root))
		if len(specs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No specifications found.")
			return nil
		}

		headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
		cellStyle := lipgloss.NewStyle().Padding(0, 1)

		rows := make([][]string, 0, len(specs))
		for _, s := range specs {
			phase := s.Phase()
			if phase == "" {
				phase = "-"
			}
			tasks := "-"
			if body, err := store.ReadBody(s.TasksPath); err == nil {
				if done, total := statusline.TaskProgress(body); total > 0 {
					tasks = fmt.Sprintf("%d/%d", done, total)
				}
			}
			updated := "-"
			if t, ok := s.LatestDocTime(); ok {
				updated = t.Format(time.DateTime)
			}
			rows = append(rows, []string{s.Name, phase, tasks, updated})
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("NAME", "PHASE", "TASKS", "UPDATED").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			})

		fmt.Fprintln(cmd.OutOrStdout(), t)
		return nil
	},
}
