package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/xvierd/hookscope/internal/domain"
)

// removedSubmodulesCmd represents the removed-submodules command
var removedSubmodulesCmd = &cobra.Command{
	Use:   "removed-submodules",
	Short: "List submodules whose removal is staged",
	Long: `List submodules removed in the index relative to HEAD, with the location
their content can still be read from.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := requireRepo()
		if err != nil {
			return err
		}

		removals, err := repo.StagedSubmoduleRemovals(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list submodule removals: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, map[string]interface{}{
				"submodules": removals,
			})
		}

		if len(removals) == 0 {
			fmt.Fprintln(out, "No submodule removals staged.")
			return nil
		}
		printSubmodules(out, removals)
		return nil
	},
}

func printSubmodules(out io.Writer, removals []domain.Submodule) {
	for _, sm := range removals {
		fmt.Fprintf(out, "%s\t%s\n", sm.Path, sm.URL)
		if !sm.Resolved {
			fmt.Fprintln(out, dim(out, "  content not available locally, registered at "+sm.RegisteredURL))
		}
	}
}
