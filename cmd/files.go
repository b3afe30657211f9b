package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/hookscope/internal/domain"
)

var (
	filesUntracked bool
	filesRef       string
)

// filesCmd represents the files command
var filesCmd = &cobra.Command{
	Use:   "files [path...]",
	Short: "List the files a hook should check",
	Long: `List tracked files under the given paths. Directories expand recursively
but never descend into submodules; file paths are printed as given. With no
paths the whole repository is listed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := requireRepo()
		if err != nil {
			return err
		}

		files, err := repo.ListFiles(cmd.Context(), domain.FileScope{
			Paths:            args,
			IncludeUntracked: filesUntracked,
			Ref:              filesRef,
		})
		if err != nil {
			return fmt.Errorf("failed to list files: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, map[string]interface{}{
				"files": files,
				"count": len(files),
			})
		}

		for _, f := range files {
			fmt.Fprintln(out, f)
		}
		return nil
	},
}

func init() {
	filesCmd.Flags().BoolVarP(&filesUntracked, "untracked", "u", false, "Include untracked files that are not ignored")
	filesCmd.Flags().StringVar(&filesRef, "ref", "", "List the tree of this commit instead of the index")
}
