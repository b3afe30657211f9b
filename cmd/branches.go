package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
	"github.com/xvierd/hookscope/internal/domain"
	"github.com/xvierd/hookscope/internal/services"
)

// maxSuggestions caps the "did you mean" list.
const maxSuggestions = 3

// branchesCmd represents the branches command
var branchesCmd = &cobra.Command{
	Use:   "branches [ref]",
	Short: "List local branches, or those containing a commit",
	Long: `With a ref, list the local branches whose history contains that commit.
Without one, list every local branch.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := requireRepo()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		var branches []domain.Branch
		var ref string
		if len(args) == 1 {
			ref = args[0]
			branches, err = repo.BranchesContainingCommit(ctx, ref)
			if errors.Is(err, domain.ErrInvalidRef) {
				if hint := suggestBranches(ctx, repo, ref); hint != "" {
					return fmt.Errorf("%w\n%s", err, hint)
				}
			}
		} else {
			branches, err = repo.ListBranches(ctx)
		}
		if err != nil {
			return fmt.Errorf("failed to list branches: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			data := map[string]interface{}{"branches": branches}
			if ref != "" {
				data["ref"] = ref
			}
			return printJSON(out, data)
		}

		for _, b := range branches {
			fmt.Fprintln(out, b)
		}
		return nil
	},
}

// suggestBranches offers branch names close to a ref that did not resolve.
func suggestBranches(ctx context.Context, repo *services.RepoService, ref string) string {
	branches, err := repo.ListBranches(ctx)
	if err != nil || len(branches) == 0 {
		return ""
	}
	names := make([]string, len(branches))
	for i, b := range branches {
		names[i] = string(b)
	}

	matches := fuzzy.Find(ref, names)
	var picks []string
	for _, match := range matches {
		if len(picks) == maxSuggestions {
			break
		}
		picks = append(picks, match.Str)
	}
	if len(picks) == 0 {
		return ""
	}
	return "Did you mean: " + strings.Join(picks, ", ") + "?"
}
