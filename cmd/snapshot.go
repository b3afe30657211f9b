package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/hookscope/internal/adapters/git"
)

// snapshotCmd represents the snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot [ref]",
	Short: "Show HEAD, staged submodule removals and branches containing ref",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := requireRepo()
		if err != nil {
			return err
		}
		var ref string
		if len(args) == 1 {
			ref = args[0]
		}

		snap, err := repo.Snapshot(cmd.Context(), ref)
		if err != nil {
			return fmt.Errorf("failed to take snapshot: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, snap)
		}

		head := snap.Repository
		fmt.Fprintf(out, "Repository: %s\n", head.Root)
		switch {
		case head.Detached:
			fmt.Fprintf(out, "HEAD:       detached at %s\n", git.ShortCommit(head.HeadCommit))
		case head.HeadCommit == "":
			fmt.Fprintf(out, "HEAD:       %s (no commits yet)\n", head.HeadBranch)
		default:
			fmt.Fprintf(out, "HEAD:       %s at %s\n", head.HeadBranch, git.ShortCommit(head.HeadCommit))
		}

		fmt.Fprintln(out)
		if len(snap.Removals) == 0 {
			fmt.Fprintln(out, "No submodule removals staged.")
		} else {
			fmt.Fprintf(out, "Staged submodule removals (%d):\n", len(snap.Removals))
			printSubmodules(out, snap.Removals)
		}

		if ref != "" {
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Branches containing %s (%d):\n", ref, len(snap.Branches))
			for _, b := range snap.Branches {
				fmt.Fprintf(out, "  %s\n", b)
			}
		}
		return nil
	},
}
