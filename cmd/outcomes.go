package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/hookscope/internal/domain"
)

var (
	outcomesLimit  int
	outcomesHook   string
	outcomesStatus string
)

// outcomesCmd represents the outcomes command
var outcomesCmd = &cobra.Command{
	Use:   "outcomes",
	Short: "List recorded hook outcomes",
	Long:  `List audited hook outcomes, newest first, optionally for one hook or status.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var records []*domain.OutcomeRecord
		var err error
		switch {
		case outcomesStatus != "":
			records, err = app.hooks.StatusOutcomes(ctx, outcomesStatus)
			if err == nil && outcomesHook != "" {
				records = filterHook(records, outcomesHook)
			}
		case outcomesHook != "":
			records, err = app.hooks.HookOutcomes(ctx, outcomesHook)
		default:
			records, err = app.hooks.RecentOutcomes(ctx, outcomesLimit)
		}
		if err != nil {
			return err
		}
		if len(records) > outcomesLimit {
			records = records[:outcomesLimit]
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			var list []map[string]interface{}
			for _, rec := range records {
				list = append(list, map[string]interface{}{
					"id":          rec.ID,
					"hook":        rec.Hook,
					"status":      string(rec.Outcome.Status),
					"diagnostics": rec.Outcome.Diagnostics,
					"recorded_at": rec.RecordedAt.Format("2006-01-02T15:04:05"),
				})
			}
			return printJSON(out, map[string]interface{}{
				"outcomes": list,
				"count":    len(list),
			})
		}

		if len(records) == 0 {
			fmt.Fprintln(out, "No outcomes recorded.")
			return nil
		}

		for _, rec := range records {
			fmt.Fprintf(out, "%s  %-5s  %s  (%d diagnostics, ID: %s)\n",
				rec.RecordedAt.Format("2006-01-02 15:04:05"),
				statusLabel(out, rec.Outcome.Status),
				rec.Hook,
				len(rec.Outcome.Diagnostics),
				rec.ID[:8],
			)
		}
		return nil
	},
}

func init() {
	outcomesCmd.Flags().IntVarP(&outcomesLimit, "limit", "n", 20, "Maximum number of outcomes")
	outcomesCmd.Flags().StringVar(&outcomesHook, "hook", "", "Only show outcomes of this hook")
	outcomesCmd.Flags().StringVar(&outcomesStatus, "status", "", "Only show outcomes with this status: pass, warn, fail, error")
}

func filterHook(records []*domain.OutcomeRecord, hook string) []*domain.OutcomeRecord {
	kept := records[:0]
	for _, rec := range records {
		if rec.Hook == hook {
			kept = append(kept, rec)
		}
	}
	return kept
}
