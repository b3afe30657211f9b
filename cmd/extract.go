package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/hookscope/internal/domain"
	"github.com/xvierd/hookscope/internal/services"
)

var (
	extractHook     string
	extractPattern  string
	extractStream   string
	extractFiles    []string
	extractScope    []string
	extractExitCode int
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract [flags] [-- command [arg...]]",
	Short: "Run a tool, or read its output, and extract diagnostics",
	Long: `Extract file:line diagnostics from tool output and classify the result as
pass, warn, fail or error.

With a command after "--" the tool is run in the repository root with the
selected files appended to its arguments. Without one, output is read from
stdin and --exit-code gives the tool's exit status.

The command exits non-zero when the outcome is fail or error.`,
	Example: `  hookscope extract --hook XmlLint --scope config/ -- xmllint --noout
  xmllint --noout a.xml 2>&1 | hookscope extract --exit-code 1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupSignalHandler(cmd.Context())

		streamName := extractStream
		if streamName == "" {
			streamName = app.config.Hooks.Stream
		}
		stream, err := services.ParseStream(streamName)
		if err != nil {
			return err
		}

		var outcome *domain.HookOutcome
		if len(args) > 0 {
			files, err := extractTargets(ctx)
			if err != nil {
				return err
			}
			outcome, err = app.hooks.Run(ctx, services.ToolRequest{
				Hook:    extractHook,
				Command: args,
				Files:   files,
				Stream:  stream,
				Pattern: extractPattern,
			})
			if err != nil {
				return fmt.Errorf("failed to run hook: %w", err)
			}
		} else {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read output: %w", err)
			}
			outcome, err = app.hooks.Evaluate(ctx, extractHook, string(data), extractExitCode == 0, extractPattern)
			if err != nil {
				return fmt.Errorf("failed to extract diagnostics: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			if err := printJSON(out, outcome); err != nil {
				return err
			}
		} else {
			printOutcome(out, extractHook, outcome)
		}

		if !outcome.Passed() {
			return fmt.Errorf("hook %s: %s", hookName(extractHook), outcome.Status)
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractHook, "hook", "", "Hook name the outcome is recorded under")
	extractCmd.Flags().StringVarP(&extractPattern, "pattern", "p", "", "Pattern name or regular expression (default from config)")
	extractCmd.Flags().StringVar(&extractStream, "stream", "", "Output scanned for diagnostics: stdout, stderr, combined (default from config)")
	extractCmd.Flags().StringSliceVarP(&extractFiles, "file", "f", nil, "File appended to the command line (repeatable)")
	extractCmd.Flags().StringSliceVar(&extractScope, "scope", nil, "Path expanded with the files rules and appended (repeatable)")
	extractCmd.Flags().IntVar(&extractExitCode, "exit-code", 0, "Exit status of the tool whose output is read from stdin")
}

// extractTargets collects the files appended to a tool's command line.
func extractTargets(ctx context.Context) ([]string, error) {
	files := append([]string(nil), extractFiles...)
	if len(extractScope) == 0 {
		return files, nil
	}
	repo, err := requireRepo()
	if err != nil {
		return nil, err
	}
	scoped, err := repo.ListFiles(ctx, domain.FileScope{Paths: extractScope})
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return append(files, scoped...), nil
}

func printOutcome(out io.Writer, hook string, outcome *domain.HookOutcome) {
	fmt.Fprintf(out, "%s %s\n", statusLabel(out, outcome.Status), hookName(hook))
	for _, d := range outcome.Diagnostics {
		fmt.Fprintf(out, "  %s\n", d.Message)
	}
	if outcome.Status == domain.StatusError {
		if raw := strings.TrimRight(outcome.Output, "\n"); raw != "" {
			fmt.Fprintln(out, dim(out, raw))
		}
	}
}

func hookName(hook string) string {
	if hook == "" {
		return "adhoc"
	}
	return hook
}
