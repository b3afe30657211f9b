package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/xvierd/hookscope/internal/config"
	"github.com/xvierd/hookscope/internal/diagnostics"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration hookscope runs with, after defaults, the config
file and HOOKSCOPE_* environment overrides are applied.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := app.config
		out := cmd.OutOrStdout()

		path := configPath
		if path == "" {
			var err error
			path, err = config.GetConfigPath()
			if err != nil {
				return err
			}
		}

		if jsonOutput {
			return printJSON(out, map[string]interface{}{
				"path":            path,
				"git":             map[string]interface{}{"binary": cfg.Git.Binary, "timeout": cfg.Git.Timeout.String()},
				"hooks":           map[string]interface{}{"timeout": cfg.Hooks.Timeout.String(), "stream": cfg.Hooks.Stream},
				"log":             map[string]interface{}{"level": cfg.Log.Level, "format": cfg.Log.Format},
				"storage":         map[string]interface{}{"data_dir": cfg.Storage.DataDir, "audit": cfg.Storage.Audit},
				"patterns":        cfg.Patterns,
				"default_pattern": cfg.DefaultPattern,
			})
		}

		fmt.Fprintln(out)
		fmt.Fprintf(out, "  Config file:      %s\n", path)
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  Git binary:       %s\n", cfg.Git.Binary)
		fmt.Fprintf(out, "  Git timeout:      %s\n", cfg.Git.Timeout)
		fmt.Fprintf(out, "  Hook timeout:     %s\n", cfg.Hooks.Timeout)
		fmt.Fprintf(out, "  Hook stream:      %s\n", cfg.Hooks.Stream)
		fmt.Fprintf(out, "  Log:              %s (%s)\n", cfg.Log.Level, cfg.Log.Format)
		fmt.Fprintf(out, "  Data directory:   %s\n", cfg.Storage.DataDir)
		fmt.Fprintf(out, "  Audit outcomes:   %v\n", cfg.Storage.Audit)
		fmt.Fprintf(out, "  Default pattern:  %s\n", cfg.DefaultPattern)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Patterns:")
		for _, name := range patternNames(cfg.Patterns) {
			expr, ok := cfg.Patterns[name]
			if !ok {
				expr = diagnostics.BuiltinPatterns[name]
				name += " (builtin)"
			}
			fmt.Fprintf(out, "    %-20s %s\n", name, expr)
		}
		fmt.Fprintln(out)
		return nil
	},
}

// patternNames lists configured and builtin pattern names, sorted.
func patternNames(configured map[string]string) []string {
	seen := make(map[string]bool)
	var names []string
	for name := range configured {
		seen[name] = true
		names = append(names, name)
	}
	for name := range diagnostics.BuiltinPatterns {
		if !seen[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
