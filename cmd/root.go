// Package cmd provides the CLI commands for hookscope.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	repoDir    string
	configPath string
	dbPath     string
	logLevel   string
	jsonOutput bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hookscope",
	Short: "hookscope - repository queries and diagnostics for git hooks",
	Long: `hookscope answers the structural questions git hooks ask about a
repository (which files to check, which submodules are being removed, which
branches contain a commit) and turns linter output into located diagnostics.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	// PersistentPostRunE is skipped when a command fails
	_ = cleanupServices()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&repoDir, "repo", "C", "", "Run as if started in this directory (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default: ~/.hookscope/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the audit database (default: ~/.hookscope/hookscope.db)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")

	// Set version - cobra handles --version automatically
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("hookscope\nVersion: {{.Version}}\n")

	// Add subcommands
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(removedSubmodulesCmd)
	rootCmd.AddCommand(branchesCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(outcomesCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(configCmd)
}
