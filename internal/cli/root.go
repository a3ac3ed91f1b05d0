// Package cli implements the stac command line interface.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stac",
	Short: "Validate and migrate STAC metadata",
	Long: `stac validates STAC documents against the schemas for their type,
version, and extensions, and migrates documents between format versions.

Exit Codes:
  0  - Success
  1  - Validation or migration failed
  2  - CLI usage error (invalid arguments or flags)
  3  - Input could not be read or parsed
  10 - Invalid configuration
  11 - Schema fetch failed`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("schema-base", "", "Base URL for core schemas")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Bound on a whole command, schema fetches included")
}

// logger builds the command's logger from the verbose flag.
func logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
