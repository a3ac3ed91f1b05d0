package cli

import (
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	stac "github.com/stac-utils/go-stac"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [file]",
	Short: "Migrate a STAC document to another version",
	Long: `Migrate a STAC document to the target format version and print the
result to stdout. Reads from the file argument, or stdin when omitted or "-".

Migration is all-or-nothing: a failing step leaves no output and the input
untouched.

Examples:
  stac migrate item.json --version 1.1.0
  cat item.json | stac migrate > migrated.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(args)
		if err != nil {
			return err
		}
		version, _ := cmd.Flags().GetString("version")

		var document map[string]any
		if err := json.Unmarshal(data, &document); err != nil {
			return &inputError{err: err}
		}
		migrated, err := stac.Migrate(document, stac.Version(version))
		if err != nil {
			return err
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(migrated)
	},
}

func init() {
	migrateCmd.Flags().String("version", stac.DefaultVersion.String(), "Target STAC version")
	rootCmd.AddCommand(migrateCmd)
}
