package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	stac "github.com/stac-utils/go-stac"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the supported STAC versions",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, v := range stac.KnownVersions() {
			if v == stac.DefaultVersion {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (default)\n", v)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
