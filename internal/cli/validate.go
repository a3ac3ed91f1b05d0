package cli

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	stac "github.com/stac-utils/go-stac"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a STAC document",
	Long: `Validate a STAC document against the schemas for its type, version,
and extensions. Reads from the file argument, or stdin when omitted or "-".

Every violation from every applicable schema is reported, not just the first.

Examples:
  stac validate item.json
  cat item.json | stac validate
  stac validate item.json --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(args)
		if err != nil {
			return err
		}
		var document any
		if err := json.Unmarshal(data, &document); err != nil {
			return &inputError{err: err}
		}
		cfg, timeout, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		f, overrides, err := fetcher(cfg)
		if err != nil {
			return err
		}
		opts := []stac.ValidatorOption{stac.WithLogger(logger(cmd))}
		if cfg.SchemaBase != "" {
			opts = append(opts, stac.WithSchemaBase(cfg.SchemaBase))
		}
		if len(overrides) > 0 {
			opts = append(opts, stac.WithSchemaOverrides(overrides))
		}
		validator, err := stac.NewValidator(f, opts...)
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd, timeout)
		defer cancel()
		err = validator.Validate(ctx, document)
		if err == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		}
		if issues, ok := stac.AsIssues(err); ok {
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				if encodeErr := encoder.Encode(issues); encodeErr != nil {
					return encodeErr
				}
			} else {
				for _, issue := range issues {
					path := issue.Path
					if path == "" {
						path = "/"
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s (%s)\n", path, issue.Message, issue.Schema)
				}
			}
			return err
		}
		return err
	},
}

func init() {
	validateCmd.Flags().Bool("json", false, "Print issues as JSON to stdout")
	rootCmd.AddCommand(validateCmd)
}
