package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	stac "github.com/stac-utils/go-stac"
	"github.com/stac-utils/go-stac/fetch"
	"github.com/stac-utils/go-stac/internal/config"
)

// readInput reads the document from the argument path, or from stdin when no
// path (or "-") is given.
func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, &inputError{err: err}
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, &inputError{err: err}
	}
	return data, nil
}

// loadConfig merges stac.yaml from the working directory with command flags;
// flags win.
func loadConfig(cmd *cobra.Command) (*config.Config, time.Duration, error) {
	cfg, err := config.LoadOrDefault(".")
	if err != nil {
		return nil, 0, &configError{err: err}
	}
	if base, _ := cmd.Flags().GetString("schema-base"); base != "" {
		cfg.SchemaBase = base
	}
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, 0, &configError{err: err}
	}
	if flagTimeout, _ := cmd.Flags().GetDuration("timeout"); flagTimeout > 0 {
		timeout = flagTimeout
	}
	return cfg, timeout, nil
}

// fetcher builds the schema fetcher: configured local overrides first, then
// file-or-HTTP. The override contents are also returned so they can be
// compiled into the validator's cache ahead of the bundled schemas.
func fetcher(cfg *config.Config) (stac.Fetcher, map[string][]byte, error) {
	if len(cfg.Schemas) == 0 {
		return fetch.Default(), nil, nil
	}
	contents := make(map[string][]byte, len(cfg.Schemas))
	for url, path := range cfg.Schemas {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, &configError{err: err}
		}
		contents[url] = data
	}
	return fetch.Map{Contents: contents, Next: fetch.Default()}, contents, nil
}

// commandContext applies the configured timeout, if any.
func commandContext(cmd *cobra.Command, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}
