package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/taskbook/internal/config"
	tberrors "github.com/randalmurphal/taskbook/internal/errors"
)

// newConfigCmd creates the config command with subcommands.
func newConfigCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show resolved configuration",
		Long: `Show the resolved taskbook configuration.

Configuration is loaded from these sources, later ones winning:
  1. Defaults: built-in values
  2. File: ~/.taskbook/config.yaml (or --config)
  3. Environment: TASKBOOK_BACKEND, TASKBOOK_PATH, TASKBOOK_FORMAT
  4. Flags: --backend, --path, --format

Each value is annotated with the source it came from.

Examples:
  taskbook config
  taskbook config --backend sqlite
  taskbook config get store.path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tc, err := g.resolveConfig(cmd)
			if err != nil {
				return err
			}
			out, err := tc.Render()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.AddCommand(newConfigGetCmd(g))

	return cmd
}

// newConfigGetCmd creates the 'config get' subcommand.
func newConfigGetCmd(g *globals) *cobra.Command {
	var showSource bool

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a specific config value",
		Long: fmt.Sprintf(`Get a single configuration value by key.

Keys: %s`, strings.Join(config.Keys, ", ")),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if !slices.Contains(config.Keys, key) {
				return tberrors.ErrUsage(fmt.Sprintf("unknown config key %q", key))
			}

			tc, err := g.resolveConfig(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if showSource {
				_, _ = fmt.Fprintf(out, "%s (from %s)\n", tc.Get(key), tc.GetSource(key))
			} else {
				_, _ = fmt.Fprintln(out, tc.Get(key))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showSource, "source", false, "Show source of the value")

	return cmd
}
