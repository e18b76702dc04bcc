// Package cli implements the taskbook command-line interface.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/randalmurphal/taskbook/internal/config"
	tberrors "github.com/randalmurphal/taskbook/internal/errors"
)

// flagKeys maps persistent flags to the config paths they override. Each
// path is also bound to its TASKBOOK_* variable.
var flagKeys = map[string]string{
	"backend": "store.backend",
	"path":    "store.path",
	"format":  "output.format",
}

// globals holds state shared by the root command and its subcommands.
type globals struct {
	cfgFile string
	verbose bool
	v       *viper.Viper
}

// newRootCmd builds the command tree. A fresh tree per run keeps flag state
// from leaking between invocations in tests.
func newRootCmd() *cobra.Command {
	g := &globals{v: viper.New()}
	ops := &opFlags{}

	rootCmd := &cobra.Command{
		Use:   "taskbook",
		Short: "Manage tasks in the terminal",
		Long: `taskbook keeps a small list of tasks between runs.

Each run performs one operation and exits. With no operation flag the
tasks are listed.

Quick start:
  taskbook -n "buy milk"      Create a task
  taskbook -c 0               Mark task 0 done
  taskbook -u 0               Mark task 0 as doing again
  taskbook -k 3 4             Mark tasks 3 and 4 dead
  taskbook -d 3               Delete task 3
  taskbook                    List tasks`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initLogging(cmd, g.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, g, ops, args)
		},
	}

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return tberrors.ErrUsage(err.Error())
	})

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.cfgFile, "config", "", "config file (default is ~/.taskbook/config.yaml)")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "verbose output")
	pf.String("backend", "", "storage backend: json or sqlite")
	pf.String("path", "", "store file (default depends on backend)")
	pf.String("format", "", "list format: json or table")
	for name, key := range flagKeys {
		_ = g.v.BindPFlag(key, pf.Lookup(name))
		_ = g.v.BindEnv(key, config.EnvVar(key))
	}

	ops.register(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(newConfigCmd(g))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the taskbook command with os.Args and prints any error.
func Execute() error {
	cmd := newRootCmd()
	err := cmd.Execute()
	if err != nil {
		PrintError(cmd.ErrOrStderr(), err, verboseFlag(cmd))
	}
	return err
}

func verboseFlag(cmd *cobra.Command) bool {
	v, _ := cmd.PersistentFlags().GetBool("verbose")
	return v
}

// initLogging installs the default slog logger on stderr.
func initLogging(cmd *cobra.Command, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// resolveConfig loads the config file, then layers TASKBOOK_* variables and
// flags on top. Viper resolves flag over environment for each key; the
// flag's Changed bit only decides which source is recorded.
func (g *globals) resolveConfig(cmd *cobra.Command) (*config.TrackedConfig, error) {
	tc, err := config.Load(g.cfgFile)
	if err != nil {
		return nil, err
	}

	fromEnv := make(map[string]string)
	fromFlags := make(map[string]string)
	for name, key := range flagKeys {
		if !g.v.IsSet(key) {
			continue
		}
		if cmd.Flags().Changed(name) {
			fromFlags[key] = g.v.GetString(key)
		} else {
			fromEnv[key] = g.v.GetString(key)
		}
	}
	if err := tc.Apply(fromEnv, config.SourceEnv); err != nil {
		return nil, err
	}
	if err := tc.Apply(fromFlags, config.SourceFlag); err != nil {
		return nil, err
	}
	if err := tc.Config.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("using store", "backend", tc.Config.Store.Backend, "path", tc.Config.Store.StorePath())
	return tc, nil
}
