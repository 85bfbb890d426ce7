package cli

import (
	"context"
	"fmt"

	"github.com/piwi3910/envelope/internal/project"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package with values injected via
// ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// NewRootCommand builds the envelope command tree.
//
// Before any subcommand runs, the config file is loaded (--config, or
// ~/.envelope/config.json) and a logger is attached to the command context.
// --verbose forces debug logging; otherwise the config's log level applies.
func NewRootCommand() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:           "envelope",
		Short:         "Buildable envelope and yield calculator for rectangular lots",
		Long:          `envelope computes the maximal buildable box for a rectangular lot from its dimensions, setbacks and height limit, and estimates the development yield.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				path = project.DefaultConfigPath()
			}
			cfg, err := project.LoadAppConfig(path)
			if err != nil {
				return fmt.Errorf("failed to load config %s: %w", path, err)
			}

			logger := newLogger(cmd.ErrOrStderr(), resolveLevel(verbose, cfg.LogLevel))
			logger.Debug("Loaded config", "path", path)

			ctx := withLogger(cmd.Context(), logger)
			ctx = withConfig(ctx, cfg, path)
			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("envelope %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.envelope/config.json)")

	root.AddCommand(newComputeCmd())
	root.AddCommand(newSweepCmd())
	root.AddCommand(newCompareCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newBatchCmd())
	root.AddCommand(newImportLotCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newScenarioCmd())

	return root
}

// Execute runs the envelope CLI with ctx and returns an error if any
// command fails.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
