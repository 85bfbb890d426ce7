package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/piwi3910/envelope/internal/model"
	"github.com/piwi3910/envelope/internal/project"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigBackupCmd())
	cmd.AddCommand(newConfigRestoreCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := stateFromContext(cmd.Context()).path
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := project.SaveAppConfig(path, model.DefaultAppConfig()); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			printSuccess(cmd.OutOrStdout(), "Wrote default config")
			printFile(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(stateFromContext(cmd.Context()).config)
		},
	}
}

func newConfigBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup <file>",
		Short: "Save the config and scenario library to one file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state := stateFromContext(cmd.Context())
			lib, err := project.LoadLibrary(libraryPath(state.path))
			if err != nil {
				return err
			}
			if err := project.ExportAllData(args[0], state.config, lib); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Backed up config and %d saved scenarios", len(lib.Scenarios))
			printFile(cmd.OutOrStdout(), args[0])
			return nil
		},
	}
}

func newConfigRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace the config and scenario library from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state := stateFromContext(cmd.Context())
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			if err := project.SaveAppConfig(state.path, backup.Config); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			if err := project.SaveLibrary(libraryPath(state.path), backup.Library); err != nil {
				return fmt.Errorf("failed to write scenario library: %w", err)
			}
			loggerFromContext(cmd.Context()).Debug("Restored backup", "created", backup.CreatedAt)
			printSuccess(cmd.OutOrStdout(), "Restored config and %d saved scenarios", len(backup.Library.Scenarios))
			return nil
		},
	}
}
