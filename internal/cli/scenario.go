package cli

import (
	"fmt"

	"github.com/piwi3910/envelope/internal/model"
	"github.com/piwi3910/envelope/internal/project"
	"github.com/spf13/cobra"
)

func newScenarioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Manage the saved scenario library",
	}
	cmd.AddCommand(newScenarioSaveCmd())
	cmd.AddCommand(newScenarioListCmd())
	cmd.AddCommand(newScenarioRemoveCmd())
	cmd.AddCommand(newScenarioExportCmd())
	return cmd
}

func newScenarioSaveCmd() *cobra.Command {
	var (
		pf          paramFlags
		description string
	)
	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save the given parameters under a name",
		Long:  `Save the given parameters under a name. A saved scenario with the same name is replaced.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state := stateFromContext(cmd.Context())
			p, _, err := pf.resolve(cmd, state.config.Defaults)
			if err != nil {
				return err
			}
			if err := project.SaveToLibrary(libraryPath(state.path), model.NewScenario(args[0], description, p)); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Saved %q", args[0])
			return nil
		},
	}
	addParamFlags(cmd, &pf)
	cmd.Flags().StringVar(&description, "description", "", "free-text note stored with the scenario")
	return cmd
}

func newScenarioListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := project.LoadLibrary(libraryPath(stateFromContext(cmd.Context()).path))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(lib.Scenarios) == 0 {
				printInfo(out, "No saved scenarios")
				return nil
			}
			for _, s := range lib.Scenarios {
				ev := s.Evaluate()
				fmt.Fprintln(out, keyValue(s.Name, fmt.Sprintf("%s  %s  %d units",
					styleDim.Render(s.ID), model.FormatVolume(ev.Yield.Volume), ev.Yield.EstimatedUnits)))
			}
			return nil
		},
	}
}

func newScenarioRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a saved scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := libraryPath(stateFromContext(cmd.Context()).path)
			lib, err := project.LoadLibrary(path)
			if err != nil {
				return err
			}
			s := lib.FindByName(args[0])
			if s == nil {
				return fmt.Errorf("no saved scenario named %q", args[0])
			}
			lib.Remove(s.ID)
			if err := project.SaveLibrary(path, lib); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Removed %q", args[0])
			return nil
		},
	}
}

func newScenarioExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write the library to a .json, .toml or .yaml scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := project.LoadLibrary(libraryPath(stateFromContext(cmd.Context()).path))
			if err != nil {
				return err
			}
			if err := project.SaveScenarios(args[0], lib); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Exported %d scenarios", len(lib.Scenarios))
			printFile(cmd.OutOrStdout(), args[0])
			return nil
		},
	}
}
