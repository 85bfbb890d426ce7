package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/piwi3910/envelope/internal/importer"
	"github.com/piwi3910/envelope/internal/model"
	"github.com/piwi3910/envelope/internal/project"
	"github.com/spf13/cobra"
)

func newImportLotCmd() *cobra.Command {
	var (
		savePath string
		name     string
	)

	cmd := &cobra.Command{
		Use:   "import-lot <file.dxf>",
		Short: "Read lot dimensions from a DXF survey",
		Long: `Read the largest closed outline in a DXF drawing as the lot boundary and
evaluate it with the configured setbacks and height. Non-rectangular outlines
are reduced to their bounding box.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state := stateFromContext(cmd.Context())
			out := cmd.OutOrStdout()

			res := importer.ImportLot(args[0])
			for _, w := range res.Warnings {
				printWarning(out, "%s", w)
			}
			if len(res.Errors) > 0 {
				return fmt.Errorf("%s", strings.Join(res.Errors, "; "))
			}

			p := state.config.Defaults
			p.Lot = res.Lot
			printSuccess(out, "Lot %.2f x %.2f m (%s)", res.Lot.Width, res.Lot.Depth, model.FormatArea(res.Lot.Area()))
			fmt.Fprint(out, renderEvaluation(model.Evaluate(p)))

			if savePath != "" {
				if name == "" {
					base := filepath.Base(args[0])
					name = strings.TrimSuffix(base, filepath.Ext(base))
				}
				set := model.NewScenarioSet()
				set.Add(model.NewScenario(name, "Imported from "+filepath.Base(args[0]), p))
				if err := project.SaveScenarios(savePath, set); err != nil {
					return err
				}
				printFile(out, savePath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&savePath, "save", "", "save the lot as a scenario file (.json, .toml or .yaml)")
	cmd.Flags().StringVar(&name, "name", "", "scenario name (default: drawing file name)")
	return cmd
}
