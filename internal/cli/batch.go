package cli

import (
	"fmt"

	"github.com/piwi3910/envelope/internal/engine"
	"github.com/piwi3910/envelope/internal/export"
	"github.com/piwi3910/envelope/internal/importer"
	"github.com/piwi3910/envelope/internal/model"
	"github.com/piwi3910/envelope/internal/project"
	"github.com/spf13/cobra"
)

func newBatchCmd() *cobra.Command {
	var (
		xlsxPath string
		savePath string
	)

	cmd := &cobra.Command{
		Use:   "batch <file.csv|file.xlsx>",
		Short: "Evaluate a batch of lots from a spreadsheet",
		Long: `Evaluate every row of a CSV or Excel sheet. Columns are matched by header
(Name, Width, Depth, Front, Rear, Left, Right, Height and common aliases) or
taken in that order when there is no header. Missing setback columns use the
configured defaults. Rows that cannot be read are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state := stateFromContext(cmd.Context())
			logger := loggerFromContext(cmd.Context())
			out := cmd.OutOrStdout()
			path := args[0]

			var res importer.ImportResult
			switch fileExt(path) {
			case "csv", "txt":
				res = importer.ImportCSV(path, state.config.Defaults)
			case "xlsx":
				res = importer.ImportExcel(path, state.config.Defaults)
			default:
				return fmt.Errorf("unsupported batch file %q: use .csv or .xlsx", path)
			}

			for _, w := range res.Warnings {
				logger.Debug(w)
			}
			for _, e := range res.Errors {
				printError(out, "%s", e)
			}
			if len(res.Scenarios) == 0 {
				return fmt.Errorf("no scenarios imported from %s", path)
			}
			logger.Info("Imported scenarios", "count", len(res.Scenarios), "skipped", len(res.Errors))

			results := engine.CompareScenarios(res.Scenarios)
			fmt.Fprint(out, comparisonTable(results))

			if xlsxPath != "" {
				if err := export.ExportScenariosXLSX(xlsxPath, results); err != nil {
					return err
				}
				printSuccess(out, "Wrote results workbook")
				printFile(out, xlsxPath)
			}
			if savePath != "" {
				set := model.ScenarioSet{Scenarios: res.Scenarios}
				if err := project.SaveScenarios(savePath, set); err != nil {
					return err
				}
				printSuccess(out, "Saved %d scenarios", len(res.Scenarios))
				printFile(out, savePath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write the results to an .xlsx workbook")
	cmd.Flags().StringVar(&savePath, "save", "", "save the imported scenarios to a .json, .toml or .yaml file")
	return cmd
}
