package cli

import (
	"fmt"

	"github.com/piwi3910/envelope/internal/engine"
	"github.com/piwi3910/envelope/internal/export"
	"github.com/piwi3910/envelope/internal/model"
	"github.com/piwi3910/envelope/internal/project"
	"github.com/spf13/cobra"
)

func newCompareCmd() *cobra.Command {
	var (
		pf          paramFlags
		whatIf      bool
		fromLibrary bool
		pdfPath     string
		xlsxPath    string
	)

	cmd := &cobra.Command{
		Use:   "compare [scenario files...]",
		Short: "Compare scenarios side by side",
		Long: `Compare scenarios from files, the saved library (--library) and generated
what-if variants of the current parameters (--what-if). Deltas are relative
to the first scenario; the one with the most units is marked with "*".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			state := stateFromContext(cmd.Context())
			base := state.config.Defaults

			out := cmd.OutOrStdout()

			var scenarios []model.Scenario
			if whatIf {
				p, _, err := pf.resolve(cmd, base)
				if err != nil {
					return err
				}
				scenarios = append(scenarios, engine.BuildDefaultScenarios(p)...)
			}
			for _, path := range args {
				set, err := project.LoadScenarios(path, base)
				if err != nil {
					return err
				}
				scenarios = append(scenarios, finiteScenarios(out, set.Scenarios)...)
			}
			if fromLibrary {
				lib, err := project.LoadLibrary(libraryPath(state.path))
				if err != nil {
					return err
				}
				scenarios = append(scenarios, finiteScenarios(out, lib.Scenarios)...)
			}
			if len(scenarios) == 0 {
				return fmt.Errorf("nothing to compare: pass scenario files, --library or --what-if")
			}

			results := engine.CompareScenarios(scenarios)
			fmt.Fprint(out, comparisonTable(results))

			if pdfPath != "" {
				opts := export.ReportOptions{
					Title:      state.config.ReportTitle,
					Author:     state.config.ReportAuthor,
					Comparison: results,
				}
				if err := export.ExportPDF(pdfPath, results[0].Evaluation, opts); err != nil {
					return err
				}
				printSuccess(out, "Wrote comparison report")
				printFile(out, pdfPath)
			}
			if xlsxPath != "" {
				if err := export.ExportScenariosXLSX(xlsxPath, results); err != nil {
					return err
				}
				printSuccess(out, "Wrote comparison workbook")
				printFile(out, xlsxPath)
			}
			return nil
		},
	}

	addParamFlags(cmd, &pf)
	cmd.Flags().BoolVar(&whatIf, "what-if", false, "include what-if variants of the current parameters")
	cmd.Flags().BoolVar(&fromLibrary, "library", false, "include every saved scenario")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "also write a PDF report with a comparison page")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write the comparison to an .xlsx workbook")
	return cmd
}
