package cli

import (
	"github.com/piwi3910/envelope/internal/engine"
	"github.com/piwi3910/envelope/internal/export"
	"github.com/piwi3910/envelope/internal/model"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a report, drawing, workbook or scene",
	}
	cmd.AddCommand(newExportPDFCmd())
	cmd.AddCommand(newExportDXFCmd())
	cmd.AddCommand(newExportXLSXCmd())
	cmd.AddCommand(newExportSceneCmd())
	return cmd
}

// exportRunner resolves parameters and writes one file with write.
func exportRunner(pf *paramFlags, output *string, defaultName, what string,
	write func(cmd *cobra.Command, path string, ev model.Evaluation) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		state := stateFromContext(cmd.Context())
		p, _, err := pf.resolve(cmd, state.config.Defaults)
		if err != nil {
			return err
		}

		path := outputPath(*output, state.config.ExportDir, defaultName)
		prog := newProgress(loggerFromContext(cmd.Context()))
		if err := write(cmd, path, model.Evaluate(p)); err != nil {
			return err
		}
		prog.done("Exported " + what)

		printSuccess(cmd.OutOrStdout(), "Wrote %s", what)
		printFile(cmd.OutOrStdout(), path)
		return nil
	}
}

func newExportPDFCmd() *cobra.Command {
	var (
		pf     paramFlags
		output string
		title  string
		whatIf bool
	)
	cmd := &cobra.Command{
		Use:   "pdf",
		Short: "Write a PDF study report",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = exportRunner(&pf, &output, "envelope.pdf", "PDF report",
		func(cmd *cobra.Command, path string, ev model.Evaluation) error {
			cfg := stateFromContext(cmd.Context()).config
			opts := export.ReportOptions{Title: cfg.ReportTitle, Author: cfg.ReportAuthor}
			if title != "" {
				opts.Title = title
			}
			if whatIf {
				opts.Comparison = engine.CompareScenarios(engine.BuildDefaultScenarios(ev.Parameters))
			}
			return export.ExportPDF(path, ev, opts)
		})

	addParamFlags(cmd, &pf)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default envelope.pdf in the export directory)")
	cmd.Flags().StringVar(&title, "title", "", "report title (default from config)")
	cmd.Flags().BoolVar(&whatIf, "what-if", false, "add a what-if comparison page")
	return cmd
}

func newExportDXFCmd() *cobra.Command {
	var (
		pf     paramFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "dxf",
		Short: "Write the lot and envelope as a DXF drawing",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = exportRunner(&pf, &output, "envelope.dxf", "DXF drawing",
		func(_ *cobra.Command, path string, ev model.Evaluation) error {
			return export.ExportDXF(path, ev)
		})

	addParamFlags(cmd, &pf)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default envelope.dxf in the export directory)")
	return cmd
}

func newExportXLSXCmd() *cobra.Command {
	var (
		pf       paramFlags
		output   string
		axisName string
		step     float64
	)
	cmd := &cobra.Command{
		Use:   "xlsx",
		Short: "Write the study to an Excel workbook",
		Long: `Write the study to an Excel workbook. With --axis, a sweep sheet over the
usual range of that input is added.`,
		Args: cobra.NoArgs,
	}
	cmd.RunE = exportRunner(&pf, &output, "envelope.xlsx", "workbook",
		func(_ *cobra.Command, path string, ev model.Evaluation) error {
			if axisName == "" {
				return export.ExportXLSX(path, ev, "", nil)
			}
			axis, err := engine.ParseAxis(axisName)
			if err != nil {
				return err
			}
			rg := axisRange(axis, model.DefaultRanges())
			points, err := engine.Sweep(ev.Parameters, engine.SweepSpec{Axis: axis, From: rg.Min, To: rg.Max, Step: step})
			if err != nil {
				return err
			}
			return export.ExportXLSX(path, ev, axis, points)
		})

	addParamFlags(cmd, &pf)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default envelope.xlsx in the export directory)")
	cmd.Flags().StringVar(&axisName, "axis", "", "add a sweep sheet for this input")
	cmd.Flags().Float64Var(&step, "step", 1, "sweep increment (m)")
	return cmd
}

func newExportSceneCmd() *cobra.Command {
	var (
		pf     paramFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "scene",
		Short: "Write a JSON scene for 3D renderers",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = exportRunner(&pf, &output, "envelope.json", "scene",
		func(_ *cobra.Command, path string, ev model.Evaluation) error {
			return export.ExportScene(path, ev)
		})

	addParamFlags(cmd, &pf)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default envelope.json in the export directory)")
	return cmd
}
