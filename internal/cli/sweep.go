package cli

import (
	"fmt"

	"github.com/piwi3910/envelope/internal/engine"
	"github.com/piwi3910/envelope/internal/export"
	"github.com/piwi3910/envelope/internal/model"
	"github.com/spf13/cobra"
)

// axisRange returns the usual control range for an axis.
func axisRange(axis engine.Axis, r model.Ranges) model.Range {
	switch axis {
	case engine.AxisLotWidth:
		return r.LotWidth
	case engine.AxisLotDepth:
		return r.LotDepth
	case engine.AxisMaxHeight:
		return r.MaxHeight
	default:
		return r.Setback
	}
}

func newSweepCmd() *cobra.Command {
	var (
		pf       paramFlags
		axisName string
		from, to float64
		step     float64
		xlsxPath string
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Evaluate a range of values for one input",
		Long: `Step one input across a range and tabulate the envelope and yield at
each value. --from and --to default to the usual range for the axis.
The first value that gains a unit is marked with "+".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state := stateFromContext(cmd.Context())
			logger := loggerFromContext(cmd.Context())

			axis, err := engine.ParseAxis(axisName)
			if err != nil {
				return err
			}
			base, _, err := pf.resolve(cmd, state.config.Defaults)
			if err != nil {
				return err
			}

			rg := axisRange(axis, model.DefaultRanges())
			spec := engine.SweepSpec{Axis: axis, From: rg.Min, To: rg.Max, Step: step}
			if cmd.Flags().Changed("from") {
				spec.From = from
			}
			if cmd.Flags().Changed("to") {
				spec.To = to
			}

			points, err := engine.Sweep(base, spec)
			if err != nil {
				return err
			}
			logger.Debug("Sweep", "axis", axis, "from", spec.From, "to", spec.To, "points", len(points))

			out := cmd.OutOrStdout()
			fmt.Fprint(out, sweepTable(axis, points))
			if i := engine.FirstUnitGain(points); i >= 0 {
				printInfo(out, "First unit gained at %s = %.2f m (%d units)",
					axis, points[i].Value, points[i].Evaluation.Yield.EstimatedUnits)
			}

			if xlsxPath != "" {
				if err := export.ExportXLSX(xlsxPath, model.Evaluate(base), axis, points); err != nil {
					return err
				}
				printSuccess(out, "Wrote sweep workbook")
				printFile(out, xlsxPath)
			}
			return nil
		},
	}

	addParamFlags(cmd, &pf)
	cmd.Flags().StringVar(&axisName, "axis", string(engine.AxisMaxHeight), "input to vary: width, depth, front, rear, left, right, height")
	cmd.Flags().Float64Var(&from, "from", 0, "first value (m)")
	cmd.Flags().Float64Var(&to, "to", 0, "last value (m)")
	cmd.Flags().Float64Var(&step, "step", 1, "increment (m)")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write the sweep to an .xlsx workbook")
	return cmd
}
