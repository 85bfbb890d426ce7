package cli

import (
	"encoding/json"

	"github.com/piwi3910/envelope/internal/model"
	"github.com/spf13/cobra"
)

// computeResult is the --json output of compute.
type computeResult struct {
	Name       string           `json:"name"`
	Evaluation model.Evaluation `json:"evaluation"`
	Coverage   float64          `json:"coverage"`
	Advisories []string         `json:"advisories"`
}

func newComputeCmd() *cobra.Command {
	var (
		pf     paramFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute the buildable envelope and yield",
		Long: `Compute the buildable envelope and yield for one parameter set.

Parameters start from the configured defaults (or --scenario) and any flag
given explicitly overrides them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state := stateFromContext(cmd.Context())
			p, name, err := pf.resolve(cmd, state.config.Defaults)
			if err != nil {
				return err
			}

			ev := model.Evaluate(p)
			notes := model.Advisories(p, model.DefaultRanges())
			loggerFromContext(cmd.Context()).Debug("Evaluated", "name", name, "units", ev.Yield.EstimatedUnits)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(computeResult{
					Name:       name,
					Evaluation: ev,
					Coverage:   ev.Yield.Coverage(p.Lot),
					Advisories: notes,
				})
			}

			_, err = out.Write([]byte(renderEvaluation(ev)))
			for _, note := range notes {
				printWarning(out, "%s", note)
			}
			return err
		},
	}

	addParamFlags(cmd, &pf)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}
