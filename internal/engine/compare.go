package engine

import (
	"fmt"

	"github.com/piwi3910/envelope/internal/model"
)

// ComparisonResult holds the evaluation and derived statistics for a
// single scenario.
type ComparisonResult struct {
	Scenario    model.Scenario
	Evaluation  model.Evaluation
	Coverage    float64 // footprint as % of lot area
	UnitsDelta  int     // estimated units relative to the first scenario
	VolumeDelta float64 // m³ relative to the first scenario
}

// CompareScenarios evaluates each scenario and returns the results in
// scenario order. Deltas are measured against the first scenario.
func CompareScenarios(scenarios []model.Scenario) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	var baseline model.YieldMetrics
	for i, scenario := range scenarios {
		ev := scenario.Evaluate()
		if i == 0 {
			baseline = ev.Yield
		}

		results = append(results, ComparisonResult{
			Scenario:    scenario,
			Evaluation:  ev,
			Coverage:    ev.Yield.Coverage(scenario.Parameters.Lot),
			UnitsDelta:  ev.Yield.EstimatedUnits - baseline.EstimatedUnits,
			VolumeDelta: ev.Yield.Volume - baseline.Volume,
		})
	}

	return results
}

// BestByUnits returns the index of the result with the most estimated units.
// Ties go to the earlier scenario. Returns -1 for an empty slice.
func BestByUnits(results []ComparisonResult) int {
	best := -1
	for i, r := range results {
		if best == -1 || r.Evaluation.Yield.EstimatedUnits > results[best].Evaluation.Yield.EstimatedUnits {
			best = i
		}
	}
	return best
}

// BuildDefaultScenarios generates a set of what-if scenarios around the
// base parameters, varying one rule at a time.
func BuildDefaultScenarios(base model.Parameters) []model.Scenario {
	scenarios := []model.Scenario{
		model.NewScenario("Current Parameters", "", base),
	}

	// Scenario: one extra storey's worth of height
	taller := base
	taller.MaxHeight = base.MaxHeight + 3
	scenarios = append(scenarios, model.NewScenario(
		fmt.Sprintf("Height %.1fm (+3m)", float64(taller.MaxHeight)),
		"Height limit raised by one storey", taller))

	// Scenario: halve the front setback
	if base.Setbacks.Front > 0 {
		front := base
		front.Setbacks.Front = base.Setbacks.Front * 0.5
		scenarios = append(scenarios, model.NewScenario(
			fmt.Sprintf("Front setback %.1fm (half)", front.Setbacks.Front),
			"Front setback relaxed", front))
	}

	// Scenario: zero lot line on the sides
	if base.Setbacks.Left > 0 || base.Setbacks.Right > 0 {
		sides := base
		sides.Setbacks.Left = 0
		sides.Setbacks.Right = 0
		scenarios = append(scenarios, model.NewScenario(
			"No Side Setbacks", "Zero lot line on both sides", sides))
	}

	return scenarios
}
