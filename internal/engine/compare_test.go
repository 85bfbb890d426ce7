package engine

import (
	"testing"

	"github.com/piwi3910/envelope/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareScenarios_DeltasAgainstFirst(t *testing.T) {
	base := model.DefaultParameters()
	taller := base
	taller.MaxHeight = 24

	results := CompareScenarios([]model.Scenario{
		model.NewScenario("Base", "", base),
		model.NewScenario("Taller", "", taller),
	})
	require.Len(t, results, 2)

	assert.Equal(t, 0, results[0].UnitsDelta)
	assert.Equal(t, 0.0, results[0].VolumeDelta)
	assert.Equal(t, 47-23, results[1].UnitsDelta)
	assert.Equal(t, 5928.0, results[1].VolumeDelta)
	assert.InDelta(t, 49.4, results[1].Coverage, 1e-9)
	assert.Equal(t, 1, BestByUnits(results))
}

func TestCompareScenarios_Empty(t *testing.T) {
	results := CompareScenarios(nil)
	assert.Empty(t, results)
	assert.Equal(t, -1, BestByUnits(results))
}

func TestBestByUnits_TieGoesToEarlier(t *testing.T) {
	p := model.DefaultParameters()
	results := CompareScenarios([]model.Scenario{
		model.NewScenario("A", "", p),
		model.NewScenario("B", "", p),
	})
	assert.Equal(t, 0, BestByUnits(results))
}

func TestBuildDefaultScenarios(t *testing.T) {
	scenarios := BuildDefaultScenarios(model.DefaultParameters())
	require.Len(t, scenarios, 4)

	assert.Equal(t, "Current Parameters", scenarios[0].Name)
	assert.Equal(t, model.HeightLimit(15), scenarios[1].Parameters.MaxHeight)
	assert.Equal(t, 3.0, scenarios[2].Parameters.Setbacks.Front)
	assert.Equal(t, 0.0, scenarios[3].Parameters.Setbacks.Left)
	assert.Equal(t, 0.0, scenarios[3].Parameters.Setbacks.Right)
}

func TestBuildDefaultScenarios_SkipsInapplicable(t *testing.T) {
	p := model.Parameters{Lot: model.LotSpec{Width: 20, Depth: 30}, MaxHeight: 9}
	scenarios := BuildDefaultScenarios(p)
	assert.Len(t, scenarios, 2, "no front or side setbacks to relax")
}
