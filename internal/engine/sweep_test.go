package engine

import (
	"math"
	"testing"

	"github.com/piwi3910/envelope/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweep_HeightIsLinearInVolume(t *testing.T) {
	base := model.DefaultParameters()
	points, err := Sweep(base, SweepSpec{Axis: AxisMaxHeight, From: 3, To: 50, Step: 1})
	require.NoError(t, err)
	require.Len(t, points, 48)

	for _, p := range points {
		assert.Equal(t, 494.0, p.Evaluation.Yield.FootprintArea)
		assert.Equal(t, 494.0*p.Value, p.Evaluation.Yield.Volume)
		assert.Equal(t, p.Value, p.Evaluation.Envelope.Height)
	}
	assert.Equal(t, 3.0, points[0].Value)
	assert.Equal(t, 50.0, points[len(points)-1].Value)
}

func TestSweep_FractionalStepIncludesEnd(t *testing.T) {
	points, err := Sweep(model.DefaultParameters(), SweepSpec{Axis: AxisFront, From: 0, To: 1, Step: 0.1})
	require.NoError(t, err)
	require.Len(t, points, 11)
	assert.InDelta(t, 1.0, points[10].Value, 1e-9)
}

func TestSweep_SetbackThroughOverConstraint(t *testing.T) {
	base := model.DefaultParameters()
	points, err := Sweep(base, SweepSpec{Axis: AxisLeft, From: 0, To: 30, Step: 2})
	require.NoError(t, err)

	last := points[len(points)-1].Evaluation
	assert.Equal(t, 0.0, last.Yield.FootprintArea)
	assert.Equal(t, 0.1, last.Envelope.Width)
	// Raw setbacks drive the centre even when clamped.
	assert.Equal(t, (30.0-3.0)/2, last.Envelope.Center.X)
}

func TestSweep_Invalid(t *testing.T) {
	base := model.DefaultParameters()
	cases := []SweepSpec{
		{Axis: AxisMaxHeight, From: 0, To: 10, Step: 0},
		{Axis: AxisMaxHeight, From: 0, To: 10, Step: -1},
		{Axis: AxisMaxHeight, From: 10, To: 0, Step: 1},
		{Axis: AxisMaxHeight, From: math.NaN(), To: 10, Step: 1},
		{Axis: AxisMaxHeight, From: 0, To: math.Inf(1), Step: 1},
		{Axis: AxisMaxHeight, From: 0, To: 1e12, Step: 1},
	}
	for _, c := range cases {
		_, err := Sweep(base, c)
		assert.Error(t, err, "sweep %+v", c)
	}
}

func TestParseAxis(t *testing.T) {
	for _, a := range Axes {
		got, err := ParseAxis(string(a))
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}

	got, err := ParseAxis(" Max_Height ")
	require.NoError(t, err)
	assert.Equal(t, AxisMaxHeight, got)

	_, err = ParseAxis("diagonal")
	assert.Error(t, err)
}

func TestAxisWith(t *testing.T) {
	var p model.Parameters
	for i, a := range Axes {
		p = a.With(p, float64(i+1))
	}
	assert.Equal(t, model.Parameters{
		Lot:       model.LotSpec{Width: 1, Depth: 2},
		Setbacks:  model.Setbacks{Front: 3, Rear: 4, Left: 5, Right: 6},
		MaxHeight: 7,
	}, p)
}

func TestFirstUnitGain(t *testing.T) {
	points, err := Sweep(model.DefaultParameters(), SweepSpec{Axis: AxisMaxHeight, From: 12, To: 13, Step: 0.1})
	require.NoError(t, err)

	// 494 * 12.1 = 5977.4 -> 23 units, 494 * 12.2 = 6026.8 -> 24 units.
	idx := FirstUnitGain(points)
	require.Equal(t, 2, idx)
	assert.InDelta(t, 12.2, points[idx].Value, 1e-9)

	assert.Equal(t, -1, FirstUnitGain(nil))
}
