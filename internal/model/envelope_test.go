package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleInputs covers regular, boundary, over-constrained and negative inputs.
func sampleInputs() []Parameters {
	var out []Parameters
	for _, w := range []float64{-5, 0, 0.05, 10, 25, 100, 250} {
		for _, d := range []float64{-5, 0, 10, 40, 150} {
			for _, sb := range []Setbacks{
				{},
				{Front: 6, Rear: 8, Left: 3, Right: 3},
				{Front: 30, Rear: 30, Left: 30, Right: 30},
				{Front: 0, Rear: 75, Left: 60, Right: 0},
				{Front: -2, Rear: 1, Left: -1, Right: 4},
			} {
				for _, h := range []HeightLimit{-3, 0, 0.05, 3, 12, 50} {
					out = append(out, Parameters{Lot: LotSpec{Width: w, Depth: d}, Setbacks: sb, MaxHeight: h})
				}
			}
		}
	}
	return out
}

func TestComputeEnvelope_ExtentsNeverBelowFloor(t *testing.T) {
	for _, p := range sampleInputs() {
		env := ComputeEnvelope(p.Lot, p.Setbacks, p.MaxHeight)
		assert.GreaterOrEqual(t, env.Width, 0.1, "width for %+v", p)
		assert.GreaterOrEqual(t, env.Depth, 0.1, "depth for %+v", p)
		assert.GreaterOrEqual(t, env.Height, 0.1, "height for %+v", p)
		assert.False(t, math.IsNaN(env.Center.X) || math.IsInf(env.Center.X, 0))
		assert.False(t, math.IsNaN(env.Center.Z) || math.IsInf(env.Center.Z, 0))
	}
}

func TestComputeEnvelope_DefaultStudy(t *testing.T) {
	p := DefaultParameters()
	env := ComputeEnvelope(p.Lot, p.Setbacks, p.MaxHeight)

	assert.Equal(t, 19.0, env.Width)
	assert.Equal(t, 26.0, env.Depth)
	assert.Equal(t, 12.0, env.Height)
	assert.Equal(t, Vec3{X: 0, Y: 6, Z: 1}, env.Center)
}

func TestComputeEnvelope_EdgesFlushWithSmallerSetbacks(t *testing.T) {
	lot := LotSpec{Width: 30, Depth: 50}
	sb := Setbacks{Front: 10, Rear: 2, Left: 4, Right: 1}
	env := ComputeEnvelope(lot, sb, 9)

	lo, hi := env.Min(), env.Max()
	assert.InDelta(t, -lot.Width/2+sb.Left, lo.X, 1e-9)
	assert.InDelta(t, lot.Width/2-sb.Right, hi.X, 1e-9)
	assert.InDelta(t, -lot.Depth/2+sb.Rear, lo.Z, 1e-9)
	assert.InDelta(t, lot.Depth/2-sb.Front, hi.Z, 1e-9)
	assert.Equal(t, 0.0, lo.Y, "box rests on the ground plane")
	assert.Equal(t, 9.0, hi.Y)
}

func TestComputeEnvelope_OverConstrainedUsesRawSetbacksForCenter(t *testing.T) {
	lot := LotSpec{Width: 10, Depth: 10}
	sb := Setbacks{Front: 2, Rear: 20, Left: 15, Right: 1}
	env := ComputeEnvelope(lot, sb, 5)

	assert.Equal(t, 0.1, env.Width)
	assert.Equal(t, 0.1, env.Depth)
	// (15-1)/2 and (20-2)/2: the degenerate box lands outside the lot.
	assert.Equal(t, 7.0, env.Center.X)
	assert.Equal(t, 9.0, env.Center.Z)
}

func TestComputeEnvelope_HeightFloor(t *testing.T) {
	lot := LotSpec{Width: 20, Depth: 20}
	for _, h := range []HeightLimit{-10, 0, 0.01} {
		env := ComputeEnvelope(lot, Setbacks{}, h)
		assert.Equal(t, 0.1, env.Height)
		assert.Equal(t, 0.05, env.Center.Y)
	}
}

func TestScenarioB_EnvelopeFloors(t *testing.T) {
	lot := LotSpec{Width: 10, Depth: 10}
	sb := Setbacks{Front: 10, Rear: 10, Left: 10, Right: 10}
	env := ComputeEnvelope(lot, sb, 5)

	assert.Equal(t, 0.1, env.Width)
	assert.Equal(t, 0.1, env.Depth)
	assert.Equal(t, 5.0, env.Height)
	assert.Equal(t, Vec3{X: 0, Y: 2.5, Z: 0}, env.Center)
}

func TestScenarioC_ZeroSetbacksCentered(t *testing.T) {
	lot := LotSpec{Width: 33.3, Depth: 47.9}
	env := ComputeEnvelope(lot, Setbacks{}, 15)

	assert.Equal(t, 0.0, env.Center.X)
	assert.Equal(t, 0.0, env.Center.Z)
	assert.Equal(t, lot.Width, env.Width)
	assert.Equal(t, lot.Depth, env.Depth)
}

func TestComputeEnvelope_Idempotent(t *testing.T) {
	for _, p := range sampleInputs() {
		a := ComputeEnvelope(p.Lot, p.Setbacks, p.MaxHeight)
		b := ComputeEnvelope(p.Lot, p.Setbacks, p.MaxHeight)
		require.Equal(t, a, b)
	}
}

func TestLotOutline(t *testing.T) {
	o := LotOutline(LotSpec{Width: 25, Depth: 40})
	require.Len(t, o, 4)

	min, max := o.BoundingBox()
	assert.Equal(t, Point2D{X: -12.5, Y: -20}, min)
	assert.Equal(t, Point2D{X: 12.5, Y: 20}, max)
	assert.Equal(t, 1000.0, o.Area())
}

func TestEnvelopeFootprintMatchesExtents(t *testing.T) {
	p := DefaultParameters()
	env := ComputeEnvelope(p.Lot, p.Setbacks, p.MaxHeight)
	fp := env.Footprint()

	min, max := fp.BoundingBox()
	assert.InDelta(t, env.Width, max.X-min.X, 1e-9)
	assert.InDelta(t, env.Depth, max.Y-min.Y, 1e-9)
	assert.InDelta(t, env.Width*env.Depth, fp.Area(), 1e-9)
}

func TestEnvelopeEdges(t *testing.T) {
	env := Envelope{Width: 2, Depth: 4, Height: 6, Center: Vec3{X: 1, Y: 3, Z: -1}}
	edges := env.Edges()
	require.Len(t, edges, 12)

	var total float64
	for _, e := range edges {
		dx, dy, dz := e.To.X-e.From.X, e.To.Y-e.From.Y, e.To.Z-e.From.Z
		total += math.Sqrt(dx*dx + dy*dy + dz*dz)
	}
	// 4 of each extent
	assert.InDelta(t, 4*(2+4+6), total, 1e-9)
}
