package model

import "math"

// envelopeFloor is the smallest extent the geometry engine emits so that a
// renderer always receives a non-degenerate box.
const envelopeFloor = 0.1

// ComputeEnvelope derives the buildable box for a lot.
//
// The lot is centred on the origin and spans [-W/2, W/2] along X and
// [-D/2, D/2] along Z, with the front lot line at +Z. The box is shifted away
// from the larger setback on each axis; the offset uses the raw setbacks even
// when the extents have been floored, so an over-constrained lot yields a
// 0.1 m box that may sit off-centre or outside the lot.
func ComputeEnvelope(lot LotSpec, setbacks Setbacks, maxHeight HeightLimit) Envelope {
	width := math.Max(envelopeFloor, lot.Width-setbacks.Left-setbacks.Right)
	depth := math.Max(envelopeFloor, lot.Depth-setbacks.Front-setbacks.Rear)
	height := math.Max(envelopeFloor, float64(maxHeight))

	return Envelope{
		Width:  width,
		Depth:  depth,
		Height: height,
		Center: Vec3{
			X: (setbacks.Left - setbacks.Right) / 2,
			Y: height / 2,
			Z: (setbacks.Rear - setbacks.Front) / 2,
		},
	}
}

// LotOutline returns the lot rectangle on the ground plane, counter-clockwise
// starting at the rear-left corner.
func LotOutline(lot LotSpec) Outline {
	hw, hd := lot.Width/2, lot.Depth/2
	return Outline{
		{X: -hw, Y: -hd},
		{X: hw, Y: -hd},
		{X: hw, Y: hd},
		{X: -hw, Y: hd},
	}
}

// Min returns the lower corner of the box.
func (e Envelope) Min() Vec3 {
	return Vec3{
		X: e.Center.X - e.Width/2,
		Y: e.Center.Y - e.Height/2,
		Z: e.Center.Z - e.Depth/2,
	}
}

// Max returns the upper corner of the box.
func (e Envelope) Max() Vec3 {
	return Vec3{
		X: e.Center.X + e.Width/2,
		Y: e.Center.Y + e.Height/2,
		Z: e.Center.Z + e.Depth/2,
	}
}

// Footprint returns the ground-plane outline of the box in the same
// orientation as LotOutline.
func (e Envelope) Footprint() Outline {
	lo, hi := e.Min(), e.Max()
	return Outline{
		{X: lo.X, Y: lo.Z},
		{X: hi.X, Y: lo.Z},
		{X: hi.X, Y: hi.Z},
		{X: lo.X, Y: hi.Z},
	}
}

// Edge is a straight segment between two corners of the box.
type Edge struct {
	From Vec3 `json:"from"`
	To   Vec3 `json:"to"`
}

// Edges returns the 12 edges of the box: bottom ring, top ring, then the
// four verticals.
func (e Envelope) Edges() []Edge {
	lo, hi := e.Min(), e.Max()
	ring := func(y float64) [4]Vec3 {
		return [4]Vec3{
			{X: lo.X, Y: y, Z: lo.Z},
			{X: hi.X, Y: y, Z: lo.Z},
			{X: hi.X, Y: y, Z: hi.Z},
			{X: lo.X, Y: y, Z: hi.Z},
		}
	}
	bottom, top := ring(lo.Y), ring(hi.Y)

	edges := make([]Edge, 0, 12)
	for i := 0; i < 4; i++ {
		edges = append(edges, Edge{From: bottom[i], To: bottom[(i+1)%4]})
	}
	for i := 0; i < 4; i++ {
		edges = append(edges, Edge{From: top[i], To: top[(i+1)%4]})
	}
	for i := 0; i < 4; i++ {
		edges = append(edges, Edge{From: bottom[i], To: top[i]})
	}
	return edges
}
