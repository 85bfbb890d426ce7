package model

import "math"

// Point2D represents a coordinate on the ground plane in metres.
// X runs along the lot width, Y along the lot depth (positive towards the front).
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Outline represents a closed polygon as a sequence of 2D points.
// The outline is implicitly closed: the last point connects back to the first.
type Outline []Point2D

// BoundingBox returns the min and max corners of the outline.
func (o Outline) BoundingBox() (min, max Point2D) {
	if len(o) == 0 {
		return Point2D{}, Point2D{}
	}
	min = Point2D{X: o[0].X, Y: o[0].Y}
	max = Point2D{X: o[0].X, Y: o[0].Y}
	for _, p := range o[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max
}

// Translate shifts all points by dx, dy.
func (o Outline) Translate(dx, dy float64) Outline {
	result := make(Outline, len(o))
	for i, p := range o {
		result[i] = Point2D{X: p.X + dx, Y: p.Y + dy}
	}
	return result
}

// Area returns the unsigned shoelace area of the outline.
func (o Outline) Area() float64 {
	if len(o) < 3 {
		return 0
	}
	var sum float64
	for i := range o {
		j := (i + 1) % len(o)
		sum += o[i].X*o[j].Y - o[j].X*o[i].Y
	}
	if sum < 0 {
		sum = -sum
	}
	return sum / 2
}

// Vec3 is a point in the lot's world frame: X along the width, Y up,
// Z along the depth with +Z pointing at the front lot line.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// LotSpec describes the rectangular parcel in metres.
type LotSpec struct {
	Width float64 `json:"width" toml:"width" yaml:"width"`
	Depth float64 `json:"depth" toml:"depth" yaml:"depth"`
}

// Area returns the gross lot area in square metres.
func (l LotSpec) Area() float64 {
	return l.Width * l.Depth
}

// Setbacks holds the inward distances from each lot edge in metres.
// Values larger than the lot are valid input.
type Setbacks struct {
	Front float64 `json:"front" toml:"front" yaml:"front"`
	Rear  float64 `json:"rear" toml:"rear" yaml:"rear"`
	Left  float64 `json:"left" toml:"left" yaml:"left"`
	Right float64 `json:"right" toml:"right" yaml:"right"`
}

// HeightLimit is the maximum building height in metres.
type HeightLimit float64

// Parameters bundles the five independent inputs of an envelope study.
type Parameters struct {
	Lot       LotSpec     `json:"lot" toml:"lot" yaml:"lot"`
	Setbacks  Setbacks    `json:"setbacks" toml:"setbacks" yaml:"setbacks"`
	MaxHeight HeightLimit `json:"max_height" toml:"max_height" yaml:"max_height"`
}

// DefaultParameters returns the initial study: a 25 x 40 m lot with
// 6/8/3/3 m setbacks (front/rear/left/right) and a 12 m height limit.
func DefaultParameters() Parameters {
	return Parameters{
		Lot: LotSpec{Width: 25, Depth: 40},
		Setbacks: Setbacks{
			Front: 6,
			Rear:  8,
			Left:  3,
			Right: 3,
		},
		MaxHeight: 12,
	}
}

// IsFinite reports whether every input is a finite number. The core
// functions accept anything; outer layers use this to reject NaN and Inf.
func (p Parameters) IsFinite() bool {
	for _, v := range []float64{
		p.Lot.Width, p.Lot.Depth,
		p.Setbacks.Front, p.Setbacks.Rear, p.Setbacks.Left, p.Setbacks.Right,
		float64(p.MaxHeight),
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Envelope is the maximal axis-aligned buildable box. Center is relative to
// the lot centre on the ground plane; the box rests on Y = 0.
type Envelope struct {
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
	Height float64 `json:"height"`
	Center Vec3    `json:"center"`
}

// YieldMetrics are the development yield figures for a parameter set.
type YieldMetrics struct {
	EffectiveWidth float64 `json:"effective_width"`
	EffectiveDepth float64 `json:"effective_depth"`
	FootprintArea  float64 `json:"footprint_area"` // m²
	Volume         float64 `json:"volume"`         // m³
	EstimatedUnits int     `json:"estimated_units"`
}

// Evaluation carries both derivations of one parameter set.
type Evaluation struct {
	Parameters Parameters   `json:"parameters"`
	Envelope   Envelope     `json:"envelope"`
	Yield      YieldMetrics `json:"yield"`
	LotOutline Outline      `json:"lot_outline"`
}

// Evaluate runs the geometry engine and the yield calculator on p.
func Evaluate(p Parameters) Evaluation {
	return Evaluation{
		Parameters: p,
		Envelope:   ComputeEnvelope(p.Lot, p.Setbacks, p.MaxHeight),
		Yield:      ComputeYield(p.Lot, p.Setbacks, p.MaxHeight),
		LotOutline: LotOutline(p.Lot),
	}
}
