// Package engine provides what-if tooling on top of the envelope model:
// one-dimensional parameter sweeps and scenario comparison.
package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/piwi3910/envelope/internal/model"
)

// Axis names the input a sweep varies.
type Axis string

const (
	AxisLotWidth  Axis = "width"
	AxisLotDepth  Axis = "depth"
	AxisFront     Axis = "front"
	AxisRear      Axis = "rear"
	AxisLeft      Axis = "left"
	AxisRight     Axis = "right"
	AxisMaxHeight Axis = "height"
)

// Axes lists every sweepable axis in display order.
var Axes = []Axis{AxisLotWidth, AxisLotDepth, AxisFront, AxisRear, AxisLeft, AxisRight, AxisMaxHeight}

// MaxSweepPoints bounds the number of samples a single sweep may produce.
const MaxSweepPoints = 10000

// ParseAxis converts a user-supplied name to an Axis.
func ParseAxis(s string) (Axis, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "max_height", "maxheight":
		return AxisMaxHeight, nil
	case "lot_width":
		return AxisLotWidth, nil
	case "lot_depth":
		return AxisLotDepth, nil
	}
	for _, a := range Axes {
		if string(a) == name {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown sweep axis %q", s)
}

// With returns p with the axis set to v.
func (a Axis) With(p model.Parameters, v float64) model.Parameters {
	switch a {
	case AxisLotWidth:
		p.Lot.Width = v
	case AxisLotDepth:
		p.Lot.Depth = v
	case AxisFront:
		p.Setbacks.Front = v
	case AxisRear:
		p.Setbacks.Rear = v
	case AxisLeft:
		p.Setbacks.Left = v
	case AxisRight:
		p.Setbacks.Right = v
	case AxisMaxHeight:
		p.MaxHeight = model.HeightLimit(v)
	}
	return p
}

// SweepSpec describes an inclusive range of values for one axis.
type SweepSpec struct {
	Axis Axis
	From float64
	To   float64
	Step float64
}

// Count returns the number of samples the sweep produces.
func (s SweepSpec) Count() int {
	return int(math.Floor((s.To-s.From)/s.Step+1e-9)) + 1
}

// Validate checks that the sweep covers a finite, bounded range.
func (s SweepSpec) Validate() error {
	for _, v := range []float64{s.From, s.To, s.Step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("sweep bounds must be finite")
		}
	}
	if s.Step <= 0 {
		return fmt.Errorf("sweep step must be positive, got %g", s.Step)
	}
	if s.To < s.From {
		return fmt.Errorf("sweep end %g is before start %g", s.To, s.From)
	}
	if n := (s.To-s.From)/s.Step + 1; n > MaxSweepPoints {
		return fmt.Errorf("sweep would produce %.0f points (max %d)", math.Floor(n), MaxSweepPoints)
	}
	return nil
}

// SweepPoint is one sample of a sweep.
type SweepPoint struct {
	Value      float64
	Evaluation model.Evaluation
}

// Sweep evaluates base with spec.Axis stepped from From to To inclusive.
// Samples are computed as From + i*Step to avoid accumulating rounding error.
func Sweep(base model.Parameters, spec SweepSpec) ([]SweepPoint, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	n := spec.Count()
	points := make([]SweepPoint, 0, n)
	for i := 0; i < n; i++ {
		v := spec.From + float64(i)*spec.Step
		points = append(points, SweepPoint{
			Value:      v,
			Evaluation: model.Evaluate(spec.Axis.With(base, v)),
		})
	}
	return points, nil
}

// FirstUnitGain returns the index of the first sample whose estimated unit
// count exceeds that of the first sample, or -1 if none does.
func FirstUnitGain(points []SweepPoint) int {
	if len(points) == 0 {
		return -1
	}
	start := points[0].Evaluation.Yield.EstimatedUnits
	for i, p := range points[1:] {
		if p.Evaluation.Yield.EstimatedUnits > start {
			return i + 1
		}
	}
	return -1
}
