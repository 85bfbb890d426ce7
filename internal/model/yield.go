package model

import (
	"fmt"
	"math"
)

// UnitVolume is the gross building volume (m³) counted as one notional
// dwelling unit when estimating yield.
const UnitVolume = 250.0

// yieldFloor clamps effective dimensions for the yield figures. It is zero,
// not envelopeFloor: a lot consumed by its setbacks has no footprint.
const yieldFloor = 0.0

// ComputeYield derives footprint area, volume and an estimated unit count.
// The height limit is used as given, without the geometry engine's floor.
func ComputeYield(lot LotSpec, setbacks Setbacks, maxHeight HeightLimit) YieldMetrics {
	effWidth := math.Max(yieldFloor, lot.Width-setbacks.Left-setbacks.Right)
	effDepth := math.Max(yieldFloor, lot.Depth-setbacks.Front-setbacks.Rear)

	footprint := effWidth * effDepth
	volume := footprint * float64(maxHeight)

	return YieldMetrics{
		EffectiveWidth: effWidth,
		EffectiveDepth: effDepth,
		FootprintArea:  footprint,
		Volume:         volume,
		EstimatedUnits: unitsFor(volume),
	}
}

// unitsFor floors volume/UnitVolume to a unit count, saturating at the
// int range so very large volumes do not wrap.
func unitsFor(volume float64) int {
	q := math.Floor(volume / UnitVolume)
	switch {
	case math.IsNaN(q):
		return 0
	case q >= math.MaxInt:
		return math.MaxInt
	case q <= math.MinInt:
		return math.MinInt
	}
	return int(q)
}

// Coverage returns the footprint as a percentage of the gross lot area.
func (y YieldMetrics) Coverage(lot LotSpec) float64 {
	area := lot.Area()
	if area <= 0 {
		return 0
	}
	return (y.FootprintArea / area) * 100.0
}

// FormatArea renders an area in square metres to one decimal place.
func FormatArea(v float64) string {
	return fmt.Sprintf("%.1f m²", v)
}

// FormatVolume renders a volume in cubic metres to one decimal place.
func FormatVolume(v float64) string {
	return fmt.Sprintf("%.1f m³", v)
}

// FormatLength renders a length in metres to one decimal place.
func FormatLength(v float64) string {
	return fmt.Sprintf("%.1f m", v)
}
