package model

import "fmt"

// Range is the interval a control offers for one parameter.
type Range struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// Contains reports whether v lies inside the range, bounds included.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Ranges lists the bounds presented to users for each input. They are
// advisory: ComputeEnvelope and ComputeYield accept any finite value.
type Ranges struct {
	LotWidth  Range `json:"lot_width"`
	LotDepth  Range `json:"lot_depth"`
	Setback   Range `json:"setback"`
	MaxHeight Range `json:"max_height"`
}

// DefaultRanges returns the standard control bounds in metres.
func DefaultRanges() Ranges {
	return Ranges{
		LotWidth:  Range{Min: 10, Max: 100, Step: 1},
		LotDepth:  Range{Min: 10, Max: 150, Step: 1},
		Setback:   Range{Min: 0, Max: 30, Step: 1},
		MaxHeight: Range{Min: 3, Max: 50, Step: 1},
	}
}

// Advisories returns human-readable notes about inputs that fall outside
// r or that leave no buildable footprint. An empty slice means nothing
// noteworthy; the parameters are usable either way.
func Advisories(p Parameters, r Ranges) []string {
	notes := []string{}

	check := func(name string, v float64, rg Range) {
		if !rg.Contains(v) {
			notes = append(notes, fmt.Sprintf("%s %.1f m is outside the usual range %.0f-%.0f m", name, v, rg.Min, rg.Max))
		}
	}
	check("Lot width", p.Lot.Width, r.LotWidth)
	check("Lot depth", p.Lot.Depth, r.LotDepth)
	check("Front setback", p.Setbacks.Front, r.Setback)
	check("Rear setback", p.Setbacks.Rear, r.Setback)
	check("Left setback", p.Setbacks.Left, r.Setback)
	check("Right setback", p.Setbacks.Right, r.Setback)
	check("Max height", float64(p.MaxHeight), r.MaxHeight)

	if p.Setbacks.Left+p.Setbacks.Right >= p.Lot.Width {
		notes = append(notes, "Side setbacks consume the full lot width; footprint is zero")
	}
	if p.Setbacks.Front+p.Setbacks.Rear >= p.Lot.Depth {
		notes = append(notes, "Front and rear setbacks consume the full lot depth; footprint is zero")
	}
	return notes
}
