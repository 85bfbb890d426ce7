package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRangeContains(t *testing.T) {
	r := Range{Min: 3, Max: 50, Step: 1}
	assert.True(t, r.Contains(3))
	assert.True(t, r.Contains(50))
	assert.True(t, r.Contains(12.5))
	assert.False(t, r.Contains(2.99))
	assert.False(t, r.Contains(50.01))
}

func TestAdvisories_DefaultsAreClean(t *testing.T) {
	notes := Advisories(DefaultParameters(), DefaultRanges())
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
}

func TestAdvisories_OutOfRange(t *testing.T) {
	p := DefaultParameters()
	p.Lot.Width = 120
	p.MaxHeight = 2

	notes := Advisories(p, DefaultRanges())
	assert.Len(t, notes, 2)
	assert.Contains(t, notes[0], "Lot width")
	assert.Contains(t, notes[1], "Max height")
}

func TestAdvisories_OverConstrained(t *testing.T) {
	p := Parameters{
		Lot:       LotSpec{Width: 10, Depth: 10},
		Setbacks:  Setbacks{Front: 10, Rear: 10, Left: 10, Right: 10},
		MaxHeight: 5,
	}
	notes := Advisories(p, DefaultRanges())

	assert.Contains(t, notes, "Side setbacks consume the full lot width; footprint is zero")
	assert.Contains(t, notes, "Front and rear setbacks consume the full lot depth; footprint is zero")
}
