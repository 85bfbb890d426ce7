package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/envelope/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// segment represents a line segment between two 2D points, used for
// chaining disconnected LINE entities into closed outlines.
type segment struct {
	start model.Point2D
	end   model.Point2D
}

// LotImport is the result of reading a surveyed lot from a DXF drawing.
type LotImport struct {
	Lot      model.LotSpec
	Outline  model.Outline // normalised so its bounding box starts at the origin
	Errors   []string
	Warnings []string
}

// rectangularityTolerance is the largest relative difference between an
// outline's area and its bounding box area for it to count as a rectangle.
const rectangularityTolerance = 0.01

// ImportLot reads a DXF file and takes the largest closed shape (LWPOLYLINE
// or chain of LINEs) as the lot boundary. Lots are rectangular, so the
// bounding box of the shape gives width (X) and depth (Y); a warning is
// recorded when the shape is not an axis-aligned rectangle.
func ImportLot(path string) LotImport {
	result := LotImport{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines []model.Outline
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			outline, curved := lwPolylineToOutline(e)
			if curved {
				result.Warnings = append(result.Warnings, "Ignored arc segments in LWPOLYLINE")
			}
			if len(outline) >= 3 {
				outlines = append(outlines, outline)
			} else {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Line:
			seg := segment{
				start: model.Point2D{X: e.Start[0], Y: e.Start[1]},
				end:   model.Point2D{X: e.End[0], Y: e.End[1]},
			}
			// Vertical edges of 3D wireframes collapse to a point in plan.
			if !pointsClose(seg.start, seg.end, 1e-9) {
				segments = append(segments, seg)
			}
		}
	}

	outlines = append(outlines, chainSegments(segments, 0.01)...)
	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	sort.SliceStable(outlines, func(i, j int) bool {
		return outlines[i].Area() > outlines[j].Area()
	})
	lot := normalizeOutline(outlines[0])
	min, max := lot.BoundingBox()
	width, depth := max.X-min.X, max.Y-min.Y

	if width < 0.01 || depth < 0.01 {
		result.Errors = append(result.Errors, fmt.Sprintf("Lot outline is degenerate (%.2f x %.2f m)", width, depth))
		return result
	}

	boxArea := width * depth
	if math.Abs(boxArea-lot.Area())/boxArea > rectangularityTolerance {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"Lot outline is not an axis-aligned rectangle; using its %.2f x %.2f m bounding box", width, depth))
	}
	if len(outlines) > 1 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Found %d closed shapes, using the largest", len(outlines)))
	}

	result.Lot = model.LotSpec{Width: width, Depth: depth}
	result.Outline = lot
	return result
}

// lwPolylineToOutline converts a DXF LWPOLYLINE entity to an Outline. Bulges
// are dropped (straight chords are used) and reported via the second result.
func lwPolylineToOutline(lw *entity.LwPolyline) (model.Outline, bool) {
	outline := make(model.Outline, 0, len(lw.Vertices))
	curved := false
	for i, v := range lw.Vertices {
		outline = append(outline, model.Point2D{X: v[0], Y: v[1]})
		if i < len(lw.Bulges) && math.Abs(lw.Bulges[i]) > 1e-9 {
			curved = true
		}
	}
	return outline, curved
}

// chainSegments connects individual segments into closed outlines.
// tolerance is the maximum distance between endpoints to consider them connected.
// Open chains are discarded.
func chainSegments(segs []segment, tolerance float64) []model.Outline {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines []model.Outline

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []model.Point2D{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]
			if len(chain) >= 4 && pointsClose(chain[0], tail, tolerance) {
				break
			}

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			outlines = append(outlines, model.Outline(chain[:len(chain)-1]))
		}
	}

	return outlines
}

// pointsClose checks whether two points are within the given tolerance.
func pointsClose(a, b model.Point2D, tolerance float64) bool {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx+dy*dy) <= tolerance
}

// normalizeOutline translates the outline so its bounding box starts at (0, 0).
func normalizeOutline(o model.Outline) model.Outline {
	if len(o) == 0 {
		return o
	}
	min, _ := o.BoundingBox()
	return o.Translate(-min.X, -min.Y)
}
