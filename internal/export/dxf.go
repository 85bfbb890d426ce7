package export

import (
	"fmt"

	"github.com/piwi3910/envelope/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/table"
)

// DXF layer names.
const (
	LayerLot       = "LOT"
	LayerFootprint = "FOOTPRINT"
	LayerEnvelope  = "ENVELOPE"
)

// ExportDXF writes the lot boundary, the envelope footprint and the envelope
// wireframe to a DXF drawing. Drawing X is the lot width axis, drawing Y is
// the depth axis with the front lot line towards -Y, and drawing Z is height.
func ExportDXF(path string, ev model.Evaluation) error {
	if !ev.Parameters.IsFinite() {
		return fmt.Errorf("cannot draw non-finite parameters")
	}

	d := dxf.NewDrawing()

	if _, err := d.AddLayer(LayerLot, color.Green, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", LayerLot, err)
	}
	if err := drawOutline(d, ev.LotOutline); err != nil {
		return err
	}

	if _, err := d.AddLayer(LayerFootprint, color.Cyan, table.LT_HIDDEN, true); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", LayerFootprint, err)
	}
	if err := drawOutline(d, ev.Envelope.Footprint()); err != nil {
		return err
	}

	if _, err := d.AddLayer(LayerEnvelope, color.Blue, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", LayerEnvelope, err)
	}
	for _, e := range ev.Envelope.Edges() {
		x1, y1, z1 := toDrawing(e.From)
		x2, y2, z2 := toDrawing(e.To)
		if _, err := d.Line(x1, y1, z1, x2, y2, z2); err != nil {
			return fmt.Errorf("failed to draw envelope edge: %w", err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write DXF file: %w", err)
	}
	return nil
}

// drawOutline adds a closed ground-plane outline to the current layer.
func drawOutline(d *drawing.Drawing, o model.Outline) error {
	for i := range o {
		a, b := o[i], o[(i+1)%len(o)]
		if _, err := d.Line(a.X, -a.Y, 0, b.X, -b.Y, 0); err != nil {
			return fmt.Errorf("failed to draw outline: %w", err)
		}
	}
	return nil
}

// toDrawing converts scene coordinates (Y up, +Z front) to drawing
// coordinates (Z up, front towards -Y).
func toDrawing(v model.Vec3) (x, y, z float64) {
	return v.X, -v.Z, v.Y
}
