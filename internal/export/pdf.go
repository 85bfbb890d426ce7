// Package export writes envelope studies to report, drawing, workbook and
// scene formats.
package export

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"github.com/piwi3910/envelope/internal/engine"
	"github.com/piwi3910/envelope/internal/model"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 8.0

	drawColumnWidth = 150.0
	planHeight      = 100.0
	elevationHeight = 45.0
	infoColumnLeft  = marginLeft + drawColumnWidth + 12.0
	qrSize          = 32.0
)

// ReportOptions carries report metadata and optional extra pages.
type ReportOptions struct {
	Title    string
	Author   string
	ReportID string // generated when empty

	// Comparison adds a scenario comparison page when non-empty.
	Comparison []engine.ComparisonResult
}

// ExportPDF writes a study report: plan and elevation drawings of the lot and
// envelope, the input and yield tables, advisories and a QR code encoding the
// inputs. A comparison page follows when opts.Comparison is set.
func ExportPDF(path string, ev model.Evaluation, opts ReportOptions) error {
	if !ev.Parameters.IsFinite() {
		return fmt.Errorf("cannot draw non-finite parameters")
	}
	if opts.Title == "" {
		opts.Title = model.DefaultAppConfig().ReportTitle
	}
	if opts.ReportID == "" {
		opts.ReportID = uuid.New().String()[:8]
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetTitle(opts.Title, true)
	if opts.Author != "" {
		pdf.SetAuthor(opts.Author, true)
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	if err := renderStudyPage(pdf, tr, ev, opts); err != nil {
		return err
	}

	if len(opts.Comparison) > 0 {
		pdf.AddPage()
		renderComparisonPage(pdf, tr, opts)
	}

	return pdf.OutputFileAndClose(path)
}

// renderStudyPage draws the drawings and tables for one evaluation.
func renderStudyPage(pdf *fpdf.Fpdf, tr func(string) string, ev model.Evaluation, opts ReportOptions) error {
	renderHeader(pdf, tr, opts)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(marginLeft, drawAreaTop-6)
	pdf.CellFormat(drawColumnWidth, 5, "Plan", "", 0, "L", false, 0, "")
	drawPlan(pdf, tr, ev, marginLeft, drawAreaTop, drawColumnWidth, planHeight)

	elevTop := drawAreaTop + planHeight + 12
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(marginLeft, elevTop-6)
	pdf.CellFormat(drawColumnWidth, 5, "Front elevation", "", 0, "L", false, 0, "")
	drawElevation(pdf, tr, ev, marginLeft, elevTop, drawColumnWidth, elevationHeight)

	p := ev.Parameters
	y := drawAreaTop - 6
	y = drawKeyValueTable(pdf, tr, infoColumnLeft, y, "Inputs", []keyValue{
		{"Lot", fmt.Sprintf("%.1f x %.1f m", p.Lot.Width, p.Lot.Depth)},
		{"Front setback", model.FormatLength(p.Setbacks.Front)},
		{"Rear setback", model.FormatLength(p.Setbacks.Rear)},
		{"Left setback", model.FormatLength(p.Setbacks.Left)},
		{"Right setback", model.FormatLength(p.Setbacks.Right)},
		{"Max height", model.FormatLength(float64(p.MaxHeight))},
	})

	y = drawKeyValueTable(pdf, tr, infoColumnLeft, y+4, "Yield", []keyValue{
		{"Envelope", fmt.Sprintf("%.1f x %.1f x %.1f m", ev.Envelope.Width, ev.Envelope.Depth, ev.Envelope.Height)},
		{"Footprint", model.FormatArea(ev.Yield.FootprintArea)},
		{"Volume", model.FormatVolume(ev.Yield.Volume)},
		{"Estimated units", fmt.Sprintf("%d", ev.Yield.EstimatedUnits)},
		{"Lot coverage", fmt.Sprintf("%.1f%%", ev.Yield.Coverage(p.Lot))},
	})

	if notes := model.Advisories(p, model.DefaultRanges()); len(notes) > 0 {
		y += 4
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(infoColumnLeft, y)
		pdf.CellFormat(100, 6, "Advisories", "", 0, "L", false, 0, "")
		y += 7
		pdf.SetFont("Helvetica", "", 8)
		for _, note := range notes {
			pdf.SetXY(infoColumnLeft, y)
			pdf.MultiCell(pageWidth-marginRight-infoColumnLeft, 4, tr("- "+note), "", "L", false)
			y = pdf.GetY() + 1
		}
		pdf.SetTextColor(0, 0, 0)
	}

	png, err := InputsQRCode(p)
	if err != nil {
		return err
	}
	imgName := "qr_inputs_" + opts.ReportID
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	qrX := pageWidth - marginRight - qrSize
	qrY := pageHeight - marginBottom - qrSize - 6
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(qrX, qrY+qrSize)
	pdf.CellFormat(qrSize, 3, "Inputs (JSON)", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	renderFooter(pdf)
	return nil
}

// renderHeader draws the title and the report metadata line.
func renderHeader(pdf *fpdf.Fpdf, tr func(string) string, opts ReportOptions) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 8, tr(opts.Title), "", 0, "L", false, 0, "")

	meta := fmt.Sprintf("Report %s | %s", opts.ReportID, time.Now().Format("2006-01-02 15:04"))
	if opts.Author != "" {
		meta += " | " + opts.Author
	}
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(marginLeft, marginTop+8)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, tr(meta), "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+headerHeight+1, pageWidth-marginRight, marginTop+headerHeight+1)
}

func renderFooter(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by envelope - buildable envelope calculator", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// planFrame maps ground-plane coordinates to page coordinates. The front
// lot line (+Z) is drawn at the bottom of the frame.
type planFrame struct {
	minX, minZ float64
	scale      float64
	offX, offY float64
}

func (f planFrame) point(x, z float64) (float64, float64) {
	return f.offX + (x-f.minX)*f.scale, f.offY + (z-f.minZ)*f.scale
}

// fitFrame returns a frame that centres the given bounds inside the box.
func fitFrame(minX, minZ, maxX, maxZ, x, y, w, h float64) planFrame {
	spanX := math.Max(maxX-minX, 1)
	spanZ := math.Max(maxZ-minZ, 1)
	scale := math.Min(w/spanX, h/spanZ)
	return planFrame{
		minX:  minX,
		minZ:  minZ,
		scale: scale,
		offX:  x + (w-spanX*scale)/2,
		offY:  y + (h-spanZ*scale)/2,
	}
}

// drawPlan renders the lot and the envelope footprint seen from above.
func drawPlan(pdf *fpdf.Fpdf, tr func(string) string, ev model.Evaluation, x, y, w, h float64) {
	lotMin, lotMax := ev.LotOutline.BoundingBox()
	fpMin, fpMax := ev.Envelope.Footprint().BoundingBox()

	// Leave room for the dimension labels.
	frame := fitFrame(
		math.Min(lotMin.X, fpMin.X), math.Min(lotMin.Y, fpMin.Y),
		math.Max(lotMax.X, fpMax.X), math.Max(lotMax.Y, fpMax.Y),
		x+8, y+6, w-16, h-12,
	)

	lx, ly := frame.point(lotMin.X, lotMin.Y)
	lw := (lotMax.X - lotMin.X) * frame.scale
	lh := (lotMax.Y - lotMin.Y) * frame.scale
	pdf.SetFillColor(220, 237, 200)
	pdf.SetDrawColor(60, 120, 60)
	pdf.SetLineWidth(0.5)
	pdf.Rect(lx, ly, lw, lh, "FD")

	fx, fy := frame.point(fpMin.X, fpMin.Y)
	fw := (fpMax.X - fpMin.X) * frame.scale
	fh := (fpMax.Y - fpMin.Y) * frame.scale
	pdf.SetFillColor(33, 150, 243)
	pdf.SetDrawColor(13, 71, 161)
	pdf.SetLineWidth(0.4)
	pdf.Rect(fx, fy, fw, fh, "FD")

	pdf.SetFont("Helvetica", "B", 7)
	pdf.SetTextColor(80, 80, 80)
	pdf.SetXY(lx, ly+lh+0.5)
	pdf.CellFormat(lw, 4, "FRONT", "", 0, "C", false, 0, "")
	pdf.SetXY(lx, ly-4.5)
	pdf.CellFormat(lw, 4, "REAR", "", 0, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	p := ev.Parameters
	pdf.SetXY(lx, ly+lh+4)
	pdf.CellFormat(lw, 4, tr(model.FormatLength(p.Lot.Width)), "", 0, "C", false, 0, "")
	drawRotatedLabel(pdf, tr(model.FormatLength(p.Lot.Depth)), lx-3, ly+lh/2)

	if fw > 20 && fh > 10 {
		pdf.SetTextColor(255, 255, 255)
		label := tr(model.FormatArea(ev.Yield.FootprintArea))
		pdf.SetXY(fx, fy+fh/2-2)
		pdf.CellFormat(fw, 4, label, "", 0, "C", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
}

// drawElevation renders the envelope seen from the front, standing on the
// lot width.
func drawElevation(pdf *fpdf.Fpdf, tr func(string) string, ev model.Evaluation, x, y, w, h float64) {
	lotMin, lotMax := ev.LotOutline.BoundingBox()
	lo, hi := ev.Envelope.Min(), ev.Envelope.Max()

	minX := math.Min(lotMin.X, lo.X)
	maxX := math.Max(lotMax.X, hi.X)
	// The vertical axis runs downwards on the page, so frame it as -Y.
	frame := fitFrame(minX, -hi.Y, maxX, 0, x+8, y+2, w-16, h-8)

	gx1, gy := frame.point(lotMin.X, 0)
	gx2, _ := frame.point(lotMax.X, 0)
	pdf.SetDrawColor(60, 120, 60)
	pdf.SetLineWidth(0.6)
	pdf.Line(gx1, gy, gx2, gy)

	bx, by := frame.point(lo.X, -hi.Y)
	bw := (hi.X - lo.X) * frame.scale
	bh := (hi.Y - lo.Y) * frame.scale
	pdf.SetFillColor(144, 202, 249)
	pdf.SetDrawColor(13, 71, 161)
	pdf.SetLineWidth(0.4)
	pdf.Rect(bx, by, bw, bh, "FD")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(80, 80, 80)
	drawRotatedLabel(pdf, tr(model.FormatLength(ev.Envelope.Height)), bx-3, by+bh/2)
	pdf.SetXY(bx, gy+0.5)
	pdf.CellFormat(bw, 4, tr(model.FormatLength(ev.Envelope.Width)), "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// drawRotatedLabel writes text rotated 90 degrees, centred on (cx, cy).
func drawRotatedLabel(pdf *fpdf.Fpdf, text string, cx, cy float64) {
	pdf.TransformBegin()
	pdf.TransformRotate(90, cx, cy)
	tw := pdf.GetStringWidth(text)
	pdf.SetXY(cx-tw/2, cy-2)
	pdf.CellFormat(tw, 4, text, "", 0, "C", false, 0, "")
	pdf.TransformEnd()
}

type keyValue struct {
	label string
	value string
}

// drawKeyValueTable draws a titled two-column list and returns the y
// position below it.
func drawKeyValueTable(pdf *fpdf.Fpdf, tr func(string) string, x, y float64, title string, items []keyValue) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(x, y)
	pdf.CellFormat(100, 7, title, "", 0, "L", false, 0, "")
	y += 8

	for i, item := range items {
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetXY(x, y)
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(40, 6, tr(item.label+":"), "", 0, "L", true, 0, "")
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(60, 6, tr(item.value), "", 0, "L", true, 0, "")
		y += 6
	}
	return y
}

// renderComparisonPage draws one table row per compared scenario. The row
// with the most estimated units is marked.
func renderComparisonPage(pdf *fpdf.Fpdf, tr func(string) string, opts ReportOptions) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Scenario Comparison", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	colWidths := []float64{55, 28, 42, 20, 30, 30, 18, 20, 24}
	headers := []string{"Scenario", "Lot (m)", "Setbacks F/R/L/R (m)", "Height", "Footprint", "Volume", "Units", "Units +/-", "Coverage"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	best := engine.BestByUnits(opts.Comparison)
	for i, r := range opts.Comparison {
		p := r.Scenario.Parameters
		name := r.Scenario.Name
		if i == best {
			name += " *"
		}
		rowData := []string{
			name,
			fmt.Sprintf("%.1f x %.1f", p.Lot.Width, p.Lot.Depth),
			fmt.Sprintf("%.1f / %.1f / %.1f / %.1f", p.Setbacks.Front, p.Setbacks.Rear, p.Setbacks.Left, p.Setbacks.Right),
			fmt.Sprintf("%.1f", float64(p.MaxHeight)),
			model.FormatArea(r.Evaluation.Yield.FootprintArea),
			model.FormatVolume(r.Evaluation.Yield.Volume),
			fmt.Sprintf("%d", r.Evaluation.Yield.EstimatedUnits),
			fmt.Sprintf("%+d", r.UnitsDelta),
			fmt.Sprintf("%.1f%%", r.Coverage),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		if i == best {
			pdf.SetFont("Helvetica", "B", 9)
		} else {
			pdf.SetFont("Helvetica", "", 9)
		}

		xPos = marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, tr(cell), "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6

		if y > pageHeight-marginBottom-12 {
			renderFooter(pdf)
			pdf.AddPage()
			y = marginTop
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetXY(marginLeft, y+3)
	pdf.CellFormat(200, 4, "* most estimated units; deltas are relative to the first scenario", "", 0, "L", false, 0, "")

	renderFooter(pdf)
}
