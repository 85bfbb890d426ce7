package export

import (
	"fmt"

	"github.com/piwi3910/envelope/internal/engine"
	"github.com/piwi3910/envelope/internal/model"
	"github.com/xuri/excelize/v2"
)

// Sheet names used in exported workbooks.
const (
	SheetSummary   = "Summary"
	SheetSweep     = "Sweep"
	SheetScenarios = "Scenarios"
)

// ScenarioHeaders is the header row of the scenario sheet. The first eight
// columns match the batch import layout so an exported sheet can be
// re-imported as is.
var ScenarioHeaders = []string{
	"Name", "Width", "Depth", "Front", "Rear", "Left", "Right", "Height",
	"Footprint (m²)", "Volume (m³)", "Units", "Units +/-", "Coverage (%)",
}

// ExportXLSX writes a workbook with a summary sheet for ev and, when points
// is non-empty, a sweep sheet with one row per sample.
func ExportXLSX(path string, ev model.Evaluation, axis engine.Axis, points []engine.SweepPoint) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	header, err := headerStyle(f)
	if err != nil {
		return err
	}

	if err := writeSummary(f, header, ev); err != nil {
		return err
	}

	if len(points) > 0 {
		if _, err := f.NewSheet(SheetSweep); err != nil {
			return fmt.Errorf("failed to add sweep sheet: %w", err)
		}
		if err := writeSweep(f, header, axis, points); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// ExportScenariosXLSX writes one row per compared scenario.
func ExportScenariosXLSX(path string, results []engine.ComparisonResult) error {
	if len(results) == 0 {
		return fmt.Errorf("no scenarios to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetScenarios); err != nil {
		return fmt.Errorf("failed to name scenario sheet: %w", err)
	}
	header, err := headerStyle(f)
	if err != nil {
		return err
	}

	row := make([]interface{}, len(ScenarioHeaders))
	for i, h := range ScenarioHeaders {
		row[i] = h
	}
	if err := setRow(f, SheetScenarios, 1, row...); err != nil {
		return err
	}
	if err := styleRow(f, SheetScenarios, 1, len(ScenarioHeaders), header); err != nil {
		return err
	}

	for i, r := range results {
		p := r.Scenario.Parameters
		y := r.Evaluation.Yield
		if err := setRow(f, SheetScenarios, i+2,
			r.Scenario.Name,
			p.Lot.Width, p.Lot.Depth,
			p.Setbacks.Front, p.Setbacks.Rear, p.Setbacks.Left, p.Setbacks.Right,
			float64(p.MaxHeight),
			y.FootprintArea, y.Volume, y.EstimatedUnits, r.UnitsDelta, r.Coverage,
		); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SheetScenarios, "A", "A", 28); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, header int, ev model.Evaluation) error {
	p := ev.Parameters
	rows := [][]interface{}{
		{"Parameter", "Value", "Unit"},
		{"Lot width", p.Lot.Width, "m"},
		{"Lot depth", p.Lot.Depth, "m"},
		{"Front setback", p.Setbacks.Front, "m"},
		{"Rear setback", p.Setbacks.Rear, "m"},
		{"Left setback", p.Setbacks.Left, "m"},
		{"Right setback", p.Setbacks.Right, "m"},
		{"Max height", float64(p.MaxHeight), "m"},
		{},
		{"Envelope width", ev.Envelope.Width, "m"},
		{"Envelope depth", ev.Envelope.Depth, "m"},
		{"Envelope height", ev.Envelope.Height, "m"},
		{"Footprint area", ev.Yield.FootprintArea, "m²"},
		{"Volume", ev.Yield.Volume, "m³"},
		{"Estimated units", ev.Yield.EstimatedUnits, ""},
		{"Lot coverage", ev.Yield.Coverage(p.Lot), "%"},
	}

	for i, r := range rows {
		if err := setRow(f, SheetSummary, i+1, r...); err != nil {
			return err
		}
	}
	if err := styleRow(f, SheetSummary, 1, 3, header); err != nil {
		return err
	}

	next := len(rows) + 2
	for _, note := range model.Advisories(p, model.DefaultRanges()) {
		if err := setRow(f, SheetSummary, next, "Advisory", note); err != nil {
			return err
		}
		next++
	}

	if err := f.SetColWidth(SheetSummary, "A", "A", 20); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	return nil
}

func writeSweep(f *excelize.File, header int, axis engine.Axis, points []engine.SweepPoint) error {
	headers := []interface{}{
		fmt.Sprintf("%s (m)", axis),
		"Envelope width", "Envelope depth", "Envelope height",
		"Footprint (m²)", "Volume (m³)", "Units",
	}
	if err := setRow(f, SheetSweep, 1, headers...); err != nil {
		return err
	}
	if err := styleRow(f, SheetSweep, 1, len(headers), header); err != nil {
		return err
	}

	for i, pt := range points {
		ev := pt.Evaluation
		if err := setRow(f, SheetSweep, i+2,
			pt.Value,
			ev.Envelope.Width, ev.Envelope.Depth, ev.Envelope.Height,
			ev.Yield.FootprintArea, ev.Yield.Volume, ev.Yield.EstimatedUnits,
		); err != nil {
			return err
		}
	}
	return nil
}

func headerStyle(f *excelize.File) (int, error) {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create header style: %w", err)
	}
	return style, nil
}

// setRow writes values left to right starting at column A of the given
// 1-based row.
func setRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to create cell reference: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to set %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func styleRow(f *excelize.File, sheet string, row, cols, style int) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(cols, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, style)
}
