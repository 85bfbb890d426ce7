// Package importer provides CSV and Excel import of scenario batches and DXF
// import of surveyed lot outlines. It supports automatic delimiter detection,
// flexible column mapping, and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/envelope/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Scenarios []model.Scenario
	Errors    []string
	Warnings  []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
// A value of -1 means the column is absent.
type ColumnMapping struct {
	Name   int
	Width  int
	Depth  int
	Front  int
	Rear   int
	Left   int
	Right  int
	Height int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"name":   {"name", "label", "scenario", "lot", "parcel", "description", "site"},
	"width":  {"width", "lot width", "w", "frontage"},
	"depth":  {"depth", "lot depth", "d"},
	"front":  {"front", "front setback", "setback front", "front yard"},
	"rear":   {"rear", "rear setback", "setback rear", "rear yard", "back"},
	"left":   {"left", "left setback", "setback left", "left side", "side left"},
	"right":  {"right", "right setback", "setback right", "right side", "side right"},
	"height": {"height", "max height", "maximum height", "height limit", "h", "max_height"},
}

// positionalMapping is used when the first row is not a header:
// Name, Width, Depth, Front, Rear, Left, Right, Height.
var positionalMapping = ColumnMapping{
	Name: 0, Width: 1, Depth: 2, Front: 3, Rear: 4, Left: 5, Right: 6, Height: 7,
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each column role.
// Returns the mapping and true if a header was detected, or the positional
// mapping and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Name: -1, Width: -1, Depth: -1, Front: -1, Rear: -1, Left: -1, Right: -1, Height: -1}
	slots := map[string]*int{
		"name":   &mapping.Name,
		"width":  &mapping.Width,
		"depth":  &mapping.Depth,
		"front":  &mapping.Front,
		"rear":   &mapping.Rear,
		"left":   &mapping.Left,
		"right":  &mapping.Right,
		"height": &mapping.Height,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					if slot := slots[role]; *slot == -1 {
						*slot = i
					}
				}
			}
		}
	}

	if !isHeader {
		return positionalMapping, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseNumber parses a finite decimal. A comma decimal separator is accepted.
func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return v, nil
}

// parseRow extracts a Scenario from a row using the given column mapping.
// Optional setback columns that are absent or blank take their value from base.
// Returns the scenario, any error message, and any warning messages.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, count int, base model.Parameters) (model.Scenario, string, []string) {
	name := getCell(row, mapping.Name)
	if name == "" {
		name = fmt.Sprintf("Scenario %d", count+1)
	}

	p := base
	var warnings []string

	fields := []struct {
		label    string
		idx      int
		required bool
		dst      *float64
	}{
		{"width", mapping.Width, true, &p.Lot.Width},
		{"depth", mapping.Depth, true, &p.Lot.Depth},
		{"front setback", mapping.Front, false, &p.Setbacks.Front},
		{"rear setback", mapping.Rear, false, &p.Setbacks.Rear},
		{"left setback", mapping.Left, false, &p.Setbacks.Left},
		{"right setback", mapping.Right, false, &p.Setbacks.Right},
	}
	for _, f := range fields {
		raw := getCell(row, f.idx)
		if raw == "" {
			if f.required {
				return model.Scenario{}, fmt.Sprintf("%s: Missing %s value", rowLabel, f.label), nil
			}
			continue
		}
		v, err := parseNumber(raw)
		if err != nil {
			return model.Scenario{}, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, f.label, raw), nil
		}
		if v < 0 {
			warnings = append(warnings, fmt.Sprintf("%s: Negative %s %.2f", rowLabel, f.label, v))
		}
		*f.dst = v
	}

	heightStr := getCell(row, mapping.Height)
	if heightStr == "" {
		return model.Scenario{}, fmt.Sprintf("%s: Missing height value", rowLabel), nil
	}
	height, err := parseNumber(heightStr)
	if err != nil {
		return model.Scenario{}, fmt.Sprintf("%s: Invalid height '%s'", rowLabel, heightStr), nil
	}
	if height <= 0 {
		warnings = append(warnings, fmt.Sprintf("%s: Non-positive height %.2f", rowLabel, height))
	}
	p.MaxHeight = model.HeightLimit(height)

	return model.NewScenario(name, "", p), "", warnings
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports scenarios from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string, base model.Parameters) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings, base)
}

// ImportCSVFromReader imports scenarios from a CSV reader with a specific delimiter.
// This is useful for testing or when the delimiter is already known.
func ImportCSVFromReader(reader io.Reader, delimiter rune, base model.Parameters) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil, base)
}

// ImportExcel imports scenarios from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string, base model.Parameters) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil, base)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row into a scenario.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string, base model.Parameters) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Depth == -1 {
			missing = append(missing, "Depth")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		// An unrecognised header still fails to parse as a number.
		if _, err := parseNumber(strings.TrimSpace(rows[0][1])); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		scenario, errMsg, warnings := parseRow(row, mapping, rowLabel, len(result.Scenarios), base)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, warnings...)
		result.Scenarios = append(result.Scenarios, scenario)
	}

	return result
}
