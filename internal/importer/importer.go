// Package importer loads source images and reads back previously exported
// manifests and grid outlines so a layout can be reapplied to a new image.
// Manifest import supports automatic delimiter detection and
// case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/GridCut/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Rows     []model.ManifestRow
	Layout   model.GridLayout
	Errors   []string
	Warnings []string
}

// OK reports whether a usable layout was recovered.
func (r ImportResult) OK() bool {
	return len(r.Errors) == 0 && r.Layout.Grid.Count() > 0
}

// ColumnMapping maps manifest columns to their indices in the data.
// -1 means the column is absent.
type ColumnMapping struct {
	Row        int
	Col        int
	X          int
	Y          int
	Width      int
	Height     int
	TrimTop    int
	TrimBottom int
	TrimLeft   int
	TrimRight  int
	File       int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"row":         {"row", "r"},
	"col":         {"col", "column", "c"},
	"x":           {"x", "left"},
	"y":           {"y", "top"},
	"width":       {"width", "w"},
	"height":      {"height", "h"},
	"trim_top":    {"trim_top"},
	"trim_bottom": {"trim_bottom"},
	"trim_left":   {"trim_left"},
	"trim_right":  {"trim_right"},
	"file":        {"file", "filename", "path"},
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

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the default
// export column order and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	idx := map[string]int{}
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					if _, seen := idx[role]; !seen {
						idx[role] = i
					}
				}
			}
		}
	}

	if len(idx) == 0 {
		return ColumnMapping{
			Row: 0, Col: 1, X: 2, Y: 3, Width: 4, Height: 5,
			TrimTop: 6, TrimBottom: 7, TrimLeft: 8, TrimRight: 9, File: 10,
		}, false
	}

	get := func(role string) int {
		if i, ok := idx[role]; ok {
			return i
		}
		return -1
	}
	return ColumnMapping{
		Row: get("row"), Col: get("col"),
		X: get("x"), Y: get("y"), Width: get("width"), Height: get("height"),
		TrimTop: get("trim_top"), TrimBottom: get("trim_bottom"),
		TrimLeft: get("trim_left"), TrimRight: get("trim_right"),
		File: get("file"),
	}, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts a ManifestRow using the given column mapping.
// Returns the row and an error message, if any.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (model.ManifestRow, string) {
	var r model.ManifestRow

	ints := []struct {
		name     string
		idx      int
		dst      *int
		optional bool
	}{
		{"row", mapping.Row, &r.Row, false},
		{"col", mapping.Col, &r.Col, false},
		{"x", mapping.X, &r.X, false},
		{"y", mapping.Y, &r.Y, false},
		{"width", mapping.Width, &r.Width, false},
		{"height", mapping.Height, &r.Height, false},
		{"trim_top", mapping.TrimTop, &r.Trim.Top, true},
		{"trim_bottom", mapping.TrimBottom, &r.Trim.Bottom, true},
		{"trim_left", mapping.TrimLeft, &r.Trim.Left, true},
		{"trim_right", mapping.TrimRight, &r.Trim.Right, true},
	}
	for _, f := range ints {
		s := getCell(row, f.idx)
		if s == "" {
			if f.optional {
				continue
			}
			return model.ManifestRow{}, fmt.Sprintf("%s: Missing %s value", rowLabel, f.name)
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return model.ManifestRow{}, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, f.name, s)
		}
		*f.dst = v
	}

	if r.Row < 1 || r.Col < 1 || r.Width <= 0 || r.Height <= 0 {
		return model.ManifestRow{}, fmt.Sprintf("%s: Row, col, width and height must be positive", rowLabel)
	}
	if r.Trim == (model.BorderTrim{}) {
		r.Trim = model.IdentityTrim(r.Width, r.Height)
	}
	r.File = getCell(row, mapping.File)
	return r, ""
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

// ImportManifest dispatches on the file extension: .xlsx and .xls are read
// as Excel workbooks, everything else as CSV.
func ImportManifest(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return ImportManifestExcel(path)
	default:
		return ImportManifestCSV(path)
	}
}

// ImportManifestCSV imports a manifest from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportManifestCSV(path string) ImportResult {
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

	return importFromReader(bytes.NewReader(data), delimiter, result.Warnings)
}

// ImportManifestFromReader imports a manifest from a CSV reader with a
// known delimiter.
func ImportManifestFromReader(reader io.Reader, delimiter rune) ImportResult {
	return importFromReader(reader, delimiter, nil)
}

func importFromReader(reader io.Reader, delimiter rune, warnings []string) ImportResult {
	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	if len(records) == 0 {
		return ImportResult{Errors: []string{"File is empty"}}
	}
	return importFromRows(records, "Line", warnings)
}

// ImportManifestExcel imports a manifest from the first sheet of an Excel file.
func ImportManifestExcel(path string) ImportResult {
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

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, parses each row and recovers the layout.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{Warnings: initialWarnings}

	mapping, hasHeader := DetectColumns(rows[0])
	start := 0
	if hasHeader {
		start = 1
	} else {
		result.Warnings = append(result.Warnings, "No header row detected, using export column order")
	}

	for i := start; i < len(rows); i++ {
		if isEmptyRow(rows[i]) {
			continue
		}
		label := fmt.Sprintf("%s %d", rowPrefix, i+1)
		r, msg := parseRow(rows[i], mapping, label)
		if msg != "" {
			result.Errors = append(result.Errors, msg)
			continue
		}
		result.Rows = append(result.Rows, r)
	}

	if len(result.Rows) == 0 {
		result.Errors = append(result.Errors, "No valid cells found")
		return result
	}

	layout, err := model.LayoutFromManifest(result.Rows)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	result.Layout = layout
	return result
}
