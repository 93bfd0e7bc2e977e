package importer

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/GridCut/internal/export"
	"github.com/piwi3910/GridCut/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func testRows() []model.ManifestRow {
	var rows []model.ManifestRow
	for r := 0; r < 2; r++ {
		for c := 0; c < 3; c++ {
			rows = append(rows, model.ManifestRow{
				Row: r + 1, Col: c + 1,
				X: 10 + c*30, Y: 5 + r*40, Width: 30, Height: 40,
				Trim: model.IdentityTrim(30, 40),
				File: export.CellFileName("scan", model.Cell{Row: r, Col: c}),
			})
		}
	}
	return rows
}

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("row,col,x,y,width,height\n1,1,0,0,10,10\n1,2,10,0,10,10\n")
	if got := DetectCSVDelimiter(data); got != ',' {
		t.Errorf("expected comma delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	data := []byte("row;col;x;y;width;height\n1;1;0;0;10;10\n1;2;10;0;10;10\n")
	if got := DetectCSVDelimiter(data); got != ';' {
		t.Errorf("expected semicolon delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("row\tcol\tx\ty\twidth\theight\n1\t1\t0\t0\t10\t10\n")
	if got := DetectCSVDelimiter(data); got != '\t' {
		t.Errorf("expected tab delimiter, got %q", got)
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_ExportHeader(t *testing.T) {
	mapping, isHeader := DetectColumns(model.ManifestHeader)
	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Row != 0 || mapping.Col != 1 || mapping.TrimRight != 9 || mapping.File != 10 {
		t.Errorf("unexpected mapping: %+v", mapping)
	}
}

func TestDetectColumns_ReorderedAliases(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Filename", "W", "H", "Left", "Top", "Column", "Row"})
	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.File != 0 || mapping.Width != 1 || mapping.X != 3 || mapping.Row != 6 {
		t.Errorf("unexpected mapping: %+v", mapping)
	}
	if mapping.TrimTop != -1 {
		t.Errorf("expected missing trim column, got %d", mapping.TrimTop)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"1", "1", "0", "0", "10", "10"})
	if isHeader {
		t.Error("expected no header")
	}
	if mapping.Width != 4 {
		t.Errorf("expected positional width at 4, got %d", mapping.Width)
	}
}

// ─── Manifest import ───────────────────────────────────────

func TestImportManifest_CSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.csv")
	if err := export.ExportManifestCSV(path, testRows()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	result := ImportManifest(path)
	if !result.OK() {
		t.Fatalf("import failed: %v", result.Errors)
	}
	if len(result.Rows) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(result.Rows))
	}
	want := model.GridLayout{Selection: image.Rect(10, 5, 100, 85), Grid: model.GridSpec{Rows: 2, Cols: 3}}
	if result.Layout != want {
		t.Errorf("layout = %+v, want %+v", result.Layout, want)
	}
}

func TestImportManifest_ExcelRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.xlsx")
	if err := export.ExportManifestXLSX(path, testRows()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	result := ImportManifest(path)
	if !result.OK() {
		t.Fatalf("import failed: %v", result.Errors)
	}
	if result.Rows[5].File != "scan_r2c3.png" {
		t.Errorf("unexpected file %q", result.Rows[5].File)
	}
	if result.Layout.Grid != (model.GridSpec{Rows: 2, Cols: 3}) {
		t.Errorf("unexpected grid %+v", result.Layout.Grid)
	}
}

func TestImportManifestCSV_SemicolonWarning(t *testing.T) {
	path := writeFile(t, "m.csv", "row;col;x;y;width;height\n1;1;0;0;10;10\n")
	result := ImportManifestCSV(path)
	if !result.OK() {
		t.Fatalf("import failed: %v", result.Errors)
	}
	if len(result.Warnings) == 0 || !strings.Contains(result.Warnings[0], "semicolon") {
		t.Errorf("expected semicolon warning, got %v", result.Warnings)
	}
	if !result.Rows[0].Trim.IsIdentity(10, 10) {
		t.Errorf("missing trim columns should default to identity, got %+v", result.Rows[0].Trim)
	}
}

func TestImportManifestCSV_BadRows(t *testing.T) {
	path := writeFile(t, "m.csv", "row,col,x,y,width,height\n1,1,0,0,abc,10\n0,1,0,0,10,10\n\n1,2,10,0,10,10\n")
	result := ImportManifestCSV(path)
	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %v", result.Errors)
	}
	if len(result.Rows) != 1 {
		t.Errorf("expected 1 valid row, got %d", len(result.Rows))
	}
}

func TestImportManifestCSV_Empty(t *testing.T) {
	result := ImportManifestCSV(writeFile(t, "m.csv", "  \n"))
	if len(result.Errors) == 0 {
		t.Fatal("expected error for empty file")
	}
	if result.OK() {
		t.Error("empty import must not be OK")
	}
}

func TestImportManifestFromReader(t *testing.T) {
	result := ImportManifestFromReader(strings.NewReader("1|1|0|0|5|5\n1|2|5|0|5|5\n"), '|')
	if !result.OK() {
		t.Fatalf("import failed: %v", result.Errors)
	}
	if result.Layout.Selection != image.Rect(0, 0, 10, 5) {
		t.Errorf("unexpected selection %v", result.Layout.Selection)
	}
}

// ─── DXF import ────────────────────────────────────────────

func TestImportGridDXF_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.dxf")
	sel := model.Rect{X: 10, Y: 20, Width: 90, Height: 60}
	if err := export.ExportGridDXF(path, sel, model.GridSpec{Rows: 2, Cols: 3}, 100); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	result := ImportGridDXF(path, 100)
	if !result.OK() {
		t.Fatalf("import failed: %v", result.Errors)
	}
	want := model.GridLayout{Selection: image.Rect(10, 20, 100, 80), Grid: model.GridSpec{Rows: 2, Cols: 3}}
	if result.Layout != want {
		t.Errorf("layout = %+v, want %+v", result.Layout, want)
	}
}

func TestImportGridDXF_MissingFile(t *testing.T) {
	result := ImportGridDXF(filepath.Join(t.TempDir(), "nope.dxf"), 100)
	if len(result.Errors) == 0 {
		t.Fatal("expected error for missing file")
	}
}
