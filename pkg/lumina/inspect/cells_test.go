package inspect

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExtractCells(t *testing.T) {
	// Create a temporary Excel file for testing
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	f.SetCellValue(sheetName, "A1", "Header1")
	f.SetCellValue(sheetName, "B1", "Header2")
	f.SetCellValue(sheetName, "A2", 100)
	f.SetCellValue(sheetName, "B2", 200.5)
	f.SetCellValue(sheetName, "A3", "Text")
	if err := f.AddComment(sheetName, excelize.Comment{Cell: "C3", Author: "test", Text: "see https://x.example.com/a.png"}); err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}

	tmpFile := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	f2, err := excelize.OpenFile(tmpFile)
	if err != nil {
		t.Fatalf("Failed to open test file: %v", err)
	}
	defer f2.Close()

	notes, err := ExtractComments(f2, sheetName)
	if err != nil {
		t.Fatalf("ExtractComments failed: %v", err)
	}
	rows, err := ExtractCells(f2, sheetName, notes)
	if err != nil {
		t.Fatalf("ExtractCells failed: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	if rows[0].R != 1 {
		t.Errorf("Expected row 1, got %d", rows[0].R)
	}
	if rows[0].C["1"] != "Header1" {
		t.Errorf("Expected 'Header1', got %v", rows[0].C["1"])
	}
	if rows[1].C["1"] != int64(100) {
		t.Errorf("Expected int64(100), got %v (type: %T)", rows[1].C["1"], rows[1].C["1"])
	}
	if rows[1].C["2"] != 200.5 {
		t.Errorf("Expected 200.5, got %v", rows[1].C["2"])
	}
	if rows[2].Notes["3"] != "see https://x.example.com/a.png" {
		t.Errorf("Expected note on C3, got %q", rows[2].Notes["3"])
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected interface{}
	}{
		{"123", int64(123)},
		{"123.45", 123.45},
		{"-100", int64(-100)},
		{"3 set", "3 set"},
		{"", ""},
	}

	for _, tt := range tests {
		result := parseValue(tt.input)
		if result != tt.expected {
			t.Errorf("parseValue(%q) = %v (type: %T), expected %v (type: %T)",
				tt.input, result, result, tt.expected, tt.expected)
		}
	}
}

func TestFindDataBounds(t *testing.T) {
	rows := [][]string{
		{},
		{"", "x"},
		{"", "", "", "y"},
	}
	minRow, maxRow, minCol, maxCol := findDataBounds(rows)
	if minRow != 1 || maxRow != 2 || minCol != 1 || maxCol != 3 {
		t.Errorf("findDataBounds = (%d, %d, %d, %d), expected (1, 2, 1, 3)", minRow, maxRow, minCol, maxCol)
	}

	if r, _, _, _ := findDataBounds(nil); r != -1 {
		t.Errorf("findDataBounds(nil) minRow = %d, expected -1", r)
	}
}

func TestParsePrintAreaReference(t *testing.T) {
	tests := []struct {
		ref       string
		sheet     string
		areaCount int
	}{
		{"'Spec Sheet'!$A$1:$I$14", "Spec Sheet", 1},
		{"Sheet1!$A$1:$B$2,Sheet1!$D$1:$E$2", "Sheet1", 2},
		{"$A$1:$B$2", "", 0},
	}

	for _, tt := range tests {
		sheet, areas := parsePrintAreaReference(tt.ref)
		if sheet != tt.sheet || len(areas) != tt.areaCount {
			t.Errorf("parsePrintAreaReference(%q) = (%q, %d areas), expected (%q, %d)",
				tt.ref, sheet, len(areas), tt.sheet, tt.areaCount)
		}
	}

	_, areas := parsePrintAreaReference("'Spec Sheet'!$A$1:$I$14")
	if a := areas[0]; a.R1 != 1 || a.C1 != 1 || a.R2 != 14 || a.C2 != 9 {
		t.Errorf("area = %+v, expected A1:I14", a)
	}
}

func TestResolveRelativePath(t *testing.T) {
	tests := []struct {
		target   string
		baseDir  string
		expected string
	}{
		{"../drawings/drawing1.xml", "xl/drawings", "xl/drawings/drawing1.xml"},
		{"/xl/drawings/drawing1.xml", "xl/drawings", "xl/drawings/drawing1.xml"},
		{"worksheets/sheet1.xml", "xl", "xl/worksheets/sheet1.xml"},
	}

	for _, tt := range tests {
		result := resolveRelativePath(tt.target, tt.baseDir)
		if result != tt.expected {
			t.Errorf("resolveRelativePath(%q, %q) = %q, expected %q",
				tt.target, tt.baseDir, result, tt.expected)
		}
	}
}

func TestParseDrawingPictures(t *testing.T) {
	drawing := []byte(`<xdr:wsDr xmlns:xdr="http://schemas.openxmlformats.org/drawingml/2006/spreadsheetDrawing" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
<xdr:twoCellAnchor editAs="oneCell">
  <xdr:from><xdr:col>2</xdr:col><xdr:colOff>190500</xdr:colOff><xdr:row>7</xdr:row><xdr:rowOff>57150</xdr:rowOff></xdr:from>
  <xdr:to><xdr:col>3</xdr:col><xdr:colOff>0</xdr:colOff><xdr:row>10</xdr:row><xdr:rowOff>0</xdr:rowOff></xdr:to>
  <xdr:pic><xdr:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="1714500" cy="762000"/></a:xfrm></xdr:spPr></xdr:pic>
  <xdr:clientData/>
</xdr:twoCellAnchor>
<xdr:twoCellAnchor>
  <xdr:from><xdr:col>0</xdr:col><xdr:colOff>0</xdr:colOff><xdr:row>0</xdr:row><xdr:rowOff>0</xdr:rowOff></xdr:from>
  <xdr:sp><xdr:spPr><a:xfrm><a:ext cx="9525" cy="9525"/></a:xfrm></xdr:spPr></xdr:sp>
</xdr:twoCellAnchor>
</xdr:wsDr>`)

	anchors := parseDrawingPictures(drawing)
	if len(anchors) != 1 {
		t.Fatalf("Expected 1 picture anchor, got %d", len(anchors))
	}
	a := anchors[0]
	if a.cell != "C8" || a.offsetX != 20 || a.offsetY != 6 || a.width != 180 || a.height != 80 {
		t.Errorf("anchor = %+v, expected C8 +20+6 180x80", a)
	}
}
