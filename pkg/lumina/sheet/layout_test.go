package sheet

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ukaji3/lumina-go/pkg/lumina/models"
	"github.com/xuri/excelize/v2"
)

var testNow = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func kleoRecord() models.ProductRecord {
	return models.NewProductRecord(map[string]any{
		"project_name":  "Riverside Lobby",
		"product_name":  "Kleo X58",
		"fixture_code":  "L1",
		"area":          "Lobby",
		"quantity":      float64(3),
		"color":         "Black",
		"width":         "58mm",
		"height":        "120mm",
		"light_output":  "1200lm",
		"wattage":       "12W",
		"control":       "DALI",
		"date":          "2025-01-15",
		"unknown_field": "kept",
	})
}

func TestLayoutMerges(t *testing.T) {
	doc, err := Layout(DefaultSheetName, kleoRecord(), testNow)
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}

	if got := len(doc.Merges()); got != len(SpecMerges) {
		t.Errorf("Expected %d merges, got %d", len(SpecMerges), got)
	}

	tests := []struct {
		ref      string
		expected string
	}{
		{"B1", "A1:C1"},
		{"E9", "D8:E10"},
		{"G11", "F11:G11"},
		{"C13", "C8:C13"},
		{"I6", "H5:I6"},
	}
	for _, tt := range tests {
		m, ok := doc.MergeAt(tt.ref)
		if !ok || m.String() != tt.expected {
			t.Errorf("MergeAt(%q) = %v, %v, expected %s", tt.ref, m, ok, tt.expected)
		}
	}
	if _, ok := doc.MergeAt("D11"); ok {
		t.Error("D11 should not be merged")
	}
}

func TestLayoutValues(t *testing.T) {
	doc, err := Layout(DefaultSheetName, kleoRecord(), testNow)
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}

	tests := []struct {
		ref      string
		expected string
	}{
		{"A1", "Project: Riverside Lobby"},
		{"A2", "Description: -"},
		{"A3", "Date: 2025-01-15"},
		{"A5", "No"},
		{"H5", "Qty"},
		{"A7", "1"},
		{"B7", "L1"},
		{"C7", "Lobby"},
		{"D7", "Kleo X58"},
		{"H7", "3 set"},
		{"D11", "Color"},
		{"E11", "Black"},
		{"F12", "Engine"},
		{"G12", "1200lm"},
		{"G13", "12W"},
		{"F14", "CCT"},
		{"G14", "-"},
		{"E14", "DALI"},
	}
	for _, tt := range tests {
		c := doc.Cell(tt.ref)
		if c == nil {
			t.Errorf("%s: no cell written", tt.ref)
			continue
		}
		if c.Value != tt.expected {
			t.Errorf("%s = %q, expected %q", tt.ref, c.Value, tt.expected)
		}
	}

	if doc.Cell("C7").Style.Vertical != "top" {
		t.Error("area cell should be top aligned")
	}
	if f := doc.Cell("E11").Style.Fill; f != FillValue {
		t.Errorf("value fill = %q, expected %q", f, FillValue)
	}
	if f := doc.Cell("G12").Style.Fill; f != FillExtra {
		t.Errorf("extra fill = %q, expected %q", f, FillExtra)
	}
	for _, ref := range []string{"A14", "C14", "E14", "I14"} {
		if !doc.Cell(ref).Style.ThickBottom {
			t.Errorf("%s should have a thick bottom border", ref)
		}
	}
	if doc.PrintArea != "A1:I14" {
		t.Errorf("PrintArea = %q", doc.PrintArea)
	}

	for _, line := range strings.Split(doc.Cell("D8").Value, "\n") {
		if len(line) > DescriptionLineWidth {
			t.Errorf("description line %q exceeds %d characters", line, DescriptionLineWidth)
		}
	}
}

func TestLayoutDefaults(t *testing.T) {
	doc, err := Layout(DefaultSheetName, models.NewProductRecord(nil), testNow)
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}

	tests := []struct {
		ref      string
		expected string
	}{
		{"A3", "Date: 2025-03-14"},
		{"B7", "N/A"},
		{"D7", "N/A"},
		{"H7", "1 set"},
		{"D8", "-"},
	}
	for _, tt := range tests {
		if got := doc.Cell(tt.ref).Value; got != tt.expected {
			t.Errorf("%s = %q, expected %q", tt.ref, got, tt.expected)
		}
	}
}

func TestMergeOverlap(t *testing.T) {
	doc := NewDocument("Sheet1")
	if err := doc.Merge("A1", "C3"); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if err := doc.Merge("D1", "D3"); err != nil {
		t.Fatalf("adjacent Merge failed: %v", err)
	}

	err := doc.Merge("C3", "E5")
	if !errors.Is(err, ErrMergeOverlap) {
		t.Errorf("Expected ErrMergeOverlap, got %v", err)
	}
	if len(doc.Merges()) != 2 {
		t.Errorf("rejected merge must not be recorded")
	}
}

func TestDescription(t *testing.T) {
	tests := []struct {
		name     string
		raw      map[string]any
		expected string
	}{
		{"literal", map[string]any{"description": "Recessed downlight", "color": "White"}, "Recessed downlight"},
		{"composed", map[string]any{"color": "White", "diameter": "80mm"}, "Color: White, Diameter: 80mm"},
		{"all parts", map[string]any{"color": "Black", "width": "58mm", "diameter": "60mm", "height": "120mm"},
			"Color: Black, Width: 58mm, Diameter: 60mm, Height: 120mm"},
		{"nothing", nil, "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Description(models.NewProductRecord(tt.raw)); got != tt.expected {
				t.Errorf("Description() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestWrapWords(t *testing.T) {
	tests := []struct {
		text     string
		width    int
		expected string
	}{
		{"", 35, ""},
		{"short line", 35, "short line"},
		{"Color: Black, Width: 58mm, Diameter: 60mm, Height: 120mm", 35,
			"Color: Black, Width: 58mm,\nDiameter: 60mm, Height: 120mm"},
		{"aaaa bbbb cccc", 9, "aaaa bbbb\ncccc"},
		{"supercalifragilistic word", 10, "supercalifragilistic\nword"},
	}

	for _, tt := range tests {
		if got := WrapWords(tt.text, tt.width); got != tt.expected {
			t.Errorf("WrapWords(%q, %d) = %q, expected %q", tt.text, tt.width, got, tt.expected)
		}
	}
}

func TestPlacement(t *testing.T) {
	doc, err := Layout(DefaultSheetName, models.NewProductRecord(nil), testNow)
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}

	tests := []struct {
		anchor Anchor
		cell   string
		x, y   int
	}{
		{Anchor{Col: 2.1, Row: 7.2}, "C8", 20, 6},
		{Anchor{Col: 5.1, Row: 6.2}, "F7", 11, 8},
		{Anchor{Col: 2.1, Row: 11.2}, "C12", 20, 6},
		{Anchor{Col: 0, Row: 0}, "A1", 0, 0},
	}
	for _, tt := range tests {
		cell, x, y, err := doc.placement(tt.anchor)
		if err != nil {
			t.Fatalf("placement(%v) failed: %v", tt.anchor, err)
		}
		if cell != tt.cell || x != tt.x || y != tt.y {
			t.Errorf("placement(%v) = %s +%d+%d, expected %s +%d+%d", tt.anchor, cell, x, y, tt.cell, tt.x, tt.y)
		}
	}
}

func TestUnits(t *testing.T) {
	if got := PixelsToColumnWidth(110); got != 15 {
		t.Errorf("PixelsToColumnWidth(110) = %v, expected 15", got)
	}
	if got := PixelsToColumnWidth(0); got != 0 {
		t.Errorf("PixelsToColumnWidth(0) = %v, expected 0", got)
	}
	if got := PixelsToPoints(40); got != 30 {
		t.Errorf("PixelsToPoints(40) = %v, expected 30", got)
	}
}

func TestPrintAreaReference(t *testing.T) {
	if got := printAreaReference("Spec Sheet", "A1:I14"); got != "'Spec Sheet'!$A$1:$I$14" {
		t.Errorf("printAreaReference = %q", got)
	}
}

func TestCheckSheetName(t *testing.T) {
	tests := []struct {
		name     string
		expected error
	}{
		{"Spec Sheet", nil},
		{"Product Data", nil},
		{strings.Repeat("x", 31), nil},
		{strings.Repeat("é", 31), nil},
		{"", excelize.ErrSheetNameBlank},
		{strings.Repeat("x", 32), excelize.ErrSheetNameLength},
		{"'Spec", excelize.ErrSheetNameSingleQuote},
		{"Spec:Sheet", excelize.ErrSheetNameInvalid},
		{"Product/Data", excelize.ErrSheetNameInvalid},
		{"a[1]", excelize.ErrSheetNameInvalid},
	}

	for _, tt := range tests {
		if err := CheckSheetName(tt.name); !errors.Is(err, tt.expected) {
			t.Errorf("CheckSheetName(%q) = %v, expected %v", tt.name, err, tt.expected)
		}
	}
}
