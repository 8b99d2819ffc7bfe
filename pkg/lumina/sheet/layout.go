package sheet

import (
	"fmt"
	"strings"
	"time"

	"github.com/ukaji3/lumina-go/pkg/lumina/fetch"
	"github.com/ukaji3/lumina-go/pkg/lumina/models"
)

// Spec sheet geometry. Coordinates follow the printable template consumers
// expect and must not drift.
const (
	DefaultSheetName = "Spec Sheet"
	SpecPrintArea    = "A1:I14"

	// DescriptionLineWidth is the maximum length of a wrapped description line.
	DescriptionLineWidth = 35
)

// Fills.
const (
	FillHeader      = "E4DFEC"
	FillColumnHead  = "D9D9D9"
	FillValue       = "FFFFFF"
	FillExtra       = "F2F2F2"
	FillPlaceholder = "FFF2CC"
)

// SpecColumnsPx holds the widths of columns A–I: No, Code, Area, Product
// (2), Photometry (2), Qty (2).
var SpecColumnsPx = []int{50, 110, 200, 120, 120, 110, 110, 60, 60}

// SpecRowsPx holds explicit row heights.
var SpecRowsPx = map[int]int{
	1: 24, 2: 24, 3: 24, 4: 10,
	5: 20, 6: 20, 7: 40,
	8: 30, 9: 30, 10: 30, 11: 30, 12: 30, 13: 30,
	14: 24,
}

// SpecMerges lists every merge region of the spec sheet.
var SpecMerges = []Range{
	// Project header block
	{"A1", "C1"}, {"A2", "C2"}, {"A3", "C3"},
	// Column headers
	{"A5", "A6"}, {"B5", "B6"}, {"C5", "C6"},
	{"D5", "E6"}, {"F5", "G6"}, {"H5", "I6"},
	// Product region
	{"D7", "E7"}, {"D8", "E10"},
	// Photometry region
	{"F7", "G7"}, {"F8", "G8"}, {"F9", "G9"}, {"F10", "G10"}, {"F11", "G11"},
	// Area photo region
	{"C8", "C13"},
}

// ImageSlot fixes where an image of a role floats and where its placeholder
// goes when the image is unavailable.
type ImageSlot struct {
	Role        fetch.Role
	Field       models.Field
	Label       string
	Anchor      Anchor
	Width       int
	Height      int
	Placeholder string
}

// SpecImageSlots lists the image slots in fetch order.
var SpecImageSlots = []ImageSlot{
	{
		Role: fetch.RoleProduct, Field: models.FieldProductImage, Label: "Product",
		Anchor: Anchor{Col: 2.1, Row: 7.2}, Width: 180, Height: 80, Placeholder: "C8",
	},
	{
		Role: fetch.RolePhotometry, Field: models.FieldPhotometryImage, Label: "Photometry",
		Anchor: Anchor{Col: 5.1, Row: 6.2}, Width: 180, Height: 150, Placeholder: "F8",
	},
	{
		Role: fetch.RoleDimension, Field: models.FieldDimensionImage, Label: "Dimension",
		Anchor: Anchor{Col: 2.1, Row: 11.2}, Width: 180, Height: 60, Placeholder: "C14",
	},
}

var (
	styleHeaderBlock = CellStyle{Bold: true, Size: 14, Fill: FillHeader, Vertical: "center"}
	styleColumnHead  = CellStyle{Bold: true, Fill: FillColumnHead, Border: BorderThin, Horizontal: "center", Vertical: "center"}
	styleData        = CellStyle{Border: BorderThin, Horizontal: "center", Vertical: "center", Wrap: true}
	styleArea        = CellStyle{Border: BorderThin, Horizontal: "center", Vertical: "top", Wrap: true}
	styleDescription = CellStyle{Border: BorderThin, Vertical: "top", Wrap: true}
	styleRegion      = CellStyle{Border: BorderThin}
	styleSpecLabel   = CellStyle{Bold: true, Border: BorderThin, Vertical: "center"}
	styleSpecValue   = CellStyle{Fill: FillValue, Border: BorderThin, Vertical: "center"}
	styleExtra       = CellStyle{Fill: FillExtra, Border: BorderThin, Vertical: "center"}
	stylePlaceholder = CellStyle{Italic: true, Fill: FillPlaceholder, Border: BorderThin, Horizontal: "center", Vertical: "center", Wrap: true}
)

// specRow is one row of the label/value block (rows 11-14).
type specRow struct {
	row        int
	label      string
	field      models.Field
	extraLabel string
	extraField models.Field
}

var specRows = []specRow{
	{row: 11, label: "Color", field: models.FieldColor},
	{row: 12, label: "Width", field: models.FieldWidth, extraLabel: "Engine", extraField: models.FieldLightOutput},
	{row: 13, label: "Height", field: models.FieldHeight, extraLabel: "Quality", extraField: models.FieldWattage},
	{row: 14, label: "Control", field: models.FieldControl, extraLabel: "CCT", extraField: models.FieldColorTemperature},
}

// Layout builds the spec sheet for a record without images. now supplies the
// date when the record has none.
func Layout(sheetName string, rec models.ProductRecord, now time.Time) (*Document, error) {
	d := NewDocument(sheetName)
	d.ColumnsPx = append([]int(nil), SpecColumnsPx...)
	for row, px := range SpecRowsPx {
		d.RowsPx[row] = px
	}
	d.PrintArea = SpecPrintArea

	for _, m := range SpecMerges {
		if err := d.Merge(m.From, m.To); err != nil {
			return nil, err
		}
	}

	date := rec.Value(models.FieldDate)
	if !rec.Has(models.FieldDate) {
		date = now.Format("2006-01-02")
	}
	d.Set("A1", "Project: "+rec.Value(models.FieldProjectName), styleHeaderBlock)
	d.Set("A2", "Description: "+rec.Value(models.FieldProjectDescription), styleHeaderBlock)
	d.Set("A3", "Date: "+date, styleHeaderBlock)

	headers := []struct{ ref, text string }{
		{"A5", "No"}, {"B5", "Code"}, {"C5", "Area"},
		{"D5", "Product"}, {"F5", "Photometry"}, {"H5", "Qty"},
	}
	for _, h := range headers {
		d.Set(h.ref, h.text, styleColumnHead)
	}

	d.Set("A7", "1", styleData)
	d.Set("B7", rec.Value(models.FieldFixtureCode), styleData)
	d.Set("C7", rec.Value(models.FieldArea), styleArea)
	d.Set("D7", rec.Value(models.FieldProductName), styleData)
	d.Set("F7", "", styleRegion)
	d.Set("H7", fmt.Sprintf("%s %s", rec.Value(models.FieldQuantity), models.QuantityUnit), styleData)

	d.Set("C8", "", styleRegion)
	d.Set("D8", WrapWords(Description(rec), DescriptionLineWidth), styleDescription)
	for _, ref := range []string{"F8", "F9", "F10", "F11"} {
		d.Set(ref, "", styleRegion)
	}

	for _, r := range specRows {
		d.Set(fmt.Sprintf("D%d", r.row), r.label, styleSpecLabel)
		d.Set(fmt.Sprintf("E%d", r.row), rec.Value(r.field), styleSpecValue)
		if r.extraLabel != "" {
			d.Set(fmt.Sprintf("F%d", r.row), r.extraLabel, styleSpecLabel)
			d.Set(fmt.Sprintf("G%d", r.row), rec.Value(r.extraField), styleExtra)
		}
	}

	// Close the table
	for _, col := range "ABCDEFGHI" {
		c := d.cell(fmt.Sprintf("%c14", col))
		c.Style.ThickBottom = true
	}

	return d, nil
}

// Description returns the literal description or one composed from the
// color and dimension fields.
func Description(rec models.ProductRecord) string {
	if v, ok := rec.Get(models.FieldDescription); ok {
		return v
	}

	parts := []struct {
		label string
		field models.Field
	}{
		{"Color", models.FieldColor},
		{"Width", models.FieldWidth},
		{"Diameter", models.FieldDiameter},
		{"Height", models.FieldHeight},
	}
	var out []string
	for _, p := range parts {
		if v, ok := rec.Get(p.field); ok {
			out = append(out, p.label+": "+v)
		}
	}
	if len(out) == 0 {
		return "-"
	}
	return strings.Join(out, ", ")
}

// WrapWords greedily packs words into lines of at most width characters and
// joins them with line breaks. A word longer than width gets its own line.
func WrapWords(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len([]rune(line))+1+len([]rune(w)) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
