package sheet

import (
	"fmt"
	"math"
	"sort"

	"github.com/ukaji3/lumina-go/pkg/lumina/fetch"
	"github.com/xuri/excelize/v2"
)

// Border kinds.
const (
	BorderNone = iota
	BorderThin
)

// CellStyle describes how a cell renders. It is comparable so identical
// styles share one workbook style entry.
type CellStyle struct {
	Bold        bool
	Italic      bool
	Size        float64
	Fill        string
	Border      int
	ThickBottom bool
	Horizontal  string
	Vertical    string
	Wrap        bool
}

// Cell is one addressed value of a Document.
type Cell struct {
	Value string
	Style CellStyle
	// Note is attached to the cell as a comment when set.
	Note string
}

// Range is a rectangular span of cells, e.g. {"A5", "A6"}.
type Range struct {
	From string
	To   string
}

func (r Range) String() string {
	return r.From + ":" + r.To
}

// bounds returns the 1-based inclusive coordinates of the range.
func (r Range) bounds() (c1, r1, c2, r2 int, err error) {
	c1, r1, err = excelize.CellNameToCoordinates(r.From)
	if err != nil {
		return
	}
	c2, r2, err = excelize.CellNameToCoordinates(r.To)
	if err != nil {
		return
	}
	if c1 > c2 {
		c1, c2 = c2, c1
	}
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	return
}

// Anchor is a fractional, 0-based (column, row) position. {2.1, 7.2} lies a
// tenth into column C and a fifth into row 8.
type Anchor struct {
	Col float64
	Row float64
}

// Image floats above the cell grid at an anchor with a fixed pixel size.
type Image struct {
	Role      fetch.Role
	Anchor    Anchor
	Width     int
	Height    int
	Extension string
	Data      []byte
}

// Document is an in-memory sheet: cells, merge regions and floating images.
// Merge regions never overlap; the style of a merged region is the style of
// its top-left cell.
type Document struct {
	Sheet string
	// ColumnsPx holds the pixel width of each column, starting at A.
	ColumnsPx []int
	// RowsPx holds explicit pixel heights by 1-based row.
	RowsPx map[int]int
	// PrintArea is the printed range, e.g. "A1:I14".
	PrintArea string

	cells  map[string]*Cell
	merges []Range
	images []Image
}

// DefaultRowPx is the height of rows without an explicit height.
const DefaultRowPx = 20

// NewDocument creates an empty document for the named sheet.
func NewDocument(sheet string) *Document {
	return &Document{
		Sheet:  sheet,
		RowsPx: make(map[int]int),
		cells:  make(map[string]*Cell),
	}
}

// Set writes a value and style to a cell.
func (d *Document) Set(ref, value string, style CellStyle) {
	c := d.cell(ref)
	c.Value = value
	c.Style = style
}

// Cell returns the cell at ref, or nil when nothing was written there.
func (d *Document) Cell(ref string) *Cell {
	return d.cells[ref]
}

func (d *Document) cell(ref string) *Cell {
	c, ok := d.cells[ref]
	if !ok {
		c = &Cell{}
		d.cells[ref] = c
	}
	return c
}

// Merge adds a merge region. It fails when the region intersects an
// existing one.
func (d *Document) Merge(from, to string) error {
	r := Range{From: from, To: to}
	c1, r1, c2, r2, err := r.bounds()
	if err != nil {
		return err
	}
	for _, m := range d.merges {
		mc1, mr1, mc2, mr2, _ := m.bounds()
		if c1 <= mc2 && mc1 <= c2 && r1 <= mr2 && mr1 <= r2 {
			return fmt.Errorf("%w: %s and %s", ErrMergeOverlap, r, m)
		}
	}
	d.merges = append(d.merges, r)
	return nil
}

// Merges returns the merge regions in insertion order.
func (d *Document) Merges() []Range {
	return append([]Range(nil), d.merges...)
}

// MergeAt returns the merge region containing ref, if any.
func (d *Document) MergeAt(ref string) (Range, bool) {
	col, row, err := excelize.CellNameToCoordinates(ref)
	if err != nil {
		return Range{}, false
	}
	for _, m := range d.merges {
		c1, r1, c2, r2, _ := m.bounds()
		if col >= c1 && col <= c2 && row >= r1 && row <= r2 {
			return m, true
		}
	}
	return Range{}, false
}

// AddImage places an image above the grid.
func (d *Document) AddImage(img Image) {
	d.images = append(d.images, img)
}

// Images returns the floating images.
func (d *Document) Images() []Image {
	return append([]Image(nil), d.images...)
}

// rowPx returns the pixel height of a 1-based row.
func (d *Document) rowPx(row int) int {
	if px, ok := d.RowsPx[row]; ok {
		return px
	}
	return DefaultRowPx
}

// colPx returns the pixel width of a 1-based column.
func (d *Document) colPx(col int) int {
	if col >= 1 && col <= len(d.ColumnsPx) {
		return d.ColumnsPx[col-1]
	}
	return 64
}

// placement converts a fractional anchor into the cell it falls in and the
// pixel offset inside that cell.
func (d *Document) placement(a Anchor) (cell string, offsetX, offsetY int, err error) {
	col := int(math.Floor(a.Col)) + 1
	row := int(math.Floor(a.Row)) + 1
	cell, err = excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", 0, 0, err
	}
	offsetX = int(math.Round((a.Col - math.Floor(a.Col)) * float64(d.colPx(col))))
	offsetY = int(math.Round((a.Row - math.Floor(a.Row)) * float64(d.rowPx(row))))
	return cell, offsetX, offsetY, nil
}

// sortedRefs returns the written cell references in row-major order.
func (d *Document) sortedRefs() []string {
	type coord struct {
		ref      string
		col, row int
	}
	coords := make([]coord, 0, len(d.cells))
	for ref := range d.cells {
		col, row, _ := excelize.CellNameToCoordinates(ref)
		coords = append(coords, coord{ref, col, row})
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].row != coords[j].row {
			return coords[i].row < coords[j].row
		}
		return coords[i].col < coords[j].col
	})
	refs := make([]string, len(coords))
	for i, c := range coords {
		refs[i] = c.ref
	}
	return refs
}
