package sheet

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"sort"

	"github.com/xuri/excelize/v2"
)

// DefaultFontSize applies to styles that leave Size unset.
const DefaultFontSize = 11

// Render builds an excelize workbook from the document. The caller owns the
// returned file and must close it.
func (d *Document) Render(author string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := d.render(f, author); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func (d *Document) render(f *excelize.File, author string) error {
	if err := f.SetSheetName(f.GetSheetName(0), d.Sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, px := range d.ColumnsPx {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(d.Sheet, col, col, PixelsToColumnWidth(px)); err != nil {
			return fmt.Errorf("column %s width: %w", col, err)
		}
	}

	rows := make([]int, 0, len(d.RowsPx))
	for row := range d.RowsPx {
		rows = append(rows, row)
	}
	sort.Ints(rows)
	for _, row := range rows {
		if err := f.SetRowHeight(d.Sheet, row, PixelsToPoints(d.RowsPx[row])); err != nil {
			return fmt.Errorf("row %d height: %w", row, err)
		}
	}

	styles := newStyleBook(f)
	for _, ref := range d.sortedRefs() {
		c := d.cells[ref]
		if c.Value != "" {
			if err := f.SetCellValue(d.Sheet, ref, c.Value); err != nil {
				return fmt.Errorf("cell %s: %w", ref, err)
			}
		}
		id, err := styles.id(c.Style)
		if err != nil {
			return fmt.Errorf("cell %s style: %w", ref, err)
		}
		if err := f.SetCellStyle(d.Sheet, ref, ref, id); err != nil {
			return fmt.Errorf("cell %s style: %w", ref, err)
		}
		if c.Note != "" {
			if err := f.AddComment(d.Sheet, excelize.Comment{Cell: ref, Author: author, Text: c.Note}); err != nil {
				return fmt.Errorf("cell %s note: %w", ref, err)
			}
		}
	}

	// Merged regions render with their top-left style
	for _, m := range d.merges {
		if err := f.MergeCell(d.Sheet, m.From, m.To); err != nil {
			return fmt.Errorf("merge %s: %w", m, err)
		}
		anchor, ok := d.cells[m.From]
		if !ok {
			continue
		}
		id, err := styles.id(anchor.Style)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(d.Sheet, m.From, m.To, id); err != nil {
			return fmt.Errorf("merge %s style: %w", m, err)
		}
	}

	for _, img := range d.images {
		if err := d.renderImage(f, img); err != nil {
			return fmt.Errorf("%s image: %w", img.Role, err)
		}
	}

	if d.PrintArea != "" {
		if err := f.SetDefinedName(&excelize.DefinedName{
			Name:     "_xlnm.Print_Area",
			RefersTo: printAreaReference(d.Sheet, d.PrintArea),
			Scope:    d.Sheet,
		}); err != nil {
			return fmt.Errorf("print area: %w", err)
		}
	}
	return nil
}

func (d *Document) renderImage(f *excelize.File, img Image) error {
	cell, offsetX, offsetY, err := d.placement(img.Anchor)
	if err != nil {
		return err
	}

	opts := &excelize.GraphicOptions{
		AltText:     string(img.Role),
		OffsetX:     offsetX,
		OffsetY:     offsetY,
		ScaleX:      1,
		ScaleY:      1,
		Positioning: "oneCell",
	}
	if w, h, err := ImageSize(img.Data); err == nil && w > 0 && h > 0 {
		opts.ScaleX = float64(img.Width) / float64(w)
		opts.ScaleY = float64(img.Height) / float64(h)
	}

	return f.AddPictureFromBytes(d.Sheet, cell, &excelize.Picture{
		Extension: img.Extension,
		File:      img.Data,
		Format:    opts,
	})
}

// ImageSize returns the pixel dimensions of a PNG, JPEG or GIF payload.
func ImageSize(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// printAreaReference turns "A1:I14" into "'Sheet'!$A$1:$I$14".
func printAreaReference(sheet, area string) string {
	r := Range{}
	for i := 0; i < len(area); i++ {
		if area[i] == ':' {
			r.From, r.To = area[:i], area[i+1:]
			break
		}
	}
	return fmt.Sprintf("'%s'!%s:%s", sheet, absolute(r.From), absolute(r.To))
}

func absolute(ref string) string {
	col, row, err := excelize.CellNameToCoordinates(ref)
	if err != nil {
		return ref
	}
	name, err := excelize.CoordinatesToCellName(col, row, true)
	if err != nil {
		return ref
	}
	return name
}

// styleBook caches workbook style ids per CellStyle.
type styleBook struct {
	f   *excelize.File
	ids map[CellStyle]int
}

func newStyleBook(f *excelize.File) *styleBook {
	return &styleBook{f: f, ids: make(map[CellStyle]int)}
}

func (b *styleBook) id(s CellStyle) (int, error) {
	if id, ok := b.ids[s]; ok {
		return id, nil
	}
	id, err := b.f.NewStyle(s.toExcelize())
	if err != nil {
		return 0, err
	}
	b.ids[s] = id
	return id, nil
}

func (s CellStyle) toExcelize() *excelize.Style {
	size := s.Size
	if size == 0 {
		size = DefaultFontSize
	}
	st := &excelize.Style{
		Font: &excelize.Font{Bold: s.Bold, Italic: s.Italic, Size: size},
		Alignment: &excelize.Alignment{
			Horizontal: s.Horizontal,
			Vertical:   s.Vertical,
			WrapText:   s.Wrap,
		},
	}
	if s.Fill != "" {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{s.Fill}}
	}

	bottom := 0
	if s.Border == BorderThin {
		bottom = 1
		for _, side := range []string{"left", "top", "right"} {
			st.Border = append(st.Border, excelize.Border{Type: side, Color: "000000", Style: 1})
		}
	}
	if s.ThickBottom {
		bottom = 5
	}
	if bottom > 0 {
		st.Border = append(st.Border, excelize.Border{Type: "bottom", Color: "000000", Style: bottom})
	}
	return st
}
