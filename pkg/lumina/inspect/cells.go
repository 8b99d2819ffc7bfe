package inspect

import (
	"sort"
	"strconv"

	"github.com/ukaji3/lumina-go/pkg/lumina/models"
	"github.com/xuri/excelize/v2"
)

// ExtractCells extracts cell data from a sheet.
// It returns a slice of CellRow containing non-empty rows. Cells that only
// carry a comment are reported with an empty value.
func ExtractCells(f *excelize.File, sheetName string, notes map[string]string) ([]models.CellRow, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	byRow := make(map[int]*models.CellRow)
	var order []int
	rowFor := func(r int) *models.CellRow {
		if cr, ok := byRow[r]; ok {
			return cr
		}
		cr := &models.CellRow{R: r, C: make(map[string]interface{})}
		byRow[r] = cr
		order = append(order, r)
		return cr
	}

	for rowIdx, row := range rows {
		for colIdx, cellValue := range row {
			if cellValue == "" {
				continue
			}
			cr := rowFor(rowIdx + 1) // 1-based row index
			cr.C[strconv.Itoa(colIdx+1)] = parseValue(cellValue)
		}
	}

	for ref, text := range notes {
		col, row, err := excelize.CellNameToCoordinates(ref)
		if err != nil {
			continue
		}
		cr := rowFor(row)
		colStr := strconv.Itoa(col)
		if _, ok := cr.C[colStr]; !ok {
			cr.C[colStr] = ""
		}
		if cr.Notes == nil {
			cr.Notes = make(map[string]string)
		}
		cr.Notes[colStr] = text
	}

	sort.Ints(order)
	result := make([]models.CellRow, 0, len(order))
	for _, r := range order {
		result = append(result, *byRow[r])
	}
	return result, nil
}

// ExtractComments returns the comment text of a sheet keyed by cell.
func ExtractComments(f *excelize.File, sheetName string) (map[string]string, error) {
	comments, err := f.GetComments(sheetName)
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(comments))
	for _, c := range comments {
		text := c.Text
		if text == "" {
			for _, run := range c.Paragraph {
				text += run.Text
			}
		}
		result[c.Cell] = text
	}
	return result, nil
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) interface{} {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
