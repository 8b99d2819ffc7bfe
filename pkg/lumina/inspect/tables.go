package inspect

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// DataBounds returns the range enclosing every non-empty cell of a sheet
// (e.g. "A1:I14"), or "" for an empty sheet.
func DataBounds(f *excelize.File, sheetName string) (string, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return "", err
	}

	minRow, maxRow, minCol, maxCol := findDataBounds(rows)
	if minRow < 0 {
		return "", nil
	}

	startCell, _ := excelize.CoordinatesToCellName(minCol+1, minRow+1)
	endCell, _ := excelize.CoordinatesToCellName(maxCol+1, maxRow+1)
	return fmt.Sprintf("%s:%s", startCell, endCell), nil
}

// findDataBounds finds the bounding box of non-empty cells (0-based).
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell == "" {
				continue
			}
			if minRow < 0 || rowIdx < minRow {
				minRow = rowIdx
			}
			if maxRow < 0 || rowIdx > maxRow {
				maxRow = rowIdx
			}
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if maxCol < 0 || colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}

	return
}

// ExtractMerges returns the merged ranges of a sheet (e.g. "A5:A6").
func ExtractMerges(f *excelize.File, sheetName string) ([]string, error) {
	merges, err := f.GetMergeCells(sheetName)
	if err != nil {
		return nil, err
	}

	result := make([]string, 0, len(merges))
	for _, m := range merges {
		result = append(result, m.GetStartAxis()+":"+m.GetEndAxis())
	}
	return result, nil
}
