package inspect

import (
	"strconv"

	"github.com/ukaji3/lumina-go/pkg/lumina/models"
	"github.com/xuri/excelize/v2"
)

// PrintAreaView restricts sheet data to one print area.
func PrintAreaView(bookName, sheetName string, sd models.SheetData, area models.PrintArea) models.PrintAreaView {
	view := models.PrintAreaView{
		BookName:  bookName,
		SheetName: sheetName,
		Area:      area,
	}

	for _, row := range sd.Rows {
		if row.R < area.R1 || row.R > area.R2 {
			continue
		}
		clipped := models.CellRow{R: row.R, C: make(map[string]interface{})}
		for key, v := range row.C {
			if col, err := strconv.Atoi(key); err == nil && col >= area.C1 && col <= area.C2 {
				clipped.C[key] = v
				if note, ok := row.Notes[key]; ok {
					if clipped.Notes == nil {
						clipped.Notes = make(map[string]string)
					}
					clipped.Notes[key] = note
				}
			}
		}
		if len(clipped.C) > 0 {
			view.Rows = append(view.Rows, clipped)
		}
	}

	for _, m := range sd.Merges {
		if r, ok := parseRangeToArea(m); ok && r.Overlaps(area) {
			view.Merges = append(view.Merges, m)
		}
	}

	for _, p := range sd.Pictures {
		col, row, err := excelize.CellNameToCoordinates(p.Cell)
		if err == nil && area.Contains(col, row) {
			view.Pictures = append(view.Pictures, p)
		}
	}

	return view
}
