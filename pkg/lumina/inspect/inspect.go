package inspect

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ukaji3/lumina-go/pkg/lumina/models"
	"github.com/xuri/excelize/v2"
)

// File reads the workbook at path.
func File(path string) (*models.WorkbookData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Bytes(filepath.Base(path), data)
}

// Bytes reads a workbook from its raw .xlsx payload.
func Bytes(bookName string, data []byte) (*models.WorkbookData, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	anchors, err := pictureAnchors(data)
	if err != nil {
		// Offsets are optional; pictures are still listed by excelize
		anchors = nil
	}
	printAreas := ExtractPrintAreas(f)

	sheets := make(map[string]models.SheetData)
	for _, sheetName := range f.GetSheetList() {
		var sd models.SheetData

		notes, err := ExtractComments(f, sheetName)
		if err != nil {
			notes = nil
		}
		if sd.Rows, err = ExtractCells(f, sheetName, notes); err != nil {
			return nil, err
		}
		if sd.Merges, err = ExtractMerges(f, sheetName); err != nil {
			return nil, err
		}
		if sd.Pictures, err = ExtractPictures(f, sheetName, anchors[sheetName]); err != nil {
			return nil, err
		}
		if sd.DataBounds, err = DataBounds(f, sheetName); err != nil {
			return nil, err
		}
		sd.PrintAreas = printAreas[sheetName]

		sheets[sheetName] = sd
	}

	return &models.WorkbookData{
		BookName: bookName,
		Sheets:   sheets,
	}, nil
}

// CellValue returns the value at a 1-based coordinate of sheet data, or nil.
func CellValue(sd models.SheetData, col, row int) interface{} {
	for _, r := range sd.Rows {
		if r.R == row {
			return r.C[strconv.Itoa(col)]
		}
	}
	return nil
}

// CellNote returns the note at a 1-based coordinate of sheet data.
func CellNote(sd models.SheetData, col, row int) string {
	for _, r := range sd.Rows {
		if r.R == row {
			return r.Notes[strconv.Itoa(col)]
		}
	}
	return ""
}
