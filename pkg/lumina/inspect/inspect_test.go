package inspect

import (
	"testing"

	"github.com/ukaji3/lumina-go/pkg/lumina/models"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Spec Sheet"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("SetSheetName failed: %v", err)
	}
	f.SetCellValue(sheet, "A1", "Project: Lobby")
	f.SetCellValue(sheet, "H7", "3 set")
	f.SetCellValue(sheet, "K20", "outside")
	if err := f.MergeCell(sheet, "A1", "C1"); err != nil {
		t.Fatalf("MergeCell failed: %v", err)
	}
	if err := f.MergeCell(sheet, "J20", "J21"); err != nil {
		t.Fatalf("MergeCell failed: %v", err)
	}
	if err := f.AddComment(sheet, excelize.Comment{Cell: "F8", Author: "LUMINA", Text: "Source: https://x.example.com/p.png"}); err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if err := f.SetDefinedName(&excelize.DefinedName{
		Name:     "_xlnm.Print_Area",
		RefersTo: "'Spec Sheet'!$A$1:$I$14",
		Scope:    sheet,
	}); err != nil {
		t.Fatalf("SetDefinedName failed: %v", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer failed: %v", err)
	}
	return buf.Bytes()
}

func TestBytes(t *testing.T) {
	wb, err := Bytes("lobby.xlsx", buildWorkbook(t))
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	if wb.BookName != "lobby.xlsx" {
		t.Errorf("BookName = %q", wb.BookName)
	}

	sd, ok := wb.Sheets["Spec Sheet"]
	if !ok {
		t.Fatal("sheet 'Spec Sheet' not found")
	}
	if v := CellValue(sd, 8, 7); v != "3 set" {
		t.Errorf("H7 = %v, expected '3 set'", v)
	}
	if v := CellValue(sd, 1, 99); v != nil {
		t.Errorf("missing row should yield nil, got %v", v)
	}
	if n := CellNote(sd, 6, 8); n != "Source: https://x.example.com/p.png" {
		t.Errorf("F8 note = %q", n)
	}
	if sd.DataBounds != "A1:K20" {
		t.Errorf("DataBounds = %q, expected A1:K20", sd.DataBounds)
	}
	if len(sd.Merges) != 2 {
		t.Errorf("Expected 2 merges, got %v", sd.Merges)
	}
	if len(sd.PrintAreas) != 1 {
		t.Fatalf("Expected 1 print area, got %d", len(sd.PrintAreas))
	}

	view := PrintAreaView(wb.BookName, "Spec Sheet", sd, sd.PrintAreas[0])
	if len(view.Merges) != 1 || view.Merges[0] != "A1:C1" {
		t.Errorf("view merges = %v, expected [A1:C1]", view.Merges)
	}
	for _, row := range view.Rows {
		if row.R == 20 {
			t.Errorf("row 20 lies outside the print area")
		}
	}
	if len(view.Rows) != 3 {
		t.Errorf("Expected 3 rows in view, got %d", len(view.Rows))
	}
}

func TestPrintAreaViewClipsColumns(t *testing.T) {
	sd := models.SheetData{
		Rows: []models.CellRow{
			{R: 2, C: map[string]interface{}{"1": "in", "5": "out"}, Notes: map[string]string{"5": "n"}},
		},
		Pictures: []models.Picture{{Cell: "B2"}, {Cell: "E2"}},
	}
	area := models.PrintArea{R1: 1, C1: 1, R2: 3, C2: 3}

	view := PrintAreaView("b", "s", sd, area)
	if len(view.Rows) != 1 || len(view.Rows[0].C) != 1 || view.Rows[0].Notes != nil {
		t.Errorf("rows not clipped: %+v", view.Rows)
	}
	if len(view.Pictures) != 1 || view.Pictures[0].Cell != "B2" {
		t.Errorf("pictures = %+v, expected only B2", view.Pictures)
	}
}
