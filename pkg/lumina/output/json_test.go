package output

import (
	"strings"
	"testing"

	"github.com/ukaji3/lumina-go/pkg/lumina/models"
)

func TestMessageToJSON(t *testing.T) {
	rec := models.NewProductRecord(map[string]any{"product_name": "Kleo X58", "quantity": float64(3)})
	msg := &models.NormalizedMessage{
		Content:   "Hello",
		ExcelData: &rec,
		Filename:  "Kleo_X58_data.xlsx",
		Links:     models.LinksClean,
	}

	data, err := MessageToJSON(msg, false)
	if err != nil {
		t.Fatalf("MessageToJSON failed: %v", err)
	}
	expected := `{"content":"Hello","excelData":{"product_name":"Kleo X58","quantity":3},"filename":"Kleo_X58_data.xlsx","links":"clean"}`
	if string(data) != expected {
		t.Errorf("MessageToJSON = %s, expected %s", data, expected)
	}
}

func TestMessageToJSONWithoutData(t *testing.T) {
	data, err := MessageToJSON(&models.NormalizedMessage{Content: "Hi", Links: models.LinksClean}, false)
	if err != nil {
		t.Fatalf("MessageToJSON failed: %v", err)
	}
	if strings.Contains(string(data), "excelData") || strings.Contains(string(data), "filename") {
		t.Errorf("empty fields should be omitted: %s", data)
	}
}

func TestToJSONPretty(t *testing.T) {
	wb := &models.WorkbookData{
		BookName: "a.xlsx",
		Sheets: map[string]models.SheetData{
			"Spec Sheet": {Merges: []string{"A1:C1"}},
		},
	}

	data, err := ToJSON(wb, true)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"book_name\": \"a.xlsx\"") {
		t.Errorf("Expected indented output, got %s", data)
	}
}
