// Package output serializes workbook and message data to JSON.
package output

import (
	"encoding/json"

	"github.com/ukaji3/lumina-go/pkg/lumina/models"
)

func marshal(v interface{}, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// ToJSON serializes a workbook.
func ToJSON(wb *models.WorkbookData, pretty bool) ([]byte, error) {
	return marshal(wb, pretty)
}

// SheetToJSON serializes a single sheet.
func SheetToJSON(sheet *models.SheetData, pretty bool) ([]byte, error) {
	return marshal(sheet, pretty)
}

// PrintAreaViewToJSON serializes a print area view.
func PrintAreaViewToJSON(view *models.PrintAreaView, pretty bool) ([]byte, error) {
	return marshal(view, pretty)
}

// MessageToJSON serializes a normalized message. excelData keeps the types
// the assistant sent.
func MessageToJSON(msg *models.NormalizedMessage, pretty bool) ([]byte, error) {
	return marshal(msg, pretty)
}
