package models

// CellRow represents a single row of cells with optional comments.
type CellRow struct {
	// R is the row index (1-based).
	R int `json:"r"`
	// C maps column index (string) to cell value.
	C map[string]interface{} `json:"c"`
	// Notes maps column index to the cell comment text (optional).
	Notes map[string]string `json:"notes,omitempty"`
}
