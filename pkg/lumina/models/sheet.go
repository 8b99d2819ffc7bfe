package models

// SheetData represents structured data read back from a single sheet.
type SheetData struct {
	// Rows contains extracted rows with cell values and notes.
	Rows []CellRow `json:"rows,omitempty"`
	// Merges contains merged ranges (e.g. "A5:A6").
	Merges []string `json:"merges,omitempty"`
	// Pictures contains images anchored on the sheet.
	Pictures []Picture `json:"pictures,omitempty"`
	// DataBounds is the range enclosing all non-empty cells.
	DataBounds string `json:"data_bounds,omitempty"`
	// PrintAreas contains user-defined print areas.
	PrintAreas []PrintArea `json:"print_areas,omitempty"`
}
