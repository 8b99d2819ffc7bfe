package models

// Picture represents an image embedded in a sheet.
type Picture struct {
	// Cell is the cell the picture's top-left corner falls in (e.g. "C8").
	Cell string `json:"cell"`
	// Extension is the image file extension including the dot.
	Extension string `json:"extension,omitempty"`
	// Size is the image payload size in bytes.
	Size int `json:"size,omitempty"`
	// OffsetX is the horizontal offset inside Cell in pixels.
	OffsetX int `json:"offset_x"`
	// OffsetY is the vertical offset inside Cell in pixels.
	OffsetY int `json:"offset_y"`
	// W is the rendered width in pixels (0 if unknown).
	W int `json:"w,omitempty"`
	// H is the rendered height in pixels (0 if unknown).
	H int `json:"h,omitempty"`
}
