package sheet

import "math"

// PixelsToColumnWidth converts a pixel width to Excel column width units.
// Excel renders a column of width w (in characters of the default font) as
// 7w+5 pixels.
func PixelsToColumnWidth(px int) float64 {
	if px <= 5 {
		return 0
	}
	return math.Round(float64(px-5)/7*100) / 100
}

// PixelsToPoints converts pixels at 96 DPI to points, the unit of row heights.
func PixelsToPoints(px int) float64 {
	return float64(px) * 72 / 96
}
