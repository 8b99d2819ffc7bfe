// Package models defines data structures shared by the normalizer,
// the spreadsheet generator and workbook inspection.
package models

// LinkState tags how the portfolio links of a reply look before repair.
type LinkState string

const (
	// LinksClean means no portfolio markers and no image markdown were found.
	LinksClean LinkState = "clean"
	// LinksWellFormed means the text already carries image markdown with an http(s) URL.
	LinksWellFormed LinkState = "well_formed"
	// LinksNeedRepair means portfolio markers are present without proper image markdown.
	LinksNeedRepair LinkState = "needs_repair"
)

// NormalizedMessage is the display-ready form of one assistant reply.
type NormalizedMessage struct {
	// Content is the cleaned markdown to render.
	Content string `json:"content"`
	// ExcelData is the structured product record, if one was embedded.
	ExcelData *ProductRecord `json:"excelData,omitempty"`
	// Filename is the suggested spreadsheet name for ExcelData.
	Filename string `json:"filename,omitempty"`
	// Links is the link state the repair pass observed.
	Links LinkState `json:"links"`
}

// HasData reports whether a spreadsheet can be offered for the message.
func (m NormalizedMessage) HasData() bool {
	return m.ExcelData != nil
}
