package inspect

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/ukaji3/lumina-go/pkg/lumina/models"
	"github.com/xuri/excelize/v2"
)

// pictureAnchor is the position of one picture read from drawing XML.
type pictureAnchor struct {
	cell    string
	offsetX int
	offsetY int
	width   int
	height  int
}

// ExtractPictures lists the pictures of a sheet. Extension and size come from
// excelize; offsets and extents come from anchors, which may be nil.
func ExtractPictures(f *excelize.File, sheetName string, anchors []pictureAnchor) ([]models.Picture, error) {
	cells, err := f.GetPictureCells(sheetName)
	if err != nil {
		return nil, err
	}

	byCell := make(map[string][]pictureAnchor)
	for _, a := range anchors {
		byCell[a.cell] = append(byCell[a.cell], a)
	}

	var result []models.Picture
	for _, cell := range cells {
		pics, err := f.GetPictures(sheetName, cell)
		if err != nil {
			return nil, err
		}
		for _, pic := range pics {
			p := models.Picture{
				Cell:      cell,
				Extension: pic.Extension,
				Size:      len(pic.File),
			}
			if queue := byCell[cell]; len(queue) > 0 {
				a := queue[0]
				byCell[cell] = queue[1:]
				p.OffsetX, p.OffsetY = a.offsetX, a.offsetY
				p.W, p.H = a.width, a.height
			}
			result = append(result, p)
		}
	}
	return result, nil
}

// pictureAnchors reads picture anchors per sheet name from raw xlsx bytes.
func pictureAnchors(data []byte) (map[string][]pictureAnchor, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	result := make(map[string][]pictureAnchor)
	for sheetName, drawingPath := range sheetDrawings(r) {
		drawingXML, err := readZipFile(r, drawingPath)
		if err != nil || drawingXML == nil {
			continue
		}
		result[sheetName] = parseDrawingPictures(drawingXML)
	}
	return result, nil
}

// sheetDrawings maps sheet names to their drawing part paths.
func sheetDrawings(r *zip.Reader) map[string]string {
	result := make(map[string]string)

	workbookXML, err := readZipFile(r, "xl/workbook.xml")
	if err != nil || workbookXML == nil {
		return result
	}
	wbRelsXML, err := readZipFile(r, "xl/_rels/workbook.xml.rels")
	if err != nil || wbRelsXML == nil {
		return result
	}

	sheetIDs := make(map[string]string) // rId -> sheet name
	eachStart(workbookXML, "sheet", func(attrs map[string]string) {
		if attrs["name"] != "" && attrs["id"] != "" {
			sheetIDs[attrs["id"]] = attrs["name"]
		}
	})

	sheetFiles := make(map[string]string) // sheet name -> part path
	eachStart(wbRelsXML, "Relationship", func(attrs map[string]string) {
		name, ok := sheetIDs[attrs["Id"]]
		if ok && strings.Contains(strings.ToLower(attrs["Target"]), "worksheet") {
			sheetFiles[name] = resolveRelativePath(attrs["Target"], "xl")
		}
	})

	for sheetName, sheetPath := range sheetFiles {
		relsPath := strings.Replace(sheetPath, "worksheets/", "worksheets/_rels/", 1) + ".rels"
		relsXML, err := readZipFile(r, relsPath)
		if err != nil || relsXML == nil {
			continue
		}
		eachStart(relsXML, "Relationship", func(attrs map[string]string) {
			if strings.HasSuffix(strings.ToLower(attrs["Type"]), "/drawing") {
				result[sheetName] = resolveRelativePath(attrs["Target"], "xl/drawings")
			}
		})
	}
	return result
}

// parseDrawingPictures returns the anchors of pic elements in a drawing part.
func parseDrawingPictures(data []byte) []pictureAnchor {
	var result []pictureAnchor

	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "twoCellAnchor", "oneCellAnchor":
			if a, isPic := parseAnchor(decoder); isPic {
				result = append(result, a)
			}
		}
	}
	return result
}

// parseAnchor consumes one anchor element.
func parseAnchor(decoder *xml.Decoder) (pictureAnchor, bool) {
	var a pictureAnchor
	var col, row int
	var section, field string
	isPic, haveExt := false, false

	for depth := 1; depth > 0; {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "from", "to":
				section = t.Name.Local
			case "col", "colOff", "row", "rowOff":
				field = t.Name.Local
			case "pic":
				isPic = true
			case "ext":
				if haveExt {
					continue
				}
				for _, attr := range t.Attr {
					v, _ := strconv.ParseInt(attr.Value, 10, 64)
					switch attr.Name.Local {
					case "cx":
						a.width = EMUToPixels(v)
						haveExt = true
					case "cy":
						a.height = EMUToPixels(v)
					}
				}
			}
		case xml.CharData:
			if section != "from" || field == "" {
				continue
			}
			v, _ := strconv.ParseInt(strings.TrimSpace(string(t)), 10, 64)
			switch field {
			case "col":
				col = int(v)
			case "row":
				row = int(v)
			case "colOff":
				a.offsetX = EMUToPixels(v)
			case "rowOff":
				a.offsetY = EMUToPixels(v)
			}
		case xml.EndElement:
			depth--
			switch t.Name.Local {
			case "from", "to":
				section = ""
			case "col", "colOff", "row", "rowOff":
				field = ""
			}
		}
	}

	a.cell, _ = excelize.CoordinatesToCellName(col+1, row+1)
	return a, isPic
}

// eachStart calls fn with the attributes of every element named local.
func eachStart(data []byte, local string, fn func(attrs map[string]string)) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			return
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != local {
			continue
		}
		attrs := make(map[string]string, len(se.Attr))
		for _, attr := range se.Attr {
			attrs[attr.Name.Local] = attr.Value
		}
		fn(attrs)
	}
}

func readZipFile(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, nil
}

func resolveRelativePath(target, baseDir string) string {
	if strings.HasPrefix(target, "../") {
		clean := target
		for strings.HasPrefix(clean, "../") {
			clean = strings.TrimPrefix(clean, "../")
		}
		return "xl/" + clean
	}
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return baseDir + "/" + target
}
