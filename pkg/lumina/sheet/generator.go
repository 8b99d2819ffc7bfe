// Package sheet builds the downloadable spec sheet for a product record.
package sheet

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/ukaji3/lumina-go/pkg/lumina/fetch"
	"github.com/ukaji3/lumina-go/pkg/lumina/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// DefaultFallbackSheetName names the sheet of the flat fallback document.
const DefaultFallbackSheetName = "Product Data"

// DefaultImageExtension is used when a URL carries no known extension.
const DefaultImageExtension = ".png"

// imageExtensions lists the raster formats ImageSize can measure.
var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
}

// ImageStatus is the outcome of one image slot.
type ImageStatus string

const (
	// ImageAbsent means the record carried no URL for the slot.
	ImageAbsent ImageStatus = "absent"
	// ImageEmbedded means the image floats at its anchor.
	ImageEmbedded ImageStatus = "embedded"
	// ImagePlaceholder means a noted placeholder cell replaced the image.
	ImagePlaceholder ImageStatus = "placeholder"
)

// ImageFetcher downloads images concurrently. *fetch.Fetcher implements it.
type ImageFetcher interface {
	FetchAll(ctx context.Context, reqs []fetch.Request) []fetch.Result
}

// Options configures a Generator.
type Options struct {
	// SheetName names the spec sheet. Empty means DefaultSheetName.
	SheetName string
	// FallbackSheetName names the flat sheet. Empty means DefaultFallbackSheetName.
	FallbackSheetName string
	// Author is recorded on placeholder notes.
	Author string
	// Now supplies the header date when the record has none.
	Now func() time.Time
}

// Result is a generated workbook.
type Result struct {
	// Bytes is the complete .xlsx payload.
	Bytes []byte
	// Fallback reports whether the flat document replaced the spec sheet.
	Fallback bool
	// Images holds the outcome per image role (spec sheet only).
	Images map[fetch.Role]ImageStatus
}

// Generator produces spec sheets. It holds no per-call state and is safe for
// concurrent use.
type Generator struct {
	fetcher ImageFetcher
	opts    Options
	logger  *zap.Logger
}

// New creates a Generator. A nil fetcher turns every image into a placeholder.
func New(fetcher ImageFetcher, opts Options, logger *zap.Logger) *Generator {
	if opts.SheetName == "" {
		opts.SheetName = DefaultSheetName
	}
	if opts.FallbackSheetName == "" {
		opts.FallbackSheetName = DefaultFallbackSheetName
	}
	if opts.Author == "" {
		opts.Author = "LUMINA"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{fetcher: fetcher, opts: opts, logger: logger}
}

// Generate builds the spec sheet for rec. When the spec sheet cannot be
// produced it falls back to a flat key/value document; when that fails too it
// returns an error wrapping ErrTotalFailure. Bytes are only returned complete.
func (g *Generator) Generate(ctx context.Context, rec models.ProductRecord) (*Result, error) {
	res, err := g.generateSpecSheet(ctx, rec)
	if err == nil {
		return res, nil
	}
	g.logger.Error("spec sheet generation failed, using flat document",
		zap.String("operation", "generate_spec_sheet"),
		zap.Error(err))

	data, ferr := g.generateFlat(rec)
	if ferr != nil {
		g.logger.Error("flat document generation failed",
			zap.String("operation", "generate_flat_sheet"),
			zap.Error(ferr))
		return nil, fmt.Errorf("%w: %w", ErrTotalFailure, errors.Join(err, ferr))
	}
	return &Result{Bytes: data, Fallback: true}, nil
}

func (g *Generator) generateSpecSheet(ctx context.Context, rec models.ProductRecord) (*Result, error) {
	doc, err := Layout(g.opts.SheetName, rec, g.opts.Now())
	if err != nil {
		return nil, NewGenerationError("layout", err)
	}

	statuses := g.attachImages(ctx, doc, rec)

	f, err := doc.Render(g.opts.Author)
	if err != nil {
		return nil, NewGenerationError("render", err)
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, NewGenerationError("serialize", err)
	}
	return &Result{Bytes: buf.Bytes(), Images: statuses}, nil
}

// attachImages fetches the record's images concurrently and places each one,
// or a placeholder when it cannot be used.
func (g *Generator) attachImages(ctx context.Context, doc *Document, rec models.ProductRecord) map[fetch.Role]ImageStatus {
	statuses := make(map[fetch.Role]ImageStatus, len(SpecImageSlots))
	var reqs []fetch.Request
	for _, slot := range SpecImageSlots {
		statuses[slot.Role] = ImageAbsent
		if u, ok := rec.Get(slot.Field); ok {
			reqs = append(reqs, fetch.Request{Role: slot.Role, URL: u})
		}
	}
	if len(reqs) == 0 {
		return statuses
	}

	var results map[fetch.Role]fetch.Result
	if g.fetcher != nil {
		results = fetch.ByRole(g.fetcher.FetchAll(ctx, reqs))
	}

	for _, slot := range SpecImageSlots {
		u, ok := rec.Get(slot.Field)
		if !ok {
			continue
		}
		res, fetched := results[slot.Role]
		if fetched && res.OK() {
			_, _, err := ImageSize(res.Data)
			if err == nil {
				doc.AddImage(Image{
					Role:      slot.Role,
					Anchor:    slot.Anchor,
					Width:     slot.Width,
					Height:    slot.Height,
					Extension: ImageExtension(u),
					Data:      res.Data,
				})
				statuses[slot.Role] = ImageEmbedded
				continue
			}
			g.logger.Warn("image payload is not a supported raster",
				zap.String("operation", "embed_image"),
				zap.String("role", string(slot.Role)),
				zap.String("url", u),
				zap.Error(err))
		}
		placeholder(doc, slot, u)
		statuses[slot.Role] = ImagePlaceholder
	}
	return statuses
}

// placeholder writes a labeled, filled cell noting the image URL.
func placeholder(doc *Document, slot ImageSlot, u string) {
	c := doc.cell(slot.Placeholder)
	thick := c.Style.ThickBottom
	c.Value = slot.Label + " image unavailable"
	c.Style = stylePlaceholder
	c.Style.ThickBottom = thick
	c.Note = fmt.Sprintf("%s image could not be loaded. Source: %s", slot.Label, u)
}

// ImageExtension infers the embedding extension from the URL's last path
// segment, defaulting to DefaultImageExtension.
func ImageExtension(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}
	ext := strings.ToLower(path.Ext(p))
	if imageExtensions[ext] {
		return ext
	}
	return DefaultImageExtension
}

// flatFields lists the rows of the fallback document.
var flatFields = []struct {
	label string
	field models.Field
}{
	{"Product Name", models.FieldProductName},
	{"Fixture Code", models.FieldFixtureCode},
	{"Area", models.FieldArea},
	{"Color", models.FieldColor},
	{"Width", models.FieldWidth},
	{"Height", models.FieldHeight},
	{"Control", models.FieldControl},
	{"Light Output", models.FieldLightOutput},
	{"Wattage", models.FieldWattage},
}

// generateFlat builds the image-free key/value document.
func (g *Generator) generateFlat(rec models.ProductRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := g.opts.FallbackSheetName
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, NewGenerationError("fallback", err)
	}

	rows := [][]interface{}{{"Field", "Value"}}
	for _, ff := range flatFields {
		rows = append(rows, []interface{}{ff.label, rec.Value(ff.field)})
	}
	for _, slot := range SpecImageSlots {
		if u, ok := rec.Get(slot.Field); ok {
			rows = append(rows, []interface{}{slot.Label + " Image", u})
		}
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, NewGenerationError("fallback", err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, NewGenerationError("fallback", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "B1", bold); err != nil {
		return nil, NewGenerationError("fallback", err)
	}
	if err := f.SetColWidth(sheet, "A", "A", 18); err != nil {
		return nil, NewGenerationError("fallback", err)
	}
	if err := f.SetColWidth(sheet, "B", "B", 60); err != nil {
		return nil, NewGenerationError("fallback", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, NewGenerationError("serialize", err)
	}
	return buf.Bytes(), nil
}
