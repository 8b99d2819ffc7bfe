package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Field identifies one named value of a ProductRecord.
type Field string

const (
	FieldProjectName        Field = "project_name"
	FieldProjectDescription Field = "project_description"
	FieldDate               Field = "date"
	FieldProductName        Field = "product_name"
	FieldFixtureCode        Field = "fixture_code"
	FieldArea               Field = "area"
	FieldDescription        Field = "description"
	FieldColor              Field = "color"
	FieldWidth              Field = "width"
	FieldDiameter           Field = "diameter"
	FieldHeight             Field = "height"
	FieldControl            Field = "control"
	FieldLightOutput        Field = "light_output"
	FieldWattage            Field = "wattage"
	FieldColorTemperature   Field = "color_temperature"
	FieldQuantity           Field = "quantity"
	FieldProductImage       Field = "product_image"
	FieldPhotometryImage    Field = "photometry_image"
	FieldDimensionImage     Field = "dimension_image"
)

// QuantityUnit is appended to the quantity cell of a spec sheet.
const QuantityUnit = "set"

// FieldDefaults maps every known field to the literal used when the field is
// absent. Image fields default to empty: an absent URL means no image.
var FieldDefaults = map[Field]string{
	FieldProjectName:        "-",
	FieldProjectDescription: "-",
	FieldDate:               "-",
	FieldProductName:        "N/A",
	FieldFixtureCode:        "N/A",
	FieldArea:               "-",
	FieldDescription:        "",
	FieldColor:              "-",
	FieldWidth:              "-",
	FieldDiameter:           "-",
	FieldHeight:             "-",
	FieldControl:            "-",
	FieldLightOutput:        "-",
	FieldWattage:            "-",
	FieldColorTemperature:   "-",
	FieldQuantity:           "1",
	FieldProductImage:       "",
	FieldPhotometryImage:    "",
	FieldDimensionImage:     "",
}

// ProductRecord is the structured product data embedded in an assistant reply.
// All fields are optional; read them through Value so defaults apply.
type ProductRecord struct {
	// Fields holds the known fields that were present, as strings.
	Fields map[Field]string
	// Extra holds keys that are not known fields, as strings.
	Extra map[string]string
	// Raw is the decoded block as received, with its original JSON types.
	Raw map[string]any
}

// NewProductRecord builds a record from a decoded JSON object.
// Scalars are converted to strings; nested values are re-encoded as JSON.
// Null and blank values are treated as absent.
func NewProductRecord(raw map[string]any) ProductRecord {
	rec := ProductRecord{
		Fields: make(map[Field]string),
		Extra:  make(map[string]string),
		Raw:    raw,
	}
	for key, v := range raw {
		s, ok := scalarString(v)
		if !ok {
			continue
		}
		f := Field(strings.ToLower(strings.TrimSpace(key)))
		if _, known := FieldDefaults[f]; known {
			rec.Fields[f] = s
		} else {
			rec.Extra[key] = s
		}
	}
	return rec
}

// Has reports whether the field was supplied with a non-blank value.
func (r ProductRecord) Has(f Field) bool {
	_, ok := r.Fields[f]
	return ok
}

// Get returns the supplied value of a field and whether it was present.
func (r ProductRecord) Get(f Field) (string, bool) {
	v, ok := r.Fields[f]
	return v, ok
}

// Value returns the supplied value or the field's default literal.
func (r ProductRecord) Value(f Field) string {
	if v, ok := r.Fields[f]; ok {
		return v
	}
	return FieldDefaults[f]
}

// ExtraKeys returns the unknown keys in sorted order.
func (r ProductRecord) ExtraKeys() []string {
	keys := make([]string, 0, len(r.Extra))
	for k := range r.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalJSON encodes the record as the block was received.
func (r ProductRecord) MarshalJSON() ([]byte, error) {
	if r.Raw != nil {
		return json.Marshal(r.Raw)
	}
	out := make(map[string]string, len(r.Fields)+len(r.Extra))
	for k, v := range r.Extra {
		out[k] = v
	}
	for f, v := range r.Fields {
		out[string(f)] = v
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes any JSON object into a record.
func (r *ProductRecord) UnmarshalJSON(data []byte) error {
	raw, err := DecodeObject(data)
	if err != nil {
		return err
	}
	*r = NewProductRecord(raw)
	return nil
}

// DecodeObject decodes one JSON object. Numbers are kept as json.Number so
// their literal digits survive conversion to strings.
func DecodeObject(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after JSON object")
	}
	return raw, nil
}

// scalarString converts a decoded JSON value to its display string.
func scalarString(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		s := strings.TrimSpace(val)
		return s, s != ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case json.Number:
		return val.String(), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
}
