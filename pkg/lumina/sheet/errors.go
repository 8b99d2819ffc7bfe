package sheet

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/xuri/excelize/v2"
)

// ErrTotalFailure indicates neither the spec sheet nor the flat fallback
// document could be produced.
var ErrTotalFailure = errors.New("spreadsheet generation failed")

// ErrMergeOverlap indicates a merge region intersects an existing one.
var ErrMergeOverlap = errors.New("merge regions overlap")

// GenerationError represents an error during one stage of generation.
type GenerationError struct {
	Stage string // "layout", "render", "serialize", "fallback"
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("spreadsheet generation error (%s): %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(stage string, err error) *GenerationError {
	return &GenerationError{
		Stage: stage,
		Err:   err,
	}
}

// CheckSheetName reports whether Excel accepts name as a worksheet name.
// The errors are excelize's own.
func CheckSheetName(name string) error {
	switch {
	case name == "":
		return excelize.ErrSheetNameBlank
	case len(utf16.Encode([]rune(name))) > excelize.MaxSheetNameLength:
		return excelize.ErrSheetNameLength
	case strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'"):
		return excelize.ErrSheetNameSingleQuote
	case strings.ContainsAny(name, ":\\/?*[]"):
		return excelize.ErrSheetNameInvalid
	}
	return nil
}
