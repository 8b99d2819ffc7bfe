package render

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Line kinds of a diff.
const (
	LineContext = "context"
	LineAdded   = "added"
	LineRemoved = "removed"
)

// Line is one line of a line-level diff.
type Line struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Diff compares two texts line by line.
func Diff(before, after string) []Line {
	dmp := diffmatchpatch.New()
	beforeChars, afterChars, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(beforeChars, afterChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var lines []Line
	for _, d := range diffs {
		chunk := strings.Split(d.Text, "\n")
		if len(chunk) > 0 && chunk[len(chunk)-1] == "" {
			chunk = chunk[:len(chunk)-1]
		}
		for _, text := range chunk {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				lines = append(lines, Line{Type: LineContext, Text: text})
			case diffmatchpatch.DiffDelete:
				lines = append(lines, Line{Type: LineRemoved, Text: text})
			case diffmatchpatch.DiffInsert:
				lines = append(lines, Line{Type: LineAdded, Text: text})
			}
		}
	}
	return lines
}

// Unified formats a diff with "+", "-" and " " line prefixes.
func Unified(before, after string) string {
	var b strings.Builder
	for _, l := range Diff(before, after) {
		switch l.Type {
		case LineAdded:
			b.WriteString("+ ")
		case LineRemoved:
			b.WriteString("- ")
		default:
			b.WriteString("  ")
		}
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}
