package render

import (
	"github.com/charmbracelet/glamour"
)

// DefaultWordWrap is the terminal column width used when none is given.
const DefaultWordWrap = 80

// NewTerminalRenderer creates a renderer for terminal output. An empty style
// picks one matching the terminal background.
func NewTerminalRenderer(style string, width int) (*glamour.TermRenderer, error) {
	if width <= 0 {
		width = DefaultWordWrap
	}
	styleOpt := glamour.WithAutoStyle()
	if style != "" {
		styleOpt = glamour.WithStandardStyle(style)
	}
	return glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
}

// Terminal renders markdown for a terminal.
func Terminal(markdown, style string, width int) (string, error) {
	r, err := NewTerminalRenderer(style, width)
	if err != nil {
		return "", err
	}
	return r.Render(markdown)
}
