// Package render presents normalized message content as sanitized HTML,
// styled terminal text or a line diff of the rewrite.
package render

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// HTMLRenderer converts markdown to HTML that is safe to embed in a page.
// It is safe for concurrent use.
type HTMLRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewHTMLRenderer creates an HTMLRenderer with GitHub-flavored markdown and
// the user-generated-content sanitizing policy.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.UGCPolicy(),
	}
}

// Render converts markdown to sanitized HTML.
func (r *HTMLRenderer) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return r.policy.Sanitize(buf.String()), nil
}
