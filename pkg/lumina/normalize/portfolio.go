package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ukaji3/lumina-go/pkg/lumina/models"
)

var (
	wellFormedImageRe = regexp.MustCompile(`!\[[^\]]*\]\(\s*https?://[^)\s]+[^)]*\)`)
	portfolioMarkerRe = regexp.MustCompile(`(?i)portfolio\s+image\s+\d+`)

	viewMarkerRe     = regexp.MustCompile(`(?i)view\s+portfolio\s+image\s+(\d+)`)
	bracketViewRe    = regexp.MustCompile(`(?i)\[\s*view\s+portfolio\s+image\s+(\d+)\s*\]\(\s*([^)\s]+)\s*\)`)
	plainViewURLRe   = regexp.MustCompile(`(?i)view\s+portfolio\s+image\s+(\d+)\s*:\s*(https?://[^\s)\]]+)`)
	bracketPlainRe   = regexp.MustCompile(`(?i)\[\s*portfolio\s+image\s+(\d+)\s*\]\(\s*([^)\s]+)\s*\)`)
	followedByLinkRe = regexp.MustCompile(`^\s*(\]|:\s*https?://)`)
)

// Classify reports the link state of text. Well-formed image markdown wins
// over portfolio markers so already repaired text is never processed twice.
func Classify(text string) models.LinkState {
	switch {
	case wellFormedImageRe.MatchString(text):
		return models.LinksWellFormed
	case portfolioMarkerRe.MatchString(text):
		return models.LinksNeedRepair
	default:
		return models.LinksClean
	}
}

// PlaceholderURL expands the placeholder template for image number n.
func PlaceholderURL(template, n string) string {
	return strings.ReplaceAll(template, "{n}", n)
}

func imageMarkdown(n, url string) string {
	return fmt.Sprintf("![Portfolio Image %s](%s)", n, url)
}

// repairLegacyMarkers rewrites bare "View Portfolio Image N" markers into
// image markdown pointing at the placeholder for N. Markers that are link
// text or that are followed by their own URL are left for the repair pass.
func repairLegacyMarkers(text, template string) (string, int) {
	matches := viewMarkerRe.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, 0
	}

	var b strings.Builder
	last, count := 0, 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if isLinkText(text, start, end) {
			continue
		}
		n := text[m[2]:m[3]]
		b.WriteString(text[last:start])
		b.WriteString(imageMarkdown(n, PlaceholderURL(template, n)))
		last = end
		count++
	}
	b.WriteString(text[last:])
	return b.String(), count
}

// isLinkText reports whether the marker at text[start:end] sits inside
// brackets or is followed by an explicit URL.
func isLinkText(text string, start, end int) bool {
	before := strings.TrimRight(text[:start], " \t")
	if strings.HasSuffix(before, "[") {
		return true
	}
	return followedByLinkRe.MatchString(text[end:])
}

// repairPortfolioLinks converts the known broken portfolio link shapes into
// image markdown and reduces leftover markers to plain text.
func repairPortfolioLinks(text string) string {
	toImage := func(sub []string) string {
		return imageMarkdown(sub[1], sub[2])
	}
	text = replaceUnprefixed(text, bracketViewRe, '!', toImage)
	text = plainViewURLRe.ReplaceAllString(text, "![Portfolio Image $1]($2)")
	text = replaceUnprefixed(text, bracketPlainRe, '!', toImage)
	return viewMarkerRe.ReplaceAllString(text, "Portfolio $1")
}

// replaceUnprefixed replaces matches of re that are not immediately preceded
// by the byte prefix.
func replaceUnprefixed(text string, re *regexp.Regexp, prefix byte, repl func([]string) string) string {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		if m[0] > 0 && text[m[0]-1] == prefix {
			continue
		}
		sub := make([]string, len(m)/2)
		for i := range sub {
			if m[2*i] >= 0 {
				sub[i] = text[m[2*i]:m[2*i+1]]
			}
		}
		b.WriteString(text[last:m[0]])
		b.WriteString(repl(sub))
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String()
}
