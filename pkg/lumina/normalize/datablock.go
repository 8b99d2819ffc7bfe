package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ukaji3/lumina-go/pkg/lumina/models"
)

// FilenameSuffix is appended to every suggested spreadsheet name.
const FilenameSuffix = "_data.xlsx"

// ErrNoObject indicates the data block holds no brace-delimited body.
var ErrNoObject = errors.New("data block has no object body")

var (
	blockStartRe = regexp.MustCompile(`(?i)\(\(\s*json:\s*\{`)
	blockCloseRe = regexp.MustCompile(`^\s*\)\)`)
	lazyEndRe    = regexp.MustCompile(`\}\s*\)\)`)
	nonAlnumRe   = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// cutDataBlock removes every ((json: {...})) block from text and returns the
// remaining text and the body of the first block between its outer braces.
// Later blocks are dropped unparsed.
func cutDataBlock(text string) (rest, body string, found bool) {
	var b strings.Builder
	pos := 0
	for {
		start, open, closing, end, ok := nextDataBlock(text, pos)
		if !ok {
			break
		}
		if !found {
			body = text[open : closing+1]
			found = true
		}
		b.WriteString(text[pos:start])
		pos = end
	}
	if !found {
		return text, "", false
	}
	b.WriteString(text[pos:])
	return b.String(), body, true
}

// nextDataBlock locates the first block at or after from. start and end
// bound the whole block, open and closing are its outer braces. The object
// is matched brace by brace with quoted strings skipped; when that fails the
// block ends at the first "}))".
func nextDataBlock(text string, from int) (start, open, closing, end int, ok bool) {
	loc := blockStartRe.FindStringIndex(text[from:])
	if loc == nil {
		return 0, 0, 0, 0, false
	}
	start = from + loc[0]
	open = from + loc[1] - 1

	if closing, end, ok = scanObject(text, open); ok {
		return start, open, closing, end, true
	}
	m := lazyEndRe.FindStringIndex(text[open:])
	if m == nil {
		return 0, 0, 0, 0, false
	}
	return start, open, open + m[0], open + m[1], true
}

// scanObject finds the brace closing the object at open and the end of the
// "))" that must follow it. A quote opens a string only where a key or value
// may start, so apostrophes inside bare words are plain text.
func scanObject(s string, open int) (closing, end int, ok bool) {
	depth := 0
	var prev byte
	for i := open; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"', '\'':
			if strings.IndexByte("{[,:", prev) < 0 {
				break
			}
			j := closingQuote(s, i)
			if j < 0 {
				return 0, 0, false
			}
			i = j
			prev = c
			continue
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				if c != '}' {
					return 0, 0, false
				}
				m := blockCloseRe.FindStringIndex(s[i+1:])
				if m == nil {
					return 0, 0, false
				}
				return i, i + 1 + m[1], true
			}
		}
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			prev = c
		}
	}
	return 0, 0, false
}

// closingQuote returns the index of the quote ending the string that starts
// at i, or -1 when it is unterminated.
func closingQuote(s string, i int) int {
	q := s[i]
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case q:
			return j
		}
	}
	return -1
}

// ParseDataBlock sanitizes a relaxed object literal into strict JSON and
// decodes it into a ProductRecord.
func ParseDataBlock(body string) (models.ProductRecord, error) {
	open := strings.IndexByte(body, '{')
	end := strings.LastIndexByte(body, '}')
	if open < 0 || end < open {
		return models.ProductRecord{}, ErrNoObject
	}
	clean := SanitizeJSON(body[open : end+1])

	raw, err := models.DecodeObject([]byte(clean))
	if err != nil {
		return models.ProductRecord{}, fmt.Errorf("invalid data block %q: %w", clean, err)
	}
	if raw == nil {
		return models.ProductRecord{}, ErrNoObject
	}
	return models.NewProductRecord(raw), nil
}

// SuggestFilename derives the spreadsheet name from the product name, the
// fixture code or the literal "product", in that order.
func SuggestFilename(rec models.ProductRecord) string {
	base := "product"
	if v, ok := rec.Get(models.FieldProductName); ok {
		base = v
	} else if v, ok := rec.Get(models.FieldFixtureCode); ok {
		base = v
	}
	return nonAlnumRe.ReplaceAllString(base, "_") + FilenameSuffix
}

// SanitizeJSON rewrites a relaxed object literal into strict JSON.
// Whitespace runs collapse to one space, bare keys and bare string values are
// quoted, single-quoted strings become double-quoted and trailing commas
// before a closing bracket are dropped. Structure is never invented: an
// unbalanced input stays unbalanced.
func SanitizeJSON(s string) string {
	s = strings.Join(strings.Fields(s), " ")

	var b strings.Builder
	var stack []byte
	expectKey := false

	inObject := func() bool {
		return len(stack) > 0 && stack[len(stack)-1] == '{'
	}

	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ':
			b.WriteByte(c)
			i++
		case c == '"' || c == '\'':
			str, n := readQuoted(s[i:])
			b.WriteString(str)
			i += n
			expectKey = false
		case c == '{' || c == '[':
			stack = append(stack, c)
			b.WriteByte(c)
			i++
			expectKey = c == '{'
		case c == '}' || c == ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			b.WriteByte(c)
			i++
			expectKey = false
		case c == ',':
			j := i + 1
			for j < len(s) && s[j] == ' ' {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				i = j
				continue
			}
			i++
			b.WriteByte(c)
			expectKey = inObject()
		case c == ':':
			b.WriteByte(c)
			i++
			expectKey = false
		case expectKey:
			j := strings.IndexByte(s[i:], ':')
			if j < 0 {
				b.WriteString(s[i:])
				i = len(s)
				continue
			}
			b.WriteString(quote(strings.TrimSpace(s[i : i+j])))
			i += j
			expectKey = false
		default:
			j := i
			for j < len(s) && s[j] != ',' && s[j] != '}' && s[j] != ']' {
				j++
			}
			tok := strings.TrimSpace(s[i:j])
			b.WriteString(bareValue(tok))
			i = j
		}
	}
	return b.String()
}

// readQuoted reads a quoted string at the start of s and returns it as a
// JSON string literal plus the number of bytes consumed. An unterminated
// string is returned verbatim.
func readQuoted(s string) (string, int) {
	q := s[0]
	var content strings.Builder
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			next := s[i+1]
			if q == '\'' && next == '\'' {
				content.WriteByte('\'')
			} else {
				content.WriteByte(c)
				content.WriteByte(next)
			}
			i++
		case c == q:
			if q == '"' {
				return s[:i+1], i + 1
			}
			return `"` + content.String() + `"`, i + 1
		case c == '"':
			content.WriteString(`\"`)
		default:
			content.WriteByte(c)
		}
	}
	return s, len(s)
}

// bareValue renders an unquoted token as a JSON value. Numbers and literals
// pass through; anything else becomes a string. An empty token is kept empty
// so the decoder rejects it.
func bareValue(tok string) string {
	if tok == "" {
		return ""
	}
	switch tok {
	case "true", "false", "null":
		return tok
	}
	if (tok[0] == '-' || (tok[0] >= '0' && tok[0] <= '9')) && json.Valid([]byte(tok)) {
		return tok
	}
	return quote(tok)
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
