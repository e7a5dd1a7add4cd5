package program

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type token struct {
	text   string
	quoted bool
	// pos is the byte offset of the token in the line text.
	pos int
}

// line is a source line reduced to its instruction text.
type line struct {
	num  int
	text string
	toks []token
}

// stripComment removes a trailing `#` comment. A `#` inside a double-quoted
// string is kept.
func stripComment(s string) string {
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if inQuote {
				i++
			}
		case '"':
			inQuote = !inQuote
		case '#':
			if !inQuote {
				return s[:i]
			}
		}
	}

	return s
}

func isSpace(b byte) bool {
	return unicode.IsSpace(rune(b))
}

func tokenize(s string) ([]token, error) {
	var toks []token

	i := 0
	for {
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if i >= len(s) {
			return toks, nil
		}

		start := i

		if s[i] == '"' {
			i++
			for i < len(s) && s[i] != '"' {
				if s[i] == '\\' {
					i++
				}
				i++
			}
			if i >= len(s) {
				return nil, fmt.Errorf("unterminated string starting at column %d", start+1)
			}
			i++

			text, err := strconv.Unquote(s[start:i])
			if err != nil {
				return nil, fmt.Errorf("invalid string %s: %w", s[start:i], err)
			}

			toks = append(toks, token{text: text, quoted: true, pos: start})
			continue
		}

		for i < len(s) && !isSpace(s[i]) {
			i++
		}
		toks = append(toks, token{text: s[start:i], pos: start})
	}
}

// newLine prepares a raw source line. It returns nil for blank and comment
// lines.
func newLine(num int, raw string) (*line, error) {
	text := strings.TrimSpace(raw)
	if text == "" || strings.HasPrefix(text, "#") {
		return nil, nil
	}

	text = strings.TrimSpace(stripComment(text))
	if text == "" {
		return nil, nil
	}

	toks, err := tokenize(text)
	if err != nil {
		return nil, err
	}

	return &line{num: num, text: text, toks: toks}, nil
}

// word returns the i-th token if it exists and is not quoted.
func (l *line) word(i int) (string, bool) {
	if i >= len(l.toks) || l.toks[i].quoted {
		return "", false
	}
	return l.toks[i].text, true
}

// rest returns the raw text from the i-th token to the end of the line.
func (l *line) rest(i int) string {
	if i >= len(l.toks) {
		return ""
	}
	return strings.TrimSpace(l.text[l.toks[i].pos:])
}
