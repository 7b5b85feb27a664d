package abbr

import (
	"strings"
	"unicode"

	"emx/common"
	"emx/config"
)

// Extracted is the abbreviation candidate found around a position.
type Extracted struct {
	Abbreviation string
	Location     common.Range
	Type         string
}

// ExtractOptions tunes the backward scan.
type ExtractOptions struct {
	// LookAhead moves the scan start forward over ] } ) so a caret placed
	// just inside trailing brackets still captures the whole abbreviation.
	// Markup extraction enables this.
	LookAhead bool
	// PrefixRequired, when non-empty, demands the abbreviation be preceded
	// by this string and strips it from the result.
	Prefix string
}

const stylesheetValueChars = "@!$%-+:;,./#"

// Extract scans backward from pos for the longest run that still parses as a
// single abbreviation candidate. Nil when nothing usable precedes pos.
func Extract(code string, pos int, typ string, opts ExtractOptions) *Extracted {
	if pos < 0 || pos > len(code) {
		return nil
	}
	end := pos
	if opts.LookAhead {
		end = lookAhead(code, pos)
	}

	stylesheet := typ == config.TypeStylesheet

	var (
		brackets = map[byte]int{'[': 0, '(': 0, '{': 0}
		quote    byte
		start    = -1
	)
	i := end
	for i > 0 {
		c := code[i-1]
		if quote != 0 {
			if c == quote && (i < 2 || code[i-2] != '\\') {
				quote = 0
			}
			i--
			start = i
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
			i--
			start = i
			continue
		case ']', ')', '}':
			brackets[openOf(c)]++
			i--
			start = i
			continue
		case '[', '(', '{':
			if brackets[c] == 0 {
				// unbalanced opener, candidate ends before it
				i = 0
				continue
			}
			brackets[c]--
			i--
			start = i
			continue
		}
		if !isAbbrChar(c, stylesheet) {
			// inside brackets anything goes, text blocks may hold spaces
			if brackets['['] == 0 && brackets['('] == 0 && brackets['{'] == 0 {
				break
			}
		}
		i--
		start = i
	}

	if quote != 0 || start < 0 || start >= end {
		return nil
	}
	for _, n := range brackets {
		if n != 0 {
			return nil
		}
	}

	text := code[start:end]
	if !stylesheet {
		text, start = trimTagRemnant(code, text, start)
	}
	text, start = trimOperators(text, start)
	if text == "" {
		return nil
	}

	if opts.Prefix != "" {
		p := start - len(opts.Prefix)
		if p < 0 || code[p:start] != opts.Prefix {
			return nil
		}
		start = p
	}

	return &Extracted{
		Abbreviation: text,
		Location:     common.NewRange(start, end),
		Type:         typ,
	}
}

// lookAhead advances over closing brackets immediately after pos so that a
// caret at `ul>li{a|}` still extracts the full abbreviation.
func lookAhead(code string, pos int) int {
	end := pos
	for end < len(code) {
		switch code[end] {
		case ']', '}', ')':
			end++
		default:
			return end
		}
	}
	return end
}

func openOf(c byte) byte {
	switch c {
	case ']':
		return '['
	case ')':
		return '('
	default:
		return '{'
	}
}

func isAbbrChar(c byte, stylesheet bool) bool {
	if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
		return true
	}
	if stylesheet {
		return strings.IndexByte(stylesheetValueChars, c) >= 0
	}
	switch c {
	case '.', '#', '*', '>', '+', '^', '$', '@', '-', '_', '/', '!', ':', '=':
		return true
	}
	return c > 127 && !unicode.IsSpace(rune(c))
}

// trimTagRemnant drops a leading slice of a real tag the scan walked into,
// e.g. `<div>ul>li` keeps `ul>li`. The scan itself stops at '<', so the
// remnant is detected by the bracket right before the candidate.
func trimTagRemnant(code, text string, start int) (string, int) {
	if start == 0 || code[start-1] != '<' {
		return text, start
	}
	j := strings.IndexByte(text, '>')
	if j < 0 {
		return "", start
	}
	for _, c := range []byte(text[:j]) {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == ':' || c == '/') {
			return text, start
		}
	}
	return text[j+1:], start + j + 1
}

// trimOperators strips leading operator characters that cannot begin an
// abbreviation.
func trimOperators(text string, start int) (string, int) {
	i := 0
	for i < len(text) {
		switch text[i] {
		case '>', '+', '^', '*', '/', '=', ':':
			i++
		default:
			return text[i:], start + i
		}
	}
	return "", start + i
}
