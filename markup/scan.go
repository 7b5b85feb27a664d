// Package markup locates structural tag pairs in HTML/XML text by byte offset.
// It works on the raw source, tolerates unfinished markup the way documents
// look mid-edit, and never builds a DOM - every query is a local scan.
package markup

import (
	"strings"

	"golang.org/x/net/html/atom"

	"emx/common"
)

// Options controls matching rules.
type Options struct {
	// XML enables strict XML rules: case-sensitive tag matching, no implicit
	// void-element list, self-closing must be explicit.
	XML bool
}

// TokenType classifies scanned markup tokens.
type TokenType int

const (
	Open TokenType = iota
	Close
	SelfClose
	Comment
	CDATA
	Doctype
	ProcInst
)

// Attribute is a raw attribute inside an open tag. Value keeps the source
// text verbatim, including quotes when present.
type Attribute struct {
	Name       string
	NameRange  common.Range
	Value      string
	ValueRange common.Range
	HasValue   bool
}

// Token is a single scanned markup construct with its full source range.
type Token struct {
	Type       TokenType
	Name       string
	Range      common.Range
	NameRange  common.Range
	Attributes []Attribute
}

// rawTextElements have content that must not be scanned for tags (HTML only).
var rawTextElements = map[string]bool{
	"script":   true,
	"style":    true,
	"title":    true,
	"textarea": true,
}

// voidElements never take a closing tag in HTML.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// IsVoid reports whether name is an HTML void element. Always false under XML
// rules.
func IsVoid(name string, opt Options) bool {
	return !opt.XML && voidElements[strings.ToLower(name)]
}

// KnownTag reports whether name is a standard HTML tag.
func KnownTag(name string) bool {
	return atom.Lookup([]byte(strings.ToLower(name))) != 0
}

// NameEqual compares tag names under the given matching rules.
func NameEqual(a, b string, opt Options) bool {
	if opt.XML {
		return a == b
	}
	return strings.EqualFold(a, b)
}

func isNameStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == ':'
}

func isNameChar(c byte) bool {
	return isNameStart(c) || c >= '0' && c <= '9' || c == '-' || c == '.'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// Scan walks code and calls fn for every markup token found, in document
// order. Scanning stops when fn returns false. Content of raw-text elements
// (script, style, title, textarea) is skipped under HTML rules so stray angle
// brackets inside it do not produce bogus tokens.
func Scan(code string, opt Options, fn func(Token) bool) {
	for i := 0; i < len(code); {
		if code[i] != '<' {
			i++
			continue
		}
		tok, next, ok := scanToken(code, i, opt)
		if !ok {
			i++
			continue
		}
		if !fn(tok) {
			return
		}
		i = next
		if tok.Type == Open && !opt.XML && rawTextElements[strings.ToLower(tok.Name)] {
			at := indexCloseTag(code, i, tok.Name)
			if at < 0 {
				return
			}
			i = at
		}
	}
}

// scanToken parses a single token starting at the '<' at offset start.
// Returns the offset right past the token. ok is false for stray brackets and
// unterminated constructs.
func scanToken(code string, start int, opt Options) (Token, int, bool) {
	if start+1 >= len(code) {
		return Token{}, 0, false
	}

	switch {
	case strings.HasPrefix(code[start:], "<!--"):
		end := strings.Index(code[start+4:], "-->")
		if end < 0 {
			return Token{Type: Comment, Range: common.Range{Start: start, End: len(code)}}, len(code), true
		}
		stop := start + 4 + end + 3
		return Token{Type: Comment, Range: common.Range{Start: start, End: stop}}, stop, true

	case strings.HasPrefix(code[start:], "<![CDATA["):
		end := strings.Index(code[start+9:], "]]>")
		if end < 0 {
			return Token{Type: CDATA, Range: common.Range{Start: start, End: len(code)}}, len(code), true
		}
		stop := start + 9 + end + 3
		return Token{Type: CDATA, Range: common.Range{Start: start, End: stop}}, stop, true

	case code[start+1] == '!':
		end := strings.IndexByte(code[start:], '>')
		if end < 0 {
			return Token{}, 0, false
		}
		stop := start + end + 1
		return Token{Type: Doctype, Range: common.Range{Start: start, End: stop}}, stop, true

	case code[start+1] == '?':
		end := strings.Index(code[start:], "?>")
		if end < 0 {
			return Token{}, 0, false
		}
		stop := start + end + 2
		return Token{Type: ProcInst, Range: common.Range{Start: start, End: stop}}, stop, true

	case code[start+1] == '/':
		i := start + 2
		if i >= len(code) || !isNameStart(code[i]) {
			return Token{}, 0, false
		}
		nameStart := i
		for i < len(code) && isNameChar(code[i]) {
			i++
		}
		name := code[nameStart:i]
		for i < len(code) && isSpace(code[i]) {
			i++
		}
		if i >= len(code) || code[i] != '>' {
			return Token{}, 0, false
		}
		return Token{
			Type:      Close,
			Name:      name,
			Range:     common.Range{Start: start, End: i + 1},
			NameRange: common.Range{Start: nameStart, End: nameStart + len(name)},
		}, i + 1, true

	case isNameStart(code[start+1]):
		return scanOpenTag(code, start, opt)
	}
	return Token{}, 0, false
}

func scanOpenTag(code string, start int, opt Options) (Token, int, bool) {
	i := start + 1
	nameStart := i
	for i < len(code) && isNameChar(code[i]) {
		i++
	}
	tok := Token{
		Type:      Open,
		Name:      code[nameStart:i],
		NameRange: common.Range{Start: nameStart, End: i},
	}

	for i < len(code) {
		for i < len(code) && isSpace(code[i]) {
			i++
		}
		if i >= len(code) {
			return Token{}, 0, false
		}
		switch {
		case code[i] == '>':
			tok.Range = common.Range{Start: start, End: i + 1}
			return tok, i + 1, true
		case code[i] == '/' && i+1 < len(code) && code[i+1] == '>':
			tok.Type = SelfClose
			tok.Range = common.Range{Start: start, End: i + 2}
			return tok, i + 2, true
		case code[i] == '<':
			// tag was never closed, do not swallow the next one
			return Token{}, 0, false
		default:
			attr, next, ok := scanAttribute(code, i)
			if !ok {
				// skip one byte of garbage and keep looking for the tag end
				i++
				continue
			}
			tok.Attributes = append(tok.Attributes, attr)
			i = next
		}
	}
	return Token{}, 0, false
}

func scanAttribute(code string, start int) (Attribute, int, bool) {
	i := start
	if !isNameStart(code[i]) && code[i] != '@' && code[i] != '#' && code[i] != '*' {
		return Attribute{}, 0, false
	}
	nameStart := i
	for i < len(code) && !isSpace(code[i]) && code[i] != '=' && code[i] != '>' && code[i] != '/' {
		i++
	}
	attr := Attribute{
		Name:      code[nameStart:i],
		NameRange: common.Range{Start: nameStart, End: i},
	}
	if i >= len(code) || code[i] != '=' {
		return attr, i, true
	}
	i++
	if i >= len(code) {
		return attr, i, true
	}
	valueStart := i
	if q := code[i]; q == '"' || q == '\'' {
		end := strings.IndexByte(code[i+1:], q)
		if end < 0 {
			// unterminated value runs to end of text
			i = len(code)
		} else {
			i += end + 2
		}
	} else {
		for i < len(code) && !isSpace(code[i]) && code[i] != '>' {
			i++
		}
	}
	attr.Value = code[valueStart:i]
	attr.ValueRange = common.Range{Start: valueStart, End: i}
	attr.HasValue = true
	return attr, i, true
}

// indexCloseTag finds the offset of the "</name" closing a raw-text element,
// case-insensitively. Returns -1 when the element is never closed.
func indexCloseTag(code string, from int, name string) int {
	needle := "</" + strings.ToLower(name)
	lower := strings.ToLower(code)
	for at := from; at < len(code); {
		idx := strings.Index(lower[at:], needle)
		if idx < 0 {
			return -1
		}
		at += idx
		// next char must terminate the name
		next := at + len(needle)
		if next >= len(code) || isSpace(code[next]) || code[next] == '>' {
			return at
		}
		at = next
	}
	return -1
}
