package abbr

import (
	"strconv"
	"strings"
)

// parser is a single-pass recursive parser over a markup abbreviation.
type parser struct {
	src string
	pos int
}

// ParseMarkup parses a markup abbreviation into its node tree. The returned
// root is an anonymous container holding the top-level elements.
func ParseMarkup(abbr string) (*Node, error) {
	abbr = strings.TrimSpace(abbr)
	if abbr == "" {
		return nil, syntaxErr(abbr, 0, "empty abbreviation")
	}
	p := &parser{src: abbr}
	root, err := p.parseGroup(0)
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.src) {
		return nil, syntaxErr(p.src, p.pos, "unexpected %q", p.src[p.pos])
	}
	return root, nil
}

// parseGroup parses a sibling/child sequence until end of input or, at
// depth > 0, the matching ')'.
func (p *parser) parseGroup(depth int) (*Node, error) {
	root := &Node{Group: depth > 0}
	parents := []*Node{root}
	var last *Node

	attach := func(n *Node) {
		parent := parents[len(parents)-1]
		parent.Children = append(parent.Children, n)
		last = n
	}

	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '(':
			p.pos++
			group, err := p.parseGroup(depth + 1)
			if err != nil {
				return nil, err
			}
			if p.pos >= len(p.src) || p.src[p.pos] != ')' {
				return nil, syntaxErr(p.src, p.pos, "missing ')'")
			}
			p.pos++
			if rep, err := p.parseRepeat(); err != nil {
				return nil, err
			} else if rep != nil {
				group.Repeat = rep
			}
			attach(group)

		case c == ')':
			if depth == 0 {
				return nil, syntaxErr(p.src, p.pos, "unexpected ')'")
			}
			return root, nil

		case c == '>':
			if last == nil {
				return nil, syntaxErr(p.src, p.pos, "child operator without element")
			}
			parents = append(parents, last)
			last = nil
			p.pos++

		case c == '+':
			if last == nil {
				return nil, syntaxErr(p.src, p.pos, "sibling operator without element")
			}
			last = nil
			p.pos++

		case c == '^':
			if len(parents) > 1 {
				parents = parents[:len(parents)-1]
			}
			last = nil
			p.pos++

		default:
			node, err := p.parseElement()
			if err != nil {
				return nil, err
			}
			attach(node)
		}
	}
	if depth > 0 {
		return nil, syntaxErr(p.src, p.pos, "missing ')'")
	}
	return root, nil
}

func isElementChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '-' || c == '_' || c == ':' || c == '$' || c == '@' || c == '!'
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '-' || c == '_' || c == '$' || c == '@'
}

// parseElement parses one element: name, then any run of .class, #id,
// [attrs], {text}, *N and a trailing / self-close marker.
func (p *parser) parseElement() (*Node, error) {
	node := &Node{}
	start := p.pos
	for p.pos < len(p.src) && isElementChar(p.src[p.pos]) {
		p.pos++
	}
	node.Name = p.src[start:p.pos]

	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '.':
			p.pos++
			cls := p.word()
			if cls == "" {
				return nil, syntaxErr(p.src, p.pos, "empty class name")
			}
			node.Classes = append(node.Classes, cls)
		case '#':
			p.pos++
			id := p.word()
			if id == "" {
				return nil, syntaxErr(p.src, p.pos, "empty id")
			}
			node.ID = id
		case '[':
			if err := p.parseAttrs(node); err != nil {
				return nil, err
			}
		case '{':
			text, err := p.parseText()
			if err != nil {
				return nil, err
			}
			node.Text = text
		case '*':
			rep, err := p.parseRepeat()
			if err != nil {
				return nil, err
			}
			node.Repeat = rep
		case '/':
			node.SelfClose = true
			p.pos++
		default:
			if node.empty() {
				return nil, syntaxErr(p.src, p.pos, "unexpected %q", p.src[p.pos])
			}
			return node, nil
		}
	}
	if node.empty() {
		return nil, syntaxErr(p.src, start, "empty element")
	}
	return node, nil
}

func (p *parser) word() string {
	start := p.pos
	for p.pos < len(p.src) && isWordChar(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

// parseRepeat parses the *N multiplier following an element or group.
// Returns nil when the next char is not '*'.
func (p *parser) parseRepeat() (*Repeat, error) {
	if p.pos >= len(p.src) || p.src[p.pos] != '*' {
		return nil, nil
	}
	p.pos++
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if start == p.pos {
		return nil, syntaxErr(p.src, p.pos, "repeat count expected after '*'")
	}
	count, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil || count < 1 {
		return nil, syntaxErr(p.src, start, "invalid repeat count %q", p.src[start:p.pos])
	}
	return &Repeat{Count: count, Base: 1}, nil
}

// parseAttrs parses an [attr attr=value attr="value"] block.
func (p *parser) parseAttrs(node *Node) error {
	p.pos++ // '['
	for p.pos < len(p.src) {
		for p.pos < len(p.src) && p.src[p.pos] == ' ' {
			p.pos++
		}
		if p.pos >= len(p.src) {
			break
		}
		if p.src[p.pos] == ']' {
			p.pos++
			return nil
		}
		start := p.pos
		for p.pos < len(p.src) && p.src[p.pos] != '=' && p.src[p.pos] != ' ' && p.src[p.pos] != ']' {
			p.pos++
		}
		attr := Attr{Name: p.src[start:p.pos]}
		if attr.Name == "" {
			return syntaxErr(p.src, start, "empty attribute name")
		}
		if p.pos < len(p.src) && p.src[p.pos] == '=' {
			p.pos++
			val, err := p.parseAttrValue()
			if err != nil {
				return err
			}
			attr.Value = val
			attr.HasValue = true
		}
		node.Attrs = append(node.Attrs, attr)
	}
	return syntaxErr(p.src, p.pos, "missing ']'")
}

func (p *parser) parseAttrValue() (string, error) {
	if p.pos < len(p.src) && (p.src[p.pos] == '"' || p.src[p.pos] == '\'') {
		q := p.src[p.pos]
		p.pos++
		start := p.pos
		for p.pos < len(p.src) && p.src[p.pos] != q {
			p.pos++
		}
		if p.pos >= len(p.src) {
			return "", syntaxErr(p.src, start, "unterminated attribute value")
		}
		val := p.src[start:p.pos]
		p.pos++
		return val, nil
	}
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != ' ' && p.src[p.pos] != ']' {
		p.pos++
	}
	return p.src[start:p.pos], nil
}

// parseText parses a {text} block, honoring nested braces.
func (p *parser) parseText() (string, error) {
	open := p.pos
	p.pos++ // '{'
	depth := 1
	start := p.pos
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				text := p.src[start:p.pos]
				p.pos++
				return text, nil
			}
		}
		p.pos++
	}
	return "", syntaxErr(p.src, open, "missing '}'")
}
