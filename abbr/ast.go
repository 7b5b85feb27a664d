// Package abbr parses and expands abbreviations into markup or stylesheet
// code. Markup abbreviations follow the ul>li.item$*3 shorthand family,
// stylesheet abbreviations resolve against a snippet table with numeric and
// color value shorthands.
package abbr

import (
	"fmt"
)

// SyntaxError reports a malformed abbreviation, identifying the offending
// span so the editor can highlight it. Expansion failures are never
// swallowed: silently producing wrong code would corrupt the document.
type SyntaxError struct {
	Abbr string
	Pos  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid abbreviation %q at offset %d: %s", e.Abbr, e.Pos, e.Msg)
}

func syntaxErr(abbr string, pos int, format string, args ...any) error {
	return &SyntaxError{Abbr: abbr, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Attr is one attribute from an [attr=value] block. Empty Value with
// HasValue false renders as a placeholder slot.
type Attr struct {
	Name     string
	Value    string
	HasValue bool
}

// Repeat describes the *N multiplier on an element or group.
type Repeat struct {
	Count   int
	Reverse bool // $@- numbering runs high to low
	Base    int  // $@N numbering starts at N, default 1
}

// Node is one element (or group) of a parsed markup abbreviation. A node
// with empty Name and Group unset is a bare text block. The root of a parse
// is an anonymous container whose children are the top-level elements.
type Node struct {
	Name      string
	ID        string
	Classes   []string
	Attrs     []Attr
	Text      string
	Repeat    *Repeat
	SelfClose bool
	Group     bool
	Children  []*Node
}

// clone deep-copies the node so repetition and snippet merging never share
// state.
func (n *Node) clone() *Node {
	c := *n
	c.Classes = append([]string(nil), n.Classes...)
	c.Attrs = append([]Attr(nil), n.Attrs...)
	if n.Repeat != nil {
		r := *n.Repeat
		c.Repeat = &r
	}
	c.Children = make([]*Node, len(n.Children))
	for i, ch := range n.Children {
		c.Children[i] = ch.clone()
	}
	return &c
}

// empty reports whether the node carries no content of its own.
func (n *Node) empty() bool {
	return n.Name == "" && n.ID == "" && len(n.Classes) == 0 &&
		len(n.Attrs) == 0 && n.Text == "" && len(n.Children) == 0
}
