package markup

import (
	"go.uber.org/zap"

	"emx/common"
)

// Tag is a matched structural pair: an open tag and, unless the element is
// void or self-closing, its closing tag.
type Tag struct {
	Name        string
	Open        common.Range
	Close       *common.Range
	Attributes  []Attribute
	SelfClosing bool
}

// OuterRange covers the element from the opening '<' to the end of the
// closing tag (or the end of the open tag for self-contained elements).
func (t *Tag) OuterRange() common.Range {
	if t.Close != nil {
		return common.Range{Start: t.Open.Start, End: t.Close.End}
	}
	return t.Open
}

// InnerRange covers the element content between the tags. Empty for
// self-contained elements.
func (t *Tag) InnerRange() common.Range {
	if t.Close != nil {
		return common.Range{Start: t.Open.End, End: t.Close.Start}
	}
	return common.Range{Start: t.Open.End, End: t.Open.End}
}

// contains reports whether pos is governed by this element: anywhere after
// the opening '<' and before the end of the closing tag.
func (t *Tag) contains(pos int) bool {
	outer := t.OuterRange()
	return pos > outer.Start && pos < outer.End
}

// Matcher answers structural queries over markup text.
type Matcher struct {
	log *zap.Logger
}

// NewMatcher creates a markup matcher.
func NewMatcher(log *zap.Logger) *Matcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Matcher{log: log.Named("markup-matcher")}
}

// Match returns the innermost tag pair enclosing pos, or nil when the
// position sits outside any element.
func (m *Matcher) Match(code string, pos int, opt Options) *Tag {
	var found *Tag
	var stack []Token

	Scan(code, opt, func(t Token) bool {
		switch t.Type {
		case Open:
			if IsVoid(t.Name, opt) {
				if t.Range.Surrounds(pos) {
					found = tagFromToken(t)
					return false
				}
				return true
			}
			stack = append(stack, t)
		case SelfClose:
			if t.Range.Surrounds(pos) {
				found = tagFromToken(t)
				return false
			}
		case Close:
			for idx := len(stack) - 1; idx >= 0; idx-- {
				if !NameEqual(stack[idx].Name, t.Name, opt) {
					continue
				}
				open := stack[idx]
				stack = stack[:idx]
				if open.Range.Start < pos && pos < t.Range.End {
					closeRange := t.Range
					found = tagFromToken(open)
					found.Close = &closeRange
					return false
				}
				break
			}
		}
		return true
	})

	if found == nil {
		m.log.Debug("No enclosing tag", zap.Int("pos", pos))
	}
	return found
}

// Ancestors returns the open tags enclosing pos, ordered outer→inner. A tag
// whose open token itself contains pos is included, so attribute-level
// context stays visible. Malformed documents degrade to whatever chain can be
// recovered, never an error.
func (m *Matcher) Ancestors(code string, pos int, opt Options) []Token {
	var stack []Token
	Scan(code, opt, func(t Token) bool {
		if t.Range.Start >= pos {
			return false
		}
		switch t.Type {
		case Open:
			if !IsVoid(t.Name, opt) {
				stack = append(stack, t)
			} else if t.Range.Contains(pos) {
				stack = append(stack, t)
				return false
			}
		case SelfClose:
			if t.Range.Contains(pos) {
				stack = append(stack, t)
				return false
			}
		case Close:
			for idx := len(stack) - 1; idx >= 0; idx-- {
				if NameEqual(stack[idx].Name, t.Name, opt) {
					stack = stack[:idx]
					break
				}
			}
		}
		return true
	})
	return stack
}

// pairs collects every matched element in the document: full pairs in close
// order, self-contained elements at their position in the token stream.
func pairs(code string, opt Options) []Tag {
	var all []Tag
	var stack []Token

	Scan(code, opt, func(t Token) bool {
		switch t.Type {
		case Open:
			if IsVoid(t.Name, opt) {
				all = append(all, *tagFromToken(t))
				return true
			}
			stack = append(stack, t)
		case SelfClose:
			all = append(all, *tagFromToken(t))
		case Close:
			for idx := len(stack) - 1; idx >= 0; idx-- {
				if !NameEqual(stack[idx].Name, t.Name, opt) {
					continue
				}
				open := stack[idx]
				stack = stack[:idx]
				closeRange := t.Range
				tag := tagFromToken(open)
				tag.Close = &closeRange
				all = append(all, *tag)
				break
			}
		}
		return true
	})
	return all
}

// enclosing returns all pairs containing pos, innermost first.
func enclosing(code string, pos int, opt Options) []Tag {
	var chain []Tag
	for _, p := range pairs(code, opt) {
		if p.contains(pos) {
			chain = append(chain, p)
		}
	}
	// pairs appear in close order, which is already innermost-first for a
	// chain of elements containing the same position
	return chain
}

// Balance returns selection-expansion ranges for pos moving outward: for
// every enclosing pair, its content range followed by its full range,
// innermost pair first. Duplicate and empty ranges are dropped.
func (m *Matcher) Balance(code string, pos int, opt Options) []common.Range {
	var out []common.Range
	for _, p := range enclosing(code, pos, opt) {
		out = appendRange(out, p.InnerRange())
		out = appendRange(out, p.OuterRange())
	}
	m.log.Debug("Balanced outward", zap.Int("pos", pos), zap.Int("ranges", len(out)))
	return out
}

// BalanceInward returns ranges drilling inward: the innermost pair enclosing
// pos, then the first child of every step, down to the deepest element.
func (m *Matcher) BalanceInward(code string, pos int, opt Options) []common.Range {
	chain := enclosing(code, pos, opt)
	if len(chain) == 0 {
		return nil
	}
	all := pairs(code, opt)

	var out []common.Range
	cur := chain[0]
	for {
		out = appendRange(out, cur.OuterRange())
		out = appendRange(out, cur.InnerRange())
		child, ok := firstChild(all, cur)
		if !ok {
			break
		}
		cur = child
	}
	m.log.Debug("Balanced inward", zap.Int("pos", pos), zap.Int("ranges", len(out)))
	return out
}

// firstChild finds the earliest element fully inside the content of parent.
func firstChild(all []Tag, parent Tag) (Tag, bool) {
	inner := parent.InnerRange()
	if inner.Empty() {
		return Tag{}, false
	}
	best := Tag{}
	found := false
	for _, p := range all {
		outer := p.OuterRange()
		if outer.Start < inner.Start || outer.End > inner.End {
			continue
		}
		if !found || outer.Start < best.OuterRange().Start {
			best = p
			found = true
		}
	}
	return best, found
}

func appendRange(out []common.Range, r common.Range) []common.Range {
	if r.Empty() {
		return out
	}
	if len(out) > 0 && out[len(out)-1] == r {
		return out
	}
	return append(out, r)
}

func tagFromToken(t Token) *Tag {
	return &Tag{
		Name:        t.Name,
		Open:        t.Range,
		Attributes:  t.Attributes,
		SelfClosing: t.Type == SelfClose,
	}
}
