package css

import (
	"go.uber.org/zap"

	"emx/common"
)

// Matcher answers structural queries over stylesheet text.
type Matcher struct {
	log *zap.Logger
}

// NewMatcher creates a stylesheet matcher.
func NewMatcher(log *zap.Logger) *Matcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Matcher{log: log.Named("css-matcher")}
}

// Match returns the innermost block enclosing pos, or nil at top level.
func (m *Matcher) Match(code string, pos int) *Block {
	sheet := scan(code)
	if idx := innermostBlock(sheet, pos); idx >= 0 {
		b := sheet.Blocks[idx]
		return &b
	}
	m.log.Debug("No enclosing block", zap.Int("pos", pos))
	return nil
}

// innermostBlock finds the deepest block whose full range surrounds pos.
func innermostBlock(sheet *Sheet, pos int) int {
	best := -1
	for i, b := range sheet.Blocks {
		if !b.Full.Surrounds(pos) {
			continue
		}
		if best < 0 || b.Full.Start >= sheet.Blocks[best].Full.Start {
			best = i
		}
	}
	return best
}

// declAt finds the declaration containing pos, if any.
func declAt(sheet *Sheet, pos int) int {
	for i, d := range sheet.Decls {
		if d.Full.Surrounds(pos) {
			return i
		}
	}
	return -1
}

// Balance returns selection-expansion ranges moving outward: the enclosing
// declaration (value, then whole entry), then every enclosing block (body,
// then full range), innermost first.
func (m *Matcher) Balance(code string, pos int, inward bool) []common.Range {
	if inward {
		return m.balanceInward(code, pos)
	}
	sheet := scan(code)

	var out []common.Range
	if di := declAt(sheet, pos); di >= 0 {
		d := sheet.Decls[di]
		if d.Value.Contains(pos) || pos == d.Value.End {
			out = appendRange(out, d.Value)
		}
		out = appendRange(out, d.Full)
	}
	for idx := innermostBlock(sheet, pos); idx >= 0; idx = sheet.Blocks[idx].Parent {
		out = appendRange(out, sheet.Blocks[idx].Body)
		out = appendRange(out, sheet.Blocks[idx].Full)
	}
	m.log.Debug("Balanced outward", zap.Int("pos", pos), zap.Int("ranges", len(out)))
	return out
}

// balanceInward drills from the innermost enclosing block into its first
// entry: nested block or declaration.
func (m *Matcher) balanceInward(code string, pos int) []common.Range {
	sheet := scan(code)

	var out []common.Range
	idx := innermostBlock(sheet, pos)
	if idx < 0 {
		if di := declAt(sheet, pos); di >= 0 {
			out = appendRange(out, sheet.Decls[di].Full)
			out = appendRange(out, sheet.Decls[di].Value)
		}
		return out
	}

	for idx >= 0 {
		b := sheet.Blocks[idx]
		out = appendRange(out, b.Full)
		out = appendRange(out, b.Body)

		child := firstChildBlock(sheet, idx)
		if child < 0 {
			if di := firstDecl(sheet, idx); di >= 0 {
				out = appendRange(out, sheet.Decls[di].Full)
				out = appendRange(out, sheet.Decls[di].Value)
			}
			break
		}
		idx = child
	}
	m.log.Debug("Balanced inward", zap.Int("pos", pos), zap.Int("ranges", len(out)))
	return out
}

func firstChildBlock(sheet *Sheet, parent int) int {
	best := -1
	for i, b := range sheet.Blocks {
		if b.Parent != parent {
			continue
		}
		if best < 0 || b.Full.Start < sheet.Blocks[best].Full.Start {
			best = i
		}
	}
	return best
}

func firstDecl(sheet *Sheet, block int) int {
	best := -1
	for i, d := range sheet.Decls {
		if d.Block != block {
			continue
		}
		if best < 0 || d.Full.Start < sheet.Decls[best].Full.Start {
			best = i
		}
	}
	return best
}

// Context returns the lexical nesting chain at pos ordered outer→inner:
// enclosing selector texts, then the property name when pos sits inside a
// declaration value. inProperty is true only in that last case, so callers
// can tell a declaration value apart from a rule body without guessing from
// the entry text. Empty at top level.
func (m *Matcher) Context(code string, pos int) (chain []string, inProperty bool) {
	sheet := scan(code)

	for idx := innermostBlock(sheet, pos); idx >= 0; idx = sheet.Blocks[idx].Parent {
		chain = append(chain, sheet.SelectorText(idx))
	}
	// collected inner→outer, flip
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	if di := declAt(sheet, pos); di >= 0 {
		d := sheet.Decls[di]
		if pos > d.Name.End {
			chain = append(chain, sheet.PropertyText(di))
			inProperty = true
		}
	}
	return chain, inProperty
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
