package css

import (
	"sort"

	"emx/common"
)

type unit struct {
	r    common.Range
	subs []common.Range
}

// units lists navigable items in document order: selectors, whole
// declarations, property names, values and individual value tokens.
// Containers come before their contents.
func units(code string) []unit {
	sheet := scan(code)

	var out []unit
	for _, b := range sheet.Blocks {
		if !b.Selector.Empty() {
			out = append(out, unit{r: b.Selector})
		}
	}
	for _, d := range sheet.Decls {
		tokens := valueTokens(code, d.Value)
		full := unit{r: d.Full, subs: []common.Range{d.Name, d.Value}}
		out = append(out, full, unit{r: d.Name})
		if !d.Value.Empty() {
			out = append(out, unit{r: d.Value, subs: tokens})
			if len(tokens) > 1 {
				for _, t := range tokens {
					out = append(out, unit{r: t})
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].r.Start != out[j].r.Start {
			return out[i].r.Start < out[j].r.Start
		}
		return out[i].r.End > out[j].r.End
	})
	return out
}

// valueTokens splits a value range on top-level whitespace, keeping
// parenthesized groups like rgb(0, 0, 0) together.
func valueTokens(code string, value common.Range) []common.Range {
	var tokens []common.Range
	depth := 0
	start := -1
	for i := value.Start; i < value.End && i < len(code); i++ {
		c := code[i]
		switch {
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case (c == ' ' || c == '\t' || c == '\n' || c == '\r') && depth == 0:
			if start >= 0 {
				tokens = append(tokens, common.Range{Start: start, End: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		end := value.End
		if end > len(code) {
			end = len(code)
		}
		tokens = append(tokens, common.Range{Start: start, End: end})
	}
	return tokens
}

// SelectNext returns the navigable item after pos, or nil past the last one.
func (m *Matcher) SelectNext(code string, pos int) *common.SelectItem {
	for _, u := range units(code) {
		if u.r.Start > pos {
			return &common.SelectItem{Range: u.r, Ranges: u.subs}
		}
	}
	return nil
}

// SelectPrev returns the navigable item before pos, or nil ahead of the
// first one.
func (m *Matcher) SelectPrev(code string, pos int) *common.SelectItem {
	list := units(code)
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].r.End < pos {
			return &common.SelectItem{Range: list[i].r, Ranges: list[i].subs}
		}
	}
	return nil
}
