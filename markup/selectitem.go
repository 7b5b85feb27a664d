package markup

import (
	"emx/common"
)

// unit is one navigable item with optional finer sub-ranges.
type unit struct {
	r    common.Range
	subs []common.Range
}

// units lists navigable items in document order: tag names, whole attributes,
// attribute values (inside the quotes) and individual class names. Containers
// come before their contents so stepping forward narrows the selection.
func units(code string, opt Options) []unit {
	var out []unit
	Scan(code, opt, func(t Token) bool {
		if t.Type != Open && t.Type != SelfClose {
			return true
		}
		name := unit{r: t.NameRange}
		for _, a := range t.Attributes {
			name.subs = append(name.subs, attrRange(a))
		}
		out = append(out, name)
		for _, a := range t.Attributes {
			full := unit{r: attrRange(a)}
			if inner, ok := valueInner(a); ok {
				full.subs = append(full.subs, inner)
				value := unit{r: inner}
				if words := classWords(code, a, inner, opt); len(words) > 1 {
					value.subs = words
					out = append(out, full, value)
					for _, w := range words {
						out = append(out, unit{r: w})
					}
				} else {
					out = append(out, full, value)
				}
			} else {
				out = append(out, full)
			}
		}
		return true
	})
	return out
}

// classWords splits a class attribute value into its space-separated names.
// Non-class attributes yield nothing.
func classWords(code string, a Attribute, inner common.Range, opt Options) []common.Range {
	if !NameEqual(a.Name, "class", opt) {
		return nil
	}
	var words []common.Range
	start := -1
	for i := inner.Start; i < inner.End && i < len(code); i++ {
		if isSpace(code[i]) {
			if start >= 0 {
				words = append(words, common.Range{Start: start, End: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		words = append(words, common.Range{Start: start, End: inner.End})
	}
	return words
}

// attrRange covers the attribute from its name to the end of its value.
func attrRange(a Attribute) common.Range {
	if a.HasValue {
		return common.Range{Start: a.NameRange.Start, End: a.ValueRange.End}
	}
	return a.NameRange
}

// valueInner returns the attribute value range without surrounding quotes.
func valueInner(a Attribute) (common.Range, bool) {
	if !a.HasValue {
		return common.Range{}, false
	}
	r := a.ValueRange
	if len(a.Value) >= 2 && (a.Value[0] == '"' || a.Value[0] == '\'') && a.Value[len(a.Value)-1] == a.Value[0] {
		r = common.Range{Start: r.Start + 1, End: r.End - 1}
	}
	return r, true
}

// SelectNext returns the navigable item after pos, or nil past the last one.
// Direction is a pure parameter: repeated calls with the same arguments are
// idempotent.
func (m *Matcher) SelectNext(code string, pos int, opt Options) *common.SelectItem {
	return pickNext(units(code, opt), pos)
}

// SelectPrev returns the navigable item before pos, or nil ahead of the
// first one.
func (m *Matcher) SelectPrev(code string, pos int, opt Options) *common.SelectItem {
	return pickPrev(units(code, opt), pos)
}

func pickNext(list []unit, pos int) *common.SelectItem {
	for _, u := range list {
		if u.r.Start > pos {
			return &common.SelectItem{Range: u.r, Ranges: u.subs}
		}
	}
	return nil
}

func pickPrev(list []unit, pos int) *common.SelectItem {
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].r.End < pos {
			return &common.SelectItem{Range: list[i].r, Ranges: list[i].subs}
		}
	}
	return nil
}
