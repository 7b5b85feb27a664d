// Package common defines types shared between the matchers, the abbreviation
// engine and the action layer.
package common

import (
	"fmt"
)

// Range is a half-open [Start, End) span of byte offsets into document text.
// Immutable once produced.
type Range struct {
	Start int
	End   int
}

// NewRange creates a range, swapping bounds if given in reverse.
func NewRange(start, end int) Range {
	if end < start {
		start, end = end, start
	}
	return Range{Start: start, End: end}
}

// Contains reports whether pos falls inside the range.
func (r Range) Contains(pos int) bool {
	return pos >= r.Start && pos < r.End
}

// Surrounds reports whether pos falls strictly inside the range, excluding
// both boundaries. Used for structural pairs where sitting on the opening
// bracket is not yet "inside".
func (r Range) Surrounds(pos int) bool {
	return pos > r.Start && pos < r.End
}

// Len returns the range length.
func (r Range) Len() int {
	return r.End - r.Start
}

// Empty reports whether the range covers no text.
func (r Range) Empty() bool {
	return r.Start >= r.End
}

// Slice returns the text the range covers. Out-of-bounds ranges yield "".
func (r Range) Slice(text string) string {
	if r.Start < 0 || r.End > len(text) || r.Empty() {
		return ""
	}
	return text[r.Start:r.End]
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// SelectItem is a navigable structural unit returned by select-item actions:
// the unit itself plus finer sub-ranges inside it (attribute values, value
// tokens) an editor may cycle through.
type SelectItem struct {
	Range  Range
	Ranges []Range
}
