// Package css locates structural blocks and declarations in stylesheet text
// by byte offset. Like the markup matcher it works on raw source and is
// tolerant of unterminated rules while the user is still typing.
package css

import (
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"emx/common"
)

// Block is a selector (or at-rule prelude) with its braced body. Nested
// blocks (SCSS-style and @media) are supported, Parent links the chain.
type Block struct {
	Selector common.Range
	Body     common.Range
	Full     common.Range
	Parent   int
}

// Declaration is a property:value entry. Block is -1 for bare declaration
// lists such as inline style attributes.
type Declaration struct {
	Name  common.Range
	Value common.Range
	Full  common.Range
	Block int
}

// Sheet is the positional model of one stylesheet scan.
type Sheet struct {
	Blocks []Block
	Decls  []Declaration
	source string
}

// SelectorText returns the trimmed selector of block i.
func (s *Sheet) SelectorText(i int) string {
	return strings.TrimSpace(s.Blocks[i].Selector.Slice(s.source))
}

// PropertyText returns the trimmed property name of declaration i.
func (s *Sheet) PropertyText(i int) string {
	return strings.TrimSpace(s.Decls[i].Name.Slice(s.source))
}

// pending tracks tokens accumulated since the last structural boundary.
type pending struct {
	start      int // first non-space token offset, -1 when empty
	end        int // end of last non-space token
	colon      int // first top-level ':' offset, -1 when none
	valueStart int // first non-space token offset after the colon, -1
}

func (p *pending) reset() {
	p.start, p.end, p.colon, p.valueStart = -1, -1, -1, -1
}

// scan tokenizes code with the tdewolff CSS lexer tracking byte offsets and
// assembles the block/declaration model. Lexing never fails, the model simply
// ends where the input does; unterminated blocks run to the end of text.
func scan(code string) *Sheet {
	sheet := &Sheet{source: code}

	lexer := css.NewLexer(parse.NewInputString(code))
	var (
		open       []int // indexes of unclosed blocks
		pend       pending
		parenDepth int
	)
	pend.reset()

	curBlock := func() int {
		if len(open) == 0 {
			return -1
		}
		return open[len(open)-1]
	}

	flushDecl := func(stop int) {
		if pend.start < 0 || pend.colon < 0 {
			pend.reset()
			return
		}
		valueStart := pend.valueStart
		if valueStart < 0 {
			valueStart = pend.colon + 1
		}
		sheet.Decls = append(sheet.Decls, Declaration{
			Name:  common.Range{Start: pend.start, End: pend.colon},
			Value: common.Range{Start: valueStart, End: pend.end},
			Full:  common.Range{Start: pend.start, End: stop},
			Block: curBlock(),
		})
		pend.reset()
	}

	offset := 0
	for {
		tt, data := lexer.Next()
		start := offset
		offset += len(data)
		if tt == css.ErrorToken {
			break
		}

		switch tt {
		case css.WhitespaceToken, css.CommentToken:
			continue
		case css.LeftParenthesisToken, css.FunctionToken:
			parenDepth++
		case css.RightParenthesisToken:
			if parenDepth > 0 {
				parenDepth--
			}
		case css.LeftBraceToken:
			selStart, selEnd := pend.start, pend.end
			if selStart < 0 {
				selStart, selEnd = start, start
			}
			sheet.Blocks = append(sheet.Blocks, Block{
				Selector: common.Range{Start: selStart, End: selEnd},
				Body:     common.Range{Start: offset, End: len(code)},
				Full:     common.Range{Start: selStart, End: len(code)},
				Parent:   curBlock(),
			})
			open = append(open, len(sheet.Blocks)-1)
			pend.reset()
			continue
		case css.RightBraceToken:
			flushDecl(start)
			if len(open) > 0 {
				idx := open[len(open)-1]
				open = open[:len(open)-1]
				sheet.Blocks[idx].Body.End = start
				sheet.Blocks[idx].Full.End = offset
			}
			continue
		case css.SemicolonToken:
			flushDecl(offset)
			continue
		case css.ColonToken:
			if parenDepth == 0 && pend.colon < 0 && pend.start >= 0 {
				pend.colon = start
				continue
			}
		}

		if pend.start < 0 {
			pend.start = start
		}
		pend.end = offset
		if pend.colon >= 0 && pend.valueStart < 0 && tt != css.ColonToken {
			pend.valueStart = start
		}
	}
	// whatever is still pending at EOF is a declaration mid-edit
	flushDecl(offset)
	return sheet
}
