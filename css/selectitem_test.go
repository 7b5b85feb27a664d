package css_test

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"emx/common"
	"emx/css"
)

func TestSelectItem_Forward(t *testing.T) {
	code := "a { color: red; padding: 1px 2px; }"
	m := css.NewMatcher(zaptest.NewLogger(t))

	sel := m.SelectNext(code, 0)
	if sel == nil {
		t.Fatal("expected an item")
	}
	if sel.Range != common.NewRange(4, 15) {
		t.Errorf("first item = %v, want declaration [4, 15)", sel.Range)
	}
	if len(sel.Ranges) != 2 {
		t.Errorf("sub-ranges = %v, want name and value", sel.Ranges)
	}

	sel = m.SelectNext(code, sel.Range.Start)
	if sel == nil || sel.Range != common.NewRange(11, 14) {
		t.Fatalf("second item = %v, want value [11, 14)", sel)
	}

	// the property name is what stepping back from the value lands on
	sel = m.SelectPrev(code, sel.Range.Start)
	if sel == nil || sel.Range != common.NewRange(4, 9) {
		t.Fatalf("backward item = %v, want property name [4, 9)", sel)
	}
}

func TestSelectItem_ValueTokens(t *testing.T) {
	code := "a { padding: 1px 2px; }"
	m := css.NewMatcher(zaptest.NewLogger(t))

	// step to the value, then its individual tokens
	pos := strings.Index(code, "1px") - 1
	sel := m.SelectNext(code, pos)
	if sel == nil {
		t.Fatal("expected an item")
	}
	if got := sel.Range.Slice(code); got != "1px 2px" {
		t.Errorf("item = %q, want whole value", got)
	}
	if len(sel.Ranges) != 2 {
		t.Fatalf("sub-ranges = %v, want two tokens", sel.Ranges)
	}

	sel = m.SelectNext(code, sel.Range.Start)
	if got := sel.Range.Slice(code); got != "2px" {
		t.Errorf("next item = %q, want second token", got)
	}
}

func TestSelectItem_LocalReversibility(t *testing.T) {
	code := "a { color: red; padding: 1px 2px; }"
	m := css.NewMatcher(zaptest.NewLogger(t))
	pos := strings.Index(code, "color") + 1

	next := m.SelectNext(code, pos)
	if next == nil {
		t.Fatal("expected a next item")
	}
	back := m.SelectPrev(code, next.Range.End)
	if back == nil {
		t.Fatal("expected to step back")
	}
	if !back.Range.Contains(pos) && back.Range.End != pos {
		t.Errorf("stepping back landed on %v, does not overlap original %d", back.Range, pos)
	}
}
