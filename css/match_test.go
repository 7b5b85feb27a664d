package css_test

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"emx/common"
	"emx/css"
)

func TestMatch_InnermostBlock(t *testing.T) {
	code := "a { color: red; } b { margin: 0; }"
	m := css.NewMatcher(zaptest.NewLogger(t))

	b := m.Match(code, strings.Index(code, "red"))
	if b == nil {
		t.Fatal("expected a block")
	}
	if b.Selector != common.NewRange(0, 1) {
		t.Errorf("selector = %v, want [0, 1)", b.Selector)
	}
	if b.Full != common.NewRange(0, 17) {
		t.Errorf("full = %v, want [0, 17)", b.Full)
	}
}

func TestMatch_TopLevel(t *testing.T) {
	m := css.NewMatcher(zaptest.NewLogger(t))
	if b := m.Match("a { color: red; } b { margin: 0; }", 17); b != nil {
		t.Errorf("expected nil between rules, got %v", b.Full)
	}
}

func TestMatch_NestedBlocks(t *testing.T) {
	code := ".a { .b { color: red; } }"
	m := css.NewMatcher(zaptest.NewLogger(t))

	b := m.Match(code, strings.Index(code, "red"))
	if b == nil {
		t.Fatal("expected a block")
	}
	if got := b.Selector.Slice(code); strings.TrimSpace(got) != ".b" {
		t.Errorf("selector = %q, want .b", got)
	}
	if b.Parent != 0 {
		t.Errorf("parent = %d, want 0", b.Parent)
	}
}

func TestBalance_Outward(t *testing.T) {
	code := "a { color: red; } b { margin: 0; }"
	m := css.NewMatcher(zaptest.NewLogger(t))

	got := m.Balance(code, strings.Index(code, "red")+1, false)
	want := []common.Range{
		common.NewRange(11, 14), // value
		common.NewRange(4, 15),  // declaration
		common.NewRange(3, 16),  // block body
		common.NewRange(0, 17),  // full rule
	}
	if len(got) != len(want) {
		t.Fatalf("ranges = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ranges = %v, want %v", got, want)
		}
	}
}

func TestBalance_Junction(t *testing.T) {
	code := "a { color: red; } b { margin: 0; }"
	m := css.NewMatcher(zaptest.NewLogger(t))
	pos := strings.Index(code, "red") + 1

	outward := m.Balance(code, pos, false)
	inward := m.Balance(code, pos, true)
	if len(outward) == 0 || len(inward) == 0 {
		t.Fatal("expected ranges in both directions")
	}
	if outward[0] != inward[len(inward)-1] {
		t.Errorf("outward first %v != inward last %v", outward[0], inward[len(inward)-1])
	}
}

func TestBalance_UnterminatedBlock(t *testing.T) {
	code := "a { color: red"
	m := css.NewMatcher(zaptest.NewLogger(t))

	got := m.Balance(code, len(code)-1, false)
	if len(got) == 0 {
		t.Fatal("expected ranges in a block still being typed")
	}
	last := got[len(got)-1]
	if last.End != len(code) {
		t.Errorf("outermost range %v must run to end of text", last)
	}
}

func TestContext_SelectorAndProperty(t *testing.T) {
	code := ".a { .b { color: red; } }"
	m := css.NewMatcher(zaptest.NewLogger(t))

	got, inProperty := m.Context(code, strings.Index(code, "red")+1)
	want := []string{".a", ".b", "color"}
	if len(got) != len(want) {
		t.Fatalf("context = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("context = %v, want %v", got, want)
		}
	}
	if !inProperty {
		t.Error("declaration value not flagged as property context")
	}
}

func TestContext_RuleBodyIsNotProperty(t *testing.T) {
	code := "a {  }"
	m := css.NewMatcher(zaptest.NewLogger(t))

	got, inProperty := m.Context(code, 4)
	if len(got) != 1 || got[0] != "a" {
		t.Fatalf("context = %v, want [a]", got)
	}
	if inProperty {
		t.Error("rule body flagged as property context")
	}
}

func TestContext_TopLevel(t *testing.T) {
	m := css.NewMatcher(zaptest.NewLogger(t))
	if got, _ := m.Context("a { color: red; }", 0); len(got) != 0 {
		t.Errorf("context = %v, want empty", got)
	}
}
