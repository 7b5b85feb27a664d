package abbr

import (
	"errors"
	"testing"
)

func TestParseMarkup_ChildAndSibling(t *testing.T) {
	root, err := ParseMarkup("ul>li+li")
	if err != nil {
		t.Fatal(err)
	}
	if len(root.Children) != 1 || root.Children[0].Name != "ul" {
		t.Fatalf("top level = %+v, want single ul", root.Children)
	}
	ul := root.Children[0]
	if len(ul.Children) != 2 || ul.Children[0].Name != "li" || ul.Children[1].Name != "li" {
		t.Errorf("ul children = %+v, want two li", ul.Children)
	}
}

func TestParseMarkup_ClimbUp(t *testing.T) {
	root, err := ParseMarkup("div>p>span^footer")
	if err != nil {
		t.Fatal(err)
	}
	if len(root.Children) != 1 {
		t.Fatalf("top level = %+v, want div only", root.Children)
	}
	div := root.Children[0]
	if len(div.Children) != 2 {
		t.Fatalf("div children = %+v, want p and footer", div.Children)
	}
	if div.Children[1].Name != "footer" {
		t.Errorf("second child = %q, want footer", div.Children[1].Name)
	}

	// a second climb reaches the top level
	root, err = ParseMarkup("div>p>span^^footer")
	if err != nil {
		t.Fatal(err)
	}
	if len(root.Children) != 2 || root.Children[1].Name != "footer" {
		t.Errorf("top level = %+v, want div and footer", root.Children)
	}
}

func TestParseMarkup_ClassIDAttrsText(t *testing.T) {
	root, err := ParseMarkup(`a#main.btn.big[href="/x" download]{Go}`)
	if err != nil {
		t.Fatal(err)
	}
	n := root.Children[0]
	if n.Name != "a" || n.ID != "main" {
		t.Errorf("name/id = %q/%q", n.Name, n.ID)
	}
	if len(n.Classes) != 2 || n.Classes[0] != "btn" || n.Classes[1] != "big" {
		t.Errorf("classes = %v", n.Classes)
	}
	if len(n.Attrs) != 2 {
		t.Fatalf("attrs = %+v", n.Attrs)
	}
	if n.Attrs[0].Name != "href" || n.Attrs[0].Value != "/x" || !n.Attrs[0].HasValue {
		t.Errorf("href = %+v", n.Attrs[0])
	}
	if n.Attrs[1].Name != "download" || n.Attrs[1].HasValue {
		t.Errorf("download = %+v", n.Attrs[1])
	}
	if n.Text != "Go" {
		t.Errorf("text = %q", n.Text)
	}
}

func TestParseMarkup_GroupRepeat(t *testing.T) {
	root, err := ParseMarkup("(dt+dd)*2")
	if err != nil {
		t.Fatal(err)
	}
	g := root.Children[0]
	if !g.Group {
		t.Fatal("expected a group node")
	}
	if g.Repeat == nil || g.Repeat.Count != 2 {
		t.Errorf("repeat = %+v, want count 2", g.Repeat)
	}
	if len(g.Children) != 2 {
		t.Errorf("group children = %+v", g.Children)
	}
}

func TestParseMarkup_NestedTextBraces(t *testing.T) {
	root, err := ParseMarkup("p{a {b} c}")
	if err != nil {
		t.Fatal(err)
	}
	if got := root.Children[0].Text; got != "a {b} c" {
		t.Errorf("text = %q, want nested braces kept", got)
	}
}

func TestParseMarkup_Errors(t *testing.T) {
	cases := []string{
		"",
		">li",
		"ul>li*",
		"div[",
		"p{x",
		"(div",
		"div)",
		"a[=x]",
	}
	for _, abbr := range cases {
		_, err := ParseMarkup(abbr)
		if err == nil {
			t.Errorf("ParseMarkup(%q) succeeded, want error", abbr)
			continue
		}
		var serr *SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("ParseMarkup(%q) error is %T, want *SyntaxError", abbr, err)
		}
	}
}
