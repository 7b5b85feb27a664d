package abbr

import (
	"strings"
	"testing"

	"emx/config"
)

func TestExtract_SimpleAbbreviation(t *testing.T) {
	code := "<div>ul>li.item*3"
	res := Extract(code, len(code), config.TypeMarkup, ExtractOptions{})
	if res == nil {
		t.Fatal("expected an extraction")
	}
	if res.Abbreviation != "ul>li.item*3" {
		t.Errorf("abbreviation = %q", res.Abbreviation)
	}
	if res.Location.Start != strings.Index(code, "ul>") || res.Location.End != len(code) {
		t.Errorf("location = %v", res.Location)
	}
}

func TestExtract_StopsAtWhitespace(t *testing.T) {
	code := "some text p.note"
	res := Extract(code, len(code), config.TypeMarkup, ExtractOptions{})
	if res == nil {
		t.Fatal("expected an extraction")
	}
	if res.Abbreviation != "p.note" {
		t.Errorf("abbreviation = %q, want p.note", res.Abbreviation)
	}
}

func TestExtract_TextBlockWithSpaces(t *testing.T) {
	code := "ul>li{hello world}"
	res := Extract(code, len(code), config.TypeMarkup, ExtractOptions{LookAhead: true})
	if res == nil {
		t.Fatal("expected an extraction")
	}
	if res.Abbreviation != code {
		t.Errorf("abbreviation = %q, want %q", res.Abbreviation, code)
	}

	// the space boundary still applies once the braces are closed
	code = "intro div{a b}+p"
	res = Extract(code, len(code), config.TypeMarkup, ExtractOptions{})
	if res == nil || res.Abbreviation != "div{a b}+p" {
		t.Fatalf("unexpected extraction: %+v", res)
	}
}

func TestExtract_LookAheadOverClosingBrackets(t *testing.T) {
	code := "ul>li{text}"
	pos := strings.Index(code, "text") + len("text") // just before '}'
	res := Extract(code, pos, config.TypeMarkup, ExtractOptions{LookAhead: true})
	if res == nil {
		t.Fatal("expected an extraction")
	}
	if res.Abbreviation != "ul>li{text}" {
		t.Errorf("abbreviation = %q, want full abbreviation", res.Abbreviation)
	}
}

func TestExtract_BalancedBrackets(t *testing.T) {
	code := `div[title="hi there"]`
	res := Extract(code, len(code), config.TypeMarkup, ExtractOptions{})
	if res == nil {
		t.Fatal("expected an extraction")
	}
	if res.Abbreviation != code {
		t.Errorf("abbreviation = %q, want whole input", res.Abbreviation)
	}
}

func TestExtract_UnbalancedIsRejected(t *testing.T) {
	// an unmatched opener ends the scan; only the part after it survives
	res := Extract("div[href", 8, config.TypeMarkup, ExtractOptions{})
	if res == nil || res.Abbreviation != "href" {
		t.Fatalf("unexpected extraction after unmatched bracket: %+v", res)
	}
	if res := Extract(`"p.note`, 7, config.TypeMarkup, ExtractOptions{}); res != nil {
		t.Errorf("open quote extracted %q", res.Abbreviation)
	}
}

func TestExtract_Stylesheet(t *testing.T) {
	code := "  m10-20!"
	res := Extract(code, len(code), config.TypeStylesheet, ExtractOptions{})
	if res == nil {
		t.Fatal("expected an extraction")
	}
	if res.Abbreviation != "m10-20!" {
		t.Errorf("abbreviation = %q", res.Abbreviation)
	}
	if res.Type != config.TypeStylesheet {
		t.Errorf("type = %q", res.Type)
	}
}

func TestExtract_Prefix(t *testing.T) {
	code := "<% ul>li"
	res := Extract(code, len(code), config.TypeMarkup, ExtractOptions{Prefix: "% "})
	if res == nil {
		t.Fatal("expected an extraction")
	}
	if res.Abbreviation != "ul>li" {
		t.Errorf("abbreviation = %q", res.Abbreviation)
	}
	if res.Location.Start != 1 {
		t.Errorf("location start = %d, want 1 (prefix included)", res.Location.Start)
	}

	if res := Extract("ul>li", 5, config.TypeMarkup, ExtractOptions{Prefix: "% "}); res != nil {
		t.Error("missing prefix must reject the candidate")
	}
}

func TestExtract_NothingBeforePosition(t *testing.T) {
	if res := Extract("   ", 3, config.TypeMarkup, ExtractOptions{}); res != nil {
		t.Errorf("extracted %q from whitespace", res.Abbreviation)
	}
	if res := Extract("abc", 0, config.TypeMarkup, ExtractOptions{}); res != nil {
		t.Errorf("extracted %q at offset 0", res.Abbreviation)
	}
}
