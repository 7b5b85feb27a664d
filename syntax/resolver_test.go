package syntax

import (
	"reflect"
	"strings"
	"testing"

	"emx/common"
	"emx/config"
)

func testResolver(t *testing.T) *Resolver {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration: %v", err)
	}
	return NewResolver(config.NewStaticProvider(cfg), nil)
}

func TestResolve_StylesheetDocument(t *testing.T) {
	r := testResolver(t)
	code := "a { color: red; }"
	doc := common.NewDocument(code, 0, "css")

	info := r.Resolve(doc, strings.Index(code, "red")+1)
	if info.Type != config.TypeStylesheet || info.Syntax != "css" {
		t.Fatalf("got %s/%s", info.Type, info.Syntax)
	}
	if info.Context == nil || info.Context.Kind != config.KindStylesheet {
		t.Fatalf("missing stylesheet context: %+v", info.Context)
	}
	if !reflect.DeepEqual(info.Context.Ancestors, []string{"a", "color"}) {
		t.Errorf("ancestors: %v", info.Context.Ancestors)
	}
	if info.Context.Enclosing != "color" || !info.Context.IsProperty {
		t.Errorf("enclosing: %q (property %t)", info.Context.Enclosing, info.Context.IsProperty)
	}

	// inside a bare rule body the enclosing entry is the selector
	code = "a {  }"
	info = r.Resolve(common.NewDocument(code, 0, "css"), 4)
	if info.Context == nil || info.Context.Enclosing != "a" || info.Context.IsProperty {
		t.Errorf("rule body context: %+v", info.Context)
	}
}

func TestResolve_MarkupAncestors(t *testing.T) {
	r := testResolver(t)
	code := "<div><ul><li>a</li></ul></div>"
	doc := common.NewDocument(code, 0, "html")

	info := r.Resolve(doc, strings.IndexByte(code, 'a'))
	if info.Type != config.TypeMarkup || info.Syntax != "html" {
		t.Fatalf("got %s/%s", info.Type, info.Syntax)
	}
	if info.Context == nil || info.Context.Kind != config.KindMarkup {
		t.Fatalf("missing markup context: %+v", info.Context)
	}
	if !reflect.DeepEqual(info.Context.Ancestors, []string{"div", "ul", "li"}) {
		t.Errorf("ancestors: %v", info.Context.Ancestors)
	}
}

func TestResolve_StyleAttribute(t *testing.T) {
	r := testResolver(t)
	code := `<p style="color:red">x</p>`
	doc := common.NewDocument(code, 0, "html")

	info := r.Resolve(doc, strings.Index(code, "red"))
	if info.Type != config.TypeStylesheet {
		t.Fatalf("style attribute not detected: %+v", info)
	}
	if !info.Inline {
		t.Error("inline flag not set inside style attribute")
	}
	if info.Context == nil || info.Context.Kind != config.KindStylesheet {
		t.Errorf("context: %+v", info.Context)
	}

	// other attribute values are not abbreviation territory, fall back to
	// plain markup
	code = `<p class="note">x</p>`
	doc = common.NewDocument(code, 0, "html")
	info = r.Resolve(doc, strings.Index(code, "note"))
	if info.Type != config.TypeMarkup || info.Inline {
		t.Errorf("class value misresolved: %+v", info)
	}
}

func TestResolve_StyleElement(t *testing.T) {
	r := testResolver(t)
	code := `<div><style>.x { margin: 0; }</style></div>`
	doc := common.NewDocument(code, 0, "html")

	info := r.Resolve(doc, strings.IndexByte(code, '0'))
	if info.Type != config.TypeStylesheet || info.Syntax != "css" {
		t.Fatalf("got %s/%s", info.Type, info.Syntax)
	}
	if info.Context == nil {
		t.Fatal("missing context")
	}
	if !reflect.DeepEqual(info.Context.Ancestors, []string{".x", "margin"}) {
		t.Errorf("ancestors: %v", info.Context.Ancestors)
	}
	if info.Context.Enclosing != "margin" || !info.Context.IsProperty {
		t.Errorf("enclosing: %q (property %t)", info.Context.Enclosing, info.Context.IsProperty)
	}
}

func TestResolve_ScriptRegions(t *testing.T) {
	r := testResolver(t)

	code := `<script type="text/html"><p></p></script>`
	doc := common.NewDocument(code, 0, "html")
	info := r.Resolve(doc, strings.Index(code, "<p>")+1)
	if info.Type != config.TypeMarkup || info.Syntax != "html" {
		t.Errorf("template script misresolved: %+v", info)
	}

	// plain javascript regions stay inert and resolve as the host markup
	code = `<script type="text/javascript">var a;</script>`
	doc = common.NewDocument(code, 0, "html")
	info = r.Resolve(doc, strings.Index(code, "var"))
	if info.Type != config.TypeMarkup || info.Syntax != "html" {
		t.Errorf("inert script misresolved: %+v", info)
	}
	if info.Context == nil || !reflect.DeepEqual(info.Context.Ancestors, []string{"script"}) {
		t.Errorf("ancestors: %+v", info.Context)
	}
}

func TestResolve_NeverFails(t *testing.T) {
	r := testResolver(t)

	info := r.Resolve(common.NewDocument("", 0, ""), 0)
	if info == nil || info.Type != config.TypeMarkup || info.Syntax != "html" {
		t.Fatalf("empty document: %+v", info)
	}
	if info.Context != nil {
		t.Errorf("unexpected context: %+v", info.Context)
	}

	info = r.Resolve(common.NewDocument("plain text, no tags", 0, "html"), 5)
	if info == nil || info.Context != nil {
		t.Errorf("untagged text: %+v", info)
	}
}

func TestResolver_IsXML(t *testing.T) {
	r := testResolver(t)
	if !r.IsXML("xml") {
		t.Error("xml dialect not recognized")
	}
	if r.IsXML("html") {
		t.Error("html flagged as XML")
	}
}
