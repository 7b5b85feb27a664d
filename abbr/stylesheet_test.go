package abbr

import (
	"strings"
	"testing"

	"emx/config"
)

func styleConfig() *config.UserConfig {
	return &config.UserConfig{
		Type:    config.TypeStylesheet,
		Syntax:  "css",
		Options: config.Options{config.OptFormat: true},
		Cache:   config.NewCache(),
	}
}

func expandStyle(t *testing.T, abbr string, cfg *config.UserConfig) string {
	t.Helper()
	out, err := expandStylesheet(abbr, cfg, builtinStylesheetSnippets)
	if err != nil {
		t.Fatalf("expandStylesheet(%q): %v", abbr, err)
	}
	return out
}

func TestExpandStylesheet_NumericShorthand(t *testing.T) {
	cases := []struct{ abbr, want string }{
		{"m10", "margin: 10px;"},
		{"m10-20", "margin: 10px 20px;"},
		{"m--10", "margin: -10px;"},
		{"w100p", "width: 100%;"},
		{"fz1.5", "font-size: 1.5em;"},
		{"p2e", "padding: 2em;"},
		{"mt0", "margin-top: 0;"},
		{"z5", "z-index: 5;"},
		{"op.5", "opacity: .5;"},
	}
	for _, c := range cases {
		if got := expandStyle(t, c.abbr, styleConfig()); got != c.want {
			t.Errorf("expand(%q) = %q, want %q", c.abbr, got, c.want)
		}
	}
}

func TestExpandStylesheet_Colors(t *testing.T) {
	cases := []struct{ abbr, want string }{
		{"c#f", "color: #fff;"},
		{"c#f1", "color: #f1f1f1;"},
		{"c#a1b2c3", "color: #a1b2c3;"},
		{"bgc#000.5", "background-color: rgba(0, 0, 0, 0.5);"},
	}
	for _, c := range cases {
		if got := expandStyle(t, c.abbr, styleConfig()); got != c.want {
			t.Errorf("expand(%q) = %q, want %q", c.abbr, got, c.want)
		}
	}
}

func TestExpandStylesheet_DefaultsAndImportant(t *testing.T) {
	if got := expandStyle(t, "df", styleConfig()); got != "display: flex;" {
		t.Errorf("df = %q", got)
	}
	if got := expandStyle(t, "bxz", styleConfig()); got != "box-sizing: border-box;" {
		t.Errorf("bxz = %q", got)
	}
	if got := expandStyle(t, "m10!", styleConfig()); got != "margin: 10px !important;" {
		t.Errorf("m10! = %q", got)
	}
}

func TestExpandStylesheet_MultiProperty(t *testing.T) {
	got := expandStyle(t, "m10+p20", styleConfig())
	want := "margin: 10px;\npadding: 20px;"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	cfg := styleConfig()
	cfg.Options[config.OptFormat] = false
	got = expandStyle(t, "m10+p20", cfg)
	if got != "margin: 10px; padding: 20px;" {
		t.Errorf("unformatted = %q", got)
	}
}

func TestExpandStylesheet_ValueContext(t *testing.T) {
	cfg := styleConfig()
	cfg.Context = &config.AbbrContext{
		Kind:       config.KindStylesheet,
		Ancestors:  []string{".card", "margin"},
		Enclosing:  "margin",
		IsProperty: true,
	}
	if got := expandStyle(t, "10-20", cfg); got != "10px 20px" {
		t.Errorf("value-context expansion = %q", got)
	}
}

func TestExpandStylesheet_RuleBodyContext(t *testing.T) {
	// inside a rule body the enclosing entry is a selector, even one that
	// reads like a property name, and expansion stays a full declaration
	for _, enclosing := range []string{"a", "div", "p"} {
		cfg := styleConfig()
		cfg.Context = &config.AbbrContext{
			Kind:      config.KindStylesheet,
			Ancestors: []string{enclosing},
			Enclosing: enclosing,
		}
		if got := expandStyle(t, "m10", cfg); got != "margin: 10px;" {
			t.Errorf("under selector %q: m10 = %q", enclosing, got)
		}
	}
}

func TestExpandStylesheet_FuzzyKeys(t *testing.T) {
	// ovh is an exact snippet; unknown keys fall back to prefix and
	// subsequence matching over the table
	if got := expandStyle(t, "ovh", styleConfig()); got != "overflow: hidden;" {
		t.Errorf("ovh = %q", got)
	}
	got := expandStyle(t, "bdrs4", styleConfig())
	if got != "border-radius: 4px;" {
		t.Errorf("bdrs4 = %q", got)
	}
	// a written-out property passes through
	if got := expandStyle(t, "text-align:c", styleConfig()); !strings.HasPrefix(got, "text-align:") {
		t.Errorf("verbatim property = %q", got)
	}
}

func TestExpandStylesheet_Errors(t *testing.T) {
	for _, abbr := range []string{"", "!", "qqq"} {
		if _, err := expandStylesheet(abbr, styleConfig(), builtinStylesheetSnippets); err == nil {
			t.Errorf("expandStylesheet(%q) succeeded, want error", abbr)
		}
	}
}
