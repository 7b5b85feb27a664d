package abbr

import (
	"errors"
	"strings"
	"testing"

	"emx/config"
)

func defaultProvider(t *testing.T) *config.FileProvider {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration: %v", err)
	}
	return config.NewStaticProvider(cfg)
}

func TestEngine_ExpandDeterministic(t *testing.T) {
	provider := defaultProvider(t)
	eng := NewEngine(provider, nil)
	merger := config.NewMerger(provider, nil, nil)

	cfg := merger.Build(&config.UserConfig{Type: config.TypeMarkup, Syntax: "html"})
	first, err := eng.Expand("ul>li.item$*3", cfg)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	second, err := eng.Expand("ul>li.item$*3", merger.Build(&config.UserConfig{Type: config.TypeMarkup, Syntax: "html"}))
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if first != second {
		t.Errorf("identical input diverged:\n%s\nvs\n%s", first, second)
	}
	if !strings.Contains(first, `class="item2"`) {
		t.Errorf("unexpected expansion: %s", first)
	}

	// "o" scores several snippet keys equally; ties must resolve the same
	// way on every call
	cssCfg := func() *config.UserConfig {
		return merger.Build(&config.UserConfig{Type: config.TypeStylesheet, Syntax: "css"})
	}
	first, err = eng.Expand("o", cssCfg())
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if first != "opacity: ;" {
		t.Errorf("tie not broken lexicographically: %q", first)
	}
	for range 50 {
		out, err := eng.Expand("o", cssCfg())
		if err != nil {
			t.Fatalf("Expand: %v", err)
		}
		if out != first {
			t.Fatalf("tie-prone key diverged: %q vs %q", out, first)
		}
	}
}

func TestEngine_ExpandStylesheet(t *testing.T) {
	provider := defaultProvider(t)
	eng := NewEngine(provider, nil)
	merger := config.NewMerger(provider, nil, nil)

	out, err := eng.Expand("m10-20", merger.Build(&config.UserConfig{Type: config.TypeStylesheet, Syntax: "css"}))
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if out != "margin: 10px 20px;" {
		t.Errorf("got %q", out)
	}
}

func TestEngine_ExpandSyntaxError(t *testing.T) {
	provider := defaultProvider(t)
	eng := NewEngine(provider, nil)
	merger := config.NewMerger(provider, nil, nil)

	_, err := eng.Expand("div[", merger.Build(nil))
	if err == nil {
		t.Fatal("expected error for unterminated attribute list")
	}
	var serr *SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("error is not a *SyntaxError: %v", err)
	}
	if !strings.Contains(err.Error(), `"div["`) {
		t.Errorf("error does not name the abbreviation: %v", err)
	}
}

func TestEngine_SnippetOverridesTrackSettings(t *testing.T) {
	base, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration: %v", err)
	}
	base.Snippets.Markup = map[string]string{"card": "div.card>span.note"}

	provider := config.NewStaticProvider(base)
	cache := config.NewCache()
	provider.OnReload(cache.Invalidate)

	eng := NewEngine(provider, nil)
	cfg := &config.UserConfig{
		Type:    config.TypeMarkup,
		Syntax:  "html",
		Options: config.Options{config.OptFormat: false},
		Cache:   cache,
	}

	out, err := eng.Expand("card", cfg)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if !strings.Contains(out, `<span class="note">`) {
		t.Errorf("snippet override not applied: %s", out)
	}

	next, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration: %v", err)
	}
	next.Snippets.Markup = map[string]string{"card": "em.hot"}
	provider.Replace(next)

	out, err = eng.Expand("card", cfg)
	if err != nil {
		t.Fatalf("Expand after replace: %v", err)
	}
	if !strings.Contains(out, `<em class="hot">`) {
		t.Errorf("stale snippet served after settings change: %s", out)
	}
}

func TestEngine_ExtractDefaults(t *testing.T) {
	eng := NewEngine(defaultProvider(t), nil)

	// markup extraction gets look-ahead even when the caret sits inside
	// trailing braces
	res := eng.Extract("ul>li{a}", 7, "", ExtractOptions{})
	if res == nil || res.Abbreviation != "ul>li{a}" {
		t.Fatalf("unexpected markup extraction: %+v", res)
	}
	if res.Type != config.TypeMarkup {
		t.Errorf("empty type did not default to markup: %q", res.Type)
	}
}
