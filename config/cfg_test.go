package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
	if !cfg.Syntax.IsStylesheet("css") {
		t.Error("css must be a stylesheet dialect by default")
	}
	if !cfg.Syntax.IsXML("xml") {
		t.Error("xml must follow XML rules by default")
	}
	if cfg.Syntax.IsXML("html") {
		t.Error("html must not follow XML rules")
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
snippets:
  markup:
    hero: section.hero
options:
  output.format: false
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Snippets.Markup["hero"] != "section.hero" {
		t.Errorf("snippet override not applied: %v", cfg.Snippets.Markup)
	}
	if v, ok := cfg.Options[OptFormat].(bool); !ok || v {
		t.Errorf("options[%s] = %v, want false", OptFormat, cfg.Options[OptFormat])
	}
	// defaults must survive the overlay
	if !cfg.Syntax.IsStylesheet("scss") {
		t.Error("default stylesheet list lost after overlay")
	}
}

func TestLoadConfiguration_UnknownField(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("version: 1\nbogus: true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfiguration(configPath); err == nil {
		t.Error("expected error on unknown configuration field")
	} else if !strings.Contains(err.Error(), "bogus") {
		t.Logf("error does not name the field (acceptable): %v", err)
	}
}

func TestScriptSyntax(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatal(err)
	}

	if s, ok := cfg.Syntax.ScriptSyntax("text/html"); !ok || s != "html" {
		t.Errorf("text/html resolved to (%q, %v), want html", s, ok)
	}
	if _, ok := cfg.Syntax.ScriptSyntax("text/javascript"); ok {
		t.Error("text/javascript must be inert")
	}
	if _, ok := cfg.Syntax.ScriptSyntax("no-such-language"); ok {
		t.Error("unknown language must be inert")
	}
}

func TestFileProvider_ReloadFiresHooks(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("version: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := NewFileProvider(configPath, nil)
	if err != nil {
		t.Fatalf("NewFileProvider() error = %v", err)
	}

	fired := 0
	p.OnReload(func() { fired++ })

	content := `version: 1
snippets:
  stylesheet:
    qq: quotes
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if err := p.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if fired != 1 {
		t.Errorf("reload hooks fired %d times, want 1", fired)
	}
	if p.Settings().Snippets.Stylesheet["qq"] != "quotes" {
		t.Error("reloaded settings not visible")
	}
}
