package config

import (
	"maps"

	"go.uber.org/zap"
)

// Abbreviation target types.
const (
	TypeMarkup     = "markup"
	TypeStylesheet = "stylesheet"
)

// Well-known option keys.
const (
	OptFormat           = "output.format"
	OptIndent           = "output.indent"
	OptBaseIndent       = "output.baseIndent"
	OptNewline          = "output.newline"
	OptSelfClosingStyle = "output.selfClosingStyle"
	OptField            = "output.field"
	OptCommentEnabled   = "comment.enabled"
)

// FieldFunc generates placeholder fields (tabstops) in expanded output. The
// default generator just emits the placeholder text, editors override it to
// produce their own tabstop markers.
type FieldFunc func(index int, placeholder string) string

// Options is the option-key→value bag consumed by the abbreviation engine.
type Options map[string]any

// Bool returns a boolean option or def when absent or of the wrong type.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key].(bool); ok {
		return v
	}
	return def
}

// String returns a string option or def when absent or of the wrong type.
func (o Options) String(key string, def string) string {
	if v, ok := o[key].(string); ok {
		return v
	}
	return def
}

// Field returns the placeholder generator. Merge guarantees one is always
// present, the fallback here only covers options bags built by hand.
func (o Options) Field() FieldFunc {
	if v, ok := o[OptField].(FieldFunc); ok && v != nil {
		return v
	}
	return func(_ int, placeholder string) string { return placeholder }
}

// ContextKind tags the two shapes of abbreviation context.
type ContextKind int

const (
	// KindMarkup context carries the ancestor tag chain.
	KindMarkup ContextKind = iota
	// KindStylesheet context carries the nearest enclosing selector or property.
	KindStylesheet
)

// AbbrContext is the resolved semantic context an expansion happens in. For
// markup Ancestors holds enclosing tag names ordered outer→inner (innermost
// last), used to bias child-tag suggestions. For stylesheets Enclosing holds
// the nearest selector or property text, with IsProperty telling the two
// apart: only a property context switches expansion to value-only output.
// A nil context means "no restriction".
type AbbrContext struct {
	Kind       ContextKind
	Ancestors  []string
	Enclosing  string
	IsProperty bool
}

// UserConfig is the effective configuration for one engine invocation. Built
// fresh per call by Merger.Build and never mutated afterwards; independent
// copies share only the cache handle.
type UserConfig struct {
	Type    string
	Syntax  string
	Inline  bool
	Context *AbbrContext
	Options Options
	Cache   *Cache
}

// Provider supplies process-wide plugin settings. Injected into the merger so
// tests can run against fixed settings without a live host.
type Provider interface {
	Settings() *Config
}

// Merger builds effective configurations by layering hard defaults,
// process-wide settings and per-call overrides.
type Merger struct {
	provider Provider
	cache    *Cache
	log      *zap.Logger
}

// NewMerger creates a configuration merger. provider may be nil, in which case
// only defaults and caller overrides apply.
func NewMerger(provider Provider, cache *Cache, log *zap.Logger) *Merger {
	if log == nil {
		log = zap.NewNop()
	}
	if cache == nil {
		cache = NewCache()
	}
	return &Merger{provider: provider, cache: cache, log: log.Named("config-merger")}
}

// Cache returns the shared cache handle every built configuration carries.
func (m *Merger) Cache() *Cache {
	return m.cache
}

// Build produces the effective configuration for one action invocation.
// Layering, lowest to highest precedence: hard defaults, process-wide plugin
// settings, caller-supplied fields. Object-valued fields (Options) merge
// key-by-key. An inline caller forces output.format off regardless of the
// lower layers. Never fails: missing fields resolve through the default layer.
func (m *Merger) Build(caller *UserConfig) *UserConfig {
	cfg := &UserConfig{
		Type:   TypeMarkup,
		Syntax: "html",
		Options: Options{
			OptFormat: true,
			OptField:  FieldFunc(func(_ int, placeholder string) string { return placeholder }),
		},
		Cache: m.cache,
	}

	if m.provider != nil {
		if s := m.provider.Settings(); s != nil && len(s.Options) > 0 {
			maps.Copy(cfg.Options, s.Options)
		}
	}

	if caller != nil {
		if caller.Type != "" {
			cfg.Type = caller.Type
		}
		if caller.Syntax != "" {
			cfg.Syntax = caller.Syntax
		}
		if caller.Context != nil {
			cfg.Context = caller.Context
		}
		maps.Copy(cfg.Options, caller.Options)
		if caller.Inline {
			cfg.Inline = true
			cfg.Options[OptFormat] = false
		}
	}

	m.log.Debug("Built effective configuration",
		zap.String("type", cfg.Type),
		zap.String("syntax", cfg.Syntax),
		zap.Bool("inline", cfg.Inline),
		zap.Int("options", len(cfg.Options)))
	return cfg
}
