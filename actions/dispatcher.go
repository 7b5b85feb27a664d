// Package actions exposes the position-driven editor operations: abbreviation
// expansion and extraction, balanced-range navigation for markup and
// stylesheets, select-item stepping, tag context and effective options.
package actions

import (
	"go.uber.org/zap"

	"emx/abbr"
	"emx/common"
	"emx/config"
	"emx/css"
	"emx/markup"
	"emx/syntax"
)

// Dispatcher wires the resolver, matchers, engine and configuration merger
// behind the public operation set.
type Dispatcher struct {
	provider config.Provider
	resolver *syntax.Resolver
	markup   *markup.Matcher
	css      *css.Matcher
	engine   *abbr.Engine
	merger   *config.Merger
	log      *zap.Logger
}

// NewDispatcher builds a dispatcher over the given settings provider. All
// operations share one cache handle; settings reloads must invalidate it
// through the provider's hook.
func NewDispatcher(provider config.Provider, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	cache := config.NewCache()
	if fp, ok := provider.(*config.FileProvider); ok {
		fp.OnReload(cache.Invalidate)
	}
	return &Dispatcher{
		provider: provider,
		resolver: syntax.NewResolver(provider, log),
		markup:   markup.NewMatcher(log),
		css:      css.NewMatcher(log),
		engine:   abbr.NewEngine(provider, log),
		merger:   config.NewMerger(provider, cache, log),
		log:      log.Named("actions"),
	}
}

// Expand builds the effective configuration from caller and renders the
// abbreviation. Deterministic for identical inputs; parse failures surface as
// *abbr.SyntaxError identifying the offending span.
func (d *Dispatcher) Expand(abbrText string, caller *config.UserConfig) (string, error) {
	cfg := d.merger.Build(caller)
	return d.engine.Expand(abbrText, cfg)
}

// Extract finds the abbreviation candidate ending at pos. Nil when the
// position has nothing extractable before it.
func (d *Dispatcher) Extract(code string, pos int, typ string, opts abbr.ExtractOptions) *abbr.Extracted {
	return d.engine.Extract(code, pos, typ, opts)
}

// Balance returns balanced tag ranges around pos: outward ordered
// innermost-first, inward starting at the innermost pair and descending into
// first children.
func (d *Dispatcher) Balance(code string, pos int, inward, xml bool) []common.Range {
	opt := markup.Options{XML: xml}
	if inward {
		return d.markup.BalanceInward(code, pos, opt)
	}
	return d.markup.Balance(code, pos, opt)
}

// BalanceCSS is Balance over stylesheet blocks and declarations.
func (d *Dispatcher) BalanceCSS(code string, pos int, inward bool) []common.Range {
	return d.css.Balance(code, pos, inward)
}

// SelectItem returns the navigable unit adjacent to pos in the requested
// direction. Pure in its arguments; repeated calls are idempotent.
func (d *Dispatcher) SelectItem(code string, pos int, isCSS, isPrevious bool) *common.SelectItem {
	if isCSS {
		if isPrevious {
			return d.css.SelectPrev(code, pos)
		}
		return d.css.SelectNext(code, pos)
	}
	opt := markup.Options{}
	if isPrevious {
		return d.markup.SelectPrev(code, pos, opt)
	}
	return d.markup.SelectNext(code, pos, opt)
}

// GetTagContext returns the innermost enclosing tag at pos with de-quoted
// attributes. When xml is nil the dialect decides the matching rules.
func (d *Dispatcher) GetTagContext(doc common.Document, pos int, xml *bool) *markup.ContextTag {
	strict := false
	if xml != nil {
		strict = *xml
	} else {
		strict = d.resolver.IsXML(doc.Syntax())
	}
	return d.markup.TagContext(doc.Text(), pos, markup.Options{XML: strict})
}

// GetOptions resolves the syntax at pos and produces the configuration an
// editor should pass into Expand at that position.
func (d *Dispatcher) GetOptions(doc common.Document, pos int) *config.UserConfig {
	info := d.resolver.Resolve(doc, pos)
	return d.merger.Build(&config.UserConfig{
		Type:    info.Type,
		Syntax:  info.Syntax,
		Inline:  info.Inline,
		Context: info.Context,
	})
}
