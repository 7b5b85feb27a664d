// Package syntax resolves the effective abbreviation syntax at a document
// position: the dialect in force, embedded-language regions inside markup,
// and the structural context an expansion should honor.
package syntax

import (
	"strings"

	"go.uber.org/zap"

	"emx/common"
	"emx/config"
	"emx/css"
	"emx/markup"
)

// Info describes the syntax in force at one position. Produced fresh per
// query, never cached.
type Info struct {
	Type    string // config.TypeMarkup or config.TypeStylesheet
	Syntax  string // dialect name: html, xml, css, scss, ...
	Inline  bool   // true inside a style="" attribute value
	Context *config.AbbrContext
}

// Resolver determines Info for positions in documents. Resolution never
// fails: unknown dialects fall back to html.
type Resolver struct {
	provider config.Provider
	markup   *markup.Matcher
	css      *css.Matcher
	log      *zap.Logger
}

func NewResolver(provider config.Provider, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		provider: provider,
		markup:   markup.NewMatcher(log),
		css:      css.NewMatcher(log),
		log:      log.Named("syntax"),
	}
}

// Resolve determines the effective syntax at pos in doc.
func (r *Resolver) Resolve(doc common.Document, pos int) *Info {
	settings := r.provider.Settings()
	dialect := doc.Syntax()
	if dialect == "" {
		dialect = "html"
	}

	if settings.Syntax.IsStylesheet(dialect) {
		return &Info{
			Type:    config.TypeStylesheet,
			Syntax:  dialect,
			Context: r.stylesheetContext(doc.Text(), pos),
		}
	}

	code := doc.Text()
	opt := markup.Options{XML: settings.Syntax.IsXML(dialect)}
	chain := r.markup.Ancestors(code, pos, opt)

	if info := r.embedded(settings, code, pos, chain, opt); info != nil {
		return info
	}

	names := make([]string, 0, len(chain))
	for _, t := range chain {
		names = append(names, t.Name)
	}
	info := &Info{Type: config.TypeMarkup, Syntax: dialect}
	if len(names) > 0 {
		info.Context = &config.AbbrContext{
			Kind:      config.KindMarkup,
			Ancestors: names,
		}
	}
	return info
}

// IsXML reports whether the dialect follows strict XML rules, for callers
// that leave the flag unset.
func (r *Resolver) IsXML(dialect string) bool {
	return r.provider.Settings().Syntax.IsXML(dialect)
}

// embedded detects stylesheet and template regions inside a markup document:
// style attributes, <style> element content and <script> content with a
// recognized language attribute.
func (r *Resolver) embedded(settings *config.Config, code string, pos int, chain []markup.Token, opt markup.Options) *Info {
	if len(chain) == 0 {
		return nil
	}
	inner := chain[len(chain)-1]

	// caret inside an attribute value of the innermost open tag
	if inner.Range.Contains(pos) {
		for _, a := range inner.Attributes {
			if !a.HasValue || !a.ValueRange.Contains(pos) {
				continue
			}
			if strings.EqualFold(a.Name, "style") {
				return &Info{
					Type:   config.TypeStylesheet,
					Syntax: "css",
					Inline: true,
					Context: &config.AbbrContext{
						Kind: config.KindStylesheet,
					},
				}
			}
			return nil // other quoted values are not abbreviation territory
		}
		return nil
	}

	switch {
	case markup.NameEqual(inner.Name, "style", opt):
		region := rawContentRange(code, inner, opt)
		if region.Contains(pos) || pos == region.End {
			info := &Info{Type: config.TypeStylesheet, Syntax: "css"}
			info.Context = r.stylesheetContext(code[region.Start:region.End], pos-region.Start)
			return info
		}
	case markup.NameEqual(inner.Name, "script", opt):
		lang := scriptLanguage(inner)
		mapped, ok := settings.Syntax.ScriptSyntax(lang)
		if ok && mapped != "" {
			return &Info{Type: config.TypeMarkup, Syntax: mapped}
		}
	}
	return nil
}

func (r *Resolver) stylesheetContext(code string, pos int) *config.AbbrContext {
	chain, inProperty := r.css.Context(code, pos)
	if len(chain) == 0 {
		return nil
	}
	return &config.AbbrContext{
		Kind:       config.KindStylesheet,
		Ancestors:  chain,
		Enclosing:  chain[len(chain)-1],
		IsProperty: inProperty,
	}
}

// scriptLanguage pulls the de-quoted type (or legacy language) attribute.
func scriptLanguage(t markup.Token) string {
	for _, a := range t.Attributes {
		if strings.EqualFold(a.Name, "type") || strings.EqualFold(a.Name, "language") {
			return strings.ToLower(markup.Dequote(a.Value))
		}
	}
	return ""
}

// rawContentRange spans the element content between the open tag and its
// closing tag, or to end of document when the close is missing.
func rawContentRange(code string, open markup.Token, opt markup.Options) common.Range {
	start := open.Range.End
	rest := code[start:]
	lower := rest
	name := open.Name
	if !opt.XML {
		lower = strings.ToLower(rest)
		name = strings.ToLower(name)
	}
	end := len(code)
	if i := strings.Index(lower, "</"+name); i >= 0 {
		end = start + i
	}
	return common.NewRange(start, end)
}
