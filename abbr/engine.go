package abbr

import (
	"fmt"

	"go.uber.org/zap"

	"emx/config"
)

// Engine expands abbreviations against the active settings.
type Engine struct {
	provider config.Provider
	log      *zap.Logger
}

func NewEngine(provider config.Provider, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		provider: provider,
		log:      log.Named("abbr"),
	}
}

// Expand parses and renders the abbreviation under cfg. Identical inputs
// yield identical output. Parse failures come back as *SyntaxError wrapped
// with the abbreviation text.
func (e *Engine) Expand(abbrText string, cfg *config.UserConfig) (string, error) {
	settings := e.provider.Settings()
	var (
		out string
		err error
	)
	if cfg.Type == config.TypeStylesheet {
		out, err = expandStylesheet(abbrText, cfg, stylesheetSnippets(settings, cfg.Cache))
	} else {
		var root *Node
		root, err = ParseMarkup(abbrText)
		if err == nil {
			out, err = expandMarkup(root, cfg, markupSnippets(settings, cfg.Cache))
		}
	}
	if err != nil {
		e.log.Debug("expansion failed", zap.String("abbreviation", abbrText), zap.Error(err))
		return "", fmt.Errorf("expanding %q: %w", abbrText, err)
	}
	return out, nil
}

// Extract finds the abbreviation candidate ending at pos in code.
func (e *Engine) Extract(code string, pos int, typ string, opts ExtractOptions) *Extracted {
	if typ == "" {
		typ = config.TypeMarkup
	}
	if typ == config.TypeMarkup {
		opts.LookAhead = true
	}
	return Extract(code, pos, typ, opts)
}
