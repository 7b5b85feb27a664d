package abbr

import (
	"maps"

	"emx/config"
)

// builtinMarkupSnippets are always available for markup syntaxes. Values are
// abbreviations themselves and get parsed on use.
var builtinMarkupSnippets = map[string]string{
	"!":        "html:5",
	"html:5":   "html[lang=en]>(head>meta[charset=UTF-8]+meta[name=viewport content='width=device-width, initial-scale=1.0']+title{Document})+body",
	"a":        "a[href]",
	"a:link":   "a[href=https://]",
	"a:mail":   "a[href=mailto:]",
	"img":      "img[src alt]/",
	"link":     "link[rel=stylesheet href]/",
	"link:css": "link[rel=stylesheet href=style.css]/",
	"script":   "script[src]",
	"input":    "input[type=text]/",
	"inp":      "input[type=text name id]/",
	"btn":      "button",
	"meta":     "meta/",
	"form":     "form[action]",
	"label":    "label[for]",
	"select":   "select[name id]",
	"option":   "option[value]",
	"textarea": "textarea[name id cols=30 rows=10]",
	"tarea":    "textarea[name id cols=30 rows=10]",
	"src":      "source/",
	"area":     "area[shape coords href alt]/",
	"bq":       "blockquote",
	"fig":      "figure",
	"figc":     "figcaption",
	"pic":      "picture",
	"ifr":      "iframe[src frameborder=0]",
	"emb":      "embed[src type]/",
	"obj":      "object[data type]",
	"cap":      "caption",
	"colg":     "colgroup",
	"fst":      "fieldset",
	"fset":     "fieldset",
	"leg":      "legend",
	"sect":     "section",
	"art":      "article",
	"hdr":      "header",
	"ftr":      "footer",
	"adr":      "address",
	"dlg":      "dialog",
	"str":      "strong",
	"prog":     "progress",
	"mn":       "main",
	"tem":      "template",
	"datal":    "datalist",
	"det":      "details",
	"summ":     "summary",
	"out":      "output",
}

// builtinStylesheetSnippets map abbreviation keys to "property: default"
// definitions. A definition without a colon is a bare property name.
var builtinStylesheetSnippets = map[string]string{
	"p":    "padding",
	"pt":   "padding-top",
	"pr":   "padding-right",
	"pb":   "padding-bottom",
	"pl":   "padding-left",
	"m":    "margin",
	"mt":   "margin-top",
	"mr":   "margin-right",
	"mb":   "margin-bottom",
	"ml":   "margin-left",
	"w":    "width",
	"h":    "height",
	"maw":  "max-width",
	"mah":  "max-height",
	"miw":  "min-width",
	"mih":  "min-height",
	"d":    "display: block",
	"db":   "display: block",
	"dib":  "display: inline-block",
	"df":   "display: flex",
	"dg":   "display: grid",
	"dn":   "display: none",
	"pos":  "position: relative",
	"posa": "position: absolute",
	"posr": "position: relative",
	"posf": "position: fixed",
	"poss": "position: sticky",
	"t":    "top",
	"r":    "right",
	"b":    "bottom",
	"l":    "left",
	"z":    "z-index: 1",
	"fl":   "float: left",
	"cl":   "clear: both",
	"ov":   "overflow: hidden",
	"ovh":  "overflow: hidden",
	"ova":  "overflow: auto",
	"v":    "visibility: hidden",
	"op":   "opacity",
	"bd":   "border: 1px solid",
	"bdrs": "border-radius",
	"bg":   "background: #000",
	"bgc":  "background-color",
	"bgi":  "background-image: url()",
	"c":    "color: #000",
	"op5":  "opacity: 0.5",
	"f":    "font",
	"fs":   "font-style: italic",
	"fw":   "font-weight",
	"fwb":  "font-weight: bold",
	"fz":   "font-size",
	"ff":   "font-family",
	"lh":   "line-height",
	"ls":   "letter-spacing",
	"ta":   "text-align: left",
	"tac":  "text-align: center",
	"tar":  "text-align: right",
	"td":   "text-decoration: none",
	"tdu":  "text-decoration: underline",
	"tt":   "text-transform: uppercase",
	"ti":   "text-indent",
	"ws":   "white-space: nowrap",
	"va":   "vertical-align: middle",
	"cur":  "cursor: pointer",
	"cnt":  "content: ''",
	"bxz":  "box-sizing: border-box",
	"bxsh": "box-shadow",
	"trf":  "transform",
	"trs":  "transition",
	"anim": "animation",
	"fx":   "flex",
	"fxd":  "flex-direction: row",
	"fxw":  "flex-wrap: wrap",
	"jc":   "justify-content: center",
	"ai":   "align-items: center",
	"ac":   "align-content: center",
	"as":   "align-self: center",
	"g":    "gap",
	"gtc":  "grid-template-columns",
	"gtr":  "grid-template-rows",
	"us":   "user-select: none",
	"wm":   "writing-mode",
}

const (
	markupSnippetsKey     = "snippets/markup"
	stylesheetSnippetsKey = "snippets/stylesheet"
)

// markupSnippets merges the builtin table with user overrides from settings,
// caching the merged map so repeated expansions do not rebuild it.
func markupSnippets(settings *config.Config, cache *config.Cache) map[string]string {
	return mergedSnippets(markupSnippetsKey, builtinMarkupSnippets, settings.Snippets.Markup, cache)
}

func stylesheetSnippets(settings *config.Config, cache *config.Cache) map[string]string {
	return mergedSnippets(stylesheetSnippetsKey, builtinStylesheetSnippets, settings.Snippets.Stylesheet, cache)
}

func mergedSnippets(key string, builtin, overrides map[string]string, cache *config.Cache) map[string]string {
	if cache != nil {
		if v, ok := cache.Get(key); ok {
			if m, ok := v.(map[string]string); ok {
				return m
			}
		}
	}
	merged := make(map[string]string, len(builtin)+len(overrides))
	maps.Copy(merged, builtin)
	maps.Copy(merged, overrides)
	if cache != nil {
		cache.Put(key, merged)
	}
	return merged
}
