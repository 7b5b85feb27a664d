package abbr

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"emx/config"
)

// unitlessProperties take bare numbers without an implied unit.
var unitlessProperties = map[string]bool{
	"opacity": true, "z-index": true, "font-weight": true, "line-height": true,
	"flex": true, "flex-grow": true, "flex-shrink": true, "order": true,
	"counter-increment": true, "counter-reset": true, "orphans": true,
	"widows": true, "zoom": true,
}

// unit suffix aliases for numeric value shorthands.
var unitAliases = map[string]string{
	"p": "%",
	"e": "em",
	"r": "rem",
	"x": "ex",
}

// cssValue is one parsed item of a stylesheet abbreviation value.
type cssValue struct {
	raw     string // keyword or explicit text
	num     string // numeric literal
	unit    string
	isColor bool
	color   string
	alpha   string
}

// styleAbbr is a stylesheet abbreviation broken into its parts.
type styleAbbr struct {
	key       string
	values    []cssValue
	important bool
}

// parseStylesheet splits an abbreviation like m10-20! into snippet key,
// value items and the !important marker.
func parseStylesheet(abbr string) (*styleAbbr, error) {
	abbr = strings.TrimSpace(abbr)
	if abbr == "" {
		return nil, syntaxErr(abbr, 0, "empty abbreviation")
	}
	out := &styleAbbr{}
	if strings.HasSuffix(abbr, "!") {
		out.important = true
		abbr = abbr[:len(abbr)-1]
		if abbr == "" {
			return nil, syntaxErr(abbr, 0, "missing property before '!'")
		}
	}

	// the key is letters, with '-' allowed between letters so written-out
	// property names like text-align survive
	i := 0
	for i < len(abbr) {
		c := abbr[i]
		if isStyleLetter(c) {
			i++
			continue
		}
		if c == '-' && i > 0 && i+1 < len(abbr) && isStyleLetter(abbr[i+1]) {
			i++
			continue
		}
		break
	}
	out.key = abbr[:i]
	rest := abbr[i:]
	if out.key == "" && rest == "" {
		return nil, syntaxErr(abbr, 0, "expected property name")
	}

	values, err := parseStyleValues(abbr, rest, i)
	if err != nil {
		return nil, err
	}
	out.values = values
	return out, nil
}

// parseStyleValues scans the value shorthand: numbers separated by '-' (a
// doubled '-' starts a negative number), unit suffixes, #colors and :keyword
// items.
func parseStyleValues(abbr, rest string, base int) ([]cssValue, error) {
	var values []cssValue
	i := 0
	for i < len(rest) {
		switch {
		case rest[i] == '-':
			i++
			continue
		case rest[i] == ':':
			// explicit keyword value, e.g. ta:c is handled by the snippet
			// table, d:n carries "n" as keyword
			i++
			start := i
			for i < len(rest) && rest[i] != '-' && rest[i] != ':' {
				i++
			}
			values = append(values, cssValue{raw: rest[start:i]})
		case rest[i] == '#':
			i++
			start := i
			for i < len(rest) && isHexDigit(rest[i]) {
				i++
			}
			color := rest[start:i]
			if color == "" {
				return nil, syntaxErr(abbr, base+i, "missing color digits after '#'")
			}
			var alpha string
			if i < len(rest) && rest[i] == '.' {
				i++
				as := i
				for i < len(rest) && (rest[i] >= '0' && rest[i] <= '9' || rest[i] == '.') {
					i++
				}
				alpha = "0." + rest[as:i]
				if rest[as:i] == "" {
					alpha = ""
				}
			}
			values = append(values, cssValue{isColor: true, color: color, alpha: alpha})
		case rest[i] >= '0' && rest[i] <= '9' || rest[i] == '.':
			start := i
			for i < len(rest) && (rest[i] >= '0' && rest[i] <= '9' || rest[i] == '.') {
				i++
			}
			num := rest[start:i]
			negative := start >= 2 && rest[start-1] == '-' && rest[start-2] == '-'
			if negative {
				num = "-" + num
			}
			us := i
			for i < len(rest) && (rest[i] >= 'a' && rest[i] <= 'z' || rest[i] == '%') {
				i++
			}
			values = append(values, cssValue{num: num, unit: rest[us:i]})
		default:
			return nil, syntaxErr(abbr, base+i, "unexpected %q in value", rest[i])
		}
	}
	return values, nil
}

func isStyleLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

// renderColor expands shorthand hex colors: #f → #fff, #f1 → #f1f1f1, with
// an rgba() form when an alpha fraction is present.
func renderColor(v cssValue) string {
	hex := v.color
	switch len(hex) {
	case 1:
		hex = strings.Repeat(hex, 3)
	case 2:
		hex = strings.Repeat(hex, 3)
	}
	if v.alpha != "" {
		r, g, b := hexChannels(hex)
		return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, v.alpha)
	}
	return "#" + hex
}

func hexChannels(hex string) (int, int, int) {
	expand := hex
	if len(hex) == 3 {
		expand = ""
		for _, c := range hex {
			expand += string(c) + string(c)
		}
	}
	if len(expand) < 6 {
		expand = expand + strings.Repeat("0", 6-len(expand))
	}
	r, _ := strconv.ParseInt(expand[0:2], 16, 32)
	g, _ := strconv.ParseInt(expand[2:4], 16, 32)
	b, _ := strconv.ParseInt(expand[4:6], 16, 32)
	return int(r), int(g), int(b)
}

// renderValue renders one value item for the given property.
func renderValue(property string, v cssValue) string {
	if v.isColor {
		return renderColor(v)
	}
	if v.raw != "" {
		return v.raw
	}
	unit := v.unit
	if alias, ok := unitAliases[unit]; ok {
		unit = alias
	}
	if unit == "" && v.num != "" && v.num != "0" && !unitlessProperties[property] {
		if strings.Contains(v.num, ".") {
			unit = "em"
		} else {
			unit = "px"
		}
	}
	return v.num + unit
}

// expandStylesheet resolves a stylesheet abbreviation against the snippet
// table. Inside a declaration value (context is a property name) only the
// value text is produced; otherwise a full property declaration.
func expandStylesheet(abbrText string, cfg *config.UserConfig, snippets map[string]string) (string, error) {
	var parts []string
	for _, piece := range splitTopLevel(abbrText, '+') {
		one, err := expandStyleItem(piece, cfg, snippets)
		if err != nil {
			return "", err
		}
		parts = append(parts, one)
	}
	if cfg.Options.Bool(config.OptFormat, true) && !cfg.Inline {
		return strings.Join(parts, cfg.Options.String(config.OptNewline, "\n")), nil
	}
	return strings.Join(parts, " "), nil
}

func expandStyleItem(abbrText string, cfg *config.UserConfig, snippets map[string]string) (string, error) {
	sa, err := parseStylesheet(abbrText)
	if err != nil {
		return "", err
	}

	// value-only expansion when the caret sits inside a declaration value
	if ctx := cfg.Context; ctx != nil && ctx.Kind == config.KindStylesheet && ctx.IsProperty {
		var vals []string
		if sa.key != "" && len(sa.values) == 0 {
			vals = append(vals, sa.key)
		}
		for _, v := range sa.values {
			vals = append(vals, renderValue(ctx.Enclosing, v))
		}
		out := strings.Join(vals, " ")
		if sa.important {
			out += " !important"
		}
		return out, nil
	}

	hasKeyword := false
	for _, v := range sa.values {
		if v.raw != "" {
			hasKeyword = true
			break
		}
	}
	property, defValue, err := resolveStyleSnippet(abbrText, sa.key, hasKeyword, snippets)
	if err != nil {
		return "", err
	}

	var vals []string
	for _, v := range sa.values {
		vals = append(vals, renderValue(property, v))
	}
	value := strings.Join(vals, " ")
	if value == "" {
		value = defValue
	}
	if value == "" {
		value = cfg.Options.Field()(1, "")
	}

	out := property + ": " + value
	if sa.important {
		out += " !important"
	}
	return out + ";", nil
}

// resolveStyleSnippet maps an abbreviation key to a property and optional
// default value: exact table hit, then prefix and subsequence scoring over
// the table. Keys with a dash or an explicit keyword value pass through as
// written-out properties.
func resolveStyleSnippet(abbrText, key string, hasKeyword bool, snippets map[string]string) (property, defValue string, err error) {
	if key == "" {
		return "color", "", nil // bare #color shorthand
	}
	if def, ok := snippets[key]; ok {
		property, defValue = splitSnippetDef(def)
		return property, defValue, nil
	}

	// candidates in sorted key order so equal scores always resolve to the
	// same snippet
	bestScore := 0.0
	for _, k := range slices.Sorted(maps.Keys(snippets)) {
		s := subsequenceScore(key, k)
		if s > bestScore {
			bestScore = s
			property, defValue = splitSnippetDef(snippets[k])
		}
	}
	if bestScore > 0 {
		return property, defValue, nil
	}
	// a full property typed out verbatim is accepted as-is
	if strings.Contains(key, "-") || hasKeyword {
		return key, "", nil
	}
	return "", "", syntaxErr(abbrText, 0, "unknown snippet %q", key)
}

func splitSnippetDef(def string) (property, defValue string) {
	if name, value, found := strings.Cut(def, ":"); found {
		return strings.TrimSpace(name), strings.TrimSpace(value)
	}
	return strings.TrimSpace(def), ""
}

// subsequenceScore rates how well key abbreviates candidate: every key rune
// must appear in order, prefix matches rate highest.
func subsequenceScore(key, candidate string) float64 {
	if len(key) > len(candidate) {
		return 0
	}
	if strings.HasPrefix(candidate, key) {
		return 1.0 - float64(len(candidate)-len(key))/float64(len(candidate)+1)/10
	}
	ci := 0
	for ki := 0; ki < len(key); ki++ {
		found := false
		for ; ci < len(candidate); ci++ {
			if candidate[ci] == key[ki] {
				found = true
				ci++
				break
			}
		}
		if !found {
			return 0
		}
	}
	return float64(len(key)) / float64(len(candidate)) / 2
}

// splitTopLevel splits on sep outside parentheses.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
