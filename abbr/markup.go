package abbr

import (
	"strconv"
	"strings"

	"emx/config"
)

// inlineElements render without surrounding newlines even in formatted
// output.
var inlineElements = map[string]bool{
	"a": true, "abbr": true, "b": true, "bdo": true, "br": true, "button": true,
	"cite": true, "code": true, "del": true, "dfn": true, "em": true, "i": true,
	"img": true, "ins": true, "kbd": true, "label": true, "map": true,
	"object": true, "q": true, "s": true, "samp": true, "small": true,
	"span": true, "strike": true, "strong": true, "sub": true, "sup": true,
	"textarea": true, "tt": true, "u": true, "var": true,
}

// htmlVoid elements close in the open tag.
var htmlVoid = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// implicitName resolves the tag for a bare .class/#id element from its
// parent, the way expanding inside <ul> biases toward <li>.
func implicitName(parent string) string {
	switch strings.ToLower(parent) {
	case "ul", "ol", "menu":
		return "li"
	case "table", "tbody", "thead", "tfoot":
		return "tr"
	case "tr":
		return "td"
	case "select", "optgroup", "datalist":
		return "option"
	case "dl":
		return "dt"
	case "":
		return "div"
	}
	if inlineElements[strings.ToLower(parent)] {
		return "span"
	}
	return "div"
}

// numbering state for $ substitution inside one repeat clone.
type counter struct {
	value int
	total int
}

// applyNumbering replaces runs of '$' with the padded counter value. A run
// may carry @- (reverse, handled by the caller) and @N modifiers which are
// stripped here.
func applyNumbering(s string, c counter) string {
	if !strings.ContainsRune(s, '$') {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); {
		if s[i] != '$' {
			b.WriteByte(s[i])
			i++
			continue
		}
		width := 0
		for i < len(s) && s[i] == '$' {
			width++
			i++
		}
		// strip numbering modifiers, they were folded into the counter
		if i < len(s) && s[i] == '@' {
			i++
			if i < len(s) && s[i] == '-' {
				i++
			}
			for i < len(s) && s[i] >= '0' && s[i] <= '9' {
				i++
			}
		}
		num := strconv.Itoa(c.value)
		for len(num) < width {
			num = "0" + num
		}
		b.WriteString(num)
	}
	return b.String()
}

// numberingModifiers extracts @- and @N from the first '$' run found in any
// of the node's numbered fields.
func numberingModifiers(n *Node) (reverse bool, base int) {
	base = 1
	fields := append([]string{n.Name, n.ID, n.Text}, n.Classes...)
	for _, a := range n.Attrs {
		fields = append(fields, a.Value)
	}
	for _, f := range fields {
		idx := strings.Index(f, "$@")
		if idx < 0 {
			continue
		}
		rest := f[idx+2:]
		if strings.HasPrefix(rest, "-") {
			reverse = true
			rest = rest[1:]
		}
		digits := 0
		for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
			digits++
		}
		if digits > 0 {
			if v, err := strconv.Atoi(rest[:digits]); err == nil {
				base = v
			}
		}
		return reverse, base
	}
	return reverse, base
}

// markupWriter renders a resolved node tree to text.
type markupWriter struct {
	sb        strings.Builder
	cfg       *config.UserConfig
	snippets  map[string]string
	format    bool
	indent    string
	newline   string
	selfClose string // rendered before '>' on self-contained elements
	xml       bool
	field     config.FieldFunc
	fieldIdx  int
	wroteAny  bool
}

func newMarkupWriter(cfg *config.UserConfig, snippets map[string]string) *markupWriter {
	w := &markupWriter{
		cfg:      cfg,
		snippets: snippets,
		format:   cfg.Options.Bool(config.OptFormat, true),
		indent:   cfg.Options.String(config.OptIndent, "\t"),
		newline:  cfg.Options.String(config.OptNewline, "\n"),
		field:    cfg.Options.Field(),
		fieldIdx: 1,
	}
	style := cfg.Options.String(config.OptSelfClosingStyle, "html")
	if cfg.Syntax == "xml" || cfg.Syntax == "xsl" {
		w.xml = true
		style = "xml"
	}
	switch style {
	case "xhtml":
		w.selfClose = " /"
	case "xml":
		w.selfClose = "/"
	default:
		w.selfClose = ""
	}
	return w
}

func (w *markupWriter) nextField(placeholder string) string {
	s := w.field(w.fieldIdx, placeholder)
	w.fieldIdx++
	return s
}

// expandMarkup resolves and renders a parsed abbreviation. parentName seeds
// implicit-name resolution for the top-level elements, taken from the
// innermost context ancestor.
func expandMarkup(root *Node, cfg *config.UserConfig, snippets map[string]string) (string, error) {
	w := newMarkupWriter(cfg, snippets)
	parent := ""
	if ctx := cfg.Context; ctx != nil && ctx.Kind == config.KindMarkup && len(ctx.Ancestors) > 0 {
		parent = ctx.Ancestors[len(ctx.Ancestors)-1]
	}
	if err := w.writeChildren(root.Children, parent, 0, counter{value: 1, total: 1}); err != nil {
		return "", err
	}
	return w.sb.String(), nil
}

func (w *markupWriter) writeChildren(nodes []*Node, parent string, depth int, c counter) error {
	for _, n := range nodes {
		if err := w.writeNode(n, parent, depth, c); err != nil {
			return err
		}
	}
	return nil
}

func (w *markupWriter) writeNode(n *Node, parent string, depth int, c counter) error {
	if n.Repeat != nil {
		reverse, base := numberingModifiers(n)
		if n.Repeat.Reverse {
			reverse = true
		}
		count := n.Repeat.Count
		for i := 0; i < count; i++ {
			value := base + i
			if reverse {
				value = base + count - 1 - i
			}
			clone := n.clone()
			clone.Repeat = nil
			if err := w.writeNode(clone, parent, depth, counter{value: value, total: count}); err != nil {
				return err
			}
		}
		return nil
	}

	if n.Group {
		return w.writeChildren(n.Children, parent, depth, c)
	}

	// snippet substitution, then numbering
	n = w.resolveSnippet(n)
	name := applyNumbering(n.Name, c)
	if name == "" && (n.ID != "" || len(n.Classes) > 0 || len(n.Attrs) > 0) {
		name = implicitName(parent)
	}

	if name == "" {
		// bare text block
		if n.Text != "" {
			w.writeIndent(depth, true)
			w.sb.WriteString(applyNumbering(n.Text, c))
		}
		return w.writeChildren(n.Children, parent, depth, c)
	}

	block := w.format && !inlineElements[strings.ToLower(name)]
	w.writeIndent(depth, !block)

	w.sb.WriteByte('<')
	w.sb.WriteString(name)
	w.writeAttrs(n, c)

	selfContained := n.SelfClose || (!w.xml && htmlVoid[strings.ToLower(name)])
	if selfContained {
		w.sb.WriteString(w.selfClose)
		w.sb.WriteByte('>')
		return nil
	}
	w.sb.WriteByte('>')

	text := applyNumbering(n.Text, c)
	switch {
	case len(n.Children) > 0:
		if text != "" {
			w.sb.WriteString(text)
		}
		if err := w.writeChildren(n.Children, name, depth+1, c); err != nil {
			return err
		}
		if block && hasBlockChild(n, w) {
			w.writeIndent(depth, false)
		}
	case text != "":
		w.sb.WriteString(text)
	default:
		w.sb.WriteString(w.nextField(""))
	}

	w.sb.WriteString("</")
	w.sb.WriteString(name)
	w.sb.WriteByte('>')
	return nil
}

// writeIndent starts a new line at depth unless this is the first output or
// the element is inline.
func (w *markupWriter) writeIndent(depth int, inline bool) {
	if w.wroteAny && w.format && !inline {
		w.sb.WriteString(w.newline)
		w.sb.WriteString(strings.Repeat(w.indent, depth))
	}
	w.wroteAny = true
}

func hasBlockChild(n *Node, w *markupWriter) bool {
	for _, ch := range n.Children {
		if ch.Group {
			if hasBlockChild(ch, w) {
				return true
			}
			continue
		}
		if ch.Name == "" {
			// bare text stays inline, implicit-name elements are block
			if ch.ID != "" || len(ch.Classes) > 0 || len(ch.Attrs) > 0 {
				return true
			}
			continue
		}
		if !inlineElements[strings.ToLower(ch.Name)] {
			return true
		}
	}
	return false
}

func (w *markupWriter) writeAttrs(n *Node, c counter) {
	if n.ID != "" {
		w.sb.WriteString(` id="`)
		w.sb.WriteString(applyNumbering(n.ID, c))
		w.sb.WriteByte('"')
	}
	if len(n.Classes) > 0 {
		w.sb.WriteString(` class="`)
		for i, cls := range n.Classes {
			if i > 0 {
				w.sb.WriteByte(' ')
			}
			w.sb.WriteString(applyNumbering(cls, c))
		}
		w.sb.WriteByte('"')
	}
	for _, a := range n.Attrs {
		w.sb.WriteByte(' ')
		w.sb.WriteString(a.Name)
		if !a.HasValue {
			w.sb.WriteString(`="`)
			if w.xml {
				// XML has no boolean attributes
				w.sb.WriteString(a.Name)
			} else {
				w.sb.WriteString(w.nextField(""))
			}
			w.sb.WriteByte('"')
			continue
		}
		w.sb.WriteString(`="`)
		if a.Value == "" {
			w.sb.WriteString(w.nextField(""))
		} else {
			w.sb.WriteString(applyNumbering(a.Value, c))
		}
		w.sb.WriteByte('"')
	}
}

// resolveSnippet substitutes a named snippet for the node, merging the
// user-written parts over the snippet definition. Snippet values are
// abbreviations themselves.
func (w *markupWriter) resolveSnippet(n *Node) *Node {
	if n.Name == "" || w.snippets == nil {
		return n
	}
	def, ok := w.snippets[n.Name]
	if !ok {
		return n
	}
	parsed, err := ParseMarkup(def)
	if err != nil || len(parsed.Children) != 1 {
		// broken snippet definitions fall back to the literal name
		return n
	}
	base := parsed.Children[0].clone()
	if n.ID != "" {
		base.ID = n.ID
	}
	base.Classes = append(base.Classes, n.Classes...)
	for _, a := range n.Attrs {
		replaced := false
		for i := range base.Attrs {
			if base.Attrs[i].Name == a.Name {
				base.Attrs[i] = a
				replaced = true
				break
			}
		}
		if !replaced {
			base.Attrs = append(base.Attrs, a)
		}
	}
	if n.Text != "" {
		base.Text = n.Text
	}
	if n.SelfClose {
		base.SelfClose = true
	}
	base.Children = append(base.Children, n.Children...)
	base.Repeat = n.Repeat
	return base
}
