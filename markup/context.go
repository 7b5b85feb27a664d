package markup

import (
	"emx/common"
)

// ContextTag is the typed element context handed to the abbreviation engine:
// name, tag ranges and de-quoted attributes. A nil map value marks a
// valueless attribute.
type ContextTag struct {
	Name       string
	Open       common.Range
	Close      *common.Range
	Attributes map[string]*string
}

// TagContext matches the innermost element at pos and converts it to a
// ContextTag. Returns nil when no element encloses the position.
func (m *Matcher) TagContext(code string, pos int, opt Options) *ContextTag {
	tag := m.Match(code, pos, opt)
	if tag == nil {
		return nil
	}
	ctx := &ContextTag{
		Name:  tag.Name,
		Open:  tag.Open,
		Close: tag.Close,
	}
	if len(tag.Attributes) > 0 {
		ctx.Attributes = make(map[string]*string, len(tag.Attributes))
		for _, a := range tag.Attributes {
			if !a.HasValue {
				ctx.Attributes[a.Name] = nil
				continue
			}
			v := Dequote(a.Value)
			ctx.Attributes[a.Name] = &v
		}
	}
	return ctx
}

// Dequote strips exactly one matching pair of surrounding quote characters.
// Unquoted and mismatched values pass through untouched.
func Dequote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
