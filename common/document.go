package common

// Document is the host-supplied content accessor: full text, current cursor
// offset and the declared syntax of the document. Content is assumed resident
// in memory, no I/O happens behind this interface.
type Document interface {
	Text() string
	Cursor() int
	Syntax() string
}

// TextDocument is the trivial in-memory Document used by the CLI and tests.
type TextDocument struct {
	text   string
	cursor int
	syntax string
}

// NewDocument wraps text, cursor position and declared syntax into a Document.
func NewDocument(text string, cursor int, syntax string) *TextDocument {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(text) {
		cursor = len(text)
	}
	return &TextDocument{text: text, cursor: cursor, syntax: syntax}
}

func (d *TextDocument) Text() string   { return d.text }
func (d *TextDocument) Cursor() int    { return d.cursor }
func (d *TextDocument) Syntax() string { return d.syntax }
