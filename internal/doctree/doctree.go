package doctree

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Namespaces used when a math object is serialized on its own.
const (
	NamespaceMath = "http://schemas.openxmlformats.org/officeDocument/2006/math"
	NamespaceWord = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
)

// Document is an ordered sequence of blocks read from a source file.
type Document struct {
	Title  string        // Document title (from metadata or filename)
	Blocks []SourceBlock // Paragraph-level units in document order
}

// SourceBlock is one paragraph-equivalent unit of extracted text.
type SourceBlock struct {
	Text     string       // Trimmed, NFC-normalised text
	Position int          // Sequence index in the source document
	Page     int          // Source page (0 if N/A)
	Math     []MathObject // Embedded equations in source order
}

// MathObject is an embedded OMML equation. The pipeline treats it as an
// opaque handle and only cares about its order within a block.
type MathObject struct {
	Element string // "oMath" or "oMathPara"
	Inner   string // serialized child markup
	Offset  int    // rune offset in the block text where the object sat
}

// NewBlock builds a block with normalised text.
func NewBlock(position int, text string, math ...MathObject) SourceBlock {
	return SourceBlock{
		Text:     NormalizeText(text),
		Position: position,
		Math:     math,
	}
}

// NormalizeText trims surrounding whitespace and composes the text to NFC so
// that Bangla vowel signs typed in decomposed form compare equal.
func NormalizeText(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// Empty reports whether the block carries no text.
func (b SourceBlock) Empty() bool {
	return b.Text == ""
}

// XML returns the object as a standalone element with the namespaces it needs.
func (m MathObject) XML() string {
	el := m.Element
	if el == "" {
		el = "oMath"
	}
	var sb strings.Builder
	sb.WriteString(`<m:`)
	sb.WriteString(el)
	sb.WriteString(` xmlns:m="` + NamespaceMath + `" xmlns:w="` + NamespaceWord + `">`)
	sb.WriteString(m.Inner)
	sb.WriteString(`</m:`)
	sb.WriteString(el)
	sb.WriteString(`>`)
	return sb.String()
}

// Text joins all block texts with newlines.
func (d *Document) Text() string {
	var sb strings.Builder
	for _, b := range d.Blocks {
		if b.Text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(b.Text)
	}
	return sb.String()
}

// MathCount returns the number of equations across all blocks.
func (d *Document) MathCount() int {
	n := 0
	for _, b := range d.Blocks {
		n += len(b.Math)
	}
	return n
}
