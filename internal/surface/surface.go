// Package surface adapts documents of several formats to the inline math
// replacer. Each document exposes its text-bearing regions as surfaces and
// writes itself back once the edits are applied.
package surface

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/prepbook/internal/inlinemath"
)

// ErrUnsupported is returned by Open for formats without a surface.
var ErrUnsupported = errors.New("unsupported surface format")

// Document is an editable document split into surfaces.
type Document interface {
	Surfaces() []inlinemath.Surface
	WriteTo(w io.Writer) (int64, error)
}

// Open picks the surface implementation from the file extension.
func Open(filename string, data []byte) (Document, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".txt", "":
		return NewText(string(data)), nil
	case ".md", ".markdown":
		return NewMarkdown(data), nil
	case ".html", ".htm":
		return ParseHTML(strings.NewReader(string(data)))
	case ".docx":
		return OpenDOCX(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
}

// Text is a plain string surface. Spans are replaced by serialized MathML.
type Text struct {
	s string
}

// NewText wraps s.
func NewText(s string) *Text {
	return &Text{s: s}
}

func (t *Text) Text() string { return t.s }

// Apply splices each span's MathML into the text.
func (t *Text) Apply(edits []inlinemath.Edit) error {
	s, err := splice(t.s, edits)
	if err != nil {
		return err
	}
	t.s = s
	return nil
}

func (t *Text) String() string { return t.s }

// Surfaces returns the text itself.
func (t *Text) Surfaces() []inlinemath.Surface {
	return []inlinemath.Surface{t}
}

func (t *Text) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, t.s)
	return int64(n), err
}

// splice replaces spans in s with MathML, last span first.
func splice(s string, edits []inlinemath.Edit) (string, error) {
	for _, e := range inlinemath.Descending(edits) {
		if err := check(s, e); err != nil {
			return "", err
		}
		s = s[:e.Span.Start] + e.Tree.MathML() + s[e.Span.End:]
	}
	return s, nil
}

// check verifies the edit still matches the text it was computed from.
func check(s string, e inlinemath.Edit) error {
	if e.Span.Start < 0 || e.Span.End > len(s) || e.Span.Start > e.Span.End {
		return fmt.Errorf("span %d-%d out of range", e.Span.Start, e.Span.End)
	}
	if s[e.Span.Start:e.Span.End] != e.Span.Text() {
		return fmt.Errorf("span %d-%d no longer holds %q", e.Span.Start, e.Span.End, e.Span.Text())
	}
	return nil
}
