package surface

import (
	"bytes"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/prepbook/internal/inlinemath"
)

// Markdown is a Markdown source surface. Spans become inline MathML, which
// renderers pass through as raw HTML. Dollars inside code, raw HTML and
// backslash escapes are never treated as delimiters.
type Markdown struct {
	src  []byte
	mask string
}

// NewMarkdown wraps a Markdown source.
func NewMarkdown(src []byte) *Markdown {
	m := &Markdown{src: bytes.Clone(src)}
	m.remask()
	return m
}

// Text returns the source with protected dollars blanked out. Offsets match
// the source byte for byte.
func (m *Markdown) Text() string { return m.mask }

func (m *Markdown) Apply(edits []inlinemath.Edit) error {
	src := m.src
	for _, e := range inlinemath.Descending(edits) {
		if err := check(m.mask, e); err != nil {
			return err
		}
		var out []byte
		out = append(out, src[:e.Span.Start]...)
		out = append(out, e.Tree.MathML()...)
		out = append(out, src[e.Span.End:]...)
		src = out
	}
	m.src = src
	m.remask()
	return nil
}

// Bytes returns the current source.
func (m *Markdown) Bytes() []byte { return m.src }

func (m *Markdown) Surfaces() []inlinemath.Surface {
	return []inlinemath.Surface{m}
}

func (m *Markdown) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(m.src)
	return int64(n), err
}

func (m *Markdown) remask() {
	masked := bytes.Clone(m.src)
	root := goldmark.New().Parser().Parse(text.NewReader(m.src))
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
			blankDollars(masked, node.Lines())
			return ast.WalkSkipChildren, nil
		case *ast.CodeSpan:
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					blankRange(masked, t.Segment.Start, t.Segment.Stop)
				}
			}
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			blankDollars(masked, node.Segments)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	for i := 0; i+1 < len(masked); i++ {
		if masked[i] == '\\' && masked[i+1] == '$' {
			masked[i+1] = ' '
		}
	}
	m.mask = string(masked)
}

func blankDollars(b []byte, segs *text.Segments) {
	if segs == nil {
		return
	}
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		blankRange(b, seg.Start, seg.Stop)
	}
}

func blankRange(b []byte, start, stop int) {
	for i := max(start, 0); i < min(stop, len(b)); i++ {
		if b[i] == '$' {
			b[i] = ' '
		}
	}
}
