package surface

import (
	"bytes"
	"fmt"
	"io"
	"slices"

	"github.com/beevik/etree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/prepbook/internal/inlinemath"
)

// HTML is a parsed HTML document. Every text node outside code, scripts and
// existing math is a surface; spans become <math> element nodes.
type HTML struct {
	root  *html.Node
	texts []*htmlText
}

// ParseHTML reads a document.
func ParseHTML(r io.Reader) (*HTML, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	h := &HTML{root: root}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "textarea", "title", "math", "code", "pre":
				return
			}
		}
		if n.Type == html.TextNode {
			h.texts = append(h.texts, &htmlText{n: n})
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return h, nil
}

func (h *HTML) Surfaces() []inlinemath.Surface {
	out := make([]inlinemath.Surface, len(h.texts))
	for i, t := range h.texts {
		out[i] = t
	}
	return out
}

// WriteTo renders the document.
func (h *HTML) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, h.root); err != nil {
		return 0, fmt.Errorf("render html: %w", err)
	}
	return buf.WriteTo(w)
}

type htmlText struct {
	n *html.Node
}

func (t *htmlText) Text() string { return t.n.Data }

// Apply splits the text node around each span and inserts the math between
// the pieces.
func (t *htmlText) Apply(edits []inlinemath.Edit) error {
	parent := t.n.Parent
	if parent == nil {
		return fmt.Errorf("text node is detached")
	}
	s := t.n.Data
	ordered := slices.Clone(edits)
	slices.SortFunc(ordered, func(a, b inlinemath.Edit) int { return a.Span.Start - b.Span.Start })
	for _, e := range ordered {
		if err := check(s, e); err != nil {
			return err
		}
	}

	prev := 0
	for _, e := range ordered {
		if e.Span.Start > prev {
			parent.InsertBefore(&html.Node{Type: html.TextNode, Data: s[prev:e.Span.Start]}, t.n)
		}
		parent.InsertBefore(mathNode(e.Tree.Element()), t.n)
		prev = e.Span.End
	}
	if prev < len(s) {
		t.n.Data = s[prev:]
		return nil
	}
	// Keep an empty node in place so the surface stays attached.
	t.n.Data = ""
	return nil
}

// mathNode converts a MathML element into HTML foreign content.
func mathNode(e *etree.Element) *html.Node {
	n := &html.Node{
		Type:      html.ElementNode,
		Data:      e.Tag,
		DataAtom:  atom.Lookup([]byte(e.Tag)),
		Namespace: "math",
	}
	for _, a := range e.Attr {
		if a.Space == "" && a.Key == "xmlns" {
			continue
		}
		n.Attr = append(n.Attr, html.Attribute{Key: a.Key, Val: a.Value})
	}
	for _, tok := range e.Child {
		switch c := tok.(type) {
		case *etree.Element:
			n.AppendChild(mathNode(c))
		case *etree.CharData:
			n.AppendChild(&html.Node{Type: html.TextNode, Data: c.Data})
		}
	}
	return n
}
