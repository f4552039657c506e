package parser

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/prepbook/internal/doctree"
)

// MarkdownParser handles Markdown files using goldmark. Each source line of
// a paragraph or heading becomes one block, so sheets written without blank
// lines between options still yield one block per option.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}

	root := goldmark.New().Parser().Parse(text.NewReader(src))
	doc := &doctree.Document{Title: title(filename)}
	markdownBlocks(doc, root, src, "")
	return doc, nil
}

// markdownBlocks walks block nodes in document order. prefix is prepended to
// the first line emitted, which restores ordered list numbers that the
// parser consumed as markers.
func markdownBlocks(doc *doctree.Document, n ast.Node, src []byte, prefix string) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Heading, *ast.Paragraph, *ast.TextBlock:
			var buf bytes.Buffer
			inlineText(node, src, &buf)
			appendLines(doc, prefix+buf.String(), 0)
			prefix = ""
		case *ast.List:
			num := node.Start
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				marker := ""
				if node.IsOrdered() {
					marker = fmt.Sprintf("%d%c ", num, node.Marker)
					num++
				}
				markdownBlocks(doc, item, src, marker)
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			var buf bytes.Buffer
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(src))
			}
			appendLines(doc, string(bytes.TrimRight(buf.Bytes(), "\n")), 0)
		case *ast.ThematicBreak, *ast.HTMLBlock:
			continue
		default:
			markdownBlocks(doc, c, src, prefix)
		}
	}
}

// inlineText collects the visible text of inline children. Line breaks are
// kept as newlines.
func inlineText(n ast.Node, src []byte, buf *bytes.Buffer) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(t.Value)
		case *ast.RawHTML:
			continue
		default:
			inlineText(c, src, buf)
		}
	}
}
