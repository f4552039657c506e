package parser

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/beevik/etree"
	"github.com/fumiama/go-docx"
	"golang.org/x/text/unicode/norm"

	"github.com/dgallion1/prepbook/internal/doctree"
)

// DOCXParser handles .docx files. Paragraph text comes from go-docx; the
// equations go-docx skips are read from word/document.xml with etree and
// attached to the paragraph they sit in.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}

	d, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}
	math, err := paragraphMath(data)
	if err != nil {
		return nil, err
	}

	doc := &doctree.Document{Title: title(filename)}
	i := 0
	for _, item := range d.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		var objs []doctree.MathObject
		if i < len(math) {
			objs = math[i]
		}
		i++
		doc.Blocks = append(doc.Blocks, docxBlock(len(doc.Blocks), docxParagraphText(para), objs))
	}
	return doc, nil
}

// docxBlock builds a block and moves equation offsets from the raw
// paragraph text onto the trimmed, composed block text.
func docxBlock(position int, raw string, math []doctree.MathObject) doctree.SourceBlock {
	b := doctree.NewBlock(position, raw, math...)
	n := utf8.RuneCountInString(b.Text)
	for i := range b.Math {
		b.Math[i].Offset = min(blockOffset(raw, b.Math[i].Offset), n)
	}
	return b
}

// blockOffset maps a rune offset in raw to the same point after the leading
// space is trimmed and the preceding text is composed.
func blockOffset(raw string, offset int) int {
	end := len(raw)
	for i := range raw {
		if offset <= 0 {
			end = i
			break
		}
		offset--
	}
	prefix := strings.TrimLeftFunc(norm.NFC.String(raw[:end]), unicode.IsSpace)
	return utf8.RuneCountInString(prefix)
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return buf.String()
}

// paragraphMath returns the equations of every top-level w:p, indexed the
// same way go-docx lists body paragraphs. Offsets count the runes of the
// w:t text preceding each equation.
func paragraphMath(data []byte) ([][]doctree.MathObject, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx package: %w", err)
	}
	f, err := zr.Open("word/document.xml")
	if err != nil {
		return nil, fmt.Errorf("open document part: %w", err)
	}
	defer f.Close()

	x := etree.NewDocument()
	if _, err := x.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("parse document part: %w", err)
	}
	body := x.FindElement("/w:document/w:body")
	if body == nil {
		return nil, nil
	}

	var out [][]doctree.MathObject
	for _, p := range body.SelectElements("w:p") {
		out = append(out, equations(p))
	}
	return out, nil
}

func equations(p *etree.Element) []doctree.MathObject {
	var objs []doctree.MathObject
	offset := 0
	for _, c := range p.ChildElements() {
		switch {
		case c.Space == "w" && c.Tag == "r":
			for _, rc := range c.ChildElements() {
				switch {
				case rc.Space == "w" && rc.Tag == "t":
					offset += utf8.RuneCountInString(rc.Text())
				case isMath(rc):
					objs = append(objs, mathObject(rc, offset))
				}
			}
		case isMath(c):
			objs = append(objs, mathObject(c, offset))
		}
	}
	return objs
}

func isMath(e *etree.Element) bool {
	return e.Space == "m" && (e.Tag == "oMath" || e.Tag == "oMathPara")
}

func mathObject(e *etree.Element, offset int) doctree.MathObject {
	var sb strings.Builder
	for _, tok := range e.Child {
		tok.WriteTo(&sb, &etree.WriteSettings{})
	}
	return doctree.MathObject{Element: e.Tag, Inner: sb.String(), Offset: offset}
}
