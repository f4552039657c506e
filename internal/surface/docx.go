package surface

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"

	"github.com/dgallion1/prepbook/internal/inlinemath"
)

const documentPart = "word/document.xml"

// DOCX is a Word package whose paragraphs are surfaces. Spans become OMML
// equations; every other part of the package is copied unchanged.
type DOCX struct {
	zr    *zip.Reader
	doc   *etree.Document
	paras []*docxParagraph
}

// OpenDOCX reads the document part of a package.
func OpenDOCX(data []byte) (*DOCX, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx package: %w", err)
	}
	f, err := zr.Open(documentPart)
	if err != nil {
		return nil, fmt.Errorf("open document part: %w", err)
	}
	defer f.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("parse document part: %w", err)
	}
	body := doc.FindElement("/w:document/w:body")
	if body == nil {
		return nil, errors.New("document part has no body")
	}

	d := &DOCX{zr: zr, doc: doc}
	for _, p := range body.FindElements(".//w:p") {
		d.paras = append(d.paras, &docxParagraph{p: p})
	}
	return d, nil
}

func (d *DOCX) Surfaces() []inlinemath.Surface {
	out := make([]inlinemath.Surface, len(d.paras))
	for i, p := range d.paras {
		out[i] = p
	}
	return out
}

// WriteTo writes the package with the edited document part.
func (d *DOCX) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range d.zr.File {
		if f.Name != documentPart {
			if err := zw.Copy(f); err != nil {
				return 0, fmt.Errorf("copy %s: %w", f.Name, err)
			}
			continue
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: f.Name, Method: zip.Deflate, Modified: f.Modified})
		if err != nil {
			return 0, fmt.Errorf("create %s: %w", f.Name, err)
		}
		if _, err := d.doc.WriteTo(fw); err != nil {
			return 0, fmt.Errorf("write %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("close docx package: %w", err)
	}
	return buf.WriteTo(w)
}

// docxParagraph is one w:p. Its text is the content of the runs directly
// under it, with w:tab read as a tab and w:br or w:cr as a newline so that
// spans never cross a line break. Runs nested in hyperlinks or tracked
// changes are left alone.
type docxParagraph struct {
	p *etree.Element
}

func (dp *docxParagraph) Text() string {
	var sb strings.Builder
	for _, r := range dp.runs() {
		sb.WriteString(runText(r))
	}
	return sb.String()
}

func (dp *docxParagraph) runs() []*etree.Element {
	return dp.p.SelectElements("w:r")
}

// Apply replaces the runs covering each span with an m:oMath element. Runs
// are first split so every span starts and ends on a run boundary.
func (dp *docxParagraph) Apply(edits []inlinemath.Edit) error {
	text := dp.Text()
	for _, e := range edits {
		if err := check(text, e); err != nil {
			return err
		}
	}
	dp.normalize()
	for _, e := range inlinemath.Descending(edits) {
		dp.split(e.Span.End)
		dp.split(e.Span.Start)

		var covered []*etree.Element
		pos := 0
		for _, r := range dp.runs() {
			n := len(runText(r))
			if pos >= e.Span.Start && pos+n <= e.Span.End && (n > 0 || (pos > e.Span.Start && pos < e.Span.End)) {
				covered = append(covered, r)
			}
			pos += n
		}
		if len(covered) == 0 {
			return fmt.Errorf("span %d-%d has no runs", e.Span.Start, e.Span.End)
		}
		dp.p.InsertChildAt(covered[0].Index(), e.Tree.OMML())
		for _, r := range covered {
			dp.p.RemoveChild(r)
		}
	}
	return nil
}

// normalize gives every run at most one content child, each new run carrying
// a copy of the original run properties.
func (dp *docxParagraph) normalize() {
	for _, r := range dp.runs() {
		var props *etree.Element
		var content []*etree.Element
		for _, c := range r.ChildElements() {
			if c.Space == "w" && c.Tag == "rPr" {
				props = c
				continue
			}
			content = append(content, c)
		}
		at := r.Index()
		for _, c := range content[min(1, len(content)):] {
			nr := etree.NewElement("w:r")
			nr.Attr = append(nr.Attr, r.Attr...)
			if props != nil {
				nr.AddChild(props.Copy())
			}
			nr.AddChild(c)
			at++
			dp.p.InsertChildAt(at, nr)
		}
	}
}

// split cuts the run containing byte offset off in two.
func (dp *docxParagraph) split(off int) {
	pos := 0
	for _, r := range dp.runs() {
		s := runText(r)
		if pos < off && off < pos+len(s) {
			right := r.Copy()
			setRunText(r, s[:off-pos])
			setRunText(right, s[off-pos:])
			dp.p.InsertChildAt(r.Index()+1, right)
			return
		}
		pos += len(s)
	}
}

func runText(r *etree.Element) string {
	var sb strings.Builder
	for _, c := range r.ChildElements() {
		if c.Space != "w" {
			continue
		}
		switch c.Tag {
		case "t":
			sb.WriteString(c.Text())
		case "tab":
			sb.WriteByte('\t')
		case "br", "cr":
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func setRunText(r *etree.Element, s string) {
	t := r.SelectElement("w:t")
	t.SetText(s)
	if strings.TrimSpace(s) != s {
		t.CreateAttr("xml:space", "preserve")
	}
}
