// Package docxout writes restyled blocks to a .docx document.
package docxout

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/prepbook/internal/doctree"
	"github.com/dgallion1/prepbook/internal/reformat"
	"github.com/dgallion1/prepbook/internal/relocate"
	"github.com/dgallion1/prepbook/internal/style"
)

// Placement decides where relocated equations go.
type Placement string

const (
	// PlacementParagraph puts each equation in its own paragraph after the block.
	PlacementParagraph Placement = "paragraph"
	// PlacementInline puts equations back at their offset inside the block text.
	PlacementInline Placement = "inline"
)

// ParsePlacement validates a placement name. Empty selects PlacementParagraph.
func ParsePlacement(s string) (Placement, error) {
	switch Placement(s) {
	case "", PlacementParagraph:
		return PlacementParagraph, nil
	case PlacementInline:
		return PlacementInline, nil
	}
	return "", fmt.Errorf("unknown math placement %q", s)
}

// Options configure the page layout.
type Options struct {
	Columns   int
	Placement Placement
}

// A4 portrait in twips, margins as in the printed preparation books.
var (
	pageSize    = docx.PgSz{W: 11906, H: 16838}
	pageMargins = docx.PgMar{Top: 720, Left: 1152, Bottom: 432, Right: 864, Header: 708, Footer: 708}
)

const columnSpace = 425

// ErrSaved is returned when blocks are written after Save.
var ErrSaved = errors.New("document already saved")

// Writer renders output blocks into a docx document and writes it on Save.
type Writer struct {
	doc    *docx.Docx
	out    io.Writer
	opts   Options
	blocks int
	saved  bool
}

// New returns a writer that saves to out.
func New(out io.Writer, opts Options) (*Writer, error) {
	if opts.Columns <= 0 {
		opts.Columns = 2
	}
	placement, err := ParsePlacement(string(opts.Placement))
	if err != nil {
		return nil, err
	}
	opts.Placement = placement
	return &Writer{doc: docx.New(), out: out, opts: opts}, nil
}

// WriteBlock appends one block and its equations.
func (w *Writer) WriteBlock(b reformat.OutputBlock) error {
	if w.saved {
		return ErrSaved
	}
	math, err := relocate.FontSize(b.Math, b.Style.FontSize)
	if err != nil {
		return fmt.Errorf("block %d: %w", b.Position, err)
	}

	p := w.paragraph(b.Style)
	switch w.opts.Placement {
	case PlacementInline:
		w.inline(p, b, math)
	default:
		w.text(p, b.Text, b.Style)
		for _, m := range math {
			mp := w.paragraph(b.Style)
			mp.Children = append(mp.Children, newMath(m))
		}
	}
	w.blocks++
	return nil
}

// inline interleaves text segments and equations by their rune offsets.
func (w *Writer) inline(p *docx.Paragraph, b reformat.OutputBlock, math []doctree.MathObject) {
	runes := []rune(b.Text)
	ordered := make([]doctree.MathObject, len(math))
	copy(ordered, math)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Offset < ordered[j].Offset })

	prev := 0
	for _, m := range ordered {
		off := min(max(m.Offset, prev), len(runes))
		if off > prev {
			w.text(p, string(runes[prev:off]), b.Style)
		}
		p.Children = append(p.Children, newMath(m))
		prev = off
	}
	if prev < len(runes) {
		w.text(p, string(runes[prev:]), b.Style)
	}
}

func (w *Writer) paragraph(s style.Spec) *docx.Paragraph {
	p := w.doc.AddParagraph()
	props := &docx.ParagraphProperties{}
	if s.LeftIndent > 0 {
		props.Ind = &docx.Ind{Left: s.IndentTwips()}
	}
	if s.SpaceBefore > 0 {
		props.Spacing = &docx.Spacing{Before: style.Twips(s.SpaceBefore)}
	}
	p.Properties = props
	return p
}

func (w *Writer) text(p *docx.Paragraph, text string, s style.Spec) {
	r := p.AddText(text).
		Font(s.FontFamily, s.FontFamily, s.FontFamily, "cs").
		Size(style.HalfPoints(s.FontSize)).
		SizeCs(style.HalfPoints(s.FontSize))
	if s.Bold {
		r.Bold()
	}
	if s.Color != "" {
		r.Color(s.Color)
	}
	// Word drops leading and trailing spaces unless told otherwise, which
	// would glue inline equations to the words around them.
	for _, c := range r.Children {
		if t, ok := c.(*docx.Text); ok && strings.TrimSpace(t.Text) != t.Text {
			t.XMLSpace = "preserve"
		}
	}
}

// Save finishes the section layout and writes the document.
func (w *Writer) Save() error {
	if w.saved {
		return ErrSaved
	}
	w.saved = true
	w.doc.Document.Body.Items = append(w.doc.Document.Body.Items, &section{
		PgSz:  pageSize,
		PgMar: pageMargins,
		Cols:  columns{Num: w.opts.Columns, Space: columnSpace},
	})
	if _, err := w.doc.WriteTo(w.out); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

// Blocks returns the number of blocks written so far.
func (w *Writer) Blocks() int {
	return w.blocks
}

// mathElement embeds serialized OMML inside a paragraph.
type mathElement struct {
	XMLName xml.Name
	XMLNSM  string `xml:"xmlns:m,attr"`
	Inner   string `xml:",innerxml"`
}

func newMath(m doctree.MathObject) *mathElement {
	el := m.Element
	if el == "" {
		el = "oMath"
	}
	return &mathElement{
		XMLName: xml.Name{Local: "m:" + el},
		XMLNSM:  doctree.NamespaceMath,
		Inner:   m.Inner,
	}
}

// section is w:sectPr with a column count, which docx.Cols cannot express.
type section struct {
	XMLName xml.Name   `xml:"w:sectPr"`
	PgSz    docx.PgSz  `xml:"w:pgSz"`
	PgMar   docx.PgMar `xml:"w:pgMar"`
	Cols    columns    `xml:"w:cols"`
}

type columns struct {
	Num   int `xml:"w:num,attr"`
	Space int `xml:"w:space,attr"`
}
