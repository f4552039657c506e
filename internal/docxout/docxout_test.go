package docxout_test

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/prepbook/internal/doctree"
	"github.com/dgallion1/prepbook/internal/docxout"
	"github.com/dgallion1/prepbook/internal/mathml"
	"github.com/dgallion1/prepbook/internal/omml"
	"github.com/dgallion1/prepbook/internal/parser"
	"github.com/dgallion1/prepbook/internal/reformat"
)

func equation(t *testing.T, raw string) doctree.MathObject {
	t.Helper()
	tree, err := mathml.Convert(raw)
	require.NoError(t, err)
	return tree.MathObject()
}

func sheet(t *testing.T) *doctree.Document {
	x := equation(t, "x+1=2")
	x.Offset = 3
	return &doctree.Document{Blocks: []doctree.SourceBlock{
		doctree.NewBlock(0, "১. যদি  হলে x কত?", x),
		doctree.NewBlock(1, "ক. 1"),
		doctree.NewBlock(2, "খ. 2", equation(t, `\frac{1}{2}`)),
		doctree.NewBlock(3, "উত্তর: ক"),
	}}
}

func write(t *testing.T, doc *doctree.Document, opts docxout.Options) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := docxout.New(&buf, opts)
	require.NoError(t, err)
	for _, b := range reformat.Transform(doc, reformat.Options{}).Blocks {
		require.NoError(t, w.WriteBlock(b))
	}
	require.NoError(t, w.Save())
	assert.Equal(t, len(doc.Blocks), w.Blocks())
	return buf.Bytes()
}

func documentXML(t *testing.T, data []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	f, err := zr.Open("word/document.xml")
	require.NoError(t, err)
	defer f.Close()
	b, err := io.ReadAll(f)
	require.NoError(t, err)
	return string(b)
}

func TestWriter_Layout(t *testing.T) {
	xml := documentXML(t, write(t, sheet(t), docxout.Options{}))

	assert.Contains(t, xml, `w:num="2"`)
	assert.Contains(t, xml, `<w:pgSz w:w="11906" w:h="16838"`)
	assert.Contains(t, xml, `<w:ind w:left="400"`)
	assert.Contains(t, xml, `<w:color w:val="088565"`)
	assert.Contains(t, xml, `Tiro Bangla`)
	assert.Contains(t, xml, `<m:oMath xmlns:m="`+doctree.NamespaceMath+`">`)
	assert.Equal(t, 2, strings.Count(xml, "<m:oMath "))
}

func TestWriter_Columns(t *testing.T) {
	xml := documentXML(t, write(t, sheet(t), docxout.Options{Columns: 1}))
	assert.Contains(t, xml, `w:num="1"`)
}

func TestWriter_ParagraphPlacementRoundTrip(t *testing.T) {
	src := sheet(t)
	data := write(t, src, docxout.Options{Placement: docxout.PlacementParagraph})

	got, err := (&parser.DOCXParser{}).Parse(bytes.NewReader(data), "out.docx")
	require.NoError(t, err)

	var texts []string
	var math []doctree.MathObject
	for _, b := range got.Blocks {
		if !b.Empty() {
			texts = append(texts, b.Text)
		}
		math = append(math, b.Math...)
	}
	assert.Equal(t, []string{"১. যদি  হলে x কত?", "ক. 1", "খ. 2", "উত্তর: ক"}, texts)

	// Each equation sits in its own paragraph right after its block.
	require.Len(t, got.Blocks, 6)
	assert.Len(t, got.Blocks[1].Math, 1)
	assert.True(t, got.Blocks[1].Empty())
	assert.Len(t, got.Blocks[4].Math, 1)

	require.Len(t, math, 2)
	first, err := omml.ToLaTeX(math[0])
	require.NoError(t, err)
	assert.Equal(t, "x+1=2", first)
	second, err := omml.ToLaTeX(math[1])
	require.NoError(t, err)
	assert.Equal(t, `\frac{1}{2}`, second)
}

func TestWriter_InlinePlacementRoundTrip(t *testing.T) {
	src := sheet(t)
	data := write(t, src, docxout.Options{Placement: docxout.PlacementInline})

	got, err := (&parser.DOCXParser{}).Parse(bytes.NewReader(data), "out.docx")
	require.NoError(t, err)
	require.Len(t, got.Blocks, len(src.Blocks))

	for i, b := range got.Blocks {
		assert.Equal(t, src.Blocks[i].Text, b.Text)
		require.Len(t, b.Math, len(src.Blocks[i].Math), "block %d", i)
		for j := range b.Math {
			assert.Equal(t, src.Blocks[i].Math[j].Offset, b.Math[j].Offset)
			assert.Equal(t, omml.PlainText(src.Blocks[i].Math[j]), omml.PlainText(b.Math[j]))
		}
	}
	// The equation in "খ. 2" had no offset, so it comes before the text.
	assert.Equal(t, 0, got.Blocks[2].Math[0].Offset)
}

func TestWriter_ResizesEquations(t *testing.T) {
	obj := doctree.MathObject{
		Element: "oMath",
		Inner:   `<m:r><w:rPr><w:sz w:val="30"/></w:rPr><m:t>y</m:t></m:r>`,
	}
	doc := &doctree.Document{Blocks: []doctree.SourceBlock{doctree.NewBlock(0, "দেখ", obj)}}
	xml := documentXML(t, write(t, doc, docxout.Options{}))
	assert.Contains(t, xml, `<w:sz w:val="22"/>`)
	assert.NotContains(t, xml, `w:val="30"`)
}

func TestWriter_BadEquation(t *testing.T) {
	w, err := docxout.New(io.Discard, docxout.Options{})
	require.NoError(t, err)
	err = w.WriteBlock(reformat.OutputBlock{
		Position: 7,
		Text:     "x",
		Math:     []doctree.MathObject{{Element: "oMath", Inner: `<m:r>`}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "block 7")
}

func TestWriter_SaveTwice(t *testing.T) {
	w, err := docxout.New(io.Discard, docxout.Options{})
	require.NoError(t, err)
	require.NoError(t, w.Save())
	assert.True(t, errors.Is(w.Save(), docxout.ErrSaved))
	assert.True(t, errors.Is(w.WriteBlock(reformat.OutputBlock{Text: "x"}), docxout.ErrSaved))
}

func TestParsePlacement(t *testing.T) {
	p, err := docxout.ParsePlacement("")
	require.NoError(t, err)
	assert.Equal(t, docxout.PlacementParagraph, p)

	p, err = docxout.ParsePlacement("inline")
	require.NoError(t, err)
	assert.Equal(t, docxout.PlacementInline, p)

	_, err = docxout.ParsePlacement("margin")
	require.Error(t, err)

	_, err = docxout.New(io.Discard, docxout.Options{Placement: "margin"})
	require.Error(t, err)
}
