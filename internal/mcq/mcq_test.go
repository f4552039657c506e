package mcq

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/prepbook/internal/doctree"
	"github.com/dgallion1/prepbook/internal/mathml"
	"github.com/dgallion1/prepbook/internal/reformat"
)

func testEquation(t *testing.T, raw string, offset int) doctree.MathObject {
	t.Helper()
	tree, err := mathml.Convert(raw)
	require.NoError(t, err)
	m := tree.MathObject()
	m.Offset = offset
	return m
}

func blocks(t *testing.T, lines ...string) []reformat.OutputBlock {
	t.Helper()
	doc := &doctree.Document{}
	for i, l := range lines {
		doc.Blocks = append(doc.Blocks, doctree.NewBlock(i, l))
	}
	return reformat.Transform(doc, reformat.Options{}).Blocks
}

func TestAssemble_FullQuestion(t *testing.T) {
	qs := Assemble(blocks(t,
		"ভূমিকা যা কোনো প্রশ্নের অংশ নয়",
		"১. নিচের কোনটি মৌলিক সংখ্যা? [ঢা.বো. ২০১৯]",
		"ক. 4",
		"খ. 7",
		"গ. 9",
		"ঘ. 15",
		"উত্তর: খ",
		"ব্যাখ্যা: 7 কেবল 1 ও নিজে দ্বারা বিভাজ্য।",
	))
	require.Len(t, qs, 1)
	q := qs[0]

	assert.Equal(t, 1, q.Position)
	assert.Equal(t, "১", q.Serial)
	assert.Equal(t, TypeGeneral, q.Type)
	assert.Equal(t, "[ঢা.বো. ২০১৯]", q.Reference)
	assert.Equal(t, "নিচের কোনটি মৌলিক সংখ্যা?", q.Stem)
	assert.Equal(t, []Option{{"ক", "4"}, {"খ", "7"}, {"গ", "9"}, {"ঘ", "15"}}, q.Options)
	assert.Equal(t, "খ", q.Answer)
	assert.Equal(t, "7", q.AnswerText)
	assert.Equal(t, "7 কেবল 1 ও নিজে দ্বারা বিভাজ্য।", q.Explanation)
}

func TestAssemble_QuestionTypes(t *testing.T) {
	qs := Assemble(blocks(t,
		"১. উদ্দীপকটি দেখ:",
		"একটি বৃত্তের ব্যাসার্ধ r।",
		"ক. 2r",
		"Ans: a",
		"২. লক্ষ কর:",
		"i. এক",
		"ii. দুই",
		"ক. i",
		"খ. i ও ii",
		"উত্তর: খ",
		"৩. উদ্দীপক অনুযায়ী মান কত?",
		"ক. 1",
		"উত্তর: ক",
	))
	require.Len(t, qs, 3)

	assert.Equal(t, TypeStimulus, qs[0].Type)
	assert.Equal(t, "উদ্দীপকটি দেখ:\nএকটি বৃত্তের ব্যাসার্ধ r।", qs[0].Stem)
	assert.Equal(t, "ক", qs[0].Answer, "latin answer letters map to Bangla labels")

	assert.Equal(t, TypeMultiple, qs[1].Type)
	assert.Equal(t, "i ও ii", qs[1].AnswerText)

	assert.Equal(t, TypeStimulus, qs[2].Type, "keyword in a single line stem")
}

func TestAssemble_ContinuationsAndDrops(t *testing.T) {
	qs := Assemble(blocks(t,
		"১. প্রশ্ন যার কোনো বিকল্প নেই",
		"২. সঠিক উক্তি কোনটি?",
		"ক. প্রথম অংশ",
		"শেষ অংশ",
		"উত্তর: ক",
		"উত্তরের পরে অতিরিক্ত লাইন",
		"৩. শেষ প্রশ্ন",
		"ক. হ্যাঁ",
	))
	require.Len(t, qs, 2)

	assert.Equal(t, "২", qs[0].Serial)
	assert.Equal(t, "প্রথম অংশ শেষ অংশ", qs[0].Options[0].Text)
	assert.Empty(t, qs[0].Explanation)

	assert.Equal(t, "৩", qs[1].Serial)
	assert.Empty(t, qs[1].Answer, "unanswered records are kept")
}

func TestAssemble_UnknownAnswerLabel(t *testing.T) {
	qs := Assemble(blocks(t, "1. q", "ক. a", "উত্তর: ঙ"))
	require.Len(t, qs, 1)
	assert.Empty(t, qs[0].Answer)
	assert.Empty(t, qs[0].AnswerText)
}

func TestRender_PlacesEquations(t *testing.T) {
	b := reformat.OutputBlock{
		Text: "ঘ. মান  হবে",
		Math: []doctree.MathObject{testEquation(t, `\frac{1}{2}`, 7)},
	}
	assert.Equal(t, `ঘ. মান $\frac{1}{2}$ হবে`, Render(b))

	b.Math = append(b.Math, testEquation(t, "x^2", 0))
	assert.Equal(t, `$x^{2}$ঘ. মান $\frac{1}{2}$ হবে`, Render(b))
}

func TestRender_Fallback(t *testing.T) {
	b := reformat.OutputBlock{Text: "a", Math: []doctree.MathObject{{Element: "oMath", Inner: `<m:r>`, Offset: 1}}}
	assert.Equal(t, "a", Render(b))
}

func TestAssemble_MathInOptions(t *testing.T) {
	doc := &doctree.Document{Blocks: []doctree.SourceBlock{
		doctree.NewBlock(0, "১. মান কত?"),
		doctree.NewBlock(1, "ক. মান  হবে", testEquation(t, `\sqrt{2}`, 7)),
	}}
	qs := Assemble(reformat.Transform(doc, reformat.Options{}).Blocks)
	require.Len(t, qs, 1)
	assert.Equal(t, `মান $\sqrt{2}$ হবে`, qs[0].Option("ক"))
}

func sample() []Question {
	return []Question{{
		Serial:      "১",
		Type:        TypeGeneral,
		Reference:   "[রা.বো. ২০২২]",
		Stem:        "$x+1=2$ হলে x = ?",
		Options:     []Option{{"ক", "1"}, {"খ", "2"}, {"ঘ", "4"}},
		Answer:      "ক",
		Explanation: "x = 2 - 1 < 2",
	}}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample()))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "\ufeff"))

	rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, "\ufeff"))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, []string{
		"১", TypeGeneral, "[রা.বো. ২০২২]", "$x+1=2$ হলে x = ?",
		"1", "2", "", "4", "ক", "x = 2 - 1 < 2",
	}, rows[1])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sample()))

	out := buf.String()
	assert.Contains(t, out, `"answer_label": "ক"`)
	assert.Contains(t, out, `"explanation": "x = 2 - 1 < 2"`, "no HTML escaping")

	var got []Question
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, sample()[0].Options, got[0].Options)

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}
