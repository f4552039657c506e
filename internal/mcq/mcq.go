// Package mcq groups restyled blocks into multiple-choice questions and
// exports them as CSV or JSON.
package mcq

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/prepbook/internal/classify"
	"github.com/dgallion1/prepbook/internal/doctree"
	"github.com/dgallion1/prepbook/internal/omml"
	"github.com/dgallion1/prepbook/internal/reformat"
)

// Question types.
const (
	TypeGeneral      = "সাধারণ"
	TypeMultiple     = "বহুপদী সমাপ্তিসূচক"
	TypeStimulus     = "উদ্দীপকভিত্তিক"
	stimulusKeyword  = "উদ্দীপক"
	explanationLabel = "ব্যাখ্যা"
)

// Labels are the option labels in print order.
var Labels = []string{"ক", "খ", "গ", "ঘ"}

// Option is one labelled answer choice.
type Option struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Question is one assembled MCQ record.
type Question struct {
	Position    int      `json:"position"`
	Serial      string   `json:"serial"`
	Type        string   `json:"type"`
	Reference   string   `json:"reference,omitempty"`
	Stem        string   `json:"question"`
	Options     []Option `json:"options"`
	Answer      string   `json:"answer_label"`
	AnswerText  string   `json:"answer_text,omitempty"`
	Explanation string   `json:"explanation,omitempty"`

	stem     []string
	answered bool
}

// Option returns the text of the option with the given label.
func (q *Question) Option(label string) string {
	for _, o := range q.Options {
		if o.Label == label {
			return o.Text
		}
	}
	return ""
}

var (
	refRe      = regexp.MustCompile(`\[([^\[\]]+)\]`)
	romanRe    = regexp.MustCompile(`^(?i)(i|ii|iii|iv|v|vi|vii|viii|ix|x)[.)]\s`)
	explainRe  = regexp.MustCompile(`^` + explanationLabel + `\s*[:：ঃ]?\s*`)
	answerRe   = regexp.MustCompile(`^(?:উত্তর|Ans)\s*[:：ঃ]\s*`)
	latinLabel = map[rune]string{'a': "ক", 'b': "খ", 'c': "গ", 'd': "ঘ"}
)

// Assemble walks blocks in order and builds questions. A Question block
// opens a record, Plain blocks extend the stem until the first option, Option
// blocks add choices, and the Answer block records the label. A ব্যাখ্যা line
// anywhere in the record becomes its explanation. Records without options are
// dropped.
func Assemble(blocks []reformat.OutputBlock) []Question {
	var out []Question
	var cur *Question
	flush := func() {
		if cur != nil && len(cur.Options) > 0 {
			cur.finish()
			out = append(out, *cur)
		}
		cur = nil
	}

	for _, b := range blocks {
		text := Render(b)
		switch b.Role {
		case classify.Question:
			flush()
			serial, rest := splitSerial(text)
			cur = &Question{Position: b.Position, Serial: serial, stem: []string{rest}}
		case classify.Option:
			if cur == nil {
				continue
			}
			label, rest := splitLabel(text)
			cur.Options = append(cur.Options, Option{Label: label, Text: rest})
		case classify.Answer:
			if cur == nil {
				continue
			}
			cur.Answer = answerLabel(text)
			cur.answered = true
		default:
			if cur == nil {
				continue
			}
			cur.plain(text)
		}
	}
	flush()
	return out
}

func (q *Question) plain(text string) {
	if loc := explainRe.FindStringIndex(text); loc != nil {
		q.Explanation = strings.TrimSpace(text[loc[1]:])
		return
	}
	switch {
	case q.Explanation != "":
		q.Explanation += "\n" + text
	case q.answered:
	case len(q.Options) > 0:
		last := &q.Options[len(q.Options)-1]
		last.Text = strings.TrimSpace(last.Text + " " + text)
	default:
		q.stem = append(q.stem, text)
	}
}

func (q *Question) finish() {
	var refs, lines []string
	for _, line := range q.stem {
		for _, m := range refRe.FindAllStringSubmatch(line, -1) {
			refs = append(refs, m[0])
		}
		if stripped := strings.TrimSpace(refRe.ReplaceAllString(line, "")); stripped != "" {
			lines = append(lines, stripped)
		}
	}
	q.Reference = strings.Join(refs, " ")
	q.Stem = strings.Join(lines, "\n")
	q.Type = questionType(lines)
	q.AnswerText = q.Option(q.Answer)
}

func questionType(lines []string) string {
	for _, l := range lines {
		if romanRe.MatchString(l) {
			return TypeMultiple
		}
	}
	if len(lines) > 1 || strings.Contains(strings.Join(lines, " "), stimulusKeyword) {
		return TypeStimulus
	}
	return TypeGeneral
}

// splitSerial separates the leading decimal digits and the "." after them.
func splitSerial(text string) (serial, rest string) {
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsDigit(r) {
			break
		}
		i += size
	}
	serial = text[:i]
	rest = strings.TrimLeft(text[i:], ".)।")
	return serial, strings.TrimSpace(rest)
}

// splitLabel separates the option glyph from the option text.
func splitLabel(text string) (label, rest string) {
	r, size := utf8.DecodeRuneInString(text)
	if r == utf8.RuneError {
		return "", text
	}
	rest = strings.TrimPrefix(text[size:], ".")
	return string(r), strings.TrimSpace(rest)
}

// answerLabel reads the option glyph after the answer prefix. Latin a-d are
// mapped to their Bangla labels; anything else gives "".
func answerLabel(text string) string {
	rest := answerRe.ReplaceAllString(text, "")
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(rest))
	if l, ok := latinLabel[unicode.ToLower(r)]; ok {
		return l
	}
	for _, l := range Labels {
		if string(r) == l {
			return l
		}
	}
	return ""
}

// Render returns the block text with each equation written as $LaTeX$ at its
// offset. Equations that cannot be rendered fall back to their plain text.
func Render(b reformat.OutputBlock) string {
	if len(b.Math) == 0 {
		return b.Text
	}
	ordered := make([]doctree.MathObject, len(b.Math))
	copy(ordered, b.Math)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Offset < ordered[j].Offset })

	runes := []rune(b.Text)
	var sb strings.Builder
	prev := 0
	for _, m := range ordered {
		off := min(max(m.Offset, prev), len(runes))
		sb.WriteString(string(runes[prev:off]))
		sb.WriteString(equation(m))
		prev = off
	}
	sb.WriteString(string(runes[prev:]))
	return sb.String()
}

func equation(m doctree.MathObject) string {
	tex, err := omml.ToLaTeX(m)
	if err != nil || tex == "" {
		return omml.PlainText(m)
	}
	return "$" + tex + "$"
}
