// Package omml reads and patches embedded Office Math equations.
package omml

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"

	"github.com/dgallion1/prepbook/internal/doctree"
)

// Parse returns the root element of the object's markup.
func Parse(obj doctree.MathObject) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(obj.XML()); err != nil {
		return nil, fmt.Errorf("parse omml: %w", err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("parse omml: empty markup")
	}
	return doc.Root(), nil
}

// PlainText returns the visible characters of the equation.
func PlainText(obj doctree.MathObject) string {
	root, err := Parse(obj)
	if err != nil {
		return ""
	}
	var sb strings.Builder
	for _, t := range root.FindElements(".//m:t") {
		sb.WriteString(t.Text())
	}
	return sb.String()
}

// SetFontSize returns a copy whose run properties carry the given size.
// Objects without w:sz or w:szCs elements are returned unchanged.
func SetFontSize(obj doctree.MathObject, pt float64) (doctree.MathObject, error) {
	root, err := Parse(obj)
	if err != nil {
		return obj, err
	}
	val := strconv.Itoa(int(pt*2 + 0.5))
	changed := false
	for _, path := range []string{".//w:sz", ".//w:szCs"} {
		for _, e := range root.FindElements(path) {
			e.CreateAttr("w:val", val)
			changed = true
		}
	}
	if !changed {
		return obj, nil
	}
	out := obj
	out.Inner = inner(root)
	return out, nil
}

func inner(root *etree.Element) string {
	var sb strings.Builder
	for _, tok := range root.Child {
		tok.WriteTo(&sb, &etree.WriteSettings{})
	}
	return sb.String()
}

// Characters with a dedicated command.
var latexSymbols = map[rune]string{
	'…': `\dots`, '≠': `\neq`, '≤': `\leq`, '≥': `\geq`, '×': `\times`,
	'÷': `\div`, '±': `\pm`, '∞': `\infty`, '°': `^{\circ}`, '→': `\to`,
	'α': `\alpha`, 'β': `\beta`, 'γ': `\gamma`, 'δ': `\delta`, 'ε': `\epsilon`,
	'θ': `\theta`, 'λ': `\lambda`, 'μ': `\mu`, 'π': `\pi`, 'ρ': `\rho`,
	'σ': `\sigma`, 'φ': `\phi`, 'ω': `\omega`, 'Δ': `\Delta`, 'Ω': `\Omega`,
	'∑': `\sum`, '∫': `\int`, '∏': `\prod`, '√': `\surd`, '⋅': `\cdot`,
	'∠': `\angle`, '△': `\triangle`, '−': `-`,
}

var knownFunctions = map[string]bool{
	"sin": true, "cos": true, "tan": true, "cot": true, "sec": true, "csc": true,
	"log": true, "ln": true, "lim": true, "exp": true, "max": true, "min": true,
}

// Accent characters and the command that draws them.
var accentCommands = map[string]string{
	"\u0302": `\hat`, "^": `\hat`,
	"\u0304": `\bar`, "\u0305": `\bar`, "¯": `\bar`,
	"\u20d7": `\vec`, "→": `\vec`,
	"\u0307": `\dot`, "˙": `\dot`,
	"\u0308": `\ddot`, "¨": `\ddot`,
	"\u0303": `\tilde`, "~": `\tilde`,
}

var spaces = regexp.MustCompile(`\s+`)

// ToLaTeX renders the equation as LaTeX notation without delimiters.
func ToLaTeX(obj doctree.MathObject) (string, error) {
	root, err := Parse(obj)
	if err != nil {
		return "", err
	}
	s := spaces.ReplaceAllString(latex(root), " ")
	return strings.TrimSpace(s), nil
}

func latex(e *etree.Element) string {
	switch e.Tag {
	case "t":
		return symbolText(e.Text())
	case "f":
		num, den := latex(child(e, "num")), latex(child(e, "den"))
		if prop(e, "fPr", "type") == "noBar" {
			return fmt.Sprintf(`\binom{%s}{%s}`, trim(num), trim(den))
		}
		return fmt.Sprintf(`\frac{%s}{%s}`, trim(num), trim(den))
	case "sSup":
		return fmt.Sprintf(`%s^{%s}`, base(e), trim(latex(child(e, "sup"))))
	case "sSub":
		return fmt.Sprintf(`%s_{%s}`, base(e), trim(latex(child(e, "sub"))))
	case "sSubSup":
		return fmt.Sprintf(`%s_{%s}^{%s}`, base(e), trim(latex(child(e, "sub"))), trim(latex(child(e, "sup"))))
	case "rad":
		deg := trim(latex(child(e, "deg")))
		if deg == "" || prop(e, "radPr", "degHide") == "1" {
			return fmt.Sprintf(`\sqrt{%s}`, trim(latex(child(e, "e"))))
		}
		return fmt.Sprintf(`\sqrt[%s]{%s}`, deg, trim(latex(child(e, "e"))))
	case "d":
		return delimiter(e)
	case "acc":
		chr := prop(e, "accPr", "chr")
		cmd, ok := accentCommands[chr]
		if !ok {
			cmd = `\hat`
		}
		return fmt.Sprintf(`%s{%s}`, cmd, trim(latex(child(e, "e"))))
	case "bar":
		return fmt.Sprintf(`\overline{%s}`, trim(latex(child(e, "e"))))
	case "limLow":
		return fmt.Sprintf(`%s_{%s}`, trim(latex(child(e, "e"))), trim(latex(child(e, "lim"))))
	case "limUpp":
		return fmt.Sprintf(`%s^{%s}`, trim(latex(child(e, "e"))), trim(latex(child(e, "lim"))))
	case "func":
		name := trim(latex(child(e, "fName")))
		return name + " " + trim(latex(child(e, "e")))
	case "nary":
		return nary(e)
	}
	if strings.HasSuffix(e.Tag, "Pr") || e.Space == "w" {
		return ""
	}
	var sb strings.Builder
	for _, c := range e.ChildElements() {
		sb.WriteString(latex(c))
	}
	return sb.String()
}

func symbolText(text string) string {
	if knownFunctions[strings.TrimSpace(text)] {
		return `\` + strings.TrimSpace(text) + " "
	}
	var sb strings.Builder
	for _, r := range text {
		if cmd, ok := latexSymbols[r]; ok {
			sb.WriteString(" " + cmd + " ")
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func delimiter(e *etree.Element) string {
	beg := propDefault(e, "dPr", "begChr", "(")
	end := propDefault(e, "dPr", "endChr", ")")
	sep := propDefault(e, "dPr", "sepChr", "|")
	var parts []string
	for _, c := range e.SelectElements("e") {
		parts = append(parts, trim(latex(c)))
	}
	return escapeDelim(beg) + strings.Join(parts, sep) + escapeDelim(end)
}

func escapeDelim(s string) string {
	switch s {
	case "{", "}":
		return `\` + s
	}
	return s
}

func nary(e *etree.Element) string {
	chr := propDefault(e, "naryPr", "chr", "∫")
	op := chr
	if r, _ := utf8.DecodeRuneInString(chr); latexSymbols[r] != "" {
		op = latexSymbols[r]
	}
	var sb strings.Builder
	sb.WriteString(op)
	if sub := trim(latex(child(e, "sub"))); sub != "" {
		sb.WriteString("_{" + sub + "}")
	}
	if sup := trim(latex(child(e, "sup"))); sup != "" {
		sb.WriteString("^{" + sup + "}")
	}
	sb.WriteString(" " + trim(latex(child(e, "e"))))
	return sb.String()
}

// base renders the e child, bracing it unless it is a single character.
func base(e *etree.Element) string {
	b := trim(latex(child(e, "e")))
	if utf8.RuneCountInString(b) == 1 {
		return b
	}
	return "{" + b + "}"
}

func child(e *etree.Element, tag string) *etree.Element {
	for _, c := range e.ChildElements() {
		if c.Tag == tag {
			return c
		}
	}
	return etree.NewElement("m:" + tag)
}

// prop reads the m:val of a property such as fPr/type.
func prop(e *etree.Element, pr, name string) string {
	return propDefault(e, pr, name, "")
}

func propDefault(e *etree.Element, pr, name, dflt string) string {
	p := child(e, pr)
	for _, c := range p.ChildElements() {
		if c.Tag == name {
			return c.SelectAttrValue("m:val", dflt)
		}
	}
	return dflt
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
