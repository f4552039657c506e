// Package mathml converts inline LaTeX notation into MathML trees and renders
// them as Office Math Markup (OMML).
package mathml

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"
	"github.com/go-latex/latex"
	"github.com/go-latex/latex/ast"
)

// Namespace is the MathML namespace set on every tree root.
const Namespace = "http://www.w3.org/1998/Math/MathML"

// ConversionError reports notation outside the supported grammar.
type ConversionError struct {
	Notation string
	Reason   string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert %q: %s", e.Notation, e.Reason)
}

func fail(notation, format string, args ...any) *ConversionError {
	return &ConversionError{Notation: notation, Reason: fmt.Sprintf(format, args...)}
}

// Convert parses raw LaTeX (without the surrounding $) into a MathML tree.
// It either returns a complete tree or a *ConversionError.
func Convert(raw string) (*Tree, error) {
	if !utf8.ValidString(raw) {
		return nil, fail(raw, "invalid UTF-8")
	}
	notation := strings.TrimSpace(raw)
	if notation == "" {
		return nil, fail(raw, "empty notation")
	}
	if i := strings.IndexAny(notation, "$\"&#%"); i >= 0 {
		return nil, fail(raw, "unsupported character %q", notation[i])
	}
	if err := checkBraces(notation); err != nil {
		return nil, fail(raw, "%v", err)
	}

	src, texts := rewrite(notation)
	nodes, err := parse(src)
	if err != nil {
		return nil, fail(raw, "%v", err)
	}

	b := &builder{texts: texts}
	children, err := b.list(nodes)
	if err != nil {
		return nil, fail(raw, "%v", err)
	}
	if !hasToken(children) {
		return nil, fail(raw, "no math content")
	}

	root := etree.NewElement("math")
	root.CreateAttr("xmlns", Namespace)
	root.CreateAttr("display", "inline")
	for _, c := range children {
		root.AddChild(c)
	}
	return &Tree{root: root}, nil
}

// hasToken reports whether any element carries an identifier, number,
// operator or text.
func hasToken(els []*etree.Element) bool {
	for _, e := range els {
		switch e.Tag {
		case "mi", "mn", "mo", "mtext":
			return true
		}
		if hasToken(e.ChildElements()) {
			return true
		}
	}
	return false
}

// parse runs the LaTeX parser, which panics on tokens it does not know.
func parse(src string) (list ast.List, err error) {
	defer func() {
		if r := recover(); r != nil {
			list = nil
			err = fmt.Errorf("%v", r)
		}
	}()

	node, err := latex.ParseExpr("$" + src + "$")
	if err != nil {
		return nil, err
	}
	top, ok := node.(ast.List)
	if !ok || len(top) != 1 {
		return nil, fmt.Errorf("unexpected expression shape")
	}
	expr, ok := top[0].(*ast.MathExpr)
	if !ok {
		return nil, fmt.Errorf("unexpected expression shape")
	}
	return expr.List, nil
}

// checkBraces rejects unbalanced {} since the parser silently accepts them.
func checkBraces(s string) error {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++ // escaped character, \{ and \} are literals
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return fmt.Errorf("unexpected '}' at offset %d", i)
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("unclosed '{'")
	}
	return nil
}

var (
	textMacro  = regexp.MustCompile(`\\(text|textrm|textup|textnormal|mbox|textbf|textit)\{([^{}]*)\}`)
	nullDelim  = regexp.MustCompile(`\\(?:left|right)\.`)
	macroName  = regexp.MustCompile(`\\[a-zA-Z]+`)
	digitAlpha = regexp.MustCompile(`([0-9])([a-zA-Z_])`)
)

// Commands with the same meaning as a command the parser knows.
var aliases = map[string]string{
	`\le`:         `\leq`,
	`\ge`:         `\geq`,
	`\ne`:         `\neq`,
	`\lt`:         `<`,
	`\gt`:         `>`,
	`\implies`:    `\Longrightarrow`,
	`\iff`:        `\Longleftrightarrow`,
	`\gets`:       `\leftarrow`,
	`\lvert`:      `\vert`,
	`\rvert`:      `\vert`,
	`\lVert`:      `\Vert`,
	`\rVert`:      `\Vert`,
	`\mathrm`:     `\mathregular`,
	`\boldsymbol`: `\mathbf`,
	`\bm`:         `\mathbf`,
	`\triangle`:   `\bigtriangleup`,
	`\exp`:        `\operatorname{exp}`,
}

// textRun is a \text argument lifted out before parsing.
type textRun struct {
	text    string
	variant string
}

var textVariants = map[string]string{
	"textbf": "bold",
	"textit": "italic",
}

// Sizing and layout commands that carry no content.
var dropped = map[string]bool{
	`\left`: true, `\right`: true,
	`\big`: true, `\Big`: true, `\bigg`: true, `\Bigg`: true,
	`\bigl`: true, `\bigr`: true, `\Bigl`: true, `\Bigr`: true,
	`\displaystyle`: true, `\textstyle`: true,
	`\limits`: true, `\nolimits`: true,
}

// rewrite normalises notation into the dialect the parser accepts. Text
// arguments are lifted out and returned separately so that they keep their
// spaces and non-Latin letters.
func rewrite(s string) (string, []textRun) {
	var texts []textRun
	s = textMacro.ReplaceAllStringFunc(s, func(m string) string {
		sub := textMacro.FindStringSubmatch(m)
		texts = append(texts, textRun{text: sub[2], variant: textVariants[sub[1]]})
		return `\textregular{t}`
	})
	s = nullDelim.ReplaceAllString(s, "")
	s = macroName.ReplaceAllStringFunc(s, func(m string) string {
		if dropped[m] {
			return " "
		}
		if a, ok := aliases[m]; ok {
			return a
		}
		return m
	})
	s = strings.ReplaceAll(s, `\|`, `\Vert `)
	s = strings.ReplaceAll(s, "|", `\vert `)
	s = strings.ReplaceAll(s, "~", " ")
	// Keep the scanner from reading 2e or 0x as number prefixes.
	s = digitAlpha.ReplaceAllString(s, "$1 $2")
	return s, texts
}
