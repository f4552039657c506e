package mathml

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/go-latex/latex/ast"
)

// builder walks the parsed LaTeX and emits MathML elements.
type builder struct {
	texts   []textRun
	variant string // mathvariant applied to tokens inside font commands
}

func (b *builder) list(nodes ast.List) ([]*etree.Element, error) {
	var (
		out      []*etree.Element
		scripted *etree.Element // last element built by attach in this list
	)
	for i := 0; i < len(nodes); i++ {
		switch n := nodes[i].(type) {
		case *ast.Sup, *ast.Sub:
			operand, sup := scriptOperand(n)
			script, err := b.group(operand)
			if err != nil {
				return nil, err
			}
			chained := len(out) > 0 && out[len(out)-1] == scripted
			if out, err = attach(out, script, sup, chained); err != nil {
				return nil, err
			}
			scripted = out[len(out)-1]
		case *ast.Macro:
			name := strings.TrimPrefix(n.Name.Name, `\`)
			if mark, ok := accents[name]; ok && len(n.Args) == 0 {
				if i+1 >= len(nodes) {
					return nil, fmt.Errorf(`\%s has no base`, name)
				}
				i++
				base, err := b.group(nodes[i])
				if err != nil {
					return nil, err
				}
				acc := elem("mover", base, token("mo", mark))
				acc.CreateAttr("accent", "true")
				out = append(out, acc)
				continue
			}
			els, err := b.macro(n, name)
			if err != nil {
				return nil, err
			}
			out = append(out, els...)
		default:
			els, err := b.node(n)
			if err != nil {
				return nil, err
			}
			out = append(out, els...)
		}
	}
	return out, nil
}

func scriptOperand(n ast.Node) (ast.Node, bool) {
	if sup, ok := n.(*ast.Sup); ok {
		return sup.Node, true
	}
	return n.(*ast.Sub).Node, false
}

// attach scripts the last emitted element. A missing base becomes an empty mrow.
// When chained is set the base was itself scripted by the preceding token, so
// a second script of the same kind is a double script.
func attach(out []*etree.Element, script *etree.Element, sup, chained bool) ([]*etree.Element, error) {
	if script.Tag == "mrow" && len(script.ChildElements()) == 0 {
		return nil, fmt.Errorf("empty script")
	}
	base := etree.NewElement("mrow")
	if len(out) > 0 {
		base = out[len(out)-1]
		out = out[:len(out)-1]
	}
	if !chained {
		if sup {
			return append(out, elem("msup", base, script)), nil
		}
		if isLimit(base) {
			return append(out, elem("munder", base, script)), nil
		}
		return append(out, elem("msub", base, script)), nil
	}

	kids := base.ChildElements()
	switch {
	case sup && base.Tag == "msub":
		return append(out, elem("msubsup", kids[0], kids[1], script)), nil
	case sup && base.Tag == "munder":
		return append(out, elem("munderover", kids[0], kids[1], script)), nil
	case !sup && base.Tag == "msup":
		return append(out, elem("msubsup", kids[0], script, kids[1])), nil
	case sup:
		return nil, fmt.Errorf("double superscript")
	}
	return nil, fmt.Errorf("double subscript")
}

func isLimit(e *etree.Element) bool {
	return e.Tag == "mi" && limitFunctions[e.Text()]
}

// group builds a node as exactly one element.
func (b *builder) group(n ast.Node) (*etree.Element, error) {
	var (
		els []*etree.Element
		err error
	)
	switch n := n.(type) {
	case ast.List:
		els, err = b.list(n)
	case *ast.Arg:
		els, err = b.list(n.List)
	case *ast.OptArg:
		els, err = b.list(n.List)
	case nil:
		return nil, fmt.Errorf("missing operand")
	default:
		els, err = b.list(ast.List{n})
	}
	if err != nil {
		return nil, err
	}
	if len(els) == 1 {
		return els[0], nil
	}
	return elem("mrow", els...), nil
}

func (b *builder) node(n ast.Node) ([]*etree.Element, error) {
	switch n := n.(type) {
	case *ast.Literal:
		return []*etree.Element{b.token("mn", n.Text)}, nil
	case *ast.Word:
		// Adjacent letters are separate identifiers in math mode.
		var out []*etree.Element
		for _, r := range n.Text {
			out = append(out, b.token("mi", string(r)))
		}
		return out, nil
	case *ast.Symbol:
		switch n.Text {
		case " ", `\ `:
			return nil, nil
		case "-":
			return []*etree.Element{token("mo", "−")}, nil
		case "*":
			return []*etree.Element{token("mo", "∗")}, nil
		case "'":
			return []*etree.Element{token("mo", "′")}, nil
		}
		return []*etree.Element{token("mo", n.Text)}, nil
	case ast.List:
		els, err := b.list(n)
		if err != nil {
			return nil, err
		}
		return []*etree.Element{elem("mrow", els...)}, nil
	case *ast.MathExpr:
		return nil, fmt.Errorf("nested math delimiter")
	default:
		return nil, fmt.Errorf("unsupported construct %T", n)
	}
}

func (b *builder) macro(m *ast.Macro, name string) ([]*etree.Element, error) {
	one := func(e *etree.Element, err error) ([]*etree.Element, error) {
		if err != nil {
			return nil, err
		}
		return []*etree.Element{e}, nil
	}

	switch name {
	case "frac", "dfrac", "tfrac":
		return one(b.fraction(m, false))
	case "binom":
		frac, err := b.fraction(m, true)
		if err != nil {
			return nil, err
		}
		return []*etree.Element{elem("mrow", token("mo", "("), frac, token("mo", ")"))}, nil
	case "sqrt":
		return one(b.root(m))
	case "stackrel":
		if len(m.Args) != 2 {
			return nil, fmt.Errorf(`\stackrel needs two arguments`)
		}
		over, err := b.group(m.Args[0])
		if err != nil {
			return nil, err
		}
		base, err := b.group(m.Args[1])
		if err != nil {
			return nil, err
		}
		return []*etree.Element{elem("mover", base, over)}, nil
	case "overline":
		base, err := b.arg(m)
		if err != nil {
			return nil, err
		}
		e := elem("mover", base, token("mo", "¯"))
		e.CreateAttr("accent", "true")
		return []*etree.Element{e}, nil
	case "textregular", "textbf", "textit":
		return []*etree.Element{b.text(m, name)}, nil
	case "operatorname":
		if len(m.Args) != 1 {
			return nil, fmt.Errorf(`\operatorname needs an argument`)
		}
		return []*etree.Element{token("mi", plainText(argList(m.Args[0])))}, nil
	case "hspace":
		if len(m.Args) != 1 {
			return nil, fmt.Errorf(`\hspace needs an argument`)
		}
		// The number prefix rewrite splits lengths such as 2em.
		width := strings.Join(strings.Fields(plainText(argList(m.Args[0]))), "")
		return []*etree.Element{space(width)}, nil
	}

	if variant, ok := fonts[name]; ok {
		if len(m.Args) != 1 {
			return nil, fmt.Errorf(`\%s needs an argument`, name)
		}
		prev := b.variant
		b.variant = variant
		defer func() { b.variant = prev }()
		els, err := b.list(argList(m.Args[0]))
		if err != nil {
			return nil, err
		}
		if len(els) == 1 {
			return els, nil
		}
		return []*etree.Element{elem("mrow", els...)}, nil
	}
	if fontSwitches[name] {
		return nil, nil
	}
	if w, ok := spaces[name]; ok {
		return []*etree.Element{space(w)}, nil
	}
	if functions[name] {
		return []*etree.Element{token("mi", name)}, nil
	}
	if s, ok := symbols[name]; ok {
		return []*etree.Element{b.token(s.tag, s.text)}, nil
	}
	return nil, fmt.Errorf(`unsupported command \%s`, name)
}

func (b *builder) fraction(m *ast.Macro, noBar bool) (*etree.Element, error) {
	if len(m.Args) != 2 {
		return nil, fmt.Errorf(`\%s needs two arguments`, strings.TrimPrefix(m.Name.Name, `\`))
	}
	num, err := b.group(m.Args[0])
	if err != nil {
		return nil, err
	}
	den, err := b.group(m.Args[1])
	if err != nil {
		return nil, err
	}
	frac := elem("mfrac", num, den)
	if noBar {
		frac.CreateAttr("linethickness", "0")
	}
	return frac, nil
}

func (b *builder) root(m *ast.Macro) (*etree.Element, error) {
	switch len(m.Args) {
	case 1:
		base, err := b.group(m.Args[0])
		if err != nil {
			return nil, err
		}
		return elem("msqrt", base), nil
	case 2:
		index, err := b.group(m.Args[0])
		if err != nil {
			return nil, err
		}
		base, err := b.group(m.Args[1])
		if err != nil {
			return nil, err
		}
		return elem("mroot", base, index), nil
	}
	return nil, fmt.Errorf(`\sqrt needs an argument`)
}

func (b *builder) arg(m *ast.Macro) (*etree.Element, error) {
	if len(m.Args) != 1 {
		return nil, fmt.Errorf(`\%s needs an argument`, strings.TrimPrefix(m.Name.Name, `\`))
	}
	return b.group(m.Args[0])
}

// text emits the next lifted \text run, or the parsed argument when the
// notation nested braces inside the text.
func (b *builder) text(m *ast.Macro, name string) *etree.Element {
	var run textRun
	if name == "textregular" && len(b.texts) > 0 {
		run, b.texts = b.texts[0], b.texts[1:]
	} else if len(m.Args) > 0 {
		run = textRun{text: plainText(argList(m.Args[0])), variant: textVariants[name]}
	}
	e := token("mtext", run.text)
	if run.variant != "" {
		e.CreateAttr("mathvariant", run.variant)
	}
	return e
}

// token builds a token element carrying the current font variant.
func (b *builder) token(tag, text string) *etree.Element {
	e := token(tag, text)
	if b.variant != "" && tag != "mo" {
		e.CreateAttr("mathvariant", b.variant)
	}
	return e
}

func token(tag, text string) *etree.Element {
	e := etree.NewElement(tag)
	e.SetText(text)
	return e
}

func elem(tag string, children ...*etree.Element) *etree.Element {
	e := etree.NewElement(tag)
	for _, c := range children {
		e.AddChild(c)
	}
	return e
}

func space(width string) *etree.Element {
	e := etree.NewElement("mspace")
	e.CreateAttr("width", width)
	return e
}

func argList(n ast.Node) ast.List {
	switch n := n.(type) {
	case *ast.Arg:
		return n.List
	case *ast.OptArg:
		return n.List
	case ast.List:
		return n
	}
	return ast.List{n}
}

// plainText flattens an argument back to text. Gaps between token
// positions stand for the spaces the parser dropped.
func plainText(list ast.List) string {
	var sb strings.Builder
	for i, n := range list {
		if i > 0 && n.Pos() > list[i-1].End() {
			sb.WriteByte(' ')
		}
		switch n := n.(type) {
		case *ast.Word:
			sb.WriteString(n.Text)
		case *ast.Literal:
			sb.WriteString(n.Text)
		case *ast.Symbol:
			sb.WriteString(n.Text)
		case *ast.Macro:
			name := strings.TrimPrefix(n.Name.Name, `\`)
			if s, ok := symbols[name]; ok {
				sb.WriteString(s.text)
			}
		case ast.List:
			sb.WriteString(plainText(n))
		}
	}
	return sb.String()
}
