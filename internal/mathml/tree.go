package mathml

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/dgallion1/prepbook/internal/doctree"
)

// Tree is a converted expression rooted at a <math> element.
type Tree struct {
	root  *etree.Element
	plain bool
}

// Element returns a copy of the <math> root.
func (t *Tree) Element() *etree.Element {
	return t.root.Copy()
}

// MathML serializes the tree.
func (t *Tree) MathML() string {
	return serialize(t.root)
}

// Text returns the token text of the expression, e.g. "x+1=2".
func (t *Tree) Text() string {
	var sb strings.Builder
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		switch e.Tag {
		case "mi", "mn", "mo", "mtext":
			sb.WriteString(e.Text())
			return
		case "mspace":
			sb.WriteByte(' ')
			return
		}
		for _, c := range e.ChildElements() {
			walk(c)
		}
	}
	walk(t.root)
	return sb.String()
}

// Equal reports whether two trees have the same structure and content.
func (t *Tree) Equal(other *Tree) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.plain == other.plain && t.MathML() == other.MathML()
}

// Plain returns a copy marked with the upright presentation style. The
// semantic content is unchanged.
func Plain(t *Tree) *Tree {
	root := t.root.Copy()
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		if e.Tag == "mi" && e.SelectAttr("mathvariant") == nil {
			e.CreateAttr("mathvariant", "normal")
		}
		for _, c := range e.ChildElements() {
			walk(c)
		}
	}
	walk(root)
	return &Tree{root: root, plain: true}
}

// IsPlain reports whether the tree carries the upright presentation style.
func (t *Tree) IsPlain() bool {
	return t.plain
}

// MathObject renders the tree as an embeddable OMML equation.
func (t *Tree) MathObject() doctree.MathObject {
	om := t.OMML()
	var sb strings.Builder
	for _, c := range om.ChildElements() {
		c.WriteTo(&sb, &etree.WriteSettings{})
	}
	return doctree.MathObject{Element: "oMath", Inner: sb.String()}
}

func serialize(e *etree.Element) string {
	var sb strings.Builder
	e.WriteTo(&sb, &etree.WriteSettings{})
	return sb.String()
}
