package mathml

import (
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"

	"github.com/dgallion1/prepbook/internal/doctree"
)

// OMML renders the tree as an <m:oMath> element.
func (t *Tree) OMML() *etree.Element {
	om := etree.NewElement("m:oMath")
	om.CreateAttr("xmlns:m", doctree.NamespaceMath)
	for _, c := range t.root.ChildElements() {
		t.omml(c, om)
	}
	return om
}

// OMMLString serializes OMML().
func (t *Tree) OMMLString() string {
	return serialize(t.OMML())
}

func (t *Tree) omml(e, parent *etree.Element) {
	kids := e.ChildElements()
	switch e.Tag {
	case "mi":
		t.run(parent, e.Text(), t.identStyle(e), false)
	case "mn", "mo":
		sty := ""
		if t.plain {
			sty = "p"
		}
		t.run(parent, e.Text(), sty, false)
	case "mtext":
		t.run(parent, e.Text(), variantStyle(e.SelectAttrValue("mathvariant", "")), true)
	case "mspace":
		t.run(parent, " ", "", false)
	case "mrow":
		for _, k := range kids {
			t.omml(k, parent)
		}
	case "mfrac":
		f := parent.CreateElement("m:f")
		if e.SelectAttrValue("linethickness", "") == "0" {
			f.CreateElement("m:fPr").CreateElement("m:type").CreateAttr("m:val", "noBar")
		}
		t.container(f, "m:num", kids[0])
		t.container(f, "m:den", kids[1])
	case "msqrt":
		rad := parent.CreateElement("m:rad")
		rad.CreateElement("m:radPr").CreateElement("m:degHide").CreateAttr("m:val", "1")
		rad.CreateElement("m:deg")
		t.container(rad, "m:e", kids...)
	case "mroot":
		rad := parent.CreateElement("m:rad")
		t.container(rad, "m:deg", kids[1])
		t.container(rad, "m:e", kids[0])
	case "msup":
		s := parent.CreateElement("m:sSup")
		t.container(s, "m:e", kids[0])
		t.container(s, "m:sup", kids[1])
	case "msub":
		s := parent.CreateElement("m:sSub")
		t.container(s, "m:e", kids[0])
		t.container(s, "m:sub", kids[1])
	case "msubsup":
		s := parent.CreateElement("m:sSubSup")
		t.container(s, "m:e", kids[0])
		t.container(s, "m:sub", kids[1])
		t.container(s, "m:sup", kids[2])
	case "mover":
		if e.SelectAttrValue("accent", "") == "true" {
			acc := parent.CreateElement("m:acc")
			acc.CreateElement("m:accPr").CreateElement("m:chr").CreateAttr("m:val", kids[1].Text())
			t.container(acc, "m:e", kids[0])
			return
		}
		l := parent.CreateElement("m:limUpp")
		t.container(l, "m:e", kids[0])
		t.container(l, "m:lim", kids[1])
	case "munder":
		l := parent.CreateElement("m:limLow")
		t.container(l, "m:e", kids[0])
		t.container(l, "m:lim", kids[1])
	case "munderover":
		upp := parent.CreateElement("m:limUpp")
		low := upp.CreateElement("m:e").CreateElement("m:limLow")
		t.container(low, "m:e", kids[0])
		t.container(low, "m:lim", kids[1])
		t.container(upp, "m:lim", kids[2])
	default:
		for _, k := range kids {
			t.omml(k, parent)
		}
	}
}

func (t *Tree) container(parent *etree.Element, tag string, kids ...*etree.Element) {
	c := parent.CreateElement(tag)
	for _, k := range kids {
		t.omml(k, c)
	}
}

func (t *Tree) run(parent *etree.Element, text, sty string, normalText bool) {
	r := parent.CreateElement("m:r")
	if sty != "" || normalText {
		rPr := r.CreateElement("m:rPr")
		if normalText {
			rPr.CreateElement("m:nor")
		}
		if sty != "" {
			rPr.CreateElement("m:sty").CreateAttr("m:val", sty)
		}
	}
	mt := r.CreateElement("m:t")
	if strings.TrimSpace(text) != text {
		mt.CreateAttr("xml:space", "preserve")
	}
	mt.SetText(text)
}

// identStyle picks the OMML style for an identifier. Single letters are
// italic by default, longer names such as function names are upright.
func (t *Tree) identStyle(e *etree.Element) string {
	if v := e.SelectAttrValue("mathvariant", ""); v != "" {
		return variantStyle(v)
	}
	if t.plain || utf8.RuneCountInString(e.Text()) > 1 {
		return "p"
	}
	return ""
}

func variantStyle(v string) string {
	switch v {
	case "normal":
		return "p"
	case "bold":
		return "b"
	case "italic":
		return "i"
	case "bold-italic":
		return "bi"
	}
	return ""
}
