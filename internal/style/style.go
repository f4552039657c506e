// Package style maps block roles to paragraph formatting.
package style

import (
	"strconv"

	"github.com/dgallion1/prepbook/internal/classify"
)

// Spec is the formatting applied to one emitted block. Lengths are in points.
type Spec struct {
	Bold        bool    `json:"bold"`
	LeftIndent  float64 `json:"left_indent"`
	Color       string  `json:"color,omitempty"` // RRGGBB, empty for the default color
	FontFamily  string  `json:"font_family"`
	FontSize    float64 `json:"font_size"`
	SpaceBefore float64 `json:"space_before"`
	SpaceAfter  float64 `json:"space_after"`
}

const (
	BaseFont     = "Tiro Bangla"
	BaseSize     = 11
	OptionIndent = 20
	AnswerColor  = "088565"
)

// Base is shared by every role.
var Base = Spec{
	FontFamily: BaseFont,
	FontSize:   BaseSize,
}

var table = map[classify.Role]Spec{
	classify.Question: Base,
	classify.Option:   with(Base, func(s *Spec) { s.LeftIndent = OptionIndent }),
	classify.Answer:   with(Base, func(s *Spec) { s.Bold = true; s.Color = AnswerColor }),
	classify.Plain:    Base,
}

func with(s Spec, f func(*Spec)) Spec {
	f(&s)
	return s
}

// For returns the formatting for a role. Unknown roles get the Plain entry.
func For(r classify.Role) Spec {
	if s, ok := table[r]; ok {
		return s
	}
	return table[classify.Plain]
}

// Twips converts points to twentieths of a point.
func Twips(pt float64) int {
	return int(pt*20 + 0.5)
}

// HalfPoints renders a font size the way w:sz expects it.
func HalfPoints(pt float64) string {
	return strconv.Itoa(int(pt*2 + 0.5))
}

// IndentTwips returns the left indent in twips.
func (s Spec) IndentTwips() int {
	return Twips(s.LeftIndent)
}
