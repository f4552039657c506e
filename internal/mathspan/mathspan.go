// Package mathspan finds $-delimited inline math in free text.
package mathspan

import (
	"iter"
	"regexp"
)

// Span is one inline math occurrence. Start and End are byte offsets of the
// opening delimiter and one past the closing delimiter.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Raw   string `json:"raw"`
}

// Text returns the span including its delimiters.
func (s Span) Text() string {
	return "$" + s.Raw + "$"
}

// A span never crosses a line break.
var pattern = regexp.MustCompile(`\$(.*?)\$`)

// All yields spans left to right. A trailing unmatched delimiter yields nothing.
func All(text string) iter.Seq[Span] {
	return func(yield func(Span) bool) {
		pos := 0
		for pos < len(text) {
			loc := pattern.FindStringSubmatchIndex(text[pos:])
			if loc == nil {
				return
			}
			s := Span{
				Start: pos + loc[0],
				End:   pos + loc[1],
				Raw:   text[pos+loc[2] : pos+loc[3]],
			}
			if !yield(s) {
				return
			}
			pos = s.End
		}
	}
}

// Detect returns every span in text.
func Detect(text string) []Span {
	var spans []Span
	for s := range All(text) {
		spans = append(spans, s)
	}
	return spans
}

// Contains reports whether text holds at least one span.
func Contains(text string) bool {
	return pattern.MatchString(text)
}
