// Package classify assigns a semantic role to each block of an MCQ sheet.
package classify

import (
	"fmt"
	"strings"
	"unicode"
)

// Role is the semantic tag of a block.
type Role int

const (
	Plain Role = iota
	Question
	Option
	Answer
)

var roleNames = [...]string{
	Plain:    "plain",
	Question: "question",
	Option:   "option",
	Answer:   "answer",
}

func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return fmt.Sprintf("role(%d)", int(r))
	}
	return roleNames[r]
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	for i, name := range roleNames {
		if name == string(b) {
			*r = Role(i)
			return nil
		}
	}
	return fmt.Errorf("unknown role %q", b)
}

// OptionLabels are the enumerator glyphs that open an option, in order.
var OptionLabels = []rune{'ক', 'খ', 'গ', 'ঘ'}

// AnswerPrefixes open an answer line.
var AnswerPrefixes = []string{"উত্তর:", "Ans:"}

// Rule pairs a predicate with the role it assigns.
type Rule struct {
	Role  Role
	Match func(text string) bool
}

// DefaultRules is the rule table for Bangla MCQ sheets. Order matters.
var DefaultRules = []Rule{
	{Role: Question, Match: IsQuestion},
	{Role: Option, Match: IsOption},
	{Role: Answer, Match: IsAnswer},
}

// Classifier evaluates rules first-match-wins and falls back to Plain.
type Classifier struct {
	rules []Rule
}

// New returns a classifier over the given rules, or DefaultRules when none are given.
func New(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Classifier{rules: rules}
}

// Classify returns the role of the first matching rule.
func (c *Classifier) Classify(text string) Role {
	for _, r := range c.rules {
		if r.Match(text) {
			return r.Role
		}
	}
	return Plain
}

var defaultClassifier = New()

// Classify classifies text with DefaultRules.
func Classify(text string) Role {
	return defaultClassifier.Classify(text)
}

// IsQuestion matches "<decimal digit>. " in any script.
func IsQuestion(text string) bool {
	first, ok := enumerated(text)
	return ok && unicode.Is(unicode.Nd, first)
}

// IsOption matches "<option label>. ".
func IsOption(text string) bool {
	first, ok := enumerated(text)
	if !ok {
		return false
	}
	for _, l := range OptionLabels {
		if first == l {
			return true
		}
	}
	return false
}

// IsAnswer matches one of AnswerPrefixes.
func IsAnswer(text string) bool {
	for _, p := range AnswerPrefixes {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}

// enumerated returns the first rune when the text opens with
// "<rune>. " and is at least three runes long.
func enumerated(text string) (rune, bool) {
	var head [3]rune
	n := 0
	for _, r := range text {
		head[n] = r
		n++
		if n == len(head) {
			break
		}
	}
	if n < 3 || head[1] != '.' || head[2] != ' ' {
		return 0, false
	}
	return head[0], true
}

// Counts tallies roles over a sequence of texts.
type Counts map[Role]int

// Add records one classified block.
func (c Counts) Add(r Role) {
	c[r]++
}
