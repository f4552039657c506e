package classify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Role
	}{
		{"bangla digit question", "১. What is 2+2?", Question},
		{"two digit serial", "12. x", Plain},
		{"single latin digit question", "3. Find x", Question},
		{"option ka", "ক. Four", Option},
		{"option gha", "ঘ. None", Option},
		{"fifth glyph is not an option", "ঙ. Five", Plain},
		{"answer bangla", "উত্তর: খ", Answer},
		{"answer latin", "Ans: b", Answer},
		{"answer needs colon", "উত্তর খ", Plain},
		{"missing space", "১.x", Plain},
		{"missing period", "১ x", Plain},
		{"too short", "১.", Plain},
		{"single rune", "ক", Plain},
		{"plain", "ব্যাখ্যা: দুই আর দুই চার", Plain},
		{"latin letter is not a question", "a. apple", Plain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	inputs := []string{"১. প্রশ্ন", "খ. উত্তর", "Ans: x", "anything"}
	for _, in := range inputs {
		first := Classify(in)
		for range 5 {
			assert.Equal(t, first, Classify(in), in)
		}
	}
}

func TestClassifier_FirstMatchWins(t *testing.T) {
	always := func(string) bool { return true }
	c := New(Rule{Role: Answer, Match: always}, Rule{Role: Question, Match: always})
	assert.Equal(t, Answer, c.Classify("১. question shape"))
}

func TestClassifier_ExtraRule(t *testing.T) {
	explanation := Rule{Role: Plain + 10, Match: func(s string) bool { return len(s) > 0 && s[0] == '#' }}
	rules := append(append([]Rule{}, DefaultRules...), explanation)
	c := New(rules...)

	assert.Equal(t, Question, c.Classify("১. q"))
	assert.Equal(t, Plain+10, c.Classify("# note"))
	assert.Equal(t, Plain, c.Classify("text"))
}

func TestRole_TextRoundTrip(t *testing.T) {
	b, err := json.Marshal(map[string]Role{"r": Option})
	require.NoError(t, err)
	assert.JSONEq(t, `{"r":"option"}`, string(b))

	var r Role
	require.NoError(t, r.UnmarshalText([]byte("answer")))
	assert.Equal(t, Answer, r)
	assert.Error(t, r.UnmarshalText([]byte("bogus")))
	assert.Equal(t, "role(42)", Role(42).String())
}

func TestCounts(t *testing.T) {
	c := Counts{}
	for _, s := range []string{"১. q", "ক. a", "খ. b", "Ans: a"} {
		c.Add(Classify(s))
	}
	assert.Equal(t, 1, c[Question])
	assert.Equal(t, 2, c[Option])
	assert.Equal(t, 1, c[Answer])
}
