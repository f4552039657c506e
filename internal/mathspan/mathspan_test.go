package mathspan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect_Single(t *testing.T) {
	text := "Solve $x+1=2$ for x"
	spans := Detect(text)
	require.Len(t, spans, 1)
	assert.Equal(t, "x+1=2", spans[0].Raw)
	assert.Equal(t, 6, spans[0].Start)
	assert.Equal(t, 13, spans[0].End)
	assert.Equal(t, "$x+1=2$", text[spans[0].Start:spans[0].End])
	assert.Equal(t, "$x+1=2$", spans[0].Text())
}

func TestDetect_Unterminated(t *testing.T) {
	assert.Empty(t, Detect("Unterminated $x+1"))
	assert.False(t, Contains("Unterminated $x+1"))
}

func TestDetect_Multiple(t *testing.T) {
	text := "$a$ and $b^2$ then $c"
	spans := Detect(text)
	require.Len(t, spans, 2)
	assert.Equal(t, Span{Start: 0, End: 3, Raw: "a"}, spans[0])
	assert.Equal(t, Span{Start: 8, End: 13, Raw: "b^2"}, spans[1])
}

func TestDetect_NonGreedy(t *testing.T) {
	spans := Detect("$a$$b$")
	require.Len(t, spans, 2)
	assert.Equal(t, "a", spans[0].Raw)
	assert.Equal(t, "b", spans[1].Raw)
}

func TestDetect_EmptyPair(t *testing.T) {
	spans := Detect("cost $$ here")
	require.Len(t, spans, 1)
	assert.Empty(t, spans[0].Raw)
}

func TestDetect_NoLineCrossing(t *testing.T) {
	assert.Empty(t, Detect("$x\n+1$"))
	spans := Detect("$x$\n$y$")
	require.Len(t, spans, 2)
	assert.Equal(t, 4, spans[1].Start)
}

func TestDetect_MultibyteOffsets(t *testing.T) {
	text := "সমাধান কর $x^2$"
	spans := Detect(text)
	require.Len(t, spans, 1)
	assert.Equal(t, "$x^2$", text[spans[0].Start:spans[0].End])
}

func TestAll_StopsEarly(t *testing.T) {
	var got []string
	for s := range All("$a$ $b$ $c$") {
		got = append(got, s.Raw)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestContains(t *testing.T) {
	assert.True(t, Contains("a $b$"))
	assert.False(t, Contains("no math"))
}
