package style

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dgallion1/prepbook/internal/classify"
)

func TestFor(t *testing.T) {
	q := For(classify.Question)
	assert.False(t, q.Bold)
	assert.Zero(t, q.LeftIndent)
	assert.Empty(t, q.Color)

	o := For(classify.Option)
	assert.Equal(t, 20.0, o.LeftIndent)
	assert.False(t, o.Bold)

	a := For(classify.Answer)
	assert.True(t, a.Bold)
	assert.Equal(t, "088565", a.Color)
	assert.Zero(t, a.LeftIndent)

	assert.Equal(t, q, For(classify.Plain))
}

func TestFor_BaseShared(t *testing.T) {
	for _, r := range []classify.Role{classify.Question, classify.Option, classify.Answer, classify.Plain} {
		s := For(r)
		assert.Equal(t, "Tiro Bangla", s.FontFamily, r.String())
		assert.Equal(t, 11.0, s.FontSize, r.String())
		assert.Zero(t, s.SpaceBefore, r.String())
		assert.Zero(t, s.SpaceAfter, r.String())
	}
}

func TestFor_UnknownRole(t *testing.T) {
	assert.Equal(t, For(classify.Plain), For(classify.Role(99)))
}

func TestUnits(t *testing.T) {
	assert.Equal(t, 400, For(classify.Option).IndentTwips())
	assert.Equal(t, "22", HalfPoints(11))
	assert.Equal(t, "21", HalfPoints(10.5))
	assert.Equal(t, 0, Twips(0))
}
