package relocate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/prepbook/internal/doctree"
)

func eq(text string) doctree.MathObject {
	return doctree.MathObject{
		Element: "oMath",
		Inner:   `<m:r><w:rPr><w:sz w:val="28"/></w:rPr><m:t>` + text + `</m:t></m:r>`,
	}
}

func TestRelocate_KeepsOrder(t *testing.T) {
	block := doctree.NewBlock(0, "১. মান নির্ণয় কর", eq("a"), eq("b"), eq("c"))
	got := Relocate(block)

	require.Len(t, got, 3)
	assert.Equal(t, block.Math, got)
}

func TestRelocate_Empty(t *testing.T) {
	assert.Nil(t, Relocate(doctree.NewBlock(0, "text only")))
}

func TestRelocate_DoesNotAlias(t *testing.T) {
	block := doctree.NewBlock(0, "x", eq("a"))
	got := Relocate(block)
	got[0].Inner = "changed"

	assert.Equal(t, eq("a").Inner, block.Math[0].Inner)
}

func TestFontSize(t *testing.T) {
	objs := []doctree.MathObject{eq("a"), eq("b")}
	got, err := FontSize(objs, 11)
	require.NoError(t, err)

	require.Len(t, got, 2)
	for _, o := range got {
		assert.Contains(t, o.Inner, `w:val="22"`)
	}
	assert.Contains(t, objs[0].Inner, `w:val="28"`)
}

func TestFontSize_Error(t *testing.T) {
	_, err := FontSize([]doctree.MathObject{{Element: "oMath", Inner: "<m:r>"}}, 11)
	assert.ErrorContains(t, err, "resize equation 0")
}
