// Package relocate carries the equations of a source block over to the
// block that replaces it in the output document.
package relocate

import (
	"fmt"
	"slices"

	"github.com/dgallion1/prepbook/internal/doctree"
	"github.com/dgallion1/prepbook/internal/omml"
)

// Relocate returns the block's equations in source order. The result is a
// copy, the source block is never modified. A block without math gives nil.
func Relocate(block doctree.SourceBlock) []doctree.MathObject {
	if len(block.Math) == 0 {
		return nil
	}
	return slices.Clone(block.Math)
}

// FontSize returns copies of objects sized to pt so equations match the body
// text around them.
func FontSize(objects []doctree.MathObject, pt float64) ([]doctree.MathObject, error) {
	if len(objects) == 0 {
		return nil, nil
	}
	out := make([]doctree.MathObject, len(objects))
	for i, obj := range objects {
		sized, err := omml.SetFontSize(obj, pt)
		if err != nil {
			return nil, fmt.Errorf("resize equation %d: %w", i, err)
		}
		out[i] = sized
	}
	return out, nil
}
