package reformat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/prepbook/internal/classify"
	"github.com/dgallion1/prepbook/internal/doctree"
	"github.com/dgallion1/prepbook/internal/style"
)

type memWriter struct {
	blocks  []OutputBlock
	saved   bool
	failAt  int
	saveErr error
}

func (w *memWriter) WriteBlock(b OutputBlock) error {
	if w.failAt > 0 && len(w.blocks)+1 == w.failAt {
		return errors.New("disk full")
	}
	w.blocks = append(w.blocks, b)
	return nil
}

func (w *memWriter) Save() error {
	if w.saveErr != nil {
		return w.saveErr
	}
	w.saved = true
	return nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func eq(text string) doctree.MathObject {
	return doctree.MathObject{Element: "oMath", Inner: `<m:r><m:t>` + text + `</m:t></m:r>`}
}

func sheet() *doctree.Document {
	return &doctree.Document{Blocks: []doctree.SourceBlock{
		doctree.NewBlock(0, "১. What is 2+2?"),
		doctree.NewBlock(1, ""),
		doctree.NewBlock(2, "ক. Four", eq("4")),
		doctree.NewBlock(3, "খ. Five"),
		doctree.NewBlock(4, "   "),
		doctree.NewBlock(5, "উত্তর: ক"),
		doctree.NewBlock(6, "Solve for x", eq("x"), eq("y")),
	}}
}

func TestRun_Scenarios(t *testing.T) {
	w := &memWriter{}
	res, err := Run(context.Background(), sheet(), w, discard(), Options{})
	require.NoError(t, err)
	require.True(t, w.saved)
	require.Len(t, w.blocks, 5)

	q, opt, ans := w.blocks[0], w.blocks[1], w.blocks[3]

	assert.Equal(t, classify.Question, q.Role)
	assert.False(t, q.Style.Bold)
	assert.Zero(t, q.Style.LeftIndent)

	assert.Equal(t, classify.Option, opt.Role)
	assert.Equal(t, float64(style.OptionIndent), opt.Style.LeftIndent)

	assert.Equal(t, classify.Answer, ans.Role)
	assert.True(t, ans.Style.Bold)
	assert.Equal(t, style.AnswerColor, ans.Style.Color)

	assert.Equal(t, 2, res.Dropped)
	assert.Equal(t, 3, res.Math)
	assert.Equal(t, 1, res.Roles[classify.Question])
	assert.Equal(t, 2, res.Roles[classify.Option])
	assert.Equal(t, 1, res.Roles[classify.Plain])
}

func TestRun_PreservesOrderAndMath(t *testing.T) {
	doc := sheet()
	w := &memWriter{}
	_, err := Run(context.Background(), doc, w, discard(), Options{})
	require.NoError(t, err)

	var positions []int
	for _, b := range w.blocks {
		positions = append(positions, b.Position)
	}
	assert.Equal(t, []int{0, 2, 3, 5, 6}, positions)

	last := w.blocks[4]
	assert.Equal(t, doc.Blocks[6].Math, last.Math)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := &memWriter{}
	_, err := Run(ctx, sheet(), w, discard(), Options{})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, w.saved)
	assert.Empty(t, w.blocks)
}

func TestRun_WriteError(t *testing.T) {
	w := &memWriter{failAt: 2}
	_, err := Run(context.Background(), sheet(), w, discard(), Options{})
	require.ErrorContains(t, err, "write block 2")
	assert.False(t, w.saved)
}

func TestRun_SaveError(t *testing.T) {
	w := &memWriter{saveErr: errors.New("read-only")}
	_, err := Run(context.Background(), sheet(), w, discard(), Options{})
	require.ErrorContains(t, err, "save output")
}

func TestTransform_CustomClassifier(t *testing.T) {
	rules := append([]classify.Rule{{
		Role:  classify.Answer,
		Match: func(s string) bool { return s == "Solve for x" },
	}}, classify.DefaultRules...)

	res := Transform(sheet(), Options{Classifier: classify.New(rules...)})
	require.Len(t, res.Blocks, 5)
	assert.Equal(t, classify.Answer, res.Blocks[4].Role)
	assert.Equal(t, classify.Question, res.Blocks[0].Role)
}

func TestTransform_EmptyDocument(t *testing.T) {
	res := Transform(&doctree.Document{}, Options{})
	assert.Empty(t, res.Blocks)
	assert.Zero(t, res.Dropped)
}
