package inlinemath

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/prepbook/internal/mathml"
	"github.com/dgallion1/prepbook/internal/mathspan"
)

type fakeSurface struct {
	text     string
	applied  []Edit
	applyErr error
}

func (f *fakeSurface) Text() string { return f.text }

func (f *fakeSurface) Apply(edits []Edit) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.applied = append(f.applied, edits...)
	return nil
}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestProcess_ConvertsEachSpan(t *testing.T) {
	s := &fakeSurface{text: "যদি $x+1=2$ হয়, তবে $y$ কত?"}
	res, err := Process(context.Background(), []Surface{s}, quiet, Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Surfaces)
	assert.Equal(t, 2, res.Spans)
	assert.Equal(t, 2, res.Replaced)
	assert.Empty(t, res.Failures)

	require.Len(t, s.applied, 2)
	assert.Equal(t, "x+1=2", s.applied[0].Span.Raw)
	assert.Equal(t, "x+1=2", s.applied[0].Tree.Text())
	assert.Equal(t, "y", s.applied[1].Span.Raw)
	assert.Less(t, s.applied[0].Span.Start, s.applied[1].Span.Start)
}

func TestProcess_FailuresDoNotStopSiblings(t *testing.T) {
	first := &fakeSurface{text: `$\frac{1}{2$ and $a+b$`}
	second := &fakeSurface{text: `$\nosuch$`}
	third := &fakeSurface{text: `$z$`}

	res, err := Process(context.Background(), []Surface{first, second, third}, quiet, Options{})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Surfaces)
	assert.Equal(t, 4, res.Spans)
	assert.Equal(t, 2, res.Replaced)
	require.Len(t, res.Failures, 2)

	assert.Equal(t, 0, res.Failures[0].Surface)
	assert.Equal(t, `\frac{1}{2`, res.Failures[0].Span.Raw)
	assert.Equal(t, 1, res.Failures[1].Surface)

	var ce *mathml.ConversionError
	assert.True(t, errors.As(res.Failures[1], &ce))
	assert.Equal(t, `\nosuch`, ce.Notation)
	assert.NotEmpty(t, res.Failures[1].Reason)

	require.Len(t, first.applied, 1)
	assert.Equal(t, "a+b", first.applied[0].Span.Raw)
	assert.Empty(t, second.applied)
	assert.Len(t, third.applied, 1)
}

func TestProcess_NoSpansNoApply(t *testing.T) {
	s := &fakeSurface{text: "দাম $5", applyErr: errors.New("must not be called")}
	res, err := Process(context.Background(), []Surface{s}, quiet, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Spans)
}

func TestProcess_ApplyErrorIsFatal(t *testing.T) {
	bad := &fakeSurface{text: "$x$", applyErr: errors.New("read only")}
	after := &fakeSurface{text: "$y$"}
	_, err := Process(context.Background(), []Surface{bad, after}, quiet, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apply surface 0")
	assert.Empty(t, after.applied)
}

func TestProcess_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &fakeSurface{text: "$x$"}
	_, err := Process(ctx, []Surface{s}, quiet, Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, s.applied)
}

func TestEdits_Plain(t *testing.T) {
	edits, failures := Edits("$x$", Options{Plain: true})
	require.Empty(t, failures)
	require.Len(t, edits, 1)
	assert.True(t, edits[0].Tree.IsPlain())
}

func TestEdits_CustomConverter(t *testing.T) {
	calls := 0
	conv := func(raw string) (*mathml.Tree, error) {
		calls++
		return nil, &mathml.ConversionError{Notation: raw, Reason: "disabled"}
	}
	edits, failures := Edits("$a$ $b$", Options{Convert: conv})
	assert.Empty(t, edits)
	require.Len(t, failures, 2)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "disabled", failures[0].Reason)
}

func TestOnSelection(t *testing.T) {
	assert.True(t, OnSelection("ধরি $x$"))
	assert.False(t, OnSelection("দাম $5"))
	assert.False(t, OnSelection("$a\nb$"))
}

func TestDescending(t *testing.T) {
	edits := []Edit{
		{Span: mathspan.Span{Start: 0}},
		{Span: mathspan.Span{Start: 10}},
		{Span: mathspan.Span{Start: 5}},
	}
	got := Descending(edits)
	assert.Equal(t, []int{10, 5, 0}, []int{got[0].Span.Start, got[1].Span.Start, got[2].Span.Start})
	assert.Equal(t, 0, edits[0].Span.Start, "input order untouched")
}
