// Package inlinemath replaces $-delimited notation on editing surfaces with
// structured math markup.
package inlinemath

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dgallion1/prepbook/internal/mathml"
	"github.com/dgallion1/prepbook/internal/mathspan"
)

// Surface is a text-bearing region of a document. Offsets in the edits passed
// to Apply refer to the string returned by Text.
type Surface interface {
	Text() string
	Apply(edits []Edit) error
}

// Edit replaces one span with a converted tree.
type Edit struct {
	Span mathspan.Span
	Tree *mathml.Tree
}

// Failure records a span whose notation could not be converted.
type Failure struct {
	Surface int           `json:"surface"`
	Span    mathspan.Span `json:"span"`
	Reason  string        `json:"reason"`
	Err     error         `json:"-"`
}

func (f Failure) Error() string {
	return fmt.Sprintf("surface %d offset %d: %v", f.Surface, f.Span.Start, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Options tune a pass.
type Options struct {
	// Plain marks every converted tree with the upright presentation style.
	Plain bool
	// Convert replaces mathml.Convert, mainly for tests.
	Convert func(raw string) (*mathml.Tree, error)
}

// Result summarises a pass over one or more surfaces.
type Result struct {
	Surfaces int       `json:"surfaces"`
	Spans    int       `json:"spans"`
	Replaced int       `json:"replaced"`
	Failures []Failure `json:"failures,omitempty"`
}

// Edits converts every span of text independently. Spans that fail to
// convert are reported and left out of the edits.
func Edits(text string, opts Options) ([]Edit, []Failure) {
	convert := opts.Convert
	if convert == nil {
		convert = mathml.Convert
	}
	var edits []Edit
	var failures []Failure
	for span := range mathspan.All(text) {
		tree, err := convert(span.Raw)
		if err != nil {
			f := Failure{Span: span, Err: err, Reason: err.Error()}
			var ce *mathml.ConversionError
			if errors.As(err, &ce) {
				f.Reason = ce.Reason
			}
			failures = append(failures, f)
			continue
		}
		if opts.Plain {
			tree = mathml.Plain(tree)
		}
		edits = append(edits, Edit{Span: span, Tree: tree})
	}
	return edits, failures
}

// Process detects and converts spans on each surface in order and applies
// the successful edits. Conversion failures never stop sibling spans or
// surfaces; an Apply error is fatal to the pass.
func Process(ctx context.Context, surfaces []Surface, log *slog.Logger, opts Options) (Result, error) {
	var res Result
	for i, s := range surfaces {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("inline math cancelled at surface %d: %w", i, err)
		}
		edits, failures := Edits(s.Text(), opts)
		for _, f := range failures {
			f.Surface = i
			log.Debug("span not converted", "surface", i, "start", f.Span.Start, "raw", f.Span.Raw, "reason", f.Reason)
			res.Failures = append(res.Failures, f)
		}
		res.Surfaces++
		res.Spans += len(edits) + len(failures)
		if len(edits) == 0 {
			continue
		}
		if err := s.Apply(edits); err != nil {
			return res, fmt.Errorf("apply surface %d: %w", i, err)
		}
		res.Replaced += len(edits)
	}
	log.Info("inline math complete",
		"surfaces", res.Surfaces,
		"spans", res.Spans,
		"replaced", res.Replaced,
		"failed", len(res.Failures),
	)
	return res, nil
}

// OnSelection reports whether the selected text holds notation worth
// offering a conversion for.
func OnSelection(text string) bool {
	return mathspan.Contains(text)
}

// Descending returns edits ordered from the end of the text to the start, the
// order in which surfaces apply them so earlier offsets stay valid.
func Descending(edits []Edit) []Edit {
	out := slices.Clone(edits)
	slices.SortFunc(out, func(a, b Edit) int { return b.Span.Start - a.Span.Start })
	return out
}
