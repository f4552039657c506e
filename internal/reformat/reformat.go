// Package reformat turns a source document into restyled output blocks and
// hands them to a target writer.
package reformat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/prepbook/internal/classify"
	"github.com/dgallion1/prepbook/internal/doctree"
	"github.com/dgallion1/prepbook/internal/relocate"
	"github.com/dgallion1/prepbook/internal/style"
)

// OutputBlock is one restyled block, emitted in source order.
type OutputBlock struct {
	Position int                  `json:"position"`
	Text     string               `json:"text"`
	Role     classify.Role        `json:"role"`
	Style    style.Spec           `json:"style"`
	Math     []doctree.MathObject `json:"-"`
}

// Writer receives output blocks in order and persists them on Save.
type Writer interface {
	WriteBlock(OutputBlock) error
	Save() error
}

// Result summarises one run.
type Result struct {
	Blocks  []OutputBlock   `json:"-"`
	Dropped int             `json:"dropped"`
	Roles   classify.Counts `json:"roles"`
	Math    int             `json:"math"`
}

// Options tune a run. The zero value uses the default rule table.
type Options struct {
	Classifier *classify.Classifier
}

// Block restyles a single non-empty source block.
func Block(c *classify.Classifier, b doctree.SourceBlock) OutputBlock {
	role := c.Classify(b.Text)
	return OutputBlock{
		Position: b.Position,
		Text:     b.Text,
		Role:     role,
		Style:    style.For(role),
		Math:     relocate.Relocate(b),
	}
}

// Transform restyles every non-empty block of doc without writing anything.
func Transform(doc *doctree.Document, opts Options) Result {
	c := classifier(opts)
	res := Result{Roles: classify.Counts{}}
	for _, b := range doc.Blocks {
		if b.Empty() {
			res.Dropped++
			continue
		}
		out := Block(c, b)
		res.add(out)
	}
	return res
}

// Run restyles doc block by block, writes each block to w and saves it.
// Cancellation is checked between blocks; a cancelled run never saves.
func Run(ctx context.Context, doc *doctree.Document, w Writer, log *slog.Logger, opts Options) (Result, error) {
	c := classifier(opts)
	res := Result{Roles: classify.Counts{}}

	for _, b := range doc.Blocks {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("reformat cancelled at block %d: %w", b.Position, err)
		}
		if b.Empty() {
			res.Dropped++
			continue
		}
		out := Block(c, b)
		if err := w.WriteBlock(out); err != nil {
			return Result{}, fmt.Errorf("write block %d: %w", b.Position, err)
		}
		res.add(out)
	}

	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("reformat cancelled: %w", err)
	}
	if err := w.Save(); err != nil {
		return Result{}, fmt.Errorf("save output: %w", err)
	}

	log.Info("reformat complete",
		"blocks", len(res.Blocks),
		"dropped", res.Dropped,
		"questions", res.Roles[classify.Question],
		"options", res.Roles[classify.Option],
		"answers", res.Roles[classify.Answer],
		"math", res.Math,
	)
	return res, nil
}

func (r *Result) add(out OutputBlock) {
	r.Blocks = append(r.Blocks, out)
	r.Roles.Add(out.Role)
	r.Math += len(out.Math)
}

func classifier(opts Options) *classify.Classifier {
	if opts.Classifier != nil {
		return opts.Classifier
	}
	return classify.New()
}
