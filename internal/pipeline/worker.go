package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/prepbook/internal/docxout"
	"github.com/dgallion1/prepbook/internal/mcq"
	"github.com/dgallion1/prepbook/internal/parser"
	"github.com/dgallion1/prepbook/internal/reformat"
	"github.com/dgallion1/prepbook/internal/stats"
)

// Worker processes a single document job.
type Worker struct {
	log     *slog.Logger
	stats   *stats.Recorder
	parsers parser.Options
}

func NewWorker(log *slog.Logger, rec *stats.Recorder, parsers parser.Options) *Worker {
	return &Worker{log: log, stats: rec, parsers: parsers}
}

// Process parses the job's file, restyles it into a docx document and
// assembles its questions.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	start := time.Now()

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename, w.parsers)
	if err != nil {
		w.fail(log, job, "parsing", "unsupported format", err)
		return
	}
	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		w.fail(log, job, "parsing", "parse failed", fmt.Errorf("parse: %w", err))
		return
	}
	if job.Title != "" {
		doc.Title = job.Title
	}
	log.Info("parsed document", "blocks", len(doc.Blocks), "math", doc.MathCount())

	// Phase 2: Reformat into docx.
	job.SetStatus(StatusReformatting, "reformatting")
	var out bytes.Buffer
	dw, err := docxout.New(&out, job.Layout)
	if err != nil {
		w.fail(log, job, "reformatting", "bad layout", err)
		return
	}
	res, err := reformat.Run(ctx, doc, dw, log, reformat.Options{})
	if err != nil {
		w.fail(log, job, "reformatting", "reformat failed", err)
		return
	}

	questions := mcq.Assemble(res.Blocks)
	job.Complete(out.Bytes(), questions, Progress{
		Blocks:    len(res.Blocks),
		Dropped:   res.Dropped,
		Math:      res.Math,
		Questions: len(questions),
		Roles:     res.Roles,
	})
	w.stats.Record(stats.OpReformat, time.Since(start))
	log.Info("job complete", "blocks", len(res.Blocks), "questions", len(questions), "bytes", out.Len())
}

func (w *Worker) fail(log *slog.Logger, job *Job, phase, msg string, err error) {
	log.Error(msg, "error", err)
	job.AddError(err.Error())
	job.SetStatus(StatusFailed, phase)
	w.stats.Fail(stats.OpReformat)
}
