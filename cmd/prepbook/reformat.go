package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgallion1/prepbook/internal/docxout"
	"github.com/dgallion1/prepbook/internal/doctree"
	"github.com/dgallion1/prepbook/internal/mcq"
	"github.com/dgallion1/prepbook/internal/parser"
	"github.com/dgallion1/prepbook/internal/reformat"
)

var reformatCmd = &cobra.Command{
	Use:   "reformat [files...]",
	Short: "Restyle MCQ sheets into docx preparation books",
	Long: `Reformat reads each source sheet (.docx, .md, .html, .pdf or .txt),
classifies every block as question, option, answer or plain text, applies the
book style and writes <name>_reformatted.docx. Equations stay with their block,
either as their own paragraph or inline at their original position.`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: bindFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		layout := docxout.Options{
			Columns:   viper.GetInt("columns"),
			Placement: docxout.Placement(viper.GetString("placement")),
		}
		if _, err := docxout.ParsePlacement(string(layout.Placement)); err != nil {
			return err
		}
		opts := reformatOptions{
			Layout:  layout,
			OutDir:  viper.GetString("out-dir"),
			MCQ:     viper.GetString("mcq"),
			Parsers: parser.Options{FallbackPdftotext: viper.GetBool("pdftotext")},
		}
		log := logger(cmd)
		for _, path := range args {
			sum, err := reformatFile(cmd.Context(), log, path, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%d blocks, %d questions, %d equations)\n",
				path, sum.Output, sum.Blocks, sum.Questions, sum.Math)
		}
		return nil
	},
}

func init() {
	reformatCmd.Flags().Int("columns", 2, "number of page columns")
	reformatCmd.Flags().String("placement", string(docxout.PlacementParagraph), "equation placement: paragraph or inline")
	reformatCmd.Flags().String("out-dir", "", "output directory (default: next to each source)")
	reformatCmd.Flags().String("mcq", "", "also export questions: json or csv")
	reformatCmd.Flags().Bool("pdftotext", true, "fall back to pdftotext for PDFs without a text layer")

	rootCmd.AddCommand(reformatCmd)
}

type reformatOptions struct {
	Layout  docxout.Options
	OutDir  string
	MCQ     string
	Parsers parser.Options
}

type reformatSummary struct {
	Output    string
	Blocks    int
	Questions int
	Math      int
}

func reformatFile(ctx context.Context, log *slog.Logger, path string, opts reformatOptions) (reformatSummary, error) {
	log = log.With("file", path)
	doc, err := parseFile(path, opts.Parsers)
	if err != nil {
		return reformatSummary{}, err
	}

	dir := opts.OutDir
	if dir == "" {
		dir = filepath.Dir(path)
	}
	out := filepath.Join(dir, outputName(path, "_reformatted.docx"))
	f, err := os.Create(out)
	if err != nil {
		return reformatSummary{}, fmt.Errorf("create output: %w", err)
	}
	w, err := docxout.New(f, opts.Layout)
	if err != nil {
		f.Close()
		os.Remove(out)
		return reformatSummary{}, err
	}
	res, err := reformat.Run(ctx, doc, w, log, reformat.Options{})
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close output: %w", cerr)
	}
	if err != nil {
		os.Remove(out)
		return reformatSummary{}, fmt.Errorf("%s: %w", path, err)
	}

	questions := mcq.Assemble(res.Blocks)
	if opts.MCQ != "" {
		name := filepath.Join(dir, outputName(path, "_mcq."+opts.MCQ))
		if err := exportFile(name, opts.MCQ, questions); err != nil {
			return reformatSummary{}, err
		}
		log.Info("exported questions", "output", name, "questions", len(questions))
	}
	return reformatSummary{Output: out, Blocks: len(res.Blocks), Questions: len(questions), Math: res.Math}, nil
}

func parseFile(path string, opts parser.Options) (*doctree.Document, error) {
	p, err := parser.ForFile(path, opts)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := p.Parse(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func exportFile(name, format string, questions []mcq.Question) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := writeQuestions(f, format, questions); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// outputName swaps the extension of path's base name for suffix.
func outputName(path, suffix string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + suffix
}
