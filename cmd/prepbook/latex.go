package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgallion1/prepbook/internal/mcq"
	"github.com/dgallion1/prepbook/internal/parser"
	"github.com/dgallion1/prepbook/internal/reformat"
)

var latexCmd = &cobra.Command{
	Use:   "latex [files...]",
	Short: "Export the questions of MCQ sheets with equations as LaTeX",
	Long: `Latex assembles the questions of each sheet (stem, options, answer,
explanation and [tag] references) and writes them as JSON or CSV. Embedded
equations are written as $...$ LaTeX at their original position.`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: bindFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := viper.GetString("format")
		if format != "json" && format != "csv" {
			return fmt.Errorf("unknown format %q", format)
		}
		parsers := parser.Options{FallbackPdftotext: viper.GetBool("pdftotext")}
		log := logger(cmd)

		var questions []mcq.Question
		for _, path := range args {
			doc, err := parseFile(path, parsers)
			if err != nil {
				return err
			}
			qs := mcq.Assemble(reformat.Transform(doc, reformat.Options{}).Blocks)
			log.Info("assembled questions", "file", path, "questions", len(qs))
			questions = append(questions, qs...)
		}

		if name := viper.GetString("output"); name != "" {
			return exportFile(name, format, questions)
		}
		return writeQuestions(cmd.OutOrStdout(), format, questions)
	},
}

func init() {
	latexCmd.Flags().String("format", "json", "output format: json or csv")
	latexCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	latexCmd.Flags().Bool("pdftotext", true, "fall back to pdftotext for PDFs without a text layer")

	rootCmd.AddCommand(latexCmd)
}

func writeQuestions(w io.Writer, format string, questions []mcq.Question) error {
	switch format {
	case "json":
		return mcq.WriteJSON(w, questions)
	case "csv":
		return mcq.WriteCSV(w, questions)
	}
	return fmt.Errorf("unknown format %q", format)
}
