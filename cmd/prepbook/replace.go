package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgallion1/prepbook/internal/inlinemath"
	"github.com/dgallion1/prepbook/internal/surface"
)

var replaceCmd = &cobra.Command{
	Use:   "replace <file>",
	Short: "Replace $...$ LaTeX in a document with structured math",
	Long: `Replace converts every inline math span of a .txt, .md, .html or .docx file.
Text, Markdown and HTML get MathML; docx paragraphs get Office Math. Spans that
do not convert are left as typed and reported on stderr. The result is written
to <name>_math<ext> unless --output is given.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: bindFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		out := viper.GetString("output")
		if out == "" {
			ext := filepath.Ext(path)
			out = filepath.Join(filepath.Dir(path), outputName(path, "_math"+ext))
		}
		res, err := replaceFile(cmd.Context(), logger(cmd), path, out, viper.GetBool("plain"))
		if err != nil {
			return err
		}
		for _, f := range res.Failures {
			fmt.Fprintf(cmd.ErrOrStderr(), "not converted: %s\n", f.Error())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%d of %d spans replaced)\n", path, out, res.Replaced, res.Spans)
		return nil
	},
}

func init() {
	replaceCmd.Flags().StringP("output", "o", "", "output file")
	replaceCmd.Flags().Bool("plain", false, "upright presentation style")

	rootCmd.AddCommand(replaceCmd)
}

func replaceFile(ctx context.Context, log *slog.Logger, path, out string, plain bool) (inlinemath.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return inlinemath.Result{}, err
	}
	doc, err := surface.Open(path, data)
	if err != nil {
		return inlinemath.Result{}, err
	}
	res, err := inlinemath.Process(ctx, doc.Surfaces(), log.With("file", path), inlinemath.Options{Plain: plain})
	if err != nil {
		return res, err
	}
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return res, fmt.Errorf("render %s: %w", path, err)
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return res, err
	}
	return res, nil
}
