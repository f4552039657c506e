package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgallion1/prepbook/internal/mathml"
	"github.com/dgallion1/prepbook/internal/mathspan"
)

var detectCmd = &cobra.Command{
	Use:   "detect [file]",
	Short: "List the $...$ spans of a text and whether each converts",
	Long: `Detect prints every inline math span of the file (or stdin) with its byte
offsets and, when conversion fails, the reason. It exits non-zero when any
span does not convert, so it can gate a sheet before replacement.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: bindFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		var text string
		if len(args) == 1 && args[0] != "-" {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			text = string(b)
		} else {
			s, err := argOrStdin(cmd, nil)
			if err != nil {
				return err
			}
			text = s
		}

		reports := detectSpans(text)
		out := cmd.OutOrStdout()
		if viper.GetBool("json") {
			enc := json.NewEncoder(out)
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			if err := enc.Encode(reports); err != nil {
				return err
			}
		} else {
			for _, r := range reports {
				status := "ok"
				if r.Error != "" {
					status = r.Error
				}
				fmt.Fprintf(out, "%d-%d\t%s\t%s\n", r.Start, r.End, r.Raw, status)
			}
		}

		failed := 0
		for _, r := range reports {
			if r.Error != "" {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d spans do not convert", failed, len(reports))
		}
		return nil
	},
}

func init() {
	detectCmd.Flags().Bool("json", false, "print spans as JSON")

	rootCmd.AddCommand(detectCmd)
}

type spanReport struct {
	mathspan.Span
	Error string `json:"error,omitempty"`
}

func detectSpans(text string) []spanReport {
	reports := []spanReport{}
	for span := range mathspan.All(text) {
		r := spanReport{Span: span}
		if _, err := mathml.Convert(span.Raw); err != nil {
			r.Error = err.Error()
		}
		reports = append(reports, r)
	}
	return reports
}
