package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgallion1/prepbook/internal/mathml"
)

var convertCmd = &cobra.Command{
	Use:   "convert [latex]",
	Short: "Convert one LaTeX expression to MathML or Office Math",
	Long: `Convert parses a LaTeX expression (without $ delimiters) and prints it as
MathML, OMML or the plain token text. With no argument or "-" the expression
is read from stdin.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: bindFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := argOrStdin(cmd, args)
		if err != nil {
			return err
		}
		tree, err := mathml.Convert(strings.TrimSpace(raw))
		if err != nil {
			return err
		}
		if viper.GetBool("plain") {
			tree = mathml.Plain(tree)
		}
		out := cmd.OutOrStdout()
		switch format := viper.GetString("format"); format {
		case "mathml":
			fmt.Fprintln(out, tree.MathML())
		case "omml":
			fmt.Fprintln(out, tree.OMMLString())
		case "text":
			fmt.Fprintln(out, tree.Text())
		default:
			return fmt.Errorf("unknown format %q", format)
		}
		return nil
	},
}

func init() {
	convertCmd.Flags().String("format", "mathml", "output: mathml, omml or text")
	convertCmd.Flags().Bool("plain", false, "upright presentation style")

	rootCmd.AddCommand(convertCmd)
}

func argOrStdin(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}
