// Package main is the prepbook command line: it restyles MCQ sheets into
// docx preparation books and converts inline LaTeX in documents.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "prepbook",
	Short: "Build Bangla MCQ preparation books and convert inline math",
	Long: `prepbook restyles multiple-choice question sheets into two-column docx
preparation books, keeping every embedded equation with its block. It also
finds $...$ LaTeX in text, Markdown, HTML and docx files and replaces it with
MathML or Office Math.

Settings can come from flags, PREPBOOK_* environment variables or a
prepbook.yaml file in the working directory or ~/.config/prepbook.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./prepbook.yaml or ~/.config/prepbook/prepbook.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging on stderr")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("prepbook")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "prepbook"))
		}
	}

	viper.SetEnvPrefix("PREPBOOK")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// logger writes text records to stderr so stdout stays clean for output.
func logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// bindFlags exposes the flags of the running command to viper, so a flag
// left at its default can still be set from the environment or config file.
// Subcommands share key names, so binding waits until one is chosen.
func bindFlags(cmd *cobra.Command, _ []string) error {
	return viper.BindPFlags(cmd.Flags())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
