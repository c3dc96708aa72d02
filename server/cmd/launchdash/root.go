package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "launchdash",
	Short: "Interactive dashboard of historical rocket launches",
	Long: "launchdash loads a launch-records dataset and serves a page with a site\n" +
		"selector, a payload range selector, a success pie chart and a payload\n" +
		"vs outcome scatter chart.",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.Version = version
}

// newLogger returns a JSON slog logger writing to w at level.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
