package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/obsidianstack/launchdash/server/internal/config"
	"github.com/obsidianstack/launchdash/server/internal/dataset"
)

var (
	importCSV     string
	importDB      string
	importTable   string
	importLenient bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy a launch-records CSV into a SQLite database",
	Long: `Reads a CSV with the default column names and replaces the contents of
the given SQLite table with its rows, keeping their order. Point the server
at the database with dataset.source: sqlite.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importCSV, "csv", "", "CSV file to import (required)")
	importCmd.Flags().StringVar(&importDB, "db", "", "SQLite database file (required)")
	importCmd.Flags().StringVar(&importTable, "table", config.DefaultTable, "table name")
	importCmd.Flags().BoolVar(&importLenient, "lenient", false, "skip bad rows instead of failing")
}

func runImport(cmd *cobra.Command, _ []string) error {
	if importCSV == "" || importDB == "" {
		return errors.New("import: --csv and --db are required")
	}
	logger := newLogger(cmd.ErrOrStderr(), slog.LevelWarn)

	records, rep, err := dataset.LoadCSV(importCSV, config.DefaultColumns(), !importLenient)
	if err != nil {
		return err
	}

	db, err := dataset.OpenDB(importDB, logger)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := dataset.Import(cmd.Context(), db, importTable, records); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d rows into %s (table %s), skipped %d\n",
		rep.Kept, rep.Read, importDB, importTable, rep.Skipped())
	return nil
}
