package dataset

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/obsidianstack/launchdash/pkg/launch"
	"github.com/obsidianstack/launchdash/server/internal/config"
)

// Load builds the process-wide Dataset from the configured source.
func Load(ctx context.Context, cfg config.DatasetConfig, l *slog.Logger) (*launch.Dataset, Report, error) {
	var (
		records []launch.Record
		rep     Report
		err     error
	)
	switch cfg.Source {
	case "csv":
		records, rep, err = LoadCSV(cfg.Path, cfg.Columns, cfg.Strict)
	case "sqlite":
		db, openErr := OpenDB(cfg.Path, l)
		if openErr != nil {
			return nil, rep, openErr
		}
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			defer sqlDB.Close()
		}
		records, rep, err = LoadDB(ctx, db, cfg.Table, cfg.Strict)
	default:
		return nil, rep, fmt.Errorf("dataset: unknown source %q", cfg.Source)
	}
	if err != nil {
		return nil, rep, err
	}

	if rep.Skipped() > 0 || rep.UnknownOutcome > 0 {
		l.Warn("dataset: rows failed integrity checks",
			"skipped_payload", rep.SkippedPayload,
			"skipped_outcome", rep.SkippedOutcome,
			"unknown_outcome", rep.UnknownOutcome,
		)
	}

	ds := launch.NewDataset(records)
	lo, hi := ds.PayloadBounds()
	l.Info("dataset loaded",
		"source", cfg.Source,
		"path", cfg.Path,
		"records", ds.Len(),
		"sites", len(ds.Sites()),
		"payload_min", lo,
		"payload_max", hi,
	)
	return ds, rep, nil
}
