package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/obsidianstack/launchdash/pkg/launch"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// launchRow is the SQLite shape of a launch.Record. Seq keeps load order.
type launchRow struct {
	ID              uint    `gorm:"primaryKey"`
	Seq             int     `gorm:"not null;index"`
	Site            string  `gorm:"not null"`
	PayloadMassKg   float64 `gorm:"not null"`
	BoosterCategory string  `gorm:"not null"`
	Outcome         int     `gorm:"not null"`
}

// OpenDB opens (or creates) the SQLite database at path.
func OpenDB(path string, l *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: NewGormLogger(l)})
	if err != nil {
		return nil, fmt.Errorf("dataset: open sqlite %q: %w", path, err)
	}
	applyPragmas(context.Background(), db, l)
	return db, nil
}

// applyPragmas sets SQLite options. Failures are logged, not fatal.
func applyPragmas(ctx context.Context, db *gorm.DB, l *slog.Logger) {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, p := range pragmas {
		if err := db.WithContext(ctx).Exec(p).Error; err != nil {
			l.Warn("dataset: pragma failed", "pragma", p, "err", err)
		}
	}
}

// Import replaces the contents of table with records, keeping their order.
func Import(ctx context.Context, db *gorm.DB, table string, records []launch.Record) error {
	if !tableName.MatchString(table) {
		return fmt.Errorf("dataset: invalid table name %q", table)
	}
	rows := make([]launchRow, len(records))
	for i, r := range records {
		rows[i] = launchRow{
			Seq:             i,
			Site:            r.Site,
			PayloadMassKg:   r.PayloadMassKg,
			BoosterCategory: r.BoosterCategory,
			Outcome:         int(r.Outcome),
		}
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(table).AutoMigrate(&launchRow{}); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		if err := tx.Exec(fmt.Sprintf("DELETE FROM %q", table)).Error; err != nil {
			return fmt.Errorf("clear: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Table(table).CreateInBatches(&rows, 200).Error; err != nil {
			return fmt.Errorf("insert: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("dataset: import into %q: %w", table, err)
	}
	return nil
}

// LoadDB reads every record of table in load order and applies the row checks.
func LoadDB(ctx context.Context, db *gorm.DB, table string, strict bool) ([]launch.Record, Report, error) {
	var rep Report
	if !tableName.MatchString(table) {
		return nil, rep, fmt.Errorf("dataset: invalid table name %q", table)
	}

	var rows []launchRow
	if err := db.WithContext(ctx).Table(table).Order("seq").Find(&rows).Error; err != nil {
		return nil, rep, fmt.Errorf("dataset: read %q: %w", table, err)
	}

	records := make([]launch.Record, 0, len(rows))
	for _, row := range rows {
		var payloadErr, outcomeErr error
		if row.PayloadMassKg < 0 {
			payloadErr = fmt.Errorf("%w: %g", ErrNegativePayload, row.PayloadMassKg)
		}
		o := launch.Outcome(row.Outcome)
		if !o.Valid() {
			outcomeErr = fmt.Errorf("%w: %d", ErrUnknownOutcome, row.Outcome)
		}
		keep, err := admit(&rep, strict, payloadErr, outcomeErr)
		if err != nil {
			return nil, rep, fmt.Errorf("dataset: %s seq %d: %w", table, row.Seq, err)
		}
		if !keep {
			continue
		}
		records = append(records, launch.Record{
			Site:            row.Site,
			PayloadMassKg:   row.PayloadMassKg,
			BoosterCategory: row.BoosterCategory,
			Outcome:         o,
		})
	}
	return records, rep, nil
}
