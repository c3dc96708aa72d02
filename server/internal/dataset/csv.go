package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/obsidianstack/launchdash/pkg/launch"
	"github.com/obsidianstack/launchdash/server/internal/config"
)

// LoadCSV reads launch records from the CSV file at path.
func LoadCSV(path string, cols config.Columns, strict bool) ([]launch.Record, Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Report{}, fmt.Errorf("dataset: open csv: %w", err)
	}
	defer f.Close()
	return ReadCSV(f, cols, strict)
}

// ReadCSV reads launch records from r. The first row must be a header
// naming every column in cols.
func ReadCSV(r io.Reader, cols config.Columns, strict bool) ([]launch.Record, Report, error) {
	var rep Report

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, rep, fmt.Errorf("dataset: read csv: empty file")
	}
	if err != nil {
		return nil, rep, fmt.Errorf("dataset: read csv header: %w", err)
	}

	idx, err := columnIndex(header, cols)
	if err != nil {
		return nil, rep, err
	}

	var records []launch.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, rep, fmt.Errorf("dataset: read csv: %w", err)
		}
		if len(row) <= idx.max {
			return nil, rep, fmt.Errorf("dataset: line %d: %d fields, want at least %d", line, len(row), idx.max+1)
		}

		payload, payloadErr := parsePayload(row[idx.payload])
		outcome, outcomeErr := parseOutcome(row[idx.outcome])
		keep, err := admit(&rep, strict, payloadErr, outcomeErr)
		if err != nil {
			return nil, rep, fmt.Errorf("dataset: line %d: %w", line, err)
		}
		if !keep {
			continue
		}
		records = append(records, launch.Record{
			Site:            strings.TrimSpace(row[idx.site]),
			PayloadMassKg:   payload,
			BoosterCategory: strings.TrimSpace(row[idx.booster]),
			Outcome:         outcome,
		})
	}
	return records, rep, nil
}

type columns struct {
	site, payload, booster, outcome int
	max                             int
}

// columnIndex resolves header positions. Header cells are matched after
// trimming whitespace and a UTF-8 byte order mark.
func columnIndex(header []string, cols config.Columns) (columns, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}

	var c columns
	var missing []string
	lookup := func(name string, dst *int) {
		i, ok := pos[name]
		if !ok {
			missing = append(missing, fmt.Sprintf("%q", name))
			return
		}
		*dst = i
		if i > c.max {
			c.max = i
		}
	}
	lookup(cols.Site, &c.site)
	lookup(cols.Payload, &c.payload)
	lookup(cols.Booster, &c.booster)
	lookup(cols.Outcome, &c.outcome)
	if len(missing) > 0 {
		return c, fmt.Errorf("dataset: csv header missing column(s) %s", strings.Join(missing, ", "))
	}
	return c, nil
}
