package launch

import "math"

// Outcome is the launch result flag. The source encodes it as 1 (success) or
// 0 (failure). Leniently loaded datasets may carry other values; aggregates
// only count exact matches.
type Outcome int

const (
	Failure Outcome = 0
	Success Outcome = 1
)

// Valid reports whether o is Success or Failure.
func (o Outcome) Valid() bool { return o == Success || o == Failure }

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// Record is one launch row.
type Record struct {
	Site            string  `json:"site"`
	PayloadMassKg   float64 `json:"payload_mass_kg"`
	BoosterCategory string  `json:"booster_category"`
	Outcome         Outcome `json:"outcome"`
}

// Dataset is an ordered, immutable sequence of records. Load order is
// preserved so that group ordering downstream is reproducible.
type Dataset struct {
	records []Record
	sites   []string
	min     float64
	max     float64
}

// NewDataset copies records into a new Dataset. Later changes to the input
// slice do not affect the Dataset.
func NewDataset(records []Record) *Dataset {
	ds := &Dataset{records: make([]Record, len(records))}
	copy(ds.records, records)

	seen := make(map[string]struct{})
	ds.min, ds.max = math.Inf(1), math.Inf(-1)
	for _, r := range ds.records {
		if _, ok := seen[r.Site]; !ok {
			seen[r.Site] = struct{}{}
			ds.sites = append(ds.sites, r.Site)
		}
		ds.min = math.Min(ds.min, r.PayloadMassKg)
		ds.max = math.Max(ds.max, r.PayloadMassKg)
	}
	if len(ds.records) == 0 {
		ds.min, ds.max = 0, 0
	}
	return ds
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Records returns a copy of all records in load order.
func (d *Dataset) Records() []Record {
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// Sites returns the distinct launch sites in first-seen order.
func (d *Dataset) Sites() []string {
	out := make([]string, len(d.sites))
	copy(out, d.sites)
	return out
}

// HasSite reports whether any record was launched from site.
func (d *Dataset) HasSite(site string) bool {
	for _, s := range d.sites {
		if s == site {
			return true
		}
	}
	return false
}

// PayloadBounds returns the smallest and largest observed payload mass.
// Both are zero for an empty dataset.
func (d *Dataset) PayloadBounds() (min, max float64) { return d.min, d.max }

// Filter applies criteria to the whole dataset.
func (d *Dataset) Filter(c Criteria) []Record { return Filter(d.records, c) }
