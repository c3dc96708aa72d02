package launch

import "strconv"

// AllSites is the site selection that disables the site predicate.
const AllSites = "ALL"

// Range is an inclusive payload-mass interval in kilograms.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether Min <= kg <= Max.
func (r Range) Contains(kg float64) bool { return kg >= r.Min && kg <= r.Max }

// Inverted reports whether the range cannot match anything because Min > Max.
func (r Range) Inverted() bool { return r.Min > r.Max }

// Criteria is the selector state of one interaction.
type Criteria struct {
	Site    string `json:"site"`
	Payload Range  `json:"payload_range"`
}

// AllSites reports whether the site predicate is disabled.
func (c Criteria) AllSites() bool { return c.Site == AllSites }

// Key returns a canonical string for c, suitable as a cache key.
func (c Criteria) Key() string {
	return c.Site + "|" +
		strconv.FormatFloat(c.Payload.Min, 'g', -1, 64) + "|" +
		strconv.FormatFloat(c.Payload.Max, 'g', -1, 64)
}

// Filter returns, in their original order, the records whose payload lies in
// c.Payload and whose site equals c.Site unless c.Site is AllSites.
//
// The result is always a new non-nil slice; records is never modified.
// Filtering a result again with the same criteria returns an equal slice.
func Filter(records []Record, c Criteria) []Record {
	out := make([]Record, 0)
	for _, r := range records {
		if !c.Payload.Contains(r.PayloadMassKg) {
			continue
		}
		if !c.AllSites() && r.Site != c.Site {
			continue
		}
		out = append(out, r)
	}
	return out
}
