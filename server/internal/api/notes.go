package api

import (
	"fmt"
	"sort"

	"github.com/obsidianstack/launchdash/pkg/launch"
)

// Note is one human-readable remark about a view. The page shows these as
// chips under the charts; Detail is the full sentence shown on hover.
type Note struct {
	// Key is a stable machine-readable identifier.
	Key string `json:"key"`
	// Level is "ok" | "info" | "warning"
	Level string `json:"level"`
	// Title is a short label shown on the chip.
	Title string `json:"title"`
	// Detail is the full explanation.
	Detail string `json:"detail"`
	// Value is an optional number associated with the note (e.g. success %).
	Value *float64 `json:"value,omitempty"`
}

var levelRank = map[string]int{"warning": 0, "info": 1, "ok": 2}

// computeNotes derives notes from a computed view. Warnings come first,
// then info, then ok.
func computeNotes(v launch.View, ds *launch.Dataset) []Note {
	notes := make([]Note, 0, 3)
	c := v.Criteria
	where := "all sites"
	if !c.AllSites() {
		where = c.Site
	}

	// Nothing matched.
	if v.Matched == 0 {
		if !c.AllSites() && !ds.HasSite(c.Site) {
			notes = append(notes, Note{
				Key:   "unknown_site",
				Level: "warning",
				Title: "Unknown site",
				Detail: fmt.Sprintf(
					"There are no launches recorded for %q. Pick a site from the dropdown "+
						"or choose All Sites.", c.Site),
			})
			return notes
		}
		notes = append(notes, Note{
			Key:   "no_matches",
			Level: "info",
			Title: "No launches in range",
			Detail: fmt.Sprintf(
				"No launches from %s carried a payload between %s and %s kg. "+
					"Widen the payload range to see more.",
				where, kg(c.Payload.Min), kg(c.Payload.Max)),
		})
		return notes
	}

	// Records whose outcome is neither success nor failure.
	counted := v.Summary.Success + v.Summary.Failure
	if odd := v.Matched - counted; odd > 0 {
		n := float64(odd)
		notes = append(notes, Note{
			Key:   "outcome_mismatch",
			Level: "warning",
			Title: fmt.Sprintf("%d uncounted", odd),
			Detail: fmt.Sprintf(
				"%d of %d matching launches have an outcome other than 0 or 1. "+
					"They appear in the scatter chart but not in the pie chart.",
				odd, v.Matched),
			Value: &n,
		})
	}

	// Payload range hides part of the selection.
	lo, hi := ds.PayloadBounds()
	total := len(ds.Filter(launch.Criteria{Site: c.Site, Payload: launch.Range{Min: lo, Max: hi}}))
	if hidden := total - v.Matched; hidden > 0 {
		n := float64(hidden)
		notes = append(notes, Note{
			Key:   "range_excludes",
			Level: "info",
			Title: fmt.Sprintf("%d outside range", hidden),
			Detail: fmt.Sprintf(
				"Showing %d of %d launches from %s. The other %d fall outside %s to %s kg.",
				v.Matched, total, where, hidden, kg(c.Payload.Min), kg(c.Payload.Max)),
			Value: &n,
		})
	}

	// Success rate.
	if counted > 0 {
		rate := float64(v.Summary.Success) / float64(counted) * 100
		level := "ok"
		if rate < 50 {
			level = "info"
		}
		notes = append(notes, Note{
			Key:   "success_rate",
			Level: level,
			Title: fmt.Sprintf("%.0f%% success", rate),
			Detail: fmt.Sprintf(
				"%d of %d launches from %s between %s and %s kg succeeded.",
				v.Summary.Success, counted, where, kg(c.Payload.Min), kg(c.Payload.Max)),
			Value: &rate,
		})
	}

	sort.SliceStable(notes, func(i, j int) bool {
		return levelRank[notes[i].Level] < levelRank[notes[j].Level]
	})
	return notes
}

func kg(v float64) string { return fmt.Sprintf("%.0f", v) }
