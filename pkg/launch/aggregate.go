package launch

import "fmt"

// Summary is the pie-chart aggregate.
type Summary struct {
	Success int    `json:"success_count"`
	Failure int    `json:"failure_count"`
	Title   string `json:"title"`
}

// Point is one scatter marker.
type Point struct {
	PayloadMassKg float64 `json:"payload_mass_kg"`
	Outcome       Outcome `json:"outcome"`
}

// Group is the scatter series of one booster category.
type Group struct {
	Category string  `json:"category"`
	Points   []Point `json:"points"`
}

// SeriesResult is the scatter-chart aggregate.
type SeriesResult struct {
	Title  string  `json:"title"`
	Groups []Group `json:"groups"`
}

// View is everything one interaction produces.
type View struct {
	Criteria Criteria     `json:"criteria"`
	Matched  int          `json:"matched"`
	Summary  Summary      `json:"summary"`
	Series   SeriesResult `json:"series"`
}

// SummaryTitle returns the pie-chart title for a site selection.
func SummaryTitle(site string) string {
	if site == AllSites {
		return "Total Success Launches for All Sites"
	}
	return fmt.Sprintf("Success vs Failure for %s", site)
}

// SeriesTitle returns the scatter-chart title for a site selection.
func SeriesTitle(site string) string {
	if site == AllSites {
		return "Correlation between Payload and Success for all Sites"
	}
	return fmt.Sprintf("Correlation between Payload and Success for %s", site)
}

// Summarize counts successes and failures in subset. Each count only includes
// records with exactly that outcome, so the two need not add up to
// len(subset) when the subset holds out-of-range outcomes.
func Summarize(subset []Record, site string) Summary {
	s := Summary{Title: SummaryTitle(site)}
	for _, r := range subset {
		switch r.Outcome {
		case Success:
			s.Success++
		case Failure:
			s.Failure++
		}
	}
	return s
}

// BuildSeries groups subset by booster category. Groups appear in the order
// their category is first seen in subset and points keep subset order.
func BuildSeries(subset []Record, site string) SeriesResult {
	res := SeriesResult{Title: SeriesTitle(site), Groups: make([]Group, 0)}
	index := make(map[string]int)
	for _, r := range subset {
		i, ok := index[r.BoosterCategory]
		if !ok {
			i = len(res.Groups)
			index[r.BoosterCategory] = i
			res.Groups = append(res.Groups, Group{Category: r.BoosterCategory})
		}
		res.Groups[i].Points = append(res.Groups[i].Points, Point{
			PayloadMassKg: r.PayloadMassKg,
			Outcome:       r.Outcome,
		})
	}
	return res
}

// Compute filters ds by c and aggregates the subset for both charts.
func Compute(ds *Dataset, c Criteria) View {
	subset := ds.Filter(c)
	return View{
		Criteria: c,
		Matched:  len(subset),
		Summary:  Summarize(subset, c.Site),
		Series:   BuildSeries(subset, c.Site),
	}
}
