// Package launch holds the launch-record model and the filter-and-aggregate
// transformation behind the dashboard charts.
//
// A Dataset is built once from loaded records and never mutated. Every
// interaction is a pure function of (dataset, site, payload interval):
//
//	Filter:      records matching a site (or AllSites) and an inclusive payload range
//	Summarize:   success/failure counts for the pie chart
//	BuildSeries: per-booster-category points for the scatter chart,
//	             groups in first-seen order
//	Compute:     Filter followed by both aggregates on the same subset
//
// Nothing in this package returns an error: an unknown site or an interval
// that excludes every record yields an empty subset, zero counts and an empty
// group list.
package launch
