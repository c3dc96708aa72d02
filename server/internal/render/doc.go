// Package render draws the dashboard's two charts with go-chart.
//
//   - Pie: success/failure donut for a Summary
//   - Scatter: payload vs outcome, one dot series per booster category
//
// Both write PNG or SVG at a fixed size and return ErrNoData when there is
// nothing to draw, so callers can answer with an empty response instead.
package render
