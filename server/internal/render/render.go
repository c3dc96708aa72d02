package render

import (
	"errors"
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/obsidianstack/launchdash/pkg/launch"
)

// Chart dimensions in pixels.
const (
	Width  = 800
	Height = 450
)

// ErrNoData is returned when a chart would have no visible marks.
var ErrNoData = errors.New("render: nothing to draw")

// Format is an output image format.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ParseFormat maps a query value to a Format. Empty means PNG.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "png":
		return PNG, nil
	case "svg":
		return SVG, nil
	default:
		return "", fmt.Errorf("render: unknown format %q", s)
	}
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() chart.RendererProvider {
	if f == SVG {
		return chart.SVG
	}
	return chart.PNG
}

// Pie draws s as a donut with Success and Failure slices. Empty slices are
// left out; a summary with no counted records yields ErrNoData.
func Pie(w io.Writer, s launch.Summary, f Format) error {
	values := make([]chart.Value, 0, 2)
	if s.Success > 0 {
		values = append(values, chart.Value{Label: "Success", Value: float64(s.Success)})
	}
	if s.Failure > 0 {
		values = append(values, chart.Value{Label: "Failure", Value: float64(s.Failure)})
	}
	if len(values) == 0 {
		return ErrNoData
	}

	donut := chart.DonutChart{
		Title:  s.Title,
		Width:  Width,
		Height: Height,
		Values: values,
	}
	if err := donut.Render(f.provider(), w); err != nil {
		return fmt.Errorf("render: pie: %w", err)
	}
	return nil
}

// Scatter draws one dot series per group of res, with payload on the X axis
// and outcome class on the Y axis. The X axis spans the criteria's payload
// range so the chart frame matches the selector.
func Scatter(w io.Writer, res launch.SeriesResult, payload launch.Range, f Format) error {
	series := make([]chart.Series, 0, len(res.Groups))
	for i, g := range res.Groups {
		if len(g.Points) == 0 {
			continue
		}
		xs := make([]float64, len(g.Points))
		ys := make([]float64, len(g.Points))
		for j, p := range g.Points {
			xs[j] = p.PayloadMassKg
			ys[j] = float64(p.Outcome)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    g.Category,
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(i),
		})
	}
	if len(series) == 0 {
		return ErrNoData
	}

	lo, hi := xBounds(res, payload)
	ch := chart.Chart{
		Title:      res.Title,
		Width:      Width,
		Height:     Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  "Payload Mass (kg)",
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		YAxis: chart.YAxis{
			Name:  "Class",
			Range: &chart.ContinuousRange{Min: -0.25, Max: 1.25},
			Ticks: []chart.Tick{{Value: 0, Label: "0"}, {Value: 1, Label: "1"}},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(f.provider(), w); err != nil {
		return fmt.Errorf("render: scatter: %w", err)
	}
	return nil
}

// pointStyle renders dots only, colored from the library palette.
func pointStyle(i int) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    5,
		DotColor:    chart.GetDefaultColor(i),
	}
}

// xBounds returns the X axis range. It starts from the selected payload
// range, widens to cover any point outside it, and pads a degenerate range
// since go-chart rejects zero-width axes.
func xBounds(res launch.SeriesResult, payload launch.Range) (float64, float64) {
	lo, hi := payload.Min, payload.Max
	for _, g := range res.Groups {
		for _, p := range g.Points {
			if p.PayloadMassKg < lo {
				lo = p.PayloadMassKg
			}
			if p.PayloadMassKg > hi {
				hi = p.PayloadMassKg
			}
		}
	}
	if hi-lo < 1 {
		lo, hi = lo-500, hi+500
	}
	return lo, hi
}
