package api

import (
	"sync"

	"github.com/obsidianstack/launchdash/pkg/launch"
	"github.com/obsidianstack/launchdash/server/internal/config"
	"github.com/obsidianstack/launchdash/server/internal/metrics"
	"github.com/obsidianstack/launchdash/server/internal/store"
)

// Viewer computes views over the immutable dataset, reusing cached ones.
// It is safe for concurrent use.
type Viewer struct {
	ds      *launch.Dataset
	store   *store.Store
	metrics *metrics.Metrics

	mu sync.RWMutex
	ui config.UIConfig
}

// NewViewer creates a Viewer. m may be nil.
func NewViewer(ds *launch.Dataset, st *store.Store, m *metrics.Metrics, ui config.UIConfig) *Viewer {
	return &Viewer{ds: ds, store: st, metrics: m, ui: ui}
}

// Dataset returns the dataset the viewer reads from.
func (v *Viewer) Dataset() *launch.Dataset { return v.ds }

// View returns the view for c, from the cache when possible.
func (v *Viewer) View(c launch.Criteria) launch.View {
	if cached, ok := v.store.Get(c); ok {
		if v.metrics != nil {
			v.metrics.CacheHit()
		}
		return cached
	}
	view := launch.Compute(v.ds, c)
	v.store.Put(view)
	if v.metrics != nil {
		v.metrics.ViewComputed()
	}
	return view
}

// Respond returns the view for c together with its notes.
func (v *Viewer) Respond(c launch.Criteria) ViewResponse {
	view := v.View(c)
	return ViewResponse{View: view, Notes: computeNotes(view, v.ds)}
}

// SetUI replaces the page settings used by Layout.
func (v *Viewer) SetUI(ui config.UIConfig) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ui = ui
}

// Layout returns the current page layout. Site options start with
// "All Sites" followed by every site in first-seen order. The initial range
// is the dataset's observed payload bounds. Without configured marks the
// slider is marked at its two ends.
func (v *Viewer) Layout() Layout {
	v.mu.RLock()
	ui := v.ui
	v.mu.RUnlock()

	sites := v.ds.Sites()
	opts := make([]SiteOption, 0, len(sites)+1)
	opts = append(opts, SiteOption{Label: "All Sites", Value: launch.AllSites})
	for _, s := range sites {
		opts = append(opts, SiteOption{Label: s, Value: s})
	}

	marks := append([]float64(nil), ui.Slider.Marks...)
	if len(marks) == 0 {
		marks = []float64{ui.Slider.Min, ui.Slider.Max}
	}

	lo, hi := v.ds.PayloadBounds()
	return Layout{
		Title: ui.Title,
		Sites: opts,
		Slider: SliderLayout{
			Min:   ui.Slider.Min,
			Max:   ui.Slider.Max,
			Step:  ui.Slider.Step,
			Marks: marks,
		},
		Initial: launch.Range{Min: lo, Max: hi},
	}
}
