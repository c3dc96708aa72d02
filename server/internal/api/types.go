package api

import "github.com/obsidianstack/launchdash/pkg/launch"

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Records int    `json:"record_count"`
	Sites   int    `json:"site_count"`
}

// SiteOption is one entry of the site dropdown.
type SiteOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SliderLayout bounds the payload range selector.
type SliderLayout struct {
	Min   float64   `json:"min"`
	Max   float64   `json:"max"`
	Step  float64   `json:"step"`
	Marks []float64 `json:"marks"`
}

// Layout is everything the page needs to draw its controls. It is served
// by GET /api/v1/layout and sent to every WebSocket client on connect.
type Layout struct {
	Title   string       `json:"title"`
	Sites   []SiteOption `json:"sites"`
	Slider  SliderLayout `json:"slider"`
	Initial launch.Range `json:"initial"`
}

// RecordsResponse is the payload for GET /api/v1/records.
type RecordsResponse struct {
	Criteria launch.Criteria `json:"criteria"`
	Count    int             `json:"count"`
	Records  []launch.Record `json:"records"`
}

// ViewResponse is the payload for GET /api/v1/view and the data of a
// WebSocket "view" event.
type ViewResponse struct {
	launch.View
	Notes []Note `json:"notes"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
