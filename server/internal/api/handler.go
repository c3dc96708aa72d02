package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/obsidianstack/launchdash/pkg/launch"
	"github.com/obsidianstack/launchdash/server/internal/render"
)

// Handler is the HTTP handler for all /api/v1/* endpoints.
type Handler struct {
	viewer *Viewer
	mux    *http.ServeMux
}

// New creates a Handler wired to the given viewer and registers all routes.
func New(v *Viewer) http.Handler {
	h := &Handler{viewer: v, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/layout", h.layout)
	h.mux.HandleFunc("/api/v1/sites", h.sites)
	h.mux.HandleFunc("/api/v1/records", h.records)
	h.mux.HandleFunc("/api/v1/summary", h.summary)
	h.mux.HandleFunc("/api/v1/series", h.series)
	h.mux.HandleFunc("/api/v1/view", h.view)
	h.mux.HandleFunc("/api/v1/charts/pie", h.pieChart)
	h.mux.HandleFunc("/api/v1/charts/scatter", h.scatterChart)
	h.mux.HandleFunc("/", h.notFound)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// notFound answers every unregistered path with a JSON 404.
func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	jsonErr(w, http.StatusNotFound, "not found")
}

// health returns GET /api/v1/health: record and site counts.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	ds := h.viewer.Dataset()
	jsonResp(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Records: ds.Len(),
		Sites:   len(ds.Sites()),
	})
}

// layout returns GET /api/v1/layout: title, site options, slider and initial range.
func (h *Handler) layout(w http.ResponseWriter, r *http.Request) {
	jsonResp(w, http.StatusOK, h.viewer.Layout())
}

// sites returns GET /api/v1/sites: dropdown options, "All Sites" first.
func (h *Handler) sites(w http.ResponseWriter, r *http.Request) {
	jsonResp(w, http.StatusOK, h.viewer.Layout().Sites)
}

// records returns GET /api/v1/records: the filtered records in load order.
func (h *Handler) records(w http.ResponseWriter, r *http.Request) {
	c, ok := h.criteria(w, r)
	if !ok {
		return
	}
	recs := h.viewer.Dataset().Filter(c)
	jsonResp(w, http.StatusOK, RecordsResponse{Criteria: c, Count: len(recs), Records: recs})
}

// summary returns GET /api/v1/summary: pie-chart counts and title.
func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	c, ok := h.criteria(w, r)
	if !ok {
		return
	}
	jsonResp(w, http.StatusOK, h.viewer.View(c).Summary)
}

// series returns GET /api/v1/series: scatter groups and title.
func (h *Handler) series(w http.ResponseWriter, r *http.Request) {
	c, ok := h.criteria(w, r)
	if !ok {
		return
	}
	jsonResp(w, http.StatusOK, h.viewer.View(c).Series)
}

// view returns GET /api/v1/view: both aggregates plus notes.
func (h *Handler) view(w http.ResponseWriter, r *http.Request) {
	c, ok := h.criteria(w, r)
	if !ok {
		return
	}
	jsonResp(w, http.StatusOK, h.viewer.Respond(c))
}

// pieChart returns GET /api/v1/charts/pie as PNG or SVG.
func (h *Handler) pieChart(w http.ResponseWriter, r *http.Request) {
	h.chart(w, r, func(buf *bytes.Buffer, v launch.View, f render.Format) error {
		return render.Pie(buf, v.Summary, f)
	})
}

// scatterChart returns GET /api/v1/charts/scatter as PNG or SVG.
func (h *Handler) scatterChart(w http.ResponseWriter, r *http.Request) {
	h.chart(w, r, func(buf *bytes.Buffer, v launch.View, f render.Format) error {
		return render.Scatter(buf, v.Series, v.Criteria.Payload, f)
	})
}

// --- helpers ----------------------------------------------------------------

func (h *Handler) criteria(w http.ResponseWriter, r *http.Request) (launch.Criteria, bool) {
	c, err := ParseCriteria(r.URL.Query(), h.viewer.Dataset())
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return launch.Criteria{}, false
	}
	return c, true
}

// chart renders into a buffer first so a render failure can still become a
// JSON error. Nothing to draw answers 204.
func (h *Handler) chart(w http.ResponseWriter, r *http.Request, draw func(*bytes.Buffer, launch.View, render.Format) error) {
	f, err := render.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}
	c, ok := h.criteria(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	err = draw(&buf, h.viewer.View(c), f)
	switch {
	case errors.Is(err, render.ErrNoData):
		w.WriteHeader(http.StatusNoContent)
		return
	case err != nil:
		slog.Error("api: render chart", "path", r.URL.Path, "err", err)
		jsonErr(w, http.StatusInternalServerError, "chart rendering failed")
		return
	}

	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
