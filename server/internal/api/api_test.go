package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/obsidianstack/launchdash/pkg/launch"
	"github.com/obsidianstack/launchdash/server/internal/api"
	"github.com/obsidianstack/launchdash/server/internal/config"
	"github.com/obsidianstack/launchdash/server/internal/metrics"
	"github.com/obsidianstack/launchdash/server/internal/store"
)

// --- test helpers -----------------------------------------------------------

func testDataset() *launch.Dataset {
	return launch.NewDataset([]launch.Record{
		{Site: "A", PayloadMassKg: 1000, BoosterCategory: "v1.0", Outcome: launch.Success},
		{Site: "A", PayloadMassKg: 5000, BoosterCategory: "FT", Outcome: launch.Failure},
		{Site: "A", PayloadMassKg: 9000, BoosterCategory: "v1.0", Outcome: launch.Success},
		{Site: "B", PayloadMassKg: 4000, BoosterCategory: "B4", Outcome: launch.Success},
	})
}

func newViewer(ds *launch.Dataset) *api.Viewer {
	return api.NewViewer(ds, store.New(5*time.Minute), metrics.New(ds), config.Defaults().UI)
}

func newHandler() http.Handler { return api.New(newViewer(testDataset())) }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON: %v (body: %s)", err, rr.Body.String())
	}
}

// --- /api/v1/health ---------------------------------------------------------

func TestHealth(t *testing.T) {
	rr := get(t, newHandler(), "/api/v1/health")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp api.HealthResponse
	decode(t, rr, &resp)
	if resp.Status != "ok" || resp.Records != 4 || resp.Sites != 2 {
		t.Errorf("health: got %+v, want ok/4/2", resp)
	}
}

func TestHealth_ContentType(t *testing.T) {
	rr := get(t, newHandler(), "/api/v1/health")
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}
}

// --- /api/v1/layout and /api/v1/sites ---------------------------------------

func TestLayout(t *testing.T) {
	rr := get(t, newHandler(), "/api/v1/layout")
	var l api.Layout
	decode(t, rr, &l)

	if l.Title != config.DefaultTitle {
		t.Errorf("Title: got %q, want %q", l.Title, config.DefaultTitle)
	}
	wantSites := []api.SiteOption{
		{Label: "All Sites", Value: "ALL"},
		{Label: "A", Value: "A"},
		{Label: "B", Value: "B"},
	}
	if len(l.Sites) != len(wantSites) {
		t.Fatalf("Sites: got %v, want %v", l.Sites, wantSites)
	}
	for i := range wantSites {
		if l.Sites[i] != wantSites[i] {
			t.Errorf("Sites[%d]: got %v, want %v", i, l.Sites[i], wantSites[i])
		}
	}
	if l.Slider.Min != 0 || l.Slider.Max != 10000 || l.Slider.Step != 1000 {
		t.Errorf("Slider: got %+v", l.Slider)
	}
	if len(l.Slider.Marks) != 2 || l.Slider.Marks[0] != 0 || l.Slider.Marks[1] != 10000 {
		t.Errorf("Slider.Marks: got %v, want [0 10000]", l.Slider.Marks)
	}
	if l.Initial != (launch.Range{Min: 1000, Max: 9000}) {
		t.Errorf("Initial: got %+v, want observed bounds 1000..9000", l.Initial)
	}
}

func TestLayout_SetUI(t *testing.T) {
	v := newViewer(testDataset())
	ui := config.Defaults().UI
	ui.Title = "Reloaded"
	v.SetUI(ui)

	var l api.Layout
	decode(t, get(t, api.New(v), "/api/v1/layout"), &l)
	if l.Title != "Reloaded" {
		t.Errorf("Title after SetUI: got %q, want Reloaded", l.Title)
	}
}

func TestSites(t *testing.T) {
	var opts []api.SiteOption
	decode(t, get(t, newHandler(), "/api/v1/sites"), &opts)
	if len(opts) != 3 || opts[0].Value != launch.AllSites {
		t.Errorf("sites: got %v", opts)
	}
}

// --- criteria --------------------------------------------------------------

func TestBadCriteria(t *testing.T) {
	cases := []string{
		"/api/v1/summary?payload_min=abc",
		"/api/v1/summary?payload_max=1e400x",
		"/api/v1/series?payload_min=6000&payload_max=5000",
		"/api/v1/view?payload_min=NaN",
		"/api/v1/records?payload_max=Inf",
		"/api/v1/charts/pie?payload_min=9&payload_max=1",
	}
	h := newHandler()
	for _, path := range cases {
		rr := get(t, h, path)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status got %d, want 400", path, rr.Code)
			continue
		}
		var e map[string]string
		decode(t, rr, &e)
		if e["error"] == "" {
			t.Errorf("%s: empty error message", path)
		}
	}
}

func TestResolveCriteria_Defaults(t *testing.T) {
	c, err := api.ResolveCriteria(testDataset(), "  ", nil, nil)
	if err != nil {
		t.Fatalf("ResolveCriteria: %v", err)
	}
	want := launch.Criteria{Site: "ALL", Payload: launch.Range{Min: 1000, Max: 9000}}
	if c != want {
		t.Errorf("criteria: got %+v, want %+v", c, want)
	}
}

func TestResolveCriteria_NoClamp(t *testing.T) {
	lo, hi := -500.0, 20000.0
	c, err := api.ResolveCriteria(testDataset(), "B", &lo, &hi)
	if err != nil {
		t.Fatalf("ResolveCriteria: %v", err)
	}
	if c.Payload.Min != -500 || c.Payload.Max != 20000 {
		t.Errorf("payload: got %+v, want bounds kept as given", c.Payload)
	}
}

// --- /api/v1/summary and /api/v1/series ------------------------------------

func TestSummary_SiteA(t *testing.T) {
	var s launch.Summary
	decode(t, get(t, newHandler(), "/api/v1/summary?site=A&payload_min=0&payload_max=10000"), &s)
	if s.Success != 2 || s.Failure != 1 {
		t.Errorf("counts: got %d/%d, want 2/1", s.Success, s.Failure)
	}
	if s.Title != "Success vs Failure for A" {
		t.Errorf("Title: got %q", s.Title)
	}
}

func TestSummary_AllNarrowRange(t *testing.T) {
	var s launch.Summary
	decode(t, get(t, newHandler(), "/api/v1/summary?site=ALL&payload_min=3000&payload_max=6000"), &s)
	if s.Success != 1 || s.Failure != 1 {
		t.Errorf("counts: got %d/%d, want 1/1", s.Success, s.Failure)
	}
	if s.Title != "Total Success Launches for All Sites" {
		t.Errorf("Title: got %q", s.Title)
	}
}

func TestSeries_GroupOrder(t *testing.T) {
	var res launch.SeriesResult
	decode(t, get(t, newHandler(), "/api/v1/series?site=A"), &res)
	if len(res.Groups) != 2 {
		t.Fatalf("groups: got %d, want 2", len(res.Groups))
	}
	if res.Groups[0].Category != "v1.0" || res.Groups[1].Category != "FT" {
		t.Errorf("order: got %s,%s want v1.0,FT", res.Groups[0].Category, res.Groups[1].Category)
	}
	if len(res.Groups[0].Points) != 2 {
		t.Errorf("v1.0 points: got %d, want 2", len(res.Groups[0].Points))
	}
}

func TestSeries_UnknownSiteEmpty(t *testing.T) {
	rr := get(t, newHandler(), "/api/v1/series?site=NOPE")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var raw map[string]json.RawMessage
	decode(t, rr, &raw)
	if string(raw["groups"]) != "[]" {
		t.Errorf("groups: got %s, want []", raw["groups"])
	}
}

// --- /api/v1/records -------------------------------------------------------

func TestRecords(t *testing.T) {
	var resp api.RecordsResponse
	decode(t, get(t, newHandler(), "/api/v1/records?payload_min=4000&payload_max=9000"), &resp)
	if resp.Count != 3 || len(resp.Records) != 3 {
		t.Fatalf("count: got %d (%d records), want 3", resp.Count, len(resp.Records))
	}
	if resp.Records[0].PayloadMassKg != 5000 || resp.Records[2].Site != "B" {
		t.Errorf("order not preserved: %+v", resp.Records)
	}
}

// --- /api/v1/view ----------------------------------------------------------

func noteKeys(notes []api.Note) []string {
	keys := make([]string, len(notes))
	for i, n := range notes {
		keys[i] = n.Key
	}
	return keys
}

func TestView_Notes(t *testing.T) {
	var resp api.ViewResponse
	decode(t, get(t, newHandler(), "/api/v1/view?site=A&payload_min=0&payload_max=6000"), &resp)

	if resp.Matched != 2 {
		t.Errorf("Matched: got %d, want 2", resp.Matched)
	}
	keys := noteKeys(resp.Notes)
	want := []string{"range_excludes", "success_rate"}
	if len(keys) != len(want) || keys[0] != want[0] || keys[1] != want[1] {
		t.Errorf("notes: got %v, want %v", keys, want)
	}
}

func TestView_UnknownSiteNote(t *testing.T) {
	var resp api.ViewResponse
	decode(t, get(t, newHandler(), "/api/v1/view?site=Mars"), &resp)
	keys := noteKeys(resp.Notes)
	if len(keys) != 1 || keys[0] != "unknown_site" || resp.Notes[0].Level != "warning" {
		t.Errorf("notes: got %+v", resp.Notes)
	}
}

func TestView_NoMatchesNote(t *testing.T) {
	var resp api.ViewResponse
	decode(t, get(t, newHandler(), "/api/v1/view?site=B&payload_min=0&payload_max=100"), &resp)
	keys := noteKeys(resp.Notes)
	if len(keys) != 1 || keys[0] != "no_matches" {
		t.Errorf("notes: got %v, want [no_matches]", keys)
	}
}

func TestView_OutcomeMismatchFirst(t *testing.T) {
	ds := launch.NewDataset([]launch.Record{
		{Site: "A", PayloadMassKg: 100, BoosterCategory: "v1.0", Outcome: launch.Success},
		{Site: "A", PayloadMassKg: 200, BoosterCategory: "v1.0", Outcome: launch.Outcome(2)},
	})
	var resp api.ViewResponse
	decode(t, get(t, api.New(newViewer(ds)), "/api/v1/view"), &resp)

	if resp.Summary.Success != 1 || resp.Summary.Failure != 0 {
		t.Errorf("counts: got %d/%d, want 1/0", resp.Summary.Success, resp.Summary.Failure)
	}
	if len(resp.Notes) == 0 || resp.Notes[0].Key != "outcome_mismatch" {
		t.Fatalf("first note: got %v, want outcome_mismatch", noteKeys(resp.Notes))
	}
	if resp.Notes[0].Value == nil || *resp.Notes[0].Value != 1 {
		t.Errorf("mismatch value: got %v, want 1", resp.Notes[0].Value)
	}
}

func TestViewer_CachesViews(t *testing.T) {
	ds := testDataset()
	st := store.New(5 * time.Minute)
	v := api.NewViewer(ds, st, nil, config.Defaults().UI)

	c := launch.Criteria{Site: "A", Payload: launch.Range{Min: 0, Max: 10000}}
	first := v.View(c)
	second := v.View(c)
	if st.Count() != 1 {
		t.Errorf("cache entries: got %d, want 1", st.Count())
	}
	if first.Matched != second.Matched || first.Summary != second.Summary {
		t.Errorf("cached view differs: %+v vs %+v", first, second)
	}
}

// --- charts ----------------------------------------------------------------

func TestCharts_PNG(t *testing.T) {
	h := newHandler()
	for _, path := range []string{"/api/v1/charts/pie?site=A", "/api/v1/charts/scatter?site=ALL"} {
		rr := get(t, h, path)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: status got %d, want 200 (%s)", path, rr.Code, rr.Body.String())
		}
		if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
			t.Errorf("%s: Content-Type got %q", path, ct)
		}
		if !bytes.HasPrefix(rr.Body.Bytes(), []byte("\x89PNG")) {
			t.Errorf("%s: body is not a PNG", path)
		}
	}
}

func TestCharts_SVG(t *testing.T) {
	rr := get(t, newHandler(), "/api/v1/charts/pie?format=svg")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type: got %q", ct)
	}
}

func TestCharts_EmptyIsNoContent(t *testing.T) {
	h := newHandler()
	for _, path := range []string{"/api/v1/charts/pie?site=Mars", "/api/v1/charts/scatter?payload_min=0&payload_max=10"} {
		if rr := get(t, h, path); rr.Code != http.StatusNoContent {
			t.Errorf("%s: status got %d, want 204", path, rr.Code)
		}
	}
}

func TestCharts_BadFormat(t *testing.T) {
	if rr := get(t, newHandler(), "/api/v1/charts/scatter?format=gif"); rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}

// --- method checks ---------------------------------------------------------

func TestMethodNotAllowed(t *testing.T) {
	h := newHandler()
	for _, path := range []string{"/api/v1/health", "/api/v1/view", "/api/v1/charts/pie"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, path, nil))
		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST %s: got %d, want 405", path, rr.Code)
		}
	}
}

func TestUnknownPath_JSONNotFound(t *testing.T) {
	h := newHandler()
	for _, path := range []string{"/api/v1/nope", "/api/v2/view", "/api"} {
		rr := get(t, h, path)
		if rr.Code != http.StatusNotFound {
			t.Errorf("%s: status got %d, want 404", path, rr.Code)
			continue
		}
		if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("%s: content-type got %q, want application/json", path, ct)
		}
		var e map[string]string
		decode(t, rr, &e)
		if e["error"] != "not found" {
			t.Errorf("%s: error got %q, want %q", path, e["error"], "not found")
		}
	}
}
