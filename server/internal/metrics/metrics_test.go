package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/obsidianstack/launchdash/pkg/launch"
)

func testDataset() *launch.Dataset {
	return launch.NewDataset([]launch.Record{
		{Site: "A", PayloadMassKg: 1000, BoosterCategory: "v1.0", Outcome: launch.Success},
		{Site: "A", PayloadMassKg: 5000, BoosterCategory: "FT", Outcome: launch.Failure},
		{Site: "A", PayloadMassKg: 9000, BoosterCategory: "v1.0", Outcome: launch.Success},
		{Site: "B", PayloadMassKg: 4000, BoosterCategory: "B4", Outcome: launch.Success},
	})
}

func scrape(t *testing.T, h http.Handler) map[string]*dto.MetricFamily {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(rr.Body)
	if err != nil {
		t.Fatalf("parse exposition: %v", err)
	}
	return mfs
}

func value(m *dto.Metric) float64 {
	switch {
	case m.Counter != nil:
		return m.Counter.GetValue()
	case m.Gauge != nil:
		return m.Gauge.GetValue()
	}
	return -1
}

func label(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

func TestDatasetRecords(t *testing.T) {
	mfs := scrape(t, New(testDataset()))
	mf, ok := mfs["launchdash_dataset_records"]
	if !ok {
		t.Fatal("launchdash_dataset_records missing")
	}

	got := map[string]float64{}
	for _, m := range mf.GetMetric() {
		got[label(m, "site")+"/"+label(m, "outcome")] = value(m)
	}
	want := map[string]float64{"A/success": 2, "A/failure": 1, "B/success": 1}
	if len(got) != len(want) {
		t.Fatalf("series: got %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s: got %v, want %v", k, got[k], v)
		}
	}
}

func TestCounters(t *testing.T) {
	m := New(testDataset())
	m.ViewComputed()
	m.ViewComputed()
	m.CacheHit()
	m.WSRequest()
	m.WSRequest()
	m.WSRequest()
	m.WSSuperseded()
	m.SetClients(func() int { return 4 })

	mfs := scrape(t, m)
	cases := map[string]float64{
		"launchdash_views_computed_total":  2,
		"launchdash_view_cache_hits_total": 1,
		"launchdash_ws_requests_total":     3,
		"launchdash_ws_superseded_total":   1,
		"launchdash_ws_clients":            4,
	}
	for name, want := range cases {
		mf, ok := mfs[name]
		if !ok {
			t.Errorf("%s missing", name)
			continue
		}
		if got := value(mf.GetMetric()[0]); got != want {
			t.Errorf("%s: got %v, want %v", name, got, want)
		}
	}
}

func TestClients_DefaultZero(t *testing.T) {
	mfs := scrape(t, New(launch.NewDataset(nil)))
	if got := value(mfs["launchdash_ws_clients"].GetMetric()[0]); got != 0 {
		t.Errorf("ws_clients: got %v, want 0", got)
	}
	if n := len(mfs["launchdash_dataset_records"].GetMetric()); n != 0 {
		t.Errorf("dataset_records on empty dataset: got %d series, want 0", n)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rr := httptest.NewRecorder()
	New(testDataset()).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/metrics", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", rr.Code)
	}
}
