package metrics

import (
	"net/http"
	"sort"
	"sync"
	"sync/atomic"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/obsidianstack/launchdash/pkg/launch"
)

const namespace = "launchdash"

type recordKey struct {
	site    string
	outcome string
}

// Metrics holds the process counters. The zero value is not usable; call New.
type Metrics struct {
	records []recordCount

	views      atomic.Uint64
	cacheHits  atomic.Uint64
	wsRequests atomic.Uint64
	superseded atomic.Uint64

	mu      sync.RWMutex
	clients func() int
}

type recordCount struct {
	recordKey
	n int
}

// New creates Metrics with the per-site record counts of ds.
func New(ds *launch.Dataset) *Metrics {
	counts := make(map[recordKey]int)
	for _, r := range ds.Records() {
		counts[recordKey{site: r.Site, outcome: r.Outcome.String()}]++
	}
	m := &Metrics{records: make([]recordCount, 0, len(counts))}
	for k, n := range counts {
		m.records = append(m.records, recordCount{recordKey: k, n: n})
	}
	sort.Slice(m.records, func(i, j int) bool {
		a, b := m.records[i], m.records[j]
		if a.site != b.site {
			return a.site < b.site
		}
		return a.outcome < b.outcome
	})
	return m
}

// SetClients registers the function reporting connected WebSocket clients.
func (m *Metrics) SetClients(f func() int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients = f
}

func (m *Metrics) ViewComputed() { m.views.Add(1) }
func (m *Metrics) CacheHit()     { m.cacheHits.Add(1) }
func (m *Metrics) WSRequest()    { m.wsRequests.Add(1) }
func (m *Metrics) WSSuperseded() { m.superseded.Add(1) }

// Families returns a point-in-time snapshot of every metric family.
func (m *Metrics) Families() []*dto.MetricFamily {
	rec := &dto.MetricFamily{
		Name: proto.String(namespace + "_dataset_records"),
		Help: proto.String("Launch records loaded, by site and outcome."),
		Type: dto.MetricType_GAUGE.Enum(),
	}
	for _, r := range m.records {
		rec.Metric = append(rec.Metric, &dto.Metric{
			Label: []*dto.LabelPair{
				{Name: proto.String("outcome"), Value: proto.String(r.outcome)},
				{Name: proto.String("site"), Value: proto.String(r.site)},
			},
			Gauge: &dto.Gauge{Value: proto.Float64(float64(r.n))},
		})
	}

	m.mu.RLock()
	clientsFn := m.clients
	m.mu.RUnlock()
	var clients int
	if clientsFn != nil {
		clients = clientsFn()
	}

	return []*dto.MetricFamily{
		rec,
		counter("views_computed_total", "Views computed from the dataset.", m.views.Load()),
		counter("view_cache_hits_total", "Views served from the cache.", m.cacheHits.Load()),
		counter("ws_requests_total", "Selector requests received over WebSocket.", m.wsRequests.Load()),
		counter("ws_superseded_total", "WebSocket requests replaced by a newer one before being computed.", m.superseded.Load()),
		gauge("ws_clients", "Connected WebSocket clients.", float64(clients)),
	}
}

// ServeHTTP writes all families in the Prometheus text format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	format := expfmt.NewFormat(expfmt.TypeTextPlain)
	w.Header().Set("Content-Type", string(format))
	enc := expfmt.NewEncoder(w, format)
	for _, mf := range m.Families() {
		// The text format rejects families without samples.
		if len(mf.Metric) == 0 {
			continue
		}
		if err := enc.Encode(mf); err != nil {
			return
		}
	}
}

func counter(name, help string, v uint64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   proto.String(namespace + "_" + name),
		Help:   proto.String(help),
		Type:   dto.MetricType_COUNTER.Enum(),
		Metric: []*dto.Metric{{Counter: &dto.Counter{Value: proto.Float64(float64(v))}}},
	}
}

func gauge(name, help string, v float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   proto.String(namespace + "_" + name),
		Help:   proto.String(help),
		Type:   dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{{Gauge: &dto.Gauge{Value: proto.Float64(v)}}},
	}
}
