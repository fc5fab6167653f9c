package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// testRecorder is a map-backed Recorder for asserting call counts.
type testRecorder struct {
	requestDurations map[string]int
	queries          []int64
	outcomes         map[OutcomeLabel]int
	pageViews        map[string]int
	peakMemory       uint64
	loadAverage      float64
	publishResults   map[bool]int
	reloads          int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{
		requestDurations: map[string]int{},
		outcomes:         map[OutcomeLabel]int{},
		pageViews:        map[string]int{},
		publishResults:   map[bool]int{},
	}
}

func (t *testRecorder) ObserveRequestDuration(route string, _ time.Duration) {
	t.requestDurations[route]++
}
func (t *testRecorder) ObserveQueriesPerRequest(n int64)    { t.queries = append(t.queries, n) }
func (t *testRecorder) IncAnnotationOutcome(o OutcomeLabel) { t.outcomes[o]++ }
func (t *testRecorder) IncPageView(page string)             { t.pageViews[page]++ }
func (t *testRecorder) SetPeakMemoryBytes(n uint64)         { t.peakMemory = n }
func (t *testRecorder) SetLoadAverage(v float64)            { t.loadAverage = v }
func (t *testRecorder) IncPublishResult(success bool)       { t.publishResults[success]++ }
func (t *testRecorder) IncContentReload()                   { t.reloads++ }

func TestNoopRecorderImplementsRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}

	// Every method must be callable without side effects or panics.
	r.ObserveRequestDuration("/", time.Second)
	r.ObserveQueriesPerRequest(3)
	r.IncAnnotationOutcome(OutcomeAnnotated)
	r.IncPageView("index")
	r.SetPeakMemoryBytes(1 << 20)
	r.SetLoadAverage(0.5)
	r.IncPublishResult(true)
	r.IncContentReload()
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var p *PrometheusRecorder

	p.ObserveRequestDuration("/", time.Second)
	p.ObserveQueriesPerRequest(1)
	p.IncAnnotationOutcome(OutcomeSkipped)
	p.IncPageView("index")
	p.SetPeakMemoryBytes(0)
	p.SetLoadAverage(0)
	p.IncPublishResult(false)
	p.IncContentReload()
}

func TestPrometheusRecorderRegistersAndCounts(t *testing.T) {
	reg := prom.NewRegistry()
	p := NewPrometheusRecorder(reg)

	p.ObserveRequestDuration("/docs", 50*time.Millisecond)
	p.ObserveQueriesPerRequest(2)
	p.IncAnnotationOutcome(OutcomeAnnotated)
	p.IncAnnotationOutcome(OutcomeAnnotated)
	p.IncPageView("index")
	p.SetPeakMemoryBytes(4096)
	p.SetLoadAverage(1.25)
	p.IncPublishResult(true)
	p.IncContentReload()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}

	found := map[string]bool{}
	for _, mf := range families {
		found[mf.GetName()] = true
	}

	expect := []string{
		"pagetimer_request_duration_seconds",
		"pagetimer_request_queries",
		"pagetimer_annotation_outcomes_total",
		"pagetimer_page_views_total",
		"pagetimer_peak_memory_bytes",
		"pagetimer_load_average_1m",
		"pagetimer_publish_results_total",
		"pagetimer_content_reloads_total",
	}
	for _, name := range expect {
		if !found[name] {
			t.Errorf("metric family %s not registered", name)
		}
	}
}

func TestTestRecorderTracksCalls(t *testing.T) {
	r := newTestRecorder()

	r.IncAnnotationOutcome(OutcomeAnnotated)
	r.IncAnnotationOutcome(OutcomePassthroughSize)
	r.IncPageView("about")
	r.SetPeakMemoryBytes(123)

	if r.outcomes[OutcomeAnnotated] != 1 {
		t.Errorf("outcomes[annotated] = %v, want 1", r.outcomes[OutcomeAnnotated])
	}
	if r.outcomes[OutcomePassthroughSize] != 1 {
		t.Errorf("outcomes[passthrough_size] = %v, want 1", r.outcomes[OutcomePassthroughSize])
	}
	if r.pageViews["about"] != 1 {
		t.Errorf("pageViews[about] = %v, want 1", r.pageViews["about"])
	}
	if r.peakMemory != 123 {
		t.Errorf("peakMemory = %v, want 123", r.peakMemory)
	}
}
