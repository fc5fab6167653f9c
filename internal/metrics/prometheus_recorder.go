package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder forwards Recorder events to collectors on a registry.
type PrometheusRecorder struct {
	once            sync.Once
	requestDuration *prom.HistogramVec
	requestQueries  prom.Histogram
	annotations     *prom.CounterVec
	pageViews       *prom.CounterVec
	peakMemory      prom.Gauge
	loadAverage     prom.Gauge
	publishResults  *prom.CounterVec
	contentReloads  prom.Counter
}

// NewPrometheusRecorder builds the collector set and registers it on reg.
// A nil registry gets a private one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.requestDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "pagetimer",
			Name:      "request_duration_seconds",
			Help:      "Duration of served requests",
			Buckets:   prom.DefBuckets,
		}, []string{"route"})
		pr.requestQueries = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "pagetimer",
			Name:      "request_queries",
			Help:      "Database statements issued per request",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		})
		pr.annotations = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pagetimer",
			Name:      "annotation_outcomes_total",
			Help:      "Annotation outcomes by disposition",
		}, []string{"outcome"})
		pr.pageViews = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pagetimer",
			Name:      "page_views_total",
			Help:      "Served page views by page",
		}, []string{"page"})
		pr.peakMemory = prom.NewGauge(prom.GaugeOpts{
			Namespace: "pagetimer",
			Name:      "peak_memory_bytes",
			Help:      "Peak resident set size of the process",
		})
		pr.loadAverage = prom.NewGauge(prom.GaugeOpts{
			Namespace: "pagetimer",
			Name:      "load_average_1m",
			Help:      "One minute system load average",
		})
		pr.publishResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pagetimer",
			Name:      "publish_results_total",
			Help:      "Event publish results by success/failure",
		}, []string{"result"})
		pr.contentReloads = prom.NewCounter(prom.CounterOpts{
			Namespace: "pagetimer",
			Name:      "content_reloads_total",
			Help:      "Content cache reloads triggered by filesystem changes",
		})
		reg.MustRegister(pr.requestDuration, pr.requestQueries, pr.annotations, pr.pageViews, pr.peakMemory, pr.loadAverage, pr.publishResults, pr.contentReloads)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveRequestDuration(route string, d time.Duration) {
	if p == nil || p.requestDuration == nil {
		return
	}
	p.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveQueriesPerRequest(n int64) {
	if p == nil || p.requestQueries == nil {
		return
	}
	p.requestQueries.Observe(float64(n))
}

func (p *PrometheusRecorder) IncAnnotationOutcome(outcome OutcomeLabel) {
	if p == nil || p.annotations == nil {
		return
	}
	p.annotations.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncPageView(page string) {
	if p == nil || p.pageViews == nil {
		return
	}
	p.pageViews.WithLabelValues(page).Inc()
}

func (p *PrometheusRecorder) SetPeakMemoryBytes(n uint64) {
	if p == nil || p.peakMemory == nil {
		return
	}
	p.peakMemory.Set(float64(n))
}

func (p *PrometheusRecorder) SetLoadAverage(v float64) {
	if p == nil || p.loadAverage == nil {
		return
	}
	p.loadAverage.Set(v)
}

func (p *PrometheusRecorder) IncPublishResult(success bool) {
	if p == nil || p.publishResults == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.publishResults.WithLabelValues(res).Inc()
}

func (p *PrometheusRecorder) IncContentReload() {
	if p == nil || p.contentReloads == nil {
		return
	}
	p.contentReloads.Inc()
}
