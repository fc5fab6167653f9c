package metrics

import "time"

// OutcomeLabel enumerates annotation outcome categories for counters.
type OutcomeLabel string

const (
	OutcomeAnnotated       OutcomeLabel = "annotated"
	OutcomeSkipped         OutcomeLabel = "skipped"          // request was not an HTML navigation
	OutcomePassthroughType OutcomeLabel = "passthrough_type" // response content type excluded buffering
	OutcomePassthroughSize OutcomeLabel = "passthrough_size" // response exceeded the buffer cap
	OutcomeDisabled        OutcomeLabel = "disabled"
)

// Recorder receives every instrumentation event the serving path emits.
// Callers never check for nil; components constructed without metrics get
// a NoopRecorder instead.
type Recorder interface {
	ObserveRequestDuration(route string, d time.Duration)
	ObserveQueriesPerRequest(n int64)
	IncAnnotationOutcome(outcome OutcomeLabel)
	IncPageView(page string)
	SetPeakMemoryBytes(n uint64)
	SetLoadAverage(v float64)
	IncPublishResult(success bool)
	IncContentReload()
}

// NoopRecorder discards every event. It is the zero-configuration default.
type NoopRecorder struct{}

func (NoopRecorder) ObserveRequestDuration(string, time.Duration) {}
func (NoopRecorder) ObserveQueriesPerRequest(int64)               {}
func (NoopRecorder) IncAnnotationOutcome(OutcomeLabel)            {}
func (NoopRecorder) IncPageView(string)                           {}
func (NoopRecorder) SetPeakMemoryBytes(uint64)                    {}
func (NoopRecorder) SetLoadAverage(float64)                       {}
func (NoopRecorder) IncPublishResult(bool)                        {}
func (NoopRecorder) IncContentReload()                            {}
