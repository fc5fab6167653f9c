package annotate

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jkirker/Page-Exec-Timer/internal/querytrack"
	"github.com/jkirker/Page-Exec-Timer/internal/sysprobe"
)

type contextKey string

const startTimeContextKey contextKey = "annotate_start_time"

// processStart anchors elapsed-time measurement for requests that carry no
// per-request start marker.
var processStart = time.Now()

// WithStartTime stores the request start marker in the context. The server's
// outermost middleware sets it before any handler runs.
func WithStartTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, startTimeContextKey, t)
}

// StartTime resolves the moment the request began, trying the most precise
// source first: the context marker set by the timing middleware, then a
// proxy-provided X-Request-Start header, then the process start constant.
func StartTime(r *http.Request) time.Time {
	if t, ok := r.Context().Value(startTimeContextKey).(time.Time); ok && !t.IsZero() {
		return t
	}
	if t, ok := parseRequestStart(r.Header.Get("X-Request-Start")); ok {
		return t
	}
	if !processStart.IsZero() {
		return processStart
	}
	return time.Now()
}

// parseRequestStart understands the header forms proxies emit: "t=" followed
// by fractional epoch seconds, or a bare epoch integer in seconds,
// milliseconds or microseconds depending on digit count.
func parseRequestStart(v string) (time.Time, bool) {
	v = strings.TrimSpace(strings.TrimPrefix(v, "t="))
	if v == "" {
		return time.Time{}, false
	}
	if dot := strings.IndexByte(v, '.'); dot >= 0 {
		// A float parse rounds at epoch magnitudes; the digits split exactly.
		sec, err := strconv.ParseInt(v[:dot], 10, 64)
		if err != nil || sec <= 0 {
			return time.Time{}, false
		}
		frac := v[dot+1:]
		if len(frac) > 9 {
			frac = frac[:9]
		}
		for len(frac) < 9 {
			frac += "0"
		}
		nsec, err := strconv.ParseInt(frac, 10, 64)
		if err != nil || nsec < 0 {
			return time.Time{}, false
		}
		return time.Unix(sec, nsec), true
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return time.Time{}, false
	}
	switch len(v) {
	case 10:
		return time.Unix(n, 0), true
	case 13:
		return time.UnixMilli(n), true
	case 16:
		return time.UnixMicro(n), true
	}
	return time.Time{}, false
}

// RequestMetrics holds everything the footer comment reports for one request.
// Fields keep their zero values when a probe fails; the comment renders those
// as 0 or "n/a" rather than suppressing the annotation.
type RequestMetrics struct {
	Start           time.Time
	End             time.Time
	Queries         int64
	PeakMemoryBytes uint64
	Load1           float64
	LoadOK          bool
}

// ElapsedMS returns the wall-clock duration between Start and End in
// milliseconds. A clock running backwards yields zero, never a negative.
func (m RequestMetrics) ElapsedMS() float64 {
	d := m.End.Sub(m.Start)
	if d < 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}

// Collect gathers the request metrics at response time: elapsed wall clock,
// the query count accumulated in the request context, current peak RSS and
// the one-minute load average.
func Collect(r *http.Request, end time.Time) RequestMetrics {
	m := RequestMetrics{
		Start:   StartTime(r),
		End:     end,
		Queries: querytrack.Count(r.Context()),
	}
	m.PeakMemoryBytes = sysprobe.PeakRSSBytes()
	m.Load1, m.LoadOK = sysprobe.Load1()
	return m
}
