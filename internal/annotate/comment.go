package annotate

import "fmt"

// loadUnavailable is the fourth comment field when no load average could be
// read (non-Linux hosts, restricted containers).
const loadUnavailable = "n/a"

// FormatLoad renders the one-minute load average, or the unavailable marker.
func FormatLoad(load float64, ok bool) string {
	if !ok {
		return loadUnavailable
	}
	return fmt.Sprintf("%.2f", load)
}

// Comment renders the footer annotation: elapsed milliseconds, query count,
// peak memory and load average, slash-delimited inside an HTML comment. The
// shape is fixed; consumers parse it positionally.
func Comment(m RequestMetrics) string {
	return fmt.Sprintf("<!-- %.2f / %d / %s / %s -->",
		m.ElapsedMS(),
		m.Queries,
		FormatBytes(m.PeakMemoryBytes),
		FormatLoad(m.Load1, m.LoadOK),
	)
}
