package annotate

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMetrics() RequestMetrics {
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	return RequestMetrics{
		Start:           start,
		End:             start.Add(12340 * time.Microsecond),
		Queries:         3,
		PeakMemoryBytes: 1048576,
		Load1:           0.52,
		LoadOK:          true,
	}
}

func TestCommentShape(t *testing.T) {
	got := Comment(sampleMetrics())

	want := "<!-- 12.34 / 3 / 1.00" + zeroWidthSpace + "M" + cyrillicVe + " / 0.52 -->"
	assert.Equal(t, want, got)
}

func TestCommentLoadUnavailable(t *testing.T) {
	m := sampleMetrics()
	m.LoadOK = false
	m.Load1 = 0

	got := Comment(m)

	assert.True(t, strings.HasSuffix(got, " / n/a -->"), "got %q", got)
}

func TestCommentZeroValues(t *testing.T) {
	got := Comment(RequestMetrics{})

	assert.Equal(t, "<!-- 0.00 / 0 / 0.00B / n/a -->", got)
}

// parseComment splits the annotation back into its four fields.
func parseComment(t *testing.T, c string) (ms float64, queries int64, mem, load string) {
	t.Helper()

	require.True(t, strings.HasPrefix(c, "<!-- "), "got %q", c)
	require.True(t, strings.HasSuffix(c, " -->"), "got %q", c)

	fields := strings.Split(strings.TrimSuffix(strings.TrimPrefix(c, "<!-- "), " -->"), " / ")
	require.Len(t, fields, 4)

	ms, err := strconv.ParseFloat(fields[0], 64)
	require.NoError(t, err)
	queries, err = strconv.ParseInt(fields[1], 10, 64)
	require.NoError(t, err)
	return ms, queries, fields[2], fields[3]
}

func TestCommentRoundTrip(t *testing.T) {
	m := sampleMetrics()

	ms, queries, mem, load := parseComment(t, Comment(m))

	assert.InDelta(t, m.ElapsedMS(), ms, 0.005)
	assert.Equal(t, m.Queries, queries)
	assert.Equal(t, FormatBytes(m.PeakMemoryBytes), mem)

	loadVal, err := strconv.ParseFloat(load, 64)
	require.NoError(t, err)
	assert.InDelta(t, m.Load1, loadVal, 0.005)
}
