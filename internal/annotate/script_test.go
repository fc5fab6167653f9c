package annotate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jkirker/Page-Exec-Timer/internal/domcount"
)

func TestScriptInterpolatesCeiling(t *testing.T) {
	got := Script(12345)

	assert.Contains(t, got, "var CEILING = 12345;")
	assert.True(t, strings.HasPrefix(got, "<script>"))
	assert.True(t, strings.HasSuffix(got, "</script>"))
}

func TestScriptDefaultsCeiling(t *testing.T) {
	for _, ceiling := range []int{0, -1} {
		got := Script(ceiling)
		assert.Contains(t, got, "var CEILING = 30000;")
	}
	assert.Contains(t, Script(0), "var CEILING = 30000;", "default must match domcount")
	assert.Equal(t, 30000, domcount.DefaultCeiling)
}

func TestScriptMeasurementSurface(t *testing.T) {
	got := Script(0)

	// Scheduling: idle callback with a timeout, falling back to a frame.
	assert.Contains(t, got, "requestIdleCallback(measure, { timeout: 2000 })")
	assert.Contains(t, got, "requestAnimationFrame")

	// Fast path and full walk.
	assert.Contains(t, got, "getElementsByTagName('*').length")
	assert.Contains(t, got, "stack.pop()")

	// Results written to the document root.
	assert.Contains(t, got, "data-dom-elements")
	assert.Contains(t, got, "data-dom-allnodes")
	assert.Contains(t, got, "createComment")

	// Debug flag and the double-run guard.
	assert.Contains(t, got, "localStorage.getItem('pagetimer.debug')")
	assert.Contains(t, got, "__pageTimerDomCounted")

	// Mutations stay swallowed.
	assert.GreaterOrEqual(t, strings.Count(got, "catch (err) {}"), 3)

	// No stray formatting verbs survive interpolation.
	assert.NotContains(t, got, "%!")
}
