package annotate

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/jkirker/Page-Exec-Timer/internal/config"
	"github.com/jkirker/Page-Exec-Timer/internal/domcount"
	"github.com/jkirker/Page-Exec-Timer/internal/logfields"
	"github.com/jkirker/Page-Exec-Timer/internal/metrics"
)

// Annotator decorates HTML navigation responses with the request footer: the
// metrics comment and, when enabled, the DOM measurement script.
type Annotator struct {
	enabled   bool
	maxBuffer int
	script    string
	audit     bool
	ceiling   int
	recorder  metrics.Recorder
}

// New builds an Annotator from configuration. A nil recorder degrades to the
// no-op implementation.
func New(cfg config.AnnotatorConfig, recorder metrics.Recorder) *Annotator {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	ceiling := cfg.DOMCeiling
	if ceiling <= 0 {
		ceiling = domcount.DefaultCeiling
	}
	a := &Annotator{
		enabled:   cfg.IsEnabled(),
		maxBuffer: cfg.MaxBufferBytes,
		audit:     cfg.AuditDOM,
		ceiling:   ceiling,
		recorder:  recorder,
	}
	if cfg.ScriptEnabled() {
		a.script = Script(ceiling)
	}
	return a
}

// Middleware wraps next so qualifying responses leave with the footer
// attached. Handlers never see the buffering, and a failing metric probe
// degrades the annotation rather than the response.
func (a *Annotator) Middleware(next http.Handler) http.Handler {
	if !a.enabled {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a.recorder.IncAnnotationOutcome(metrics.OutcomeDisabled)
			next.ServeHTTP(w, r)
		})
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsHTMLNavigation(r) {
			a.recorder.IncAnnotationOutcome(metrics.OutcomeSkipped)
			next.ServeHTTP(w, r)
			return
		}

		wrapped := newResponseAnnotator(w, a.maxBuffer)
		next.ServeHTTP(wrapped, r)

		var m RequestMetrics
		comment := ""
		bestEffort(func() {
			m = Collect(r, time.Now())
			comment = Comment(m)
		})

		outcome := wrapped.finalize(a.script, comment)
		a.recorder.IncAnnotationOutcome(outcome)

		if outcome == metrics.OutcomeAnnotated {
			a.recorder.ObserveQueriesPerRequest(m.Queries)
			slog.Debug("response annotated",
				logfields.Path(r.URL.Path),
				logfields.ElapsedMS(m.ElapsedMS()),
				logfields.Queries(m.Queries),
				logfields.PeakBytes(m.PeakMemoryBytes),
			)
			if a.audit {
				a.auditDOM(r.URL.Path, wrapped.buffer)
			}
		}
	})
}

// auditDOM counts the served document server-side with the same algorithm
// the injected script runs in the browser.
func (a *Annotator) auditDOM(path string, body []byte) {
	result, err := domcount.Count(bytes.NewReader(body), a.ceiling)
	if err != nil {
		slog.Debug("dom audit failed", logfields.Path(path), logfields.Error(err))
		return
	}
	slog.Info("dom audit",
		logfields.Path(path),
		slog.Int("elements", result.Elements),
		slog.Int("allnodes", result.AllNodes),
		slog.Bool("truncated", result.Truncated),
	)
}

// bestEffort runs fn and swallows a panic. The annotation may be lost; the
// response it decorates must not be.
func bestEffort(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("annotation step failed", slog.Any("panic", r))
		}
	}()
	fn()
}
