package server

import (
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/jkirker/Page-Exec-Timer/internal/annotate"
	"github.com/jkirker/Page-Exec-Timer/internal/config"
	"github.com/jkirker/Page-Exec-Timer/internal/errors"
	"github.com/jkirker/Page-Exec-Timer/internal/gitinfo"
	"github.com/jkirker/Page-Exec-Timer/internal/logfields"
	"github.com/jkirker/Page-Exec-Timer/internal/metrics"
	"github.com/jkirker/Page-Exec-Timer/internal/pageview"
	"github.com/jkirker/Page-Exec-Timer/internal/publish"
	"github.com/jkirker/Page-Exec-Timer/internal/querytrack"
	"github.com/jkirker/Page-Exec-Timer/internal/render"
	"github.com/jkirker/Page-Exec-Timer/internal/sysprobe"
	"github.com/jkirker/Page-Exec-Timer/internal/version"
)

// Handlers serves content pages and the operational endpoints.
type Handlers struct {
	cfg       *config.Config
	renderer  *render.Renderer
	store     pageview.Store
	sampler   *sysprobe.Sampler
	publisher publish.Publisher
	recorder  metrics.Recorder
	git       *gitinfo.Info
	startTime time.Time
}

// NewHandlers wires the handler set. Optional collaborators may be nil and
// degrade to their no-op forms.
func NewHandlers(cfg *config.Config, renderer *render.Renderer, store pageview.Store, sampler *sysprobe.Sampler, publisher publish.Publisher, recorder metrics.Recorder, git *gitinfo.Info) *Handlers {
	if store == nil {
		store = pageview.NoopStore{}
	}
	if publisher == nil {
		publisher = publish.NoopPublisher{}
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Handlers{
		cfg:       cfg,
		renderer:  renderer,
		store:     store,
		sampler:   sampler,
		publisher: publisher,
		recorder:  recorder,
		git:       git,
		startTime: time.Now(),
	}
}

// HandlePage renders the content page named by the URL path. The root path
// serves the configured index page.
func (h *Handlers) HandlePage(w http.ResponseWriter, r *http.Request) {
	name := h.pageName(r.URL.Path)

	html, err := h.renderer.Render(name)
	if err != nil {
		if errors.IsCategory(err, errors.CategoryNotFound) {
			if h.serveStatic(w, r, name) {
				return
			}
			h.renderNotFound(w, name)
			return
		}
		slog.Error("page render failed", logfields.Page(name), logfields.Error(err))
		h.renderFailure(w)
		return
	}

	h.recordView(r, name)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(html); err != nil {
		slog.Error("failed writing page", logfields.Page(name), logfields.Error(err))
	}
}

// serveStatic serves a plain docroot file (stylesheet, image) matching the
// request path. Markdown sources are never served raw; they only reach the
// client rendered. Reports whether a file was served.
func (h *Handlers) serveStatic(w http.ResponseWriter, r *http.Request, name string) bool {
	clean := strings.TrimPrefix(path.Clean("/"+name), "/")
	if clean == "" || clean == "." || strings.HasSuffix(clean, ".md") {
		return false
	}

	filePath := filepath.Join(h.cfg.Content.Dir, filepath.FromSlash(clean))
	info, err := os.Stat(filePath)
	if err != nil || info.IsDir() {
		return false
	}

	http.ServeFile(w, r, filePath)
	return true
}

// recordView persists and publishes the view. Failures degrade to log lines;
// the page is already rendered and will be served regardless.
func (h *Handlers) recordView(r *http.Request, name string) {
	ctx := r.Context()
	elapsed := float64(time.Since(annotate.StartTime(r))) / float64(time.Millisecond)

	var sample sysprobe.Sample
	if h.sampler != nil {
		sample = h.sampler.Snapshot()
	}

	view := pageview.View{
		Page:            name,
		RequestID:       RequestIDFromContext(ctx),
		Status:          http.StatusOK,
		ElapsedMS:       elapsed,
		Queries:         querytrack.Count(ctx),
		PeakMemoryBytes: sample.PeakRSSBytes,
		Load1:           sample.Load1,
		LoadOK:          sample.LoadOK,
		Taken:           time.Now(),
	}
	if err := h.store.RecordView(ctx, view); err != nil {
		slog.Warn("failed to record page view", logfields.Page(name), logfields.Error(err))
	}
	h.recorder.IncPageView(name)

	event := publish.PageViewEvent{
		Page:      view.Page,
		RequestID: view.RequestID,
		ElapsedMS: view.ElapsedMS,
		Queries:   view.Queries,
		PeakBytes: view.PeakMemoryBytes,
		Timestamp: view.Taken,
	}
	if view.LoadOK {
		load := view.Load1
		event.Load1 = &load
	}
	if err := h.publisher.PublishPageView(ctx, event); err != nil {
		slog.Warn("failed to publish page view", logfields.Page(name), logfields.Error(err))
	}
}

// HandleHealthCheck reports liveness.
func (h *Handlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	health := &HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Uptime:    time.Since(h.startTime).Seconds(),
	}
	if err := writeJSONPretty(w, r, http.StatusOK, health); err != nil {
		slog.Error("failed to write health response", logfields.Error(err))
	}
}

// HandleReadiness reports readiness: the content directory must exist.
func (h *Handlers) HandleReadiness(w http.ResponseWriter, _ *http.Request) {
	if st, err := os.Stat(h.cfg.Content.Dir); err == nil && st.IsDir() {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte("not ready: content directory missing"))
}

// HandleStatus reports what the instance serves plus the latest system
// sample.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pages, err := h.renderer.Pages()
	if err != nil {
		slog.Warn("failed to list pages", logfields.Error(err))
	}

	totalViews, err := h.store.TotalViews(ctx)
	if err != nil {
		slog.Warn("failed to count views", logfields.Error(err))
	}
	topPages, err := h.store.TopPages(ctx, 5)
	if err != nil {
		slog.Warn("failed to query top pages", logfields.Error(err))
	}

	var sample sysprobe.Sample
	if h.sampler != nil {
		sample = h.sampler.Snapshot()
	}

	status := &StatusResponse{
		Status:          "ready",
		PID:             os.Getpid(),
		Title:           h.cfg.Content.Title,
		ContentDir:      h.cfg.Content.Dir,
		Pages:           len(pages),
		CachedPages:     h.renderer.CachedPages(),
		TotalViews:      totalViews,
		TopPages:        topPages,
		PeakMemoryBytes: sample.PeakRSSBytes,
		PeakMemory:      annotate.FormatBytes(sample.PeakRSSBytes),
		Git:             h.git,
		Version:         version.Version,
		Uptime:          time.Since(h.startTime).Seconds(),
		Timestamp:       time.Now().UTC(),
	}
	if sample.LoadOK {
		load := sample.Load1
		status.Load1 = &load
	}

	if err := writeJSONPretty(w, r, http.StatusOK, status); err != nil {
		slog.Error("failed to write status response", logfields.Error(err))
	}
}

// pageName maps a request path onto a content page name.
func (h *Handlers) pageName(path string) string {
	name := strings.Trim(path, "/")
	if name == "" {
		name = h.cfg.Content.Index
	}
	if name == "" {
		name = config.DefaultIndexPage
	}
	return name
}

func (h *Handlers) renderNotFound(w http.ResponseWriter, name string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Page Not Found</title></head>
<body><h1>Page Not Found</h1><p>No such page: ` + htmlEscape(name) + `</p><p><a href="/">Home</a></p></body>
</html>
`))
}

func (h *Handlers) renderFailure(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Error</title></head>
<body><h1>Something went wrong</h1><p><a href="/">Home</a></p></body>
</html>
`))
}

func htmlEscape(s string) string {
	replacer := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return replacer.Replace(s)
}
