package daemon

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jkirker/Page-Exec-Timer/internal/config"
	"github.com/jkirker/Page-Exec-Timer/internal/pageview"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.md"), []byte("# Home"), 0o644); err != nil {
		t.Fatalf("failed to write content: %v", err)
	}

	return &config.Config{
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: 0, ShutdownGrace: "5s"},
		Content: config.ContentConfig{Dir: dir, Title: "Test", Index: "index"},
		Sampler: config.SamplerConfig{Interval: "1s"},
		Store:   config.StoreConfig{Path: ":memory:", Retention: "720h"},
		Watch:   config.WatchConfig{Debounce: "50ms"},
	}
}

func TestDaemonNewWiresComponents(t *testing.T) {
	d, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("failed to build daemon: %v", err)
	}

	if d.server == nil {
		t.Error("expected a server")
	}
	if d.watcher == nil {
		t.Error("expected a content watcher")
	}
	if d.scheduler == nil {
		t.Error("expected a retention scheduler")
	}
	if d.store == nil || d.publisher == nil || d.sampler == nil {
		t.Error("expected store, publisher, and sampler")
	}

	if err := d.Stop(t.Context()); err != nil {
		t.Errorf("stop failed: %v", err)
	}
}

func TestDaemonStoreDisabled(t *testing.T) {
	cfg := testConfig(t)
	disabled := false
	cfg.Store.Enabled = &disabled

	d, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to build daemon: %v", err)
	}
	defer func() { _ = d.Stop(t.Context()) }()

	if d.scheduler != nil {
		t.Error("expected no retention scheduler without a store")
	}
}

func TestDaemonStartStop(t *testing.T) {
	d, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("failed to build daemon: %v", err)
	}

	ctx := t.Context()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	if err := d.Stop(ctx); err != nil {
		t.Errorf("stop failed: %v", err)
	}
}

func TestDaemonContentChangeInvalidatesCache(t *testing.T) {
	d, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("failed to build daemon: %v", err)
	}
	defer func() { _ = d.Stop(t.Context()) }()

	if _, err := d.renderer.Render("index"); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if got := d.renderer.CachedPages(); got != 1 {
		t.Fatalf("expected 1 cached page, got %d", got)
	}

	d.onContentChanged([]string{"index.md"})

	if got := d.renderer.CachedPages(); got != 0 {
		t.Errorf("expected cache cleared, got %d entries", got)
	}
}

func TestDaemonPurgeExpiredViews(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Retention = "1h"

	d, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to build daemon: %v", err)
	}
	defer func() { _ = d.Stop(t.Context()) }()

	ctx := t.Context()
	old := pageview.View{Page: "index", ElapsedMS: 1.5, Taken: time.Now().Add(-2 * time.Hour)}
	fresh := pageview.View{Page: "about", ElapsedMS: 2.5, Taken: time.Now()}
	if err := d.store.RecordView(ctx, old); err != nil {
		t.Fatalf("failed to record view: %v", err)
	}
	if err := d.store.RecordView(ctx, fresh); err != nil {
		t.Fatalf("failed to record view: %v", err)
	}

	d.purgeExpiredViews()

	total, err := d.store.TotalViews(ctx)
	if err != nil {
		t.Fatalf("failed to count views: %v", err)
	}
	if total != 1 {
		t.Errorf("expected 1 view after purge, got %d", total)
	}
}
