package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/jkirker/Page-Exec-Timer/internal/annotate"
	"github.com/jkirker/Page-Exec-Timer/internal/config"
	"github.com/jkirker/Page-Exec-Timer/internal/errors"
	"github.com/jkirker/Page-Exec-Timer/internal/gitinfo"
	"github.com/jkirker/Page-Exec-Timer/internal/logfields"
	"github.com/jkirker/Page-Exec-Timer/internal/metrics"
	"github.com/jkirker/Page-Exec-Timer/internal/pageview"
	"github.com/jkirker/Page-Exec-Timer/internal/publish"
	"github.com/jkirker/Page-Exec-Timer/internal/render"
	"github.com/jkirker/Page-Exec-Timer/internal/server"
	"github.com/jkirker/Page-Exec-Timer/internal/sysprobe"
	"github.com/jkirker/Page-Exec-Timer/internal/watch"
)

const purgeInterval = time.Hour

// Daemon assembles and runs the service: HTTP server, system sampler,
// content watcher, retention job, and event publisher.
type Daemon struct {
	cfg       *config.Config
	recorder  metrics.Recorder
	renderer  *render.Renderer
	store     pageview.Store
	sampler   *sysprobe.Sampler
	publisher publish.Publisher
	watcher   *watch.Watcher
	server    *server.Server
	scheduler gocron.Scheduler
}

// New wires every component from configuration. Nothing starts running
// until Start.
func New(cfg *config.Config) (*Daemon, error) {
	registry := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)

	renderer, err := render.New(cfg.Content)
	if err != nil {
		return nil, err
	}

	var store pageview.Store = pageview.NoopStore{}
	if cfg.Store.IsEnabled() {
		store, err = pageview.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
	}

	publisher, err := publish.New(cfg.Events, recorder)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	sampler, err := sysprobe.NewSampler(cfg.Sampler.IntervalDuration(), recorder)
	if err != nil {
		_ = store.Close()
		_ = publisher.Close()
		return nil, err
	}

	d := &Daemon{
		cfg:       cfg,
		recorder:  recorder,
		renderer:  renderer,
		store:     store,
		sampler:   sampler,
		publisher: publisher,
	}

	if cfg.Watch.IsEnabled() {
		watcher, err := watch.New(cfg.Watch, cfg.Content.Dir, d.onContentChanged)
		if err != nil {
			_ = store.Close()
			_ = publisher.Close()
			return nil, err
		}
		d.watcher = watcher
	}

	var git *gitinfo.Info
	if info, err := gitinfo.Lookup(cfg.Content.Dir); err == nil {
		git = info
		slog.Info("content revision",
			slog.String("commit", git.ShortCommit()),
			slog.String("branch", git.Branch))
	} else {
		slog.Debug("content directory is not in a git work tree", logfields.Error(err))
	}

	handlers := server.NewHandlers(cfg, renderer, store, sampler, publisher, recorder, git)
	annotator := annotate.New(cfg.Annotator, recorder)
	d.server = server.New(cfg, server.Components{
		Handlers:    handlers,
		Annotator:   annotator,
		Recorder:    recorder,
		PromHandler: metrics.HTTPHandler(registry),
	})

	if cfg.Store.IsEnabled() {
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			_ = store.Close()
			_ = publisher.Close()
			return nil, errors.DaemonError("create retention scheduler: " + err.Error())
		}
		if _, err := scheduler.NewJob(
			gocron.DurationJob(purgeInterval),
			gocron.NewTask(d.purgeExpiredViews),
			gocron.WithName("view-retention"),
		); err != nil {
			_ = scheduler.Shutdown()
			_ = store.Close()
			_ = publisher.Close()
			return nil, errors.DaemonError("schedule retention job: " + err.Error())
		}
		d.scheduler = scheduler
	}

	return d, nil
}

// Start brings every component up: sampler first so the gauges populate,
// then the watcher, the retention scheduler, and finally the HTTP server.
func (d *Daemon) Start(ctx context.Context) error {
	if err := d.sampler.Start(ctx); err != nil {
		return err
	}

	if d.watcher != nil {
		if err := d.watcher.Start(ctx); err != nil {
			return err
		}
	}

	if d.scheduler != nil {
		d.scheduler.Start()
	}

	if err := d.server.Start(ctx); err != nil {
		d.shutdownComponents(ctx)
		return err
	}

	slog.Info("daemon started",
		logfields.Addr(d.cfg.Server.Addr()),
		logfields.Path(d.cfg.Content.Dir))
	return nil
}

// Run starts the daemon and blocks until ctx is cancelled, then shuts down
// within the configured grace period.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	slog.Info("shutdown signal received")

	stopCtx, cancel := context.WithTimeout(context.Background(), d.cfg.Server.ShutdownGraceDuration())
	defer cancel()
	return d.Stop(stopCtx)
}

// Stop shuts components down in reverse start order.
func (d *Daemon) Stop(ctx context.Context) error {
	var firstErr error
	if err := d.server.Stop(ctx); err != nil {
		firstErr = err
	}
	d.shutdownComponents(ctx)
	slog.Info("daemon stopped")
	return firstErr
}

func (d *Daemon) shutdownComponents(ctx context.Context) {
	if d.scheduler != nil {
		if err := d.scheduler.Shutdown(); err != nil {
			slog.Error("retention scheduler shutdown failed", logfields.Error(err))
		}
	}
	if d.watcher != nil {
		if err := d.watcher.Stop(); err != nil {
			slog.Error("content watcher shutdown failed", logfields.Error(err))
		}
	}
	if err := d.sampler.Stop(ctx); err != nil {
		slog.Error("sampler shutdown failed", logfields.Error(err))
	}
	if err := d.publisher.Close(); err != nil {
		slog.Error("publisher close failed", logfields.Error(err))
	}
	if err := d.store.Close(); err != nil {
		slog.Error("store close failed", logfields.Error(err))
	}
}

// onContentChanged reacts to a settled edit burst: drop the render cache,
// bump the reload counter, and announce the change.
func (d *Daemon) onContentChanged(files []string) {
	d.renderer.InvalidateAll()
	d.recorder.IncContentReload()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.publisher.PublishContentChanged(ctx, publish.ContentChangedEvent{Files: files}); err != nil {
		slog.Warn("failed to publish content change", logfields.Error(err))
	}
}

// purgeExpiredViews enforces the store retention window.
func (d *Daemon) purgeExpiredViews() {
	retention := d.cfg.Store.RetentionDuration()
	if retention <= 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-retention)
	deleted, err := d.store.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		slog.Error("view retention purge failed", logfields.Error(err))
		return
	}
	if deleted > 0 {
		slog.Info("purged expired page views", logfields.Count(int(deleted)))
	}
}
