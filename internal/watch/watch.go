package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jkirker/Page-Exec-Timer/internal/config"
	"github.com/jkirker/Page-Exec-Timer/internal/errors"
	"github.com/jkirker/Page-Exec-Timer/internal/logfields"
)

// Watcher monitors the content tree and reports debounced change bursts.
// Rapid editor save sequences collapse into a single callback.
type Watcher struct {
	dir        string
	watcher    *fsnotify.Watcher
	mu         sync.Mutex
	started    bool
	stopChan   chan struct{}
	changeChan chan string
	debounce   time.Duration
	onChange   func(files []string)
}

// New creates a watcher over dir. onChange receives the sorted set of
// changed files once a burst settles.
func New(cfg config.WatchConfig, dir string, onChange func(files []string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WatchError(err)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		_ = fsw.Close()
		return nil, errors.WatchError(err)
	}

	return &Watcher{
		dir:        absDir,
		watcher:    fsw,
		stopChan:   make(chan struct{}),
		changeChan: make(chan string, 64),
		debounce:   cfg.DebounceDuration(),
		onChange:   onChange,
	}, nil
}

// Start begins monitoring. The content directory and every subdirectory get
// their own watch; fsnotify does not recurse on its own.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return nil
	}

	err := filepath.WalkDir(w.dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(p)
		}
		return nil
	})
	if err != nil {
		return errors.WatchError(err)
	}

	slog.Info("content watcher started",
		logfields.Path(w.dir),
		slog.Duration("debounce", w.debounce))

	w.started = true
	go w.watchLoop(ctx)
	go w.debounceLoop(ctx)
	return nil
}

// Stop shuts the watcher down. Pending debounced changes are dropped.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		return w.watcher.Close()
	}
	w.started = false

	close(w.stopChan)
	return w.watcher.Close()
}

func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.watcher.Add(event.Name); err != nil {
						slog.Warn("failed to watch new directory",
							logfields.Path(event.Name), logfields.Error(err))
					}
					continue
				}
			}

			if !isContentFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.enqueue(event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("content watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) debounceLoop(ctx context.Context) {
	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-w.stopChan:
			timer.Stop()
			return
		case name := <-w.changeChan:
			pending[name] = struct{}{}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			files := make([]string, 0, len(pending))
			for f := range pending {
				files = append(files, f)
			}
			sort.Strings(files)
			pending = make(map[string]struct{})

			slog.Info("content changed", logfields.Count(len(files)))
			w.onChange(files)
		}
	}
}

func (w *Watcher) enqueue(name string) {
	select {
	case w.changeChan <- name:
	default:
		// A full queue means a flush is already due; the reload is wholesale
		// so losing individual names costs nothing.
	}
}

func isContentFile(name string) bool {
	return strings.HasSuffix(name, ".md")
}
