package sysprobe

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/jkirker/Page-Exec-Timer/internal/logfields"
	"github.com/jkirker/Page-Exec-Timer/internal/metrics"
)

// Sample is a point-in-time view of the probed system metrics.
type Sample struct {
	PeakRSSBytes uint64
	Load1        float64
	LoadOK       bool
	Taken        time.Time
}

// Sampler periodically probes system metrics, caches the latest sample, and
// forwards gauge values to the metrics recorder.
type Sampler struct {
	scheduler gocron.Scheduler
	recorder  metrics.Recorder
	interval  time.Duration

	mu     sync.RWMutex
	latest Sample
}

// NewSampler creates a sampler probing at the given interval.
func NewSampler(interval time.Duration, recorder metrics.Recorder) (*Sampler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}

	return &Sampler{
		scheduler: s,
		recorder:  recorder,
		interval:  interval,
	}, nil
}

// Start begins periodic sampling. An initial sample is taken synchronously so
// callers observe populated values immediately after startup.
func (s *Sampler) Start(ctx context.Context) error {
	s.sampleOnce()

	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.sampleOnce),
		gocron.WithName("system-sample"),
	)
	if err != nil {
		return fmt.Errorf("failed to create sampling job: %w", err)
	}

	slog.Info("Starting system sampler", slog.Duration("interval", s.interval))
	s.scheduler.Start()
	return nil
}

// Stop gracefully shuts down the sampler.
func (s *Sampler) Stop(ctx context.Context) error {
	slog.Info("Stopping system sampler")
	return s.scheduler.Shutdown()
}

// Snapshot returns the most recent sample.
func (s *Sampler) Snapshot() Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// sampleOnce probes the system and refreshes the cached sample.
func (s *Sampler) sampleOnce() {
	sample := Sample{
		PeakRSSBytes: PeakRSSBytes(),
		Taken:        time.Now(),
	}
	sample.Load1, sample.LoadOK = Load1()

	s.mu.Lock()
	s.latest = sample
	s.mu.Unlock()

	s.recorder.SetPeakMemoryBytes(sample.PeakRSSBytes)
	if sample.LoadOK {
		s.recorder.SetLoadAverage(sample.Load1)
	}

	slog.Debug("Sampled system metrics",
		logfields.PeakBytes(sample.PeakRSSBytes),
		logfields.Load1(sample.Load1))
}
