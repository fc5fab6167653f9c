package pageview

import (
	"context"
	"time"
)

// View is one recorded page load with the metrics its footer reported.
type View struct {
	Page            string
	RequestID       string
	Status          int
	ElapsedMS       float64
	Queries         int64
	PeakMemoryBytes uint64
	Load1           float64
	LoadOK          bool
	Taken           time.Time
}

// PageCount pairs a page with its view total.
type PageCount struct {
	Page  string `json:"page"`
	Views int64  `json:"views"`
}

// Store defines the interface for persisting and querying page views.
type Store interface {
	// RecordView persists one page load.
	RecordView(ctx context.Context, v View) error

	// TotalViews returns the number of recorded views.
	TotalViews(ctx context.Context) (int64, error)

	// PageViews returns the view count for a single page.
	PageViews(ctx context.Context, page string) (int64, error)

	// TopPages returns the most viewed pages, busiest first.
	TopPages(ctx context.Context, limit int) ([]PageCount, error)

	// PurgeOlderThan deletes views taken before the cutoff and reports how
	// many rows went away.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// Close flushes and releases the underlying database.
	Close() error
}

// NoopStore satisfies Store while recording nothing. It stands in when
// persistence is disabled.
type NoopStore struct{}

func (NoopStore) RecordView(context.Context, View) error          { return nil }
func (NoopStore) TotalViews(context.Context) (int64, error)       { return 0, nil }
func (NoopStore) PageViews(context.Context, string) (int64, error) {
	return 0, nil
}
func (NoopStore) TopPages(context.Context, int) ([]PageCount, error) { return nil, nil }
func (NoopStore) PurgeOlderThan(context.Context, time.Time) (int64, error) {
	return 0, nil
}
func (NoopStore) Close() error { return nil }
