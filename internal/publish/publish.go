package publish

import (
	"context"
	"time"
)

// PageViewEvent announces one annotated page load.
type PageViewEvent struct {
	Page      string    `json:"page"`
	RequestID string    `json:"request_id,omitempty"`
	ElapsedMS float64   `json:"elapsed_ms"`
	Queries   int64     `json:"queries"`
	PeakBytes uint64    `json:"peak_bytes"`
	Load1     *float64  `json:"load1,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ContentChangedEvent announces a settled burst of content edits.
type ContentChangedEvent struct {
	Files     []string  `json:"files"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher fans events out to interested subscribers. Consumers subscribe
// explicitly; nothing in the serving path depends on a publish succeeding.
type Publisher interface {
	PublishPageView(ctx context.Context, event PageViewEvent) error
	PublishContentChanged(ctx context.Context, event ContentChangedEvent) error
	Close() error
}

// NoopPublisher satisfies Publisher while sending nothing. It stands in when
// event publishing is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishPageView(context.Context, PageViewEvent) error { return nil }
func (NoopPublisher) PublishContentChanged(context.Context, ContentChangedEvent) error {
	return nil
}
func (NoopPublisher) Close() error { return nil }
