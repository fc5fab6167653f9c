package publish

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/jkirker/Page-Exec-Timer/internal/config"
	"github.com/jkirker/Page-Exec-Timer/internal/errors"
	"github.com/jkirker/Page-Exec-Timer/internal/logfields"
	"github.com/jkirker/Page-Exec-Timer/internal/metrics"
)

const (
	subjectPageView       = "pageview"
	subjectContentChanged = "content.changed"
)

// NATSPublisher publishes events over a core NATS connection. Events are
// fire-and-forget telemetry; there is no stream or delivery guarantee.
type NATSPublisher struct {
	conn     *nats.Conn
	prefix   string
	recorder metrics.Recorder
}

// New connects to NATS when event publishing is enabled, and returns the
// no-op publisher otherwise. A nil recorder degrades to the no-op recorder.
func New(cfg config.EventsConfig, recorder metrics.Recorder) (Publisher, error) {
	if !cfg.Enabled {
		return NoopPublisher{}, nil
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}

	conn, err := nats.Connect(cfg.URL, nats.Name("pagetimer"))
	if err != nil {
		return nil, errors.PublishError(cfg.URL, err)
	}

	prefix := cfg.SubjectPrefix
	if prefix == "" {
		prefix = config.DefaultSubjectPrefix
	}

	slog.Info("event publisher connected",
		logfields.Addr(cfg.URL),
		logfields.Subject(prefix))

	return &NATSPublisher{conn: conn, prefix: prefix, recorder: recorder}, nil
}

// PublishPageView sends one page view event.
func (p *NATSPublisher) PublishPageView(ctx context.Context, event PageViewEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return p.publish(ctx, p.subject(subjectPageView), event)
}

// PublishContentChanged sends one content change event.
func (p *NATSPublisher) PublishContentChanged(ctx context.Context, event ContentChangedEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Count = len(event.Files)
	return p.publish(ctx, p.subject(subjectContentChanged), event)
}

func (p *NATSPublisher) publish(_ context.Context, subject string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		p.recorder.IncPublishResult(false)
		return errors.PublishError(subject, err)
	}

	if err := p.conn.Publish(subject, data); err != nil {
		p.recorder.IncPublishResult(false)
		return errors.PublishError(subject, err)
	}

	p.recorder.IncPublishResult(true)
	slog.Debug("event published", logfields.Subject(subject))
	return nil
}

func (p *NATSPublisher) subject(kind string) string {
	return p.prefix + "." + kind
}

// Close drains the connection so queued events flush before shutdown.
func (p *NATSPublisher) Close() error {
	if p.conn != nil {
		if err := p.conn.Drain(); err != nil {
			p.conn.Close()
			return errors.PublishError("drain", err)
		}
	}
	return nil
}
