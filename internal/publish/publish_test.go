package publish

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/jkirker/Page-Exec-Timer/internal/config"
)

func TestNewDisabledReturnsNoop(t *testing.T) {
	p, err := New(config.EventsConfig{Enabled: false}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(NoopPublisher); !ok {
		t.Fatalf("expected NoopPublisher, got %T", p)
	}
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	ctx := t.Context()

	if err := p.PublishPageView(ctx, PageViewEvent{Page: "intro"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := p.PublishContentChanged(ctx, ContentChangedEvent{Files: []string{"a.md"}}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSubjectPrefix(t *testing.T) {
	p := &NATSPublisher{prefix: "pagetimer"}

	if got := p.subject(subjectPageView); got != "pagetimer.pageview" {
		t.Errorf("subject = %q, want pagetimer.pageview", got)
	}
	if got := p.subject(subjectContentChanged); got != "pagetimer.content.changed" {
		t.Errorf("subject = %q, want pagetimer.content.changed", got)
	}
}

func TestPageViewEventLoadOmittedWhenUnavailable(t *testing.T) {
	data, err := json.Marshal(PageViewEvent{Page: "intro"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(data), "load1") {
		t.Errorf("expected load1 omitted, got %s", data)
	}

	load := 0.75
	data, err = json.Marshal(PageViewEvent{Page: "intro", Load1: &load})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"load1":0.75`) {
		t.Errorf("expected load1 present, got %s", data)
	}
}
