package logging_test

import (
	"context"
	"testing"
	"time"

	"arenamind/server/logging"
	"arenamind/server/logging/sinks"
)

func TestRouterForwardsToSinks(t *testing.T) {
	memory := sinks.NewMemorySink()
	cfg := logging.DefaultConfig()
	cfg.MinimumSeverity = logging.SeverityDebug
	router := logging.NewRouter(nil, cfg, []logging.NamedSink{{Name: "memory", Sink: memory}})

	router.Publish(context.Background(), logging.Event{
		Type:     "decision.state_transition",
		Tick:     7,
		Actor:    logging.EntityRef{ID: "agent-1", Kind: logging.EntityKindAgent},
		Severity: logging.SeverityDebug,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := router.Close(ctx); err != nil {
		t.Fatalf("close router: %v", err)
	}

	events := memory.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Tick != 7 || events[0].Actor.ID != "agent-1" {
		t.Fatalf("unexpected event %+v", events[0])
	}
	if events[0].Time.IsZero() {
		t.Fatalf("expected router to stamp event time")
	}
}

func TestRouterFiltersBelowMinimumSeverity(t *testing.T) {
	memory := sinks.NewMemorySink()
	cfg := logging.DefaultConfig()
	cfg.MinimumSeverity = logging.SeverityWarn
	router := logging.NewRouter(nil, cfg, []logging.NamedSink{{Name: "memory", Sink: memory}})

	router.Publish(context.Background(), logging.Event{Type: "decision.agent_attached", Severity: logging.SeverityInfo})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := router.Close(ctx); err != nil {
		t.Fatalf("close router: %v", err)
	}
	if got := len(memory.Events()); got != 0 {
		t.Fatalf("expected info event filtered, got %d events", got)
	}
}

func TestWithFieldsAppendsExtras(t *testing.T) {
	var captured logging.Event
	pub := logging.WithFields(logging.PublisherFunc(func(_ context.Context, event logging.Event) {
		captured = event
	}), map[string]any{"world": "test"})

	pub.Publish(context.Background(), logging.Event{Type: "decision.agent_detached"})
	if captured.Extra["world"] != "test" {
		t.Fatalf("expected scoped field, got %+v", captured.Extra)
	}
}
