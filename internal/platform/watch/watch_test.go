package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestHubFanOutAndUnsubscribe(t *testing.T) {
	hub := NewHub()
	a, cancelA := hub.Subscribe(1)
	b, cancelB := hub.Subscribe(1)

	if n := hub.Publish(Event{Type: EventRecordsChanged}); n != 2 {
		t.Fatalf("expected 2 deliveries, got %d", n)
	}
	if ev := <-a; ev.Type != EventRecordsChanged {
		t.Fatalf("unexpected event %+v", ev)
	}
	<-b

	cancelA()
	cancelA()
	if hub.Subscribers() != 1 {
		t.Fatalf("expected 1 subscriber after cancel, got %d", hub.Subscribers())
	}
	if _, ok := <-a; ok {
		t.Fatal("expected cancelled channel to be closed")
	}

	hub.Publish(Event{Type: EventRecordsChanged})
	if n := hub.Publish(Event{Type: EventRecordsChanged}); n != 0 {
		t.Fatalf("expected full subscriber to be skipped, got %d deliveries", n)
	}
	cancelB()
}

func TestHubCloseEndsSubscriptions(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe(1)
	hub.Close()
	hub.Close()
	if _, ok := <-ch; ok {
		t.Fatal("expected subscription closed by Close")
	}
	cancel()
	if hub.Subscribers() != 0 {
		t.Fatalf("expected no subscribers, got %d", hub.Subscribers())
	}

	late, lateCancel := hub.Subscribe(1)
	if _, ok := <-late; ok {
		t.Fatal("expected subscribe after close to return a closed channel")
	}
	lateCancel()
	if n := hub.Publish(Event{Type: EventRecordsChanged}); n != 0 {
		t.Fatalf("expected no deliveries after close, got %d", n)
	}
}

func TestWatcherDebouncesDataFileWrites(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	dataPath := filepath.Join(dir, "qb.db")
	events := make(chan Event, 8)
	w, err := NewWatcher(dataPath, 50*time.Millisecond, nil, func(ev Event) { events <- ev })
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	if err := os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write unrelated: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(dataPath+"-wal", []byte{byte(i)}, 0o644); err != nil {
			t.Fatalf("write wal: %v", err)
		}
	}

	select {
	case ev := <-events:
		if ev.Type != EventRecordsChanged {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change event")
	}

	select {
	case ev := <-events:
		t.Fatalf("expected burst to collapse into one event, got extra %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run returned %v", err)
	}
}
