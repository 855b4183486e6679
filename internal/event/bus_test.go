package event

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ncobase/jobboard/ctxutil"
	"github.com/ncobase/jobboard/logging/logger"
)

func newTestBus(opts Options, store Store) *Bus {
	return NewBus(opts, logger.NewWithWriter(io.Discard), store)
}

func TestBusDeliversAndRecords(t *testing.T) {
	store := NewMemoryStore()
	bus := newTestBus(Options{Workers: 2}, store)

	var mu sync.Mutex
	var got []string
	var traces []string
	bus.Subscribe(EventTypeNotification, func(ctx context.Context, e *Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e.Payload.(string))
		traces = append(traces, ctxutil.GetTraceID(ctx))
		return nil
	})
	bus.Start()

	ctx := ctxutil.SetTraceID(context.Background(), "trace-1")
	for _, p := range []string{"a", "b", "c"} {
		if err := bus.Publish(ctx, &Event{Type: EventTypeNotification, Payload: p}); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
	}
	if err := bus.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("handled %d events, want 3", len(got))
	}
	for _, tr := range traces {
		if tr != "trace-1" {
			t.Errorf("handler trace id = %q", tr)
		}
	}
	done, _ := store.List(context.Background(), Filter{Status: StatusDone})
	if len(done) != 3 {
		t.Errorf("stored %d done events, want 3", len(done))
	}
}

func TestBusHandlerFailureIsRecorded(t *testing.T) {
	store := NewMemoryStore()
	bus := newTestBus(Options{Workers: 1}, store)
	bus.Subscribe(EventTypeNotification, func(context.Context, *Event) error {
		return errors.New("boom")
	})
	bus.Subscribe(EventTypeNotification, func(context.Context, *Event) error {
		panic("bad handler")
	})
	bus.Start()

	e := &Event{Type: EventTypeNotification}
	if err := bus.Publish(context.Background(), e); err != nil {
		t.Fatal(err)
	}
	_ = bus.Shutdown(context.Background())

	rec, err := store.Load(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if rec.Status != StatusFailed || rec.HandledAt == nil {
		t.Errorf("record = %+v, want failed", rec)
	}
	if stats := bus.Stats(); stats["failed"].(int64) != 1 {
		t.Errorf("failed = %v", stats["failed"])
	}
}

func TestBusPublishNeverBlocks(t *testing.T) {
	bus := newTestBus(Options{BufferSize: 1, Workers: 1}, nil)
	// Not started: the buffer fills and further events are dropped.
	if err := bus.Publish(context.Background(), &Event{Type: EventTypeNotification}); err != nil {
		t.Fatalf("first Publish() error = %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- bus.Publish(context.Background(), &Event{Type: EventTypeNotification}) }()
	select {
	case err := <-done:
		if !errors.Is(err, ErrBufferFull) {
			t.Errorf("Publish() error = %v, want ErrBufferFull", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Publish() blocked on a full buffer")
	}
	if bus.Stats()["dropped"].(int64) != 1 {
		t.Errorf("dropped = %v", bus.Stats()["dropped"])
	}
}

func TestBusPublishAfterShutdown(t *testing.T) {
	bus := newTestBus(Options{}, nil)
	bus.Start()
	_ = bus.Shutdown(context.Background())
	if err := bus.Publish(context.Background(), &Event{Type: EventTypeNotification}); !errors.Is(err, ErrClosed) {
		t.Errorf("Publish() error = %v, want ErrClosed", err)
	}
	if err := bus.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown() error = %v", err)
	}
}

func TestBusHandlerTimeout(t *testing.T) {
	bus := newTestBus(Options{Workers: 1, HandlerTimeout: 20 * time.Millisecond}, nil)
	var cancelled atomic.Bool
	bus.Subscribe(EventTypeNotification, func(ctx context.Context, _ *Event) error {
		<-ctx.Done()
		cancelled.Store(true)
		return ctx.Err()
	})
	bus.Start()
	_ = bus.Publish(context.Background(), &Event{Type: EventTypeNotification})
	_ = bus.Shutdown(context.Background())
	if !cancelled.Load() {
		t.Error("handler context was not cancelled")
	}
}

func TestMemoryStoreList(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, st := range []Status{StatusDone, StatusFailed, StatusDone} {
		_ = s.Save(ctx, &Event{ID: string(rune('a' + i)), Type: EventTypeNotification, Status: st, Timestamp: base.Add(time.Duration(i) * time.Hour)})
	}
	all, _ := s.List(ctx, Filter{Limit: 2})
	if len(all) != 2 || all[0].ID != "c" {
		t.Errorf("List() = %v", all)
	}
	recent, _ := s.List(ctx, Filter{Since: base.Add(90 * time.Minute)})
	if len(recent) != 1 {
		t.Errorf("List(since) returned %d", len(recent))
	}
	if _, err := s.Load(ctx, "zz"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() error = %v", err)
	}
}
