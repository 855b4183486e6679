package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/ncobase/jobboard/ctxutil"
	"github.com/ncobase/jobboard/logging/logger"
)

var (
	// ErrBufferFull is returned when an event is dropped because the buffer is full.
	ErrBufferFull = errors.New("event buffer full")
	// ErrClosed is returned when publishing after Shutdown.
	ErrClosed = errors.New("event bus closed")
)

// Options configures a Bus.
type Options struct {
	BufferSize     int
	Workers        int
	HandlerTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.BufferSize <= 0 {
		o.BufferSize = 1024
	}
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.HandlerTimeout <= 0 {
		o.HandlerTimeout = 10 * time.Second
	}
	return o
}

// Bus fans events out to subscribed handlers on a fixed pool of workers.
// Delivery is at most once: events that do not fit in the buffer are dropped.
type Bus struct {
	opts     Options
	handlers map[EventType][]Handler
	buffer   chan *Event
	mu       sync.RWMutex
	closed   bool
	started  bool
	wg       sync.WaitGroup
	logger   *logger.Logger
	store    Store
	now      func() time.Time

	published atomic.Int64
	dropped   atomic.Int64
	failed    atomic.Int64
}

// NewBus creates a new event bus. store may be nil.
func NewBus(opts Options, logger *logger.Logger, store Store) *Bus {
	opts = opts.withDefaults()
	return &Bus{
		opts:     opts,
		handlers: make(map[EventType][]Handler),
		buffer:   make(chan *Event, opts.BufferSize),
		logger:   logger,
		store:    store,
		now:      time.Now,
	}
}

// Subscribe subscribes a handler to an event type.
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.logger.Debug(context.Background(), "event handler subscribed",
		"event_type", eventType,
		"total_handlers", len(b.handlers[eventType]))
}

// Publish enqueues event without blocking. The trace id of ctx travels with
// the event so handler logs can be correlated with the request.
func (b *Bus) Publish(ctx context.Context, event *Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	event.Timestamp = b.now()
	if traceID := ctxutil.GetTraceID(ctx); traceID != "" {
		if event.Metadata == nil {
			event.Metadata = make(map[string]string, 1)
		}
		event.Metadata[ctxutil.TraceIDKey] = traceID
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}

	select {
	case b.buffer <- event:
		b.published.Add(1)
		return nil
	default:
		b.dropped.Add(1)
		b.logger.Warn(ctx, "event dropped, buffer full",
			"type", event.Type,
			"id", event.ID,
			"buffer_size", cap(b.buffer))
		return ErrBufferFull
	}
}

// Start starts the workers. It is a no-op when already started.
func (b *Bus) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started || b.closed {
		return
	}
	b.started = true
	for i := 0; i < b.opts.Workers; i++ {
		b.wg.Add(1)
		go b.worker(i)
	}
	b.logger.Info(context.Background(), "event bus started", "workers", b.opts.Workers)
}

func (b *Bus) worker(id int) {
	defer b.wg.Done()
	for event := range b.buffer {
		b.dispatch(event)
	}
	b.logger.Debug(context.Background(), "event bus worker stopped", "worker_id", id)
}

// dispatch runs every handler of the event type in order, each bounded by the
// handler timeout, then records the outcome.
func (b *Bus) dispatch(event *Event) {
	ctx := context.Background()
	if traceID := event.Metadata[ctxutil.TraceIDKey]; traceID != "" {
		ctx = ctxutil.SetTraceID(ctx, traceID)
	}

	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.logger.Debug(ctx, "no handlers for event", "type", event.Type, "id", event.ID)
		return
	}

	var errs []error
	for i, h := range handlers {
		start := time.Now()
		if err := b.run(ctx, h, event); err != nil {
			errs = append(errs, err)
			b.logger.Error(ctx, "event handler failed",
				"type", event.Type,
				"id", event.ID,
				"handler_index", i,
				"duration", time.Since(start),
				"error", err)
		}
	}

	handled := b.now()
	event.HandledAt = &handled
	event.Status = StatusDone
	if err := errors.Join(errs...); err != nil {
		b.failed.Add(1)
		event.Status = StatusFailed
		event.Error = err.Error()
	}
	if b.store != nil {
		saveCtx, cancel := ctxutil.WithAsyncContext(ctx, ctxutil.DefaultAsyncTimeout)
		defer cancel()
		if err := b.store.Save(saveCtx, event); err != nil {
			b.logger.Error(ctx, "failed to store event", "id", event.ID, "error", err)
		}
	}
}

func (b *Bus) run(parent context.Context, h Handler, event *Event) (err error) {
	ctx, cancel := context.WithTimeout(parent, b.opts.HandlerTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h(ctx, event)
}

// Stats returns event bus statistics.
func (b *Bus) Stats() map[string]any {
	b.mu.RLock()
	defer b.mu.RUnlock()

	subscribers := make(map[string]int, len(b.handlers))
	for eventType, handlers := range b.handlers {
		subscribers[string(eventType)] = len(handlers)
	}
	return map[string]any{
		"buffer_size": cap(b.buffer),
		"buffer_used": len(b.buffer),
		"workers":     b.opts.Workers,
		"published":   b.published.Load(),
		"dropped":     b.dropped.Load(),
		"failed":      b.failed.Load(),
		"subscribers": subscribers,
	}
}

// Shutdown stops accepting events and waits for the queued ones to be handled.
func (b *Bus) Shutdown(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	pending := len(b.buffer)
	close(b.buffer)
	started := b.started
	b.mu.Unlock()

	b.logger.Info(ctx, "shutting down event bus", "pending_events", pending)
	if !started {
		return nil
	}

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		b.logger.Info(ctx, "event bus shutdown complete")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event bus shutdown: %w", ctx.Err())
	}
}
