// Package publisher is the entry point services use to record audit events.
package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	audit "poltem/pkg/platform/audit"
	"poltem/pkg/platform/audit/worker"
)

// ErrBufferFull is returned by Emit in async mode when the event was dropped.
var ErrBufferFull = errors.New("audit buffer full")

// ErrClosed is returned by Emit after Close.
var ErrClosed = errors.New("audit publisher closed")

// Publisher writes events to a sink either synchronously or through a
// bounded buffer drained by a background worker.
type Publisher struct {
	sink    audit.Sink
	logger  *slog.Logger
	metrics *Metrics

	bufferSize int
	buffer     chan audit.Event

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

type Option func(*Publisher)

// WithAsyncBuffer enables async mode with a buffer of n events.
func WithAsyncBuffer(n int) Option {
	return func(p *Publisher) {
		p.bufferSize = n
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

func NewPublisher(sink audit.Sink, opts ...Option) *Publisher {
	p := &Publisher{sink: sink, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufferSize > 0 {
		p.buffer = make(chan audit.Event, p.bufferSize)
		p.done = make(chan struct{})
		w := worker.NewWorker(sink, p.buffer, p.logger, p.metrics)
		go func() {
			defer close(p.done)
			_ = w.Run(context.Background())
		}()
	}
	return p
}

// Emit records an event. Missing timestamps and categories are filled in.
// In async mode Emit never blocks: a full buffer drops the event and
// returns ErrBufferFull.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	if p.buffer == nil {
		if err := p.sink.Append(ctx, event); err != nil {
			p.metrics.IncPersistFailures()
			return err
		}
		p.metrics.IncEmitted(string(event.Category))
		p.metrics.IncPersisted()
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case p.buffer <- event:
		p.metrics.IncEmitted(string(event.Category))
		return nil
	default:
		p.metrics.IncBufferDropped()
		p.logger.WarnContext(ctx, "audit buffer full, dropping event",
			"action", event.Action,
			"request_id", event.RequestID,
		)
		return ErrBufferFull
	}
}

// Record emits and logs failures instead of returning them; services call
// this so auditing never changes a request's outcome.
func (p *Publisher) Record(ctx context.Context, event audit.Event) {
	if p == nil {
		return
	}
	if err := p.Emit(ctx, event); err != nil {
		p.logger.WarnContext(ctx, "audit emit failed",
			"action", event.Action,
			"request_id", event.RequestID,
			"error", err,
		)
	}
}

// Close stops accepting events and, in async mode, waits for the buffer to
// drain.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	if p.buffer != nil {
		close(p.buffer)
	}
	p.mu.Unlock()

	if p.done != nil {
		<-p.done
	}
}
