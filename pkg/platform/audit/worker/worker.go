package worker

import (
	"context"
	"log/slog"

	audit "poltem/pkg/platform/audit"
	"poltem/pkg/platform/circuit"
)

// Observer receives worker outcomes; the publisher metrics implement it.
type Observer interface {
	IncPersisted()
	IncPersistFailures()
	IncCircuitDropped()
	SetCircuitState(open bool)
}

// Worker drains audit events from a channel into a sink. Sink failures are
// logged and counted, never returned: auditing must not take the request
// path down. While the breaker is open events are dropped without touching
// the sink, except for every probeEvery-th event which tests recovery.
type Worker struct {
	sink       audit.Sink
	inbox      <-chan audit.Event
	logger     *slog.Logger
	breaker    *circuit.Breaker
	observer   Observer
	probeEvery int
	skipped    int
}

func NewWorker(sink audit.Sink, inbox <-chan audit.Event, logger *slog.Logger, observer Observer) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		sink:       sink,
		inbox:      inbox,
		logger:     logger,
		breaker:    circuit.New("audit-sink", circuit.WithFailureThreshold(5), circuit.WithSuccessThreshold(1)),
		observer:   observer,
		probeEvery: 10,
	}
}

// Run processes events until the inbox is closed (returns nil) or ctx is
// cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			w.Process(ctx, event)
		}
	}
}

// Process persists a single event.
func (w *Worker) Process(ctx context.Context, event audit.Event) {
	if w.breaker.IsOpen() {
		w.skipped++
		if w.skipped%w.probeEvery != 0 {
			w.incCircuitDropped()
			return
		}
	}

	if err := w.sink.Append(ctx, event); err != nil {
		_, change := w.breaker.RecordFailure()
		if change.Opened {
			w.logger.ErrorContext(ctx, "audit sink circuit opened", "error", err)
			w.setCircuitState(true)
		}
		w.logger.WarnContext(ctx, "failed to persist audit event",
			"action", event.Action,
			"request_id", event.RequestID,
			"error", err,
		)
		if w.observer != nil {
			w.observer.IncPersistFailures()
		}
		return
	}

	if _, change := w.breaker.RecordSuccess(); change.Closed {
		w.logger.InfoContext(ctx, "audit sink circuit closed")
		w.skipped = 0
		w.setCircuitState(false)
	}
	if w.observer != nil {
		w.observer.IncPersisted()
	}
}

func (w *Worker) incCircuitDropped() {
	if w.observer != nil {
		w.observer.IncCircuitDropped()
	}
}

func (w *Worker) setCircuitState(open bool) {
	if w.observer != nil {
		w.observer.SetCircuitState(open)
	}
}
