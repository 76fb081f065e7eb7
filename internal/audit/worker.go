package audit

import (
	"context"
	"log/slog"
)

// Worker drains buffered audit events into a sink so emitters never block on
// the sink's latency. Dropped events are counted and logged, not retried:
// the audit trail is best-effort by design at this volume.
type Worker struct {
	sink   Publisher
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Publisher, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run consumes events until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Emit(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "audit sink rejected event",
					"action", event.Action,
					"error", err,
				)
			}
		}
	}
}

// BufferedPublisher emits into a bounded channel consumed by a Worker. Full
// buffer drops the event with a warning rather than stalling a request.
type BufferedPublisher struct {
	inbox  chan Event
	logger *slog.Logger
}

func NewBufferedPublisher(size int, logger *slog.Logger) *BufferedPublisher {
	return &BufferedPublisher{
		inbox:  make(chan Event, size),
		logger: logger,
	}
}

// Inbox exposes the channel for a Worker to consume.
func (p *BufferedPublisher) Inbox() <-chan Event {
	return p.inbox
}

func (p *BufferedPublisher) Emit(ctx context.Context, event Event) error {
	select {
	case p.inbox <- event:
		return nil
	default:
		p.logger.WarnContext(ctx, "audit buffer full, dropping event",
			"action", event.Action,
		)
		return nil
	}
}
