package audit

import (
	"context"
	"sync"
	"time"
)

// Publisher is the sink services emit audit events into. Implementations must
// be safe for concurrent use and should not block the business path.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// NopPublisher discards events. Used when auditing is not configured.
type NopPublisher struct{}

func (NopPublisher) Emit(context.Context, Event) error { return nil }

// MemoryPublisher appends events to an in-memory log. Used in tests and local
// development.
type MemoryPublisher struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Emit(_ context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// Events returns a copy of the captured events.
func (p *MemoryPublisher) Events() []Event {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]Event{}, p.events...)
}
