package eventmock

import (
	"context"
	"sync"

	"p2p-lending/internal/domain/event"
)

var _ event.Publisher = (*Recorder)(nil)

type Published struct {
	RoutingKey string
	Payload    any
}

// Recorder keeps every published event in memory. Err, when set, is
// returned from Publish after recording.
type Recorder struct {
	mu     sync.Mutex
	events []Published
	Err    error
}

func (r *Recorder) Publish(_ context.Context, routingKey string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Published{RoutingKey: routingKey, Payload: payload})
	return r.Err
}

func (r *Recorder) Events() []Published {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Published, len(r.events))
	copy(out, r.events)
	return out
}

// Keys lists routing keys in publish order.
func (r *Recorder) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.RoutingKey)
	}
	return out
}
