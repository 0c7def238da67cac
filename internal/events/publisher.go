package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ishant212/NFT-AirBnB/internal/domain"
)

// Envelope wraps a domain event with delivery metadata.
type Envelope struct {
	ID      string       `json:"id"`
	Kind    string       `json:"kind"`
	Key     string       `json:"key"`
	At      time.Time    `json:"at"`
	Payload domain.Event `json:"payload"`
}

// Publisher delivers events to off-engine listeners (listings viewer,
// notification fan-out). Publishing is observational: the engine logs
// failures but never aborts an operation because of one.
type Publisher interface {
	Publish(ctx context.Context, ev domain.Event) error
	Close() error
}

// Recorder is an in-process publisher that keeps every event in memory.
// Used in tests and in single-node dev mode.
type Recorder struct {
	mu     sync.Mutex
	events []Envelope
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(_ context.Context, ev domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Envelope{
		ID:      uuid.NewString(),
		Kind:    ev.Kind(),
		Key:     ev.Key(),
		At:      time.Now(),
		Payload: ev,
	})
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a snapshot of everything published so far.
func (r *Recorder) Events() []Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Envelope, len(r.events))
	copy(out, r.events)
	return out
}

// OfKind returns published events of one kind, in publish order.
func (r *Recorder) OfKind(kind string) []Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Envelope
	for _, ev := range r.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}
