// Package events publishes domain events about recurring payments so that
// notification workers can act on them outside the request path.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/logger"
)

// Event types.
const (
	PaymentRolledOver = "payment.rolled_over"
	PaymentEnded      = "payment.ended"
	PaymentDueSoon    = "payment.due_soon"
	PaymentOverdue    = "payment.overdue"
)

// Event is the JSON envelope published for every domain event.
type Event struct {
	Type       string                 `json:"type"`
	UserID     string                 `json:"user_id"`
	ResourceID string                 `json:"resource_id"`
	OccurredAt time.Time              `json:"occurred_at"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
}

// Encode returns the wire form of e.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events to subscribers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NewPublisher connects to RabbitMQ when url is set and falls back to a
// publisher that only logs otherwise.
func NewPublisher(url, exchange string) (Publisher, error) {
	if url == "" {
		logger.Named("events").Info("AMQP_URL not set, events will only be logged")
		return NopPublisher{}, nil
	}
	return NewAMQPPublisher(url, exchange)
}

// NopPublisher logs events at debug level and drops them.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(_ context.Context, event Event) error {
	logger.Named("events").Debugw("event dropped", "type", event.Type, "resource_id", event.ResourceID)
	return nil
}

// Close implements Publisher.
func (NopPublisher) Close() error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Publish implements Publisher.
func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Close implements Publisher.
func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// OfType returns the recorded events with the given type.
func (r *Recorder) OfType(eventType string) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
