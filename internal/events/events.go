// Package events publishes change notifications for expenses and properties.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	ExpenseCreated        = "expense.created"
	ExpenseUpdated        = "expense.updated"
	ExpenseDeleted        = "expense.deleted"
	PropertyCreated       = "property.created"
	PropertyAccountAdded  = "property.account_added"
	contentTypeJSON       = "application/json"
	defaultPublishTimeout = 5 * time.Second
)

// Event is the JSON message body. Data holds the affected record, or nil for deletes.
type Event struct {
	Type       string    `json:"type"`
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data,omitempty"`
}

func New(eventType, id string, data any) Event {
	return Event{
		Type:       eventType,
		ID:         id,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

func (e Event) ToJSON() ([]byte, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event %s: %w", e.Type, err)
	}
	return body, nil
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Noop discards every event. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }
