// Package events publishes domain events about created plans, variations,
// subscriptions and customers.
package events

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/subscriptions/pkg/telemetry/correlation"
)

const (
	PlanCreated         = "plan.created"
	VariationCreated    = "variation.created"
	SubscriptionCreated = "subscription.created"
	CustomerCreated     = "customer.created"
)

type Event struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	SubjectID  string            `json:"subject_id"`
	OccurredAt time.Time         `json:"occurred_at"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Data       any               `json:"data"`
}

// New builds an event for subject carrying the correlation and trace ids in ctx.
func New(ctx context.Context, eventType, subjectID string, occurredAt time.Time, data any) Event {
	return Event{
		ID:         ulid.Make().String(),
		Type:       eventType,
		SubjectID:  subjectID,
		OccurredAt: occurredAt.UTC(),
		Metadata:   correlation.Metadata(ctx),
		Data:       data,
	}
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
