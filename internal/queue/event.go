// Package queue defines the workflow events exchanged over the message
// broker, the publishers that emit them and the consumer that appends them
// to the diagnostic log.
package queue

import (
	"context"
	"time"
)

// Event types emitted after a successful state change.
const (
	ApplicationSubmitted = "application.submitted"
	ApplicationApproved  = "application.approved"
	ApplicationRejected  = "application.rejected"
	ApplicationWithdrawn = "application.withdrawn"
	PaymentStatusUpdated = "payment.status_updated"
	PaymentMethodUpdated = "payment.method_updated"
	UserRegistered       = "user.registered"
	UserRoleUpdated      = "user.role_updated"
	WorkerRequested      = "worker_request.created"
	WorkerApproved       = "worker_request.approved"
	WorkerRejected       = "worker_request.rejected"
	PetRegistered        = "pet.registered"
	PetStatusUpdated     = "pet.status_updated"
	PetDeleted           = "pet.deleted"
	PetTypeCreated       = "pet_type.created"
)

// Event carries enough context for the log consumer to write a readable
// line without querying the database.
type Event struct {
	Type       string            `json:"type"`
	ActorID    uint64            `json:"actor_id,omitempty"`
	EntityID   uint64            `json:"entity_id"`
	Detail     map[string]string `json:"detail,omitempty"`
	OccurredAt string            `json:"occurred_at"`
}

// NewEvent stamps an event with the current UTC time.  kv is read as
// alternating detail keys and values; a trailing key without value is
// dropped.
func NewEvent(typ string, actorID, entityID uint64, kv ...string) Event {
	ev := Event{
		Type:       typ,
		ActorID:    actorID,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if len(kv) >= 2 {
		ev.Detail = make(map[string]string, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			ev.Detail[kv[i]] = kv[i+1]
		}
	}
	return ev
}

// Publisher emits events.  Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// NopPublisher drops every event.  Used when EVENTS_ENABLED is off.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
