// Package events publishes workflow notifications (a prototype was submitted,
// reviewed, shelved, ...) for other systems to consume. Publishing is best
// effort and never affects the outcome of the workflow itself.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const DefaultSubject = "protodesk.workflow"

// Event describes a completed workflow action.
type Event struct {
	Kind        string    `json:"kind"`
	PrototypeID int64     `json:"prototype_id"`
	RequestID   string    `json:"request_id"`
	At          time.Time `json:"at"`
}

// New stamps an event with a fresh request id and the current time.
func New(kind string, prototypeID int64) Event {
	return Event{
		Kind:        kind,
		PrototypeID: prototypeID,
		RequestID:   uuid.NewString(),
		At:          time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }
