package broadcast

import "context"

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Event is the in-memory notification of a task mutation. It is produced
// once per successful mutation and never persisted. Task holds a full task
// snapshot for creates and updates, and an id-only payload for deletes.
type Event struct {
	OwnerID string `json:"-"`
	Action  Action `json:"action"`
	Task    any    `json:"task"`
}

// DeletedTask is the id-only payload carried by deletion events.
type DeletedTask struct {
	ID string `json:"id"`
}

// Broadcaster fans out change events to live subscribers. Topics are scoped
// per owner: a subscription only observes events for its own owner id.
type Broadcaster interface {
	// Publish hands the event off for delivery to every subscriber of the
	// event's owner topic. Delivery is best-effort and at-most-once; Publish
	// returns once the handoff is done, not once subscribers have received.
	Publish(ctx context.Context, event Event) error

	// Subscribe registers a new subscription on the owner's topic. The
	// subscription observes events published after it was registered.
	Subscribe(ownerID string) (Subscription, error)

	// Close tears down the broadcaster and ends all open subscriptions.
	Close()
}

// Subscription is one live listener's registration on an owner topic.
// Events() is closed when the subscription or the broadcaster is closed.
type Subscription interface {
	Events() <-chan Event
	Close()
}
