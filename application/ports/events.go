package ports

import "context"

// Lifecycle event types published on the event bus
const (
	EventJobQueued     = "job.queued"
	EventJobCompleted  = "job.completed"
	EventJobFailed     = "job.failed"
	EventGroupCreated  = "group.created"
	EventMemberJoined  = "group.member_joined"
	EventVoteCast      = "vote.cast"
)

// Event is a lifecycle notification about an entity
type Event struct {
	Type     string                 `json:"type"`
	EntityID string                 `json:"entityId"`
	Detail   map[string]interface{} `json:"detail,omitempty"`
}

// EventPublisher publishes lifecycle events. Publishing is best-effort
// from the services' point of view; a failed publish never fails the
// operation that triggered it.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
