package ports

import (
	"context"

	"trevelo-backend/domain/entities"
)

// JobRepository defines the interface for job persistence and owns the job
// state machine. Transitions are conditional on the current status, so a
// terminal job is never overwritten and a lost claim surfaces as a conflict.
type JobRepository interface {
	// Create writes a fresh queued job and returns it
	Create(ctx context.Context, prompt, createdBy string) (*entities.Job, error)

	// Get retrieves a job by ID; absence is not an error
	Get(ctx context.Context, jobID string) (*entities.Job, bool, error)

	// MarkRunning claims a queued job, stamping startedAt
	MarkRunning(ctx context.Context, jobID string) error

	// MarkCompleted moves a running job to its terminal completed state
	MarkCompleted(ctx context.Context, jobID string, plan *entities.TripPlan) error

	// MarkFailed moves a running job to its terminal failed state
	MarkFailed(ctx context.Context, jobID string, jobErr entities.JobError) error

	// ListByStatus returns all jobs currently in the given status
	ListByStatus(ctx context.Context, status entities.JobStatus) ([]*entities.Job, error)
}

// GroupRepository defines the interface for group, membership, and invite
// persistence
type GroupRepository interface {
	// CreateGroup writes the metadata row and the creator's Owner
	// membership row in one transaction
	CreateGroup(ctx context.Context, ownerID, name string) (*entities.Group, error)

	// GetGroup retrieves a group's metadata; absence is not an error
	GetGroup(ctx context.Context, groupID string) (*entities.Group, bool, error)

	// ListMembers returns all membership rows of a group in sort-key order
	ListMembers(ctx context.Context, groupID string) ([]entities.Membership, error)

	// IsMember reports whether the membership row exists
	IsMember(ctx context.Context, groupID, userID string) (bool, error)

	// ResolveInvite looks up the single group behind an invite code
	ResolveInvite(ctx context.Context, code string) (*entities.Invite, bool, error)

	// AddMember upserts a membership row; adding an existing member
	// overwrites the role without duplicating the row
	AddMember(ctx context.Context, groupID, userID, role string) (*entities.Membership, error)
}

// TripRepository defines the interface for personal and group-scoped trips
type TripRepository interface {
	Create(ctx context.Context, userID string, trip entities.Trip) (*entities.Trip, error)
	List(ctx context.Context, userID string) ([]entities.Trip, error)
	Get(ctx context.Context, userID, tripID string) (*entities.Trip, bool, error)

	// Update applies an attribute patch and stamps updatedAt. It fails
	// with a not-found error when the trip does not exist.
	Update(ctx context.Context, userID, tripID string, patch map[string]interface{}) (*entities.Trip, error)

	// Delete removes a trip; deleting an absent trip is a no-op
	Delete(ctx context.Context, userID, tripID string) error

	CreateGroupTrip(ctx context.Context, groupID, userID string, trip entities.GroupTrip) (*entities.GroupTrip, error)
	ListGroupTrips(ctx context.Context, groupID string) ([]entities.GroupTrip, error)
}

// VoteRepository defines the interface for votes on group trips
type VoteRepository interface {
	// Cast upserts the caller's vote; the latest write wins
	Cast(ctx context.Context, groupID, tripID, userID string, value int) (*entities.Vote, error)

	// Tally aggregates all votes on a trip; zero votes yields an empty tally
	Tally(ctx context.Context, groupID, tripID string) (*entities.Tally, error)
}

// UserRepository defines the interface for user profiles
type UserRepository interface {
	Get(ctx context.Context, userID string) (*entities.UserProfile, bool, error)
	Upsert(ctx context.Context, userID, displayName string) (*entities.UserProfile, error)
}
