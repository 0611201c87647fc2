package repository

import (
	"context"
	"time"

	"trevelo-backend/application/ports"
	"trevelo-backend/domain/entities"
	"trevelo-backend/infrastructure/persistence/abstractions"
	"trevelo-backend/infrastructure/persistence/keys"
	apperrors "trevelo-backend/pkg/errors"

	"go.uber.org/zap"
)

// VoteRepository persists votes on group trips
type VoteRepository struct {
	store  abstractions.Store
	logger *zap.Logger
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(store abstractions.Store, logger *zap.Logger) ports.VoteRepository {
	return &VoteRepository{
		store:  store,
		logger: logger,
	}
}

// voteItem is the stored shape of one vote. The sort key encodes
// (trip, user), so one user holds exactly one row per trip.
type voteItem struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	GroupID   string `dynamodbav:"groupId"`
	TripID    string `dynamodbav:"tripId"`
	UserID    string `dynamodbav:"userId"`
	Value     int    `dynamodbav:"value"`
	CreatedAt int64  `dynamodbav:"createdAt"`
}

// Cast upserts the caller's vote; re-voting overwrites the previous value
func (r *VoteRepository) Cast(ctx context.Context, groupID, tripID, userID string, value int) (*entities.Vote, error) {
	key := keys.VoteKey(groupID, tripID, userID)
	item := voteItem{
		PK:        key.PK,
		SK:        key.SK,
		GroupID:   groupID,
		TripID:    tripID,
		UserID:    userID,
		Value:     value,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := r.store.Put(ctx, item); err != nil {
		return nil, apperrors.NewDatabaseError("failed to cast vote", err)
	}

	vote := item.toVote()
	return &vote, nil
}

// Tally aggregates all votes on a group trip in one bounded prefix scan.
// Zero votes is a valid empty tally, never an error.
func (r *VoteRepository) Tally(ctx context.Context, groupID, tripID string) (*entities.Tally, error) {
	pk, skPrefix := keys.VotePrefix(groupID, tripID)
	var items []voteItem
	if err := r.store.QueryPrefix(ctx, pk, skPrefix, &items); err != nil {
		return nil, apperrors.NewDatabaseError("failed to tally votes", err)
	}

	tally := &entities.Tally{Votes: make([]entities.Vote, len(items))}
	for i, item := range items {
		tally.Votes[i] = item.toVote()
		tally.Total += item.Value
	}
	tally.Count = len(items)
	return tally, nil
}

// toVote converts a stored item to the domain entity
func (i voteItem) toVote() entities.Vote {
	return entities.Vote{
		GroupID:   i.GroupID,
		TripID:    i.TripID,
		UserID:    i.UserID,
		Value:     i.Value,
		CreatedAt: i.CreatedAt,
	}
}
