package services

import (
	"context"

	"trevelo-backend/application/ports"
	"trevelo-backend/domain/entities"
	apperrors "trevelo-backend/pkg/errors"

	"go.uber.org/zap"
)

// VoteService records and tallies votes on group trips
type VoteService struct {
	votes  ports.VoteRepository
	events ports.EventPublisher
	logger *zap.Logger
}

// NewVoteService creates a new vote service
func NewVoteService(votes ports.VoteRepository, events ports.EventPublisher, logger *zap.Logger) *VoteService {
	return &VoteService{
		votes:  votes,
		events: events,
		logger: logger,
	}
}

// Cast records the caller's vote on a group trip. One vote per user per
// trip; voting again replaces the previous value.
func (s *VoteService) Cast(ctx context.Context, groupID, tripID, userID string, value int) (*entities.Vote, error) {
	if tripID == "" {
		return nil, apperrors.NewValidationError("tripId is required")
	}

	vote, err := s.votes.Cast(ctx, groupID, tripID, userID, value)
	if err != nil {
		return nil, err
	}

	if err := s.events.Publish(ctx, ports.Event{
		Type:     ports.EventVoteCast,
		EntityID: tripID,
		Detail:   map[string]interface{}{"groupId": groupID, "userId": userID},
	}); err != nil {
		s.logger.Warn("event publish failed", zap.String("eventType", ports.EventVoteCast), zap.Error(err))
	}
	return vote, nil
}

// Tally aggregates the votes on a group trip
func (s *VoteService) Tally(ctx context.Context, groupID, tripID string) (*entities.Tally, error) {
	if tripID == "" {
		return nil, apperrors.NewValidationError("tripId is required")
	}
	return s.votes.Tally(ctx, groupID, tripID)
}
