package services

import (
	"context"
	"strings"

	"trevelo-backend/application/ports"
	"trevelo-backend/domain/entities"
	apperrors "trevelo-backend/pkg/errors"

	"go.uber.org/zap"
)

// TripService manages personal saved trips and group-shared trips
type TripService struct {
	trips  ports.TripRepository
	logger *zap.Logger
}

// NewTripService creates a new trip service
func NewTripService(trips ports.TripRepository, logger *zap.Logger) *TripService {
	return &TripService{
		trips:  trips,
		logger: logger,
	}
}

// SaveTrip stores a personal trip for the caller
func (s *TripService) SaveTrip(ctx context.Context, userID string, trip entities.Trip) (*entities.Trip, error) {
	if strings.TrimSpace(trip.Prompt) == "" && trip.Itinerary == nil {
		return nil, apperrors.NewValidationError("a trip needs a prompt or an itinerary")
	}
	return s.trips.Create(ctx, userID, trip)
}

// ListTrips returns all of the caller's personal trips
func (s *TripService) ListTrips(ctx context.Context, userID string) ([]entities.Trip, error) {
	return s.trips.List(ctx, userID)
}

// GetTrip returns one of the caller's personal trips
func (s *TripService) GetTrip(ctx context.Context, userID, tripID string) (*entities.Trip, error) {
	trip, found, err := s.trips.Get(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.NewNotFoundError("trip", tripID)
	}
	return trip, nil
}

// UpdateTrip patches a personal trip's mutable fields. The stored itinerary
// cannot be changed after creation.
func (s *TripService) UpdateTrip(ctx context.Context, userID, tripID string, patch map[string]interface{}) (*entities.Trip, error) {
	if len(patch) == 0 {
		return nil, apperrors.NewValidationError("no fields to update")
	}
	return s.trips.Update(ctx, userID, tripID, patch)
}

// DeleteTrip removes a personal trip. Deleting an absent trip succeeds, so
// deletes are safe to retry.
func (s *TripService) DeleteTrip(ctx context.Context, userID, tripID string) error {
	return s.trips.Delete(ctx, userID, tripID)
}

// ShareTrip stores an itinerary in a group. Group trips belong to the group
// from then on; there is no update or delete path.
func (s *TripService) ShareTrip(ctx context.Context, groupID, userID string, trip entities.GroupTrip) (*entities.GroupTrip, error) {
	if strings.TrimSpace(trip.Prompt) == "" {
		return nil, apperrors.NewValidationError("prompt is required")
	}
	return s.trips.CreateGroupTrip(ctx, groupID, userID, trip)
}

// ListGroupTrips returns all trips shared with a group
func (s *TripService) ListGroupTrips(ctx context.Context, groupID string) ([]entities.GroupTrip, error) {
	return s.trips.ListGroupTrips(ctx, groupID)
}
