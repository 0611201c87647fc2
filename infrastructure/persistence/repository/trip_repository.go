package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trevelo-backend/application/ports"
	"trevelo-backend/domain/entities"
	"trevelo-backend/infrastructure/persistence/abstractions"
	"trevelo-backend/infrastructure/persistence/keys"
	apperrors "trevelo-backend/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// patchableAttributes are the only attributes a trip patch may touch.
// The itinerary payload is immutable after creation.
var patchableAttributes = map[string]bool{
	"title":  true,
	"prompt": true,
}

// TripRepository persists personal and group-scoped trips
type TripRepository struct {
	store  abstractions.Store
	logger *zap.Logger
}

// NewTripRepository creates a new trip repository
func NewTripRepository(store abstractions.Store, logger *zap.Logger) ports.TripRepository {
	return &TripRepository{
		store:  store,
		logger: logger,
	}
}

// tripItem is the stored shape of a personal trip
type tripItem struct {
	PK        string             `dynamodbav:"PK"`
	SK        string             `dynamodbav:"SK"`
	TripID    string             `dynamodbav:"tripId"`
	UserID    string             `dynamodbav:"userId"`
	Title     string             `dynamodbav:"title,omitempty"`
	Prompt    string             `dynamodbav:"prompt,omitempty"`
	Itinerary *entities.TripPlan `dynamodbav:"itinerary,omitempty"`
	CreatedAt int64              `dynamodbav:"createdAt"`
	UpdatedAt int64              `dynamodbav:"updatedAt"`
}

// groupTripItem is the stored shape of a group trip
type groupTripItem struct {
	PK        string             `dynamodbav:"PK"`
	SK        string             `dynamodbav:"SK"`
	TripID    string             `dynamodbav:"tripId"`
	GroupID   string             `dynamodbav:"groupId"`
	CreatedBy string             `dynamodbav:"createdBy"`
	Prompt    string             `dynamodbav:"prompt"`
	Itinerary *entities.TripPlan `dynamodbav:"itinerary,omitempty"`
	CreatedAt int64              `dynamodbav:"createdAt"`
}

// Create writes a new personal trip
func (r *TripRepository) Create(ctx context.Context, userID string, trip entities.Trip) (*entities.Trip, error) {
	tripID := uuid.NewString()
	now := time.Now().UnixMilli()
	key := keys.TripKey(userID, tripID)

	item := tripItem{
		PK:        key.PK,
		SK:        key.SK,
		TripID:    tripID,
		UserID:    userID,
		Title:     trip.Title,
		Prompt:    trip.Prompt,
		Itinerary: trip.Itinerary,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.store.Put(ctx, item); err != nil {
		return nil, apperrors.NewDatabaseError("failed to create trip", err)
	}
	return item.toTrip(), nil
}

// List returns all personal trips of a user in sort-key order
func (r *TripRepository) List(ctx context.Context, userID string) ([]entities.Trip, error) {
	pk, skPrefix := keys.TripPrefix(userID)
	var items []tripItem
	if err := r.store.QueryPrefix(ctx, pk, skPrefix, &items); err != nil {
		return nil, apperrors.NewDatabaseError("failed to list trips", err)
	}

	trips := make([]entities.Trip, len(items))
	for i, item := range items {
		trips[i] = *item.toTrip()
	}
	return trips, nil
}

// Get retrieves one personal trip; absence is not an error
func (r *TripRepository) Get(ctx context.Context, userID, tripID string) (*entities.Trip, bool, error) {
	var item tripItem
	found, err := r.store.Get(ctx, keys.TripKey(userID, tripID), &item)
	if err != nil {
		return nil, false, apperrors.NewDatabaseError("failed to get trip", err)
	}
	if !found {
		return nil, false, nil
	}
	return item.toTrip(), true, nil
}

// Update applies an attribute patch to an existing trip and stamps
// updatedAt. Patching an attribute outside the patchable set is rejected.
func (r *TripRepository) Update(ctx context.Context, userID, tripID string, patch map[string]interface{}) (*entities.Trip, error) {
	if len(patch) == 0 {
		return nil, apperrors.NewValidationError("patch must not be empty")
	}

	set := make(map[string]interface{}, len(patch)+1)
	for name, value := range patch {
		if !patchableAttributes[name] {
			return nil, apperrors.NewValidationError(fmt.Sprintf("attribute %q cannot be patched", name))
		}
		set[name] = value
	}
	set["updatedAt"] = time.Now().UnixMilli()

	var item tripItem
	err := r.store.Update(ctx, keys.TripKey(userID, tripID), abstractions.Update{Set: set}, &item)
	if err != nil {
		if errors.Is(err, abstractions.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("trip", tripID)
		}
		return nil, apperrors.NewDatabaseError("failed to update trip", err)
	}
	return item.toTrip(), nil
}

// Delete removes a personal trip; deleting an absent trip is a no-op
func (r *TripRepository) Delete(ctx context.Context, userID, tripID string) error {
	if err := r.store.Delete(ctx, keys.TripKey(userID, tripID)); err != nil {
		return apperrors.NewDatabaseError("failed to delete trip", err)
	}
	return nil
}

// CreateGroupTrip writes a new trip shared with a group
func (r *TripRepository) CreateGroupTrip(ctx context.Context, groupID, userID string, trip entities.GroupTrip) (*entities.GroupTrip, error) {
	tripID := uuid.NewString()
	key := keys.GroupTripKey(groupID, tripID)

	item := groupTripItem{
		PK:        key.PK,
		SK:        key.SK,
		TripID:    tripID,
		GroupID:   groupID,
		CreatedBy: userID,
		Prompt:    trip.Prompt,
		Itinerary: trip.Itinerary,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := r.store.Put(ctx, item); err != nil {
		return nil, apperrors.NewDatabaseError("failed to create group trip", err)
	}
	return item.toGroupTrip(), nil
}

// ListGroupTrips returns all trips of a group in sort-key order
func (r *TripRepository) ListGroupTrips(ctx context.Context, groupID string) ([]entities.GroupTrip, error) {
	pk, skPrefix := keys.GroupTripPrefix(groupID)
	var items []groupTripItem
	if err := r.store.QueryPrefix(ctx, pk, skPrefix, &items); err != nil {
		return nil, apperrors.NewDatabaseError("failed to list group trips", err)
	}

	trips := make([]entities.GroupTrip, len(items))
	for i, item := range items {
		trips[i] = *item.toGroupTrip()
	}
	return trips, nil
}

// toTrip converts a stored item to the domain entity
func (i tripItem) toTrip() *entities.Trip {
	return &entities.Trip{
		TripID:    i.TripID,
		UserID:    i.UserID,
		Title:     i.Title,
		Prompt:    i.Prompt,
		Itinerary: i.Itinerary,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

// toGroupTrip converts a stored item to the domain entity
func (i groupTripItem) toGroupTrip() *entities.GroupTrip {
	return &entities.GroupTrip{
		TripID:    i.TripID,
		GroupID:   i.GroupID,
		CreatedBy: i.CreatedBy,
		Prompt:    i.Prompt,
		Itinerary: i.Itinerary,
		CreatedAt: i.CreatedAt,
	}
}
