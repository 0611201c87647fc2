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

// UserRepository persists user profiles
type UserRepository struct {
	store  abstractions.Store
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(store abstractions.Store, logger *zap.Logger) ports.UserRepository {
	return &UserRepository{
		store:  store,
		logger: logger,
	}
}

type profileItem struct {
	PK          string `dynamodbav:"PK"`
	SK          string `dynamodbav:"SK"`
	UserID      string `dynamodbav:"userId"`
	DisplayName string `dynamodbav:"displayName"`
	UpdatedAt   int64  `dynamodbav:"updatedAt"`
}

// Get fetches a user's profile; absence is reported through the bool
func (r *UserRepository) Get(ctx context.Context, userID string) (*entities.UserProfile, bool, error) {
	var item profileItem
	found, err := r.store.Get(ctx, keys.ProfileKey(userID), &item)
	if err != nil {
		return nil, false, apperrors.NewDatabaseError("failed to get profile", err)
	}
	if !found {
		return nil, false, nil
	}
	profile := item.toProfile()
	return &profile, true, nil
}

// Upsert writes the full profile; the latest write wins
func (r *UserRepository) Upsert(ctx context.Context, userID, displayName string) (*entities.UserProfile, error) {
	key := keys.ProfileKey(userID)
	item := profileItem{
		PK:          key.PK,
		SK:          key.SK,
		UserID:      userID,
		DisplayName: displayName,
		UpdatedAt:   time.Now().UnixMilli(),
	}
	if err := r.store.Put(ctx, item); err != nil {
		return nil, apperrors.NewDatabaseError("failed to upsert profile", err)
	}
	profile := item.toProfile()
	return &profile, nil
}

func (i profileItem) toProfile() entities.UserProfile {
	return entities.UserProfile{
		UserID:      i.UserID,
		DisplayName: i.DisplayName,
		UpdatedAt:   i.UpdatedAt,
	}
}
