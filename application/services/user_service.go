package services

import (
	"context"
	"strings"

	"trevelo-backend/application/ports"
	"trevelo-backend/domain/entities"
	apperrors "trevelo-backend/pkg/errors"

	"go.uber.org/zap"
)

// UserService manages user profiles
type UserService struct {
	users  ports.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(users ports.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

// GetProfile returns the caller's profile
func (s *UserService) GetProfile(ctx context.Context, userID string) (*entities.UserProfile, error) {
	profile, found, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.NewNotFoundError("profile", userID)
	}
	return profile, nil
}

// UpdateProfile upserts the caller's profile. The whole profile is replaced;
// the latest write wins.
func (s *UserService) UpdateProfile(ctx context.Context, userID, displayName string) (*entities.UserProfile, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, apperrors.NewValidationError("displayName is required")
	}
	return s.users.Upsert(ctx, userID, displayName)
}
