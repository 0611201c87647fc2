package services

import (
	"context"
	"strings"

	"trevelo-backend/application/ports"
	"trevelo-backend/domain/entities"
	apperrors "trevelo-backend/pkg/errors"

	"go.uber.org/zap"
)

// GroupService manages groups, invite-based joining, and membership checks
type GroupService struct {
	groups ports.GroupRepository
	events ports.EventPublisher
	logger *zap.Logger
}

// NewGroupService creates a new group service
func NewGroupService(groups ports.GroupRepository, events ports.EventPublisher, logger *zap.Logger) *GroupService {
	return &GroupService{
		groups: groups,
		events: events,
		logger: logger,
	}
}

// Create makes a new group with the caller as Owner and a fresh invite code
func (s *GroupService) Create(ctx context.Context, userID, name string) (*entities.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("group name is required")
	}

	group, err := s.groups.CreateGroup(ctx, userID, name)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, ports.Event{
		Type:     ports.EventGroupCreated,
		EntityID: group.GroupID,
		Detail:   map[string]interface{}{"createdBy": userID},
	})

	s.logger.Info("group created",
		zap.String("groupID", group.GroupID),
		zap.String("createdBy", userID),
	)
	return group, nil
}

// Get returns a group's metadata
func (s *GroupService) Get(ctx context.Context, groupID string) (*entities.Group, error) {
	group, found, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.NewNotFoundError("group", groupID)
	}
	return group, nil
}

// Join resolves an invite code and adds the caller as a member. Joining a
// group the caller already belongs to is a no-op that keeps their current
// role, so an Owner re-entering their own invite stays Owner.
func (s *GroupService) Join(ctx context.Context, userID, inviteCode string) (*entities.Membership, error) {
	inviteCode = strings.TrimSpace(inviteCode)
	if inviteCode == "" {
		return nil, apperrors.NewValidationError("inviteCode is required")
	}

	invite, found, err := s.groups.ResolveInvite(ctx, inviteCode)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.NewNotFoundError("invite", inviteCode)
	}

	member, err := s.groups.IsMember(ctx, invite.GroupID, userID)
	if err != nil {
		return nil, err
	}
	if member {
		return &entities.Membership{GroupID: invite.GroupID, UserID: userID}, nil
	}

	membership, err := s.groups.AddMember(ctx, invite.GroupID, userID, entities.RoleMember)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, ports.Event{
		Type:     ports.EventMemberJoined,
		EntityID: invite.GroupID,
		Detail:   map[string]interface{}{"userId": userID},
	})
	return membership, nil
}

// ListMembers returns all members of a group
func (s *GroupService) ListMembers(ctx context.Context, groupID string) ([]entities.Membership, error) {
	return s.groups.ListMembers(ctx, groupID)
}

// RequireMember errors unless the user belongs to the group. Membership is
// the only access-control fact; non-members get the same answer whether the
// group exists or not.
func (s *GroupService) RequireMember(ctx context.Context, groupID, userID string) error {
	member, err := s.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !member {
		return apperrors.NewForbiddenError("not a member of this group")
	}
	return nil
}

func (s *GroupService) publishEvent(ctx context.Context, event ports.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed",
			zap.String("eventType", event.Type),
			zap.Error(err),
		)
	}
}
