package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
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

// inviteCodeBytes sizes the invite code: 4 random bytes, 8 hex characters
const inviteCodeBytes = 4

// GroupRepository persists groups, memberships, and the invite-code
// projection
type GroupRepository struct {
	store     abstractions.Store
	indexName string
	logger    *zap.Logger
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(store abstractions.Store, indexName string, logger *zap.Logger) ports.GroupRepository {
	return &GroupRepository{
		store:     store,
		indexName: indexName,
		logger:    logger,
	}
}

// groupItem is the stored shape of a group's metadata row. The GSI1
// projection resolves the invite code without a table scan.
type groupItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	GSI1PK     string `dynamodbav:"GSI1PK"`
	GSI1SK     string `dynamodbav:"GSI1SK"`
	GroupID    string `dynamodbav:"groupId"`
	Name       string `dynamodbav:"name"`
	CreatedBy  string `dynamodbav:"createdBy"`
	InviteCode string `dynamodbav:"inviteCode"`
	CreatedAt  int64  `dynamodbav:"createdAt"`
}

// memberItem is the stored shape of one membership row
type memberItem struct {
	PK       string `dynamodbav:"PK"`
	SK       string `dynamodbav:"SK"`
	GroupID  string `dynamodbav:"groupId"`
	UserID   string `dynamodbav:"userId"`
	Role     string `dynamodbav:"role"`
	JoinedAt int64  `dynamodbav:"joinedAt"`
}

// CreateGroup writes the metadata row and the creator's Owner membership
// row in a single transaction, so a crash cannot leave an ownerless group
func (r *GroupRepository) CreateGroup(ctx context.Context, ownerID, name string) (*entities.Group, error) {
	groupID := uuid.NewString()
	inviteCode, err := newInviteCode()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to generate invite code").WithCause(err)
	}
	now := time.Now().UnixMilli()

	groupKey := keys.GroupKey(groupID)
	gsi1pk, gsi1sk := keys.InviteGSI(inviteCode, groupID)
	group := groupItem{
		PK:         groupKey.PK,
		SK:         groupKey.SK,
		GSI1PK:     gsi1pk,
		GSI1SK:     gsi1sk,
		GroupID:    groupID,
		Name:       name,
		CreatedBy:  ownerID,
		InviteCode: inviteCode,
		CreatedAt:  now,
	}

	memberKey := keys.MemberKey(groupID, ownerID)
	owner := memberItem{
		PK:       memberKey.PK,
		SK:       memberKey.SK,
		GroupID:  groupID,
		UserID:   ownerID,
		Role:     entities.RoleOwner,
		JoinedAt: now,
	}

	if err := r.store.PutPair(ctx, group, owner); err != nil {
		return nil, apperrors.NewDatabaseError("failed to create group", err)
	}

	r.logger.Info("Group created",
		zap.String("groupID", groupID),
		zap.String("ownerID", ownerID),
	)
	return group.toGroup(), nil
}

// GetGroup retrieves a group's metadata row; absence is not an error
func (r *GroupRepository) GetGroup(ctx context.Context, groupID string) (*entities.Group, bool, error) {
	var item groupItem
	found, err := r.store.Get(ctx, keys.GroupKey(groupID), &item)
	if err != nil {
		return nil, false, apperrors.NewDatabaseError("failed to get group", err)
	}
	if !found {
		return nil, false, nil
	}
	return item.toGroup(), true, nil
}

// ListMembers returns all membership rows of a group in sort-key order
func (r *GroupRepository) ListMembers(ctx context.Context, groupID string) ([]entities.Membership, error) {
	pk, skPrefix := keys.MemberPrefix(groupID)
	var items []memberItem
	if err := r.store.QueryPrefix(ctx, pk, skPrefix, &items); err != nil {
		return nil, apperrors.NewDatabaseError("failed to list members", err)
	}

	members := make([]entities.Membership, len(items))
	for i, item := range items {
		members[i] = item.toMembership()
	}
	return members, nil
}

// IsMember reports whether the membership row exists. Absence means "not
// a member", never an error.
func (r *GroupRepository) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	var item memberItem
	found, err := r.store.Get(ctx, keys.MemberKey(groupID, userID), &item)
	if err != nil {
		return false, apperrors.NewDatabaseError("failed to check membership", err)
	}
	return found, nil
}

// ResolveInvite looks up the group behind an invite code through the
// secondary index. A code maps to at most one group.
func (r *GroupRepository) ResolveInvite(ctx context.Context, code string) (*entities.Invite, bool, error) {
	var items []groupItem
	err := r.store.QueryIndex(ctx, r.indexName, keys.InvitePartition(code), keys.PrefixInvite, &items)
	if err != nil {
		return nil, false, apperrors.NewDatabaseError("failed to resolve invite", err)
	}
	if len(items) == 0 {
		return nil, false, nil
	}
	if len(items) > 1 {
		r.logger.Warn("Invite code resolves to multiple groups",
			zap.String("inviteCode", code),
			zap.Int("count", len(items)),
		)
	}

	item := items[0]
	return &entities.Invite{
		GroupID:    item.GroupID,
		Name:       item.Name,
		CreatedBy:  item.CreatedBy,
		InviteCode: item.InviteCode,
	}, true, nil
}

// AddMember upserts a membership row. Adding an existing member rewrites
// the row in place; there is never more than one row per (group, user).
func (r *GroupRepository) AddMember(ctx context.Context, groupID, userID, role string) (*entities.Membership, error) {
	memberKey := keys.MemberKey(groupID, userID)
	item := memberItem{
		PK:       memberKey.PK,
		SK:       memberKey.SK,
		GroupID:  groupID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now().UnixMilli(),
	}
	if err := r.store.Put(ctx, item); err != nil {
		return nil, apperrors.NewDatabaseError("failed to add member", err)
	}

	membership := item.toMembership()
	return &membership, nil
}

// newInviteCode generates a short random invite code
func newInviteCode() (string, error) {
	buf := make([]byte, inviteCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// toGroup converts a stored item to the domain entity
func (i groupItem) toGroup() *entities.Group {
	return &entities.Group{
		GroupID:    i.GroupID,
		Name:       i.Name,
		CreatedBy:  i.CreatedBy,
		InviteCode: i.InviteCode,
		CreatedAt:  i.CreatedAt,
	}
}

// toMembership converts a stored item to the domain entity
func (i memberItem) toMembership() entities.Membership {
	return entities.Membership{
		GroupID:  i.GroupID,
		UserID:   i.UserID,
		Role:     i.Role,
		JoinedAt: i.JoinedAt,
	}
}
