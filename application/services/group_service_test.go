package services_test

import (
	"context"
	"testing"

	"trevelo-backend/application/services"
	"trevelo-backend/domain/entities"
	"trevelo-backend/infrastructure/messaging/eventbridge"
	"trevelo-backend/infrastructure/persistence/memory"
	"trevelo-backend/infrastructure/persistence/repository"
	apperrors "trevelo-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newGroupService(t *testing.T) *services.GroupService {
	t.Helper()
	groups := repository.NewGroupRepository(memory.NewStore(), "GSIInvite", zap.NewNop())
	return services.NewGroupService(groups, eventbridge.NewNoopPublisher(), zap.NewNop())
}

func TestGroupServiceCreate(t *testing.T) {
	ctx := context.Background()
	svc := newGroupService(t)

	_, err := svc.Create(ctx, "user-1", "  ")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	group, err := svc.Create(ctx, "user-1", "Summer Trip Crew")
	require.NoError(t, err)
	assert.NotEmpty(t, group.InviteCode)

	got, err := svc.Get(ctx, group.GroupID)
	require.NoError(t, err)
	assert.Equal(t, "Summer Trip Crew", got.Name)
}

func TestGroupServiceGetMissing(t *testing.T) {
	ctx := context.Background()
	svc := newGroupService(t)

	_, err := svc.Get(ctx, "no-such-group")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGroupServiceJoin(t *testing.T) {
	ctx := context.Background()
	svc := newGroupService(t)

	group, err := svc.Create(ctx, "owner-1", "Summer Trip Crew")
	require.NoError(t, err)

	membership, err := svc.Join(ctx, "user-2", group.InviteCode)
	require.NoError(t, err)
	assert.Equal(t, group.GroupID, membership.GroupID)
	assert.Equal(t, entities.RoleMember, membership.Role)

	members, err := svc.ListMembers(ctx, group.GroupID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestGroupServiceJoinUnknownCode(t *testing.T) {
	ctx := context.Background()
	svc := newGroupService(t)

	_, err := svc.Join(ctx, "user-1", "deadbeef")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.Join(ctx, "user-1", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestGroupServiceJoinIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newGroupService(t)

	group, err := svc.Create(ctx, "owner-1", "Summer Trip Crew")
	require.NoError(t, err)

	_, err = svc.Join(ctx, "user-2", group.InviteCode)
	require.NoError(t, err)
	_, err = svc.Join(ctx, "user-2", group.InviteCode)
	require.NoError(t, err)

	members, err := svc.ListMembers(ctx, group.GroupID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestGroupServiceOwnerJoinKeepsRole(t *testing.T) {
	ctx := context.Background()
	svc := newGroupService(t)

	group, err := svc.Create(ctx, "owner-1", "Summer Trip Crew")
	require.NoError(t, err)

	_, err = svc.Join(ctx, "owner-1", group.InviteCode)
	require.NoError(t, err)

	members, err := svc.ListMembers(ctx, group.GroupID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, entities.RoleOwner, members[0].Role)
}

func TestGroupServiceRequireMember(t *testing.T) {
	ctx := context.Background()
	svc := newGroupService(t)

	group, err := svc.Create(ctx, "owner-1", "Summer Trip Crew")
	require.NoError(t, err)

	require.NoError(t, svc.RequireMember(ctx, group.GroupID, "owner-1"))

	err = svc.RequireMember(ctx, group.GroupID, "stranger")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))

	// a missing group gives a stranger the same answer as a real one
	err = svc.RequireMember(ctx, "no-such-group", "stranger")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))
}
