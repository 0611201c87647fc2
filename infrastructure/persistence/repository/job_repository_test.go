package repository_test

import (
	"context"
	"testing"

	"trevelo-backend/application/ports"
	"trevelo-backend/domain/entities"
	"trevelo-backend/infrastructure/persistence/memory"
	"trevelo-backend/infrastructure/persistence/repository"
	apperrors "trevelo-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testIndexName = "GSIInvite"

func newJobRepo(t *testing.T) ports.JobRepository {
	t.Helper()
	return repository.NewJobRepository(memory.NewStore(), testIndexName, zap.NewNop())
}

func TestJobCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newJobRepo(t)

	job, err := repo.Create(ctx, "three days in Lisbon", "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, job.JobID)
	assert.Equal(t, entities.JobStatusQueued, job.Status)
	assert.Equal(t, "three days in Lisbon", job.Prompt)
	assert.Equal(t, "user-1", job.CreatedBy)
	assert.NotZero(t, job.CreatedAt)
	assert.Zero(t, job.StartedAt)

	got, found, err := repo.Get(ctx, job.JobID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, job.JobID, got.JobID)
	assert.Equal(t, entities.JobStatusQueued, got.Status)
}

func TestJobGetMissing(t *testing.T) {
	ctx := context.Background()
	repo := newJobRepo(t)

	got, found, err := repo.Get(ctx, "no-such-job")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestJobLifecycleCompleted(t *testing.T) {
	ctx := context.Background()
	repo := newJobRepo(t)

	job, err := repo.Create(ctx, "weekend in Kyoto", "user-1")
	require.NoError(t, err)

	require.NoError(t, repo.MarkRunning(ctx, job.JobID))

	running, found, err := repo.Get(ctx, job.JobID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, entities.JobStatusRunning, running.Status)
	assert.NotZero(t, running.StartedAt)

	plan := &entities.TripPlan{Mode: entities.PlanModeTrip, TripTitle: "Kyoto Weekend"}
	require.NoError(t, repo.MarkCompleted(ctx, job.JobID, plan))

	done, found, err := repo.Get(ctx, job.JobID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, entities.JobStatusCompleted, done.Status)
	assert.NotZero(t, done.CompletedAt)
	require.NotNil(t, done.Plan)
	assert.Equal(t, "Kyoto Weekend", done.Plan.TripTitle)
	assert.Nil(t, done.Error)
}

func TestJobMarkFailedStoresError(t *testing.T) {
	ctx := context.Background()
	repo := newJobRepo(t)

	job, err := repo.Create(ctx, "plan something", "user-1")
	require.NoError(t, err)
	require.NoError(t, repo.MarkRunning(ctx, job.JobID))

	jobErr := entities.JobError{
		Message: "upstream unavailable",
		Code:    "UPSTREAM_ERROR",
	}
	require.NoError(t, repo.MarkFailed(ctx, job.JobID, jobErr))

	failed, found, err := repo.Get(ctx, job.JobID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, entities.JobStatusFailed, failed.Status)
	require.NotNil(t, failed.Error)
	assert.Equal(t, "UPSTREAM_ERROR", failed.Error.Code)
	assert.Equal(t, "upstream unavailable", failed.Error.Message)
}

func TestJobClaimIsExclusive(t *testing.T) {
	ctx := context.Background()
	repo := newJobRepo(t)

	job, err := repo.Create(ctx, "plan something", "user-1")
	require.NoError(t, err)

	require.NoError(t, repo.MarkRunning(ctx, job.JobID))

	// the second claimant must lose
	err = repo.MarkRunning(ctx, job.JobID)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestJobTerminalStatesAreImmutable(t *testing.T) {
	ctx := context.Background()
	repo := newJobRepo(t)

	job, err := repo.Create(ctx, "plan something", "user-1")
	require.NoError(t, err)
	require.NoError(t, repo.MarkRunning(ctx, job.JobID))
	require.NoError(t, repo.MarkCompleted(ctx, job.JobID, &entities.TripPlan{Mode: entities.PlanModeTrip}))

	err = repo.MarkFailed(ctx, job.JobID, entities.JobError{Message: "late failure", Code: "UNEXPECTED_ERROR"})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))

	err = repo.MarkCompleted(ctx, job.JobID, &entities.TripPlan{Mode: entities.PlanModeTrip})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))

	got, found, err := repo.Get(ctx, job.JobID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, entities.JobStatusCompleted, got.Status)
}

func TestJobTransitionOnMissingJob(t *testing.T) {
	ctx := context.Background()
	repo := newJobRepo(t)

	err := repo.MarkRunning(ctx, "no-such-job")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestJobListByStatusFollowsTransitions(t *testing.T) {
	ctx := context.Background()
	repo := newJobRepo(t)

	first, err := repo.Create(ctx, "prompt one", "user-1")
	require.NoError(t, err)
	second, err := repo.Create(ctx, "prompt two", "user-2")
	require.NoError(t, err)

	queued, err := repo.ListByStatus(ctx, entities.JobStatusQueued)
	require.NoError(t, err)
	assert.Len(t, queued, 2)

	require.NoError(t, repo.MarkRunning(ctx, first.JobID))

	queued, err = repo.ListByStatus(ctx, entities.JobStatusQueued)
	require.NoError(t, err)
	require.Len(t, queued, 1)
	assert.Equal(t, second.JobID, queued[0].JobID)

	running, err := repo.ListByStatus(ctx, entities.JobStatusRunning)
	require.NoError(t, err)
	require.Len(t, running, 1)
	assert.Equal(t, first.JobID, running[0].JobID)

	require.NoError(t, repo.MarkCompleted(ctx, first.JobID, &entities.TripPlan{Mode: entities.PlanModeTrip}))

	running, err = repo.ListByStatus(ctx, entities.JobStatusRunning)
	require.NoError(t, err)
	assert.Empty(t, running)

	completed, err := repo.ListByStatus(ctx, entities.JobStatusCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, first.JobID, completed[0].JobID)
}
