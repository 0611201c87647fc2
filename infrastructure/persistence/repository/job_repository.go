// Package repository provides one typed repository per entity kind, all
// built on the shared Store port and the key codec so the compile-time
// types keep entity kinds from crossing while the physical table stays
// unified.
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

// JobRepository persists jobs and enforces the job state machine in DynamoDB
type JobRepository struct {
	store     abstractions.Store
	indexName string
	logger    *zap.Logger
}

// NewJobRepository creates a new job repository
func NewJobRepository(store abstractions.Store, indexName string, logger *zap.Logger) ports.JobRepository {
	return &JobRepository{
		store:     store,
		indexName: indexName,
		logger:    logger,
	}
}

// jobItem is the stored shape of a job. The GSI1 projection groups jobs by
// status so stale running jobs are queryable without a scan.
type jobItem struct {
	PK          string              `dynamodbav:"PK"`
	SK          string              `dynamodbav:"SK"`
	GSI1PK      string              `dynamodbav:"GSI1PK"`
	GSI1SK      string              `dynamodbav:"GSI1SK"`
	JobID       string              `dynamodbav:"jobId"`
	Status      string              `dynamodbav:"status"`
	Prompt      string              `dynamodbav:"prompt"`
	CreatedBy   string              `dynamodbav:"createdBy"`
	Data        *entities.TripPlan  `dynamodbav:"data,omitempty"`
	Error       *entities.JobError  `dynamodbav:"error,omitempty"`
	CreatedAt   int64               `dynamodbav:"createdAt"`
	StartedAt   int64               `dynamodbav:"startedAt,omitempty"`
	CompletedAt int64               `dynamodbav:"completedAt,omitempty"`
}

// Create writes a fresh queued job
func (r *JobRepository) Create(ctx context.Context, prompt, createdBy string) (*entities.Job, error) {
	jobID := uuid.NewString()
	now := time.Now().UnixMilli()
	key := keys.JobKey(jobID)
	gsi1pk, gsi1sk := keys.JobStatusGSI(string(entities.JobStatusQueued), jobID)

	item := jobItem{
		PK:        key.PK,
		SK:        key.SK,
		GSI1PK:    gsi1pk,
		GSI1SK:    gsi1sk,
		JobID:     jobID,
		Status:    string(entities.JobStatusQueued),
		Prompt:    prompt,
		CreatedBy: createdBy,
		CreatedAt: now,
	}
	if err := r.store.Put(ctx, item); err != nil {
		return nil, apperrors.NewDatabaseError("failed to create job", err)
	}

	r.logger.Info("Job created",
		zap.String("jobID", jobID),
		zap.String("createdBy", createdBy),
	)
	return item.toJob(), nil
}

// Get retrieves a job by ID; absence is not an error
func (r *JobRepository) Get(ctx context.Context, jobID string) (*entities.Job, bool, error) {
	var item jobItem
	found, err := r.store.Get(ctx, keys.JobKey(jobID), &item)
	if err != nil {
		return nil, false, apperrors.NewDatabaseError("failed to get job", err)
	}
	if !found {
		return nil, false, nil
	}
	return item.toJob(), true, nil
}

// MarkRunning claims a queued job. The conditional update is the claim: a
// second claimant, or a claim against a terminal job, fails with a conflict.
func (r *JobRepository) MarkRunning(ctx context.Context, jobID string) error {
	gsi1pk, _ := keys.JobStatusGSI(string(entities.JobStatusRunning), jobID)
	return r.transition(ctx, jobID, entities.JobStatusQueued, map[string]interface{}{
		"status":    string(entities.JobStatusRunning),
		"startedAt": time.Now().UnixMilli(),
		"GSI1PK":    gsi1pk,
	})
}

// MarkCompleted moves a running job to completed with its result payload
func (r *JobRepository) MarkCompleted(ctx context.Context, jobID string, plan *entities.TripPlan) error {
	gsi1pk, _ := keys.JobStatusGSI(string(entities.JobStatusCompleted), jobID)
	return r.transition(ctx, jobID, entities.JobStatusRunning, map[string]interface{}{
		"status":      string(entities.JobStatusCompleted),
		"completedAt": time.Now().UnixMilli(),
		"data":        plan,
		"GSI1PK":      gsi1pk,
	})
}

// MarkFailed moves a running job to failed with its structured error
func (r *JobRepository) MarkFailed(ctx context.Context, jobID string, jobErr entities.JobError) error {
	gsi1pk, _ := keys.JobStatusGSI(string(entities.JobStatusFailed), jobID)
	return r.transition(ctx, jobID, entities.JobStatusRunning, map[string]interface{}{
		"status":      string(entities.JobStatusFailed),
		"completedAt": time.Now().UnixMilli(),
		"error":       &jobErr,
		"GSI1PK":      gsi1pk,
	})
}

// transition applies a conditional status update
func (r *JobRepository) transition(ctx context.Context, jobID string, from entities.JobStatus, set map[string]interface{}) error {
	err := r.store.Update(ctx, keys.JobKey(jobID), abstractions.Update{
		Set: set,
		Condition: &abstractions.Condition{
			Attribute: "status",
			In:        []string{string(from)},
		},
	}, nil)
	if err == nil {
		return nil
	}
	if errors.Is(err, abstractions.ErrNotFound) {
		return apperrors.NewNotFoundError("job", jobID)
	}
	if errors.Is(err, abstractions.ErrConditionFailed) {
		return apperrors.NewConflictError(fmt.Sprintf("job %s is not %s", jobID, from))
	}
	return apperrors.NewDatabaseError("failed to update job", err)
}

// ListByStatus returns all jobs currently in the given status via the
// status projection
func (r *JobRepository) ListByStatus(ctx context.Context, status entities.JobStatus) ([]*entities.Job, error) {
	var items []jobItem
	err := r.store.QueryIndex(ctx, r.indexName, keys.JobStatusPartition(string(status)), keys.PrefixJob, &items)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to list jobs by status", err)
	}

	jobs := make([]*entities.Job, len(items))
	for i, item := range items {
		jobs[i] = item.toJob()
	}
	return jobs, nil
}

// toJob converts a stored item to the domain entity
func (i jobItem) toJob() *entities.Job {
	return &entities.Job{
		JobID:       i.JobID,
		Status:      entities.JobStatus(i.Status),
		Prompt:      i.Prompt,
		CreatedBy:   i.CreatedBy,
		Plan:        i.Data,
		Error:       i.Error,
		CreatedAt:   i.CreatedAt,
		StartedAt:   i.StartedAt,
		CompletedAt: i.CompletedAt,
	}
}
