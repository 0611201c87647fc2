package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"trevelo-backend/application/ports"
	"trevelo-backend/domain/entities"
	apperrors "trevelo-backend/pkg/errors"

	"go.uber.org/zap"
)

// AnonymousUser is recorded as the creator when a job is started without an
// authenticated identity.
const AnonymousUser = "anonymous"

// ItineraryService orchestrates generation jobs: it creates jobs, runs the
// generation work in the background, and answers polls. Background work is
// fire-and-forget; completion is observed by polling, never by blocking the
// start request.
type ItineraryService struct {
	jobs      ports.JobRepository
	generator ports.PlanGenerator
	events    ports.EventPublisher
	logger    *zap.Logger
}

// NewItineraryService creates a new itinerary service
func NewItineraryService(
	jobs ports.JobRepository,
	generator ports.PlanGenerator,
	events ports.EventPublisher,
	logger *zap.Logger,
) *ItineraryService {
	return &ItineraryService{
		jobs:      jobs,
		generator: generator,
		events:    events,
		logger:    logger,
	}
}

// Start validates the prompt, records a queued job, and kicks off background
// processing. It returns as soon as the job row is durable; the caller polls
// for the outcome. An invalid prompt fails before any job row is written.
func (s *ItineraryService) Start(ctx context.Context, prompt, userID string) (*entities.Job, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, apperrors.NewValidationError("prompt must be a non-empty string")
	}
	if userID == "" {
		userID = AnonymousUser
	}

	job, err := s.jobs.Create(ctx, prompt, userID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, ports.Event{
		Type:     ports.EventJobQueued,
		EntityID: job.JobID,
		Detail:   map[string]interface{}{"createdBy": userID},
	})

	// The request context dies with the response; background work gets its
	// own context so an early client disconnect cannot abort generation.
	go s.process(context.Background(), job.JobID)

	return job, nil
}

// Poll returns the current state of a job
func (s *ItineraryService) Poll(ctx context.Context, jobID string) (*entities.Job, error) {
	if jobID == "" {
		return nil, apperrors.NewValidationError("jobId is required")
	}
	job, found, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.NewNotFoundError("job", jobID)
	}
	return job, nil
}

// Generate runs generation synchronously without a job record
func (s *ItineraryService) Generate(ctx context.Context, prompt string) (*entities.TripPlan, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, apperrors.NewValidationError("prompt must be a non-empty string")
	}
	return s.generator.Generate(ctx, prompt)
}

// process runs one job to a terminal state. The queued to running transition
// is the worker's claim on the job: if it is lost, another worker (or the
// stale sweeper) owns the job and this worker walks away without touching it.
func (s *ItineraryService) process(ctx context.Context, jobID string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic while processing job",
				zap.String("jobID", jobID),
				zap.Any("panic", r),
			)
			s.failJob(ctx, jobID, entities.JobError{
				Message: fmt.Sprintf("panic: %v", r),
				Code:    "UNEXPECTED_ERROR",
			})
		}
	}()

	if err := s.jobs.MarkRunning(ctx, jobID); err != nil {
		if apperrors.IsConflict(err) {
			s.logger.Warn("lost claim on job, abandoning",
				zap.String("jobID", jobID),
				zap.Error(err),
			)
			return
		}
		s.logger.Error("failed to claim job",
			zap.String("jobID", jobID),
			zap.Error(err),
		)
		return
	}

	job, found, err := s.jobs.Get(ctx, jobID)
	if err != nil || !found {
		s.logger.Error("failed to re-read claimed job",
			zap.String("jobID", jobID),
			zap.Bool("found", found),
			zap.Error(err),
		)
		s.failJob(ctx, jobID, entities.JobError{
			Message: "job disappeared after claim",
			Code:    "UNEXPECTED_ERROR",
		})
		return
	}

	plan, err := s.generator.Generate(ctx, job.Prompt)
	if err != nil {
		s.logger.Warn("generation failed",
			zap.String("jobID", jobID),
			zap.Error(err),
		)
		s.failJob(ctx, jobID, toJobError(err))
		return
	}

	if err := s.jobs.MarkCompleted(ctx, jobID, plan); err != nil {
		s.logger.Error("failed to complete job",
			zap.String("jobID", jobID),
			zap.Error(err),
		)
		return
	}

	s.publish(ctx, ports.Event{Type: ports.EventJobCompleted, EntityID: jobID})
	s.logger.Info("job completed", zap.String("jobID", jobID))
}

// failJob records a terminal failure. A conflict means the job already
// reached a terminal state through another path and is left untouched.
func (s *ItineraryService) failJob(ctx context.Context, jobID string, jobErr entities.JobError) {
	if err := s.jobs.MarkFailed(ctx, jobID, jobErr); err != nil {
		if apperrors.IsConflict(err) {
			return
		}
		s.logger.Error("failed to record job failure",
			zap.String("jobID", jobID),
			zap.Error(err),
		)
		return
	}
	s.publish(ctx, ports.Event{
		Type:     ports.EventJobFailed,
		EntityID: jobID,
		Detail:   map[string]interface{}{"code": jobErr.Code, "message": jobErr.Message},
	})
}

// FailStale fails every running job whose claim is older than the cutoff.
// Jobs orphaned by a crashed worker stop presenting as running forever and
// pollers get a definitive answer.
func (s *ItineraryService) FailStale(ctx context.Context, olderThan time.Duration) (int, error) {
	running, err := s.jobs.ListByStatus(ctx, entities.JobStatusRunning)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-olderThan).UnixMilli()
	failed := 0
	for _, job := range running {
		if job.StartedAt == 0 || job.StartedAt > cutoff {
			continue
		}
		err := s.jobs.MarkFailed(ctx, job.JobID, entities.JobError{
			Message: "job exceeded the maximum running time",
			Code:    "STALE_JOB",
		})
		if err != nil {
			// A conflict means the worker finished between the list and
			// the write. That is the race resolving correctly.
			if apperrors.IsConflict(err) {
				continue
			}
			s.logger.Error("failed to expire stale job",
				zap.String("jobID", job.JobID),
				zap.Error(err),
			)
			continue
		}
		failed++
		s.publish(ctx, ports.Event{
			Type:     ports.EventJobFailed,
			EntityID: job.JobID,
			Detail:   map[string]interface{}{"code": "STALE_JOB"},
		})
	}

	if failed > 0 {
		s.logger.Info("expired stale jobs", zap.Int("count", failed))
	}
	return failed, nil
}

// StartSweeper runs FailStale on an interval until the context is cancelled
func (s *ItineraryService) StartSweeper(ctx context.Context, interval, staleAfter time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.FailStale(ctx, staleAfter); err != nil {
					s.logger.Error("stale job sweep failed", zap.Error(err))
				}
			}
		}
	}()
}

// publish sends a lifecycle event without letting a bus failure affect the
// triggering operation
func (s *ItineraryService) publish(ctx context.Context, event ports.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed",
			zap.String("eventType", event.Type),
			zap.String("entityID", event.EntityID),
			zap.Error(err),
		)
	}
}

// toJobError converts a processing error into the structured error stored on
// the failed job
func toJobError(err error) entities.JobError {
	appErr := apperrors.GetAppError(err)
	if appErr == nil {
		return entities.JobError{Message: err.Error(), Code: "UNEXPECTED_ERROR"}
	}

	jobErr := entities.JobError{Message: appErr.Message}
	switch appErr.Type {
	case apperrors.ErrorTypeValidation:
		jobErr.Code = "BAD_REQUEST"
	case apperrors.ErrorTypeUnprocessable:
		jobErr.Code = "VALIDATION_ERROR"
		if issues, ok := appErr.Details["issues"].([]entities.FieldError); ok {
			jobErr.Details = issues
		}
	case apperrors.ErrorTypeUpstream:
		jobErr.Code = "UPSTREAM_ERROR"
	default:
		jobErr.Code = "UNEXPECTED_ERROR"
	}
	if appErr.Code != "" {
		jobErr.Code = appErr.Code
	}
	return jobErr
}
