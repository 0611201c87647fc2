package ports

import (
	"context"

	"trevelo-backend/domain/entities"
)

// PlanGenerator is the external generation collaborator. Implementations
// return application errors from pkg/errors so the orchestrator can record
// a structured failure: VALIDATION for unusable input, UNPROCESSABLE for
// output that failed structural validation, UPSTREAM for provider errors,
// INTERNAL for anything else.
type PlanGenerator interface {
	Generate(ctx context.Context, prompt string) (*entities.TripPlan, error)
}
