package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"trevelo-backend/application/ports"
	"trevelo-backend/domain/entities"
	apperrors "trevelo-backend/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

const systemPrompt = `You are a travel planning assistant. Given a freeform trip request,
produce a full multi-day itinerary as JSON matching the provided schema with mode "trip".
If the input is a greeting, lacks the information needed to plan a trip, or is not about
travel at all, respond with mode "error" and a short message explaining what is missing.
When mode is "trip": error must be null and every trip field must be populated.
When mode is "error": every trip field must be null and error must be non-empty.`

// Generator produces trip plans through the OpenAI chat completions API
// using strict JSON schema output.
type Generator struct {
	client   openai.Client
	model    string
	validate *validator.Validate
	logger   *zap.Logger
}

// NewGenerator creates a plan generator backed by OpenAI
func NewGenerator(apiKey, model string, logger *zap.Logger) ports.PlanGenerator {
	return &Generator{
		client:   openai.NewClient(option.WithAPIKey(apiKey)),
		model:    model,
		validate: validator.New(),
		logger:   logger,
	}
}

// Generate turns a freeform prompt into a validated trip plan. The model may
// decline off-topic or underspecified prompts; that surfaces as a validation
// error carrying the model's message, not as an upstream failure.
func (g *Generator) Generate(ctx context.Context, prompt string) (*entities.TripPlan, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, apperrors.NewValidationError("prompt must be a non-empty string")
	}

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "trip_plan_or_error",
					Strict: openai.Bool(true),
					Schema: planSchema,
				},
			},
		},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			g.logger.Error("openai request failed",
				zap.Int("status", apiErr.StatusCode),
				zap.Error(err))
			return nil, apperrors.NewUpstreamError(
				fmt.Sprintf("openai error (%d): %s", apiErr.StatusCode, apiErr.Message)).
				WithCause(err)
		}
		return nil, apperrors.NewUpstreamError("openai request failed").WithCause(err)
	}
	if len(resp.Choices) == 0 {
		return nil, apperrors.NewUpstreamError("openai response contained no choices")
	}

	plan, err := g.decodePlan(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	if plan.IsError() {
		return nil, apperrors.NewValidationError(plan.Error).WithCode("PLAN_REJECTED")
	}
	return plan, nil
}

// decodePlan parses and validates the model's structured output. Split out so
// the mapping from raw output to plan or typed error is testable offline.
func (g *Generator) decodePlan(raw string) (*entities.TripPlan, error) {
	var plan entities.TripPlan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return nil, apperrors.NewUnprocessableError("model output is not valid JSON").WithCause(err)
	}
	if err := g.validate.Struct(&plan); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			issues := make([]entities.FieldError, len(validationErrors))
			for i, e := range validationErrors {
				issues[i] = entities.FieldError{
					Path:    fieldPath(e),
					Message: fieldMessage(e),
				}
			}
			return nil, apperrors.NewUnprocessableError("model output failed validation").
				WithDetails(map[string]interface{}{"issues": issues})
		}
		return nil, apperrors.NewUnprocessableError("model output failed validation").WithCause(err)
	}
	return &plan, nil
}

// fieldPath strips the root struct name from the validator namespace,
// leaving a dotted path like "dailyPlan[0].activities[1].costLabel".
func fieldPath(e validator.FieldError) string {
	path := e.Namespace()
	if idx := strings.Index(path, "."); idx >= 0 {
		path = path[idx+1:]
	}
	return lowerFirstSegments(path)
}

// fieldMessage formats a single field validation error
func fieldMessage(e validator.FieldError) string {
	field := strings.ToLower(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_if":
		return fmt.Sprintf("%s is required for this mode", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// lowerFirstSegments lowercases the first letter of each path segment so
// reported paths match the JSON field names rather than Go field names.
func lowerFirstSegments(path string) string {
	segments := strings.Split(path, ".")
	for i, s := range segments {
		if s == "" {
			continue
		}
		segments[i] = strings.ToLower(s[:1]) + s[1:]
	}
	return strings.Join(segments, ".")
}
