package handlers

import (
	"net/http"

	"trevelo-backend/application/services"
	"trevelo-backend/pkg/common"
	apperrors "trevelo-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ItineraryHandler handles itinerary generation and job polling requests
type ItineraryHandler struct {
	itineraries *services.ItineraryService
	errors      *apperrors.ErrorHandler
	logger      *zap.Logger
}

// NewItineraryHandler creates a new itinerary handler
func NewItineraryHandler(itineraries *services.ItineraryService, errors *apperrors.ErrorHandler, logger *zap.Logger) *ItineraryHandler {
	return &ItineraryHandler{
		itineraries: itineraries,
		errors:      errors,
		logger:      logger,
	}
}

// StartItineraryRequest is the request body for starting a generation job
type StartItineraryRequest struct {
	Prompt string `json:"prompt"`
}

// StartItineraryResponse acknowledges an accepted job
type StartItineraryResponse struct {
	JobID string `json:"jobId"`
}

// Start handles POST /itineraries/start. It answers 202 as soon as the job
// row is durable; the result is fetched by polling the job endpoint.
func (h *ItineraryHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartItineraryRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body").WithCause(err))
		return
	}

	// Anonymous callers are allowed here; the service records them as such
	userID, _ := common.GetUserID(r.Context())

	job, err := h.itineraries.Start(r.Context(), req.Prompt, userID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusAccepted, StartItineraryResponse{JobID: job.JobID})
}

// Generate handles POST /itineraries/generate, the synchronous path
func (h *ItineraryHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req StartItineraryRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body").WithCause(err))
		return
	}

	plan, err := h.itineraries.Generate(r.Context(), req.Prompt)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, plan)
}

// GetJob handles GET /jobs/{jobID}
func (h *ItineraryHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	job, err := h.itineraries.Poll(r.Context(), jobID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, job)
}
