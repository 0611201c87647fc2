package handlers

import (
	"net/http"

	"trevelo-backend/application/services"
	"trevelo-backend/domain/entities"
	"trevelo-backend/pkg/common"
	apperrors "trevelo-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TripHandler handles personal trip requests
type TripHandler struct {
	trips  *services.TripService
	errors *apperrors.ErrorHandler
	logger *zap.Logger
}

// NewTripHandler creates a new trip handler
func NewTripHandler(trips *services.TripService, errors *apperrors.ErrorHandler, logger *zap.Logger) *TripHandler {
	return &TripHandler{
		trips:  trips,
		errors: errors,
		logger: logger,
	}
}

// SaveTripRequest is the request body for saving a personal trip
type SaveTripRequest struct {
	Title     string             `json:"title,omitempty"`
	Prompt    string             `json:"prompt,omitempty"`
	Itinerary *entities.TripPlan `json:"itinerary,omitempty"`
}

// UpdateTripRequest is the request body for patching a trip. Only the title
// and prompt are mutable; pointers distinguish "absent" from "set to empty".
type UpdateTripRequest struct {
	Title  *string `json:"title,omitempty"`
	Prompt *string `json:"prompt,omitempty"`
}

// Save handles POST /trips
func (h *TripHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req SaveTripRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body").WithCause(err))
		return
	}

	userID, ok := common.GetUserID(r.Context())
	if !ok {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	trip, err := h.trips.SaveTrip(r.Context(), userID, entities.Trip{
		Title:     req.Title,
		Prompt:    req.Prompt,
		Itinerary: req.Itinerary,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, trip)
}

// List handles GET /trips
func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	trips, err := h.trips.ListTrips(r.Context(), userID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, trips)
}

// Get handles GET /trips/{tripID}
func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	trip, err := h.trips.GetTrip(r.Context(), userID, chi.URLParam(r, "tripID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, trip)
}

// Update handles PATCH /trips/{tripID}
func (h *TripHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateTripRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body").WithCause(err))
		return
	}

	userID, ok := common.GetUserID(r.Context())
	if !ok {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	patch := make(map[string]interface{})
	if req.Title != nil {
		patch["title"] = *req.Title
	}
	if req.Prompt != nil {
		patch["prompt"] = *req.Prompt
	}

	trip, err := h.trips.UpdateTrip(r.Context(), userID, chi.URLParam(r, "tripID"), patch)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, trip)
}

// Delete handles DELETE /trips/{tripID}
func (h *TripHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	if err := h.trips.DeleteTrip(r.Context(), userID, chi.URLParam(r, "tripID")); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
