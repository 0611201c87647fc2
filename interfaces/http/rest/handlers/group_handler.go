package handlers

import (
	"net/http"
	"strings"

	"trevelo-backend/application/services"
	"trevelo-backend/domain/entities"
	"trevelo-backend/pkg/common"
	apperrors "trevelo-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// GroupHandler handles group, membership, and group trip requests
type GroupHandler struct {
	groups      *services.GroupService
	trips       *services.TripService
	itineraries *services.ItineraryService
	errors      *apperrors.ErrorHandler
	logger      *zap.Logger
}

// NewGroupHandler creates a new group handler
func NewGroupHandler(
	groups *services.GroupService,
	trips *services.TripService,
	itineraries *services.ItineraryService,
	errors *apperrors.ErrorHandler,
	logger *zap.Logger,
) *GroupHandler {
	return &GroupHandler{
		groups:      groups,
		trips:       trips,
		itineraries: itineraries,
		errors:      errors,
		logger:      logger,
	}
}

// CreateGroupRequest is the request body for creating a group
type CreateGroupRequest struct {
	Name string `json:"name"`
}

// JoinGroupRequest is the request body for joining through an invite code
type JoinGroupRequest struct {
	InviteCode string `json:"inviteCode"`
}

// ShareTripRequest is the request body for generating a trip into a group
type ShareTripRequest struct {
	Prompt string `json:"prompt"`
}

// Create handles POST /groups
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateGroupRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body").WithCause(err))
		return
	}

	userID, ok := common.GetUserID(r.Context())
	if !ok {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	group, err := h.groups.Create(r.Context(), userID, req.Name)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, group)
}

// Get handles GET /groups/{groupID}
func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	group, err := h.groups.Get(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, group)
}

// Join handles POST /groups/join
func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req JoinGroupRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body").WithCause(err))
		return
	}

	userID, ok := common.GetUserID(r.Context())
	if !ok {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	membership, err := h.groups.Join(r.Context(), userID, req.InviteCode)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, membership)
}

// ListMembers handles GET /groups/{groupID}/members
func (h *GroupHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.groups.ListMembers(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, members)
}

// ShareTrip handles POST /groups/{groupID}/trips. The itinerary is
// generated server-side from the prompt; a rejected or failed generation
// leaves the group untouched.
func (h *GroupHandler) ShareTrip(w http.ResponseWriter, r *http.Request) {
	var req ShareTripRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body").WithCause(err))
		return
	}

	userID, _ := common.GetUserID(r.Context())
	groupID := chi.URLParam(r, "groupID")

	plan, err := h.itineraries.Generate(r.Context(), req.Prompt)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	trip, err := h.trips.ShareTrip(r.Context(), groupID, userID, entities.GroupTrip{
		Prompt:    strings.TrimSpace(req.Prompt),
		Itinerary: plan,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, trip)
}

// ListTrips handles GET /groups/{groupID}/trips
func (h *GroupHandler) ListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := h.trips.ListGroupTrips(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, trips)
}
