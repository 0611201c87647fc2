package handlers

import (
	"net/http"

	"trevelo-backend/application/services"
	"trevelo-backend/pkg/common"
	apperrors "trevelo-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// VoteHandler handles voting requests on group trips
type VoteHandler struct {
	votes  *services.VoteService
	errors *apperrors.ErrorHandler
	logger *zap.Logger
}

// NewVoteHandler creates a new vote handler
func NewVoteHandler(votes *services.VoteService, errors *apperrors.ErrorHandler, logger *zap.Logger) *VoteHandler {
	return &VoteHandler{
		votes:  votes,
		errors: errors,
		logger: logger,
	}
}

// CastVoteRequest is the request body for casting a vote. Value is a
// pointer so an absent value can default to an upvote while an explicit
// zero is kept as sent.
type CastVoteRequest struct {
	Value *int `json:"value,omitempty"`
}

// Cast handles POST /groups/{groupID}/trips/{tripID}/votes
func (h *VoteHandler) Cast(w http.ResponseWriter, r *http.Request) {
	var req CastVoteRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body").WithCause(err))
		return
	}

	userID, _ := common.GetUserID(r.Context())
	groupID := chi.URLParam(r, "groupID")
	tripID := chi.URLParam(r, "tripID")

	value := 1
	if req.Value != nil {
		value = *req.Value
	}

	vote, err := h.votes.Cast(r.Context(), groupID, tripID, userID, value)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, vote)
}

// Tally handles GET /groups/{groupID}/trips/{tripID}/votes
func (h *VoteHandler) Tally(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	tripID := chi.URLParam(r, "tripID")

	tally, err := h.votes.Tally(r.Context(), groupID, tripID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, tally)
}
