package handlers

import (
	"net/http"

	"trevelo-backend/application/services"
	"trevelo-backend/pkg/common"
	apperrors "trevelo-backend/pkg/errors"

	"go.uber.org/zap"
)

// UserHandler handles profile requests for the authenticated user
type UserHandler struct {
	users  *services.UserService
	errors *apperrors.ErrorHandler
	logger *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *services.UserService, errors *apperrors.ErrorHandler, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		errors: errors,
		logger: logger,
	}
}

// UpdateProfileRequest is the request body for updating the caller's profile
type UpdateProfileRequest struct {
	DisplayName string `json:"displayName"`
}

// Me handles GET /users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	profile, err := h.users.GetProfile(r.Context(), userID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, profile)
}

// UpdateMe handles PUT /users/me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body").WithCause(err))
		return
	}

	userID, ok := common.GetUserID(r.Context())
	if !ok {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	profile, err := h.users.UpdateProfile(r.Context(), userID, req.DisplayName)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, profile)
}
