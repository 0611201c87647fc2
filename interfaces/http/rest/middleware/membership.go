package middleware

import (
	"net/http"

	"trevelo-backend/application/services"
	"trevelo-backend/pkg/common"
	apperrors "trevelo-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RequireMember guards group-scoped routes. The membership row is the only
// access-control fact: no row, no access, regardless of whether the group
// exists.
func RequireMember(groups *services.GroupService, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			groupID := chi.URLParam(r, "groupID")
			if groupID == "" {
				common.RespondError(w, http.StatusBadRequest, "VALIDATION", "groupId is required")
				return
			}

			userID, ok := common.GetUserID(r.Context())
			if !ok {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
				return
			}

			if err := groups.RequireMember(r.Context(), groupID, userID); err != nil {
				if apperrors.IsType(err, apperrors.ErrorTypeForbidden) {
					logger.Debug("membership check rejected",
						zap.String("groupID", groupID),
						zap.String("userID", userID),
					)
					common.RespondError(w, http.StatusForbidden, "FORBIDDEN", "not a member of this group")
					return
				}
				logger.Error("membership check failed",
					zap.String("groupID", groupID),
					zap.Error(err),
				)
				common.RespondError(w, http.StatusInternalServerError, "INTERNAL", "unable to verify membership")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
