package handlers

import (
	"context"
	"net/http"

	"user-accounts/internal/apperrors"
	"user-accounts/internal/middlewares"
	"user-accounts/internal/models"
)

// ProfileLister defines the interface that the user listing service must implement.
type ProfileLister interface {
	ListProfiles(ctx context.Context, requester *models.AuthUser) ([]models.User, error)
}

// NewAllUsersHandler returns an HTTP handler that lists every user.
// @Summary List all users
// @Description Returns all users sanitized, newest first. Admin only.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response "User list"
// @Failure 401 {object} models.ErrorResponse "Missing or invalid token"
// @Failure 403 {object} models.ErrorResponse "Caller is not an admin"
// @Router /users/allUsers [get]
func NewAllUsersHandler(svc ProfileLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authUser := middlewares.GetAuthUserFromContext(r.Context())
		if authUser == nil {
			writeError(w, apperrors.Unauthenticated("Authentication required"))
			return
		}

		users, err := svc.ListProfiles(r.Context(), authUser)
		if err != nil {
			writeError(w, err)
			return
		}

		writeSuccess(w, http.StatusOK, users, "Users fetched successfully")
	}
}
