package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"user-accounts/internal/apperrors"
	"user-accounts/internal/middlewares"
	"user-accounts/internal/models"
)

// ProfileGetter defines the interface that the profile read service must implement.
type ProfileGetter interface {
	GetProfile(ctx context.Context, requester *models.AuthUser, targetID string) (*models.User, error)
}

// NewUserProfileHandler returns an HTTP handler that reads a user profile.
// @Summary Get user profile
// @Description Returns a sanitized user profile. Private profiles are visible only to their owner and admins.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {object} models.Response "User profile"
// @Failure 401 {object} models.ErrorResponse "Missing or invalid token"
// @Failure 403 {object} models.ErrorResponse "Profile is private"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Router /users/userProfile/{userId} [get]
func NewUserProfileHandler(svc ProfileGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authUser := middlewares.GetAuthUserFromContext(r.Context())
		if authUser == nil {
			writeError(w, apperrors.Unauthenticated("Authentication required"))
			return
		}

		targetID := chi.URLParam(r, "userId")

		user, err := svc.GetProfile(r.Context(), authUser, targetID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeSuccess(w, http.StatusOK, user, "User profile fetched successfully")
	}
}
