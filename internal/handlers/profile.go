package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"user-accounts/internal/apperrors"
	"user-accounts/internal/middlewares"
	"user-accounts/internal/models"
)

// VisibilityUpdater defines the interface that the visibility service must implement.
type VisibilityUpdater interface {
	UpdateVisibility(ctx context.Context, requester *models.AuthUser, targetID string, isPublic bool) (*models.User, error)
}

// VisibilityRequest represents the JSON body for a profile visibility change
// swagger:model VisibilityRequest
type VisibilityRequest struct {
	// Whether the profile is publicly visible
	// required: true
	IsPublic *bool `json:"isPublic"`
}

// NewProfileVisibilityHandler returns an HTTP handler that toggles profile visibility.
// @Summary Update profile visibility
// @Description Sets the isPublic flag on a profile. Only the owner or an admin may change it.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Param visibilityRequest body handlers.VisibilityRequest true "Visibility request"
// @Success 200 {object} models.Response "Updated user"
// @Failure 400 {object} models.ErrorResponse "Missing isPublic field"
// @Failure 401 {object} models.ErrorResponse "Missing or invalid token"
// @Failure 403 {object} models.ErrorResponse "Not the owner or an admin"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Router /users/profile/{userId} [put]
func NewProfileVisibilityHandler(svc VisibilityUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authUser := middlewares.GetAuthUserFromContext(r.Context())
		if authUser == nil {
			writeError(w, apperrors.Unauthenticated("Authentication required"))
			return
		}

		targetID := chi.URLParam(r, "userId")

		var req VisibilityRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.IsPublic == nil {
			writeError(w, apperrors.InvalidInput("isPublic field is required"))
			return
		}

		user, err := svc.UpdateVisibility(r.Context(), authUser, targetID, *req.IsPublic)
		if err != nil {
			writeError(w, err)
			return
		}

		writeSuccess(w, http.StatusOK, user, "Profile visibility updated successfully")
	}
}
