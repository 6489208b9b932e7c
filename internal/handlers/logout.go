package handlers

import (
	"context"
	"net/http"

	"user-accounts/internal/apperrors"
	"user-accounts/internal/middlewares"
)

// Logouter defines the interface that the logout service must implement.
type Logouter interface {
	Logout(ctx context.Context, userID string) error
}

// NewLogoutHandler returns an HTTP handler for user logout.
// @Summary User logout
// @Description Clears the caller's stored refresh token and drops both token cookies. Safe to call repeatedly.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response "Logged out"
// @Failure 401 {object} models.ErrorResponse "Missing or invalid token"
// @Router /users/logout [post]
func NewLogoutHandler(svc Logouter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authUser := middlewares.GetAuthUserFromContext(r.Context())
		if authUser == nil {
			writeError(w, apperrors.Unauthenticated("Authentication required"))
			return
		}

		if err := svc.Logout(r.Context(), authUser.UserID); err != nil {
			writeError(w, err)
			return
		}

		clearAuthCookies(w)
		writeSuccess(w, http.StatusOK, nil, "User logged out successfully")
	}
}
