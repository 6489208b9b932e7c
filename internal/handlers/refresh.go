package handlers

import (
	"context"
	"net/http"

	"user-accounts/internal/apperrors"
	"user-accounts/internal/jwt"
)

// Refresher defines the interface that the token refresh service must implement.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
}

// RefreshRequest represents the JSON body for token refresh
// swagger:model RefreshRequest
type RefreshRequest struct {
	// Refresh token; falls back to the refreshToken cookie when omitted
	RefreshToken string `json:"refreshToken"`
}

// RefreshResult is the data payload of a successful refresh
// swagger:model RefreshResult
type RefreshResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// NewRefreshHandler returns an HTTP handler that rotates a refresh token
// into a fresh token pair.
// @Summary Refresh tokens
// @Description Exchanges a valid refresh token for a new access and refresh token pair. The presented token must match the one stored for the user; older tokens are rejected.
// @Tags users
// @Accept json
// @Produce json
// @Param refreshRequest body handlers.RefreshRequest false "Refresh request"
// @Success 200 {object} models.Response "New token pair"
// @Failure 401 {object} models.ErrorResponse "Invalid or revoked refresh token"
// @Router /users/refresh [post]
func NewRefreshHandler(svc Refresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RefreshRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := decodeJSON(w, r, &req); err != nil {
				writeError(w, err)
				return
			}
		}
		if req.RefreshToken == "" {
			if c, err := r.Cookie(jwt.RefreshCookieName); err == nil {
				req.RefreshToken = c.Value
			}
		}
		if req.RefreshToken == "" {
			writeError(w, apperrors.Unauthenticated("Refresh token is required"))
			return
		}

		accessToken, refreshToken, err := svc.Refresh(r.Context(), req.RefreshToken)
		if err != nil {
			writeError(w, err)
			return
		}

		setAuthCookies(w, accessToken, refreshToken)
		writeSuccess(w, http.StatusOK, RefreshResult{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		}, "Tokens refreshed successfully")
	}
}
