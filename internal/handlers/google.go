package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"user-accounts/internal/apperrors"
	"user-accounts/internal/logger"
)

const oauthStateCookie = "oauthState"

// GoogleUserInfo is the profile returned by Google after a successful
// OAuth exchange
// swagger:model GoogleUserInfo
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// NewGoogleLoginHandler returns an HTTP handler that starts the Google
// OAuth flow.
// @Summary Start Google OAuth
// @Description Redirects the client to Google's consent page with a single-use state value stored in a cookie.
// @Tags users
// @Success 307 "Redirect to Google"
// @Router /users/auth/google [get]
func NewGoogleLoginHandler(cfg *oauth2.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     oauthStateCookie,
			Value:    state,
			Path:     "/",
			MaxAge:   300,
			HttpOnly: true,
			Secure:   true,
		})
		http.Redirect(w, r, cfg.AuthCodeURL(state), http.StatusTemporaryRedirect)
	}
}

// NewGoogleCallbackHandler returns an HTTP handler for the Google OAuth
// callback. It verifies the state, exchanges the code and returns the
// Google profile.
// @Summary Google OAuth callback
// @Description Verifies the OAuth state, exchanges the authorization code for a token and returns the Google account profile.
// @Tags users
// @Produce json
// @Param state query string true "OAuth state"
// @Param code query string true "Authorization code"
// @Success 200 {object} models.Response "Google profile"
// @Failure 401 {object} models.ErrorResponse "State mismatch or exchange failure"
// @Router /users/auth/google/callback [get]
func NewGoogleCallbackHandler(cfg *oauth2.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stateCookie, err := r.Cookie(oauthStateCookie)
		if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
			writeError(w, apperrors.Unauthenticated("Invalid OAuth state"))
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     oauthStateCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
		})

		code := r.URL.Query().Get("code")
		if code == "" {
			writeError(w, apperrors.Unauthenticated("Authorization code is required"))
			return
		}

		token, err := cfg.Exchange(r.Context(), code)
		if err != nil {
			logger.Log.Errorw("oauth code exchange failed", "err", err)
			writeError(w, apperrors.Unauthenticated("OAuth exchange failed"))
			return
		}

		client := cfg.Client(r.Context(), token)
		resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
		if err != nil {
			logger.Log.Errorw("failed to fetch google userinfo", "err", err)
			writeError(w, apperrors.Unauthenticated("Failed to fetch Google profile"))
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			logger.Log.Errorw("google userinfo returned non-200",
				"status", resp.StatusCode,
				"body", string(body),
			)
			writeError(w, apperrors.Unauthenticated("Failed to fetch Google profile"))
			return
		}

		var info GoogleUserInfo
		if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
			logger.Log.Errorw("failed to decode google userinfo", "err", err)
			writeError(w, apperrors.Unauthenticated("Failed to fetch Google profile"))
			return
		}

		writeSuccess(w, http.StatusOK, info, "Google account authenticated successfully")
	}
}
