package handlers

import (
	"context"
	"net/http"

	"user-accounts/internal/jwt"
	"user-accounts/internal/models"
)

// Loginer defines the interface that the login service must implement.
type Loginer interface {
	Login(ctx context.Context, email, password string) (*models.User, string, string, error)
}

// LoginRequest represents the JSON body for user login
// swagger:model LoginRequest
type LoginRequest struct {
	// Email
	// required: true
	// example: john@example.com
	Email string `json:"email"`

	// Password
	// required: true
	// example: secret123
	Password string `json:"password"`
}

// LoginResult is the data payload of a successful login
// swagger:model LoginResult
type LoginResult struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// setAuthCookies mirrors the token pair into HttpOnly cookies so
// browser clients need no header handling.
func setAuthCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     jwt.AccessCookieName,
		Value:    accessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     jwt.RefreshCookieName,
		Value:    refreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
	})
}

// clearAuthCookies drops both token cookies.
func clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{jwt.AccessCookieName, jwt.RefreshCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
		})
	}
}

// NewLoginHandler returns an HTTP handler for user login.
// @Summary User login
// @Description Authenticates by email and password, returns the sanitized user with an access and refresh token, and mirrors both tokens into cookies.
// @Tags users
// @Accept json
// @Produce json
// @Param loginRequest body handlers.LoginRequest true "Login request"
// @Success 200 {object} models.Response "User and token pair"
// @Failure 400 {object} models.ErrorResponse "Missing email or password"
// @Failure 401 {object} models.ErrorResponse "Invalid credentials"
// @Failure 404 {object} models.ErrorResponse "User does not exist"
// @Router /users/login [post]
func NewLoginHandler(svc Loginer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, err)
			return
		}

		user, accessToken, refreshToken, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}

		setAuthCookies(w, accessToken, refreshToken)
		writeSuccess(w, http.StatusOK, LoginResult{
			User:         user,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		}, "User logged in successfully")
	}
}
