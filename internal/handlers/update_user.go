package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"user-accounts/internal/apperrors"
	"user-accounts/internal/middlewares"
	"user-accounts/internal/models"
	"user-accounts/internal/services"
)

// DetailsUpdater defines the interface that the account update service must implement.
type DetailsUpdater interface {
	UpdateDetails(ctx context.Context, requester *models.AuthUser, targetID string, in services.UpdateDetailsInput) (*models.User, error)
}

// UpdateUserRequest represents the JSON body for a full account update
// swagger:model UpdateUserRequest
type UpdateUserRequest struct {
	// required: true
	Name string `json:"name"`
	// required: true
	Email string `json:"email"`
	// required: true
	Password string `json:"password"`
	// required: true
	Phone string `json:"phone"`
	// required: true
	Bio string `json:"bio"`
	// required: true
	Photo string `json:"photo"`
}

// NewUpdateUserHandler returns an HTTP handler that replaces a user's details.
// @Summary Update user details
// @Description Replaces name, email, password, phone, bio and photo in one call. All six fields are required. Only the owner or an admin may update.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Param updateUserRequest body handlers.UpdateUserRequest true "Update request"
// @Success 200 {object} models.Response "Updated user"
// @Failure 400 {object} models.ErrorResponse "Missing fields"
// @Failure 401 {object} models.ErrorResponse "Missing or invalid token"
// @Failure 403 {object} models.ErrorResponse "Not the owner or an admin"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Failure 409 {object} models.ErrorResponse "Email or phone already taken"
// @Router /users/updateUser/{userId} [put]
func NewUpdateUserHandler(svc DetailsUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authUser := middlewares.GetAuthUserFromContext(r.Context())
		if authUser == nil {
			writeError(w, apperrors.Unauthenticated("Authentication required"))
			return
		}

		targetID := chi.URLParam(r, "userId")

		var req UpdateUserRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, err)
			return
		}

		if req.Email != "" && !isValidEmail(req.Email) {
			writeError(w, apperrors.InvalidInput("Invalid email address"))
			return
		}
		if req.Phone != "" && !isValidPhone(req.Phone) {
			writeError(w, apperrors.InvalidInput("Invalid phone number"))
			return
		}

		user, err := svc.UpdateDetails(r.Context(), authUser, targetID, services.UpdateDetailsInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Phone:    req.Phone,
			Bio:      req.Bio,
			Photo:    req.Photo,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeSuccess(w, http.StatusOK, user, "User updated successfully")
	}
}
