package handlers

import (
	"context"
	"net/http"

	"user-accounts/internal/apperrors"
	"user-accounts/internal/models"
	"user-accounts/internal/services"
)

// maxUploadSize caps the multipart registration body, photo included.
const maxUploadSize = 10 << 20

// Registerer defines the interface that the registration service must implement.
type Registerer interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
}

// NewRegisterHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates a user account from a multipart form. Requires a unique email and phone and a profile photo. The password is hashed before storing and the returned record is sanitized.
// @Tags users
// @Accept mpfd
// @Produce json
// @Param name formData string false "Display name"
// @Param email formData string true "Email, unique"
// @Param password formData string true "Password, at least 6 characters"
// @Param phone formData string true "Phone, unique"
// @Param bio formData string false "Profile text"
// @Param photo formData file true "Profile image"
// @Success 201 {object} models.Response "Sanitized user"
// @Failure 400 {object} models.ErrorResponse "Invalid input / missing photo"
// @Failure 409 {object} models.ErrorResponse "Email or phone already registered"
// @Router /users/register [post]
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			writeError(w, apperrors.InvalidInput("Invalid multipart form"))
			return
		}

		in := services.RegisterInput{
			Name:     r.FormValue("name"),
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
			Phone:    r.FormValue("phone"),
			Bio:      r.FormValue("bio"),
		}

		if !isValidEmail(in.Email) {
			writeError(w, apperrors.InvalidInput("A valid email is required"))
			return
		}
		if len(in.Password) < 6 {
			writeError(w, apperrors.InvalidInput("Password must be at least 6 characters"))
			return
		}
		if !isValidPhone(in.Phone) {
			writeError(w, apperrors.InvalidInput("A valid phone number is required"))
			return
		}

		file, header, err := r.FormFile("photo")
		if err != nil {
			writeError(w, apperrors.InvalidInput("Image file is required"))
			return
		}
		defer file.Close()

		in.Photo = file
		in.PhotoName = header.Filename
		in.PhotoSize = header.Size
		in.PhotoContentType = header.Header.Get("Content-Type")

		user, err := svc.Register(r.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}

		writeSuccess(w, http.StatusCreated, user, "User registered successfully")
	}
}
