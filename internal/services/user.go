package services

import (
	"context"

	"user-accounts/internal/apperrors"
	"user-accounts/internal/logger"
	"user-accounts/internal/models"
)

// ProfileReader defines read operations for profile access.
type ProfileReader interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

// ProfileWriter defines profile mutation operations.
type ProfileWriter interface {
	SetVisibility(ctx context.Context, id string, isPublic bool) (*models.User, error)
	Update(ctx context.Context, id string, fields models.UserUpdate) (*models.User, error)
}

// ProfileCache caches sanitized profiles.
type ProfileCache interface {
	Get(ctx context.Context, userID string) (*models.User, error)
	Set(ctx context.Context, user *models.User) error
	Invalidate(ctx context.Context, userID string) error
}

// UpdateDetailsInput carries the full-replace update fields. All of
// them are required.
type UpdateDetailsInput struct {
	Name     string
	Email    string
	Photo    string
	Bio      string
	Phone    string
	Password string
}

// UserService handles profile reads and updates.
type UserService struct {
	reader ProfileReader
	writer ProfileWriter
	cache  ProfileCache
	hasher PasswordHasher
}

// NewUserService creates a new UserService instance.
func NewUserService(reader ProfileReader, writer ProfileWriter, cache ProfileCache, hasher PasswordHasher) *UserService {
	return &UserService{
		reader: reader,
		writer: writer,
		cache:  cache,
		hasher: hasher,
	}
}

// GetProfile returns the sanitized target profile. Private profiles
// are visible only to their owner and to admins.
func (svc *UserService) GetProfile(ctx context.Context, requester *models.AuthUser, targetID string) (*models.User, error) {
	user, err := svc.lookup(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("User not found")
	}

	if !user.IsPublic && !requester.IsAdmin && requester.UserID != targetID {
		logger.Log.Errorw("profile access forbidden",
			"requester_id", requester.UserID,
			"target_id", targetID,
		)
		return nil, apperrors.Forbidden("Access forbidden")
	}

	return user.Sanitized(), nil
}

// lookup fetches a profile through the cache. Cache failures fall back
// to the store rather than failing the read.
func (svc *UserService) lookup(ctx context.Context, targetID string) (*models.User, error) {
	if cached, err := svc.cache.Get(ctx, targetID); err != nil {
		logger.Log.Warnw("profile cache read failed", "user_id", targetID, "err", err)
	} else if cached != nil {
		return cached, nil
	}

	user, err := svc.reader.GetByID(ctx, targetID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "user_id", targetID, "err", err)
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	if err := svc.cache.Set(ctx, user); err != nil {
		logger.Log.Warnw("profile cache write failed", "user_id", targetID, "err", err)
	}

	return user, nil
}

// ListProfiles returns all sanitized records. Admin only. The result
// is always an explicit slice, even when empty.
func (svc *UserService) ListProfiles(ctx context.Context, requester *models.AuthUser) ([]models.User, error) {
	if !requester.IsAdmin {
		return nil, apperrors.Forbidden("Admin access required")
	}

	users, err := svc.reader.List(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list users", "err", err)
		return nil, err
	}

	sanitized := make([]models.User, 0, len(users))
	for _, u := range users {
		sanitized = append(sanitized, *u.Sanitized())
	}
	return sanitized, nil
}

// UpdateVisibility sets the isPublic flag. Only the owner or an admin
// may change it.
func (svc *UserService) UpdateVisibility(ctx context.Context, requester *models.AuthUser, targetID string, isPublic bool) (*models.User, error) {
	if requester.UserID != targetID && !requester.IsAdmin {
		return nil, apperrors.Forbidden("Access forbidden")
	}

	user, err := svc.writer.SetVisibility(ctx, targetID, isPublic)
	if err != nil {
		logger.Log.Errorw("failed to update visibility", "user_id", targetID, "err", err)
		return nil, err
	}

	svc.invalidate(ctx, targetID)

	return user.Sanitized(), nil
}

// UpdateDetails replaces the full profile. All fields are required and
// the password is re-hashed unconditionally.
func (svc *UserService) UpdateDetails(ctx context.Context, requester *models.AuthUser, targetID string, in UpdateDetailsInput) (*models.User, error) {
	if requester.UserID != targetID && !requester.IsAdmin {
		return nil, apperrors.Forbidden("Access forbidden")
	}

	if in.Name == "" || in.Email == "" || in.Photo == "" || in.Bio == "" || in.Phone == "" || in.Password == "" {
		return nil, apperrors.InvalidInput("All fields are required")
	}

	hash, err := svc.hasher.Hash(in.Password)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, err
	}

	user, err := svc.writer.Update(ctx, targetID, models.UserUpdate{
		Name:         in.Name,
		Email:        in.Email,
		Photo:        in.Photo,
		Bio:          in.Bio,
		Phone:        in.Phone,
		PasswordHash: hash,
	})
	if err != nil {
		logger.Log.Errorw("failed to update user", "user_id", targetID, "err", err)
		return nil, err
	}

	svc.invalidate(ctx, targetID)

	return user.Sanitized(), nil
}

func (svc *UserService) invalidate(ctx context.Context, targetID string) {
	if err := svc.cache.Invalidate(ctx, targetID); err != nil {
		logger.Log.Warnw("profile cache invalidation failed", "user_id", targetID, "err", err)
	}
}
