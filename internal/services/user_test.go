package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"user-accounts/internal/apperrors"
	"user-accounts/internal/models"
	"user-accounts/internal/services"
)

type userMocks struct {
	reader *services.MockProfileReader
	writer *services.MockProfileWriter
	cache  *services.MockProfileCache
	hasher *services.MockPasswordHasher
}

func newUserService(ctrl *gomock.Controller) (*services.UserService, userMocks) {
	m := userMocks{
		reader: services.NewMockProfileReader(ctrl),
		writer: services.NewMockProfileWriter(ctrl),
		cache:  services.NewMockProfileCache(ctrl),
		hasher: services.NewMockPasswordHasher(ctrl),
	}
	svc := services.NewUserService(m.reader, m.writer, m.cache, m.hasher)
	return svc, m
}

func TestUserService_GetProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	targetID := uuid.NewString()
	admin := &models.AuthUser{UserID: uuid.NewString(), IsAdmin: true}
	stranger := &models.AuthUser{UserID: uuid.NewString()}
	owner := &models.AuthUser{UserID: targetID}

	publicUser := &models.User{UserID: targetID, Name: "Alice", IsPublic: true, PasswordHash: "hash"}
	privateUser := &models.User{UserID: targetID, Name: "Alice", IsPublic: false, PasswordHash: "hash"}

	t.Run("public profile visible to anyone", func(t *testing.T) {
		svc, m := newUserService(ctrl)

		m.cache.EXPECT().Get(gomock.Any(), targetID).Return(nil, nil)
		m.reader.EXPECT().GetByID(gomock.Any(), targetID).Return(publicUser, nil)
		m.cache.EXPECT().Set(gomock.Any(), publicUser).Return(nil)

		user, err := svc.GetProfile(ctx, stranger, targetID)
		assert.NoError(t, err)
		assert.Equal(t, "Alice", user.Name)
		assert.Empty(t, user.PasswordHash, "returned record must be sanitized")
	})

	t.Run("cache hit skips the store", func(t *testing.T) {
		svc, m := newUserService(ctrl)

		m.cache.EXPECT().Get(gomock.Any(), targetID).Return(publicUser, nil)

		user, err := svc.GetProfile(ctx, stranger, targetID)
		assert.NoError(t, err)
		assert.Equal(t, "Alice", user.Name)
	})

	t.Run("private profile forbidden for stranger", func(t *testing.T) {
		svc, m := newUserService(ctrl)

		m.cache.EXPECT().Get(gomock.Any(), targetID).Return(nil, nil)
		m.reader.EXPECT().GetByID(gomock.Any(), targetID).Return(privateUser, nil)
		m.cache.EXPECT().Set(gomock.Any(), privateUser).Return(nil)

		user, err := svc.GetProfile(ctx, stranger, targetID)
		assert.Nil(t, user)
		assert.Equal(t, http.StatusForbidden, apperrors.StatusCode(err))
	})

	t.Run("private profile visible to admin", func(t *testing.T) {
		svc, m := newUserService(ctrl)

		m.cache.EXPECT().Get(gomock.Any(), targetID).Return(privateUser, nil)

		user, err := svc.GetProfile(ctx, admin, targetID)
		assert.NoError(t, err)
		assert.NotNil(t, user)
	})

	t.Run("private profile visible to owner", func(t *testing.T) {
		svc, m := newUserService(ctrl)

		m.cache.EXPECT().Get(gomock.Any(), targetID).Return(privateUser, nil)

		user, err := svc.GetProfile(ctx, owner, targetID)
		assert.NoError(t, err)
		assert.NotNil(t, user)
	})

	t.Run("missing user", func(t *testing.T) {
		svc, m := newUserService(ctrl)

		m.cache.EXPECT().Get(gomock.Any(), targetID).Return(nil, nil)
		m.reader.EXPECT().GetByID(gomock.Any(), targetID).Return(nil, nil)

		user, err := svc.GetProfile(ctx, admin, targetID)
		assert.Nil(t, user)
		assert.Equal(t, http.StatusNotFound, apperrors.StatusCode(err))
	})

	t.Run("cache failure falls back to store", func(t *testing.T) {
		svc, m := newUserService(ctrl)

		m.cache.EXPECT().Get(gomock.Any(), targetID).Return(nil, errors.New("redis down"))
		m.reader.EXPECT().GetByID(gomock.Any(), targetID).Return(publicUser, nil)
		m.cache.EXPECT().Set(gomock.Any(), publicUser).Return(errors.New("redis down"))

		user, err := svc.GetProfile(ctx, stranger, targetID)
		assert.NoError(t, err)
		assert.NotNil(t, user)
	})
}

func TestUserService_ListProfiles(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	admin := &models.AuthUser{UserID: uuid.NewString(), IsAdmin: true}
	stranger := &models.AuthUser{UserID: uuid.NewString()}

	t.Run("admin gets sanitized records", func(t *testing.T) {
		svc, m := newUserService(ctrl)

		m.reader.EXPECT().List(gomock.Any()).Return([]models.User{
			{UserID: uuid.NewString(), Name: "Alice", PasswordHash: "hash", RefreshToken: "tok"},
			{UserID: uuid.NewString(), Name: "Bob", PasswordHash: "hash"},
		}, nil)

		users, err := svc.ListProfiles(ctx, admin)
		assert.NoError(t, err)
		assert.Len(t, users, 2)
		for _, u := range users {
			assert.Empty(t, u.PasswordHash)
			assert.Empty(t, u.RefreshToken)
		}
	})

	t.Run("empty store yields explicit empty slice", func(t *testing.T) {
		svc, m := newUserService(ctrl)

		m.reader.EXPECT().List(gomock.Any()).Return([]models.User{}, nil)

		users, err := svc.ListProfiles(ctx, admin)
		assert.NoError(t, err)
		assert.NotNil(t, users)
		assert.Empty(t, users)
	})

	t.Run("non-admin forbidden", func(t *testing.T) {
		svc, _ := newUserService(ctrl)

		users, err := svc.ListProfiles(ctx, stranger)
		assert.Nil(t, users)
		assert.Equal(t, http.StatusForbidden, apperrors.StatusCode(err))
	})
}

func TestUserService_UpdateVisibility(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	targetID := uuid.NewString()
	owner := &models.AuthUser{UserID: targetID}
	admin := &models.AuthUser{UserID: uuid.NewString(), IsAdmin: true}
	stranger := &models.AuthUser{UserID: uuid.NewString()}

	t.Run("owner toggles visibility", func(t *testing.T) {
		svc, m := newUserService(ctrl)

		updated := &models.User{UserID: targetID, IsPublic: false, PasswordHash: "hash"}
		m.writer.EXPECT().SetVisibility(gomock.Any(), targetID, false).Return(updated, nil)
		m.cache.EXPECT().Invalidate(gomock.Any(), targetID).Return(nil)

		user, err := svc.UpdateVisibility(ctx, owner, targetID, false)
		assert.NoError(t, err)
		assert.False(t, user.IsPublic)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("admin may toggle others", func(t *testing.T) {
		svc, m := newUserService(ctrl)

		updated := &models.User{UserID: targetID, IsPublic: true}
		m.writer.EXPECT().SetVisibility(gomock.Any(), targetID, true).Return(updated, nil)
		m.cache.EXPECT().Invalidate(gomock.Any(), targetID).Return(nil)

		_, err := svc.UpdateVisibility(ctx, admin, targetID, true)
		assert.NoError(t, err)
	})

	t.Run("stranger forbidden", func(t *testing.T) {
		svc, _ := newUserService(ctrl)

		_, err := svc.UpdateVisibility(ctx, stranger, targetID, false)
		assert.Equal(t, http.StatusForbidden, apperrors.StatusCode(err))
	})

	t.Run("missing user", func(t *testing.T) {
		svc, m := newUserService(ctrl)

		m.writer.EXPECT().
			SetVisibility(gomock.Any(), targetID, false).
			Return(nil, apperrors.NotFound("User not found"))

		_, err := svc.UpdateVisibility(ctx, owner, targetID, false)
		assert.Equal(t, http.StatusNotFound, apperrors.StatusCode(err))
	})
}

func TestUserService_UpdateDetails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	targetID := uuid.NewString()
	owner := &models.AuthUser{UserID: targetID}
	stranger := &models.AuthUser{UserID: uuid.NewString()}

	fullInput := services.UpdateDetailsInput{
		Name:     "New Name",
		Email:    "new@x.com",
		Photo:    "http://localhost:9000/photos/new.png",
		Bio:      "new bio",
		Phone:    "5550001111",
		Password: "newsecret",
	}

	t.Run("full replace re-hashes the password", func(t *testing.T) {
		svc, m := newUserService(ctrl)

		m.hasher.EXPECT().Hash("newsecret").Return("hashed-newsecret", nil)
		m.writer.EXPECT().
			Update(gomock.Any(), targetID, models.UserUpdate{
				Name:         "New Name",
				Email:        "new@x.com",
				Photo:        "http://localhost:9000/photos/new.png",
				Bio:          "new bio",
				Phone:        "5550001111",
				PasswordHash: "hashed-newsecret",
			}).
			Return(&models.User{UserID: targetID, Name: "New Name", PasswordHash: "hashed-newsecret"}, nil)
		m.cache.EXPECT().Invalidate(gomock.Any(), targetID).Return(nil)

		user, err := svc.UpdateDetails(ctx, owner, targetID, fullInput)
		assert.NoError(t, err)
		assert.Equal(t, "New Name", user.Name)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("missing field rejected", func(t *testing.T) {
		svc, _ := newUserService(ctrl)

		in := fullInput
		in.Bio = ""
		_, err := svc.UpdateDetails(ctx, owner, targetID, in)
		assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))
	})

	t.Run("stranger forbidden", func(t *testing.T) {
		svc, _ := newUserService(ctrl)

		_, err := svc.UpdateDetails(ctx, stranger, targetID, fullInput)
		assert.Equal(t, http.StatusForbidden, apperrors.StatusCode(err))
	})

	t.Run("update conflict on email", func(t *testing.T) {
		svc, m := newUserService(ctrl)

		m.hasher.EXPECT().Hash("newsecret").Return("hashed-newsecret", nil)
		m.writer.EXPECT().
			Update(gomock.Any(), targetID, gomock.Any()).
			Return(nil, apperrors.Conflict("User with email or phone already exists"))

		_, err := svc.UpdateDetails(ctx, owner, targetID, fullInput)
		assert.Equal(t, http.StatusConflict, apperrors.StatusCode(err))
	})
}
