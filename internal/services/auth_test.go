package services_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"user-accounts/internal/apperrors"
	"user-accounts/internal/models"
	"user-accounts/internal/services"
)

type authMocks struct {
	reader *services.MockUserReader
	writer *services.MockUserWriter
	photos *services.MockPhotoUploader
	tokens *services.MockTokenIssuer
	hasher *services.MockPasswordHasher
	kafka  *services.MockKafkaWriter
}

func newAuthService(ctrl *gomock.Controller) (*services.AuthService, authMocks) {
	m := authMocks{
		reader: services.NewMockUserReader(ctrl),
		writer: services.NewMockUserWriter(ctrl),
		photos: services.NewMockPhotoUploader(ctrl),
		tokens: services.NewMockTokenIssuer(ctrl),
		hasher: services.NewMockPasswordHasher(ctrl),
		kafka:  services.NewMockKafkaWriter(ctrl),
	}
	svc := services.NewAuthService(m.reader, m.writer, m.photos, m.tokens, m.hasher, m.kafka)
	return svc, m
}

func registerInput() services.RegisterInput {
	return services.RegisterInput{
		Name:             "Alice",
		Email:            "a@x.com",
		Password:         "secret1",
		Phone:            "5551234567",
		Bio:              "hello",
		Photo:            bytes.NewReader([]byte("png-bytes")),
		PhotoName:        "alice.png",
		PhotoSize:        9,
		PhotoContentType: "image/png",
	}
}

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	t.Run("successful registration", func(t *testing.T) {
		svc, m := newAuthService(ctrl)
		in := registerInput()

		m.reader.EXPECT().
			GetByEmailOrPhone(gomock.Any(), in.Email, in.Phone).
			Return(nil, nil)
		m.photos.EXPECT().
			Upload(gomock.Any(), in.PhotoName, in.Photo, in.PhotoSize, in.PhotoContentType).
			Return("http://localhost:9000/photos/alice.png", nil)
		m.hasher.EXPECT().
			Hash(in.Password).
			Return("hashed-secret1", nil)
		m.writer.EXPECT().
			Save(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, user *models.User) error {
				assert.NotEmpty(t, user.UserID)
				assert.Equal(t, "hashed-secret1", user.PasswordHash)
				assert.NotEqual(t, in.Password, user.PasswordHash)
				assert.True(t, user.IsPublic)
				assert.False(t, user.IsAdmin)
				assert.Equal(t, "http://localhost:9000/photos/alice.png", user.Photo)
				return nil
			})
		m.kafka.EXPECT().
			WriteMessages(gomock.Any(), gomock.Any()).
			Return(nil)

		user, err := svc.Register(ctx, in)
		assert.NoError(t, err)
		assert.Empty(t, user.PasswordHash, "returned record must be sanitized")
		assert.Empty(t, user.RefreshToken)
		assert.Equal(t, in.Email, user.Email)
	})

	t.Run("missing photo", func(t *testing.T) {
		svc, _ := newAuthService(ctrl)
		in := registerInput()
		in.Photo = nil

		user, err := svc.Register(ctx, in)
		assert.Nil(t, user)
		assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))
	})

	t.Run("user already exists", func(t *testing.T) {
		svc, m := newAuthService(ctrl)
		in := registerInput()

		m.reader.EXPECT().
			GetByEmailOrPhone(gomock.Any(), in.Email, in.Phone).
			Return(&models.User{UserID: uuid.NewString()}, nil)

		user, err := svc.Register(ctx, in)
		assert.Nil(t, user)
		assert.Equal(t, http.StatusConflict, apperrors.StatusCode(err))
	})

	t.Run("concurrent registration loses on unique index", func(t *testing.T) {
		svc, m := newAuthService(ctrl)
		in := registerInput()

		m.reader.EXPECT().
			GetByEmailOrPhone(gomock.Any(), in.Email, in.Phone).
			Return(nil, nil)
		m.photos.EXPECT().
			Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("http://localhost:9000/photos/alice.png", nil)
		m.hasher.EXPECT().
			Hash(in.Password).
			Return("hashed", nil)
		m.writer.EXPECT().
			Save(gomock.Any(), gomock.Any()).
			Return(apperrors.Conflict("User with email or phone already exists"))

		user, err := svc.Register(ctx, in)
		assert.Nil(t, user)
		assert.Equal(t, http.StatusConflict, apperrors.StatusCode(err))
	})

	t.Run("reader error", func(t *testing.T) {
		svc, m := newAuthService(ctrl)
		in := registerInput()

		m.reader.EXPECT().
			GetByEmailOrPhone(gomock.Any(), in.Email, in.Phone).
			Return(nil, errors.New("db error"))

		user, err := svc.Register(ctx, in)
		assert.Nil(t, user)
		assert.EqualError(t, err, "db error")
	})

	t.Run("upload error", func(t *testing.T) {
		svc, m := newAuthService(ctrl)
		in := registerInput()

		m.reader.EXPECT().
			GetByEmailOrPhone(gomock.Any(), in.Email, in.Phone).
			Return(nil, nil)
		m.photos.EXPECT().
			Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", errors.New("minio unreachable"))

		user, err := svc.Register(ctx, in)
		assert.Nil(t, user)
		assert.EqualError(t, err, "minio unreachable")
	})
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userID := uuid.NewString()
	stored := &models.User{
		UserID:       userID,
		Name:         "Alice",
		Email:        "a@x.com",
		PasswordHash: "hashed-secret1",
		IsPublic:     true,
		CreatedAt:    time.Now(),
	}

	t.Run("successful login", func(t *testing.T) {
		svc, m := newAuthService(ctrl)

		m.reader.EXPECT().
			GetByEmail(gomock.Any(), "a@x.com").
			Return(stored, nil)
		m.hasher.EXPECT().
			Verify("secret1", "hashed-secret1").
			Return(true)
		m.tokens.EXPECT().
			GenerateAccessToken(gomock.Any(), userID, "Alice", false, true).
			Return("ACCESS", nil)
		m.tokens.EXPECT().
			GenerateRefreshToken(gomock.Any(), userID).
			Return("REFRESH", nil)
		m.writer.EXPECT().
			SetRefreshToken(gomock.Any(), userID, "REFRESH").
			Return(nil)
		m.kafka.EXPECT().
			WriteMessages(gomock.Any(), gomock.Any()).
			Return(nil)

		user, access, refresh, err := svc.Login(ctx, "a@x.com", "secret1")
		assert.NoError(t, err)
		assert.Equal(t, "ACCESS", access)
		assert.Equal(t, "REFRESH", refresh)
		assert.Empty(t, user.PasswordHash)
		assert.Empty(t, user.RefreshToken)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc, _ := newAuthService(ctrl)

		_, _, _, err := svc.Login(ctx, "", "secret1")
		assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))

		_, _, _, err = svc.Login(ctx, "a@x.com", "")
		assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))
	})

	t.Run("user does not exist", func(t *testing.T) {
		svc, m := newAuthService(ctrl)

		m.reader.EXPECT().
			GetByEmail(gomock.Any(), "nobody@x.com").
			Return(nil, nil)

		_, _, _, err := svc.Login(ctx, "nobody@x.com", "secret1")
		assert.Equal(t, http.StatusNotFound, apperrors.StatusCode(err))
	})

	t.Run("wrong password leaves refresh token untouched", func(t *testing.T) {
		svc, m := newAuthService(ctrl)

		m.reader.EXPECT().
			GetByEmail(gomock.Any(), "a@x.com").
			Return(stored, nil)
		m.hasher.EXPECT().
			Verify("wrongpass", "hashed-secret1").
			Return(false)
		// No SetRefreshToken expectation: the stored token must not change.

		_, _, _, err := svc.Login(ctx, "a@x.com", "wrongpass")
		assert.Equal(t, http.StatusUnauthorized, apperrors.StatusCode(err))
	})

	t.Run("token generation error", func(t *testing.T) {
		svc, m := newAuthService(ctrl)

		m.reader.EXPECT().
			GetByEmail(gomock.Any(), "a@x.com").
			Return(stored, nil)
		m.hasher.EXPECT().
			Verify("secret1", "hashed-secret1").
			Return(true)
		m.tokens.EXPECT().
			GenerateAccessToken(gomock.Any(), userID, "Alice", false, true).
			Return("", errors.New("sign error"))

		_, _, _, err := svc.Login(ctx, "a@x.com", "secret1")
		assert.EqualError(t, err, "sign error")
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userID := uuid.NewString()

	t.Run("clears refresh token, idempotent", func(t *testing.T) {
		svc, m := newAuthService(ctrl)

		m.writer.EXPECT().
			SetRefreshToken(gomock.Any(), userID, "").
			Return(nil).
			Times(2)
		m.kafka.EXPECT().
			WriteMessages(gomock.Any(), gomock.Any()).
			Return(nil).
			Times(2)

		assert.NoError(t, svc.Logout(ctx, userID))
		assert.NoError(t, svc.Logout(ctx, userID))
	})

	t.Run("writer error", func(t *testing.T) {
		svc, m := newAuthService(ctrl)

		m.writer.EXPECT().
			SetRefreshToken(gomock.Any(), userID, "").
			Return(errors.New("db error"))

		assert.EqualError(t, svc.Logout(ctx, userID), "db error")
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userID := uuid.NewString()
	stored := &models.User{
		UserID:       userID,
		Name:         "Alice",
		RefreshToken: "OLD_REFRESH",
		IsPublic:     true,
	}

	t.Run("successful rotation", func(t *testing.T) {
		svc, m := newAuthService(ctrl)

		m.tokens.EXPECT().
			ParseRefreshToken(gomock.Any(), "OLD_REFRESH").
			Return(userID, nil)
		m.reader.EXPECT().
			GetByID(gomock.Any(), userID).
			Return(stored, nil)
		m.tokens.EXPECT().
			GenerateAccessToken(gomock.Any(), userID, "Alice", false, true).
			Return("NEW_ACCESS", nil)
		m.tokens.EXPECT().
			GenerateRefreshToken(gomock.Any(), userID).
			Return("NEW_REFRESH", nil)
		m.writer.EXPECT().
			SetRefreshToken(gomock.Any(), userID, "NEW_REFRESH").
			Return(nil)

		access, refresh, err := svc.Refresh(ctx, "OLD_REFRESH")
		assert.NoError(t, err)
		assert.Equal(t, "NEW_ACCESS", access)
		assert.Equal(t, "NEW_REFRESH", refresh)
	})

	t.Run("empty token", func(t *testing.T) {
		svc, _ := newAuthService(ctrl)

		_, _, err := svc.Refresh(ctx, "")
		assert.Equal(t, http.StatusUnauthorized, apperrors.StatusCode(err))
	})

	t.Run("invalid token", func(t *testing.T) {
		svc, m := newAuthService(ctrl)

		m.tokens.EXPECT().
			ParseRefreshToken(gomock.Any(), "garbage").
			Return("", errors.New("invalid"))

		_, _, err := svc.Refresh(ctx, "garbage")
		assert.Equal(t, http.StatusUnauthorized, apperrors.StatusCode(err))
	})

	t.Run("superseded token is rejected", func(t *testing.T) {
		svc, m := newAuthService(ctrl)

		m.tokens.EXPECT().
			ParseRefreshToken(gomock.Any(), "STALE").
			Return(userID, nil)
		m.reader.EXPECT().
			GetByID(gomock.Any(), userID).
			Return(stored, nil) // stored token is OLD_REFRESH, not STALE

		_, _, err := svc.Refresh(ctx, "STALE")
		assert.Equal(t, http.StatusUnauthorized, apperrors.StatusCode(err))
	})

	t.Run("logged-out user is rejected", func(t *testing.T) {
		svc, m := newAuthService(ctrl)

		loggedOut := &models.User{UserID: userID, Name: "Alice"}
		m.tokens.EXPECT().
			ParseRefreshToken(gomock.Any(), "OLD_REFRESH").
			Return(userID, nil)
		m.reader.EXPECT().
			GetByID(gomock.Any(), userID).
			Return(loggedOut, nil)

		_, _, err := svc.Refresh(ctx, "OLD_REFRESH")
		assert.Equal(t, http.StatusUnauthorized, apperrors.StatusCode(err))
	})
}
