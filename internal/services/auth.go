package services

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"user-accounts/internal/apperrors"
	"user-accounts/internal/logger"
	"user-accounts/internal/models"
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByEmailOrPhone(ctx context.Context, email, phone string) (*models.User, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, user *models.User) error
	SetRefreshToken(ctx context.Context, id, token string) error
}

// PhotoUploader stores a profile image and returns its URL.
type PhotoUploader interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
}

// TokenIssuer mints and verifies tokens for the auth flow.
type TokenIssuer interface {
	GenerateAccessToken(ctx context.Context, userID, name string, isAdmin, isPublic bool) (string, error)
	GenerateRefreshToken(ctx context.Context, userID string) (string, error)
	ParseRefreshToken(ctx context.Context, token string) (string, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// RegisterInput carries the validated registration fields plus the
// uploaded photo stream.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Bio      string

	Photo            io.Reader
	PhotoName        string
	PhotoSize        int64
	PhotoContentType string
}

// AuthService handles registration, login, logout, and token refresh.
type AuthService struct {
	reader      UserReader
	writer      UserWriter
	photos      PhotoUploader
	tokens      TokenIssuer
	hasher      PasswordHasher
	kafkaWriter KafkaWriter
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(
	reader UserReader,
	writer UserWriter,
	photos PhotoUploader,
	tokens TokenIssuer,
	hasher PasswordHasher,
	kafkaWriter KafkaWriter,
) *AuthService {
	return &AuthService{
		reader:      reader,
		writer:      writer,
		photos:      photos,
		tokens:      tokens,
		hasher:      hasher,
		kafkaWriter: kafkaWriter,
	}
}

// accountEvent is the payload published to Kafka on account activity.
type accountEvent struct {
	Type   string    `json:"type"`
	UserID string    `json:"userId"`
	Email  string    `json:"email,omitempty"`
	At     time.Time `json:"at"`
}

// publishEvent publishes an account event to Kafka. Publishing is
// best-effort and never fails the request.
func (svc *AuthService) publishEvent(ctx context.Context, eventType, userID, email string) {
	if svc.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "type", eventType, "user_id", userID)
		return
	}

	event := accountEvent{
		Type:   eventType,
		UserID: userID,
		Email:  email,
		At:     time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal account event", "type", eventType, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(userID),
		Value: data,
	}

	if err := svc.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish account event", "type", eventType, "user_id", userID, "error", err)
	} else {
		logger.Log.Infow("Account event published", "type", eventType, "user_id", userID)
	}
}

// Register creates a user record with a hashed password and a stored
// profile photo, and returns the sanitized record.
func (svc *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Photo == nil {
		logger.Log.Errorw("registration without photo", "email", in.Email)
		return nil, apperrors.InvalidInput("Image file is required")
	}

	existing, err := svc.reader.GetByEmailOrPhone(ctx, in.Email, in.Phone)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return nil, err
	}
	if existing != nil {
		logger.Log.Errorw("user already exists", "email", in.Email, "phone", in.Phone)
		return nil, apperrors.Conflict("User with email or phone already exists")
	}

	photoURL, err := svc.photos.Upload(ctx, in.PhotoName, in.Photo, in.PhotoSize, in.PhotoContentType)
	if err != nil {
		logger.Log.Errorw("failed to upload photo", "err", err)
		return nil, err
	}

	hash, err := svc.hasher.Hash(in.Password)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		UserID:       uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
		IsPublic:     true,
		Bio:          in.Bio,
		Photo:        photoURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// A concurrent registration with the same email or phone loses the
	// race here and surfaces as Conflict via the unique index.
	if err := svc.writer.Save(ctx, user); err != nil {
		logger.Log.Errorw("failed to save user", "err", err)
		return nil, err
	}

	svc.publishEvent(ctx, "user.registered", user.UserID, user.Email)

	return user.Sanitized(), nil
}

// Login verifies credentials, mints the token pair, persists the
// refresh token, and returns the sanitized record with both tokens.
func (svc *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, string, error) {
	if email == "" || password == "" {
		return nil, "", "", apperrors.InvalidInput("email and password is required")
	}

	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, "", "", err
	}
	if user == nil {
		logger.Log.Errorw("user does not exist", "email", email)
		return nil, "", "", apperrors.NotFound("User does not exist")
	}

	if !svc.hasher.Verify(password, user.PasswordHash) {
		logger.Log.Errorw("invalid credentials", "email", email)
		return nil, "", "", apperrors.Unauthenticated("Invalid user credentials")
	}

	accessToken, refreshToken, err := svc.issueTokens(ctx, user)
	if err != nil {
		return nil, "", "", err
	}

	svc.publishEvent(ctx, "user.login", user.UserID, user.Email)

	return user.Sanitized(), accessToken, refreshToken, nil
}

// Logout clears the stored refresh token. Clearing an absent token is
// not an error, so calling logout twice is fine.
func (svc *AuthService) Logout(ctx context.Context, userID string) error {
	if err := svc.writer.SetRefreshToken(ctx, userID, ""); err != nil {
		logger.Log.Errorw("failed to clear refresh token", "user_id", userID, "err", err)
		return err
	}

	svc.publishEvent(ctx, "user.logout", userID, "")

	return nil
}

// Refresh rotates the token pair. The presented refresh token must
// verify and match the one stored on the record.
func (svc *AuthService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	if refreshToken == "" {
		return "", "", apperrors.Unauthenticated("Refresh token is required")
	}

	userID, err := svc.tokens.ParseRefreshToken(ctx, refreshToken)
	if err != nil {
		logger.Log.Errorw("invalid refresh token", "err", err)
		return "", "", apperrors.Unauthenticated("Invalid or expired refresh token")
	}

	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", "", err
	}
	if user == nil || user.RefreshToken != refreshToken {
		logger.Log.Errorw("refresh token revoked or superseded", "user_id", userID)
		return "", "", apperrors.Unauthenticated("Invalid or expired refresh token")
	}

	return svc.issueTokens(ctx, user)
}

// issueTokens mints a token pair and persists the refresh token.
func (svc *AuthService) issueTokens(ctx context.Context, user *models.User) (string, string, error) {
	accessToken, err := svc.tokens.GenerateAccessToken(ctx, user.UserID, user.Name, user.IsAdmin, user.IsPublic)
	if err != nil {
		logger.Log.Errorw("failed to generate access token", "err", err)
		return "", "", err
	}

	refreshToken, err := svc.tokens.GenerateRefreshToken(ctx, user.UserID)
	if err != nil {
		logger.Log.Errorw("failed to generate refresh token", "err", err)
		return "", "", err
	}

	if err := svc.writer.SetRefreshToken(ctx, user.UserID, refreshToken); err != nil {
		logger.Log.Errorw("failed to persist refresh token", "err", err)
		return "", "", err
	}

	return accessToken, refreshToken, nil
}
