package jwt

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"user-accounts/internal/models"
)

// ErrInvalidToken is returned for malformed, mis-signed, or expired tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// AccessCookieName and RefreshCookieName are the cookies carrying tokens
// alongside the Authorization header.
const (
	AccessCookieName  = "accessToken"
	RefreshCookieName = "refreshToken"
)

// AccessClaims is the payload of an access token. The identity is
// self-contained so the auth middleware needs no database round-trip.
type AccessClaims struct {
	jwt.RegisteredClaims
	Name     string `json:"name,omitempty"`
	IsAdmin  bool   `json:"isAdmin"`
	IsPublic bool   `json:"isPublic"`
}

// refreshClaims carries only the user id.
type refreshClaims struct {
	jwt.RegisteredClaims
}

// JWT mints and verifies access and refresh tokens. The two token kinds
// are signed with separate secrets so one cannot stand in for the other.
type JWT struct {
	AccessSecret  string
	RefreshSecret string
	AccessExp     time.Duration
	RefreshExp    time.Duration
}

// New creates a JWT issuer.
func New(accessSecret, refreshSecret string, accessExp, refreshExp time.Duration) *JWT {
	return &JWT{
		AccessSecret:  accessSecret,
		RefreshSecret: refreshSecret,
		AccessExp:     accessExp,
		RefreshExp:    refreshExp,
	}
}

// GenerateAccessToken mints a short-lived access token carrying the
// user's id, name, and role flags.
func (j *JWT) GenerateAccessToken(ctx context.Context, userID, name string, isAdmin, isPublic bool) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.AccessExp)),
		},
		Name:     name,
		IsAdmin:  isAdmin,
		IsPublic: isPublic,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.AccessSecret))
}

// GenerateRefreshToken mints a longer-lived refresh token carrying only
// the user id, signed with the refresh secret.
func (j *JWT) GenerateRefreshToken(ctx context.Context, userID string) (string, error) {
	now := time.Now()
	claims := refreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.RefreshExp)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.RefreshSecret))
}

// ParseAccessToken verifies an access token and returns its claims.
func (j *JWT) ParseAccessToken(ctx context.Context, tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := j.parse(tokenString, claims, j.AccessSecret); err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseRefreshToken verifies a refresh token and returns the user id.
func (j *JWT) ParseRefreshToken(ctx context.Context, tokenString string) (string, error) {
	claims := &refreshClaims{}
	if err := j.parse(tokenString, claims, j.RefreshSecret); err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func (j *JWT) parse(tokenString string, claims jwt.Claims, secret string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

// GetTokenFromRequest extracts the access token from the Authorization
// header, falling back to the accessToken cookie.
func (j *JWT) GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return "", errors.New("invalid authorization header format")
		}
		return parts[1], nil
	}

	cookie, err := r.Cookie(AccessCookieName)
	if err != nil || cookie.Value == "" {
		return "", errors.New("authorization token missing")
	}
	return cookie.Value, nil
}

// Authenticate extracts and verifies the access token on r and returns
// the resolved identity.
func (j *JWT) Authenticate(ctx context.Context, r *http.Request) (*models.AuthUser, error) {
	tokenString, err := j.GetTokenFromRequest(ctx, r)
	if err != nil {
		return nil, err
	}

	claims, err := j.ParseAccessToken(ctx, tokenString)
	if err != nil {
		return nil, err
	}

	return &models.AuthUser{
		UserID:   claims.Subject,
		Name:     claims.Name,
		IsAdmin:  claims.IsAdmin,
		IsPublic: claims.IsPublic,
	}, nil
}
