package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"user-accounts/internal/logger"
	"user-accounts/internal/models"
)

// ProfileCacheRepository caches sanitized profiles in Redis with a TTL.
// Only sanitized records are ever stored, so a cache hit can be
// returned to a client as-is.
type ProfileCacheRepository struct {
	client *redis.Client
	exp    time.Duration
}

// NewProfileCacheRepository creates a profile cache with the given TTL.
func NewProfileCacheRepository(client *redis.Client, expiration time.Duration) *ProfileCacheRepository {
	return &ProfileCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func profileKey(userID string) string {
	return fmt.Sprintf("profile:%s", userID)
}

// Get returns the cached sanitized profile, or nil on a miss.
func (r *ProfileCacheRepository) Get(ctx context.Context, userID string) (*models.User, error) {
	key := profileKey(userID)

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		logger.Log.Infow("profileCache.get",
			"key", key,
			"hit", false,
			"error", err,
		)
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal([]byte(val), &user); err != nil {
		return nil, err
	}

	logger.Log.Infow("profileCache.get",
		"key", key,
		"hit", true,
		"error", nil,
	)

	return &user, nil
}

// Set stores the sanitized profile under the configured TTL.
func (r *ProfileCacheRepository) Set(ctx context.Context, user *models.User) error {
	key := profileKey(user.UserID)

	data, err := json.Marshal(user.Sanitized())
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, key, data, r.exp).Err()

	logger.Log.Infow("profileCache.set",
		"key", key,
		"error", err,
	)

	return err
}

// Invalidate drops the cached profile. Missing keys are not an error.
func (r *ProfileCacheRepository) Invalidate(ctx context.Context, userID string) error {
	key := profileKey(userID)

	err := r.client.Del(ctx, key).Err()

	logger.Log.Infow("profileCache.invalidate",
		"key", key,
		"error", err,
	)

	return err
}
