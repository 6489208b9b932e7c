package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"user-accounts/internal/apperrors"
	"user-accounts/internal/logger"
	"user-accounts/internal/models"
)

// UsersCollection is the name of the user collection.
const UsersCollection = "users"

// EnsureUserIndexes creates the unique indexes backing the email and
// phone uniqueness invariants. Concurrent registrations with the same
// email or phone are resolved by the second insert failing with a
// duplicate-key error.
func EnsureUserIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(UsersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}

// wrapWriteError translates storage-level errors into domain errors.
func wrapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return apperrors.Conflict("User with email or phone already exists")
	}
	return err
}

// UserReadRepository provides read-only access to user documents.
type UserReadRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

// NewUserReadRepository creates a read repository. Every operation runs
// under the given timeout.
func NewUserReadRepository(db *mongo.Database, timeout time.Duration) *UserReadRepository {
	return &UserReadRepository{col: db.Collection(UsersCollection), timeout: timeout}
}

func (r *UserReadRepository) findOne(ctx context.Context, filter bson.D) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var user models.User
	err := r.col.FindOne(ctx, filter).Decode(&user)

	logger.Log.Infow("users.findOne",
		"filter", filter,
		"error", err,
	)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByID returns the user with the given id, or nil if absent.
func (r *UserReadRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

// GetByEmail returns the user with the given email, or nil if absent.
func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

// GetByEmailOrPhone returns any user matching either value, or nil.
func (r *UserReadRepository) GetByEmailOrPhone(ctx context.Context, email, phone string) (*models.User, error) {
	return r.findOne(ctx, bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "email", Value: email}},
		bson.D{{Key: "phone", Value: phone}},
	}}})
}

// List returns all users sorted by creation time, newest first.
// The result is always a non-nil slice.
func (r *UserReadRepository) List(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.D{}, opts)

	logger.Log.Infow("users.list", "error", err)

	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// UserWriteRepository provides write access to user documents.
type UserWriteRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

// NewUserWriteRepository creates a write repository. Every operation
// runs under the given timeout.
func NewUserWriteRepository(db *mongo.Database, timeout time.Duration) *UserWriteRepository {
	return &UserWriteRepository{col: db.Collection(UsersCollection), timeout: timeout}
}

// Save inserts a new user document. A unique-index violation on email
// or phone surfaces as Conflict.
func (r *UserWriteRepository) Save(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, user)

	logger.Log.Infow("users.save",
		"user_id", user.UserID,
		"email", user.Email,
		"error", err,
	)

	return wrapWriteError(err)
}

// SetRefreshToken stores the current refresh token on the user record.
// An empty token clears the field, which makes logout idempotent.
func (r *UserWriteRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var update bson.D
	if token == "" {
		update = bson.D{
			{Key: "$unset", Value: bson.D{{Key: "refresh_token", Value: 1}}},
			{Key: "$set", Value: bson.D{{Key: "updated_at", Value: time.Now()}}},
		}
	} else {
		update = bson.D{{Key: "$set", Value: bson.D{
			{Key: "refresh_token", Value: token},
			{Key: "updated_at", Value: time.Now()},
		}}}
	}

	res, err := r.col.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, update)

	logger.Log.Infow("users.setRefreshToken",
		"user_id", id,
		"cleared", token == "",
		"error", err,
	)

	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("User not found")
	}
	return nil
}

// SetVisibility updates the isPublic flag and returns the updated user.
func (r *UserWriteRepository) SetVisibility(ctx context.Context, id string, isPublic bool) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "is_public", Value: isPublic},
		{Key: "updated_at", Value: time.Now()},
	}}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	err := r.col.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, update, opts).Decode(&user)

	logger.Log.Infow("users.setVisibility",
		"user_id", id,
		"is_public", isPublic,
		"error", err,
	)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, err
	}
	return &user, nil
}

// Update replaces the full set of profile fields and returns the
// updated user. Email or phone collisions surface as Conflict.
func (r *UserWriteRepository) Update(ctx context.Context, id string, fields models.UserUpdate) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: fields.Name},
		{Key: "email", Value: fields.Email},
		{Key: "photo", Value: fields.Photo},
		{Key: "bio", Value: fields.Bio},
		{Key: "phone", Value: fields.Phone},
		{Key: "password_hash", Value: fields.PasswordHash},
		{Key: "updated_at", Value: time.Now()},
	}}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	err := r.col.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, update, opts).Decode(&user)

	logger.Log.Infow("users.update",
		"user_id", id,
		"error", err,
	)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, wrapWriteError(err)
	}
	return &user, nil
}
