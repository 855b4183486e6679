package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ncobase/jobboard/internal/structs"
	"github.com/ncobase/jobboard/logging/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewUserRepository creates a MongoDB user repository.
func NewUserRepository(db *mongo.Database, logger *logger.Logger) UserRepository {
	return &userRepository{collection: db.Collection("users"), logger: logger}
}

// EnsureIndexes creates the unique email index.
func (r *userRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

// Create inserts a user.
func (r *userRepository) Create(ctx context.Context, user *structs.User) error {
	user.Email = strings.ToLower(user.Email)
	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		r.logger.Error(ctx, "failed to create user", "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}
	r.logger.Info(ctx, "user created", "id", user.ID, "role", user.Role)
	return nil
}

// FindByID retrieves a user by ID.
func (r *userRepository) FindByID(ctx context.Context, id string) (*structs.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByEmail retrieves a user by email.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*structs.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *userRepository) findOne(ctx context.Context, q bson.M) (*structs.User, error) {
	var user structs.User
	err := r.collection.FindOne(ctx, q).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error(ctx, "failed to find user", "error", err)
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// Update replaces the stored user.
func (r *userRepository) Update(ctx context.Context, user *structs.User) error {
	user.Email = strings.ToLower(user.Email)
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByRole counts users per role.
func (r *userRepository) CountByRole(ctx context.Context) (map[structs.Role]int64, error) {
	cursor, err := r.collection.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$role"}, {Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Role  structs.Role `bson:"_id"`
		Count int64        `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode user counts: %w", err)
	}
	out := make(map[structs.Role]int64, len(rows))
	for _, row := range rows {
		out[row.Role] = row.Count
	}
	return out, nil
}
