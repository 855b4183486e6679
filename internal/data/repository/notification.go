package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ncobase/jobboard/internal/structs"
	"github.com/ncobase/jobboard/logging/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type notificationRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewNotificationRepository creates a MongoDB notification repository.
func NewNotificationRepository(db *mongo.Database, logger *logger.Logger) NotificationRepository {
	return &notificationRepository{collection: db.Collection("notifications"), logger: logger}
}

// EnsureIndexes creates the notification indexes.
func (r *notificationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "is_read", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "job_id", Value: 1}, {Key: "type", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create notification indexes: %w", err)
	}
	return nil
}

// Create inserts a notification.
func (r *notificationRepository) Create(ctx context.Context, n *structs.Notification) error {
	if _, err := r.collection.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// FindByID retrieves a notification by ID.
func (r *notificationRepository) FindByID(ctx context.Context, id string) (*structs.Notification, error) {
	var n structs.Notification
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find notification: %w", err)
	}
	return &n, nil
}

// ListByUser returns the latest notifications of a user.
func (r *notificationRepository) ListByUser(ctx context.Context, userID string, limit int64) ([]*structs.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		r.logger.Error(ctx, "failed to list notifications", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer cursor.Close(ctx)

	items := make([]*structs.Notification, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return items, nil
}

// CountUnread counts unread notifications of a user.
func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID, "is_read": false})
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return n, nil
}

// MarkRead marks one notification read.
func (r *notificationRepository) MarkRead(ctx context.Context, id string) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification of a user read.
func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return res.ModifiedCount, nil
}

// Delete removes a notification.
func (r *notificationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AttachInterviewResponse records the applicant response on interview notifications.
func (r *notificationRepository) AttachInterviewResponse(ctx context.Context, userID, jobID string, resp structs.InterviewResponse) (int64, error) {
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"user_id": userID, "job_id": jobID, "type": structs.NotifyInterviewScheduled},
		bson.M{"$set": bson.M{"interview_response": resp}})
	if err != nil {
		return 0, fmt.Errorf("failed to attach interview response: %w", err)
	}
	return res.ModifiedCount, nil
}
