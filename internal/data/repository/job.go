package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ncobase/jobboard/internal/structs"
	"github.com/ncobase/jobboard/logging/logger"
	"github.com/ncobase/jobboard/paging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type jobRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewJobRepository creates a MongoDB job repository.
func NewJobRepository(db *mongo.Database, logger *logger.Logger) JobRepository {
	return &jobRepository{collection: db.Collection("jobs"), logger: logger}
}

// EnsureIndexes creates the job indexes.
func (r *jobRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "posted_by", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "is_deleted", Value: 1}, {Key: "expired", Value: 1}}},
		{Keys: bson.D{{Key: "deadline", Value: 1}}},
		{Keys: bson.D{{Key: "city", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "supported_disabilities", Value: 1}}},
		{Keys: bson.D{{Key: "posted_on", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create job indexes: %w", err)
	}
	return nil
}

// Create inserts a new job.
func (r *jobRepository) Create(ctx context.Context, job *structs.Job) error {
	if _, err := r.collection.InsertOne(ctx, job); err != nil {
		r.logger.Error(ctx, "failed to create job", "error", err)
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// FindByID retrieves a job by ID.
func (r *jobRepository) FindByID(ctx context.Context, id string) (*structs.Job, error) {
	var job structs.Job
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&job)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error(ctx, "failed to find job", "id", id, "error", err)
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	return &job, nil
}

// Update replaces the stored job.
func (r *jobRepository) Update(ctx context.Context, job *structs.Job) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": job.ID}, job)
	if err != nil {
		r.logger.Error(ctx, "failed to update job", "id", job.ID, "error", err)
		return fmt.Errorf("failed to update job: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ApproveMany approves the pending, non-deleted jobs among ids.
func (r *jobRepository) ApproveMany(ctx context.Context, ids []string, adminID string, now time.Time) (int64, error) {
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}, "status": structs.JobPending, "is_deleted": false},
		bson.M{"$set": bson.M{
			"status":      structs.JobApproved,
			"approved_by": adminID,
			"approved_at": now,
			"expired":     false,
			"updated_at":  now,
		}},
	)
	if err != nil {
		r.logger.Error(ctx, "failed to approve jobs", "count", len(ids), "error", err)
		return 0, fmt.Errorf("failed to approve jobs: %w", err)
	}
	return res.ModifiedCount, nil
}

// MarkExpired flags jobs whose deadline has passed.
func (r *jobRepository) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"expired": false, "deadline": bson.M{"$lte": now}},
		bson.M{"$set": bson.M{"expired": true, "updated_at": now}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark expired jobs: %w", err)
	}
	return res.ModifiedCount, nil
}

// List returns a page of matching jobs, newest first, and the total match count.
func (r *jobRepository) List(ctx context.Context, filter JobFilter, page paging.Params) ([]*structs.Job, int64, error) {
	page = page.Normalize()
	q := filter.bson()

	total, err := r.collection.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "posted_on", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))
	cursor, err := r.collection.Find(ctx, q, opts)
	if err != nil {
		r.logger.Error(ctx, "failed to list jobs", "error", err)
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer cursor.Close(ctx)

	jobs := make([]*structs.Job, 0, page.Limit)
	if err := cursor.All(ctx, &jobs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode jobs: %w", err)
	}
	return jobs, total, nil
}

// Count counts matching jobs.
func (r *jobRepository) Count(ctx context.Context, filter JobFilter) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, filter.bson())
	if err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return n, nil
}
