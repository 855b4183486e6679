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

type applicationRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewApplicationRepository creates a MongoDB application repository.
func NewApplicationRepository(db *mongo.Database, logger *logger.Logger) ApplicationRepository {
	return &applicationRepository{collection: db.Collection("applications"), logger: logger}
}

// EnsureIndexes creates the application indexes, including the
// (applicant_id, job_id) unique index that guards duplicate submissions.
func (r *applicationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "applicant_id", Value: 1}, {Key: "job_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("applicant_job_unique"),
		},
		{Keys: bson.D{{Key: "employer_id", Value: 1}, {Key: "status", Value: 1}, {Key: "interview.date", Value: 1}}},
		{Keys: bson.D{{Key: "job_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create application indexes: %w", err)
	}
	return nil
}

// Create inserts a new application.
func (r *applicationRepository) Create(ctx context.Context, app *structs.Application) error {
	if _, err := r.collection.InsertOne(ctx, app); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		r.logger.Error(ctx, "failed to create application", "error", err)
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

// FindByID retrieves an application by ID.
func (r *applicationRepository) FindByID(ctx context.Context, id string) (*structs.Application, error) {
	var app structs.Application
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&app)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error(ctx, "failed to find application", "id", id, "error", err)
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	return &app, nil
}

// Exists reports whether the applicant already applied to the job.
func (r *applicationRepository) Exists(ctx context.Context, applicantID, jobID string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx,
		bson.M{"applicant_id": applicantID, "job_id": jobID},
		options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check application: %w", err)
	}
	return n > 0, nil
}

// Update replaces the stored application.
func (r *applicationRepository) Update(ctx context.Context, app *structs.Application) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": app.ID}, app)
	if err != nil {
		r.logger.Error(ctx, "failed to update application", "id", app.ID, "error", err)
		return fmt.Errorf("failed to update application: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an application.
func (r *applicationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns matching applications.
func (r *applicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]*structs.Application, error) {
	cursor, err := r.collection.Find(ctx, filter.bson(), options.Find().SetSort(filter.sort()))
	if err != nil {
		r.logger.Error(ctx, "failed to list applications", "error", err)
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer cursor.Close(ctx)

	apps := make([]*structs.Application, 0)
	if err := cursor.All(ctx, &apps); err != nil {
		return nil, fmt.Errorf("failed to decode applications: %w", err)
	}
	return apps, nil
}

// Count counts matching applications.
func (r *applicationRepository) Count(ctx context.Context, filter ApplicationFilter) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, filter.bson())
	if err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}
	return n, nil
}
