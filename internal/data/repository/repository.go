// Package repository persists jobs, applications, notifications and users.
// Every repository has a MongoDB implementation and an in-memory one with the
// same semantics.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ncobase/jobboard/internal/structs"
	"github.com/ncobase/jobboard/paging"
)

var (
	// ErrNotFound is returned when no document matches.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("duplicate key")
)

// JobRepository defines the job data operations.
type JobRepository interface {
	Create(ctx context.Context, job *structs.Job) error
	FindByID(ctx context.Context, id string) (*structs.Job, error)
	// Update replaces the stored job with job.
	Update(ctx context.Context, job *structs.Job) error
	// ApproveMany approves the pending, non-deleted jobs among ids in one write
	// and returns the number of modified jobs.
	ApproveMany(ctx context.Context, ids []string, adminID string, now time.Time) (int64, error)
	// MarkExpired flags every job whose deadline is not after now.
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
	List(ctx context.Context, filter JobFilter, page paging.Params) ([]*structs.Job, int64, error)
	Count(ctx context.Context, filter JobFilter) (int64, error)
}

// ApplicationRepository defines the application data operations.
type ApplicationRepository interface {
	// Create returns ErrDuplicate when the applicant already applied to the job.
	Create(ctx context.Context, app *structs.Application) error
	FindByID(ctx context.Context, id string) (*structs.Application, error)
	Exists(ctx context.Context, applicantID, jobID string) (bool, error)
	Update(ctx context.Context, app *structs.Application) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ApplicationFilter) ([]*structs.Application, error)
	Count(ctx context.Context, filter ApplicationFilter) (int64, error)
}

// NotificationRepository defines the notification data operations.
type NotificationRepository interface {
	Create(ctx context.Context, n *structs.Notification) error
	FindByID(ctx context.Context, id string) (*structs.Notification, error)
	// ListByUser returns the latest notifications of a user, newest first.
	ListByUser(ctx context.Context, userID string, limit int64) ([]*structs.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id string) error
	// AttachInterviewResponse records resp on the user's interview_scheduled
	// notifications for jobID.
	AttachInterviewResponse(ctx context.Context, userID, jobID string, resp structs.InterviewResponse) (int64, error)
}

// UserRepository defines the user data operations.
type UserRepository interface {
	// Create returns ErrDuplicate when the email is taken.
	Create(ctx context.Context, user *structs.User) error
	FindByID(ctx context.Context, id string) (*structs.User, error)
	FindByEmail(ctx context.Context, email string) (*structs.User, error)
	Update(ctx context.Context, user *structs.User) error
	CountByRole(ctx context.Context) (map[structs.Role]int64, error)
}

// Indexer creates the indexes a repository relies on.
type Indexer interface {
	EnsureIndexes(ctx context.Context) error
}
