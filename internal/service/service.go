// Package service holds the job board business logic: the job and
// application lifecycles, notification dispatch and accounts.
package service

import (
	"errors"
	"time"

	"github.com/ncobase/jobboard/config"
	"github.com/ncobase/jobboard/ecode"
	"github.com/ncobase/jobboard/internal/data"
	"github.com/ncobase/jobboard/internal/data/repository"
	"github.com/ncobase/jobboard/internal/event"
	"github.com/ncobase/jobboard/internal/structs"
	"github.com/ncobase/jobboard/logging/logger"
	"github.com/ncobase/jobboard/messaging/email"
	"github.com/ncobase/jobboard/oss"
	"github.com/ncobase/jobboard/security/jwt"
	"github.com/ncobase/jobboard/validation/validator"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Deps are the collaborators of the services.
type Deps struct {
	Data    *data.Data
	Bus     *event.Bus
	Storage oss.Interface
	Tokens  *jwt.TokenManager
	// Mailer mirrors notifications by email when set.
	Mailer email.Sender
	Upload *config.Upload
	// CacheTTL bounds cached contact cards.
	CacheTTL time.Duration
	Logger   *logger.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Service aggregates all business logic services.
type Service struct {
	Job          *JobService
	Application  *ApplicationService
	Notification *NotificationService
	User         *UserService
}

// New creates a new service instance with all sub-services initialized.
// The notification handler is subscribed on d.Bus.
func New(d Deps) *Service {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Upload == nil {
		d.Upload = &config.Upload{MaxSize: config.DefaultMaxUploadSize, AllowedTypes: config.DefaultAllowedTypes}
	}
	contacts := newContactBook(d)
	notification := NewNotificationService(d, contacts)
	return &Service{
		Job:          NewJobService(d, notification),
		Application:  NewApplicationService(d, notification, contacts),
		Notification: notification,
		User:         NewUserService(d, contacts),
	}
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   string
	Role structs.Role
}

func newID() string {
	return primitive.NewObjectID().Hex()
}

// validate runs struct validation and converts failures to a fields error.
func validate(req any) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return ecode.NewFieldsError(errs)
	}
	return nil
}

// notFoundOr maps repository.ErrNotFound to a NotFound error about what and
// anything else to a server error.
func notFoundOr(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ecode.NewNotFoundError(ecode.NotExist(what))
	}
	return storeErr(err)
}

func storeErr(err error) error {
	var e *ecode.Error
	if errors.As(err, &e) {
		return err
	}
	return ecode.NewServerError("", err)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(validator.DateLayout, s)
	if err != nil {
		return time.Time{}, ecode.NewValidationError(ecode.FieldIsInvalid("date"))
	}
	return t, nil
}
