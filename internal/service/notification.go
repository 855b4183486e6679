package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ncobase/jobboard/ecode"
	"github.com/ncobase/jobboard/internal/data"
	"github.com/ncobase/jobboard/internal/event"
	"github.com/ncobase/jobboard/internal/structs"
	"github.com/ncobase/jobboard/logging/logger"
	"github.com/ncobase/jobboard/messaging/email"
)

// inboxSize is how many notifications a user sees.
const inboxSize = 50

// Notice is one notification to deliver.
type Notice struct {
	Recipient string                    `bson:"recipient" json:"recipient"`
	Type      structs.NotificationType  `bson:"type" json:"type"`
	Title     string                    `bson:"title" json:"title"`
	Message   string                    `bson:"message" json:"message"`
	JobID     string                    `bson:"job_id,omitempty" json:"job_id,omitempty"`
	Interview *structs.InterviewDetails `bson:"interview,omitempty" json:"interview,omitempty"`
}

func newNotice(recipient string, typ structs.NotificationType, jobID string, d noticeData) Notice {
	title, message := render(typ, d)
	return Notice{Recipient: recipient, Type: typ, Title: title, Message: message, JobID: jobID}
}

// NotificationService dispatches notifications and serves the inbox.
type NotificationService struct {
	data     *data.Data
	bus      *event.Bus
	mailer   email.Sender
	contacts *contactBook
	logger   *logger.Logger
	now      func() time.Time
}

// NewNotificationService creates the service and subscribes its delivery
// handler on the bus.
func NewNotificationService(d Deps, contacts *contactBook) *NotificationService {
	s := &NotificationService{
		data:     d.Data,
		bus:      d.Bus,
		mailer:   d.Mailer,
		contacts: contacts,
		logger:   d.Logger,
		now:      d.Now,
	}
	if s.bus != nil {
		s.bus.Subscribe(event.EventTypeNotification, s.deliver)
	}
	return s
}

// Dispatch queues n for delivery. It never blocks and never fails the caller;
// problems are logged.
func (s *NotificationService) Dispatch(ctx context.Context, n Notice) {
	if n.Recipient == "" {
		s.logger.Error(ctx, "failed to dispatch notification", "type", n.Type, "error", errNoRecipient)
		return
	}
	if s.bus == nil {
		s.logger.Warn(ctx, "notification dropped, no event bus", "type", n.Type, "recipient", n.Recipient)
		return
	}
	err := s.bus.Publish(ctx, &event.Event{
		Type:        event.EventTypeNotification,
		AggregateID: n.JobID,
		UserID:      n.Recipient,
		Payload:     n,
	})
	if err != nil {
		s.logger.Error(ctx, "failed to dispatch notification",
			"type", n.Type,
			"recipient", n.Recipient,
			"error", err)
	}
}

// deliver persists a dispatched notice and mirrors it by email when configured.
func (s *NotificationService) deliver(ctx context.Context, e *event.Event) error {
	n, ok := e.Payload.(Notice)
	if !ok {
		return fmt.Errorf("unexpected notification payload %T", e.Payload)
	}
	rec := &structs.Notification{
		ID:               newID(),
		UserID:           n.Recipient,
		Type:             n.Type,
		Title:            n.Title,
		Message:          n.Message,
		JobID:            n.JobID,
		InterviewDetails: n.Interview,
		CreatedAt:        s.now(),
	}
	if err := s.data.Notifications.Create(ctx, rec); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	s.logger.Debug(ctx, "notification delivered", "id", rec.ID, "type", rec.Type, "user_id", rec.UserID)

	if s.mailer != nil {
		if err := s.mirror(ctx, rec); err != nil {
			s.logger.Warn(ctx, "failed to mirror notification by email", "id", rec.ID, "error", err)
		}
	}
	return nil
}

func (s *NotificationService) mirror(ctx context.Context, n *structs.Notification) error {
	c, err := s.contacts.get(ctx, n.UserID)
	if err != nil {
		return err
	}
	if c.Email == "" {
		return nil
	}
	_, err = s.mailer.Send(ctx, email.Message{To: c.Email, Subject: n.Title, Text: n.Message})
	return err
}

// List returns the latest notifications of the actor and the unread count.
func (s *NotificationService) List(ctx context.Context, actor Actor) (*structs.NotificationList, error) {
	if err := Allow(actor, OpNotifyList); err != nil {
		return nil, err
	}
	items, err := s.data.Notifications.ListByUser(ctx, actor.ID, inboxSize)
	if err != nil {
		return nil, storeErr(err)
	}
	unread, err := s.data.Notifications.CountUnread(ctx, actor.ID)
	if err != nil {
		return nil, storeErr(err)
	}
	return &structs.NotificationList{Items: items, UnreadCount: unread}, nil
}

func (s *NotificationService) owned(ctx context.Context, actor Actor, op Operation, id string) (*structs.Notification, error) {
	if err := Allow(actor, op); err != nil {
		return nil, err
	}
	n, err := s.data.Notifications.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "notification")
	}
	if err := Owns(actor, op, n.UserID); err != nil {
		return nil, err
	}
	return n, nil
}

// MarkRead marks one of the actor's notifications read.
func (s *NotificationService) MarkRead(ctx context.Context, actor Actor, id string) (*structs.Notification, error) {
	n, err := s.owned(ctx, actor, OpNotifyRead, id)
	if err != nil {
		return nil, err
	}
	if err := s.data.Notifications.MarkRead(ctx, id); err != nil {
		return nil, notFoundOr(err, "notification")
	}
	n.IsRead = true
	return n, nil
}

// MarkAllRead marks every notification of the actor read.
func (s *NotificationService) MarkAllRead(ctx context.Context, actor Actor) (int64, error) {
	if err := Allow(actor, OpNotifyRead); err != nil {
		return 0, err
	}
	n, err := s.data.Notifications.MarkAllRead(ctx, actor.ID)
	if err != nil {
		return 0, storeErr(err)
	}
	return n, nil
}

// Delete removes one of the actor's notifications.
func (s *NotificationService) Delete(ctx context.Context, actor Actor, id string) error {
	if _, err := s.owned(ctx, actor, OpNotifyDelete, id); err != nil {
		return err
	}
	if err := s.data.Notifications.Delete(ctx, id); err != nil {
		return notFoundOr(err, "notification")
	}
	return nil
}

// attachInterviewResponse records resp on the applicant's interview
// notifications. Failures are logged only.
func (s *NotificationService) attachInterviewResponse(ctx context.Context, userID, jobID string, resp structs.InterviewResponse) {
	if _, err := s.data.Notifications.AttachInterviewResponse(ctx, userID, jobID, resp); err != nil {
		s.logger.Error(ctx, "failed to attach interview response", "user_id", userID, "job_id", jobID, "error", err)
	}
}

// Events lists recorded notification events for admins.
func (s *NotificationService) Events(ctx context.Context, actor Actor, filter event.Filter) ([]*event.Event, error) {
	if err := Allow(actor, OpEventList); err != nil {
		return nil, err
	}
	if filter.Status != "" && filter.Status != event.StatusDone && filter.Status != event.StatusFailed {
		return nil, ecode.NewValidationError(ecode.FieldIsInvalid("status"))
	}
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 200
	}
	events, err := s.data.Events.List(ctx, filter)
	if err != nil {
		return nil, storeErr(err)
	}
	return events, nil
}

// BusStats reports event bus counters, nil without a bus.
func (s *NotificationService) BusStats() map[string]any {
	if s.bus == nil {
		return nil
	}
	return s.bus.Stats()
}

var errNoRecipient = errors.New("notification without recipient")
