package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ncobase/jobboard/config"
	"github.com/ncobase/jobboard/ecode"
	"github.com/ncobase/jobboard/internal/data"
	"github.com/ncobase/jobboard/internal/data/repository"
	"github.com/ncobase/jobboard/internal/structs"
	"github.com/ncobase/jobboard/logging/logger"
	"github.com/ncobase/jobboard/oss"
	"github.com/ncobase/jobboard/validation/validator"
)

// resumeFolder is the storage folder of uploaded resumes.
const resumeFolder = "CV"

// ApplicationService manages the application lifecycle: submission, review,
// interview scheduling and resolution.
type ApplicationService struct {
	data     *data.Data
	storage  oss.Interface
	upload   *config.Upload
	notify   *NotificationService
	contacts *contactBook
	logger   *logger.Logger
	now      func() time.Time
}

// NewApplicationService creates a new application service.
func NewApplicationService(d Deps, notify *NotificationService, contacts *contactBook) *ApplicationService {
	return &ApplicationService{
		data:     d.Data,
		storage:  d.Storage,
		upload:   d.Upload,
		notify:   notify,
		contacts: contacts,
		logger:   d.Logger,
		now:      d.Now,
	}
}

// checkResume validates the upload before any IO and returns its media type.
func (s *ApplicationService) checkResume(file *structs.ResumeUpload) (string, error) {
	if file == nil || len(file.Data) == 0 {
		return "", ecode.NewFieldsError(map[string]string{"resume": ecode.FieldIsRequired("resume")})
	}
	if file.Size > s.upload.MaxSize || int64(len(file.Data)) > s.upload.MaxSize {
		return "", ecode.NewFieldsError(map[string]string{
			"resume": fmt.Sprintf("resume must not exceed %d MB", s.upload.MaxSize>>20),
		})
	}
	contentType, ok := validator.DetectMIME(file.Data, s.upload.AllowedTypes)
	if !ok {
		return "", ecode.NewFieldsError(map[string]string{
			"resume": fmt.Sprintf("resume type %s is not allowed", contentType),
		})
	}
	return contentType, nil
}

// Submit files an application of the actor to a job. The job and the
// duplicate checks run before the resume is uploaded.
func (s *ApplicationService) Submit(ctx context.Context, actor Actor, req *structs.SubmitApplicationRequest, file *structs.ResumeUpload) (*structs.Application, error) {
	if err := Allow(actor, OpAppSubmit); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	contentType, err := s.checkResume(file)
	if err != nil {
		return nil, err
	}

	job, err := s.data.Jobs.FindByID(ctx, req.JobID)
	if err != nil {
		return nil, notFoundOr(err, "job")
	}
	now := s.now()
	switch {
	case job.IsDeleted:
		return nil, ecode.NewNotFoundError(ecode.NotExist("job"))
	case job.Status != structs.JobApproved:
		return nil, ecode.NewValidationError("job is not open for applications")
	case job.Expired || job.PastDeadline(now):
		return nil, ecode.NewValidationError(ecode.Expired("job"))
	}

	exists, err := s.data.Applications.Exists(ctx, actor.ID, job.ID)
	if err != nil {
		return nil, storeErr(err)
	}
	if exists {
		return nil, ecode.NewConflictError(ecode.AlreadyExist("application"))
	}

	key := oss.ObjectKey(resumeFolder, file.Filename)
	obj, err := s.storage.Put(ctx, key, bytes.NewReader(file.Data), int64(len(file.Data)), contentType)
	if err != nil {
		s.logger.Error(ctx, "failed to upload resume", "key", key, "error", err)
		return nil, ecode.NewDependencyError("failed to upload resume", err)
	}

	app := &structs.Application{
		ID:             newID(),
		ApplicantID:    actor.ID,
		EmployerID:     job.PostedBy,
		JobID:          job.ID,
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.ToLower(req.Email),
		Phone:          req.Phone,
		Address:        req.Address,
		CoverLetter:    req.CoverLetter,
		DisabilityType: req.DisabilityType,
		Resume: structs.Resume{
			PublicID:    obj.Path,
			URL:         obj.URL,
			ContentType: contentType,
			Size:        int64(len(file.Data)),
		},
		Status:    structs.ApplicationPending,
		JobInfo:   job.Snapshot(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.data.Applications.Create(ctx, app); err != nil {
		s.removeResume(ctx, obj.Path)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ecode.NewConflictError(ecode.AlreadyExist("application"))
		}
		return nil, storeErr(err)
	}

	s.notify.Dispatch(ctx, newNotice(job.PostedBy, structs.NotifyApplicationReceived, job.ID,
		noticeData{JobTitle: job.Title, ApplicantName: app.Name}))
	s.logger.Info(ctx, "application submitted", "application_id", app.ID, "job_id", job.ID)
	return app, nil
}

func (s *ApplicationService) removeResume(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.Warn(ctx, "failed to remove resume", "key", key, "error", err)
	}
}

func (s *ApplicationService) owned(ctx context.Context, actor Actor, op Operation, id string, owner func(*structs.Application) string) (*structs.Application, error) {
	app, err := s.data.Applications.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "application")
	}
	if err := Owns(actor, op, owner(app)); err != nil {
		return nil, err
	}
	return app, nil
}

func employerOf(a *structs.Application) string  { return a.EmployerID }
func applicantOf(a *structs.Application) string { return a.ApplicantID }

// checkStatusRequest rejects status and interview combinations with no
// defined transition.
func checkStatusRequest(req *structs.UpdateApplicationStatusRequest) error {
	scheduling := req.InterviewDate != "" && req.InterviewTime != ""
	if req.HasInterview() && !scheduling {
		return ecode.NewFieldsError(map[string]string{
			"interview_date": "interview_date and interview_time are required to schedule an interview",
		})
	}
	switch req.Status {
	case "":
		if !scheduling {
			return ecode.NewFieldsError(map[string]string{"status": ecode.FieldIsRequired("status")})
		}
	case structs.ApplicationScheduled:
		if !scheduling {
			return ecode.NewFieldsError(map[string]string{
				"interview_date": "interview_date and interview_time are required to schedule an interview",
			})
		}
	case structs.ApplicationAccepted:
	default:
		if scheduling {
			return ecode.NewValidationError("an interview can only be scheduled with status accepted or scheduled")
		}
	}
	return nil
}

// UpdateStatus applies the employer decision on an application. Date and time
// with an accepted or empty status schedule an interview.
func (s *ApplicationService) UpdateStatus(ctx context.Context, actor Actor, id string, req *structs.UpdateApplicationStatusRequest) (*structs.Application, error) {
	if err := Allow(actor, OpAppUpdateStatus); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := checkStatusRequest(req); err != nil {
		return nil, err
	}
	app, err := s.owned(ctx, actor, OpAppUpdateStatus, id, employerOf)
	if err != nil {
		return nil, err
	}

	var notice *Notice
	if req.InterviewDate != "" && req.InterviewTime != "" {
		mode := req.InterviewMode
		if mode == "" {
			mode = structs.InterviewOnline
		}
		app.Status = structs.ApplicationScheduled
		app.Interview = &structs.Interview{
			Date:     req.InterviewDate,
			Time:     req.InterviewTime,
			Mode:     mode,
			Location: req.InterviewLocation,
		}
		app.InterviewResponse = ""
		n := s.interviewNotice(ctx, actor, app)
		notice = &n
	} else {
		app.Status = req.Status
		switch req.Status {
		case structs.ApplicationAccepted:
			n := newNotice(app.ApplicantID, structs.NotifyApplicationAccepted, app.JobID, noticeData{JobTitle: app.JobInfo.Title})
			notice = &n
		case structs.ApplicationRejected:
			// a rejected application has nothing left to confirm
			app.Interview = nil
			app.InterviewResponse = ""
			n := newNotice(app.ApplicantID, structs.NotifyApplicationRejected, app.JobID, noticeData{JobTitle: app.JobInfo.Title})
			notice = &n
		}
	}
	app.UpdatedAt = s.now()
	if err := s.data.Applications.Update(ctx, app); err != nil {
		return nil, notFoundOr(err, "application")
	}

	if notice != nil {
		s.notify.Dispatch(ctx, *notice)
	}
	s.logger.Info(ctx, "application status updated", "application_id", app.ID, "status", app.Status)
	return app, nil
}

func (s *ApplicationService) interviewNotice(ctx context.Context, actor Actor, app *structs.Application) Notice {
	employer := &structs.Contact{ID: actor.ID}
	if c, err := s.contacts.get(ctx, actor.ID); err != nil {
		s.logger.Warn(ctx, "failed to load employer contact", "user_id", actor.ID, "error", err)
	} else {
		employer = c
	}

	iv := app.Interview
	location := iv.Location
	if location == "" && iv.Mode == structs.InterviewOffline {
		location = app.JobInfo.Location
	}
	n := newNotice(app.ApplicantID, structs.NotifyInterviewScheduled, app.JobID, noticeData{
		JobTitle:      app.JobInfo.Title,
		Date:          longDate(iv.Date),
		Time:          iv.Time,
		Mode:          iv.Mode,
		Location:      location,
		EmployerName:  employer.Name,
		EmployerEmail: employer.Email,
		EmployerPhone: employer.Phone,
	})
	n.Interview = &structs.InterviewDetails{
		Date:          iv.Date,
		Time:          iv.Time,
		JobTitle:      app.JobInfo.Title,
		Mode:          iv.Mode,
		Location:      location,
		EmployerName:  employer.Name,
		EmployerEmail: employer.Email,
		EmployerPhone: employer.Phone,
	}
	return n
}

// Delete withdraws an application of the actor and removes its resume.
func (s *ApplicationService) Delete(ctx context.Context, actor Actor, id string) error {
	if err := Allow(actor, OpAppDelete); err != nil {
		return err
	}
	app, err := s.owned(ctx, actor, OpAppDelete, id, applicantOf)
	if err != nil {
		return err
	}
	if err := s.data.Applications.Delete(ctx, app.ID); err != nil {
		return notFoundOr(err, "application")
	}
	s.removeResume(ctx, app.Resume.PublicID)
	s.logger.Info(ctx, "application deleted", "application_id", app.ID)
	return nil
}

// RespondInterview records the applicant answer to a scheduled interview.
func (s *ApplicationService) RespondInterview(ctx context.Context, actor Actor, id string, req *structs.InterviewResponseRequest) (*structs.Application, error) {
	if err := Allow(actor, OpAppRespond); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	app, err := s.owned(ctx, actor, OpAppRespond, id, applicantOf)
	if err != nil {
		return nil, err
	}
	if !app.HasInterview() {
		return nil, ecode.NewValidationError("no interview is scheduled for this application")
	}

	app.InterviewResponse = req.Response
	app.UpdatedAt = s.now()
	if err := s.data.Applications.Update(ctx, app); err != nil {
		return nil, notFoundOr(err, "application")
	}

	typ := structs.NotifyInterviewConfirmed
	if req.Response == structs.InterviewDeclined {
		typ = structs.NotifyInterviewDeclined
	}
	s.notify.Dispatch(ctx, newNotice(app.EmployerID, typ, app.JobID, noticeData{
		JobTitle:      app.JobInfo.Title,
		ApplicantName: app.Name,
		Date:          longDate(app.Interview.Date),
		Time:          app.Interview.Time,
	}))
	s.notify.attachInterviewResponse(ctx, app.ApplicantID, app.JobID, req.Response)
	return app, nil
}

var interviewStatuses = []structs.ApplicationStatus{structs.ApplicationAccepted, structs.ApplicationScheduled}

func (s *ApplicationService) list(ctx context.Context, actor Actor, op Operation, filter repository.ApplicationFilter) ([]*structs.Application, error) {
	if err := Allow(actor, op); err != nil {
		return nil, err
	}
	apps, err := s.data.Applications.List(ctx, filter)
	if err != nil {
		return nil, storeErr(err)
	}
	return apps, nil
}

// ListForEmployer lists the applications received by the actor.
func (s *ApplicationService) ListForEmployer(ctx context.Context, actor Actor) ([]*structs.Application, error) {
	return s.list(ctx, actor, OpAppListEmployer, repository.ApplicationFilter{EmployerID: actor.ID})
}

// ListForApplicant lists the applications of the actor.
func (s *ApplicationService) ListForApplicant(ctx context.Context, actor Actor) ([]*structs.Application, error) {
	return s.list(ctx, actor, OpAppListSeeker, repository.ApplicationFilter{ApplicantID: actor.ID})
}

// EmployerInterviews lists the interviews the actor scheduled, soonest first.
func (s *ApplicationService) EmployerInterviews(ctx context.Context, actor Actor) ([]*structs.Application, error) {
	return s.list(ctx, actor, OpAppListEmployer, repository.ApplicationFilter{
		EmployerID:    actor.ID,
		Statuses:      interviewStatuses,
		WithInterview: true,
	})
}

// ApplicantInterviews lists the interviews of the actor, soonest first.
func (s *ApplicationService) ApplicantInterviews(ctx context.Context, actor Actor) ([]*structs.Application, error) {
	return s.list(ctx, actor, OpAppListSeeker, repository.ApplicationFilter{
		ApplicantID:   actor.ID,
		Statuses:      interviewStatuses,
		WithInterview: true,
	})
}
