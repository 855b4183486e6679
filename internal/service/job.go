package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ncobase/jobboard/ecode"
	"github.com/ncobase/jobboard/internal/data"
	"github.com/ncobase/jobboard/internal/data/repository"
	"github.com/ncobase/jobboard/internal/structs"
	"github.com/ncobase/jobboard/logging/logger"
	"github.com/ncobase/jobboard/paging"
)

// JobService manages the job lifecycle: posting, moderation, publication and expiry.
type JobService struct {
	data   *data.Data
	notify *NotificationService
	logger *logger.Logger
	now    func() time.Time
}

// NewJobService creates a new job service.
func NewJobService(d Deps, notify *NotificationService) *JobService {
	return &JobService{data: d.Data, notify: notify, logger: d.Logger, now: d.Now}
}

// checkJob enforces the rules spanning several fields of a job.
func checkJob(j *structs.Job) error {
	switch {
	case j.FixedSalary != nil && j.SalaryRange != nil:
		return ecode.NewValidationError("provide either a fixed salary or a salary range, not both")
	case j.FixedSalary == nil && j.SalaryRange == nil:
		return ecode.NewValidationError("either a fixed salary or a salary range is required")
	case j.SalaryRange != nil && j.SalaryRange.From >= j.SalaryRange.To:
		return ecode.NewFieldsError(map[string]string{"salary_range.from": "salary_range.from must be less than salary_range.to"})
	}
	if j.FlexibleTime {
		j.WorkTime = nil
	} else {
		if j.WorkTime == nil || j.WorkTime.Start == "" || j.WorkTime.End == "" {
			return ecode.NewFieldsError(map[string]string{"work_time": ecode.FieldIsRequired("work_time") + " unless flexible_time is set"})
		}
		if j.WorkTime.Start >= j.WorkTime.End {
			return ecode.NewFieldsError(map[string]string{"work_time.start": "work_time.start must be before work_time.end"})
		}
	}
	if j.DisabilityFriendly {
		if len(j.SupportedDisabilities) == 0 {
			return ecode.NewFieldsError(map[string]string{"supported_disabilities": "at least one supported disability is required for disability friendly jobs"})
		}
	} else {
		j.SupportedDisabilities = nil
	}
	return nil
}

// Submit creates a pending job owned by the actor.
func (s *JobService) Submit(ctx context.Context, actor Actor, req *structs.CreateJobRequest) (*structs.Job, error) {
	if err := Allow(actor, OpJobSubmit); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	now := s.now()
	deadline, err := parseDate(req.Deadline)
	if err != nil {
		return nil, err
	}
	if !deadline.After(now) {
		return nil, ecode.NewFieldsError(map[string]string{"deadline": "deadline must be in the future"})
	}

	job := &structs.Job{
		ID:                    newID(),
		PostedBy:              actor.ID,
		Title:                 strings.TrimSpace(req.Title),
		Description:           strings.TrimSpace(req.Description),
		Category:              req.Category,
		City:                  req.City,
		Location:              req.Location,
		WorkMode:              req.WorkMode,
		FlexibleTime:          req.FlexibleTime,
		WorkTime:              req.WorkTime,
		FixedSalary:           req.FixedSalary,
		SalaryRange:           req.SalaryRange,
		DisabilityFriendly:    req.DisabilityFriendly,
		SupportedDisabilities: slices.Clone(req.SupportedDisabilities),
		Status:                structs.JobPending,
		Deadline:              deadline,
		PostedOn:              now,
		UpdatedAt:             now,
	}
	if err := checkJob(job); err != nil {
		return nil, err
	}
	if err := s.data.Jobs.Create(ctx, job); err != nil {
		return nil, storeErr(err)
	}
	s.logger.Info(ctx, "job submitted", "job_id", job.ID, "posted_by", job.PostedBy)
	return job, nil
}

// find loads a job and refreshes its expired flag.
func (s *JobService) find(ctx context.Context, id string) (*structs.Job, error) {
	job, err := s.data.Jobs.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "job")
	}
	s.refreshExpiry(ctx, job)
	return job, nil
}

// refreshExpiry sets the expired flag of a job whose deadline has passed.
func (s *JobService) refreshExpiry(ctx context.Context, job *structs.Job) {
	now := s.now()
	if job.Expired || !job.PastDeadline(now) {
		return
	}
	job.Expired = true
	job.UpdatedAt = now
	if err := s.data.Jobs.Update(ctx, job); err != nil {
		s.logger.Warn(ctx, "failed to persist job expiry", "job_id", job.ID, "error", err)
	}
}

// sweepExpired flags every job past its deadline before a listing.
func (s *JobService) sweepExpired(ctx context.Context) {
	if n, err := s.data.Jobs.MarkExpired(ctx, s.now()); err != nil {
		s.logger.Warn(ctx, "failed to mark expired jobs", "error", err)
	} else if n > 0 {
		s.logger.Debug(ctx, "jobs expired", "count", n)
	}
}

// Approve publishes a pending job.
func (s *JobService) Approve(ctx context.Context, actor Actor, id string) (*structs.Job, error) {
	if err := Allow(actor, OpJobApprove); err != nil {
		return nil, err
	}
	job, err := s.data.Jobs.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "job")
	}
	if job.IsDeleted {
		return nil, ecode.NewValidationError(ecode.AlreadyDeleted("job"))
	}
	if job.Status != structs.JobPending {
		return nil, ecode.NewValidationError(fmt.Sprintf("job is %s, only pending jobs can be approved", job.Status))
	}

	now := s.now()
	job.Status = structs.JobApproved
	job.ApprovedBy = actor.ID
	job.ApprovedAt = &now
	job.Expired = false
	job.UpdatedAt = now
	if err := s.data.Jobs.Update(ctx, job); err != nil {
		return nil, notFoundOr(err, "job")
	}

	s.notify.Dispatch(ctx, newNotice(job.PostedBy, structs.NotifyJobApproved, job.ID, noticeData{JobTitle: job.Title}))
	s.logger.Info(ctx, "job approved", "job_id", job.ID, "admin_id", actor.ID)
	return job, nil
}

// ApproveMany approves the pending, non-deleted jobs among the requested ids
// in one write and returns how many were modified.
func (s *JobService) ApproveMany(ctx context.Context, actor Actor, req *structs.ApproveJobsRequest) (int64, error) {
	if err := Allow(actor, OpJobApproveMany); err != nil {
		return 0, err
	}
	if err := validate(req); err != nil {
		return 0, err
	}
	ids := slices.Compact(slices.Sorted(slices.Values(req.JobIDs)))

	jobs, _, err := s.data.Jobs.List(ctx, repository.JobFilter{IDs: ids, Statuses: []structs.JobStatus{structs.JobPending}, NotDeleted: true}, paging.Params{Limit: paging.MaxLimit})
	if err != nil {
		return 0, storeErr(err)
	}
	modified, err := s.data.Jobs.ApproveMany(ctx, ids, actor.ID, s.now())
	if err != nil {
		return 0, storeErr(err)
	}

	for _, job := range jobs {
		s.notify.Dispatch(ctx, newNotice(job.PostedBy, structs.NotifyJobApproved, job.ID, noticeData{JobTitle: job.Title}))
	}
	s.logger.Info(ctx, "jobs approved", "requested", len(ids), "modified", modified, "admin_id", actor.ID)
	return modified, nil
}

// Reject soft deletes a job with a moderation reason.
func (s *JobService) Reject(ctx context.Context, actor Actor, id string, req *structs.RejectJobRequest) (*structs.Job, error) {
	if err := Allow(actor, OpJobReject); err != nil {
		return nil, err
	}
	req.Reason = strings.TrimSpace(req.Reason)
	if err := validate(req); err != nil {
		return nil, err
	}
	job, err := s.data.Jobs.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "job")
	}
	if job.IsDeleted {
		return nil, ecode.NewValidationError(ecode.AlreadyDeleted("job"))
	}

	now := s.now()
	job.Status = structs.JobRejected
	job.RejectionReason = req.Reason
	job.IsDeleted = true
	job.DeletedAt = &now
	job.UpdatedAt = now
	if err := s.data.Jobs.Update(ctx, job); err != nil {
		return nil, notFoundOr(err, "job")
	}

	s.notify.Dispatch(ctx, newNotice(job.PostedBy, structs.NotifyJobRejected, job.ID, noticeData{JobTitle: job.Title, Reason: req.Reason}))
	s.logger.Info(ctx, "job rejected", "job_id", job.ID, "admin_id", actor.ID)
	return job, nil
}

// owned loads a live job and checks the actor owns it.
func (s *JobService) owned(ctx context.Context, actor Actor, op Operation, id string) (*structs.Job, error) {
	job, err := s.data.Jobs.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "job")
	}
	if err := Owns(actor, op, job.PostedBy); err != nil {
		return nil, err
	}
	if job.IsDeleted {
		return nil, ecode.NewValidationError(ecode.AlreadyDeleted("job"))
	}
	s.refreshExpiry(ctx, job)
	return job, nil
}

// Update changes the descriptive, compensation and time fields of a job.
// The deadline only moves through ExtendDeadline.
func (s *JobService) Update(ctx context.Context, actor Actor, id string, req *structs.UpdateJobRequest) (*structs.Job, error) {
	if err := Allow(actor, OpJobUpdate); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.FixedSalary != nil && req.SalaryRange != nil {
		return nil, ecode.NewValidationError("provide either a fixed salary or a salary range, not both")
	}
	job, err := s.owned(ctx, actor, OpJobUpdate, id)
	if err != nil {
		return nil, err
	}

	merged := *job
	applyJobUpdate(&merged, req)
	if err := checkJob(&merged); err != nil {
		return nil, err
	}
	merged.UpdatedAt = s.now()
	if err := s.data.Jobs.Update(ctx, &merged); err != nil {
		return nil, notFoundOr(err, "job")
	}
	return &merged, nil
}

func applyJobUpdate(j *structs.Job, req *structs.UpdateJobRequest) {
	if req.Title != nil {
		j.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		j.Description = strings.TrimSpace(*req.Description)
	}
	if req.Category != nil {
		j.Category = *req.Category
	}
	if req.City != nil {
		j.City = *req.City
	}
	if req.Location != nil {
		j.Location = *req.Location
	}
	if req.WorkMode != nil {
		j.WorkMode = *req.WorkMode
	}
	if req.FlexibleTime != nil {
		j.FlexibleTime = *req.FlexibleTime
	}
	if req.WorkTime != nil {
		wt := *req.WorkTime
		j.WorkTime = &wt
	}
	// switching the salary form clears the other one
	if req.FixedSalary != nil {
		v := *req.FixedSalary
		j.FixedSalary = &v
		j.SalaryRange = nil
	}
	if req.SalaryRange != nil {
		r := *req.SalaryRange
		j.SalaryRange = &r
		j.FixedSalary = nil
	}
	if req.DisabilityFriendly != nil {
		j.DisabilityFriendly = *req.DisabilityFriendly
	}
	if req.SupportedDisabilities != nil {
		j.SupportedDisabilities = slices.Clone(*req.SupportedDisabilities)
	}
}

// ExtendDeadline moves the deadline forward by at most 90 days and reopens
// an expired job.
func (s *JobService) ExtendDeadline(ctx context.Context, actor Actor, id string, req *structs.ExtendDeadlineRequest) (*structs.Job, error) {
	if err := Allow(actor, OpJobExtend); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	deadline, err := parseDate(req.Deadline)
	if err != nil {
		return nil, err
	}
	job, err := s.owned(ctx, actor, OpJobExtend, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	switch {
	case !deadline.After(now):
		return nil, ecode.NewFieldsError(map[string]string{"deadline": "deadline must be in the future"})
	case !deadline.After(job.Deadline):
		return nil, ecode.NewFieldsError(map[string]string{"deadline": "deadline must be after the current deadline"})
	case deadline.Sub(job.Deadline) > structs.MaxDeadlineExtension:
		return nil, ecode.NewFieldsError(map[string]string{"deadline": "deadline cannot move more than 90 days past the current deadline"})
	}

	job.Deadline = deadline
	job.Expired = false
	job.UpdatedAt = now
	if err := s.data.Jobs.Update(ctx, job); err != nil {
		return nil, notFoundOr(err, "job")
	}
	s.logger.Info(ctx, "job deadline extended", "job_id", job.ID, "deadline", req.Deadline)
	return job, nil
}

// Delete soft deletes a job of the actor.
func (s *JobService) Delete(ctx context.Context, actor Actor, id string) error {
	if err := Allow(actor, OpJobDelete); err != nil {
		return err
	}
	job, err := s.owned(ctx, actor, OpJobDelete, id)
	if err != nil {
		return err
	}
	now := s.now()
	job.IsDeleted = true
	job.DeletedAt = &now
	job.UpdatedAt = now
	if err := s.data.Jobs.Update(ctx, job); err != nil {
		return notFoundOr(err, "job")
	}
	s.logger.Info(ctx, "job deleted", "job_id", job.ID)
	return nil
}

// Get returns a job. Deleted jobs are only visible to their owner and admins.
func (s *JobService) Get(ctx context.Context, actor Actor, id string) (*structs.Job, error) {
	if err := Allow(actor, OpJobGet); err != nil {
		return nil, err
	}
	job, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.IsDeleted && actor.Role != structs.RoleAdmin && job.PostedBy != actor.ID {
		return nil, ecode.NewNotFoundError(ecode.NotExist("job"))
	}
	return job, nil
}

func (s *JobService) list(ctx context.Context, filter repository.JobFilter, page paging.Params) (*paging.Result[*structs.Job], error) {
	page = page.Normalize()
	jobs, total, err := s.data.Jobs.List(ctx, filter, page)
	if err != nil {
		return nil, storeErr(err)
	}
	return paging.NewResult(jobs, total, page), nil
}

// ListPublic lists open jobs, newest first.
func (s *JobService) ListPublic(ctx context.Context, page paging.Params) (*paging.Result[*structs.Job], error) {
	s.sweepExpired(ctx)
	return s.list(ctx, repository.JobFilter{OpenAt: s.now()}, page)
}

// Search lists open jobs matching params.
func (s *JobService) Search(ctx context.Context, params *structs.JobSearchParams) (*paging.Result[*structs.Job], error) {
	if err := validate(params); err != nil {
		return nil, err
	}
	if params.SalaryMin > 0 && params.SalaryMax > 0 && params.SalaryMin > params.SalaryMax {
		return nil, ecode.NewFieldsError(map[string]string{"salary_min": "salary_min must not exceed salary_max"})
	}
	s.sweepExpired(ctx)
	filter := repository.JobFilter{
		OpenAt:             s.now(),
		Keyword:            strings.TrimSpace(params.Keyword),
		City:               strings.TrimSpace(params.City),
		Category:           strings.TrimSpace(params.Category),
		WorkMode:           params.WorkMode,
		DisabilityFriendly: params.DisabilityFriendly,
		Disability:         params.Disability,
		SalaryMin:          params.SalaryMin,
		SalaryMax:          params.SalaryMax,
	}
	return s.list(ctx, filter, paging.Params{Page: params.Page, Limit: params.Limit})
}

// ListMine lists the actor's live jobs plus the rejected ones.
func (s *JobService) ListMine(ctx context.Context, actor Actor, page paging.Params) (*paging.Result[*structs.Job], error) {
	if err := Allow(actor, OpJobListMine); err != nil {
		return nil, err
	}
	s.sweepExpired(ctx)
	return s.list(ctx, repository.JobFilter{PostedBy: actor.ID, OwnerVisible: true}, page)
}

// ListPending lists jobs waiting for moderation.
func (s *JobService) ListPending(ctx context.Context, actor Actor, page paging.Params) (*paging.Result[*structs.Job], error) {
	if err := Allow(actor, OpJobListPending); err != nil {
		return nil, err
	}
	return s.list(ctx, repository.JobFilter{Statuses: []structs.JobStatus{structs.JobPending}, NotDeleted: true}, page)
}

// Stats summarizes users, jobs and applications.
func (s *JobService) Stats(ctx context.Context, actor Actor) (*structs.Stats, error) {
	if err := Allow(actor, OpStats); err != nil {
		return nil, err
	}
	var st structs.Stats

	roles, err := s.data.Users.CountByRole(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	st.Users.JobSeeker = roles[structs.RoleJobSeeker]
	st.Users.Employers = roles[structs.RoleEmployer]
	st.Users.Admins = roles[structs.RoleAdmin]
	for _, n := range roles {
		st.Users.Total += n
	}

	count := func(statuses ...structs.JobStatus) (int64, error) {
		return s.data.Jobs.Count(ctx, repository.JobFilter{Statuses: statuses, NotDeleted: true})
	}
	for _, c := range []struct {
		dst      *int64
		statuses []structs.JobStatus
	}{
		{&st.Jobs.Total, nil},
		{&st.Jobs.Pending, []structs.JobStatus{structs.JobPending}},
		{&st.Jobs.Approved, []structs.JobStatus{structs.JobApproved}},
	} {
		if *c.dst, err = count(c.statuses...); err != nil {
			return nil, storeErr(err)
		}
	}
	// rejected jobs are soft deleted
	if st.Jobs.Rejected, err = s.data.Jobs.Count(ctx, repository.JobFilter{Statuses: []structs.JobStatus{structs.JobRejected}}); err != nil {
		return nil, storeErr(err)
	}
	if st.Applications, err = s.data.Applications.Count(ctx, repository.ApplicationFilter{}); err != nil {
		return nil, storeErr(err)
	}
	return &st, nil
}
