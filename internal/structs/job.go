package structs

import (
	"fmt"
	"time"
)

// Salary bounds accepted for either salary form.
const (
	MinSalary int64 = 1000
	MaxSalary int64 = 999999999
)

// MaxDeadlineExtension is the longest a deadline may move in one extension.
const MaxDeadlineExtension = 90 * 24 * time.Hour

// WorkTime is a daily working window in HH:MM.
type WorkTime struct {
	Start string `bson:"start" json:"start" validate:"required,hhmm"`
	End   string `bson:"end" json:"end" validate:"required,hhmm"`
}

// SalaryRange is an open range with From < To.
type SalaryRange struct {
	From int64 `bson:"from" json:"from" validate:"required,gte=1000,lte=999999999"`
	To   int64 `bson:"to" json:"to" validate:"required,gte=1000,lte=999999999"`
}

// Job is a job posting.
type Job struct {
	ID                    string       `bson:"_id" json:"id"`
	PostedBy              string       `bson:"posted_by" json:"posted_by"`
	Title                 string       `bson:"title" json:"title"`
	Description           string       `bson:"description" json:"description"`
	Category              string       `bson:"category" json:"category"`
	City                  string       `bson:"city" json:"city"`
	Location              string       `bson:"location" json:"location"`
	WorkMode              WorkMode     `bson:"work_mode" json:"work_mode"`
	FlexibleTime          bool         `bson:"flexible_time" json:"flexible_time"`
	WorkTime              *WorkTime    `bson:"work_time,omitempty" json:"work_time,omitempty"`
	FixedSalary           *int64       `bson:"fixed_salary,omitempty" json:"fixed_salary,omitempty"`
	SalaryRange           *SalaryRange `bson:"salary_range,omitempty" json:"salary_range,omitempty"`
	DisabilityFriendly    bool         `bson:"disability_friendly" json:"disability_friendly"`
	SupportedDisabilities []Disability `bson:"supported_disabilities" json:"supported_disabilities"`
	Status                JobStatus    `bson:"status" json:"status"`
	ApprovedBy            string       `bson:"approved_by,omitempty" json:"approved_by,omitempty"`
	ApprovedAt            *time.Time   `bson:"approved_at,omitempty" json:"approved_at,omitempty"`
	RejectionReason       string       `bson:"rejection_reason,omitempty" json:"rejection_reason,omitempty"`
	IsDeleted             bool         `bson:"is_deleted" json:"is_deleted"`
	DeletedAt             *time.Time   `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
	Expired               bool         `bson:"expired" json:"expired"`
	Deadline              time.Time    `bson:"deadline" json:"deadline"`
	PostedOn              time.Time    `bson:"posted_on" json:"posted_on"`
	UpdatedAt             time.Time    `bson:"updated_at" json:"updated_at"`
}

// PastDeadline reports whether the deadline is not after now.
func (j *Job) PastDeadline(now time.Time) bool {
	return !j.Deadline.After(now)
}

// AcceptsApplications reports whether applicants may apply at now.
func (j *Job) AcceptsApplications(now time.Time) bool {
	return !j.IsDeleted && j.Status == JobApproved && !j.Expired && !j.PastDeadline(now)
}

// SalaryString renders the salary for display.
func (j *Job) SalaryString() string {
	switch {
	case j.FixedSalary != nil:
		return fmt.Sprintf("%d", *j.FixedSalary)
	case j.SalaryRange != nil:
		return fmt.Sprintf("%d - %d", j.SalaryRange.From, j.SalaryRange.To)
	}
	return ""
}

// Snapshot copies the fields kept on applications.
func (j *Job) Snapshot() JobSnapshot {
	return JobSnapshot{
		JobID:       j.ID,
		Title:       j.Title,
		Category:    j.Category,
		Location:    j.Location,
		City:        j.City,
		Description: j.Description,
		WorkMode:    j.WorkMode,
		Salary:      j.SalaryString(),
		Deadline:    j.Deadline,
	}
}

// CreateJobRequest is the body of a job submission.
type CreateJobRequest struct {
	Title                 string       `json:"title" validate:"required,min=3,max=100"`
	Description           string       `json:"description" validate:"required,min=30,max=2000"`
	Category              string       `json:"category" validate:"required,max=100"`
	City                  string       `json:"city" validate:"required,max=100"`
	Location              string       `json:"location" validate:"required,min=10,max=300"`
	WorkMode              WorkMode     `json:"work_mode" validate:"required,oneof=Online Offline Hybrid"`
	FlexibleTime          bool         `json:"flexible_time"`
	WorkTime              *WorkTime    `json:"work_time,omitempty"`
	FixedSalary           *int64       `json:"fixed_salary,omitempty" validate:"omitempty,gte=1000,lte=999999999"`
	SalaryRange           *SalaryRange `json:"salary_range,omitempty"`
	DisabilityFriendly    bool         `json:"disability_friendly"`
	SupportedDisabilities []Disability `json:"supported_disabilities,omitempty" validate:"omitempty,dive,oneof=Visual Hearing Mobility"`
	Deadline              string       `json:"deadline" validate:"required,date"`
}

// UpdateJobRequest carries the mutable fields of a job. Nil fields are left as is.
// Setting FixedSalary clears SalaryRange and vice versa.
type UpdateJobRequest struct {
	Title                 *string       `json:"title,omitempty" validate:"omitempty,min=3,max=100"`
	Description           *string       `json:"description,omitempty" validate:"omitempty,min=30,max=2000"`
	Category              *string       `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	City                  *string       `json:"city,omitempty" validate:"omitempty,min=1,max=100"`
	Location              *string       `json:"location,omitempty" validate:"omitempty,min=10,max=300"`
	WorkMode              *WorkMode     `json:"work_mode,omitempty" validate:"omitempty,oneof=Online Offline Hybrid"`
	FlexibleTime          *bool         `json:"flexible_time,omitempty"`
	WorkTime              *WorkTime     `json:"work_time,omitempty"`
	FixedSalary           *int64        `json:"fixed_salary,omitempty" validate:"omitempty,gte=1000,lte=999999999"`
	SalaryRange           *SalaryRange  `json:"salary_range,omitempty"`
	DisabilityFriendly    *bool         `json:"disability_friendly,omitempty"`
	SupportedDisabilities *[]Disability `json:"supported_disabilities,omitempty" validate:"omitempty,dive,oneof=Visual Hearing Mobility"`
}

// ExtendDeadlineRequest moves a deadline forward.
type ExtendDeadlineRequest struct {
	Deadline string `json:"deadline" validate:"required,date"`
}

// RejectJobRequest carries the moderation reason.
type RejectJobRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// ApproveJobsRequest approves several jobs at once.
type ApproveJobsRequest struct {
	JobIDs []string `json:"job_ids" validate:"required,min=1,max=100,dive,required"`
}

// JobSearchParams filters public job listings.
type JobSearchParams struct {
	Keyword            string     `form:"keyword"`
	City               string     `form:"city"`
	Category           string     `form:"category"`
	WorkMode           WorkMode   `form:"work_mode" validate:"omitempty,oneof=Online Offline Hybrid"`
	DisabilityFriendly bool       `form:"disability_friendly"`
	Disability         Disability `form:"disability" validate:"omitempty,oneof=Visual Hearing Mobility"`
	SalaryMin          int64      `form:"salary_min" validate:"gte=0"`
	SalaryMax          int64      `form:"salary_max" validate:"gte=0"`
	Page               int        `form:"page"`
	Limit              int        `form:"limit"`
}
