package structs

import "time"

// Resume points at the uploaded resume object.
type Resume struct {
	PublicID    string `bson:"public_id" json:"public_id"`
	URL         string `bson:"url" json:"url"`
	ContentType string `bson:"content_type" json:"content_type"`
	Size        int64  `bson:"size" json:"size"`
}

// JobSnapshot is the job as it was when the application was submitted.
type JobSnapshot struct {
	JobID       string    `bson:"job_id" json:"job_id"`
	Title       string    `bson:"title" json:"title"`
	Category    string    `bson:"category" json:"category"`
	Location    string    `bson:"location" json:"location"`
	City        string    `bson:"city" json:"city"`
	Description string    `bson:"description" json:"description"`
	WorkMode    WorkMode  `bson:"work_mode" json:"work_mode"`
	Salary      string    `bson:"salary" json:"salary"`
	Deadline    time.Time `bson:"deadline" json:"deadline"`
}

// Interview is a scheduled interview. Date is YYYY-MM-DD and Time HH:MM.
type Interview struct {
	Date     string        `bson:"date" json:"date"`
	Time     string        `bson:"time" json:"time"`
	Mode     InterviewMode `bson:"mode" json:"mode"`
	Location string        `bson:"location" json:"location"`
}

// Application is a job seeker's application to a job.
type Application struct {
	ID                string            `bson:"_id" json:"id"`
	ApplicantID       string            `bson:"applicant_id" json:"applicant_id"`
	EmployerID        string            `bson:"employer_id" json:"employer_id"`
	JobID             string            `bson:"job_id" json:"job_id"`
	Name              string            `bson:"name" json:"name"`
	Email             string            `bson:"email" json:"email"`
	Phone             string            `bson:"phone" json:"phone"`
	Address           string            `bson:"address" json:"address"`
	CoverLetter       string            `bson:"cover_letter" json:"cover_letter"`
	DisabilityType    Disability        `bson:"disability_type" json:"disability_type"`
	Resume            Resume            `bson:"resume" json:"resume"`
	Status            ApplicationStatus `bson:"status" json:"status"`
	Interview         *Interview        `bson:"interview,omitempty" json:"interview,omitempty"`
	InterviewResponse InterviewResponse `bson:"interview_response,omitempty" json:"interview_response,omitempty"`
	JobInfo           JobSnapshot       `bson:"job_info" json:"job_info"`
	CreatedAt         time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time         `bson:"updated_at" json:"updated_at"`
}

// HasInterview reports whether an interview date is set.
func (a *Application) HasInterview() bool {
	return a.Interview != nil && a.Interview.Date != ""
}

// SubmitApplicationRequest holds the form fields of a submission.
type SubmitApplicationRequest struct {
	JobID          string     `form:"job_id" json:"job_id" validate:"required"`
	Name           string     `form:"name" json:"name" validate:"required,min=3,max=30"`
	Email          string     `form:"email" json:"email" validate:"required,email"`
	Phone          string     `form:"phone" json:"phone" validate:"required,phone10"`
	Address        string     `form:"address" json:"address" validate:"required,max=300"`
	CoverLetter    string     `form:"cover_letter" json:"cover_letter" validate:"required,max=5000"`
	DisabilityType Disability `form:"disability_type" json:"disability_type" validate:"required,oneof=None Visual Hearing Mobility Other"`
}

// ResumeUpload is the uploaded resume file.
type ResumeUpload struct {
	Filename string
	Size     int64
	Data     []byte
}

// UpdateApplicationStatusRequest is the employer decision on an application.
// An empty Status with interview date and time schedules an interview.
type UpdateApplicationStatusRequest struct {
	Status            ApplicationStatus `json:"status,omitempty" validate:"omitempty,oneof=pending accepted rejected scheduled"`
	InterviewDate     string            `json:"interview_date,omitempty" validate:"omitempty,date"`
	InterviewTime     string            `json:"interview_time,omitempty" validate:"omitempty,hhmm"`
	InterviewMode     InterviewMode     `json:"interview_mode,omitempty" validate:"omitempty,oneof=Online Offline"`
	InterviewLocation string            `json:"interview_location,omitempty" validate:"omitempty,max=300"`
}

// HasInterview reports whether any interview field is present.
func (r *UpdateApplicationStatusRequest) HasInterview() bool {
	return r.InterviewDate != "" || r.InterviewTime != "" || r.InterviewMode != "" || r.InterviewLocation != ""
}

// InterviewResponseRequest is the applicant answer to a schedule.
type InterviewResponseRequest struct {
	Response InterviewResponse `json:"response" validate:"required,oneof=confirmed declined"`
}
