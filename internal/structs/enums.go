package structs

// Role is the role of a user account.
type Role string

const (
	RoleJobSeeker Role = "Job Seeker"
	RoleEmployer  Role = "Employer"
	RoleAdmin     Role = "Admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleJobSeeker, RoleEmployer, RoleAdmin:
		return true
	}
	return false
}

// AuthProvider is how a user signs in.
type AuthProvider string

const (
	AuthLocal  AuthProvider = "local"
	AuthGoogle AuthProvider = "google"
)

// WorkMode is where a job is performed.
type WorkMode string

const (
	WorkOnline  WorkMode = "Online"
	WorkOffline WorkMode = "Offline"
	WorkHybrid  WorkMode = "Hybrid"
)

// Disability is a disability category.
type Disability string

const (
	DisabilityNone     Disability = "None"
	DisabilityVisual   Disability = "Visual"
	DisabilityHearing  Disability = "Hearing"
	DisabilityMobility Disability = "Mobility"
	DisabilityOther    Disability = "Other"
)

// JobStatus is the moderation state of a job.
type JobStatus string

const (
	JobPending  JobStatus = "pending"
	JobApproved JobStatus = "approved"
	JobRejected JobStatus = "rejected"
)

// ApplicationStatus is the review state of an application.
type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationAccepted  ApplicationStatus = "accepted"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationScheduled ApplicationStatus = "scheduled"
)

// Valid reports whether s is a known status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationAccepted, ApplicationRejected, ApplicationScheduled:
		return true
	}
	return false
}

// InterviewMode is how an interview takes place.
type InterviewMode string

const (
	InterviewOnline  InterviewMode = "Online"
	InterviewOffline InterviewMode = "Offline"
)

// InterviewResponse is the applicant answer to an interview schedule.
type InterviewResponse string

const (
	InterviewConfirmed InterviewResponse = "confirmed"
	InterviewDeclined  InterviewResponse = "declined"
)

// NotificationType classifies a notification.
type NotificationType string

const (
	NotifyJobApproved         NotificationType = "job_approved"
	NotifyJobRejected         NotificationType = "job_rejected"
	NotifyApplicationReceived NotificationType = "application_received"
	NotifyApplicationAccepted NotificationType = "application_accepted"
	NotifyApplicationRejected NotificationType = "application_rejected"
	NotifyInterviewScheduled  NotificationType = "interview_scheduled"
	NotifyInterviewConfirmed  NotificationType = "interview_confirmed"
	NotifyInterviewDeclined   NotificationType = "interview_declined"
	NotifyOther               NotificationType = "other"
)
