package service

import (
	"strings"
	"text/template"
	"time"

	"github.com/ncobase/jobboard/internal/structs"
	"github.com/ncobase/jobboard/validation/validator"
)

// messageDateLayout renders interview dates in messages.
const messageDateLayout = "Monday, January 2, 2006"

// noticeData feeds the notification templates.
type noticeData struct {
	JobTitle      string
	Reason        string
	ApplicantName string
	Date          string
	Time          string
	Mode          structs.InterviewMode
	Location      string
	EmployerName  string
	EmployerEmail string
	EmployerPhone string
}

type noticeTemplate struct {
	title   string
	message *template.Template
}

func mustTemplate(name, text string) *template.Template {
	return template.Must(template.New(name).Option("missingkey=zero").Parse(text))
}

var noticeTemplates = map[structs.NotificationType]noticeTemplate{
	structs.NotifyJobApproved: {
		title:   "Job post approved",
		message: mustTemplate("job_approved", `Your job post "{{.JobTitle}}" has been approved and is now publicly visible.`),
	},
	structs.NotifyJobRejected: {
		title:   "Job post rejected",
		message: mustTemplate("job_rejected", `Your job post "{{.JobTitle}}" has been rejected. Reason: {{.Reason}}`),
	},
	structs.NotifyApplicationReceived: {
		title:   "New application received",
		message: mustTemplate("application_received", `{{.ApplicantName}} applied for "{{.JobTitle}}".`),
	},
	structs.NotifyApplicationAccepted: {
		title:   "Application accepted",
		message: mustTemplate("application_accepted", `Congratulations! Your application for "{{.JobTitle}}" has been accepted. The employer will contact you soon.`),
	},
	structs.NotifyApplicationRejected: {
		title:   "Application rejected",
		message: mustTemplate("application_rejected", `Unfortunately your application for "{{.JobTitle}}" was not accepted. Good luck next time!`),
	},
	structs.NotifyInterviewScheduled: {
		title: "Interview scheduled",
		message: mustTemplate("interview_scheduled", `Congratulations! You are invited to an interview for "{{.JobTitle}}".
Time: {{.Date}} at {{.Time}}
Mode: {{.Mode}}
{{if eq .Mode "Online"}}Meeting link: {{.Location}}{{else}}Location: {{or .Location "to be announced"}}{{end}}
Employer: {{.EmployerName}}
Contact email: {{.EmployerEmail}}
{{- if .EmployerPhone}}
Phone: {{.EmployerPhone}}{{end}}

Please prepare well and be on time. Good luck!`),
	},
	structs.NotifyInterviewConfirmed: {
		title:   "Interview confirmed",
		message: mustTemplate("interview_confirmed", `{{.ApplicantName}} confirmed the interview for "{{.JobTitle}}" on {{.Date}} at {{.Time}}.`),
	},
	structs.NotifyInterviewDeclined: {
		title:   "Interview declined",
		message: mustTemplate("interview_declined", `{{.ApplicantName}} declined the interview for "{{.JobTitle}}". Please contact the applicant to reschedule.`),
	},
}

// render fills the template of typ. Unknown types fall back to "other".
func render(typ structs.NotificationType, data noticeData) (string, string) {
	t, ok := noticeTemplates[typ]
	if !ok {
		return "Notification", data.JobTitle
	}
	var b strings.Builder
	if err := t.message.Execute(&b, data); err != nil {
		return t.title, data.JobTitle
	}
	return t.title, b.String()
}

// longDate renders a YYYY-MM-DD date with its weekday, or returns it unchanged.
func longDate(date string) string {
	t, err := time.Parse(validator.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format(messageDateLayout)
}
