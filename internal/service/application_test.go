package service

import (
	"context"
	"strings"
	"testing"

	"github.com/ncobase/jobboard/ecode"
	"github.com/ncobase/jobboard/internal/data/repository"
	"github.com/ncobase/jobboard/internal/structs"
)

// blindApplications hides existing applications from the pre-check, as when
// two submissions race.
type blindApplications struct {
	repository.ApplicationRepository
}

func (blindApplications) Exists(context.Context, string, string) (bool, error) { return false, nil }

func TestSubmitApplication(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.approvedJob(t, nil)

	app := f.apply(t, seeker, job.ID)
	if app.Status != structs.ApplicationPending || app.EmployerID != employer.ID || app.ApplicantID != seeker.ID {
		t.Errorf("application = %+v", app)
	}
	if app.Resume.ContentType != "application/pdf" || !strings.HasPrefix(app.Resume.URL, "/files/CV/") {
		t.Errorf("resume = %+v", app.Resume)
	}
	if app.JobInfo.Title != job.Title || app.JobInfo.Salary != "50000" {
		t.Errorf("job snapshot = %+v", app.JobInfo)
	}

	_, err := f.svc.Application.Submit(ctx, seeker, applicationRequest(job.ID), resume())
	wantCode(t, err, ecode.Conflict)
	if n := f.resumeFiles(t); n != 1 {
		t.Errorf("stored resumes = %d, want 1", n)
	}

	f.drain(t)
	got := ofType(f.inbox(t, employer.ID), structs.NotifyApplicationReceived)
	if len(got) != 1 {
		t.Fatalf("application_received notifications = %d, want 1", len(got))
	}
	if got[0].JobID != job.ID || got[0].Message != `Lan Nguyen applied for "Backend engineer".` {
		t.Errorf("notification = %+v", got[0])
	}
	if n := len(f.inbox(t, seeker.ID)); n != 0 {
		t.Errorf("applicant has %d notifications, want 0", n)
	}
}

func TestSubmitApplicationRace(t *testing.T) {
	f := newFixture(t)
	job := f.approvedJob(t, nil)
	f.apply(t, seeker, job.ID)

	f.data.Applications = blindApplications{f.data.Applications}
	_, err := f.svc.Application.Submit(context.Background(), seeker, applicationRequest(job.ID), resume())
	wantCode(t, err, ecode.Conflict)
	if n := f.resumeFiles(t); n != 1 {
		t.Errorf("stored resumes = %d, want 1 after rollback", n)
	}
}

func TestSubmitApplicationRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.approvedJob(t, nil)
	pending, _ := f.svc.Job.Submit(ctx, employer, jobRequest())

	big := resume()
	big.Size = 6 << 20
	text := &structs.ResumeUpload{Filename: "cv.txt", Data: []byte("plain text resume"), Size: 17}

	tests := []struct {
		name  string
		actor Actor
		jobID string
		file  *structs.ResumeUpload
		code  int
	}{
		{"employer", employer, job.ID, resume(), ecode.AccessDenied},
		{"anonymous", Actor{}, job.ID, resume(), ecode.Unauthorized},
		{"missing resume", seeker, job.ID, nil, ecode.RequestErr},
		{"too large", seeker, job.ID, big, ecode.RequestErr},
		{"wrong type", seeker, job.ID, text, ecode.RequestErr},
		{"unknown job", seeker, "000000000000000000000fff", resume(), ecode.NothingFound},
		{"pending job", seeker, pending.ID, resume(), ecode.RequestErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Application.Submit(ctx, tt.actor, applicationRequest(tt.jobID), tt.file)
			wantCode(t, err, tt.code)
		})
	}
	if n := f.resumeFiles(t); n != 0 {
		t.Errorf("stored resumes = %d, want 0", n)
	}

	if err := f.svc.Job.Delete(ctx, employer, job.ID); err != nil {
		t.Fatal(err)
	}
	_, err := f.svc.Application.Submit(ctx, seeker, applicationRequest(job.ID), resume())
	wantCode(t, err, ecode.NothingFound)
}

func TestScheduleInterview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.approvedJob(t, nil)
	app := f.apply(t, seeker, job.ID)

	got, err := f.svc.Application.UpdateStatus(ctx, employer, app.ID, &structs.UpdateApplicationStatusRequest{
		InterviewDate: "2026-03-20",
		InterviewTime: "10:30",
	})
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if got.Status != structs.ApplicationScheduled {
		t.Errorf("status = %q, want scheduled", got.Status)
	}
	iv := got.Interview
	if iv == nil || iv.Mode != structs.InterviewOnline || iv.Location != "" || iv.Date != "2026-03-20" || iv.Time != "10:30" {
		t.Fatalf("interview = %+v", iv)
	}

	f.drain(t)
	notes := ofType(f.inbox(t, seeker.ID), structs.NotifyInterviewScheduled)
	if len(notes) != 1 {
		t.Fatalf("interview_scheduled notifications = %d, want 1", len(notes))
	}
	d := notes[0].InterviewDetails
	if d == nil || d.EmployerName != "Acme Hiring" || d.EmployerEmail != "hr@acme.example" || d.EmployerPhone != "0912345678" {
		t.Fatalf("interview details = %+v", d)
	}
	if d.JobTitle != job.Title || d.Mode != structs.InterviewOnline {
		t.Errorf("interview details = %+v", d)
	}
	for _, want := range []string{"Friday, March 20, 2026 at 10:30", "Mode: Online", "Meeting link:", "Phone: 0912345678"} {
		if !strings.Contains(notes[0].Message, want) {
			t.Errorf("message missing %q:\n%s", want, notes[0].Message)
		}
	}
}

func TestScheduleOfflineInterviewFallsBackToJobLocation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.approvedJob(t, nil)
	app := f.apply(t, seeker, job.ID)

	got, err := f.svc.Application.UpdateStatus(ctx, employer, app.ID, &structs.UpdateApplicationStatusRequest{
		Status:        structs.ApplicationAccepted,
		InterviewDate: "2026-03-20",
		InterviewTime: "14:00",
		InterviewMode: structs.InterviewOffline,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != structs.ApplicationScheduled || got.Interview.Location != "" {
		t.Errorf("application = %+v", got)
	}

	f.drain(t)
	notes := ofType(f.inbox(t, seeker.ID), structs.NotifyInterviewScheduled)
	if len(notes) != 1 || notes[0].InterviewDetails.Location != job.Location {
		t.Fatalf("notifications = %+v", notes)
	}
	if n := len(ofType(f.inbox(t, seeker.ID), structs.NotifyApplicationAccepted)); n != 0 {
		t.Errorf("application_accepted notifications = %d, want 0", n)
	}
}

func TestUpdateApplicationStatus(t *testing.T) {
	tests := []struct {
		name   string
		req    structs.UpdateApplicationStatusRequest
		code   int
		status structs.ApplicationStatus
		notify structs.NotificationType
	}{
		{"accept", structs.UpdateApplicationStatusRequest{Status: structs.ApplicationAccepted}, ecode.OK, structs.ApplicationAccepted, structs.NotifyApplicationAccepted},
		{"reject", structs.UpdateApplicationStatusRequest{Status: structs.ApplicationRejected}, ecode.OK, structs.ApplicationRejected, structs.NotifyApplicationRejected},
		{"pending", structs.UpdateApplicationStatusRequest{Status: structs.ApplicationPending}, ecode.OK, structs.ApplicationPending, ""},
		{"unknown status", structs.UpdateApplicationStatusRequest{Status: "hired"}, ecode.RequestErr, structs.ApplicationPending, ""},
		{"empty", structs.UpdateApplicationStatusRequest{}, ecode.RequestErr, structs.ApplicationPending, ""},
		{"date without time", structs.UpdateApplicationStatusRequest{InterviewDate: "2026-03-20"}, ecode.RequestErr, structs.ApplicationPending, ""},
		{"scheduled without date", structs.UpdateApplicationStatusRequest{Status: structs.ApplicationScheduled}, ecode.RequestErr, structs.ApplicationPending, ""},
		{"rejected with interview", structs.UpdateApplicationStatusRequest{
			Status: structs.ApplicationRejected, InterviewDate: "2026-03-20", InterviewTime: "09:00",
		}, ecode.RequestErr, structs.ApplicationPending, ""},
		{"bad time", structs.UpdateApplicationStatusRequest{InterviewDate: "2026-03-20", InterviewTime: "25:00"}, ecode.RequestErr, structs.ApplicationPending, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			job := f.approvedJob(t, nil)
			app := f.apply(t, seeker, job.ID)

			_, err := f.svc.Application.UpdateStatus(ctx, employer, app.ID, &tt.req)
			wantCode(t, err, tt.code)
			stored, _ := f.data.Applications.FindByID(ctx, app.ID)
			if stored.Status != tt.status {
				t.Errorf("status = %q, want %q", stored.Status, tt.status)
			}

			f.drain(t)
			items := f.inbox(t, seeker.ID)
			if tt.notify == "" {
				if len(items) != 0 {
					t.Errorf("applicant notifications = %d, want 0", len(items))
				}
				return
			}
			if len(items) != 1 || items[0].Type != tt.notify {
				t.Errorf("applicant notifications = %+v, want one %s", items, tt.notify)
			}
		})
	}
}

func TestApplicationOwnershipEnforcement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.approvedJob(t, nil)
	app := f.apply(t, seeker, job.ID)

	_, err := f.svc.Application.UpdateStatus(ctx, rival, app.ID, &structs.UpdateApplicationStatusRequest{Status: structs.ApplicationAccepted})
	wantCode(t, err, ecode.AccessDenied)
	_, err = f.svc.Application.UpdateStatus(ctx, seeker, app.ID, &structs.UpdateApplicationStatusRequest{Status: structs.ApplicationAccepted})
	wantCode(t, err, ecode.AccessDenied)
	wantCode(t, f.svc.Application.Delete(ctx, other, app.ID), ecode.AccessDenied)
	_, err = f.svc.Application.RespondInterview(ctx, other, app.ID, &structs.InterviewResponseRequest{Response: structs.InterviewConfirmed})
	wantCode(t, err, ecode.AccessDenied)

	stored, err := f.data.Applications.FindByID(ctx, app.ID)
	if err != nil {
		t.Fatalf("application removed by non-owner: %v", err)
	}
	if stored.Status != structs.ApplicationPending || stored.InterviewResponse != "" {
		t.Errorf("application mutated by non-owner: %+v", stored)
	}
	if n := f.resumeFiles(t); n != 1 {
		t.Errorf("stored resumes = %d, want 1", n)
	}
}

func TestRespondInterview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.approvedJob(t, nil)
	app := f.apply(t, seeker, job.ID)

	_, err := f.svc.Application.RespondInterview(ctx, seeker, app.ID, &structs.InterviewResponseRequest{Response: structs.InterviewConfirmed})
	wantCode(t, err, ecode.RequestErr)

	if _, err := f.svc.Application.UpdateStatus(ctx, employer, app.ID, &structs.UpdateApplicationStatusRequest{
		InterviewDate: "2026-03-20",
		InterviewTime: "10:30",
	}); err != nil {
		t.Fatal(err)
	}
	// let the interview notice land before the response is attached
	waitFor(t, func() bool { return len(f.inbox(t, seeker.ID)) == 1 })

	_, err = f.svc.Application.RespondInterview(ctx, seeker, app.ID, &structs.InterviewResponseRequest{Response: "maybe"})
	wantCode(t, err, ecode.RequestErr)

	got, err := f.svc.Application.RespondInterview(ctx, seeker, app.ID, &structs.InterviewResponseRequest{Response: structs.InterviewDeclined})
	if err != nil {
		t.Fatal(err)
	}
	if got.InterviewResponse != structs.InterviewDeclined || got.Status != structs.ApplicationScheduled {
		t.Errorf("application = %+v", got)
	}

	f.drain(t)
	declined := ofType(f.inbox(t, employer.ID), structs.NotifyInterviewDeclined)
	if len(declined) != 1 || !strings.Contains(declined[0].Message, "Lan Nguyen declined") {
		t.Fatalf("interview_declined notifications = %+v", declined)
	}
	scheduled := ofType(f.inbox(t, seeker.ID), structs.NotifyInterviewScheduled)
	if len(scheduled) != 1 || scheduled[0].InterviewResponse != structs.InterviewDeclined {
		t.Errorf("interview notice = %+v", scheduled)
	}
}

func TestRespondInterviewAfterRejection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.approvedJob(t, nil)
	app := f.apply(t, seeker, job.ID)

	if _, err := f.svc.Application.UpdateStatus(ctx, employer, app.ID, &structs.UpdateApplicationStatusRequest{
		InterviewDate: "2026-03-20",
		InterviewTime: "10:30",
	}); err != nil {
		t.Fatal(err)
	}
	rejected, err := f.svc.Application.UpdateStatus(ctx, employer, app.ID, &structs.UpdateApplicationStatusRequest{
		Status: structs.ApplicationRejected,
	})
	if err != nil {
		t.Fatal(err)
	}
	if rejected.HasInterview() {
		t.Errorf("rejected application kept interview %+v", rejected.Interview)
	}

	_, err = f.svc.Application.RespondInterview(ctx, seeker, app.ID, &structs.InterviewResponseRequest{Response: structs.InterviewConfirmed})
	wantCode(t, err, ecode.RequestErr)

	f.drain(t)
	if got := ofType(f.inbox(t, employer.ID), structs.NotifyInterviewConfirmed); len(got) != 0 {
		t.Errorf("interview_confirmed notifications = %d, want 0", len(got))
	}
}

func TestDeleteApplication(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.approvedJob(t, nil)
	app := f.apply(t, seeker, job.ID)

	if err := f.svc.Application.Delete(ctx, seeker, app.ID); err != nil {
		t.Fatal(err)
	}
	if n := f.resumeFiles(t); n != 0 {
		t.Errorf("stored resumes = %d, want 0", n)
	}
	wantCode(t, f.svc.Application.Delete(ctx, seeker, app.ID), ecode.NothingFound)

	// the pair is free again
	f.apply(t, seeker, job.ID)
}

func TestInterviewListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.approvedJob(t, nil)
	b := f.approvedJob(t, func(r *structs.CreateJobRequest) { r.Title = "Data analyst" })
	first := f.apply(t, seeker, a.ID)
	second := f.apply(t, seeker, b.ID)
	f.apply(t, other, a.ID)

	for _, c := range []struct {
		id, date string
	}{{first.ID, "2026-03-25"}, {second.ID, "2026-03-18"}} {
		if _, err := f.svc.Application.UpdateStatus(ctx, employer, c.id, &structs.UpdateApplicationStatusRequest{
			InterviewDate: c.date, InterviewTime: "09:00",
		}); err != nil {
			t.Fatal(err)
		}
	}

	mine, err := f.svc.Application.ApplicantInterviews(ctx, seeker)
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 2 || mine[0].ID != second.ID || mine[1].ID != first.ID {
		t.Errorf("applicant interviews = %v", ids(mine))
	}
	received, _ := f.svc.Application.ListForEmployer(ctx, employer)
	if len(received) != 3 {
		t.Errorf("employer applications = %d, want 3", len(received))
	}
	scheduled, _ := f.svc.Application.EmployerInterviews(ctx, employer)
	if len(scheduled) != 2 {
		t.Errorf("employer interviews = %d, want 2", len(scheduled))
	}
	_, err = f.svc.Application.ListForEmployer(ctx, seeker)
	wantCode(t, err, ecode.AccessDenied)
	theirs, _ := f.svc.Application.ListForApplicant(ctx, other)
	if len(theirs) != 1 {
		t.Errorf("other applications = %d, want 1", len(theirs))
	}
}

func TestResumeUploadFailure(t *testing.T) {
	f := newFixture(t)
	job := f.approvedJob(t, nil)
	f.svc.Application.storage = failingStorage{}

	_, err := f.svc.Application.Submit(context.Background(), seeker, applicationRequest(job.ID), resume())
	wantCode(t, err, ecode.DependencyErr)
	if exists, _ := f.data.Applications.Exists(context.Background(), seeker.ID, job.ID); exists {
		t.Error("application stored without resume")
	}
}

func ids(apps []*structs.Application) []string {
	out := make([]string, len(apps))
	for i, a := range apps {
		out[i] = a.ID
	}
	return out
}
