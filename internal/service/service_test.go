package service

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ncobase/jobboard/ecode"
	"github.com/ncobase/jobboard/internal/data"
	"github.com/ncobase/jobboard/internal/event"
	"github.com/ncobase/jobboard/internal/structs"
	"github.com/ncobase/jobboard/logging/logger"
	"github.com/ncobase/jobboard/oss"
	"github.com/ncobase/jobboard/security/jwt"
	"golang.org/x/crypto/bcrypt"
)

var (
	admin    = Actor{ID: "000000000000000000000001", Role: structs.RoleAdmin}
	employer = Actor{ID: "000000000000000000000002", Role: structs.RoleEmployer}
	rival    = Actor{ID: "000000000000000000000003", Role: structs.RoleEmployer}
	seeker   = Actor{ID: "000000000000000000000004", Role: structs.RoleJobSeeker}
	other    = Actor{ID: "000000000000000000000005", Role: structs.RoleJobSeeker}
)

var pdf = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

type fixture struct {
	svc  *Service
	data *data.Data
	bus  *event.Bus
	dir  string

	mu    sync.Mutex
	clock time.Time
}

func (f *fixture) now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clock
}

func (f *fixture) setClock(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clock = t
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.NewWithWriter(io.Discard)
	f := &fixture{
		data:  data.NewMemory(log),
		dir:   t.TempDir(),
		clock: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	storage, err := oss.NewFileSystem(f.dir, "/files")
	if err != nil {
		t.Fatal(err)
	}
	f.bus = event.NewBus(event.Options{Workers: 2}, log, f.data.Events)
	f.svc = New(Deps{
		Data:    f.data,
		Bus:     f.bus,
		Storage: storage,
		Tokens:  jwt.NewTokenManager("test-secret", time.Hour),
		Logger:  log,
		Now:     f.now,
	})
	f.svc.User.cost = bcrypt.MinCost
	f.bus.Start()
	t.Cleanup(func() { _ = f.bus.Shutdown(context.Background()) })

	for _, u := range []*structs.User{
		{ID: admin.ID, Name: "Admin", Email: "admin@example.com", Role: structs.RoleAdmin},
		{ID: employer.ID, Name: "Acme Hiring", Email: "hr@acme.example", Phone: "0912345678", Role: structs.RoleEmployer},
		{ID: rival.ID, Name: "Rival Corp", Email: "hr@rival.example", Role: structs.RoleEmployer},
		{ID: seeker.ID, Name: "Lan Nguyen", Email: "lan@example.com", Phone: "0987654321", Role: structs.RoleJobSeeker},
		{ID: other.ID, Name: "Minh Tran", Email: "minh@example.com", Role: structs.RoleJobSeeker},
	} {
		if err := f.data.Users.Create(context.Background(), u); err != nil {
			t.Fatal(err)
		}
	}
	return f
}

// drain waits until every dispatched notification is handled. The bus is
// closed afterwards.
func (f *fixture) drain(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := f.bus.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
}

func (f *fixture) inbox(t *testing.T, userID string) []*structs.Notification {
	t.Helper()
	items, err := f.data.Notifications.ListByUser(context.Background(), userID, 100)
	if err != nil {
		t.Fatal(err)
	}
	return items
}

func ofType(items []*structs.Notification, typ structs.NotificationType) []*structs.Notification {
	var out []*structs.Notification
	for _, n := range items {
		if n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}

func (f *fixture) resumeFiles(t *testing.T) int {
	t.Helper()
	n := 0
	_ = filepath.WalkDir(f.dir, func(_ string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			n++
		}
		return nil
	})
	return n
}

func fixed(v int64) *int64 { return &v }

func jobRequest() *structs.CreateJobRequest {
	return &structs.CreateJobRequest{
		Title:        "Backend engineer",
		Description:  "Design, build and operate the services that power the board.",
		Category:     "Engineering",
		City:         "Da Nang",
		Location:     "12 Bach Dang street, Da Nang",
		WorkMode:     structs.WorkHybrid,
		FlexibleTime: true,
		FixedSalary:  fixed(50000),
		Deadline:     "2026-04-10",
	}
}

func (f *fixture) approvedJob(t *testing.T, mutate func(*structs.CreateJobRequest)) *structs.Job {
	t.Helper()
	req := jobRequest()
	if mutate != nil {
		mutate(req)
	}
	ctx := context.Background()
	job, err := f.svc.Job.Submit(ctx, employer, req)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if job, err = f.svc.Job.Approve(ctx, admin, job.ID); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	return job
}

func applicationRequest(jobID string) *structs.SubmitApplicationRequest {
	return &structs.SubmitApplicationRequest{
		JobID:          jobID,
		Name:           "Lan Nguyen",
		Email:          "lan@example.com",
		Phone:          "0987654321",
		Address:        "3 Tran Phu, Hue",
		CoverLetter:    "I have built payment services for five years.",
		DisabilityType: structs.DisabilityNone,
	}
}

func resume() *structs.ResumeUpload {
	return &structs.ResumeUpload{Filename: "Lan CV.pdf", Size: int64(len(pdf)), Data: pdf}
}

func (f *fixture) apply(t *testing.T, actor Actor, jobID string) *structs.Application {
	t.Helper()
	app, err := f.svc.Application.Submit(context.Background(), actor, applicationRequest(jobID), resume())
	if err != nil {
		t.Fatalf("Application.Submit() error = %v", err)
	}
	return app
}

// failingStorage rejects every upload.
type failingStorage struct {
	oss.Interface
}

func (failingStorage) Put(context.Context, string, io.Reader, int64, string) (*oss.Object, error) {
	return nil, errors.New("bucket unavailable")
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func wantCode(t *testing.T, err error, code int) {
	t.Helper()
	if got := ecode.CodeOf(err); got != code {
		t.Fatalf("error = %v (code %d), want code %d", err, got, code)
	}
}
