package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ncobase/jobboard/internal/structs"
	"github.com/ncobase/jobboard/paging"
)

// The memory repositories back the "memory" data driver and the tests.
// Reads and writes go through copies so callers never share state with the store.

func cloneJob(j *structs.Job) *structs.Job {
	c := *j
	if j.WorkTime != nil {
		wt := *j.WorkTime
		c.WorkTime = &wt
	}
	if j.FixedSalary != nil {
		v := *j.FixedSalary
		c.FixedSalary = &v
	}
	if j.SalaryRange != nil {
		r := *j.SalaryRange
		c.SalaryRange = &r
	}
	if j.ApprovedAt != nil {
		t := *j.ApprovedAt
		c.ApprovedAt = &t
	}
	if j.DeletedAt != nil {
		t := *j.DeletedAt
		c.DeletedAt = &t
	}
	c.SupportedDisabilities = slices.Clone(j.SupportedDisabilities)
	return &c
}

func cloneApplication(a *structs.Application) *structs.Application {
	c := *a
	if a.Interview != nil {
		iv := *a.Interview
		c.Interview = &iv
	}
	return &c
}

func cloneNotification(n *structs.Notification) *structs.Notification {
	c := *n
	if n.InterviewDetails != nil {
		d := *n.InterviewDetails
		c.InterviewDetails = &d
	}
	return &c
}

func cloneUser(u *structs.User) *structs.User {
	c := *u
	if u.CompanyInfo != nil {
		ci := *u.CompanyInfo
		c.CompanyInfo = &ci
	}
	return &c
}

// MemoryJobRepository is an in-memory JobRepository.
type MemoryJobRepository struct {
	mu   sync.RWMutex
	jobs map[string]*structs.Job
}

// NewMemoryJobRepository creates an empty MemoryJobRepository.
func NewMemoryJobRepository() *MemoryJobRepository {
	return &MemoryJobRepository{jobs: make(map[string]*structs.Job)}
}

func (r *MemoryJobRepository) Create(_ context.Context, job *structs.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[job.ID]; ok {
		return ErrDuplicate
	}
	r.jobs[job.ID] = cloneJob(job)
	return nil
}

func (r *MemoryJobRepository) FindByID(_ context.Context, id string) (*structs.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneJob(j), nil
}

func (r *MemoryJobRepository) Update(_ context.Context, job *structs.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[job.ID]; !ok {
		return ErrNotFound
	}
	r.jobs[job.ID] = cloneJob(job)
	return nil
}

func (r *MemoryJobRepository) ApproveMany(_ context.Context, ids []string, adminID string, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		j, ok := r.jobs[id]
		if !ok || j.IsDeleted || j.Status != structs.JobPending {
			continue
		}
		at := now
		j.Status = structs.JobApproved
		j.ApprovedBy = adminID
		j.ApprovedAt = &at
		j.Expired = false
		j.UpdatedAt = now
		n++
	}
	return n, nil
}

func (r *MemoryJobRepository) MarkExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, j := range r.jobs {
		if !j.Expired && j.PastDeadline(now) {
			j.Expired = true
			j.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

func (r *MemoryJobRepository) List(_ context.Context, filter JobFilter, page paging.Params) ([]*structs.Job, int64, error) {
	page = page.Normalize()
	r.mu.RLock()
	matched := make([]*structs.Job, 0)
	for _, j := range r.jobs {
		if filter.match(j) {
			matched = append(matched, cloneJob(j))
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(matched, func(a, b *structs.Job) int {
		if c := b.PostedOn.Compare(a.PostedOn); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	total := int64(len(matched))
	start := min(int(page.Skip()), len(matched))
	end := min(start+page.Limit, len(matched))
	return matched[start:end], total, nil
}

func (r *MemoryJobRepository) Count(_ context.Context, filter JobFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, j := range r.jobs {
		if filter.match(j) {
			n++
		}
	}
	return n, nil
}

// MemoryApplicationRepository is an in-memory ApplicationRepository.
type MemoryApplicationRepository struct {
	mu   sync.RWMutex
	apps map[string]*structs.Application
}

// NewMemoryApplicationRepository creates an empty MemoryApplicationRepository.
func NewMemoryApplicationRepository() *MemoryApplicationRepository {
	return &MemoryApplicationRepository{apps: make(map[string]*structs.Application)}
}

func (r *MemoryApplicationRepository) Create(_ context.Context, app *structs.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.apps[app.ID]; ok {
		return ErrDuplicate
	}
	for _, a := range r.apps {
		if a.ApplicantID == app.ApplicantID && a.JobID == app.JobID {
			return ErrDuplicate
		}
	}
	r.apps[app.ID] = cloneApplication(app)
	return nil
}

func (r *MemoryApplicationRepository) FindByID(_ context.Context, id string) (*structs.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.apps[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneApplication(a), nil
}

func (r *MemoryApplicationRepository) Exists(_ context.Context, applicantID, jobID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.apps {
		if a.ApplicantID == applicantID && a.JobID == jobID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryApplicationRepository) Update(_ context.Context, app *structs.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.apps[app.ID]; !ok {
		return ErrNotFound
	}
	r.apps[app.ID] = cloneApplication(app)
	return nil
}

func (r *MemoryApplicationRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.apps[id]; !ok {
		return ErrNotFound
	}
	delete(r.apps, id)
	return nil
}

func (r *MemoryApplicationRepository) List(_ context.Context, filter ApplicationFilter) ([]*structs.Application, error) {
	r.mu.RLock()
	out := make([]*structs.Application, 0)
	for _, a := range r.apps {
		if filter.match(a) {
			out = append(out, cloneApplication(a))
		}
	}
	r.mu.RUnlock()
	slices.SortFunc(out, filter.less)
	return out, nil
}

func (r *MemoryApplicationRepository) Count(_ context.Context, filter ApplicationFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, a := range r.apps {
		if filter.match(a) {
			n++
		}
	}
	return n, nil
}

// MemoryNotificationRepository is an in-memory NotificationRepository.
type MemoryNotificationRepository struct {
	mu    sync.RWMutex
	items map[string]*structs.Notification
}

// NewMemoryNotificationRepository creates an empty MemoryNotificationRepository.
func NewMemoryNotificationRepository() *MemoryNotificationRepository {
	return &MemoryNotificationRepository{items: make(map[string]*structs.Notification)}
}

func (r *MemoryNotificationRepository) Create(_ context.Context, n *structs.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[n.ID]; ok {
		return ErrDuplicate
	}
	r.items[n.ID] = cloneNotification(n)
	return nil
}

func (r *MemoryNotificationRepository) FindByID(_ context.Context, id string) (*structs.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneNotification(n), nil
}

func (r *MemoryNotificationRepository) ListByUser(_ context.Context, userID string, limit int64) ([]*structs.Notification, error) {
	r.mu.RLock()
	out := make([]*structs.Notification, 0)
	for _, n := range r.items {
		if n.UserID == userID {
			out = append(out, cloneNotification(n))
		}
	}
	r.mu.RUnlock()
	slices.SortFunc(out, func(a, b *structs.Notification) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryNotificationRepository) CountUnread(_ context.Context, userID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var c int64
	for _, n := range r.items {
		if n.UserID == userID && !n.IsRead {
			c++
		}
	}
	return c, nil
}

func (r *MemoryNotificationRepository) MarkRead(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	n.IsRead = true
	return nil
}

func (r *MemoryNotificationRepository) MarkAllRead(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var c int64
	for _, n := range r.items {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			c++
		}
	}
	return c, nil
}

func (r *MemoryNotificationRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *MemoryNotificationRepository) AttachInterviewResponse(_ context.Context, userID, jobID string, resp structs.InterviewResponse) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var c int64
	for _, n := range r.items {
		if n.UserID == userID && n.JobID == jobID && n.Type == structs.NotifyInterviewScheduled {
			n.InterviewResponse = resp
			c++
		}
	}
	return c, nil
}

// MemoryUserRepository is an in-memory UserRepository.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*structs.User
}

// NewMemoryUserRepository creates an empty MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*structs.User)}
}

func (r *MemoryUserRepository) emailTaken(email, exceptID string) bool {
	for _, u := range r.users {
		if u.ID != exceptID && u.Email == email {
			return true
		}
	}
	return false
}

func (r *MemoryUserRepository) Create(_ context.Context, user *structs.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.Email = strings.ToLower(user.Email)
	if _, ok := r.users[user.ID]; ok || r.emailTaken(user.Email, "") {
		return ErrDuplicate
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*structs.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*structs.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	email = strings.ToLower(email)
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) Update(_ context.Context, user *structs.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return ErrNotFound
	}
	user.Email = strings.ToLower(user.Email)
	if r.emailTaken(user.Email, user.ID) {
		return ErrDuplicate
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *MemoryUserRepository) CountByRole(_ context.Context) (map[structs.Role]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[structs.Role]int64)
	for _, u := range r.users {
		out[u.Role]++
	}
	return out, nil
}
