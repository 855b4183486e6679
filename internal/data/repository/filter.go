package repository

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/ncobase/jobboard/internal/structs"
	"go.mongodb.org/mongo-driver/bson"
)

// JobFilter selects jobs. Zero fields do not filter.
type JobFilter struct {
	IDs      []string
	PostedBy string
	Statuses []structs.JobStatus
	// NotDeleted excludes soft-deleted jobs.
	NotDeleted bool
	// OwnerVisible keeps non-deleted jobs plus rejected ones.
	OwnerVisible bool
	// OpenAt keeps approved, non-deleted, non-expired jobs whose deadline is after it.
	OpenAt time.Time

	Keyword            string
	City               string
	Category           string
	WorkMode           structs.WorkMode
	DisabilityFriendly bool
	Disability         structs.Disability
	SalaryMin          int64
	SalaryMax          int64
}

func containsFold(pattern, s string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(pattern))
}

// bson renders the filter as a MongoDB query.
func (f JobFilter) bson() bson.M {
	and := bson.A{}
	if len(f.IDs) > 0 {
		and = append(and, bson.M{"_id": bson.M{"$in": f.IDs}})
	}
	if f.PostedBy != "" {
		and = append(and, bson.M{"posted_by": f.PostedBy})
	}
	if len(f.Statuses) > 0 {
		and = append(and, bson.M{"status": bson.M{"$in": f.Statuses}})
	}
	if f.NotDeleted {
		and = append(and, bson.M{"is_deleted": false})
	}
	if f.OwnerVisible {
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"is_deleted": false},
			bson.M{"status": structs.JobRejected},
		}})
	}
	if !f.OpenAt.IsZero() {
		and = append(and, bson.M{
			"status":     structs.JobApproved,
			"is_deleted": false,
			"expired":    false,
			"deadline":   bson.M{"$gt": f.OpenAt},
		})
	}
	if f.Keyword != "" {
		re := regexp.QuoteMeta(f.Keyword)
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"title": bson.M{"$regex": re, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": re, "$options": "i"}},
		}})
	}
	if f.City != "" {
		and = append(and, bson.M{"city": bson.M{"$regex": regexp.QuoteMeta(f.City), "$options": "i"}})
	}
	if f.Category != "" {
		and = append(and, bson.M{"category": f.Category})
	}
	if f.WorkMode != "" {
		and = append(and, bson.M{"work_mode": f.WorkMode})
	}
	if f.DisabilityFriendly {
		and = append(and, bson.M{"disability_friendly": true})
	}
	if f.Disability != "" {
		and = append(and, bson.M{"supported_disabilities": f.Disability})
	}
	if s := f.salaryBSON(); s != nil {
		and = append(and, s)
	}
	if len(and) == 0 {
		return bson.M{}
	}
	return bson.M{"$and": and}
}

func (f JobFilter) salaryBSON() bson.M {
	switch {
	case f.SalaryMin > 0 && f.SalaryMax > 0:
		return bson.M{"$or": bson.A{
			bson.M{"fixed_salary": bson.M{"$gte": f.SalaryMin, "$lte": f.SalaryMax}},
			bson.M{"salary_range.from": bson.M{"$gte": f.SalaryMin}, "salary_range.to": bson.M{"$lte": f.SalaryMax}},
		}}
	case f.SalaryMin > 0:
		return bson.M{"$or": bson.A{
			bson.M{"fixed_salary": bson.M{"$gte": f.SalaryMin}},
			bson.M{"salary_range.from": bson.M{"$gte": f.SalaryMin}},
		}}
	case f.SalaryMax > 0:
		return bson.M{"$or": bson.A{
			bson.M{"fixed_salary": bson.M{"$lte": f.SalaryMax}},
			bson.M{"salary_range.to": bson.M{"$lte": f.SalaryMax}},
		}}
	}
	return nil
}

// match evaluates the filter in memory with the same semantics as bson.
func (f JobFilter) match(j *structs.Job) bool {
	if len(f.IDs) > 0 && !slices.Contains(f.IDs, j.ID) {
		return false
	}
	if f.PostedBy != "" && j.PostedBy != f.PostedBy {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, j.Status) {
		return false
	}
	if f.NotDeleted && j.IsDeleted {
		return false
	}
	if f.OwnerVisible && j.IsDeleted && j.Status != structs.JobRejected {
		return false
	}
	if !f.OpenAt.IsZero() && (j.Status != structs.JobApproved || j.IsDeleted || j.Expired || !j.Deadline.After(f.OpenAt)) {
		return false
	}
	if f.Keyword != "" && !containsFold(f.Keyword, j.Title) && !containsFold(f.Keyword, j.Description) {
		return false
	}
	if f.City != "" && !containsFold(f.City, j.City) {
		return false
	}
	if f.Category != "" && j.Category != f.Category {
		return false
	}
	if f.WorkMode != "" && j.WorkMode != f.WorkMode {
		return false
	}
	if f.DisabilityFriendly && !j.DisabilityFriendly {
		return false
	}
	if f.Disability != "" && !slices.Contains(j.SupportedDisabilities, f.Disability) {
		return false
	}
	return f.matchSalary(j)
}

func (f JobFilter) matchSalary(j *structs.Job) bool {
	if f.SalaryMin <= 0 && f.SalaryMax <= 0 {
		return true
	}
	if j.FixedSalary != nil {
		v := *j.FixedSalary
		if (f.SalaryMin <= 0 || v >= f.SalaryMin) && (f.SalaryMax <= 0 || v <= f.SalaryMax) {
			return true
		}
	}
	if r := j.SalaryRange; r != nil {
		if (f.SalaryMin <= 0 || r.From >= f.SalaryMin) && (f.SalaryMax <= 0 || r.To <= f.SalaryMax) {
			return true
		}
	}
	return false
}

// ApplicationFilter selects applications. Zero fields do not filter.
type ApplicationFilter struct {
	ApplicantID string
	EmployerID  string
	JobID       string
	Statuses    []structs.ApplicationStatus
	// WithInterview keeps applications with an interview date and sorts them
	// by interview date and time ascending.
	WithInterview bool
}

func (f ApplicationFilter) bson() bson.M {
	q := bson.M{}
	if f.ApplicantID != "" {
		q["applicant_id"] = f.ApplicantID
	}
	if f.EmployerID != "" {
		q["employer_id"] = f.EmployerID
	}
	if f.JobID != "" {
		q["job_id"] = f.JobID
	}
	if len(f.Statuses) > 0 {
		q["status"] = bson.M{"$in": f.Statuses}
	}
	if f.WithInterview {
		q["interview.date"] = bson.M{"$exists": true, "$ne": ""}
	}
	return q
}

func (f ApplicationFilter) sort() bson.D {
	if f.WithInterview {
		return bson.D{{Key: "interview.date", Value: 1}, {Key: "interview.time", Value: 1}}
	}
	return bson.D{{Key: "created_at", Value: -1}}
}

func (f ApplicationFilter) match(a *structs.Application) bool {
	if f.ApplicantID != "" && a.ApplicantID != f.ApplicantID {
		return false
	}
	if f.EmployerID != "" && a.EmployerID != f.EmployerID {
		return false
	}
	if f.JobID != "" && a.JobID != f.JobID {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, a.Status) {
		return false
	}
	if f.WithInterview && !a.HasInterview() {
		return false
	}
	return true
}

// less orders applications the way sort does.
func (f ApplicationFilter) less(a, b *structs.Application) int {
	if f.WithInterview {
		if c := strings.Compare(a.Interview.Date, b.Interview.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Interview.Time, b.Interview.Time)
	}
	return b.CreatedAt.Compare(a.CreatedAt)
}
