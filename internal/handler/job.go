package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ncobase/jobboard/internal/structs"
	"github.com/ncobase/jobboard/net/resp"
	"github.com/ncobase/jobboard/paging"
)

// ListJobs handles GET /jobs.
func (h *Handler) ListJobs(c *gin.Context) {
	var page paging.Params
	if !bindQuery(c, &page) {
		return
	}
	res, err := h.svc.Job.ListPublic(c.Request.Context(), page)
	reply(c, res, err)
}

// SearchJobs handles GET /jobs/search.
func (h *Handler) SearchJobs(c *gin.Context) {
	var params structs.JobSearchParams
	if !bindQuery(c, &params) {
		return
	}
	res, err := h.svc.Job.Search(c.Request.Context(), &params)
	reply(c, res, err)
}

// SubmitJob handles POST /jobs.
func (h *Handler) SubmitJob(c *gin.Context) {
	var req structs.CreateJobRequest
	if !bindJSON(c, &req) {
		return
	}
	job, err := h.svc.Job.Submit(c.Request.Context(), actor(c), &req)
	created(c, job, err)
}

// ListMyJobs handles GET /jobs/mine.
func (h *Handler) ListMyJobs(c *gin.Context) {
	var page paging.Params
	if !bindQuery(c, &page) {
		return
	}
	res, err := h.svc.Job.ListMine(c.Request.Context(), actor(c), page)
	reply(c, res, err)
}

// GetJob handles GET /jobs/:job_id.
func (h *Handler) GetJob(c *gin.Context) {
	job, err := h.svc.Job.Get(c.Request.Context(), actor(c), c.Param("job_id"))
	reply(c, job, err)
}

// UpdateJob handles PUT /jobs/:job_id.
func (h *Handler) UpdateJob(c *gin.Context) {
	var req structs.UpdateJobRequest
	if !bindJSON(c, &req) {
		return
	}
	job, err := h.svc.Job.Update(c.Request.Context(), actor(c), c.Param("job_id"), &req)
	reply(c, job, err)
}

// ExtendDeadline handles PUT /jobs/:job_id/deadline.
func (h *Handler) ExtendDeadline(c *gin.Context) {
	var req structs.ExtendDeadlineRequest
	if !bindJSON(c, &req) {
		return
	}
	job, err := h.svc.Job.ExtendDeadline(c.Request.Context(), actor(c), c.Param("job_id"), &req)
	reply(c, job, err)
}

// DeleteJob handles DELETE /jobs/:job_id.
func (h *Handler) DeleteJob(c *gin.Context) {
	if err := h.svc.Job.Delete(c.Request.Context(), actor(c), c.Param("job_id")); err != nil {
		resp.Error(c.Writer, err)
		return
	}
	resp.Success(c.Writer, "job deleted")
}
