package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ncobase/jobboard/internal/event"
	"github.com/ncobase/jobboard/internal/structs"
	"github.com/ncobase/jobboard/net/resp"
	"github.com/ncobase/jobboard/paging"
)

// ListPendingJobs handles GET /admin/jobs/pending.
func (h *Handler) ListPendingJobs(c *gin.Context) {
	var page paging.Params
	if !bindQuery(c, &page) {
		return
	}
	res, err := h.svc.Job.ListPending(c.Request.Context(), actor(c), page)
	reply(c, res, err)
}

// ApproveJob handles PUT /admin/jobs/:job_id/approve.
func (h *Handler) ApproveJob(c *gin.Context) {
	job, err := h.svc.Job.Approve(c.Request.Context(), actor(c), c.Param("job_id"))
	reply(c, job, err)
}

// ApproveJobs handles PUT /admin/jobs/approve.
func (h *Handler) ApproveJobs(c *gin.Context) {
	var req structs.ApproveJobsRequest
	if !bindJSON(c, &req) {
		return
	}
	n, err := h.svc.Job.ApproveMany(c.Request.Context(), actor(c), &req)
	reply(c, gin.H{"approved": n}, err)
}

// RejectJob handles PUT /admin/jobs/:job_id/reject.
func (h *Handler) RejectJob(c *gin.Context) {
	var req structs.RejectJobRequest
	if !bindJSON(c, &req) {
		return
	}
	job, err := h.svc.Job.Reject(c.Request.Context(), actor(c), c.Param("job_id"), &req)
	reply(c, job, err)
}

// Stats handles GET /admin/stats.
func (h *Handler) Stats(c *gin.Context) {
	st, err := h.svc.Job.Stats(c.Request.Context(), actor(c))
	reply(c, st, err)
}

type eventQuery struct {
	Type   string `form:"type"`
	Status string `form:"status"`
	Limit  int64  `form:"limit"`
}

// Events handles GET /admin/events: recorded notification deliveries and
// the bus counters.
func (h *Handler) Events(c *gin.Context) {
	var q eventQuery
	if !bindQuery(c, &q) {
		return
	}
	events, err := h.svc.Notification.Events(c.Request.Context(), actor(c), event.Filter{
		Type:   event.EventType(q.Type),
		Status: event.Status(q.Status),
		Limit:  q.Limit,
	})
	if err != nil {
		resp.Error(c.Writer, err)
		return
	}
	resp.Success(c.Writer, gin.H{"events": events, "bus": h.svc.Notification.BusStats()})
}
