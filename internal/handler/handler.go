// Package handler exposes the job board services over HTTP with gin.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/jobboard/internal/middleware"
	"github.com/ncobase/jobboard/internal/service"
	"github.com/ncobase/jobboard/internal/structs"
	"github.com/ncobase/jobboard/logging/logger"
	"github.com/ncobase/jobboard/net/cookie"
	"github.com/ncobase/jobboard/net/resp"
)

// Handler serves the /api/v1 endpoints.
type Handler struct {
	svc     *service.Service
	cookie  cookie.Options
	maxBody int64
	logger  *logger.Logger
}

// Options configures a Handler.
type Options struct {
	Cookie cookie.Options
	// MaxUpload bounds the resume file. The multipart body may exceed it by
	// the size of the form fields.
	MaxUpload int64
}

// New creates a new handler.
func New(svc *service.Service, opts Options, log *logger.Logger) *Handler {
	return &Handler{
		svc:     svc,
		cookie:  opts.Cookie,
		maxBody: opts.MaxUpload + 1<<20,
		logger:  log,
	}
}

// RegisterRoutes mounts the API on r. auth authenticates the request.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	users := r.Group("/users")
	{
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)
		users.POST("/logout", h.Logout)
		users.GET("/me", auth, h.Me)
		users.PUT("/me", auth, h.UpdateProfile)
	}

	r.GET("/jobs", h.ListJobs)
	r.GET("/jobs/search", h.SearchJobs)
	jobs := r.Group("/jobs", auth)
	{
		jobs.POST("", h.SubmitJob)
		jobs.GET("/mine", h.ListMyJobs)
		jobs.GET("/:job_id", h.GetJob)
		jobs.PUT("/:job_id", h.UpdateJob)
		jobs.PUT("/:job_id/deadline", h.ExtendDeadline)
		jobs.DELETE("/:job_id", h.DeleteJob)
	}

	admin := r.Group("/admin", auth, middleware.RequireRole(string(structs.RoleAdmin)))
	{
		admin.GET("/jobs/pending", h.ListPendingJobs)
		admin.PUT("/jobs/approve", h.ApproveJobs)
		admin.PUT("/jobs/:job_id/approve", h.ApproveJob)
		admin.PUT("/jobs/:job_id/reject", h.RejectJob)
		admin.GET("/stats", h.Stats)
		admin.GET("/events", h.Events)
	}

	apps := r.Group("/applications", auth)
	{
		apps.POST("", h.SubmitApplication)
		apps.GET("/employer", h.EmployerApplications)
		apps.GET("/applicant", h.ApplicantApplications)
		apps.GET("/employer/interviews", h.EmployerInterviews)
		apps.GET("/applicant/interviews", h.ApplicantInterviews)
		apps.PUT("/:application_id/status", h.UpdateApplicationStatus)
		apps.PUT("/:application_id/interview-response", h.RespondInterview)
		apps.DELETE("/:application_id", h.DeleteApplication)
	}

	notes := r.Group("/notifications", auth)
	{
		notes.GET("", h.ListNotifications)
		notes.PUT("/read-all", h.MarkAllNotificationsRead)
		notes.PUT("/:notification_id/read", h.MarkNotificationRead)
		notes.DELETE("/:notification_id", h.DeleteNotification)
	}
}

// actor returns the authenticated caller.
func actor(c *gin.Context) service.Actor {
	id, role := middleware.CurrentUser(c)
	return service.Actor{ID: id, Role: structs.Role(role)}
}

// bindJSON decodes the body into req and writes a 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest("invalid request body"))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest("invalid query parameters"))
		return false
	}
	return true
}

// reply writes data or the classified error.
func reply(c *gin.Context, data any, err error) {
	if err != nil {
		resp.Error(c.Writer, err)
		return
	}
	resp.Success(c.Writer, data)
}

func created(c *gin.Context, data any, err error) {
	if err != nil {
		resp.Error(c.Writer, err)
		return
	}
	resp.WithStatusCode(c.Writer, http.StatusCreated, data)
}
