package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/jobboard/internal/structs"
	"github.com/ncobase/jobboard/net/resp"
)

// SubmitApplication handles POST /applications. The body is a multipart form
// with the application fields and a "resume" file.
func (h *Handler) SubmitApplication(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody)

	var req structs.SubmitApplicationRequest
	if err := c.ShouldBind(&req); err != nil {
		if tooLarge(err) {
			resp.Fail(c.Writer, resp.TooLarge("request body is too large"))
			return
		}
		resp.Fail(c.Writer, resp.BadRequest("invalid form data"))
		return
	}

	file, err := readResume(c)
	if err != nil {
		if tooLarge(err) {
			resp.Fail(c.Writer, resp.TooLarge("request body is too large"))
			return
		}
		h.logger.Warn(c.Request.Context(), "failed to read resume", "error", err)
		resp.Fail(c.Writer, resp.BadRequest("failed to read resume"))
		return
	}

	app, err := h.svc.Application.Submit(c.Request.Context(), actor(c), &req, file)
	created(c, app, err)
}

// readResume returns the uploaded resume, nil when the form has none.
func readResume(c *gin.Context) (*structs.ResumeUpload, error) {
	fh, err := c.FormFile("resume")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &structs.ResumeUpload{Filename: fh.Filename, Size: fh.Size, Data: data}, nil
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

// EmployerApplications handles GET /applications/employer.
func (h *Handler) EmployerApplications(c *gin.Context) {
	apps, err := h.svc.Application.ListForEmployer(c.Request.Context(), actor(c))
	reply(c, apps, err)
}

// ApplicantApplications handles GET /applications/applicant.
func (h *Handler) ApplicantApplications(c *gin.Context) {
	apps, err := h.svc.Application.ListForApplicant(c.Request.Context(), actor(c))
	reply(c, apps, err)
}

// EmployerInterviews handles GET /applications/employer/interviews.
func (h *Handler) EmployerInterviews(c *gin.Context) {
	apps, err := h.svc.Application.EmployerInterviews(c.Request.Context(), actor(c))
	reply(c, apps, err)
}

// ApplicantInterviews handles GET /applications/applicant/interviews.
func (h *Handler) ApplicantInterviews(c *gin.Context) {
	apps, err := h.svc.Application.ApplicantInterviews(c.Request.Context(), actor(c))
	reply(c, apps, err)
}

// UpdateApplicationStatus handles PUT /applications/:application_id/status.
func (h *Handler) UpdateApplicationStatus(c *gin.Context) {
	var req structs.UpdateApplicationStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	app, err := h.svc.Application.UpdateStatus(c.Request.Context(), actor(c), c.Param("application_id"), &req)
	reply(c, app, err)
}

// RespondInterview handles PUT /applications/:application_id/interview-response.
func (h *Handler) RespondInterview(c *gin.Context) {
	var req structs.InterviewResponseRequest
	if !bindJSON(c, &req) {
		return
	}
	app, err := h.svc.Application.RespondInterview(c.Request.Context(), actor(c), c.Param("application_id"), &req)
	reply(c, app, err)
}

// DeleteApplication handles DELETE /applications/:application_id.
func (h *Handler) DeleteApplication(c *gin.Context) {
	if err := h.svc.Application.Delete(c.Request.Context(), actor(c), c.Param("application_id")); err != nil {
		resp.Error(c.Writer, err)
		return
	}
	resp.Success(c.Writer, "application deleted")
}
