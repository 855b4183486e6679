package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/jobboard/internal/structs"
	"github.com/ncobase/jobboard/net/cookie"
	"github.com/ncobase/jobboard/net/resp"
)

// Register handles POST /users/register.
func (h *Handler) Register(c *gin.Context) {
	var req structs.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.svc.User.Register(c.Request.Context(), &req)
	if err != nil {
		resp.Error(c.Writer, err)
		return
	}
	cookie.SetToken(c.Writer, res.Token, h.cookie)
	resp.WithStatusCode(c.Writer, http.StatusCreated, res)
}

// Login handles POST /users/login.
func (h *Handler) Login(c *gin.Context) {
	var req structs.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.svc.User.Login(c.Request.Context(), &req)
	if err != nil {
		resp.Error(c.Writer, err)
		return
	}
	cookie.SetToken(c.Writer, res.Token, h.cookie)
	resp.Success(c.Writer, res)
}

// Logout handles POST /users/logout.
func (h *Handler) Logout(c *gin.Context) {
	cookie.ClearToken(c.Writer, h.cookie)
	resp.Success(c.Writer, "logged out")
}

// Me handles GET /users/me.
func (h *Handler) Me(c *gin.Context) {
	user, err := h.svc.User.Me(c.Request.Context(), actor(c))
	reply(c, user, err)
}

// UpdateProfile handles PUT /users/me.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req structs.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.svc.User.UpdateProfile(c.Request.Context(), actor(c), &req)
	reply(c, user, err)
}
