package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/utkandevrim/ac/internal/dto"
	"github.com/utkandevrim/ac/internal/service"
	apperrors "github.com/utkandevrim/ac/pkg/errors"
	"github.com/utkandevrim/ac/pkg/response"
)

// AuthHandler login, registration and session endpoints.
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login exchanges username and password for a bearer token.
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// Register self-registration. The account waits for admin approval.
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	member, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, member)
}

// Me returns the authenticated member.
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	session, ok := MustGetSession(c)
	if !ok {
		return
	}

	member, err := h.authSvc.Me(c.Request.Context(), session.Member.ID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, member)
}

// ChangePassword accepts old_password/new_password as query parameters or
// as a JSON body. Every failure, including a weak new password, is a 400.
// POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	session, ok := MustGetSession(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	var err error
	if c.Query("old_password") != "" || c.Query("new_password") != "" {
		err = c.ShouldBindQuery(&req)
	} else {
		err = c.ShouldBindJSON(&req)
	}
	if err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, codeBadRequest, "old_password and new_password are required", err.Error())
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), session.Member.ID, &req); err != nil {
		var ve *apperrors.ValidationError
		if errors.As(err, &ve) {
			response.ErrorWithDetails(c, http.StatusBadRequest, codeBadRequest, ve.Message, ve.Field+": "+ve.Rule)
			return
		}
		handleError(c, err)
		return
	}

	response.OK(c, dto.MessageResponse{Message: "Password updated successfully"})
}

// Logout revokes the presented token until it would have expired.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	session, ok := MustGetSession(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), session.Claims); err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, dto.MessageResponse{Message: "Logged out"})
}
