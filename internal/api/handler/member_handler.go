package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/utkandevrim/ac/internal/dto"
	"github.com/utkandevrim/ac/internal/service"
	"github.com/utkandevrim/ac/pkg/response"
)

// MemberHandler member directory and administration.
type MemberHandler struct {
	memberSvc service.MemberService
}

// NewMemberHandler creates a MemberHandler.
func NewMemberHandler(memberSvc service.MemberService) *MemberHandler {
	return &MemberHandler{memberSvc: memberSvc}
}

// Create adds an approved member with a fresh dues ledger (admin).
// POST /api/users
func (h *MemberHandler) Create(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	member, err := h.memberSvc.Create(c.Request.Context(), &req, caller)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, member)
}

// List approved members.
// GET /api/users
func (h *MemberHandler) List(c *gin.Context) {
	members, err := h.memberSvc.ListApproved(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, members)
}

// ListPending members awaiting approval (admin).
// GET /api/users/pending
func (h *MemberHandler) ListPending(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	members, err := h.memberSvc.ListPending(c.Request.Context(), caller)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, members)
}

// Get one member.
// GET /api/users/:id
func (h *MemberHandler) Get(c *gin.Context) {
	member, err := h.memberSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, member)
}

// Update patches a profile (self or admin).
// PUT /api/users/:id
func (h *MemberHandler) Update(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	member, err := h.memberSvc.Update(c.Request.Context(), c.Param("id"), &req, caller)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, member)
}

// Delete removes a member and their dues (admin).
// DELETE /api/users/:id
func (h *MemberHandler) Delete(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	if err := h.memberSvc.Delete(c.Request.Context(), c.Param("id"), caller); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, dto.MessageResponse{Message: "User deleted successfully"})
}

// Search by name, surname or email.
// GET /api/users/search/:query
func (h *MemberHandler) Search(c *gin.Context) {
	members, err := h.memberSvc.Search(c.Request.Context(), c.Param("query"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, members)
}

// Approve a pending registration (admin).
// PUT /api/users/:id/approve
func (h *MemberHandler) Approve(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	member, err := h.memberSvc.Approve(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, member)
}

// SetAdmin grants or revokes admin (admin).
// PUT /api/users/:id/admin
func (h *MemberHandler) SetAdmin(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.SetAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	member, err := h.memberSvc.SetAdmin(c.Request.Context(), c.Param("id"), *req.IsAdmin, caller)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, member)
}
