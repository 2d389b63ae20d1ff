package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/utkandevrim/ac/internal/dto"
	"github.com/utkandevrim/ac/internal/service"
	"github.com/utkandevrim/ac/pkg/response"
)

// ContentHandler the about page, the homepage block and the leadership roster.
type ContentHandler struct {
	contentSvc    service.ContentService
	leadershipSvc service.LeadershipService
}

// NewContentHandler creates a ContentHandler.
func NewContentHandler(contentSvc service.ContentService, leadershipSvc service.LeadershipService) *ContentHandler {
	return &ContentHandler{contentSvc: contentSvc, leadershipSvc: leadershipSvc}
}

// GetAbout GET /api/about
func (h *ContentHandler) GetAbout(c *gin.Context) {
	about, err := h.contentSvc.GetAbout(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, about)
}

// UpdateAbout PUT /api/about (admin)
func (h *ContentHandler) UpdateAbout(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.UpdateAboutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	about, err := h.contentSvc.UpdateAbout(c.Request.Context(), &req, caller)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, about)
}

// GetHomepage GET /api/homepage-content
func (h *ContentHandler) GetHomepage(c *gin.Context) {
	home, err := h.contentSvc.GetHomepage(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, home)
}

// UpdateHomepage PUT /api/homepage-content (admin)
func (h *ContentHandler) UpdateHomepage(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.UpdateHomepageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	home, err := h.contentSvc.UpdateHomepage(c.Request.Context(), &req, caller)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, home)
}

// ListLeaders GET /api/leadership
func (h *ContentHandler) ListLeaders(c *gin.Context) {
	leaders, err := h.leadershipSvc.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, leaders)
}

// UpdateLeader patches a roster entry (admin). The body may be empty when
// only the legacy photo_url query parameter is sent.
// PUT /api/leadership/:id
func (h *ContentHandler) UpdateLeader(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.UpdateLeaderRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		bindError(c, err)
		return
	}
	if photo, ok := c.GetQuery("photo_url"); ok && req.Photo == nil {
		req.Photo = &photo
	}

	leader, err := h.leadershipSvc.Update(c.Request.Context(), c.Param("id"), &req, caller)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, leader)
}
