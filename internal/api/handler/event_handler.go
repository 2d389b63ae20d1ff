package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/utkandevrim/ac/internal/dto"
	"github.com/utkandevrim/ac/internal/service"
	"github.com/utkandevrim/ac/pkg/response"
)

// EventHandler club events, their photos and the iCalendar feed.
type EventHandler struct {
	eventSvc service.EventService
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(eventSvc service.EventService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc}
}

// List events, newest first.
// GET /api/events
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.eventSvc.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, events)
}

// Get one event.
// GET /api/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.eventSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, event)
}

// Create (admin).
// POST /api/events
func (h *EventHandler) Create(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	event, err := h.eventSvc.Create(c.Request.Context(), &req, caller)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, event)
}

// Update (admin).
// PUT /api/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	event, err := h.eventSvc.Update(c.Request.Context(), c.Param("id"), &req, caller)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, event)
}

// Delete (admin).
// DELETE /api/events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	if err := h.eventSvc.Delete(c.Request.Context(), c.Param("id"), caller); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, dto.MessageResponse{Message: "Event deleted successfully"})
}

// UploadPhoto stores the multipart "file" and appends it to the event (admin).
// POST /api/events/:id/upload-photo
func (h *EventHandler) UploadPhoto(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	f, name, ok := openFormFile(c)
	if !ok {
		return
	}
	defer f.Close()

	event, err := h.eventSvc.UploadPhoto(c.Request.Context(), c.Param("id"), name, f, caller)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, event)
}

// Calendar public iCalendar feed.
// GET /api/events/calendar.ics
func (h *EventHandler) Calendar(c *gin.Context) {
	feed, err := h.eventSvc.Calendar(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="actor-club.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}

// Import creates events from an uploaded .ics file (admin).
// POST /api/events/import
func (h *EventHandler) Import(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	f, _, ok := openFormFile(c)
	if !ok {
		return
	}
	defer f.Close()

	events, err := h.eventSvc.ImportCalendar(c.Request.Context(), f, caller)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, events)
}
