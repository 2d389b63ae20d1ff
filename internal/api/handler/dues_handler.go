package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/utkandevrim/ac/internal/dto"
	"github.com/utkandevrim/ac/internal/service"
	"github.com/utkandevrim/ac/pkg/response"
)

// DuesHandler the monthly dues ledger.
type DuesHandler struct {
	duesSvc service.DuesService
}

// NewDuesHandler creates a DuesHandler.
func NewDuesHandler(duesSvc service.DuesService) *DuesHandler {
	return &DuesHandler{duesSvc: duesSvc}
}

// ListForMember a member's ledger (self or admin). The path id is the member id.
// GET /api/dues/:id
func (h *DuesHandler) ListForMember(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	records, err := h.duesSvc.ListForMember(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, records)
}

// MarkPaid (admin). The path id is the dues record id.
// PUT /api/dues/:id/pay
func (h *DuesHandler) MarkPaid(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	if err := h.duesSvc.MarkPaid(c.Request.Context(), c.Param("id"), caller); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, dto.MessageResponse{Message: "Due marked as paid"})
}

// MarkUnpaid (admin).
// PUT /api/dues/:id/unpay
func (h *DuesHandler) MarkUnpaid(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	if err := h.duesSvc.MarkUnpaid(c.Request.Context(), c.Param("id"), caller); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, dto.MessageResponse{Message: "Due marked as unpaid"})
}
