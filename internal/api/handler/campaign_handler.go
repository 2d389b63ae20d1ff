package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/utkandevrim/ac/internal/dto"
	"github.com/utkandevrim/ac/internal/service"
	"github.com/utkandevrim/ac/pkg/response"
)

// CampaignHandler partner campaigns and QR redemption.
type CampaignHandler struct {
	campaignSvc service.CampaignService
}

// NewCampaignHandler creates a CampaignHandler.
func NewCampaignHandler(campaignSvc service.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaignSvc: campaignSvc}
}

// List active campaigns.
// GET /api/campaigns
func (h *CampaignHandler) List(c *gin.Context) {
	campaigns, err := h.campaignSvc.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, campaigns)
}

// Get one active campaign.
// GET /api/campaigns/:id
func (h *CampaignHandler) Get(c *gin.Context) {
	campaign, err := h.campaignSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, campaign)
}

// Create (admin).
// POST /api/campaigns
func (h *CampaignHandler) Create(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	campaign, err := h.campaignSvc.Create(c.Request.Context(), &req, caller)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, campaign)
}

// Update (admin).
// PUT /api/campaigns/:id
func (h *CampaignHandler) Update(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	campaign, err := h.campaignSvc.Update(c.Request.Context(), c.Param("id"), &req, caller)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, campaign)
}

// Delete deactivates a campaign (admin).
// DELETE /api/campaigns/:id
func (h *CampaignHandler) Delete(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	if err := h.campaignSvc.Delete(c.Request.Context(), c.Param("id"), caller); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, dto.MessageResponse{Message: "Campaign deleted successfully"})
}

// GenerateQR issues a single-use redemption token for the caller.
// POST /api/campaigns/:id/generate-qr
func (h *CampaignHandler) GenerateQR(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	issued, err := h.campaignSvc.GenerateQR(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, issued)
}

// VerifyQR is called by partner terminals without credentials. Rejections
// are a normal result (valid=false), not an HTTP error.
// GET /api/verify-qr/:token
func (h *CampaignHandler) VerifyQR(c *gin.Context) {
	result, err := h.campaignSvc.VerifyQR(c.Request.Context(), c.Param("token"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, result)
}
