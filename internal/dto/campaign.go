package dto

import "time"

// ── campaigns & qr ──

// CreateCampaignRequest new partner campaign.
type CreateCampaignRequest struct {
	Title           string     `json:"title"            binding:"required,max=200"`
	Description     string     `json:"description"      binding:"required"`
	CompanyName     string     `json:"company_name"     binding:"required,max=200"`
	DiscountDetails string     `json:"discount_details" binding:"required"`
	TermsConditions string     `json:"terms_conditions"`
	ImageURL        string     `json:"image_url"        binding:"omitempty,max=500"`
	ExpiresAt       *time.Time `json:"expires_at"`
}

// UpdateCampaignRequest partial campaign update.
type UpdateCampaignRequest struct {
	Title           *string    `json:"title"            binding:"omitempty,min=1,max=200"`
	Description     *string    `json:"description"`
	CompanyName     *string    `json:"company_name"     binding:"omitempty,min=1,max=200"`
	DiscountDetails *string    `json:"discount_details"`
	TermsConditions *string    `json:"terms_conditions"`
	ImageURL        *string    `json:"image_url"        binding:"omitempty,max=500"`
	IsActive        *bool      `json:"is_active"`
	ExpiresAt       *time.Time `json:"expires_at"`
}

// GenerateQRResponse an issued redemption token.
type GenerateQRResponse struct {
	QRToken       string    `json:"qr_token"`
	ExpiresAt     time.Time `json:"expires_at"`
	CampaignTitle string    `json:"campaign_title"`
	VerifyURL     string    `json:"verify_url"`
	QRImage       string    `json:"qr_image,omitempty"`
}

// VerifiedMember the member shown to the partner terminal.
type VerifiedMember struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Photo    string `json:"photo"`
	Username string `json:"username"`
}

// VerifiedCampaign the campaign shown to the partner terminal.
type VerifiedCampaign struct {
	Title   string `json:"title"`
	Company string `json:"company"`
}

// VerificationResult outcome of a token check.
type VerificationResult struct {
	Valid    bool              `json:"valid"`
	Message  string            `json:"message"`
	Reason   string            `json:"reason,omitempty"`
	Member   *VerifiedMember   `json:"member,omitempty"`
	Campaign *VerifiedCampaign `json:"campaign,omitempty"`
}
