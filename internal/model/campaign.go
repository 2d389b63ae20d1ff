package model

import "time"

// Campaign a partner discount offer, table campaigns.
// Deleting a campaign only clears IsActive.
type Campaign struct {
	ID              string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Title           string     `gorm:"type:varchar(200);not null"                     json:"title"`
	Description     string     `gorm:"type:text;not null"                             json:"description"`
	CompanyName     string     `gorm:"type:varchar(200);not null"                     json:"company_name"`
	DiscountDetails string     `gorm:"type:text;not null"                             json:"discount_details"`
	TermsConditions string     `gorm:"type:text"                                      json:"terms_conditions,omitempty"`
	ImageURL        string     `gorm:"type:varchar(500)"                              json:"image_url,omitempty"`
	IsActive        bool       `gorm:"not null;default:true"                          json:"is_active"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	BaseModel
}

// TableName campaigns
func (Campaign) TableName() string { return "campaigns" }

// Expired reports whether the campaign has an expiry in the past.
func (c *Campaign) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}
