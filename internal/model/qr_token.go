package model

import "time"

// QRToken a single-use redemption grant, table qr_tokens. Rows are never deleted.
type QRToken struct {
	ID         string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Token      string     `gorm:"type:varchar(100);not null"                     json:"token"`
	UserID     string     `gorm:"type:uuid;not null"                             json:"user_id"`
	CampaignID string     `gorm:"type:uuid;not null"                             json:"campaign_id"`
	CreatedAt  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	ExpiresAt  time.Time  `gorm:"not null"                                       json:"expires_at"`
	IsUsed     bool       `gorm:"not null;default:false"                         json:"is_used"`
	UsedAt     *time.Time `json:"used_at,omitempty"`
}

// TableName qr_tokens
func (QRToken) TableName() string { return "qr_tokens" }
