package dto

import "time"

// ── dues ledger ──

// DuesResponse one ledger record.
type DuesResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Month       string     `json:"month"`
	Year        int        `json:"year"`
	Amount      int        `json:"amount"`
	IsPaid      bool       `json:"is_paid"`
	PaymentDate *time.Time `json:"payment_date"`
	IBAN        string     `json:"iban"`
}

// DuesExportRequest query for the xlsx export.
type DuesExportRequest struct {
	Year int `form:"year" binding:"omitempty,min=2000,max=2100"`
}
