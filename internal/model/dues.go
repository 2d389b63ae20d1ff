package model

import "time"

// Dues one month of a member's fee ledger, table dues.
// (user_id, month, year) is unique.
type Dues struct {
	ID          string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID      string     `gorm:"type:uuid;not null"                             json:"user_id"`
	Month       string     `gorm:"type:varchar(20);not null"                      json:"month"`
	Year        int        `gorm:"not null"                                       json:"year"`
	Amount      int        `gorm:"not null"                                       json:"amount"`
	IsPaid      bool       `gorm:"not null;default:false"                         json:"is_paid"`
	PaymentDate *time.Time `json:"payment_date"`
	IBAN        string     `gorm:"column:iban;type:varchar(64);not null"          json:"iban"`
	BaseModel
}

// TableName dues
func (Dues) TableName() string { return "dues" }

// AcademicMonths is the ordered academic year the ledger covers.
var AcademicMonths = []string{
	"Eylül", "Ekim", "Kasım", "Aralık", "Ocak",
	"Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
}

var monthNames = map[time.Month]string{
	time.September: "Eylül",
	time.October:   "Ekim",
	time.November:  "Kasım",
	time.December:  "Aralık",
	time.January:   "Ocak",
	time.February:  "Şubat",
	time.March:     "Mart",
	time.April:     "Nisan",
	time.May:       "Mayıs",
	time.June:      "Haziran",
}

// MonthName maps a calendar month to its ledger name. July and August have
// none and return "".
func MonthName(m time.Month) string {
	return monthNames[m]
}
