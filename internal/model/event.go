package model

import "time"

// Event a club event, table events.
type Event struct {
	ID          string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Title       string      `gorm:"type:varchar(200);not null"                     json:"title"`
	Description string      `gorm:"type:text;not null"                             json:"description"`
	Date        time.Time   `gorm:"not null"                                       json:"date"`
	Location    string      `gorm:"type:varchar(200)"                              json:"location,omitempty"`
	Photos      StringArray `gorm:"type:text[];not null;default:'{}'"              json:"photos"`
	BaseModel
}

// TableName events
func (Event) TableName() string { return "events" }
