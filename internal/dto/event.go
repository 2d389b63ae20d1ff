package dto

import "time"

// ── events ──

// CreateEventRequest new event.
type CreateEventRequest struct {
	Title       string    `json:"title"       binding:"required,max=200"`
	Description string    `json:"description" binding:"required"`
	Date        time.Time `json:"date"        binding:"required"`
	Location    string    `json:"location"    binding:"omitempty,max=200"`
	Photos      []string  `json:"photos"`
}

// UpdateEventRequest partial event update.
type UpdateEventRequest struct {
	Title       *string    `json:"title"       binding:"omitempty,min=1,max=200"`
	Description *string    `json:"description"`
	Date        *time.Time `json:"date"`
	Location    *string    `json:"location"    binding:"omitempty,max=200"`
	Photos      *[]string  `json:"photos"`
}
