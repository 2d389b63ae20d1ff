package dto

import "time"

// ── site content ──

// UpdateAboutRequest replaces the about page.
type UpdateAboutRequest struct {
	Content string   `json:"content" binding:"required"`
	Photos  []string `json:"photos"`
}

// AboutResponse about page.
type AboutResponse struct {
	Content     string     `json:"content"`
	Photos      []string   `json:"photos"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
}

// UpdateHomepageRequest replaces the homepage block.
type UpdateHomepageRequest struct {
	HeroTitle    string   `json:"hero_title"    binding:"max=300"`
	HeroSubtitle string   `json:"hero_subtitle" binding:"max=500"`
	Content      string   `json:"content"`
	Photos       []string `json:"photos"`
}

// HomepageResponse homepage block.
type HomepageResponse struct {
	HeroTitle    string     `json:"hero_title"`
	HeroSubtitle string     `json:"hero_subtitle"`
	Content      string     `json:"content"`
	Photos       []string   `json:"photos"`
	LastUpdated  *time.Time `json:"last_updated,omitempty"`
}

// UploadResponse a stored upload.
type UploadResponse struct {
	FileURL string `json:"file_url"`
}
