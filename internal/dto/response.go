package dto

import "time"

// ── auth responses ──

// LoginResponse bearer token plus the member.
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresIn   int            `json:"expires_in"`
	User        MemberResponse `json:"user"`
}

// MessageResponse a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// ── member responses ──

// MemberResponse a member without credentials.
type MemberResponse struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	Phone        string    `json:"phone,omitempty"`
	BirthDate    string    `json:"birth_date,omitempty"`
	Address      string    `json:"address,omitempty"`
	Workplace    string    `json:"workplace,omitempty"`
	JobTitle     string    `json:"job_title,omitempty"`
	Hobbies      string    `json:"hobbies,omitempty"`
	Skills       string    `json:"skills,omitempty"`
	Height       string    `json:"height,omitempty"`
	Weight       string    `json:"weight,omitempty"`
	ProfilePhoto string    `json:"profile_photo,omitempty"`
	Projects     []string  `json:"projects"`
	BoardMember  string    `json:"board_member,omitempty"`
	IsAdmin      bool      `json:"is_admin"`
	IsApproved   bool      `json:"is_approved"`
	CreatedAt    time.Time `json:"created_at"`
}
