package dto

// ── members ──

// MemberProfile optional free-text profile fields.
type MemberProfile struct {
	Phone        string   `json:"phone"         binding:"omitempty,max=50"`
	BirthDate    string   `json:"birth_date"    binding:"omitempty,max=20"`
	Address      string   `json:"address"`
	Workplace    string   `json:"workplace"     binding:"omitempty,max=200"`
	JobTitle     string   `json:"job_title"     binding:"omitempty,max=200"`
	Hobbies      string   `json:"hobbies"`
	Skills       string   `json:"skills"`
	Height       string   `json:"height"        binding:"omitempty,max=20"`
	Weight       string   `json:"weight"        binding:"omitempty,max=20"`
	ProfilePhoto string   `json:"profile_photo" binding:"omitempty,max=500"`
	Projects     []string `json:"projects"`
	BoardMember  string   `json:"board_member"  binding:"omitempty,max=200"`
}

// CreateMemberRequest admin member creation.
type CreateMemberRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"     binding:"required,max=100"`
	Surname  string `json:"surname"  binding:"required,max=100"`
	MemberProfile
}

// UpdateMemberRequest partial profile update. Nil fields are left unchanged.
// IsApproved, IsAdmin and BoardMember are admin-only.
type UpdateMemberRequest struct {
	Name         *string   `json:"name"          binding:"omitempty,min=1,max=100"`
	Surname      *string   `json:"surname"       binding:"omitempty,min=1,max=100"`
	Phone        *string   `json:"phone"         binding:"omitempty,max=50"`
	BirthDate    *string   `json:"birth_date"    binding:"omitempty,max=20"`
	Address      *string   `json:"address"`
	Workplace    *string   `json:"workplace"     binding:"omitempty,max=200"`
	JobTitle     *string   `json:"job_title"     binding:"omitempty,max=200"`
	Hobbies      *string   `json:"hobbies"`
	Skills       *string   `json:"skills"`
	Height       *string   `json:"height"        binding:"omitempty,max=20"`
	Weight       *string   `json:"weight"        binding:"omitempty,max=20"`
	ProfilePhoto *string   `json:"profile_photo" binding:"omitempty,max=500"`
	Projects     *[]string `json:"projects"`
	BoardMember  *string   `json:"board_member"  binding:"omitempty,max=200"`
	IsApproved   *bool     `json:"is_approved"`
	IsAdmin      *bool     `json:"is_admin"`
}

// SetAdminRequest grants or revokes admin.
type SetAdminRequest struct {
	IsAdmin *bool `json:"is_admin" binding:"required"`
}

// BackfillResult outcome of the username backfill job.
type BackfillResult struct {
	Updated    []string `json:"updated"`
	Collisions []string `json:"collisions"`
	Skipped    []string `json:"skipped"`
}
