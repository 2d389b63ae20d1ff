package dto

// ── auth ──

// LoginRequest username/password login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest self-registration. Username and password rules are checked
// by the service so violations come back as field errors.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"     binding:"required,max=100"`
	Surname  string `json:"surname"  binding:"required,max=100"`
	MemberProfile
}

// ChangePasswordRequest accepted as JSON body or as query parameters.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" form:"old_password" binding:"required"`
	NewPassword string `json:"new_password" form:"new_password" binding:"required"`
}
