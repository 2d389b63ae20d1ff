package service

import (
	apperrors "github.com/utkandevrim/ac/pkg/errors"
)

// ── auth ──

var (
	ErrInvalidCredentials = apperrors.New(apperrors.ErrUnauthorized, "invalid username or password")
	ErrNotApproved        = apperrors.New(apperrors.ErrUnauthorized, "membership has not been approved yet")
	ErrTokenExpired       = apperrors.New(apperrors.ErrUnauthorized, "token expired")
	ErrTokenInvalid       = apperrors.New(apperrors.ErrUnauthorized, "token invalid")
	ErrTokenRevoked       = apperrors.New(apperrors.ErrUnauthorized, "token revoked")
	ErrSessionMemberGone  = apperrors.New(apperrors.ErrUnauthorized, "member not found")
	ErrWrongPassword      = apperrors.New(apperrors.ErrBadRequest, "current password is incorrect")
)

// ── members ──

var (
	ErrForbidden          = apperrors.New(apperrors.ErrForbidden, "insufficient privilege")
	ErrMemberNotFound     = apperrors.New(apperrors.ErrNotFound, "member not found")
	ErrEmailTaken         = apperrors.New(apperrors.ErrConflict, "email already registered")
	ErrUsernameTaken      = apperrors.New(apperrors.ErrConflict, "username already taken")
	ErrMemberExists       = apperrors.New(apperrors.ErrConflict, "email or username already registered")
	ErrSelfDelete         = apperrors.New(apperrors.ErrBadRequest, "you cannot delete your own account")
	ErrSelfAdminChange    = apperrors.New(apperrors.ErrForbidden, "you cannot change your own admin flag")
	ErrPrivilegedFieldSet = apperrors.New(apperrors.ErrForbidden, "only admins can change approval, admin or board fields")
)

// ── dues ──

var (
	ErrDuesNotFound = apperrors.New(apperrors.ErrNotFound, "dues record not found")
)

// ── campaigns ──

var (
	ErrCampaignNotFound = apperrors.New(apperrors.ErrNotFound, "campaign not found")
	ErrDuesIncomplete   = apperrors.New(apperrors.ErrForbidden, "all dues except the current month must be paid to use campaigns")
)

// ── content ──

var (
	ErrEventNotFound  = apperrors.New(apperrors.ErrNotFound, "event not found")
	ErrLeaderNotFound = apperrors.New(apperrors.ErrNotFound, "leadership entry not found")

	ErrInvalidCalendar = apperrors.New(apperrors.ErrBadRequest, "invalid iCalendar file")
)

// Caller is the authenticated member performing an operation.
type Caller struct {
	ID      string
	IsAdmin bool
}

func requireAdmin(caller Caller) error {
	if !caller.IsAdmin {
		return ErrForbidden
	}
	return nil
}
