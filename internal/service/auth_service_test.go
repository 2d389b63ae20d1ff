package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/utkandevrim/ac/config"
	"github.com/utkandevrim/ac/internal/dto"
	"github.com/utkandevrim/ac/internal/model"
	apperrors "github.com/utkandevrim/ac/pkg/errors"
	"github.com/utkandevrim/ac/pkg/jwt"
)

func setupTestAuthService() (*authService, *testEnv, *fakeBlacklist) {
	env := newTestEnv()
	bl := newFakeBlacklist()
	svc := NewAuthService(env.cfg, env.repo, jwt.NewManager(&env.cfg.Auth), bl, env.logger).(*authService)
	svc.members.now = fixedClock
	return svc, env, bl
}

func seedMember(t *testing.T, env *testEnv, username, password string, approved bool) *model.Member {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	m := &model.Member{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Name:         "Test",
		Surname:      "Üye",
		IsApproved:   approved,
	}
	require.NoError(t, env.members.Create(context.Background(), m))
	return m
}

// ── Login ──

func TestAuthService_Login_Success(t *testing.T) {
	svc, env, _ := setupTestAuthService()
	m := seedMember(t, env, "ayse.yilmaz", "Gecerli1!", true)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "ayse.yilmaz", Password: "Gecerli1!"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, int((24 * time.Hour).Seconds()), resp.ExpiresIn)
	assert.Equal(t, m.ID, resp.User.ID)

	claims, err := jwt.NewManager(&env.cfg.Auth).ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, m.ID, claims.Subject)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestAuthService_Login_Failures(t *testing.T) {
	svc, env, _ := setupTestAuthService()
	seedMember(t, env, "ayse.yilmaz", "Gecerli1!", true)
	seedMember(t, env, "ali.veli", "Gecerli1!", false)
	_ = env.members.Create(context.Background(), &model.Member{Username: "eski.uye", Email: "eski@example.com", IsApproved: true})

	tests := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{"unknown username", "yok.kimse", "Gecerli1!", ErrInvalidCredentials},
		{"wrong password", "ayse.yilmaz", "Yanlis1!", ErrInvalidCredentials},
		{"username is case sensitive", "Ayse.yilmaz", "Gecerli1!", ErrInvalidCredentials},
		{"no stored hash", "eski.uye", "Gecerli1!", ErrInvalidCredentials},
		{"unapproved, wrong password", "ali.veli", "Yanlis1!", ErrInvalidCredentials},
		{"unapproved, right password", "ali.veli", "Gecerli1!", ErrNotApproved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), &dto.LoginRequest{Username: tt.username, Password: tt.password})
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, apperrors.ErrUnauthorized, apperrors.KindOf(err))
		})
	}
}

// ── Register ──

func TestAuthService_Register_PendingUntilApproved(t *testing.T) {
	svc, env, _ := setupTestAuthService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, &dto.RegisterRequest{
		Username: "ali.veli",
		Email:    "Ali@Example.com",
		Password: "Gecerli1!",
		Name:     "Ali",
		Surname:  "Veli",
	})
	require.NoError(t, err)
	assert.False(t, resp.IsApproved)
	assert.Equal(t, "ali@example.com", resp.Email)

	records, _ := env.dues.ListByUser(ctx, resp.ID)
	assert.Len(t, records, 10)

	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "ali.veli", Password: "Gecerli1!"})
	assert.ErrorIs(t, err, ErrNotApproved)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Username: "ali.veli", Email: "x@example.com", Password: "Gecerli1!", Name: "A", Surname: "V"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Username: "ali.veli", Email: "ali@example.com", Password: "NoSpecial123", Name: "Ali", Surname: "Veli",
	})
	var ve *apperrors.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "password", ve.Field)
}

// ── Resolve / Logout ──

func TestAuthService_Resolve(t *testing.T) {
	svc, env, _ := setupTestAuthService()
	ctx := context.Background()
	m := seedMember(t, env, "ayse.yilmaz", "Gecerli1!", true)

	login, err := svc.Login(ctx, &dto.LoginRequest{Username: "ayse.yilmaz", Password: "Gecerli1!"})
	require.NoError(t, err)

	session, err := svc.Resolve(ctx, login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, m.ID, session.Member.ID)
	assert.Equal(t, Caller{ID: m.ID}, session.Caller())

	_, err = svc.Resolve(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	expired := jwt.NewManager(&config.AuthConfig{JWTSecret: env.cfg.Auth.JWTSecret, AccessTokenTTL: -time.Minute})
	old, _ := expired.GenerateAccessToken(m.ID, m.Username, false)
	_, err = svc.Resolve(ctx, old)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestAuthService_Resolve_MemberStateChanges(t *testing.T) {
	svc, env, _ := setupTestAuthService()
	ctx := context.Background()
	m := seedMember(t, env, "ayse.yilmaz", "Gecerli1!", true)
	login, _ := svc.Login(ctx, &dto.LoginRequest{Username: "ayse.yilmaz", Password: "Gecerli1!"})

	m.IsAdmin = true
	session, err := svc.Resolve(ctx, login.AccessToken)
	require.NoError(t, err)
	assert.True(t, session.Caller().IsAdmin, "admin flag is read from the store, not the token")

	m.IsApproved = false
	_, err = svc.Resolve(ctx, login.AccessToken)
	assert.ErrorIs(t, err, ErrNotApproved)

	require.NoError(t, env.members.Delete(ctx, m.ID))
	_, err = svc.Resolve(ctx, login.AccessToken)
	assert.ErrorIs(t, err, ErrSessionMemberGone)
}

func TestAuthService_Logout(t *testing.T) {
	svc, env, bl := setupTestAuthService()
	ctx := context.Background()
	seedMember(t, env, "ayse.yilmaz", "Gecerli1!", true)
	login, _ := svc.Login(ctx, &dto.LoginRequest{Username: "ayse.yilmaz", Password: "Gecerli1!"})

	session, err := svc.Resolve(ctx, login.AccessToken)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, session.Claims))
	assert.Contains(t, bl.revoked, session.Claims.ID)

	_, err = svc.Resolve(ctx, login.AccessToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestAuthService_Resolve_BlacklistOutageFailsOpen(t *testing.T) {
	svc, env, bl := setupTestAuthService()
	ctx := context.Background()
	seedMember(t, env, "ayse.yilmaz", "Gecerli1!", true)
	login, _ := svc.Login(ctx, &dto.LoginRequest{Username: "ayse.yilmaz", Password: "Gecerli1!"})

	bl.err = errors.New("redis down")
	_, err := svc.Resolve(ctx, login.AccessToken)
	assert.NoError(t, err)
}

// ── ChangePassword ──

func TestAuthService_ChangePassword(t *testing.T) {
	svc, env, _ := setupTestAuthService()
	ctx := context.Background()
	m := seedMember(t, env, "ayse.yilmaz", "Gecerli1!", true)

	err := svc.ChangePassword(ctx, m.ID, &dto.ChangePasswordRequest{OldPassword: "Yanlis1!", NewPassword: "YeniSifre1!"})
	assert.ErrorIs(t, err, ErrWrongPassword)
	assert.Equal(t, apperrors.ErrBadRequest, apperrors.KindOf(err))

	err = svc.ChangePassword(ctx, m.ID, &dto.ChangePasswordRequest{OldPassword: "Gecerli1!", NewPassword: "kisa1!"})
	assert.Equal(t, apperrors.ErrValidation, apperrors.KindOf(err))

	require.NoError(t, svc.ChangePassword(ctx, m.ID, &dto.ChangePasswordRequest{OldPassword: "Gecerli1!", NewPassword: "YeniSifre1!"}))

	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "ayse.yilmaz", Password: "Gecerli1!"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "ayse.yilmaz", Password: "YeniSifre1!"})
	assert.NoError(t, err)
}

// ── EnsureSeedAdmins ──

func TestAuthService_EnsureSeedAdmins(t *testing.T) {
	svc, env, _ := setupTestAuthService()
	ctx := context.Background()
	existing := seedMember(t, env, "mevcut.yonetici", "Eskisifre1!", false)
	originalHash := existing.PasswordHash

	admins := []config.SeedAdmin{
		{Username: "kurucu.admin", Email: "Kurucu@Example.com", Password: "Kurucu123!", Name: "Kurucu", Surname: "Admin"},
		{Username: "mevcut.yonetici", Email: "mevcut@example.com", Password: "Baska123!"},
	}
	require.NoError(t, svc.EnsureSeedAdmins(ctx, admins))
	require.NoError(t, svc.EnsureSeedAdmins(ctx, admins))

	created, err := env.members.GetByUsername(ctx, "kurucu.admin")
	require.NoError(t, err)
	assert.True(t, created.IsAdmin)
	assert.True(t, created.IsApproved)
	assert.Equal(t, "kurucu@example.com", created.Email)

	records, _ := env.dues.ListByUser(ctx, created.ID)
	assert.Empty(t, records, "seed admins carry no ledger")

	assert.True(t, existing.IsAdmin)
	assert.True(t, existing.IsApproved)
	assert.Equal(t, originalHash, existing.PasswordHash)
}
